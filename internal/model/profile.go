package model

import "time"

// DefaultReminderLeadDays is used when the profile does not set a lead time.
const DefaultReminderLeadDays = 7

// GrowingProfile holds a user's frost settings and global reminder toggles.
// Read-only to the reminder engine; mutated by the user via settings.
type GrowingProfile struct {
	UserID         int64
	Email          string
	LastFrostDate  *time.Time // explicit override; only month/day matter
	FirstFrostDate *time.Time
	HardinessZone  *string

	EnableIndoorStartReminders bool
	EnableDirectSowReminders   bool
	EnableTransplantReminders  bool
	ReminderLeadDays           *int
}

// LeadDays returns the forward-looking reminder window in days.
func (p *GrowingProfile) LeadDays() int {
	if p.ReminderLeadDays != nil && *p.ReminderLeadDays > 0 {
		return *p.ReminderLeadDays
	}
	return DefaultReminderLeadDays
}

// AnyGlobalToggle reports whether any global reminder toggle is on.
// Per-item toggles only take effect when all global toggles are off.
func (p *GrowingProfile) AnyGlobalToggle() bool {
	return p.EnableIndoorStartReminders || p.EnableDirectSowReminders || p.EnableTransplantReminders
}
