package model

import "time"

// PlantingReminderLogEntry is an append-only record of a delivered reminder.
// Uniqueness on (UserID, ReminderType, TargetDate) is the idempotency
// guarantee; rows are created only after a successful send.
type PlantingReminderLogEntry struct {
	ID           int64
	UserID       int64
	ReminderType Stage
	TargetDate   time.Time
	Year         int
	PlantNames   string
	CreatedAt    time.Time
}
