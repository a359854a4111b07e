package schedule

import (
	"context"
	"fmt"
	"time"

	"gardenlore/internal/model"
)

// ZoneStore is the static hardiness-zone lookup.
type ZoneStore interface {
	GetByZone(ctx context.Context, zone string) (*model.HardinessZoneInfo, error)
}

// FrostDateResolver resolves a concrete last-frost date for a user for a
// given year, from an explicit profile override or a zone lookup.
type FrostDateResolver struct {
	zones ZoneStore
}

func NewFrostDateResolver(zones ZoneStore) *FrostDateResolver {
	return &FrostDateResolver{zones: zones}
}

// Resolve returns the user's last spring frost date projected onto year.
// ok is false when no frost date is derivable: no override, no known zone,
// or a frost-free zone. That is a skip, not an error.
func (r *FrostDateResolver) Resolve(ctx context.Context, profile *model.GrowingProfile, year int) (time.Time, bool, error) {
	if profile.LastFrostDate != nil {
		// Only month/day of the stored date matter.
		d := *profile.LastFrostDate
		return time.Date(year, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true, nil
	}

	if profile.HardinessZone == nil || *profile.HardinessZone == "" {
		return time.Time{}, false, nil
	}

	zone, err := r.zones.GetByZone(ctx, *profile.HardinessZone)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to look up zone %q: %w", *profile.HardinessZone, err)
	}
	if zone == nil {
		return time.Time{}, false, nil
	}

	return projectFrostDate(zone.LastFrostSpring, year)
}

// ResolveFirstFall resolves the first fall frost date the same way. It is
// informational only; offsets are anchored on the spring bound.
func (r *FrostDateResolver) ResolveFirstFall(ctx context.Context, profile *model.GrowingProfile, year int) (time.Time, bool, error) {
	if profile.FirstFrostDate != nil {
		d := *profile.FirstFrostDate
		return time.Date(year, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true, nil
	}

	if profile.HardinessZone == nil || *profile.HardinessZone == "" {
		return time.Time{}, false, nil
	}

	zone, err := r.zones.GetByZone(ctx, *profile.HardinessZone)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to look up zone %q: %w", *profile.HardinessZone, err)
	}
	if zone == nil {
		return time.Time{}, false, nil
	}

	return projectFrostDate(zone.FirstFrostFall, year)
}

// projectFrostDate parses a "Mon D" zone date (e.g. "Apr 15") and projects
// it onto year. The "Frost-free" sentinel yields no date for that bound.
func projectFrostDate(monthDay string, year int) (time.Time, bool, error) {
	if monthDay == model.FrostFreeSentinel {
		return time.Time{}, false, nil
	}

	parsed, err := time.Parse("Jan 2", monthDay)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("malformed frost date %q: %w", monthDay, err)
	}
	return time.Date(year, parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), true, nil
}
