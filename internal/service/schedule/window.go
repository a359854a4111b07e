package schedule

import (
	"time"

	"gardenlore/internal/model"
)

// MatchWindow selects events whose date falls in the closed interval
// [today, today+leadDays], inclusive on both ends. Comparison is by
// calendar date only; the time of day the job runs at is irrelevant.
func MatchWindow(events []model.PlantingEvent, today time.Time, leadDays int) []model.PlantingEvent {
	from := dateOnly(today)
	to := from.AddDate(0, 0, leadDays)

	var matched []model.PlantingEvent
	for _, e := range events {
		d := dateOnly(e.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		matched = append(matched, e)
	}
	return matched
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
