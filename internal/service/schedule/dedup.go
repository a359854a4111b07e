package schedule

import (
	"gardenlore/internal/model"
)

// FilterNew strips candidates already recorded in the reminder log,
// guaranteeing at-most-once delivery per (reminder type, target date).
// Keys compare by calendar date only. This function performs no writes;
// logging after a successful send is the runner's responsibility.
func FilterNew(candidates []model.PlantingEvent, existing []*model.PlantingReminderLogEntry) []model.PlantingEvent {
	logged := make(map[string]bool, len(existing))
	for _, e := range existing {
		logged[string(e.ReminderType)+"-"+e.TargetDate.Format("2006-01-02")] = true
	}

	var fresh []model.PlantingEvent
	for _, c := range candidates {
		if logged[c.DedupKey()] {
			continue
		}
		fresh = append(fresh, c)
	}
	return fresh
}
