package schedule

import (
	"testing"
	"time"

	"gardenlore/internal/model"
)

func TestFilterNew(t *testing.T) {
	apr15 := time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)
	apr20 := time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC)

	candidates := []model.PlantingEvent{
		{PlantLabel: "Tomato", Stage: model.StageDirectSow, Date: apr15},
		{PlantLabel: "Pepper", Stage: model.StageTransplant, Date: apr15},
		{PlantLabel: "Basil", Stage: model.StageDirectSow, Date: apr20},
	}
	existing := []*model.PlantingReminderLogEntry{
		{UserID: 1, ReminderType: model.StageDirectSow, TargetDate: apr15, Year: 2025},
	}

	got := FilterNew(candidates, existing)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(got), got)
	}
	for _, e := range got {
		if e.Stage == model.StageDirectSow && e.Date.Equal(apr15) {
			t.Fatalf("already-logged candidate survived: %+v", e)
		}
	}
}

func TestFilterNewComparesCalendarDateOnly(t *testing.T) {
	// The log row carries midnight; a candidate derived with a
	// time-of-day component on the same date is still a duplicate.
	logged := time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)
	candidate := time.Date(2025, time.April, 15, 14, 30, 0, 0, time.UTC)

	got := FilterNew(
		[]model.PlantingEvent{{PlantLabel: "Tomato", Stage: model.StageDirectSow, Date: candidate}},
		[]*model.PlantingReminderLogEntry{{ReminderType: model.StageDirectSow, TargetDate: logged}},
	)
	if len(got) != 0 {
		t.Fatalf("same-date candidate not filtered: %+v", got)
	}
}

func TestFilterNewEmptyLog(t *testing.T) {
	apr15 := time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)
	candidates := []model.PlantingEvent{
		{PlantLabel: "Tomato", Stage: model.StageDirectSow, Date: apr15},
	}
	if got := FilterNew(candidates, nil); len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
}
