package schedule

import (
	"testing"
	"time"

	"gardenlore/internal/model"
)

func eventOn(label string, date time.Time) model.PlantingEvent {
	return model.PlantingEvent{
		PlantLabel: label,
		Stage:      model.StageDirectSow,
		Date:       date,
		SourceKind: model.SourceInventory,
	}
}

func TestMatchWindowInclusivity(t *testing.T) {
	today := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	leadDays := 7

	events := []model.PlantingEvent{
		eventOn("yesterday", today.AddDate(0, 0, -1)),
		eventOn("today", today),
		eventOn("last day", today.AddDate(0, 0, leadDays)),
		eventOn("one past", today.AddDate(0, 0, leadDays+1)),
	}

	got := MatchWindow(events, today, leadDays)
	if len(got) != 2 {
		t.Fatalf("matched %d events, want 2: %+v", len(got), got)
	}
	if got[0].PlantLabel != "today" || got[1].PlantLabel != "last day" {
		t.Fatalf("matched wrong events: %+v", got)
	}
}

func TestMatchWindowIgnoresTimeOfDay(t *testing.T) {
	// Two runs on the same day must agree on what is due, regardless of
	// the hour the job executed.
	morning := time.Date(2025, time.April, 1, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2025, time.April, 1, 23, 30, 0, 0, time.UTC)
	events := []model.PlantingEvent{
		eventOn("due", time.Date(2025, time.April, 8, 15, 0, 0, 0, time.UTC)),
	}

	if got := MatchWindow(events, morning, 7); len(got) != 1 {
		t.Fatalf("morning run matched %d events, want 1", len(got))
	}
	if got := MatchWindow(events, evening, 7); len(got) != 1 {
		t.Fatalf("evening run matched %d events, want 1", len(got))
	}
}

func TestMatchWindowEmpty(t *testing.T) {
	today := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	if got := MatchWindow(nil, today, 7); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}
