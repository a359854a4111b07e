package schedule

import (
	"testing"
	"time"

	"gardenlore/internal/model"
)

func intPtr(i int) *int { return &i }

var frost = time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)

func TestCalculateIndoorStartAlwaysBeforeFrost(t *testing.T) {
	// Indoor-start weeks are unsigned "weeks before frost"; a stray sign
	// in stored data must not flip the direction.
	for _, weeks := range []int{8, -8} {
		got := Calculate(frost, model.ScheduleOffsets{IndoorStartWeeks: intPtr(weeks)})
		if got.IndoorStart == nil {
			t.Fatalf("weeks=%d: indoor start not derived", weeks)
		}
		want := frost.AddDate(0, 0, -8*7)
		if !got.IndoorStart.Equal(want) {
			t.Errorf("weeks=%d: indoor start = %v, want %v", weeks, got.IndoorStart, want)
		}
	}
}

func TestCalculateOutdoorStartSignedAddition(t *testing.T) {
	tests := []struct {
		weeks int
		want  time.Time
	}{
		{0, frost},
		{2, frost.AddDate(0, 0, 14)},
		{-3, frost.AddDate(0, 0, -21)},
	}
	for _, tt := range tests {
		got := Calculate(frost, model.ScheduleOffsets{OutdoorStartWeeks: intPtr(tt.weeks)})
		if got.OutdoorStart == nil || !got.OutdoorStart.Equal(tt.want) {
			t.Errorf("weeks=%d: outdoor start = %v, want %v", tt.weeks, got.OutdoorStart, tt.want)
		}
	}
}

func TestCalculateHarvestBase(t *testing.T) {
	tests := []struct {
		name    string
		offsets model.ScheduleOffsets
		want    *time.Time
	}{
		{
			name:    "no base date means no harvest",
			offsets: model.ScheduleOffsets{HarvestWeeks: intPtr(10)},
			want:    nil,
		},
		{
			name: "outdoor start preferred over transplant",
			offsets: model.ScheduleOffsets{
				OutdoorStartWeeks: intPtr(0),
				TransplantWeeks:   intPtr(2),
				HarvestWeeks:      intPtr(10),
			},
			want: datePtr(2025, time.June, 24), // Apr 15 + 10 weeks
		},
		{
			name: "transplant is the fallback base",
			offsets: model.ScheduleOffsets{
				TransplantWeeks: intPtr(2),
				HarvestWeeks:    intPtr(10),
			},
			want: datePtr(2025, time.July, 8), // Apr 29 + 10 weeks
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(frost, tt.offsets)
			if tt.want == nil {
				if got.Harvest != nil {
					t.Fatalf("harvest = %v, want nil", got.Harvest)
				}
				return
			}
			if got.Harvest == nil || !got.Harvest.Equal(*tt.want) {
				t.Fatalf("harvest = %v, want %v", got.Harvest, tt.want)
			}
		})
	}
}

func TestCalculateFullScenario(t *testing.T) {
	// Frost Apr 15: indoor 8 weeks before = Feb 18, outdoor +0 = Apr 15,
	// transplant +2 = Apr 29.
	got := Calculate(frost, model.ScheduleOffsets{
		IndoorStartWeeks:  intPtr(8),
		OutdoorStartWeeks: intPtr(0),
		TransplantWeeks:   intPtr(2),
		HarvestWeeks:      intPtr(12),
	})

	checks := []struct {
		name string
		got  *time.Time
		want time.Time
	}{
		{"indoor start", got.IndoorStart, time.Date(2025, time.February, 18, 0, 0, 0, 0, time.UTC)},
		{"outdoor start", got.OutdoorStart, frost},
		{"transplant", got.Transplant, time.Date(2025, time.April, 29, 0, 0, 0, 0, time.UTC)},
		{"harvest", got.Harvest, frost.AddDate(0, 0, 12*7)},
	}
	for _, c := range checks {
		if c.got == nil || !c.got.Equal(c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestCalculateAbsentOffsets(t *testing.T) {
	got := Calculate(frost, model.ScheduleOffsets{})
	if got.IndoorStart != nil || got.OutdoorStart != nil || got.Transplant != nil || got.Harvest != nil {
		t.Fatalf("expected no derived dates, got %+v", got)
	}
}

func TestCalculateMayCrossYearBoundary(t *testing.T) {
	// No clamping: an early frost with a large indoor offset lands in the
	// previous year.
	earlyFrost := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	got := Calculate(earlyFrost, model.ScheduleOffsets{IndoorStartWeeks: intPtr(10)})
	if got.IndoorStart == nil || got.IndoorStart.Year() != 2024 {
		t.Fatalf("indoor start = %v, want a 2024 date", got.IndoorStart)
	}
}
