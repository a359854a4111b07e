package schedule

import (
	"context"
	"testing"
	"time"

	"gardenlore/internal/model"
)

type fakeZoneStore struct {
	zones map[string]*model.HardinessZoneInfo
}

func (f *fakeZoneStore) GetByZone(_ context.Context, zone string) (*model.HardinessZoneInfo, error) {
	return f.zones[zone], nil
}

func strPtr(s string) *string { return &s }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestResolveFromZone(t *testing.T) {
	zones := &fakeZoneStore{zones: map[string]*model.HardinessZoneInfo{
		"7a":  {Zone: "7a", LastFrostSpring: "Apr 15", FirstFrostFall: "Oct 15"},
		"11a": {Zone: "11a", LastFrostSpring: "Frost-free", FirstFrostFall: "Frost-free"},
	}}
	r := NewFrostDateResolver(zones)

	tests := []struct {
		name    string
		profile *model.GrowingProfile
		year    int
		want    time.Time
		wantOK  bool
	}{
		{
			name:    "zone 7a projects Apr 15 onto the year",
			profile: &model.GrowingProfile{UserID: 1, HardinessZone: strPtr("7a")},
			year:    2025,
			want:    time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC),
			wantOK:  true,
		},
		{
			name: "explicit override wins over zone, stored year ignored",
			profile: &model.GrowingProfile{
				UserID:        1,
				LastFrostDate: datePtr(1999, time.May, 2),
				HardinessZone: strPtr("7a"),
			},
			year:   2026,
			want:   time.Date(2026, time.May, 2, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:    "frost-free zone yields no date",
			profile: &model.GrowingProfile{UserID: 1, HardinessZone: strPtr("11a")},
			year:    2025,
			wantOK:  false,
		},
		{
			name:    "unknown zone yields no date",
			profile: &model.GrowingProfile{UserID: 1, HardinessZone: strPtr("99z")},
			year:    2025,
			wantOK:  false,
		},
		{
			name:    "no override and no zone yields no date",
			profile: &model.GrowingProfile{UserID: 1},
			year:    2025,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := r.Resolve(context.Background(), tt.profile, tt.year)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveFirstFall(t *testing.T) {
	zones := &fakeZoneStore{zones: map[string]*model.HardinessZoneInfo{
		"7a": {Zone: "7a", LastFrostSpring: "Apr 15", FirstFrostFall: "Oct 15"},
	}}
	r := NewFrostDateResolver(zones)

	profile := &model.GrowingProfile{UserID: 1, HardinessZone: strPtr("7a")}
	got, ok, err := r.ResolveFirstFall(context.Background(), profile, 2025)
	if err != nil || !ok {
		t.Fatalf("expected a fall frost date, ok=%v err=%v", ok, err)
	}
	want := time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
