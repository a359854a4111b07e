package schedule

import (
	"time"

	"gardenlore/internal/model"
)

// PlantingDates are the concrete dates derived from one set of offsets.
// A nil field means that stage is not derivable.
type PlantingDates struct {
	IndoorStart  *time.Time
	OutdoorStart *time.Time
	Transplant   *time.Time
	Harvest      *time.Time
}

// Calculate derives concrete calendar dates from a last-frost anchor.
//
// Indoor start weeks are stored unsigned as "weeks before frost" and always
// subtract, regardless of sign. Outdoor and transplant weeks are signed
// additions: negative offsets legitimately land before frost. Harvest counts
// from the outdoor date, falling back to the transplant date; with neither
// base it is not derivable.
//
// Pure function. Resulting dates may land outside the anchor's year; no
// clamping or re-projection happens here.
func Calculate(lastFrost time.Time, offsets model.ScheduleOffsets) PlantingDates {
	var dates PlantingDates

	if offsets.IndoorStartWeeks != nil {
		w := *offsets.IndoorStartWeeks
		if w < 0 {
			w = -w
		}
		d := addWeeks(lastFrost, -w)
		dates.IndoorStart = &d
	}

	if offsets.OutdoorStartWeeks != nil {
		d := addWeeks(lastFrost, *offsets.OutdoorStartWeeks)
		dates.OutdoorStart = &d
	}

	if offsets.TransplantWeeks != nil {
		d := addWeeks(lastFrost, *offsets.TransplantWeeks)
		dates.Transplant = &d
	}

	if offsets.HarvestWeeks != nil {
		base := dates.OutdoorStart
		if base == nil {
			base = dates.Transplant
		}
		if base != nil {
			d := addWeeks(*base, *offsets.HarvestWeeks)
			dates.Harvest = &d
		}
	}

	return dates
}

func addWeeks(t time.Time, weeks int) time.Time {
	return t.AddDate(0, 0, 7*weeks)
}
