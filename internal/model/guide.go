package model

// ScheduleOffsets are week offsets relative to the last-frost date.
//
// IndoorStartWeeks is stored as unsigned "weeks before frost" and is always
// applied as subtraction. OutdoorStartWeeks and TransplantWeeks are signed:
// positive means after frost, negative before. HarvestWeeks counts from the
// resolved outdoor/transplant date. Nil means no reminder is derivable for
// that stage.
type ScheduleOffsets struct {
	IndoorStartWeeks  *int
	OutdoorStartWeeks *int
	TransplantWeeks   *int
	HarvestWeeks      *int
}

// HasAny reports whether at least one offset is present.
func (o ScheduleOffsets) HasAny() bool {
	return o.IndoorStartWeeks != nil || o.OutdoorStartWeeks != nil ||
		o.TransplantWeeks != nil || o.HarvestWeeks != nil
}

// PlantGuide is a shared encyclopedia entry. When an inventory or wishlist
// item links to a guide, the guide's offsets are authoritative for that item.
type PlantGuide struct {
	ID       int64
	Name     string
	Category string
	Offsets  ScheduleOffsets
}
