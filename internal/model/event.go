package model

import "time"

// Stage identifies a plantable stage derived from the frost anchor.
type Stage string

const (
	StageIndoorStart Stage = "indoor_start"
	StageDirectSow   Stage = "direct_sow"
	StageTransplant  Stage = "transplant"
	// StageHarvest is derivable for calendar consumers but never produces
	// a reminder; only the three stages above are reminder types.
	StageHarvest Stage = "harvest"
)

// ReminderStages are the stages that can trigger an email.
var ReminderStages = []Stage{StageIndoorStart, StageDirectSow, StageTransplant}

// SourceKind says which data source an event was derived from.
type SourceKind string

const (
	SourceEncyclopedia SourceKind = "encyclopedia"
	SourceInventory    SourceKind = "inventory"
	SourceWishlist     SourceKind = "wishlist"
)

// PlantingEvent is one derived planting action on a concrete date.
type PlantingEvent struct {
	PlantLabel string
	Variety    string
	Category   string
	Stage      Stage
	Date       time.Time
	SourceKind SourceKind
}

// DedupKey identifies an event for at-most-once delivery: reminder type
// plus ISO calendar date, no time-of-day component.
func (e PlantingEvent) DedupKey() string {
	return string(e.Stage) + "-" + e.Date.Format("2006-01-02")
}
