package model

// ReminderToggles are the per-seed override flags. They take effect only
// when all of the user's global toggles are off.
type ReminderToggles struct {
	IndoorStart bool
	DirectSow   bool
	Transplant  bool
}

// Any reports whether any per-item toggle is on.
func (t ReminderToggles) Any() bool {
	return t.IndoorStart || t.DirectSow || t.Transplant
}

// SeedInventoryItem is one seed packet in a user's inventory.
type SeedInventoryItem struct {
	ID        int64
	UserID    int64
	PlantName string
	Variety   string
	Archived  bool

	// Guide is the linked encyclopedia entry, nil when none exists.
	// CustomOffsets are consulted only when Guide is nil.
	Guide         *PlantGuide
	CustomOffsets ScheduleOffsets

	Toggles ReminderToggles
}

// EffectiveOffsets resolves the precedence rule: a linked guide wins
// entirely, otherwise the item's own custom offsets apply. Never a hybrid.
func (s *SeedInventoryItem) EffectiveOffsets() ScheduleOffsets {
	if s.Guide != nil {
		return s.Guide.Offsets
	}
	return s.CustomOffsets
}

// WishlistItem is a plant a user intends to acquire.
type WishlistItem struct {
	ID        int64
	UserID    int64
	PlantName string
	Variety   string
	Purchased bool

	Guide         *PlantGuide
	CustomOffsets ScheduleOffsets
}

// EffectiveOffsets resolves guide-vs-custom precedence, same rule as inventory.
func (w *WishlistItem) EffectiveOffsets() ScheduleOffsets {
	if w.Guide != nil {
		return w.Guide.Offsets
	}
	return w.CustomOffsets
}
