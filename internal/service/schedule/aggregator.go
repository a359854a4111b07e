package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gardenlore/internal/model"
)

// GuideStore lists encyclopedia guides.
type GuideStore interface {
	ListByCategory(ctx context.Context, category string) ([]*model.PlantGuide, error)
}

// InventoryStore lists a user's non-archived seeds.
type InventoryStore interface {
	ListActiveByUser(ctx context.Context, userID int64) ([]*model.SeedInventoryItem, error)
}

// WishlistStore lists a user's not-yet-purchased wishlist items.
type WishlistStore interface {
	ListUnpurchasedByUser(ctx context.Context, userID int64) ([]*model.WishlistItem, error)
}

// StageSet selects which stages produce events. A nil StageSet allows all.
type StageSet map[model.Stage]bool

func (s StageSet) allows(stage model.Stage) bool {
	if s == nil {
		return true
	}
	return s[stage]
}

// StagesFromToggles maps per-seed toggle flags to the stages they enable.
func StagesFromToggles(t model.ReminderToggles) StageSet {
	set := StageSet{}
	if t.IndoorStart {
		set[model.StageIndoorStart] = true
	}
	if t.DirectSow {
		set[model.StageDirectSow] = true
	}
	if t.Transplant {
		set[model.StageTransplant] = true
	}
	return set
}

// Options controls one aggregation pass.
//
// Stage filtering happens here, before window matching, so that disabled
// stages never consume a reminder-log row even when their date falls inside
// the window.
type Options struct {
	// IncludeEncyclopedia adds the shared guide pass, used by calendar
	// consumers. The reminder path aggregates only user-owned items.
	IncludeEncyclopedia bool
	// Category filters the encyclopedia pass; empty means "all".
	Category string
	// Stages are the globally enabled stages. Nil allows every stage.
	Stages StageSet
	// PerItemToggles switches to per-seed toggle scoping: each inventory
	// seed emits only its own toggled stages, and wishlist/encyclopedia
	// entries, which carry no toggles, emit nothing. Global and per-item
	// scopes are mutually exclusive, never additive.
	PerItemToggles bool
}

// Aggregator merges derived planting dates across the encyclopedia, a
// user's seed inventory and their wishlist into one normalized event list.
type Aggregator struct {
	guides    GuideStore
	inventory InventoryStore
	wishlist  WishlistStore
}

func NewAggregator(guides GuideStore, inventory InventoryStore, wishlist WishlistStore) *Aggregator {
	return &Aggregator{
		guides:    guides,
		inventory: inventory,
		wishlist:  wishlist,
	}
}

// Aggregate produces one PlantingEvent per derivable stage per item for the
// given frost anchor, sorted by plant label ascending.
//
// Inventory is processed before wishlist; a (label, variety) pair seen in
// both sources yields only the inventory-derived events.
func (a *Aggregator) Aggregate(ctx context.Context, userID int64, lastFrost time.Time, opts Options) ([]model.PlantingEvent, error) {
	var events []model.PlantingEvent

	if opts.IncludeEncyclopedia && !opts.PerItemToggles {
		guides, err := a.guides.ListByCategory(ctx, opts.Category)
		if err != nil {
			return nil, fmt.Errorf("failed to list guides: %w", err)
		}
		for _, g := range guides {
			if !g.Offsets.HasAny() {
				continue
			}
			events = appendEvents(events, lastFrost, g.Offsets, opts.Stages,
				g.Name, "", g.Category, model.SourceEncyclopedia)
		}
	}

	seen := make(map[string]bool)

	items, err := a.inventory.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	for _, item := range items {
		stages := opts.Stages
		if opts.PerItemToggles {
			stages = StagesFromToggles(item.Toggles)
		}
		label, category := itemLabel(item.PlantName, item.Guide)
		// Offset-less items still claim their (label, variety) pair so a
		// wishlist duplicate cannot resurrect them with different offsets.
		seen[pairKey(label, item.Variety)] = true
		offsets := item.EffectiveOffsets()
		if !offsets.HasAny() {
			continue
		}
		events = appendEvents(events, lastFrost, offsets, stages,
			label, item.Variety, category, model.SourceInventory)
	}

	if !opts.PerItemToggles {
		wishes, err := a.wishlist.ListUnpurchasedByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list wishlist: %w", err)
		}
		for _, wish := range wishes {
			label, category := itemLabel(wish.PlantName, wish.Guide)
			if seen[pairKey(label, wish.Variety)] {
				continue
			}
			offsets := wish.EffectiveOffsets()
			if !offsets.HasAny() {
				continue
			}
			events = appendEvents(events, lastFrost, offsets, opts.Stages,
				label, wish.Variety, category, model.SourceWishlist)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].PlantLabel < events[j].PlantLabel
	})
	return events, nil
}

func appendEvents(events []model.PlantingEvent, lastFrost time.Time, offsets model.ScheduleOffsets,
	stages StageSet, label, variety, category string, source model.SourceKind) []model.PlantingEvent {

	dates := Calculate(lastFrost, offsets)

	add := func(stage model.Stage, date *time.Time) {
		if date == nil || !stages.allows(stage) {
			return
		}
		events = append(events, model.PlantingEvent{
			PlantLabel: label,
			Variety:    variety,
			Category:   category,
			Stage:      stage,
			Date:       *date,
			SourceKind: source,
		})
	}

	add(model.StageIndoorStart, dates.IndoorStart)
	add(model.StageDirectSow, dates.OutdoorStart)
	add(model.StageTransplant, dates.Transplant)
	add(model.StageHarvest, dates.Harvest)

	return events
}

// itemLabel prefers the linked guide's name and category for display.
func itemLabel(plantName string, guide *model.PlantGuide) (label, category string) {
	if guide != nil {
		name := guide.Name
		if name == "" {
			name = plantName
		}
		return name, guide.Category
	}
	return plantName, ""
}

func pairKey(label, variety string) string {
	return label + "|" + variety
}
