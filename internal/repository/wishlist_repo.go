package repository

import (
	"context"
	"time"

	"gardenlore/internal/model"
	"gardenlore/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
)

type WishlistRepository struct {
	db *pgxpool.Pool
}

func NewWishlistRepository(db *pgxpool.Pool) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// ListUnpurchasedByUser returns a user's not-yet-purchased wishlist items,
// each joined to its linked encyclopedia guide when one exists.
func (r *WishlistRepository) ListUnpurchasedByUser(ctx context.Context, userID int64) ([]*model.WishlistItem, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("select", "wishlist_items", time.Since(start))
	}()

	query := `
        SELECT w.id, w.user_id, w.plant_name, COALESCE(w.variety, ''),
               w.indoor_start_weeks, w.outdoor_start_weeks, w.transplant_weeks, w.harvest_weeks,
               g.id, g.name, COALESCE(g.category, ''),
               g.indoor_start_weeks, g.outdoor_start_weeks, g.transplant_weeks, g.harvest_weeks
        FROM wishlist_items w
        LEFT JOIN plant_guides g ON g.id = w.guide_id
        WHERE w.user_id = $1 AND NOT w.purchased
        ORDER BY w.id
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*model.WishlistItem
	for rows.Next() {
		item := &model.WishlistItem{}
		var (
			guideID       *int64
			guideName     *string
			guideCategory *string
			guideOffsets  model.ScheduleOffsets
		)
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.PlantName,
			&item.Variety,
			&item.CustomOffsets.IndoorStartWeeks,
			&item.CustomOffsets.OutdoorStartWeeks,
			&item.CustomOffsets.TransplantWeeks,
			&item.CustomOffsets.HarvestWeeks,
			&guideID,
			&guideName,
			&guideCategory,
			&guideOffsets.IndoorStartWeeks,
			&guideOffsets.OutdoorStartWeeks,
			&guideOffsets.TransplantWeeks,
			&guideOffsets.HarvestWeeks,
		); err != nil {
			return nil, err
		}
		if guideID != nil {
			item.Guide = &model.PlantGuide{
				ID:      *guideID,
				Name:    *guideName,
				Offsets: guideOffsets,
			}
			if guideCategory != nil {
				item.Guide.Category = *guideCategory
			}
		}
		items = append(items, item)
	}
	return items, nil
}
