package repository

import (
	"context"
	"time"

	"gardenlore/internal/model"
	"gardenlore/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SeedInventoryRepository struct {
	db *pgxpool.Pool
}

func NewSeedInventoryRepository(db *pgxpool.Pool) *SeedInventoryRepository {
	return &SeedInventoryRepository{db: db}
}

// ListActiveByUser returns a user's non-archived seeds, each joined to its
// linked encyclopedia guide when one exists.
func (r *SeedInventoryRepository) ListActiveByUser(ctx context.Context, userID int64) ([]*model.SeedInventoryItem, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("select", "seed_inventory", time.Since(start))
	}()

	query := `
        SELECT s.id, s.user_id, s.plant_name, COALESCE(s.variety, ''),
               s.indoor_start_weeks, s.outdoor_start_weeks, s.transplant_weeks, s.harvest_weeks,
               s.enable_indoor_start_reminder, s.enable_direct_sow_reminder, s.enable_transplant_reminder,
               g.id, g.name, COALESCE(g.category, ''),
               g.indoor_start_weeks, g.outdoor_start_weeks, g.transplant_weeks, g.harvest_weeks
        FROM seed_inventory s
        LEFT JOIN plant_guides g ON g.id = s.guide_id
        WHERE s.user_id = $1 AND NOT s.archived
        ORDER BY s.id
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*model.SeedInventoryItem
	for rows.Next() {
		item := &model.SeedInventoryItem{}
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
			&item.Toggles.IndoorStart,
			&item.Toggles.DirectSow,
			&item.Toggles.Transplant,
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
