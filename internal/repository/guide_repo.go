package repository

import (
	"context"
	"time"

	"gardenlore/internal/model"
	"gardenlore/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PlantGuideRepository struct {
	db *pgxpool.Pool
}

func NewPlantGuideRepository(db *pgxpool.Pool) *PlantGuideRepository {
	return &PlantGuideRepository{db: db}
}

// ListByCategory returns encyclopedia guides, optionally filtered by
// category. An empty category means "all".
func (r *PlantGuideRepository) ListByCategory(ctx context.Context, category string) ([]*model.PlantGuide, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("select", "plant_guides", time.Since(start))
	}()

	query := `
        SELECT id, name, COALESCE(category, ''), indoor_start_weeks, outdoor_start_weeks,
               transplant_weeks, harvest_weeks
        FROM plant_guides
        WHERE $1 = '' OR category = $1
        ORDER BY name
    `
	rows, err := r.db.Query(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guides []*model.PlantGuide
	for rows.Next() {
		g := &model.PlantGuide{}
		if err := rows.Scan(
			&g.ID,
			&g.Name,
			&g.Category,
			&g.Offsets.IndoorStartWeeks,
			&g.Offsets.OutdoorStartWeeks,
			&g.Offsets.TransplantWeeks,
			&g.Offsets.HarvestWeeks,
		); err != nil {
			return nil, err
		}
		guides = append(guides, g)
	}
	return guides, nil
}
