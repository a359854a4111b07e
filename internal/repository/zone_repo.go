package repository

import (
	"context"
	"errors"
	"time"

	"gardenlore/internal/model"
	"gardenlore/pkg/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HardinessZoneRepository struct {
	db *pgxpool.Pool
}

func NewHardinessZoneRepository(db *pgxpool.Pool) *HardinessZoneRepository {
	return &HardinessZoneRepository{db: db}
}

// GetByZone returns the static zone row, or (nil, nil) when the zone is unknown.
func (r *HardinessZoneRepository) GetByZone(ctx context.Context, zone string) (*model.HardinessZoneInfo, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("select", "hardiness_zones", time.Since(start))
	}()

	query := `
        SELECT zone, last_frost_spring, first_frost_fall, min_temp_f, max_temp_f
        FROM hardiness_zones
        WHERE zone = $1
    `
	info := &model.HardinessZoneInfo{}
	err := r.db.QueryRow(ctx, query, zone).Scan(
		&info.Zone,
		&info.LastFrostSpring,
		&info.FirstFrostFall,
		&info.MinTempF,
		&info.MaxTempF,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return info, nil
}
