package repository

import (
	"context"
	"time"

	"gardenlore/internal/model"
	"gardenlore/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReminderLogRepository struct {
	db *pgxpool.Pool
}

func NewReminderLogRepository(db *pgxpool.Pool) *ReminderLogRepository {
	return &ReminderLogRepository{db: db}
}

// ListForUserYear returns the user's log rows for the given year.
func (r *ReminderLogRepository) ListForUserYear(ctx context.Context, userID int64, year int) ([]*model.PlantingReminderLogEntry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("select", "planting_reminder_log", time.Since(start))
	}()

	query := `
        SELECT id, user_id, reminder_type, target_date, year, plant_names, created_at
        FROM planting_reminder_log
        WHERE user_id = $1 AND year = $2
    `
	rows, err := r.db.Query(ctx, query, userID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.PlantingReminderLogEntry
	for rows.Next() {
		e := &model.PlantingReminderLogEntry{}
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.ReminderType,
			&e.TargetDate,
			&e.Year,
			&e.PlantNames,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// InsertIfAbsent atomically inserts a log row, keyed on
// (user_id, reminder_type, target_date). It returns false when the row
// already existed, which callers must treat as "already sent by a
// concurrent run", not an error.
func (r *ReminderLogRepository) InsertIfAbsent(ctx context.Context, entry *model.PlantingReminderLogEntry) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("insert", "planting_reminder_log", time.Since(start))
	}()

	query := `
        INSERT INTO planting_reminder_log (user_id, reminder_type, target_date, year, plant_names, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        ON CONFLICT ON CONSTRAINT planting_reminder_log_key DO NOTHING
    `
	result, err := r.db.Exec(ctx, query,
		entry.UserID,
		entry.ReminderType,
		entry.TargetDate,
		entry.Year,
		entry.PlantNames,
	)
	if err != nil {
		return false, err
	}
	if result.RowsAffected() > 0 {
		metrics.ReminderLogRowsWritten.Inc()
		return true, nil
	}
	return false, nil
}
