package repository

import (
	"context"
	"time"

	"gardenlore/internal/model"
	"gardenlore/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
)

type GrowingProfileRepository struct {
	db *pgxpool.Pool
}

func NewGrowingProfileRepository(db *pgxpool.Pool) *GrowingProfileRepository {
	return &GrowingProfileRepository{db: db}
}

// ListReminderCandidates returns profiles of users with any reminder toggle
// enabled, either globally or on at least one non-archived inventory seed.
func (r *GrowingProfileRepository) ListReminderCandidates(ctx context.Context) ([]*model.GrowingProfile, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("select", "growing_profiles", time.Since(start))
	}()

	query := `
        SELECT p.user_id, u.email, p.last_frost_date, p.first_frost_date, p.hardiness_zone,
               p.enable_indoor_start_reminders, p.enable_direct_sow_reminders,
               p.enable_transplant_reminders, p.reminder_lead_days
        FROM growing_profiles p
        JOIN users u ON u.id = p.user_id
        WHERE p.enable_indoor_start_reminders
           OR p.enable_direct_sow_reminders
           OR p.enable_transplant_reminders
           OR EXISTS (
                SELECT 1 FROM seed_inventory s
                WHERE s.user_id = p.user_id
                  AND NOT s.archived
                  AND (s.enable_indoor_start_reminder
                       OR s.enable_direct_sow_reminder
                       OR s.enable_transplant_reminder)
           )
        ORDER BY p.user_id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*model.GrowingProfile
	for rows.Next() {
		p := &model.GrowingProfile{}
		if err := rows.Scan(
			&p.UserID,
			&p.Email,
			&p.LastFrostDate,
			&p.FirstFrostDate,
			&p.HardinessZone,
			&p.EnableIndoorStartReminders,
			&p.EnableDirectSowReminders,
			&p.EnableTransplantReminders,
			&p.ReminderLeadDays,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
