package repository

import (
	"context"

	"ops-console/internal/domain/schedule"
	"ops-console/internal/infra"
	"ops-console/internal/infra/db"
	"ops-console/internal/usecase/shared"
)

type ScheduleRepository struct{}

func NewScheduleRepository() shared.ScheduleRepository {
	return &ScheduleRepository{}
}

const upsertScheduleSQL = `
INSERT INTO schedules (key, enabled, day_of_week, hour, minute, every_2_weeks, timezone, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
ON CONFLICT (key) DO UPDATE SET
    enabled       = EXCLUDED.enabled,
    day_of_week   = EXCLUDED.day_of_week,
    hour          = EXCLUDED.hour,
    minute        = EXCLUDED.minute,
    every_2_weeks = EXCLUDED.every_2_weeks,
    timezone      = EXCLUDED.timezone,
    updated_at    = now()`

func (r *ScheduleRepository) Upsert(ctx context.Context, dbtx db.DBTX, s *schedule.Schedule) error {
	_, err := dbtx.Exec(ctx, upsertScheduleSQL,
		s.Key().String(),
		s.Enabled(),
		s.DayOfWeek().String(),
		s.TimeOfDay().Hour(),
		s.TimeOfDay().Minute(),
		s.Every2Weeks(),
		s.Timezone(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert schedule", err)
	}
	return nil
}
