package readstore

import (
	"context"

	"ops-console/internal/domain/schedule"
	"ops-console/internal/infra"
	"ops-console/internal/pkg/pgconv"
	"ops-console/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScheduleReadStore struct {
	pool *pgxpool.Pool
}

func NewScheduleReadStore(pool *pgxpool.Pool) queries.ScheduleReadStore {
	return &ScheduleReadStore{pool: pool}
}

const scheduleColumns = `key, enabled, day_of_week, hour, minute, every_2_weeks, timezone, last_run_at, updated_at`

func (r *ScheduleReadStore) FindAll(ctx context.Context) ([]*queries.ScheduleView, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules ORDER BY key`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query schedules", err)
	}
	defer rows.Close()

	var out []*queries.ScheduleView
	for rows.Next() {
		view, err := scanScheduleView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan schedule", err)
		}
		out = append(out, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate schedules", err)
	}
	return out, nil
}

func (r *ScheduleReadStore) FindByKey(ctx context.Context, key string) (*queries.ScheduleView, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE key = $1`
	view, err := scanScheduleView(r.pool.QueryRow(ctx, query, key))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("schedule not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get schedule", err)
	}
	return view, nil
}

func scanScheduleView(row pgx.Row) (*queries.ScheduleView, error) {
	var view queries.ScheduleView
	var lastRunAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&view.Key, &view.Enabled, &view.DayOfWeek, &view.Hour, &view.Minute,
		&view.Every2Weeks, &view.Timezone, &lastRunAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	view.Label = schedule.Key(view.Key).Label()
	view.LastRunAt = pgconv.TimePtrFromPgtype(lastRunAt)
	view.UpdatedAt = pgconv.TimePtrFromPgtype(updatedAt)
	return &view, nil
}
