package queries

import (
	"context"
	"sort"
	"time"

	"ops-console/internal/domain/schedule"
	"ops-console/internal/infra"
	"ops-console/internal/pkg/errs"
)

var (
	ErrScheduleNotFound = errs.New("schedule not found")
)

type ScheduleView struct {
	Key         string     `json:"key"`
	Label       string     `json:"label"`
	Enabled     bool       `json:"enabled"`
	DayOfWeek   string     `json:"day_of_week"`
	Hour        int        `json:"hour"`
	Minute      int        `json:"minute"`
	Every2Weeks bool       `json:"every_2_weeks"`
	Timezone    string     `json:"timezone"`
	LastRunAt   *time.Time `json:"last_run_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type ScheduleReadStore interface {
	FindAll(ctx context.Context) ([]*ScheduleView, error)
	FindByKey(ctx context.Context, key string) (*ScheduleView, error)
}

type ScheduleQueries interface {
	// List returns every known schedule; keys missing from the database are
	// filled in from built-in defaults without writing them.
	List(ctx context.Context) ([]*ScheduleView, error)
	Get(ctx context.Context, key schedule.Key) (*ScheduleView, error)
}

type scheduleQueriesImpl struct {
	repo ScheduleReadStore
}

func NewScheduleQueries(repo ScheduleReadStore) ScheduleQueries {
	return &scheduleQueriesImpl{repo: repo}
}

func (q *scheduleQueriesImpl) List(ctx context.Context) ([]*ScheduleView, error) {
	rows, err := q.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]*ScheduleView, len(rows))
	for _, row := range rows {
		existing[row.Key] = row
	}

	result := make([]*ScheduleView, 0, len(rows))
	for _, def := range schedule.Defaults() {
		if row, ok := existing[def.Key().String()]; ok {
			result = append(result, row)
			delete(existing, def.Key().String())
			continue
		}
		result = append(result, ViewFromSchedule(def))
	}

	// DB に存在するが defaults に無いキーも返す
	extras := make([]*ScheduleView, 0, len(existing))
	for _, row := range existing {
		extras = append(extras, row)
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i].Key < extras[j].Key })
	result = append(result, extras...)

	return result, nil
}

func (q *scheduleQueriesImpl) Get(ctx context.Context, key schedule.Key) (*ScheduleView, error) {
	row, err := q.repo.FindByKey(ctx, key.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return row, nil
}

func ViewFromSchedule(s *schedule.Schedule) *ScheduleView {
	return &ScheduleView{
		Key:         s.Key().String(),
		Label:       s.Key().Label(),
		Enabled:     s.Enabled(),
		DayOfWeek:   s.DayOfWeek().String(),
		Hour:        s.TimeOfDay().Hour(),
		Minute:      s.TimeOfDay().Minute(),
		Every2Weeks: s.Every2Weeks(),
		Timezone:    s.Timezone(),
		LastRunAt:   s.LastRunAt(),
		UpdatedAt:   s.UpdatedAt(),
	}
}
