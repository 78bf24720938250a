package commands

import (
	"context"

	"ops-console/internal/domain/schedule"
	"ops-console/internal/pkg/clock"
	"ops-console/internal/usecase/shared"
)

type UpsertScheduleInput struct {
	Enabled     bool
	DayOfWeek   string
	Hour        int
	Minute      int
	Every2Weeks bool
	Timezone    string
}

type ScheduleCommands interface {
	// Upsert replaces the full record for one key. Last write wins; there is
	// no optimistic concurrency token on this surface.
	Upsert(ctx context.Context, key string, in UpsertScheduleInput) error
}

type scheduleCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewScheduleCommands(uow shared.UnitOfWork, clk clock.Clock) ScheduleCommands {
	return &scheduleCommandsImpl{uow: uow, clock: clk}
}

func (uc *scheduleCommandsImpl) Upsert(ctx context.Context, key string, in UpsertScheduleInput) error {
	k, err := schedule.NewKey(key)
	if err != nil {
		return err
	}
	dow, err := schedule.NewDayOfWeek(in.DayOfWeek)
	if err != nil {
		return err
	}
	tod, err := schedule.NewTimeOfDay(in.Hour, in.Minute)
	if err != nil {
		return err
	}

	rec := schedule.New(k, in.Enabled, dow, tod, in.Every2Weeks, in.Timezone)

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Schedules().Upsert(ctx, tx.DB(), rec)
	})
}
