package opsclient

import (
	"context"
	"errors"

	"github.com/jinzhu/copier"
)

// ErrNotDirty blocks no-op saves before any request is made.
var ErrNotDirty = errors.New("schedule is not dirty")

// ScheduleEditor tracks one record's edits against a baseline. Only enabled,
// day_of_week, hour and minute participate in the dirty comparison; label,
// every_2_weeks and timezone are display-only on this surface and pass
// through unchanged on save.
type ScheduleEditor struct {
	client   *Client
	baseline Schedule
	current  Schedule
}

func NewScheduleEditor(client *Client, record Schedule) *ScheduleEditor {
	e := &ScheduleEditor{client: client}
	e.ResetBaseline(record)
	return e
}

func (e *ScheduleEditor) SetEnabled(v bool)     { e.current.Enabled = v }
func (e *ScheduleEditor) SetDayOfWeek(v string) { e.current.DayOfWeek = v }
func (e *ScheduleEditor) SetHour(v int)         { e.current.Hour = v }
func (e *ScheduleEditor) SetMinute(v int)       { e.current.Minute = v }

func (e *ScheduleEditor) Current() Schedule  { return e.current }
func (e *ScheduleEditor) Baseline() Schedule { return e.baseline }

// IsDirty is a pure function of current vs baseline, not of edit history:
// reverting a field clears the dirty state again.
func (e *ScheduleEditor) IsDirty() bool {
	return e.current.Enabled != e.baseline.Enabled ||
		e.current.DayOfWeek != e.baseline.DayOfWeek ||
		e.current.Hour != e.baseline.Hour ||
		e.current.Minute != e.baseline.Minute
}

// Save sends the full record and resets the baseline from the server's
// response. A failed save leaves both baseline and form state untouched.
func (e *ScheduleEditor) Save(ctx context.Context) (*Schedule, error) {
	if !e.IsDirty() {
		return nil, ErrNotDirty
	}

	updated, err := e.client.UpdateSchedule(ctx, e.baseline.Key, ScheduleUpdate{
		Enabled:     e.current.Enabled,
		DayOfWeek:   e.current.DayOfWeek,
		Hour:        e.current.Hour,
		Minute:      e.current.Minute,
		Every2Weeks: e.current.Every2Weeks,
		Timezone:    e.current.Timezone,
	})
	if err != nil {
		return nil, err
	}

	e.ResetBaseline(*updated)
	return updated, nil
}

// ResetBaseline re-initializes both the baseline and the live values from an
// authoritative record, returning the dirty state to false.
func (e *ScheduleEditor) ResetBaseline(record Schedule) {
	_ = copier.Copy(&e.baseline, &record)
	_ = copier.Copy(&e.current, &record)
}
