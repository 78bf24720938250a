package response

import (
	"time"

	"ops-console/internal/usecase/queries"
)

type ScheduleResponse struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Enabled     bool    `json:"enabled"`
	DayOfWeek   string  `json:"day_of_week"`
	Hour        int     `json:"hour"`
	Minute      int     `json:"minute"`
	Every2Weeks bool    `json:"every_2_weeks"`
	Timezone    string  `json:"timezone"`
	LastRunAt   *string `json:"last_run_at"`
	UpdatedAt   *string `json:"updated_at"`
}

func FromScheduleView(v *queries.ScheduleView) *ScheduleResponse {
	return &ScheduleResponse{
		Key:         v.Key,
		Label:       v.Label,
		Enabled:     v.Enabled,
		DayOfWeek:   v.DayOfWeek,
		Hour:        v.Hour,
		Minute:      v.Minute,
		Every2Weeks: v.Every2Weeks,
		Timezone:    v.Timezone,
		LastRunAt:   rfc3339Ptr(v.LastRunAt),
		UpdatedAt:   rfc3339Ptr(v.UpdatedAt),
	}
}

func FromScheduleList(views []*queries.ScheduleView) []*ScheduleResponse {
	res := make([]*ScheduleResponse, len(views))
	for i, v := range views {
		res[i] = FromScheduleView(v)
	}
	return res
}

func rfc3339Ptr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
