package request

import (
	"ops-console/internal/usecase/commands"
)

// UpdateScheduleRequest is a full-record replacement; partial updates are not
// supported on this surface.
type UpdateScheduleRequest struct {
	Enabled     *bool  `json:"enabled" binding:"required"`
	DayOfWeek   string `json:"day_of_week" binding:"required"`
	Hour        *int   `json:"hour" binding:"required,min=0,max=23"`
	Minute      *int   `json:"minute" binding:"required,min=0,max=59"`
	Every2Weeks bool   `json:"every_2_weeks"`
	Timezone    string `json:"timezone"`
}

func (r *UpdateScheduleRequest) ToInput() commands.UpsertScheduleInput {
	return commands.UpsertScheduleInput{
		Enabled:     *r.Enabled,
		DayOfWeek:   r.DayOfWeek,
		Hour:        *r.Hour,
		Minute:      *r.Minute,
		Every2Weeks: r.Every2Weeks,
		Timezone:    r.Timezone,
	}
}
