package api

import (
	"errors"
	"net/http"

	"ops-console/internal/domain/schedule"
	reqdto "ops-console/internal/handler/dto/request"
	resdto "ops-console/internal/handler/dto/response"
	"ops-console/internal/handler/httperr"
	"ops-console/internal/usecase/commands"
	"ops-console/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	cmds commands.ScheduleCommands
	q    queries.ScheduleQueries
}

func NewScheduleHandler(cmds commands.ScheduleCommands, q queries.ScheduleQueries) *ScheduleHandler {
	return &ScheduleHandler{cmds: cmds, q: q}
}

// @Summary List schedules
// @Description List all schedule records, filling built-in defaults for missing keys
// @Tags schedules
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ScheduleResponse
// @Failure 401 {object} map[string]string
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	views, err := h.q.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list schedules", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromScheduleList(views))
}

// @Summary Update schedule
// @Description Replace the full schedule record for a key
// @Tags schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Schedule key"
// @Param request body reqdto.UpdateScheduleRequest true "Update schedule request"
// @Success 200 {object} resdto.ScheduleResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /schedules/{key} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	key, err := schedule.NewKey(c.Param("key"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusNotFound, err, "Unknown schedule key", nil)
		return
	}

	var req reqdto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	if err := h.cmds.Upsert(c.Request.Context(), key.String(), req.ToInput()); err != nil {
		status := http.StatusInternalServerError
		msg := "Update schedule failed"
		if isScheduleValidationError(err) {
			status = http.StatusBadRequest
			msg = "Invalid schedule value"
		}
		httperr.AbortWithError(c, status, err, msg, nil)
		return
	}

	view, err := h.q.Get(c.Request.Context(), key)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load schedule", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromScheduleView(view))
}

func isScheduleValidationError(err error) bool {
	return errors.Is(err, schedule.ErrUnknownKey) ||
		errors.Is(err, schedule.ErrInvalidDayOfWeek) ||
		errors.Is(err, schedule.ErrInvalidHour) ||
		errors.Is(err, schedule.ErrInvalidMinute)
}
