package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"ops-console/internal/domain/exportjob"
	resdto "ops-console/internal/handler/dto/response"
	"ops-console/internal/handler/httperr"
	"ops-console/internal/handler/middleware"
	"ops-console/internal/usecase/commands"
	"ops-console/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// メタデータはヘッダで返す。ブラウザ側は CORS の ExposeHeaders で読む。
const (
	headerExportJob        = "X-Kogan-Export-Job"
	headerExportRows       = "X-Kogan-Export-Rows"
	headerExportStatus     = "X-Kogan-Export-Status"
	headerExportAppliedAt  = "X-Kogan-Export-Applied-At"
	headerExportExportedAt = "X-Kogan-Export-Exported-At"
	headerExportCountry    = "X-Kogan-Export-Country"

	headerTimeFormat = "2006-01-02 15:04:05"
)

type ExportHandler struct {
	cmds commands.ExportCommands
	q    queries.ExportQueries
}

func NewExportHandler(cmds commands.ExportCommands, q queries.ExportQueries) *ExportHandler {
	return &ExportHandler{cmds: cmds, q: q}
}

// @Summary Create export job
// @Description Diff dirty SKUs against the baseline template and store the CSV on a new job
// @Tags kogan-template
// @Produce json
// @Security BearerAuth
// @Param country_type query string true "Country (AU or NZ)"
// @Success 200 {object} resdto.NoDirtyResponse
// @Success 201 {object} resdto.ExportJobResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /kogan-template/export [post]
func (h *ExportHandler) Create(c *gin.Context) {
	countryType := c.Query("country_type")

	var createdBy *string
	if email, ok := middleware.GetOperatorEmail(c); ok {
		createdBy = &email
	}

	result, err := h.cmds.Create(c.Request.Context(), countryType, createdBy)
	if err != nil {
		if errors.Is(err, exportjob.ErrInvalidCountry) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "country_type must be AU or NZ", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Create export failed", nil)
		return
	}

	if result.NoDirty {
		c.JSON(http.StatusOK, resdto.FromNoDirty(countryType, result.LastJob))
		return
	}
	c.JSON(http.StatusCreated, resdto.FromExportJobView(result.Job))
}

// @Summary Download export file
// @Description Stream the stored CSV; repeatable, never changes job status
// @Tags kogan-template
// @Produce text/csv
// @Security BearerAuth
// @Param job_id query string true "Export job ID"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /kogan-template/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	jobID, err := uuid.Parse(c.Query("job_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid job_id", nil)
		return
	}

	file, err := h.q.GetFile(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, queries.ErrExportJobNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Export job not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Download failed", nil)
		return
	}

	c.Header(headerExportJob, file.JobID.String())
	c.Header(headerExportRows, fmt.Sprintf("%d", file.RowCount))
	c.Header(headerExportStatus, file.Status)
	c.Header(headerExportCountry, file.Country)
	if file.ExportedAt != nil {
		c.Header(headerExportExportedAt, file.ExportedAt.Format(headerTimeFormat))
	}
	if file.AppliedAt != nil {
		c.Header(headerExportAppliedAt, file.AppliedAt.Format(headerTimeFormat))
	}
	c.Header("Content-Disposition", contentDisposition(file.FileName))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", file.Content)
}

// @Summary Apply export job
// @Description Transition exported to applied, writing the job's rows back to the baseline
// @Tags kogan-template
// @Produce json
// @Security BearerAuth
// @Param job_id path string true "Export job ID"
// @Success 200 {object} resdto.ApplyExportResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /kogan-template/export/{job_id}/apply [post]
func (h *ExportHandler) Apply(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid job_id", nil)
		return
	}

	var appliedBy *string
	if email, ok := middleware.GetOperatorEmail(c); ok {
		appliedBy = &email
	}

	view, err := h.cmds.Apply(c.Request.Context(), jobID, appliedBy)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrExportJobNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Export job not found", nil)
		case errors.Is(err, commands.ErrExportAlreadyApplied):
			httperr.AbortWithError(c, http.StatusConflict, err, "Export job already applied", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Apply export failed", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromApplied(view))
}

// RFC 5987 filename so non-ASCII timestamps survive; plain filename kept for
// older clients.
func contentDisposition(fileName string) string {
	escaped := url.PathEscape(fileName)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fileName, escaped)
}
