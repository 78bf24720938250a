//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"ops-console/internal/domain/exportjob"
	"ops-console/internal/handler/api"
	resdto "ops-console/internal/handler/dto/response"
	"ops-console/internal/usecase/commands"
	"ops-console/internal/usecase/queries"
	"ops-console/tests/common/httptest"
	commandsmock "ops-console/tests/mock/commands"
	queriesmock "ops-console/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ExportHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockExportCommands
	mockQueries  *queriesmock.MockExportQueries
	handler      *api.ExportHandler
}

func (s *ExportHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockExportCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockExportQueries(s.mockCtrl)
	s.handler = api.NewExportHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/api/kogan-template/export", s.handler.Create)
	s.router.GET("/api/kogan-template/download", s.handler.Download)
	s.router.POST("/api/kogan-template/export/:job_id/apply", s.handler.Apply)
}

func (s *ExportHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestExportHandlerSuite(t *testing.T) {
	suite.Run(t, new(ExportHandlerTestSuite))
}

func exportJobView(country string) *queries.ExportJobView {
	exportedAt := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	return &queries.ExportJobView{
		JobID:      uuid.New(),
		Country:    country,
		FileName:   "kogan_diff_" + country + "_20240315T103000Z.csv",
		FileSize:   512,
		RowCount:   42,
		Status:     "exported",
		ExportedAt: &exportedAt,
	}
}

func (s *ExportHandlerTestSuite) TestCreate() {
	s.Run("success: 201 with job summary", func() {
		view := exportJobView("AU")
		s.mockCommands.EXPECT().Create(gomock.Any(), "AU", gomock.Any()).
			Return(&commands.CreateExportResult{Job: view}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/kogan-template/export?country_type=AU", nil, "")

		var response resdto.ExportJobResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(view.JobID.String(), response.JobID)
		s.Equal(42, response.RowCount)
		s.Equal("exported", response.Status)
	})

	s.Run("success: 200 no-dirty with last job", func() {
		last := exportJobView("NZ")
		s.mockCommands.EXPECT().Create(gomock.Any(), "NZ", gomock.Any()).
			Return(&commands.CreateExportResult{NoDirty: true, LastJob: last}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/kogan-template/export?country_type=NZ", nil, "")

		var response resdto.NoDirtyResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(resdto.DetailNoDirtySku, response.Detail)
		s.Require().NotNil(response.LastJob)
		s.Equal(last.JobID.String(), response.LastJob.JobID)
	})

	s.Run("success: 200 no-dirty without last job", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), "AU", gomock.Any()).
			Return(&commands.CreateExportResult{NoDirty: true}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/kogan-template/export?country_type=AU", nil, "")

		var response resdto.NoDirtyResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Nil(response.LastJob)
	})

	s.Run("error: 400 for unsupported country", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), "US", gomock.Any()).
			Return(nil, exportjob.ErrInvalidCountry).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/kogan-template/export?country_type=US", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "country_type must be AU or NZ")
	})
}

func (s *ExportHandlerTestSuite) TestDownload() {
	s.Run("success: streams csv with metadata headers", func() {
		view := exportJobView("AU")
		file := &queries.ExportFileView{ExportJobView: *view, Content: []byte("SKU,Price\nA,1\n")}
		s.mockQueries.EXPECT().GetFile(gomock.Any(), view.JobID).Return(file, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/kogan-template/download?job_id="+view.JobID.String(), nil, "")

		s.Equal(http.StatusOK, rec.Code)
		s.Equal("SKU,Price\nA,1\n", rec.Body.String())
		s.Equal(view.JobID.String(), rec.Header().Get("X-Kogan-Export-Job"))
		s.Equal("42", rec.Header().Get("X-Kogan-Export-Rows"))
		s.Equal("exported", rec.Header().Get("X-Kogan-Export-Status"))
		s.Equal("AU", rec.Header().Get("X-Kogan-Export-Country"))
		s.Equal("2024-03-15 10:30:00", rec.Header().Get("X-Kogan-Export-Exported-At"))
		s.Empty(rec.Header().Get("X-Kogan-Export-Applied-At"))
		s.Contains(rec.Header().Get("Content-Disposition"), view.FileName)
	})

	s.Run("error: 400 for malformed job id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/kogan-template/download?job_id=not-a-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid job_id")
	})

	s.Run("error: 404 for unknown job", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetFile(gomock.Any(), id).Return(nil, queries.ErrExportJobNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/kogan-template/download?job_id="+id.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Export job not found")
	})
}

func (s *ExportHandlerTestSuite) TestApply() {
	s.Run("success: returns job_id, status and applied_at", func() {
		view := exportJobView("AU")
		appliedAt := time.Date(2024, 3, 15, 11, 0, 0, 0, time.UTC)
		view.Status = "applied"
		view.AppliedAt = &appliedAt
		s.mockCommands.EXPECT().Apply(gomock.Any(), view.JobID, gomock.Any()).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/kogan-template/export/"+view.JobID.String()+"/apply", nil, "")

		var response resdto.ApplyExportResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.JobID.String(), response.JobID)
		s.Equal("applied", response.Status)
		s.Require().NotNil(response.AppliedAt)
		s.Equal("2024-03-15T11:00:00Z", *response.AppliedAt)
	})

	s.Run("error: 404 for unknown job", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().Apply(gomock.Any(), id, gomock.Any()).
			Return(nil, commands.ErrExportJobNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/kogan-template/export/"+id.String()+"/apply", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Export job not found")
	})

	s.Run("error: 409 when already applied", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().Apply(gomock.Any(), id, gomock.Any()).
			Return(nil, commands.ErrExportAlreadyApplied).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/kogan-template/export/"+id.String()+"/apply", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already applied")
	})
}
