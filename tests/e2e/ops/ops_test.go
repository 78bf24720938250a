//go:build e2e

package ops_test

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"ops-console/internal/handler/dto/request"
	"ops-console/internal/handler/dto/response"
	"ops-console/tests/common/authtest"
	"ops-console/tests/common/dbtest"
	"ops-console/tests/common/httptest"
	"ops-console/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	schedulesURL = "/api/schedules"
	exportURL    = "/api/kogan-template/export"
	downloadURL  = "/api/kogan-template/download"
)

type OpsSuite struct {
	e2e.SharedSuite
}

func (s *OpsSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestOpsSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(OpsSuite))
}

func (s *OpsSuite) login() string {
	return authtest.LoginOperator(s.T(), s.Router, s.Config.Auth.OperatorEmail, "test-password")
}

func f(v float64) *float64 { return &v }
func str(v string) *string { return &v }
func i32(v int32) *int32   { return &v }

func seedDirtyAUProducts(t *testing.T, db dbtest.DBLike) {
	t.Helper()

	dbtest.InsertProduct(t, db, dbtest.ProductSeed{
		SKU: "SKU-1", KoganAUPrice: f(100), RRP: f(150), ShippingAve: f(5),
		Weight: f(1.2), Barcode: str("B1"), Stock: i32(5), Brand: str("Acme"),
		AUDirty: true,
	})
	dbtest.InsertProduct(t, db, dbtest.ProductSeed{
		SKU: "SKU-2", KoganAUPrice: f(50), RRP: f(60), ShippingAve: f(0),
		Weight: f(2.5), Barcode: str("B2"), Stock: i32(10), Brand: str("Beta"),
		AUDirty: true,
	})
	// dirty でない行はエクスポート対象外
	dbtest.InsertProduct(t, db, dbtest.ProductSeed{
		SKU: "SKU-3", KoganAUPrice: f(20), RRP: f(25),
		AUDirty: false,
	})
}

// =============================================================================
// TestSchedules - Schedule listing and editing
// =============================================================================

func (s *OpsSuite) TestSchedules() {
	s.Run("Normal case: listing returns both job definitions with defaults", func() {
		t := s.T()
		token := s.login()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, schedulesURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var schedules []response.ScheduleResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &schedules))
		require.Len(t, schedules, 2)

		byKey := map[string]response.ScheduleResponse{}
		for _, sch := range schedules {
			byKey[sch.Key] = sch
		}

		priceReset, ok := byKey["price_reset"]
		require.True(t, ok)
		require.False(t, priceReset.Enabled)
		require.Equal(t, "WED", priceReset.DayOfWeek)
		require.Equal(t, 20, priceReset.Hour)
		require.Equal(t, 0, priceReset.Minute)
		require.True(t, priceReset.Every2Weeks)

		fullSync, ok := byKey["product_full_sync"]
		require.True(t, ok)
		require.Equal(t, "THU", fullSync.DayOfWeek)
		require.Equal(t, 8, fullSync.Hour)
		require.Equal(t, 10, fullSync.Minute)
	})

	s.Run("Normal case: update persists and shows on the next listing", func() {
		t := s.T()
		token := s.login()

		enabled := true
		hour := 21
		minute := 30
		reqBody := request.UpdateScheduleRequest{
			Enabled:     &enabled,
			DayOfWeek:   "FRI",
			Hour:        &hour,
			Minute:      &minute,
			Every2Weeks: true,
			Timezone:    "Australia/Sydney",
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, schedulesURL+"/price_reset", reqBody, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated response.ScheduleResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &updated))
		require.Equal(t, "price_reset", updated.Key)
		require.True(t, updated.Enabled)
		require.Equal(t, "FRI", updated.DayOfWeek)
		require.Equal(t, 21, updated.Hour)
		require.Equal(t, 30, updated.Minute)

		lw := httptest.PerformRequest(t, s.Router, http.MethodGet, schedulesURL, nil, token)
		require.Equal(t, http.StatusOK, lw.Code)

		var schedules []response.ScheduleResponse
		require.NoError(t, httptest.DecodeResponseBody(t, lw.Body, &schedules))
		for _, sch := range schedules {
			if sch.Key == "price_reset" {
				require.True(t, sch.Enabled)
				require.Equal(t, "FRI", sch.DayOfWeek)
			}
		}
	})

	s.Run("Error case: unauthenticated access is rejected", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, schedulesURL, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// TestExportLifecycle - Export, download, apply, and the no-dirty short circuit
// =============================================================================

func (s *OpsSuite) TestExportLifecycle() {
	s.Run("Normal case: full AU lifecycle updates templates and clears dirty flags", func() {
		t := s.T()
		token := s.login()
		seedDirtyAUProducts(t, s.DB)

		// export
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, exportURL+"?country_type=AU", nil, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var job response.ExportJobResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &job))
		require.Equal(t, "AU", job.Country)
		require.Equal(t, "exported", job.Status)
		require.Equal(t, 2, job.RowCount)
		require.NotNil(t, job.CreatedBy)
		require.Equal(t, s.Config.Auth.OperatorEmail, *job.CreatedBy)
		require.Contains(t, job.FileName, "kogan_diff_AU_")

		// export しただけでは dirty フラグもテンプレートも変化しない
		require.Equal(t, 2, dbtest.CountDirtyProducts(t, s.DB, "AU"))

		// download
		dw := httptest.PerformRequest(t, s.Router, http.MethodGet, downloadURL+"?job_id="+job.JobID, nil, token)
		require.Equal(t, http.StatusOK, dw.Code)
		require.Equal(t, job.JobID, dw.Header().Get("X-Kogan-Export-Job"))
		require.Equal(t, "2", dw.Header().Get("X-Kogan-Export-Rows"))
		require.Equal(t, "exported", dw.Header().Get("X-Kogan-Export-Status"))
		require.Equal(t, "AU", dw.Header().Get("X-Kogan-Export-Country"))
		require.NotEmpty(t, dw.Header().Get("X-Kogan-Export-Exported-At"))
		require.Empty(t, dw.Header().Get("X-Kogan-Export-Applied-At"))
		require.Contains(t, dw.Header().Get("Content-Disposition"), job.FileName)

		records, err := csv.NewReader(strings.NewReader(dw.Body.String())).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3) // ヘッダ + 2 SKU
		require.Equal(t, "SKU", records[0][0])

		// ダウンロードは何度でも可能でジョブ状態は変わらない
		dw2 := httptest.PerformRequest(t, s.Router, http.MethodGet, downloadURL+"?job_id="+job.JobID, nil, token)
		require.Equal(t, http.StatusOK, dw2.Code)
		require.Equal(t, "exported", dw2.Header().Get("X-Kogan-Export-Status"))

		// apply
		aw := httptest.PerformRequest(t, s.Router, http.MethodPost, exportURL+"/"+job.JobID+"/apply", nil, token)
		require.Equal(t, http.StatusOK, aw.Code, aw.Body.String())

		var applied response.ApplyExportResponse
		require.NoError(t, httptest.DecodeResponseBody(t, aw.Body, &applied))
		require.Equal(t, job.JobID, applied.JobID)
		require.Equal(t, "applied", applied.Status)
		require.NotNil(t, applied.AppliedAt)

		// apply によりベースラインが更新され、dirty フラグが落ちる
		require.Zero(t, dbtest.CountDirtyProducts(t, s.DB, "AU"))
		require.Equal(t, "100", dbtest.TemplateCell(t, s.DB, "AU", "SKU-1", "price"))
		require.Equal(t, "150", dbtest.TemplateCell(t, s.DB, "AU", "SKU-1", "rrp"))
		require.Equal(t, "50", dbtest.TemplateCell(t, s.DB, "AU", "SKU-2", "price"))

		// 変更が無くなったので次のエクスポートは no_dirty_sku
		nw := httptest.PerformRequest(t, s.Router, http.MethodPost, exportURL+"?country_type=AU", nil, token)
		require.Equal(t, http.StatusOK, nw.Code, nw.Body.String())

		var noDirty response.NoDirtyResponse
		require.NoError(t, httptest.DecodeResponseBody(t, nw.Body, &noDirty))
		require.Equal(t, response.DetailNoDirtySku, noDirty.Detail)
		require.Equal(t, "AU", noDirty.Country)
		require.NotNil(t, noDirty.LastJob)
		require.Equal(t, job.JobID, noDirty.LastJob.JobID)
		require.Equal(t, "applied", noDirty.LastJob.Status)
	})

	s.Run("Normal case: no-dirty with no history has no last job", func() {
		t := s.T()
		token := s.login()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, exportURL+"?country_type=NZ", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var noDirty response.NoDirtyResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &noDirty))
		require.Equal(t, response.DetailNoDirtySku, noDirty.Detail)
		require.Nil(t, noDirty.LastJob)
	})

	s.Run("Normal case: country dirty flags are independent", func() {
		t := s.T()
		token := s.login()

		dbtest.InsertProduct(t, s.DB, dbtest.ProductSeed{
			SKU: "SKU-NZ", KoganNZPrice: f(80), RRP: f(95), ShippingAve: f(3),
			NZDirty: true,
		})

		// AU は dirty 無し
		aw := httptest.PerformRequest(t, s.Router, http.MethodPost, exportURL+"?country_type=AU", nil, token)
		require.Equal(t, http.StatusOK, aw.Code)

		// NZ は 1 行エクスポートされる
		nw := httptest.PerformRequest(t, s.Router, http.MethodPost, exportURL+"?country_type=NZ", nil, token)
		require.Equal(t, http.StatusCreated, nw.Code, nw.Body.String())

		var job response.ExportJobResponse
		require.NoError(t, httptest.DecodeResponseBody(t, nw.Body, &job))
		require.Equal(t, "NZ", job.Country)
		require.Equal(t, 1, job.RowCount)
	})

	s.Run("Error case: applying twice conflicts", func() {
		t := s.T()
		token := s.login()
		seedDirtyAUProducts(t, s.DB)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, exportURL+"?country_type=AU", nil, token)
		require.Equal(t, http.StatusCreated, w.Code)

		var job response.ExportJobResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &job))

		aw := httptest.PerformRequest(t, s.Router, http.MethodPost, exportURL+"/"+job.JobID+"/apply", nil, token)
		require.Equal(t, http.StatusOK, aw.Code)

		aw2 := httptest.PerformRequest(t, s.Router, http.MethodPost, exportURL+"/"+job.JobID+"/apply", nil, token)
		require.Equal(t, http.StatusConflict, aw2.Code, aw2.Body.String())
	})

	s.Run("Error case: unknown job id on download", func() {
		t := s.T()
		token := s.login()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, downloadURL+"?job_id=00000000-0000-0000-0000-000000000000", nil, token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Error case: unsupported country", func() {
		t := s.T()
		token := s.login()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, exportURL+"?country_type=US", nil, token)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
