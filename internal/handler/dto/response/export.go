package response

import (
	"ops-console/internal/usecase/queries"
)

type ExportJobResponse struct {
	JobID      string  `json:"job_id"`
	Country    string  `json:"country_type"`
	FileName   string  `json:"file_name"`
	FileSize   int     `json:"file_size"`
	RowCount   int     `json:"row_count"`
	Status     string  `json:"status"`
	CreatedBy  *string `json:"created_by"`
	AppliedBy  *string `json:"applied_by"`
	ExportedAt *string `json:"exported_at"`
	AppliedAt  *string `json:"applied_at"`
}

func FromExportJobView(v *queries.ExportJobView) *ExportJobResponse {
	return &ExportJobResponse{
		JobID:      v.JobID.String(),
		Country:    v.Country,
		FileName:   v.FileName,
		FileSize:   v.FileSize,
		RowCount:   v.RowCount,
		Status:     v.Status,
		CreatedBy:  v.CreatedBy,
		AppliedBy:  v.AppliedBy,
		ExportedAt: rfc3339Ptr(v.ExportedAt),
		AppliedAt:  rfc3339Ptr(v.AppliedAt),
	}
}

// NoDirtyResponse is the 200 body when no SKU is flagged dirty for the
// country; LastJob is the most recent job if one exists.
type NoDirtyResponse struct {
	Detail  string             `json:"detail"`
	Country string             `json:"country_type"`
	LastJob *ExportJobResponse `json:"last_job"`
}

const DetailNoDirtySku = "no_dirty_sku"

func FromNoDirty(country string, lastJob *queries.ExportJobView) *NoDirtyResponse {
	resp := &NoDirtyResponse{Detail: DetailNoDirtySku, Country: country}
	if lastJob != nil {
		resp.LastJob = FromExportJobView(lastJob)
	}
	return resp
}

type ApplyExportResponse struct {
	JobID     string  `json:"job_id"`
	Status    string  `json:"status"`
	AppliedAt *string `json:"applied_at"`
}

func FromApplied(v *queries.ExportJobView) *ApplyExportResponse {
	return &ApplyExportResponse{
		JobID:     v.JobID.String(),
		Status:    v.Status,
		AppliedAt: rfc3339Ptr(v.AppliedAt),
	}
}
