package queries

import (
	"context"
	"time"

	"ops-console/internal/domain/exportjob"
	"ops-console/internal/infra"
	"ops-console/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrExportJobNotFound = errs.New("export job not found")

type ExportJobView struct {
	JobID      uuid.UUID  `json:"job_id"`
	Country    string     `json:"country_type"`
	FileName   string     `json:"file_name"`
	FileSize   int        `json:"file_size"`
	RowCount   int        `json:"row_count"`
	Status     string     `json:"status"`
	CreatedBy  *string    `json:"created_by"`
	AppliedBy  *string    `json:"applied_by"`
	ExportedAt *time.Time `json:"exported_at"`
	AppliedAt  *time.Time `json:"applied_at"`
}

type ExportFileView struct {
	ExportJobView
	Content []byte
}

type ExportReadStore interface {
	FindFileByID(ctx context.Context, id uuid.UUID) (*ExportFileView, error)
}

type ExportQueries interface {
	// GetFile fetches a stored artifact by job id. Repeated calls return the
	// same bytes and never touch the job's status.
	GetFile(ctx context.Context, jobID uuid.UUID) (*ExportFileView, error)
}

type exportQueriesImpl struct {
	repo ExportReadStore
}

func NewExportQueries(repo ExportReadStore) ExportQueries {
	return &exportQueriesImpl{repo: repo}
}

func (q *exportQueriesImpl) GetFile(ctx context.Context, jobID uuid.UUID) (*ExportFileView, error) {
	view, err := q.repo.FindFileByID(ctx, jobID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrExportJobNotFound
		}
		return nil, err
	}
	return view, nil
}

func ViewFromJob(j *exportjob.Job) *ExportJobView {
	return &ExportJobView{
		JobID:      j.ID(),
		Country:    j.Country().String(),
		FileName:   j.FileName(),
		FileSize:   j.FileSize(),
		RowCount:   j.RowCount(),
		Status:     j.Status().String(),
		CreatedBy:  j.CreatedBy(),
		AppliedBy:  j.AppliedBy(),
		ExportedAt: j.ExportedAt(),
		AppliedAt:  j.AppliedAt(),
	}
}
