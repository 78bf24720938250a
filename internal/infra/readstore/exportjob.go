package readstore

import (
	"context"

	"ops-console/internal/infra"
	"ops-console/internal/pkg/pgconv"
	"ops-console/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ExportReadStore struct {
	pool *pgxpool.Pool
}

func NewExportReadStore(pool *pgxpool.Pool) queries.ExportReadStore {
	return &ExportReadStore{pool: pool}
}

const findFileSQL = `
SELECT id, country_type, file_name, file_size, row_count, status, created_by, applied_by, exported_at, applied_at, file_content
FROM kogan_export_jobs
WHERE id = $1`

func (r *ExportReadStore) FindFileByID(ctx context.Context, id uuid.UUID) (*queries.ExportFileView, error) {
	var view queries.ExportFileView
	var jobID pgtype.UUID
	var createdBy, appliedBy pgtype.Text
	var exportedAt, appliedAt pgtype.Timestamptz

	err := r.pool.QueryRow(ctx, findFileSQL, pgconv.UUIDToPgtype(id)).Scan(
		&jobID, &view.Country, &view.FileName, &view.FileSize, &view.RowCount, &view.Status,
		&createdBy, &appliedBy, &exportedAt, &appliedAt, &view.Content,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("export job not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get export file", err)
	}

	if p := pgconv.UUIDPtrFromPgtype(jobID); p != nil {
		view.JobID = *p
	}
	view.CreatedBy = pgconv.StringPtrFromPgtype(createdBy)
	view.AppliedBy = pgconv.StringPtrFromPgtype(appliedBy)
	view.ExportedAt = pgconv.TimePtrFromPgtype(exportedAt)
	view.AppliedAt = pgconv.TimePtrFromPgtype(appliedAt)
	return &view, nil
}
