package repository

import (
	"context"
	"encoding/json"

	"ops-console/internal/domain/exportjob"
	"ops-console/internal/infra"
	"ops-console/internal/infra/db"
	"ops-console/internal/pkg/pgconv"
	"ops-console/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ExportJobRepository struct{}

func NewExportJobRepository() shared.ExportJobRepository {
	return &ExportJobRepository{}
}

const insertJobSQL = `
INSERT INTO kogan_export_jobs (id, country_type, status, file_name, file_size, row_count, file_content, created_by, exported_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const insertJobSkuSQL = `
INSERT INTO kogan_export_job_skus (job_id, sku, template_payload, changed_columns)
VALUES ($1, $2, $3, $4)`

func (r *ExportJobRepository) Create(ctx context.Context, dbtx db.DBTX, job *exportjob.Job, content []byte, rows []exportjob.ChangedRow) error {
	_, err := dbtx.Exec(ctx, insertJobSQL,
		pgconv.UUIDToPgtype(job.ID()),
		job.Country().String(),
		job.Status().String(),
		job.FileName(),
		job.FileSize(),
		job.RowCount(),
		content,
		pgconv.StringPtrToPgtype(job.CreatedBy()),
		pgconv.TimePtrToPgtype(job.ExportedAt()),
		pgconv.TimeToPgtype(job.CreatedAt()),
		pgconv.TimeToPgtype(job.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert export job", err)
	}

	for _, row := range rows {
		payload, merr := json.Marshal(row.Payload)
		if merr != nil {
			return infra.WrapRepoErr("failed to marshal template payload", merr)
		}
		changed, merr := json.Marshal(row.ChangedColumns)
		if merr != nil {
			return infra.WrapRepoErr("failed to marshal changed columns", merr)
		}
		if _, err := dbtx.Exec(ctx, insertJobSkuSQL, pgconv.UUIDToPgtype(job.ID()), row.SKU, payload, changed); err != nil {
			return infra.WrapRepoErr("failed to insert export job sku", err)
		}
	}
	return nil
}

const jobColumns = `id, country_type, status, file_name, file_size, row_count, created_by, applied_by, exported_at, applied_at, created_at, updated_at`

func (r *ExportJobRepository) GetForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*exportjob.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM kogan_export_jobs WHERE id = $1 FOR UPDATE`
	job, err := scanJob(dbtx.QueryRow(ctx, query, pgconv.UUIDToPgtype(id)))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("export job not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get export job", err)
	}
	return job, nil
}

func (r *ExportJobRepository) LastByCountry(ctx context.Context, dbtx db.DBTX, country exportjob.Country) (*exportjob.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM kogan_export_jobs WHERE country_type = $1 ORDER BY created_at DESC LIMIT 1`
	job, err := scanJob(dbtx.QueryRow(ctx, query, country.String()))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("no export job for country", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get last export job", err)
	}
	return job, nil
}

func (r *ExportJobRepository) SkuRows(ctx context.Context, dbtx db.DBTX, jobID uuid.UUID) ([]exportjob.ChangedRow, error) {
	query := `SELECT sku, template_payload, changed_columns FROM kogan_export_job_skus WHERE job_id = $1 ORDER BY sku`
	rows, err := dbtx.Query(ctx, query, pgconv.UUIDToPgtype(jobID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query export job skus", err)
	}
	defer rows.Close()

	var out []exportjob.ChangedRow
	for rows.Next() {
		var sku string
		var payloadRaw, changedRaw []byte
		if err := rows.Scan(&sku, &payloadRaw, &changedRaw); err != nil {
			return nil, infra.WrapRepoErr("failed to scan export job sku", err)
		}
		row := exportjob.ChangedRow{SKU: sku}
		if err := json.Unmarshal(payloadRaw, &row.Payload); err != nil {
			return nil, infra.WrapRepoErr("failed to unmarshal template payload", err)
		}
		if err := json.Unmarshal(changedRaw, &row.ChangedColumns); err != nil {
			return nil, infra.WrapRepoErr("failed to unmarshal changed columns", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate export job skus", err)
	}
	return out, nil
}

const markAppliedSQL = `
UPDATE kogan_export_jobs
SET status = $2, applied_by = $3, applied_at = $4, updated_at = $5
WHERE id = $1`

func (r *ExportJobRepository) MarkApplied(ctx context.Context, dbtx db.DBTX, job *exportjob.Job) error {
	_, err := dbtx.Exec(ctx, markAppliedSQL,
		pgconv.UUIDToPgtype(job.ID()),
		job.Status().String(),
		pgconv.StringPtrToPgtype(job.AppliedBy()),
		pgconv.TimePtrToPgtype(job.AppliedAt()),
		pgconv.TimeToPgtype(job.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark export job applied", err)
	}
	return nil
}

func scanJob(row pgx.Row) (*exportjob.Job, error) {
	var id pgtype.UUID
	var country, status, fileName string
	var fileSize, rowCount int
	var createdBy, appliedBy pgtype.Text
	var exportedAt, appliedAt, createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&id, &country, &status, &fileName, &fileSize, &rowCount,
		&createdBy, &appliedBy, &exportedAt, &appliedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	jobID := pgconv.UUIDPtrFromPgtype(id)
	return exportjob.Reconstruct(
		*jobID,
		exportjob.Country(country),
		exportjob.Status(status),
		fileName,
		fileSize,
		rowCount,
		pgconv.StringPtrFromPgtype(createdBy),
		pgconv.StringPtrFromPgtype(appliedBy),
		pgconv.TimePtrFromPgtype(exportedAt),
		pgconv.TimePtrFromPgtype(appliedAt),
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}
