package shared

import (
	"context"

	"ops-console/internal/domain/exportjob"
	"ops-console/internal/domain/schedule"
	"ops-console/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Schedules() ScheduleRepository
	Products() ProductRepository
	Templates() TemplateRepository
	ExportJobs() ExportJobRepository
	DB() db.DBTX
}

type ScheduleRepository interface {
	Upsert(ctx context.Context, db db.DBTX, s *schedule.Schedule) error
}

type ProductRepository interface {
	// DirtySourceRows returns the flattened product+freight rows flagged dirty
	// for the country, ordered by SKU.
	DirtySourceRows(ctx context.Context, db db.DBTX, country exportjob.Country) ([]exportjob.SourceRow, error)
	ClearDirty(ctx context.Context, db db.DBTX, country exportjob.Country, skus []string) error
}

type TemplateRepository interface {
	// BaselineMap: sku -> (model column -> last exported cell value).
	BaselineMap(ctx context.Context, db db.DBTX, country exportjob.Country, skus []string) (map[string]map[string]string, error)
	UpsertRows(ctx context.Context, db db.DBTX, country exportjob.Country, rows []exportjob.ChangedRow) error
}

type ExportJobRepository interface {
	Create(ctx context.Context, db db.DBTX, job *exportjob.Job, content []byte, rows []exportjob.ChangedRow) error
	GetForUpdate(ctx context.Context, db db.DBTX, id uuid.UUID) (*exportjob.Job, error)
	SkuRows(ctx context.Context, db db.DBTX, jobID uuid.UUID) ([]exportjob.ChangedRow, error)
	MarkApplied(ctx context.Context, db db.DBTX, job *exportjob.Job) error
	LastByCountry(ctx context.Context, db db.DBTX, country exportjob.Country) (*exportjob.Job, error)
}
