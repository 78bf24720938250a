package commands

import (
	"context"

	"ops-console/internal/domain/exportjob"
	"ops-console/internal/infra"
	"ops-console/internal/pkg/clock"
	"ops-console/internal/pkg/errs"
	"ops-console/internal/usecase/queries"
	"ops-console/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrExportJobNotFound    = errs.New("export job not found")
	ErrExportAlreadyApplied = errs.New("export job already applied")
)

// CreateExportResult: NoDirty means no changed rows existed and no job was
// created; LastJob then carries the previous job for reference (may be nil).
type CreateExportResult struct {
	NoDirty bool
	Job     *queries.ExportJobView
	LastJob *queries.ExportJobView
}

type ExportCommands interface {
	Create(ctx context.Context, countryType string, createdBy *string) (*CreateExportResult, error)
	Apply(ctx context.Context, jobID uuid.UUID, appliedBy *string) (*queries.ExportJobView, error)
}

type exportCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewExportCommands(uow shared.UnitOfWork, clk clock.Clock) ExportCommands {
	return &exportCommandsImpl{uow: uow, clock: clk}
}

// Create selects the country's dirty SKUs, diffs them against the baseline
// template and stores the generated CSV on a new job — all in one transaction
// so a concurrent create cannot observe half a job.
func (uc *exportCommandsImpl) Create(ctx context.Context, countryType string, createdBy *string) (*CreateExportResult, error) {
	country, err := exportjob.NewCountry(countryType)
	if err != nil {
		return nil, err
	}

	result := &CreateExportResult{}
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sources, derr := tx.Products().DirtySourceRows(ctx, tx.DB(), country)
		if derr != nil {
			return derr
		}
		if len(sources) == 0 {
			return uc.fillNoDirty(ctx, tx, country, result)
		}

		skus := make([]string, len(sources))
		for i, src := range sources {
			skus[i] = src.SKU
		}

		baselines, derr := tx.Templates().BaselineMap(ctx, tx.DB(), country, skus)
		if derr != nil {
			return derr
		}

		diff, derr := exportjob.BuildDiff(country, sources, baselines)
		if derr != nil {
			return derr
		}
		if diff.RowCount == 0 {
			// フラグは立っているが実差分なし。再スキャンを避けるためフラグだけ落とす。
			if derr = tx.Products().ClearDirty(ctx, tx.DB(), country, skus); derr != nil {
				return derr
			}
			return uc.fillNoDirty(ctx, tx, country, result)
		}

		now := uc.clock.Now()
		job := exportjob.NewJob(country, exportjob.DiffFileName(country, now), len(diff.CSV), diff.RowCount, createdBy, now)
		if derr = tx.ExportJobs().Create(ctx, tx.DB(), job, diff.CSV, diff.Rows); derr != nil {
			return derr
		}
		result.Job = queries.ViewFromJob(job)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Apply closes the job: exported -> applied, write the job's rows back to the
// baseline template and clear the country's dirty flags for those SKUs.
func (uc *exportCommandsImpl) Apply(ctx context.Context, jobID uuid.UUID, appliedBy *string) (*queries.ExportJobView, error) {
	var view *queries.ExportJobView
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		job, derr := tx.ExportJobs().GetForUpdate(ctx, tx.DB(), jobID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrExportJobNotFound
			}
			return derr
		}

		if derr = job.Apply(appliedBy, uc.clock.Now()); derr != nil {
			return errs.Mark(derr, ErrExportAlreadyApplied)
		}

		rows, derr := tx.ExportJobs().SkuRows(ctx, tx.DB(), jobID)
		if derr != nil {
			return derr
		}
		if derr = tx.Templates().UpsertRows(ctx, tx.DB(), job.Country(), rows); derr != nil {
			return derr
		}

		skus := make([]string, len(rows))
		for i, row := range rows {
			skus[i] = row.SKU
		}
		if derr = tx.Products().ClearDirty(ctx, tx.DB(), job.Country(), skus); derr != nil {
			return derr
		}

		if derr = tx.ExportJobs().MarkApplied(ctx, tx.DB(), job); derr != nil {
			return derr
		}
		view = queries.ViewFromJob(job)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (uc *exportCommandsImpl) fillNoDirty(ctx context.Context, tx shared.Tx, country exportjob.Country, result *CreateExportResult) error {
	result.NoDirty = true
	last, err := tx.ExportJobs().LastByCountry(ctx, tx.DB(), country)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return err
	}
	result.LastJob = queries.ViewFromJob(last)
	return nil
}
