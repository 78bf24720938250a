package opsclient

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Operation string

const (
	OpCreate     Operation = "create"
	OpDownload   Operation = "download"
	OpRedownload Operation = "redownload"
	OpApply      Operation = "apply"
)

// OpState is the per-(country, operation) busy state. Failed is sticky until
// the next attempt so the UI can render the last outcome.
type OpState string

const (
	OpIdle    OpState = "idle"
	OpPending OpState = "pending"
	OpFailed  OpState = "failed"
)

// PreconditionError is a client-side guard failure; no request was sent.
type PreconditionError struct {
	Country string
	Op      Operation
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("no tracked export job for %s: cannot %s", e.Country, e.Op)
}

// ErrOperationPending rejects a duplicate submission of the same
// operation+country while one is in flight.
var ErrOperationPending = errors.New("operation already pending")

type opKey struct {
	country string
	op      Operation
}

// ExportTracker holds at most one tracked job per country and drives the
// NONE -> EXPORTED -> APPLIED lifecycle against the server. A single UI
// session goroutine is assumed; the busy map guards duplicate submissions,
// the server remains the arbiter of valid transitions.
type ExportTracker struct {
	client  *Client
	tracked map[string]*ExportJob
	ops     map[opKey]OpState
}

func NewExportTracker(client *Client) *ExportTracker {
	return &ExportTracker{
		client:  client,
		tracked: make(map[string]*ExportJob),
		ops:     make(map[opKey]OpState),
	}
}

// TrackedJob returns the country's current job, nil when none is tracked.
func (t *ExportTracker) TrackedJob(country string) *ExportJob {
	return t.tracked[country]
}

func (t *ExportTracker) State(country string, op Operation) OpState {
	if s, ok := t.ops[opKey{country, op}]; ok {
		return s
	}
	return OpIdle
}

// Create asks the server for a new export job. A no-dirty response leaves the
// tracked slot untouched; a created job supersedes any prior tracked job.
func (t *ExportTracker) Create(ctx context.Context, country string) (*CreateExportResult, error) {
	if err := t.begin(country, OpCreate); err != nil {
		return nil, err
	}

	result, err := t.client.CreateExport(ctx, country)
	t.finish(country, OpCreate, err)
	if err != nil {
		return nil, err
	}

	if !result.NoDirty {
		t.tracked[country] = result.Job
	}
	return result, nil
}

// Download fetches the tracked job's artifact. Idempotent on the server; the
// job status never changes. Header metadata falls back to the held summary
// when absent, and the filename falls back to a deterministic
// country+timestamp name.
func (t *ExportTracker) Download(ctx context.Context, country string) (*DownloadResult, error) {
	return t.download(ctx, country, OpDownload)
}

// Redownload re-fetches the same artifact without re-creating the job.
func (t *ExportTracker) Redownload(ctx context.Context, country string) (*DownloadResult, error) {
	return t.download(ctx, country, OpRedownload)
}

func (t *ExportTracker) download(ctx context.Context, country string, op Operation) (*DownloadResult, error) {
	job := t.tracked[country]
	if job == nil {
		return nil, &PreconditionError{Country: country, Op: op}
	}
	if err := t.begin(country, op); err != nil {
		return nil, err
	}

	result, err := t.client.DownloadExport(ctx, job.JobID)
	t.finish(country, op, err)
	if err != nil {
		return nil, err
	}

	result.Meta = mergeMeta(result.Meta, job)
	if result.FileName == "" {
		result.FileName = fallbackFileName(country, time.Now())
	}
	return result, nil
}

// Apply confirms consumption of the exported file and clears the tracked
// slot, returning the country to its "no job" state.
func (t *ExportTracker) Apply(ctx context.Context, country string) (*ApplyResult, error) {
	job := t.tracked[country]
	if job == nil {
		return nil, &PreconditionError{Country: country, Op: OpApply}
	}
	if err := t.begin(country, OpApply); err != nil {
		return nil, err
	}

	result, err := t.client.ApplyExport(ctx, job.JobID)
	t.finish(country, OpApply, err)
	if err != nil {
		return nil, err
	}

	delete(t.tracked, country)
	return result, nil
}

func (t *ExportTracker) begin(country string, op Operation) error {
	key := opKey{country, op}
	if t.ops[key] == OpPending {
		return ErrOperationPending
	}
	t.ops[key] = OpPending
	return nil
}

func (t *ExportTracker) finish(country string, op Operation, err error) {
	key := opKey{country, op}
	if err != nil {
		t.ops[key] = OpFailed
		return
	}
	t.ops[key] = OpIdle
}

// mergeMeta fills absent header fields from the locally-held job summary.
func mergeMeta(meta ExportMeta, job *ExportJob) ExportMeta {
	if meta.JobID == "" {
		meta.JobID = job.JobID
	}
	if meta.RowCount == nil {
		rows := job.RowCount
		meta.RowCount = &rows
	}
	if meta.Status == "" {
		meta.Status = job.Status
	}
	if meta.Country == "" {
		meta.Country = job.Country
	}
	if meta.ExportedAt == "" && job.ExportedAt != nil {
		meta.ExportedAt = *job.ExportedAt
	}
	if meta.AppliedAt == "" && job.AppliedAt != nil {
		meta.AppliedAt = *job.AppliedAt
	}
	return meta
}

func fallbackFileName(country string, now time.Time) string {
	return fmt.Sprintf("kogan_diff_%s_%s.csv", country, now.UTC().Format("20060102T150405Z"))
}
