package exportjob

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Job is one export-and-eventual-apply cycle for one country.
// Immutable once created except for the exported -> applied transition.
type Job struct {
	id         uuid.UUID
	country    Country
	status     Status
	fileName   string
	fileSize   int
	rowCount   int
	createdBy  *string
	appliedBy  *string
	exportedAt *time.Time
	appliedAt  *time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

func NewJob(country Country, fileName string, fileSize, rowCount int, createdBy *string, now time.Time) *Job {
	exportedAt := now
	return &Job{
		id:         uuid.New(),
		country:    country,
		status:     StatusExported,
		fileName:   fileName,
		fileSize:   fileSize,
		rowCount:   rowCount,
		createdBy:  createdBy,
		exportedAt: &exportedAt,
		createdAt:  now,
		updatedAt:  now,
	}
}

func Reconstruct(id uuid.UUID, country Country, status Status, fileName string, fileSize, rowCount int, createdBy, appliedBy *string, exportedAt, appliedAt *time.Time, createdAt, updatedAt time.Time) *Job {
	return &Job{
		id:         id,
		country:    country,
		status:     status,
		fileName:   fileName,
		fileSize:   fileSize,
		rowCount:   rowCount,
		createdBy:  createdBy,
		appliedBy:  appliedBy,
		exportedAt: exportedAt,
		appliedAt:  appliedAt,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// Apply closes the job. Only an exported job may transition.
func (j *Job) Apply(appliedBy *string, now time.Time) error {
	if j.status != StatusExported {
		return ErrAlreadyApplied
	}
	j.status = StatusApplied
	j.appliedBy = appliedBy
	j.appliedAt = &now
	j.updatedAt = now
	return nil
}

func (j *Job) ID() uuid.UUID          { return j.id }
func (j *Job) Country() Country       { return j.country }
func (j *Job) Status() Status         { return j.status }
func (j *Job) FileName() string       { return j.fileName }
func (j *Job) FileSize() int          { return j.fileSize }
func (j *Job) RowCount() int          { return j.rowCount }
func (j *Job) CreatedBy() *string     { return j.createdBy }
func (j *Job) AppliedBy() *string     { return j.appliedBy }
func (j *Job) ExportedAt() *time.Time { return j.exportedAt }
func (j *Job) AppliedAt() *time.Time  { return j.appliedAt }
func (j *Job) CreatedAt() time.Time   { return j.createdAt }
func (j *Job) UpdatedAt() time.Time   { return j.updatedAt }

// DiffFileName は kogan_diff_<COUNTRY>_<UTC timestamp>.csv 形式。
func DiffFileName(country Country, now time.Time) string {
	return fmt.Sprintf("kogan_diff_%s_%s.csv", country, now.UTC().Format("20060102T150405Z"))
}
