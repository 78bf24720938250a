//go:build unit

package exportjob_test

import (
	"testing"
	"time"

	"ops-console/internal/domain/exportjob"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCountry(t *testing.T) {
	for _, valid := range []string{"AU", "NZ"} {
		c, err := exportjob.NewCountry(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, c.String())
	}

	for _, invalid := range []string{"au", "US", "", "AUS"} {
		_, err := exportjob.NewCountry(invalid)
		require.ErrorIs(t, err, exportjob.ErrInvalidCountry)
	}
}

func TestNewJob(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	creator := "ops@example.com"

	job := exportjob.NewJob(exportjob.CountryAU, "kogan_diff_AU_20240315T103000Z.csv", 512, 42, &creator, now)

	assert.NotEqual(t, uuid.Nil, job.ID())
	assert.Equal(t, exportjob.CountryAU, job.Country())
	assert.Equal(t, exportjob.StatusExported, job.Status())
	assert.Equal(t, 42, job.RowCount())
	assert.Equal(t, 512, job.FileSize())
	require.NotNil(t, job.ExportedAt())
	assert.Equal(t, now, *job.ExportedAt())
	assert.Nil(t, job.AppliedAt())
	assert.Nil(t, job.AppliedBy())
}

func TestJobApply(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	applyTime := now.Add(time.Hour)
	applier := "ops@example.com"

	t.Run("exported job transitions to applied", func(t *testing.T) {
		job := exportjob.NewJob(exportjob.CountryNZ, "f.csv", 100, 3, nil, now)

		err := job.Apply(&applier, applyTime)
		require.NoError(t, err)

		assert.Equal(t, exportjob.StatusApplied, job.Status())
		require.NotNil(t, job.AppliedAt())
		assert.Equal(t, applyTime, *job.AppliedAt())
		require.NotNil(t, job.AppliedBy())
		assert.Equal(t, applier, *job.AppliedBy())
	})

	t.Run("applying twice fails", func(t *testing.T) {
		job := exportjob.NewJob(exportjob.CountryNZ, "f.csv", 100, 3, nil, now)

		require.NoError(t, job.Apply(&applier, applyTime))
		err := job.Apply(&applier, applyTime.Add(time.Minute))

		require.ErrorIs(t, err, exportjob.ErrAlreadyApplied)
		assert.Equal(t, applyTime, *job.AppliedAt())
	})
}

func TestDiffFileName(t *testing.T) {
	// 東部夏時間の時刻でも UTC に正規化される
	sydney := time.FixedZone("AEDT", 11*60*60)
	now := time.Date(2024, 1, 2, 9, 4, 5, 0, sydney)

	name := exportjob.DiffFileName(exportjob.CountryAU, now)
	assert.Equal(t, "kogan_diff_AU_20240101T220405Z.csv", name)
}
