package ports

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/bazi/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunReadingRecorderContract runs a suite of tests to verify that a ReadingRecorder
// implementation adheres to the defined interface contract.
// The recorder must start empty.
func RunReadingRecorderContract(t *testing.T, recorder ReadingRecorder) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405")
	base := time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)

	newRecord := func(id, birth string, offset time.Duration) *domain.ReadingRecord {
		return &domain.ReadingRecord{
			ID:        prefix + "-" + id,
			CreatedAt: base.Add(offset),
			Source:    domain.SourceDerived,
			Gender:    domain.DefaultGender,
			Reading:   domain.Generate(birth),
		}
	}

	t.Run("Record and Get", func(t *testing.T) {
		rec := newRecord("a", "1990-05-15 08:30", 0)
		require.NoError(t, recorder.Record(ctx, rec), "Record should not return error")

		loaded, err := recorder.Get(ctx, rec.ID)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, rec.ID, loaded.ID)
		assert.True(t, rec.CreatedAt.Equal(loaded.CreatedAt))
		assert.Equal(t, rec.Source, loaded.Source)

		want, err := json.Marshal(rec.Reading)
		require.NoError(t, err)
		got, err := json.Marshal(loaded.Reading)
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), "reading must survive storage byte-for-byte")
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := recorder.Get(ctx, prefix+"-missing")
		assert.ErrorIs(t, err, domain.ErrReadingNotFound)
	})

	t.Run("Recent Newest First", func(t *testing.T) {
		require.NoError(t, recorder.Record(ctx, newRecord("b", "2000-01-01 0002", time.Minute)))
		require.NoError(t, recorder.Record(ctx, newRecord("c", "2000-01-01 0003", 2*time.Minute)))

		recent, err := recorder.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, prefix+"-c", recent[0].ID)
		assert.Equal(t, prefix+"-b", recent[1].ID)

		all, err := recorder.Recent(ctx, 0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, prefix+"-a", all[2].ID)
	})

	t.Run("Record Replaces", func(t *testing.T) {
		rec := newRecord("a", "another birth", 3*time.Minute)
		require.NoError(t, recorder.Record(ctx, rec))

		loaded, err := recorder.Get(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "another birth", loaded.Reading.InputBirth)

		all, err := recorder.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
		assert.Equal(t, rec.ID, all[0].ID)
	})
}
