package bazi_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/bazi"
	"github.com/aretw0/bazi/internal/sanitize"
	"github.com/aretw0/bazi/pkg/adapters/memory"
	"github.com/aretw0/bazi/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Compute(t *testing.T) {
	eng := bazi.New()

	rec, err := eng.Compute(context.Background(), domain.Request{Birth: "1990-05-15 08:30"})
	require.NoError(t, err)

	assert.Empty(t, rec.ID, "no recorder means no id")
	assert.Equal(t, domain.SourceDerived, rec.Source)
	assert.Equal(t, domain.DefaultGender, rec.Gender)
	assert.Equal(t, "1990-05-15 08:30", rec.Reading.InputBirth)
	assert.Equal(t, domain.StemBing, rec.Reading.DayMaster)
	assert.Equal(t, domain.Weak, rec.Reading.Strength.Status)
}

func TestEngine_Compute_GenderIgnoredByChart(t *testing.T) {
	eng := bazi.New()
	ctx := context.Background()

	a, err := eng.Compute(ctx, domain.Request{Birth: "2000-01-01 0002", Gender: "female"})
	require.NoError(t, err)
	b, err := eng.Compute(ctx, domain.Request{Birth: "2000-01-01 0002", Gender: "male", Location: "Lisbon"})
	require.NoError(t, err)

	assert.Equal(t, "female", a.Gender)
	assert.Equal(t, a.Reading.FourPillars, b.Reading.FourPillars)
	assert.Equal(t, a.Reading.Strength, b.Reading.Strength)
}

func TestEngine_Compute_Rejections(t *testing.T) {
	var rejected []error
	eng := bazi.New(
		bazi.WithMaxInputSize(16),
		bazi.WithLifecycleHooks(domain.LifecycleHooks{
			OnReject: func(_ context.Context, ev *domain.RejectEvent) {
				assert.Equal(t, domain.EventReadingRejected, ev.Type)
				rejected = append(rejected, ev.Reason)
			},
		}),
	)
	ctx := context.Background()

	_, err := eng.Compute(ctx, domain.Request{})
	assert.ErrorIs(t, err, domain.ErrMissingBirth)

	_, err = eng.Compute(ctx, domain.Request{Birth: strings.Repeat("9", 17)})
	assert.ErrorIs(t, err, sanitize.ErrInputTooLarge)

	_, err = eng.Compute(ctx, domain.Request{Birth: "1990\x1b[0m"})
	assert.ErrorIs(t, err, sanitize.ErrControlCharacter)

	require.Len(t, rejected, 3)
	assert.ErrorIs(t, rejected[0], domain.ErrMissingBirth)
}

func TestEngine_Analyze(t *testing.T) {
	eng := bazi.New()
	chart, err := domain.NewChart("庚午", "丙子", "癸未", "乙丑")
	require.NoError(t, err)

	rec, err := eng.Analyze(context.Background(), "", chart)
	require.NoError(t, err)
	assert.Equal(t, domain.SourcePillars, rec.Source)
	assert.Equal(t, "庚午 丙子 癸未 乙丑", rec.Reading.InputBirth)

	derived, err := eng.Compute(context.Background(), domain.Request{Birth: "2000-01-01 0002"})
	require.NoError(t, err)
	assert.Equal(t, derived.Reading.Strength, rec.Reading.Strength)

	_, err = eng.Analyze(context.Background(), "", domain.Chart{})
	assert.ErrorIs(t, err, domain.ErrInvalidPillar)
}

func TestEngine_Hooks(t *testing.T) {
	var events []*domain.ReadingEvent
	eng := bazi.New(bazi.WithLifecycleHooks(domain.LifecycleHooks{
		OnReading: func(_ context.Context, ev *domain.ReadingEvent) {
			events = append(events, ev)
		},
	}))

	_, err := eng.Compute(context.Background(), domain.Request{Birth: "2000-01-01 0003"})
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, domain.EventReadingComputed, events[0].Type)
	assert.Equal(t, domain.SourceDerived, events[0].Source)
	assert.Equal(t, domain.Strong, events[0].Reading.Strength.Status)
}

func TestEngine_History(t *testing.T) {
	clock := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	eng := bazi.New(
		bazi.WithRecorder(memory.NewStore()),
		bazi.WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}),
	)
	ctx := context.Background()
	require.True(t, eng.HistoryEnabled())

	first, err := eng.Compute(ctx, domain.Request{Birth: "1990-05-15 08:30"})
	require.NoError(t, err)
	second, err := eng.Compute(ctx, domain.Request{Birth: "2000-01-01 0002"})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	recent, err := eng.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, second.ID, recent[0].ID)

	loaded, err := eng.Lookup(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "1990-05-15 08:30", loaded.Reading.InputBirth)

	_, err = eng.Lookup(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrReadingNotFound)
}

func TestEngine_HistoryDisabled(t *testing.T) {
	eng := bazi.New()
	assert.False(t, eng.HistoryEnabled())

	_, err := eng.Recent(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrHistoryDisabled)
	_, err = eng.Lookup(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrHistoryDisabled)
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, *domain.ReadingRecord) error {
	return errors.New("disk full")
}
func (failingRecorder) Get(context.Context, string) (*domain.ReadingRecord, error) {
	return nil, domain.ErrReadingNotFound
}
func (failingRecorder) Recent(context.Context, int) ([]domain.ReadingRecord, error) {
	return nil, nil
}

func TestEngine_RecorderFailureKeepsReading(t *testing.T) {
	eng := bazi.New(bazi.WithRecorder(failingRecorder{}))

	rec, err := eng.Compute(context.Background(), domain.Request{Birth: "1990-05-15 08:30"})
	require.NoError(t, err)
	assert.Empty(t, rec.ID)
	assert.Equal(t, domain.StemBing, rec.Reading.DayMaster)
}
