package bazi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/bazi/internal/logging"
	"github.com/aretw0/bazi/internal/sanitize"
	"github.com/aretw0/bazi/pkg/domain"
	"github.com/aretw0/bazi/pkg/ports"
	"github.com/google/uuid"
)

// Version is the release version reported by the CLI and the HTTP /info endpoint.
var Version = "0.3.0"

// Engine is the high-level entry point for the BaZi library.
// It wraps the pure domain analysis with input guarding, observability hooks
// and an optional reading history. It holds no per-request state and is safe
// for concurrent use.
type Engine struct {
	recorder     ports.ReadingRecorder
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	maxInputSize int
	now          func() time.Time
	newID        func() string
}

// Ensure Engine implements ReadingEngine
var _ ports.ReadingEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithRecorder enables the reading history. Recording happens after the
// reading is computed and never feeds back into computation.
func WithRecorder(r ports.ReadingRecorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxInputSize overrides the birth input size limit in bytes.
func WithMaxInputSize(n int) Option {
	return func(e *Engine) {
		e.maxInputSize = n
	}
}

// WithClock replaces the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New initializes a new BaZi Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{
		maxInputSize: sanitize.MaxInputSize(),
		now:          time.Now,
		newID:        uuid.NewString,
	}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	return eng
}

// Compute derives a chart from the birth text and analyzes it.
func (e *Engine) Compute(ctx context.Context, req domain.Request) (*domain.ReadingRecord, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		e.reject(ctx, err)
		return nil, err
	}
	if err := sanitize.Birth(req.Birth, e.maxInputSize); err != nil {
		e.reject(ctx, err)
		return nil, fmt.Errorf("invalid birth: %w", err)
	}

	start := time.Now()
	reading := domain.Generate(req.Birth)
	return e.finish(ctx, reading, domain.SourceDerived, req.Gender, time.Since(start))
}

// Analyze runs the analysis stages over explicit pillars. input is echoed as
// input_birth; when empty the pillars themselves are used.
func (e *Engine) Analyze(ctx context.Context, input string, chart domain.Chart) (*domain.ReadingRecord, error) {
	for _, p := range chart.Pillars() {
		if _, ok := domain.CycleIndex(p); !ok {
			err := fmt.Errorf("%w: %s", domain.ErrInvalidPillar, p)
			e.reject(ctx, err)
			return nil, err
		}
	}
	if input == "" {
		input = fmt.Sprintf("%s %s %s %s", chart.Year, chart.Month, chart.Day, chart.Hour)
	}
	if err := sanitize.Birth(input, e.maxInputSize); err != nil {
		e.reject(ctx, err)
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	start := time.Now()
	reading := domain.Analyze(input, chart)
	return e.finish(ctx, reading, domain.SourcePillars, domain.DefaultGender, time.Since(start))
}

func (e *Engine) finish(ctx context.Context, reading domain.Reading, source, gender string, elapsed time.Duration) (*domain.ReadingRecord, error) {
	rec := &domain.ReadingRecord{
		CreatedAt: e.now(),
		Source:    source,
		Gender:    gender,
		Reading:   reading,
	}

	e.logger.Debug("reading computed",
		"source", source,
		"input_len", len(reading.InputBirth),
		"day_master", reading.DayMaster,
		"score", reading.Strength.Score,
		"strength", reading.Strength.Status,
	)

	if e.hooks.OnReading != nil {
		e.hooks.OnReading(ctx, &domain.ReadingEvent{
			EventBase: domain.EventBase{Timestamp: rec.CreatedAt, Type: domain.EventReadingComputed},
			Reading:   &rec.Reading,
			Source:    source,
			Duration:  elapsed,
		})
	}

	if e.recorder == nil {
		return rec, nil
	}

	rec.ID = e.newID()
	if err := e.recorder.Record(ctx, rec); err != nil {
		// History failures never fail the request.
		e.logger.Error("failed to record reading", "id", rec.ID, "error", err)
		rec.ID = ""
	}
	return rec, nil
}

func (e *Engine) reject(ctx context.Context, reason error) {
	e.logger.Debug("request rejected", "error", reason)
	if e.hooks.OnReject != nil {
		e.hooks.OnReject(ctx, &domain.RejectEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventReadingRejected},
			Reason:    reason,
		})
	}
}

// Recent returns up to limit recorded readings, newest first.
func (e *Engine) Recent(ctx context.Context, limit int) ([]domain.ReadingRecord, error) {
	if e.recorder == nil {
		return nil, domain.ErrHistoryDisabled
	}
	return e.recorder.Recent(ctx, limit)
}

// Lookup returns one recorded reading.
func (e *Engine) Lookup(ctx context.Context, id string) (*domain.ReadingRecord, error) {
	if e.recorder == nil {
		return nil, domain.ErrHistoryDisabled
	}
	rec, err := e.recorder.Get(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrReadingNotFound) {
		return nil, fmt.Errorf("history lookup failed: %w", err)
	}
	return rec, err
}

// HistoryEnabled reports whether a recorder is configured.
func (e *Engine) HistoryEnabled() bool {
	return e.recorder != nil
}
