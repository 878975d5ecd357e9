package ports

import (
	"context"

	"github.com/aretw0/bazi/pkg/domain"
)

// ReadingEngine is the interface adapters (HTTP, MCP, CLI) drive.
// Every call computes a fresh reading; history is write-only from the
// engine's point of view and never consulted to answer Compute or Analyze.
type ReadingEngine interface {
	// Compute derives a chart from req.Birth and analyzes it.
	// Returns domain.ErrMissingBirth for an empty birth.
	Compute(ctx context.Context, req domain.Request) (*domain.ReadingRecord, error)

	// Analyze runs the analysis stages over explicit pillars.
	Analyze(ctx context.Context, input string, chart domain.Chart) (*domain.ReadingRecord, error)

	// Recent returns up to limit recorded readings, newest first.
	// Returns domain.ErrHistoryDisabled when no recorder is configured.
	Recent(ctx context.Context, limit int) ([]domain.ReadingRecord, error)

	// Lookup returns one recorded reading.
	Lookup(ctx context.Context, id string) (*domain.ReadingRecord, error)
}
