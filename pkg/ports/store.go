package ports

import (
	"context"

	"github.com/aretw0/bazi/pkg/domain"
)

// ReadingRecorder persists computed readings as an audit trail.
type ReadingRecorder interface {
	// Record stores rec under rec.ID. Recording an existing ID replaces it.
	Record(ctx context.Context, rec *domain.ReadingRecord) error

	// Get retrieves a reading by ID.
	// Returns domain.ErrReadingNotFound if the ID is unknown or expired.
	Get(ctx context.Context, id string) (*domain.ReadingRecord, error)

	// Recent returns up to limit readings ordered by CreatedAt, newest first.
	// A non-positive limit returns every stored reading.
	Recent(ctx context.Context, limit int) ([]domain.ReadingRecord, error)
}
