package domain

import "time"

// Reading sources.
const (
	SourceDerived = "derived" // chart derived from the birth text digest
	SourcePillars = "pillars" // chart supplied as explicit pillars
)

// ReadingRecord wraps a computed reading with its audit metadata.
// ID is empty when no recorder is configured.
type ReadingRecord struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Source    string    `json:"source" yaml:"source"`
	Gender    string    `json:"gender" yaml:"gender"`
	Reading   Reading   `json:"reading" yaml:"reading"`
}
