package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/bazi/pkg/domain"
	"github.com/aretw0/bazi/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

// DefaultPIIFields covers every caller-supplied field kept in a record.
var DefaultPIIFields = []string{"^input_birth$", "^gender$"}

type piiMiddleware struct {
	next     ports.ReadingRecorder
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks record fields whose wire
// name (input_birth, gender) matches one of the patterns. The chart and its
// analysis are kept, so history stays useful for statistics.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.ReadingRecorder) ports.ReadingRecorder {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Record(ctx context.Context, rec *domain.ReadingRecord) error {
	// Copy so the caller's record (often the response being served) is untouched.
	cloned := *rec
	if m.matches("input_birth") {
		cloned.Reading.InputBirth = Mask
	}
	if m.matches("gender") {
		cloned.Gender = Mask
	}
	return m.next.Record(ctx, &cloned)
}

func (m *piiMiddleware) Get(ctx context.Context, id string) (*domain.ReadingRecord, error) {
	return m.next.Get(ctx, id)
}

func (m *piiMiddleware) Recent(ctx context.Context, limit int) ([]domain.ReadingRecord, error) {
	return m.next.Recent(ctx, limit)
}

func (m *piiMiddleware) matches(field string) bool {
	for _, p := range m.patterns {
		if p.MatchString(field) {
			return true
		}
	}
	return false
}
