package tui

import (
	"github.com/aretw0/bazi"
	"github.com/aretw0/bazi/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Plain output uses the "notty" style, for pipes and dumb terminals.
func NewRenderer(plain bool) (func(string) (string, error), error) {
	style := glamour.WithAutoStyle() // Automatically detect light/dark background
	if plain {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return nil, err
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// NewReadingRenderer renders readings as a terminal report.
func NewReadingRenderer(plain bool) (bazi.ContentRenderer, error) {
	render, err := NewRenderer(plain)
	if err != nil {
		return nil, err
	}
	return func(rec *domain.ReadingRecord) (string, error) {
		return render(Markdown(rec))
	}, nil
}
