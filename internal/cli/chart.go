package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/bazi"
	"github.com/aretw0/bazi/internal/presentation/tui"
	"github.com/aretw0/bazi/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Output formats for the chart and history commands.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// ChartOptions contains all the configuration for the chart command.
type ChartOptions struct {
	Birth       string
	Pillars     string // "year,month,day,hour"
	Format      string
	Plain       bool // disable terminal styling
	Interactive bool // prompt for each line when reading births from Input
	Input       io.Reader
	Output      io.Writer
}

// RunChart computes and prints one reading, or reads births line by line
// from Input when neither Birth nor Pillars is set.
func RunChart(ctx context.Context, engine *bazi.Engine, opts ChartOptions) error {
	render, err := NewRenderer(opts.Format, opts.Plain)
	if err != nil {
		return err
	}

	var rec *domain.ReadingRecord
	switch {
	case opts.Pillars != "":
		chart, perr := ParsePillars(opts.Pillars)
		if perr != nil {
			return perr
		}
		rec, err = engine.Analyze(ctx, opts.Birth, chart)
	case opts.Birth != "":
		rec, err = engine.Compute(ctx, domain.Request{Birth: opts.Birth})
	default:
		runner := &bazi.Runner{
			Input:    opts.Input,
			Output:   opts.Output,
			Headless: !opts.Interactive,
			Renderer: render,
		}
		return runner.Run(ctx, engine)
	}
	if err != nil {
		return err
	}

	out, err := render(rec)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(opts.Output, strings.TrimRight(out, "\n"))
	return err
}

// ParsePillars reads "year,month,day,hour" (comma or space separated).
func ParsePillars(s string) (domain.Chart, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '，'
	})
	if len(fields) != 4 {
		return domain.Chart{}, fmt.Errorf("%w: expected 4 pillars, got %d", domain.ErrInvalidPillar, len(fields))
	}
	return domain.NewChart(fields[0], fields[1], fields[2], fields[3])
}

// NewRenderer returns the record renderer for a format name.
func NewRenderer(format string, plain bool) (bazi.ContentRenderer, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		return bazi.RenderJSON, nil
	case FormatYAML:
		return renderYAML, nil
	case FormatMarkdown, "md":
		return tui.NewReadingRenderer(plain)
	default:
		return nil, fmt.Errorf("unknown format %q (want json, yaml or markdown)", format)
	}
}

func renderYAML(rec *domain.ReadingRecord) (string, error) {
	data, err := yaml.Marshal(rec.Reading)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
