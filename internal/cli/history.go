package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/bazi"
	"github.com/aretw0/bazi/pkg/domain"
	"gopkg.in/yaml.v3"
)

// RunHistory lists recorded readings, newest first.
// The default format is a table; json and yaml dump full records.
func RunHistory(ctx context.Context, engine *bazi.Engine, limit int, format string, out io.Writer) error {
	records, err := engine.Recent(ctx, limit)
	if errors.Is(err, domain.ErrHistoryDisabled) {
		return fmt.Errorf("%w: set history.backend to memory or redis", err)
	}
	if err != nil {
		return err
	}
	if records == nil {
		records = []domain.ReadingRecord{}
	}

	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatYAML:
		return yaml.NewEncoder(out).Encode(records)
	case "", "table":
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}

	if len(records) == 0 {
		printSystemMessage(out, "No readings recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSOURCE\tPILLARS\tSCORE\tSTRENGTH\tINPUT")
	for _, rec := range records {
		p := rec.Reading.FourPillars
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s %s %s\t%d\t%s\t%s\n",
			rec.ID,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.Source,
			p.Year, p.Month, p.Day, p.Hour,
			rec.Reading.Strength.Score,
			rec.Reading.Strength.Status,
			rec.Reading.InputBirth,
		)
	}
	return tw.Flush()
}
