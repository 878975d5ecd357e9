package bazi

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/bazi/pkg/domain"
)

// Runner reads one birth identifier per line and writes a reading for each.
// It backs the CLI when no birth argument is given, so charts can be piped
// through in batches or entered interactively.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer transforms a computed reading into the text written to Output.
// This allows JSON, YAML or TUI rendering without coupling the core package.
type ContentRenderer func(*domain.ReadingRecord) (string, error)

// NewRunner creates a Runner with no IO attached.
// Set Input and Output before calling Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run computes readings until Input is exhausted or the user types exit.
// Rejected lines are reported on Output and do not stop the loop.
func (r *Runner) Run(ctx context.Context, engine *Engine) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	render := r.Renderer
	if render == nil {
		render = RenderJSON
	}

	lineReader := bufio.NewReader(r.Input)
	if !r.Headless {
		fmt.Fprintln(r.Output, "--- BaZi (enter a birth date, 'exit' to quit) ---")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !r.Headless {
			fmt.Fprint(r.Output, "> ")
		}

		text, err := lineReader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("input error: %w", err)
		}
		eof := errors.Is(err, io.EOF)

		line := strings.TrimRight(text, "\r\n")
		switch {
		case strings.TrimSpace(line) == "":
			// skip
		case !r.Headless && (line == "exit" || line == "quit"):
			fmt.Fprintln(r.Output, "Bye!")
			return nil
		default:
			rec, cerr := engine.Compute(ctx, domain.Request{Birth: line})
			if cerr != nil {
				fmt.Fprintf(r.Output, "error: %v\n", cerr)
				break
			}
			out, rerr := render(rec)
			if rerr != nil {
				return fmt.Errorf("render error: %w", rerr)
			}
			fmt.Fprintln(r.Output, strings.TrimSpace(out))
		}

		if eof {
			return nil
		}
	}
}

// RenderJSON renders the reading as indented JSON with Chinese characters unescaped.
func RenderJSON(rec *domain.ReadingRecord) (string, error) {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec.Reading); err != nil {
		return "", err
	}
	return sb.String(), nil
}
