package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the BaZi ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).ColorProfile()
	// One hue per element in generating order: wood, fire, earth, metal, water
	lines := []struct {
		text  string
		color string
	}{
		{"  ____        _____ _ ", "#4ade80"},
		{" | __ )  __ _|__  /(_)", "#f87171"},
		{" |  _ \\ / _` | / / | |", "#facc15"},
		{" | |_) | (_| |/ /_ | |", "#e5e7eb"},
		{" |____/ \\__,_/____||_|   八字", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
