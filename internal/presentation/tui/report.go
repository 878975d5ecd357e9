package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/bazi/pkg/domain"
)

// Markdown formats a reading as a Markdown report.
func Markdown(rec *domain.ReadingRecord) string {
	r := rec.Reading
	var sb strings.Builder

	fmt.Fprintf(&sb, "# 八字 · %s\n\n", escape(r.InputBirth))
	if rec.ID != "" {
		fmt.Fprintf(&sb, "_Reading %s_\n\n", rec.ID)
	}

	sb.WriteString("## Four Pillars\n\n")
	sb.WriteString("| | Year | Month | Day | Hour |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	pillars := r.FourPillars.Pillars()
	sb.WriteString("| Stem |")
	for _, p := range pillars {
		e, _ := p.Stem.Element()
		fmt.Fprintf(&sb, " %s %s |", p.Stem, e)
	}
	sb.WriteString("\n| Branch |")
	for _, p := range pillars {
		e, _ := p.Branch.Element()
		fmt.Fprintf(&sb, " %s %s |", p.Branch, e)
	}
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Day Master: **%s**\n\n", r.DayMaster)

	sb.WriteString("## Five Elements\n\n")
	for _, e := range domain.Elements {
		n := r.ElementCount.Get(e)
		fmt.Fprintf(&sb, "- %s %d %s\n", e, n, strings.Repeat("■", n))
	}
	sb.WriteString("\n")

	sb.WriteString("## Ten Gods\n\n")
	sb.WriteString("| Stem | Element | Relation |\n")
	sb.WriteString("|---|---|---|\n")
	for _, g := range r.TenGods {
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", g.Stem, g.Element, g.Label)
	}
	sb.WriteString("\n")

	sb.WriteString("## Hidden Stems\n\n")
	for _, b := range r.HiddenStems.Branches() {
		entry, _ := r.HiddenStems.Get(b)
		parts := make([]string, len(entry.TenGods))
		for i, g := range entry.TenGods {
			parts[i] = fmt.Sprintf("%s (%s)", g.Stem, g.Label)
		}
		fmt.Fprintf(&sb, "- **%s**: %s\n", b, strings.Join(parts, ", "))
	}
	sb.WriteString("\n")

	s := r.Strength
	sb.WriteString("## Strength\n\n")
	fmt.Fprintf(&sb, "- In command: %s\n", yesNo(s.InCommand))
	fmt.Fprintf(&sb, "- Score: %d\n", s.Score)
	fmt.Fprintf(&sb, "- Status: **%s**\n\n", s.Status)
	fmt.Fprintf(&sb, "> %s\n", s.Recommendation)

	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// escape keeps user text from being read as Markdown syntax.
func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`, "|", `\|`, "[", `\[`, "]", `\]`, "\n", " ")
	return r.Replace(s)
}
