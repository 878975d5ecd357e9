package domain

import "strings"

// DefaultGender is used when a request omits gender.
const DefaultGender = "unknown"

// Request is the inbound birth record. Gender, Location and Longitude are
// carried for callers but do not influence the chart.
type Request struct {
	Birth     string   `json:"birth" mapstructure:"birth"`
	Gender    string   `json:"gender,omitempty" mapstructure:"gender"`
	Location  string   `json:"location,omitempty" mapstructure:"location"`
	Longitude *float64 `json:"longitude,omitempty" mapstructure:"longitude"`
}

// Normalize fills defaults.
func (r *Request) Normalize() {
	if strings.TrimSpace(r.Gender) == "" {
		r.Gender = DefaultGender
	}
}

// Validate checks the fields the chart depends on.
func (r Request) Validate() error {
	if r.Birth == "" {
		return ErrMissingBirth
	}
	return nil
}

// Reading is the full analysis of one chart.
type Reading struct {
	InputBirth   string             `json:"input_birth" yaml:"input_birth"`
	FourPillars  Chart              `json:"four_pillars" yaml:"four_pillars"`
	DayMaster    Stem               `json:"day_master" yaml:"day_master"`
	ElementCount ElementCount       `json:"five_element_count" yaml:"five_element_count"`
	TenGods      []TenGod           `json:"ten_gods" yaml:"ten_gods"`
	HiddenStems  HiddenStemAnalysis `json:"hidden_stems_and_gods" yaml:"hidden_stems_and_gods"`
	Strength     StrengthJudgment   `json:"strength_judgment" yaml:"strength_judgment"`
}

// Analyze runs every analysis stage over a chart. input is echoed verbatim.
func Analyze(input string, c Chart) Reading {
	counts := Tally(c)
	return Reading{
		InputBirth:   input,
		FourPillars:  c,
		DayMaster:    c.DayMaster(),
		ElementCount: counts,
		TenGods:      ResolveTenGods(c.DayMaster(), c.Stems()),
		HiddenStems:  AnalyzeHiddenStems(c),
		Strength:     JudgeStrength(c, counts),
	}
}

// Generate derives the chart from input and analyzes it.
func Generate(input string) Reading {
	return Analyze(input, DeriveChart(input))
}
