package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/bazi"
	"github.com/aretw0/bazi/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRunChart_Formats(t *testing.T) {
	eng := bazi.New()
	ctx := context.Background()

	t.Run("JSON", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunChart(ctx, eng, ChartOptions{Birth: "1990-05-15 08:30", Output: &out}))

		var reading map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &reading))
		assert.Equal(t, "丙", reading["day_master"])
	})

	t.Run("YAML", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunChart(ctx, eng, ChartOptions{Birth: "1990-05-15 08:30", Format: "yaml", Output: &out}))

		var doc map[string]any
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
		assert.Equal(t, "1990-05-15 08:30", doc["input_birth"])
		assert.True(t, strings.HasPrefix(out.String(), "input_birth:"))
		assert.Contains(t, out.String(), "year: 辛酉")
		assert.Contains(t, out.String(), "身强弱: 身弱")

		// Element counts keep their canonical order.
		wood := strings.Index(out.String(), "木: 0")
		water := strings.Index(out.String(), "水: 3")
		require.True(t, wood > 0 && water > 0)
		assert.Less(t, wood, water)
	})

	t.Run("Markdown", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunChart(ctx, eng, ChartOptions{Birth: "1990-05-15 08:30", Format: "markdown", Plain: true, Output: &out}))
		assert.Contains(t, out.String(), "Four Pillars")
		assert.Contains(t, out.String(), "身弱")
	})

	t.Run("Unknown", func(t *testing.T) {
		var out bytes.Buffer
		assert.Error(t, RunChart(ctx, eng, ChartOptions{Birth: "x", Format: "toml", Output: &out}))
	})
}

func TestRunChart_Pillars(t *testing.T) {
	var out bytes.Buffer
	err := RunChart(context.Background(), bazi.New(), ChartOptions{
		Pillars: "庚午,丙子,癸未,乙丑",
		Output:  &out,
	})
	require.NoError(t, err)

	var reading domain.Reading
	require.NoError(t, json.Unmarshal(out.Bytes(), &reading))
	assert.Equal(t, domain.StemGui, reading.DayMaster)
	assert.Equal(t, "庚午 丙子 癸未 乙丑", reading.InputBirth)
}

func TestRunChart_Batch(t *testing.T) {
	var out bytes.Buffer
	err := RunChart(context.Background(), bazi.New(), ChartOptions{
		Input:  strings.NewReader("1990-05-15 08:30\n2000-01-01 0002\n"),
		Output: &out,
	})
	require.NoError(t, err)

	dec := json.NewDecoder(&out)
	var births []string
	for dec.More() {
		var reading domain.Reading
		require.NoError(t, dec.Decode(&reading))
		births = append(births, reading.InputBirth)
	}
	assert.Equal(t, []string{"1990-05-15 08:30", "2000-01-01 0002"}, births)
}

func TestRunChart_Rejected(t *testing.T) {
	var out bytes.Buffer
	err := RunChart(context.Background(), bazi.New(bazi.WithMaxInputSize(4)), ChartOptions{Birth: "1990-05-15", Output: &out})
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestParsePillars(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"庚午,丙子,癸未,乙丑", false},
		{"庚午 丙子 癸未 乙丑", false},
		{"庚午，丙子，癸未，乙丑", false},
		{"庚午,丙子,癸未", true},
		{"庚午,丙子,癸未,乙子", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := ParsePillars(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidPillar)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "癸未", c.Day.String())
		})
	}
}
