package bazi_test

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
)

func TestRunner_Headless(t *testing.T) {
	var out bytes.Buffer
	r := &bazi.Runner{
		Input:    strings.NewReader("1990-05-15 08:30\n\n2000-01-01 0002"),
		Output:   &out,
		Headless: true,
		Renderer: func(rec *domain.ReadingRecord) (string, error) {
			return string(rec.Reading.Strength.Status), nil
		},
	}

	require.NoError(t, r.Run(context.Background(), bazi.New()))
	assert.Equal(t, "身弱\n身旺\n", out.String())
}

func TestRunner_InteractiveExit(t *testing.T) {
	var out bytes.Buffer
	r := &bazi.Runner{
		Input:  strings.NewReader("1990-05-15 08:30\nexit\n2000-01-01 0002\n"),
		Output: &out,
	}

	require.NoError(t, r.Run(context.Background(), bazi.New()))
	assert.Contains(t, out.String(), `"input_birth": "1990-05-15 08:30"`)
	assert.Contains(t, out.String(), "Bye!")
	assert.NotContains(t, out.String(), "2000-01-01 0002")
}

func TestRunner_RejectedLineContinues(t *testing.T) {
	var out bytes.Buffer
	r := &bazi.Runner{
		Input:    strings.NewReader("bad\x07line\n1990-05-15 08:30\n"),
		Output:   &out,
		Headless: true,
	}

	require.NoError(t, r.Run(context.Background(), bazi.New()))
	assert.Contains(t, out.String(), "error: invalid birth")
	assert.Contains(t, out.String(), `"day_master": "丙"`)
}

func TestRunner_RequiresIO(t *testing.T) {
	assert.Error(t, bazi.NewRunner().Run(context.Background(), bazi.New()))
}

func TestRenderJSON(t *testing.T) {
	rec, err := bazi.New().Compute(context.Background(), domain.Request{Birth: "1990-05-15 08:30"})
	require.NoError(t, err)

	out, err := bazi.RenderJSON(rec)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
	assert.Contains(t, out, "身弱")
}
