package domain

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readingFixture struct {
	Input   string          `json:"input"`
	Indices [4]int          `json:"indices"`
	Reading json.RawMessage `json:"reading"`
}

func loadFixtures(t *testing.T) []readingFixture {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "readings.json"))
	require.NoError(t, err)

	var fixtures []readingFixture
	require.NoError(t, json.Unmarshal(data, &fixtures))
	require.NotEmpty(t, fixtures)
	return fixtures
}

func TestGenerate_RegressionFixtures(t *testing.T) {
	for _, fx := range loadFixtures(t) {
		t.Run(fx.Input, func(t *testing.T) {
			assert.Equal(t, fx.Indices, ChartIndices(fx.Input))

			got, err := json.Marshal(Generate(fx.Input))
			require.NoError(t, err)
			assert.JSONEq(t, string(fx.Reading), string(got))
		})
	}
}

func TestGenerate_KeyOrder(t *testing.T) {
	got, err := json.Marshal(Generate("1990-05-15 08:30"))
	require.NoError(t, err)
	out := string(got)

	assert.Contains(t, out, `"five_element_count":{"木":0,"火":1,"土":1,"金":3,"水":3}`)
	you := strings.Index(out, `"酉":{`)
	hai := strings.Index(out, `"亥":{`)
	chen := strings.Index(out, `"辰":{`)
	assert.True(t, you < hai && hai < chen, "hidden stems must keep first-seen branch order")
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := json.Marshal(Generate("2000-01-01 0003"))
	require.NoError(t, err)
	b, err := json.Marshal(Generate("2000-01-01 0003"))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestReading_JSONRoundTrip(t *testing.T) {
	r := Generate("2000-01-01 0002")
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var back Reading
	require.NoError(t, json.Unmarshal(data, &back))
	again, err := json.Marshal(back)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestRequest_NormalizeValidate(t *testing.T) {
	r := Request{}
	assert.ErrorIs(t, r.Validate(), ErrMissingBirth)

	r = Request{Birth: "1990-05-15"}
	r.Normalize()
	assert.NoError(t, r.Validate())
	assert.Equal(t, DefaultGender, r.Gender)

	r = Request{Birth: "x", Gender: "female"}
	r.Normalize()
	assert.Equal(t, "female", r.Gender)
}
