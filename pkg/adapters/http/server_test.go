package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/bazi"
	"github.com/aretw0/bazi/pkg/adapters/memory"
	"github.com/aretw0/bazi/pkg/domain"
	"github.com/aretw0/bazi/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, engOpts []bazi.Option, opts ...Option) http.Handler {
	t.Helper()
	h, err := NewHandler(bazi.New(engOpts...), opts...)
	require.NoError(t, err)
	return h
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGetSwagger_Valid(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	assert.Contains(t, doc.Components.Schemas, "BaziRequest")
	assert.Contains(t, doc.Components.Schemas, "AnalyzeRequest")
}

func TestComputeBazi_Golden(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "domain", "testdata", "readings.json"))
	require.NoError(t, err)
	var fixtures []struct {
		Input   string          `json:"input"`
		Reading json.RawMessage `json:"reading"`
	}
	require.NoError(t, json.Unmarshal(data, &fixtures))

	h := newTestHandler(t, nil)
	for _, fx := range fixtures {
		t.Run(fx.Input, func(t *testing.T) {
			body, _ := json.Marshal(map[string]any{"birth": fx.Input, "gender": "female"})
			w := do(h, http.MethodPost, "/bazi", string(body))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.JSONEq(t, string(fx.Reading), w.Body.String())
			assert.Empty(t, w.Header().Get("X-Reading-ID"))
		})
	}
}

func TestComputeBazi_Errors(t *testing.T) {
	h := newTestHandler(t, []bazi.Option{bazi.WithMaxInputSize(32)})

	tests := []struct {
		name string
		body string
		code int
	}{
		{"Malformed JSON", `{"birth":`, http.StatusBadRequest},
		{"Missing Birth", `{"gender":"male"}`, http.StatusUnprocessableEntity},
		{"Empty Birth", `{"birth":""}`, http.StatusUnprocessableEntity},
		{"Wrong Type", `{"birth":19900515}`, http.StatusUnprocessableEntity},
		{"Null Birth", `{"birth":null}`, http.StatusUnprocessableEntity},
		{"Too Large", `{"birth":"` + strings.Repeat("9", 33) + `"}`, http.StatusUnprocessableEntity},
		{"Control Character", `{"birth":"1990\u001b[0m"}`, http.StatusUnprocessableEntity},
		{"Not An Object", `["1990"]`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, http.MethodPost, "/bazi", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["detail"])
		})
	}
}

func TestComputeBazi_LocationIgnored(t *testing.T) {
	h := newTestHandler(t, nil)
	a := do(h, http.MethodPost, "/bazi", `{"birth":"1990-05-15 08:30"}`)
	b := do(h, http.MethodPost, "/bazi", `{"birth":"1990-05-15 08:30","location":"Beijing","longitude":116.4}`)
	require.Equal(t, http.StatusOK, b.Code, b.Body.String())
	assert.JSONEq(t, a.Body.String(), b.Body.String())
}

func TestComputeBazi_OptionalFieldsLenient(t *testing.T) {
	h := newTestHandler(t, nil)
	want := do(h, http.MethodPost, "/bazi", `{"birth":"1990-05-15 08:30"}`)
	require.Equal(t, http.StatusOK, want.Code, want.Body.String())

	bodies := map[string]string{
		"Null Gender":        `{"birth":"1990-05-15 08:30","gender":null}`,
		"Null Location":      `{"birth":"1990-05-15 08:30","location":null,"longitude":null}`,
		"All Null And Extra": `{"birth":"1990-05-15 08:30","gender":null,"location":null,"longitude":null,"extra":1}`,
		"Unknown Field":      `{"birth":"1990-05-15 08:30","name":"x"}`,
		"Wide Longitude":     `{"birth":"1990-05-15 08:30","longitude":200}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			w := do(h, http.MethodPost, "/bazi", body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.JSONEq(t, want.Body.String(), w.Body.String())
		})
	}
}

func TestAnalyzePillars(t *testing.T) {
	h := newTestHandler(t, nil)

	w := do(h, http.MethodPost, "/bazi/analyze",
		`{"input":"almanac","pillars":{"year":"庚午","month":"丙子","day":"癸未","hour":"乙丑"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reading map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reading))
	assert.Equal(t, "almanac", reading["input_birth"])
	assert.Equal(t, "癸", reading["day_master"])

	w = do(h, http.MethodPost, "/bazi/analyze",
		`{"pillars":{"year":"庚丑","month":"丙子","day":"癸未","hour":"乙丑"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(h, http.MethodPost, "/bazi/analyze", `{"pillars":{"year":"庚午"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetCycle(t *testing.T) {
	h := newTestHandler(t, nil)
	w := do(h, http.MethodGet, "/cycle", "")
	require.Equal(t, http.StatusOK, w.Code)

	var entries []domain.CycleEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, domain.CycleLength)
	assert.Equal(t, "甲子", entries[0].Pillar.String())
	assert.Equal(t, domain.Wood, entries[0].StemElement)
	assert.Equal(t, domain.Water, entries[0].BranchElement)
	assert.Equal(t, 59, entries[59].Index)
}

func TestReadings_HistoryDisabled(t *testing.T) {
	h := newTestHandler(t, nil)
	assert.Equal(t, http.StatusNotImplemented, do(h, http.MethodGet, "/readings", "").Code)
	assert.Equal(t, http.StatusNotImplemented, do(h, http.MethodGet, "/readings/abc", "").Code)
}

func TestReadings_History(t *testing.T) {
	h := newTestHandler(t, []bazi.Option{bazi.WithRecorder(memory.NewStore())})

	w := do(h, http.MethodPost, "/bazi", `{"birth":"1990-05-15 08:30"}`)
	require.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get("X-Reading-ID")
	require.NotEmpty(t, id)

	w = do(h, http.MethodGet, "/readings/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var rec domain.ReadingRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "1990-05-15 08:30", rec.Reading.InputBirth)

	w = do(h, http.MethodGet, "/readings?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.ReadingRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/readings/missing", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/readings?limit=-1", "").Code)
}

func TestInfoHealthAndDocs(t *testing.T) {
	h := newTestHandler(t, nil)

	w := do(h, http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "bazi-http", info["app"])
	assert.Equal(t, bazi.Version, info["version"])
	assert.Equal(t, "1.1.0", info["api_version"])

	assert.JSONEq(t, `{"status":"ok"}`, do(h, http.MethodGet, "/health", "").Body.String())
	assert.Contains(t, do(h, http.MethodGet, "/openapi.yaml", "").Body.String(), "openapi: 3.0.3")
	assert.Contains(t, do(h, http.MethodGet, "/swagger", "").Body.String(), "swagger-ui")

	w = do(h, http.MethodOptions, "/bazi", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/metrics", "").Code, "metrics are opt-in")
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	h := newTestHandler(t,
		[]bazi.Option{bazi.WithLifecycleHooks(m.Hooks())},
		WithMetrics(m, reg),
	)

	do(h, http.MethodPost, "/bazi", `{"birth":"2000-01-01 0002"}`)
	w := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `bazi_readings_total{strength="身旺"} 1`)
	assert.Contains(t, body, `bazi_http_requests_total{code="200",method="POST",route="/bazi"} 1`)
}

func TestSubscribeEvents(t *testing.T) {
	streams := NewStreamManager()
	eng := bazi.New(bazi.WithLifecycleHooks(streams.Hooks()))
	h, err := NewHandler(eng, WithStreams(streams))
	require.NoError(t, err)

	ts := httptest.NewServer(h)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	require.Eventually(t, func() bool { return streams.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	_, err = eng.Compute(ctx, domain.Request{Birth: "1990-05-15 08:30"})
	require.NoError(t, err)

	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: {") {
			break
		}
	}
	var summary ReadingSummary
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &summary))
	assert.Equal(t, domain.StemBing, summary.DayMaster)
	assert.Equal(t, domain.Weak, summary.Strength)
	assert.Equal(t, domain.SourceDerived, summary.Source)
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe()
	for i := 0; i < 20; i++ {
		sm.Broadcast("x")
	}
	assert.Len(t, ch, 10)
	cancel()
	cancel()
	assert.Equal(t, 0, sm.Subscribers())
}
