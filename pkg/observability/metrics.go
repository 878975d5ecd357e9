package observability

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/bazi/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bazi"

// Metrics holds the collectors exported by a BaZi process.
type Metrics struct {
	Readings     *prometheus.CounterVec
	DayMasters   *prometheus.CounterVec
	Rejections   prometheus.Counter
	Duration     prometheus.Histogram
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Readings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "readings_total",
				Help:      "Total number of computed readings by strength classification",
			},
			[]string{"strength"},
		),
		DayMasters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "day_master_element_total",
				Help:      "Total number of computed readings by Day Master element",
			},
			[]string{"element"},
		),
		Rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Total number of requests rejected before analysis",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_duration_seconds",
			Help:      "Duration of chart derivation and analysis",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01},
		}),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),
	}

	for _, c := range []prometheus.Collector{m.Readings, m.DayMasters, m.Rejections, m.Duration, m.HTTPRequests} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that feed the reading collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnReading: func(_ context.Context, ev *domain.ReadingEvent) {
			m.Readings.WithLabelValues(string(ev.Reading.Strength.Status)).Inc()
			m.DayMasters.WithLabelValues(string(ev.Reading.Strength.Element)).Inc()
			m.Duration.Observe(ev.Duration.Seconds())
		},
		OnReject: func(context.Context, *domain.RejectEvent) {
			m.Rejections.Inc()
		},
	}
}

// Middleware counts requests per chi route pattern. Unmatched paths are
// reported as "unmatched" to keep label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}
