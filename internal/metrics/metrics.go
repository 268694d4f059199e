// Package metrics exposes Prometheus collectors for HTTP traffic and
// pipeline runs.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	requestCount *prometheus.CounterVec
	pipelineRuns *prometheus.CounterVec
	llmDuration  prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		pipelineRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "summarizer_pipeline_runs_total",
				Help: "Summarization pipeline runs by input source and outcome.",
			},
			[]string{"source", "outcome"},
		),
		llmDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "summarizer_llm_request_duration_seconds",
				Help:    "Latency of summarization requests to the LLM.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
			},
		),
	}
	for _, c := range []prometheus.Collector{m.requestCount, m.pipelineRuns, m.llmDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Middleware counts requests by chi route pattern. /metrics is not counted.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestCount.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
	})
}

// ObservePipeline records one pipeline run.
func (m *Metrics) ObservePipeline(source, outcome string) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(source, outcome).Inc()
}

// PipelineRuns returns the run counter for one source and outcome.
func (m *Metrics) PipelineRuns(source, outcome string) prometheus.Counter {
	return m.pipelineRuns.WithLabelValues(source, outcome)
}

// ObserveLLM records the duration of one summarization call.
func (m *Metrics) ObserveLLM(d time.Duration) {
	if m == nil {
		return
	}
	m.llmDuration.Observe(d.Seconds())
}
