package metrics

import (
	"net/http"
	"time"

	"github.com/liamcoop/attrition/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "attrition"

// Recorder counts submissions. A nil *Recorder records nothing, so callers
// without metrics pass nil.
type Recorder struct {
	registry    *prometheus.Registry
	predictions *prometheus.CounterVec
	rejected    prometheus.Counter
	failures    *prometheus.CounterVec
	latency     prometheus.Histogram
}

// New registers the collectors on a fresh registry
func New() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Predictions served, by verdict.",
		}, []string{"verdict"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_submissions_total",
			Help:      "Submissions rejected by boundary validation.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Submissions that failed after validation, by stage.",
		}, []string{"stage"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Time from validated input to verdict.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
	}

	reg.MustRegister(
		r.predictions,
		r.rejected,
		r.failures,
		r.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		counterFunc("log_errors_total", "Error-level log events, before sampling.", &logger.TotalErrors),
		counterFunc("log_warnings_total", "Warning-level log events, before sampling.", &logger.TotalWarnings),
		counterFunc("http_5xx_responses_total", "HTTP responses with a 5xx status.", &logger.Total5xxErrors),
		counterFunc("http_4xx_responses_total", "HTTP responses with a 4xx status.", &logger.Total4xxErrors),
	)
	return r
}

type loader interface{ Load() int64 }

func counterFunc(name, help string, src loader) prometheus.CounterFunc {
	return prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, func() float64 { return float64(src.Load()) })
}

// Prediction records one served verdict
func (r *Recorder) Prediction(willChurn bool, took time.Duration) {
	if r == nil {
		return
	}
	verdict := "stay"
	if willChurn {
		verdict = "churn"
	}
	r.predictions.WithLabelValues(verdict).Inc()
	r.latency.Observe(took.Seconds())
}

// Rejected records a submission that failed validation
func (r *Recorder) Rejected() {
	if r == nil {
		return
	}
	r.rejected.Inc()
}

// Failure records an error in the named pipeline stage
func (r *Recorder) Failure(stage string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(stage).Inc()
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
