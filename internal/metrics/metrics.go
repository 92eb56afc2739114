package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application. Each instance
// owns its registry so tests can create as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	HabitsCreated        prometheus.Counter
	CompletionsRecorded  prometheus.Counter
	DuplicateCompletions prometheus.Counter
	ReportsGenerated     *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HabitsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "habitkit_habits_created_total",
			Help: "Total number of habits created",
		}),
		CompletionsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "habitkit_completions_recorded_total",
			Help: "Total number of completion events appended",
		}),
		DuplicateCompletions: factory.NewCounter(prometheus.CounterOpts{
			Name: "habitkit_completions_rejected_total",
			Help: "Completions rejected because the habit was already completed that day",
		}),
		ReportsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "habitkit_reports_generated_total",
			Help: "Progress reports generated, by period",
		}, []string{"period"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "habitkit_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}

func (m *Metrics) IncrementHabitsCreated() {
	m.HabitsCreated.Inc()
}

func (m *Metrics) IncrementCompletionsRecorded() {
	m.CompletionsRecorded.Inc()
}

func (m *Metrics) IncrementDuplicateCompletions() {
	m.DuplicateCompletions.Inc()
}

func (m *Metrics) IncrementReportsGenerated(period string) {
	m.ReportsGenerated.WithLabelValues(period).Inc()
}

func (m *Metrics) ObserveRequest(method string, status int, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
