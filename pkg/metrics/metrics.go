// Package metrics records collector activity as Prometheus metrics.
//
// The collector is a batch job, so nothing is served over HTTP. A Prometheus
// recorder owns a private registry and, when configured, its contents are
// written once per run to a textfile that node_exporter's textfile collector
// can pick up.
//
// Metrics:
//   - steamreviews_requests_total{endpoint, status} (Counter): HTTP requests by endpoint and status
//   - steamreviews_request_duration_seconds{endpoint} (Histogram): request latency
//   - steamreviews_pages_total{outcome} (Counter): loop iterations by outcome (fetched, cache_hit, failed)
//   - steamreviews_page_failures_total{type} (Counter): failed pages by error type
//   - steamreviews_total_reviews (Gauge): review count declared by the probe
//   - steamreviews_page_budget (Gauge): number of loop iterations planned
//   - steamreviews_sentences_total (Counter): sentence rows produced by the flattener
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "steamreviews"

// Endpoint labels
const (
	EndpointCount = "count"
	EndpointPage  = "page"
)

// Page outcomes
const (
	OutcomeFetched  = "fetched"
	OutcomeCacheHit = "cache_hit"
	OutcomeFailed   = "failed"
)

// Recorder receives collector and flattener events
type Recorder interface {
	RequestCompleted(endpoint string, statusCode int, duration time.Duration)
	PageProcessed(outcome string)
	PageFailed(errorType string)
	SetTotalReviews(total int)
	SetPageBudget(pages int)
	SentencesEmitted(n int)
}

// Prometheus is a Recorder backed by a private Prometheus registry
type Prometheus struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	pages           *prometheus.CounterVec
	failures        *prometheus.CounterVec
	totalReviews    prometheus.Gauge
	pageBudget      prometheus.Gauge
	sentences       prometheus.Counter
}

// NewPrometheus creates a recorder with its own registry
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total review API requests by endpoint and status",
		}, []string{"endpoint", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Review API request duration in seconds by endpoint",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"endpoint"}),
		pages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Collector loop iterations by outcome",
		}, []string{"outcome"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_failures_total",
			Help:      "Failed pages by error type",
		}, []string{"type"}),
		totalReviews: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_reviews",
			Help:      "Total reviews declared by the count probe",
		}),
		pageBudget: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "page_budget",
			Help:      "Number of pages the collector planned to walk",
		}),
		sentences: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_total",
			Help:      "Sentence rows produced by the flattener",
		}),
	}
}

// Registry exposes the underlying registry
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

func (p *Prometheus) RequestCompleted(endpoint string, statusCode int, duration time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	p.requests.WithLabelValues(endpoint, status).Inc()
	p.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (p *Prometheus) PageProcessed(outcome string) {
	p.pages.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) PageFailed(errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	p.failures.WithLabelValues(errorType).Inc()
}

func (p *Prometheus) SetTotalReviews(total int) {
	p.totalReviews.Set(float64(total))
}

func (p *Prometheus) SetPageBudget(pages int) {
	p.pageBudget.Set(float64(pages))
}

func (p *Prometheus) SentencesEmitted(n int) {
	p.sentences.Add(float64(n))
}

// WriteTextfile writes the registry in the text exposition format. The file is
// replaced atomically.
func (p *Prometheus) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}

// Nop discards everything
type Nop struct{}

func (Nop) RequestCompleted(string, int, time.Duration) {}
func (Nop) PageProcessed(string)                        {}
func (Nop) PageFailed(string)                           {}
func (Nop) SetTotalReviews(int)                         {}
func (Nop) SetPageBudget(int)                           {}
func (Nop) SentencesEmitted(int)                        {}

// OrNop returns r, or a Nop recorder when r is nil
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}
