package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the secretariat
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	OnboardingPublishTotal *prometheus.CounterVec
	PublishDuration        prometheus.Histogram
	LoginTokensTotal       *prometheus.CounterVec
	MailSentTotal          *prometheus.CounterVec
}

// NewMetricsRegistry registers every metric on reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "secretariat_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "secretariat_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "secretariat_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "secretariat_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "secretariat_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		OnboardingPublishTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "secretariat_onboarding_publish_total",
				Help: "Onboarding publications by result (success, duplicate, error)",
			},
			[]string{"result"},
		),
		PublishDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "secretariat_onboarding_publish_duration_seconds",
				Help:    "Time spent creating branch, file and pull request",
				Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		LoginTokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "secretariat_login_tokens_total",
				Help: "Login token lifecycle events (issued, redeemed, rejected)",
			},
			[]string{"event"},
		),
		MailSentTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "secretariat_mail_sent_total",
				Help: "Emails sent by kind and result",
			},
			[]string{"kind", "result"},
		),
	}
}

// Result label values
const (
	ResultSuccess   = "success"
	ResultDuplicate = "duplicate"
	ResultError     = "error"
)

// Login token event label values
const (
	EventIssued   = "issued"
	EventRedeemed = "redeemed"
	EventRejected = "rejected"
)
