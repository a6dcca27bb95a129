// Package telemetry provides Prometheus metrics and OpenTelemetry tracing
// for the topicbot service.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "topicbot"

// Metrics holds all topicbot Prometheus metrics.
type Metrics struct {
	// Classification metrics
	ClassificationsTotal   *prometheus.CounterVec
	ClassificationDuration prometheus.Histogram
	TopScore               prometheus.Histogram

	// Oracle metrics
	OracleRequestsTotal *prometheus.CounterVec
	OracleLatency       prometheus.Histogram

	// Catalog metrics
	CatalogEntries prometheus.Gauge
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry against the default Prometheus
// registry.
func NewProvider() *Provider {
	return NewProviderWith(prometheus.DefaultRegisterer)
}

// NewProviderWith initializes telemetry against a specific registerer.
// Tests use this with a fresh registry to avoid duplicate registration.
func NewProviderWith(reg prometheus.Registerer) *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(reg),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ClassificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "topicbot_classifications_total",
			Help: "Total classification requests by outcome (local_fallback, oracle_match, oracle_none, oracle_empty, oracle_error, oracle_timeout, lookup_miss)",
		}, []string{"outcome"}),

		ClassificationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "topicbot_classification_duration_seconds",
			Help:    "End-to-end time to classify a single message",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 15.0, 30.0},
		}),

		TopScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "topicbot_top_candidate_score",
			Help:    "Weighted score of the best local candidate (0-1200)",
			Buckets: []float64{100, 200, 300, 400, 500, 600, 700, 800, 900, 1000, 1100, 1200},
		}),

		OracleRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "topicbot_oracle_requests_total",
			Help: "Total oracle completion calls by outcome",
		}, []string{"outcome"}),

		OracleLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "topicbot_oracle_latency_seconds",
			Help:    "Latency of oracle completion calls",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		}),

		CatalogEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "topicbot_catalog_entries",
			Help: "Number of topic entries loaded at startup",
		}),
	}
}

// RecordClassification records one finished classification.
func (p *Provider) RecordClassification(outcome string, duration time.Duration) {
	p.Metrics.ClassificationsTotal.WithLabelValues(outcome).Inc()
	p.Metrics.ClassificationDuration.Observe(duration.Seconds())
}

// RecordTopScore records the best local candidate score for a request.
func (p *Provider) RecordTopScore(score int) {
	p.Metrics.TopScore.Observe(float64(score))
}

// RecordOracleCall records one oracle completion attempt.
func (p *Provider) RecordOracleCall(outcome string, duration time.Duration) {
	p.Metrics.OracleRequestsTotal.WithLabelValues(outcome).Inc()
	p.Metrics.OracleLatency.Observe(duration.Seconds())
}

// SetCatalogSize records the catalog size gauge.
func (p *Provider) SetCatalogSize(entries int) {
	p.Metrics.CatalogEntries.Set(float64(entries))
}

// StartSpan starts a new trace span. The caller is responsible for ending
// the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
