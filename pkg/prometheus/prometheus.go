// Package prometheus provides a formz.MetricsProvider backed by
// Prometheus collectors.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/zoobzio/formz"
)

// Provider records Host activity in Prometheus collectors.
type Provider struct {
	Sources            prometheus.Gauge
	Updates            *prometheus.CounterVec
	Validations        *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
	StaleResults       *prometheus.CounterVec
}

// New creates a Provider and registers its collectors with reg. A nil reg
// registers with prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace string) *Provider {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Provider{
		Sources: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "formz_sources",
			Help:      "Number of registered sources",
		}),
		Updates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "formz_updates_total",
			Help:      "Total number of applied source updates",
		}, []string{"source"}),
		Validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "formz_validations_total",
			Help:      "Total number of validator invocations",
		}, []string{"source", "result"}),
		ValidationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "formz_validation_duration_seconds",
			Help:      "Duration of validator invocations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		StaleResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "formz_stale_results_total",
			Help:      "Total number of discarded stale validation results",
		}, []string{"source"}),
	}
}

// OnSourceAdded implements formz.MetricsProvider.
func (p *Provider) OnSourceAdded(_ string) {
	p.Sources.Inc()
}

// OnSourceRemoved implements formz.MetricsProvider.
func (p *Provider) OnSourceRemoved(_ string) {
	p.Sources.Dec()
}

// OnUpdate implements formz.MetricsProvider.
func (p *Provider) OnUpdate(name string) {
	p.Updates.WithLabelValues(name).Inc()
}

// OnValidation implements formz.MetricsProvider.
func (p *Provider) OnValidation(name string, duration time.Duration, failed bool) {
	result := "ok"
	if failed {
		result = "failed"
	}
	p.Validations.WithLabelValues(name, result).Inc()
	p.ValidationDuration.WithLabelValues(name).Observe(duration.Seconds())
}

// OnStaleResult implements formz.MetricsProvider.
func (p *Provider) OnStaleResult(name string) {
	p.StaleResults.WithLabelValues(name).Inc()
}

var _ formz.MetricsProvider = (*Provider)(nil)
