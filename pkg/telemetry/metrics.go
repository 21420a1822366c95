package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the partforge engine.
type Metrics struct {
	config MetricsConfig

	// Resolution metrics
	scheduleResolutions *prometheus.CounterVec
	cutParamLookups     *prometheus.CounterVec

	// Processing metrics
	documentsProcessed *prometheus.CounterVec
	processDuration    *prometheus.HistogramVec

	// Writeback metrics
	writebackEntries *prometheus.CounterVec

	// Comparison metrics
	comparisonFields *prometheus.CounterVec

	// Policy metrics
	policyDenials *prometheus.CounterVec

	// System metrics
	activeDocuments prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// No-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		scheduleResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "schedule_resolutions_total",
				Help:      "Total number of pipe schedule resolutions",
			},
			[]string{"outcome"},
		),
		cutParamLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cut_param_lookups_total",
				Help:      "Total number of cutting parameter lookups",
			},
			[]string{"material"},
		),

		documentsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_processed_total",
				Help:      "Total number of documents processed",
			},
			[]string{"status"},
		),
		processDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "process_duration_seconds",
				Help:      "Duration of document processing in seconds",
				Buckets:   buckets,
			},
			[]string{"status"},
		),

		writebackEntries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "writeback_entries_total",
				Help:      "Total number of property writeback entries",
			},
			[]string{"status"},
		),

		comparisonFields: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "comparison_fields_total",
				Help:      "Total number of compared fields by match status",
			},
			[]string{"status"},
		),

		policyDenials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "policy_denials_total",
				Help:      "Total number of policy denials",
			},
			[]string{"severity"},
		),

		activeDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_documents",
				Help:      "Current number of documents being processed",
			},
		),
	}

	registry.MustRegister(
		m.scheduleResolutions,
		m.cutParamLookups,
		m.documentsProcessed,
		m.processDuration,
		m.writebackEntries,
		m.comparisonFields,
		m.policyDenials,
		m.activeDocuments,
	)

	return m, nil
}

// RecordScheduleResolution records a pipe schedule lookup by outcome
// (matched, missed, overridden).
func (m *Metrics) RecordScheduleResolution(outcome string) {
	if m.scheduleResolutions == nil {
		return
	}
	m.scheduleResolutions.WithLabelValues(outcome).Inc()
}

// RecordCutParamLookup records a cutting parameter lookup by material.
func (m *Metrics) RecordCutParamLookup(material string) {
	if m.cutParamLookups == nil {
		return
	}
	m.cutParamLookups.WithLabelValues(material).Inc()
}

// RecordDocumentStarted increments the active-document gauge.
func (m *Metrics) RecordDocumentStarted() {
	if m.activeDocuments == nil {
		return
	}
	m.activeDocuments.Inc()
}

// RecordDocumentProcessed records a completed document with its terminal
// status and duration.
func (m *Metrics) RecordDocumentProcessed(status string, duration time.Duration) {
	if m.documentsProcessed == nil {
		return
	}
	m.documentsProcessed.WithLabelValues(status).Inc()
	m.processDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.activeDocuments.Dec()
}

// RecordWritebackEntry records one writeback entry by status.
func (m *Metrics) RecordWritebackEntry(status string) {
	if m.writebackEntries == nil {
		return
	}
	m.writebackEntries.WithLabelValues(status).Inc()
}

// RecordComparisonField records one compared field by match status.
func (m *Metrics) RecordComparisonField(status string) {
	if m.comparisonFields == nil {
		return
	}
	m.comparisonFields.WithLabelValues(status).Inc()
}

// RecordPolicyDenial records a policy denial by severity.
func (m *Metrics) RecordPolicyDenial(severity string) {
	if m.policyDenials == nil {
		return
	}
	m.policyDenials.WithLabelValues(severity).Inc()
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics.
func (m *Metrics) StartMetricsServer() error {
	if !m.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return nil
}
