package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	transfersTotal  *prometheus.CounterVec
	transferAmount  prometheus.Histogram
	issuanceTotal   *prometheus.CounterVec
	extensionsTotal *prometheus.CounterVec
	conflictsTotal  *prometheus.CounterVec
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		transfersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transfers_total",
				Help: "Total number of transfer attempts",
			},
			[]string{"status"},
		),
		transferAmount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_transfer_amount",
				Help:    "Amounts of successful transfers",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
		issuanceTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_instrument_issuance_total",
				Help: "Total number of instrument applications processed",
			},
			[]string{"instrument", "status"},
		),
		extensionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_extensions_total",
				Help: "Total number of payment extension requests processed",
			},
			[]string{"kind", "status"},
		),
		conflictsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_commit_conflicts_total",
				Help: "Total number of atomic commits abandoned after conflict retries",
			},
			[]string{"operation"},
		),
	}
}

func (m *PrometheusMetrics) RecordTransfer(status string) {
	m.transfersTotal.WithLabelValues(status).Inc()
}

func (m *PrometheusMetrics) ObserveTransferAmount(amount float64) {
	m.transferAmount.Observe(amount)
}

func (m *PrometheusMetrics) RecordIssuance(instrument, status string) {
	m.issuanceTotal.WithLabelValues(instrument, status).Inc()
}

func (m *PrometheusMetrics) RecordExtension(kind, status string) {
	m.extensionsTotal.WithLabelValues(kind, status).Inc()
}

func (m *PrometheusMetrics) RecordConflict(operation string) {
	m.conflictsTotal.WithLabelValues(operation).Inc()
}

// NoopMetrics discards all recordings. Intended for tests.
type NoopMetrics struct{}

func NewNoopMetrics() MetricsRecorderInterface { return &NoopMetrics{} }

func (m *NoopMetrics) RecordTransfer(string)          {}
func (m *NoopMetrics) ObserveTransferAmount(float64)  {}
func (m *NoopMetrics) RecordIssuance(string, string)  {}
func (m *NoopMetrics) RecordExtension(string, string) {}
func (m *NoopMetrics) RecordConflict(string)          {}
