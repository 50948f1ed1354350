package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/pharmadistrib/internal/domain"
)

// Metrics holds the store's prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	persistDuration prometheus.Histogram
	persistErrors   prometheus.Counter
	collectionSize  *prometheus.GaugeVec
	lowStock        prometheus.Gauge
	cartLines       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pharmadistrib_store_commands_total",
				Help: "Total number of store commands by outcome",
			},
			[]string{"command", "result"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pharmadistrib_store_command_duration_seconds",
				Help:    "Duration of store commands including persistence",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		persistDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pharmadistrib_store_persist_duration_seconds",
				Help:    "Duration of snapshot writes",
				Buckets: prometheus.DefBuckets,
			},
		),
		persistErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pharmadistrib_store_persist_errors_total",
				Help: "Total number of failed snapshot writes",
			},
		),
		collectionSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pharmadistrib_store_collection_size",
				Help: "Number of entities per collection",
			},
			[]string{"collection"},
		),
		lowStock: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pharmadistrib_store_low_stock_products",
				Help: "Number of products at or below their minimum stock",
			},
		),
		cartLines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pharmadistrib_store_cart_lines",
				Help: "Number of lines in the cart",
			},
		),
	}

	reg.MustRegister(
		m.commandsTotal,
		m.commandDuration,
		m.persistDuration,
		m.persistErrors,
		m.collectionSize,
		m.lowStock,
		m.cartLines,
	)
	return m
}

func (m *Metrics) observeCommand(name string, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.commandsTotal.WithLabelValues(name, result).Inc()
	m.commandDuration.WithLabelValues(name).Observe(d.Seconds())
}

func (m *Metrics) observePersist(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.persistDuration.Observe(d.Seconds())
	if err != nil {
		m.persistErrors.Inc()
	}
}

func (m *Metrics) observeState(s domain.State) {
	if m == nil {
		return
	}
	sizes := map[string]int{
		"products":          len(s.Products),
		"orders":            len(s.Orders),
		"users":             len(s.Users),
		"returns":           len(s.Returns),
		"notifications":     len(s.Notifications),
		"invoices":          len(s.Invoices),
		"deliveries":        len(s.Deliveries),
		"qualityControls":   len(s.QualityControls),
		"complianceRecords": len(s.ComplianceRecords),
		"auditLogs":         len(s.AuditLogs),
		"documents":         len(s.Documents),
		"messages":          len(s.Messages),
	}
	for name, n := range sizes {
		m.collectionSize.WithLabelValues(name).Set(float64(n))
	}

	low := 0
	for _, p := range s.Products {
		if p.IsLowStock() {
			low++
		}
	}
	m.lowStock.Set(float64(low))
	m.cartLines.Set(float64(len(s.Cart)))
}
