package metrics

import (
	"net/http"

	"github.com/jhoicas/recepcion-api/internal/application/receiving"
	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recepcion"

// Metrics contadores del motor de recepción sobre un registro propio.
type Metrics struct {
	registry *prometheus.Registry

	GoodsReceiptsCreated   prometheus.Counter
	GoodsReceiptsCancelled prometheus.Counter
	CostsAdded             prometheus.Counter
	LandedCostFallbacks    *prometheus.CounterVec
	OperationFailures      *prometheus.CounterVec
}

var _ receiving.Recorder = (*Metrics)(nil)

// New crea el registro con los colectores de Go y de proceso más los del motor.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		GoodsReceiptsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grn_created_total",
			Help:      "Goods receipts committed",
		}),
		GoodsReceiptsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grn_cancelled_total",
			Help:      "Goods receipts cancelled",
		}),
		CostsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grn_cost_added_total",
			Help:      "Additional costs recorded on goods receipts",
		}),
		LandedCostFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "landed_cost_fallback_total",
			Help:      "Cost price refreshes that could not use landed cost",
		}, []string{"operation"}),
		OperationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Failed operations by error kind",
		}, []string{"operation", "kind"}),
	}

	registry.MustRegister(
		m.GoodsReceiptsCreated,
		m.GoodsReceiptsCancelled,
		m.CostsAdded,
		m.LandedCostFallbacks,
		m.OperationFailures,
	)
	return m
}

// Registry expone el registro (tests y colectores adicionales).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler sirve /metrics en formato de exposición de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) GoodsReceiptCreated()   { m.GoodsReceiptsCreated.Inc() }
func (m *Metrics) GoodsReceiptCancelled() { m.GoodsReceiptsCancelled.Inc() }
func (m *Metrics) CostAdded()             { m.CostsAdded.Inc() }

func (m *Metrics) LandedCostFallback(operation string) {
	m.LandedCostFallbacks.WithLabelValues(operation).Inc()
}

func (m *Metrics) OperationFailed(operation string, kind domain.Kind) {
	m.OperationFailures.WithLabelValues(operation, string(kind)).Inc()
}
