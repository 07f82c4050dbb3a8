package lighting

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics содержит Prometheus-метрики движка освещения.
// Значения обновляются один раз в конце прохода, а не на каждую запись.
type Metrics struct {
	writes  prometheus.Counter
	clears  prometheus.Counter
	reseeds prometheus.Counter
	dropped prometheus.Counter

	passes       *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
	poolNodes    *prometheus.GaugeVec

	propagatePasses     prometheus.Counter
	unpropagatePasses   prometheus.Counter
	propagateDuration   prometheus.Observer
	unpropagateDuration prometheus.Observer
}

// NewMetrics создаёт метрики и регистрирует их в reg (при nil без регистрации)
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lighting",
			Name:      "writes_total",
			Help:      "Повышений уровня канала при распространении света.",
		}),
		clears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lighting",
			Name:      "clears_total",
			Help:      "Обнулённых каналов при удалении света.",
		}),
		reseeds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lighting",
			Name:      "reseeds_total",
			Help:      "Клеток, возвращённых в очередь распространения независимыми источниками.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lighting",
			Name:      "dropped_total",
			Help:      "Пропущенных шагов из-за исчерпания пула узлов.",
		}),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lighting",
			Name:      "passes_total",
			Help:      "Выполненных проходов по видам.",
		}, []string{"pass"}),
		passDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lighting",
			Name:      "pass_duration_seconds",
			Help:      "Длительность прохода освещения.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"pass"}),
		poolNodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lighting",
			Name:      "pool_nodes",
			Help:      "Узлов в пулах очередей по состоянию (allocated, live, peak).",
		}, []string{"pool", "state"}),
	}

	m.propagatePasses = m.passes.WithLabelValues("propagate")
	m.unpropagatePasses = m.passes.WithLabelValues("unpropagate")
	m.propagateDuration = m.passDuration.WithLabelValues("propagate")
	m.unpropagateDuration = m.passDuration.WithLabelValues("unpropagate")

	if reg != nil {
		reg.MustRegister(m.writes, m.clears, m.reseeds, m.dropped, m.passes, m.passDuration, m.poolNodes)
	}
	return m
}

func (m *Metrics) observePropagate(st PassStats, d time.Duration) {
	if m == nil {
		return
	}
	m.propagatePasses.Inc()
	m.propagateDuration.Observe(d.Seconds())
	m.writes.Add(float64(st.Writes))
	m.dropped.Add(float64(st.Dropped))
}

func (m *Metrics) observeUnpropagate(st PassStats, d time.Duration) {
	if m == nil {
		return
	}
	m.unpropagatePasses.Inc()
	m.unpropagateDuration.Observe(d.Seconds())
	m.clears.Add(float64(st.Clears))
	m.reseeds.Add(float64(st.Reseeds))
	m.dropped.Add(float64(st.Dropped))
}

func (m *Metrics) observePool(name string, allocated, live, peak int) {
	if m == nil {
		return
	}
	m.poolNodes.WithLabelValues(name, "allocated").Set(float64(allocated))
	m.poolNodes.WithLabelValues(name, "live").Set(float64(live))
	m.poolNodes.WithLabelValues(name, "peak").Set(float64(peak))
}
