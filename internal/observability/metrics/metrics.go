package metrics

import "github.com/prometheus/client_golang/prometheus"

// AgentMetrics exposes counters/histograms for the scheduling agent.
type AgentMetrics struct {
	runsTotal     *prometheus.CounterVec
	bookingsTotal *prometheus.CounterVec
	runLatency    *prometheus.HistogramVec
}

func NewAgentMetrics(reg prometheus.Registerer) *AgentMetrics {
	m := &AgentMetrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "agent",
			Name:      "runs_total",
			Help:      "Total agent task runs",
		}, []string{"intent", "status"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "scheduler",
			Name:      "bookings_total",
			Help:      "Total booking attempts",
		}, []string{"outcome"}),
		runLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agenda",
			Subsystem: "agent",
			Name:      "run_latency_seconds",
			Help:      "Latency of agent task runs",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.runsTotal, m.bookingsTotal, m.runLatency)
	return m
}

func (m *AgentMetrics) ObserveRun(intent, status string) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(intent, status).Inc()
}

func (m *AgentMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *AgentMetrics) ObserveRunLatency(intent string, seconds float64) {
	if m == nil {
		return
	}
	m.runLatency.WithLabelValues(intent).Observe(seconds)
}
