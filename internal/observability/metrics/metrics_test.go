package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestAgentMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAgentMetrics(reg)
	m.ObserveRun("agendar", "success")
	m.ObserveBooking("created")
	m.ObserveRunLatency("agendar", 0.5)
}

func TestAgentMetricsNilSafe(t *testing.T) {
	var m *AgentMetrics
	m.ObserveRun("agendar", "success")
	m.ObserveBooking("created")
	m.ObserveRunLatency("agendar", 0.1)
}
