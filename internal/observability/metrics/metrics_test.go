package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestChatMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)

	m.ObserveClassification("search", "ok")
	m.ObserveClassification("search", "ok")
	m.ObserveClassification("unknown", "degraded")
	m.ObserveEscalation()
	m.ObserveDemandSignal()
	m.ObserveLLMLatency("classify", 0.42)

	if got := testutil.ToFloat64(m.classificationsTotal.WithLabelValues("search", "ok")); got != 2 {
		t.Errorf("search/ok classifications = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.escalationsTotal); got != 1 {
		t.Errorf("escalations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.demandSignalsTotal); got != 1 {
		t.Errorf("demand signals = %v, want 1", got)
	}
}

func TestChatMetrics_NilSafe(t *testing.T) {
	var m *ChatMetrics
	m.ObserveClassification("search", "ok")
	m.ObserveEscalation()
	m.ObserveDemandSignal()
	m.ObserveLLMLatency("classify", 0.1)
}
