package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the assistant chat flow.
type ChatMetrics struct {
	classificationsTotal *prometheus.CounterVec
	escalationsTotal     prometheus.Counter
	demandSignalsTotal   prometheus.Counter
	llmLatency           *prometheus.HistogramVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		classificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commerce",
			Subsystem: "chat",
			Name:      "classifications_total",
			Help:      "Total classified customer messages",
		}, []string{"intent", "outcome"}),
		escalationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "commerce",
			Subsystem: "chat",
			Name:      "escalations_total",
			Help:      "Total conversations flagged for human handoff",
		}),
		demandSignalsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "commerce",
			Subsystem: "chat",
			Name:      "demand_signals_total",
			Help:      "Total unmet-demand records created from searches",
		}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "commerce",
			Subsystem: "chat",
			Name:      "llm_latency_seconds",
			Help:      "Latency of language model calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.classificationsTotal, m.escalationsTotal, m.demandSignalsTotal, m.llmLatency)
	return m
}

func (m *ChatMetrics) ObserveClassification(intent, outcome string) {
	if m == nil {
		return
	}
	m.classificationsTotal.WithLabelValues(intent, outcome).Inc()
}

func (m *ChatMetrics) ObserveEscalation() {
	if m == nil {
		return
	}
	m.escalationsTotal.Inc()
}

func (m *ChatMetrics) ObserveDemandSignal() {
	if m == nil {
		return
	}
	m.demandSignalsTotal.Inc()
}

func (m *ChatMetrics) ObserveLLMLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(operation).Observe(seconds)
}
