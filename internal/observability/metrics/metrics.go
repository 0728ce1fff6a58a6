package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for the dialog engine.
type ConversationMetrics struct {
	inboundTotal    *prometheus.CounterVec
	bookingsTotal   *prometheus.CounterVec
	handleLatency   prometheus.Histogram
	sessionsEvicted prometheus.Counter
	activeSessions  prometheus.Gauge
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brightbroom",
			Subsystem: "conversation",
			Name:      "inbound_total",
			Help:      "Total inbound messages by routing kind and outcome",
		}, []string{"kind", "outcome"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brightbroom",
			Subsystem: "conversation",
			Name:      "bookings_total",
			Help:      "Total booking sink outcomes",
		}, []string{"status"}),
		handleLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "brightbroom",
			Subsystem: "conversation",
			Name:      "handle_latency_seconds",
			Help:      "Latency of inbound message handling",
			Buckets:   prometheus.DefBuckets,
		}),
		sessionsEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brightbroom",
			Subsystem: "conversation",
			Name:      "sessions_evicted_total",
			Help:      "Sessions evicted by the TTL sweeper",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "brightbroom",
			Subsystem: "conversation",
			Name:      "active_sessions",
			Help:      "Sessions currently held in the store",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.bookingsTotal, m.handleLatency, m.sessionsEvicted, m.activeSessions)
	return m
}

func (m *ConversationMetrics) ObserveInbound(kind, outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *ConversationMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *ConversationMetrics) ObserveHandleLatency(seconds float64) {
	if m == nil {
		return
	}
	m.handleLatency.Observe(seconds)
}

func (m *ConversationMetrics) ObserveEvictions(count int) {
	if m == nil {
		return
	}
	m.sessionsEvicted.Add(float64(count))
}

func (m *ConversationMetrics) SetActiveSessions(count int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(count))
}
