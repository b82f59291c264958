package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flow.
type BookingMetrics struct {
	submissionsTotal *prometheus.CounterVec
	gatewayLatency   *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Total booking submissions by outcome",
		}, []string{"outcome"}),
		gatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "booking",
			Name:      "gateway_latency_seconds",
			Help:      "Latency of outbound gateway calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"gateway"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.gatewayLatency)
	return m
}

func (m *BookingMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveGatewayLatency(gateway string, seconds float64) {
	if m == nil {
		return
	}
	m.gatewayLatency.WithLabelValues(gateway).Observe(seconds)
}
