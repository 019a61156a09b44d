package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joeyedi1/eclandingpage/internal/domain"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	LeadsSubmitted     *prometheus.CounterVec
	DispatchOutcomes   *prometheus.CounterVec
	DispatchLatency    *prometheus.HistogramVec
	DispatchQueueDepth prometheus.Gauge
	QueuedDelivery     prometheus.Histogram
	ActiveChannels     prometheus.Gauge
}

// New registers all instruments with the given Prometheus registerer.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LeadsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leads_submitted_total",
			Help: "Register-interest submissions by result.",
		}, []string{"result"}),

		DispatchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_outcomes_total",
			Help: "Per-channel dispatch outcomes.",
		}, []string{"channel", "status"}),

		DispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dispatch_channel_seconds",
			Help:    "Time spent on a single channel send, including rate-limit wait.",
			Buckets: prometheus.DefBuckets,
		}, []string{"channel"}),

		DispatchQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dispatch_queue_depth",
			Help: "Leads waiting for asynchronous dispatch.",
		}),

		QueuedDelivery: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_queued_delivery_seconds",
			Help:    "Time a worker spent delivering one queued lead to every channel.",
			Buckets: prometheus.DefBuckets,
		}),

		ActiveChannels: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dispatch_active_channels",
			Help: "Channels with complete credentials.",
		}),
	}

	reg.MustRegister(
		m.LeadsSubmitted,
		m.DispatchOutcomes,
		m.DispatchLatency,
		m.DispatchQueueDepth,
		m.QueuedDelivery,
		m.ActiveChannels,
	)

	return m
}

// OutcomeHook returns the callback expected by notify.Hooks.
// Skipped channels made no call, so they carry no latency sample.
func (m *Metrics) OutcomeHook() func(domain.DispatchOutcome) {
	return func(o domain.DispatchOutcome) {
		m.DispatchOutcomes.WithLabelValues(o.Channel, string(o.Status)).Inc()
		if o.Status != domain.OutcomeSkipped {
			m.DispatchLatency.WithLabelValues(o.Channel).Observe(o.Latency.Seconds())
		}
	}
}

// SubmitHook returns the callback expected by service.Hooks.
func (m *Metrics) SubmitHook() func(result string) {
	return func(result string) {
		m.LeadsSubmitted.WithLabelValues(result).Inc()
	}
}

// QueueDepthHook returns the callback expected by worker.MetricHooks.OnDepth.
func (m *Metrics) QueueDepthHook() func(int) {
	return func(depth int) {
		m.DispatchQueueDepth.Set(float64(depth))
	}
}

// DeliveredHook returns the callback expected by worker.MetricHooks.OnDelivered.
func (m *Metrics) DeliveredHook() func(time.Duration) {
	return func(latency time.Duration) {
		m.QueuedDelivery.Observe(latency.Seconds())
	}
}
