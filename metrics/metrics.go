// Package metrics exposes the engine's Prometheus instrumentation.
// Every counter and gauge is registered against a caller-supplied
// registry rather than the global default, so a process embedding the
// engine chooses where its metrics surface.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// DropReason labels why an inbound segment was discarded instead of
// being accepted into the reassembly buffer.
type DropReason string

const (
	DropChecksum    DropReason = "checksum"
	DropOutOfWindow DropReason = "out_of_window"
	DropDuplicate   DropReason = "duplicate"
)

// Metrics bundles the engine's instrumentation. A nil *Metrics is not
// valid; use New to build one, or NewUnregistered for tests that don't
// want a live registry.
type Metrics struct {
	ConnectionsOpened    prometheus.Counter
	ConnectionsDestroyed prometheus.Counter
	LiveConnections      prometheus.Gauge

	SegmentsSent          prometheus.Counter
	SegmentsRetransmitted prometheus.Counter
	SegmentsDropped       *prometheus.CounterVec

	RetryCapExhaustions   prometheus.Counter
	ApplicationFatals     prometheus.Counter
	TransportSendFailures prometheus.Counter
}

// New builds a Metrics instance and registers it against reg. It
// panics on a duplicate-registration collision, matching
// prometheus.MustRegister's behaviour elsewhere in the ecosystem.
func New(reg prometheus.Registerer, constLabels prometheus.Labels) *Metrics {
	m := &Metrics{
		ConnectionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ctcp",
			Name:        "connections_opened_total",
			Help:        "Connections created via the engine's accept/dial path.",
			ConstLabels: constLabels,
		}),
		ConnectionsDestroyed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ctcp",
			Name:        "connections_destroyed_total",
			Help:        "Connections that completed teardown and were removed from the registry.",
			ConstLabels: constLabels,
		}),
		LiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "ctcp",
			Name:        "live_connections",
			Help:        "Connections currently present in the engine's registry.",
			ConstLabels: constLabels,
		}),
		SegmentsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ctcp",
			Name:        "segments_sent_total",
			Help:        "Segments handed to the transport, including retransmissions.",
			ConstLabels: constLabels,
		}),
		SegmentsRetransmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ctcp",
			Name:        "segments_retransmitted_total",
			Help:        "Segments re-sent by the retransmission timer.",
			ConstLabels: constLabels,
		}),
		SegmentsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "ctcp",
			Name:        "segments_dropped_total",
			Help:        "Inbound segments discarded before reassembly, by reason.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		RetryCapExhaustions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ctcp",
			Name:        "retry_cap_exhaustions_total",
			Help:        "Connections destroyed after exceeding the retransmission retry cap.",
			ConstLabels: constLabels,
		}),
		ApplicationFatals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ctcp",
			Name:        "application_fatals_total",
			Help:        "Connections destroyed by a fatal application read/write condition.",
			ConstLabels: constLabels,
		}),
		TransportSendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ctcp",
			Name:        "transport_send_failures_total",
			Help:        "Datagram sends the transport reported as failed; recovery is left to the retransmission timer.",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(
		m.ConnectionsOpened,
		m.ConnectionsDestroyed,
		m.LiveConnections,
		m.SegmentsSent,
		m.SegmentsRetransmitted,
		m.SegmentsDropped,
		m.RetryCapExhaustions,
		m.ApplicationFatals,
		m.TransportSendFailures,
	)

	return m
}

// NewUnregistered builds a Metrics instance backed by a private
// registry, for tests and callers that don't want to wire up a real
// exporter.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry(), nil)
}

// Dropped increments the dropped-segment counter for the given reason.
func (m *Metrics) Dropped(reason DropReason) {
	m.SegmentsDropped.WithLabelValues(string(reason)).Inc()
}
