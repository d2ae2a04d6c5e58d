package telnet

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sink receives connection lifecycle and protocol counters. The default is a
// no-op: spec.md §9 requires no global metrics state, so every Connection
// takes its Sink by injection.
type Sink interface {
	ConnectionOpened()
	ConnectionClosed()
	BytesRead(n int)
	BytesWritten(n int)
	OptionChanged(opt byte, side Side, enabled bool)
	DecompressError()
}

type noopSink struct{}

func (noopSink) ConnectionOpened()              {}
func (noopSink) ConnectionClosed()              {}
func (noopSink) BytesRead(int)                  {}
func (noopSink) BytesWritten(int)               {}
func (noopSink) OptionChanged(byte, Side, bool) {}
func (noopSink) DecompressError()               {}

// NoopSink returns a Sink that discards everything.
func NoopSink() Sink { return noopSink{} }

// PrometheusSink is a Sink backed by github.com/prometheus/client_golang,
// in the shape of absmach-mproxy/pkg/metrics.
type PrometheusSink struct {
	connectionsOpened prometheus.Counter
	connectionsActive prometheus.Gauge
	bytesRead         prometheus.Counter
	bytesWritten      prometheus.Counter
	optionChanges     *prometheus.CounterVec
	decompressErrors  prometheus.Counter
}

// NewPrometheusSink registers the core's metrics under namespace using reg
// (pass prometheus.DefaultRegisterer for the global registry).
func NewPrometheusSink(namespace string, reg prometheus.Registerer) *PrometheusSink {
	factory := promauto.With(reg)
	return &PrometheusSink{
		connectionsOpened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "telnet", Name: "connections_opened_total",
			Help: "Total telnet connections accepted.",
		}),
		connectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "telnet", Name: "connections_active",
			Help: "Currently open telnet connections.",
		}),
		bytesRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "telnet", Name: "bytes_read_total",
			Help: "Raw bytes read from the transport.",
		}),
		bytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "telnet", Name: "bytes_written_total",
			Help: "Raw bytes written to the transport.",
		}),
		optionChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "telnet", Name: "option_changes_total",
			Help: "Q-Method option enable/disable transitions.",
		}, []string{"option", "side", "enabled"}),
		decompressErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "telnet", Name: "decompress_errors_total",
			Help: "MCCP inflate failures.",
		}),
	}
}

func (s *PrometheusSink) ConnectionOpened() {
	s.connectionsOpened.Inc()
	s.connectionsActive.Inc()
}

func (s *PrometheusSink) ConnectionClosed() {
	s.connectionsActive.Dec()
}

func (s *PrometheusSink) BytesRead(n int) {
	s.bytesRead.Add(float64(n))
}

func (s *PrometheusSink) BytesWritten(n int) {
	s.bytesWritten.Add(float64(n))
}

func (s *PrometheusSink) OptionChanged(opt byte, side Side, enabled bool) {
	enabledLabel := "false"
	if enabled {
		enabledLabel = "true"
	}
	s.optionChanges.WithLabelValues(optionName(opt), side.String(), enabledLabel).Inc()
}

func (s *PrometheusSink) DecompressError() {
	s.decompressErrors.Inc()
}
