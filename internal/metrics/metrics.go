// Package metrics exports sender/receiver internals as Prometheus gauges
// and counters, grounded on the shared github.com/prometheus/client_golang
// usage in the runZeroInc-sockstats and 0xinfinitykernel-telepresence
// examples — both instrument exactly this kind of transport-internals
// exporter (sockstats' pkg/exporter wraps TCP_INFO fields as gauges the
// same way this package wraps cwnd/ssthresh/reorder state).
//
// Supplements spec.md: the Python prototype's graficos.py plots cwnd over
// time from in-memory samples; that plotting surface stays out of scope
// (spec.md §1), but the sample source it would read from is exactly what
// this package exposes for scraping instead.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder is the interface the sender/receiver engines depend on, so core
// logic never imports prometheus directly — mirrors telemetry.Sink's
// separation of concerns.
type Recorder interface {
	SetCwnd(bytes float64)
	SetSSThresh(bytes float64)
	SetBytesInFlight(bytes float64)
	SetAdvertisedWindow(bytes float64)
	SetReorderBytesHeld(bytes float64)
	IncDuplicateAck()
	IncRetransmit()
	IncFastRetransmit()
	IncTimeout()
}

// NoopRecorder discards every observation. The nil-safe default for
// engines constructed without a metrics.Recorder.
type NoopRecorder struct{}

func (NoopRecorder) SetCwnd(float64)             {}
func (NoopRecorder) SetSSThresh(float64)         {}
func (NoopRecorder) SetBytesInFlight(float64)    {}
func (NoopRecorder) SetAdvertisedWindow(float64) {}
func (NoopRecorder) SetReorderBytesHeld(float64) {}
func (NoopRecorder) IncDuplicateAck()            {}
func (NoopRecorder) IncRetransmit()              {}
func (NoopRecorder) IncFastRetransmit()          {}
func (NoopRecorder) IncTimeout()                 {}

// PrometheusRecorder is the Prometheus-backed Recorder, registering its collectors
// against a caller-supplied registry (or the global default when nil).
type PrometheusRecorder struct {
	cwnd              prometheus.Gauge
	ssthresh          prometheus.Gauge
	bytesInFlight     prometheus.Gauge
	advertisedWindow  prometheus.Gauge
	reorderBytesHeld  prometheus.Gauge
	duplicateAckTotal prometheus.Counter
	retransmitTotal   prometheus.Counter
	fastRetransTotal  prometheus.Counter
	timeoutTotal      prometheus.Counter
}

// NewPrometheusRecorder constructs and registers the transport gauges and
// counters under the "reliudp" namespace, labeled by endpoint.
func NewPrometheusRecorder(reg prometheus.Registerer, endpoint string) *PrometheusRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := prometheus.Labels{"endpoint": endpoint}
	r := &PrometheusRecorder{
		cwnd: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "reliudp", Name: "cwnd_bytes", Help: "Current congestion window.", ConstLabels: labels,
		}),
		ssthresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "reliudp", Name: "ssthresh_bytes", Help: "Current slow-start threshold.", ConstLabels: labels,
		}),
		bytesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "reliudp", Name: "bytes_in_flight", Help: "Unacknowledged bytes sent.", ConstLabels: labels,
		}),
		advertisedWindow: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "reliudp", Name: "advertised_window_bytes", Help: "Receiver-advertised window.", ConstLabels: labels,
		}),
		reorderBytesHeld: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "reliudp", Name: "reorder_bytes_held", Help: "Bytes buffered out-of-order at the receiver.", ConstLabels: labels,
		}),
		duplicateAckTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reliudp", Name: "duplicate_ack_total", Help: "Duplicate ACKs observed.", ConstLabels: labels,
		}),
		retransmitTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reliudp", Name: "retransmit_total", Help: "Segments retransmitted (any cause).", ConstLabels: labels,
		}),
		fastRetransTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reliudp", Name: "fast_retransmit_total", Help: "Fast retransmits triggered by triple duplicate ACK.", ConstLabels: labels,
		}),
		timeoutTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reliudp", Name: "timeout_total", Help: "Retransmission timeouts.", ConstLabels: labels,
		}),
	}
	reg.MustRegister(r.cwnd, r.ssthresh, r.bytesInFlight, r.advertisedWindow,
		r.reorderBytesHeld, r.duplicateAckTotal, r.retransmitTotal, r.fastRetransTotal, r.timeoutTotal)
	return r
}

func (r *PrometheusRecorder) SetCwnd(v float64)             { r.cwnd.Set(v) }
func (r *PrometheusRecorder) SetSSThresh(v float64)         { r.ssthresh.Set(v) }
func (r *PrometheusRecorder) SetBytesInFlight(v float64)    { r.bytesInFlight.Set(v) }
func (r *PrometheusRecorder) SetAdvertisedWindow(v float64) { r.advertisedWindow.Set(v) }
func (r *PrometheusRecorder) SetReorderBytesHeld(v float64) { r.reorderBytesHeld.Set(v) }
func (r *PrometheusRecorder) IncDuplicateAck()              { r.duplicateAckTotal.Inc() }
func (r *PrometheusRecorder) IncRetransmit()                { r.retransmitTotal.Inc() }
func (r *PrometheusRecorder) IncFastRetransmit()            { r.fastRetransTotal.Inc() }
func (r *PrometheusRecorder) IncTimeout()                   { r.timeoutTotal.Inc() }
