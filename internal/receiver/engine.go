// Package receiver implements the receiver-side reordering/flow-control
// engine (C7): decode, optional decrypt, admit through the reorder buffer
// (C6), compute the advertised window, and emit a cumulative ACK.
//
// Grounded on the teacher's RakNetHandler.HandlePacket flow in
// source/server (decode -> session lookup -> ACK/NACK/data dispatch) and
// Session.HandleDataPacket's ordering logic in source/protocol/raknet.go,
// adapted to the spec's simpler single-stream cumulative-ACK model instead
// of RakNet's per-channel ordering indices.
package receiver

import (
	"fmt"

	"github.com/rudpnet/reliudp/internal/cipher"
	"github.com/rudpnet/reliudp/internal/config"
	"github.com/rudpnet/reliudp/internal/lossinjector"
	"github.com/rudpnet/reliudp/internal/metrics"
	"github.com/rudpnet/reliudp/internal/reorder"
	"github.com/rudpnet/reliudp/internal/telemetry"
	"github.com/rudpnet/reliudp/internal/wire"
)

const component = "receiver"

// Engine is the receiver-side state machine for one inbound stream. Not
// goroutine-safe: confined to the task that feeds it datagrams (spec.md §5).
type Engine struct {
	rb *reorder.Buffer

	cryptoEnabled bool
	cph           cipher.Cipher

	lossProbability float64

	sink    telemetry.Sink
	events  *telemetry.EventBus
	metrics metrics.Recorder

	delivered []byte // accumulated in-order application bytes
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithSink attaches a telemetry.Sink. Defaults to telemetry.NoopSink{}.
func WithSink(s telemetry.Sink) Option { return func(e *Engine) { e.sink = s } }

// WithEvents attaches a telemetry.EventBus for lifecycle notifications.
func WithEvents(b *telemetry.EventBus) Option { return func(e *Engine) { e.events = b } }

// WithMetrics attaches a metrics.Recorder. Defaults to metrics.NoopRecorder{}.
func WithMetrics(r metrics.Recorder) Option { return func(e *Engine) { e.metrics = r } }

// WithLossProbability enables the loss-injection testability affordance
// from spec.md §4.7. Defaults to 0 (disabled, the production setting).
func WithLossProbability(p float64) Option { return func(e *Engine) { e.lossProbability = p } }

// New constructs a receiver Engine whose first expected byte is
// config.InitialSeq, per spec.md §3.
func New(options ...Option) *Engine {
	e := &Engine{
		rb:      reorder.New(config.InitialSeq),
		sink:    telemetry.NoopSink{},
		metrics: metrics.NoopRecorder{},
	}
	for _, o := range options {
		o(e)
	}
	return e
}

// Delivered returns every application byte delivered in order so far.
func (e *Engine) Delivered() []byte { return e.delivered }

// ExpectedSeq returns the next in-order byte the receiver expects.
func (e *Engine) ExpectedSeq() uint32 { return e.rb.ExpectedSeq() }

// AdvertisedWindow computes max(0, BufferSize - bytes held out-of-order),
// per spec.md §3.
func (e *Engine) AdvertisedWindow() uint16 {
	held := e.rb.BytesHeld()
	avail := config.BufferSize - held
	if avail < 0 {
		avail = 0
	}
	return uint16(avail)
}

// Handle processes one raw inbound datagram per spec.md §4.7's six-step
// sequence, returning the wire bytes of the reply the caller should send
// back to src (an ACK, an ACK|ENC handshake reply, or nil when the
// datagram was dropped/discarded and no reply is owed).
func (e *Engine) Handle(raw []byte) (reply []byte, err error) {
	if lossinjector.ShouldDrop(e.lossProbability) {
		telemetry.Debugf(e.sink, component, "loss injector dropped inbound datagram")
		return nil, nil
	}

	seg, decErr := wire.Decode(raw)
	if decErr != nil {
		telemetry.Warnf(e.sink, component, "discarding short frame: %v", decErr)
		e.events.Emit(telemetry.TransportEvent{Type: telemetry.EventFramingError})
		return nil, nil
	}

	if seg.HasFlag(wire.FlagSYN|wire.FlagENC) && len(seg.Payload) > 0 {
		return e.handleHandshake(seg)
	}

	if seg.HasFlag(wire.FlagENC) && e.cryptoEnabled {
		seg.Payload = e.cph.Decrypt(seg.Payload)
	}

	delivered := e.rb.Offer(seg.SeqNum, seg.Payload)
	e.delivered = append(e.delivered, delivered...)
	e.metrics.SetReorderBytesHeld(float64(e.rb.BytesHeld()))

	advertised := e.AdvertisedWindow()
	e.metrics.SetAdvertisedWindow(float64(advertised))

	ack := wire.Segment{SeqNum: 0, AckNum: e.rb.ExpectedSeq(), Flags: wire.FlagACK, Window: advertised}
	return wire.Encode(ack), nil
}

func (e *Engine) handleHandshake(seg wire.Segment) (reply []byte, err error) {
	if len(seg.Payload) != cipher.KeySize {
		return nil, fmt.Errorf("receiver: handshake key length = %d, want %d", len(seg.Payload), cipher.KeySize)
	}
	e.cph = cipher.New(seg.Payload)
	e.cryptoEnabled = true
	telemetry.Infof(e.sink, component, "encryption handshake received, key installed")
	e.events.Emit(telemetry.TransportEvent{Type: telemetry.EventHandshakeCompleted})

	ack := wire.Segment{Flags: wire.FlagACK | wire.FlagENC, Window: config.BufferSize}
	return wire.Encode(ack), nil
}
