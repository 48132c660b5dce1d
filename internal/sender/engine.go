// Package sender implements the sender-side reliable transport engine (C5):
// it drives the retransmission buffer (C3) and congestion controller (C4),
// enforces the window gate, and handles timeout-driven recovery and
// fast-retransmit, per spec.md §4.5.
//
// Grounded on the teacher's Session.Update/HandleACK/HandleNACK trio in
// source/protocol/raknet.go (queue a segment, track it in a recovery map,
// clear the map on ACK, replay it on NACK) — re-architected as an owned
// struct with methods instead of a mutex-guarded bag of fields, since
// spec.md §5 confines sender state to a single cooperative task with no
// internal locking required.
package sender

import (
	"fmt"
	"net"
	"time"

	"github.com/rudpnet/reliudp/internal/cipher"
	"github.com/rudpnet/reliudp/internal/config"
	"github.com/rudpnet/reliudp/internal/congestion"
	"github.com/rudpnet/reliudp/internal/metrics"
	"github.com/rudpnet/reliudp/internal/retransmit"
	"github.com/rudpnet/reliudp/internal/telemetry"
	"github.com/rudpnet/reliudp/internal/wire"
)

const component = "sender"

// Engine is the sender-side state machine for one outbound stream. Not
// goroutine-safe: confined to the single task that owns conn (spec.md §5).
type Engine struct {
	conn net.PacketConn
	peer net.Addr

	sendBase uint32
	nextSeq  uint32
	rwnd     uint16

	cc *congestion.Controller
	rt *retransmit.Buffer

	cryptoEnabled bool
	cph           cipher.Cipher

	burstSize int
	timeout   time.Duration

	sink    telemetry.Sink
	events  *telemetry.EventBus
	metrics metrics.Recorder

	samples []Sample
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithSink attaches a telemetry.Sink. Defaults to telemetry.NoopSink{}.
func WithSink(s telemetry.Sink) Option { return func(e *Engine) { e.sink = s } }

// WithEvents attaches a telemetry.EventBus for lifecycle notifications.
func WithEvents(b *telemetry.EventBus) Option { return func(e *Engine) { e.events = b } }

// WithMetrics attaches a metrics.Recorder. Defaults to metrics.NoopRecorder{}.
func WithMetrics(r metrics.Recorder) Option { return func(e *Engine) { e.metrics = r } }

// New constructs a sender Engine bound to conn/peer, with sequence space
// starting at config.InitialSeq per spec.md §3.
func New(conn net.PacketConn, peer net.Addr, opts config.Options, options ...Option) *Engine {
	e := &Engine{
		conn:      conn,
		peer:      peer,
		sendBase:  config.InitialSeq,
		nextSeq:   config.InitialSeq,
		cc:        congestion.New(config.MSS, config.InitialSSThresh),
		rt:        retransmit.New(),
		burstSize: opts.BurstSize,
		timeout:   opts.Timeout,
		sink:      telemetry.NoopSink{},
		metrics:   metrics.NoopRecorder{},
	}
	if opts.CryptoEnabled {
		e.cph = cipher.New(opts.CipherKey)
	}
	for _, o := range options {
		o(e)
	}
	return e
}

// BytesInFlight returns next_seq - send_base, the bytes sent but not yet
// cumulatively acknowledged (glossary: "bytes in flight").
func (e *Engine) BytesInFlight() uint32 {
	return e.nextSeq - e.sendBase
}

// Handshake performs the one-shot ENC key negotiation (spec.md §4.2): send
// SYN|ENC carrying the key, and require an ACK|ENC reply within timeout.
// On success, every subsequent Send sets the ENC flag and encrypts its
// payload. On HandshakeRejected, encryption is left disabled and the error
// is returned for the caller to decide whether to proceed in clear.
func (e *Engine) Handshake(key []byte) error {
	seg := wire.Segment{Flags: wire.FlagSYN | wire.FlagENC, Payload: key}
	if _, err := e.conn.WriteTo(wire.Encode(seg), e.peer); err != nil {
		return fmt.Errorf("sender: handshake send: %w", err)
	}

	if err := e.conn.SetReadDeadline(time.Now().Add(e.timeout)); err != nil {
		return fmt.Errorf("sender: set deadline: %w", err)
	}
	buf := make([]byte, config.BufferSize+wire.HeaderSize)
	n, _, err := e.conn.ReadFrom(buf)
	if err != nil {
		return fmt.Errorf("sender: handshake recv: %w", err)
	}
	reply, err := wire.Decode(buf[:n])
	if err != nil {
		return fmt.Errorf("sender: handshake decode: %w", err)
	}
	if !reply.HasFlag(wire.FlagACK | wire.FlagENC) {
		e.events.Emit(telemetry.TransportEvent{Type: telemetry.EventHandshakeRejected})
		return ErrHandshakeRejected
	}

	e.cryptoEnabled = true
	e.cph = cipher.New(key)
	e.rwnd = reply.Window
	telemetry.Infof(e.sink, component, "encryption handshake completed")
	e.events.Emit(telemetry.TransportEvent{Type: telemetry.EventHandshakeCompleted})
	return nil
}

// Send assigns the next sequence number to payload and transmits it if the
// congestion/flow-control gate allows it. Returns (false, ErrWindowClosed)
// — the "blocked" indicator (spec.md §4.5/§7) — whenever
// min(cwnd,rwnd)-bytesInFlight is insufficient for payload; the caller MUST
// wait for an ACK before retrying.
func (e *Engine) Send(payload []byte) (sent bool, err error) {
	inFlight := e.BytesInFlight()
	ok, headroom := e.cc.CanSend(inFlight, e.maxRwnd())
	if !ok || uint32(len(payload)) > headroom {
		return false, ErrWindowClosed
	}

	seg := wire.Segment{SeqNum: e.nextSeq, Flags: 0, Payload: payload}
	wireLen := len(payload)
	if e.cryptoEnabled {
		seg.Flags |= wire.FlagENC
		seg.Payload = e.cph.Encrypt(payload)
	}

	encoded := wire.Encode(seg)
	if _, err := e.conn.WriteTo(encoded, e.peer); err != nil {
		return false, fmt.Errorf("sender: write: %w", err)
	}

	e.rt.Insert(e.nextSeq, retransmit.Entry{
		Payload:            encoded,
		FirstSendTime:      time.Now(),
		OriginalPayloadLen: wireLen,
	})
	e.nextSeq += uint32(wireLen)

	e.publishWindowMetrics()
	e.recordSample("send")
	telemetry.Debugf(e.sink, component, "sent seq=%d len=%d", seg.SeqNum, wireLen)
	return true, nil
}

// maxRwnd defaults an unset rwnd to BufferSize, so the very first Send
// (before any ACK has advertised a window) isn't gated to zero. Once an ACK
// has been processed, an advertised zero window is honoured as zero.
func (e *Engine) maxRwnd() uint16 {
	if e.rwnd == 0 && e.cc.LastAckRcvd() == 0 {
		return config.BufferSize
	}
	return e.rwnd
}

// PollAck blocks up to the configured timeout on a single datagram receive,
// decodes it, and dispatches it per spec.md §4.5's ACK-dispatch rules.
// Returns (true, nil) on a processed ACK, (false, nil) on a recoverable
// timeout (after driving congestion.OnTimeout + oldest-segment
// retransmission), and a non-nil error for fatal socket failures.
func (e *Engine) PollAck() (acked bool, err error) {
	if err := e.conn.SetReadDeadline(time.Now().Add(e.timeout)); err != nil {
		return false, fmt.Errorf("sender: set deadline: %w", err)
	}
	buf := make([]byte, config.BufferSize+wire.HeaderSize)
	n, _, readErr := e.conn.ReadFrom(buf)
	if readErr != nil {
		if ne, ok := readErr.(net.Error); ok && ne.Timeout() {
			e.handleTimeout()
			return false, nil
		}
		return false, fmt.Errorf("sender: read: %w", readErr)
	}

	seg, decErr := wire.Decode(buf[:n])
	if decErr != nil {
		telemetry.Warnf(e.sink, component, "discarding short frame: %v", decErr)
		e.events.Emit(telemetry.TransportEvent{Type: telemetry.EventFramingError})
		return false, nil
	}

	e.dispatchAck(seg)
	return true, nil
}

func (e *Engine) handleTimeout() {
	e.cc.OnTimeout()
	e.metrics.IncTimeout()
	e.events.Emit(telemetry.TransportEvent{Type: telemetry.EventTimeoutRecovery})

	seq, entry, ok := e.rt.Oldest()
	if !ok {
		telemetry.Debugf(e.sink, component, "timeout with empty retransmission buffer")
		return
	}
	e.retransmitEntry(seq, entry)
	telemetry.Warnf(e.sink, component, "timeout: cwnd=%d ssthresh=%d retransmitted seq=%d", e.cc.Cwnd(), e.cc.SSThresh(), seq)
	e.publishWindowMetrics()
	e.recordSample("timeout")
}

func (e *Engine) dispatchAck(seg wire.Segment) {
	e.rwnd = seg.Window

	if seg.AckNum > e.cc.LastAckRcvd() {
		e.cc.OnNewAck(seg.AckNum)
		e.rt.RemoveAllBelow(seg.AckNum)
		e.sendBase = seg.AckNum
		telemetry.Debugf(e.sink, component, "new ack=%d cwnd=%d phase=%s", seg.AckNum, e.cc.Cwnd(), e.cc.Phase())
		e.recordSample("new_ack")
	} else {
		e.metrics.IncDuplicateAck()
		triple := e.cc.OnDuplicateAck(seg.AckNum)
		if triple {
			e.cc.OnTripleDupAck()
			e.metrics.IncFastRetransmit()
			e.events.Emit(telemetry.TransportEvent{Type: telemetry.EventFastRetransmit, SeqNum: seg.AckNum})
			if entry, ok := e.rt.Get(seg.AckNum); ok {
				e.retransmitEntry(seg.AckNum, entry)
			}
			telemetry.Warnf(e.sink, component, "fast retransmit seq=%d ssthresh=%d cwnd=%d", seg.AckNum, e.cc.SSThresh(), e.cc.Cwnd())
			e.recordSample("fast_retransmit")
		}
	}
	e.publishWindowMetrics()
}

// retransmitEntry resends entry's original bytes unchanged, refreshing its
// timestamp. next_seq is never rolled back (spec.md §4.5).
func (e *Engine) retransmitEntry(seq uint32, entry retransmit.Entry) {
	if _, err := e.conn.WriteTo(entry.Payload, e.peer); err != nil {
		telemetry.Errorf(e.sink, component, "retransmit seq=%d failed: %v", seq, err)
		return
	}
	entry.FirstSendTime = time.Now()
	e.rt.Insert(seq, entry)
	e.metrics.IncRetransmit()
}

func (e *Engine) publishWindowMetrics() {
	e.metrics.SetCwnd(e.cc.CwndFloat())
	e.metrics.SetSSThresh(float64(e.cc.SSThresh()))
	e.metrics.SetBytesInFlight(float64(e.BytesInFlight()))
}

// SendBurst pumps up to the configured burst size of Send calls before
// blocking on PollAck, then drains ACKs 1:1, per spec.md §4.5's burst
// policy. It is a pacing hint, not a correctness parameter: callers may
// call Send/PollAck directly instead. Stops (returning the index of the
// first unsent payload) as soon as Send reports "blocked".
func (e *Engine) SendBurst(payloads [][]byte) (nextUnsent int, err error) {
	i := 0
	for i < len(payloads) {
		burstEnd := i + e.burstSize
		if burstEnd > len(payloads) {
			burstEnd = len(payloads)
		}

		sentInBurst := 0
		for ; i < burstEnd; i++ {
			sent, sendErr := e.Send(payloads[i])
			if sendErr != nil {
				if sendErr == ErrWindowClosed {
					return i, nil
				}
				return i, sendErr
			}
			if !sent {
				return i, nil
			}
			sentInBurst++
		}

		for j := 0; j < sentInBurst; j++ {
			if _, pollErr := e.PollAck(); pollErr != nil {
				return i, pollErr
			}
		}
	}
	return i, nil
}
