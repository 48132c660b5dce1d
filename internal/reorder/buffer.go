// Package reorder implements the receiver-side gap buffer (C6): out-of-order
// segments are held by sequence number until the gap in front of them
// closes, at which point they are delivered in order.
//
// Grounded on the teacher's Session.SplitPackets/HandleDataPacket in
// source/protocol/raknet.go, which buffers fragments keyed by index and
// flushes them once every piece of a split message has arrived; here the
// key is the byte sequence number rather than a split index, and the flush
// condition is the spec's simpler "next contiguous byte" rule (spec.md §4.6)
// rather than split-count completion.
package reorder

// Buffer holds out-of-order payloads keyed by sequence number, plus the
// next expected in-order sequence number. Not goroutine-safe, owned
// exclusively by one receiver engine (spec.md §5).
type Buffer struct {
	expectedSeq uint32
	pending     map[uint32][]byte
}

// New returns a Buffer whose first expected byte is initialSeq.
func New(initialSeq uint32) *Buffer {
	return &Buffer{
		expectedSeq: initialSeq,
		pending:     make(map[uint32][]byte),
	}
}

// ExpectedSeq returns the next in-order byte the buffer expects.
func (b *Buffer) ExpectedSeq() uint32 { return b.expectedSeq }

// Offer admits a segment's payload. It returns the bytes newly ready for
// in-order delivery to the application, which is empty when seq is a
// duplicate or still a gap away.
//
//   - seq < expectedSeq: duplicate, dropped.
//   - seq == expectedSeq: delivered immediately, then the buffer drains any
//     chain of now-contiguous stored segments.
//   - seq > expectedSeq: stored for later; overwriting an existing key is
//     allowed (last-wins) since spec.md §9 treats it as harmless — the
//     bytes at a given seq must be identical under the byte-stream-
//     integrity invariant.
func (b *Buffer) Offer(seq uint32, payload []byte) []byte {
	if seq < b.expectedSeq {
		return nil
	}
	if seq > b.expectedSeq {
		if len(payload) == 0 {
			return nil
		}
		b.pending[seq] = payload
		return nil
	}

	delivered := append([]byte(nil), payload...)
	b.expectedSeq += uint32(len(payload))

	for {
		next, ok := b.pending[b.expectedSeq]
		if !ok {
			break
		}
		delete(b.pending, b.expectedSeq)
		delivered = append(delivered, next...)
		b.expectedSeq += uint32(len(next))
	}
	return delivered
}

// BytesHeld sums payload lengths currently buffered out-of-order.
func (b *Buffer) BytesHeld() int {
	total := 0
	for _, p := range b.pending {
		total += len(p)
	}
	return total
}
