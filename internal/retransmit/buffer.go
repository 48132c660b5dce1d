// Package retransmit implements the keyed in-flight segment store (C3),
// grounded on the teacher's Session.RecoveryQueue/PendingACK maps in
// source/protocol/raknet.go (HandleACK/HandleNACK walk a map[seq]*DataPacket
// and delete entries covered by an acknowledgment range).
package retransmit

import "time"

// Entry is a single in-flight segment awaiting acknowledgment.
type Entry struct {
	Payload           []byte // the encoded wire bytes last transmitted
	FirstSendTime     time.Time
	OriginalPayloadLen int // plaintext length, for bytes-in-flight accounting
}

// Buffer is a keyed store of in-flight segments. The zero value is ready to
// use. Not goroutine-safe: owned exclusively by one sender engine, per
// spec.md §5.
type Buffer struct {
	entries map[uint32]Entry
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{entries: make(map[uint32]Entry)}
}

// Insert records a newly sent (or retransmitted) segment keyed by seq.
func (b *Buffer) Insert(seq uint32, e Entry) {
	if b.entries == nil {
		b.entries = make(map[uint32]Entry)
	}
	b.entries[seq] = e
}

// Get returns the entry at seq, if any.
func (b *Buffer) Get(seq uint32) (Entry, bool) {
	e, ok := b.entries[seq]
	return e, ok
}

// RemoveAllBelow drops every entry with seq < ackNum — the cumulative-ACK
// cleanup spec.md §4.3 calls for.
func (b *Buffer) RemoveAllBelow(ackNum uint32) {
	for seq := range b.entries {
		if seq < ackNum {
			delete(b.entries, seq)
		}
	}
}

// Oldest returns the entry with the minimum seq — the one a timeout
// retransmits. ok is false when the buffer is empty.
func (b *Buffer) Oldest() (seq uint32, e Entry, ok bool) {
	first := true
	for s, entry := range b.entries {
		if first || s < seq {
			seq, e, ok, first = s, entry, true, false
		}
	}
	return seq, e, ok
}

// Len reports the number of in-flight entries.
func (b *Buffer) Len() int { return len(b.entries) }

// BytesInFlight sums OriginalPayloadLen across all entries.
func (b *Buffer) BytesInFlight() uint32 {
	var total uint32
	for _, e := range b.entries {
		total += uint32(e.OriginalPayloadLen)
	}
	return total
}
