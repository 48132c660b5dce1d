// Package wire implements the fixed 12-byte segment header codec (C1).
//
// Grounded on the teacher's BitStream reader/writer in
// source/protocol/raknet.go, but the framing itself follows spec.md §3/§6
// exactly: big-endian {seq,ack,flags,window} rather than RakNet's 24-bit
// little-endian sequence + variable encapsulation headers.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Flag bits. Unknown bits MUST be ignored on receive and zero on send.
const (
	FlagSYN uint16 = 0x01
	FlagACK uint16 = 0x02
	FlagFIN uint16 = 0x04
	FlagENC uint16 = 0x08
)

// HeaderSize is the fixed wire header length in bytes.
const HeaderSize = 12

// ErrShortFrame is returned by Decode when the input is smaller than HeaderSize.
var ErrShortFrame = errors.New("wire: frame shorter than 12-byte header")

// Segment is the in-memory representation of a single datagram.
type Segment struct {
	SeqNum  uint32
	AckNum  uint32
	Flags   uint16
	Window  uint16
	Payload []byte
}

// HasFlag reports whether all bits in mask are set.
func (s Segment) HasFlag(mask uint16) bool {
	return s.Flags&mask == mask
}

// Encode concatenates the big-endian header with the payload. Pure: no
// state, no allocation beyond the returned slice.
func Encode(s Segment) []byte {
	buf := make([]byte, HeaderSize+len(s.Payload))
	binary.BigEndian.PutUint32(buf[0:4], s.SeqNum)
	binary.BigEndian.PutUint32(buf[4:8], s.AckNum)
	binary.BigEndian.PutUint16(buf[8:10], s.Flags)
	binary.BigEndian.PutUint16(buf[10:12], s.Window)
	copy(buf[HeaderSize:], s.Payload)
	return buf
}

// Decode splits a raw datagram into header fields and payload. Rejects
// anything shorter than HeaderSize with ErrShortFrame.
func Decode(raw []byte) (Segment, error) {
	if len(raw) < HeaderSize {
		return Segment{}, fmt.Errorf("%w: got %d bytes", ErrShortFrame, len(raw))
	}
	payload := make([]byte, len(raw)-HeaderSize)
	copy(payload, raw[HeaderSize:])
	return Segment{
		SeqNum:  binary.BigEndian.Uint32(raw[0:4]),
		AckNum:  binary.BigEndian.Uint32(raw[4:8]),
		Flags:   binary.BigEndian.Uint16(raw[8:10]),
		Window:  binary.BigEndian.Uint16(raw[10:12]),
		Payload: payload,
	}, nil
}
