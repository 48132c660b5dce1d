package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Segment{
		{SeqNum: 100, AckNum: 0, Flags: 0, Window: 0, Payload: nil},
		{SeqNum: 124, AckNum: 100, Flags: FlagACK, Window: 1024, Payload: []byte("hello")},
		{SeqNum: 0, AckNum: 0, Flags: FlagSYN | FlagENC, Window: 0, Payload: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
	}

	for _, s := range cases {
		encoded := Encode(s)
		got, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got.SeqNum != s.SeqNum || got.AckNum != s.AckNum || got.Flags != s.Flags || got.Window != s.Window {
			t.Fatalf("round trip header mismatch: got %+v, want %+v", got, s)
		}
		if !bytes.Equal(got.Payload, s.Payload) {
			t.Fatalf("round trip payload mismatch: got %v, want %v", got.Payload, s.Payload)
		}
	}
}

func TestEncodeLength(t *testing.T) {
	s := Segment{Payload: []byte("abcde")}
	got := Encode(s)
	if len(got) != HeaderSize+5 {
		t.Fatalf("len(Encode) = %d, want %d", len(got), HeaderSize+5)
	}
}

func TestDecodeShortFrame(t *testing.T) {
	for n := 0; n < HeaderSize; n++ {
		_, err := Decode(make([]byte, n))
		if !errors.Is(err, ErrShortFrame) {
			t.Fatalf("Decode(%d bytes) error = %v, want ErrShortFrame", n, err)
		}
	}
}

func TestHasFlag(t *testing.T) {
	s := Segment{Flags: FlagSYN | FlagENC}
	if !s.HasFlag(FlagSYN | FlagENC) {
		t.Fatal("expected SYN|ENC to be set")
	}
	if s.HasFlag(FlagACK) {
		t.Fatal("expected ACK not to be set")
	}
}
