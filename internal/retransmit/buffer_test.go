package retransmit

import (
	"testing"
	"time"
)

func TestInsertGet(t *testing.T) {
	b := New()
	b.Insert(100, Entry{Payload: []byte("x"), FirstSendTime: time.Now(), OriginalPayloadLen: 24})
	e, ok := b.Get(100)
	if !ok {
		t.Fatal("expected entry at seq 100")
	}
	if e.OriginalPayloadLen != 24 {
		t.Fatalf("OriginalPayloadLen = %d, want 24", e.OriginalPayloadLen)
	}
}

func TestRemoveAllBelow(t *testing.T) {
	b := New()
	b.Insert(100, Entry{OriginalPayloadLen: 24})
	b.Insert(124, Entry{OriginalPayloadLen: 24})
	b.Insert(148, Entry{OriginalPayloadLen: 24})

	b.RemoveAllBelow(124)

	if _, ok := b.Get(100); ok {
		t.Fatal("seq 100 should have been removed")
	}
	if _, ok := b.Get(124); !ok {
		t.Fatal("seq 124 should remain (124 is not < 124)")
	}
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
}

func TestOldest(t *testing.T) {
	b := New()
	if _, _, ok := b.Oldest(); ok {
		t.Fatal("empty buffer must report ok=false")
	}

	b.Insert(200, Entry{OriginalPayloadLen: 1})
	b.Insert(100, Entry{OriginalPayloadLen: 1})
	b.Insert(150, Entry{OriginalPayloadLen: 1})

	seq, _, ok := b.Oldest()
	if !ok || seq != 100 {
		t.Fatalf("Oldest() seq = %d, ok = %v, want 100, true", seq, ok)
	}
}

func TestBytesInFlight(t *testing.T) {
	b := New()
	b.Insert(100, Entry{OriginalPayloadLen: 24})
	b.Insert(124, Entry{OriginalPayloadLen: 48})
	if got := b.BytesInFlight(); got != 72 {
		t.Fatalf("BytesInFlight() = %d, want 72", got)
	}
}
