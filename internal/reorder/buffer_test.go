package reorder

import "testing"

func TestReorderedReceiveScenario(t *testing.T) {
	// Arrival order B(101), D(103), A(100), C(102), each 1 byte: A's
	// arrival closes the gap through B (seq 100->102) but D stays
	// buffered until C arrives, since C (seq 102) hasn't landed yet.
	// C's arrival then closes the remaining gap through D (seq 102->104).
	b := New(100)

	var got []byte
	var acks []uint32

	offer := func(seq uint32, payload string) {
		delivered := b.Offer(seq, []byte(payload))
		got = append(got, delivered...)
		acks = append(acks, b.ExpectedSeq())
	}

	offer(101, "B")
	offer(103, "D")
	offer(100, "A")
	offer(102, "C")

	if string(got) != "ABCD" {
		t.Fatalf("delivered stream = %q, want %q", got, "ABCD")
	}
	wantAcks := []uint32{100, 100, 102, 104}
	if len(acks) != len(wantAcks) {
		t.Fatalf("len(acks) = %d, want %d", len(acks), len(wantAcks))
	}
	for i, a := range wantAcks {
		if acks[i] != a {
			t.Fatalf("ack[%d] = %d, want %d", i, acks[i], a)
		}
	}
}

func TestDuplicateSegmentDropped(t *testing.T) {
	b := New(100)
	first := b.Offer(100, []byte("12345678"))
	if string(first) != "12345678" {
		t.Fatalf("first delivery = %q, want %q", first, "12345678")
	}
	second := b.Offer(100, []byte("12345678"))
	if len(second) != 0 {
		t.Fatalf("duplicate delivery = %q, want empty", second)
	}
	if b.ExpectedSeq() != 108 {
		t.Fatalf("ExpectedSeq() = %d, want 108", b.ExpectedSeq())
	}
}

func TestBytesHeldReflectsPending(t *testing.T) {
	b := New(100)
	b.Offer(110, make([]byte, 900)) // out of order, buffered
	if got := b.BytesHeld(); got != 900 {
		t.Fatalf("BytesHeld() = %d, want 900", got)
	}
	// closing the gap drains it back out of the pending set.
	delivered := b.Offer(100, make([]byte, 10))
	if len(delivered) != 910 {
		t.Fatalf("len(delivered) = %d, want 910 (10 bytes reach 110, draining the held 900)", len(delivered))
	}
	if got := b.BytesHeld(); got != 0 {
		t.Fatalf("BytesHeld() = %d, want 0 after the gap closed", got)
	}
}

func TestOverwriteOnDuplicateOutOfOrderKey(t *testing.T) {
	b := New(100)
	b.Offer(105, []byte("first"))
	b.Offer(105, []byte("second")) // overwrites the pending entry: last write wins
	if got := b.BytesHeld(); got != len("second") {
		t.Fatalf("BytesHeld() = %d, want %d", got, len("second"))
	}
}
