package congestion

import "testing"

const mss = 1000

func TestSlowStartGrowthExactlyMSS(t *testing.T) {
	c := New(mss, 64000)
	before := c.CwndFloat()
	c.OnNewAck(1000)
	if got := c.CwndFloat(); got != before+mss {
		t.Fatalf("cwnd after slow-start ack = %v, want %v", got, before+mss)
	}
}

func TestFiveInOrderAcksReachSixMSS(t *testing.T) {
	// Scenario 1 (spec.md §8): five 24-byte segments from seq 100, final
	// cwnd = 6*MSS after five slow-start increments from an initial MSS.
	c := New(mss, 64000)
	acks := []uint32{124, 148, 172, 196, 220}
	for _, a := range acks {
		c.OnNewAck(a)
	}
	if got := c.Cwnd(); got != 6*mss {
		t.Fatalf("cwnd after 5 acks = %d, want %d", got, 6*mss)
	}
}

func TestCongestionAvoidanceIncrement(t *testing.T) {
	c := New(mss, 64000)
	c.cwnd = 8000 // already past ssthresh semantics established by the test
	c.ssthresh = 4000
	if c.Phase() != CongestionAvoidance {
		t.Fatalf("phase = %v, want CongestionAvoidance", c.Phase())
	}
	before := c.cwnd
	c.OnNewAck(1)
	want := before + (mss*mss)/before
	if got := c.CwndFloat(); got != want {
		t.Fatalf("cwnd after CA ack = %v, want %v", got, want)
	}
}

func TestTripleDupAckFastRetransmit(t *testing.T) {
	// Scenario 4 (spec.md §8).
	c := New(mss, 64000)
	c.cwnd = 8000
	c.ssthresh = 64000
	c.lastAckRcvd = 1000

	var triple bool
	for i := 0; i < 3; i++ {
		triple = c.OnDuplicateAck(1000)
	}
	if !triple {
		t.Fatal("third duplicate ACK must signal fast retransmit")
	}
	c.OnTripleDupAck()

	if got := c.SSThresh(); got != 4000 {
		t.Fatalf("ssthresh = %d, want 4000", got)
	}
	if got := c.Cwnd(); got != 4000 {
		t.Fatalf("cwnd = %d, want 4000", got)
	}
	if got := c.DupAckCount(); got != 0 {
		t.Fatalf("dupAckCount = %d, want 0", got)
	}
	if c.Phase() != CongestionAvoidance {
		t.Fatalf("phase after fast recovery = %v, want CongestionAvoidance", c.Phase())
	}
}

func TestTimeoutMultiplicativeDecrease(t *testing.T) {
	// Scenario 5 (spec.md §8).
	c := New(mss, 64000)
	c.cwnd = 8000
	c.ssthresh = 64000

	c.OnTimeout()

	if got := c.SSThresh(); got != 4000 {
		t.Fatalf("ssthresh = %d, want 4000", got)
	}
	if got := c.Cwnd(); got != mss {
		t.Fatalf("cwnd = %d, want %d", got, mss)
	}
	if c.Phase() != SlowStart {
		t.Fatalf("phase after timeout = %v, want SlowStart", c.Phase())
	}
}

func TestCwndNeverBelowMSS(t *testing.T) {
	c := New(mss, 64000)
	c.cwnd = 1200
	c.OnTimeout()
	if c.Cwnd() < mss {
		t.Fatalf("cwnd = %d, must be >= MSS (%d)", c.Cwnd(), mss)
	}
	c.cwnd = 1500 // below 2*mss after halving
	c.OnTripleDupAck()
	if c.Cwnd() < mss {
		t.Fatalf("cwnd = %d, must be >= MSS (%d)", c.Cwnd(), mss)
	}
}

func TestSSThreshNeverBelowTwoMSS(t *testing.T) {
	c := New(mss, 64000)
	c.cwnd = 1500
	c.OnTimeout()
	if c.SSThresh() < 2*mss {
		t.Fatalf("ssthresh = %d, must be >= 2*MSS (%d)", c.SSThresh(), 2*mss)
	}
}

func TestCanSendByteBasedGate(t *testing.T) {
	// Scenario 6 (spec.md §8): receiver holds 900B out-of-order, advertised
	// window = 124; sender with cwnd=10000, bytesInFlight=0 must reject any
	// payload larger than 124 bytes.
	c := New(mss, 64000)
	c.cwnd = 10000
	ok, headroom := c.CanSend(0, 124)
	if !ok || headroom != 124 {
		t.Fatalf("CanSend(0, 124) = (%v, %d), want (true, 124)", ok, headroom)
	}
}

func TestCanSendBlockedWhenInFlightMeetsGate(t *testing.T) {
	c := New(mss, 64000)
	c.cwnd = 2000
	ok, headroom := c.CanSend(2000, 5000)
	if ok || headroom != 0 {
		t.Fatalf("CanSend(2000, 5000) = (%v, %d), want (false, 0)", ok, headroom)
	}
}
