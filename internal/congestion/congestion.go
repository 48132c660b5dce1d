// Package congestion implements the TCP-Reno-style AIMD state machine (C4):
// slow start, congestion avoidance, and a simplified fast-recovery on triple
// duplicate ACK. It is a value-type sub-state of the sender engine, exposed
// only through the events below, per spec.md §9's design note — this keeps
// every cwnd/ssthresh transition auditable from one place instead of spread
// across ad-hoc field writes, the way the teacher keeps Session's counters
// behind methods rather than letting callers poke fields directly.
package congestion

// Phase is the controller's slow-start/congestion-avoidance state, derived
// from cwnd vs ssthresh rather than stored independently.
type Phase int

const (
	SlowStart Phase = iota
	CongestionAvoidance
)

func (p Phase) String() string {
	if p == SlowStart {
		return "slow-start"
	}
	return "congestion-avoidance"
}

// Controller holds the AIMD state for one sender. cwnd is carried as a
// float64 so CongestionAvoidance's MSS²/cwnd increment keeps its fractional
// remainder across updates, per spec.md §9: "implementations using integer
// cwnd MUST retain the fractional remainder... to match the AIMD law
// exactly."
type Controller struct {
	mss          uint32
	cwnd         float64
	ssthresh     float64
	dupAckCount  uint8
	lastAckRcvd  uint32
}

// New constructs a Controller with cwnd = mss and ssthresh = initSSThresh,
// per spec.md §3/§6 defaults.
func New(mss uint32, initSSThresh uint32) *Controller {
	return &Controller{
		mss:      mss,
		cwnd:     float64(mss),
		ssthresh: float64(initSSThresh),
	}
}

// Phase reports SlowStart iff cwnd < ssthresh.
func (c *Controller) Phase() Phase {
	if c.cwnd < c.ssthresh {
		return SlowStart
	}
	return CongestionAvoidance
}

// Cwnd returns the current congestion window, truncated toward zero to an
// integer byte count for comparison against byte-in-flight counters.
func (c *Controller) Cwnd() uint32 {
	return uint32(c.cwnd)
}

// CwndFloat exposes the real-valued window for tests and metrics that need
// the fractional remainder directly.
func (c *Controller) CwndFloat() float64 { return c.cwnd }

// SSThresh returns the current slow-start threshold.
func (c *Controller) SSThresh() uint32 { return uint32(c.ssthresh) }

// DupAckCount returns the number of consecutive duplicate ACKs observed for
// the current lastAckRcvd value.
func (c *Controller) DupAckCount() uint8 { return c.dupAckCount }

// LastAckRcvd returns the last ackNum accepted by OnNewAck.
func (c *Controller) LastAckRcvd() uint32 { return c.lastAckRcvd }

func (c *Controller) floorCwnd() {
	if c.cwnd < float64(c.mss) {
		c.cwnd = float64(c.mss)
	}
}

func (c *Controller) floorSSThresh() {
	min := float64(2 * c.mss)
	if c.ssthresh < min {
		c.ssthresh = min
	}
}

// OnNewAck handles ackNum > lastAckRcvd: resets the duplicate counter and
// grows cwnd by the AIMD law for the current phase.
func (c *Controller) OnNewAck(ackNum uint32) {
	wasSlowStart := c.Phase() == SlowStart
	c.dupAckCount = 0
	c.lastAckRcvd = ackNum

	if wasSlowStart {
		c.cwnd += float64(c.mss)
	} else {
		c.cwnd += (float64(c.mss) * float64(c.mss)) / c.cwnd
	}
	c.floorCwnd()
}

// OnDuplicateAck handles ackNum == lastAckRcvd: increments the duplicate
// counter and reports whether this is exactly the third duplicate, the
// fast-retransmit trigger.
func (c *Controller) OnDuplicateAck(ackNum uint32) (tripleDup bool) {
	_ = ackNum // not checked: the sender engine's dispatch passes every ackNum <= lastAckRcvd here
	c.dupAckCount++
	return c.dupAckCount == 3
}

// OnTripleDupAck performs simplified Reno fast recovery: halve cwnd (floored
// at 2*MSS) into ssthresh, then set cwnd to that same ssthresh, and reset
// the duplicate counter. The very next OnNewAck therefore applies the
// CongestionAvoidance formula, since cwnd already equals ssthresh.
func (c *Controller) OnTripleDupAck() {
	c.ssthresh = c.cwnd / 2
	c.floorSSThresh()
	c.cwnd = c.ssthresh
	c.dupAckCount = 0
}

// OnTimeout performs the multiplicative-decrease timeout reaction: halve
// cwnd (floored at 2*MSS) into ssthresh, reset cwnd to MSS, and clear the
// duplicate counter. Phase becomes SlowStart (cwnd == mss < ssthresh).
func (c *Controller) OnTimeout() {
	c.ssthresh = c.cwnd / 2
	c.floorSSThresh()
	c.cwnd = float64(c.mss)
	c.dupAckCount = 0
}

// CanSend reports whether bytesInFlight bytes may grow by more, and by how
// much headroom remains under min(cwnd, rwnd). The gate is strictly
// byte-based (spec.md §9 open question: never a payload count).
func (c *Controller) CanSend(bytesInFlight uint32, rwnd uint16) (ok bool, headroom uint32) {
	gate := c.Cwnd()
	if uint32(rwnd) < gate {
		gate = uint32(rwnd)
	}
	if bytesInFlight >= gate {
		return false, 0
	}
	return true, gate - bytesInFlight
}
