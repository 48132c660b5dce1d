package sender

import "time"

// Sample is one point-in-time observation of the congestion state,
// supplementing the Python prototype's graficos.py plot (spec.md drops the
// plot itself as out of scope, but the sample feed it consumed is fair
// game — see SPEC_FULL.md §5). A real plotting tool stays out of this repo;
// internal/metrics exports the same numbers to Prometheus for one instead.
type Sample struct {
	At       time.Time
	Cwnd     float64
	SSThresh uint32
	Event    string
}

// maxSamples bounds the in-memory ring so a long-running sender can't leak
// memory recording every single ACK/timeout over a multi-hour connection.
const maxSamples = 2000

// recordSample appends a Sample tagged with event, evicting the oldest
// entry once the ring is full.
func (e *Engine) recordSample(event string) {
	s := Sample{At: time.Now(), Cwnd: e.cc.CwndFloat(), SSThresh: e.cc.SSThresh(), Event: event}
	if len(e.samples) >= maxSamples {
		e.samples = e.samples[1:]
	}
	e.samples = append(e.samples, s)
}

// Snapshot returns a copy of every Sample recorded so far, oldest first.
func (e *Engine) Snapshot() []Sample {
	out := make([]Sample, len(e.samples))
	copy(out, e.samples)
	return out
}
