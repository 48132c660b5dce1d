// Package telemetry re-architects the teacher's pkg/logger (an ad-hoc
// colored log.Println wrapper) into the structured-event sink spec.md §9
// calls for: "level, component tag, fields" behind an interface, so the
// core engines (C3–C7) never import a logging library directly.
//
// The default Sink is backed by github.com/sirupsen/logrus, the only
// logging library present anywhere in the retrieved example pack
// (0xinfinitykernel-telepresence's go.mod).
package telemetry

import (
	"github.com/sirupsen/logrus"
)

// Level mirrors the teacher's LevelDebug..LevelSuccess ladder, minus the
// game-specific "Success" tier, expressed as logrus levels instead of a
// hand-rolled ANSI color table.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Fields is a structured key/value attachment for one event, analogous to
// logrus.Fields.
type Fields map[string]interface{}

// Event is one structured log line: a level, a component tag (e.g. "sender",
// "receiver", "congestion"), a message, and arbitrary fields.
type Event struct {
	Level     Level
	Component string
	Message   string
	Fields    Fields
}

// Sink is the interface the transport engines depend on. Anything that can
// record an Event qualifies; swapping sinks (logrus, a test recorder, /dev/null)
// never touches C3–C7.
type Sink interface {
	Log(Event)
}

// NoopSink discards every event. Useful for benchmark mode (spec.md §6:
// "non-verbose logging") and for tests that don't care about log output.
type NoopSink struct{}

// Log implements Sink.
func (NoopSink) Log(Event) {}

// LogrusSink adapts *logrus.Logger to the Sink interface.
type LogrusSink struct {
	log *logrus.Logger
}

// NewLogrusSink builds a LogrusSink. verbose selects Debug-and-up vs.
// Info-and-up, matching the teacher's SetLevel(LevelDebug/LevelInfo) switch
// and spec.md §6's verbose/non-verbose CLI modes.
func NewLogrusSink(verbose bool) *LogrusSink {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return &LogrusSink{log: l}
}

// Log implements Sink.
func (s *LogrusSink) Log(e Event) {
	entry := s.log.WithField("component", e.Component)
	for k, v := range e.Fields {
		entry = entry.WithField(k, v)
	}
	switch e.Level {
	case LevelDebug:
		entry.Debug(e.Message)
	case LevelWarn:
		entry.Warn(e.Message)
	case LevelError:
		entry.Error(e.Message)
	default:
		entry.Info(e.Message)
	}
}

// helper constructors used pervasively by the engines; kept terse to match
// the teacher's Debug/Info/Warn/Error package-level helpers.

// Debugf logs a debug-level event with a formatted message.
func Debugf(sink Sink, component, format string, args ...interface{}) {
	sink.Log(Event{Level: LevelDebug, Component: component, Message: sprintf(format, args...)})
}

// Infof logs an info-level event with a formatted message.
func Infof(sink Sink, component, format string, args ...interface{}) {
	sink.Log(Event{Level: LevelInfo, Component: component, Message: sprintf(format, args...)})
}

// Warnf logs a warn-level event with a formatted message.
func Warnf(sink Sink, component, format string, args ...interface{}) {
	sink.Log(Event{Level: LevelWarn, Component: component, Message: sprintf(format, args...)})
}

// Errorf logs an error-level event with a formatted message.
func Errorf(sink Sink, component, format string, args ...interface{}) {
	sink.Log(Event{Level: LevelError, Component: component, Message: sprintf(format, args...)})
}
