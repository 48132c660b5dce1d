package telemetry

// TransportEventType enumerates the lifecycle events the sender/receiver
// engines raise, adapted from the teacher's core/events EventManager
// (Register/Trigger over a map[EventType][]EventHandler) but scoped to
// transport happenings instead of game happenings.
type TransportEventType int

const (
	EventHandshakeCompleted TransportEventType = iota
	EventHandshakeRejected
	EventFastRetransmit
	EventTimeoutRecovery
	EventWindowClosed
	EventFramingError
)

// TransportEvent is one occurrence of a TransportEventType with whatever
// context the caller wants attached.
type TransportEvent struct {
	Type   TransportEventType
	SeqNum uint32
	Detail string
}

// TransportEventHandler reacts to a TransportEvent.
type TransportEventHandler func(TransportEvent)

// EventBus fans a TransportEvent out to every handler registered for its
// type. The zero value is ready to use.
type EventBus struct {
	handlers map[TransportEventType][]TransportEventHandler
}

// On registers handler for events of type t.
func (b *EventBus) On(t TransportEventType, handler TransportEventHandler) {
	if b.handlers == nil {
		b.handlers = make(map[TransportEventType][]TransportEventHandler)
	}
	b.handlers[t] = append(b.handlers[t], handler)
}

// Emit synchronously invokes every handler registered for ev.Type. A nil
// EventBus (no handlers ever registered) is a safe no-op.
func (b *EventBus) Emit(ev TransportEvent) {
	if b == nil {
		return
	}
	for _, h := range b.handlers[ev.Type] {
		h(ev)
	}
}
