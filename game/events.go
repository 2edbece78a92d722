package game

// EventKind identifies a discrete notification emitted by the engine.
type EventKind int

const (
	EventFlip EventKind = iota
	EventConceal
	EventMatch
	EventWin
)

// String returns the protocol string for an EventKind.
func (k EventKind) String() string {
	switch k {
	case EventFlip:
		return "flip"
	case EventConceal:
		return "conceal"
	case EventMatch:
		return "match"
	case EventWin:
		return "win"
	default:
		return "unknown"
	}
}

// Event is a feedback notification for sound or animation. Index is -1 for EventWin.
type Event struct {
	Kind   EventKind
	Index  int
	Symbol Symbol
}

// Notifier receives engine notifications synchronously on the caller's goroutine.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(Event)

// Notify calls f(e).
func (f NotifierFunc) Notify(e Event) {
	f(e)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}
