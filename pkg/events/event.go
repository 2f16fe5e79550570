// ABOUTME: Event is the tagged union carried from the workers to the dispatcher.
// ABOUTME: Either an Input carrying a decoded key, or a payload-free Tick.

package events

// Kind discriminates the Event variants.
type Kind uint8

const (
	KindInput Kind = iota + 1
	KindTick
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindTick:
		return "tick"
	default:
		return "unknown"
	}
}

// Event is an immutable value; the zero Event has no valid kind.
type Event[T any] struct {
	kind Kind
	key  T
}

// Input wraps a decoded key.
func Input[T any](k T) Event[T] {
	return Event[T]{kind: KindInput, key: k}
}

// Tick returns the heartbeat event.
func Tick[T any]() Event[T] {
	return Event[T]{kind: KindTick}
}

// Kind reports which variant e holds.
func (e Event[T]) Kind() Kind { return e.kind }

// IsTick reports whether e is a Tick.
func (e Event[T]) IsTick() bool { return e.kind == KindTick }

// Key returns the key of an Input event. ok is false for Tick.
func (e Event[T]) Key() (k T, ok bool) {
	if e.kind != KindInput {
		return k, false
	}
	return e.key, true
}
