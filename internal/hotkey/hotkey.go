package hotkey

import "context"

type EventKind int

const (
	EventToggle EventKind = iota
	EventSetLanguage
	EventExit
)

// Event is one user action from the trigger layer.
type Event struct {
	Kind     EventKind
	Language string
}

// Source emits trigger events. The OS global-hotkey hook lives behind this
// interface; the channel closes when the source ends.
type Source interface {
	Events(ctx context.Context) (<-chan Event, error)
}
