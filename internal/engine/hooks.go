package engine

import "sync"

// MoveRecord describes one element's share of an authored move so the
// animation system can reconcile keyframe data with it. From is always
// the identity and To the translation actually applied.
type MoveRecord struct {
	ElementID string
	From      Matrix2D
	To        Matrix2D
}

// AnimationSink receives move records after a movement pass. The engine
// only emits records for elements that participate in the animation
// system.
type AnimationSink interface {
	RecordMoves(records []MoveRecord)
}

// EventElementsMoved is published after every movement pass that touched
// at least one element. There is no payload contract: subscribers
// (snap guides, overlays) re-read the current snapshot.
const EventElementsMoved = "elements.moved"

// Bus is a minimal named-event dispatcher for lifecycle notifications.
type Bus struct {
	mu       sync.Mutex
	handlers map[string][]func()
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]func())}
}

// Subscribe registers a handler for a named event.
func (b *Bus) Subscribe(event string, fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], fn)
}

// Publish invokes every handler registered for the event, in
// subscription order.
func (b *Bus) Publish(event string) {
	b.mu.Lock()
	hs := append([]func(){}, b.handlers[event]...)
	b.mu.Unlock()
	for _, fn := range hs {
		fn()
	}
}
