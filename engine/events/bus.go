package events

import "sync"

// Listener receives published events.
type Listener func(GameEvent)

// Handle identifies a subscription. Handles are never reused by a bus.
type Handle uint64

type subscription struct {
	handle   Handle
	listener Listener
	filtered bool
	only     Type
}

// Bus is a synchronous fan-out event bus. Listeners run on the publishing
// goroutine in subscription order. The zero value is ready to use.
type Bus struct {
	mu         sync.Mutex
	subs       []subscription
	nextHandle Handle
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a listener for every event.
func (b *Bus) Subscribe(l Listener) Handle {
	return b.add(subscription{listener: l})
}

// SubscribeType registers a listener for events of a single type.
func (b *Bus) SubscribeType(t Type, l Listener) Handle {
	return b.add(subscription{listener: l, filtered: true, only: t})
}

func (b *Bus) add(s subscription) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextHandle++
	s.handle = b.nextHandle
	b.subs = append(b.subs, s)
	return s.handle
}

// Unsubscribe removes a subscription. Unknown handles are ignored.
func (b *Bus) Unsubscribe(h Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.handle == h {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers ev to every matching listener before returning.
// A publish from inside a listener is delivered completely before the
// outer publish continues. Publishing on a nil bus does nothing.
func (b *Bus) Publish(ev GameEvent) {
	if b == nil {
		return
	}
	b.mu.Lock()
	matched := make([]Listener, 0, len(b.subs))
	for _, s := range b.subs {
		if s.filtered && s.only != ev.Type {
			continue
		}
		matched = append(matched, s.listener)
	}
	b.mu.Unlock()

	for _, l := range matched {
		l(ev)
	}
}

// PublishData builds and publishes an event.
func (b *Bus) PublishData(t Type, d Data) {
	b.Publish(GameEvent{Type: t, Data: d})
}

// Clear removes every subscription. Handles keep increasing afterwards.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = nil
}

// Len reports the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
