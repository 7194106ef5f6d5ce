// pattern: Imperative Shell

package events

import "sync"

// Broker fans out "layout changed" signals to subscribers (SSE handlers,
// websocket streams). Signals carry no payload; subscribers re-read the
// current tree, so coalescing under load is safe.
type Broker struct {
	mu          sync.Mutex
	subscribers map[chan struct{}]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[chan struct{}]struct{}),
	}
}

// Subscribe returns a buffered channel that receives a signal on each Notify
// call. The caller must call Unsubscribe when done.
func (b *Broker) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel and closes it.
func (b *Broker) Unsubscribe(ch chan struct{}) {
	b.mu.Lock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Notify signals all subscribers. Non-blocking: if a subscriber has not
// consumed the previous signal the new one is coalesced into it.
func (b *Broker) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
