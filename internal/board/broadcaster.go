package board

import "sync"

const subscriberBuffer = 256

// broadcaster fans notifications out to subscribers. Each subscriber gets a
// buffered channel; a full subscriber misses notifications rather than
// stalling the controller.
type broadcaster struct {
	mu          sync.RWMutex
	subscribers []chan Notification
	closed      bool
}

func (b *broadcaster) subscribe() <-chan Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Notification, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// unsubscribe removes ch and closes it. Unknown channels are ignored.
func (b *broadcaster) unsubscribe(ch <-chan Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

func (b *broadcaster) broadcast(n Notification) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- n:
		default:
		}
	}
}

func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
