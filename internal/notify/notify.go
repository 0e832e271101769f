// Package notify delivers survey notifications to the log and to live subscribers.
package notify

import (
	"log"
	"sync"

	"github.com/jonathan/feedback-survey/internal/survey"
)

// LogNotifier writes every notification to the standard logger.
type LogNotifier struct {
	// Prefix identifies the source, e.g. a session id.
	Prefix string
}

// Notify implements survey.Notifier.
func (l LogNotifier) Notify(n survey.Notification) {
	log.Printf("[notify] %s [%s] %s: %s", l.Prefix, n.Kind, n.Title, n.Message)
}

// Multi fans a notification out to several notifiers in order.
type Multi []survey.Notifier

// Notify implements survey.Notifier.
func (m Multi) Notify(n survey.Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}

// subscriberBuffer is the number of undelivered notifications kept per subscriber.
const subscriberBuffer = 8

// Hub routes notifications to subscribers keyed by session id. Delivery never
// blocks: a subscriber whose buffer is full misses the notification.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[chan survey.Notification]struct{}
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan survey.Notification]struct{})}
}

// Subscribe registers a listener for key. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(key string) (<-chan survey.Notification, func()) {
	ch := make(chan survey.Notification, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	if h.subs[key] == nil {
		h.subs[key] = make(map[chan survey.Notification]struct{})
	}
	h.subs[key][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[key][ch]; ok {
				delete(h.subs[key], ch)
				if len(h.subs[key]) == 0 {
					delete(h.subs, key)
				}
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Publish delivers n to every subscriber of key.
func (h *Hub) Publish(key string, n survey.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[key] {
		select {
		case ch <- n:
		default:
			log.Printf("[notify] Dropping notification for slow subscriber of %s", key)
		}
	}
}

// Subscribers returns the number of listeners for key.
func (h *Hub) Subscribers(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[key])
}

// CloseKey disconnects every subscriber of key.
func (h *Hub) CloseKey(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[key] {
		close(ch)
	}
	delete(h.subs, key)
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for key, chans := range h.subs {
		for ch := range chans {
			close(ch)
		}
		delete(h.subs, key)
	}
	h.closed = true
}

// For returns a notifier that publishes to the subscribers of key.
func (h *Hub) For(key string) survey.Notifier {
	return survey.NotifierFunc(func(n survey.Notification) {
		h.Publish(key, n)
	})
}
