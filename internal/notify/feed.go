package notify

import (
	"context"
	"sync"
	"time"
)

// Notification is a user-facing message waiting to be shown.
type Notification struct {
	Message string    `json:"message"`
	Success bool      `json:"success"`
	At      time.Time `json:"at"`
}

// Feed queues user-facing notifications for one session until they are drained.
// When full, the oldest notification is dropped.
type Feed struct {
	mu    sync.Mutex
	items []Notification
	limit int
}

// NewFeed creates a feed holding at most capacity notifications.
func NewFeed(capacity int) *Feed {
	if capacity < 1 {
		capacity = 1
	}
	return &Feed{limit: capacity}
}

// Notify implements Subscriber. Events without a message are ignored.
func (f *Feed) Notify(_ context.Context, e Event) {
	if e.Message == "" {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, Notification{Message: e.Message, Success: e.Success, At: e.At})
	if over := len(f.items) - f.limit; over > 0 {
		f.items = append([]Notification(nil), f.items[over:]...)
	}
}

// Drain returns the pending notifications oldest first and empties the feed.
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.items
	f.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

// Len returns the number of pending notifications.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
