package notify

import (
	"context"
	"sync"
	"time"
)

// Kind classifies storefront events.
type Kind string

const (
	KindItemSubmitted    Kind = "cart.item_submitted"
	KindItemSubmitFailed Kind = "cart.item_submit_failed"
	KindLinePlaced       Kind = "checkout.line_placed"
	KindLineFailed       Kind = "checkout.line_failed"
	KindCheckoutFinished Kind = "checkout.finished"
	KindMenusFetchFailed Kind = "catalog.fetch_failed"
)

// User-facing messages.
const (
	MsgItemAdded     = "Item added to cart!"
	MsgItemAddFailed = "Failed to add item to cart."
	MsgOrderPlaced   = "Order placed successfully!"
	MsgOrderFailed   = "Failed to place order."
)

// Event is a single outcome published by the cart or catalogue.
// Message is empty for events that are not shown to the user.
type Event struct {
	Kind      Kind
	SessionID string
	MenuID    int
	Quantity  int
	Success   bool
	Message   string
	Err       error
	At        time.Time
}

// Subscriber receives published events.
type Subscriber interface {
	Notify(ctx context.Context, e Event)
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(ctx context.Context, e Event)

// Notify calls f(ctx, e).
func (f SubscriberFunc) Notify(ctx context.Context, e Event) {
	f(ctx, e)
}

// Publisher is the side of the bus producers depend on.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Bus fans events out to its subscribers synchronously, in subscription order.
type Bus struct {
	mu   sync.RWMutex
	subs []Subscriber
}

// NewBus creates a bus with the given initial subscribers.
func NewBus(subs ...Subscriber) *Bus {
	return &Bus{subs: append([]Subscriber(nil), subs...)}
}

// Subscribe adds s to the bus.
func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
}

// Publish delivers e to every subscriber. A zero At is stamped with the current time.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, s := range subs {
		s.Notify(ctx, e)
	}
}

// Nop discards every event.
var Nop Publisher = nopPublisher{}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}
