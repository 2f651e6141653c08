package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wareg/internal/model"
	"wareg/internal/notify"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CountPolicy decides how the total item count is maintained.
type CountPolicy string

const (
	// CountDerived keeps the total equal to the sum of line quantities.
	CountDerived CountPolicy = "derived"
	// CountLegacy adjusts the total ad hoc: add adds the quantity, remove subtracts one,
	// increase and decrease leave it alone.
	CountLegacy CountPolicy = "legacy"
)

// DuplicatePolicy decides what adding an item already in the cart does.
type DuplicatePolicy string

const (
	// DuplicateAppend adds a new line for every add.
	DuplicateAppend DuplicatePolicy = "append"
	// DuplicateMerge adds the quantity to the first line for the same item.
	DuplicateMerge DuplicatePolicy = "merge"
)

// OrderCreator submits orders to the remote API.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req model.OrderRequest) error
}

// Options configures a Store.
type Options struct {
	SessionID       string
	CountPolicy     CountPolicy
	DuplicatePolicy DuplicatePolicy
}

// Store is a single cart. Every mutation updates lines and total together under one lock.
// Order submissions are serialized so at most one order request per cart is in flight.
type Store struct {
	mu    sync.Mutex
	lines []model.CartLine
	total int

	submitMu sync.Mutex

	opts   Options
	orders OrderCreator
	events notify.Publisher
	logger zerolog.Logger
	now    func() time.Time
}

// NewStore creates an empty cart.
func NewStore(orders OrderCreator, events notify.Publisher, opts Options, logger zerolog.Logger) *Store {
	if opts.CountPolicy == "" {
		opts.CountPolicy = CountDerived
	}
	if opts.DuplicatePolicy == "" {
		opts.DuplicatePolicy = DuplicateAppend
	}
	if events == nil {
		events = notify.Nop
	}

	return &Store{
		opts:   opts,
		orders: orders,
		events: events,
		logger: logger.With().Str("component", "cart").Str("session_id", opts.SessionID).Logger(),
		now:    time.Now,
	}
}

// AddToCart adds item with the given quantity. The quantity is taken as given.
func (s *Store) AddToCart(item model.MenuItem, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addLocked(item, quantity)
}

func (s *Store) addLocked(item model.MenuItem, quantity int) {
	merged := false
	if s.opts.DuplicatePolicy == DuplicateMerge {
		for i := range s.lines {
			if s.lines[i].Product.ID == item.ID {
				s.lines[i].Quantity += quantity
				merged = true
				break
			}
		}
	}
	if !merged {
		s.lines = append(s.lines, model.CartLine{Product: item, Quantity: quantity})
	}

	if s.opts.CountPolicy == CountLegacy {
		s.total += quantity
	} else {
		s.recount()
	}
}

// IncreaseQuantity adds one to every line for menuID. Unknown ids are ignored.
func (s *Store) IncreaseQuantity(menuID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Product.ID == menuID {
			s.lines[i].Quantity++
		}
	}

	if s.opts.CountPolicy == CountDerived {
		s.recount()
	}
}

// DecreaseQuantity subtracts one from every line for menuID whose quantity is above 1.
func (s *Store) DecreaseQuantity(menuID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Product.ID == menuID && s.lines[i].Quantity > 1 {
			s.lines[i].Quantity--
		}
	}

	if s.opts.CountPolicy == CountDerived {
		s.recount()
	}
}

// RemoveFromCart drops every line for menuID.
func (s *Store) RemoveFromCart(menuID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.lines[:0]
	for _, line := range s.lines {
		if line.Product.ID != menuID {
			kept = append(kept, line)
		}
	}
	clear(s.lines[len(kept):])
	s.lines = kept

	if s.opts.CountPolicy == CountLegacy {
		s.total--
	} else {
		s.recount()
	}
}

// AddToCartServer orders one unit of item immediately and, once the order is
// accepted, adds it to the cart. On failure the cart is left unchanged.
func (s *Store) AddToCartServer(ctx context.Context, item model.MenuItem) error {
	s.submitMu.Lock()
	err := s.submit(ctx, item.ID, 1)
	s.submitMu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Int("menu_id", item.ID).Msg("failed to add item to cart")
		s.events.Publish(ctx, notify.Event{
			Kind:      notify.KindItemSubmitFailed,
			SessionID: s.opts.SessionID,
			MenuID:    item.ID,
			Quantity:  1,
			Message:   notify.MsgItemAddFailed,
			Err:       err,
		})
		return fmt.Errorf("failed to add item to cart: %w", err)
	}

	s.AddToCart(item, 1)

	s.events.Publish(ctx, notify.Event{
		Kind:      notify.KindItemSubmitted,
		SessionID: s.opts.SessionID,
		MenuID:    item.ID,
		Quantity:  1,
		Success:   true,
		Message:   notify.MsgItemAdded,
	})

	return nil
}

// Checkout submits every line as its own order, one at a time, and then clears
// the cart whatever the outcome. Cancelling ctx does not stop a running checkout.
func (s *Store) Checkout(ctx context.Context) *model.CheckoutResult {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	lines := make([]model.CartLine, len(s.lines))
	copy(lines, s.lines)
	s.mu.Unlock()

	result := &model.CheckoutResult{
		ID:        uuid.New(),
		SessionID: s.opts.SessionID,
		Lines:     make([]model.LineOutcome, 0, len(lines)),
		StartedAt: s.now(),
	}

	for _, line := range lines {
		outcome := model.LineOutcome{
			MenuID:   line.Product.ID,
			Name:     line.Product.Name,
			Quantity: line.Quantity,
		}

		err := s.submit(ctx, line.Product.ID, line.Quantity)
		event := notify.Event{
			SessionID: s.opts.SessionID,
			MenuID:    line.Product.ID,
			Quantity:  line.Quantity,
		}
		if err != nil {
			s.logger.Error().
				Err(err).
				Int("menu_id", line.Product.ID).
				Int("quantity", line.Quantity).
				Msg("failed to place order")
			outcome.Error = err.Error()
			event.Kind = notify.KindLineFailed
			event.Message = notify.MsgOrderFailed
			event.Err = err
		} else {
			outcome.Succeeded = true
			event.Kind = notify.KindLinePlaced
			event.Success = true
			event.Message = notify.MsgOrderPlaced
		}

		result.Lines = append(result.Lines, outcome)
		s.events.Publish(ctx, event)
	}

	s.mu.Lock()
	s.lines = nil
	s.total = 0
	s.mu.Unlock()

	result.EndedAt = s.now()

	s.logger.Info().
		Str("checkout_id", result.ID.String()).
		Int("lines", len(result.Lines)).
		Int("succeeded", result.Succeeded()).
		Int("failed", result.Failed()).
		Msg("checkout finished")

	s.events.Publish(ctx, notify.Event{
		Kind:      notify.KindCheckoutFinished,
		SessionID: s.opts.SessionID,
		Quantity:  len(result.Lines),
		Success:   result.Failed() == 0,
	})

	return result
}

// Snapshot returns a copy of the cart.
func (s *Store) Snapshot() model.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]model.CartLine, len(s.lines))
	copy(lines, s.lines)

	return model.CartSnapshot{TotalCount: s.total, Lines: lines}
}

func (s *Store) submit(ctx context.Context, menuID, quantity int) error {
	return s.orders.CreateOrder(ctx, model.OrderRequest{
		OrderItems: []model.OrderItemRequest{{MenuID: menuID, Quantity: quantity}},
	})
}

// recount must be called with mu held.
func (s *Store) recount() {
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	s.total = total
}
