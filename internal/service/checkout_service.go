package service

import (
	"context"

	"wareg/internal/model"

	"github.com/rs/zerolog"
)

type checkoutService struct {
	journal JournalService
	logger  zerolog.Logger
}

// NewCheckoutService creates a checkout service that journals every result.
func NewCheckoutService(journal JournalService, logger zerolog.Logger) CheckoutService {
	if journal == nil {
		journal = NewDisabledJournal()
	}
	return &checkoutService{
		journal: journal,
		logger:  logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout runs the cart checkout. A journal failure is logged and does not
// affect the returned result.
func (s *checkoutService) Checkout(ctx context.Context, cart CartCheckout) *model.CheckoutResult {
	ctx = context.WithoutCancel(ctx)

	result := cart.Checkout(ctx)

	if err := s.journal.Record(ctx, result); err != nil {
		s.logger.Error().
			Err(err).
			Str("checkout_id", result.ID.String()).
			Msg("failed to journal checkout")
	}

	return result
}
