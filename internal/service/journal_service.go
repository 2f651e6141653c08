package service

import (
	"context"
	"fmt"

	"wareg/internal/model"
	"wareg/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// journalService implements JournalService on a CheckoutRepository.
type journalService struct {
	repo   repository.CheckoutRepository
	logger zerolog.Logger
}

// NewJournalService creates a new journal service.
func NewJournalService(repo repository.CheckoutRepository, logger zerolog.Logger) JournalService {
	return &journalService{
		repo:   repo,
		logger: logger.With().Str("service", "journal").Logger(),
	}
}

// Record stores the checkout and its lines in one transaction.
func (s *journalService) Record(ctx context.Context, result *model.CheckoutResult) error {
	if result == nil {
		return fmt.Errorf("checkout result is nil")
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to record checkout: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	record := &model.CheckoutRecord{
		ID:        result.ID,
		SessionID: result.SessionID,
		StartedAt: result.StartedAt,
		EndedAt:   result.EndedAt,
	}

	if err = s.repo.CreateCheckout(ctx, tx, record); err != nil {
		return fmt.Errorf("failed to record checkout: %w", err)
	}

	lines := make([]model.CheckoutLineRecord, len(result.Lines))
	for i, outcome := range result.Lines {
		lines[i] = model.CheckoutLineRecord{
			ID:         uuid.New(),
			CheckoutID: result.ID,
			Position:   i,
			MenuID:     outcome.MenuID,
			Name:       outcome.Name,
			Quantity:   outcome.Quantity,
			Succeeded:  outcome.Succeeded,
		}
		if outcome.Error != "" {
			msg := outcome.Error
			lines[i].Error = &msg
		}
	}

	if err = s.repo.CreateCheckoutLines(ctx, tx, lines); err != nil {
		return fmt.Errorf("failed to record checkout lines: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("checkout_id", result.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to record checkout: %w", err)
	}

	s.logger.Info().
		Str("checkout_id", result.ID.String()).
		Int("line_count", len(lines)).
		Msg("checkout recorded")

	return nil
}

// GetByID retrieves a recorded checkout with its lines.
func (s *journalService) GetByID(ctx context.Context, id uuid.UUID) (*model.CheckoutResponse, error) {
	record, lines, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("checkout_id", id.String()).Msg("failed to get checkout")
		return nil, fmt.Errorf("failed to get checkout: %w", err)
	}

	if record == nil {
		return nil, nil
	}

	return &model.CheckoutResponse{CheckoutRecord: *record, Lines: lines}, nil
}

type disabledJournal struct{}

// NewDisabledJournal returns a journal that records nothing.
func NewDisabledJournal() JournalService {
	return disabledJournal{}
}

func (disabledJournal) Record(context.Context, *model.CheckoutResult) error {
	return nil
}

func (disabledJournal) GetByID(context.Context, uuid.UUID) (*model.CheckoutResponse, error) {
	return nil, model.ErrJournalDisabled
}
