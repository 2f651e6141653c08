package service

import (
	"context"
	"fmt"

	"wareg/internal/catalog"
	"wareg/internal/metrics"
	"wareg/internal/model"

	"github.com/rs/zerolog"
)

// menuService reads menus from the remote API and optionally from a snapshot
// when the remote call fails.
type menuService struct {
	remote   catalog.MenuSource
	snapshot catalog.MenuSource
	logger   zerolog.Logger
}

// NewMenuService creates a menu source. snapshot may be nil.
func NewMenuService(remote, snapshot catalog.MenuSource, logger zerolog.Logger) catalog.MenuSource {
	return &menuService{
		remote:   remote,
		snapshot: snapshot,
		logger:   logger.With().Str("service", "menu").Logger(),
	}
}

// ListMenus returns the remote catalogue, or the snapshot if the remote fails.
func (s *menuService) ListMenus(ctx context.Context) ([]model.MenuItem, error) {
	menus, err := s.remote.ListMenus(ctx)
	if err == nil {
		return menus, nil
	}

	if s.snapshot == nil {
		return nil, err
	}

	s.logger.Warn().Err(err).Msg("menu API failed, falling back to snapshot")

	fallback, snapErr := s.snapshot.ListMenus(ctx)
	if snapErr != nil {
		s.logger.Error().Err(snapErr).Msg("failed to load menu snapshot")
		return nil, fmt.Errorf("%w (snapshot: %v)", err, snapErr)
	}

	metrics.SnapshotFallbacksTotal.Inc()
	s.logger.Info().Int("count", len(fallback)).Msg("menus loaded from snapshot")

	return fallback, nil
}
