package snapshot

import (
	"context"
	"fmt"
	"os"

	"wareg/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader reads snapshots from the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based snapshot loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "snapshot-loader").Logger(),
	}
}

// Load reads a gzipped snapshot file.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("file", filePath).Msg("loading menu snapshot")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open snapshot file")
		return nil, fmt.Errorf("failed to open snapshot file %s: %w", filePath, err)
	}
	defer file.Close()

	menus, err := Decode(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read snapshot file")
		return nil, fmt.Errorf("failed to read snapshot file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("menus_loaded", len(menus)).
		Msg("menu snapshot loaded successfully")

	return menus, nil
}
