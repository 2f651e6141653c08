package snapshot

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"wareg/internal/model"
)

// Loader reads a menu snapshot.
type Loader interface {
	// Load reads a gzipped JSON snapshot and returns its menus.
	Load(ctx context.Context, path string) ([]model.MenuItem, error)
}

// Decode reads a gzipped {"menus": [...]} document.
func Decode(r io.Reader) ([]model.MenuItem, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	var payload model.MenusResponse
	if err := json.NewDecoder(gzipReader).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode menu snapshot: %w", err)
	}

	if payload.Menus == nil {
		payload.Menus = []model.MenuItem{}
	}

	return payload.Menus, nil
}

// Encode writes menus as a gzipped {"menus": [...]} document.
func Encode(w io.Writer, menus []model.MenuItem) error {
	gzipWriter := gzip.NewWriter(w)

	if err := json.NewEncoder(gzipWriter).Encode(model.MenusResponse{Menus: menus}); err != nil {
		_ = gzipWriter.Close()
		return fmt.Errorf("failed to encode menu snapshot: %w", err)
	}

	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush menu snapshot: %w", err)
	}

	return nil
}

// Source serves a snapshot as a menu catalogue.
type Source struct {
	loader Loader
	path   string
}

// NewSource creates a Source reading path through loader.
func NewSource(loader Loader, path string) *Source {
	return &Source{loader: loader, path: path}
}

// ListMenus loads the snapshot.
func (s *Source) ListMenus(ctx context.Context) ([]model.MenuItem, error) {
	return s.loader.Load(ctx, s.path)
}
