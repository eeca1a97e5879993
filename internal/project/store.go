package project

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dropforge/launchpad/internal/infra/filesystem"
	"github.com/dropforge/launchpad/internal/infra/filesystem/json"
	"github.com/dropforge/launchpad/internal/logger"
)

const collectionFileName = "collection.json"

var (
	ErrNotFound = errors.New("collection not found")
	ErrStoreIO  = errors.New("collection store i/o error")
)

// Store is the durable slot for one collection, keyed by symbol. It performs no
// locking: one process per collection at a time is assumed.
type Store struct {
	path   string
	reader filesystem.Reader
	writer filesystem.Writer
	logger *slog.Logger
}

// NewStore returns the store for a symbol under the collections directory.
func NewStore(collectionsDir, symbol string) *Store {
	return &Store{
		path:   CollectionPath(collectionsDir, symbol),
		reader: json.NewReader(),
		writer: json.NewWriter(),
		logger: logger.Named("project_store").With("symbol", symbol),
	}
}

// CollectionPath is the well-known location of a collection file.
func CollectionPath(collectionsDir, symbol string) string {
	return filepath.Join(collectionsDir, strings.ToLower(symbol), collectionFileName)
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Exists() bool {
	return s.reader.Exists(s.path)
}

// Read loads the collection, returning ErrNotFound when it was never written.
func (s *Store) Read() (*CollectionConfig, error) {
	var cfg CollectionConfig
	if err := s.reader.ReadJSON(s.path, &cfg); err != nil {
		if errors.Is(err, filesystem.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreIO, err)
	}

	return &cfg, nil
}

// Write replaces the collection file atomically.
func (s *Store) Write(cfg *CollectionConfig) error {
	if err := s.writer.WriteJSON(s.path, cfg); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", ErrStoreIO, s.path, err)
	}

	s.logger.With("path", s.path).Debug("collection saved")
	return nil
}

// List returns the symbols of every collection under the directory.
func List(collectionsDir string) ([]string, error) {
	entries, err := os.ReadDir(collectionsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreIO, err)
	}

	reader := json.NewReader()
	var symbols []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if reader.Exists(filepath.Join(collectionsDir, entry.Name(), collectionFileName)) {
			symbols = append(symbols, entry.Name())
		}
	}
	slices.Sort(symbols)

	return symbols, nil
}
