package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a registry file does not exist.
var ErrNotFound = errors.New("band registry not found")

// Store persists a whole registry at once.
type Store interface {
	// Save replaces the stored registry with bands.
	Save(bands map[string]BandSet) error

	// Load returns every stored entry. A missing registry yields ErrNotFound.
	Load() (map[string]BandSet, error)

	// Path returns the file backing the store.
	Path() string
}

// Open returns the store for path: SQLite for .db, .sqlite and .sqlite3
// files, JSON for everything else.
func Open(path string) (Store, error) {
	if path == "" {
		return nil, errors.New("registry path is empty")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteStore(path), nil
	default:
		return NewJSONStore(path), nil
	}
}

// Flush writes the registry to s.
func Flush(r *Registry, s Store) error {
	if err := s.Save(r.Snapshot()); err != nil {
		return fmt.Errorf("flush registry to %s: %w", s.Path(), err)
	}
	return nil
}

// LoadRegistry reads the registry stored in s.
func LoadRegistry(s Store) (*Registry, error) {
	bands, err := s.Load()
	if err != nil {
		return nil, err
	}
	return FromMap(bands), nil
}
