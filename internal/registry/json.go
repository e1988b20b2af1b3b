package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// JSONStore keeps the registry in a JSON document:
//
//	{"aligned_page1.png": {"vertical": [...], "horizontal": [...]}, ...}
type JSONStore struct {
	path string
}

// NewJSONStore returns a store backed by the JSON file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path implements Store.
func (s *JSONStore) Path() string { return s.path }

// Save implements Store. The document is written to a temporary file in the
// same directory, synced and renamed over the target, so readers see either
// the old or the new registry.
func (s *JSONStore) Save(bands map[string]BandSet) error {
	if bands == nil {
		bands = map[string]BandSet{}
	}
	data, err := json.MarshalIndent(bands, "", "    ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write registry: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close registry: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod registry: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace registry: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *JSONStore) Load() (map[string]BandSet, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	bands := make(map[string]BandSet)
	if err := json.Unmarshal(data, &bands); err != nil {
		return nil, fmt.Errorf("decode registry %s: %w", s.path, err)
	}
	return bands, nil
}
