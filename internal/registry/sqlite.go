package registry

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const bandsSchema = `
CREATE TABLE IF NOT EXISTS bands (
	image_id   TEXT PRIMARY KEY,
	vertical   TEXT NOT NULL,
	horizontal TEXT NOT NULL
);
`

// SQLiteStore keeps the registry in a SQLite database, one row per image.
// Boundary lists are stored as JSON arrays.
type SQLiteStore struct {
	path string
}

// NewSQLiteStore returns a store backed by the database file at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Path implements Store.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(bandsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bands table: %w", err)
	}
	return db, nil
}

// Save implements Store. Existing rows are replaced inside one transaction.
func (s *SQLiteStore) Save(bands map[string]BandSet) (err error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM bands`); err != nil {
		return fmt.Errorf("clear bands: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO bands (image_id, vertical, horizontal) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for id, b := range bands {
		vertical, err := json.Marshal(nonNil(b.Vertical))
		if err != nil {
			return fmt.Errorf("encode %s: %w", id, err)
		}
		horizontal, err := json.Marshal(nonNil(b.Horizontal))
		if err != nil {
			return fmt.Errorf("encode %s: %w", id, err)
		}
		if _, err = stmt.Exec(id, string(vertical), string(horizontal)); err != nil {
			return fmt.Errorf("insert %s: %w", id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bands: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load() (map[string]BandSet, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT image_id, vertical, horizontal FROM bands`)
	if err != nil {
		return nil, fmt.Errorf("query bands: %w", err)
	}
	defer rows.Close()

	bands := make(map[string]BandSet)
	for rows.Next() {
		var id, vertical, horizontal string
		if err := rows.Scan(&id, &vertical, &horizontal); err != nil {
			return nil, fmt.Errorf("scan bands: %w", err)
		}
		var b BandSet
		if err := json.Unmarshal([]byte(vertical), &b.Vertical); err != nil {
			return nil, fmt.Errorf("decode vertical bands of %s: %w", id, err)
		}
		if err := json.Unmarshal([]byte(horizontal), &b.Horizontal); err != nil {
			return nil, fmt.Errorf("decode horizontal bands of %s: %w", id, err)
		}
		bands[id] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read bands: %w", err)
	}
	return bands, nil
}

func nonNil(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}
