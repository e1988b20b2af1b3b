package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_PicksStoreByExtension(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"bands.json", "*registry.JSONStore"},
		{"out/bands", "*registry.JSONStore"},
		{"bands.db", "*registry.SQLiteStore"},
		{"bands.SQLITE", "*registry.SQLiteStore"},
		{"bands.sqlite3", "*registry.SQLiteStore"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			s, err := Open(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, typeName(s))
			assert.Equal(t, tt.path, s.Path())
		})
	}

	_, err := Open("")
	assert.Error(t, err)
}

func typeName(s Store) string {
	switch s.(type) {
	case *JSONStore:
		return "*registry.JSONStore"
	case *SQLiteStore:
		return "*registry.SQLiteStore"
	}
	return "unknown"
}

// storeRoundTrip exercises a store through Flush and LoadRegistry.
func storeRoundTrip(t *testing.T, s Store) {
	t.Helper()

	r := New()
	r.Put("aligned_page1.png", BandSet{Vertical: []int{12, 70, 128, 186, 244, 310}, Horizontal: []int{0, 55, 90, 140, 175, 799}})
	r.Put("aligned_page2.png", BandSet{Vertical: []int{8, 40}, Horizontal: []int{0, 799}})
	require.NoError(t, Flush(r, s))

	loaded, err := LoadRegistry(s)
	require.NoError(t, err)
	if diff := cmp.Diff(r.Snapshot(), loaded.Snapshot()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// A second flush replaces the whole registry.
	r2 := New()
	r2.Put("aligned_page3.png", BandSet{Vertical: []int{0, 10}, Horizontal: []int{0, 20}})
	require.NoError(t, Flush(r2, s))

	loaded, err = LoadRegistry(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"aligned_page3.png"}, loaded.IDs())
}

func TestJSONStore_RoundTrip(t *testing.T) {
	storeRoundTrip(t, NewJSONStore(filepath.Join(t.TempDir(), "bands.json")))
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	storeRoundTrip(t, NewSQLiteStore(filepath.Join(t.TempDir(), "bands.db")))
}

func TestStores_NotFound(t *testing.T) {
	dir := t.TempDir()
	for _, s := range []Store{
		NewJSONStore(filepath.Join(dir, "missing.json")),
		NewSQLiteStore(filepath.Join(dir, "missing.db")),
	} {
		_, err := s.Load()
		assert.ErrorIs(t, err, ErrNotFound, s.Path())
		_, err = LoadRegistry(s)
		assert.ErrorIs(t, err, ErrNotFound, s.Path())
	}

	_, err := os.Stat(filepath.Join(dir, "missing.db"))
	assert.True(t, os.IsNotExist(err), "Load must not create the database")
}

func TestJSONStore_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bands.json")
	s := NewJSONStore(path)
	require.NoError(t, s.Save(map[string]BandSet{
		"aligned_a.png": {Vertical: []int{1, 2}, Horizontal: []int{0, 3}},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := `{
    "aligned_a.png": {
        "vertical": [
            1,
            2
        ],
        "horizontal": [
            0,
            3
        ]
    }
}
`
	assert.Equal(t, want, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file %s left behind", e.Name())
	}
}

func TestJSONStore_EmptyAndNull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bands.json")
	s := NewJSONStore(path)

	require.NoError(t, s.Save(nil))
	r, err := LoadRegistry(s)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())

	require.NoError(t, os.WriteFile(path, []byte("null"), 0644))
	r, err = LoadRegistry(s)
	require.NoError(t, err)
	r.Put("a", BandSet{Vertical: []int{0, 1}, Horizontal: []int{0, 1}})
	assert.Equal(t, 1, r.Len())
}

func TestJSONStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bands.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewJSONStore(path).Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
