package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func addAt(t *testing.T, s *Store, query string, at time.Time) {
	t.Helper()
	require.NoError(t, s.Add(Entry{Source: "doc.json", Query: query, Results: 1, ExecutedAt: at}))
}

func TestRecentIsDistinctAndOrdered(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	addAt(t, s, "alpha", base)
	addAt(t, s, "beta", base.Add(time.Second))
	addAt(t, s, "alpha", base.Add(2*time.Second))
	addAt(t, s, "  ", base.Add(3*time.Second))

	got, err := s.Recent(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, got)

	got, err = s.Recent(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, got)
}

func TestSearchByPrefix(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	addAt(t, s, "user.name=bob", base)
	addAt(t, s, "user.*=x", base.Add(time.Second))
	addAt(t, s, "=user", base.Add(2*time.Second))
	addAt(t, s, "100%", base.Add(3*time.Second))

	got, err := s.Search("user.", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"user.*=x", "user.name=bob"}, got)

	got, err = s.Search("100%", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"100%"}, got)

	got, err = s.Search("1_0", 10)
	require.NoError(t, err)
	assert.Empty(t, got, "underscore is not a wildcard")
}

func TestEntriesAndPrune(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, q := range []string{"a", "b", "c"} {
		addAt(t, s, q, base.Add(time.Duration(i)*time.Second))
	}
	require.NoError(t, s.Add(Entry{Source: "other.json", Query: "d", ExecutedAt: base.Add(10 * time.Second)}))

	entries, err := s.Entries("doc.json", 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].Query)
	assert.Equal(t, 1, entries[0].Results)
	assert.True(t, entries[0].ExecutedAt.Equal(base.Add(2*time.Second)))

	require.NoError(t, s.Prune(2))
	got, err := s.Recent(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c"}, got)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Add(Entry{Source: "stdin", Query: "kept"}))
	require.NoError(t, s.Close())

	s, err = NewStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Recent(5)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, got)
}
