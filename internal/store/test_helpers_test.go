package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createSeededStore creates a store loaded with testdata/complexes.yaml.
func createSeededStore(t *testing.T) *Store {
	t.Helper()
	s := createTestStore(t)
	_, err := s.LoadFixtures(context.Background(), filepath.Join("testdata", "complexes.yaml"))
	require.NoError(t, err)
	return s
}
