package testsupport

import (
	"context"
	"testing"
	"time"

	"recut/internal/catalog"
	"recut/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRecording inserts a catalog recording for tests using the provided
// store and returns the stored row.
func NewRecording(t testing.TB, store *catalog.Store, rec *catalog.Recording, marks []catalog.CutMark) *catalog.Recording {
	t.Helper()

	if rec.StartTime.IsZero() {
		rec.StartTime = time.Date(2013, 2, 4, 20, 0, 0, 0, time.UTC)
	}
	stored, err := store.Add(context.Background(), rec, marks, nil)
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return stored
}
