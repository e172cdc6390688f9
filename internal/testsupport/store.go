package testsupport

import (
	"context"
	"testing"

	"autosrt/internal/config"
	"autosrt/internal/history"
)

// MustOpenHistory opens the history store at cfg.HistoryPath and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(context.Background(), cfg.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustListRuns returns every recorded run, newest first.
func MustListRuns(t testing.TB, store *history.Store) []*history.Run {
	t.Helper()

	runs, err := store.List(context.Background(), 1000)
	if err != nil {
		t.Fatalf("store.List: %v", err)
	}
	return runs
}
