package testsupport

import (
	"context"
	"testing"

	"batchmux/internal/config"
	"batchmux/internal/mediakit"
	"batchmux/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// EnqueueJob inserts a ledger row for tests using the provided store.
func EnqueueJob(t testing.TB, store *queue.Store, job mediakit.JobRequest, outputPath string) *queue.Item {
	t.Helper()

	item, err := store.Enqueue(context.Background(), job, outputPath)
	if err != nil {
		t.Fatalf("store.Enqueue: %v", err)
	}
	return item
}
