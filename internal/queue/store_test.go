package queue

import (
	"context"
	"path/filepath"
	"testing"

	"batchmux/internal/mediakit"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenPath(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func job(videoID, path string) mediakit.JobRequest {
	return mediakit.JobRequest{
		ID:    "job-" + videoID,
		Video: mediakit.VideoFile{ID: videoID, Path: path, Name: filepath.Base(path)},
	}
}

func TestEnqueueAndFetch(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	item, err := store.Enqueue(ctx, job("v1", "/media/Ep01.mkv"), "/out/Ep01.mkv")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if item.Status != StatusQueued || item.JobID != "job-v1" {
		t.Fatalf("unexpected row: %+v", item)
	}
	req, err := item.Request()
	if err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if req.Video.Path != "/media/Ep01.mkv" {
		t.Fatalf("request snapshot wrong: %+v", req)
	}
}

func TestEnqueueResetsExistingRow(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.Enqueue(ctx, job("v1", "/media/Ep01.mkv"), "/out/Ep01.mkv"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := store.Finish(ctx, "job-v1", StatusError, 0, "boom", nil); err != nil {
		t.Fatalf("finish: %v", err)
	}

	item, err := store.Enqueue(ctx, job("v1", "/media/Ep01.mkv"), "/out/Ep01.mkv")
	if err != nil {
		t.Fatalf("re-enqueue: %v", err)
	}
	if item.Status != StatusQueued || item.Message != "" || item.ProgressPercent != 0 {
		t.Fatalf("row not reset: %+v", item)
	}
}

func TestLifecycleUpdates(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.Enqueue(ctx, job("v1", "/media/Ep01.mkv"), "/out/Ep01.mkv"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := store.SetStatus(ctx, "job-v1", StatusProcessing, ""); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if err := store.SetProgress(ctx, "job-v1", 42.5); err != nil {
		t.Fatalf("set progress: %v", err)
	}
	if err := store.Finish(ctx, "job-v1", StatusCompleted, 123456, "", []string{"missing chapter file"}); err != nil {
		t.Fatalf("finish: %v", err)
	}

	item, err := store.GetByJobID(ctx, "job-v1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if item.Status != StatusCompleted || item.OutputSize != 123456 || item.ProgressPercent != 100 {
		t.Fatalf("final row wrong: %+v", item)
	}
	if len(item.Warnings) != 1 || item.Warnings[0] != "missing chapter file" {
		t.Fatalf("warnings lost: %+v", item.Warnings)
	}
}

func TestStopActive(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for i, id := range []string{"v1", "v2", "v3"} {
		if _, err := store.Enqueue(ctx, job(id, "/media/"+id+".mkv"), ""); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if err := store.SetStatus(ctx, "job-v1", StatusProcessing, ""); err != nil {
		t.Fatal(err)
	}
	if err := store.Finish(ctx, "job-v2", StatusCompleted, 0, "", nil); err != nil {
		t.Fatal(err)
	}

	stopped, err := store.StopActive(ctx)
	if err != nil {
		t.Fatalf("stop active: %v", err)
	}
	if stopped != 2 {
		t.Fatalf("stopped = %d, want 2 (completed row untouched)", stopped)
	}
	items, err := store.List(ctx, StatusStopped)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("stopped rows = %d", len(items))
	}
}

func TestListFilterAndHealth(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, id := range []string{"v1", "v2"} {
		if _, err := store.Enqueue(ctx, job(id, "/media/"+id+".mkv"), ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Finish(ctx, "job-v2", StatusError, 0, "mkvmerge exited 2", nil); err != nil {
		t.Fatal(err)
	}

	queued, err := store.List(ctx, StatusQueued)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(queued) != 1 || queued[0].JobID != "job-v1" {
		t.Fatalf("filtered list wrong: %+v", queued)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if health.Total != 2 || health.Queued != 1 || health.Errored != 1 {
		t.Fatalf("health wrong: %+v", health)
	}
}

func TestClearCompleted(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, id := range []string{"v1", "v2"} {
		if _, err := store.Enqueue(ctx, job(id, "/media/"+id+".mkv"), ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Finish(ctx, "job-v1", StatusCompleted, 1, "", nil); err != nil {
		t.Fatal(err)
	}
	removed, err := store.ClearCompleted(ctx)
	if err != nil {
		t.Fatalf("clear completed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d", removed)
	}
	if item, err := store.GetByJobID(ctx, "job-v2"); err != nil || item == nil {
		t.Fatalf("unfinished row should survive: %v %v", item, err)
	}
}
