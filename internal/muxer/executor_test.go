package muxer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"batchmux/internal/mediakit"
	"batchmux/internal/queue"
	"batchmux/internal/services"
)

func testExecutor(t *testing.T, s Settings) (*Executor, *queue.Store) {
	t.Helper()
	store, err := queue.OpenPath(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewExecutor(s, store, logger), store
}

// fakeTool replaces the tool launcher with a shell script. The script sees
// the planned output path in MUX_OUTPUT.
func fakeTool(t *testing.T, script string) {
	t.Helper()
	orig := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		output := ""
		for i, arg := range args {
			if arg == "--output" && i+1 < len(args) {
				output = args[i+1]
			}
		}
		cmd := exec.CommandContext(ctx, "sh", "-c", script)
		cmd.Env = append(os.Environ(), "MUX_OUTPUT="+output)
		return cmd
	}
	t.Cleanup(func() { commandContext = orig })
}

func sourceJob(t *testing.T, dir string) mediakit.JobRequest {
	t.Helper()
	path := filepath.Join(dir, "Ep01.mkv")
	if err := os.WriteFile(path, []byte("source"), 0o644); err != nil {
		t.Fatal(err)
	}
	return mediakit.JobRequest{
		ID:    "job-v1",
		Video: mediakit.VideoFile{ID: "v1", Name: "Ep01.mkv", Path: path, Size: 6},
	}
}

func TestRunCompletesJob(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	job := sourceJob(t, inDir)
	fakeTool(t, `echo "Progress: 50%"; echo "Progress: 100%"; printf muxed > "$MUX_OUTPUT"`)

	executor, store := testExecutor(t, Settings{DestinationDir: outDir, MaxParallelJobs: 2})
	results, err := executor.Run(context.Background(), []mediakit.JobRequest{job})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 1 || results[0].Status != queue.StatusCompleted {
		t.Fatalf("results = %+v", results)
	}
	if results[0].OutputPath != filepath.Join(outDir, "Ep01.mkv") {
		t.Fatalf("output path = %s", results[0].OutputPath)
	}
	if results[0].OutputSize != int64(len("muxed")) {
		t.Fatalf("output size = %d", results[0].OutputSize)
	}

	item, err := store.GetByJobID(context.Background(), "job-v1")
	if err != nil || item == nil {
		t.Fatalf("ledger row: %v %v", item, err)
	}
	if item.Status != queue.StatusCompleted || item.ProgressPercent != 100 {
		t.Fatalf("ledger row wrong: %+v", item)
	}
}

func TestRunOverwritesSource(t *testing.T) {
	inDir := t.TempDir()
	job := sourceJob(t, inDir)
	fakeTool(t, `printf muxed > "$MUX_OUTPUT"`)

	executor, _ := testExecutor(t, Settings{OverwriteSource: true})
	results, err := executor.Run(context.Background(), []mediakit.JobRequest{job})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if results[0].Status != queue.StatusCompleted {
		t.Fatalf("result = %+v", results[0])
	}

	data, err := os.ReadFile(job.Video.Path)
	if err != nil {
		t.Fatalf("read final: %v", err)
	}
	if string(data) != "muxed" {
		t.Fatalf("final content = %q", data)
	}
	matches, _ := filepath.Glob(filepath.Join(inDir, "*#*"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

func TestRunTreatsExitOneWithOutputAsWarning(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	job := sourceJob(t, inDir)
	fakeTool(t, `printf muxed > "$MUX_OUTPUT"; echo "Warning: something minor"; exit 1`)

	executor, _ := testExecutor(t, Settings{DestinationDir: outDir})
	results, err := executor.Run(context.Background(), []mediakit.JobRequest{job})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if results[0].Status != queue.StatusCompleted {
		t.Fatalf("warning exit should still complete: %+v", results[0])
	}
	if len(results[0].Warnings) != 1 {
		t.Fatalf("warnings = %q", results[0].Warnings)
	}
}

func TestRunFailureAbortsWhenConfigured(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	job := sourceJob(t, inDir)
	fakeTool(t, `echo "Error: container unreadable"; exit 2`)

	executor, store := testExecutor(t, Settings{DestinationDir: outDir, AbortOnErrors: true})
	results, err := executor.Run(context.Background(), []mediakit.JobRequest{job})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if results[0].Status != queue.StatusError || results[0].Err == nil {
		t.Fatalf("result = %+v", results[0])
	}
	if !executor.Paused() {
		t.Fatal("abort-on-errors should pause the pool")
	}

	item, err := store.GetByJobID(context.Background(), "job-v1")
	if err != nil || item == nil {
		t.Fatalf("ledger row: %v %v", item, err)
	}
	if item.Status != queue.StatusError {
		t.Fatalf("ledger status = %s", item.Status)
	}
}

func TestRunKeepsLogFile(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	job := sourceJob(t, inDir)
	fakeTool(t, `echo "Progress: 100%"; printf muxed > "$MUX_OUTPUT"`)

	executor, _ := testExecutor(t, Settings{DestinationDir: outDir, KeepLogFile: true})
	if _, err := executor.Run(context.Background(), []mediakit.JobRequest{job}); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "Ep01.log"))
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("log file empty")
	}
}

func TestRunRequiresSomewhereToWrite(t *testing.T) {
	executor, _ := testExecutor(t, Settings{})
	_, err := executor.Run(context.Background(), []mediakit.JobRequest{{ID: "job-v1"}})
	if !services.IsFatal(err) {
		t.Fatalf("want configuration error, got %v", err)
	}
}

func TestParseProgress(t *testing.T) {
	cases := []struct {
		line string
		want float64
		ok   bool
	}{
		{"Progress: 42%", 42, true},
		{"#GUI#progress 7%", 7, true},
		{"Progress: 100%", 100, true},
		{"Muxing took 3 seconds", 0, false},
		{"%", 0, false},
		{"abc%", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseProgress(tc.line)
		if ok != tc.ok || got != tc.want {
			t.Errorf("parseProgress(%q) = %v %v, want %v %v", tc.line, got, ok, tc.want, tc.ok)
		}
	}
}
