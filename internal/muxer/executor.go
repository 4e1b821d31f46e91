package muxer

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"batchmux/internal/mediakit"
	"batchmux/internal/preflight"
	"batchmux/internal/queue"
	"batchmux/internal/services"
)

// commandContext builds tool invocations; tests swap it out.
var commandContext = exec.CommandContext

// pausePollInterval is how often paused workers check for resume or stop.
const pausePollInterval = 200 * time.Millisecond

// Event reports one job's progress to an observer.
type Event struct {
	JobID    string
	Status   queue.Status
	Progress float64
	Message  string
}

// JobResult is the terminal outcome of one job in a run.
type JobResult struct {
	JobID      string
	Status     queue.Status
	OutputPath string
	OutputSize int64
	Warnings   []string
	Err        error
}

// Executor runs assembled jobs through a bounded worker pool. Pause stalls
// workers before they pick up the next job, Stop kills running tools and
// drains the queue.
type Executor struct {
	settings Settings
	store    *queue.Store
	logger   *slog.Logger

	// OnEvent, when set, receives status and progress updates. Called from
	// worker goroutines.
	OnEvent func(Event)

	paused  atomic.Bool
	stopped atomic.Bool
	cancel  context.CancelFunc
}

// NewExecutor wires an executor to its ledger store.
func NewExecutor(s Settings, store *queue.Store, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{settings: s.normalized(), store: store, logger: logger}
}

// Pause stalls the pool after in-flight jobs finish.
func (e *Executor) Pause() { e.paused.Store(true) }

// Resume lifts a pause.
func (e *Executor) Resume() { e.paused.Store(false) }

// Paused reports whether the pool is currently stalled.
func (e *Executor) Paused() bool { return e.paused.Load() }

// Stop aborts the run: queued jobs are abandoned and running tools killed.
func (e *Executor) Stop() {
	e.stopped.Store(true)
	if e.cancel != nil {
		e.cancel()
	}
}

// Run executes the given jobs and blocks until all finish, the run is
// stopped, or ctx is cancelled. Per-job failures are recorded on their
// ledger rows; only setup problems return an error.
func (e *Executor) Run(ctx context.Context, jobs []mediakit.JobRequest) ([]JobResult, error) {
	if len(jobs) == 0 {
		return nil, nil
	}
	if e.settings.DestinationDir == "" && !e.settings.OverwriteSource {
		return nil, services.Wrap(services.ErrConfiguration, "muxer", "run",
			"destination directory required when not overwriting the source", nil)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.cancel = cancel
	e.stopped.Store(false)

	for _, job := range jobs {
		plan, err := PlanOutput(job, e.settings, time.Now())
		if err != nil {
			return nil, err
		}
		if _, err := e.store.Enqueue(runCtx, job, plan.FinalPath); err != nil {
			return nil, err
		}
	}

	pending := make(chan mediakit.JobRequest)
	results := make([]JobResult, 0, len(jobs))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < e.settings.MaxParallelJobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range pending {
				if err := e.waitWhilePaused(runCtx); err != nil {
					e.markStopped(job.ID)
					mu.Lock()
					results = append(results, JobResult{JobID: job.ID, Status: queue.StatusStopped})
					mu.Unlock()
					continue
				}
				result := e.runJob(runCtx, job)
				mu.Lock()
				results = append(results, result)
				mu.Unlock()
				if result.Status == queue.StatusError && e.settings.AbortOnErrors {
					e.logger.Warn("pausing run after job error", "job_id", job.ID)
					e.Pause()
				}
			}
		}()
	}

	for _, job := range jobs {
		pending <- job
	}
	close(pending)
	wg.Wait()
	return results, nil
}

func (e *Executor) waitWhilePaused(ctx context.Context) error {
	for {
		if e.stopped.Load() {
			return context.Canceled
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !e.paused.Load() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pausePollInterval):
		}
	}
}

func (e *Executor) runJob(ctx context.Context, job mediakit.JobRequest) JobResult {
	result := JobResult{JobID: job.ID}

	fail := func(err error) JobResult {
		result.Status = queue.StatusError
		result.Err = err
		e.logger.Error("job failed", "job_id", job.ID, "error", err)
		_ = e.store.Finish(ctx, job.ID, queue.StatusError, 0, err.Error(), result.Warnings)
		e.emit(Event{JobID: job.ID, Status: queue.StatusError, Message: err.Error()})
		return result
	}

	plan, err := PlanOutput(job, e.settings, time.Now())
	if err != nil {
		return fail(err)
	}
	result.OutputPath = plan.FinalPath

	if err := e.checkFreeSpace(job, plan); err != nil {
		return fail(err)
	}

	_ = e.store.SetStatus(ctx, job.ID, queue.StatusProcessing, "")
	e.emit(Event{JobID: job.ID, Status: queue.StatusProcessing})
	e.logger.Info("job started", "job_id", job.ID, "video", job.Video.Path, "output", plan.OutputPath)

	var log bytes.Buffer
	fastPath := false
	if CanUseFastPath(job, e.settings) {
		if args := BuildPropeditArgs(job); args != nil {
			fastPath = true
			if err := e.runTool(ctx, job.ID, e.settings.MkvpropeditBinary, args, &log); err != nil {
				return fail(err)
			}
			plan = OutputPlan{OutputPath: job.Video.Path, FinalPath: job.Video.Path}
			result.OutputPath = job.Video.Path
		}
	}
	if !fastPath {
		args := BuildCommand(job, plan.OutputPath, e.settings)
		err := e.runTool(ctx, job.ID, e.settings.MkvmergeBinary, args, &log)
		if err != nil {
			// Exit status 1 with a produced output file means mkvmerge
			// finished with warnings only.
			if !exitedWithWarnings(err, plan.OutputPath) {
				if e.stopped.Load() {
					e.markStopped(job.ID)
					result.Status = queue.StatusStopped
					return result
				}
				return fail(err)
			}
			result.Warnings = append(result.Warnings, "tool reported warnings, output was still written")
		}
	}

	final, err := finalize(job, plan, e.settings)
	if err != nil {
		return fail(err)
	}
	result.OutputPath = final
	if info, err := os.Stat(final); err == nil {
		result.OutputSize = info.Size()
	}

	if e.settings.KeepLogFile {
		e.writeLog(final, log.Bytes())
	}

	result.Status = queue.StatusCompleted
	_ = e.store.Finish(ctx, job.ID, queue.StatusCompleted, result.OutputSize, "", result.Warnings)
	e.emit(Event{JobID: job.ID, Status: queue.StatusCompleted, Progress: 100})
	e.logger.Info("job completed", "job_id", job.ID, "output", final, "size", result.OutputSize)
	return result
}

// runTool executes one external tool, streaming progress lines into the
// ledger and mirroring all output into log.
func (e *Executor) runTool(ctx context.Context, jobID, binary string, args []string, log *bytes.Buffer) error {
	cmd := commandContext(ctx, binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "muxer", binary, "open stdout", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrExternalTool, "muxer", binary, "start", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		log.WriteString(line)
		log.WriteByte('\n')
		if percent, ok := parseProgress(line); ok {
			_ = e.store.SetProgress(ctx, jobID, percent)
			e.emit(Event{JobID: jobID, Status: queue.StatusProcessing, Progress: percent})
		}
	}

	waitErr := cmd.Wait()
	log.Write(stderr.Bytes())
	if waitErr != nil {
		return services.Wrap(services.ErrExternalTool, "muxer", binary, lastLogLine(log), waitErr)
	}
	return nil
}

func (e *Executor) checkFreeSpace(job mediakit.JobRequest, plan OutputPlan) error {
	if job.Video.Size <= 0 {
		return nil
	}
	free, err := preflight.FreeSpace(filepath.Dir(plan.OutputPath))
	if err != nil {
		return nil
	}
	if free < uint64(job.Video.Size) {
		return services.Wrap(services.ErrValidation, "muxer", "free space",
			fmt.Sprintf("need %d bytes, %d available at %s", job.Video.Size, free, filepath.Dir(plan.OutputPath)), nil)
	}
	return nil
}

func (e *Executor) markStopped(jobID string) {
	_ = e.store.SetStatus(context.Background(), jobID, queue.StatusStopped, "")
	e.emit(Event{JobID: jobID, Status: queue.StatusStopped})
}

func (e *Executor) writeLog(outputPath string, contents []byte) {
	logPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".log"
	if err := os.WriteFile(logPath, contents, 0o644); err != nil {
		e.logger.Warn("keep log file failed", "path", logPath, "error", err)
	}
}

func (e *Executor) emit(event Event) {
	if e.OnEvent != nil {
		e.OnEvent(event)
	}
}

// exitedWithWarnings reports the mkvmerge warning convention: exit status 1
// while the output file exists.
func exitedWithWarnings(err error, outputPath string) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	if exitErr.ExitCode() != 1 {
		return false
	}
	_, statErr := os.Stat(outputPath)
	return statErr == nil
}

// parseProgress extracts a percentage from a tool output line: the digits
// immediately preceding a '%' sign.
func parseProgress(line string) (float64, bool) {
	idx := strings.IndexByte(line, '%')
	if idx <= 0 {
		return 0, false
	}
	start := idx
	for start > 0 && line[start-1] >= '0' && line[start-1] <= '9' {
		start--
	}
	if start == idx {
		return 0, false
	}
	value, err := strconv.ParseFloat(line[start:idx], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func lastLogLine(log *bytes.Buffer) string {
	lines := strings.Split(strings.TrimSpace(log.String()), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
