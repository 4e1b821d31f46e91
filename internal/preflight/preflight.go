package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"batchmux/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// Passed reports whether every required check succeeded. Optional failures
// do not count against readiness.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return false
		}
	}
	return true
}

// RunAll executes every applicable check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Paths.DestinationDir != "" {
		results = append(results,
			CheckDirectoryAccess("Destination directory", cfg.Paths.DestinationDir),
			CheckFreeSpace("Destination free space", cfg.Paths.DestinationDir))
	}

	results = append(results, CheckBinary(ctx, "mkvmerge", cfg.Tools.Mkvmerge, false))
	results = append(results, CheckBinary(ctx, "mediainfo", cfg.Tools.Mediainfo, true))
	if cfg.Mux.UseMkvpropedit {
		results = append(results, CheckBinary(ctx, "mkvpropedit", cfg.Tools.Mkvpropedit, false))
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is readable
// and writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckBinary verifies that a tool resolves on PATH and answers --version.
func CheckBinary(ctx context.Context, name, binary string, optional bool) Result {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = name
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return Result{Name: name, Optional: optional, Detail: fmt.Sprintf("%s not found on PATH", binary)}
	}
	out, err := exec.CommandContext(ctx, resolved, "--version").Output()
	if err != nil {
		return Result{Name: name, Optional: optional, Detail: fmt.Sprintf("%s (error: %v)", resolved, err)}
	}
	version := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	if version == "" {
		version = resolved
	}
	return Result{Name: name, Passed: true, Optional: optional, Detail: version}
}

// minFreeBytes is the floor below which a destination is considered too
// full to mux into safely.
const minFreeBytes = 1 << 30

var statfs = realStatfs

// FreeSpace reports the available bytes on the filesystem holding path.
func FreeSpace(path string) (uint64, error) {
	return statfs(path)
}

// CheckFreeSpace verifies the filesystem holding path has workable
// headroom for output files.
func CheckFreeSpace(name, path string) Result {
	free, err := statfs(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	detail := fmt.Sprintf("%s (%.1f GiB free)", path, float64(free)/(1<<30))
	if free < minFreeBytes {
		return Result{Name: name, Detail: detail + " below 1 GiB floor"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

func realStatfs(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
