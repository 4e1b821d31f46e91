package muxer

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"batchmux/internal/mediakit"
	"batchmux/internal/services"
	"batchmux/internal/textutil"
)

// OutputPlan describes where a job writes and where the result ends up.
// When overwriting the source, mkvmerge writes to a temp name next to the
// final path so the original stays intact until the mux succeeds.
type OutputPlan struct {
	OutputPath string
	FinalPath  string
	Overwrite  bool
}

// PlanOutput computes a job's output locations. Jobs that neither overwrite
// the source nor name a destination directory have nowhere to write and are
// rejected.
func PlanOutput(job mediakit.JobRequest, s Settings, now time.Time) (OutputPlan, error) {
	name := filepath.Base(job.Video.Path)
	if s.AddCRC || s.RemoveOldCRC {
		name = textutil.StripCRCSuffix(name)
	}

	dir := s.DestinationDir
	if dir == "" {
		if !s.OverwriteSource {
			return OutputPlan{}, services.Wrap(services.ErrValidation, "muxer", "plan output",
				"destination directory required when not overwriting the source", nil)
		}
		dir = filepath.Dir(job.Video.Path)
	}

	final := filepath.Join(dir, name)
	plan := OutputPlan{OutputPath: final, FinalPath: final, Overwrite: s.OverwriteSource}
	if s.OverwriteSource {
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		plan.OutputPath = filepath.Join(dir, fmt.Sprintf("%s#%d%s", stem, now.Unix(), ext))
	}
	return plan, nil
}

// finalize moves the muxed output into place: removes the overwritten
// source, renames the temp file, and applies the CRC tag when requested.
// It returns the path the result lives at afterwards.
func finalize(job mediakit.JobRequest, plan OutputPlan, s Settings) (string, error) {
	final := plan.FinalPath
	if plan.Overwrite {
		if plan.OutputPath != job.Video.Path {
			if err := os.Remove(job.Video.Path); err != nil && !os.IsNotExist(err) {
				return "", services.Wrap(services.ErrExternalTool, "muxer", "remove source", job.Video.Path, err)
			}
		}
		if plan.OutputPath != final {
			if err := os.Rename(plan.OutputPath, final); err != nil {
				return "", services.Wrap(services.ErrExternalTool, "muxer", "rename output", plan.OutputPath, err)
			}
		}
	}

	if s.AddCRC {
		crc, err := ComputeCRC(final)
		if err != nil {
			return "", err
		}
		tagged := textutil.WithCRCSuffix(final, crc)
		if err := os.Rename(final, tagged); err != nil {
			return "", services.Wrap(services.ErrExternalTool, "muxer", "apply crc tag", final, err)
		}
		final = tagged
	}
	return final, nil
}

// ComputeCRC returns the uppercase hex IEEE CRC-32 of a file's contents.
func ComputeCRC(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "muxer", "compute crc", path, err)
	}
	defer file.Close()

	hash := crc32.NewIEEE()
	if _, err := io.Copy(hash, file); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "muxer", "compute crc", path, err)
	}
	return fmt.Sprintf("%08X", hash.Sum32()), nil
}
