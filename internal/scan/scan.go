// Package scan discovers candidate media files under a directory with
// extension filtering.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"batchmux/internal/services"
)

// Request describes one directory scan.
type Request struct {
	Folder     string
	Recursive  bool
	Extensions []string
}

// Files walks the request folder and returns the matching file paths in
// deterministic (sorted) order. An empty extension list, or one containing
// "all", matches every file. Unreadable subdirectories are skipped rather
// than failing the whole scan.
func Files(req Request) ([]string, error) {
	folder := strings.TrimSpace(req.Folder)
	if folder == "" {
		return nil, services.Wrap(services.ErrValidation, "scan", "files", "empty folder", nil)
	}
	info, err := os.Stat(folder)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "scan", "files", folder, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "scan", "files", folder+" is not a directory", nil)
	}

	allowed := normalizeExtensions(req.Extensions)
	var results []string
	walkErr := filepath.WalkDir(folder, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == folder {
				return err
			}
			return nil
		}
		if entry.IsDir() {
			if !req.Recursive && path != folder {
				return fs.SkipDir
			}
			return nil
		}
		if includeFile(path, allowed) {
			results = append(results, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, services.Wrap(services.ErrExternalTool, "scan", "files", folder, walkErr)
	}
	sort.Strings(results)
	return results, nil
}

func normalizeExtensions(extensions []string) []string {
	var out []string
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

func includeFile(path string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, ext := range allowed {
		if ext == "all" {
			return true
		}
	}
	got := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if got == "" {
		return false
	}
	for _, ext := range allowed {
		if ext == got {
			return true
		}
	}
	return false
}
