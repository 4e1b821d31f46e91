package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"batchmux/internal/mediakit"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// Bool returns a pointer to the given flag value.
func Bool(v bool) *bool { return &v }

// Video builds a minimal video entity for tests.
func Video(id, name string, tracks ...mediakit.Track) mediakit.VideoFile {
	return mediakit.VideoFile{
		ID:     id,
		Name:   name,
		Path:   "/media/" + name,
		Status: mediakit.StatusPending,
		Tracks: tracks,
	}
}

// External builds a minimal external file entity for tests.
func External(id, name string, kind mediakit.FileKind) mediakit.ExternalFile {
	return mediakit.ExternalFile{
		ID:   id,
		Name: name,
		Path: "/media/" + name,
		Kind: kind,
	}
}
