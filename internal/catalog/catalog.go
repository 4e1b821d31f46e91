// Package catalog holds the in-memory session state: the video list and
// every external file staged against it. All mutation flows through the
// store, which re-runs the matching resolver after any structural change so
// matchedVideoId references never dangle.
package catalog

import (
	"sync"

	"batchmux/internal/match"
	"batchmux/internal/mediakit"
)

// Store is the entity store. Reads hand out deep copies; callers edit a
// copy and write it back through an update method, never through a held
// reference.
type Store struct {
	mu        sync.Mutex
	videos    []mediakit.VideoFile
	externals []mediakit.ExternalFile
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Videos returns a deep copy of the video list in display order.
func (s *Store) Videos() []mediakit.VideoFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mediakit.CloneVideos(s.videos)
}

// Externals returns a deep copy of every external file.
func (s *Store) Externals() []mediakit.ExternalFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mediakit.CloneExternals(s.externals)
}

// ExternalsOfKind returns a deep copy of the external files of one kind,
// preserving insertion order.
func (s *Store) ExternalsOfKind(kind mediakit.FileKind) []mediakit.ExternalFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []mediakit.ExternalFile
	for _, f := range s.externals {
		if f.Kind == kind {
			out = append(out, f.Clone())
		}
	}
	return out
}

// MatchedExternals returns the external files of one kind currently paired
// with the given video.
func (s *Store) MatchedExternals(videoID string, kind mediakit.FileKind) []mediakit.ExternalFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []mediakit.ExternalFile
	for _, f := range s.externals {
		if f.Kind == kind && f.MatchedVideoID == videoID {
			out = append(out, f.Clone())
		}
	}
	return out
}

// Unmatched returns the external files with no video pairing.
func (s *Store) Unmatched() []mediakit.ExternalFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []mediakit.ExternalFile
	for _, f := range s.externals {
		if f.MatchedVideoID == "" {
			out = append(out, f.Clone())
		}
	}
	return out
}

// SetVideos replaces the video list and re-resolves every pairing.
func (s *Store) SetVideos(videos []mediakit.VideoFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos = mediakit.CloneVideos(videos)
	s.resolveLocked()
}

// AddVideos appends videos and re-resolves.
func (s *Store) AddVideos(videos ...mediakit.VideoFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos = append(s.videos, mediakit.CloneVideos(videos)...)
	s.resolveLocked()
}

// RemoveVideo drops a video by id and re-resolves. Externals that pointed
// at it are re-matched or left unmatched.
func (s *Store) RemoveVideo(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.videos {
		if s.videos[i].ID == id {
			s.videos = append(s.videos[:i], s.videos[i+1:]...)
			s.resolveLocked()
			return true
		}
	}
	return false
}

// UpdateVideo applies fn to a copy of the named video and stores the
// result. Returns false when the video no longer exists. Name changes
// trigger re-resolution because pairing scores depend on names.
func (s *Store) UpdateVideo(id string, fn func(*mediakit.VideoFile)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.videos {
		if s.videos[i].ID != id {
			continue
		}
		updated := s.videos[i].Clone()
		fn(&updated)
		renamed := updated.Name != s.videos[i].Name
		s.videos[i] = updated
		if renamed {
			s.resolveLocked()
		}
		return true
	}
	return false
}

// SetExternals replaces the full external list and re-resolves.
func (s *Store) SetExternals(files []mediakit.ExternalFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.externals = mediakit.CloneExternals(files)
	s.resolveLocked()
}

// AddExternals appends external files and re-resolves.
func (s *Store) AddExternals(files ...mediakit.ExternalFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.externals = append(s.externals, mediakit.CloneExternals(files)...)
	s.resolveLocked()
}

// RemoveExternal drops an external file by id.
func (s *Store) RemoveExternal(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.externals {
		if s.externals[i].ID == id {
			s.externals = append(s.externals[:i], s.externals[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateExternal applies fn to a copy of the named external file and stores
// the result, then re-resolves so an explicit pairing edit takes effect.
func (s *Store) UpdateExternal(id string, fn func(*mediakit.ExternalFile)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.externals {
		if s.externals[i].ID != id {
			continue
		}
		updated := s.externals[i].Clone()
		fn(&updated)
		s.externals[i] = updated
		s.resolveLocked()
		return true
	}
	return false
}

// Attach explicitly pairs an external file with a video and marks it
// per-file origin so later resolver passes keep the pairing.
func (s *Store) Attach(externalID, videoID string) bool {
	return s.UpdateExternal(externalID, func(f *mediakit.ExternalFile) {
		f.MatchedVideoID = videoID
		f.Origin = mediakit.OriginPerFile
	})
}

// Resolve forces a full matching pass, useful after bulk imports assembled
// outside the store's mutation methods.
func (s *Store) Resolve() match.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveLocked()
}

func (s *Store) resolveLocked() match.Result {
	res := match.Resolve(s.videos, s.externals)
	s.externals = match.Apply(s.externals, res)
	return res
}
