package mediakit

import (
	"fmt"

	"github.com/google/uuid"
)

// FileStatus is the lifecycle of a video file through a muxing session.
type FileStatus string

const (
	StatusPending    FileStatus = "pending"
	StatusProcessing FileStatus = "processing"
	StatusCompleted  FileStatus = "completed"
	StatusError      FileStatus = "error"
)

// FileKind classifies an external file.
type FileKind string

const (
	FileAudio      FileKind = "audio"
	FileSubtitle   FileKind = "subtitle"
	FileChapter    FileKind = "chapter"
	FileAttachment FileKind = "attachment"
)

// ExternalKinds lists the external file kinds in presentation order.
var ExternalKinds = []FileKind{FileAudio, FileSubtitle, FileChapter, FileAttachment}

// Origin records how an external file entered the session: bulk files are
// index-paired with the video list at scan time, per-file entries are
// explicitly attached to one video and never re-paired automatically.
type Origin string

const (
	OriginBulk    Origin = "bulk"
	OriginPerFile Origin = "per-file"
)

// Placement anchors recognized by the placement ordering engine.
const (
	MuxAfterVideo = "video"
	MuxAfterAudio = "audio"
	MuxAfterEnd   = "end"
)

// NewID generates a kind-prefixed unique identifier.
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

// VideoFile is a primary container being muxed. It owns its Track list
// exclusively; list order is the authoritative stream order unless
// explicitly reordered by the user.
type VideoFile struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Size     int64      `json:"size"`
	Duration string     `json:"duration,omitempty"`
	FPS      float64    `json:"fps,omitempty"`
	Status   FileStatus `json:"status"`
	Tracks   []Track    `json:"tracks"`
}

// Clone returns a deep copy of the video file.
func (v VideoFile) Clone() VideoFile {
	out := v
	out.Tracks = CloneTracks(v.Tracks)
	return out
}

// TrackOverride carries per-internal-track overrides applied when an
// external file's embedded payload is expanded into a job.
type TrackOverride struct {
	Language  *string  `json:"language,omitempty"`
	Delay     *float64 `json:"delay,omitempty"`
	TrackName *string  `json:"trackName,omitempty"`
}

// ExternalFile is a standalone audio/subtitle/chapter/attachment file to be
// injected into one video's output. MatchedVideoID is a weak reference: a
// lookup key only, kept consistent by the matching resolver.
type ExternalFile struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Kind     FileKind `json:"type"`
	Origin   Origin   `json:"source,omitempty"`
	Language string   `json:"language,omitempty"`

	TrackName string  `json:"trackName,omitempty"`
	Delay     float64 `json:"delay,omitempty"`
	Default   *bool   `json:"isDefault,omitempty"`
	Forced    *bool   `json:"isForced,omitempty"`

	// MuxAfter is the placement directive: "video", "audio", "track-N", "end".
	MuxAfter string `json:"muxAfter,omitempty"`

	MatchedVideoID string `json:"matchedVideoId,omitempty"`

	Size     int64  `json:"size,omitempty"`
	Bitrate  int64  `json:"bitrate,omitempty"`
	Duration string `json:"duration,omitempty"`

	// TrackID is the container track id to pull when the file holds a single
	// relevant stream; empty means "first/only stream".
	TrackID string `json:"trackId,omitempty"`

	// Tracks is the embedded payload when the file itself is a container
	// with several internal streams.
	Tracks []Track `json:"tracks,omitempty"`

	// IncludedTrackIDs selects the payload subset actually included. nil
	// means "all payload tracks of the file's kind"; an empty non-nil slice
	// excludes the file from assembly.
	IncludedTrackIDs []string `json:"includedTrackIds,omitempty"`

	// IncludeSubtitles pulls subtitle streams embedded in an audio
	// container along with the audio.
	IncludeSubtitles         *bool    `json:"includeSubtitles,omitempty"`
	IncludedSubtitleTrackIDs []string `json:"includedSubtitleTrackIds,omitempty"`

	// TrackOverrides maps payload track id to per-track overrides.
	TrackOverrides map[string]TrackOverride `json:"trackOverrides,omitempty"`
}

// Clone returns a deep copy of the external file.
func (f ExternalFile) Clone() ExternalFile {
	out := f
	out.Default = cloneBool(f.Default)
	out.Forced = cloneBool(f.Forced)
	out.IncludeSubtitles = cloneBool(f.IncludeSubtitles)
	out.Tracks = CloneTracks(f.Tracks)
	if f.IncludedTrackIDs != nil {
		out.IncludedTrackIDs = append([]string(nil), f.IncludedTrackIDs...)
	}
	if f.IncludedSubtitleTrackIDs != nil {
		out.IncludedSubtitleTrackIDs = append([]string(nil), f.IncludedSubtitleTrackIDs...)
	}
	if f.TrackOverrides != nil {
		overrides := make(map[string]TrackOverride, len(f.TrackOverrides))
		for id, ov := range f.TrackOverrides {
			overrides[id] = TrackOverride{
				Language:  cloneString(ov.Language),
				Delay:     cloneFloat(ov.Delay),
				TrackName: cloneString(ov.TrackName),
			}
		}
		out.TrackOverrides = overrides
	}
	return out
}

// CloneExternals deep-copies an external file slice.
func CloneExternals(files []ExternalFile) []ExternalFile {
	if files == nil {
		return nil
	}
	out := make([]ExternalFile, len(files))
	for i := range files {
		out[i] = files[i].Clone()
	}
	return out
}

// CloneVideos deep-copies a video file slice.
func CloneVideos(videos []VideoFile) []VideoFile {
	if videos == nil {
		return nil
	}
	out := make([]VideoFile, len(videos))
	for i := range videos {
		out[i] = videos[i].Clone()
	}
	return out
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
