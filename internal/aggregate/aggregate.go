package aggregate

import (
	"batchmux/internal/language"
	"batchmux/internal/mediakit"
)

// Row is the consensus view of the track at one kind/position across every
// contributing video.
type Row struct {
	Kind     mediakit.TrackKind `json:"type"`
	Position int                `json:"position"`

	// Name holds the shared track name. When contributing tracks disagree,
	// NameDivergent is set and Name is empty; a divergent row written back
	// leaves per-file names untouched.
	Name          string `json:"name"`
	NameDivergent bool   `json:"nameDivergent,omitempty"`

	Language string `json:"language"`

	// Copy is true while every contributing track is still included.
	Copy bool `json:"copyTrack"`

	// Default and Forced collapse to true only when every contributing
	// track carries an explicit true. Unset flags read as false so an
	// undeclared flag is never silently promoted.
	Default bool `json:"setDefault"`
	Forced  bool `json:"setForced"`

	// Bitrate comes from a representative track, preferring one that
	// actually reports a bitrate.
	Bitrate int64 `json:"bitrate,omitempty"`

	Contributors int `json:"contributors"`
}

// TracksOfKind returns the video's tracks of one kind in list order.
func TracksOfKind(video mediakit.VideoFile, kind mediakit.TrackKind) []mediakit.Track {
	var out []mediakit.Track
	for _, t := range video.Tracks {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// MaxPosition returns the largest per-kind track count across the videos,
// which is the number of aggregate rows worth rendering.
func MaxPosition(videos []mediakit.VideoFile, kind mediakit.TrackKind) int {
	max := 0
	for _, v := range videos {
		if n := len(TracksOfKind(v, kind)); n > max {
			max = n
		}
	}
	return max
}

// Build computes the consensus row for one kind/position. ok is false when
// no video contributes a track at that position; such rows are not shown.
func Build(videos []mediakit.VideoFile, kind mediakit.TrackKind, position int) (Row, bool) {
	var contributing []mediakit.Track
	for _, v := range videos {
		tracks := TracksOfKind(v, kind)
		if position < len(tracks) {
			contributing = append(contributing, tracks[position])
		}
	}
	if len(contributing) == 0 {
		return Row{}, false
	}

	row := Row{
		Kind:         kind,
		Position:     position,
		Copy:         true,
		Default:      true,
		Forced:       true,
		Contributors: len(contributing),
	}

	row.Name = contributing[0].Name
	row.Language = contributing[0].Language
	for _, t := range contributing {
		if t.Name != row.Name {
			row.Name = ""
			row.NameDivergent = true
		}
		if !language.Equal(t.Language, row.Language) {
			row.Language = language.Und
		}
		if t.Disposition == mediakit.DispositionRemove {
			row.Copy = false
		}
		if t.Default == nil || !*t.Default {
			row.Default = false
		}
		if t.Forced == nil || !*t.Forced {
			row.Forced = false
		}
	}
	if row.NameDivergent {
		row.Name = ""
	}

	for _, t := range contributing {
		if t.Bitrate > 0 {
			row.Bitrate = t.Bitrate
			break
		}
	}
	return row, true
}

// Rows builds every renderable consensus row for a kind.
func Rows(videos []mediakit.VideoFile, kind mediakit.TrackKind) []Row {
	var rows []Row
	for pos := 0; pos < MaxPosition(videos, kind); pos++ {
		if row, ok := Build(videos, kind, pos); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// Apply writes an edited consensus row back into every video that has a
// track at the row's kind/position and returns the updated list. Videos
// lacking a track there are passed through untouched; nothing is
// all-or-nothing about the write. The input list is not mutated.
func Apply(videos []mediakit.VideoFile, row Row) []mediakit.VideoFile {
	out := mediakit.CloneVideos(videos)
	for i := range out {
		idx := trackIndexAt(out[i], row.Kind, row.Position)
		if idx < 0 {
			continue
		}
		applyRow(&out[i].Tracks[idx], row)
	}
	return out
}

// ApplyToVideo writes an edited row into a single video, the per-file
// editing path. Disposition and diff rules match the aggregate path.
func ApplyToVideo(video mediakit.VideoFile, row Row) mediakit.VideoFile {
	out := video.Clone()
	if idx := trackIndexAt(out, row.Kind, row.Position); idx >= 0 {
		applyRow(&out.Tracks[idx], row)
	}
	return out
}

func trackIndexAt(video mediakit.VideoFile, kind mediakit.TrackKind, position int) int {
	seen := 0
	for i, t := range video.Tracks {
		if t.Kind != kind {
			continue
		}
		if seen == position {
			return i
		}
		seen++
	}
	return -1
}

func applyRow(track *mediakit.Track, row Row) {
	track.EnsureSnapshot()

	if !row.Copy {
		// Excluded tracks get explicit false flags so downstream command
		// construction never re-enables them from stale container state.
		track.Default = explicit(false)
		track.Forced = explicit(false)
		track.Disposition = mediakit.DispositionRemove
		return
	}

	if !row.NameDivergent {
		track.Name = row.Name
	}
	if row.Language != "" {
		track.Language = row.Language
	}
	track.Default = reconcileFlag(track.Default, track.Original.Default, row.Default)
	track.Forced = reconcileFlag(track.Forced, track.Original.Forced, row.Forced)

	track.Disposition = mediakit.DispositionKeep
	if diffsFromOriginal(*track) {
		track.Disposition = mediakit.DispositionModify
	}
}

// reconcileFlag applies a consensus flag value without fabricating an
// explicit false on a track whose original never declared the flag.
func reconcileFlag(current, original *bool, want bool) *bool {
	if original == nil && !want {
		return nil
	}
	if current == nil || *current != want {
		return explicit(want)
	}
	return current
}

func diffsFromOriginal(track mediakit.Track) bool {
	orig := track.Original
	if track.Name != orig.Name {
		return true
	}
	if !language.Equal(track.Language, orig.Language) {
		return true
	}
	if !mediakit.BoolEqual(track.Default, orig.Default) {
		return true
	}
	if !mediakit.BoolEqual(track.Forced, orig.Forced) {
		return true
	}
	return false
}

func explicit(v bool) *bool { return &v }
