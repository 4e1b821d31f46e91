package mediakit

// TrackKind classifies an internal stream of a container.
type TrackKind string

const (
	TrackVideo    TrackKind = "video"
	TrackAudio    TrackKind = "audio"
	TrackSubtitle TrackKind = "subtitle"
	TrackChapter  TrackKind = "chapter"
)

// Disposition states what happens to a track at assembly time.
type Disposition string

const (
	DispositionKeep   Disposition = "keep"
	DispositionModify Disposition = "modify"
	DispositionRemove Disposition = "remove"
)

// TrackSnapshot is the immutable original-value record captured the first
// time a track is edited. It is the reference point for all future diffing
// and is never overwritten afterwards.
type TrackSnapshot struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Default  *bool  `json:"isDefault,omitempty"`
	Forced   *bool  `json:"isForced,omitempty"`
}

// Track describes one internal stream belonging to exactly one container.
// ID is the container-level track identifier (stable within its file).
type Track struct {
	ID          string      `json:"id"`
	Kind        TrackKind   `json:"type"`
	Codec       string      `json:"codec,omitempty"`
	Language    string      `json:"language,omitempty"`
	Name        string      `json:"name,omitempty"`
	Default     *bool       `json:"isDefault,omitempty"`
	Forced      *bool       `json:"isForced,omitempty"`
	Bitrate     int64       `json:"bitrate,omitempty"`
	Delay       float64     `json:"delay,omitempty"`
	Disposition Disposition `json:"action,omitempty"`

	// Original is captured lazily by EnsureSnapshot and immutable afterwards.
	Original *TrackSnapshot `json:"original,omitempty"`
}

// EnsureSnapshot captures the true-original values on first edit. Repeated
// calls are no-ops, guaranteeing later edits keep diffing against the
// pristine input rather than the previous edit.
func (t *Track) EnsureSnapshot() {
	if t.Original != nil {
		return
	}
	t.Original = &TrackSnapshot{
		Name:     t.Name,
		Language: t.Language,
		Default:  cloneBool(t.Default),
		Forced:   cloneBool(t.Forced),
	}
}

// Clone returns a deep copy of the track.
func (t Track) Clone() Track {
	out := t
	out.Default = cloneBool(t.Default)
	out.Forced = cloneBool(t.Forced)
	if t.Original != nil {
		snap := TrackSnapshot{
			Name:     t.Original.Name,
			Language: t.Original.Language,
			Default:  cloneBool(t.Original.Default),
			Forced:   cloneBool(t.Original.Forced),
		}
		out.Original = &snap
	}
	return out
}

// CloneTracks deep-copies a track slice.
func CloneTracks(tracks []Track) []Track {
	if tracks == nil {
		return nil
	}
	out := make([]Track, len(tracks))
	for i := range tracks {
		out[i] = tracks[i].Clone()
	}
	return out
}

// BoolEqual compares two tri-state flags, treating nil as its own state.
func BoolEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// BoolValue flattens a tri-state flag to a plain bool, nil reading as false.
func BoolValue(v *bool) bool {
	return v != nil && *v
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
