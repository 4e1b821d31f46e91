package inspect

import (
	"encoding/json"
	"strconv"
	"strings"

	"batchmux/internal/mediakit"
)

type mkvmergeIdentify struct {
	Container struct {
		Properties struct {
			Duration json.Number `json:"duration"`
		} `json:"properties"`
	} `json:"container"`
	Tracks []mkvmergeTrack `json:"tracks"`
}

type mkvmergeTrack struct {
	ID         json.Number        `json:"id"`
	Type       string             `json:"type"`
	Codec      string             `json:"codec"`
	Properties mkvmergeTrackProps `json:"properties"`
}

type mkvmergeTrackProps struct {
	Language           string      `json:"language"`
	TrackName          string      `json:"track_name"`
	DefaultTrack       *bool       `json:"default_track"`
	ForcedTrack        *bool       `json:"forced_track"`
	BitRate            json.Number `json:"bit_rate"`
	TagBPS             json.Number `json:"tag_bps"`
	AudioBitsPerSample json.Number `json:"audio_bits_per_sample"`
	AudioSamplingFreq  json.Number `json:"audio_sampling_frequency"`
	AudioChannels      json.Number `json:"audio_channels"`
}

// duration is reported in nanoseconds. Some builds emit it as a float; a
// float below 1e9 is taken as seconds already.
func (r mkvmergeIdentify) duration() string {
	raw := strings.TrimSpace(r.Container.Properties.Duration.String())
	if raw == "" {
		return ""
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ""
	}
	seconds := value / 1e9
	if strings.ContainsAny(raw, ".eE") && value <= 1e9 {
		seconds = value
	}
	return formatDuration(seconds)
}

func (r mkvmergeIdentify) tracks() []mediakit.Track {
	var out []mediakit.Track
	for _, t := range r.Tracks {
		kind, ok := mkvmergeKind(t.Type)
		if !ok {
			continue
		}
		track := mediakit.Track{
			ID:          t.ID.String(),
			Kind:        kind,
			Codec:       t.Codec,
			Language:    t.Properties.Language,
			Name:        t.Properties.TrackName,
			Default:     t.Properties.DefaultTrack,
			Forced:      t.Properties.ForcedTrack,
			Disposition: mediakit.DispositionKeep,
		}
		if track.ID == "" {
			track.ID = "0"
		}
		track.Bitrate = t.Properties.bitrate(kind)
		out = append(out, track)
	}
	return out
}

// firstTrackID returns the container id of the first track of a kind, used
// to address the relevant stream of a single-purpose external file.
func (r mkvmergeIdentify) firstTrackID(kind mediakit.TrackKind) string {
	for _, t := range r.Tracks {
		if got, ok := mkvmergeKind(t.Type); ok && got == kind {
			return t.ID.String()
		}
	}
	return ""
}

func (r mkvmergeIdentify) trackIDs(kind mediakit.TrackKind) []string {
	var ids []string
	for _, t := range r.Tracks {
		if got, ok := mkvmergeKind(t.Type); ok && got == kind {
			ids = append(ids, t.ID.String())
		}
	}
	return ids
}

func mkvmergeKind(raw string) (mediakit.TrackKind, bool) {
	switch raw {
	case "video":
		return mediakit.TrackVideo, true
	case "audio":
		return mediakit.TrackAudio, true
	case "subtitles":
		return mediakit.TrackSubtitle, true
	}
	return "", false
}

func (p mkvmergeTrackProps) bitrate(kind mediakit.TrackKind) int64 {
	if v, ok := numberValue(p.BitRate); ok {
		return v
	}
	if v, ok := numberValue(p.TagBPS); ok {
		return v
	}
	if kind != mediakit.TrackAudio {
		return 0
	}
	// Raw PCM estimate from the audio properties; an overestimate for
	// compressed codecs but better than nothing.
	bits, ok := numberValue(p.AudioBitsPerSample)
	if !ok {
		bits = 16
	}
	rate, haveRate := numberValue(p.AudioSamplingFreq)
	channels, haveChannels := numberValue(p.AudioChannels)
	if !haveRate || !haveChannels {
		return 0
	}
	return bits * rate * channels
}

func numberValue(n json.Number) (int64, bool) {
	raw := strings.TrimSpace(n.String())
	if raw == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, true
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return int64(v), true
	}
	return 0, false
}
