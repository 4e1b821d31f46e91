package inspect

import (
	"encoding/json"
	"strconv"
	"strings"

	"batchmux/internal/mediakit"
)

type mediainfoReport struct {
	Media struct {
		Track []mediainfoTrack `json:"track"`
	} `json:"media"`
}

// mediainfo emits most values as strings but numbers slip through on some
// builds, so every field goes through the tolerant decoder.
type mediainfoTrack struct {
	Type              flexString `json:"@type"`
	ID                flexString `json:"ID"`
	Duration          flexString `json:"Duration"`
	Format            flexString `json:"Format"`
	Language          flexString `json:"Language"`
	Title             flexString `json:"Title"`
	Default           flexString `json:"Default"`
	Forced            flexString `json:"Forced"`
	BitRate           flexString `json:"BitRate"`
	BitRateMaximum    flexString `json:"BitRate_Maximum"`
	FrameRate         flexString `json:"FrameRate"`
	FrameRateOriginal flexString `json:"FrameRate_Original"`
	FrameRateNominal  flexString `json:"FrameRate_Nominal"`
}

type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(trimmed)
	return nil
}

// duration formats the General track duration as HH:MM:SS. mediainfo
// reports seconds as a decimal string, with HH:MM:SS.mmm as a rarer form.
func (r mediainfoReport) duration() string {
	for _, t := range r.Media.Track {
		if t.Type != "General" || t.Duration == "" {
			continue
		}
		raw := strings.TrimSpace(string(t.Duration))
		if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
			return formatDuration(seconds)
		}
		if parts := strings.Split(raw, ":"); len(parts) >= 3 {
			h, errH := strconv.ParseUint(parts[0], 10, 64)
			m, errM := strconv.ParseUint(parts[1], 10, 64)
			s, errS := strconv.ParseUint(strings.SplitN(parts[2], ".", 2)[0], 10, 64)
			if errH == nil && errM == nil && errS == nil {
				return clockFormat(h, m, s)
			}
		}
	}
	return ""
}

func (r mediainfoReport) videoFPS() float64 {
	for _, t := range r.Media.Track {
		if t.Type != "Video" {
			continue
		}
		for _, raw := range []flexString{t.FrameRate, t.FrameRateOriginal, t.FrameRateNominal} {
			cleaned := keepDigitsAndDot(string(raw))
			if cleaned == "" {
				continue
			}
			if fps, err := strconv.ParseFloat(cleaned, 64); err == nil {
				return fps
			}
		}
	}
	return 0
}

// tracks maps the report to the shared track model. mediainfo has no track
// ids of its own, so ids are the 1-based position in the report.
func (r mediainfoReport) tracks() []mediakit.Track {
	var out []mediakit.Track
	for i, t := range r.Media.Track {
		kind, ok := mediainfoKind(string(t.Type))
		if !ok {
			continue
		}
		out = append(out, mediakit.Track{
			ID:          strconv.Itoa(i + 1),
			Kind:        kind,
			Codec:       string(t.Format),
			Language:    string(t.Language),
			Name:        string(t.Title),
			Default:     yesNo(t.Default),
			Forced:      yesNo(t.Forced),
			Bitrate:     t.bitrate(),
			Disposition: mediakit.DispositionKeep,
		})
	}
	return out
}

func (r mediainfoReport) firstTrackID(kind mediakit.TrackKind) string {
	want := ""
	switch kind {
	case mediakit.TrackAudio:
		want = "Audio"
	case mediakit.TrackSubtitle:
		want = "Text"
	case mediakit.TrackVideo:
		want = "Video"
	default:
		return ""
	}
	for _, t := range r.Media.Track {
		if string(t.Type) != want {
			continue
		}
		digits := keepDigits(string(t.ID))
		if id, err := strconv.ParseUint(digits, 10, 64); err == nil && id > 0 {
			return strconv.FormatUint(id, 10)
		}
	}
	return ""
}

func mediainfoKind(raw string) (mediakit.TrackKind, bool) {
	switch raw {
	case "Video":
		return mediakit.TrackVideo, true
	case "Audio":
		return mediakit.TrackAudio, true
	case "Text":
		return mediakit.TrackSubtitle, true
	case "Menu":
		return mediakit.TrackChapter, true
	}
	return "", false
}

func (t mediainfoTrack) bitrate() int64 {
	if v := parseBitrate(string(t.BitRate)); v > 0 {
		return v
	}
	return parseBitrate(string(t.BitRateMaximum))
}

// parseBitrate reads values like "640000" or "3 455 kb/s". Small values are
// taken as kbps and normalized to bits per second.
func parseBitrate(raw string) int64 {
	digits := keepDigits(raw)
	if digits == "" {
		return 0
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	if v < 10_000 {
		return v * 1000
	}
	return v
}

func yesNo(raw flexString) *bool {
	switch strings.ToLower(strings.TrimSpace(string(raw))) {
	case "yes":
		v := true
		return &v
	case "no":
		v := false
		return &v
	}
	return nil
}

func keepDigits(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}

func keepDigitsAndDot(raw string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
}
