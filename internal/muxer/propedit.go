package muxer

import (
	"fmt"

	"batchmux/internal/mediakit"
)

// CanUseFastPath reports whether a job can be served by mkvpropedit
// editing the source in place instead of a full remux. Only pure metadata
// jobs qualify: no external files, no removed tracks, no language filters,
// and the output must be the source file itself.
func CanUseFastPath(job mediakit.JobRequest, s Settings) bool {
	if !s.UseMkvpropedit || !s.OverwriteSource || s.DestinationDir != "" {
		return false
	}
	if len(job.Audios)+len(job.Subtitles)+len(job.Chapters)+len(job.Attachments) > 0 {
		return false
	}
	if len(s.KeepAudioLanguages) > 0 || len(s.KeepSubtitleLanguages) > 0 {
		return false
	}
	if s.AddCRC || s.RemoveOldCRC {
		return false
	}
	if s.DiscardOldChapters || s.DiscardOldAttachments || s.RemoveGlobalTags {
		return false
	}
	for _, t := range job.Video.Tracks {
		if t.Disposition == mediakit.DispositionRemove {
			return false
		}
	}
	return true
}

// BuildPropeditArgs renders the mkvpropedit argument list for an in-place
// metadata edit. mkvpropedit numbers tracks from 1 in container order. A
// nil result means no track diverges from its snapshot and the caller
// should skip the job or fall back to mkvmerge.
func BuildPropeditArgs(job mediakit.JobRequest) []string {
	args := []string{job.Video.Path}
	for i, t := range job.Video.Tracks {
		if t.Original == nil {
			continue
		}
		var sets []string
		if t.Name != t.Original.Name {
			sets = append(sets, "--set", "name="+t.Name)
		}
		if t.Language != "" && t.Language != t.Original.Language {
			sets = append(sets, "--set", "language="+t.Language)
		}
		if t.Default != nil && !mediakit.BoolEqual(t.Default, t.Original.Default) {
			sets = append(sets, "--set", "flag-default="+boolDigit(*t.Default))
		}
		if t.Forced != nil && !mediakit.BoolEqual(t.Forced, t.Original.Forced) {
			flag := "flag-forced"
			if t.Kind == mediakit.TrackSubtitle {
				flag = "flag-forced-display"
			}
			sets = append(sets, "--set", flag+"="+boolDigit(*t.Forced))
		}
		if len(sets) == 0 {
			continue
		}
		args = append(args, "--edit", fmt.Sprintf("track:%d", parseTrackNumber(t.ID, i)+1))
		args = append(args, sets...)
	}
	if len(args) == 1 {
		return nil
	}
	return args
}

func boolDigit(on bool) string {
	if on {
		return "1"
	}
	return "0"
}
