// Package assembly projects the entity store into one job request per
// video. Assembly is a pure read-only projection: calling it repeatedly on
// unchanged input yields identical output, so the same pass serves both
// dry-run validation and real submission.
package assembly

import (
	"batchmux/internal/mediakit"
	"batchmux/internal/placement"
)

// Build produces one job request per video from the current video and
// external lists. Unmatched external files are excluded. An empty video
// list yields an empty job list rather than an error. Job IDs derive from
// video IDs so repeated passes stay byte-identical.
func Build(videos []mediakit.VideoFile, externals []mediakit.ExternalFile) []mediakit.JobRequest {
	jobs := make([]mediakit.JobRequest, 0, len(videos))
	for _, v := range videos {
		jobs = append(jobs, buildJob(v, externals))
	}
	return jobs
}

func buildJob(video mediakit.VideoFile, externals []mediakit.ExternalFile) mediakit.JobRequest {
	job := mediakit.JobRequest{
		ID:    "job-" + video.ID,
		Video: video.Clone(),
	}
	for _, ext := range externals {
		if ext.MatchedVideoID != video.ID {
			continue
		}
		expanded, ok := expandPayload(ext)
		if !ok {
			continue
		}
		switch ext.Kind {
		case mediakit.FileAudio:
			job.Audios = append(job.Audios, expanded)
		case mediakit.FileSubtitle:
			job.Subtitles = append(job.Subtitles, expanded)
		case mediakit.FileChapter:
			job.Chapters = append(job.Chapters, expanded)
		case mediakit.FileAttachment:
			job.Attachments = append(job.Attachments, expanded)
		}
	}
	job.Audios = placement.Order(job.Audios)
	job.Subtitles = placement.Order(job.Subtitles)
	return job
}

// expandPayload resolves an external file's embedded multi-track payload
// down to the tracks actually selected, with per-track overrides applied.
// Files whose selection is explicitly empty are dropped from the job.
func expandPayload(ext mediakit.ExternalFile) (mediakit.ExternalFile, bool) {
	out := ext.Clone()
	if len(out.Tracks) == 0 {
		return out, true
	}
	if out.IncludedTrackIDs != nil && len(out.IncludedTrackIDs) == 0 {
		return mediakit.ExternalFile{}, false
	}

	var selected []mediakit.Track
	for _, track := range out.Tracks {
		if !payloadTrackSelected(out, track) {
			continue
		}
		if ov, ok := out.TrackOverrides[track.ID]; ok {
			if ov.Language != nil {
				track.Language = *ov.Language
			}
			if ov.Delay != nil {
				track.Delay = *ov.Delay
			}
			if ov.TrackName != nil {
				track.Name = *ov.TrackName
			}
		}
		selected = append(selected, track)
	}
	if len(selected) == 0 {
		return mediakit.ExternalFile{}, false
	}
	out.Tracks = selected
	out.IncludedTrackIDs = trackIDs(selected)
	out.TrackOverrides = nil
	return out, true
}

func payloadTrackSelected(ext mediakit.ExternalFile, track mediakit.Track) bool {
	switch track.Kind {
	case payloadKind(ext.Kind):
		if ext.IncludedTrackIDs == nil {
			return true
		}
		return containsID(ext.IncludedTrackIDs, track.ID)
	case mediakit.TrackSubtitle:
		// Subtitle streams riding inside an audio container come along
		// only when explicitly requested.
		if ext.Kind != mediakit.FileAudio || !mediakit.BoolValue(ext.IncludeSubtitles) {
			return false
		}
		if ext.IncludedSubtitleTrackIDs == nil {
			return true
		}
		return containsID(ext.IncludedSubtitleTrackIDs, track.ID)
	default:
		return false
	}
}

func payloadKind(kind mediakit.FileKind) mediakit.TrackKind {
	switch kind {
	case mediakit.FileAudio:
		return mediakit.TrackAudio
	case mediakit.FileSubtitle:
		return mediakit.TrackSubtitle
	case mediakit.FileChapter:
		return mediakit.TrackChapter
	default:
		return ""
	}
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func trackIDs(tracks []mediakit.Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.ID
	}
	return out
}
