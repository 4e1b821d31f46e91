package muxer

import (
	"fmt"
	"strconv"
	"strings"

	"batchmux/internal/mediakit"
)

// sourceEntry is one occurrence of an external file on the mkvmerge command
// line. A file contributing several payload tracks appears once per track,
// each occurrence pulling exactly one stream.
type sourceEntry struct {
	path      string
	trackID   string
	kind      mediakit.TrackKind
	language  string
	name      string
	delay     float64
	isDefault *bool
	forced    *bool
	fileIndex int
}

// BuildCommand renders the full mkvmerge argument list for one job. The
// binary name itself is not included.
func BuildCommand(job mediakit.JobRequest, outputPath string, s Settings) []string {
	s = s.normalized()
	audioEntries, pulledSubs := resolveEntries(job.Audios)
	subEntries, _ := resolveEntries(job.Subtitles)
	// Subtitle streams pulled out of audio containers mux after the
	// dedicated subtitle files.
	subEntries = append(subEntries, pulledSubs...)
	numberEntries(audioEntries, subEntries)

	args := []string{"--gui-mode", "--output", outputPath}
	if s.DiscardOldChapters {
		args = append(args, "--no-chapters")
	}
	if s.DiscardOldAttachments {
		args = append(args, "--no-attachments")
	}
	if s.RemoveGlobalTags {
		args = append(args, "--no-global-tags")
	}

	args = append(args, selectionArgs(job.Video.Tracks, s)...)
	args = append(args, trackEditArgs(job.Video.Tracks, defaultOverrides(job.Video.Tracks, audioEntries, subEntries, s))...)

	if order := trackOrder(job.Video.Tracks, audioEntries, subEntries); order != "" {
		args = append(args, "--track-order", order)
	}

	args = append(args, job.Video.Path)
	for _, entry := range audioEntries {
		args = append(args, entryArgs(entry)...)
	}
	for _, entry := range subEntries {
		args = append(args, entryArgs(entry)...)
	}
	for _, chapter := range job.Chapters {
		args = append(args, "--chapters", chapter.Path)
		if chapter.Delay != 0 {
			args = append(args, "--sync", fmt.Sprintf("0:%d", delayMillis(chapter.Delay)))
		}
	}
	for _, attachment := range job.Attachments {
		args = append(args, "--attach-file", attachment.Path)
	}
	return args
}

// resolveEntries expands external files into per-track source occurrences.
// Subtitle streams riding in audio containers come back separately so the
// caller can order them after the dedicated subtitle files; those clones
// carry no language or flag overrides of their own.
func resolveEntries(files []mediakit.ExternalFile) (entries, pulledSubs []sourceEntry) {
	for _, file := range files {
		ids := file.IncludedTrackIDs
		if len(ids) == 0 {
			switch {
			case file.TrackID != "":
				ids = []string{file.TrackID}
			case len(file.Tracks) > 0:
				ids = payloadIDs(file.Tracks)
			default:
				ids = []string{"0"}
			}
		}

		occurrence := 0
		for _, id := range ids {
			track := payloadTrack(file.Tracks, id)
			if track != nil && track.Kind == mediakit.TrackSubtitle && file.Kind == mediakit.FileAudio {
				pulledSubs = append(pulledSubs, sourceEntry{
					path:    file.Path,
					trackID: id,
					kind:    mediakit.TrackSubtitle,
					name:    track.Name,
					delay:   track.Delay,
				})
				continue
			}

			entry := sourceEntry{path: file.Path, trackID: id, kind: entryKind(file.Kind)}
			first := occurrence == 0
			occurrence++

			if track != nil {
				entry.language = track.Language
				entry.name = track.Name
				entry.delay = track.Delay
			}
			if first {
				if entry.language == "" {
					entry.language = file.Language
				}
				if entry.name == "" {
					entry.name = file.TrackName
				}
				if entry.delay == 0 {
					entry.delay = file.Delay
				}
			}
			// A default-flagged file makes only its first occurrence
			// default; an explicit false carries to every occurrence.
			if mediakit.BoolValue(file.Default) {
				isDefault := first
				entry.isDefault = &isDefault
			} else if file.Default != nil {
				isDefault := false
				entry.isDefault = &isDefault
			}
			if entry.kind == mediakit.TrackSubtitle && file.Forced != nil {
				forced := *file.Forced
				entry.forced = &forced
			}
			entries = append(entries, entry)
		}
	}
	return entries, pulledSubs
}

// numberEntries assigns command-line file indexes: the video is source 0,
// audio occurrences follow, then subtitle occurrences.
func numberEntries(audio, subs []sourceEntry) {
	index := 1
	for i := range audio {
		audio[i].fileIndex = index
		index++
	}
	for i := range subs {
		subs[i].fileIndex = index
		index++
	}
}

// selectionArgs emits --audio-tracks/--subtitle-tracks/--video-tracks (or
// their --no-* forms) for the video source when tracks are removed or
// filtered by language. A kind whose full set survives emits nothing.
func selectionArgs(tracks []mediakit.Track, s Settings) []string {
	var args []string
	args = append(args, kindSelection(tracks, mediakit.TrackVideo, "--video-tracks", "--no-video", nil)...)
	args = append(args, kindSelection(tracks, mediakit.TrackAudio, "--audio-tracks", "--no-audio", s.KeepAudioLanguages)...)
	args = append(args, kindSelection(tracks, mediakit.TrackSubtitle, "--subtitle-tracks", "--no-subtitles", s.KeepSubtitleLanguages)...)
	return args
}

func kindSelection(tracks []mediakit.Track, kind mediakit.TrackKind, flag, noFlag string, keepLanguages []string) []string {
	var all, kept []string
	for _, t := range tracks {
		if t.Kind != kind {
			continue
		}
		all = append(all, t.ID)
		if t.Disposition == mediakit.DispositionRemove {
			continue
		}
		if len(keepLanguages) > 0 && !languageListed(keepLanguages, t.Language) {
			continue
		}
		kept = append(kept, t.ID)
	}
	if len(all) == 0 || len(kept) == len(all) {
		return nil
	}
	if len(kept) == 0 {
		return []string{noFlag}
	}
	return []string{flag, strings.Join(kept, ",")}
}

// defaultOverrides decides the final default flag per internal track:
// explicit user edits win, then the default-language promotion, then the
// demotion forced by an external file claiming the default slot.
func defaultOverrides(tracks []mediakit.Track, audio, subs []sourceEntry, s Settings) map[string]bool {
	overrides := make(map[string]bool)

	demote := func(kind mediakit.TrackKind, externalDefault bool) {
		if !externalDefault {
			return
		}
		for _, t := range tracks {
			if t.Kind == kind && t.Disposition != mediakit.DispositionRemove && mediakit.BoolValue(t.Default) {
				overrides[t.ID] = false
			}
		}
	}
	demote(mediakit.TrackAudio, anyDefault(audio))
	demote(mediakit.TrackSubtitle, anyDefault(subs))

	promote := func(kind mediakit.TrackKind, language string) {
		if language == "" {
			return
		}
		found := false
		for _, t := range tracks {
			if t.Kind != kind || t.Disposition == mediakit.DispositionRemove {
				continue
			}
			if !found && strings.EqualFold(t.Language, language) {
				overrides[t.ID] = true
				found = true
				continue
			}
			overrides[t.ID] = false
		}
		if !found {
			// No candidate matched; leave the original flags alone.
			for _, t := range tracks {
				if t.Kind == kind {
					delete(overrides, t.ID)
				}
			}
		}
	}
	promote(mediakit.TrackAudio, s.DefaultAudioLanguage)
	promote(mediakit.TrackSubtitle, s.DefaultSubtitleLanguage)

	for _, t := range tracks {
		if t.Original == nil || t.Default == nil {
			continue
		}
		if !mediakit.BoolEqual(t.Default, t.Original.Default) {
			overrides[t.ID] = *t.Default
		}
	}
	return overrides
}

func anyDefault(entries []sourceEntry) bool {
	for _, e := range entries {
		if e.isDefault != nil && *e.isDefault {
			return true
		}
	}
	return false
}

// trackEditArgs emits per-internal-track metadata edits for the video
// source, diffed against each track's original snapshot.
func trackEditArgs(tracks []mediakit.Track, defaults map[string]bool) []string {
	var args []string
	for _, t := range tracks {
		if t.Disposition == mediakit.DispositionRemove {
			continue
		}
		if t.Original != nil {
			if t.Name != t.Original.Name {
				args = append(args, "--track-name", t.ID+":"+t.Name)
			}
			if t.Language != "" && t.Language != t.Original.Language {
				args = append(args, "--language", t.ID+":"+t.Language)
			}
			if t.Kind == mediakit.TrackSubtitle && t.Forced != nil && !mediakit.BoolEqual(t.Forced, t.Original.Forced) {
				args = append(args, "--forced-display-flag", flagValue(t.ID, *t.Forced))
			}
		}
		if want, ok := defaults[t.ID]; ok {
			args = append(args, "--default-track-flag", flagValue(t.ID, want))
		}
	}
	return args
}

// trackOrder renders the final stream layout: internal video first, then
// external audio, internal audio, internal subtitles, external subtitles.
// With no external sources the container order is left untouched.
func trackOrder(tracks []mediakit.Track, audio, subs []sourceEntry) string {
	if len(audio) == 0 && len(subs) == 0 {
		return ""
	}
	var order []string
	appendInternal := func(kind mediakit.TrackKind) {
		for _, t := range tracks {
			if t.Kind == kind && t.Disposition != mediakit.DispositionRemove {
				order = append(order, "0:"+t.ID)
			}
		}
	}
	appendEntries := func(entries []sourceEntry) {
		for _, e := range entries {
			order = append(order, fmt.Sprintf("%d:%s", e.fileIndex, e.trackID))
		}
	}

	appendInternal(mediakit.TrackVideo)
	appendEntries(audio)
	appendInternal(mediakit.TrackAudio)
	appendInternal(mediakit.TrackSubtitle)
	appendEntries(subs)
	return strings.Join(order, ",")
}

// entryArgs renders one source occurrence: strip every stream except the
// one wanted, apply its metadata, then name the file.
func entryArgs(e sourceEntry) []string {
	args := []string{"--no-video"}
	if e.kind == mediakit.TrackSubtitle {
		args = append(args, "--no-audio")
	} else {
		args = append(args, "--no-subtitles")
	}
	args = append(args, "--no-chapters", "--no-attachments", "--no-global-tags")

	if e.kind == mediakit.TrackSubtitle {
		args = append(args, "--subtitle-tracks", e.trackID)
	} else {
		args = append(args, "--audio-tracks", e.trackID)
	}
	if e.language != "" {
		args = append(args, "--language", e.trackID+":"+e.language)
	}
	if e.name != "" {
		args = append(args, "--track-name", e.trackID+":"+e.name)
	}
	if e.delay != 0 {
		args = append(args, "--sync", fmt.Sprintf("%s:%d", e.trackID, delayMillis(e.delay)))
	}
	if e.isDefault != nil {
		args = append(args, "--default-track-flag", flagValue(e.trackID, *e.isDefault))
	}
	if e.kind == mediakit.TrackSubtitle && e.forced != nil {
		args = append(args, "--forced-display-flag", flagValue(e.trackID, *e.forced))
	}
	return append(args, e.path)
}

func entryKind(kind mediakit.FileKind) mediakit.TrackKind {
	if kind == mediakit.FileSubtitle {
		return mediakit.TrackSubtitle
	}
	return mediakit.TrackAudio
}

func payloadTrack(tracks []mediakit.Track, id string) *mediakit.Track {
	for i := range tracks {
		if tracks[i].ID == id {
			return &tracks[i]
		}
	}
	return nil
}

func payloadIDs(tracks []mediakit.Track) []string {
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

func flagValue(id string, on bool) string {
	if on {
		return id + ":yes"
	}
	return id + ":no"
}

// delayMillis converts a seconds delay to whole milliseconds the way
// mkvmerge --sync expects.
func delayMillis(seconds float64) int {
	return int(seconds * 1000)
}

func parseTrackNumber(id string, fallback int) int {
	if n, err := strconv.Atoi(id); err == nil {
		return n
	}
	return fallback
}
