package muxer

import (
	"strings"
	"testing"

	"batchmux/internal/mediakit"
)

func boolPtr(v bool) *bool { return &v }

func hasSeq(args []string, seq ...string) bool {
outer:
	for i := 0; i+len(seq) <= len(args); i++ {
		for j, want := range seq {
			if args[i+j] != want {
				continue outer
			}
		}
		return true
	}
	return false
}

func requireSeq(t *testing.T, args []string, seq ...string) {
	t.Helper()
	if !hasSeq(args, seq...) {
		t.Fatalf("args missing sequence %q:\n%s", seq, strings.Join(args, " "))
	}
}

func testVideo() mediakit.VideoFile {
	return mediakit.VideoFile{
		ID:   "v1",
		Name: "Ep01.mkv",
		Path: "/in/Ep01.mkv",
		Tracks: []mediakit.Track{
			{ID: "0", Kind: mediakit.TrackVideo},
			{ID: "1", Kind: mediakit.TrackAudio, Language: "jpn", Default: boolPtr(true)},
			{ID: "2", Kind: mediakit.TrackSubtitle, Language: "eng"},
		},
	}
}

func TestBuildCommandExternalAudio(t *testing.T) {
	job := mediakit.JobRequest{
		ID:    "job-v1",
		Video: testVideo(),
		Audios: []mediakit.ExternalFile{{
			Path:     "/in/Ep01.eng.aac",
			Kind:     mediakit.FileAudio,
			Language: "eng",
			Delay:    0.5,
			Default:  boolPtr(true),
		}},
	}

	args := BuildCommand(job, "/out/Ep01.mkv", Settings{})
	if args[0] != "--gui-mode" || args[1] != "--output" || args[2] != "/out/Ep01.mkv" {
		t.Fatalf("command prefix wrong: %v", args[:3])
	}
	requireSeq(t, args,
		"--no-video", "--no-subtitles", "--no-chapters", "--no-attachments", "--no-global-tags",
		"--audio-tracks", "0",
		"--language", "0:eng",
		"--sync", "0:500",
		"--default-track-flag", "0:yes",
		"/in/Ep01.eng.aac")
	// The external default demotes the internal audio default.
	requireSeq(t, args, "--default-track-flag", "1:no")
	requireSeq(t, args, "--track-order", "0:0,1:0,0:1,0:2")
}

func TestBuildCommandExternalSubtitle(t *testing.T) {
	job := mediakit.JobRequest{
		ID:    "job-v1",
		Video: testVideo(),
		Subtitles: []mediakit.ExternalFile{{
			Path:     "/in/Ep01.eng.srt",
			Kind:     mediakit.FileSubtitle,
			Language: "eng",
			Forced:   boolPtr(true),
		}},
	}

	args := BuildCommand(job, "/out/Ep01.mkv", Settings{})
	requireSeq(t, args,
		"--no-video", "--no-audio", "--no-chapters", "--no-attachments", "--no-global-tags",
		"--subtitle-tracks", "0",
		"--language", "0:eng",
		"--forced-display-flag", "0:yes",
		"/in/Ep01.eng.srt")
	requireSeq(t, args, "--track-order", "0:0,0:1,0:2,1:0")
}

func TestBuildCommandPayloadPullsSubtitleStream(t *testing.T) {
	job := mediakit.JobRequest{
		ID:    "job-v1",
		Video: testVideo(),
		Audios: []mediakit.ExternalFile{{
			Path: "/in/Ep01.commentary.mka",
			Kind: mediakit.FileAudio,
			Tracks: []mediakit.Track{
				{ID: "0", Kind: mediakit.TrackAudio, Language: "jpn"},
				{ID: "2", Kind: mediakit.TrackSubtitle, Language: "jpn", Name: "Signs"},
			},
			IncludedTrackIDs: []string{"0", "2"},
		}},
	}

	args := BuildCommand(job, "/out/Ep01.mkv", Settings{})
	requireSeq(t, args, "--audio-tracks", "0", "--language", "0:jpn")
	requireSeq(t, args, "--subtitle-tracks", "2", "--track-name", "2:Signs")
	if hasSeq(args, "--language", "2:jpn") {
		t.Fatalf("pulled subtitle stream must not carry a language override:\n%s", strings.Join(args, " "))
	}
	// The pulled subtitle becomes its own source after the audio occurrence.
	requireSeq(t, args, "--track-order", "0:0,1:0,0:1,0:2,2:2")
}

func TestBuildCommandKeepLanguageFilters(t *testing.T) {
	video := mediakit.VideoFile{
		ID:   "v1",
		Path: "/in/Ep01.mkv",
		Tracks: []mediakit.Track{
			{ID: "0", Kind: mediakit.TrackVideo},
			{ID: "1", Kind: mediakit.TrackAudio, Language: "jpn"},
			{ID: "2", Kind: mediakit.TrackAudio, Language: "eng"},
			{ID: "3", Kind: mediakit.TrackSubtitle, Language: "eng"},
		},
	}
	settings := Settings{
		KeepAudioLanguages:    []string{"eng"},
		KeepSubtitleLanguages: []string{"ara"},
	}

	args := BuildCommand(mediakit.JobRequest{ID: "job-v1", Video: video}, "/out/Ep01.mkv", settings)
	requireSeq(t, args, "--audio-tracks", "2")
	requireSeq(t, args, "--no-subtitles")
	if hasSeq(args, "--video-tracks") || hasSeq(args, "--no-video") {
		t.Fatalf("video selection should be untouched:\n%s", strings.Join(args, " "))
	}
}

func TestBuildCommandRemovedTrackSelection(t *testing.T) {
	video := testVideo()
	video.Tracks[2].Disposition = mediakit.DispositionRemove

	args := BuildCommand(mediakit.JobRequest{ID: "job-v1", Video: video}, "/out/Ep01.mkv", Settings{})
	requireSeq(t, args, "--no-subtitles")
	if hasSeq(args, "--no-audio") || hasSeq(args, "--audio-tracks") {
		t.Fatalf("intact audio set should emit no selection:\n%s", strings.Join(args, " "))
	}
}

func TestBuildCommandDiscardFlags(t *testing.T) {
	settings := Settings{DiscardOldChapters: true, DiscardOldAttachments: true, RemoveGlobalTags: true}
	args := BuildCommand(mediakit.JobRequest{ID: "job-v1", Video: testVideo()}, "/out/Ep01.mkv", settings)
	requireSeq(t, args, "--no-chapters", "--no-attachments", "--no-global-tags", "/in/Ep01.mkv")
}

func TestBuildCommandInternalTrackEdits(t *testing.T) {
	video := testVideo()
	video.Tracks[1].EnsureSnapshot()
	video.Tracks[1].Name = "Commentary"
	video.Tracks[1].Language = "eng"
	video.Tracks[1].Default = boolPtr(false)

	args := BuildCommand(mediakit.JobRequest{ID: "job-v1", Video: video}, "/out/Ep01.mkv", Settings{})
	requireSeq(t, args, "--track-name", "1:Commentary")
	requireSeq(t, args, "--language", "1:eng")
	requireSeq(t, args, "--default-track-flag", "1:no")
}

func TestBuildCommandDefaultLanguagePromotion(t *testing.T) {
	video := mediakit.VideoFile{
		ID:   "v1",
		Path: "/in/Ep01.mkv",
		Tracks: []mediakit.Track{
			{ID: "0", Kind: mediakit.TrackVideo},
			{ID: "1", Kind: mediakit.TrackAudio, Language: "jpn", Default: boolPtr(true)},
			{ID: "2", Kind: mediakit.TrackAudio, Language: "eng"},
		},
	}

	args := BuildCommand(mediakit.JobRequest{ID: "job-v1", Video: video}, "/out/Ep01.mkv",
		Settings{DefaultAudioLanguage: "eng"})
	requireSeq(t, args, "--default-track-flag", "1:no")
	requireSeq(t, args, "--default-track-flag", "2:yes")
}

func TestBuildCommandChaptersAndAttachments(t *testing.T) {
	job := mediakit.JobRequest{
		ID:          "job-v1",
		Video:       testVideo(),
		Chapters:    []mediakit.ExternalFile{{Path: "/in/chapters.xml", Kind: mediakit.FileChapter, Delay: 1.5}},
		Attachments: []mediakit.ExternalFile{{Path: "/in/font.ttf", Kind: mediakit.FileAttachment}},
	}

	args := BuildCommand(job, "/out/Ep01.mkv", Settings{})
	requireSeq(t, args, "--chapters", "/in/chapters.xml", "--sync", "0:1500")
	requireSeq(t, args, "--attach-file", "/in/font.ttf")
}

func TestBuildCommandWithoutExternalsKeepsOrder(t *testing.T) {
	args := BuildCommand(mediakit.JobRequest{ID: "job-v1", Video: testVideo()}, "/out/Ep01.mkv", Settings{})
	if hasSeq(args, "--track-order") {
		t.Fatalf("no externals should leave the container order alone:\n%s", strings.Join(args, " "))
	}
}
