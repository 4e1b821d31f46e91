package muxer

import (
	"reflect"
	"testing"

	"batchmux/internal/mediakit"
)

func metadataOnlyJob() mediakit.JobRequest {
	video := mediakit.VideoFile{
		ID:   "v1",
		Path: "/in/Ep01.mkv",
		Tracks: []mediakit.Track{
			{ID: "0", Kind: mediakit.TrackVideo},
			{ID: "1", Kind: mediakit.TrackAudio, Language: "jpn"},
		},
	}
	return mediakit.JobRequest{ID: "job-v1", Video: video}
}

func TestCanUseFastPath(t *testing.T) {
	base := Settings{UseMkvpropedit: true, OverwriteSource: true}

	cases := []struct {
		name     string
		settings Settings
		mutate   func(*mediakit.JobRequest)
		want     bool
	}{
		{name: "metadata only in place", settings: base, want: true},
		{name: "disabled in settings", settings: Settings{OverwriteSource: true}, want: false},
		{name: "destination set", settings: Settings{UseMkvpropedit: true, OverwriteSource: true, DestinationDir: "/out"}, want: false},
		{name: "not overwriting", settings: Settings{UseMkvpropedit: true}, want: false},
		{name: "crc requested", settings: Settings{UseMkvpropedit: true, OverwriteSource: true, AddCRC: true}, want: false},
		{name: "keep languages", settings: Settings{UseMkvpropedit: true, OverwriteSource: true, KeepAudioLanguages: []string{"eng"}}, want: false},
		{name: "discard chapters", settings: Settings{UseMkvpropedit: true, OverwriteSource: true, DiscardOldChapters: true}, want: false},
		{
			name:     "external file present",
			settings: base,
			mutate: func(job *mediakit.JobRequest) {
				job.Subtitles = append(job.Subtitles, mediakit.ExternalFile{Path: "/in/a.srt", Kind: mediakit.FileSubtitle})
			},
			want: false,
		},
		{
			name:     "removed track needs remux",
			settings: base,
			mutate: func(job *mediakit.JobRequest) {
				job.Video.Tracks[1].Disposition = mediakit.DispositionRemove
			},
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			job := metadataOnlyJob()
			if tc.mutate != nil {
				tc.mutate(&job)
			}
			if got := CanUseFastPath(job, tc.settings); got != tc.want {
				t.Fatalf("CanUseFastPath = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuildPropeditArgs(t *testing.T) {
	job := metadataOnlyJob()
	job.Video.Tracks[1].EnsureSnapshot()
	job.Video.Tracks[1].Name = "JP Audio"
	job.Video.Tracks[1].Language = "eng"
	job.Video.Tracks[1].Default = boolPtr(true)

	got := BuildPropeditArgs(job)
	want := []string{
		"/in/Ep01.mkv",
		"--edit", "track:2",
		"--set", "name=JP Audio",
		"--set", "language=eng",
		"--set", "flag-default=1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %q, want %q", got, want)
	}
}

func TestBuildPropeditArgsSubtitleForcedFlag(t *testing.T) {
	job := metadataOnlyJob()
	job.Video.Tracks = append(job.Video.Tracks, mediakit.Track{ID: "2", Kind: mediakit.TrackSubtitle})
	job.Video.Tracks[2].EnsureSnapshot()
	job.Video.Tracks[2].Forced = boolPtr(true)

	got := BuildPropeditArgs(job)
	want := []string{"/in/Ep01.mkv", "--edit", "track:3", "--set", "flag-forced-display=1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %q, want %q", got, want)
	}
}

func TestBuildPropeditArgsNoChanges(t *testing.T) {
	job := metadataOnlyJob()
	job.Video.Tracks[1].EnsureSnapshot()
	if got := BuildPropeditArgs(job); got != nil {
		t.Fatalf("unchanged tracks should yield nil args, got %q", got)
	}
}
