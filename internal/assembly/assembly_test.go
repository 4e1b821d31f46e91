package assembly

import (
	"bytes"
	"encoding/json"
	"testing"

	"batchmux/internal/mediakit"
)

func boolPtr(v bool) *bool { return &v }

func fixture() ([]mediakit.VideoFile, []mediakit.ExternalFile) {
	videos := []mediakit.VideoFile{
		{
			ID:   "v1",
			Name: "Ep01.mkv",
			Tracks: []mediakit.Track{
				{ID: "1", Kind: mediakit.TrackVideo},
				{ID: "2", Kind: mediakit.TrackAudio, Language: "jpn", Disposition: mediakit.DispositionKeep},
			},
		},
		{ID: "v2", Name: "Ep02.mkv"},
	}
	externals := []mediakit.ExternalFile{
		{ID: "a1", Name: "Ep01.eng.ac3", Kind: mediakit.FileAudio, Origin: mediakit.OriginBulk, MatchedVideoID: "v1", MuxAfter: "end"},
		{ID: "a2", Name: "Ep01.commentary.ac3", Kind: mediakit.FileAudio, Origin: mediakit.OriginPerFile, MatchedVideoID: "v1", MuxAfter: "video"},
		{ID: "s1", Name: "Ep01.srt", Kind: mediakit.FileSubtitle, Origin: mediakit.OriginBulk, MatchedVideoID: "v1"},
		{ID: "c1", Name: "chapters.xml", Kind: mediakit.FileChapter, Origin: mediakit.OriginPerFile, MatchedVideoID: "v2"},
		{ID: "x1", Name: "orphan.srt", Kind: mediakit.FileSubtitle, Origin: mediakit.OriginBulk},
	}
	return videos, externals
}

func TestBuildPartitionsByVideoAndKind(t *testing.T) {
	videos, externals := fixture()
	jobs := Build(videos, externals)
	if len(jobs) != 2 {
		t.Fatalf("job count = %d, want 2", len(jobs))
	}

	j1 := jobs[0]
	if j1.ID != "job-v1" {
		t.Fatalf("job id = %q", j1.ID)
	}
	if len(j1.Audios) != 2 || len(j1.Subtitles) != 1 {
		t.Fatalf("v1 kinds wrong: %d audios, %d subtitles", len(j1.Audios), len(j1.Subtitles))
	}
	// "video" placement outranks "end" regardless of insertion order.
	if j1.Audios[0].ID != "a2" || j1.Audios[1].ID != "a1" {
		t.Fatalf("audio order = [%s %s]", j1.Audios[0].ID, j1.Audios[1].ID)
	}
	if len(j1.Video.Tracks) != 2 {
		t.Fatal("internal tracks must carry over as-is")
	}

	j2 := jobs[1]
	if len(j2.Chapters) != 1 || j2.Chapters[0].ID != "c1" {
		t.Fatalf("v2 chapters wrong: %+v", j2.Chapters)
	}
	for _, job := range jobs {
		for _, sub := range job.Subtitles {
			if sub.ID == "x1" {
				t.Fatal("unmatched file leaked into a job")
			}
		}
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	videos, externals := fixture()
	first, err := json.Marshal(Build(videos, externals))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(Build(videos, externals))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("repeated assembly diverged on unchanged input")
	}
}

func TestBuildWithNoVideos(t *testing.T) {
	jobs := Build(nil, []mediakit.ExternalFile{{ID: "a1", Kind: mediakit.FileAudio}})
	if len(jobs) != 0 {
		t.Fatalf("expected empty job list, got %d", len(jobs))
	}
}

func TestBuildDoesNotMutateInputs(t *testing.T) {
	videos, externals := fixture()
	jobs := Build(videos, externals)
	jobs[0].Video.Tracks[0].ID = "mutated"
	jobs[0].Audios[0].Language = "mutated"
	if videos[0].Tracks[0].ID == "mutated" {
		t.Fatal("job shares track storage with the store input")
	}
	for _, ext := range externals {
		if ext.Language == "mutated" {
			t.Fatal("job shares external storage with the store input")
		}
	}
}

func TestExpandPayloadSelectionAndOverrides(t *testing.T) {
	lang := "eng"
	delay := 1.5
	name := "Signs"
	ext := mediakit.ExternalFile{
		ID:             "m1",
		Kind:           mediakit.FileSubtitle,
		MatchedVideoID: "v1",
		Tracks: []mediakit.Track{
			{ID: "1", Kind: mediakit.TrackSubtitle, Language: "und"},
			{ID: "2", Kind: mediakit.TrackSubtitle, Language: "und"},
			{ID: "3", Kind: mediakit.TrackSubtitle, Language: "und"},
		},
		IncludedTrackIDs: []string{"1", "3"},
		TrackOverrides: map[string]mediakit.TrackOverride{
			"3": {Language: &lang, Delay: &delay, TrackName: &name},
		},
	}
	jobs := Build([]mediakit.VideoFile{{ID: "v1", Name: "Ep01.mkv"}}, []mediakit.ExternalFile{ext})
	subs := jobs[0].Subtitles
	if len(subs) != 1 {
		t.Fatalf("subtitle count = %d", len(subs))
	}
	got := subs[0].Tracks
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("payload selection wrong: %+v", got)
	}
	if got[1].Language != "eng" || got[1].Delay != 1.5 || got[1].Name != "Signs" {
		t.Fatalf("overrides not applied: %+v", got[1])
	}
	if got[0].Language != "und" {
		t.Fatalf("override leaked onto unrelated track: %+v", got[0])
	}
}

func TestExpandPayloadEmptySelectionDropsFile(t *testing.T) {
	ext := mediakit.ExternalFile{
		ID:               "m1",
		Kind:             mediakit.FileAudio,
		MatchedVideoID:   "v1",
		Tracks:           []mediakit.Track{{ID: "1", Kind: mediakit.TrackAudio}},
		IncludedTrackIDs: []string{},
	}
	jobs := Build([]mediakit.VideoFile{{ID: "v1", Name: "Ep01.mkv"}}, []mediakit.ExternalFile{ext})
	if len(jobs[0].Audios) != 0 {
		t.Fatalf("deselected payload should drop the file: %+v", jobs[0].Audios)
	}
}

func TestExpandPayloadAudioContainerSubtitles(t *testing.T) {
	ext := mediakit.ExternalFile{
		ID:             "m1",
		Kind:           mediakit.FileAudio,
		MatchedVideoID: "v1",
		Tracks: []mediakit.Track{
			{ID: "1", Kind: mediakit.TrackAudio},
			{ID: "2", Kind: mediakit.TrackSubtitle},
			{ID: "3", Kind: mediakit.TrackSubtitle},
		},
		IncludeSubtitles:         boolPtr(true),
		IncludedSubtitleTrackIDs: []string{"3"},
	}
	jobs := Build([]mediakit.VideoFile{{ID: "v1", Name: "Ep01.mkv"}}, []mediakit.ExternalFile{ext})
	got := jobs[0].Audios[0].Tracks
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("audio container expansion wrong: %+v", got)
	}

	ext.IncludeSubtitles = nil
	jobs = Build([]mediakit.VideoFile{{ID: "v1", Name: "Ep01.mkv"}}, []mediakit.ExternalFile{ext})
	got = jobs[0].Audios[0].Tracks
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("subtitles should stay out unless requested: %+v", got)
	}
}
