package match

import (
	"reflect"
	"testing"

	"batchmux/internal/mediakit"
)

func video(id, name string) mediakit.VideoFile {
	return mediakit.VideoFile{ID: id, Name: name, Status: mediakit.StatusPending}
}

func external(id, name string, kind mediakit.FileKind, origin mediakit.Origin) mediakit.ExternalFile {
	return mediakit.ExternalFile{ID: id, Name: name, Kind: kind, Origin: origin}
}

func assignmentFor(t *testing.T, res Result, externalID string) Assignment {
	t.Helper()
	for _, a := range res.Assignments {
		if a.ExternalID == externalID {
			return a
		}
	}
	t.Fatalf("no assignment for %s", externalID)
	return Assignment{}
}

func TestResolveByContainment(t *testing.T) {
	videos := []mediakit.VideoFile{video("v1", "Ep01.mkv"), video("v2", "Ep02.mkv")}
	exts := []mediakit.ExternalFile{external("e1", "Ep01.srt", mediakit.FileSubtitle, mediakit.OriginBulk)}

	res := Resolve(videos, exts)
	a := assignmentFor(t, res, "e1")
	if a.VideoID != "v1" {
		t.Fatalf("Ep01.srt matched %s, want v1", a.VideoID)
	}
	if a.Score != len("ep01") {
		t.Fatalf("score = %d, want %d", a.Score, len("ep01"))
	}
	if a.Positional {
		t.Fatal("name match flagged as positional")
	}
}

func TestResolveTieBreaksOnLowestIndex(t *testing.T) {
	videos := []mediakit.VideoFile{video("v1", "Show S01E01.mkv"), video("v2", "Show S01E01 (copy).mkv")}
	exts := []mediakit.ExternalFile{external("e1", "Show S01E01.ac3", mediakit.FileAudio, mediakit.OriginPerFile)}

	res := Resolve(videos, exts)
	if a := assignmentFor(t, res, "e1"); a.VideoID != "v1" {
		t.Fatalf("tie broken to %s, want v1", a.VideoID)
	}
}

func TestResolveKeepsValidExistingPairing(t *testing.T) {
	videos := []mediakit.VideoFile{video("v1", "Ep01.mkv"), video("v2", "Ep02.mkv")}
	ext := external("e1", "Ep02.srt", mediakit.FileSubtitle, mediakit.OriginPerFile)
	ext.MatchedVideoID = "v1"

	res := Resolve(videos, []mediakit.ExternalFile{ext})
	if a := assignmentFor(t, res, "e1"); a.VideoID != "v1" {
		t.Fatalf("explicit pairing not kept, got %s", a.VideoID)
	}
}

func TestResolveClearsStaleReference(t *testing.T) {
	videos := []mediakit.VideoFile{video("v2", "Ep02.mkv")}
	ext := external("e1", "Ep02.srt", mediakit.FileSubtitle, mediakit.OriginPerFile)
	ext.MatchedVideoID = "v1"

	res := Resolve(videos, []mediakit.ExternalFile{ext})
	if a := assignmentFor(t, res, "e1"); a.VideoID != "v2" {
		t.Fatalf("stale reference should re-resolve by name, got %s", a.VideoID)
	}
}

func TestResolvePositionalFallbackSkipsClaimed(t *testing.T) {
	videos := []mediakit.VideoFile{video("v1", "Ep01.mkv"), video("v2", "Ep02.mkv")}
	exts := []mediakit.ExternalFile{
		external("e1", "Ep01.srt", mediakit.FileSubtitle, mediakit.OriginBulk),
		external("e2", "french dub notes.srt", mediakit.FileSubtitle, mediakit.OriginBulk),
	}

	res := Resolve(videos, exts)
	if a := assignmentFor(t, res, "e1"); a.VideoID != "v1" || a.Positional {
		t.Fatalf("e1: got %+v", a)
	}
	a := assignmentFor(t, res, "e2")
	if a.VideoID != "v2" {
		t.Fatalf("positional fallback should skip claimed v1, got %s", a.VideoID)
	}
	if !a.Positional {
		t.Fatal("fallback pairing not flagged positional")
	}
}

func TestResolvePerFileNeverFallsBackPositionally(t *testing.T) {
	videos := []mediakit.VideoFile{video("v1", "Ep01.mkv")}
	exts := []mediakit.ExternalFile{external("e1", "bonus.ac3", mediakit.FileAudio, mediakit.OriginPerFile)}

	res := Resolve(videos, exts)
	if len(res.Assignments) != 0 {
		t.Fatalf("per-file entry without evidence should stay unmatched: %+v", res.Assignments)
	}
	if !reflect.DeepEqual(res.Unmatched, []string{"e1"}) {
		t.Fatalf("unmatched = %v", res.Unmatched)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	videos := []mediakit.VideoFile{video("v1", "Ep01.mkv"), video("v2", "Ep02.mkv"), video("v3", "Extras.mkv")}
	exts := []mediakit.ExternalFile{
		external("e1", "Ep02.srt", mediakit.FileSubtitle, mediakit.OriginBulk),
		external("e2", "unrelated.srt", mediakit.FileSubtitle, mediakit.OriginBulk),
		external("e3", "Ep01 commentary.ac3", mediakit.FileAudio, mediakit.OriginPerFile),
	}

	first := Resolve(videos, exts)
	for i := 0; i < 5; i++ {
		if got := Resolve(videos, exts); !reflect.DeepEqual(got, first) {
			t.Fatalf("resolve pass %d diverged: %+v vs %+v", i, got, first)
		}
	}
}

func TestApplyUpdatesAndClears(t *testing.T) {
	stale := external("e1", "Ep01.srt", mediakit.FileSubtitle, mediakit.OriginBulk)
	stale.MatchedVideoID = "gone"
	orphan := external("e2", "nothing.srt", mediakit.FileSubtitle, mediakit.OriginPerFile)
	orphan.MatchedVideoID = "gone"

	res := Result{
		Assignments: []Assignment{{ExternalID: "e1", VideoID: "v1", Score: 4}},
		Unmatched:   []string{"e2"},
	}
	out := Apply([]mediakit.ExternalFile{stale, orphan}, res)
	if out[0].MatchedVideoID != "v1" {
		t.Fatalf("e1 not re-pointed: %q", out[0].MatchedVideoID)
	}
	if out[1].MatchedVideoID != "" {
		t.Fatalf("e2 reference not cleared: %q", out[1].MatchedVideoID)
	}
	if stale.MatchedVideoID != "gone" {
		t.Fatal("Apply mutated its input")
	}
}
