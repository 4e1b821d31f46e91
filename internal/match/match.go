package match

import (
	"batchmux/internal/mediakit"
	"batchmux/internal/textutil"
)

// Assignment records one external-to-video pairing decision.
type Assignment struct {
	ExternalID string
	VideoID    string
	// Score is the containment score that produced the pairing. Zero means
	// the pairing was kept from an earlier pass or made positionally.
	Score int
	// Positional is true when the pairing was made by list index rather
	// than name evidence. Callers should surface these to the user instead
	// of treating them as confirmed.
	Positional bool
}

// Result is the outcome of one full resolve pass.
type Result struct {
	Assignments []Assignment
	// Unmatched lists external file IDs left without a video. Their
	// matchedVideoId must be cleared.
	Unmatched []string
}

// Resolve recomputes video pairings for the given external files after any
// structural change to either list. Pairings that still reference a present
// video are kept. Everything else is scored by normalized-name containment;
// the highest positive score wins, ties going to the video earliest in the
// list. Bulk-origin files with no name evidence fall back to index pairing,
// skipping videos already claimed for the same kind in this pass. Files
// left over are reported unmatched.
//
// Resolve never mutates its inputs; apply the result to the entity store.
func Resolve(videos []mediakit.VideoFile, externals []mediakit.ExternalFile) Result {
	present := make(map[string]bool, len(videos))
	for _, v := range videos {
		present[v.ID] = true
	}
	normalized := make([]string, len(videos))
	for i, v := range videos {
		normalized[i] = textutil.NormalizeName(v.Name)
	}

	var res Result
	// claimed tracks which videos already received a file of a given kind,
	// so positional fallback does not double-book them.
	claimed := make(map[mediakit.FileKind]map[string]bool)
	claim := func(kind mediakit.FileKind, videoID string) {
		if claimed[kind] == nil {
			claimed[kind] = make(map[string]bool)
		}
		claimed[kind][videoID] = true
	}

	type pending struct {
		ext mediakit.ExternalFile
	}
	var fallback []pending

	for _, ext := range externals {
		if ext.MatchedVideoID != "" && present[ext.MatchedVideoID] {
			res.Assignments = append(res.Assignments, Assignment{
				ExternalID: ext.ID,
				VideoID:    ext.MatchedVideoID,
			})
			claim(ext.Kind, ext.MatchedVideoID)
			continue
		}

		name := textutil.NormalizeName(ext.Name)
		bestScore := 0
		bestIdx := -1
		for i, videoName := range normalized {
			if score := textutil.ContainmentScore(name, videoName); score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx >= 0 {
			res.Assignments = append(res.Assignments, Assignment{
				ExternalID: ext.ID,
				VideoID:    videos[bestIdx].ID,
				Score:      bestScore,
			})
			claim(ext.Kind, videos[bestIdx].ID)
			continue
		}

		if ext.Origin == mediakit.OriginBulk {
			fallback = append(fallback, pending{ext: ext})
			continue
		}
		res.Unmatched = append(res.Unmatched, ext.ID)
	}

	for _, p := range fallback {
		videoID := ""
		for i := range videos {
			if !claimed[p.ext.Kind][videos[i].ID] {
				videoID = videos[i].ID
				break
			}
		}
		if videoID == "" {
			res.Unmatched = append(res.Unmatched, p.ext.ID)
			continue
		}
		res.Assignments = append(res.Assignments, Assignment{
			ExternalID: p.ext.ID,
			VideoID:    videoID,
			Positional: true,
		})
		claim(p.ext.Kind, videoID)
	}
	return res
}

// Apply writes a resolve result back onto an external file list, returning
// a new list with matchedVideoId fields updated. Unmatched files have the
// field cleared.
func Apply(externals []mediakit.ExternalFile, res Result) []mediakit.ExternalFile {
	byID := make(map[string]string, len(res.Assignments))
	for _, a := range res.Assignments {
		byID[a.ExternalID] = a.VideoID
	}
	out := mediakit.CloneExternals(externals)
	for i := range out {
		out[i].MatchedVideoID = byID[out[i].ID]
	}
	return out
}
