// Package placement orders external files destined for one video relative
// to the video's internal tracks.
package placement

import (
	"sort"
	"strconv"
	"strings"

	"batchmux/internal/mediakit"
)

// Rank values for the recognized placement anchors. Lower ranks sort
// earlier. "track-N" ranks as N so files slot in directly after the Nth
// internal track.
const (
	rankFront = 0
	rankEnd   = 99
)

// Rank maps a placement directive to its numeric sort key. "video" and
// "audio" anchor to the front, "track-N" ranks as N, "end" ranks last.
// Unrecognized directives anchor to the front rather than disappearing.
func Rank(muxAfter string) int {
	switch muxAfter {
	case "", mediakit.MuxAfterVideo, mediakit.MuxAfterAudio:
		return rankFront
	case mediakit.MuxAfterEnd:
		return rankEnd
	}
	if rest, ok := strings.CutPrefix(muxAfter, "track-"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 0 {
			return n
		}
	}
	return rankFront
}

// Order sorts external files of one kind into their final relative order:
// by placement rank, then bulk origin before per-file origin, preserving
// input order within equal keys. The input slice is not modified.
func Order(files []mediakit.ExternalFile) []mediakit.ExternalFile {
	out := make([]mediakit.ExternalFile, len(files))
	copy(out, files)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := Rank(out[i].MuxAfter), Rank(out[j].MuxAfter)
		if ri != rj {
			return ri < rj
		}
		return precedence(out[i].Origin) < precedence(out[j].Origin)
	})
	return out
}

func precedence(origin mediakit.Origin) int {
	if origin == mediakit.OriginPerFile {
		return 1
	}
	return 0
}
