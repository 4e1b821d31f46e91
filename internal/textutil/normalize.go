package textutil

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName converts a file name or path into the canonical form used
// for similarity matching: base name without extension, NFKC-folded,
// lower-cased, with every run of non-alphanumeric characters collapsed to a
// single space and the result trimmed.
func NormalizeName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.ToLower(norm.NFKC.String(base))

	var b strings.Builder
	b.Grow(len(base))
	pendingSpace := false
	for _, r := range base {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// ContainmentScore scores two already-normalized names: when one contains
// the other the score is the length of the shorter string, otherwise 0.
func ContainmentScore(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return len(shorter)
	}
	return 0
}
