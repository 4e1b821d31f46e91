package language

import "strings"

// Und is the ISO 639-2 code for an undetermined language, the default for
// tracks that never declared one.
const Und = "und"

type entry struct {
	code2   string // ISO 639-1 (2-letter)
	code3   string // ISO 639-2 primary (3-letter)
	alt3    string // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string // Human-readable name
}

var languages = []entry{
	{"ar", "ara", "", "Arabic"},
	{"zh", "zho", "chi", "Chinese"},
	{"da", "dan", "", "Danish"},
	{"nl", "nld", "dut", "Dutch"},
	{"en", "eng", "", "English"},
	{"fi", "fin", "", "Finnish"},
	{"fr", "fra", "fre", "French"},
	{"de", "deu", "ger", "German"},
	{"hi", "hin", "", "Hindi"},
	{"it", "ita", "", "Italian"},
	{"ja", "jpn", "", "Japanese"},
	{"ko", "kor", "", "Korean"},
	{"no", "nor", "", "Norwegian"},
	{"pl", "pol", "", "Polish"},
	{"pt", "por", "", "Portuguese"},
	{"ru", "rus", "", "Russian"},
	{"es", "spa", "", "Spanish"},
	{"sv", "swe", "", "Swedish"},
	{"tr", "tur", "", "Turkish"},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		byWord[strings.ToLower(e.display)] = e
	}
}

func lookup(value string) *entry {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return nil
	}
	if e, ok := byCode2[value]; ok {
		return e
	}
	if e, ok := byCode3[value]; ok {
		return e
	}
	if e, ok := byWord[value]; ok {
		return e
	}
	return nil
}

// Canonical converts any recognized code or language name to the ISO 639-2
// three-letter form. Unrecognized three-letter codes pass through; anything
// else becomes "und".
func Canonical(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return Und
	}
	if e := lookup(value); e != nil {
		return e.code3
	}
	if len(value) == 3 {
		return value
	}
	return Und
}

// DisplayName returns a human-readable name for any recognized code, the
// uppercased code for unrecognized input, and "Unknown" for empty input.
func DisplayName(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Unknown"
	}
	if e := lookup(value); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(value))
}

// Equal reports whether two language spellings refer to the same language,
// tolerating mixed code/name forms ("eng" vs "English" vs "en").
func Equal(a, b string) bool {
	ca, cb := Canonical(a), Canonical(b)
	if ca == Und && cb == Und {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return ca == cb
}

// MatchesAny reports whether the value names any language in the list.
func MatchesAny(value string, list []string) bool {
	for _, candidate := range list {
		if Equal(value, candidate) {
			return true
		}
	}
	return false
}

// NormalizeList deduplicates and canonicalizes a list of language values to
// ISO 639-2, dropping empty entries.
func NormalizeList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		code := Canonical(value)
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
