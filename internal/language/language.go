package language

import (
	"fmt"
	"sort"
	"strings"

	"recut/internal/services"
)

type entry struct {
	code2   string // ISO 639-1 (2-letter)
	code3   string // ISO 639-2 primary (3-letter)
	alt3    string // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string // Human-readable name
}

var languages = []entry{
	{"cs", "ces", "cze", "Czech"},
	{"da", "dan", "", "Danish"},
	{"de", "deu", "ger", "German"},
	{"el", "ell", "gre", "Greek"},
	{"en", "eng", "", "English"},
	{"es", "spa", "", "Spanish"},
	{"fi", "fin", "", "Finnish"},
	{"fr", "fra", "fre", "French"},
	{"he", "heb", "", "Hebrew"},
	{"hr", "hrv", "", "Croatian"},
	{"hu", "hun", "", "Hungarian"},
	{"it", "ita", "", "Italian"},
	{"ja", "jpn", "", "Japanese"},
	{"ko", "kor", "", "Korean"},
	{"nl", "nld", "dut", "Dutch"},
	{"no", "nor", "", "Norwegian"},
	{"pl", "pol", "", "Polish"},
	{"pt", "por", "", "Portuguese"},
	{"ru", "rus", "", "Russian"},
	{"sl", "slv", "", "Slovenian"},
	{"sv", "swe", "", "Swedish"},
	{"tr", "tur", "", "Turkish"},
	{"zh", "zho", "chi", "Chinese"},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
	}
}

// ISO6392 converts a two-letter code into its primary three-letter
// ISO 639-2 tag. A code outside the supported set is a configuration error,
// never a silent fallback.
func ISO6392(code string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if e, ok := byCode2[normalized]; ok {
		return e.code3, nil
	}
	return "", fmt.Errorf("%w: unsupported language code %q", services.ErrConfiguration, code)
}

// Supported reports whether the two-letter code has a known ISO 639-2 tag.
func Supported(code string) bool {
	_, err := ISO6392(code)
	return err == nil
}

// Matches reports whether a stream's declared language tag names the same
// language as the configured two-letter code. Both the terminology and
// bibliographic ISO 639-2 forms are accepted (e.g. "fra" and "fre").
func Matches(tag, code string) bool {
	e, ok := byCode2[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return false
	}
	tag = strings.ToLower(strings.TrimSpace(tag))
	return tag != "" && (tag == e.code3 || tag == e.alt3)
}

// DisplayName returns a human-readable language name for any recognized
// two- or three-letter code, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return "Unknown"
	}
	if e, ok := byCode2[normalized]; ok {
		return e.display
	}
	if e, ok := byCode3[normalized]; ok {
		return e.display
	}
	return strings.ToUpper(normalized)
}

// Codes returns the supported two-letter codes in sorted order.
func Codes() []string {
	out := make([]string, 0, len(byCode2))
	for code := range byCode2 {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
