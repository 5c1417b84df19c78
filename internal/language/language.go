package language

import (
	"fmt"
	"strings"

	xlang "golang.org/x/text/language"
)

// Base is the language every line is authored in. Caption tracks fall back
// to it when a translation is missing.
const Base = "en"

type entry struct {
	code    string // ISO 639-1
	display string
}

// Caption order is significant: tracks are rendered and listed in this order.
var captionLanguages = []entry{
	{"en", "English"},
	{"es", "Spanish"},
	{"fr", "French"},
	{"de", "German"},
	{"pt", "Portuguese"},
	{"ja", "Japanese"},
	{"ko", "Korean"},
	{"zh", "Chinese"},
	{"ar", "Arabic"},
}

var byCode map[string]*entry

func init() {
	byCode = make(map[string]*entry, len(captionLanguages))
	for i := range captionLanguages {
		byCode[captionLanguages[i].code] = &captionLanguages[i]
	}
}

// Supported returns the caption language codes in render order.
func Supported() []string {
	codes := make([]string, 0, len(captionLanguages))
	for _, e := range captionLanguages {
		codes = append(codes, e.code)
	}
	return codes
}

// IsSupported reports whether code (after normalization) has a caption track.
func IsSupported(code string) bool {
	normalized, err := Normalize(code)
	if err != nil {
		return false
	}
	_, ok := byCode[normalized]
	return ok
}

// Normalize parses code as a BCP 47 tag and returns its ISO 639-1 base.
// Regions and scripts are discarded.
func Normalize(code string) (string, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "", fmt.Errorf("language code is empty")
	}
	tag, err := xlang.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse language %q: %w", code, err)
	}
	base, confidence := tag.Base()
	if confidence == xlang.No {
		return "", fmt.Errorf("language %q has no recognizable base", code)
	}
	return base.String(), nil
}

// DisplayName returns a human-readable name for a supported code, or the
// uppercased code otherwise.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if normalized, err := Normalize(code); err == nil {
		if e, ok := byCode[normalized]; ok {
			return e.display
		}
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeList normalizes and deduplicates codes, preserving first-seen
// order. Unparseable entries are returned in the error.
func NormalizeList(codes []string) ([]string, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	normalized := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		value, err := Normalize(code)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		normalized = append(normalized, value)
	}
	return normalized, nil
}
