// Package safety implements the keyword crisis gate that runs before any
// generator call, together with the fixed safety message returned when it
// fires.
//
// The gate is a best-effort substring match against a fixed list. It is not a
// classifier: keywords embedded in unrelated words match, and paraphrases or
// unlisted synonyms do not.
package safety

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// crisisKeywords covers direct terms and the spaced/unspaced variants of the
// common phrases ("want to die", "want to disappear", "want to end it",
// "don't want to live").
var crisisKeywords = []string{
	"자살",
	"자해",
	"죽고 싶",
	"죽고싶",
	"극단적 선택",
	"유서",
	"목숨",
	"사라지고 싶",
	"사라지고싶",
	"손목",
	"투신",
	"끝내고 싶",
	"끝내고싶",
	"살기 싫",
	"살기싫",
	"suicide",
	"self-harm",
	"self harm",
	"kill myself",
	"want to die",
	"end my life",
}

// normalizedKeywords holds crisisKeywords after the same normalization that
// Detect applies to its input.
var normalizedKeywords = func() []string {
	out := make([]string, 0, len(crisisKeywords))
	for _, k := range crisisKeywords {
		out = append(out, normalize(k))
	}
	return out
}()

// Detect reports whether text contains any crisis keyword. Empty input is
// never a crisis. Detect is pure and safe for concurrent use.
func Detect(text string) bool {
	if text == "" {
		return false
	}
	s := normalize(text)
	if s == "" {
		return false
	}
	for _, k := range normalizedKeywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Keywords returns a copy of the keyword list.
func Keywords() []string {
	out := make([]string, len(crisisKeywords))
	copy(out, crisisKeywords)
	return out
}

// normalize composes Hangul (NFC) so decomposed jamo input matches, then
// lowercases and trims.
func normalize(s string) string {
	// cases.Caser is stateful; one per call.
	lower := cases.Lower(language.Und)
	return strings.TrimSpace(lower.String(norm.NFC.String(s)))
}
