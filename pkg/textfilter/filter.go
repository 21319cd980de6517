// Package textfilter keeps facilitator narration family friendly.
// Generated narration passes through the filter before speech
// synthesis when the table is configured for an all-ages session.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// narrationReplacements maps words that should not reach a family
// table to softer alternatives spoken in their place.
var narrationReplacements = map[string]string{
	"fuck":         "fudge",
	"fucking":      "flipping",
	"motherfucker": "mother-trucker",
	"shit":         "shoot",
	"bullshit":     "baloney",
	"horseshit":    "nonsense",
	"damn":         "dang",
	"goddamn":      "gosh-dang",
	"hell":         "heck",
	"ass":          "butt",
	"asshole":      "jerk",
	"dumbass":      "dummy",
	"jackass":      "jerk",
	"badass":       "tough",
	"bitch":        "jerk",
	"bastard":      "scoundrel",
	"crap":         "crud",
	"piss":         "ticked",
	"prick":        "jerk",
	"whore":        "[censored]",
	"slut":         "[censored]",
}

// NarrationFilter replaces profanity in narration text before it is
// synthesized and displayed.
type NarrationFilter struct {
	regexes map[string]*regexp.Regexp
}

func NewNarrationFilter() *NarrationFilter {
	f := &NarrationFilter{
		regexes: make(map[string]*regexp.Regexp, len(narrationReplacements)),
	}
	for word := range narrationReplacements {
		f.regexes[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return f
}

// Filter replaces each flagged word with its softer alternative,
// preserving the case of the original.
func (f *NarrationFilter) Filter(text string) string {
	result := text
	for word, replacement := range narrationReplacements {
		result = f.regexes[word].ReplaceAllStringFunc(result, func(match string) string {
			return preserveCase(match, replacement)
		})
	}
	return result
}

// ContainsProfanity reports whether narration would be altered by the
// filter.
func (f *NarrationFilter) ContainsProfanity(text string) bool {
	for _, regex := range f.regexes {
		if regex.MatchString(text) {
			return true
		}
	}
	return false
}

// preserveCase applies the case pattern of the original word to the
// replacement.
func preserveCase(original, replacement string) string {
	if original == "" {
		return replacement
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return replacement
	}

	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	// Mixed case: carry the pattern over character by character.
	originalRunes := []rune(original)
	result := make([]rune, 0, len(replacement))
	for i, r := range replacement {
		if i < len(originalRunes) && unicode.IsUpper(originalRunes[i]) {
			result = append(result, unicode.ToUpper(r))
		} else {
			result = append(result, unicode.ToLower(r))
		}
	}
	return string(result)
}
