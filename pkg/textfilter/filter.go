package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// modernisms maps words that break the 1897 setting to period alternatives.
var modernisms = map[string]string{
	"okay":       "all right",
	"ok":         "all right",
	"guys":       "folks",
	"cool":       "fine",
	"awesome":    "grand",
	"flashlight": "lantern",
	"backpack":   "rucksack",
	"sneakers":   "boots",
	"phone":      "letter",
	"cellphone":  "letter",
	"selfie":     "sketch",
	"gps":        "compass",
	"car":        "wagon",
	"truck":      "wagon",
	"highway":    "wagon road",
	"parking":    "hitching",
	"plastic":    "oilcloth",
}

// PeriodFilter replaces modern words in generated text.
type PeriodFilter struct {
	regexes map[string]*regexp.Regexp
}

// NewPeriodFilter creates a new filter with its patterns compiled.
func NewPeriodFilter() *PeriodFilter {
	pf := &PeriodFilter{
		regexes: make(map[string]*regexp.Regexp, len(modernisms)),
	}
	for word := range modernisms {
		pf.regexes[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return pf
}

// FilterText replaces modern words with period alternatives, keeping the
// case pattern of the original word.
func (pf *PeriodFilter) FilterText(text string) string {
	result := text
	for word, regex := range pf.regexes {
		replacement := modernisms[word]
		result = regex.ReplaceAllStringFunc(result, func(match string) string {
			return preserveCase(match, replacement)
		})
	}
	return result
}

// ContainsModernisms reports whether any modern word appears in text.
func (pf *PeriodFilter) ContainsModernisms(text string) bool {
	for _, regex := range pf.regexes {
		if regex.MatchString(text) {
			return true
		}
	}
	return false
}

// preserveCase applies the case pattern of the original word to the replacement
func preserveCase(original, replacement string) string {
	if len(original) == 0 {
		return replacement
	}

	if strings.ToUpper(original) == original && len(original) > 1 {
		return strings.ToUpper(replacement)
	}

	if strings.ToLower(original) == original {
		return strings.ToLower(replacement)
	}

	// Title case
	if unicode.IsUpper([]rune(original)[0]) {
		return CapitalizeFirst(strings.ToLower(replacement))
	}

	return replacement
}

var leadingYou = regexp.MustCompile(`(?i)^(you|your)\s+`)

// StripSecondPerson removes any leading "You" or "Your" from narration and
// capitalizes what is left.
func StripSecondPerson(text string) string {
	text = strings.TrimSpace(text)
	for leadingYou.MatchString(text) {
		text = leadingYou.ReplaceAllString(text, "")
	}
	return CapitalizeFirst(text)
}

// CapitalizeFirst upper-cases the first word's first letter only.
func CapitalizeFirst(text string) string {
	if text == "" {
		return text
	}
	idx := strings.IndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		idx = len(text)
	}
	caser := cases.Title(language.English, cases.NoLower)
	return caser.String(text[:idx]) + text[idx:]
}

// Sentences trims text to at most n sentences.
func Sentences(text string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			next := i + 1
			if next == len(text) || text[next] == ' ' || text[next] == '\n' || text[next] == '"' {
				count++
				if count == n {
					end := next
					if end < len(text) && text[end] == '"' {
						end++
					}
					return strings.TrimSpace(text[:end])
				}
			}
		}
	}
	return strings.TrimSpace(text)
}

// CleanNarration is the standard pass applied to every piece of generated
// narration before it is shown.
func CleanNarration(pf *PeriodFilter, text string) string {
	text = StripSecondPerson(text)
	if pf != nil {
		text = pf.FilterText(text)
	}
	return text
}
