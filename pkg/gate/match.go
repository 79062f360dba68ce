package gate

import (
	"strings"
	"unicode"
)

// words lowercases text and splits it into words of letters, digits,
// hyphens and apostrophes.
func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '\''
	})
}

// actionWords returns the words of input that can carry an action. The
// words after "pick up" name the item being taken, so "pick up the fishing
// line" is not read as fishing.
func actionWords(input string) []string {
	ws := words(input)
	for i := 0; i+1 < len(ws); i++ {
		if ws[i] == "pick" && ws[i+1] == "up" {
			return ws[:i+2]
		}
	}
	return ws
}

// verbForm reports whether word is base or a regular inflection of it:
// "hunts", "hunted", "hunting", "cutting", "tied".
func verbForm(word, base string) bool {
	if word == base {
		return true
	}
	if !strings.HasPrefix(word, base) {
		// "tie" -> "tying" is the one irregular form worth knowing
		if strings.HasSuffix(base, "ie") && word == strings.TrimSuffix(base, "ie")+"ying" {
			return true
		}
		// "hike" -> "hiking", "hiked"
		if strings.HasSuffix(base, "e") {
			stem := strings.TrimSuffix(base, "e")
			return word == stem+"ing" || word == stem+"ed"
		}
		return false
	}
	switch rest := word[len(base):]; rest {
	case "s", "es", "ed", "d", "ing":
		return true
	default:
		last := base[len(base)-1:]
		return rest == last+"ing" || rest == last+"ed"
	}
}

// nounForm reports whether word is base or its plural.
func nounForm(word, base string) bool {
	if word == base || word == base+"s" || word == base+"es" {
		return true
	}
	return strings.HasSuffix(base, "y") && word == strings.TrimSuffix(base, "y")+"ies"
}

// containsPhrase reports whether the word sequence ws contains phrase. The
// final word of the phrase is compared with form so inflections match.
func containsPhrase(ws []string, phrase string, form func(word, base string) bool) bool {
	pw := words(phrase)
	if len(pw) == 0 || len(pw) > len(ws) {
		return false
	}
	for i := 0; i+len(pw) <= len(ws); i++ {
		ok := true
		for k, p := range pw {
			w := ws[i+k]
			if k == len(pw)-1 {
				ok = form(w, p)
			} else {
				ok = w == p
			}
			if !ok {
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// firstVerb returns the first phrase that occurs in ws as a verb.
func firstVerb(ws []string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if containsPhrase(ws, p, verbForm) {
			return p, true
		}
	}
	return "", false
}

// firstNoun returns the first phrase that occurs in ws as a noun.
func firstNoun(ws []string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if containsPhrase(ws, p, nounForm) {
			return p, true
		}
	}
	return "", false
}
