package npc

import "strings"

// mentionTypes maps words that may appear in scene text to the kind of
// character they suggest. Order matters: the first hit wins.
var mentionTypes = []struct {
	word string
	kind string
}{
	{"dog", "animal"},
	{"merchant", TypeVendor},
	{"trader", TypeVendor},
	{"peddler", TypeVendor},
	{"vendor", TypeVendor},
	{"hunter", TypeHunter},
	{"guide", TypeGuide},
	{"blacksmith", "craftsman"},
	{"doctor", "healer"},
	{"shepherd", "animal_handler"},
	{"farmer", "settler"},
	{"traveler", TypeTraveler},
	{"hiker", TypeTraveler},
}

// TypeFromMention guesses a character type from free text. It returns
// false when nothing in the text suggests a person.
func TypeFromMention(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, m := range mentionTypes {
		if strings.Contains(lower, m.word) {
			return m.kind, true
		}
	}
	return "", false
}

// farewells end a conversation when they appear anywhere in the input.
var farewells = []string{"goodbye", "bye", "leave", "farewell"}

// IsFarewell reports whether input ends the current conversation.
func IsFarewell(input string) bool {
	lower := strings.ToLower(input)
	for _, f := range farewells {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}
