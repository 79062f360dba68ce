package crafting

import "github.com/jwebster45206/trail1897/pkg/state"

// classes are the equivalence classes of trail materials. Any member of a
// class can stand in for any other. A material may sit in several classes;
// they are searched in order, members in the order listed. Lookup is a
// single hop: members of a substitute's other classes are not consulted.
var classes = [][]string{
	{"stick", "branch", "wood", "pole"},
	{"rope", "cord", "string", "fiber", "vine"},
	{"cloth", "fabric", "leather", "hide"},
	{"stone", "rock", "pebble"},
	{"leather", "hide", "skin"},
	{"fiber", "string", "thread", "vine"},
	{"bone", "antler", "tusk"},
	{"cord", "sinew"},
	{"hide", "fur"},
}

// Equivalents returns every material that shares a class with material,
// in search order and without duplicates. The material itself is excluded.
func Equivalents(material string) []string {
	key := state.NormalizeName(material)
	seen := map[string]bool{key: true}
	var out []string
	for _, class := range classes {
		if !contains(class, key) {
			continue
		}
		for _, m := range class {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// FindSubstitute returns the first equivalent of material that the
// inventory holds at least one of. The material itself is never returned.
func FindSubstitute(inv state.Items, material string) (string, bool) {
	return findSubstitute(inv, material, 1, nil)
}

// findSubstitute returns the first equivalent with at least need units left
// after the units already claimed in reserved.
func findSubstitute(inv state.Items, material string, need int, reserved map[string]int) (string, bool) {
	for _, alt := range Equivalents(material) {
		if inv.Count(alt)-reserved[alt] >= need {
			return alt, true
		}
	}
	return "", false
}
