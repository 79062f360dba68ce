package gate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jwebster45206/trail1897/pkg/state"
)

// PickupRequest is a parsed "pick up [N] item" phrase.
type PickupRequest struct {
	Item     string
	Quantity int
}

var articles = map[string]bool{"a": true, "an": true, "the": true, "some": true}

// ParsePickup extracts the target and quantity from free text containing
// "pick up". An unparsable quantity defaults to 1.
func ParsePickup(input string) (PickupRequest, bool) {
	lower := strings.ToLower(input)
	idx := strings.Index(lower, "pick up")
	if idx < 0 {
		return PickupRequest{}, false
	}
	rest := strings.Fields(lower[idx+len("pick up"):])
	req := PickupRequest{Quantity: 1}
	if len(rest) > 0 {
		if n, err := strconv.Atoi(rest[0]); err == nil && n > 0 {
			req.Quantity = n
			rest = rest[1:]
		}
	}
	for len(rest) > 0 && articles[rest[0]] {
		rest = rest[1:]
	}
	req.Item = state.NormalizeName(strings.Trim(strings.Join(rest, " "), ".,!?"))
	return req, true
}

// Pickable reports whether item is something a hiker could carry. Single
// word denylist entries are compared with the item's last word, so "oak
// tree" is refused while "tree bark" is not.
func (g *Gate) Pickable(item string) bool {
	ws := words(item)
	if len(ws) == 0 {
		return false
	}
	head := ws[len(ws)-1]
	for _, list := range [][]string{g.rules.Unpickable, g.rules.Living} {
		for _, entry := range list {
			ew := words(entry)
			if len(ew) == 1 {
				if nounForm(head, ew[0]) {
					return false
				}
				continue
			}
			if containsPhrase(ws, entry, nounForm) {
				return false
			}
		}
	}
	return true
}

// MatchEnvironment finds the environment entry a pickup target refers to:
// the exact name, its singular, or a member of the same similarity class.
func (g *Gate) MatchEnvironment(env state.Items, target string) (string, bool) {
	name := state.NormalizeName(target)
	if name == "" {
		return "", false
	}
	candidates := append([]string{name}, singulars(name)...)
	for _, c := range candidates {
		if key, ok := envKey(env, c); ok {
			return key, true
		}
	}
	for _, c := range candidates {
		for _, class := range g.rules.Similar {
			members := append([]string{class.Base}, class.Variants...)
			if !contains(members, c) {
				continue
			}
			for _, m := range members {
				if key, ok := envKey(env, m); ok {
					return key, true
				}
			}
		}
	}
	return "", false
}

// CheckPickup resolves req against env and checks it can be taken. It
// returns the environment key that matched.
func (g *Gate) CheckPickup(req PickupRequest, env state.Items) (string, *Denial) {
	key, ok := g.MatchEnvironment(env, req.Item)
	if !ok {
		return "", &Denial{
			Reason:  NoSuchItem,
			Subject: req.Item,
			Message: fmt.Sprintf("There is no %s here to pick up.", displayName(req.Item)),
		}
	}
	if !g.Pickable(key) {
		return key, &Denial{
			Reason:  NotPickable,
			Subject: key,
			Message: fmt.Sprintf("You cannot pick up the %s.", key),
		}
	}
	if req.Quantity > env.Count(key) {
		return key, &Denial{
			Reason:  InsufficientStock,
			Subject: key,
			Message: fmt.Sprintf("There aren't that many %s available.", key),
		}
	}
	return key, nil
}

func envKey(env state.Items, name string) (string, bool) {
	if env.Count(name) > 0 {
		return name, true
	}
	for _, key := range env.Names() {
		if nounForm(key, name) {
			return key, true
		}
	}
	return "", false
}

// singulars returns the plausible singular forms of a plural name.
func singulars(name string) []string {
	var out []string
	if strings.HasSuffix(name, "ies") {
		out = append(out, strings.TrimSuffix(name, "ies")+"y")
	}
	if strings.HasSuffix(name, "es") {
		out = append(out, strings.TrimSuffix(name, "es"))
	}
	if strings.HasSuffix(name, "s") && len(name) > 1 {
		out = append(out, strings.TrimSuffix(name, "s"))
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

func displayName(item string) string {
	if item == "" {
		return "such thing"
	}
	return item
}
