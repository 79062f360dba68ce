package narrative

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jwebster45206/trail1897/pkg/crafting"
	"github.com/jwebster45206/trail1897/pkg/npc"
	"github.com/jwebster45206/trail1897/pkg/state"
)

// ErrServiceMalformed marks narrator replies that do not match the shape a
// caller asked for.
var ErrServiceMalformed = errors.New("malformed narrator reply")

// SchemaError describes why a reply could not be decoded.
type SchemaError struct {
	Kind   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("malformed %s reply: %s", e.Kind, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return ErrServiceMalformed
}

func malformed(kind, format string, args ...any) error {
	return &SchemaError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

const (
	MinItemQuantity = 1
	MaxItemQuantity = 10
)

// DefaultItems is what a scene holds when its items cannot be generated.
func DefaultItems() state.Items {
	return state.Items{"stick": 2, "stone": 3}
}

// DefaultScenePools is used when pools cannot be generated.
func DefaultScenePools() state.ScenePools {
	return state.ScenePools{
		Items: state.Pool{Common: []string{"stick", "stone", "leaf"}, Uncommon: []string{}, Rare: []string{}},
		NPCs:  state.Pool{Common: []string{"traveler"}, Uncommon: []string{}, Rare: []string{}},
	}
}

// ExtractJSON pulls the first JSON object or array out of a reply,
// skipping code fences and any prose around it.
func ExtractJSON(raw string) (string, bool) {
	text := strings.TrimSpace(raw)
	if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		text = strings.TrimSpace(rest)
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
	}
	closer := byte('}')
	if text[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(text, closer)
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func decodeJSON(kind, raw string, v any) error {
	body, ok := ExtractJSON(raw)
	if !ok {
		return malformed(kind, "no JSON found")
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return malformed(kind, "%v", err)
	}
	return nil
}

// DecodeRecipe reads a recipe either as JSON
// {"materials": {"stick": 2}, "description": "..."} or in the line form
// "item: 2 stick, 1 rope - description". A reply of "impossible" yields
// crafting.ErrImpossible.
func DecodeRecipe(raw string) (crafting.Recipe, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return crafting.Recipe{}, malformed("recipe", "empty reply")
	}
	if strings.HasPrefix(strings.ToLower(strings.Trim(text, `"'.`)), "impossible") {
		return crafting.Recipe{}, crafting.ErrImpossible
	}

	if body, ok := ExtractJSON(text); ok && strings.HasPrefix(body, "{") {
		var payload struct {
			Materials   map[string]json.Number `json:"materials"`
			Description string                 `json:"description"`
		}
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			return crafting.Recipe{}, malformed("recipe", "%v", err)
		}
		r := crafting.Recipe{Materials: make(map[string]int), Description: strings.TrimSpace(payload.Description)}
		for name, num := range payload.Materials {
			n, err := strconv.Atoi(num.String())
			if err != nil {
				return crafting.Recipe{}, malformed("recipe", "material %q has count %s", name, num)
			}
			r.Materials[state.NormalizeName(name)] += n
		}
		if err := r.Validate(); err != nil {
			return crafting.Recipe{}, malformed("recipe", "%v", err)
		}
		return r, nil
	}

	return decodeRecipeLine(text)
}

func decodeRecipeLine(text string) (crafting.Recipe, error) {
	line := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return crafting.Recipe{}, malformed("recipe", "expected \"item: materials - description\"")
	}
	details := line[colon+1:]

	materials, description := details, ""
	if i := strings.Index(details, " - "); i >= 0 {
		materials, description = details[:i], details[i+3:]
	} else if i := strings.IndexByte(details, '-'); i >= 0 {
		materials, description = details[:i], details[i+1:]
	}

	r := crafting.Recipe{Materials: make(map[string]int), Description: strings.TrimSpace(description)}
	for _, part := range strings.Split(materials, ",") {
		fields := strings.Fields(part)
		if len(fields) < 2 {
			continue
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n <= 0 {
			continue
		}
		r.Materials[state.NormalizeName(strings.Join(fields[1:], " "))] += n
	}
	if len(r.Materials) == 0 {
		return crafting.Recipe{}, malformed("recipe", "no materials listed")
	}
	return r, nil
}

// DecodeNPC reads one character. Name, type and description are required;
// a vendor inventory must use [quantity, price] pairs.
func DecodeNPC(raw string) (*npc.NPC, error) {
	var n npc.NPC
	if err := decodeJSON("npc", raw, &n); err != nil {
		return nil, err
	}
	if err := n.Validate(); err != nil {
		return nil, malformed("npc", "%v", err)
	}
	n.Disposition = npc.Disposition{}
	return &n, nil
}

// DecodeNPCMentions reads the characters present in a scene. Entries
// without a name, type or description are dropped.
func DecodeNPCMentions(raw string) ([]npc.NPC, error) {
	body, ok := ExtractJSON(raw)
	if !ok || !strings.HasPrefix(body, "[") {
		return nil, malformed("npc mentions", "expected a JSON array")
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(body), &entries); err != nil {
		return nil, malformed("npc mentions", "%v", err)
	}
	out := make([]npc.NPC, 0, len(entries))
	for _, e := range entries {
		var n npc.NPC
		if err := json.Unmarshal(e, &n); err != nil {
			continue
		}
		if n.Validate() != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// DecodeItems reads collectible items, either flat {"item": qty} or grouped
// {"natural_items": {"item": qty}, ...}. Quantities are clamped to 1-10.
func DecodeItems(raw string) (state.Items, error) {
	var top map[string]json.RawMessage
	if err := decodeJSON("items", raw, &top); err != nil {
		return nil, err
	}

	items := make(state.Items)
	for key, value := range top {
		value = bytes.TrimSpace(value)
		if len(value) > 0 && value[0] == '{' {
			var group map[string]float64
			if err := json.Unmarshal(value, &group); err != nil {
				return nil, malformed("items", "group %q: %v", key, err)
			}
			for name, qty := range group {
				addItem(items, name, qty)
			}
			continue
		}
		var qty float64
		if err := json.Unmarshal(value, &qty); err != nil {
			return nil, malformed("items", "item %q has no numeric quantity", key)
		}
		addItem(items, key, qty)
	}
	return items, nil
}

func addItem(items state.Items, name string, qty float64) {
	name = state.NormalizeName(name)
	if name == "" {
		return
	}
	n := int(math.Round(qty))
	if n < MinItemQuantity {
		n = MinItemQuantity
	}
	if n > MaxItemQuantity {
		n = MaxItemQuantity
	}
	if items[name]+n > MaxItemQuantity {
		items[name] = MaxItemQuantity
		return
	}
	items.Increment(name, n)
}

// DecodeScenePools reads item and character pools. Both pools must be
// present.
func DecodeScenePools(raw string) (state.ScenePools, error) {
	var payload struct {
		Items *state.Pool `json:"item_pool"`
		NPCs  *state.Pool `json:"npc_pool"`
	}
	if err := decodeJSON("scene pools", raw, &payload); err != nil {
		return state.ScenePools{}, err
	}
	if payload.Items == nil || payload.NPCs == nil {
		return state.ScenePools{}, malformed("scene pools", "item_pool and npc_pool are required")
	}
	return state.ScenePools{Items: *payload.Items, NPCs: *payload.NPCs}, nil
}

// DecodeAct reads the next act. When no keywords are given they are taken
// from the goal's longer words.
func DecodeAct(raw string) (state.Act, error) {
	var act state.Act
	if err := decodeJSON("act", raw, &act); err != nil {
		return state.Act{}, err
	}
	act.Goal = strings.TrimSpace(act.Goal)
	if act.Goal == "" {
		return state.Act{}, malformed("act", "goal is required")
	}
	if len(act.Scenes) > 3 {
		act.Scenes = act.Scenes[:3]
	}
	if len(act.Keywords) == 0 {
		act.Keywords = goalKeywords(act.Goal)
	}
	act.Completed = false
	return act, nil
}

var goalStopWords = map[string]bool{
	"the": true, "and": true, "from": true, "with": true, "before": true,
	"after": true, "into": true, "find": true, "reach": true, "your": true,
	"their": true, "that": true, "this": true, "over": true,
}

func goalKeywords(goal string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(goal)) {
		w = strings.Trim(w, ".,;:!?'\"")
		if len(w) >= 4 && !goalStopWords[w] {
			out = append(out, w)
		}
	}
	return out
}

// DecodeFrame reads a scene frame rewritten by the narrator. Previous
// scene and location lists keep their usual caps.
func DecodeFrame(raw string) (state.SceneFrame, error) {
	var frame state.SceneFrame
	if err := decodeJSON("frame", raw, &frame); err != nil {
		return state.SceneFrame{}, err
	}
	if strings.TrimSpace(frame.Location) == "" && strings.TrimSpace(frame.SceneText) == "" {
		return state.SceneFrame{}, malformed("frame", "location or scene_text is required")
	}
	if n := len(frame.PreviousScenes); n > state.MaxPreviousScenes {
		frame.PreviousScenes = frame.PreviousScenes[n-state.MaxPreviousScenes:]
	}
	if n := len(frame.PreviousLocations); n > state.MaxPreviousLocations {
		frame.PreviousLocations = frame.PreviousLocations[n-state.MaxPreviousLocations:]
	}
	return frame, nil
}
