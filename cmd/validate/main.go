package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jwebster45206/trail1897/internal/storage"
	"github.com/jwebster45206/trail1897/pkg/crafting"
	"github.com/jwebster45206/trail1897/pkg/gate"
	"github.com/jwebster45206/trail1897/pkg/npc"
	"github.com/jwebster45206/trail1897/pkg/state"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <file>...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Checks %s.json, %s.json, %s.json and .ini rule files.\n",
			storage.KeyRecipes, storage.KeyCharacters, storage.KeyFrame)
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		validator := &Validator{}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid!\n", filename)
	}
	if failed {
		os.Exit(1)
	}
}

// Validator checks a data file written by the game or edited by hand.
type Validator struct {
	errors []string
}

func (v *Validator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	if strings.EqualFold(filepath.Ext(filename), ".ini") {
		_, err := gate.LoadRulesINI(filename)
		return err
	}

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("data file must have .json or .ini extension: %s", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	v.errors = nil
	switch strings.TrimSuffix(baseName, ".json") {
	case storage.KeyRecipes:
		var recipes map[string]crafting.Recipe
		if err := decodeStrict(data, &recipes); err != nil {
			return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
		}
		v.validateRecipes(recipes)
	case storage.KeyCharacters:
		var npcs map[string]*npc.NPC
		if err := decodeStrict(data, &npcs); err != nil {
			return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
		}
		v.validateCharacters(npcs)
	case storage.KeyFrame:
		var frame state.SceneFrame
		if err := decodeStrict(data, &frame); err != nil {
			return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
		}
		v.validateFrame(&frame)
	default:
		return fmt.Errorf("unrecognized data file %s", baseName)
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func decodeStrict(data []byte, v any) error {
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func (v *Validator) validateRecipes(recipes map[string]crafting.Recipe) {
	for _, item := range sortedKeys(recipes) {
		r := recipes[item]
		if item != state.NormalizeName(item) {
			v.addError(fmt.Sprintf("recipe %q should be lowercase with single spaces", item))
		}
		if err := crafting.CheckName(item); err != nil {
			v.addError(fmt.Sprintf("recipe %q: %v", item, err))
		}
		if err := r.Validate(); err != nil {
			v.addError(fmt.Sprintf("recipe %q: %v", item, err))
			continue
		}
		for material := range r.Materials {
			if !crafting.InVocabulary(material) {
				v.addError(fmt.Sprintf("recipe %q uses %q which is not a trail material", item, material))
			}
		}
	}
}

func (v *Validator) validateCharacters(npcs map[string]*npc.NPC) {
	names := make(map[string]string)
	for _, id := range sortedKeys(npcs) {
		n := npcs[id]
		if n == nil {
			v.addError(fmt.Sprintf("character %s is null", id))
			continue
		}
		if err := n.Validate(); err != nil {
			v.addError(fmt.Sprintf("character %s: %v", id, err))
		}
		key := strings.ToLower(n.Name)
		if other, dup := names[key]; dup && key != "" {
			v.addError(fmt.Sprintf("characters %s and %s share the name %q", other, id, n.Name))
		}
		names[key] = id
		if len(n.Inventory) > 0 && !n.IsVendor() {
			v.addError(fmt.Sprintf("character %s has stock but is not a vendor type (%q)", id, n.Type))
		}
	}
}

func (v *Validator) validateFrame(f *state.SceneFrame) {
	if len(f.PreviousScenes) > state.MaxPreviousScenes {
		v.addError(fmt.Sprintf("frame keeps %d previous scenes, at most %d allowed", len(f.PreviousScenes), state.MaxPreviousScenes))
	}
	if len(f.PreviousLocations) > state.MaxPreviousLocations {
		v.addError(fmt.Sprintf("frame keeps %d previous locations, at most %d allowed", len(f.PreviousLocations), state.MaxPreviousLocations))
	}
}

func (v *Validator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
