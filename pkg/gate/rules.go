package gate

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Requirement ties an action phrase to the items it needs.
type Requirement struct {
	Action string
	Items  []string
}

// ToolRule ties a tool to the verbs that imply using it.
type ToolRule struct {
	Tool     string
	Triggers []string
}

// SimilarClass groups names that a pickup request may use for one another.
type SimilarClass struct {
	Base     string
	Variants []string
}

// Rules are the lookup tables the gate checks input against. Tables are
// ordered slices so the first match is deterministic.
type Rules struct {
	Requirements    []Requirement
	Tools           []ToolRule
	Impossible      []string
	Movement        []string
	Unpickable      []string
	Living          []string
	Similar         []SimilarClass
	ExhaustedHealth int
	HungryEnergy    int
}

// DefaultRules returns the built-in tables.
//
// Verbs that imply a tool ("cut", "chop", "shoot", "fish") live only in the
// tool table. "fire" is not a bow trigger so that "make fire" reads as
// fire-making. Movement verbs carry no item requirement, so travel is only
// ever refused on fitness.
func DefaultRules() *Rules {
	return &Rules{
		Requirements: []Requirement{
			{"hunt", []string{"flint and steel"}},
			{"make fire", []string{"flint and steel"}},
			{"cook", []string{"flint and steel"}},
			{"light", []string{"flint and steel"}},
			{"treat", []string{"first aid supplies"}},
			{"bandage", []string{"first aid supplies"}},
			{"navigate", []string{"compass", "map"}},
			{"drink", []string{"water canteen"}},
			{"fill", []string{"water canteen"}},
			{"clean", []string{"water canteen"}},
			{"saw through", []string{"saw"}},
			{"stitch", []string{"first aid supplies", "needle"}},
			{"repair", []string{"needle", "thread"}},
			{"whittle", []string{"knife"}},
			{"skin", []string{"knife"}},
			{"filter", []string{"cloth"}},
		},
		Tools: []ToolRule{
			{"bow", []string{"shoot", "aim"}},
			{"knife", []string{"cut", "slice", "carve"}},
			{"axe", []string{"chop", "split", "hack"}},
			{"rope", []string{"tie", "bind", "secure"}},
			{"fishing line", []string{"fish", "catch"}},
		},
		Impossible: []string{"fly", "teleport", "swim", "dive", "build", "create", "craft"},
		Movement:   []string{"go", "walk", "follow", "climb", "hike"},
		Unpickable: []string{
			"tree", "mountain", "path", "trail", "river", "stream", "rock formation",
			"view", "mountain range", "forest", "ground", "sky", "sun", "moon",
			"building", "cabin", "shelter", "boulder", "cliff", "lake", "pond",
			"hill", "cloud", "star", "fence", "wall", "house",
		},
		Living: []string{"bird", "animal", "snake", "deer", "bear", "fox", "rabbit", "fish"},
		Similar: []SimilarClass{
			{"stick", []string{"branch", "twig", "wood"}},
			{"stone", []string{"rock", "pebble", "boulder"}},
			{"herb", []string{"plant", "flower"}},
			{"berry", []string{"berries", "fruit"}},
			{"mushroom", []string{"fungi", "fungus"}},
			{"vine", []string{"creeper", "rope"}},
			{"wood", []string{"log", "timber", "stick"}},
			{"leaf", []string{"leaves", "foliage"}},
			{"root", []string{"roots", "tuber"}},
			{"bark", []string{"tree bark", "bark pieces"}},
		},
		ExhaustedHealth: 20,
		HungryEnergy:    10,
	}
}

// LoadRulesINI reads rule tables from an INI file. Sections that are
// present replace the matching default table; absent sections keep the
// defaults.
//
//	[requirements]
//	navigate = compass, map
//	[tools]
//	fishing line = fish, catch
//	[impossible]
//	words = fly, teleport
//	[thresholds]
//	exhausted_health = 20
func LoadRulesINI(path string) (*Rules, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules file %s: %w", path, err)
	}
	rules := DefaultRules()

	if cfg.HasSection("requirements") {
		rules.Requirements = nil
		for _, key := range cfg.Section("requirements").Keys() {
			rules.Requirements = append(rules.Requirements, Requirement{Action: key.Name(), Items: key.Strings(",")})
		}
	}
	if cfg.HasSection("tools") {
		rules.Tools = nil
		for _, key := range cfg.Section("tools").Keys() {
			rules.Tools = append(rules.Tools, ToolRule{Tool: key.Name(), Triggers: key.Strings(",")})
		}
	}
	if cfg.HasSection("similar") {
		rules.Similar = nil
		for _, key := range cfg.Section("similar").Keys() {
			rules.Similar = append(rules.Similar, SimilarClass{Base: key.Name(), Variants: key.Strings(",")})
		}
	}
	for name, list := range map[string]*[]string{
		"impossible": &rules.Impossible,
		"movement":   &rules.Movement,
		"unpickable": &rules.Unpickable,
		"living":     &rules.Living,
	} {
		if cfg.HasSection(name) {
			*list = cfg.Section(name).Key("words").Strings(",")
		}
	}
	if cfg.HasSection("thresholds") {
		sec := cfg.Section("thresholds")
		rules.ExhaustedHealth = sec.Key("exhausted_health").MustInt(rules.ExhaustedHealth)
		rules.HungryEnergy = sec.Key("hungry_energy").MustInt(rules.HungryEnergy)
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return rules, nil
}

// Validate checks the tables for entries that could never match.
func (r *Rules) Validate() error {
	for _, req := range r.Requirements {
		if len(words(req.Action)) == 0 || len(req.Items) == 0 {
			return fmt.Errorf("requirement %q needs an action and at least one item", req.Action)
		}
	}
	for _, tool := range r.Tools {
		if len(tool.Triggers) == 0 {
			return fmt.Errorf("tool %q has no trigger verbs", tool.Tool)
		}
	}
	if r.ExhaustedHealth < 0 || r.HungryEnergy < 0 {
		return fmt.Errorf("thresholds cannot be negative")
	}
	return nil
}
