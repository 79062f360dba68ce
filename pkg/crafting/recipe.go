package crafting

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jwebster45206/trail1897/pkg/state"
)

// Recipe lists the materials consumed to make one unit of an item.
type Recipe struct {
	Materials   map[string]int `json:"materials"`
	Description string         `json:"description"`
}

// Validate checks that a recipe can be used for crafting.
func (r Recipe) Validate() error {
	if len(r.Materials) == 0 {
		return fmt.Errorf("recipe has no materials")
	}
	for name, n := range r.Materials {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("recipe has an unnamed material")
		}
		if n <= 0 {
			return fmt.Errorf("material %q has non-positive count %d", name, n)
		}
	}
	return nil
}

// MaterialNames returns the material names in sorted order.
func (r Recipe) MaterialNames() []string {
	names := make([]string, 0, len(r.Materials))
	for name := range r.Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders the materials as "2 stick, 1 vine".
func (r Recipe) String() string {
	parts := make([]string, 0, len(r.Materials))
	for _, name := range r.MaterialNames() {
		parts = append(parts, fmt.Sprintf("%d %s", r.Materials[name], name))
	}
	return strings.Join(parts, ", ")
}

func normalizeRecipe(r Recipe) Recipe {
	out := Recipe{Materials: make(map[string]int, len(r.Materials)), Description: strings.TrimSpace(r.Description)}
	for name, n := range r.Materials {
		out.Materials[state.NormalizeName(name)] += n
	}
	return out
}

// BuiltinRecipes are known from the start of every game.
func BuiltinRecipes() map[string]Recipe {
	return map[string]Recipe{
		"snare":        {Materials: map[string]int{"stick": 2, "vine": 1}, Description: "A simple loop trap for small game."},
		"torch":        {Materials: map[string]int{"stick": 1, "cloth": 1}, Description: "A rag-wrapped stick that burns for an hour."},
		"fishing line": {Materials: map[string]int{"fiber": 2}, Description: "Twisted plant fiber, thin and strong."},
		"rope":         {Materials: map[string]int{"fiber": 3}, Description: "A short length of braided rope."},
		"splint":       {Materials: map[string]int{"stick": 2, "cloth": 1}, Description: "Keeps a hurt limb straight."},
		"sling":        {Materials: map[string]int{"leather": 1, "cord": 2}, Description: "A pouch and two cords for hurling stones."},
		"lean-to":      {Materials: map[string]int{"branch": 6, "leaf": 4}, Description: "A rough shelter against the rain."},
		"bow":          {Materials: map[string]int{"branch": 1, "sinew": 1}, Description: "A crude hunting bow."},
		"arrow":        {Materials: map[string]int{"stick": 1, "feather": 1, "stone": 1}, Description: "A fletched arrow with a knapped point."},
	}
}

// Book holds every recipe the hiker knows. Recipes learned during play are
// tracked separately so they can be persisted.
type Book struct {
	mu      sync.RWMutex
	recipes map[string]Recipe
	learned map[string]bool
}

// NewBook returns a book seeded with the built-in recipes.
func NewBook() *Book {
	b := &Book{
		recipes: make(map[string]Recipe),
		learned: make(map[string]bool),
	}
	for name, r := range BuiltinRecipes() {
		b.recipes[name] = normalizeRecipe(r)
	}
	return b
}

// Get looks up a recipe by item name.
func (b *Book) Get(item string) (Recipe, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.recipes[state.NormalizeName(item)]
	return r, ok
}

// Learn records a recipe discovered during play. Existing recipes are
// never replaced.
func (b *Book) Learn(item string, r Recipe) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := state.NormalizeName(item)
	if _, exists := b.recipes[key]; exists {
		return false
	}
	b.recipes[key] = normalizeRecipe(r)
	b.learned[key] = true
	return true
}

// Learned returns a copy of the recipes learned during play.
func (b *Book) Learned() map[string]Recipe {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]Recipe, len(b.learned))
	for name := range b.learned {
		out[name] = b.recipes[name]
	}
	return out
}

// Restore loads previously learned recipes, skipping any that are invalid.
func (b *Book) Restore(recipes map[string]Recipe) int {
	n := 0
	for name, r := range recipes {
		if r.Validate() != nil {
			continue
		}
		if b.Learn(name, r) {
			n++
		}
	}
	return n
}

// Names returns every known item name in sorted order.
func (b *Book) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.recipes))
	for name := range b.recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
