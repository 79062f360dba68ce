package crafting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/trail1897/pkg/state"
)

var (
	ErrAnachronistic = errors.New("that belongs to another century")
	ErrInvalidName   = errors.New("not a craftable item name")
	ErrNotCraftable  = errors.New("cannot be crafted from what the trail provides")

	// ErrImpossible is what a Synthesizer returns when it judges an item
	// impossible to make from raw materials.
	ErrImpossible = errors.New("item is impossible to craft")
)

// Anachronisms are terms the resolver refuses outright. Each term is matched
// as a whole word (plurals included), so "steel trap" is refused but
// "carved spoon" is not.
var Anachronisms = []string{
	"car", "phone", "computer", "gun", "metal", "steel", "iron",
	"plastic", "glass", "concrete", "brick", "engine", "machine",
	"battery", "electricity", "robot", "airplane", "tank", "bomb",
}

// Vocabulary is the set of raw materials a synthesized recipe may use.
var Vocabulary = []string{
	"wood", "stone", "stick", "branch", "vine", "leather", "bone", "hide",
	"fiber", "leaf", "bark", "root", "grass", "sinew", "cord", "rope",
	"cloth", "fur", "feather",
}

var stopWords = map[string]bool{"the": true, "and": true, "but": true, "for": true}

const minNameLength = 3

// Synthesizer invents a recipe for an item the book does not know.
type Synthesizer interface {
	SynthesizeRecipe(ctx context.Context, item string, vocabulary []string) (Recipe, error)
}

// Resolver turns an item name into a recipe, learning new ones on demand.
type Resolver struct {
	book   *Book
	synth  Synthesizer
	logger *slog.Logger
}

func NewResolver(book *Book, synth Synthesizer, logger *slog.Logger) *Resolver {
	if book == nil {
		book = NewBook()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{book: book, synth: synth, logger: logger}
}

// Book returns the recipe book the resolver reads and writes.
func (r *Resolver) Book() *Book {
	return r.book
}

// CheckName applies the anachronism and name-shape rules without resolving.
func CheckName(item string) error {
	name := state.NormalizeName(item)
	if IsAnachronism(name) {
		return fmt.Errorf("%s: %w", name, ErrAnachronistic)
	}
	if len(name) < minNameLength || stopWords[name] {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}

// Resolve returns the recipe for item. learned is true when the recipe was
// synthesized by this call and should be persisted.
func (r *Resolver) Resolve(ctx context.Context, item string) (recipe Recipe, learned bool, err error) {
	if err := CheckName(item); err != nil {
		return Recipe{}, false, err
	}
	name := state.NormalizeName(item)

	if existing, ok := r.book.Get(name); ok {
		return existing, false, nil
	}
	if r.synth == nil {
		return Recipe{}, false, fmt.Errorf("%s: %w", name, ErrNotCraftable)
	}

	synthesized, err := r.synth.SynthesizeRecipe(ctx, name, Vocabulary)
	if err != nil {
		if !errors.Is(err, ErrImpossible) {
			r.logger.Warn("Recipe synthesis failed", "item", name, "error", err)
		}
		return Recipe{}, false, fmt.Errorf("%s: %w", name, ErrNotCraftable)
	}
	if err := validateSynthesized(synthesized); err != nil {
		r.logger.Warn("Rejected synthesized recipe", "item", name, "error", err)
		return Recipe{}, false, fmt.Errorf("%s: %w", name, ErrNotCraftable)
	}

	r.book.Learn(name, synthesized)
	stored, _ := r.book.Get(name)
	r.logger.Info("Learned recipe", "item", name, "materials", stored.String())
	return stored, true, nil
}

func validateSynthesized(recipe Recipe) error {
	if err := recipe.Validate(); err != nil {
		return err
	}
	for name := range recipe.Materials {
		if !InVocabulary(name) {
			return fmt.Errorf("material %q is not a trail material", name)
		}
	}
	return nil
}

// IsAnachronism reports whether any word of text is a modern term.
func IsAnachronism(text string) bool {
	for _, word := range strings.FieldsFunc(strings.ToLower(text), isWordSep) {
		for _, term := range Anachronisms {
			if word == term || word == term+"s" || word == term+"es" {
				return true
			}
		}
	}
	return false
}

func isWordSep(r rune) bool {
	return !(r >= 'a' && r <= 'z') && r != '-'
}

// InVocabulary reports whether material names one of the raw materials.
func InVocabulary(material string) bool {
	m := state.NormalizeName(material)
	for _, v := range Vocabulary {
		if strings.Contains(m, v) {
			return true
		}
	}
	return false
}
