package crafting

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/trail1897/pkg/state"
)

type stubSynth struct {
	recipe Recipe
	err    error
	calls  []string
}

func (s *stubSynth) SynthesizeRecipe(_ context.Context, item string, _ []string) (Recipe, error) {
	s.calls = append(s.calls, item)
	return s.recipe, s.err
}

func newTestResolver(synth Synthesizer) *Resolver {
	return NewResolver(NewBook(), synth, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolve_Rejections(t *testing.T) {
	synth := &stubSynth{}
	r := newTestResolver(synth)

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"modern word", "steel trap", ErrAnachronistic},
		{"plural modern word", "iron nails and glasses", ErrAnachronistic},
		{"too short", "ax", ErrInvalidName},
		{"stop word", "the", ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := r.Resolve(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, synth.calls, "rejected names must not reach the synthesizer")
}

func TestResolve_WordMatchAnachronism(t *testing.T) {
	assert.False(t, IsAnachronism("carved spoon"))
	assert.False(t, IsAnachronism("tankard"))
	assert.True(t, IsAnachronism("toy car"))
}

func TestResolve_BuiltinDoesNotSynthesize(t *testing.T) {
	synth := &stubSynth{}
	r := newTestResolver(synth)

	recipe, learned, err := r.Resolve(context.Background(), "Snare")
	require.NoError(t, err)
	assert.False(t, learned)
	assert.Equal(t, 2, recipe.Materials["stick"])
	assert.Equal(t, 1, recipe.Materials["vine"])
	assert.Empty(t, synth.calls)
}

func TestResolve_SynthesizesOnce(t *testing.T) {
	synth := &stubSynth{recipe: Recipe{Materials: map[string]int{"Pine Branch": 2, "sinew": 1}, Description: "A walking staff."}}
	r := newTestResolver(synth)

	recipe, learned, err := r.Resolve(context.Background(), "walking staff")
	require.NoError(t, err)
	assert.True(t, learned)
	assert.Equal(t, 2, recipe.Materials["pine branch"])

	_, learned, err = r.Resolve(context.Background(), "walking staff")
	require.NoError(t, err)
	assert.False(t, learned)
	assert.Len(t, synth.calls, 1)
	assert.Contains(t, r.Book().Learned(), "walking staff")
}

func TestResolve_SynthesisFailures(t *testing.T) {
	tests := []struct {
		name  string
		synth *stubSynth
	}{
		{"impossible", &stubSynth{err: ErrImpossible}},
		{"service error", &stubSynth{err: errors.New("boom")}},
		{"material outside vocabulary", &stubSynth{recipe: Recipe{Materials: map[string]int{"wool": 2}}}},
		{"empty recipe", &stubSynth{recipe: Recipe{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(tt.synth)
			_, _, err := r.Resolve(context.Background(), "mystery thing")
			assert.ErrorIs(t, err, ErrNotCraftable)
			assert.Empty(t, r.Book().Learned())
		})
	}
}

func TestFindSubstitute(t *testing.T) {
	inv := state.Items{"branch": 3, "rock": 0}

	got, ok := FindSubstitute(inv, "stick")
	assert.True(t, ok)
	assert.Equal(t, "branch", got)

	_, ok = FindSubstitute(inv, "stone")
	assert.False(t, ok, "zero-count items are not substitutes")

	_, ok = FindSubstitute(state.Items{"stick": 5}, "stick")
	assert.False(t, ok, "a material is never its own substitute")

	// single hop: leather≈hide, hide≈fur, but fur is not a leather substitute
	_, ok = FindSubstitute(state.Items{"fur": 2}, "leather")
	assert.False(t, ok)
}

func TestFindSubstitute_ClassesAreSymmetric(t *testing.T) {
	inv := state.Items{"stick": 1, "stone": 1, "cord": 1, "hide": 1, "leather": 1}

	tests := []struct {
		material string
		want     string
	}{
		{"pole", "stick"},
		{"rock", "stone"},
		{"pebble", "stone"},
		{"string", "cord"},
		{"fur", "hide"},
		{"skin", "leather"},
		{"fabric", "leather"},
		{"sinew", "cord"},
	}
	for _, tt := range tests {
		t.Run(tt.material, func(t *testing.T) {
			got, ok := FindSubstitute(inv, tt.material)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEquivalents(t *testing.T) {
	assert.Equal(t, []string{"branch", "wood", "pole"}, Equivalents("Stick"))
	assert.Equal(t, []string{"stick", "branch", "wood"}, Equivalents("pole"))
	// hide sits in three classes; each member appears once
	assert.Equal(t, []string{"cloth", "fabric", "leather", "skin", "fur"}, Equivalents("hide"))
	assert.Empty(t, Equivalents("feather"))
}

func TestCraft_SubstituteFromClassMember(t *testing.T) {
	r := newTestResolver(nil)
	r.Book().Learn("tent pole", Recipe{Materials: map[string]int{"pole": 1, "rock": 2}})
	inv := state.Items{"stick": 1, "stone": 2}

	result, err := r.Craft(context.Background(), &inv, "tent pole")
	require.NoError(t, err)
	assert.Equal(t, state.Items{"tent pole": 1}, inv)
	assert.Len(t, result.Substitutions, 2)
}

func TestCraft_MissingMaterialsLeavesInventory(t *testing.T) {
	r := newTestResolver(nil)
	inv := state.Items{"branch": 3}

	_, err := r.Craft(context.Background(), &inv, "snare")
	require.Error(t, err)

	var missing *MissingMaterialsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"1 vine"}, missing.Missing)
	assert.ErrorIs(t, err, ErrMissingMaterials)
	assert.Equal(t, state.Items{"branch": 3}, inv)
}

func TestCraft_WithSubstitution(t *testing.T) {
	r := newTestResolver(nil)
	inv := state.Items{"branch": 3, "vine": 1}

	result, err := r.Craft(context.Background(), &inv, "snare")
	require.NoError(t, err)

	assert.Equal(t, state.Items{"branch": 1, "snare": 1}, inv)
	require.Len(t, result.Substitutions, 1)
	assert.Equal(t, Substitution{Material: "stick", UsedItem: "branch", Count: 2}, result.Substitutions[0])
}

func TestCraft_SharedStockNotOverdrawn(t *testing.T) {
	// both materials resolve to "stick"; 3 are needed but only 2 are held
	r := newTestResolver(nil)
	r.Book().Learn("stick bundle", Recipe{Materials: map[string]int{"branch": 1, "wood": 2}})
	inv := state.Items{"stick": 2}

	_, err := r.Craft(context.Background(), &inv, "stick bundle")
	var missing *MissingMaterialsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"2 wood"}, missing.Missing)
	assert.Equal(t, state.Items{"stick": 2}, inv)
}

func TestCraft_ExactMaterialsDeleteEntries(t *testing.T) {
	r := newTestResolver(nil)
	inv := state.Items{"stick": 1, "feather": 1, "stone": 1}

	_, err := r.Craft(context.Background(), &inv, "arrow")
	require.NoError(t, err)
	assert.Equal(t, state.Items{"arrow": 1}, inv)
}

func TestBook_Restore(t *testing.T) {
	b := NewBook()
	n := b.Restore(map[string]Recipe{
		"pack frame": {Materials: map[string]int{"branch": 4, "cord": 2}},
		"snare":      {Materials: map[string]int{"rope": 9}},
		"broken":     {Materials: map[string]int{"stick": 0}},
	})
	assert.Equal(t, 1, n)

	snare, _ := b.Get("snare")
	assert.Equal(t, 2, snare.Materials["stick"], "built-in recipes are never replaced")
}
