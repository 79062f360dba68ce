package crafting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/trail1897/pkg/state"
)

var ErrMissingMaterials = errors.New("missing materials")

// MissingMaterialsError lists each shortfall as "N material".
type MissingMaterialsError struct {
	Item    string
	Missing []string
}

func (e *MissingMaterialsError) Error() string {
	return fmt.Sprintf("cannot craft %s, missing %s", e.Item, strings.Join(e.Missing, ", "))
}

func (e *MissingMaterialsError) Unwrap() error {
	return ErrMissingMaterials
}

// Substitution records a material that was covered by an equivalent item.
type Substitution struct {
	Material string
	UsedItem string
	Count    int
}

// Result describes a completed craft.
type Result struct {
	Item          string
	Recipe        Recipe
	Learned       bool
	Substitutions []Substitution
	Consumed      state.Items
}

// Craft resolves item, checks every material against inv and, only if all
// are covered, deducts them and adds one crafted item. On any failure inv is
// left exactly as it was.
func (r *Resolver) Craft(ctx context.Context, inv *state.Items, item string) (*Result, error) {
	recipe, learned, err := r.Resolve(ctx, item)
	if err != nil {
		return nil, err
	}
	name := state.NormalizeName(item)

	plan, subs, missing := planMaterials(*inv, recipe)
	if len(missing) > 0 {
		return nil, &MissingMaterialsError{Item: name, Missing: missing}
	}

	// Every decrement below was checked by planMaterials against the
	// aggregated demand, so none of them can fail.
	for _, used := range plan.Names() {
		if err := inv.Decrement(used, plan[used]); err != nil {
			return nil, fmt.Errorf("crafting %s: %w", name, err)
		}
	}
	inv.Increment(name, 1)

	return &Result{
		Item:          name,
		Recipe:        recipe,
		Learned:       learned,
		Substitutions: subs,
		Consumed:      plan,
	}, nil
}

// planMaterials works out which held items would pay for each material.
// Demand is aggregated per held item so two materials that map to the same
// stock cannot both claim it.
func planMaterials(inv state.Items, recipe Recipe) (state.Items, []Substitution, []string) {
	plan := make(state.Items)
	var subs []Substitution
	var missing []string

	for _, material := range recipe.MaterialNames() {
		need := recipe.Materials[material]
		if inv.Count(material)-plan[material] >= need {
			plan[material] += need
			continue
		}
		if alt, ok := findSubstitute(inv, material, need, plan); ok {
			plan[alt] += need
			subs = append(subs, Substitution{Material: material, UsedItem: alt, Count: need})
			continue
		}
		missing = append(missing, fmt.Sprintf("%d %s", need, material))
	}
	return plan, subs, missing
}

// Plan reports what crafting item would consume, without changing inv.
func (r *Resolver) Plan(ctx context.Context, inv state.Items, item string) (Recipe, []Substitution, []string, error) {
	recipe, _, err := r.Resolve(ctx, item)
	if err != nil {
		return Recipe{}, nil, nil, err
	}
	_, subs, missing := planMaterials(inv, recipe)
	return recipe, subs, missing, nil
}
