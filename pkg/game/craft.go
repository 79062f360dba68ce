package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/trail1897/pkg/crafting"
	"github.com/jwebster45206/trail1897/pkg/state"
)

func (s *Session) cmdCraft(ctx context.Context, t *Turn, args string) {
	item := state.NormalizeName(args)
	if item == "" {
		t.system("Please specify a valid item to craft.")
		return
	}

	if _, known := s.resolver.Book().Get(item); !known && crafting.CheckName(item) == nil {
		t.systemf("Attempting to devise a way to craft '%s' using available materials...", item)
	}
	_, learned, err := s.resolver.Resolve(ctx, item)
	if err != nil {
		s.reportCraftError(t, item, err)
		return
	}
	if learned {
		t.systemf("Figured out how to craft %s.", item)
		s.saveRecipes(ctx)
	}

	result, err := s.resolver.Craft(ctx, &s.gs.Player.Inventory, item)
	if err != nil {
		s.reportCraftError(t, item, err)
		return
	}
	if len(result.Substitutions) > 0 {
		subs := make([]string, len(result.Substitutions))
		for i, sub := range result.Substitutions {
			subs[i] = fmt.Sprintf("%s → %s", sub.Material, sub.UsedItem)
		}
		t.system("Crafted using substitutions: " + strings.Join(subs, ", "))
	}
	t.systemf("You successfully crafted a %s.", result.Item)
	s.logger.Info("Crafted item", "item", result.Item, "consumed", result.Consumed.String())
}

func (s *Session) reportCraftError(t *Turn, item string, err error) {
	var missing *crafting.MissingMaterialsError
	switch {
	case errors.As(err, &missing):
		t.systemf("You need %s to craft %s.", strings.Join(missing.Missing, ", "), item)
	case errors.Is(err, crafting.ErrAnachronistic):
		t.systemf("'%s' cannot be crafted with 1897 technology and available materials.", item)
	case errors.Is(err, crafting.ErrInvalidName):
		t.system("Please specify a valid item to craft.")
	default:
		if !errors.Is(err, crafting.ErrNotCraftable) {
			s.logger.Error("Crafting failed", "item", item, "error", err)
		}
		t.systemf("Unable to figure out how to craft '%s' with available materials.", item)
	}
}
