package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/trail1897/pkg/gate"
	"github.com/jwebster45206/trail1897/pkg/state"
)

// usageHints are shown when something useful is picked up.
var usageHints = []struct {
	keyword string
	hint    string
}{
	{"flint", "could be useful for starting fires"},
	{"rope", "might help with climbing or crafting"},
	{"knife", "good for cutting and crafting"},
	{"berries", "can be eaten to restore food"},
	{"mushroom", "might be edible if you're sure they're safe"},
	{"herb", "could have medicinal properties"},
}

// foodValues is the energy restored by eating an item whose name contains
// the keyword.
var foodValues = []struct {
	keyword string
	energy  int
}{
	{"meat", 20},
	{"fish", 20},
	{"jerky", 15},
	{"bread", 15},
	{"biscuit", 10},
	{"berries", 10},
	{"berry", 10},
	{"apple", 10},
	{"nut", 5},
	{"mushroom", 5},
	{"food", 20},
}

func foodValue(item string) int {
	for _, f := range foodValues {
		if strings.Contains(item, f.keyword) {
			return f.energy
		}
	}
	return 0
}

// cmdPickup moves units of one scene item into the pack. "/pickup 3 stick"
// takes three; the default is one.
func (s *Session) cmdPickup(_ context.Context, t *Turn, args string) {
	if args == "" {
		t.system("What would you like to pick up?")
		return
	}
	req, _ := gate.ParsePickup("pick up " + args)
	s.pickup(t, req)
}

func (s *Session) pickup(t *Turn, req gate.PickupRequest) {
	env := s.gs.Environment
	key, denial := s.gate.CheckPickup(req, env)
	if denial != nil {
		if denial.Reason == gate.NoSuchItem {
			t.systemf("There is no %s or anything similar here to pick up.", req.Item)
			return
		}
		t.system(denial.Message)
		return
	}

	// CheckPickup confirmed the stock, so the move cannot fail.
	if err := env.Decrement(key, req.Quantity); err != nil {
		s.logger.Error("Pickup lost track of environment stock", "item", key, "error", err)
		return
	}
	s.gs.Player.Inventory.Increment(key, req.Quantity)

	if req.Quantity > 1 {
		t.systemf("You picked up %d %s.", req.Quantity, plural(key))
	} else {
		t.systemf("You picked up a %s.", key)
	}
	for _, h := range usageHints {
		if strings.Contains(key, h.keyword) {
			t.systemf("This %s.", h.hint)
			break
		}
	}
}

func plural(name string) string {
	if strings.HasSuffix(name, "s") {
		return name
	}
	return name + "s"
}

// cmdLoot takes everything the scene holds that can be carried.
func (s *Session) cmdLoot(_ context.Context, t *Turn, _ string) {
	env := s.gs.Environment
	var looted []string
	taken := make(state.Items)
	for _, name := range env.Names() {
		if !s.gate.Pickable(name) {
			continue
		}
		n := env.Take(name)
		s.gs.Player.Inventory.Increment(name, n)
		taken[name] = n
		looted = append(looted, name)
	}
	if len(looted) == 0 {
		t.system("There are no items to loot.")
		return
	}
	parts := make([]string, len(looted))
	for i, name := range looted {
		parts[i] = fmt.Sprintf("%d %s", taken[name], name)
	}
	t.system("You looted: " + strings.Join(parts, ", "))
	if len(env) == 0 {
		t.system("All items in the scene have been looted.")
	}
}

func (s *Session) cmdConsume(_ context.Context, t *Turn, args string) {
	if args == "" {
		t.system("What would you like to consume?")
		return
	}
	inv := s.gs.Player.Inventory
	key, ok := inv.FindLike(args)
	if !ok {
		t.systemf("You have no %s to consume.", state.NormalizeName(args))
		return
	}
	if err := inv.Decrement(key, 1); err != nil {
		t.systemf("You have no %s to consume.", key)
		return
	}
	t.systemf("You consumed a %s.", key)
	if gain := foodValue(key); gain > 0 {
		s.gs.Player.AdjustEnergy(gain)
		t.system("You feel less hungry.")
	}
}

// interaction is what using a particular item does beyond the default.
type interaction struct {
	keyword  string
	requires []string
	nearAny  []string
	becomes  string
	energy   int
	keep     bool
	scene    string
	message  string
	failure  string
}

var interactions = []interaction{
	{
		keyword: "canteen",
		nearAny: []string{"creek", "stream", "river", "spring", "water", "brook", "falls"},
		becomes: "full canteen",
		message: "You fill the canteen with water.",
		failure: "There is no water here to fill the canteen.",
	},
	{
		keyword:  "flint",
		requires: []string{"stick", "leaf"},
		keep:     true,
		scene:    "A small campfire crackles nearby.",
		message:  "You start a fire using the flint.",
		failure:  "You need a stick and a leaf for kindling.",
	},
	{
		keyword: "berries",
		energy:  10,
		message: "You eat the berries, restoring some energy.",
	},
	{
		keyword: "snare",
		message: "You set up a snare trap in the underbrush.",
	},
}

func findInteraction(item string) (interaction, bool) {
	for _, in := range interactions {
		if strings.Contains(item, in.keyword) && item != "full canteen" {
			return in, true
		}
	}
	return interaction{}, false
}

// splitUse separates "/use water canteen at the creek" into the longest
// held item name and the rest of the text.
func splitUse(inv state.Items, args string) (item, usage string, ok bool) {
	words := strings.Fields(args)
	for i := len(words); i >= 1; i-- {
		candidate := strings.Join(words[:i], " ")
		if key, found := inv.FindLike(candidate); found {
			return key, strings.Join(words[i:], " "), true
		}
	}
	return "", "", false
}

var errUseFailed = errors.New("use failed")

func (s *Session) cmdUse(ctx context.Context, t *Turn, args string) {
	if args == "" {
		t.system("What would you like to use?")
		return
	}
	inv := s.gs.Player.Inventory
	item, usage, ok := splitUse(inv, args)
	if !ok {
		t.systemf("You don't have any %s to use.", strings.Fields(state.NormalizeName(args))[0])
		return
	}

	in, known := findInteraction(item)
	if known {
		if err := s.checkInteraction(in); err != nil {
			t.system(in.failure)
			return
		}
	}

	if usage != "" {
		s.adaptFrame(ctx, item, usage)
		t.systemf("You used %s: %s", item, usage)
	} else {
		t.systemf("You use the %s.", item)
	}

	keep := false
	if known {
		keep = s.applyInteraction(t, in)
	}
	if !keep {
		if err := inv.Decrement(item, 1); err != nil {
			s.logger.Error("Use lost track of inventory", "item", item, "error", err)
		}
	}
}

func (s *Session) checkInteraction(in interaction) error {
	inv := s.gs.Player.Inventory
	for _, r := range in.requires {
		if !inv.HasLike(r) {
			return errUseFailed
		}
	}
	if len(in.nearAny) > 0 && !hasWord(s.gs.Frame.SceneText, in.nearAny...) {
		return errUseFailed
	}
	return nil
}

// applyInteraction performs a known item effect and reports whether the
// item itself is kept.
func (s *Session) applyInteraction(t *Turn, in interaction) bool {
	inv := s.gs.Player.Inventory
	for _, r := range in.requires {
		if key, ok := inv.FindLike(r); ok {
			_ = inv.Decrement(key, 1)
		}
	}
	if in.becomes != "" {
		s.gs.Player.Inventory.Increment(in.becomes, 1)
	}
	if in.energy > 0 {
		s.gs.Player.AdjustEnergy(in.energy)
	}
	if in.scene != "" && !strings.Contains(s.gs.Frame.SceneText, in.scene) {
		s.gs.Frame.SceneText = strings.TrimSpace(s.gs.Frame.SceneText + " " + in.scene)
	}
	t.system(in.message)
	return in.keep
}

// adaptFrame lets the narrator rewrite the scene after an item is used.
// A reply that does not decode leaves the frame as it was.
func (s *Session) adaptFrame(ctx context.Context, item, usage string) {
	frame, err := s.narrator.AdaptFrame(ctx, s.gs.Frame, item, usage)
	if err != nil {
		s.logger.Warn("Frame adaptation ignored", "item", item, "error", err)
		return
	}
	if frame.Pools.Items.Empty() && frame.Pools.NPCs.Empty() {
		frame.Pools = s.gs.Frame.Pools
	}
	if frame.Location == "" {
		frame.Location = s.gs.Frame.Location
	}
	s.gs.Frame = frame
	s.saveFrame(ctx)
}

// cmdGive hands an item to the person being talked to, who remembers it.
func (s *Session) cmdGive(ctx context.Context, t *Turn, args string) {
	if s.current == nil {
		t.system("There's no one here to give that to.")
		return
	}
	if args == "" {
		t.system("What would you like to give?")
		return
	}
	inv := s.gs.Player.Inventory
	key, ok := inv.FindLike(args)
	if !ok {
		t.systemf("You don't have any %s to give.", state.NormalizeName(args))
		return
	}
	if err := inv.Decrement(key, 1); err != nil {
		t.systemf("You don't have any %s to give.", key)
		return
	}
	if !s.roster.RecordDeed(s.current.Name, true) {
		s.current.Disposition.GoodDeeds++
	}
	t.systemf("You give the %s to %s.", key, s.current.Name)
	if s.current.Disposition.Label() == "friendly" {
		t.systemf("%s seems to warm to you.", s.current.Name)
	}
	s.saveCharacters(ctx)
}
