package game

import (
	"context"
	"errors"
	"strings"

	"github.com/jwebster45206/trail1897/pkg/gate"
	"github.com/jwebster45206/trail1897/pkg/narrative"
	"github.com/jwebster45206/trail1897/pkg/state"
)

// HuntEnergy is restored by a successful hunt.
const HuntEnergy = 30

const quietTrail = "The trail is quiet. Nothing much seems to change."

// explore handles free text while no one is being talked to.
func (s *Session) explore(ctx context.Context, t *Turn, input string) {
	lower := strings.ToLower(input)
	if i := strings.Index(lower, "talk to"); i >= 0 {
		if s.talkTo(ctx, t, input[i+len("talk to"):]) {
			return
		}
	}

	if err := s.gate.Validate(input, s.gs.Player, s.gs.Environment); err != nil {
		var d *gate.Denial
		if errors.As(err, &d) {
			t.system(d.Message)
		}
		s.logger.Debug("Action denied", "input", input, "error", err)
		return
	}

	if req, ok := gate.ParsePickup(input); ok {
		s.pickup(t, req)
		return
	}

	if collapsed := s.applySurvival(t, input); collapsed {
		return
	}

	if hasWord(lower, "hunt", "hunting") {
		s.hunt(ctx, t)
		return
	}
	s.narrateScene(ctx, t, input)
}

func (s *Session) hunt(ctx context.Context, t *Turn) {
	text, err := s.narrator.DescribeHunt(ctx, s.gs.Frame.SceneText)
	if err != nil {
		s.logger.Warn("Hunt narration failed", "error", err)
		t.system("The game slips away into the brush.")
		return
	}
	t.narrate(text)
	if strings.Contains(strings.ToLower(text), "success") {
		s.gs.Player.AdjustEnergy(HuntEnergy)
	}
}

// narrateScene asks for the next scene and restocks it.
func (s *Session) narrateScene(ctx context.Context, t *Turn, input string) {
	text, err := s.narrator.DescribeScene(ctx, narrative.SceneRequest{
		Frame:   &s.gs.Frame,
		Act:     s.gs.Journey.CurrentAct(),
		History: s.gs.RecentHistory(),
		Player:  s.gs.Player,
		Input:   input,
	})
	if err != nil || text == "" {
		s.logger.Warn("Scene narration failed", "error", err)
		t.narrate(quietTrail)
		return
	}
	t.narrate(text)

	s.gs.Frame.Advance("", text)
	s.gs.SceneIndex++
	s.refreshScene(ctx, t, text)
	s.saveFrame(ctx)
}

// refreshScene replaces the scene's items, pools and characters. Each
// falls back to a fixed default when the narrator's reply cannot be used.
func (s *Session) refreshScene(ctx context.Context, t *Turn, scene string) {
	items, err := s.narrator.GenerateItems(ctx, scene)
	if err != nil {
		s.logger.Warn("Using default scene items", "error", err)
		items = narrative.DefaultItems()
	}
	s.gs.ReplaceEnvironment(items)

	pools, err := s.narrator.GenerateScenePools(ctx, scene)
	if err != nil {
		s.logger.Warn("Using default scene pools", "error", err)
		pools = narrative.DefaultScenePools()
	}
	s.gs.Frame.Pools = pools

	mentions, err := s.narrator.ExtractNPCs(ctx, scene)
	if err != nil {
		s.logger.Warn("No characters extracted", "error", err)
		mentions = nil
	}
	s.mentions = mentions
	s.gs.Frame.ActiveNPCs = make([]string, 0, len(mentions))
	for _, m := range mentions {
		s.gs.Frame.ActiveNPCs = append(s.gs.Frame.ActiveNPCs, m.Name)
	}

	s.describeEnvironment(t)
	if len(mentions) > 0 {
		t.system("Nearby: " + mentionList(mentions))
	}
}

// shelterWords in the scene make it safe to sleep.
var shelterWords = []string{"cave", "cabin", "shelter", "inn", "house", "camp", "lodge"}

// shelterItems carried make it safe to sleep anywhere.
var shelterItems = []string{"shelter", "lean-to", "tent", "bedroll"}

func (s *Session) hasShelter() bool {
	for _, item := range shelterItems {
		if s.gs.Player.Inventory.HasLike(item) {
			return true
		}
	}
	return hasWord(s.gs.Frame.SceneText, shelterWords...)
}

// cmdSleep rests through the night. Under the shelter policy the hiker
// needs a shelter and wakes healthier; otherwise only energy returns.
func (s *Session) cmdSleep(ctx context.Context, t *Turn, _ string) {
	if s.current != nil {
		t.systemf("You can't sleep while talking with %s.", s.current.Name)
		return
	}
	p := s.gs.Player
	if s.sleepPolicy == SleepShelter && !s.hasShelter() {
		t.system("You need a shelter to sleep safely. Try crafting one or finding a safe place.")
		return
	}

	t.Clear = true
	p.SetEnergy(state.MaxMeter)
	p.ResetMoves()
	s.gs.LastTick = s.clock()
	if s.sleepPolicy == SleepAnywhere {
		t.system("You feel well-rested.")
		return
	}
	p.AdjustHealth(SleepHealth)

	text, err := s.narrator.DescribeSleep(ctx, s.gs.Frame.SceneText)
	if err != nil {
		s.logger.Warn("Sleep narration failed", "error", err)
		text = "The night passes quietly under the stars."
	}
	t.narrate(text)
	t.system("You feel well-rested and refreshed.")
}
