package game

import (
	"strings"
)

const (
	EnergyDecayPerHour = 2
	MoveEnergyCost     = 2
	TiredHealthCost    = 5
	EatEnergy          = 20
	RestHealth         = 15
	RestEnergyCost     = 5
	StarvingHealthCost = 10
	HungryEnergy       = 20
	SleepHealth        = 20
)

var foodWords = []string{"food", "berries", "berry", "meat", "fish"}

// words splits text into lowercase words without punctuation.
func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && r != '\'' && r != '-'
	})
}

func hasWord(text string, want ...string) bool {
	for _, w := range words(text) {
		for _, v := range want {
			if w == v {
				return true
			}
		}
	}
	return false
}

// applySurvival runs the per-turn effects of free text on the hiker's
// meters and reports whether they have collapsed.
func (s *Session) applySurvival(t *Turn, input string) bool {
	p := s.gs.Player

	now := s.clock()
	if hours := now.Sub(s.gs.LastTick).Hours(); hours > 0 {
		if decay := int(hours * EnergyDecayPerHour); decay > 0 {
			p.AdjustEnergy(-decay)
		}
	}
	s.gs.LastTick = now

	if s.gate.IsMovement(input) {
		p.RecordMove()
		p.AdjustEnergy(-MoveEnergyCost)
		if p.Tired() {
			p.AdjustHealth(-TiredHealthCost)
			t.system("You're getting tired. You should rest soon.")
		}
	}

	if hasWord(input, "eat", "eats", "eating") {
		if hasWord(input, foodWords...) {
			p.AdjustEnergy(EatEnergy)
			t.system("You feel less hungry.")
		} else {
			t.system("You need to specify what to eat.")
		}
	}

	if hasWord(input, "rest", "rests", "resting") {
		p.ResetMoves()
		p.AdjustHealth(RestHealth)
		p.AdjustEnergy(-RestEnergyCost)
		t.system("You feel refreshed after resting.")
	}

	if p.Energy <= 0 {
		p.AdjustHealth(-StarvingHealthCost)
		t.system("You are starving and losing health!")
	} else if p.Energy <= HungryEnergy {
		t.system("You are getting very hungry...")
	}

	if p.Collapsed() {
		t.system("You have collapsed from exhaustion and hunger...")
		s.logger.Info("Hiker collapsed", "moves_since_rest", p.MovesSinceRest)
		return true
	}
	return false
}
