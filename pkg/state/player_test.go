package state

import (
	"errors"
	"testing"
	"time"
)

func TestPlayerState_Clamp(t *testing.T) {
	tests := []struct {
		name   string
		start  int
		delta  int
		expect int
	}{
		{"gain capped at 100", 95, 10, 100},
		{"loss floored at 0", 5, -30, 0},
		{"ordinary loss", 50, -2, 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayerState()
			p.Health = tt.start
			p.Energy = tt.start
			if got := p.AdjustHealth(tt.delta); got != tt.expect {
				t.Errorf("AdjustHealth() = %d, want %d", got, tt.expect)
			}
			if got := p.AdjustEnergy(tt.delta); got != tt.expect {
				t.Errorf("AdjustEnergy() = %d, want %d", got, tt.expect)
			}
		})
	}
}

func TestNewPlayerState(t *testing.T) {
	p := NewPlayerState()
	if p.Health != 100 || p.Energy != 100 || p.Money != 100 {
		t.Errorf("unexpected starting meters: %+v", p)
	}
	for _, item := range []string{"canvas rucksack", "worn map", "brass compass", "water canteen", "first aid supplies", "flint and steel"} {
		if p.Inventory.Count(item) != 1 {
			t.Errorf("expected 1 %s", item)
		}
	}
}

func TestPlayerState_Spend(t *testing.T) {
	p := NewPlayerState()
	p.Money = 10

	if err := p.Spend(15); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
	if p.Money != 10 {
		t.Errorf("failed spend changed money to %d", p.Money)
	}
	if err := p.Spend(10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Money != 0 {
		t.Errorf("expected 0 money, got %d", p.Money)
	}
}

func TestPlayerState_Tired(t *testing.T) {
	p := NewPlayerState()
	for i := 0; i < TiredAfterMoves; i++ {
		p.RecordMove()
	}
	if p.Tired() {
		t.Error("should not be tired after exactly 5 moves")
	}
	p.RecordMove()
	if !p.Tired() {
		t.Error("should be tired after 6 moves")
	}
	p.ResetMoves()
	if p.Tired() {
		t.Error("rest should clear tiredness")
	}
}

func TestSceneFrame_Advance(t *testing.T) {
	var f SceneFrame
	for i, text := range []string{"one", "two", "three", "four", "five"} {
		f.Advance("camp", text)
		if i == 0 && len(f.PreviousScenes) != 0 {
			t.Fatal("first scene should have no history")
		}
	}
	if len(f.PreviousScenes) != MaxPreviousScenes {
		t.Fatalf("expected %d previous scenes, got %d", MaxPreviousScenes, len(f.PreviousScenes))
	}
	if f.PreviousScenes[0] != "two" || f.SceneText != "five" {
		t.Errorf("unexpected history %v / %q", f.PreviousScenes, f.SceneText)
	}

	f.Advance("ridge", "six")
	if len(f.PreviousLocations) != 1 || f.PreviousLocations[0] != "camp" {
		t.Errorf("expected camp in previous locations, got %v", f.PreviousLocations)
	}
}

func TestJourney_CheckProgress(t *testing.T) {
	j := DefaultJourney()

	if _, ok := j.CheckProgress("I look around"); ok {
		t.Error("unrelated input should not complete an act")
	}
	done, ok := j.CheckProgress("I climb toward the Ridge")
	if !ok || done == nil || !done.Completed {
		t.Fatal("expected first act to complete")
	}
	if j.Current != 1 {
		t.Errorf("expected current act 1, got %d", j.Current)
	}
}

func TestGameState_RecentHistory(t *testing.T) {
	gs := NewGameState(time.Now())
	for i := 0; i < PromptHistoryLimit+5; i++ {
		gs.AppendChat("user", "step")
	}
	if got := len(gs.RecentHistory()); got != PromptHistoryLimit {
		t.Errorf("expected %d recent messages, got %d", PromptHistoryLimit, got)
	}
}
