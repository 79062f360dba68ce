package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwebster45206/trail1897/internal/storage"
	"github.com/jwebster45206/trail1897/pkg/chat"
	"github.com/jwebster45206/trail1897/pkg/crafting"
	"github.com/jwebster45206/trail1897/pkg/npc"
	"github.com/jwebster45206/trail1897/pkg/state"
)

// Snapshot is the saved game: the hiker, the scene, the journey and the
// transcript, plus every recipe learned so far.
type Snapshot struct {
	*state.GameState
	Recipes map[string]crafting.Recipe `json:"recipes,omitempty"`
}

// loadWorld reads the documents shared across saves. Missing documents
// are created empty.
func (s *Session) loadWorld(ctx context.Context) error {
	recipes := map[string]crafting.Recipe{}
	if _, err := storage.LoadOrCreate(ctx, s.store, storage.KeyRecipes, &recipes); err != nil {
		return fmt.Errorf("failed to load recipes: %w", err)
	}
	if n := s.resolver.Book().Restore(recipes); n > 0 {
		s.logger.Info("Restored recipes", "count", n)
	}

	roster := npc.NewRoster()
	created, err := storage.LoadOrCreate(ctx, s.store, storage.KeyCharacters, roster)
	if err != nil {
		return fmt.Errorf("failed to load characters: %w", err)
	}
	if created {
		s.logger.Info("Created empty character roster")
	}
	s.roster = roster

	frame := s.gs.Frame
	if err := storage.LoadJSON(ctx, s.store, storage.KeyFrame, &frame); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Ignoring unreadable scene frame", "error", err)
		}
		return nil
	}
	if frame.Location == "" {
		frame.Location = StartingLocation
	}
	s.gs.Frame = frame
	return nil
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{GameState: s.gs, Recipes: s.resolver.Book().Learned()}
}

// Save writes the game, recipe book, roster and frame to the store.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx)
}

func (s *Session) save(ctx context.Context) error {
	s.gs.UpdatedAt = s.clock()
	if err := storage.SaveJSON(ctx, s.store, storage.KeyGameState, s.snapshot()); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	if err := storage.SaveJSON(ctx, s.store, storage.KeyRecipes, s.resolver.Book().Learned()); err != nil {
		return fmt.Errorf("failed to save recipes: %w", err)
	}
	if err := storage.SaveJSON(ctx, s.store, storage.KeyCharacters, s.roster); err != nil {
		return fmt.Errorf("failed to save characters: %w", err)
	}
	if err := storage.SaveJSON(ctx, s.store, storage.KeyFrame, s.gs.Frame); err != nil {
		return fmt.Errorf("failed to save frame: %w", err)
	}
	return nil
}

// load replaces the game with the saved snapshot.
func (s *Session) load(ctx context.Context) error {
	snap := Snapshot{GameState: &state.GameState{}}
	if err := storage.LoadJSON(ctx, s.store, storage.KeyGameState, &snap); err != nil {
		return err
	}
	gs := snap.GameState
	if gs.Player == nil {
		gs.Player = state.NewPlayerState()
	}
	if gs.Player.Inventory == nil {
		gs.Player.Inventory = make(state.Items)
	}
	if gs.Environment == nil {
		gs.Environment = make(state.Items)
	}
	if len(gs.Journey.Acts) == 0 {
		gs.Journey = state.DefaultJourney()
	}
	// time spent away from the game does not drain the hiker
	gs.LastTick = s.clock()
	s.resolver.Book().Restore(snap.Recipes)

	s.gs = gs
	s.endConversation()
	s.mentions = nil
	s.logger = s.logger.With("loaded_id", gs.ID.String())
	return nil
}

func (s *Session) cmdSave(ctx context.Context, t *Turn, _ string) {
	if err := s.save(ctx); err != nil {
		s.logger.Error("Error saving game", "error", err)
		t.system("The game could not be saved.")
		return
	}
	t.system("Game saved.")
}

func (s *Session) cmdLoad(ctx context.Context, t *Turn, _ string) {
	err := s.load(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		t.system("No saved game found.")
		return
	case err != nil:
		s.logger.Error("Error loading game", "error", err)
		t.system("The saved game could not be read.")
		return
	}
	t.Clear = true
	for _, m := range s.gs.RecentHistory() {
		if m.Role != chat.ChatRoleSystem {
			t.narrate(m.Content)
		}
	}
	t.system("Game loaded.")
}

// saveRecipes, saveCharacters and saveFrame persist one document after the
// turn that changed it. Failures are logged and play goes on.
func (s *Session) saveRecipes(ctx context.Context) {
	if err := storage.SaveJSON(ctx, s.store, storage.KeyRecipes, s.resolver.Book().Learned()); err != nil {
		s.logger.Error("Error saving recipes", "error", err)
	}
}

func (s *Session) saveCharacters(ctx context.Context) {
	if err := storage.SaveJSON(ctx, s.store, storage.KeyCharacters, s.roster); err != nil {
		s.logger.Error("Error saving characters", "error", err)
	}
}

func (s *Session) saveFrame(ctx context.Context) {
	if err := storage.SaveJSON(ctx, s.store, storage.KeyFrame, s.gs.Frame); err != nil {
		s.logger.Error("Error saving frame", "error", err)
	}
}
