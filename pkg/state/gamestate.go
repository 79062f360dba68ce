package state

import (
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/trail1897/pkg/chat"
)

// GameState is the world side of a hiking session: the player, the scene
// and the conversation so far.
type GameState struct {
	ID          uuid.UUID          `json:"id"`
	Player      *PlayerState       `json:"player"`
	Environment Items              `json:"environment"`
	Frame       SceneFrame         `json:"frame"`
	Journey     Journey            `json:"journey"`
	SceneIndex  int                `json:"scene_index"`
	ChatHistory []chat.ChatMessage `json:"chat_history,omitempty"`
	LastTick    time.Time          `json:"last_tick"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func NewGameState(now time.Time) *GameState {
	return &GameState{
		ID:          uuid.New(),
		Player:      NewPlayerState(),
		Environment: make(Items),
		Journey:     DefaultJourney(),
		ChatHistory: make([]chat.ChatMessage, 0),
		LastTick:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

const PromptHistoryLimit = 10

// RecentHistory returns at most PromptHistoryLimit trailing messages.
func (gs *GameState) RecentHistory() []chat.ChatMessage {
	if len(gs.ChatHistory) <= PromptHistoryLimit {
		return gs.ChatHistory
	}
	return gs.ChatHistory[len(gs.ChatHistory)-PromptHistoryLimit:]
}

// AppendChat records one line of the transcript.
func (gs *GameState) AppendChat(role, content string) {
	gs.ChatHistory = append(gs.ChatHistory, chat.ChatMessage{Role: role, Content: content})
}

// ReplaceEnvironment swaps in a new scene's items, dropping empty entries.
func (gs *GameState) ReplaceEnvironment(items Items) {
	env := make(Items, len(items))
	for name, n := range items {
		env.Increment(name, n)
	}
	gs.Environment = env
}
