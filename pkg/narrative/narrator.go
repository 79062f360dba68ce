// Package narrative talks to the language model: it builds prompts from
// game state and decodes the replies into typed values.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/trail1897/pkg/chat"
	"github.com/jwebster45206/trail1897/pkg/crafting"
	"github.com/jwebster45206/trail1897/pkg/npc"
	"github.com/jwebster45206/trail1897/pkg/state"
	"github.com/jwebster45206/trail1897/pkg/textfilter"
)

// Completer is the language model the narrator drives.
type Completer interface {
	Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)
}

// Narrator generates scenes, characters, dialogue and recipes.
type Narrator struct {
	llm    Completer
	filter *textfilter.PeriodFilter
	logger *slog.Logger
}

var _ crafting.Synthesizer = (*Narrator)(nil)

func NewNarrator(llm Completer, logger *slog.Logger) *Narrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Narrator{
		llm:    llm,
		filter: textfilter.NewPeriodFilter(),
		logger: logger,
	}
}

func (n *Narrator) complete(ctx context.Context, kind string, b *Builder) (string, error) {
	messages, err := b.Build()
	if err != nil {
		return "", fmt.Errorf("error building %s prompt: %w", kind, err)
	}
	n.logger.Debug("Narrator request", "kind", kind, "message_count", len(messages))
	resp, err := n.llm.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", kind, err)
	}
	if resp == nil || strings.TrimSpace(resp.Message) == "" {
		return "", malformed(kind, "empty reply")
	}
	return resp.Message, nil
}

// SceneRequest is everything DescribeScene needs.
type SceneRequest struct {
	Frame   *state.SceneFrame
	Act     *state.Act
	History []chat.ChatMessage
	Player  *state.PlayerState
	Input   string
}

// DescribeScene narrates the outcome of the player's input.
func (n *Narrator) DescribeScene(ctx context.Context, req SceneRequest) (string, error) {
	b := New().
		WithSystem(SettingPrompt).
		WithSystem(ScenePrompt).
		WithHistory(req.History).
		WithUserMessage(req.Input).
		WithReminder(SceneReminder)
	if req.Frame != nil {
		b.WithContext("Location", req.Frame.Location).
			WithContext("Recent scenes", req.Frame.RecentText())
	}
	if req.Act != nil {
		b.WithContext("Current goal", req.Act.Goal)
	}
	if req.Player != nil {
		b.WithContext("Hiker", fmt.Sprintf("health %d, energy %d, carrying %s", req.Player.Health, req.Player.Energy, req.Player.Inventory.String()))
	}

	reply, err := n.complete(ctx, "scene", b)
	if err != nil {
		return "", err
	}
	return textfilter.Sentences(textfilter.CleanNarration(n.filter, reply), 3), nil
}

// GenerateItems lists what can be collected in a scene.
func (n *Narrator) GenerateItems(ctx context.Context, scene string) (state.Items, error) {
	reply, err := n.complete(ctx, "items", New().
		WithSystem(ItemsPrompt).
		WithUserMessage("List collectable items from this scene: "+scene))
	if err != nil {
		return nil, err
	}
	return DecodeItems(reply)
}

// GenerateScenePools proposes item and character pools for a scene.
func (n *Narrator) GenerateScenePools(ctx context.Context, scene string) (state.ScenePools, error) {
	reply, err := n.complete(ctx, "scene pools", New().
		WithSystem(PoolsPrompt).
		WithUserMessage("Generate pools for: "+scene))
	if err != nil {
		return state.ScenePools{}, err
	}
	return DecodeScenePools(reply)
}

// ExtractNPCs finds the characters present in a scene.
func (n *Narrator) ExtractNPCs(ctx context.Context, scene string) ([]npc.NPC, error) {
	reply, err := n.complete(ctx, "npc mentions", New().
		WithSystem(MentionsPrompt).
		WithUserMessage("Scene: "+scene))
	if err != nil {
		return nil, err
	}
	return DecodeNPCMentions(reply)
}

// GenerateNPC creates a character. An empty npcType lets the model choose.
func (n *Narrator) GenerateNPC(ctx context.Context, npcType, scene string) (*npc.NPC, error) {
	ask := "Generate a random character that could be encountered on the trail."
	if npcType != "" {
		ask = fmt.Sprintf("Generate a random character of type %s on the trail.", npcType)
	}
	reply, err := n.complete(ctx, "npc", New().
		WithSystem(SettingPrompt).
		WithSystem(NPCPrompt).
		WithContext("Scene", scene).
		WithUserMessage(ask))
	if err != nil {
		return nil, err
	}
	character, err := DecodeNPC(reply)
	if err != nil {
		return nil, err
	}
	if npcType != "" && !strings.EqualFold(character.Type, npcType) {
		character.Type = npcType
	}
	return character, nil
}

// CreateNPCFromMention turns someone named in the scene text into a
// character.
func (n *Narrator) CreateNPCFromMention(ctx context.Context, target, scene string) (*npc.NPC, error) {
	reply, err := n.complete(ctx, "npc", New().
		WithSystem(SettingPrompt).
		WithSystem(NPCPrompt).
		WithUserMessage(fmt.Sprintf("Create character for: %s mentioned in: %s", target, scene)))
	if err != nil {
		return nil, err
	}
	return DecodeNPC(reply)
}

// Dialogue answers the player in the character's voice.
func (n *Narrator) Dialogue(ctx context.Context, who *npc.NPC, history []chat.ChatMessage, input string) (string, error) {
	persona := fmt.Sprintf("You are %s, a %s on the Appalachian Trail in 1897.", who.Name, who.Type)
	b := New().
		WithSystem(persona).
		WithSystem(DialoguePrompt).
		WithContext("Description", who.Description).
		WithContext("Personality", who.Personality).
		WithContext("Speaking style", who.DialogueStyle).
		WithContext("Feeling toward the hiker", who.Disposition.Label()).
		WithHistory(history).
		WithUserMessage(input)
	if who.IsVendor() {
		b.WithContext("For sale", strings.Join(who.StockList(), "; "))
	}

	reply, err := n.complete(ctx, "dialogue", b)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(n.filter.FilterText(reply)), nil
}

// SynthesizeRecipe asks for a recipe made only from vocabulary materials.
func (n *Narrator) SynthesizeRecipe(ctx context.Context, item string, vocabulary []string) (crafting.Recipe, error) {
	reply, err := n.complete(ctx, "recipe", New().
		WithSystem(fmt.Sprintf(RecipePrompt, strings.Join(vocabulary, ", "))).
		WithUserMessage(fmt.Sprintf("Generate a realistic crafting recipe for %s using only basic materials from 1897:", item)))
	if err != nil {
		return crafting.Recipe{}, err
	}
	return DecodeRecipe(reply)
}

// DescribeHunt narrates a hunting attempt.
func (n *Narrator) DescribeHunt(ctx context.Context, scene string) (string, error) {
	reply, err := n.complete(ctx, "hunt", New().
		WithSystem(SettingPrompt).
		WithSystem(HuntPrompt).
		WithContext("Scene", scene).
		WithUserMessage("Describe the hunting outcome in 1-2 sentences."))
	if err != nil {
		return "", err
	}
	return textfilter.CleanNarration(n.filter, reply), nil
}

// DescribeSleep narrates a night's rest.
func (n *Narrator) DescribeSleep(ctx context.Context, scene string) (string, error) {
	reply, err := n.complete(ctx, "sleep", New().
		WithSystem(SettingPrompt).
		WithSystem(SleepPrompt).
		WithContext("Scene", scene).
		WithUserMessage("Describe the scene"))
	if err != nil {
		return "", err
	}
	return textfilter.CleanNarration(n.filter, reply), nil
}

// AdaptFrame asks the narrator how using an item changes the scene.
func (n *Narrator) AdaptFrame(ctx context.Context, frame state.SceneFrame, item, usage string) (state.SceneFrame, error) {
	current, err := json.MarshalIndent(frame, "", "  ")
	if err != nil {
		return state.SceneFrame{}, fmt.Errorf("failed to marshal frame: %w", err)
	}
	reply, err := n.complete(ctx, "frame", New().
		WithSystem(FramePrompt).
		WithUserMessage(fmt.Sprintf("Current frame: %s\nItem used: %s\nUsage description: %s", current, item, usage)))
	if err != nil {
		return state.SceneFrame{}, err
	}
	return DecodeFrame(reply)
}

// GenerateAct proposes the act after the ones already played.
func (n *Narrator) GenerateAct(ctx context.Context, journey state.Journey) (state.Act, error) {
	goals := make([]string, 0, len(journey.Acts))
	for _, a := range journey.Acts {
		goals = append(goals, a.Goal)
	}
	reply, err := n.complete(ctx, "act", New().
		WithSystem(ActPrompt).
		WithContext("Previous goals", strings.Join(goals, "; ")).
		WithUserMessage("Generate the next act."))
	if err != nil {
		return state.Act{}, err
	}
	return DecodeAct(reply)
}
