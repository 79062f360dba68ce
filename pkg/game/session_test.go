package game

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/trail1897/internal/storage"
	"github.com/jwebster45206/trail1897/pkg/chat"
	"github.com/jwebster45206/trail1897/pkg/crafting"
	"github.com/jwebster45206/trail1897/pkg/narrative"
	"github.com/jwebster45206/trail1897/pkg/npc"
	"github.com/jwebster45206/trail1897/pkg/state"
)

var errUnscripted = errors.New("unscripted narrator call")

// fakeStoryteller answers each narrator call with the matching func field.
// Unset fields fail the call, which exercises the fallbacks.
type fakeStoryteller struct {
	describeScene func(req narrative.SceneRequest) (string, error)
	items         func(scene string) (state.Items, error)
	pools         func(scene string) (state.ScenePools, error)
	extract       func(scene string) ([]npc.NPC, error)
	generateNPC   func(kind, scene string) (*npc.NPC, error)
	fromMention   func(target, scene string) (*npc.NPC, error)
	dialogue      func(who *npc.NPC, history []chat.ChatMessage, input string) (string, error)
	synthesize    func(item string, vocabulary []string) (crafting.Recipe, error)
	hunt          func(scene string) (string, error)
	sleep         func(scene string) (string, error)
	adapt         func(frame state.SceneFrame, item, usage string) (state.SceneFrame, error)
	act           func(j state.Journey) (state.Act, error)

	calls []string
}

var _ Storyteller = (*fakeStoryteller)(nil)

func (f *fakeStoryteller) DescribeScene(_ context.Context, req narrative.SceneRequest) (string, error) {
	f.calls = append(f.calls, "DescribeScene")
	if f.describeScene == nil {
		return "", errUnscripted
	}
	return f.describeScene(req)
}

func (f *fakeStoryteller) GenerateItems(_ context.Context, scene string) (state.Items, error) {
	f.calls = append(f.calls, "GenerateItems")
	if f.items == nil {
		return nil, errUnscripted
	}
	return f.items(scene)
}

func (f *fakeStoryteller) GenerateScenePools(_ context.Context, scene string) (state.ScenePools, error) {
	f.calls = append(f.calls, "GenerateScenePools")
	if f.pools == nil {
		return state.ScenePools{}, errUnscripted
	}
	return f.pools(scene)
}

func (f *fakeStoryteller) ExtractNPCs(_ context.Context, scene string) ([]npc.NPC, error) {
	f.calls = append(f.calls, "ExtractNPCs")
	if f.extract == nil {
		return nil, errUnscripted
	}
	return f.extract(scene)
}

func (f *fakeStoryteller) GenerateNPC(_ context.Context, kind, scene string) (*npc.NPC, error) {
	f.calls = append(f.calls, "GenerateNPC")
	if f.generateNPC == nil {
		return nil, errUnscripted
	}
	return f.generateNPC(kind, scene)
}

func (f *fakeStoryteller) CreateNPCFromMention(_ context.Context, target, scene string) (*npc.NPC, error) {
	f.calls = append(f.calls, "CreateNPCFromMention")
	if f.fromMention == nil {
		return nil, errUnscripted
	}
	return f.fromMention(target, scene)
}

func (f *fakeStoryteller) Dialogue(_ context.Context, who *npc.NPC, history []chat.ChatMessage, input string) (string, error) {
	f.calls = append(f.calls, "Dialogue")
	if f.dialogue == nil {
		return "", errUnscripted
	}
	return f.dialogue(who, history, input)
}

func (f *fakeStoryteller) SynthesizeRecipe(_ context.Context, item string, vocabulary []string) (crafting.Recipe, error) {
	f.calls = append(f.calls, "SynthesizeRecipe")
	if f.synthesize == nil {
		return crafting.Recipe{}, errUnscripted
	}
	return f.synthesize(item, vocabulary)
}

func (f *fakeStoryteller) DescribeHunt(_ context.Context, scene string) (string, error) {
	f.calls = append(f.calls, "DescribeHunt")
	if f.hunt == nil {
		return "", errUnscripted
	}
	return f.hunt(scene)
}

func (f *fakeStoryteller) DescribeSleep(_ context.Context, scene string) (string, error) {
	f.calls = append(f.calls, "DescribeSleep")
	if f.sleep == nil {
		return "", errUnscripted
	}
	return f.sleep(scene)
}

func (f *fakeStoryteller) AdaptFrame(_ context.Context, frame state.SceneFrame, item, usage string) (state.SceneFrame, error) {
	f.calls = append(f.calls, "AdaptFrame")
	if f.adapt == nil {
		return state.SceneFrame{}, errUnscripted
	}
	return f.adapt(frame, item, usage)
}

func (f *fakeStoryteller) GenerateAct(_ context.Context, j state.Journey) (state.Act, error) {
	f.calls = append(f.calls, "GenerateAct")
	if f.act == nil {
		return state.Act{}, errUnscripted
	}
	return f.act(j)
}

func (f *fakeStoryteller) called(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

var testNow = time.Date(1897, time.April, 12, 7, 30, 0, 0, time.UTC)

type testSession struct {
	*Session
	narrator *fakeStoryteller
	store    *storage.MemoryStore
}

func newTestSession(t *testing.T, mutate ...func(*Options)) *testSession {
	t.Helper()
	narr := &fakeStoryteller{}
	store := storage.NewMemoryStore()
	opts := Options{
		Narrator:   narr,
		Store:      store,
		JournalDir: t.TempDir(),
		Clock:      func() time.Time { return testNow },
		Rand:       rand.New(rand.NewSource(1)),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, m := range mutate {
		m(&opts)
	}
	s := NewSession(opts)
	_, err := s.Start(context.Background())
	require.NoError(t, err)
	return &testSession{Session: s, narrator: narr, store: store}
}

func (ts *testSession) handle(input string) *Turn {
	return ts.Handle(context.Background(), input)
}

func hasLine(turn *Turn, text string) bool {
	for _, l := range turn.Lines {
		if l.Text == text {
			return true
		}
	}
	return false
}

func TestStart(t *testing.T) {
	s := NewSession(Options{Narrator: &fakeStoryteller{}, Store: storage.NewMemoryStore(), Clock: func() time.Time { return testNow }})

	turn, err := s.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, introLines[0], turn.Lines[0].Text)
	assert.True(t, hasLine(turn, "Current goal: Reach the shelter on the ridge before the weather turns"))
	assert.Equal(t, 100, turn.Status.Health)
	assert.Equal(t, StartingLocation, turn.Status.Location)
	assert.Equal(t, ModeExploring, turn.Status.Mode)
}

func TestStart_CreatesWorldDocuments(t *testing.T) {
	ts := newTestSession(t)
	ctx := context.Background()

	_, err := ts.store.Get(ctx, storage.KeyCharacters)
	assert.NoError(t, err, "roster should be created on first run")
	_, err = ts.store.Get(ctx, storage.KeyRecipes)
	assert.NoError(t, err, "recipe book should be created on first run")
}

func TestStart_RestoresWorld(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	recipes := map[string]crafting.Recipe{
		"bark basket": {Materials: map[string]int{"bark": 2}, Description: "A basket of folded bark."},
	}
	require.NoError(t, storage.SaveJSON(ctx, store, storage.KeyRecipes, recipes))
	roster := npc.NewRoster()
	roster.Add(&npc.NPC{Name: "Ada Pruitt", Type: "traveler", Description: "a widow walking north"})
	require.NoError(t, storage.SaveJSON(ctx, store, storage.KeyCharacters, roster))
	require.NoError(t, storage.SaveJSON(ctx, store, storage.KeyFrame, state.SceneFrame{SceneText: "Fog sits in the hollow."}))

	s := NewSession(Options{Narrator: &fakeStoryteller{}, Store: store, Clock: func() time.Time { return testNow }})
	turn, err := s.Start(ctx)
	require.NoError(t, err)

	_, ok := s.resolver.Book().Get("bark basket")
	assert.True(t, ok)
	assert.Equal(t, 1, s.roster.Len())
	assert.Equal(t, StartingLocation, s.gs.Frame.Location, "empty saved location falls back to the trailhead")
	assert.True(t, hasLine(turn, "Fog sits in the hollow."))
}

func TestStart_StoreFailure(t *testing.T) {
	store := storage.NewMemoryStore()
	store.SetPutError(errors.New("disk full"))
	s := NewSession(Options{Narrator: &fakeStoryteller{}, Store: store})

	_, err := s.Start(context.Background())
	assert.Error(t, err)
}

func TestHandle_EmptyInput(t *testing.T) {
	ts := newTestSession(t)
	before := len(ts.gs.ChatHistory)

	turn := ts.handle("   ")

	assert.Empty(t, turn.Lines)
	assert.Len(t, ts.gs.ChatHistory, before)
}

func TestHandle_RecordsTranscript(t *testing.T) {
	ts := newTestSession(t)

	ts.handle("/dance")

	require.Len(t, ts.gs.ChatHistory, 2)
	assert.Equal(t, chat.ChatMessage{Role: chat.ChatRoleUser, Content: "/dance"}, ts.gs.ChatHistory[0])
	assert.Equal(t, chat.ChatMessage{Role: chat.ChatRoleSystem, Content: UnknownCommand}, ts.gs.ChatHistory[1])
}

func TestExplore_NarratesAndRestocks(t *testing.T) {
	ts := newTestSession(t)
	ts.narrator.describeScene = func(req narrative.SceneRequest) (string, error) {
		assert.Equal(t, "walk north", req.Input)
		assert.NotNil(t, req.Act)
		return "You crest a knob above a cold creek.", nil
	}
	ts.narrator.items = func(string) (state.Items, error) {
		return state.Items{"stick": 2, "feather": 1}, nil
	}
	ts.narrator.extract = func(string) ([]npc.NPC, error) {
		return []npc.NPC{{Name: "Jonah", Type: "hunter", Description: "a boy with a squirrel rifle"}}, nil
	}

	turn := ts.handle("walk north")

	assert.Equal(t, LineNarration, turn.Lines[0].Kind)
	assert.Equal(t, "You crest a knob above a cold creek.", turn.Lines[0].Text)
	assert.True(t, hasLine(turn, "Noticeable items in the area: feather, 2 stick"))
	assert.True(t, hasLine(turn, "Nearby: Jonah (hunter)"))

	assert.Equal(t, 1, ts.gs.SceneIndex)
	assert.Equal(t, "You crest a knob above a cold creek.", ts.gs.Frame.SceneText)
	assert.Equal(t, []string{"Jonah"}, ts.gs.Frame.ActiveNPCs)
	assert.Equal(t, narrative.DefaultScenePools(), ts.gs.Frame.Pools, "failed pool generation uses defaults")
	assert.Equal(t, state.StartingEnergy-MoveEnergyCost, ts.gs.Player.Energy)
	assert.Equal(t, 1, ts.gs.Player.MovesSinceRest)

	var saved state.SceneFrame
	require.NoError(t, storage.LoadJSON(context.Background(), ts.store, storage.KeyFrame, &saved))
	assert.Equal(t, ts.gs.Frame.SceneText, saved.SceneText)
}

func TestExplore_NarrationFailure(t *testing.T) {
	ts := newTestSession(t)

	turn := ts.handle("look at the sky")

	assert.True(t, hasLine(turn, quietTrail))
	assert.Equal(t, 0, ts.gs.SceneIndex)
	assert.Zero(t, ts.narrator.called("GenerateItems"))
}

func TestExplore_GateDenial(t *testing.T) {
	ts := newTestSession(t)
	delete(ts.gs.Player.Inventory, "flint and steel")
	want := ts.gate.Validate("hunt for rabbits", ts.gs.Player, ts.gs.Environment)
	require.Error(t, want)

	turn := ts.handle("hunt for rabbits")

	require.Len(t, turn.Lines, 1)
	assert.Equal(t, want.Error(), turn.Lines[0].Text)
	assert.Zero(t, ts.narrator.called("DescribeHunt"))
	assert.Zero(t, ts.narrator.called("DescribeScene"))
}

func TestExplore_TooTiredToTravel(t *testing.T) {
	ts := newTestSession(t)
	ts.gs.Player.Health = 15

	turn := ts.handle("walk north")

	assert.Equal(t, "You are too exhausted to travel. You should rest first.", turn.Text())
	assert.Zero(t, ts.gs.Player.MovesSinceRest)
}

func TestExplore_Hunt(t *testing.T) {
	ts := newTestSession(t)
	ts.gs.Player.Energy = 40
	ts.narrator.hunt = func(string) (string, error) {
		return "Success. A rabbit breaks cover and you bring it down.", nil
	}

	ts.handle("hunt in the laurel")

	assert.Equal(t, 40+HuntEnergy, ts.gs.Player.Energy)
	assert.Zero(t, ts.narrator.called("DescribeScene"))
}

func TestExplore_FreeTextPickup(t *testing.T) {
	ts := newTestSession(t)
	ts.gs.Environment = state.Items{"stick": 2}

	turn := ts.handle("pick up a stick")

	assert.Equal(t, "You picked up a stick.", turn.Text())
	assert.Equal(t, 1, ts.gs.Environment.Count("stick"))
	assert.Equal(t, 1, ts.gs.Player.Inventory.Count("stick"))
}

func TestExplore_FreeTextPickupOfTool(t *testing.T) {
	ts := newTestSession(t)
	ts.gs.Environment = state.Items{"fishing line": 1}

	turn := ts.handle("pick up the fishing line")

	assert.Equal(t, "You picked up a fishing line.", turn.Text())
	assert.True(t, ts.gs.Player.Inventory.Has("fishing line"))
	assert.Empty(t, ts.gs.Environment)
}

func TestExplore_TalkToMention(t *testing.T) {
	ts := newTestSession(t)
	ts.gs.Frame.SceneText = "An old peddler rests his mule by the spring."
	ts.narrator.fromMention = func(target, _ string) (*npc.NPC, error) {
		assert.Equal(t, "old peddler", target)
		return &npc.NPC{Name: "Amos Vance", Type: "peddler", Description: "a stooped man with a laden mule"}, nil
	}
	ts.narrator.dialogue = func(who *npc.NPC, _ []chat.ChatMessage, input string) (string, error) {
		assert.Equal(t, "hello", input)
		return "Morning, friend.", nil
	}

	turn := ts.handle("talk to the old peddler")

	assert.True(t, hasLine(turn, "Amos Vance: Morning, friend."))
	assert.Equal(t, ModeConversing, ts.Mode())
	assert.Equal(t, 1, ts.roster.Len())
}

func TestCheckProgress(t *testing.T) {
	ts := newTestSession(t)
	ts.narrator.describeScene = func(narrative.SceneRequest) (string, error) {
		return "The shelter on the ridge is a three-sided log hut.", nil
	}

	turn := ts.handle("I climb toward the ridge")

	assert.True(t, hasLine(turn, "Goal reached: Reach the shelter on the ridge before the weather turns"))
	assert.True(t, hasLine(turn, "New goal: Cross the river at the ford"))
	assert.Equal(t, "Cross the river at the ford", turn.Status.Goal)
}

func TestCheckProgress_GeneratesNextAct(t *testing.T) {
	tests := []struct {
		name     string
		act      func(state.Journey) (state.Act, error)
		wantLine string
		wantActs int
	}{
		{
			name: "new act appended",
			act: func(j state.Journey) (state.Act, error) {
				assert.True(t, j.Finished())
				return state.Act{Goal: "Climb Blood Mountain", Keywords: []string{"blood"}}, nil
			},
			wantLine: "New goal: Climb Blood Mountain",
			wantActs: 4,
		},
		{
			name:     "generation fails",
			act:      func(state.Journey) (state.Act, error) { return state.Act{}, errors.New("timeout") },
			wantLine: "The trail goes on, and so do you.",
			wantActs: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestSession(t)
			ts.gs.Journey.Current = 2
			ts.narrator.act = tt.act

			turn := ts.handle("I see the trading post")

			assert.True(t, hasLine(turn, "Goal reached: Find the trading post in the gap"))
			assert.True(t, hasLine(turn, tt.wantLine))
			assert.Len(t, ts.gs.Journey.Acts, tt.wantActs)
		})
	}
}

func TestStatus(t *testing.T) {
	ts := newTestSession(t)
	ts.current = &npc.NPC{Name: "Ada Pruitt"}

	st := ts.Status()

	assert.Equal(t, ModeConversing, st.Mode)
	assert.Equal(t, "Ada Pruitt", st.Talking)
	assert.Equal(t, state.StartingMoney, st.Money)
	assert.True(t, strings.Contains(st.Inventory, "brass compass"))
	assert.Equal(t, "conversing", st.Mode.String())
}

func TestFreeTextCraftIsOutOfScope(t *testing.T) {
	ts := newTestSession(t)
	ts.gs.Player.Inventory = state.Items{"stick": 2, "vine": 1}

	turn := ts.handle("craft a snare")
	assert.Equal(t, "That action is not possible in this environment.", turn.Text())
	assert.False(t, ts.gs.Player.Inventory.Has("snare"))

	turn = ts.handle("/craft snare")
	assert.Equal(t, "You successfully crafted a snare.", turn.Text())
}
