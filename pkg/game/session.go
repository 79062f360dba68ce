// Package game runs a hiking session: it routes each line of player input
// to a command, a conversation or the narrator, and applies the effects.
package game

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jwebster45206/trail1897/internal/storage"
	"github.com/jwebster45206/trail1897/pkg/chat"
	"github.com/jwebster45206/trail1897/pkg/crafting"
	"github.com/jwebster45206/trail1897/pkg/gate"
	"github.com/jwebster45206/trail1897/pkg/narrative"
	"github.com/jwebster45206/trail1897/pkg/npc"
	"github.com/jwebster45206/trail1897/pkg/state"
)

const (
	SleepShelter  = "shelter"
	SleepAnywhere = "anywhere"
)

// StartingLocation is where every journey begins.
const StartingLocation = "Springer Mountain"

// Storyteller is the narrator the session drives.
type Storyteller interface {
	crafting.Synthesizer
	DescribeScene(ctx context.Context, req narrative.SceneRequest) (string, error)
	GenerateItems(ctx context.Context, scene string) (state.Items, error)
	GenerateScenePools(ctx context.Context, scene string) (state.ScenePools, error)
	ExtractNPCs(ctx context.Context, scene string) ([]npc.NPC, error)
	GenerateNPC(ctx context.Context, npcType, scene string) (*npc.NPC, error)
	CreateNPCFromMention(ctx context.Context, target, scene string) (*npc.NPC, error)
	Dialogue(ctx context.Context, who *npc.NPC, history []chat.ChatMessage, input string) (string, error)
	DescribeHunt(ctx context.Context, scene string) (string, error)
	DescribeSleep(ctx context.Context, scene string) (string, error)
	AdaptFrame(ctx context.Context, frame state.SceneFrame, item, usage string) (state.SceneFrame, error)
	GenerateAct(ctx context.Context, journey state.Journey) (state.Act, error)
}

var _ Storyteller = (*narrative.Narrator)(nil)

// Mode is what free text is routed to.
type Mode int

const (
	ModeExploring Mode = iota
	ModeConversing
)

func (m Mode) String() string {
	if m == ModeConversing {
		return "conversing"
	}
	return "exploring"
}

// Options configures a Session. Narrator and Store are required.
type Options struct {
	Narrator    Storyteller
	Store       storage.Store
	Gate        *gate.Gate
	Book        *crafting.Book
	SleepPolicy string
	JournalDir  string
	Clock       func() time.Time
	Rand        *rand.Rand
	Logger      *slog.Logger
}

// Session is one player's game. Handle is safe to call from several
// goroutines; turns are applied one at a time.
type Session struct {
	mu sync.Mutex

	gs       *state.GameState
	roster   *npc.Roster
	current  *npc.NPC
	talk     []chat.ChatMessage
	mentions []npc.NPC

	narrator Storyteller
	store    storage.Store
	gate     *gate.Gate
	resolver *crafting.Resolver

	sleepPolicy string
	journalDir  string
	clock       func() time.Time
	rng         *rand.Rand
	logger      *slog.Logger
}

// NewSession creates a session with a fresh hiker at the trailhead.
func NewSession(opts Options) *Session {
	if opts.Gate == nil {
		opts.Gate = gate.New(nil)
	}
	if opts.Book == nil {
		opts.Book = crafting.NewBook()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Clock().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SleepPolicy == "" {
		opts.SleepPolicy = SleepShelter
	}
	if opts.JournalDir == "" {
		opts.JournalDir = "."
	}

	gs := state.NewGameState(opts.Clock())
	gs.Frame.Location = StartingLocation

	return &Session{
		gs:          gs,
		roster:      npc.NewRoster(),
		narrator:    opts.Narrator,
		store:       opts.Store,
		gate:        opts.Gate,
		resolver:    crafting.NewResolver(opts.Book, opts.Narrator, opts.Logger),
		sleepPolicy: opts.SleepPolicy,
		journalDir:  opts.JournalDir,
		clock:       opts.Clock,
		rng:         opts.Rand,
		logger:      opts.Logger.With("session_id", gs.ID.String()),
	}
}

var introLines = []string{
	"The morning mist clings to Springer Mountain as you adjust your canvas rucksack.",
	"Behind you lies Atlanta and your old life. Ahead stretches the Appalachian Trail, a wild and untamed path north through the mountains.",
	"In your pack: basic provisions, a worn map, a brass compass, and hope for a new beginning.",
	"The trail ahead is marked by blazes carved into trees by those who walked before.",
	"Type '/look' to observe your surroundings, '/inventory' to check your supplies, or start walking with phrases like 'go north' or 'follow the trail'.",
	"Type '/help' for a list of available commands.",
}

// Start loads the persisted recipe book, character roster and scene frame,
// creating empty documents on first run, and returns the opening turn.
func (s *Session) Start(ctx context.Context) (*Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadWorld(ctx); err != nil {
		return nil, err
	}

	t := &Turn{}
	for _, line := range introLines {
		t.narrate(line)
	}
	if s.gs.Frame.SceneText != "" {
		t.narrate(s.gs.Frame.SceneText)
	}
	if act := s.gs.Journey.CurrentAct(); act != nil {
		t.system("Current goal: " + act.Goal)
	}
	return s.finish(t), nil
}

// Handle processes one line of input to completion.
func (s *Session) Handle(ctx context.Context, input string) *Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &Turn{}
	input = strings.TrimSpace(input)
	if input == "" {
		return s.finish(t)
	}
	switch {
	case strings.HasPrefix(input, CommandPrefix):
		s.dispatch(ctx, t, input)
	case s.current != nil:
		s.converse(ctx, t, input)
		s.checkProgress(ctx, t, input)
	default:
		s.explore(ctx, t, input)
		s.checkProgress(ctx, t, input)
	}

	s.gs.AppendChat(chat.ChatRoleUser, input)
	for _, line := range t.Lines {
		role := chat.ChatRoleSystem
		if line.Kind != LineSystem {
			role = chat.ChatRoleAgent
		}
		s.gs.AppendChat(role, line.Text)
	}
	s.gs.UpdatedAt = s.clock()
	return s.finish(t)
}

// Status returns the current status bar values.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

// Mode reports whether free text goes to the narrator or to a character.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode()
}

func (s *Session) mode() Mode {
	if s.current != nil {
		return ModeConversing
	}
	return ModeExploring
}

func (s *Session) status() Status {
	st := Status{
		Health:     s.gs.Player.Health,
		Energy:     s.gs.Player.Energy,
		Money:      s.gs.Player.Money,
		Inventory:  s.gs.Player.Inventory.String(),
		Location:   s.gs.Frame.Location,
		SceneIndex: s.gs.SceneIndex,
		Mode:       s.mode(),
	}
	if act := s.gs.Journey.CurrentAct(); act != nil {
		st.Goal = act.Goal
	}
	if s.current != nil {
		st.Talking = s.current.Name
	}
	return st
}

func (s *Session) finish(t *Turn) *Turn {
	t.Status = s.status()
	return t
}

func (s *Session) startConversation(who *npc.NPC) {
	s.current = who
	s.talk = nil
}

func (s *Session) endConversation() {
	s.current = nil
	s.talk = nil
}

// checkProgress completes the current act when the input reaches its goal
// and lines up the next one.
func (s *Session) checkProgress(ctx context.Context, t *Turn, input string) {
	done, ok := s.gs.Journey.CheckProgress(input)
	if !ok {
		return
	}
	t.system("Goal reached: " + done.Goal)
	s.logger.Info("Act completed", "goal", done.Goal)

	if s.gs.Journey.CurrentAct() == nil {
		act, err := s.narrator.GenerateAct(ctx, s.gs.Journey)
		if err != nil {
			s.logger.Warn("Could not generate next act", "error", err)
			t.system("The trail goes on, and so do you.")
			return
		}
		s.gs.Journey.Add(act)
	}
	if next := s.gs.Journey.CurrentAct(); next != nil {
		t.system("New goal: " + next.Goal)
	}
}
