package game

import (
	"context"
	"strings"
)

// CommandPrefix marks input as a command rather than narration.
const CommandPrefix = "/"

// UnknownCommand is shown for any command not in the table.
const UnknownCommand = "Unknown command. Type '/help' for a list of available commands."

type commandType string

const (
	cmdHelp      commandType = "help"
	cmdInventory commandType = "inventory"
	cmdPickup    commandType = "pickup"
	cmdCraft     commandType = "craft"
	cmdBuy       commandType = "buy"
	cmdTalk      commandType = "talk"
	cmdLoot      commandType = "loot"
	cmdConsume   commandType = "consume"
	cmdUse       commandType = "use"
	cmdLook      commandType = "look"
	cmdGive      commandType = "give"
	cmdSleep     commandType = "sleep"
	cmdStatus    commandType = "status"
	cmdSave      commandType = "save"
	cmdLoad      commandType = "load"
	cmdJournal   commandType = "journal"
	cmdNone      commandType = ""
)

var aliases = map[string]commandType{
	"help":      cmdHelp,
	"h":         cmdHelp,
	"inventory": cmdInventory,
	"i":         cmdInventory,
	"pickup":    cmdPickup,
	"take":      cmdPickup,
	"craft":     cmdCraft,
	"buy":       cmdBuy,
	"talk":      cmdTalk,
	"loot":      cmdLoot,
	"consume":   cmdConsume,
	"eat":       cmdConsume,
	"use":       cmdUse,
	"look":      cmdLook,
	"l":         cmdLook,
	"give":      cmdGive,
	"sleep":     cmdSleep,
	"status":    cmdStatus,
	"save":      cmdSave,
	"load":      cmdLoad,
	"journal":   cmdJournal,
}

type commandFunc func(s *Session, ctx context.Context, t *Turn, args string)

var commands map[commandType]commandFunc

func init() {
	commands = map[commandType]commandFunc{
		cmdHelp:      (*Session).cmdHelp,
		cmdInventory: (*Session).cmdInventory,
		cmdPickup:    (*Session).cmdPickup,
		cmdCraft:     (*Session).cmdCraft,
		cmdBuy:       (*Session).cmdBuy,
		cmdTalk:      (*Session).cmdTalk,
		cmdLoot:      (*Session).cmdLoot,
		cmdConsume:   (*Session).cmdConsume,
		cmdUse:       (*Session).cmdUse,
		cmdLook:      (*Session).cmdLook,
		cmdGive:      (*Session).cmdGive,
		cmdSleep:     (*Session).cmdSleep,
		cmdStatus:    (*Session).cmdStatus,
		cmdSave:      (*Session).cmdSave,
		cmdLoad:      (*Session).cmdLoad,
		cmdJournal:   (*Session).cmdJournal,
	}
}

// parseCommand splits "/craft fishing line" into the command and its
// argument text. Unknown names return cmdNone.
func parseCommand(input string) (commandType, string) {
	body := strings.TrimSpace(strings.TrimPrefix(input, CommandPrefix))
	if body == "" {
		return cmdNone, ""
	}
	name, args, _ := strings.Cut(body, " ")
	cmd, ok := aliases[strings.ToLower(name)]
	if !ok {
		return cmdNone, ""
	}
	return cmd, strings.TrimSpace(args)
}

func (s *Session) dispatch(ctx context.Context, t *Turn, input string) {
	cmd, args := parseCommand(input)
	run, ok := commands[cmd]
	if !ok {
		t.system(UnknownCommand)
		return
	}
	s.logger.Debug("Command", "command", string(cmd), "args", args)
	run(s, ctx, t, args)
}

var helpLines = []string{
	"Available commands:",
	"/inventory - Check your supplies",
	"/look - Look around and see what can be gathered",
	"/pickup [item] - Pick up an item from your surroundings",
	"/loot - Gather everything that can be carried",
	"/craft [item] - Craft an item (e.g., /craft snare)",
	"/talk [someone] - Engage in conversation with a character",
	"/buy [item] - Purchase an item from a vendor you are talking to",
	"/give [item] - Give an item to the person you are talking to",
	"/consume [item] - Eat or drink something you carry",
	"/use [item] [how] - Use an item, optionally describing how",
	"/sleep - Rest for the night",
	"/status - Show health, energy, money and goal",
	"/save, /load - Save or restore your game",
	"/journal - Write your journey to a PDF journal",
	"/help - Show this help message",
	"",
	"While talking to someone, all your messages will be directed to them.",
	"Say 'goodbye' to end the conversation.",
	"Every action you take will include a description of your surroundings.",
}

func (s *Session) cmdHelp(_ context.Context, t *Turn, _ string) {
	for _, line := range helpLines {
		t.system(line)
	}
}

func (s *Session) cmdInventory(_ context.Context, t *Turn, _ string) {
	p := s.gs.Player
	t.system("Inventory: " + p.Inventory.String())
	t.systemf("Money: %d cents", p.Money)
}

func (s *Session) cmdStatus(_ context.Context, t *Turn, _ string) {
	p := s.gs.Player
	t.systemf("Health: %d  Energy: %d  Money: %d cents", p.Health, p.Energy, p.Money)
	if p.Tired() {
		t.system("You're getting tired. You should rest soon.")
	}
	if act := s.gs.Journey.CurrentAct(); act != nil {
		t.system("Current goal: " + act.Goal)
	}
	if s.current != nil {
		t.system("Talking with " + s.current.Name + ".")
	}
}

func (s *Session) cmdLook(_ context.Context, t *Turn, _ string) {
	f := s.gs.Frame
	if f.Location != "" {
		t.system("Location: " + f.Location)
	}
	if f.SceneText != "" {
		t.narrate(f.SceneText)
	} else {
		t.narrate("The trail stretches north under the trees.")
	}
	s.describeEnvironment(t)
	if len(s.mentions) > 0 {
		t.system("Nearby: " + mentionList(s.mentions))
	}
}

func (s *Session) describeEnvironment(t *Turn) {
	if len(s.gs.Environment) == 0 {
		t.system("No items are available here.")
		return
	}
	t.system("Noticeable items in the area: " + s.gs.Environment.String())
}
