package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/trail1897/pkg/chat"
	"github.com/jwebster45206/trail1897/pkg/npc"
	"github.com/jwebster45206/trail1897/pkg/state"
)

const conversationHint = "You can talk naturally with them. Say 'goodbye' to end the conversation."

func mentionList(mentions []npc.NPC) string {
	parts := make([]string, len(mentions))
	for i, m := range mentions {
		parts[i] = fmt.Sprintf("%s (%s)", m.Name, m.Type)
	}
	return strings.Join(parts, ", ")
}

// findMention returns the scene character whose name or type appears in
// text. With empty text the first character present is returned.
func (s *Session) findMention(text string) (*npc.NPC, bool) {
	if len(s.mentions) == 0 {
		return nil, false
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		m := s.mentions[0]
		return &m, true
	}
	for _, m := range s.mentions {
		name, kind := strings.ToLower(m.Name), strings.ToLower(m.Type)
		if strings.Contains(lower, name) || strings.Contains(name, lower) || strings.Contains(lower, kind) {
			found := m
			return &found, true
		}
	}
	return nil, false
}

// cmdTalk starts a conversation with someone in the scene, someone the
// scene suggests, or someone met before. Naming someone else while in a
// conversation ends it first.
func (s *Session) cmdTalk(ctx context.Context, t *Turn, args string) {
	if who := s.current; who != nil {
		target := strings.ToLower(strings.TrimSpace(args))
		if target == "" || strings.Contains(strings.ToLower(who.Name), target) || strings.Contains(target, strings.ToLower(who.Name)) {
			t.systemf("You are already talking with %s.", who.Name)
			return
		}
		s.endConversation()
		t.systemf("You leave %s.", who.Name)
		s.saveCharacters(ctx)
	}
	if m, ok := s.findMention(args); ok {
		s.approach(ctx, t, m)
		return
	}

	scene := s.gs.Frame.RecentText()
	if scene == "" && s.roster.Len() == 0 {
		t.system("There's no one here to talk to.")
		return
	}

	if kind, ok := npc.TypeFromMention(args + " " + scene); ok {
		s.encounter(ctx, t, kind)
		return
	}
	if known, ok := s.roster.Pick(s.rng); ok {
		s.startConversation(known)
		t.systemf("%s is here again. %s", known.Name, known.Description)
		t.system(conversationHint)
		return
	}
	s.encounter(ctx, t, "")
}

// approach begins talking to a character the scene mentioned, keeping them
// in the roster from then on.
func (s *Session) approach(ctx context.Context, t *Turn, m *npc.NPC) {
	who, ok := s.roster.FindByName(m.Name)
	if !ok {
		who = m
		s.roster.Add(who)
		s.saveCharacters(ctx)
	}
	s.startConversation(who)
	t.systemf("You approach %s, %s", who.Name, who.Description)
	t.system("You can talk naturally. Say 'goodbye' to end conversation.")
}

// encounter asks the narrator for a new character of kind ("" for any).
func (s *Session) encounter(ctx context.Context, t *Turn, kind string) {
	who, err := s.narrator.GenerateNPC(ctx, kind, s.gs.Frame.SceneText)
	if err != nil {
		s.logger.Warn("Character generation failed", "type", kind, "error", err)
		t.system("No one responds.")
		return
	}
	s.roster.Add(who)
	s.saveCharacters(ctx)
	s.startConversation(who)

	t.systemf("A %s is encountered. %s, %s", who.Type, who.Name, who.Description)
	if who.IsVendor() {
		if stock := who.StockList(); len(stock) > 0 {
			t.system("They have: " + strings.Join(stock, ", "))
		}
	}
	t.system(conversationHint)
}

// talkTo handles "talk to X" in free text. It reports false when nobody
// by that description is in the scene, so the input is narrated instead.
func (s *Session) talkTo(ctx context.Context, t *Turn, target string) bool {
	target = strings.Trim(strings.TrimSpace(target), ".!?")
	if target == "" {
		return false
	}
	if m, ok := s.findMention(target); ok {
		s.approach(ctx, t, m)
		return true
	}
	if known, ok := s.roster.FindByName(target); ok && s.gs.Frame.Mentions(known.Name) {
		s.startConversation(known)
		t.systemf("You approach %s, %s", known.Name, known.Description)
		t.system(conversationHint)
		return true
	}

	target = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(target), "the "), "a ")
	scene := s.gs.Frame.SceneText
	if scene == "" || !strings.Contains(strings.ToLower(scene), target) {
		return false
	}
	who, err := s.narrator.CreateNPCFromMention(ctx, target, scene)
	if err != nil {
		s.logger.Warn("Could not create character from mention", "target", target, "error", err)
		return false
	}
	s.roster.Add(who)
	s.saveCharacters(ctx)
	s.startConversation(who)
	s.converse(ctx, t, "hello")
	return true
}

// converse sends free text to the current character, or ends the
// conversation on a farewell.
func (s *Session) converse(ctx context.Context, t *Turn, input string) {
	who := s.current
	if npc.IsFarewell(input) {
		s.endConversation()
		t.systemf("%s bids farewell.", who.Name)
		s.saveCharacters(ctx)
		return
	}

	reply, err := s.narrator.Dialogue(ctx, who, s.talk, input)
	if err != nil {
		s.logger.Warn("Dialogue failed", "npc", who.Name, "error", err)
		t.system("No one responds.")
		return
	}
	s.talk = append(s.talk,
		chat.ChatMessage{Role: chat.ChatRoleUser, Content: input},
		chat.ChatMessage{Role: chat.ChatRoleAgent, Content: reply},
	)
	t.say(chat.FormatWithSpeaker(reply, who.Name))
}

// cmdBuy buys one unit from the vendor being talked to.
func (s *Session) cmdBuy(ctx context.Context, t *Turn, args string) {
	vendor := s.current
	if vendor == nil || !vendor.IsVendor() {
		t.system("There's no vendor here to buy from.")
		return
	}
	if args == "" {
		t.system("What would you like to buy?")
		if stock := vendor.StockList(); len(stock) > 0 {
			t.system("For sale: " + strings.Join(stock, ", "))
		}
		return
	}

	item := state.NormalizeName(args)
	sale, err := vendor.SellTo(s.gs.Player, item)
	switch {
	case err == nil:
		t.systemf("You bought %s for %d cents. You have %d cents remaining.", sale.Item, sale.Price, s.gs.Player.Money)
		s.saveCharacters(ctx)
	case errors.Is(err, npc.ErrNotStocked):
		t.systemf("%s doesn't have that item for sale.", vendor.Name)
	case errors.Is(err, npc.ErrOutOfStock):
		t.systemf("%s is out of %s.", vendor.Name, item)
	case errors.Is(err, state.ErrInsufficientFunds):
		_, offer, _ := vendor.FindOffer(item)
		t.systemf("You don't have enough money. %s costs %d cents.", item, offer.Price)
	default:
		s.logger.Error("Purchase failed", "vendor", vendor.Name, "item", item, "error", err)
		t.system("The sale falls through.")
	}
}
