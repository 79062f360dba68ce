// Package gate decides whether a free-text action can be attempted given
// what the hiker carries, how fit they are and what the scene holds.
package gate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/trail1897/pkg/state"
)

// ErrDenied is wrapped by every Denial.
var ErrDenied = errors.New("action denied")

// Reason classifies why an action was refused.
type Reason string

const (
	MissingRequiredItem Reason = "missing_required_item"
	MissingTool         Reason = "missing_tool"
	OutOfScope          Reason = "out_of_scope"
	TooExhausted        Reason = "too_exhausted"
	TooHungry           Reason = "too_hungry"
	NoSuchItem          Reason = "no_such_item"
	NotPickable         Reason = "not_pickable"
	InsufficientStock   Reason = "insufficient_stock"
)

// Denial is returned when an action fails a check. Message is shown to the
// player as-is.
type Denial struct {
	Reason  Reason
	Subject string
	Missing []string
	Message string
}

func (d *Denial) Error() string {
	return d.Message
}

func (d *Denial) Unwrap() error {
	return ErrDenied
}

// ReasonOf returns the denial reason carried by err, if any.
func ReasonOf(err error) (Reason, bool) {
	var d *Denial
	if errors.As(err, &d) {
		return d.Reason, true
	}
	return "", false
}

// Gate validates free-text input against a set of rules.
type Gate struct {
	rules *Rules
}

func New(rules *Rules) *Gate {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Gate{rules: rules}
}

// Rules returns the tables in use.
func (g *Gate) Rules() *Rules {
	return g.rules
}

// Validate runs the checks in order and returns the first Denial, or nil
// when the action is allowed. It never mutates player or env.
func (g *Gate) Validate(input string, player *state.PlayerState, env state.Items) error {
	ws := actionWords(input)

	if d := g.checkRequirements(ws, player.Inventory); d != nil {
		return d
	}
	if d := g.checkTools(ws, player.Inventory); d != nil {
		return d
	}
	if d := g.checkImpossible(ws); d != nil {
		return d
	}
	if d := g.checkFitness(ws, player); d != nil {
		return d
	}
	if req, ok := ParsePickup(input); ok {
		if _, d := g.CheckPickup(req, env); d != nil {
			return d
		}
	}
	return nil
}

func (g *Gate) checkRequirements(ws []string, inv state.Items) *Denial {
	for _, req := range g.rules.Requirements {
		if !containsPhrase(ws, req.Action, verbForm) {
			continue
		}
		var missing []string
		for _, item := range req.Items {
			if !inv.HasLike(item) {
				missing = append(missing, item)
			}
		}
		if len(missing) > 0 {
			return &Denial{
				Reason:  MissingRequiredItem,
				Subject: req.Action,
				Missing: missing,
				Message: fmt.Sprintf("You need %s to %s.", strings.Join(missing, ", "), req.Action),
			}
		}
	}
	return nil
}

func (g *Gate) checkTools(ws []string, inv state.Items) *Denial {
	for _, tool := range g.rules.Tools {
		if _, ok := firstVerb(ws, tool.Triggers); ok && !inv.HasLike(tool.Tool) {
			return &Denial{
				Reason:  MissingTool,
				Subject: tool.Tool,
				Missing: []string{tool.Tool},
				Message: fmt.Sprintf("You need a %s to do that.", tool.Tool),
			}
		}
	}
	return nil
}

// checkImpossible refuses actions the trail cannot support. "craft" is in
// the default list, so free-text crafting is refused here while the /craft
// command remains available.
func (g *Gate) checkImpossible(ws []string) *Denial {
	if verb, ok := firstVerb(ws, g.rules.Impossible); ok {
		return &Denial{
			Reason:  OutOfScope,
			Subject: verb,
			Message: "That action is not possible in this environment.",
		}
	}
	return nil
}

func (g *Gate) checkFitness(ws []string, player *state.PlayerState) *Denial {
	verb, ok := firstVerb(ws, g.rules.Movement)
	if !ok {
		return nil
	}
	if player.Health <= g.rules.ExhaustedHealth {
		return &Denial{
			Reason:  TooExhausted,
			Subject: verb,
			Message: "You are too exhausted to travel. You should rest first.",
		}
	}
	if player.Energy <= g.rules.HungryEnergy {
		return &Denial{
			Reason:  TooHungry,
			Subject: verb,
			Message: "You are too hungry to travel. You should eat something.",
		}
	}
	return nil
}

// IsMovement reports whether input contains a movement verb.
func (g *Gate) IsMovement(input string) bool {
	_, ok := firstVerb(words(input), g.rules.Movement)
	return ok
}
