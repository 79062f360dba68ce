package state

import "errors"

const (
	MaxMeter        = 100
	StartingHealth  = 100
	StartingEnergy  = 100
	StartingMoney   = 100
	TiredAfterMoves = 5
)

var ErrInsufficientFunds = errors.New("not enough money")

// PlayerState is the player's survival meters, purse and pack.
type PlayerState struct {
	Health         int   `json:"health"`
	Energy         int   `json:"energy"`
	Money          int   `json:"money"`
	Inventory      Items `json:"inventory"`
	MovesSinceRest int   `json:"moves_since_rest"`
}

// StartingInventory is what every new hiker carries.
func StartingInventory() Items {
	return Items{
		"canvas rucksack":    1,
		"worn map":           1,
		"brass compass":      1,
		"water canteen":      1,
		"first aid supplies": 1,
		"flint and steel":    1,
	}
}

func NewPlayerState() *PlayerState {
	return &PlayerState{
		Health:    StartingHealth,
		Energy:    StartingEnergy,
		Money:     StartingMoney,
		Inventory: StartingInventory(),
	}
}

func clampMeter(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxMeter {
		return MaxMeter
	}
	return v
}

// AdjustHealth adds delta and clamps to [0, 100]. It returns the new value.
func (p *PlayerState) AdjustHealth(delta int) int {
	p.Health = clampMeter(p.Health + delta)
	return p.Health
}

// AdjustEnergy adds delta and clamps to [0, 100]. It returns the new value.
func (p *PlayerState) AdjustEnergy(delta int) int {
	p.Energy = clampMeter(p.Energy + delta)
	return p.Energy
}

func (p *PlayerState) SetHealth(v int) { p.Health = clampMeter(v) }
func (p *PlayerState) SetEnergy(v int) { p.Energy = clampMeter(v) }

// Spend deducts amount from the purse, or fails leaving it untouched.
func (p *PlayerState) Spend(amount int) error {
	if amount < 0 {
		return errors.New("amount cannot be negative")
	}
	if p.Money < amount {
		return ErrInsufficientFunds
	}
	p.Money -= amount
	return nil
}

func (p *PlayerState) Earn(amount int) {
	if amount > 0 {
		p.Money += amount
	}
}

// RecordMove counts one step of travel and returns the running total.
func (p *PlayerState) RecordMove() int {
	p.MovesSinceRest++
	return p.MovesSinceRest
}

// Tired reports whether the hiker has walked too long without rest.
func (p *PlayerState) Tired() bool {
	return p.MovesSinceRest > TiredAfterMoves
}

func (p *PlayerState) ResetMoves() {
	p.MovesSinceRest = 0
}

// Collapsed reports whether health has run out.
func (p *PlayerState) Collapsed() bool {
	return p.Health <= 0
}

// Clone returns a deep copy.
func (p *PlayerState) Clone() *PlayerState {
	c := *p
	c.Inventory = p.Inventory.Clone()
	return &c
}
