// Package npc holds the people met on the trail: their records, what
// vendors sell, and how each one feels about the hiker.
package npc

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jwebster45206/trail1897/pkg/state"
)

const (
	TypeTraveler = "traveler"
	TypeVendor   = "vendor"
	TypeHunter   = "hunter"
	TypeGuide    = "guide"
)

var vendorTypes = []string{"vendor", "merchant", "trader", "peddler", "shopkeeper", "storekeeper"}

var (
	ErrNotVendor  = errors.New("not a vendor")
	ErrNotStocked = errors.New("item not stocked")
	ErrOutOfStock = errors.New("out of stock")
)

// Offer is a vendor's stock of one item and its unit price. In JSON it is
// written as a [quantity, price] pair.
type Offer struct {
	Quantity int
	Price    int
}

// UnmarshalJSON accepts either [quantity, price] or
// {"quantity": n, "price": n}.
func (o *Offer) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("offer: expected [quantity, price], got %d values", len(pair))
		}
		o.Quantity, o.Price = pair[0], pair[1]
		return o.validate()
	}
	var obj struct {
		Quantity *int `json:"quantity"`
		Price    *int `json:"price"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Quantity != nil && obj.Price != nil {
		o.Quantity, o.Price = *obj.Quantity, *obj.Price
		return o.validate()
	}
	return fmt.Errorf("offer: not a [quantity, price] pair or object: %s", string(data))
}

func (o Offer) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{o.Quantity, o.Price})
}

func (o Offer) validate() error {
	if o.Quantity < 0 || o.Price < 0 {
		return fmt.Errorf("offer: quantity and price must be non-negative")
	}
	return nil
}

// Disposition remembers how the hiker has treated someone.
type Disposition struct {
	GoodDeeds int `json:"good_deeds"`
	BadDeeds  int `json:"bad_deeds"`
}

func (d Disposition) Score() int {
	return d.GoodDeeds - d.BadDeeds
}

// Label describes the disposition in a word.
func (d Disposition) Label() string {
	switch s := d.Score(); {
	case s >= 3:
		return "friendly"
	case s <= -2:
		return "wary"
	default:
		return "neutral"
	}
}

// NPC is a character on the trail.
type NPC struct {
	Name          string           `json:"name"`
	Type          string           `json:"type"`
	Description   string           `json:"description"`
	Personality   string           `json:"personality,omitempty"`
	DialogueStyle string           `json:"dialogue_style,omitempty"`
	Inventory     map[string]Offer `json:"inventory,omitempty"`
	Disposition   Disposition      `json:"disposition"`
}

// Validate checks the fields every character needs.
func (n *NPC) Validate() error {
	var missing []string
	if strings.TrimSpace(n.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(n.Type) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(n.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return fmt.Errorf("npc missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsVendor reports whether the character trades goods.
func (n *NPC) IsVendor() bool {
	t := strings.ToLower(n.Type)
	for _, v := range vendorTypes {
		if strings.Contains(t, v) {
			return true
		}
	}
	return false
}

// FindOffer looks up a stocked item by name, case-insensitively.
func (n *NPC) FindOffer(item string) (string, Offer, bool) {
	want := state.NormalizeName(item)
	for name, offer := range n.Inventory {
		if state.NormalizeName(name) == want {
			return name, offer, true
		}
	}
	return "", Offer{}, false
}

// Sale is the outcome of a successful purchase.
type Sale struct {
	Item      string
	Price     int
	Remaining int
}

// SellTo sells one unit of item to the player. Stock, purse and pack all
// change together or not at all.
func (n *NPC) SellTo(p *state.PlayerState, item string) (*Sale, error) {
	if !n.IsVendor() {
		return nil, fmt.Errorf("%s: %w", n.Name, ErrNotVendor)
	}
	name, offer, ok := n.FindOffer(item)
	if !ok {
		return nil, fmt.Errorf("%s: %w", state.NormalizeName(item), ErrNotStocked)
	}
	if offer.Quantity <= 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrOutOfStock)
	}
	if err := p.Spend(offer.Price); err != nil {
		return nil, fmt.Errorf("%s costs %d: %w", name, offer.Price, err)
	}
	offer.Quantity--
	n.Inventory[name] = offer
	p.Inventory.Increment(name, 1)
	n.Disposition.GoodDeeds++
	return &Sale{Item: state.NormalizeName(name), Price: offer.Price, Remaining: offer.Quantity}, nil
}

// StockList renders a vendor's wares as "rope (2 left, 5 cents)".
func (n *NPC) StockList() []string {
	names := make([]string, 0, len(n.Inventory))
	for name := range n.Inventory {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		o := n.Inventory[name]
		out = append(out, fmt.Sprintf("%s (%d left, %d cents)", name, o.Quantity, o.Price))
	}
	return out
}
