package npc

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/trail1897/pkg/state"
)

func vendor() *NPC {
	return &NPC{
		Name:        "Mabel Greer",
		Type:        "vendor",
		Description: "Keeps a lean-to store by the gap.",
		Inventory: map[string]Offer{
			"Rope":     {Quantity: 2, Price: 15},
			"jerky":    {Quantity: 0, Price: 5},
			"lantern":  {Quantity: 1, Price: 90},
			"tin pail": {Quantity: 1, Price: 30},
		},
	}
}

func TestOffer_UnmarshalJSON(t *testing.T) {
	var inv map[string]Offer
	err := json.Unmarshal([]byte(`{"rope": [2, 15], "salt": {"quantity": 1, "price": 4}}`), &inv)
	require.NoError(t, err)
	assert.Equal(t, Offer{Quantity: 2, Price: 15}, inv["rope"])
	assert.Equal(t, Offer{Quantity: 1, Price: 4}, inv["salt"])

	data, err := json.Marshal(inv["rope"])
	require.NoError(t, err)
	assert.JSONEq(t, `[2, 15]`, string(data))

	for _, bad := range []string{`[1]`, `"cheap"`, `{"quantity": 1}`, `[-1, 2]`} {
		var o Offer
		assert.Error(t, json.Unmarshal([]byte(bad), &o), bad)
	}
}

func TestSellTo(t *testing.T) {
	tests := []struct {
		name    string
		npc     *NPC
		item    string
		money   int
		wantErr error
	}{
		{"not a vendor", &NPC{Name: "Jeb", Type: "hunter"}, "rope", 100, ErrNotVendor},
		{"not stocked", vendor(), "whiskey", 100, ErrNotStocked},
		{"out of stock", vendor(), "jerky", 100, ErrOutOfStock},
		{"too poor", vendor(), "lantern", 50, state.ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := state.NewPlayerState()
			p.Money = tt.money
			before := p.Clone()
			stockBefore := map[string]Offer{}
			for k, v := range tt.npc.Inventory {
				stockBefore[k] = v
			}

			_, err := tt.npc.SellTo(p, tt.item)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, before, p)
			if tt.npc.Inventory != nil {
				assert.Equal(t, stockBefore, tt.npc.Inventory)
			}
		})
	}
}

func TestSellTo_Success(t *testing.T) {
	v := vendor()
	p := state.NewPlayerState()

	sale, err := v.SellTo(p, "rope")
	require.NoError(t, err)
	assert.Equal(t, "rope", sale.Item)
	assert.Equal(t, 15, sale.Price)
	assert.Equal(t, 1, sale.Remaining)
	assert.Equal(t, 85, p.Money)
	assert.Equal(t, 1, p.Inventory.Count("rope"))
	assert.Equal(t, Offer{Quantity: 1, Price: 15}, v.Inventory["Rope"])
	assert.Equal(t, 1, v.Disposition.GoodDeeds)
}

func TestRoster(t *testing.T) {
	r := NewRoster()
	assert.Equal(t, "1", r.Add(&NPC{Name: "Old Tom", Type: "guide", Description: "Knows every ridge."}))
	assert.Equal(t, "2", r.Add(vendor()))

	data, err := json.Marshal(r)
	require.NoError(t, err)

	restored := NewRoster()
	require.NoError(t, json.Unmarshal(data, restored))
	assert.Equal(t, 2, restored.Len())
	assert.Equal(t, "3", restored.Add(&NPC{Name: "Ada", Type: "traveler", Description: "Lost."}))

	n, ok := restored.FindByName("old tom")
	require.True(t, ok)
	assert.Equal(t, "guide", n.Type)

	assert.True(t, restored.RecordDeed("Old Tom", true))
	assert.False(t, restored.RecordDeed("Nobody", true))
	assert.Equal(t, 1, n.Disposition.GoodDeeds)
}

func TestRoster_Pick(t *testing.T) {
	r := NewRoster()
	rng := rand.New(rand.NewSource(1))

	_, ok := r.Pick(rng)
	assert.False(t, ok, "empty roster never reuses")

	r.Add(&NPC{Name: "Old Tom", Type: "guide", Description: "Knows every ridge."})
	reused := 0
	for i := 0; i < 1000; i++ {
		if _, ok := r.Pick(rng); ok {
			reused++
		}
	}
	assert.InDelta(t, 700, reused, 80)
}

func TestTypeFromMention(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"A merchant waves from his wagon", "vendor", true},
		{"a shepherd and his flock", "animal_handler", true},
		{"A dog barks in the distance", "animal", true},
		{"Only wind in the pines", "", false},
	}
	for _, tt := range tests {
		got, ok := TypeFromMention(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestIsFarewell(t *testing.T) {
	assert.True(t, IsFarewell("Well, GOODBYE then"))
	assert.True(t, IsFarewell("I should leave"))
	assert.False(t, IsFarewell("What do you sell?"))
}

func TestDisposition_Label(t *testing.T) {
	assert.Equal(t, "neutral", Disposition{}.Label())
	assert.Equal(t, "friendly", Disposition{GoodDeeds: 3}.Label())
	assert.Equal(t, "wary", Disposition{BadDeeds: 2}.Label())
}
