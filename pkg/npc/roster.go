package npc

import (
	"encoding/json"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ReuseChance is how often Pick returns someone already met rather than
// asking for a new character.
const ReuseChance = 0.7

// Roster is every character met so far, keyed by a sequential string ID.
// It serializes as a plain {"1": {...}, "2": {...}} object.
type Roster struct {
	mu   sync.RWMutex
	npcs map[string]*NPC
}

func NewRoster() *Roster {
	return &Roster{npcs: make(map[string]*NPC)}
}

// Add stores a character and returns its new ID.
func (r *Roster) Add(n *NPC) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := strconv.Itoa(r.nextIDLocked())
	r.npcs[id] = n
	return id
}

func (r *Roster) nextIDLocked() int {
	max := 0
	for id := range r.npcs {
		if n, err := strconv.Atoi(id); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

func (r *Roster) Get(id string) (*NPC, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.npcs[id]
	return n, ok
}

// FindByName returns the first character whose name matches, ignoring case.
func (r *Roster) FindByName(name string) (*NPC, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.idsLocked() {
		if strings.EqualFold(r.npcs[id].Name, strings.TrimSpace(name)) {
			return r.npcs[id], true
		}
	}
	return nil, false
}

func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.npcs)
}

// Pick returns an existing character with probability ReuseChance. It
// returns false when the caller should create someone new.
func (r *Roster) Pick(rng *rand.Rand) (*NPC, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.npcs) == 0 || rng.Float64() >= ReuseChance {
		return nil, false
	}
	ids := r.idsLocked()
	return r.npcs[ids[rng.Intn(len(ids))]], true
}

func (r *Roster) idsLocked() []string {
	ids := make([]string, 0, len(r.npcs))
	for id := range r.npcs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids
}

// RecordDeed adjusts how a named character feels about the hiker.
func (r *Roster) RecordDeed(name string, good bool) bool {
	n, ok := r.FindByName(name)
	if !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if good {
		n.Disposition.GoodDeeds++
	} else {
		n.Disposition.BadDeeds++
	}
	return true
}

func (r *Roster) MarshalJSON() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return json.Marshal(r.npcs)
}

func (r *Roster) UnmarshalJSON(data []byte) error {
	var npcs map[string]*NPC
	if err := json.Unmarshal(data, &npcs); err != nil {
		return err
	}
	if npcs == nil {
		npcs = make(map[string]*NPC)
	}
	for id, n := range npcs {
		if n == nil {
			delete(npcs, id)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.npcs = npcs
	return nil
}
