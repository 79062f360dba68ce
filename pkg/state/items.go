package state

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInsufficientQuantity is returned when a decrement asks for more units
// than are held.
var ErrInsufficientQuantity = errors.New("insufficient quantity")

// InsufficientQuantityError carries the counts behind ErrInsufficientQuantity.
type InsufficientQuantityError struct {
	Item string
	Have int
	Want int
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("%s: have %d, need %d", e.Item, e.Have, e.Want)
}

func (e *InsufficientQuantityError) Unwrap() error {
	return ErrInsufficientQuantity
}

// Items maps an item name to a positive count. A missing key means zero;
// keys are removed rather than stored at zero. The player's inventory, the
// scene's environment items and vendor stock all use this type.
type Items map[string]int

// NormalizeName lowercases and trims an item name so lookups are stable.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Count returns the number of units held, zero if absent.
func (it Items) Count(item string) int {
	return it[NormalizeName(item)]
}

// Has reports whether at least one unit is held.
func (it Items) Has(item string) bool {
	return it.Count(item) > 0
}

// CanAfford reports whether n units could be removed.
func (it Items) CanAfford(item string, n int) bool {
	return it.Count(item) >= n
}

// Increment adds n units, creating the entry if needed. n <= 0 is a no-op.
func (it *Items) Increment(item string, n int) {
	if n <= 0 {
		return
	}
	if *it == nil {
		*it = make(Items)
	}
	(*it)[NormalizeName(item)] += n
}

// Decrement removes n units. It fails without mutating anything when fewer
// than n are held, and deletes the entry when the count reaches zero.
func (it Items) Decrement(item string, n int) error {
	key := NormalizeName(item)
	have := it[key]
	if have < n {
		return &InsufficientQuantityError{Item: key, Have: have, Want: n}
	}
	if n <= 0 {
		return nil
	}
	if have == n {
		delete(it, key)
		return nil
	}
	it[key] = have - n
	return nil
}

// Take removes every unit of item and returns how many there were.
func (it Items) Take(item string) int {
	key := NormalizeName(item)
	n := it[key]
	delete(it, key)
	return n
}

// Names returns the held item names in sorted order.
func (it Items) Names() []string {
	names := make([]string, 0, len(it))
	for name, n := range it {
		if n > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Total returns the number of units across all items.
func (it Items) Total() int {
	total := 0
	for _, n := range it {
		total += n
	}
	return total
}

// Clone returns an independent copy.
func (it Items) Clone() Items {
	out := make(Items, len(it))
	for k, v := range it {
		out[k] = v
	}
	return out
}

// FindLike returns the held item that matches name as a whole phrase.
// "compass" matches "brass compass" and "arrow" matches "arrows".
func (it Items) FindLike(name string) (string, bool) {
	want := NormalizeName(name)
	if want == "" {
		return "", false
	}
	if it[want] > 0 {
		return want, true
	}
	for _, key := range it.Names() {
		if containsPhrase(key, want) || containsPhrase(strings.TrimSuffix(key, "s"), want) {
			return key, true
		}
	}
	return "", false
}

// HasLike reports whether FindLike would succeed.
func (it Items) HasLike(name string) bool {
	_, ok := it.FindLike(name)
	return ok
}

// String renders the items as "brass compass, 2 stick".
func (it Items) String() string {
	names := it.Names()
	if len(names) == 0 {
		return "nothing"
	}
	parts := make([]string, len(names))
	for i, name := range names {
		if n := it[name]; n > 1 {
			parts[i] = fmt.Sprintf("%d %s", n, name)
		} else {
			parts[i] = name
		}
	}
	return strings.Join(parts, ", ")
}

func containsPhrase(text, phrase string) bool {
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}
