package engine

import "encoding/json"

// Player is an opaque, stable identity token. Players are never removed
// during a game; seating order is the insertion order of the player table.
type Player string

// Faction is one of the two secret societies.
type Faction int

const (
	Order Faction = iota
	Brotherhood
)

var factionNames = map[Faction]string{
	Order:       "Order",
	Brotherhood: "Brotherhood",
}

func (f Faction) String() string {
	if s, ok := factionNames[f]; ok {
		return s
	}
	return "Unknown"
}

// Opponent returns the other faction.
func (f Faction) Opponent() Faction {
	if f == Order {
		return Brotherhood
	}
	return Order
}

// PlayerState holds one player's secret state. Owned exclusively by
// GameState and mutated only through the transition engine.
type PlayerState struct {
	Faction      Faction `json:"faction"`
	Job          Job     `json:"job"`
	JobIsVisible bool    `json:"job_is_visible"`
	Items        []Item  `json:"items"`
}

// ItemIndex returns the position of the first occurrence of item, or -1.
// Duplicates of the same item value are indistinguishable and tracked by
// position, not by unique id.
func (ps *PlayerState) ItemIndex(item Item) int {
	for i, it := range ps.Items {
		if it == item {
			return i
		}
	}
	return -1
}

// HoldsItem reports whether the inventory contains at least one item of
// the given value.
func (ps *PlayerState) HoldsItem(item Item) bool {
	return ps.ItemIndex(item) >= 0
}

// RemoveItemAt removes and returns the item at position i, preserving order.
func (ps *PlayerState) RemoveItemAt(i int) Item {
	item := ps.Items[i]
	ps.Items = append(ps.Items[:i], ps.Items[i+1:]...)
	return item
}

// CountItems counts inventory entries matching any of the given values.
func (ps *PlayerState) CountItems(kinds ...Item) int {
	n := 0
	for _, it := range ps.Items {
		for _, k := range kinds {
			if it == k {
				n++
				break
			}
		}
	}
	return n
}

// PlayerTable stores all PlayerStates in one insertion-ordered arena.
// Entries are addressed by index so that two distinct players can be
// mutated in the same transition without aliasing tricks.
type PlayerTable struct {
	order  []Player
	states []PlayerState
	index  map[Player]int
}

// NewPlayerTable builds a table from parallel player/state slices.
func NewPlayerTable(players []Player, states []PlayerState) *PlayerTable {
	t := &PlayerTable{
		order:  make([]Player, len(players)),
		states: make([]PlayerState, len(states)),
		index:  make(map[Player]int, len(players)),
	}
	copy(t.order, players)
	copy(t.states, states)
	for i, p := range players {
		t.index[p] = i
	}
	return t
}

// Len returns the number of seated players.
func (t *PlayerTable) Len() int {
	return len(t.order)
}

// Order returns a copy of the seating order.
func (t *PlayerTable) Order() []Player {
	out := make([]Player, len(t.order))
	copy(out, t.order)
	return out
}

// Contains reports whether p is seated at this table.
func (t *PlayerTable) Contains(p Player) bool {
	_, ok := t.index[p]
	return ok
}

// IndexOf returns p's seat index, or -1 if p is not seated.
func (t *PlayerTable) IndexOf(p Player) int {
	i, ok := t.index[p]
	if !ok {
		return -1
	}
	return i
}

// Get returns the mutable state of p, or nil if p is not seated.
func (t *PlayerTable) Get(p Player) *PlayerState {
	i, ok := t.index[p]
	if !ok {
		return nil
	}
	return &t.states[i]
}

// Pair returns disjoint mutable access to two distinct players' states.
// Panics if a == b; callers validate distinctness before mutating.
func (t *PlayerTable) Pair(a, b Player) (*PlayerState, *PlayerState) {
	ia, ib := t.index[a], t.index[b]
	if ia == ib {
		panic("engine: Pair called with identical players")
	}
	return &t.states[ia], &t.states[ib]
}

// Next returns the player seated after p, wrapping around.
func (t *PlayerTable) Next(p Player) Player {
	i := t.index[p]
	return t.order[(i+1)%len(t.order)]
}

// Neighbor returns p's neighbor in the given direction. Forward is
// ascending seat order.
func (t *PlayerTable) Neighbor(p Player, forward bool) Player {
	i := t.index[p]
	n := len(t.order)
	if forward {
		return t.order[(i+1)%n]
	}
	return t.order[(i+n-1)%n]
}

// Supporters returns every player except attacker and defender, in seat
// order starting immediately after the attacker and wrapping around.
func (t *PlayerTable) Supporters(attacker, defender Player) []Player {
	start := t.index[attacker]
	n := len(t.order)
	out := make([]Player, 0, n-2)
	for i := 1; i < n; i++ {
		p := t.order[(start+i)%n]
		if p != defender {
			out = append(out, p)
		}
	}
	return out
}

type playerEntry struct {
	Player Player      `json:"player"`
	State  PlayerState `json:"state"`
}

// MarshalJSON serializes the table as an ordered array so that seating
// order survives the round trip.
func (t *PlayerTable) MarshalJSON() ([]byte, error) {
	entries := make([]playerEntry, len(t.order))
	for i, p := range t.order {
		entries[i] = playerEntry{Player: p, State: t.states[i]}
	}
	return json.Marshal(entries)
}

// UnmarshalJSON rebuilds the table, including the seat index.
func (t *PlayerTable) UnmarshalJSON(data []byte) error {
	var entries []playerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	t.order = make([]Player, len(entries))
	t.states = make([]PlayerState, len(entries))
	t.index = make(map[Player]int, len(entries))
	for i, e := range entries {
		t.order[i] = e.Player
		t.states[i] = e.State
		t.index[e.Player] = i
	}
	return nil
}
