package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

const (
	// MinPlayers is bounded below by the victory threshold of three items.
	MinPlayers = 3
	// MaxPlayers is bounded above by the ten available jobs.
	MaxPlayers = 10
)

var ErrPlayerCount = errors.New("unsupported player count")

// New deals a fresh game for the given players. Seating order is the
// shuffled player order and the first seat starts. Randomness is consumed
// here and never again; a fixed source yields a deterministic deal.
func New(players []Player, rng *rand.Rand) (*State, error) {
	n := len(players)
	if n < MinPlayers || n > MaxPlayers {
		return nil, fmt.Errorf("%w: %d (want %d-%d)", ErrPlayerCount, n, MinPlayers, MaxPlayers)
	}
	seen := make(map[Player]bool, n)
	for _, p := range players {
		if seen[p] {
			return nil, fmt.Errorf("%w: duplicate player %s", ErrPlayerCount, p)
		}
		seen[p] = true
	}

	seats := make([]Player, n)
	copy(seats, players)
	rng.Shuffle(n, func(i, j int) { seats[i], seats[j] = seats[j], seats[i] })

	// Factions: half and half, rounded up, shuffled and truncated.
	factions := make([]Faction, 0, n+1)
	for i := 0; i < (n+1)/2; i++ {
		factions = append(factions, Order, Brotherhood)
	}
	rng.Shuffle(len(factions), func(i, j int) { factions[i], factions[j] = factions[j], factions[i] })
	factions = factions[:n]

	// Starting items: both bags plus n-2 of the basics, one per player.
	basics := BasicItems()
	rng.Shuffle(len(basics), func(i, j int) { basics[i], basics[j] = basics[j], basics[i] })
	starting := append([]Item{BagKey, BagGoblet}, basics[:n-2]...)
	rng.Shuffle(len(starting), func(i, j int) { starting[i], starting[j] = starting[j], starting[i] })

	jobs := AllJobs()
	rng.Shuffle(len(jobs), func(i, j int) { jobs[i], jobs[j] = jobs[j], jobs[i] })

	states := make([]PlayerState, n)
	for i := range states {
		states[i] = PlayerState{
			Faction: factions[i],
			Job:     jobs[i],
			Items:   []Item{starting[i]},
		}
	}

	// Draw pile: the leftover basics plus the special items, shuffled.
	stack := append(SpecialItems(), basics[n-2:]...)
	rng.Shuffle(len(stack), func(i, j int) { stack[i], stack[j] = stack[j], stack[i] })

	return &State{
		Game: GameState{
			Players:   NewPlayerTable(seats, states),
			ItemStack: stack,
			JobStack:  append([]Job(nil), jobs[n:]...),
		},
		Turn: *turnStart(seats[0]),
	}, nil
}
