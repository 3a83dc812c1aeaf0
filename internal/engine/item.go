package engine

// Item identifies one of the 16 item kinds. Items are value types:
// duplicates of the same kind are indistinguishable.
type Item int

const (
	Key Item = iota
	Goblet
	BagKey
	BagGoblet
	BlackPearl
	Dagger
	Gloves
	PoisonRing
	CastingKnives
	Whip
	Privilege
	Monocle
	BrokenMirror
	Sextant
	Coat
	Tome
)

var itemNames = map[Item]string{
	Key:           "Key",
	Goblet:        "Goblet",
	BagKey:        "BagKey",
	BagGoblet:     "BagGoblet",
	BlackPearl:    "BlackPearl",
	Dagger:        "Dagger",
	Gloves:        "Gloves",
	PoisonRing:    "PoisonRing",
	CastingKnives: "CastingKnives",
	Whip:          "Whip",
	Privilege:     "Privilege",
	Monocle:       "Monocle",
	BrokenMirror:  "BrokenMirror",
	Sextant:       "Sextant",
	Coat:          "Coat",
	Tome:          "Tome",
}

func (i Item) String() string {
	if s, ok := itemNames[i]; ok {
		return s
	}
	return "Unknown"
}

// Rejectable reports whether a trade offering this item may be rejected.
func (i Item) Rejectable() bool {
	switch i {
	case BlackPearl, BrokenMirror:
		return false
	}
	return true
}

// IsBag reports whether the item refills its holder from the draw pile
// when traded.
func (i Item) IsBag() bool {
	return i == BagKey || i == BagGoblet
}

// VictoryItems returns the item kinds that count toward a victory
// announcement for the given faction. The bag variant qualifies only once
// the draw pile is empty.
func VictoryItems(f Faction, stackEmpty bool) []Item {
	switch f {
	case Order:
		if stackEmpty {
			return []Item{Key, BagKey}
		}
		return []Item{Key}
	default:
		if stackEmpty {
			return []Item{Goblet, BagGoblet}
		}
		return []Item{Goblet}
	}
}

// InventoryLimit is the maximum number of items a player may hold in a
// game of n players. Exceeding it forces a donation.
func InventoryLimit(n int) int {
	return n + 2
}

// BasicItems returns the 14-item pool the dealer draws starting items from.
func BasicItems() []Item {
	return []Item{
		Key, Key, Key,
		Goblet, Goblet, Goblet,
		BlackPearl,
		Dagger,
		Gloves,
		PoisonRing,
		CastingKnives,
		Whip,
		Privilege,
		Monocle,
	}
}

// SpecialItems returns the items that always start on the draw pile.
func SpecialItems() []Item {
	return []Item{BrokenMirror, Sextant, Coat, Tome}
}
