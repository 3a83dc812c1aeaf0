package engine

import "fmt"

// GameState is the authoritative shared state: the seated players, the
// draw pile (pop from the end) and the job pool. The union of all
// inventories, the draw pile and the job pool equals the initial deal.
type GameState struct {
	Players   *PlayerTable `json:"players"`
	ItemStack []Item       `json:"item_stack"`
	JobStack  []Job        `json:"job_stack"`
}

// State bundles the shared game state with the turn state machine. It is
// created once by New and mutated exclusively and sequentially through
// Apply; callers must serialize commands per game.
type State struct {
	Game GameState `json:"game"`
	Turn TurnState `json:"turn"`
}

// Apply validates and executes one player command. On success the turn
// state advances and GameState may be mutated; on error nothing changes.
// Validation fully precedes mutation within each transition.
func (s *State) Apply(actor Player, c Command) error {
	if !s.Game.Players.Contains(actor) {
		return ErrInvalidTarget
	}
	next, err := s.transition(actor, c)
	if err != nil {
		return err
	}
	s.Turn = *next
	return nil
}

func (s *State) transition(actor Player, c Command) (*TurnState, error) {
	switch s.Turn.Kind {
	case TurnStart:
		return s.applyTurnStart(actor, c)
	case TurnGameOver:
		return nil, ErrGameOver
	case TurnTradePending:
		return s.applyTrade(actor, c)
	case TurnResolvingTrigger:
		return s.applyTrigger(actor, c)
	case TurnDonatingItem:
		return s.applyDonation(actor, c)
	case TurnAttacking:
		return s.applyAttack(actor, c)
	}
	return nil, ErrInvalidCommand
}

func (s *State) applyTurnStart(actor Player, c Command) (*TurnState, error) {
	if actor != s.Turn.Player {
		return nil, ErrNotYourTurn
	}
	switch c.Type {
	case CmdPass:
		return turnStart(s.Game.Players.Next(actor)), nil

	case CmdAnnounceVictory:
		return s.announceVictory(actor, c.Teammates)

	case CmdOfferTrade:
		if !s.Game.Players.Contains(c.Target) || c.Target == actor {
			return nil, ErrInvalidTarget
		}
		if c.Item == nil {
			return nil, ErrInvalidCommand
		}
		if !s.Game.Players.Get(actor).HoldsItem(*c.Item) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotHeld, *c.Item)
		}
		return tradePending(&TradePending{Offerer: actor, Target: c.Target, Item: *c.Item}), nil

	case CmdInitiateAttack:
		if !s.Game.Players.Contains(c.Target) || c.Target == actor {
			return nil, ErrInvalidTarget
		}
		return attacking(&AttackRound{
			Attacker: actor,
			Defender: c.Target,
			Phase:    AttackWaitingForPriest,
			Passed:   map[Player]bool{},
		}), nil
	}
	return nil, ErrInvalidCommand
}

// announceVictory ends the game either way: a valid announcement wins for
// the actor's faction, an invalid one is punished by handing the win to
// the opposing faction. Holding the black pearl forbids announcing at all.
func (s *State) announceVictory(actor Player, teammates []Player) (*TurnState, error) {
	members := make([]Player, 0, len(teammates)+1)
	members = append(members, actor)
	seen := map[Player]bool{actor: true}
	for _, t := range teammates {
		if !s.Game.Players.Contains(t) || seen[t] {
			return nil, ErrInvalidTarget
		}
		seen[t] = true
		members = append(members, t)
	}
	for _, m := range members {
		if s.Game.Players.Get(m).HoldsItem(BlackPearl) {
			return nil, ErrBlackPearl
		}
	}

	faction := s.Game.Players.Get(actor).Faction
	qualifying := VictoryItems(faction, len(s.ItemStackView()) == 0)

	valid := true
	total := 0
	for _, m := range members {
		st := s.Game.Players.Get(m)
		n := st.CountItems(qualifying...)
		if st.Faction != faction || n == 0 {
			valid = false
			break
		}
		total += n
	}
	if valid && total >= 3 {
		return gameOver(faction), nil
	}
	return gameOver(faction.Opponent()), nil
}

// ItemStackView returns the draw pile for read-only inspection.
func (s *State) ItemStackView() []Item {
	return s.Game.ItemStack
}

func (s *State) applyTrade(actor Player, c Command) (*TurnState, error) {
	tr := s.Turn.Trade
	if actor != tr.Target {
		return nil, ErrNotYourTurn
	}
	switch c.Type {
	case CmdRejectTrade:
		if !tr.Item.Rejectable() {
			return nil, ErrMustAccept
		}
		return turnStart(s.Game.Players.Next(tr.Offerer)), nil

	case CmdAcceptTrade:
		if c.Item == nil {
			return nil, ErrInvalidCommand
		}
		back := *c.Item
		if tr.Item.IsBag() && back.IsBag() && len(s.Game.ItemStack) > 0 {
			return nil, fmt.Errorf("%w: cannot trade bag for bag", ErrInvalidCommand)
		}
		offSt, tgtSt := s.Game.Players.Pair(tr.Offerer, tr.Target)
		oi := offSt.ItemIndex(tr.Item) // validated when the offer was made
		ti := tgtSt.ItemIndex(back)
		if ti < 0 {
			return nil, fmt.Errorf("%w: %s", ErrItemNotHeld, back)
		}
		offSt.Items[oi], tgtSt.Items[ti] = tgtSt.Items[ti], offSt.Items[oi]

		// A traded broken mirror suppresses all triggers.
		if tr.Item == BrokenMirror || back == BrokenMirror {
			return turnStart(s.Game.Players.Next(tr.Offerer)), nil
		}
		return s.resolveTradeChain(tr.Offerer, tr.Target, tr.Item, &back, true), nil
	}
	return nil, ErrInvalidCommand
}

func (s *State) applyDonation(actor Player, c Command) (*TurnState, error) {
	d := s.Turn.Donation
	if actor != d.Donor {
		return nil, ErrNotYourTurn
	}
	if c.Type != CmdDonateItem {
		return nil, ErrInvalidCommand
	}
	if !s.Game.Players.Contains(c.Target) || c.Target == d.Donor {
		return nil, ErrInvalidTarget
	}
	if c.Item == nil {
		return nil, ErrInvalidCommand
	}
	donorSt, tgtSt := s.Game.Players.Pair(d.Donor, c.Target)
	idx := donorSt.ItemIndex(*c.Item)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrItemNotHeld, *c.Item)
	}
	if len(tgtSt.Items)+1 > InventoryLimit(s.Game.Players.Len()) {
		return nil, fmt.Errorf("%w: donation would overflow %s", ErrInvalidTarget, c.Target)
	}
	tgtSt.Items = append(tgtSt.Items, donorSt.RemoveItemAt(idx))
	return d.Next, nil
}
