package engine

import "fmt"

// triggerOutcome is the result of resolving one traded item: a branching
// trigger state, a forced donation, or neither.
type triggerOutcome struct {
	trigger *TriggerResolution
	donor   Player // set when a bag refill pushed the holder over the limit
}

// resolveItemTrigger applies the side effect attached to a single item
// that moved from one player to another in a completed trade. Silent
// effects (bag refill, tome swap) mutate immediately; viewing, job-pick
// and ring-pass effects return a trigger state to resolve interactively.
func (s *State) resolveItemTrigger(item Item, from, to Player) triggerOutcome {
	switch item {
	case BagKey, BagGoblet:
		st := s.Game.Players.Get(to)
		if n := len(s.Game.ItemStack); n > 0 {
			drawn := s.Game.ItemStack[n-1]
			s.Game.ItemStack = s.Game.ItemStack[:n-1]
			st.Items = append(st.Items, drawn)
			if len(st.Items) > InventoryLimit(s.Game.Players.Len()) {
				return triggerOutcome{donor: to}
			}
		}
		return triggerOutcome{}
	case Privilege:
		return triggerOutcome{trigger: &TriggerResolution{Kind: TriggerPrivilege}}
	case Monocle:
		return triggerOutcome{trigger: &TriggerResolution{Kind: TriggerMonocle}}
	case Coat:
		return triggerOutcome{trigger: &TriggerResolution{Kind: TriggerCoat}}
	case Sextant:
		return triggerOutcome{trigger: &TriggerResolution{
			Kind:     TriggerSextant,
			Selected: map[Player]Item{},
		}}
	case Tome:
		a, b := s.Game.Players.Pair(from, to)
		a.Job, b.Job = b.Job, a.Job
		a.JobIsVisible, b.JobIsVisible = false, false
		return triggerOutcome{}
	}
	return triggerOutcome{}
}

// resolveTradeChain resolves the triggers of a completed trade, offered
// item first. pending carries the accepted item while the offered one
// resolves; when a bag refill forces a donation the remaining chain is
// resolved eagerly and suspended as the donation's continuation.
func (s *State) resolveTradeChain(offerer, target Player, item Item, pending *Item, first bool) *TurnState {
	from, to := offerer, target
	if !first {
		from, to = target, offerer
	}
	out := s.resolveItemTrigger(item, from, to)
	if out.trigger != nil {
		out.trigger.Offerer = offerer
		out.trigger.Target = target
		out.trigger.FirstItem = first
		out.trigger.Pending = pending
		return resolvingTrigger(out.trigger)
	}

	var next *TurnState
	if pending != nil {
		next = s.resolveTradeChain(offerer, target, *pending, nil, false)
	} else {
		next = turnStart(s.Game.Players.Next(offerer))
	}
	if out.donor != "" {
		return donating(out.donor, next)
	}
	return next
}

// finishTrigger advances past a completed trigger: on to the accepted
// item's trigger if one is still pending, otherwise to the next turn.
func (s *State) finishTrigger(t *TriggerResolution) *TurnState {
	if t.Pending != nil {
		return s.resolveTradeChain(t.Offerer, t.Target, *t.Pending, nil, false)
	}
	return turnStart(s.Game.Players.Next(t.Offerer))
}

func (s *State) applyTrigger(actor Player, c Command) (*TurnState, error) {
	t := s.Turn.Trigger
	switch t.Kind {
	case TriggerPrivilege, TriggerMonocle:
		if actor != t.Giver() {
			return nil, ErrNotYourTurn
		}
		if c.Type != CmdDoneLookingAtThings {
			return nil, ErrInvalidCommand
		}
		return s.finishTrigger(t), nil

	case TriggerCoat:
		if actor != t.Giver() {
			return nil, ErrNotYourTurn
		}
		if c.Type != CmdPickNewJob {
			return nil, ErrInvalidCommand
		}
		idx := -1
		for i, j := range s.Game.JobStack {
			if j == c.Job {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrJobNotInPool, c.Job)
		}
		st := s.Game.Players.Get(actor)
		// The old job returns to the pool; jobs are a closed system.
		s.Game.JobStack[idx], st.Job = st.Job, s.Game.JobStack[idx]
		st.JobIsVisible = false
		return s.finishTrigger(t), nil

	case TriggerSextant:
		return s.applySextant(actor, c, t)
	}
	return nil, ErrInvalidCommand
}

func (s *State) applySextant(actor Player, c Command, t *TriggerResolution) (*TurnState, error) {
	if t.Direction == nil {
		if actor != t.Giver() {
			return nil, ErrNotYourTurn
		}
		if c.Type != CmdSetSextantDirection {
			return nil, ErrInvalidCommand
		}
		forward := c.Forward
		next := *t
		next.Direction = &forward
		return resolvingTrigger(&next), nil
	}

	if c.Type != CmdSelectSextantItem {
		return nil, ErrInvalidCommand
	}
	if _, ok := t.Selected[actor]; ok {
		return nil, ErrAlreadyPassed
	}
	if c.Item == nil {
		return nil, ErrInvalidCommand
	}
	if !s.Game.Players.Get(actor).HoldsItem(*c.Item) {
		return nil, fmt.Errorf("%w: %s", ErrItemNotHeld, *c.Item)
	}

	selected := make(map[Player]Item, len(t.Selected)+1)
	for p, it := range t.Selected {
		selected[p] = it
	}
	selected[actor] = *c.Item

	if len(selected) < s.sextantParticipants() {
		next := *t
		next.Selected = selected
		return resolvingTrigger(&next), nil
	}
	s.resolveSextant(selected, *t.Direction)
	return s.finishTrigger(t), nil
}

// sextantParticipants counts the players who can take part in the ring
// pass. Empty-handed players have nothing to select and sit it out; the
// traded sextant itself guarantees at least one participant.
func (s *State) sextantParticipants() int {
	n := 0
	for _, p := range s.Game.Players.Order() {
		if len(s.Game.Players.Get(p).Items) > 0 {
			n++
		}
	}
	return n
}

// resolveSextant moves each participant's selected item one seat in the
// chosen direction, simultaneously. No item is duplicated or lost: all
// removals happen before any insertion. Empty-handed seats pass nothing
// but still receive from their neighbor.
func (s *State) resolveSextant(selected map[Player]Item, forward bool) {
	order := s.Game.Players.Order()
	n := len(order)
	type move struct {
		from int
		item Item
	}
	moves := make([]move, 0, len(selected))
	for i, p := range order {
		it, ok := selected[p]
		if !ok {
			continue
		}
		st := s.Game.Players.Get(p)
		moves = append(moves, move{from: i, item: st.RemoveItemAt(st.ItemIndex(it))})
	}
	for _, m := range moves {
		recv := (m.from + 1) % n
		if !forward {
			recv = (m.from + n - 1) % n
		}
		st := s.Game.Players.Get(order[recv])
		st.Items = append(st.Items, m.item)
	}
}
