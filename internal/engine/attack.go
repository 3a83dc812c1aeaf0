package engine

import "fmt"

func (s *State) applyAttack(actor Player, c Command) (*TurnState, error) {
	a := s.Turn.Attack
	switch a.Phase {
	case AttackWaitingForPriest:
		return s.applyWaitingForPriest(actor, c, a)
	case AttackPayingPriest:
		return s.applyPayingPriest(actor, c, a)
	case AttackDeclaringSupport:
		return s.applyDeclaringSupport(actor, c, a)
	case AttackWaitingForHypnotizer:
		return s.applyWaitingForHypnotizer(actor, c, a)
	case AttackItemsOrJobs:
		return s.applyItemsOrJobs(actor, c, a)
	case AttackResolving:
		return s.applyResolving(actor, c, a)
	case AttackFinishResolving:
		return s.applyFinishResolving(actor, c, a)
	}
	return nil, ErrInvalidCommand
}

func (s *State) applyWaitingForPriest(actor Player, c Command, a *AttackRound) (*TurnState, error) {
	if c.Type != CmdUsePriest {
		return nil, ErrInvalidCommand
	}
	if a.Passed[actor] {
		return nil, ErrAlreadyPassed
	}
	if !c.Priest {
		passed := clonePassed(a.Passed)
		passed[actor] = true
		if len(passed) == s.Game.Players.Len() {
			next := *a
			next.Phase = AttackDeclaringSupport
			next.Passed = nil
			next.Votes = map[Player]Vote{}
			return attacking(&next), nil
		}
		next := *a
		next.Passed = passed
		return attacking(&next), nil
	}

	if err := s.Game.Players.Get(actor).UseJob(Priest); err != nil {
		return nil, err
	}
	// An attacker interceding on their own fight pays nobody, and an
	// attacker with nothing to pay with pays nothing; either way the
	// fight is called off.
	if actor == a.Attacker || len(s.Game.Players.Get(a.Attacker).Items) == 0 {
		return turnStart(s.Game.Players.Next(a.Attacker)), nil
	}
	next := *a
	next.Phase = AttackPayingPriest
	next.Passed = nil
	next.Priest = actor
	return attacking(&next), nil
}

func (s *State) applyPayingPriest(actor Player, c Command, a *AttackRound) (*TurnState, error) {
	if actor != a.Attacker {
		return nil, ErrNotYourTurn
	}
	if c.Type != CmdPayPriest {
		return nil, ErrInvalidCommand
	}
	if c.Item == nil {
		return nil, ErrInvalidCommand
	}
	attSt, priestSt := s.Game.Players.Pair(a.Attacker, a.Priest)
	idx := attSt.ItemIndex(*c.Item)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrItemNotHeld, *c.Item)
	}
	priestSt.Items = append(priestSt.Items, attSt.RemoveItemAt(idx))

	end := turnStart(s.Game.Players.Next(a.Attacker))
	if len(priestSt.Items) > InventoryLimit(s.Game.Players.Len()) {
		return donating(a.Priest, end), nil
	}
	return end, nil
}

func (s *State) applyDeclaringSupport(actor Player, c Command, a *AttackRound) (*TurnState, error) {
	supporters := s.Game.Players.Supporters(a.Attacker, a.Defender)
	if len(a.Votes) >= len(supporters) || actor != supporters[len(a.Votes)] {
		return nil, ErrNotYourTurn
	}
	if c.Type != CmdDeclareSupport {
		return nil, ErrInvalidCommand
	}
	if c.Support < VoteAbstain || c.Support > VoteDefend {
		return nil, ErrInvalidCommand
	}
	votes := cloneVotes(a.Votes)
	votes[actor] = c.Support

	next := *a
	next.Votes = votes
	if len(votes) == len(supporters) {
		next.Phase = AttackWaitingForHypnotizer
	}
	return attacking(&next), nil
}

func (s *State) applyWaitingForHypnotizer(actor Player, c Command, a *AttackRound) (*TurnState, error) {
	if actor != a.Attacker {
		return nil, ErrNotYourTurn
	}
	if c.Type != CmdHypnotize {
		return nil, ErrInvalidCommand
	}
	votes := a.Votes
	if c.Target != "" {
		if _, ok := votes[c.Target]; !ok {
			return nil, ErrInvalidTarget
		}
		if err := s.Game.Players.Get(actor).UseJob(Hypnotist); err != nil {
			return nil, err
		}
		votes = cloneVotes(a.Votes)
		votes[c.Target] = VoteAbstain
	}
	next := *a
	next.Phase = AttackItemsOrJobs
	next.Votes = votes
	next.Passed = map[Player]bool{}
	return attacking(&next), nil
}

func (s *State) applyItemsOrJobs(actor Player, c Command, a *AttackRound) (*TurnState, error) {
	if c.Type != CmdItemOrJob {
		return nil, ErrInvalidCommand
	}
	if a.Passed[actor] {
		return nil, ErrAlreadyPassed
	}

	if c.Buff == nil {
		passed := clonePassed(a.Passed)
		passed[actor] = true
		if len(passed) == s.Game.Players.Len() {
			return s.tallyAttack(a)
		}
		next := *a
		next.Passed = passed
		return attacking(&next), nil
	}

	// Abstained supporters may still pass above, but cannot intervene.
	if v, ok := a.Votes[actor]; ok && v == VoteAbstain {
		return nil, ErrAbstained
	}

	src := *c.Buff
	for _, b := range a.Buffs {
		if b.User == actor && b.Source.Equal(src) {
			return nil, ErrBuffAlreadyPlayed
		}
	}

	// Two jobs short-circuit the fight and have no raw score.
	if src.Job != nil && *src.Job == Doctor {
		if err := s.Game.Players.Get(actor).UseJob(Doctor); err != nil {
			return nil, err
		}
		return turnStart(s.Game.Players.Next(a.Attacker)), nil
	}
	if src.Job != nil && *src.Job == PoisonMixer {
		var winner AttackWinner
		switch c.Target {
		case a.Attacker:
			winner = WinnerAttacker
		case a.Defender:
			winner = WinnerDefender
		default:
			return nil, ErrInvalidCommand
		}
		if err := s.Game.Players.Get(actor).UseJob(PoisonMixer); err != nil {
			return nil, err
		}
		next := *a
		next.Phase = AttackResolving
		next.Winner = winner
		return attacking(&next), nil
	}

	role := AttackRole{Attacker: actor == a.Attacker, Defender: actor == a.Defender}
	if !role.Attacker && !role.Defender {
		role.Support = a.Votes[actor]
	}
	raw, ok := src.RawScore(role)
	if !ok {
		return nil, ErrInvalidCommand
	}

	// Possession and job checks come last so that nothing has mutated
	// when a command is rejected.
	if src.Item != nil {
		if !s.Game.Players.Get(actor).HoldsItem(*src.Item) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotHeld, *src.Item)
		}
	} else {
		if err := s.Game.Players.Get(actor).UseJob(*src.Job); err != nil {
			return nil, err
		}
	}

	votes := a.Votes
	buffs := make([]Buff, 0, len(a.Buffs)+1)
	buffs = append(buffs, a.Buffs...)

	// The duelist resets the audience: all votes become abstentions and
	// only the principals' buffs survive.
	if src.Job != nil && *src.Job == Duelist {
		votes = make(map[Player]Vote, len(a.Votes))
		for p := range a.Votes {
			votes[p] = VoteAbstain
		}
		kept := buffs[:0]
		for _, b := range buffs {
			if b.User == a.Attacker || b.User == a.Defender {
				kept = append(kept, b)
			}
		}
		buffs = kept
	}
	buffs = append(buffs, Buff{User: actor, Source: src, RawScore: raw})

	next := *a
	next.Votes = votes
	next.Buffs = buffs
	next.Passed = map[Player]bool{} // every buff reopens the round
	return attacking(&next), nil
}

// tallyAttack sums all vote values and buff scores. Zero means no winner:
// the attacker draws a consolation item (possibly forcing a donation) and
// the round ends. Otherwise the sign picks the winner.
func (s *State) tallyAttack(a *AttackRound) (*TurnState, error) {
	score := 0
	for _, v := range a.Votes {
		score += v.Value()
	}
	for _, b := range a.Buffs {
		score += b.RawScore
	}

	if score == 0 {
		end := turnStart(s.Game.Players.Next(a.Attacker))
		if n := len(s.Game.ItemStack); n > 0 {
			drawn := s.Game.ItemStack[n-1]
			s.Game.ItemStack = s.Game.ItemStack[:n-1]
			attSt := s.Game.Players.Get(a.Attacker)
			attSt.Items = append(attSt.Items, drawn)
			if len(attSt.Items) > InventoryLimit(s.Game.Players.Len()) {
				return donating(a.Attacker, end), nil
			}
		}
		return end, nil
	}

	winner := WinnerAttacker
	if score < 0 {
		winner = WinnerDefender
	}
	next := *a
	next.Phase = AttackResolving
	next.Winner = winner
	return attacking(&next), nil
}

func (s *State) applyResolving(actor Player, c Command, a *AttackRound) (*TurnState, error) {
	if actor != a.WinnerPlayer() {
		return nil, ErrNotYourTurn
	}
	if c.Type != CmdClaimReward {
		return nil, ErrInvalidCommand
	}
	next := *a
	next.Phase = AttackFinishResolving
	next.StealItems = c.StealItems
	return attacking(&next), nil
}

func (s *State) applyFinishResolving(actor Player, c Command, a *AttackRound) (*TurnState, error) {
	if actor != a.WinnerPlayer() {
		return nil, ErrNotYourTurn
	}
	loser := a.LoserPlayer()

	switch c.Type {
	case CmdDoneLookingAtThings:
		// Stealing is abandoned only when there is nothing to steal.
		if a.StealItems && len(s.Game.Players.Get(loser).Items) > 0 {
			return nil, ErrInvalidCommand
		}
		return turnStart(s.Game.Players.Next(a.Attacker)), nil

	case CmdStealItem:
		if !a.StealItems {
			return nil, ErrInvalidCommand
		}
		if c.Item == nil {
			return nil, ErrInvalidSteal
		}
		winSt, loseSt := s.Game.Players.Pair(a.WinnerPlayer(), loser)
		// A give-back is required exactly when the loser would otherwise
		// be left with nothing.
		if (c.GiveBack != nil) != (len(loseSt.Items) == 1) {
			return nil, ErrInvalidSteal
		}
		li := loseSt.ItemIndex(*c.Item)
		if li < 0 {
			return nil, ErrInvalidSteal
		}
		wi := -1
		if c.GiveBack != nil {
			wi = winSt.ItemIndex(*c.GiveBack)
			if wi < 0 {
				return nil, ErrInvalidSteal
			}
		}

		stolen := loseSt.RemoveItemAt(li)
		if wi >= 0 {
			loseSt.Items = append(loseSt.Items, winSt.RemoveItemAt(wi))
		}
		winSt.Items = append(winSt.Items, stolen)

		end := turnStart(s.Game.Players.Next(a.Attacker))
		if c.GiveBack == nil && len(winSt.Items) > InventoryLimit(s.Game.Players.Len()) {
			return donating(a.WinnerPlayer(), end), nil
		}
		return end, nil
	}
	return nil, ErrInvalidCommand
}

func clonePassed(m map[Player]bool) map[Player]bool {
	out := make(map[Player]bool, len(m)+1)
	for p := range m {
		out[p] = true
	}
	return out
}

func cloneVotes(m map[Player]Vote) map[Player]Vote {
	out := make(map[Player]Vote, len(m)+1)
	for p, v := range m {
		out[p] = v
	}
	return out
}
