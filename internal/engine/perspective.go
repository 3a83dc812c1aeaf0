package engine

// Perspective is the redacted, viewer-specific projection of the full
// state. It is recomputed on every read, never persisted, and safe to
// serialize straight to the viewer's client.
type Perspective struct {
	You       PlayerState          `json:"you"`
	YourIndex int                  `json:"your_index"`
	Players   []PerspectivePlayer  `json:"players"`
	ItemStack int                  `json:"item_stack"`
	Turn      PerspectiveTurnState `json:"turn"`
}

// PerspectivePlayer is what a viewer sees of another player: identity,
// the job only if revealed, and the inventory size but never its contents.
type PerspectivePlayer struct {
	Player    Player `json:"player"`
	Job       *Job   `json:"job,omitempty"`
	ItemCount int    `json:"item_count"`
}

// PerspectiveTurnState mirrors TurnState with viewer-dependent payloads.
type PerspectiveTurnState struct {
	Kind TurnKind `json:"kind"`

	Player  Player              `json:"player,omitempty"`
	Winner  *Faction            `json:"winner,omitempty"`
	Trade   *PerspectiveTrade   `json:"trade,omitempty"`
	Trigger *PerspectiveTrigger `json:"trigger,omitempty"`
	Donor   Player              `json:"donor,omitempty"`
	Attack  *PerspectiveAttack  `json:"attack,omitempty"`
}

// PerspectiveTrade hides the offered item from everyone but the target
// until the trade is accepted.
type PerspectiveTrade struct {
	Offerer Player `json:"offerer"`
	Target  Player `json:"target"`
	Item    *Item  `json:"item,omitempty"`
}

// PerspectiveTrigger carries a trigger payload only for the viewer
// entitled to it this round.
type PerspectiveTrigger struct {
	Offerer   Player      `json:"offerer"`
	Target    Player      `json:"target"`
	FirstItem bool        `json:"first_item"`
	Kind      TriggerKind `json:"trigger"`

	Items         []Item   `json:"items,omitempty"`          // privilege, giver only
	Faction       *Faction `json:"faction,omitempty"`        // monocle, giver only
	AvailableJobs []Job    `json:"available_jobs,omitempty"` // coat, giver only
	Direction     *bool    `json:"direction,omitempty"`      // sextant, public
	YourSelection *Item    `json:"your_selection,omitempty"` // sextant, own only
}

// PerspectiveAttack is the attack round as one viewer sees it. The loser's
// inventory or credentials appear only for the winner once the round
// reaches its reward phase.
type PerspectiveAttack struct {
	Attacker Player      `json:"attacker"`
	Defender Player      `json:"defender"`
	Phase    AttackPhase `json:"phase"`

	Passed     map[Player]bool `json:"passed,omitempty"`
	Priest     Player          `json:"priest,omitempty"`
	Votes      map[Player]Vote `json:"votes,omitempty"`
	Buffs      []Buff          `json:"buffs,omitempty"`
	Winner     AttackWinner    `json:"winner"`
	StealItems bool            `json:"steal_items,omitempty"`

	TargetItems   []Item   `json:"target_items,omitempty"`
	TargetFaction *Faction `json:"target_faction,omitempty"`
	TargetJob     *Job     `json:"target_job,omitempty"`
}

// Perspective projects the state for one viewer. Pure and idempotent:
// it never mutates, and may run concurrently with other projections.
func (s *State) Perspective(viewer Player) Perspective {
	order := s.Game.Players.Order()
	players := make([]PerspectivePlayer, len(order))
	for i, p := range order {
		st := s.Game.Players.Get(p)
		pp := PerspectivePlayer{Player: p, ItemCount: len(st.Items)}
		if st.JobIsVisible {
			job := st.Job
			pp.Job = &job
		}
		players[i] = pp
	}

	you := *s.Game.Players.Get(viewer)
	you.Items = append([]Item(nil), you.Items...)

	return Perspective{
		You:       you,
		YourIndex: s.Game.Players.IndexOf(viewer),
		Players:   players,
		ItemStack: len(s.Game.ItemStack),
		Turn:      s.projectTurn(viewer),
	}
}

func (s *State) projectTurn(viewer Player) PerspectiveTurnState {
	out := PerspectiveTurnState{Kind: s.Turn.Kind}
	switch s.Turn.Kind {
	case TurnStart:
		out.Player = s.Turn.Player

	case TurnGameOver:
		out.Winner = s.Turn.Winner

	case TurnTradePending:
		tr := s.Turn.Trade
		pt := &PerspectiveTrade{Offerer: tr.Offerer, Target: tr.Target}
		if viewer == tr.Target {
			item := tr.Item
			pt.Item = &item
		}
		out.Trade = pt

	case TurnResolvingTrigger:
		out.Trigger = s.projectTrigger(viewer, s.Turn.Trigger)

	case TurnDonatingItem:
		// The suspended continuation stays hidden; only the donor is public.
		out.Donor = s.Turn.Donation.Donor

	case TurnAttacking:
		out.Attack = s.projectAttack(viewer, s.Turn.Attack)
	}
	return out
}

func (s *State) projectTrigger(viewer Player, t *TriggerResolution) *PerspectiveTrigger {
	pt := &PerspectiveTrigger{
		Offerer:   t.Offerer,
		Target:    t.Target,
		FirstItem: t.FirstItem,
		Kind:      t.Kind,
	}
	switch t.Kind {
	case TriggerPrivilege:
		if viewer == t.Giver() {
			pt.Items = append([]Item(nil), s.Game.Players.Get(t.Receiver()).Items...)
		}
	case TriggerMonocle:
		if viewer == t.Giver() {
			f := s.Game.Players.Get(t.Receiver()).Faction
			pt.Faction = &f
		}
	case TriggerCoat:
		if viewer == t.Giver() {
			pt.AvailableJobs = append([]Job(nil), s.Game.JobStack...)
		}
	case TriggerSextant:
		pt.Direction = t.Direction
		if it, ok := t.Selected[viewer]; ok {
			sel := it
			pt.YourSelection = &sel
		}
	}
	return pt
}

func (s *State) projectAttack(viewer Player, a *AttackRound) *PerspectiveAttack {
	pa := &PerspectiveAttack{
		Attacker:   a.Attacker,
		Defender:   a.Defender,
		Phase:      a.Phase,
		Priest:     a.Priest,
		Winner:     a.Winner,
		StealItems: a.StealItems,
		Buffs:      append([]Buff(nil), a.Buffs...),
	}
	if a.Passed != nil {
		pa.Passed = clonePassed(a.Passed)
	}
	if a.Votes != nil {
		pa.Votes = cloneVotes(a.Votes)
	}

	// The reward phase reveals the loser to the winner alone: the full
	// inventory when stealing, the credentials otherwise.
	if a.Phase == AttackFinishResolving && viewer == a.WinnerPlayer() {
		loser := s.Game.Players.Get(a.LoserPlayer())
		if a.StealItems {
			pa.TargetItems = append([]Item(nil), loser.Items...)
		} else {
			f, j := loser.Faction, loser.Job
			pa.TargetFaction = &f
			pa.TargetJob = &j
		}
	}
	return pa
}
