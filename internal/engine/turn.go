package engine

// TurnKind discriminates the outer turn state machine.
type TurnKind int

const (
	TurnStart TurnKind = iota
	TurnGameOver
	TurnTradePending
	TurnResolvingTrigger
	TurnDonatingItem
	TurnAttacking
)

var turnKindNames = map[TurnKind]string{
	TurnStart:            "TurnStart",
	TurnGameOver:         "GameOver",
	TurnTradePending:     "TradePending",
	TurnResolvingTrigger: "ResolvingTradeTrigger",
	TurnDonatingItem:     "DonatingItem",
	TurnAttacking:        "Attacking",
}

func (k TurnKind) String() string {
	if s, ok := turnKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// TurnState is the outer FSM position. Exactly one payload field is set,
// selected by Kind; it alone determines whose move it is and which
// commands are legal.
type TurnState struct {
	Kind TurnKind `json:"kind"`

	Player   Player             `json:"player,omitempty"`   // TurnStart
	Winner   *Faction           `json:"winner,omitempty"`   // GameOver
	Trade    *TradePending      `json:"trade,omitempty"`    // TradePending
	Trigger  *TriggerResolution `json:"trigger,omitempty"`  // ResolvingTradeTrigger
	Donation *Donation          `json:"donation,omitempty"` // DonatingItem
	Attack   *AttackRound       `json:"attack,omitempty"`   // Attacking
}

func turnStart(p Player) *TurnState {
	return &TurnState{Kind: TurnStart, Player: p}
}

func gameOver(winner Faction) *TurnState {
	return &TurnState{Kind: TurnGameOver, Winner: &winner}
}

func tradePending(t *TradePending) *TurnState {
	return &TurnState{Kind: TurnTradePending, Trade: t}
}

func resolvingTrigger(t *TriggerResolution) *TurnState {
	return &TurnState{Kind: TurnResolvingTrigger, Trigger: t}
}

func donating(donor Player, next *TurnState) *TurnState {
	return &TurnState{Kind: TurnDonatingItem, Donation: &Donation{Donor: donor, Next: next}}
}

func attacking(a *AttackRound) *TurnState {
	return &TurnState{Kind: TurnAttacking, Attack: a}
}

// TradePending is an offered trade awaiting the target's response.
type TradePending struct {
	Offerer Player `json:"offerer"`
	Target  Player `json:"target"`
	Item    Item   `json:"item"`
}

// TriggerKind discriminates the trade-trigger sub-states.
type TriggerKind int

const (
	TriggerPrivilege TriggerKind = iota // giver views the receiver's items
	TriggerMonocle                      // giver views the receiver's faction
	TriggerCoat                         // giver draws a replacement job
	TriggerSextant                      // item-passing ring
)

var triggerKindNames = map[TriggerKind]string{
	TriggerPrivilege: "Privilege",
	TriggerMonocle:   "Monocle",
	TriggerCoat:      "Coat",
	TriggerSextant:   "Sextant",
}

func (k TriggerKind) String() string {
	if s, ok := triggerKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// TriggerResolution is a trade trigger in progress. FirstItem records
// whether the offered item (true) or the accepted item (false) is being
// resolved; Pending carries the accepted item while the offered one is
// still resolving, so the protocol can resume after interruptions.
type TriggerResolution struct {
	Offerer   Player          `json:"offerer"`
	Target    Player          `json:"target"`
	FirstItem bool            `json:"first_item"`
	Pending   *Item           `json:"pending,omitempty"`
	Kind      TriggerKind     `json:"trigger"`
	Direction *bool           `json:"direction,omitempty"`  // sextant only
	Selected  map[Player]Item `json:"selected,omitempty"`   // sextant only
}

// Giver returns the player who gave the triggering item away.
func (t *TriggerResolution) Giver() Player {
	if t.FirstItem {
		return t.Offerer
	}
	return t.Target
}

// Receiver returns the player who received the triggering item.
func (t *TriggerResolution) Receiver() Player {
	if t.FirstItem {
		return t.Target
	}
	return t.Offerer
}

// Donation is a forced transfer by a player over the inventory limit.
// Next carries the suspended continuation entered once the donation
// completes, however many rejected commands intervene.
type Donation struct {
	Donor Player     `json:"donor"`
	Next  *TurnState `json:"next"`
}

// Vote is a supporter's declared stance during an attack.
type Vote int

const (
	VoteAbstain Vote = iota
	VoteAttack
	VoteDefend
)

var voteNames = map[Vote]string{
	VoteAbstain: "Abstain",
	VoteAttack:  "Attack",
	VoteDefend:  "Defend",
}

func (v Vote) String() string {
	if s, ok := voteNames[v]; ok {
		return s
	}
	return "Unknown"
}

// Value is the vote's contribution to the attack tally.
func (v Vote) Value() int {
	switch v {
	case VoteAttack:
		return 1
	case VoteDefend:
		return -1
	}
	return 0
}

// AttackWinner names the winning side of an attack.
type AttackWinner int

const (
	WinnerAttacker AttackWinner = iota
	WinnerDefender
)

// AttackPhase discriminates the attack sub-state machine.
type AttackPhase int

const (
	AttackWaitingForPriest AttackPhase = iota
	AttackPayingPriest
	AttackDeclaringSupport
	AttackWaitingForHypnotizer
	AttackItemsOrJobs
	AttackResolving
	AttackFinishResolving
)

var attackPhaseNames = map[AttackPhase]string{
	AttackWaitingForPriest:     "WaitingForPriest",
	AttackPayingPriest:         "PayingPriest",
	AttackDeclaringSupport:     "DeclaringSupport",
	AttackWaitingForHypnotizer: "WaitingForHypnotizer",
	AttackItemsOrJobs:          "ItemsOrJobs",
	AttackResolving:            "Resolving",
	AttackFinishResolving:      "FinishResolving",
}

func (p AttackPhase) String() string {
	if s, ok := attackPhaseNames[p]; ok {
		return s
	}
	return "Unknown"
}

// AttackRound is a multi-round adversarial resolution between an attacker
// and a defender with audience participation.
type AttackRound struct {
	Attacker Player      `json:"attacker"`
	Defender Player      `json:"defender"`
	Phase    AttackPhase `json:"phase"`

	Passed     map[Player]bool `json:"passed,omitempty"` // WaitingForPriest, ItemsOrJobs
	Priest     Player          `json:"priest,omitempty"` // PayingPriest
	Votes      map[Player]Vote `json:"votes,omitempty"`
	Buffs      []Buff          `json:"buffs,omitempty"`
	Winner     AttackWinner    `json:"winner"`                // Resolving, FinishResolving
	StealItems bool            `json:"steal_items,omitempty"` // FinishResolving
}

// WinnerPlayer returns the player on the winning side.
func (a *AttackRound) WinnerPlayer() Player {
	if a.Winner == WinnerAttacker {
		return a.Attacker
	}
	return a.Defender
}

// LoserPlayer returns the player on the losing side.
func (a *AttackRound) LoserPlayer() Player {
	if a.Winner == WinnerAttacker {
		return a.Defender
	}
	return a.Attacker
}

// BuffSource is an item or a job played as an attack modifier. Exactly
// one field is set.
type BuffSource struct {
	Item *Item `json:"item,omitempty"`
	Job  *Job  `json:"job,omitempty"`
}

// Equal reports whether two buff sources name the same item or job.
func (s BuffSource) Equal(o BuffSource) bool {
	switch {
	case s.Item != nil && o.Item != nil:
		return *s.Item == *o.Item
	case s.Job != nil && o.Job != nil:
		return *s.Job == *o.Job
	}
	return false
}

// AttackRole is a player's role within one attack, determining which
// buffs they may play and at what strength.
type AttackRole struct {
	Attacker bool
	Defender bool
	Support  Vote
}

// RawScore returns the buff's signed score for a player acting in the
// given role, or false if that role may not play this buff.
func (s BuffSource) RawScore(role AttackRole) (int, bool) {
	if s.Item != nil {
		switch *s.Item {
		case Dagger:
			if role.Attacker {
				return 2, true
			}
		case Gloves:
			if role.Defender {
				return -2, true
			}
		case PoisonRing:
			if role.Attacker {
				return 1, true
			}
			if role.Defender {
				return -1, true
			}
		case CastingKnives:
			if !role.Attacker && !role.Defender && role.Support == VoteAttack {
				return 2, true
			}
		case Whip:
			if !role.Attacker && !role.Defender && role.Support == VoteDefend {
				return -2, true
			}
		}
		return 0, false
	}
	if s.Job != nil {
		switch *s.Job {
		case Thug:
			if role.Attacker {
				return 2, true
			}
		case GrandMaster:
			if role.Defender {
				return -2, true
			}
		case Duelist:
			if role.Attacker {
				return 2, true
			}
			if role.Defender {
				return -2, true
			}
		case Bodyguard:
			if !role.Attacker && !role.Defender {
				switch role.Support {
				case VoteAttack:
					return 2, true
				case VoteDefend:
					return -2, true
				}
			}
		}
	}
	return 0, false
}

// Buff is a played attack modifier with its resolved score.
type Buff struct {
	User     Player     `json:"user"`
	Source   BuffSource `json:"source"`
	RawScore int        `json:"raw_score"`
}
