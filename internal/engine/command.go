package engine

import "errors"

var (
	ErrNotYourTurn       = errors.New("not your turn")
	ErrInvalidCommand    = errors.New("invalid command in this state")
	ErrInvalidTarget     = errors.New("invalid target player")
	ErrAlreadyPassed     = errors.New("already passed")
	ErrAbstained         = errors.New("abstained voters cannot play buffs")
	ErrInvalidSteal      = errors.New("invalid steal command")
	ErrJobUnavailable    = errors.New("job not owned or already used")
	ErrItemNotHeld       = errors.New("item not in inventory")
	ErrGameOver          = errors.New("game is over")
	ErrJobNotInPool      = errors.New("job not available in the pool")
	ErrBlackPearl        = errors.New("the black pearl forbids announcing victory")
	ErrBuffAlreadyPlayed = errors.New("buff already played this attack")
	ErrMustAccept        = errors.New("this trade cannot be rejected")
)

// CommandType identifies player commands sent to State.Apply.
type CommandType string

const (
	CmdPass                CommandType = "pass"
	CmdAnnounceVictory     CommandType = "announce_victory"
	CmdOfferTrade          CommandType = "offer_trade"
	CmdAcceptTrade         CommandType = "accept_trade"
	CmdRejectTrade         CommandType = "reject_trade"
	CmdInitiateAttack      CommandType = "initiate_attack"
	CmdUsePriest           CommandType = "use_priest"
	CmdPayPriest           CommandType = "pay_priest"
	CmdDeclareSupport      CommandType = "declare_support"
	CmdHypnotize           CommandType = "hypnotize"
	CmdItemOrJob           CommandType = "item_or_job"
	CmdClaimReward         CommandType = "claim_reward"
	CmdStealItem           CommandType = "steal_item"
	CmdPickNewJob          CommandType = "pick_new_job"
	CmdSetSextantDirection CommandType = "set_sextant_direction"
	CmdSelectSextantItem   CommandType = "select_sextant_item"
	CmdDonateItem          CommandType = "donate_item"
	CmdDoneLookingAtThings CommandType = "done_looking"
)

// Command is a player's input for one transition. It is stateless and
// carries only the data the transition needs; which fields are read
// depends on Type.
type Command struct {
	Type CommandType `json:"type"`

	// offer_trade, initiate_attack, donate_item: the other player.
	// hypnotize: the supporter whose vote is nullified ("" declines).
	// item_or_job: the forced winner when playing the PoisonMixer.
	Target Player `json:"target,omitempty"`

	// announce_victory
	Teammates []Player `json:"teammates,omitempty"`

	// offer_trade, accept_trade, pay_priest, steal_item,
	// select_sextant_item, donate_item
	Item *Item `json:"item,omitempty"`

	// steal_item: required exactly when the loser holds a single item.
	GiveBack *Item `json:"give_back,omitempty"`

	// use_priest: true invokes the priest, false declines.
	Priest bool `json:"priest,omitempty"`

	// declare_support
	Support Vote `json:"support,omitempty"`

	// item_or_job: nil passes.
	Buff *BuffSource `json:"buff,omitempty"`

	// claim_reward
	StealItems bool `json:"steal_items,omitempty"`

	// pick_new_job
	Job Job `json:"job,omitempty"`

	// set_sextant_direction
	Forward bool `json:"forward,omitempty"`
}
