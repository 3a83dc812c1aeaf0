package engine_test

import (
	"errors"
	"testing"

	"kutschfahrt/internal/engine"
)

func offerAndAccept(t *testing.T, s *engine.State, offerer, target engine.Player, offered, back engine.Item) {
	t.Helper()
	mustApply(t, s, offerer, engine.Command{
		Type:   engine.CmdOfferTrade,
		Target: target,
		Item:   itemPtr(offered),
	})
	mustApply(t, s, target, engine.Command{
		Type: engine.CmdAcceptTrade,
		Item: itemPtr(back),
	})
}

func TestTradeSwapsItems(t *testing.T) {
	s := newTestState()
	before := allItems(s)

	offerAndAccept(t, s, "Sarah", "Marie", engine.BagKey, engine.PoisonRing)

	if !s.Game.Players.Get("Marie").HoldsItem(engine.BagKey) {
		t.Fatal("Marie should hold the traded BagKey")
	}
	if !s.Game.Players.Get("Sarah").HoldsItem(engine.PoisonRing) {
		t.Fatal("Sarah should hold the PoisonRing given back")
	}
	if !equalItemCounts(before, allItems(s)) {
		t.Fatal("trade changed the total item multiset")
	}
}

func TestTradeRequiresHeldItem(t *testing.T) {
	s := newTestState()
	err := s.Apply("Sarah", engine.Command{
		Type:   engine.CmdOfferTrade,
		Target: "Marie",
		Item:   itemPtr(engine.Tome),
	})
	if !errors.Is(err, engine.ErrItemNotHeld) {
		t.Fatalf("expected ErrItemNotHeld, got %v", err)
	}
}

func TestTradeRejected(t *testing.T) {
	s := newTestState()
	mustApply(t, s, "Sarah", engine.Command{
		Type:   engine.CmdOfferTrade,
		Target: "Marie",
		Item:   itemPtr(engine.BagKey),
	})
	mustApply(t, s, "Marie", engine.Command{Type: engine.CmdRejectTrade})

	if !s.Game.Players.Get("Sarah").HoldsItem(engine.BagKey) {
		t.Fatal("rejected trade must not move the item")
	}
	if s.Turn.Kind != engine.TurnStart || s.Turn.Player != "Gundla" {
		t.Fatalf("expected Gundla's turn after rejection, got %s %s", s.Turn.Kind, s.Turn.Player)
	}
}

func TestBlackPearlCannotBeRejected(t *testing.T) {
	s := newTestState()
	s.Game.Players.Get("Sarah").Items = []engine.Item{engine.BlackPearl}
	mustApply(t, s, "Sarah", engine.Command{
		Type:   engine.CmdOfferTrade,
		Target: "Marie",
		Item:   itemPtr(engine.BlackPearl),
	})
	err := s.Apply("Marie", engine.Command{Type: engine.CmdRejectTrade})
	if !errors.Is(err, engine.ErrMustAccept) {
		t.Fatalf("expected ErrMustAccept, got %v", err)
	}
}

func TestBagForBagRejectedWhileStackRemains(t *testing.T) {
	s := newTestState()
	mustApply(t, s, "Sarah", engine.Command{
		Type:   engine.CmdOfferTrade,
		Target: "Gundla",
		Item:   itemPtr(engine.BagKey),
	})
	err := s.Apply("Gundla", engine.Command{
		Type: engine.CmdAcceptTrade,
		Item: itemPtr(engine.BagGoblet),
	})
	if !errors.Is(err, engine.ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand, got %v", err)
	}
}

func TestBagRefillsRecipient(t *testing.T) {
	s := newTestState()
	s.Game.Players.Get("Gundla").Items = []engine.Item{engine.Key}

	offerAndAccept(t, s, "Sarah", "Gundla", engine.BagKey, engine.Key)

	// Gundla received the bag, so Gundla draws from the pile.
	g := s.Game.Players.Get("Gundla")
	if !g.HoldsItem(engine.Dagger) {
		t.Fatalf("Gundla should have drawn the Dagger, has %v", g.Items)
	}
	if len(s.Game.ItemStack) != 1 || s.Game.ItemStack[0] != engine.BlackPearl {
		t.Fatalf("expected [BlackPearl] left on the pile, got %v", s.Game.ItemStack)
	}
	if s.Turn.Kind != engine.TurnStart || s.Turn.Player != "Gundla" {
		t.Fatalf("expected Gundla's turn, got %s %s", s.Turn.Kind, s.Turn.Player)
	}
}

func TestBagOverflowForcesDonationByRecipient(t *testing.T) {
	s := newTestState()
	// 4 players: the limit is 6. Gundla at 6 items draws a 7th.
	s.Game.Players.Get("Gundla").Items = []engine.Item{
		engine.Key, engine.Goblet, engine.Goblet, engine.Whip, engine.Monocle, engine.CastingKnives,
	}
	before := allItems(s)

	offerAndAccept(t, s, "Sarah", "Gundla", engine.BagKey, engine.Key)

	if s.Turn.Kind != engine.TurnDonatingItem {
		t.Fatalf("expected DonatingItem, got %s", s.Turn.Kind)
	}
	if s.Turn.Donation.Donor != "Gundla" {
		t.Fatalf("expected Gundla to donate, got %s", s.Turn.Donation.Donor)
	}
	if !equalItemCounts(before, allItems(s)) {
		t.Fatal("overflow changed the total item multiset")
	}

	// Only the donor may act, and only by donating.
	if err := s.Apply("Sarah", engine.Command{Type: engine.CmdPass}); !errors.Is(err, engine.ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if err := s.Apply("Gundla", engine.Command{Type: engine.CmdPass}); !errors.Is(err, engine.ErrInvalidCommand) {
		t.Fatalf("expected ErrInvalidCommand, got %v", err)
	}

	mustApply(t, s, "Gundla", engine.Command{
		Type:   engine.CmdDonateItem,
		Target: "Marie",
		Item:   itemPtr(engine.Whip),
	})
	if !s.Game.Players.Get("Marie").HoldsItem(engine.Whip) {
		t.Fatal("Marie should hold the donated Whip")
	}
	// The suspended trade chain resumes: nothing else pends, next turn.
	if s.Turn.Kind != engine.TurnStart || s.Turn.Player != "Gundla" {
		t.Fatalf("expected Gundla's turn after donation, got %s %s", s.Turn.Kind, s.Turn.Player)
	}
}

func TestDonationMayNotOverflowTarget(t *testing.T) {
	s := newTestState()
	s.Game.Players.Get("Gundla").Items = []engine.Item{
		engine.Key, engine.Goblet, engine.Goblet, engine.Whip, engine.Monocle, engine.CastingKnives,
	}
	s.Game.Players.Get("Marie").Items = []engine.Item{
		engine.PoisonRing, engine.Key, engine.Key, engine.Goblet, engine.Dagger, engine.Privilege,
	}
	s.Game.ItemStack = []engine.Item{engine.Tome}

	offerAndAccept(t, s, "Sarah", "Gundla", engine.BagKey, engine.Key)
	if s.Turn.Kind != engine.TurnDonatingItem {
		t.Fatalf("expected DonatingItem, got %s", s.Turn.Kind)
	}

	err := s.Apply("Gundla", engine.Command{
		Type:   engine.CmdDonateItem,
		Target: "Marie",
		Item:   itemPtr(engine.Whip),
	})
	if !errors.Is(err, engine.ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
	mustApply(t, s, "Gundla", engine.Command{
		Type:   engine.CmdDonateItem,
		Target: "Zacharias",
		Item:   itemPtr(engine.Whip),
	})
}

func TestBrokenMirrorSuppressesTriggers(t *testing.T) {
	s := newTestState()
	s.Game.Players.Get("Sarah").Items = []engine.Item{engine.BrokenMirror}

	offerAndAccept(t, s, "Sarah", "Gundla", engine.BrokenMirror, engine.BagGoblet)

	// The bag would normally refill Sarah; the mirror suppresses it.
	if len(s.Game.ItemStack) != 2 {
		t.Fatalf("no draw should happen, pile is %v", s.Game.ItemStack)
	}
	if s.Turn.Kind != engine.TurnStart || s.Turn.Player != "Gundla" {
		t.Fatalf("expected Gundla's turn, got %s %s", s.Turn.Kind, s.Turn.Player)
	}
}

func TestPrivilegeTriggerGatesOnGiver(t *testing.T) {
	s := newTestState()
	s.Game.Players.Get("Sarah").Items = []engine.Item{engine.Privilege}

	offerAndAccept(t, s, "Sarah", "Marie", engine.Privilege, engine.PoisonRing)

	if s.Turn.Kind != engine.TurnResolvingTrigger {
		t.Fatalf("expected ResolvingTradeTrigger, got %s", s.Turn.Kind)
	}
	tr := s.Turn.Trigger
	if tr.Kind != engine.TriggerPrivilege || tr.Giver() != "Sarah" {
		t.Fatalf("expected Sarah resolving a privilege trigger, got %+v", tr)
	}

	if err := s.Apply("Marie", engine.Command{Type: engine.CmdDoneLookingAtThings}); !errors.Is(err, engine.ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	mustApply(t, s, "Sarah", engine.Command{Type: engine.CmdDoneLookingAtThings})
	if s.Turn.Kind != engine.TurnStart || s.Turn.Player != "Gundla" {
		t.Fatalf("expected Gundla's turn, got %s %s", s.Turn.Kind, s.Turn.Player)
	}
}

func TestMonocleTriggerOnAcceptedItem(t *testing.T) {
	// The offered item carries no trigger; the accepted Monocle resolves
	// second, with Marie (its giver) entitled to look.
	s := newTestState()
	s.Game.Players.Get("Marie").Items = []engine.Item{engine.Monocle}

	offerAndAccept(t, s, "Sarah", "Marie", engine.BagKey, engine.Monocle)

	// The bag refilled Marie first, silently.
	if !s.Game.Players.Get("Marie").HoldsItem(engine.Dagger) {
		t.Fatal("Marie should have drawn from the pile for the bag")
	}
	tr := s.Turn.Trigger
	if tr == nil || tr.Kind != engine.TriggerMonocle {
		t.Fatalf("expected a monocle trigger, got %+v", s.Turn)
	}
	if tr.FirstItem || tr.Giver() != "Marie" || tr.Receiver() != "Sarah" {
		t.Fatalf("expected Marie viewing Sarah, got %+v", tr)
	}
	mustApply(t, s, "Marie", engine.Command{Type: engine.CmdDoneLookingAtThings})
	if s.Turn.Kind != engine.TurnStart || s.Turn.Player != "Gundla" {
		t.Fatalf("expected Gundla's turn, got %s %s", s.Turn.Kind, s.Turn.Player)
	}
}

func TestTomeSwapsJobsSilently(t *testing.T) {
	s := newTestState()
	s.Game.Players.Get("Sarah").Items = []engine.Item{engine.Tome}
	s.Game.Players.Get("Marie").JobIsVisible = true

	offerAndAccept(t, s, "Sarah", "Marie", engine.Tome, engine.PoisonRing)

	if got := s.Game.Players.Get("Sarah").Job; got != engine.Thug {
		t.Fatalf("Sarah should now be the Thug, got %s", got)
	}
	if got := s.Game.Players.Get("Marie").Job; got != engine.Duelist {
		t.Fatalf("Marie should now be the Duelist, got %s", got)
	}
	if s.Game.Players.Get("Marie").JobIsVisible {
		t.Fatal("job swap must reset visibility")
	}
	if s.Turn.Kind != engine.TurnStart || s.Turn.Player != "Gundla" {
		t.Fatalf("tome resolves silently, got %s %s", s.Turn.Kind, s.Turn.Player)
	}
}

func TestCoatPicksReplacementJob(t *testing.T) {
	s := newTestState()
	s.Game.Players.Get("Sarah").Items = []engine.Item{engine.Coat}
	s.Game.Players.Get("Sarah").JobIsVisible = true

	offerAndAccept(t, s, "Sarah", "Marie", engine.Coat, engine.PoisonRing)

	if s.Turn.Kind != engine.TurnResolvingTrigger || s.Turn.Trigger.Kind != engine.TriggerCoat {
		t.Fatalf("expected a coat trigger, got %+v", s.Turn)
	}

	err := s.Apply("Sarah", engine.Command{Type: engine.CmdPickNewJob, Job: engine.Priest})
	if !errors.Is(err, engine.ErrJobNotInPool) {
		t.Fatalf("expected ErrJobNotInPool, got %v", err)
	}

	mustApply(t, s, "Sarah", engine.Command{Type: engine.CmdPickNewJob, Job: engine.Doctor})
	sarah := s.Game.Players.Get("Sarah")
	if sarah.Job != engine.Doctor || sarah.JobIsVisible {
		t.Fatalf("expected a hidden Doctor, got %s visible=%v", sarah.Job, sarah.JobIsVisible)
	}
	// The old job returns to the pool.
	if len(s.Game.JobStack) != 1 || s.Game.JobStack[0] != engine.Duelist {
		t.Fatalf("expected [Duelist] in the pool, got %v", s.Game.JobStack)
	}
}

func TestSextantRingPass(t *testing.T) {
	s := newTestState()
	s.Game.Players.Get("Sarah").Items = []engine.Item{engine.Sextant, engine.Key}
	s.Game.Players.Get("Gundla").Items = []engine.Item{engine.Goblet, engine.Dagger}
	before := allItems(s)

	offerAndAccept(t, s, "Sarah", "Gundla", engine.Sextant, engine.Dagger)

	tr := s.Turn.Trigger
	if tr == nil || tr.Kind != engine.TriggerSextant {
		t.Fatalf("expected a sextant trigger, got %+v", s.Turn)
	}

	// Only the giver picks the direction.
	if err := s.Apply("Marie", engine.Command{Type: engine.CmdSetSextantDirection, Forward: true}); !errors.Is(err, engine.ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	mustApply(t, s, "Sarah", engine.Command{Type: engine.CmdSetSextantDirection, Forward: true})

	// Everyone selects, any order, one each.
	mustApply(t, s, "Marie", engine.Command{Type: engine.CmdSelectSextantItem, Item: itemPtr(engine.PoisonRing)})
	mustApply(t, s, "Sarah", engine.Command{Type: engine.CmdSelectSextantItem, Item: itemPtr(engine.Key)})
	if err := s.Apply("Sarah", engine.Command{Type: engine.CmdSelectSextantItem, Item: itemPtr(engine.Dagger)}); !errors.Is(err, engine.ErrAlreadyPassed) {
		t.Fatalf("expected ErrAlreadyPassed on second selection, got %v", err)
	}
	mustApply(t, s, "Zacharias", engine.Command{Type: engine.CmdSelectSextantItem, Item: itemPtr(engine.Gloves)})
	mustApply(t, s, "Gundla", engine.Command{Type: engine.CmdSelectSextantItem, Item: itemPtr(engine.Goblet)})

	// Forward: every selected item moves one seat up, simultaneously.
	checks := []struct {
		p    engine.Player
		item engine.Item
	}{
		{"Gundla", engine.Key},
		{"Marie", engine.Goblet},
		{"Zacharias", engine.PoisonRing},
		{"Sarah", engine.Gloves},
	}
	for _, c := range checks {
		if !s.Game.Players.Get(c.p).HoldsItem(c.item) {
			t.Errorf("%s should hold %s, has %v", c.p, c.item, s.Game.Players.Get(c.p).Items)
		}
	}
	if !equalItemCounts(before, allItems(s)) {
		t.Fatal("ring pass changed the total item multiset")
	}
	if s.Turn.Kind != engine.TurnStart || s.Turn.Player != "Gundla" {
		t.Fatalf("expected Gundla's turn, got %s %s", s.Turn.Kind, s.Turn.Player)
	}
}

func TestSextantSkipsEmptyHandedPlayers(t *testing.T) {
	s := newTestState()
	s.Game.Players.Get("Sarah").Items = []engine.Item{engine.Sextant, engine.Key}
	s.Game.Players.Get("Gundla").Items = []engine.Item{engine.Goblet, engine.Dagger}
	s.Game.Players.Get("Marie").Items = nil
	before := allItems(s)

	offerAndAccept(t, s, "Sarah", "Gundla", engine.Sextant, engine.Dagger)
	mustApply(t, s, "Sarah", engine.Command{Type: engine.CmdSetSextantDirection, Forward: true})

	// Marie has nothing to select and sits the ring out.
	err := s.Apply("Marie", engine.Command{Type: engine.CmdSelectSextantItem, Item: itemPtr(engine.Key)})
	if !errors.Is(err, engine.ErrItemNotHeld) {
		t.Fatalf("expected ErrItemNotHeld, got %v", err)
	}

	mustApply(t, s, "Sarah", engine.Command{Type: engine.CmdSelectSextantItem, Item: itemPtr(engine.Key)})
	mustApply(t, s, "Gundla", engine.Command{Type: engine.CmdSelectSextantItem, Item: itemPtr(engine.Goblet)})
	mustApply(t, s, "Zacharias", engine.Command{Type: engine.CmdSelectSextantItem, Item: itemPtr(engine.Gloves)})

	// The ring resolves without Marie; she still receives from her seat
	// neighbor.
	if !s.Game.Players.Get("Marie").HoldsItem(engine.Goblet) {
		t.Fatalf("Marie should receive Gundla's item, has %v", s.Game.Players.Get("Marie").Items)
	}
	if !s.Game.Players.Get("Gundla").HoldsItem(engine.Key) {
		t.Fatal("Gundla should receive Sarah's item")
	}
	if !s.Game.Players.Get("Sarah").HoldsItem(engine.Gloves) {
		t.Fatal("Sarah should receive Zacharias's item")
	}
	if !equalItemCounts(before, allItems(s)) {
		t.Fatal("ring pass changed the total item multiset")
	}
	if s.Turn.Kind != engine.TurnStart || s.Turn.Player != "Gundla" {
		t.Fatalf("expected Gundla's turn, got %s %s", s.Turn.Kind, s.Turn.Player)
	}
}

func TestSextantBackwardMovesItemsDown(t *testing.T) {
	s := newTestState()
	s.Game.Players.Get("Sarah").Items = []engine.Item{engine.Sextant, engine.Key}
	s.Game.Players.Get("Gundla").Items = []engine.Item{engine.Goblet, engine.Dagger}

	offerAndAccept(t, s, "Sarah", "Gundla", engine.Sextant, engine.Dagger)
	mustApply(t, s, "Sarah", engine.Command{Type: engine.CmdSetSextantDirection, Forward: false})
	mustApply(t, s, "Sarah", engine.Command{Type: engine.CmdSelectSextantItem, Item: itemPtr(engine.Key)})
	mustApply(t, s, "Gundla", engine.Command{Type: engine.CmdSelectSextantItem, Item: itemPtr(engine.Goblet)})
	mustApply(t, s, "Marie", engine.Command{Type: engine.CmdSelectSextantItem, Item: itemPtr(engine.PoisonRing)})
	mustApply(t, s, "Zacharias", engine.Command{Type: engine.CmdSelectSextantItem, Item: itemPtr(engine.Gloves)})

	if !s.Game.Players.Get("Zacharias").HoldsItem(engine.Key) {
		t.Fatal("backward: Sarah's item should reach Zacharias")
	}
	if !s.Game.Players.Get("Sarah").HoldsItem(engine.Goblet) {
		t.Fatal("backward: Gundla's item should reach Sarah")
	}
}
