package lobby_test

import (
	"fmt"
	"testing"

	"kutschfahrt/internal/lobby"
)

func TestLobbyLifecycle(t *testing.T) {
	l := lobby.NewLobby("g1")

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("p%d", i)
		if err := l.Join(id, "Player"+id); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}
	if l.CanStart() {
		t.Fatal("lobby must not start before everyone is ready")
	}
	for i := 0; i < 3; i++ {
		l.SetReady(fmt.Sprintf("p%d", i), true)
	}
	if !l.CanStart() {
		t.Fatal("lobby should start with 3 ready players")
	}
	if err := l.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := l.Join("late", "Latecomer"); err == nil {
		t.Fatal("joining a started game must fail")
	}
}

func TestLobbyMinimumThreePlayers(t *testing.T) {
	l := lobby.NewLobby("g1")
	l.Join("a", "A")
	l.Join("b", "B")
	l.SetReady("a", true)
	l.SetReady("b", true)
	if l.CanStart() {
		t.Fatal("two players are not enough")
	}
	if err := l.Start(); err == nil {
		t.Fatal("expected start to fail below the minimum")
	}
}

func TestLobbyCapsAtTenPlayers(t *testing.T) {
	l := lobby.NewLobby("g1")
	for i := 0; i < 10; i++ {
		if err := l.Join(fmt.Sprintf("p%d", i), "P"); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}
	if err := l.Join("p10", "P"); err == nil {
		t.Fatal("an eleventh player must be rejected")
	}
}

func TestLobbyRejoinKeepsSeat(t *testing.T) {
	l := lobby.NewLobby("g1")
	l.Join("a", "A")
	l.Join("b", "B")
	if err := l.Join("a", "Anna"); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	players := l.GetPlayers()
	if len(players) != 2 {
		t.Fatalf("rejoin must not duplicate the seat, got %d players", len(players))
	}
	if players[0].Name != "Anna" {
		t.Fatalf("rejoin should update the name, got %s", players[0].Name)
	}
}
