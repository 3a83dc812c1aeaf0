package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand/v2"
	"sync"

	"kutschfahrt/internal/engine"
	"kutschfahrt/internal/lobby"
	"kutschfahrt/internal/protocol"
	"kutschfahrt/internal/random"
	"kutschfahrt/internal/store"
)

// Hub manages WebSocket connections and game state for one game room.
// All commands for the room pass through the hub goroutine, which
// serializes them against the single authoritative state.
type Hub struct {
	mu         sync.Mutex
	gameID     string
	lobby      *lobby.Lobby
	state      *engine.State
	store      *store.Store
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	incoming   chan IncomingMessage
	quit       chan struct{}
}

func NewHub(gameID string, lob *lobby.Lobby, st *store.Store) *Hub {
	h := &Hub{
		gameID:     gameID,
		lobby:      lob,
		store:      st,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan IncomingMessage, 256),
		quit:       make(chan struct{}),
	}
	h.restore()
	return h
}

// restore resumes a persisted game, if one exists for this id.
func (h *Hub) restore() {
	snap, err := h.store.LoadSnapshot(context.Background(), h.gameID)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("game %s: load snapshot: %v", h.gameID, err)
		return
	}
	var s engine.State
	if err := json.Unmarshal(snap, &s); err != nil {
		log.Printf("game %s: corrupt snapshot: %v", h.gameID, err)
		return
	}
	h.state = &s
	log.Printf("game %s: resumed from snapshot", h.gameID)
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.sendLobbyUpdate()
			if h.state != nil {
				h.sendStateToClient(client)
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case msg := <-h.incoming:
			h.handleMessage(msg)

		case <-h.quit:
			return
		}
	}
}

func (h *Hub) handleMessage(msg IncomingMessage) {
	switch msg.Envelope.Type {
	case protocol.MsgJoin:
		h.handleJoin(msg)
	case protocol.MsgReady:
		h.handleReady(msg)
	case protocol.MsgStartGame:
		h.handleStartGame(msg)
	default:
		h.handleCommand(msg)
	}
}

func (h *Hub) handleJoin(msg IncomingMessage) {
	var join protocol.JoinMsg
	if err := json.Unmarshal(msg.Envelope.Payload, &join); err != nil {
		h.sendError(msg.Client, "invalid join message")
		return
	}
	msg.Client.PlayerID = join.PlayerID
	if err := h.lobby.Join(join.PlayerID, join.Name); err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}
	h.sendLobbyUpdate()
}

func (h *Hub) handleReady(msg IncomingMessage) {
	var ready protocol.ReadyMsg
	if err := json.Unmarshal(msg.Envelope.Payload, &ready); err != nil {
		h.sendError(msg.Client, "invalid ready message")
		return
	}
	h.lobby.SetReady(msg.Client.PlayerID, ready.Ready)
	h.sendLobbyUpdate()
}

func (h *Hub) handleStartGame(msg IncomingMessage) {
	if h.state != nil {
		h.sendError(msg.Client, "game already started")
		return
	}
	if !h.lobby.CanStart() {
		h.sendError(msg.Client, "not all players ready")
		return
	}
	if err := h.lobby.Start(); err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}

	lobbyPlayers := h.lobby.GetPlayers()
	players := make([]engine.Player, len(lobbyPlayers))
	for i, lp := range lobbyPlayers {
		players[i] = engine.Player(lp.ID)
	}

	seed, err := random.NewSeed()
	if err != nil {
		h.sendError(msg.Client, "seed generation failed")
		return
	}
	state, err := engine.New(players, rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}
	h.state = state

	h.persist()
	h.sendLobbyUpdate()
	h.broadcastPerspectives()
}

func (h *Hub) handleCommand(msg IncomingMessage) {
	if h.state == nil {
		h.sendError(msg.Client, "game not started")
		return
	}

	var cmd engine.Command
	if len(msg.Envelope.Payload) > 0 {
		if err := json.Unmarshal(msg.Envelope.Payload, &cmd); err != nil {
			h.sendError(msg.Client, "invalid command payload")
			return
		}
	}
	cmd.Type = engine.CommandType(msg.Envelope.Type)

	if err := h.state.Apply(engine.Player(msg.Client.PlayerID), cmd); err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}

	h.persist()
	h.broadcastPerspectives()

	if h.state.Turn.Kind == engine.TurnGameOver {
		env := protocol.MustEnvelope(protocol.MsgGameOver, protocol.GameOverMsg{
			Winner: h.state.Turn.Winner.String(),
		})
		h.broadcastAll(env)
	}
}

// persist writes the full snapshot before any further command is handled.
func (h *Hub) persist() {
	snap, err := json.Marshal(h.state)
	if err != nil {
		log.Printf("game %s: marshal snapshot: %v", h.gameID, err)
		return
	}
	if err := h.store.SaveSnapshot(context.Background(), h.gameID, snap); err != nil {
		log.Printf("game %s: save snapshot: %v", h.gameID, err)
	}
}

func (h *Hub) broadcastPerspectives() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		h.sendStateToClient(client)
	}
}

func (h *Hub) sendStateToClient(client *Client) {
	if h.state == nil {
		return
	}
	viewer := engine.Player(client.PlayerID)
	if !h.state.Game.Players.Contains(viewer) {
		return
	}
	view := h.state.Perspective(viewer)
	client.SendEnvelope(protocol.MustEnvelope(protocol.MsgPerspective, view))
}

func (h *Hub) sendLobbyUpdate() {
	players := h.lobby.GetPlayers()
	lps := make([]protocol.LobbyPlayer, len(players))
	for i, p := range players {
		lps[i] = protocol.LobbyPlayer{ID: p.ID, Name: p.Name, Ready: p.Ready}
	}
	env := protocol.MustEnvelope(protocol.MsgLobbyUpdate, protocol.LobbyUpdate{
		GameID:  h.gameID,
		Players: lps,
		Started: h.state != nil,
	})
	h.broadcastAll(env)
}

func (h *Hub) broadcastAll(env protocol.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("broadcast marshal error: %v", err)
		return
	}
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			log.Printf("client %s buffer full", client.PlayerID)
		}
	}
}

func (h *Hub) sendError(client *Client, message string) {
	env := protocol.MustEnvelope(protocol.MsgError, protocol.ErrorMsg{Message: message})
	client.SendEnvelope(env)
}
