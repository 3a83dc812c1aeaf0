package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"kutschfahrt/internal/lobby"
	qr "kutschfahrt/internal/qrcode"
	"kutschfahrt/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	LobbyMgr *lobby.Manager
	Store    *store.Store

	mu   sync.Mutex
	hubs map[string]*Hub
}

func NewHandlers(st *store.Store) *Handlers {
	return &Handlers{
		LobbyMgr: lobby.NewManager(),
		Store:    st,
		hubs:     make(map[string]*Hub),
	}
}

// HandleCreateGame creates a new game lobby and returns its ID.
func (h *Handlers) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	gameID := h.LobbyMgr.Create()
	lob := h.LobbyMgr.Get(gameID)
	hub := NewHub(gameID, lob, h.Store)

	h.mu.Lock()
	h.hubs[gameID] = hub
	h.mu.Unlock()
	go hub.Run()

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, gameID)
}

// HandleQR generates a QR code PNG for joining the game.
func (h *Handlers) HandleQR(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		http.Error(w, "missing game parameter", http.StatusBadRequest)
		return
	}
	host := r.Host
	url := fmt.Sprintf("http://%s/join?game=%s", host, gameID)
	png, err := qr.Generate(url)
	if err != nil {
		http.Error(w, "QR generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// HandleWS handles WebSocket connections.
func (h *Handlers) HandleWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	playerID := r.URL.Query().Get("player")

	if gameID == "" {
		http.Error(w, "missing game parameter", http.StatusBadRequest)
		return
	}
	h.mu.Lock()
	hub, ok := h.hubs[gameID]
	h.mu.Unlock()
	if !ok {
		hub, ok = h.resumeHub(gameID)
	}
	if !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	client := NewClient(hub, conn, playerID)
	hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}

// resumeHub rebuilds the room for a persisted game after a process
// restart. Returns false when no snapshot exists for the id.
func (h *Handlers) resumeHub(gameID string) (*Hub, bool) {
	if _, err := h.Store.LoadSnapshot(context.Background(), gameID); err != nil {
		return nil, false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if hub, ok := h.hubs[gameID]; ok {
		return hub, true
	}
	hub := NewHub(gameID, h.LobbyMgr.Ensure(gameID), h.Store)
	h.hubs[gameID] = hub
	go hub.Run()
	return hub, true
}

// HandlePlayerID returns a new player ID.
func (h *Handlers) HandlePlayerID(w http.ResponseWriter, r *http.Request) {
	id := GeneratePlayerID()
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(id))
}
