package server

import (
	"log"
	"net/http"

	"kutschfahrt/internal/store"
)

// Server ties together HTTP serving and WebSocket handling.
type Server struct {
	handlers *Handlers
	addr     string
}

func New(addr string, st *store.Store) *Server {
	return &Server{
		handlers: NewHandlers(st),
		addr:     addr,
	}
}

func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/create", s.handlers.HandleCreateGame)
	mux.HandleFunc("/api/qr", s.handlers.HandleQR)
	mux.HandleFunc("/api/player-id", s.handlers.HandlePlayerID)
	mux.HandleFunc("/ws", s.handlers.HandleWS)

	log.Printf("Kutschfahrt server listening on %s", s.addr)
	log.Printf("POST %s/api/create to open a new table", s.addr)
	return http.ListenAndServe(s.addr, mux)
}
