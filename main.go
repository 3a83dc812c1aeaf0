package main

import (
	"log"

	"kutschfahrt/internal/config"
	"kutschfahrt/internal/server"
	"kutschfahrt/internal/store"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("store error: %v", err)
	}
	defer st.Close()

	srv := server.New(cfg.Addr, st)
	if err := srv.Start(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
