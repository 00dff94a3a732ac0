// Package server exposes the local control surface: a WebSocket state
// stream plus small JSON endpoints for devices, mode and profile.
package server

import (
	"context"
	"log"
	"net/http"

	"github.com/padmux/padmux/internal/engine"
	"github.com/padmux/padmux/internal/hub"
)

type Server struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	engine      *engine.Engine
	addr        string
	httpServer  *http.Server
}

func New(h *hub.Hub, b *hub.Broadcaster, e *engine.Engine, addr string) *Server {
	return &Server{
		hub:         h,
		broadcaster: b,
		engine:      e,
		addr:        addr,
	}
}

func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", handleWebSocket(s.hub, s.broadcaster, s.engine))
	mux.HandleFunc("/api/devices", s.handleDevices)
	mux.HandleFunc("/api/mode", s.handleMode)
	mux.HandleFunc("/api/profile", s.handleProfile)
	mux.HandleFunc("/api/pause", s.handlePause)

	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	log.Printf("HTTP server listening on %s", s.addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		log.Println("Shutting down HTTP server...")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
