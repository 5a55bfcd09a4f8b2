package web

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"co2-predictor/internal/storage"
)

// handleWebSocket upgrades the connection and registers the client for
// prediction broadcasts. Clients are write-only; incoming frames are read and
// discarded just to detect disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = true
	clientCount := len(s.clients)
	s.clientsMu.Unlock()

	log.Info().Int("clients", clientCount).Msg("websocket client connected")

	go func() {
		defer func() {
			s.clientsMu.Lock()
			delete(s.clients, conn)
			s.clientsMu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcast pushes one prediction record to every connected client. Clients
// that fail to accept the write are dropped.
func (s *Server) broadcast(rec storage.Record) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for conn := range s.clients {
		if err := conn.WriteJSON(rec); err != nil {
			log.Debug().Err(err).Msg("dropping websocket client")
			conn.Close()
			delete(s.clients, conn)
		}
	}
}
