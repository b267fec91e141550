package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/harvest-hope/internal/engine"
)

// maxStreamConns bounds concurrent journal stream clients.
const maxStreamConns = 8

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 4 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

var streamConns int32

// handleStream upgrades the connection to a websocket and pushes journal
// entries as they happen. One-way: client messages are drained and ignored.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	current := atomic.AddInt32(&streamConns, 1)
	if current > maxStreamConns {
		atomic.AddInt32(&streamConns, -1)
		http.Error(w, "too many stream connections", http.StatusServiceUnavailable)
		return
	}
	defer atomic.AddInt32(&streamConns, -1)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	subID, ch := s.Sim.Subscribe()
	defer s.Sim.Unsubscribe(subID)
	slog.Info("stream client connected", "sub_id", subID)

	// Catch-up: copy the recent journal tail under the read lock, then
	// send without holding it (websocket writes can block).
	s.Sim.RLock()
	entries := s.Sim.Entries
	start := len(entries) - 50
	if start < 0 {
		start = 0
	}
	tail := make([]engine.Journal, len(entries[start:]))
	copy(tail, entries[start:])
	s.Sim.RUnlock()

	for _, e := range tail {
		if err := writeStreamJSON(conn, e); err != nil {
			return
		}
	}

	// Reader goroutine: drain control frames and detect close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			conn.SetReadDeadline(time.Now().Add(120 * time.Second))
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return
			}
			if err := writeStreamJSON(conn, e); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			slog.Info("stream client disconnected", "sub_id", subID)
			return
		case <-r.Context().Done():
			return
		}
	}
}

func writeStreamJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
