// Package monitor exposes the filter state over HTTP and WebSocket so a
// frontend can watch exclusion progress while a job streams through.
package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"excluderegion-go/pkg/errors"
	"excluderegion-go/pkg/log"
)

// StatusSource supplies the state snapshot served to clients.
type StatusSource interface {
	Status() map[string]any
}

// Server serves the current filter status on /status (JSON) and pushes
// periodic updates to WebSocket clients on /websocket.
type Server struct {
	source StatusSource
	logger *log.Logger
	addr   string

	httpServer *http.Server
	upgrader   websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	running  atomic.Bool
	interval time.Duration
	done     chan struct{}
}

// New creates a monitor server bound to addr.
func New(addr string, source StatusSource, logger *log.Logger) *Server {
	s := &Server{
		source:   source,
		logger:   logger,
		addr:     addr,
		clients:  make(map[*websocket.Conn]struct{}),
		interval: time.Second,
		done:     make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	return s
}

// Start begins serving. It returns once the listener is running; serve
// errors after that are logged.
func (s *Server) Start() error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New(errors.ErrMonitor, "already running")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/websocket", s.handleWebSocket)

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}

	go func() {
		s.logger.Info("monitor listening on %s", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("monitor server: %v", err)
		}
	}()
	go s.broadcastLoop()

	return nil
}

// Stop shuts the server down and closes every client connection.
func (s *Server) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	close(s.done)

	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = make(map[*websocket.Conn]struct{})
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.source.Status()); err != nil {
		s.logger.Error("monitor: encode status: %v", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("monitor: websocket upgrade: %v", err)
		return
	}

	// Send the current snapshot before registering the connection, so
	// the only writer a registered connection ever sees is Broadcast.
	if err := conn.WriteJSON(s.source.Status()); err != nil {
		conn.Close()
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	// Drain incoming messages until the client goes away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.removeClient(conn)
				return
			}
		}
	}()
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.mu.Lock()
	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		conn.Close()
	}
	s.mu.Unlock()
}

func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.Broadcast()
		}
	}
}

// Broadcast pushes the current status to every connected client. The
// mutex is held across the writes so concurrent broadcasts never
// interleave on one connection.
func (s *Server) Broadcast() {
	status := s.source.Status()

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteJSON(status); err != nil {
			delete(s.clients, conn)
			conn.Close()
		}
	}
}
