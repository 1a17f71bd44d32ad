package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nigels-app/nigels/internal/auth"
	"github.com/nigels-app/nigels/internal/game"
)

// Server represents the WebSocket server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc

	rooms     *RoomManager
	validator auth.Validator
	timeout   int // turn timeout in seconds, for idle broadcasts
}

// NewServer creates a new WebSocket server
func NewServer(addr string, rooms *RoomManager, validator auth.Validator, timeoutSeconds int, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
		rooms:       rooms,
		validator:   validator,
		timeout:     timeoutSeconds,
	}
}

// Start starts the WebSocket server
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

// Stop stops the WebSocket server
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s, s.logger)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		s.unregister <- client
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// BroadcastToRoom sends a message to all connections in a room
func (s *Server) BroadcastToRoom(roomID uuid.UUID, msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.GetRoom() == roomID {
			if err := conn.SendMessage(msg); err != nil {
				s.logger.Error("Failed to send message to client", "error", err, "player", conn.GetPlayerID())
			} else {
				count++
			}
		}
	}

	s.logger.Debug("Broadcasted message to room", "room", roomID, "type", msg.Type, "recipients", count)
}

// SendToPlayer sends a message to a specific player
func (s *Server) SendToPlayer(playerID uuid.UUID, msg *Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.GetPlayerID() == playerID {
			return conn.SendMessage(msg)
		}
	}

	return fmt.Errorf("player not connected: %s", playerID)
}

// ConnectedPlayers returns the ids of all authenticated connections
func (s *Server) ConnectedPlayers() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var players []uuid.UUID
	for conn := range s.connections {
		if id := conn.GetPlayerID(); id != uuid.Nil {
			players = append(players, id)
		}
	}
	return players
}

// OnEvent implements game.EventSubscriber. The only event the server reacts
// to directly is the idle notification from the turn monitor; everything
// else is broadcast by the connection that triggered it while it still holds
// the room lock.
func (s *Server) OnEvent(event game.Event) {
	idle, ok := event.(game.PlayerIdleEvent)
	if !ok {
		return
	}
	roomID, ok := s.rooms.RoomByGame(idle.GameID)
	if !ok {
		return
	}

	msg, err := NewMessage(MessageTypePlayerIdle, PlayerIdleData{
		RoomID:         roomID.String(),
		Seat:           idle.Seat,
		TimeoutSeconds: s.timeout,
	})
	if err != nil {
		s.logger.Error("Failed to create idle message", "error", err)
		return
	}
	s.logger.Warn("Player idle past turn timeout", "room", roomID, "seat", idle.Seat)
	s.BroadcastToRoom(roomID, msg)
}
