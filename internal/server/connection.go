package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nigels-app/nigels/internal/auth"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	playerID  uuid.UUID
	name      string
	roomID    uuid.UUID
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		server: server,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetIdentity associates this connection with an authenticated player
func (c *Connection) SetIdentity(playerID uuid.UUID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
	c.name = name
}

// GetPlayerID returns the associated player id, or uuid.Nil before auth
func (c *Connection) GetPlayerID() uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// GetName returns the associated player name
func (c *Connection) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// SetRoom associates this connection with a room
func (c *Connection) SetRoom(roomID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}

// GetRoom returns the associated room id, or uuid.Nil
func (c *Connection) GetRoom() uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetName())

	switch msg.Type {
	case MessageTypeAuth:
		var data AuthData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse auth data")
			return
		}
		c.handleAuth(msg, data)

	case MessageTypeCreateRoom:
		var data CreateRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse create room data")
			return
		}
		c.handleCreateRoom(msg, data)

	case MessageTypeJoinRoom:
		var data JoinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse join room data")
			return
		}
		c.handleJoinRoom(msg, data)

	case MessageTypeLeaveRoom:
		var data LeaveRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse leave room data")
			return
		}
		c.handleLeaveRoom(msg, data)

	case MessageTypeListRooms:
		c.handleListRooms(msg)

	case MessageTypeAssignSeats:
		var data AssignSeatsData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse assign seats data")
			return
		}
		c.handleAssignSeats(msg, data)

	case MessageTypeDealHand:
		var data DealHandData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse deal hand data")
			return
		}
		c.handleDealHand(msg, data)

	case MessageTypePlaceBet:
		var data PlaceBetData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse place bet data")
			return
		}
		c.handlePlaceBet(msg, data)

	case MessageTypePlayCard:
		var data PlayCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse play card data")
			return
		}
		c.handlePlayCard(msg, data)

	case MessageTypeGetHand:
		var data GetHandData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse get hand data")
			return
		}
		c.handleGetHand(msg, data)

	case MessageTypeGetScores:
		var data GetScoresData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse get scores data")
			return
		}
		c.handleGetScores(msg, data)

	default:
		c.sendError(msg, "unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// reply sends a direct response, echoing the request id
func (c *Connection) reply(req *Message, messageType MessageType, data interface{}) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		c.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	msg.RequestID = req.RequestID
	_ = c.SendMessage(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(req *Message, code, message string) {
	c.reply(req, MessageTypeError, ErrorData{Code: code, Message: message})
}

// sendFailure maps engine and room rejections to protocol errors
func (c *Connection) sendFailure(req *Message, err error) {
	c.sendError(req, errorCode(err), err.Error())
}

// requireAuth resolves the authenticated player, or replies with an error
func (c *Connection) requireAuth(req *Message) (uuid.UUID, bool) {
	id := c.GetPlayerID()
	if id == uuid.Nil {
		c.sendError(req, "not_authenticated", "Must authenticate first")
		return uuid.Nil, false
	}
	return id, true
}

// requireRoom parses the room id, falling back to the connection's room
func (c *Connection) requireRoom(req *Message, roomID string) (uuid.UUID, bool) {
	if roomID == "" {
		if id := c.GetRoom(); id != uuid.Nil {
			return id, true
		}
		c.sendError(req, "room_not_found", "Not in a room")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(roomID)
	if err != nil {
		c.sendError(req, "invalid_message", "Malformed room id")
		return uuid.Nil, false
	}
	return id, true
}

func (c *Connection) handleAuth(req *Message, data AuthData) {
	c.logger.Info("Auth request", "playerName", data.PlayerName)

	identity, err := c.server.validator.Validate(c.ctx, data.Token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			c.sendError(req, "expired_token", "Token has expired")
		} else {
			c.sendError(req, "invalid_auth", "Invalid token")
		}
		return
	}

	if identity == nil {
		// Auth disabled: any non-empty name gets a fresh identity.
		if data.PlayerName == "" {
			c.sendError(req, "invalid_auth", "Player name required")
			return
		}
		identity = &auth.Identity{PlayerID: uuid.New(), Name: data.PlayerName}
	}

	c.SetIdentity(identity.PlayerID, identity.Name)
	c.reply(req, MessageTypeAuthResponse, AuthResponseData{
		Success:  true,
		PlayerID: identity.PlayerID.String(),
	})
}

func (c *Connection) handleCreateRoom(req *Message, data CreateRoomData) {
	playerID, ok := c.requireAuth(req)
	if !ok {
		return
	}

	created, err := c.server.rooms.CreateRoom(playerID, c.GetName(), data.Name)
	if err != nil {
		c.sendFailure(req, err)
		return
	}

	roomID, _ := uuid.Parse(created.RoomID)
	c.SetRoom(roomID)
	c.reply(req, MessageTypeRoomCreated, created)
}

func (c *Connection) handleJoinRoom(req *Message, data JoinRoomData) {
	playerID, ok := c.requireAuth(req)
	if !ok {
		return
	}
	roomID, ok := c.requireRoom(req, data.RoomID)
	if !ok {
		return
	}

	joined, err := c.server.rooms.JoinRoom(roomID, playerID, c.GetName())
	if err != nil {
		c.sendFailure(req, err)
		return
	}

	c.SetRoom(roomID)

	// Everyone in the room sees the updated roster.
	msg, err := NewMessage(MessageTypeRoomJoined, joined)
	if err != nil {
		c.logger.Error("Failed to create room joined message", "error", err)
		return
	}
	msg.RequestID = req.RequestID
	c.server.BroadcastToRoom(roomID, msg)
}

func (c *Connection) handleLeaveRoom(req *Message, data LeaveRoomData) {
	playerID, ok := c.requireAuth(req)
	if !ok {
		return
	}
	roomID, ok := c.requireRoom(req, data.RoomID)
	if !ok {
		return
	}

	if err := c.server.rooms.LeaveRoom(roomID, playerID); err != nil {
		c.sendFailure(req, err)
		return
	}

	c.SetRoom(uuid.Nil)
	left := RoomLeftData{RoomID: roomID.String(), PlayerID: playerID.String()}
	c.reply(req, MessageTypeRoomLeft, left)
	if msg, err := NewMessage(MessageTypeRoomLeft, left); err == nil {
		c.server.BroadcastToRoom(roomID, msg)
	}
}

func (c *Connection) handleListRooms(req *Message) {
	c.reply(req, MessageTypeRoomList, RoomListData{Rooms: c.server.rooms.ListRooms()})
}

func (c *Connection) handleAssignSeats(req *Message, data AssignSeatsData) {
	playerID, ok := c.requireAuth(req)
	if !ok {
		return
	}
	roomID, ok := c.requireRoom(req, data.RoomID)
	if !ok {
		return
	}

	assigned, err := c.server.rooms.AssignSeats(roomID, playerID, time.Now().UnixNano())
	if err != nil {
		c.sendFailure(req, err)
		return
	}

	if msg, err := NewMessage(MessageTypeSeatsAssigned, assigned); err == nil {
		c.server.BroadcastToRoom(roomID, msg)
	}
}

func (c *Connection) handleDealHand(req *Message, data DealHandData) {
	playerID, ok := c.requireAuth(req)
	if !ok {
		return
	}
	roomID, ok := c.requireRoom(req, data.RoomID)
	if !ok {
		return
	}

	dealt, err := c.server.rooms.DealHand(roomID, playerID)
	if err != nil {
		c.sendFailure(req, err)
		return
	}

	// Public announcement first, then each seat's cards privately.
	if msg, err := NewMessage(MessageTypeHandDealt, dealt.Public); err == nil {
		c.server.BroadcastToRoom(roomID, msg)
	}
	for seat, cards := range dealt.Cards {
		target, ok := c.server.rooms.PlayerAtSeat(roomID, seat)
		if !ok {
			continue
		}
		msg, err := NewMessage(MessageTypeCardsDealt, cards)
		if err != nil {
			continue
		}
		if err := c.server.SendToPlayer(target, msg); err != nil {
			c.logger.Warn("Failed to deliver cards", "seat", seat, "error", err)
		}
	}
}

func (c *Connection) handlePlaceBet(req *Message, data PlaceBetData) {
	playerID, ok := c.requireAuth(req)
	if !ok {
		return
	}
	roomID, ok := c.requireRoom(req, data.RoomID)
	if !ok {
		return
	}
	handID, err := uuid.Parse(data.HandID)
	if err != nil {
		c.sendError(req, "invalid_message", "Malformed hand id")
		return
	}

	placed, err := c.server.rooms.PlaceBet(roomID, playerID, handID, data.BetSize)
	if err != nil {
		c.sendFailure(req, err)
		return
	}

	if msg, err := NewMessage(MessageTypeBetPlaced, placed); err == nil {
		c.server.BroadcastToRoom(roomID, msg)
	}
}

func (c *Connection) handlePlayCard(req *Message, data PlayCardData) {
	playerID, ok := c.requireAuth(req)
	if !ok {
		return
	}
	roomID, ok := c.requireRoom(req, data.RoomID)
	if !ok {
		return
	}
	handID, err := uuid.Parse(data.HandID)
	if err != nil {
		c.sendError(req, "invalid_message", "Malformed hand id")
		return
	}

	outcome, err := c.server.rooms.PlayCard(roomID, playerID, handID, data.Card)
	if err != nil {
		c.sendFailure(req, err)
		return
	}

	broadcast := func(messageType MessageType, data interface{}) {
		if msg, err := NewMessage(messageType, data); err == nil {
			c.server.BroadcastToRoom(roomID, msg)
		}
	}

	broadcast(MessageTypeCardPlayed, outcome.Played)
	if outcome.TrickWon != nil {
		broadcast(MessageTypeTrickWon, *outcome.TrickWon)
	}
	if outcome.Closed != nil {
		broadcast(MessageTypeHandClosed, *outcome.Closed)
	}
	if outcome.Finished != nil {
		broadcast(MessageTypeGameFinished, *outcome.Finished)
	}
}

func (c *Connection) handleGetHand(req *Message, data GetHandData) {
	playerID, ok := c.requireAuth(req)
	if !ok {
		return
	}
	roomID, ok := c.requireRoom(req, data.RoomID)
	if !ok {
		return
	}

	handID := uuid.Nil
	if data.HandID != "" {
		var err error
		if handID, err = uuid.Parse(data.HandID); err != nil {
			c.sendError(req, "invalid_message", "Malformed hand id")
			return
		}
	}

	state, err := c.server.rooms.HandState(roomID, playerID, handID)
	if err != nil {
		c.sendFailure(req, err)
		return
	}
	c.reply(req, MessageTypeHandState, state)
}

func (c *Connection) handleGetScores(req *Message, data GetScoresData) {
	if _, ok := c.requireAuth(req); !ok {
		return
	}
	roomID, ok := c.requireRoom(req, data.RoomID)
	if !ok {
		return
	}

	scores, err := c.server.rooms.Scores(roomID)
	if err != nil {
		c.sendFailure(req, err)
		return
	}
	c.reply(req, MessageTypeScoreTable, scores)
}
