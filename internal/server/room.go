package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nigels-app/nigels/internal/deck"
	"github.com/nigels-app/nigels/internal/game"
	"github.com/nigels-app/nigels/internal/randutil"
	"github.com/nigels-app/nigels/internal/store"
)

var (
	ErrRoomNotFound   = errors.New("server: room not found")
	ErrRoomFull       = errors.New("server: room is full")
	ErrServerFull     = errors.New("server: room limit reached")
	ErrNotHost        = errors.New("server: only the host may do that")
	ErrNotSeated      = errors.New("server: player has no seat in this game")
	ErrNotInRoom      = errors.New("server: player is not in this room")
	ErrGameNotStarted = errors.New("server: seats have not been assigned yet")
	ErrGameStarted    = errors.New("server: the game has already started")
	ErrTooFewPlayers  = errors.New("server: not enough players to start")
)

// Player is one connected participant of a room.
type Player struct {
	ID   uuid.UUID
	Name string
	Seat int // 0 until seats are assigned
}

// Room groups players around one game. All mutation goes through the
// RoomManager, which holds the room lock for the duration of each operation
// so the engine only ever sees serialized calls.
type Room struct {
	ID     uuid.UUID
	Name   string
	HostID uuid.UUID

	mu      sync.Mutex
	players map[uuid.UUID]*Player
	order   []uuid.UUID // join order, used for the seat shuffle
	session *game.Session
}

func (r *Room) status() string {
	if r.session == nil {
		return "open"
	}
	return r.session.Status.String()
}

// roomPlayers returns the player list in join order. Callers hold r.mu.
func (r *Room) roomPlayers() []RoomPlayer {
	players := make([]RoomPlayer, 0, len(r.order))
	for _, id := range r.order {
		p := r.players[id]
		players = append(players, RoomPlayer{
			PlayerID: p.ID.String(),
			Name:     p.Name,
			Seat:     p.Seat,
			IsHost:   p.ID == r.HostID,
		})
	}
	return players
}

// seatOf resolves a player's seat. Callers hold r.mu.
func (r *Room) seatOf(playerID uuid.UUID) (int, error) {
	p, ok := r.players[playerID]
	if !ok {
		return 0, ErrNotInRoom
	}
	if p.Seat == 0 {
		return 0, ErrNotSeated
	}
	return p.Seat, nil
}

// RoomManager owns every room on the server and drives the game engine on
// their behalf. Engine results are persisted and turned into events before
// the room lock is released, so no two actions can interleave.
type RoomManager struct {
	mu       sync.RWMutex
	rooms    map[uuid.UUID]*Room
	maxRooms int

	store   *store.Store // nil disables persistence
	bus     game.EventBus
	monitor *TurnMonitor
	logger  *log.Logger
}

// NewRoomManager creates a room manager. The store may be nil for an
// in-memory server; the monitor may be nil to disable idle tracking.
func NewRoomManager(maxRooms int, st *store.Store, bus game.EventBus, monitor *TurnMonitor, logger *log.Logger) *RoomManager {
	return &RoomManager{
		rooms:    make(map[uuid.UUID]*Room),
		maxRooms: maxRooms,
		store:    st,
		bus:      bus,
		monitor:  monitor,
		logger:   logger.WithPrefix("rooms"),
	}
}

// CreateRoom opens a new room with the creator as host and first player.
func (m *RoomManager) CreateRoom(hostID uuid.UUID, hostName, roomName string) (*RoomCreatedData, error) {
	if roomName == "" {
		roomName = fmt.Sprintf("%s's table", hostName)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.rooms) >= m.maxRooms {
		return nil, ErrServerFull
	}

	room := &Room{
		ID:      uuid.New(),
		Name:    roomName,
		HostID:  hostID,
		players: map[uuid.UUID]*Player{hostID: {ID: hostID, Name: hostName}},
		order:   []uuid.UUID{hostID},
	}
	m.rooms[room.ID] = room

	m.logger.Info("Room created", "room", room.ID, "name", roomName, "host", hostName)
	return &RoomCreatedData{RoomID: room.ID.String(), Name: roomName}, nil
}

// JoinRoom adds a player to an open room. Rejoining after a disconnect is
// allowed at any time and keeps the player's seat.
func (m *RoomManager) JoinRoom(roomID, playerID uuid.UUID, name string) (*RoomJoinedData, error) {
	room, err := m.room(roomID)
	if err != nil {
		return nil, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if _, back := room.players[playerID]; !back {
		if room.session != nil {
			return nil, ErrGameStarted
		}
		if len(room.players) >= game.MaxSeats {
			return nil, ErrRoomFull
		}
		room.players[playerID] = &Player{ID: playerID, Name: name}
		room.order = append(room.order, playerID)
		m.logger.Info("Player joined room", "room", room.ID, "player", name)
	}

	return &RoomJoinedData{
		RoomID:  room.ID.String(),
		Name:    room.Name,
		Players: room.roomPlayers(),
	}, nil
}

// LeaveRoom removes a player from a room that has not started. Once seats
// are assigned the seat stays reserved so the player can reconnect.
func (m *RoomManager) LeaveRoom(roomID, playerID uuid.UUID) error {
	room, err := m.room(roomID)
	if err != nil {
		return err
	}

	room.mu.Lock()
	if _, ok := room.players[playerID]; !ok {
		room.mu.Unlock()
		return ErrNotInRoom
	}
	if room.session != nil {
		room.mu.Unlock()
		return ErrGameStarted
	}

	delete(room.players, playerID)
	for i, id := range room.order {
		if id == playerID {
			room.order = append(room.order[:i], room.order[i+1:]...)
			break
		}
	}
	if playerID == room.HostID && len(room.order) > 0 {
		room.HostID = room.order[0]
	}
	empty := len(room.players) == 0
	room.mu.Unlock()
	m.logger.Info("Player left room", "room", room.ID, "player", playerID)

	// Lock order is manager before room everywhere, so the emptied room is
	// removed after dropping room.mu and emptiness re-checked in that order.
	if empty {
		m.mu.Lock()
		room.mu.Lock()
		if len(room.players) == 0 {
			delete(m.rooms, room.ID)
			m.logger.Info("Room removed", "room", room.ID)
		}
		room.mu.Unlock()
		m.mu.Unlock()
	}
	return nil
}

// ListRooms returns a summary of every room.
func (m *RoomManager) ListRooms() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rooms := make([]RoomInfo, 0, len(m.rooms))
	for _, room := range m.rooms {
		room.mu.Lock()
		rooms = append(rooms, RoomInfo{
			ID:          room.ID.String(),
			Name:        room.Name,
			PlayerCount: len(room.players),
			Status:      room.status(),
		})
		room.mu.Unlock()
	}
	return rooms
}

// Restore rebuilds a room for every unfinished stored game so play resumes
// after a server restart. Seated players get their seats back by rejoining
// the restored room; the seat-1 player becomes host. Returns how many games
// were restored.
func (m *RoomManager) Restore(ctx context.Context) (int, error) {
	if m.store == nil {
		return 0, nil
	}
	games, err := m.store.ListGames(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, g := range games {
		if g.Status == game.StatusFinished {
			continue
		}
		sess, err := m.store.LoadGame(ctx, g.ID)
		if err != nil {
			m.logger.Warn("Failed to reload game", "game", g.ID, "error", err)
			continue
		}
		seating, err := m.store.LoadSeating(ctx, g.ID)
		if err != nil {
			m.logger.Warn("Failed to reload seating", "game", g.ID, "error", err)
			continue
		}
		if len(seating) != sess.Seats {
			m.logger.Warn("Stored seating does not cover game",
				"game", g.ID, "seats", sess.Seats, "stored", len(seating))
			continue
		}

		room := &Room{
			ID:      uuid.New(),
			Name:    fmt.Sprintf("%s's table", seating[0].Name),
			HostID:  seating[0].PlayerID,
			players: make(map[uuid.UUID]*Player, len(seating)),
			session: sess,
		}
		for _, sa := range seating {
			room.players[sa.PlayerID] = &Player{ID: sa.PlayerID, Name: sa.Name, Seat: sa.Seat}
			room.order = append(room.order, sa.PlayerID)
		}

		m.mu.Lock()
		m.rooms[room.ID] = room
		m.mu.Unlock()
		restored++
		m.logger.Info("Restored game", "room", room.ID, "game", sess.ID,
			"seats", sess.Seats, "hands", len(sess.Hands))
	}
	return restored, nil
}

// AssignSeats shuffles the room's players into seats exactly once and starts
// the game. Host only.
func (m *RoomManager) AssignSeats(roomID, requesterID uuid.UUID, seed int64) (*SeatsAssignedData, error) {
	room, err := m.room(roomID)
	if err != nil {
		return nil, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if requesterID != room.HostID {
		return nil, ErrNotHost
	}
	if room.session != nil {
		return nil, ErrGameStarted
	}
	if len(room.players) < game.MinSeats {
		return nil, fmt.Errorf("%w: %d of %d", ErrTooFewPlayers, len(room.players), game.MinSeats)
	}

	session, err := game.NewSession(uuid.New(), len(room.players))
	if err != nil {
		return nil, err
	}

	// Random one-time seat order.
	shuffled := append([]uuid.UUID(nil), room.order...)
	rng := randutil.New(seed)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	seatNames := make(map[int]string, len(shuffled))
	seating := make([]store.SeatAssignment, 0, len(shuffled))
	for i, id := range shuffled {
		p := room.players[id]
		p.Seat = i + 1
		seatNames[p.Seat] = p.ID.String()
		seating = append(seating, store.SeatAssignment{Seat: p.Seat, PlayerID: p.ID, Name: p.Name})
	}

	if err := session.Activate(); err != nil {
		return nil, err
	}
	room.session = session

	m.persist(room)
	if m.store != nil {
		if err := m.store.SaveSeating(context.Background(), session.ID, seating); err != nil {
			m.logger.Warn("Failed to persist seating", "game", session.ID, "error", err)
		}
	}
	m.bus.Publish(game.NewSeatsAssignedEvent(session.ID, seatNames))

	m.logger.Info("Seats assigned", "room", room.ID, "game", session.ID, "seats", len(shuffled))
	return &SeatsAssignedData{
		RoomID:  room.ID.String(),
		GameID:  session.ID.String(),
		Players: room.roomPlayers(),
	}, nil
}

// DealResult pairs the public hand announcement with the per-seat private
// cards the caller must deliver individually.
type DealResult struct {
	Public HandDealtData
	Cards  map[int]CardsDealtData // seat → that seat's cards
}

// DealHand deals the next hand of the room's game. Host only. The deck seed
// is derived from the game id and hand serial, so a crashed deal retried by
// the host produces the identical hand.
func (m *RoomManager) DealHand(roomID, requesterID uuid.UUID) (*DealResult, error) {
	room, err := m.room(roomID)
	if err != nil {
		return nil, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if requesterID != room.HostID {
		return nil, ErrNotHost
	}
	if room.session == nil {
		return nil, ErrGameNotStarted
	}

	serial := len(room.session.Hands) + 1
	dealt, err := room.session.DealHand(randutil.ForHand(room.session.ID, serial))
	if err != nil {
		return nil, err
	}

	m.persist(room)
	m.bus.Publish(game.NewHandDealtEvent(room.session.ID, dealt))
	m.resetIdle(room)

	result := &DealResult{
		Public: HandDealtData{
			RoomID:       room.ID.String(),
			HandID:       dealt.HandID.String(),
			Serial:       dealt.Serial,
			Trump:        dealt.Trump.Token(),
			CardsPerSeat: dealt.CardsPerSeat,
			StartingSeat: dealt.StartingSeat,
		},
		Cards: make(map[int]CardsDealtData, len(dealt.Dealt)),
	}
	for seat, cards := range dealt.Dealt {
		result.Cards[seat] = CardsDealtData{
			HandID: dealt.HandID.String(),
			Seat:   seat,
			Cards:  cardTokens(cards),
		}
	}

	m.logger.Info("Hand dealt", "room", room.ID, "hand", dealt.Serial,
		"trump", dealt.Trump.String(), "cards", dealt.CardsPerSeat)
	return result, nil
}

// PlaceBet records the player's bet in the given hand.
func (m *RoomManager) PlaceBet(roomID, playerID uuid.UUID, handID uuid.UUID, betSize int) (*BetPlacedData, error) {
	room, err := m.room(roomID)
	if err != nil {
		return nil, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.session == nil {
		return nil, ErrGameNotStarted
	}
	seat, err := room.seatOf(playerID)
	if err != nil {
		return nil, err
	}

	res, err := room.session.PlaceBet(handID, seat, betSize)
	if err != nil {
		return nil, err
	}

	m.persist(room)
	m.bus.Publish(game.NewBetPlacedEvent(room.session.ID, handID, res))
	m.resetIdle(room)

	m.logger.Info("Bet placed", "room", room.ID, "seat", seat, "bet", betSize, "last", res.LastBettor)
	return &BetPlacedData{
		HandID:     handID.String(),
		Seat:       res.Seat,
		BetSize:    res.BetSize,
		LastBettor: res.LastBettor,
		NextActor:  res.NextActor,
	}, nil
}

// PlayOutcome collects everything one accepted card play can trigger. The
// trailing fields are nil unless this play completed a trick, closed the
// hand, or finished the game.
type PlayOutcome struct {
	Played   CardPlayedData
	TrickWon *TrickWonData
	Closed   *HandClosedData
	Finished *GameFinishedData
}

// PlayCard plays one card for the player in the given hand.
func (m *RoomManager) PlayCard(roomID, playerID uuid.UUID, handID uuid.UUID, cardToken string) (*PlayOutcome, error) {
	room, err := m.room(roomID)
	if err != nil {
		return nil, err
	}

	card, err := deck.Parse(cardToken)
	if err != nil {
		return nil, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.session == nil {
		return nil, ErrGameNotStarted
	}
	seat, err := room.seatOf(playerID)
	if err != nil {
		return nil, err
	}

	res, err := room.session.PlayCard(handID, seat, card)
	if err != nil {
		return nil, err
	}

	m.persist(room)
	gameID := room.session.ID
	m.bus.Publish(game.NewCardPlayedEvent(gameID, handID, res))

	outcome := &PlayOutcome{
		Played: CardPlayedData{
			HandID:       handID.String(),
			Seat:         res.Seat,
			Card:         res.Card.Token(),
			TrickSerial:  res.TrickSerial,
			CardsOnTable: playRecords(res.CardsOnTable),
			NextActor:    res.NextActor,
		},
	}

	if res.TrickWinner != 0 {
		m.bus.Publish(game.NewTrickWonEvent(gameID, handID, res.TrickSerial, res.TrickWinner))
		outcome.TrickWon = &TrickWonData{
			HandID:      handID.String(),
			TrickSerial: res.TrickSerial,
			Winner:      res.TrickWinner,
		}
	}
	if res.HandClosed {
		h, _ := room.session.HandByID(handID)
		m.bus.Publish(game.NewHandClosedEvent(gameID, handID, h.Serial, res.Results))
		outcome.Closed = &HandClosedData{
			HandID:  handID.String(),
			Serial:  h.Serial,
			Results: seatResults(res.Results),
		}
	}
	if res.GameFinished {
		m.bus.Publish(game.NewGameFinishedEvent(gameID, res.WinnerSeat, res.Scores))
		scores := scoreTableFromGame(res.Scores)
		outcome.Finished = &GameFinishedData{
			GameID:     gameID.String(),
			WinnerSeat: res.WinnerSeat,
			Totals:     res.Scores.Totals,
			Scores:     scores,
		}
		m.stopIdle(room)
	} else {
		m.resetIdle(room)
	}

	m.logger.Info("Card played", "room", room.ID, "seat", seat, "card", card.String(),
		"trick", res.TrickSerial, "winner", res.TrickWinner)
	return outcome, nil
}

// HandState reports a hand's live state, including the requesting player's
// own unplayed cards when they are seated.
func (m *RoomManager) HandState(roomID, playerID uuid.UUID, handID uuid.UUID) (*HandStateData, error) {
	room, err := m.room(roomID)
	if err != nil {
		return nil, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.session == nil {
		return nil, ErrGameNotStarted
	}
	if handID == uuid.Nil {
		open := room.session.OpenHand()
		if open == nil {
			return nil, fmt.Errorf("%w: no open hand", game.ErrSequence)
		}
		handID = open.ID
	}

	view, err := room.session.HandStatus(handID)
	if err != nil {
		return nil, err
	}

	var holding []deck.Card
	if seat, err := room.seatOf(playerID); err == nil {
		if h, err := room.session.HandByID(handID); err == nil {
			holding = h.Holding(seat)
		}
	}

	data := handStateFromView(view, holding)
	return &data, nil
}

// Scores returns the room's score table across all closed hands.
func (m *RoomManager) Scores(roomID uuid.UUID) (*ScoreTableData, error) {
	room, err := m.room(roomID)
	if err != nil {
		return nil, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.session == nil {
		return nil, ErrGameNotStarted
	}
	data := scoreTableFromGame(room.session.ScoreTable())
	return &data, nil
}

// SeatName resolves the player name sitting in a seat, for display in
// broadcasts.
func (m *RoomManager) SeatName(roomID uuid.UUID, seat int) string {
	room, err := m.room(roomID)
	if err != nil {
		return ""
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	for _, p := range room.players {
		if p.Seat == seat {
			return p.Name
		}
	}
	return ""
}

// PlayersOf returns the connected player ids of a room.
func (m *RoomManager) PlayersOf(roomID uuid.UUID) []uuid.UUID {
	room, err := m.room(roomID)
	if err != nil {
		return nil
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return append([]uuid.UUID(nil), room.order...)
}

// PlayerAtSeat returns the player id occupying a seat.
func (m *RoomManager) PlayerAtSeat(roomID uuid.UUID, seat int) (uuid.UUID, bool) {
	room, err := m.room(roomID)
	if err != nil {
		return uuid.Nil, false
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	for _, p := range room.players {
		if p.Seat == seat {
			return p.ID, true
		}
	}
	return uuid.Nil, false
}

// RoomByGame finds the room hosting a given game.
func (m *RoomManager) RoomByGame(gameID uuid.UUID) (uuid.UUID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, room := range m.rooms {
		room.mu.Lock()
		match := room.session != nil && room.session.ID == gameID
		room.mu.Unlock()
		if match {
			return room.ID, true
		}
	}
	return uuid.Nil, false
}

func (m *RoomManager) room(id uuid.UUID) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// persist snapshots the room's game. Persistence failures are logged and
// swallowed so a broken disk never blocks play.
func (m *RoomManager) persist(room *Room) {
	if m.store == nil || room.session == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := m.store.SaveGame(ctx, room.session); err != nil {
		m.logger.Warn("Failed to persist game", "game", room.session.ID, "error", err)
	}
}

func (m *RoomManager) resetIdle(room *Room) {
	if m.monitor == nil || room.session == nil {
		return
	}
	seat, phase := room.session.CurrentActor()
	if phase == game.PhaseNone {
		m.monitor.Stop(room.ID)
		return
	}
	m.monitor.Reset(room.ID, room.session.ID, seat)
}

func (m *RoomManager) stopIdle(room *Room) {
	if m.monitor != nil {
		m.monitor.Stop(room.ID)
	}
}
