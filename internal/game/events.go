package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/nigels-app/nigels/internal/deck"
)

// EventType identifies a game domain event.
type EventType string

const (
	EventTypeSeatsAssigned EventType = "seats_assigned"
	EventTypeHandDealt     EventType = "hand_dealt"
	EventTypeBetPlaced     EventType = "bet_placed"
	EventTypeCardPlayed    EventType = "card_played"
	EventTypeTrickWon      EventType = "trick_won"
	EventTypeHandClosed    EventType = "hand_closed"
	EventTypeGameFinished  EventType = "game_finished"
	EventTypePlayerIdle    EventType = "player_idle"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event represents any event that occurs during a game.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// SeatsAssignedEvent is published after the one-time random seat shuffle.
type SeatsAssignedEvent struct {
	GameID    uuid.UUID
	Seats     map[int]string // seat → player id
	timestamp time.Time
}

func (e SeatsAssignedEvent) EventType() EventType { return EventTypeSeatsAssigned }
func (e SeatsAssignedEvent) Timestamp() time.Time { return e.timestamp }

// NewSeatsAssignedEvent creates a new seats assigned event.
func NewSeatsAssignedEvent(gameID uuid.UUID, seats map[int]string) SeatsAssignedEvent {
	return SeatsAssignedEvent{GameID: gameID, Seats: seats, timestamp: time.Now()}
}

// HandDealtEvent is published when a new hand is dealt. It carries no cards;
// each seat's cards are sent privately by the room layer.
type HandDealtEvent struct {
	GameID       uuid.UUID
	HandID       uuid.UUID
	Serial       int
	Trump        Trump
	CardsPerSeat int
	StartingSeat int
	timestamp    time.Time
}

func (e HandDealtEvent) EventType() EventType { return EventTypeHandDealt }
func (e HandDealtEvent) Timestamp() time.Time { return e.timestamp }

// NewHandDealtEvent creates a new hand dealt event from a deal result.
func NewHandDealtEvent(gameID uuid.UUID, d *DealtHand) HandDealtEvent {
	return HandDealtEvent{
		GameID:       gameID,
		HandID:       d.HandID,
		Serial:       d.Serial,
		Trump:        d.Trump,
		CardsPerSeat: d.CardsPerSeat,
		StartingSeat: d.StartingSeat,
		timestamp:    time.Now(),
	}
}

// BetPlacedEvent is published when a seat's bet is accepted.
type BetPlacedEvent struct {
	GameID     uuid.UUID
	HandID     uuid.UUID
	Seat       int
	BetSize    int
	LastBettor bool
	NextActor  int
	timestamp  time.Time
}

func (e BetPlacedEvent) EventType() EventType { return EventTypeBetPlaced }
func (e BetPlacedEvent) Timestamp() time.Time { return e.timestamp }

// NewBetPlacedEvent creates a new bet placed event from a bet result.
func NewBetPlacedEvent(gameID, handID uuid.UUID, r *BetResult) BetPlacedEvent {
	return BetPlacedEvent{
		GameID:     gameID,
		HandID:     handID,
		Seat:       r.Seat,
		BetSize:    r.BetSize,
		LastBettor: r.LastBettor,
		NextActor:  r.NextActor,
		timestamp:  time.Now(),
	}
}

// CardPlayedEvent is published for every accepted card play.
type CardPlayedEvent struct {
	GameID       uuid.UUID
	HandID       uuid.UUID
	Seat         int
	Card         deck.Card
	TrickSerial  int
	CardsOnTable []Play
	NextActor    int
	timestamp    time.Time
}

func (e CardPlayedEvent) EventType() EventType { return EventTypeCardPlayed }
func (e CardPlayedEvent) Timestamp() time.Time { return e.timestamp }

// NewCardPlayedEvent creates a new card played event from a play result.
func NewCardPlayedEvent(gameID, handID uuid.UUID, r *PlayResult) CardPlayedEvent {
	return CardPlayedEvent{
		GameID:       gameID,
		HandID:       handID,
		Seat:         r.Seat,
		Card:         r.Card,
		TrickSerial:  r.TrickSerial,
		CardsOnTable: r.CardsOnTable,
		NextActor:    r.NextActor,
		timestamp:    time.Now(),
	}
}

// TrickWonEvent is published when a play completes a trick.
type TrickWonEvent struct {
	GameID      uuid.UUID
	HandID      uuid.UUID
	TrickSerial int
	Winner      int
	timestamp   time.Time
}

func (e TrickWonEvent) EventType() EventType { return EventTypeTrickWon }
func (e TrickWonEvent) Timestamp() time.Time { return e.timestamp }

// NewTrickWonEvent creates a new trick won event.
func NewTrickWonEvent(gameID, handID uuid.UUID, serial, winner int) TrickWonEvent {
	return TrickWonEvent{GameID: gameID, HandID: handID, TrickSerial: serial, Winner: winner, timestamp: time.Now()}
}

// HandClosedEvent is published when the last trick of a hand resolves.
type HandClosedEvent struct {
	GameID    uuid.UUID
	HandID    uuid.UUID
	Serial    int
	Results   []HandResult
	timestamp time.Time
}

func (e HandClosedEvent) EventType() EventType { return EventTypeHandClosed }
func (e HandClosedEvent) Timestamp() time.Time { return e.timestamp }

// NewHandClosedEvent creates a new hand closed event.
func NewHandClosedEvent(gameID, handID uuid.UUID, serial int, results []HandResult) HandClosedEvent {
	return HandClosedEvent{GameID: gameID, HandID: handID, Serial: serial, Results: results, timestamp: time.Now()}
}

// GameFinishedEvent is published when the game's last hand closes.
type GameFinishedEvent struct {
	GameID     uuid.UUID
	WinnerSeat int
	Scores     *ScoreTable
	timestamp  time.Time
}

func (e GameFinishedEvent) EventType() EventType { return EventTypeGameFinished }
func (e GameFinishedEvent) Timestamp() time.Time { return e.timestamp }

// NewGameFinishedEvent creates a new game finished event.
func NewGameFinishedEvent(gameID uuid.UUID, winnerSeat int, scores *ScoreTable) GameFinishedEvent {
	return GameFinishedEvent{GameID: gameID, WinnerSeat: winnerSeat, Scores: scores, timestamp: time.Now()}
}

// PlayerIdleEvent is published by the room layer when the current actor has
// been idle past the configured turn timeout. The engine itself has no
// timeout concept.
type PlayerIdleEvent struct {
	GameID    uuid.UUID
	Seat      int
	Idle      time.Duration
	timestamp time.Time
}

func (e PlayerIdleEvent) EventType() EventType { return EventTypePlayerIdle }
func (e PlayerIdleEvent) Timestamp() time.Time { return e.timestamp }

// NewPlayerIdleEvent creates a new player idle event.
func NewPlayerIdleEvent(gameID uuid.UUID, seat int, idle time.Duration) PlayerIdleEvent {
	return PlayerIdleEvent{GameID: gameID, Seat: seat, Idle: idle, timestamp: time.Now()}
}

// EventSubscriber can subscribe to game events.
type EventSubscriber interface {
	OnEvent(event Event)
}

// EventBus manages event publishing and subscription.
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event Event)
}

// SimpleEventBus is a basic in-memory event bus implementation.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus.
func NewEventBus() EventBus {
	return &SimpleEventBus{subscribers: make([]EventSubscriber, 0)}
}

// Subscribe adds a subscriber to receive events.
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers.
func (bus *SimpleEventBus) Publish(event Event) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
