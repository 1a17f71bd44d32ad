package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nigels-app/nigels/internal/deck"
)

// Limits on the number of seats in one game. Ten seats is the most the deck
// supports at the full ten-card opening hand.
const (
	MinSeats = 2
	MaxSeats = 10
)

// Status is the lifecycle state of a Session.
type Status int

const (
	StatusForming Status = iota
	StatusInProgress
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusForming:
		return "forming"
	case StatusInProgress:
		return "in_progress"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// HandState is the lifecycle state of a Hand.
type HandState int

const (
	HandBetting HandState = iota
	HandPlaying
	HandClosed
)

func (h HandState) String() string {
	switch h {
	case HandBetting:
		return "betting"
	case HandPlaying:
		return "playing"
	case HandClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Phase tells which kind of action the current actor owes.
type Phase int

const (
	PhaseNone Phase = iota // no open hand, or game finished
	PhaseBetting
	PhasePlaying
)

// Play is one card put on the table by one seat within a trick.
type Play struct {
	Seat int
	Card deck.Card
}

// Trick is one round within a hand where every seat plays exactly one card.
// Winner stays 0 until all seats have played.
type Trick struct {
	Serial int
	Plays  []Play
	Winner int
}

// LeadSuit returns the suit of the first card played into the trick.
func (t *Trick) LeadSuit() deck.Suit {
	return t.Plays[0].Card.Suit
}

// played reports whether the given seat already has a card in this trick.
func (t *Trick) played(seat int) bool {
	for _, p := range t.Plays {
		if p.Seat == seat {
			return true
		}
	}
	return false
}

// HandResult is the final per-seat outcome of one hand. Written once when the
// hand closes, never mutated.
type HandResult struct {
	Seat      int
	BetSize   int
	TricksWon int
	Bonus     int // 1 when TricksWon == BetSize
	Score     int
}

// Hand is one deal of cards with a fixed trump and cards-per-seat.
type Hand struct {
	ID           uuid.UUID
	Serial       int
	Trump        Trump
	CardsPerSeat int
	StartingSeat int
	State        HandState

	// Dealt holds each seat's initial cards, immutable once dealt.
	Dealt map[int][]deck.Card

	// Bets maps seat to bet size. A seat bets exactly once.
	Bets map[int]int

	Tricks  []*Trick
	Results map[int]HandResult
}

// Holding returns the seat's current cards: dealt minus already played.
func (h *Hand) Holding(seat int) []deck.Card {
	held := make([]deck.Card, 0, len(h.Dealt[seat]))
	for _, c := range h.Dealt[seat] {
		if !h.cardPlayed(seat, c) {
			held = append(held, c)
		}
	}
	return held
}

// Holds reports whether the seat currently holds the card.
func (h *Hand) Holds(seat int, card deck.Card) bool {
	for _, c := range h.Holding(seat) {
		if c == card {
			return true
		}
	}
	return false
}

func (h *Hand) cardPlayed(seat int, card deck.Card) bool {
	for _, t := range h.Tricks {
		for _, p := range t.Plays {
			if p.Seat == seat && p.Card == card {
				return true
			}
		}
	}
	return false
}

// completedTricks counts tricks in which every seat has played.
func (h *Hand) completedTricks(seats int) int {
	n := 0
	for _, t := range h.Tricks {
		if len(t.Plays) == seats {
			n++
		}
	}
	return n
}

// openTrick returns the in-progress trick, or nil if the next play would
// start a new one.
func (h *Hand) openTrick(seats int) *Trick {
	if len(h.Tricks) == 0 {
		return nil
	}
	last := h.Tricks[len(h.Tricks)-1]
	if len(last.Plays) < seats {
		return last
	}
	return nil
}

// Session is the full state of one game: the ordered seats 1..Seats and the
// hands dealt so far. All mutating methods must be serialised by the caller.
type Session struct {
	ID         uuid.UUID
	Seats      int
	Status     Status
	WinnerSeat int // set only when Status is StatusFinished
	Hands      []*Hand
}

// NewSession creates a game with the given number of seats. The session
// starts in StatusForming; call Activate once the room layer has assigned
// seats to players.
func NewSession(id uuid.UUID, seats int) (*Session, error) {
	if seats < MinSeats || seats > MaxSeats {
		return nil, fmt.Errorf("%w: %d seats, want %d..%d", ErrConfiguration, seats, MinSeats, MaxSeats)
	}
	return &Session{
		ID:     id,
		Seats:  seats,
		Status: StatusForming,
	}, nil
}

// Activate marks the session ready for dealing. It is an error to activate a
// finished session; activating twice is harmless.
func (s *Session) Activate() error {
	if s.Status == StatusFinished {
		return fmt.Errorf("%w: session %s is finished", ErrSequence, s.ID)
	}
	s.Status = StatusInProgress
	return nil
}

// OpenHand returns the current non-closed hand, or nil. The sequencer
// guarantees at most one hand is open at a time.
func (s *Session) OpenHand() *Hand {
	if len(s.Hands) == 0 {
		return nil
	}
	last := s.Hands[len(s.Hands)-1]
	if last.State != HandClosed {
		return last
	}
	return nil
}

// HandByID finds a hand of this session by id.
func (s *Session) HandByID(id uuid.UUID) (*Hand, error) {
	for _, h := range s.Hands {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: hand %s not found in game %s", ErrSequence, id, s.ID)
}

// closedHands counts hands that have fully completed.
func (s *Session) closedHands() int {
	n := 0
	for _, h := range s.Hands {
		if h.State == HandClosed {
			n++
		}
	}
	return n
}

// wrapSeat maps a 0-based position offset onto the 1..n seat ring.
func wrapSeat(n, pos int) int {
	return (pos%n+n)%n + 1
}
