package game

import (
	"fmt"

	"github.com/google/uuid"
)

// BetResult describes an accepted bet.
type BetResult struct {
	Seat       int
	BetSize    int
	LastBettor bool
	BetsPlaced int
	BetsSum    int
	// NextActor is the seat that acts next: the next bettor, or the hand's
	// starting seat once betting is complete and play begins.
	NextActor int
}

// PlaceBet records a bet for a seat in strict seat order. The last seat to
// bet may not bring the sum of bets to exactly the cards dealt, so at least
// one seat always misses its bet. Once every seat has bet the hand moves to
// the playing state.
func (s *Session) PlaceBet(handID uuid.UUID, seat, betSize int) (*BetResult, error) {
	h, err := s.HandByID(handID)
	if err != nil {
		return nil, err
	}
	if h.State == HandClosed {
		return nil, fmt.Errorf("%w: hand %d of game %s", ErrHandClosed, h.Serial, s.ID)
	}
	if h.State != HandBetting {
		return nil, fmt.Errorf("%w: betting in hand %d is already complete", ErrSequence, h.Serial)
	}
	if seat < 1 || seat > s.Seats {
		return nil, fmt.Errorf("%w: seat %d outside 1..%d", ErrConfiguration, seat, s.Seats)
	}
	if betSize < 0 {
		return nil, fmt.Errorf("%w: bet %d is negative", ErrConfiguration, betSize)
	}
	if _, ok := h.Bets[seat]; ok {
		return nil, fmt.Errorf("%w: seat %d in hand %d", ErrAlreadyBet, seat, h.Serial)
	}
	if actor, _ := s.Actor(h); actor != seat {
		return nil, fmt.Errorf("%w: seat %d bet while seat %d is to act", ErrOutOfTurn, seat, actor)
	}

	sum := 0
	for _, b := range h.Bets {
		sum += b
	}
	last := len(h.Bets) == s.Seats-1
	if last && sum+betSize == h.CardsPerSeat {
		return nil, fmt.Errorf("%w: %d would bring bets to %d with %d cards dealt",
			ErrMustNotBalance, betSize, sum+betSize, h.CardsPerSeat)
	}

	h.Bets[seat] = betSize
	if last {
		h.State = HandPlaying
	}

	next, _ := s.Actor(h)
	return &BetResult{
		Seat:       seat,
		BetSize:    betSize,
		LastBettor: last,
		BetsPlaced: len(h.Bets),
		BetsSum:    sum + betSize,
		NextActor:  next,
	}, nil
}
