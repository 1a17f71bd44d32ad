package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/google/uuid"

	"github.com/nigels-app/nigels/internal/deck"
)

// DealtHand describes a freshly dealt hand: its configuration plus the cards
// each seat received. The caller persists it and sends each seat its own
// cards privately.
type DealtHand struct {
	HandID       uuid.UUID
	Serial       int
	Trump        Trump
	CardsPerSeat int
	StartingSeat int
	Dealt        map[int][]deck.Card
}

// DealHand derives the next hand's configuration, shuffles a fresh deck and
// distributes cards round-robin starting at the hand's starting seat.
//
// Fails with ErrSequence if the session is not in progress, a hand is still
// open, or the game has already run its full count of hands. Fails with
// ErrConfiguration if the derived deal cannot be served from one deck.
func (s *Session) DealHand(rng *rand.Rand) (*DealtHand, error) {
	if s.Status != StatusInProgress {
		return nil, fmt.Errorf("%w: game %s is %s, not in progress", ErrSequence, s.ID, s.Status)
	}
	if open := s.OpenHand(); open != nil {
		return nil, fmt.Errorf("%w: hand %d of game %s is still open", ErrSequence, open.Serial, s.ID)
	}
	if AllHandsPlayed(s.Seats, s.closedHands()) {
		return nil, fmt.Errorf("%w: all %d hands of game %s are played", ErrSequence, HandsInGame(s.Seats), s.ID)
	}

	cfg := nextHandConfig(s.Seats, s.Hands)
	dealt, err := deal(rng, s.Seats, cfg.CardsPerSeat, cfg.StartingSeat)
	if err != nil {
		return nil, err
	}

	h := &Hand{
		ID:           uuid.New(),
		Serial:       cfg.Serial,
		Trump:        cfg.Trump,
		CardsPerSeat: cfg.CardsPerSeat,
		StartingSeat: cfg.StartingSeat,
		State:        HandBetting,
		Dealt:        dealt,
		Bets:         make(map[int]int, s.Seats),
		Results:      make(map[int]HandResult, s.Seats),
	}
	s.Hands = append(s.Hands, h)

	return &DealtHand{
		HandID:       h.ID,
		Serial:       h.Serial,
		Trump:        h.Trump,
		CardsPerSeat: h.CardsPerSeat,
		StartingSeat: h.StartingSeat,
		Dealt:        dealt,
	}, nil
}

// deal shuffles a full deck and hands out cardsPerSeat cards to each of n
// seats, one at a time around the ring beginning at startingSeat.
func deal(rng *rand.Rand, n, cardsPerSeat, startingSeat int) (map[int][]deck.Card, error) {
	if cardsPerSeat < 1 || cardsPerSeat > 10 || cardsPerSeat*n > deck.Size {
		return nil, fmt.Errorf("%w: cannot deal %d cards to %d seats from one deck", ErrConfiguration, cardsPerSeat, n)
	}

	d := deck.New(rng)
	d.Shuffle()

	dealt := make(map[int][]deck.Card, n)
	for i := 0; i < cardsPerSeat*n; i++ {
		seat := wrapSeat(n, startingSeat-1+i)
		card, _ := d.Deal()
		dealt[seat] = append(dealt[seat], card)
	}
	return dealt, nil
}
