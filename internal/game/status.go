package game

import (
	"github.com/google/uuid"
)

// SeatBet is one seat's bet as exposed by status queries. Placed is false
// while the seat has not bet yet.
type SeatBet struct {
	Seat    int
	Placed  bool
	BetSize int
}

// HandStatusView is a read-only snapshot of one hand for status queries. It
// is safe to serve concurrently with other reads.
type HandStatusView struct {
	HandID       uuid.UUID
	Serial       int
	Trump        Trump
	CardsPerSeat int
	StartingSeat int
	State        HandState

	CurrentActor int
	Phase        Phase
	Bets         []SeatBet
	TrickSerial  int
	CardsOnTable []Play
	TricksWon    map[int]int
}

// HandStatus reports the live state of a hand: whose turn it is, the bets
// made so far, and the cards on the table in the current trick.
func (s *Session) HandStatus(handID uuid.UUID) (*HandStatusView, error) {
	h, err := s.HandByID(handID)
	if err != nil {
		return nil, err
	}

	actor, phase := s.Actor(h)
	v := &HandStatusView{
		HandID:       h.ID,
		Serial:       h.Serial,
		Trump:        h.Trump,
		CardsPerSeat: h.CardsPerSeat,
		StartingSeat: h.StartingSeat,
		State:        h.State,
		CurrentActor: actor,
		Phase:        phase,
		TricksWon:    make(map[int]int, s.Seats),
	}

	for seat := 1; seat <= s.Seats; seat++ {
		b, ok := h.Bets[seat]
		v.Bets = append(v.Bets, SeatBet{Seat: seat, Placed: ok, BetSize: b})
	}
	for _, t := range h.Tricks {
		if t.Winner != 0 {
			v.TricksWon[t.Winner]++
		}
	}
	if open := h.openTrick(s.Seats); open != nil {
		v.TrickSerial = open.Serial
		v.CardsOnTable = append([]Play(nil), open.Plays...)
	} else if n := len(h.Tricks); n > 0 {
		v.TrickSerial = n
		v.CardsOnTable = append([]Play(nil), h.Tricks[n-1].Plays...)
	}
	return v, nil
}
