package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nigels-app/nigels/internal/deck"
)

// PlayResult describes the state change caused by one accepted card play.
// The zero TrickWinner/NextActor mean "none"; Results and final scores are
// only populated at the transitions that produce them.
type PlayResult struct {
	Seat         int
	Card         deck.Card
	TrickSerial  int
	CardsOnTable []Play

	// TrickWinner is set once this play completed the trick.
	TrickWinner int

	// HandClosed is true when this play closed the hand; Results then holds
	// the per-seat hand outcome.
	HandClosed bool
	Results    []HandResult

	// GameFinished is true when the closed hand was the game's last;
	// WinnerSeat and Scores are then final.
	GameFinished bool
	WinnerSeat   int
	Scores       *ScoreTable

	NextActor int
}

// PlayCard validates and records one card played by a seat into the open
// hand's current trick. It applies every trick-legality rule, resolves the
// trick winner when the table fills, closes the hand after the last trick,
// and finishes the game after the last hand. On any rejection the state is
// left exactly as it was.
func (s *Session) PlayCard(handID uuid.UUID, seat int, card deck.Card) (*PlayResult, error) {
	h, err := s.HandByID(handID)
	if err != nil {
		return nil, err
	}
	if h.State == HandClosed {
		return nil, fmt.Errorf("%w: hand %d of game %s", ErrHandClosed, h.Serial, s.ID)
	}
	if h.State == HandBetting {
		return nil, fmt.Errorf("%w: %d of %d bets placed in hand %d",
			ErrBettingIncomplete, len(h.Bets), s.Seats, h.Serial)
	}
	if seat < 1 || seat > s.Seats {
		return nil, fmt.Errorf("%w: seat %d outside 1..%d", ErrConfiguration, seat, s.Seats)
	}
	if actor, _ := s.Actor(h); actor != seat {
		return nil, fmt.Errorf("%w: seat %d played while seat %d is to act", ErrNotYourTurn, seat, actor)
	}
	if !h.Holds(seat, card) {
		return nil, fmt.Errorf("%w: seat %d does not hold %s", ErrCardNotHeld, seat, card)
	}

	trick := h.openTrick(s.Seats)
	if trick != nil && len(trick.Plays) > 0 {
		if holding := h.Holding(seat); len(holding) > 1 {
			if err := legalPlay(trick, holding, card, h.Trump); err != nil {
				return nil, err
			}
		}
	}
	if trick == nil {
		trick = &Trick{Serial: len(h.Tricks) + 1}
		h.Tricks = append(h.Tricks, trick)
	}

	trick.Plays = append(trick.Plays, Play{Seat: seat, Card: card})

	res := &PlayResult{
		Seat:         seat,
		Card:         card,
		TrickSerial:  trick.Serial,
		CardsOnTable: append([]Play(nil), trick.Plays...),
	}

	if len(trick.Plays) == s.Seats {
		trick.Winner = trickWinner(trick, h.Trump)
		res.TrickWinner = trick.Winner

		if h.completedTricks(s.Seats) == h.CardsPerSeat {
			res.HandClosed = true
			res.Results = s.closeHand(h)

			if AllHandsPlayed(s.Seats, s.closedHands()) {
				s.finish()
				res.GameFinished = true
				res.WinnerSeat = s.WinnerSeat
				res.Scores = s.ScoreTable()
			}
		}
	}

	if next, phase := s.Actor(h); phase == PhasePlaying {
		res.NextActor = next
	}
	return res, nil
}
