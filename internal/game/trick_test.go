package game

import (
	"errors"
	"testing"

	"github.com/nigels-app/nigels/internal/deck"
)

func betAll(t *testing.T, s *Session, h *Hand, bets map[int]int) {
	t.Helper()
	for i := 0; i < s.Seats; i++ {
		seat, _ := s.Actor(h)
		if _, err := s.PlaceBet(h.ID, seat, bets[seat]); err != nil {
			t.Fatalf("seat %d bet: %v", seat, err)
		}
	}
}

func TestPlayBeforeBettingComplete(t *testing.T) {
	s := newTestSession(t, 2)
	h := addTestHand(s, TrumpDiamonds, 1, map[int][]deck.Card{
		1: {deck.NewCard(deck.Two, deck.Hearts)},
		2: {deck.NewCard(deck.Three, deck.Hearts)},
	})
	if _, err := s.PlayCard(h.ID, 1, deck.NewCard(deck.Two, deck.Hearts)); !errors.Is(err, ErrBettingIncomplete) {
		t.Fatalf("play before bets: err = %v, want ErrBettingIncomplete", err)
	}
}

func TestPlayOutOfTurnAndNotHeld(t *testing.T) {
	s := newTestSession(t, 2)
	h := addTestHand(s, TrumpDiamonds, 1, map[int][]deck.Card{
		1: {deck.NewCard(deck.Two, deck.Hearts), deck.NewCard(deck.Four, deck.Clubs)},
		2: {deck.NewCard(deck.Three, deck.Hearts), deck.NewCard(deck.Five, deck.Clubs)},
	})
	betAll(t, s, h, map[int]int{1: 0, 2: 1})

	if _, err := s.PlayCard(h.ID, 2, deck.NewCard(deck.Three, deck.Hearts)); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("out of turn: err = %v, want ErrNotYourTurn", err)
	}
	if _, err := s.PlayCard(h.ID, 1, deck.NewCard(deck.Ace, deck.Spades)); !errors.Is(err, ErrCardNotHeld) {
		t.Fatalf("unheld card: err = %v, want ErrCardNotHeld", err)
	}
}

func TestRejectedPlayLeavesStateUntouched(t *testing.T) {
	s := newTestSession(t, 2)
	h := addTestHand(s, TrumpSpades, 1, map[int][]deck.Card{
		1: {deck.NewCard(deck.Ace, deck.Hearts), deck.NewCard(deck.Two, deck.Hearts)},
		2: {deck.NewCard(deck.King, deck.Hearts), deck.NewCard(deck.Three, deck.Clubs)},
	})
	betAll(t, s, h, map[int]int{1: 0, 2: 0})

	if _, err := s.PlayCard(h.ID, 1, deck.NewCard(deck.Ace, deck.Hearts)); err != nil {
		t.Fatal(err)
	}

	// Seat 2 holds a heart, so the club is rejected and nothing moves.
	if _, err := s.PlayCard(h.ID, 2, deck.NewCard(deck.Three, deck.Clubs)); !errors.Is(err, ErrMustFollowSuitOrTrump) {
		t.Fatalf("off-suit play: err = %v, want ErrMustFollowSuitOrTrump", err)
	}
	if got := len(h.Tricks[0].Plays); got != 1 {
		t.Fatalf("trick has %d plays after rejection, want 1", got)
	}
	if actor, _ := s.Actor(h); actor != 2 {
		t.Fatalf("actor = %d after rejection, want 2", actor)
	}
}

func TestReplayedPlayRejected(t *testing.T) {
	s := newTestSession(t, 2)
	h := addTestHand(s, NoTrump, 1, map[int][]deck.Card{
		1: {deck.NewCard(deck.Ace, deck.Hearts), deck.NewCard(deck.Two, deck.Hearts)},
		2: {deck.NewCard(deck.King, deck.Hearts), deck.NewCard(deck.Queen, deck.Hearts)},
	})
	betAll(t, s, h, map[int]int{1: 0, 2: 1})

	card := deck.NewCard(deck.Ace, deck.Hearts)
	if _, err := s.PlayCard(h.ID, 1, card); err != nil {
		t.Fatal(err)
	}

	// A duplicate delivery of the same play must not land twice.
	if _, err := s.PlayCard(h.ID, 1, card); err == nil {
		t.Fatal("replayed card accepted")
	}
	if got := len(h.Tricks[0].Plays); got != 1 {
		t.Fatalf("trick has %d plays after replay, want 1", got)
	}
}

func TestLastCardExemptFromLegality(t *testing.T) {
	s := newTestSession(t, 2)
	h := addTestHand(s, TrumpSpades, 1, map[int][]deck.Card{
		1: {deck.NewCard(deck.Ace, deck.Hearts), deck.NewCard(deck.Two, deck.Hearts)},
		2: {deck.NewCard(deck.King, deck.Hearts), deck.NewCard(deck.Three, deck.Clubs)},
	})
	betAll(t, s, h, map[int]int{1: 2, 2: 1})

	// Trick one: both follow hearts.
	if _, err := s.PlayCard(h.ID, 1, deck.NewCard(deck.Two, deck.Hearts)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PlayCard(h.ID, 2, deck.NewCard(deck.King, deck.Hearts)); err != nil {
		t.Fatal(err)
	}

	// Seat 2 leads its last trick; seat 1's final heart and seat 2's final
	// club both go down without legality checks on a one-card holding.
	if _, err := s.PlayCard(h.ID, 2, deck.NewCard(deck.Three, deck.Clubs)); err != nil {
		t.Fatal(err)
	}
	res, err := s.PlayCard(h.ID, 1, deck.NewCard(deck.Ace, deck.Hearts))
	if err != nil {
		t.Fatalf("last card rejected: %v", err)
	}
	if !res.HandClosed {
		t.Fatal("hand not closed after final trick")
	}
}

func TestHandCloseScoring(t *testing.T) {
	s := newTestSession(t, 2)
	h := addTestHand(s, NoTrump, 1, map[int][]deck.Card{
		1: {deck.NewCard(deck.Ace, deck.Hearts), deck.NewCard(deck.Queen, deck.Clubs)},
		2: {deck.NewCard(deck.King, deck.Hearts), deck.NewCard(deck.Two, deck.Clubs)},
	})
	// Seat 1 bets both tricks, seat 2 bets one.
	betAll(t, s, h, map[int]int{1: 2, 2: 1})

	if _, err := s.PlayCard(h.ID, 1, deck.NewCard(deck.Ace, deck.Hearts)); err != nil {
		t.Fatal(err)
	}
	res, err := s.PlayCard(h.ID, 2, deck.NewCard(deck.King, deck.Hearts))
	if err != nil {
		t.Fatal(err)
	}
	if res.TrickWinner != 1 {
		t.Fatalf("trick winner = %d, want 1", res.TrickWinner)
	}
	if _, err := s.PlayCard(h.ID, 1, deck.NewCard(deck.Queen, deck.Clubs)); err != nil {
		t.Fatal(err)
	}
	res, err = s.PlayCard(h.ID, 2, deck.NewCard(deck.Two, deck.Clubs))
	if err != nil {
		t.Fatal(err)
	}
	if !res.HandClosed {
		t.Fatal("hand not closed")
	}

	// Seat 1 took both tricks and matched its bet: 2 + 10. Seat 2 took
	// nothing against a bet of one: 0.
	if r := h.Results[1]; r.TricksWon != 2 || r.Bonus != 1 || r.Score != 12 {
		t.Errorf("seat 1 result = %+v, want 2 tricks, bonus, score 12", r)
	}
	if r := h.Results[2]; r.TricksWon != 0 || r.Bonus != 0 || r.Score != 0 {
		t.Errorf("seat 2 result = %+v, want 0 tricks, no bonus, score 0", r)
	}

	if _, err := s.PlayCard(h.ID, 1, deck.NewCard(deck.Ace, deck.Hearts)); !errors.Is(err, ErrHandClosed) {
		t.Errorf("play into closed hand: err = %v, want ErrHandClosed", err)
	}
}

func TestMissedBetScoresTricksOnly(t *testing.T) {
	s := newTestSession(t, 2)
	h := addTestHand(s, NoTrump, 1, map[int][]deck.Card{
		1: {deck.NewCard(deck.Ace, deck.Hearts)},
		2: {deck.NewCard(deck.King, deck.Hearts)},
	})
	betAll(t, s, h, map[int]int{1: 1, 2: 1})

	if _, err := s.PlayCard(h.ID, 1, deck.NewCard(deck.Ace, deck.Hearts)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PlayCard(h.ID, 2, deck.NewCard(deck.King, deck.Hearts)); err != nil {
		t.Fatal(err)
	}

	// Seat 1 matched its bet of one for 1+10; seat 2 missed and scores its
	// zero tricks with no bonus.
	if r := h.Results[1]; r.Score != 11 {
		t.Errorf("seat 1 score = %d, want 11", r.Score)
	}
	if r := h.Results[2]; r.Score != 0 {
		t.Errorf("seat 2 score = %d, want 0", r.Score)
	}
}
