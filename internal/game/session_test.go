package game

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/nigels-app/nigels/internal/deck"
	"github.com/nigels-app/nigels/internal/randutil"
)

func TestNewSessionSeatBounds(t *testing.T) {
	for _, seats := range []int{-1, 0, 1, 11} {
		if _, err := NewSession(uuid.New(), seats); !errors.Is(err, ErrConfiguration) {
			t.Errorf("NewSession(%d): err = %v, want ErrConfiguration", seats, err)
		}
	}
	for _, seats := range []int{2, 6, 10} {
		if _, err := NewSession(uuid.New(), seats); err != nil {
			t.Errorf("NewSession(%d): %v", seats, err)
		}
	}
}

// playWholeGame drives a session from the first deal to game over, choosing
// for each turn the first action the engine accepts. It exercises every hand
// size and trump in the sequence and returns the finished session.
func playWholeGame(t *testing.T, seats int, seed int64) *Session {
	t.Helper()
	s := newTestSession(t, seats)
	want := HandsInGame(seats)

	for hand := 0; hand < want; hand++ {
		dealt, err := s.DealHand(randutil.New(seed + int64(hand)))
		if err != nil {
			t.Fatalf("hand %d: deal: %v", hand+1, err)
		}

		for {
			actor, phase := s.CurrentActor()
			if phase == PhaseNone {
				break
			}
			switch phase {
			case PhaseBetting:
				if _, err := s.PlaceBet(dealt.HandID, actor, 0); err != nil {
					if !errors.Is(err, ErrMustNotBalance) {
						t.Fatalf("hand %d: seat %d bet: %v", hand+1, actor, err)
					}
					if _, err := s.PlaceBet(dealt.HandID, actor, 1); err != nil {
						t.Fatalf("hand %d: seat %d fallback bet: %v", hand+1, actor, err)
					}
				}
			case PhasePlaying:
				h, err := s.HandByID(dealt.HandID)
				if err != nil {
					t.Fatal(err)
				}
				played := false
				for _, c := range h.Holding(actor) {
					if _, err := s.PlayCard(dealt.HandID, actor, c); err == nil {
						played = true
						break
					} else if !errors.Is(err, ErrMustFollowSuitOrTrump) {
						t.Fatalf("hand %d: seat %d playing %s: %v", hand+1, actor, c, err)
					}
				}
				if !played {
					t.Fatalf("hand %d: seat %d has no accepted play", hand+1, actor)
				}
			}
		}

		h, err := s.HandByID(dealt.HandID)
		if err != nil {
			t.Fatal(err)
		}
		if h.State != HandClosed {
			t.Fatalf("hand %d not closed after all plays", hand+1)
		}
	}
	return s
}

func TestWholeGameLifecycle(t *testing.T) {
	for _, seats := range []int{2, 3, 6} {
		s := playWholeGame(t, seats, int64(seats)*101)

		if s.Status != StatusFinished {
			t.Fatalf("%d seats: status = %v, want StatusFinished", seats, s.Status)
		}
		if got, want := len(s.Hands), HandsInGame(seats); got != want {
			t.Fatalf("%d seats: played %d hands, want %d", seats, got, want)
		}
		if s.WinnerSeat < 1 || s.WinnerSeat > seats {
			t.Fatalf("%d seats: winner seat %d out of range", seats, s.WinnerSeat)
		}

		// The winner carries the highest total and wins ties by seat order.
		table := s.ScoreTable()
		best := table.Totals[s.WinnerSeat]
		for seat := 1; seat <= seats; seat++ {
			if table.Totals[seat] > best {
				t.Errorf("%d seats: seat %d total %d beats winner's %d",
					seats, seat, table.Totals[seat], best)
			}
			if table.Totals[seat] == best && seat < s.WinnerSeat {
				t.Errorf("%d seats: tie at %d not broken by lower seat %d", seats, best, seat)
			}
		}
		if len(table.Hands) != len(s.Hands) {
			t.Errorf("%d seats: score table has %d hands, want %d",
				seats, len(table.Hands), len(s.Hands))
		}

		// Every deal's tricks account for every dealt card exactly once.
		for _, h := range s.Hands {
			plays := 0
			for _, trick := range h.Tricks {
				plays += len(trick.Plays)
			}
			if plays != h.CardsPerSeat*seats {
				t.Errorf("%d seats: hand %d recorded %d plays, want %d",
					seats, h.Serial, plays, h.CardsPerSeat*seats)
			}
		}

		if _, err := s.DealHand(randutil.New(1)); err == nil {
			t.Errorf("%d seats: deal accepted on finished game", seats)
		}
	}
}

func TestHandStatusSnapshot(t *testing.T) {
	s := newTestSession(t, 3)
	h := addTestHand(s, TrumpHearts, 2, map[int][]deck.Card{
		1: {deck.NewCard(deck.Two, deck.Clubs), deck.NewCard(deck.Three, deck.Clubs)},
		2: {deck.NewCard(deck.Four, deck.Clubs), deck.NewCard(deck.Five, deck.Clubs)},
		3: {deck.NewCard(deck.Six, deck.Clubs), deck.NewCard(deck.Seven, deck.Clubs)},
	})

	v, err := s.HandStatus(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if v.CurrentActor != 2 || v.Phase != PhaseBetting {
		t.Errorf("fresh hand actor = (%d, %v), want (2, PhaseBetting)", v.CurrentActor, v.Phase)
	}
	for _, b := range v.Bets {
		if b.Placed {
			t.Errorf("seat %d marked as bet on a fresh hand", b.Seat)
		}
	}

	betAll(t, s, h, map[int]int{1: 0, 2: 0, 3: 1})
	if _, err := s.PlayCard(h.ID, 2, deck.NewCard(deck.Four, deck.Clubs)); err != nil {
		t.Fatal(err)
	}

	v, err = s.HandStatus(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if v.TrickSerial != 1 || len(v.CardsOnTable) != 1 {
		t.Errorf("trick view = (%d, %d cards), want (1, 1 card)", v.TrickSerial, len(v.CardsOnTable))
	}
	if v.CurrentActor != 3 || v.Phase != PhasePlaying {
		t.Errorf("actor = (%d, %v), want (3, PhasePlaying)", v.CurrentActor, v.Phase)
	}

	if _, err := s.HandStatus(uuid.New()); err == nil {
		t.Error("status for unknown hand id accepted")
	}
}
