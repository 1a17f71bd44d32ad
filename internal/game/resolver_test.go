package game

import (
	"testing"

	"github.com/nigels-app/nigels/internal/deck"
)

func TestActorDuringBetting(t *testing.T) {
	s := newTestSession(t, 4)
	h := addTestHand(s, TrumpDiamonds, 3, map[int][]deck.Card{
		1: {deck.NewCard(deck.Two, deck.Hearts)},
		2: {deck.NewCard(deck.Three, deck.Hearts)},
		3: {deck.NewCard(deck.Four, deck.Hearts)},
		4: {deck.NewCard(deck.Five, deck.Hearts)},
	})

	want := []int{3, 4, 1, 2}
	for i, seat := range want {
		actor, phase := s.Actor(h)
		if actor != seat || phase != PhaseBetting {
			t.Fatalf("bet %d: actor = (%d, %v), want (%d, PhaseBetting)", i, actor, phase, seat)
		}
		if _, err := s.PlaceBet(h.ID, seat, 0); err != nil {
			t.Fatalf("bet %d: %v", i, err)
		}
	}
	if h.State != HandPlaying {
		t.Fatalf("hand state = %v after all bets, want HandPlaying", h.State)
	}
	if actor, phase := s.Actor(h); actor != 3 || phase != PhasePlaying {
		t.Fatalf("first player = (%d, %v), want (3, PhasePlaying)", actor, phase)
	}
}

func TestActorRecomputedFromLog(t *testing.T) {
	s := newTestSession(t, 3)
	h := addTestHand(s, NoTrump, 2, map[int][]deck.Card{
		1: {deck.NewCard(deck.Ace, deck.Hearts), deck.NewCard(deck.Two, deck.Clubs)},
		2: {deck.NewCard(deck.King, deck.Hearts), deck.NewCard(deck.Three, deck.Clubs)},
		3: {deck.NewCard(deck.Queen, deck.Hearts), deck.NewCard(deck.Four, deck.Clubs)},
	})
	for _, seat := range []int{2, 3, 1} {
		if _, err := s.PlaceBet(h.ID, seat, 0); err != nil {
			t.Fatal(err)
		}
	}

	// Trick one, led by the starting seat.
	plays := []struct {
		seat int
		card deck.Card
	}{
		{2, deck.NewCard(deck.King, deck.Hearts)},
		{3, deck.NewCard(deck.Queen, deck.Hearts)},
		{1, deck.NewCard(deck.Ace, deck.Hearts)},
	}
	for _, p := range plays {
		actor, _ := s.Actor(h)
		if actor != p.seat {
			t.Fatalf("actor = %d before seat %d plays", actor, p.seat)
		}
		if _, err := s.PlayCard(h.ID, p.seat, p.card); err != nil {
			t.Fatal(err)
		}
	}

	// Seat 1 took the trick with the ace and leads the next one, regardless
	// of the hand's starting seat.
	if actor, phase := s.Actor(h); actor != 1 || phase != PhasePlaying {
		t.Fatalf("lead after trick = (%d, %v), want (1, PhasePlaying)", actor, phase)
	}

	// Rebuilding a session from the same record names the same actor.
	replay := &Session{ID: s.ID, Seats: s.Seats, Status: s.Status, Hands: s.Hands}
	a1, p1 := s.CurrentActor()
	a2, p2 := replay.CurrentActor()
	if a1 != a2 || p1 != p2 {
		t.Fatalf("replayed actor = (%d, %v), live = (%d, %v)", a2, p2, a1, p1)
	}
}

func TestCurrentActorIdle(t *testing.T) {
	s := newTestSession(t, 2)
	if actor, phase := s.CurrentActor(); actor != 0 || phase != PhaseNone {
		t.Fatalf("actor with no open hand = (%d, %v), want (0, PhaseNone)", actor, phase)
	}
}
