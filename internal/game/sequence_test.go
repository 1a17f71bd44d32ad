package game

import (
	"testing"

	"github.com/google/uuid"

	"github.com/nigels-app/nigels/internal/randutil"
)

func TestFirstHandConfig(t *testing.T) {
	tests := []struct {
		seats     int
		wantCards int
	}{
		{2, 10},
		{3, 10},
		{5, 10},
		{6, 8},
		{7, 7},
		{8, 6},
		{9, 5},
		{10, 5},
	}

	for _, tt := range tests {
		cfg := nextHandConfig(tt.seats, nil)
		if cfg.Serial != 1 {
			t.Errorf("seats=%d: serial = %d, want 1", tt.seats, cfg.Serial)
		}
		if cfg.Trump != TrumpDiamonds {
			t.Errorf("seats=%d: trump = %s, want ♦", tt.seats, cfg.Trump)
		}
		if cfg.CardsPerSeat != tt.wantCards {
			t.Errorf("seats=%d: cardsPerSeat = %d, want %d", tt.seats, cfg.CardsPerSeat, tt.wantCards)
		}
		if cfg.StartingSeat != 1 {
			t.Errorf("seats=%d: startingSeat = %d, want 1", tt.seats, cfg.StartingSeat)
		}
	}
}

func TestHandsInGameTable(t *testing.T) {
	tests := []struct {
		seats int
		want  int
	}{
		{10, 10},
		{9, 10},
		{8, 12},
		{7, 14},
		{6, 16},
		{5, 20},
		{4, 20},
		{3, 20},
		{2, 20},
	}

	for _, tt := range tests {
		if got := HandsInGame(tt.seats); got != tt.want {
			t.Errorf("HandsInGame(%d) = %d, want %d", tt.seats, got, tt.want)
		}
	}
}

// TestDiamondProgression walks a six-seat game through all sixteen hands and
// checks the size sequence 8..1,1..8, the trump rotation wrapping through
// no-trump, and the one-step starting seat advance.
func TestDiamondProgression(t *testing.T) {
	const seats = 6
	closed := []*Hand{}

	wantSizes := []int{8, 7, 6, 5, 4, 3, 2, 1, 1, 2, 3, 4, 5, 6, 7, 8}
	wantTrump := TrumpDiamonds
	wantStart := 1

	for i, want := range wantSizes {
		cfg := nextHandConfig(seats, closed)
		if cfg.Serial != i+1 {
			t.Fatalf("hand %d: serial = %d", i+1, cfg.Serial)
		}
		if cfg.CardsPerSeat != want {
			t.Fatalf("hand %d: cardsPerSeat = %d, want %d", i+1, cfg.CardsPerSeat, want)
		}
		if cfg.Trump != wantTrump {
			t.Fatalf("hand %d: trump = %s, want %s", i+1, cfg.Trump, wantTrump)
		}
		if cfg.StartingSeat != wantStart {
			t.Fatalf("hand %d: startingSeat = %d, want %d", i+1, cfg.StartingSeat, wantStart)
		}

		closed = append(closed, &Hand{
			Serial:       cfg.Serial,
			Trump:        cfg.Trump,
			CardsPerSeat: cfg.CardsPerSeat,
			StartingSeat: cfg.StartingSeat,
			State:        HandClosed,
		})
		wantTrump = wantTrump.Next()
		wantStart = wrapSeat(seats, wantStart)
	}

	if !AllHandsPlayed(seats, len(closed)) {
		t.Errorf("AllHandsPlayed(%d, %d) = false after full run", seats, len(closed))
	}
	if AllHandsPlayed(seats, len(closed)-1) {
		t.Errorf("AllHandsPlayed true one hand early")
	}
}

func TestTrumpRotation(t *testing.T) {
	order := []Trump{TrumpDiamonds, TrumpHearts, TrumpClubs, TrumpSpades, NoTrump, TrumpDiamonds}
	for i := 0; i < len(order)-1; i++ {
		if got := order[i].Next(); got != order[i+1] {
			t.Errorf("%s.Next() = %s, want %s", order[i], got, order[i+1])
		}
	}
}

func TestDealRejectedWhileHandOpen(t *testing.T) {
	s := newTestSession(t, 4)

	rng := randutil.New(1)
	if _, err := s.DealHand(rng); err != nil {
		t.Fatalf("first deal: %v", err)
	}
	if _, err := s.DealHand(rng); err == nil {
		t.Fatal("second deal accepted while hand open")
	}
}

func TestDealRejectedBeforeActivation(t *testing.T) {
	s, err := NewSession(uuid.New(), 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.DealHand(randutil.New(1)); err == nil {
		t.Fatal("deal accepted on forming session")
	}
}

func newTestSession(t *testing.T, seats int) *Session {
	t.Helper()
	s, err := NewSession(uuid.New(), seats)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := s.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	return s
}
