package game

import (
	"testing"

	"github.com/nigels-app/nigels/internal/deck"
	"github.com/nigels-app/nigels/internal/randutil"
)

func TestDealDistribution(t *testing.T) {
	for n := 2; n <= 10; n++ {
		for c := 1; c <= 10; c++ {
			if c*n > deck.Size {
				continue
			}
			dealt, err := deal(randutil.New(int64(n*100+c)), n, c, 1)
			if err != nil {
				t.Fatalf("deal(n=%d c=%d): %v", n, c, err)
			}

			seen := make(map[deck.Card]int)
			for seat := 1; seat <= n; seat++ {
				if len(dealt[seat]) != c {
					t.Errorf("n=%d c=%d: seat %d got %d cards", n, c, seat, len(dealt[seat]))
				}
				for _, card := range dealt[seat] {
					seen[card]++
				}
			}
			for card, count := range seen {
				if count > 1 {
					t.Errorf("n=%d c=%d: card %s dealt %d times", n, c, card, count)
				}
			}
			if len(seen) != c*n {
				t.Errorf("n=%d c=%d: %d distinct cards dealt, want %d", n, c, len(seen), c*n)
			}
		}
	}
}

func TestDealOverflowRejected(t *testing.T) {
	if _, err := deal(randutil.New(1), 6, 10, 1); err == nil {
		t.Fatal("deal of 60 cards from one deck accepted")
	}
	if _, err := deal(randutil.New(1), 4, 0, 1); err == nil {
		t.Fatal("zero-card deal accepted")
	}
}

func TestDealDeterministicForSeed(t *testing.T) {
	a, err := deal(randutil.New(7), 4, 5, 2)
	if err != nil {
		t.Fatal(err)
	}
	b, err := deal(randutil.New(7), 4, 5, 2)
	if err != nil {
		t.Fatal(err)
	}
	for seat := 1; seat <= 4; seat++ {
		for i := range a[seat] {
			if a[seat][i] != b[seat][i] {
				t.Fatalf("seat %d card %d differs between identically seeded deals", seat, i)
			}
		}
	}
}

// TestDealRoundRobin verifies the first n cards of the shuffled deck land one
// per seat beginning at the starting seat.
func TestDealRoundRobin(t *testing.T) {
	const n, c, start = 4, 3, 3

	rng := randutil.New(11)
	d := deck.New(randutil.New(11))
	d.Shuffle()
	order := d.DealN(c * n)

	dealt, err := deal(rng, n, c, start)
	if err != nil {
		t.Fatal(err)
	}

	for i, card := range order {
		seat := wrapSeat(n, start-1+i)
		found := false
		for _, held := range dealt[seat] {
			if held == card {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("card %d (%s) should be at seat %d", i, card, seat)
		}
	}
}
