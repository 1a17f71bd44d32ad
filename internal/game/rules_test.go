package game

import (
	"testing"

	"github.com/nigels-app/nigels/internal/deck"
)

// trumpOrder is the full trump hierarchy, lowest to highest.
var trumpOrder = []deck.Rank{
	deck.Two, deck.Three, deck.Four, deck.Five, deck.Six, deck.Seven,
	deck.Eight, deck.Ten, deck.Queen, deck.King, deck.Ace, deck.Nine, deck.Jack,
}

func TestTrumpStrengthTotalOrder(t *testing.T) {
	for i := 0; i < len(trumpOrder)-1; i++ {
		lo, hi := trumpOrder[i], trumpOrder[i+1]
		if trumpStrength(lo) >= trumpStrength(hi) {
			t.Errorf("trumpStrength(%s) = %d should be below trumpStrength(%s) = %d",
				lo, trumpStrength(lo), hi, trumpStrength(hi))
		}
	}
}

func TestTrumpElevations(t *testing.T) {
	if trumpStrength(deck.Jack) <= trumpStrength(deck.Nine) {
		t.Error("trump jack should outrank trump nine")
	}
	if trumpStrength(deck.Nine) <= trumpStrength(deck.Ace) {
		t.Error("trump nine should outrank trump ace")
	}
	if trumpStrength(deck.Ten) <= trumpStrength(deck.Eight) {
		t.Error("trump ten should outrank trump eight")
	}
}

func TestBeats(t *testing.T) {
	trump := TrumpSpades
	lead := deck.Hearts

	tests := []struct {
		name    string
		c, best deck.Card
		want    bool
	}{
		{"higher lead suit wins", deck.NewCard(deck.King, deck.Hearts), deck.NewCard(deck.Ten, deck.Hearts), true},
		{"lower lead suit loses", deck.NewCard(deck.Three, deck.Hearts), deck.NewCard(deck.Ten, deck.Hearts), false},
		{"any trump beats lead suit", deck.NewCard(deck.Two, deck.Spades), deck.NewCard(deck.Ace, deck.Hearts), true},
		{"lead suit never beats trump", deck.NewCard(deck.Ace, deck.Hearts), deck.NewCard(deck.Two, deck.Spades), false},
		{"trump nine beats trump ace", deck.NewCard(deck.Nine, deck.Spades), deck.NewCard(deck.Ace, deck.Spades), true},
		{"trump jack beats trump nine", deck.NewCard(deck.Jack, deck.Spades), deck.NewCard(deck.Nine, deck.Spades), true},
		{"off suit beats nothing", deck.NewCard(deck.Ace, deck.Clubs), deck.NewCard(deck.Two, deck.Hearts), false},
	}

	for _, tt := range tests {
		if got := beats(tt.c, tt.best, lead, trump); got != tt.want {
			t.Errorf("%s: beats(%s, %s) = %v, want %v", tt.name, tt.c, tt.best, got, tt.want)
		}
	}
}

func TestTrickWinner(t *testing.T) {
	tests := []struct {
		name  string
		trump Trump
		plays []Play
		want  int
	}{
		{
			name:  "highest of leading suit wins without trump",
			trump: NoTrump,
			plays: []Play{
				{Seat: 1, Card: deck.NewCard(deck.Ten, deck.Hearts)},
				{Seat: 2, Card: deck.NewCard(deck.Ace, deck.Clubs)},
				{Seat: 3, Card: deck.NewCard(deck.Queen, deck.Hearts)},
			},
			want: 3,
		},
		{
			name:  "small trump takes the trick",
			trump: TrumpClubs,
			plays: []Play{
				{Seat: 1, Card: deck.NewCard(deck.Ace, deck.Hearts)},
				{Seat: 2, Card: deck.NewCard(deck.Two, deck.Clubs)},
				{Seat: 3, Card: deck.NewCard(deck.King, deck.Hearts)},
			},
			want: 2,
		},
		{
			name:  "trump nine beats trump ace in play",
			trump: TrumpDiamonds,
			plays: []Play{
				{Seat: 1, Card: deck.NewCard(deck.Ace, deck.Diamonds)},
				{Seat: 2, Card: deck.NewCard(deck.Nine, deck.Diamonds)},
				{Seat: 3, Card: deck.NewCard(deck.King, deck.Diamonds)},
			},
			want: 2,
		},
		{
			name:  "trump jack beats everything",
			trump: TrumpDiamonds,
			plays: []Play{
				{Seat: 1, Card: deck.NewCard(deck.Nine, deck.Diamonds)},
				{Seat: 2, Card: deck.NewCard(deck.Jack, deck.Diamonds)},
				{Seat: 3, Card: deck.NewCard(deck.Ace, deck.Diamonds)},
			},
			want: 2,
		},
		{
			name:  "off-suit discard never wins",
			trump: NoTrump,
			plays: []Play{
				{Seat: 1, Card: deck.NewCard(deck.Two, deck.Spades)},
				{Seat: 2, Card: deck.NewCard(deck.Ace, deck.Hearts)},
				{Seat: 3, Card: deck.NewCard(deck.King, deck.Diamonds)},
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		trick := &Trick{Serial: 1, Plays: tt.plays}
		if got := trickWinner(trick, tt.trump); got != tt.want {
			t.Errorf("%s: winner = seat %d, want seat %d", tt.name, got, tt.want)
		}
	}
}

func TestLegalPlayFollowSuit(t *testing.T) {
	trump := TrumpSpades
	trick := &Trick{Serial: 1, Plays: []Play{{Seat: 1, Card: deck.NewCard(deck.Ten, deck.Hearts)}}}

	holding := []deck.Card{
		deck.NewCard(deck.Two, deck.Hearts),
		deck.NewCard(deck.Ace, deck.Clubs),
	}

	// Holding the leading suit, an off-suit non-trump card is always rejected.
	if err := legalPlay(trick, holding, deck.NewCard(deck.Ace, deck.Clubs), trump); err == nil {
		t.Error("off-suit card accepted while holding leading suit")
	}
	if err := legalPlay(trick, holding, deck.NewCard(deck.Two, deck.Hearts), trump); err != nil {
		t.Errorf("following suit rejected: %v", err)
	}
}

func TestLegalPlayVoidInLead(t *testing.T) {
	trump := TrumpSpades
	trick := &Trick{Serial: 1, Plays: []Play{{Seat: 1, Card: deck.NewCard(deck.Ten, deck.Hearts)}}}

	holding := []deck.Card{
		deck.NewCard(deck.Three, deck.Diamonds),
		deck.NewCard(deck.Ace, deck.Clubs),
	}
	if err := legalPlay(trick, holding, deck.NewCard(deck.Three, deck.Diamonds), trump); err != nil {
		t.Errorf("off-suit discard rejected while void in lead: %v", err)
	}
}

func TestLegalPlayTrumpCarveOuts(t *testing.T) {
	trump := TrumpSpades
	lead := deck.NewCard(deck.Ten, deck.Hearts)

	// First trump into an untrumped trick is always legal, even holding lead suit.
	trick := &Trick{Serial: 1, Plays: []Play{{Seat: 1, Card: lead}}}
	holding := []deck.Card{
		deck.NewCard(deck.Two, deck.Hearts),
		deck.NewCard(deck.Four, deck.Spades),
	}
	if err := legalPlay(trick, holding, deck.NewCard(deck.Four, deck.Spades), trump); err != nil {
		t.Errorf("first trump rejected: %v", err)
	}

	// The trump jack is always legal, even as a non-overtaking trump.
	trick = &Trick{Serial: 1, Plays: []Play{
		{Seat: 1, Card: lead},
		{Seat: 2, Card: deck.NewCard(deck.Nine, deck.Spades)},
	}}
	holding = []deck.Card{
		deck.NewCard(deck.Jack, deck.Spades),
		deck.NewCard(deck.Two, deck.Hearts),
	}
	if err := legalPlay(trick, holding, deck.NewCard(deck.Jack, deck.Spades), trump); err != nil {
		t.Errorf("trump jack rejected: %v", err)
	}

	// Overtaking trump is legal.
	trick = &Trick{Serial: 1, Plays: []Play{
		{Seat: 1, Card: lead},
		{Seat: 2, Card: deck.NewCard(deck.King, deck.Spades)},
	}}
	holding = []deck.Card{
		deck.NewCard(deck.Nine, deck.Spades),
		deck.NewCard(deck.Three, deck.Diamonds),
	}
	if err := legalPlay(trick, holding, deck.NewCard(deck.Nine, deck.Spades), trump); err != nil {
		t.Errorf("overtaking trump rejected: %v", err)
	}
}

func TestLegalPlayNoSandbagging(t *testing.T) {
	trump := TrumpSpades
	trick := &Trick{Serial: 1, Plays: []Play{
		{Seat: 1, Card: deck.NewCard(deck.Ten, deck.Hearts)},
		{Seat: 2, Card: deck.NewCard(deck.King, deck.Spades)},
	}}

	// Holding a higher trump, dumping a lower one is rejected.
	holding := []deck.Card{
		deck.NewCard(deck.Two, deck.Spades),
		deck.NewCard(deck.Ace, deck.Spades),
	}
	if err := legalPlay(trick, holding, deck.NewCard(deck.Two, deck.Spades), trump); err == nil {
		t.Error("low trump accepted while a beating trump remains in hand")
	}

	// Holding only losing trumps, the forced low trump is accepted.
	holding = []deck.Card{
		deck.NewCard(deck.Two, deck.Spades),
		deck.NewCard(deck.Five, deck.Spades),
	}
	if err := legalPlay(trick, holding, deck.NewCard(deck.Two, deck.Spades), trump); err != nil {
		t.Errorf("forced low trump rejected: %v", err)
	}

	// A non-trump card alongside the low trump breaks the carve-out.
	holding = []deck.Card{
		deck.NewCard(deck.Two, deck.Spades),
		deck.NewCard(deck.Three, deck.Diamonds),
	}
	if err := legalPlay(trick, holding, deck.NewCard(deck.Two, deck.Spades), trump); err == nil {
		t.Error("low trump accepted while a discard was available")
	}
}
