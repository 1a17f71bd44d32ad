package game

import (
	"fmt"

	"github.com/nigels-app/nigels/internal/deck"
)

// Trump is the trump designation of one hand: a suit, or no trump at all.
type Trump int

const (
	TrumpDiamonds Trump = Trump(deck.Diamonds)
	TrumpHearts   Trump = Trump(deck.Hearts)
	TrumpClubs    Trump = Trump(deck.Clubs)
	TrumpSpades   Trump = Trump(deck.Spades)
	NoTrump       Trump = 4
)

// HasSuit reports whether this hand has a trump suit at all.
func (t Trump) HasSuit() bool {
	return t >= TrumpDiamonds && t <= TrumpSpades
}

// Suit returns the trump suit. Only meaningful when HasSuit is true.
func (t Trump) Suit() deck.Suit {
	return deck.Suit(t)
}

// Next advances one step in the hand-to-hand rotation:
// ♦ → ♥ → ♣ → ♠ → no trump → ♦ ...
func (t Trump) Next() Trump {
	if t == NoTrump {
		return TrumpDiamonds
	}
	return t + 1
}

// String returns the display form of the trump ("♦" or "NT").
func (t Trump) String() string {
	if t == NoTrump {
		return "NT"
	}
	return t.Suit().String()
}

// Token returns the wire form of the trump ("d", "h", "c", "s", or "" for no
// trump), matching card suit tokens.
func (t Trump) Token() string {
	if t == NoTrump {
		return ""
	}
	return t.Suit().Token()
}

// ParseTrump decodes the wire form produced by Token.
func ParseTrump(token string) (Trump, error) {
	switch token {
	case "":
		return NoTrump, nil
	case "d":
		return TrumpDiamonds, nil
	case "h":
		return TrumpHearts, nil
	case "c":
		return TrumpClubs, nil
	case "s":
		return TrumpSpades, nil
	default:
		return NoTrump, fmt.Errorf("game: unknown trump token %q", token)
	}
}
