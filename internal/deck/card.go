package deck

import "fmt"

// Suit represents a card suit. The declaration order matches the trump
// rotation used between hands (diamonds first).
type Suit int

const (
	Diamonds Suit = iota
	Hearts
	Clubs
	Spades
)

// String returns the display symbol of a suit
func (s Suit) String() string {
	switch s {
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Token returns the single-letter wire form of a suit ("d", "h", "c", "s")
func (s Suit) Token() string {
	switch s {
	case Diamonds:
		return "d"
	case Hearts:
		return "h"
	case Clubs:
		return "c"
	case Spades:
		return "s"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Values are the natural off-trump ordering;
// trump ordering is the game engine's concern.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return fmt.Sprintf("%d", int(r))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Token returns the lowercase wire form of a rank ("2".."9", "t", "j", "q", "k", "a")
func (r Rank) Token() string {
	switch {
	case r >= Two && r <= Nine:
		return fmt.Sprintf("%d", int(r))
	case r == Ten:
		return "t"
	case r == Jack:
		return "j"
	case r == Queen:
		return "q"
	case r == King:
		return "k"
	case r == Ace:
		return "a"
	default:
		return "?"
	}
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the display representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Token returns the two-character wire form of a card ("qs", "td", ...),
// rank first then suit.
func (c Card) Token() string {
	return c.Rank.Token() + c.Suit.Token()
}

// Parse decodes the wire form produced by Token. Input is case-insensitive.
func Parse(token string) (Card, error) {
	if len(token) != 2 {
		return Card{}, fmt.Errorf("deck: malformed card token %q", token)
	}
	var rank Rank
	switch r := lower(token[0]); r {
	case '2', '3', '4', '5', '6', '7', '8', '9':
		rank = Rank(r - '0')
	case 't':
		rank = Ten
	case 'j':
		rank = Jack
	case 'q':
		rank = Queen
	case 'k':
		rank = King
	case 'a':
		rank = Ace
	default:
		return Card{}, fmt.Errorf("deck: unknown rank %q in token %q", string(r), token)
	}
	var suit Suit
	switch s := lower(token[1]); s {
	case 'd':
		suit = Diamonds
	case 'h':
		suit = Hearts
	case 'c':
		suit = Clubs
	case 's':
		suit = Spades
	default:
		return Card{}, fmt.Errorf("deck: unknown suit %q in token %q", string(s), token)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}
