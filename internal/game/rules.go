package game

import (
	"fmt"

	"github.com/nigels-app/nigels/internal/deck"
)

// trumpStrength orders ranks within the trump suit. The nine and the jack
// are elevated above the ace, jack highest:
//
//	2 3 4 5 6 7 8 10 Q K A 9 J   (lowest → highest)
func trumpStrength(r deck.Rank) int {
	switch r {
	case deck.Nine:
		return 11
	case deck.Jack:
		return 12
	case deck.Ten:
		return 7
	case deck.Queen:
		return 8
	case deck.King:
		return 9
	case deck.Ace:
		return 10
	default: // 2..8 keep their natural order at the bottom
		return int(r) - 2
	}
}

// beats reports whether card c beats the current best card of a trick that
// was led in leadSuit.
func beats(c, best deck.Card, leadSuit deck.Suit, trump Trump) bool {
	if trump.HasSuit() {
		ts := trump.Suit()
		switch {
		case c.Suit == ts && best.Suit != ts:
			return true
		case c.Suit != ts && best.Suit == ts:
			return false
		case c.Suit == ts && best.Suit == ts:
			return trumpStrength(c.Rank) > trumpStrength(best.Rank)
		}
	}
	if c.Suit == best.Suit {
		return c.Rank > best.Rank
	}
	// Off-suit, off-trump cards never beat anything; the best card can only
	// lose to the lead suit or trump.
	return c.Suit == leadSuit && best.Suit != leadSuit
}

// trickWinner returns the seat holding the highest-ranked card of a complete
// trick: the best trump if any trump was played, otherwise the best card of
// the leading suit.
func trickWinner(t *Trick, trump Trump) int {
	lead := t.LeadSuit()
	best := t.Plays[0]
	for _, p := range t.Plays[1:] {
		if beats(p.Card, best.Card, lead, trump) {
			best = p
		}
	}
	return best.Seat
}

// highestTrump returns the strongest trump card played into the trick so
// far, if any.
func highestTrump(t *Trick, trump Trump) (deck.Card, bool) {
	var best deck.Card
	found := false
	for _, p := range t.Plays {
		if p.Card.Suit != trump.Suit() {
			continue
		}
		if !found || trumpStrength(p.Card.Rank) > trumpStrength(best.Rank) {
			best = p.Card
			found = true
		}
	}
	return best, found
}

// legalPlay enforces the suit/trump rules for playing card into an open
// trick. holding is the seat's full current hand including card. The caller
// only invokes this once the trick has at least one card and the seat holds
// more than one candidate.
//
// In order: following the leading suit is always legal; so is the trump
// jack, the first trump into an untrumped trick, and a trump that overtakes
// the highest trump on the table. A lower trump is legal only when the seat
// holds nothing but trump and cannot beat the trick. Anything else is legal
// only if the seat is void in the leading suit and plays off-trump.
func legalPlay(t *Trick, holding []deck.Card, card deck.Card, trump Trump) error {
	leadSuit := t.LeadSuit()
	if card.Suit == leadSuit {
		return nil
	}

	if trump.HasSuit() && card.Suit == trump.Suit() {
		if card.Rank == deck.Jack {
			return nil
		}
		best, trumped := highestTrump(t, trump)
		if !trumped {
			return nil
		}
		if trumpStrength(card.Rank) > trumpStrength(best.Rank) {
			return nil
		}
		if forcedLowTrump(holding, best, trump) {
			return nil
		}
		return fmt.Errorf("%w: %s does not beat %s and higher cards remain in hand",
			ErrMustFollowSuitOrTrump, card, best)
	}

	for _, c := range holding {
		if c.Suit == leadSuit {
			return fmt.Errorf("%w: seat holds %s and must play %s or trump",
				ErrMustFollowSuitOrTrump, c, leadSuit)
		}
	}
	return nil
}

// forcedLowTrump reports whether the seat has no choice but to play a losing
// trump: every held card is trump, none stronger than the best on the table.
func forcedLowTrump(holding []deck.Card, best deck.Card, trump Trump) bool {
	for _, c := range holding {
		if c.Suit != trump.Suit() {
			return false
		}
		if trumpStrength(c.Rank) > trumpStrength(best.Rank) {
			return false
		}
	}
	return true
}
