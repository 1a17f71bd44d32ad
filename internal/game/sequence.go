package game

// HandConfig is the derived configuration for the next hand of a game.
type HandConfig struct {
	Serial       int
	Trump        Trump
	CardsPerSeat int
	StartingSeat int
}

// initialCardsPerSeat is the opening hand size for a game of n seats: deal as
// many cards as the deck allows, capped at ten.
func initialCardsPerSeat(n int) int {
	c := deckSize / n
	if c > 10 {
		c = 10
	}
	return c
}

const deckSize = 52

// HandsInGame returns how many hands a game of n seats runs before it is
// finished. The cards-per-seat progression walks from the opening size down
// to one and back up, playing the one-card hand twice, so the total is twice
// the opening size: 10 seats play 10 hands, 6 seats play 16, 2..5 seats play
// the full 20.
func HandsInGame(n int) int {
	return 2 * initialCardsPerSeat(n)
}

// AllHandsPlayed reports whether a game of n seats has dealt its full run of
// hands.
func AllHandsPlayed(n, handsClosed int) bool {
	return handsClosed >= HandsInGame(n)
}

// nextHandConfig derives the next hand's trump, size and starting seat from
// the closed hands so far. The caller guarantees no hand is open.
//
// Trump rotates ♦→♥→♣→♠→NT and wraps. Cards per seat shrink by one each hand
// until the one-card hand, which is played twice, then grow by one each hand.
// The starting seat advances one position per hand.
func nextHandConfig(n int, closed []*Hand) HandConfig {
	if len(closed) == 0 {
		return HandConfig{
			Serial:       1,
			Trump:        TrumpDiamonds,
			CardsPerSeat: initialCardsPerSeat(n),
			StartingSeat: 1,
		}
	}

	last := closed[len(closed)-1]

	singles := 0
	for _, h := range closed {
		if h.CardsPerSeat == 1 {
			singles++
		}
	}

	cards := last.CardsPerSeat
	switch {
	case singles == 0:
		cards = last.CardsPerSeat - 1
	case singles == 1 && last.CardsPerSeat == 1:
		cards = 1
	case singles == 2:
		cards = last.CardsPerSeat + 1
	}

	return HandConfig{
		Serial:       last.Serial + 1,
		Trump:        last.Trump.Next(),
		CardsPerSeat: cards,
		StartingSeat: wrapSeat(n, last.StartingSeat), // previous+1: wrapSeat(n, last-1+1)
	}
}
