package game

import "errors"

// Sentinel errors for every rule the engine can reject on. Callers match with
// errors.Is; the server maps each to a stable wire code. Rejections never
// leave partial state behind.
var (
	// ErrConfiguration indicates an impossible seat or card count.
	ErrConfiguration = errors.New("game: invalid configuration")

	// ErrSequence indicates a lifecycle violation, e.g. dealing while a hand
	// is open or past the last hand of the game.
	ErrSequence = errors.New("game: sequence violation")

	// ErrOutOfTurn indicates a bet from a seat that is not the current actor.
	ErrOutOfTurn = errors.New("game: betting out of turn")

	// ErrNotYourTurn indicates a card play from a seat that is not the
	// current actor.
	ErrNotYourTurn = errors.New("game: not your turn")

	// ErrAlreadyBet indicates the seat already has a bet in this hand.
	ErrAlreadyBet = errors.New("game: bet already placed")

	// ErrMustNotBalance rejects the last bet of a hand when it would make the
	// sum of bets equal the cards dealt ("someone stays unhappy").
	ErrMustNotBalance = errors.New("game: bets must not balance cards dealt")

	// ErrCardNotHeld indicates the seat does not hold the submitted card.
	ErrCardNotHeld = errors.New("game: card not held")

	// ErrBettingIncomplete indicates a card play before all seats have bet.
	ErrBettingIncomplete = errors.New("game: betting incomplete")

	// ErrHandClosed indicates an action against a hand that is no longer
	// playing.
	ErrHandClosed = errors.New("game: hand already closed")

	// ErrMustFollowSuitOrTrump rejects an illegal card under the suit/trump
	// rules, including low-trump sandbagging.
	ErrMustFollowSuitOrTrump = errors.New("game: must follow suit or trump")
)
