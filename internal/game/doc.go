// Package game implements the core engine for the Nigels trick-taking game.
//
// The main type is Session, which holds the full state of one game: its
// hands, bets, tricks and scores. A Session performs no I/O; every operation
// is a synchronous state transition that either fully applies and returns a
// typed result, or rejects with one of the package's sentinel errors and
// leaves the state untouched. Persistence and broadcasting are the caller's
// job.
//
// # Basic Usage
//
//	s, _ := game.NewSession(uuid.New(), 4)
//	s.Activate()
//	dealt, _ := s.DealHand(rng)
//	res, _ := s.PlaceBet(dealt.HandID, 1, 2)
//	play, _ := s.PlayCard(dealt.HandID, 1, card)
//
// # Turn resolution
//
// "Whose turn is it" is never stored. Actor recomputes it on every call from
// the counters already persisted in the event log (bets placed, cards played,
// trick winners, hands closed), so a crash or a retried request can never
// desynchronise the turn order.
//
// # Concurrency
//
// A Session is a single unit of mutation. The caller must serialise mutating
// calls per session (the server does this with a per-room mutex); read-only
// queries are safe against a quiescent snapshot. Operations are retry-safe:
// replaying an already-applied bet or card play is rejected with ErrAlreadyBet
// or ErrCardNotHeld rather than applied twice.
package game
