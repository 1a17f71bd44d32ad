package game

// Actor derives the seat whose turn it is in the given hand, together with
// the phase that seat owes an action in.
//
// The actor is never stored; it is recomputed on every call from counters
// that the immutable event log already carries: bets placed, completed
// tricks, cards in the open trick, and the previous trick's winner. Replaying
// the same log always names the same actor, so a crash between an accepted
// action and any dependent update cannot skew the turn order.
func (s *Session) Actor(h *Hand) (int, Phase) {
	switch h.State {
	case HandBetting:
		return wrapSeat(s.Seats, h.StartingSeat-1+len(h.Bets)), PhaseBetting
	case HandPlaying:
		base := h.StartingSeat
		inTrick := 0
		if open := h.openTrick(s.Seats); open != nil {
			inTrick = len(open.Plays)
			if open.Serial > 1 {
				base = h.Tricks[open.Serial-2].Winner
			}
		} else if done := h.completedTricks(s.Seats); done > 0 {
			// Next play opens a fresh trick, led by the last winner.
			base = h.Tricks[done-1].Winner
		}
		return wrapSeat(s.Seats, base-1+inTrick), PhasePlaying
	default:
		return 0, PhaseNone
	}
}

// CurrentActor resolves the actor for the session's open hand, or (0,
// PhaseNone) when nothing is awaiting a player action.
func (s *Session) CurrentActor() (int, Phase) {
	h := s.OpenHand()
	if h == nil {
		return 0, PhaseNone
	}
	return s.Actor(h)
}
