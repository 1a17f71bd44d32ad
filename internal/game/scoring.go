package game

// matchBonus is added to a seat's hand score when its tricks won exactly
// match its bet.
const matchBonus = 10

// closeHand freezes a finished hand: tallies tricks won per seat, scores the
// hand and writes the immutable HandResult rows.
func (s *Session) closeHand(h *Hand) []HandResult {
	h.State = HandClosed

	won := make(map[int]int, s.Seats)
	for _, t := range h.Tricks {
		won[t.Winner]++
	}

	results := make([]HandResult, 0, s.Seats)
	for seat := 1; seat <= s.Seats; seat++ {
		r := HandResult{
			Seat:      seat,
			BetSize:   h.Bets[seat],
			TricksWon: won[seat],
			Score:     won[seat],
		}
		if r.TricksWon == r.BetSize {
			r.Bonus = 1
			r.Score += matchBonus
		}
		h.Results[seat] = r
		results = append(results, r)
	}
	return results
}

// finish closes the session and picks the game winner: the seat with the
// highest cumulative score, ties broken by the lower seat number.
func (s *Session) finish() {
	s.Status = StatusFinished

	totals := s.totals()
	winner, best := 0, -1
	for seat := 1; seat <= s.Seats; seat++ {
		if totals[seat] > best {
			winner, best = seat, totals[seat]
		}
	}
	s.WinnerSeat = winner
}

func (s *Session) totals() map[int]int {
	totals := make(map[int]int, s.Seats)
	for _, h := range s.Hands {
		if h.State != HandClosed {
			continue
		}
		for seat, r := range h.Results {
			totals[seat] += r.Score
		}
	}
	return totals
}

// HandScoreLine is one row of the score table: one closed hand's per-seat
// scores.
type HandScoreLine struct {
	Serial       int
	Trump        Trump
	CardsPerSeat int
	Scores       map[int]HandResult
}

// ScoreTable is the per-hand and cumulative score view of a game.
type ScoreTable struct {
	GameID     string
	Seats      int
	Hands      []HandScoreLine
	Totals     map[int]int
	Finished   bool
	WinnerSeat int
}

// ScoreTable builds the score table across all closed hands of the game.
func (s *Session) ScoreTable() *ScoreTable {
	t := &ScoreTable{
		GameID:     s.ID.String(),
		Seats:      s.Seats,
		Totals:     s.totals(),
		Finished:   s.Status == StatusFinished,
		WinnerSeat: s.WinnerSeat,
	}
	for _, h := range s.Hands {
		if h.State != HandClosed {
			continue
		}
		line := HandScoreLine{
			Serial:       h.Serial,
			Trump:        h.Trump,
			CardsPerSeat: h.CardsPerSeat,
			Scores:       make(map[int]HandResult, s.Seats),
		}
		for seat, r := range h.Results {
			line.Scores[seat] = r
		}
		t.Hands = append(t.Hands, line)
	}
	return t
}
