// Package store persists games to SQLite so a restarted server can pick up
// every game exactly where it stopped, mid-hand included.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/nigels-app/nigels/internal/deck"
	"github.com/nigels-app/nigels/internal/game"
)

// ErrNotFound indicates the requested game is not in the store.
var ErrNotFound = errors.New("store: game not found")

// SeatAssignment maps a table seat to the player occupying it.
type SeatAssignment struct {
	Seat     int
	PlayerID uuid.UUID
	Name     string
}

// GameSummary is one row of the game listing.
type GameSummary struct {
	ID         uuid.UUID
	Seats      int
	Status     game.Status
	WinnerSeat int
	UpdatedAt  time.Time
}

// Store is a SQLite-backed game store. A single writer is assumed; the
// connection pool is pinned to one connection accordingly.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
// Pass ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store: empty database path")
	}
	if path != ":memory:" {
		if parent := filepath.Dir(path); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, fmt.Errorf("store: create database dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveGame writes a full snapshot of the session in one transaction. Hand
// detail rows are replaced wholesale, so saving after every accepted action
// keeps the stored game identical to the live one.
func (s *Store) SaveGame(ctx context.Context, sess *game.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin save: %w", err)
	}
	defer tx.Rollback()

	nowMs := time.Now().UTC().UnixMilli()
	gameID := sess.ID.String()

	_, err = tx.ExecContext(ctx, `
INSERT INTO games (id, seats, status, winner_seat, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE
SET status = excluded.status,
    winner_seat = excluded.winner_seat,
    updated_at_ms = excluded.updated_at_ms
`, gameID, sess.Seats, int(sess.Status), sess.WinnerSeat, nowMs, nowMs)
	if err != nil {
		return fmt.Errorf("store: upsert game: %w", err)
	}

	for _, table := range []string{"hand_results", "plays", "tricks", "bets", "dealt_cards", "hands"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE game_id = ?`, gameID); err != nil {
			return fmt.Errorf("store: clear %s: %w", table, err)
		}
	}

	for _, h := range sess.Hands {
		_, err = tx.ExecContext(ctx, `
INSERT INTO hands (game_id, serial, hand_id, trump, cards_per_seat, starting_seat, state)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, gameID, h.Serial, h.ID.String(), int(h.Trump), h.CardsPerSeat, h.StartingSeat, int(h.State))
		if err != nil {
			return fmt.Errorf("store: insert hand %d: %w", h.Serial, err)
		}

		for seat, cards := range h.Dealt {
			for pos, c := range cards {
				_, err = tx.ExecContext(ctx, `
INSERT INTO dealt_cards (game_id, hand_serial, seat, pos, card)
VALUES (?, ?, ?, ?, ?)
`, gameID, h.Serial, seat, pos, c.Token())
				if err != nil {
					return fmt.Errorf("store: insert dealt card: %w", err)
				}
			}
		}

		for seat, bet := range h.Bets {
			_, err = tx.ExecContext(ctx, `
INSERT INTO bets (game_id, hand_serial, seat, bet_size)
VALUES (?, ?, ?, ?)
`, gameID, h.Serial, seat, bet)
			if err != nil {
				return fmt.Errorf("store: insert bet: %w", err)
			}
		}

		for _, trick := range h.Tricks {
			_, err = tx.ExecContext(ctx, `
INSERT INTO tricks (game_id, hand_serial, serial, winner)
VALUES (?, ?, ?, ?)
`, gameID, h.Serial, trick.Serial, trick.Winner)
			if err != nil {
				return fmt.Errorf("store: insert trick: %w", err)
			}
			for pos, p := range trick.Plays {
				_, err = tx.ExecContext(ctx, `
INSERT INTO plays (game_id, hand_serial, trick_serial, pos, seat, card)
VALUES (?, ?, ?, ?, ?, ?)
`, gameID, h.Serial, trick.Serial, pos, p.Seat, p.Card.Token())
				if err != nil {
					return fmt.Errorf("store: insert play: %w", err)
				}
			}
		}

		for seat, r := range h.Results {
			_, err = tx.ExecContext(ctx, `
INSERT INTO hand_results (game_id, hand_serial, seat, bet_size, tricks_won, bonus, score)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, gameID, h.Serial, seat, r.BetSize, r.TricksWon, r.Bonus, r.Score)
			if err != nil {
				return fmt.Errorf("store: insert result: %w", err)
			}
		}
	}

	return tx.Commit()
}

// LoadGame rebuilds a session from its stored snapshot.
func (s *Store) LoadGame(ctx context.Context, id uuid.UUID) (*game.Session, error) {
	gameID := id.String()

	var seats, status, winnerSeat int
	err := s.db.QueryRowContext(ctx, `
SELECT seats, status, winner_seat FROM games WHERE id = ?
`, gameID).Scan(&seats, &status, &winnerSeat)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: load game: %w", err)
	}

	sess := &game.Session{
		ID:         id,
		Seats:      seats,
		Status:     game.Status(status),
		WinnerSeat: winnerSeat,
	}

	hands, err := s.loadHands(ctx, gameID)
	if err != nil {
		return nil, err
	}
	sess.Hands = hands
	return sess, nil
}

func (s *Store) loadHands(ctx context.Context, gameID string) ([]*game.Hand, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT serial, hand_id, trump, cards_per_seat, starting_seat, state
FROM hands WHERE game_id = ? ORDER BY serial ASC
`, gameID)
	if err != nil {
		return nil, fmt.Errorf("store: load hands: %w", err)
	}
	defer rows.Close()

	var hands []*game.Hand
	bySerial := make(map[int]*game.Hand)
	for rows.Next() {
		var serial, trump, cardsPerSeat, startingSeat, state int
		var handID string
		if err := rows.Scan(&serial, &handID, &trump, &cardsPerSeat, &startingSeat, &state); err != nil {
			return nil, fmt.Errorf("store: scan hand: %w", err)
		}
		hid, err := uuid.Parse(handID)
		if err != nil {
			return nil, fmt.Errorf("store: hand %d has bad id %q", serial, handID)
		}
		h := &game.Hand{
			ID:           hid,
			Serial:       serial,
			Trump:        game.Trump(trump),
			CardsPerSeat: cardsPerSeat,
			StartingSeat: startingSeat,
			State:        game.HandState(state),
			Dealt:        make(map[int][]deck.Card),
			Bets:         make(map[int]int),
			Results:      make(map[int]game.HandResult),
		}
		hands = append(hands, h)
		bySerial[serial] = h
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: load hands: %w", err)
	}

	if err := s.loadDealt(ctx, gameID, bySerial); err != nil {
		return nil, err
	}
	if err := s.loadBets(ctx, gameID, bySerial); err != nil {
		return nil, err
	}
	if err := s.loadTricks(ctx, gameID, bySerial); err != nil {
		return nil, err
	}
	if err := s.loadResults(ctx, gameID, bySerial); err != nil {
		return nil, err
	}
	return hands, nil
}

func (s *Store) loadDealt(ctx context.Context, gameID string, bySerial map[int]*game.Hand) error {
	rows, err := s.db.QueryContext(ctx, `
SELECT hand_serial, seat, card
FROM dealt_cards WHERE game_id = ? ORDER BY hand_serial, seat, pos
`, gameID)
	if err != nil {
		return fmt.Errorf("store: load dealt cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var serial, seat int
		var token string
		if err := rows.Scan(&serial, &seat, &token); err != nil {
			return fmt.Errorf("store: scan dealt card: %w", err)
		}
		card, err := deck.Parse(token)
		if err != nil {
			return fmt.Errorf("store: hand %d seat %d: %w", serial, seat, err)
		}
		if h := bySerial[serial]; h != nil {
			h.Dealt[seat] = append(h.Dealt[seat], card)
		}
	}
	return rows.Err()
}

func (s *Store) loadBets(ctx context.Context, gameID string, bySerial map[int]*game.Hand) error {
	rows, err := s.db.QueryContext(ctx, `
SELECT hand_serial, seat, bet_size FROM bets WHERE game_id = ?
`, gameID)
	if err != nil {
		return fmt.Errorf("store: load bets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var serial, seat, bet int
		if err := rows.Scan(&serial, &seat, &bet); err != nil {
			return fmt.Errorf("store: scan bet: %w", err)
		}
		if h := bySerial[serial]; h != nil {
			h.Bets[seat] = bet
		}
	}
	return rows.Err()
}

func (s *Store) loadTricks(ctx context.Context, gameID string, bySerial map[int]*game.Hand) error {
	rows, err := s.db.QueryContext(ctx, `
SELECT hand_serial, serial, winner
FROM tricks WHERE game_id = ? ORDER BY hand_serial, serial
`, gameID)
	if err != nil {
		return fmt.Errorf("store: load tricks: %w", err)
	}
	defer rows.Close()

	type trickKey struct{ handSerial, serial int }
	byKey := make(map[trickKey]*game.Trick)
	for rows.Next() {
		var handSerial, serial, winner int
		if err := rows.Scan(&handSerial, &serial, &winner); err != nil {
			return fmt.Errorf("store: scan trick: %w", err)
		}
		t := &game.Trick{Serial: serial, Winner: winner}
		byKey[trickKey{handSerial, serial}] = t
		if h := bySerial[handSerial]; h != nil {
			h.Tricks = append(h.Tricks, t)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: load tricks: %w", err)
	}

	playRows, err := s.db.QueryContext(ctx, `
SELECT hand_serial, trick_serial, seat, card
FROM plays WHERE game_id = ? ORDER BY hand_serial, trick_serial, pos
`, gameID)
	if err != nil {
		return fmt.Errorf("store: load plays: %w", err)
	}
	defer playRows.Close()

	for playRows.Next() {
		var handSerial, trickSerial, seat int
		var token string
		if err := playRows.Scan(&handSerial, &trickSerial, &seat, &token); err != nil {
			return fmt.Errorf("store: scan play: %w", err)
		}
		card, err := deck.Parse(token)
		if err != nil {
			return fmt.Errorf("store: hand %d trick %d: %w", handSerial, trickSerial, err)
		}
		if t := byKey[trickKey{handSerial, trickSerial}]; t != nil {
			t.Plays = append(t.Plays, game.Play{Seat: seat, Card: card})
		}
	}
	return playRows.Err()
}

func (s *Store) loadResults(ctx context.Context, gameID string, bySerial map[int]*game.Hand) error {
	rows, err := s.db.QueryContext(ctx, `
SELECT hand_serial, seat, bet_size, tricks_won, bonus, score
FROM hand_results WHERE game_id = ?
`, gameID)
	if err != nil {
		return fmt.Errorf("store: load results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var serial, seat, betSize, tricksWon, bonus, score int
		if err := rows.Scan(&serial, &seat, &betSize, &tricksWon, &bonus, &score); err != nil {
			return fmt.Errorf("store: scan result: %w", err)
		}
		if h := bySerial[serial]; h != nil {
			h.Results[seat] = game.HandResult{
				Seat:      seat,
				BetSize:   betSize,
				TricksWon: tricksWon,
				Bonus:     bonus,
				Score:     score,
			}
		}
	}
	return rows.Err()
}

// SaveSeating replaces the seat assignments stored for a game.
func (s *Store) SaveSeating(ctx context.Context, gameID uuid.UUID, seating []SeatAssignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin seating: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_players WHERE game_id = ?`, gameID.String()); err != nil {
		return fmt.Errorf("store: clear seating: %w", err)
	}
	for _, sa := range seating {
		_, err = tx.ExecContext(ctx, `
INSERT INTO game_players (game_id, seat, player_id, player_name)
VALUES (?, ?, ?, ?)
`, gameID.String(), sa.Seat, sa.PlayerID.String(), sa.Name)
		if err != nil {
			return fmt.Errorf("store: insert seat %d: %w", sa.Seat, err)
		}
	}
	return tx.Commit()
}

// LoadSeating returns the stored seat assignments for a game in seat order.
func (s *Store) LoadSeating(ctx context.Context, gameID uuid.UUID) ([]SeatAssignment, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT seat, player_id, player_name
FROM game_players WHERE game_id = ? ORDER BY seat ASC
`, gameID.String())
	if err != nil {
		return nil, fmt.Errorf("store: load seating: %w", err)
	}
	defer rows.Close()

	var seating []SeatAssignment
	for rows.Next() {
		var sa SeatAssignment
		var playerID string
		if err := rows.Scan(&sa.Seat, &playerID, &sa.Name); err != nil {
			return nil, fmt.Errorf("store: scan seat: %w", err)
		}
		if sa.PlayerID, err = uuid.Parse(playerID); err != nil {
			return nil, fmt.Errorf("store: seat %d has bad player id %q", sa.Seat, playerID)
		}
		seating = append(seating, sa)
	}
	return seating, rows.Err()
}

// ListGames returns summaries of every stored game, most recent first.
func (s *Store) ListGames(ctx context.Context) ([]GameSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, seats, status, winner_seat, updated_at_ms
FROM games ORDER BY updated_at_ms DESC
`)
	if err != nil {
		return nil, fmt.Errorf("store: list games: %w", err)
	}
	defer rows.Close()

	var games []GameSummary
	for rows.Next() {
		var g GameSummary
		var id string
		var status int
		var updatedMs int64
		if err := rows.Scan(&id, &g.Seats, &status, &g.WinnerSeat, &updatedMs); err != nil {
			return nil, fmt.Errorf("store: scan game: %w", err)
		}
		if g.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("store: bad game id %q", id)
		}
		g.Status = game.Status(status)
		g.UpdatedAt = time.UnixMilli(updatedMs).UTC()
		games = append(games, g)
	}
	return games, rows.Err()
}
