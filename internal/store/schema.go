package store

import (
	"context"
	"database/sql"
	"fmt"
)

func ensureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS games (
    id TEXT PRIMARY KEY,
    seats INTEGER NOT NULL,
    status INTEGER NOT NULL,
    winner_seat INTEGER NOT NULL DEFAULT 0,
    created_at_ms INTEGER NOT NULL,
    updated_at_ms INTEGER NOT NULL
)`,
		`
CREATE TABLE IF NOT EXISTS game_players (
    game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
    seat INTEGER NOT NULL,
    player_id TEXT NOT NULL,
    player_name TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (game_id, seat)
)`,
		`
CREATE TABLE IF NOT EXISTS hands (
    game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
    serial INTEGER NOT NULL,
    hand_id TEXT NOT NULL,
    trump INTEGER NOT NULL,
    cards_per_seat INTEGER NOT NULL,
    starting_seat INTEGER NOT NULL,
    state INTEGER NOT NULL,
    PRIMARY KEY (game_id, serial)
)`,
		`
CREATE TABLE IF NOT EXISTS dealt_cards (
    game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
    hand_serial INTEGER NOT NULL,
    seat INTEGER NOT NULL,
    pos INTEGER NOT NULL,
    card TEXT NOT NULL,
    PRIMARY KEY (game_id, hand_serial, seat, pos)
)`,
		`
CREATE TABLE IF NOT EXISTS bets (
    game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
    hand_serial INTEGER NOT NULL,
    seat INTEGER NOT NULL,
    bet_size INTEGER NOT NULL,
    PRIMARY KEY (game_id, hand_serial, seat)
)`,
		`
CREATE TABLE IF NOT EXISTS tricks (
    game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
    hand_serial INTEGER NOT NULL,
    serial INTEGER NOT NULL,
    winner INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (game_id, hand_serial, serial)
)`,
		`
CREATE TABLE IF NOT EXISTS plays (
    game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
    hand_serial INTEGER NOT NULL,
    trick_serial INTEGER NOT NULL,
    pos INTEGER NOT NULL,
    seat INTEGER NOT NULL,
    card TEXT NOT NULL,
    PRIMARY KEY (game_id, hand_serial, trick_serial, pos)
)`,
		`
CREATE TABLE IF NOT EXISTS hand_results (
    game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
    hand_serial INTEGER NOT NULL,
    seat INTEGER NOT NULL,
    bet_size INTEGER NOT NULL,
    tricks_won INTEGER NOT NULL,
    bonus INTEGER NOT NULL,
    score INTEGER NOT NULL,
    PRIMARY KEY (game_id, hand_serial, seat)
)`,
		`CREATE INDEX IF NOT EXISTS idx_games_updated ON games(updated_at_ms DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: ensure schema: %w", err)
		}
	}
	return nil
}
