package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nigels-app/nigels/internal/auth"
	"github.com/nigels-app/nigels/internal/game"
	"github.com/nigels-app/nigels/internal/store"
)

// TokenCmd mints a player token against the server's auth secret, for
// handing out to clients when auth is enabled.
type TokenCmd struct {
	Secret   string `required:"" help:"Shared signing secret, must match the server's auth config"`
	Name     string `required:"" help:"Player display name"`
	PlayerID string `help:"Player id (a new one is generated when omitted)"`
	Issuer   string `default:"nigels" help:"Token issuer"`
	TTLHours int    `default:"24" help:"Token lifetime in hours"`
}

func (c *TokenCmd) Run() error {
	playerID := uuid.New()
	if c.PlayerID != "" {
		id, err := uuid.Parse(c.PlayerID)
		if err != nil {
			return fmt.Errorf("invalid player id: %w", err)
		}
		playerID = id
	}

	tokens := auth.NewTokens([]byte(c.Secret), c.Issuer, time.Duration(c.TTLHours)*time.Hour)
	token, err := tokens.Issue(playerID, c.Name)
	if err != nil {
		return err
	}

	fmt.Printf("player: %s\nid:     %s\ntoken:  %s\n", c.Name, playerID, token)
	return nil
}

// GamesCmd lists the games recorded in the SQLite database.
type GamesCmd struct {
	Database string `default:"nigels.db" help:"SQLite database path"`
}

func (c *GamesCmd) Run() error {
	st, err := store.Open(c.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	games, err := st.ListGames(context.Background())
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Println("no games recorded")
		return nil
	}

	for _, g := range games {
		line := fmt.Sprintf("%s  seats=%d  status=%s  updated=%s",
			g.ID, g.Seats, g.Status, g.UpdatedAt.Format(time.RFC3339))
		if g.Status == game.StatusFinished {
			line += fmt.Sprintf("  winner=%d", g.WinnerSeat)
		}
		fmt.Println(line)
	}
	return nil
}
