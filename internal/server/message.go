package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/nigels-app/nigels/internal/deck"
	"github.com/nigels-app/nigels/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type AuthData struct {
	PlayerName string `json:"playerName"`
	Token      string `json:"token,omitempty"`
}

type CreateRoomData struct {
	Name string `json:"name"`
}

type JoinRoomData struct {
	RoomID string `json:"roomId"`
}

type LeaveRoomData struct {
	RoomID string `json:"roomId"`
}

type AssignSeatsData struct {
	RoomID string `json:"roomId"`
}

type DealHandData struct {
	RoomID string `json:"roomId"`
}

type PlaceBetData struct {
	RoomID  string `json:"roomId"`
	HandID  string `json:"handId"`
	BetSize int    `json:"betSize"`
}

type PlayCardData struct {
	RoomID string `json:"roomId"`
	HandID string `json:"handId"`
	Card   string `json:"card"` // wire token, e.g. "qs"
}

type GetHandData struct {
	RoomID string `json:"roomId"`
	HandID string `json:"handId,omitempty"` // empty means the open hand
}

type GetScoresData struct {
	RoomID string `json:"roomId"`
}

// Server → Client Messages

type AuthResponseData struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RoomPlayer struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Seat     int    `json:"seat,omitempty"` // 0 until seats are assigned
	IsHost   bool   `json:"isHost"`
}

type RoomInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
	Status      string `json:"status"`
}

type RoomCreatedData struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type RoomJoinedData struct {
	RoomID  string       `json:"roomId"`
	Name    string       `json:"name"`
	Players []RoomPlayer `json:"players"`
}

type RoomLeftData struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type RoomListData struct {
	Rooms []RoomInfo `json:"rooms"`
}

type SeatsAssignedData struct {
	RoomID  string       `json:"roomId"`
	GameID  string       `json:"gameId"`
	Players []RoomPlayer `json:"players"`
}

type HandDealtData struct {
	RoomID       string `json:"roomId"`
	HandID       string `json:"handId"`
	Serial       int    `json:"serial"`
	Trump        string `json:"trump"` // "d", "h", "c", "s" or "" for no trump
	CardsPerSeat int    `json:"cardsPerSeat"`
	StartingSeat int    `json:"startingSeat"`
}

// CardsDealtData carries one seat's cards and is only ever sent to the
// player in that seat.
type CardsDealtData struct {
	HandID string   `json:"handId"`
	Seat   int      `json:"seat"`
	Cards  []string `json:"cards"`
}

type BetPlacedData struct {
	HandID     string `json:"handId"`
	Seat       int    `json:"seat"`
	BetSize    int    `json:"betSize"`
	LastBettor bool   `json:"lastBettor"`
	NextActor  int    `json:"nextActor,omitempty"`
}

type PlayRecord struct {
	Seat int    `json:"seat"`
	Card string `json:"card"`
}

type CardPlayedData struct {
	HandID       string       `json:"handId"`
	Seat         int          `json:"seat"`
	Card         string       `json:"card"`
	TrickSerial  int          `json:"trickSerial"`
	CardsOnTable []PlayRecord `json:"cardsOnTable"`
	NextActor    int          `json:"nextActor,omitempty"`
}

type TrickWonData struct {
	HandID      string `json:"handId"`
	TrickSerial int    `json:"trickSerial"`
	Winner      int    `json:"winner"`
}

type SeatResult struct {
	Seat      int  `json:"seat"`
	BetSize   int  `json:"betSize"`
	TricksWon int  `json:"tricksWon"`
	Bonus     bool `json:"bonus"`
	Score     int  `json:"score"`
}

type HandClosedData struct {
	HandID  string       `json:"handId"`
	Serial  int          `json:"serial"`
	Results []SeatResult `json:"results"`
}

type GameFinishedData struct {
	GameID     string         `json:"gameId"`
	WinnerSeat int            `json:"winnerSeat"`
	Totals     map[int]int    `json:"totals"`
	Scores     ScoreTableData `json:"scores"`
}

type PlayerIdleData struct {
	RoomID         string `json:"roomId"`
	Seat           int    `json:"seat"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type SeatBetInfo struct {
	Seat    int  `json:"seat"`
	Placed  bool `json:"placed"`
	BetSize int  `json:"betSize,omitempty"`
}

type HandStateData struct {
	HandID       string        `json:"handId"`
	Serial       int           `json:"serial"`
	Trump        string        `json:"trump"`
	CardsPerSeat int           `json:"cardsPerSeat"`
	StartingSeat int           `json:"startingSeat"`
	State        string        `json:"state"`
	CurrentActor int           `json:"currentActor,omitempty"`
	Phase        string        `json:"phase,omitempty"`
	Bets         []SeatBetInfo `json:"bets"`
	TrickSerial  int           `json:"trickSerial,omitempty"`
	CardsOnTable []PlayRecord  `json:"cardsOnTable,omitempty"`
	TricksWon    map[int]int   `json:"tricksWon"`
	Holding      []string      `json:"holding,omitempty"` // requester's own cards
}

type HandScoreRow struct {
	Serial       int          `json:"serial"`
	Trump        string       `json:"trump"`
	CardsPerSeat int          `json:"cardsPerSeat"`
	Results      []SeatResult `json:"results"`
}

type ScoreTableData struct {
	GameID     string         `json:"gameId"`
	Seats      int            `json:"seats"`
	Hands      []HandScoreRow `json:"hands"`
	Totals     map[int]int    `json:"totals"`
	Finished   bool           `json:"finished"`
	WinnerSeat int            `json:"winnerSeat,omitempty"`
}

// Helper functions to convert between internal types and message types

func cardTokens(cards []deck.Card) []string {
	tokens := make([]string, len(cards))
	for i, c := range cards {
		tokens[i] = c.Token()
	}
	return tokens
}

func playRecords(plays []game.Play) []PlayRecord {
	records := make([]PlayRecord, len(plays))
	for i, p := range plays {
		records[i] = PlayRecord{Seat: p.Seat, Card: p.Card.Token()}
	}
	return records
}

func seatResults(results []game.HandResult) []SeatResult {
	out := make([]SeatResult, len(results))
	for i, r := range results {
		out[i] = SeatResult{
			Seat:      r.Seat,
			BetSize:   r.BetSize,
			TricksWon: r.TricksWon,
			Bonus:     r.Bonus != 0,
			Score:     r.Score,
		}
	}
	return out
}

func handStateFromView(v *game.HandStatusView, holding []deck.Card) HandStateData {
	data := HandStateData{
		HandID:       v.HandID.String(),
		Serial:       v.Serial,
		Trump:        v.Trump.Token(),
		CardsPerSeat: v.CardsPerSeat,
		StartingSeat: v.StartingSeat,
		State:        v.State.String(),
		CurrentActor: v.CurrentActor,
		TrickSerial:  v.TrickSerial,
		CardsOnTable: playRecords(v.CardsOnTable),
		TricksWon:    v.TricksWon,
		Holding:      cardTokens(holding),
	}
	if v.Phase != game.PhaseNone {
		switch v.Phase {
		case game.PhaseBetting:
			data.Phase = "betting"
		case game.PhasePlaying:
			data.Phase = "playing"
		}
	}
	for _, b := range v.Bets {
		data.Bets = append(data.Bets, SeatBetInfo{Seat: b.Seat, Placed: b.Placed, BetSize: b.BetSize})
	}
	return data
}

func scoreTableFromGame(t *game.ScoreTable) ScoreTableData {
	data := ScoreTableData{
		GameID:     t.GameID,
		Seats:      t.Seats,
		Totals:     t.Totals,
		Finished:   t.Finished,
		WinnerSeat: t.WinnerSeat,
	}
	for _, line := range t.Hands {
		row := HandScoreRow{
			Serial:       line.Serial,
			Trump:        line.Trump.Token(),
			CardsPerSeat: line.CardsPerSeat,
		}
		for seat := 1; seat <= t.Seats; seat++ {
			if r, ok := line.Scores[seat]; ok {
				row.Results = append(row.Results, SeatResult{
					Seat:      r.Seat,
					BetSize:   r.BetSize,
					TricksWon: r.TricksWon,
					Bonus:     r.Bonus != 0,
					Score:     r.Score,
				})
			}
		}
		data.Hands = append(data.Hands, row)
	}
	return data
}

// errorCode maps engine rejections to stable protocol error codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrOutOfTurn), errors.Is(err, game.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, game.ErrAlreadyBet):
		return "already_bet"
	case errors.Is(err, game.ErrMustNotBalance):
		return "must_not_balance"
	case errors.Is(err, game.ErrCardNotHeld):
		return "card_not_held"
	case errors.Is(err, game.ErrMustFollowSuitOrTrump):
		return "illegal_play"
	case errors.Is(err, game.ErrBettingIncomplete):
		return "betting_incomplete"
	case errors.Is(err, game.ErrHandClosed):
		return "hand_closed"
	case errors.Is(err, game.ErrSequence):
		return "out_of_sequence"
	case errors.Is(err, game.ErrConfiguration):
		return "invalid_request"
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrRoomFull), errors.Is(err, ErrServerFull):
		return "room_full"
	case errors.Is(err, ErrNotHost):
		return "not_host"
	case errors.Is(err, ErrNotSeated), errors.Is(err, ErrNotInRoom):
		return "not_in_game"
	case errors.Is(err, ErrGameNotStarted), errors.Is(err, ErrGameStarted):
		return "wrong_game_state"
	case errors.Is(err, ErrTooFewPlayers):
		return "too_few_players"
	default:
		return "internal_error"
	}
}
