package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypeAuth        MessageType = "auth"
	MessageTypeCreateRoom  MessageType = "create_room"
	MessageTypeJoinRoom    MessageType = "join_room"
	MessageTypeLeaveRoom   MessageType = "leave_room"
	MessageTypeListRooms   MessageType = "list_rooms"
	MessageTypeAssignSeats MessageType = "assign_seats"
	MessageTypeDealHand    MessageType = "deal_hand"
	MessageTypePlaceBet    MessageType = "place_bet"
	MessageTypePlayCard    MessageType = "play_card"
	MessageTypeGetHand     MessageType = "get_hand"
	MessageTypeGetScores   MessageType = "get_scores"

	// Server to client messages
	MessageTypeError         MessageType = "error"
	MessageTypeAuthResponse  MessageType = "auth_response"
	MessageTypeRoomCreated   MessageType = "room_created"
	MessageTypeRoomJoined    MessageType = "room_joined"
	MessageTypeRoomLeft      MessageType = "room_left"
	MessageTypeRoomList      MessageType = "room_list"
	MessageTypeSeatsAssigned MessageType = "seats_assigned"
	MessageTypeHandDealt     MessageType = "hand_dealt"
	MessageTypeCardsDealt    MessageType = "cards_dealt"
	MessageTypeBetPlaced     MessageType = "bet_placed"
	MessageTypeCardPlayed    MessageType = "card_played"
	MessageTypeTrickWon      MessageType = "trick_won"
	MessageTypeHandClosed    MessageType = "hand_closed"
	MessageTypeGameFinished  MessageType = "game_finished"
	MessageTypePlayerIdle    MessageType = "player_idle"
	MessageTypeHandState     MessageType = "hand_state"
	MessageTypeScoreTable    MessageType = "score_table"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
