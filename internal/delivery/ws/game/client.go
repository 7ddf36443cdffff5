package ws_game

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/swemmanuelgz/impostor-backend/internal/model"
)

const (
	writeWait = 10 * time.Second

	sendBufferSize = 256
)

// Client is one live socket. The session identifier is minted per
// connection; a reconnecting player arrives with a fresh one.
type Client struct {
	Conn      *websocket.Conn
	UserID    uuid.UUID
	Username  string
	SessionID string

	// roomCode is owned by the hub and guarded by its lock.
	roomCode model.RoomCode

	send chan []byte
}

func NewClient(conn *websocket.Conn, user model.User) *Client {
	return &Client{
		Conn:      conn,
		UserID:    user.ID,
		Username:  user.Username,
		SessionID: uuid.New().String(),
		send:      make(chan []byte, sendBufferSize),
	}
}

// InboundMessage is the wire shape of every client-to-server message.
type InboundMessage struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
	Content  string `json:"content"`
}

// Inbound message types.
const (
	ActionJoinRoom    = "JOIN_ROOM"
	ActionLeaveRoom   = "LEAVE_ROOM"
	ActionReconnect   = "RECONNECT"
	ActionStartRound  = "START_ROUND"
	ActionEndRound    = "END_ROUND"
	ActionCastVote    = "CAST_VOTE"
	ActionChatMessage = "CHAT_MESSAGE"
	ActionHeartbeat   = "HEARTBEAT"
)
