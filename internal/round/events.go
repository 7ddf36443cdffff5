package round

import (
	"time"

	"github.com/google/uuid"

	"github.com/swemmanuelgz/impostor-backend/internal/model"
)

// Outbound event types delivered to the room channel or a player's private
// channel.
const (
	EventPlayerJoined       = "PLAYER_JOINED"
	EventPlayerLeft         = "PLAYER_LEFT"
	EventPlayerDisconnected = "PLAYER_DISCONNECTED"
	EventHostDisconnected   = "HOST_DISCONNECTED"
	EventPlayerReconnected  = "PLAYER_RECONNECTED"
	EventHostReconnected    = "HOST_RECONNECTED"
	EventGameStarted        = "GAME_STARTED"
	EventYourRole           = "YOUR_ROLE"
	EventVoteCast           = "VOTE_CAST"
	EventVoteResult         = "VOTE_RESULT"
	EventNewRound           = "NEW_ROUND"
	EventGameEnded          = "GAME_ENDED"
	EventChatMessage        = "CHAT_MESSAGE"
	EventHeartbeat          = "HEARTBEAT"
	EventError              = "ERROR"
)

// Event is the wire shape of every outbound message.
type Event struct {
	Type           string         `json:"type"`
	GameID         uuid.UUID      `json:"gameId,omitempty"`
	RoomCode       model.RoomCode `json:"roomCode,omitempty"`
	SenderID       string         `json:"senderId,omitempty"`
	SenderUsername string         `json:"senderUsername,omitempty"`
	Content        string         `json:"content,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
	ErrorCode      string         `json:"errorCode,omitempty"`
	CurrentPlayers int            `json:"currentPlayers,omitempty"`
	MaxPlayers     int            `json:"maxPlayers,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

// Broadcaster is the transport fan-out the controller publishes through.
// Delivery is at-most-once; the core never retries.
type Broadcaster interface {
	ToRoom(roomCode model.RoomCode, event Event)
	ToUser(userID uuid.UUID, event Event)
}

func newEvent(eventType string, room model.Room) Event {
	return Event{
		Type:      eventType,
		GameID:    room.ID,
		RoomCode:  room.Code,
		Timestamp: time.Now(),
	}
}

func errorEvent(roomCode model.RoomCode, err *Error) Event {
	return Event{
		Type:      EventError,
		RoomCode:  roomCode,
		ErrorCode: err.Code,
		Content:   err.Message,
		Timestamp: time.Now(),
	}
}
