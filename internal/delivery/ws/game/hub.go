package ws_game

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/swemmanuelgz/impostor-backend/internal/model"
	"github.com/swemmanuelgz/impostor-backend/internal/round"
)

// Hub fans game events out to connected sockets. Room events reach every
// client attached to the room; user events reach one client only, which is
// how roles and private errors travel.
type Hub struct {
	mu sync.RWMutex

	// Keep track of sets of Clients within each room.
	rooms map[model.RoomCode]map[*Client]bool

	// One live socket per user. A newer socket for the same user replaces
	// the older one in this index.
	users map[uuid.UUID]*Client

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:  make(map[model.RoomCode]map[*Client]bool),
		users:  make(map[uuid.UUID]*Client),
		logger: logger,
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.users[client.UserID] = client

	h.logger.Info("client registered",
		"user_id", client.UserID.String(),
		"session_id", client.SessionID)
}

func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.users[client.UserID] == client {
		delete(h.users, client.UserID)
	}
	if room, ok := h.rooms[client.roomCode]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.roomCode)
		}
	}
	close(client.send)

	h.logger.Info("client unregistered",
		"user_id", client.UserID.String(),
		"session_id", client.SessionID)
}

// AttachToRoom subscribes the socket to a room's events. Must happen before
// the join is executed so the joining player sees their own join event.
// Returns false when the client was already attached to this room; callers
// rolling back a failed join must leave such an attachment in place.
func (h *Hub) AttachToRoom(client *Client, roomCode model.RoomCode) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.roomCode == roomCode {
		return false
	}
	h.detachLocked(client)

	if _, ok := h.rooms[roomCode]; !ok {
		h.rooms[roomCode] = make(map[*Client]bool)
	}
	h.rooms[roomCode][client] = true
	client.roomCode = roomCode
	return true
}

func (h *Hub) DetachFromRoom(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(client)
}

func (h *Hub) detachLocked(client *Client) {
	if room, ok := h.rooms[client.roomCode]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.roomCode)
		}
	}
	client.roomCode = model.EmptyRoomCode
}

func (h *Hub) ToRoom(roomCode model.RoomCode, event round.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	messageBytes, _ := json.Marshal(event)

	if clients, ok := h.rooms[roomCode]; ok {
		for client := range clients {
			select {
			case client.send <- messageBytes:
			default:
				// Slow consumer. Drop the event rather than block the room.
				h.logger.Warn("dropped event for slow client",
					"user_id", client.UserID.String(),
					"room", string(roomCode),
					"type", event.Type)
			}
		}
	}
}

func (h *Hub) ToUser(userID uuid.UUID, event round.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.users[userID]
	if !ok {
		return
	}

	messageBytes, _ := json.Marshal(event)
	select {
	case client.send <- messageBytes:
	default:
		h.logger.Warn("dropped private event for slow client",
			"user_id", userID.String(),
			"type", event.Type)
	}
}
