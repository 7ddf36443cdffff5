package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swemmanuelgz/impostor-backend/internal/model"
)

var (
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyInRoom = errors.New("player already in room")
)

type binding struct {
	userID   uuid.UUID
	roomCode model.RoomCode
}

// memberSet is the connected set of one room. Each room synchronizes
// independently so operations on different rooms never contend.
type memberSet struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]struct{}
	lastActivity time.Time
}

func (s *memberSet) add(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = struct{}{}
	s.lastActivity = time.Now()
}

func (s *memberSet) remove(userID uuid.UUID) (remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	return len(s.users)
}

func (s *memberSet) contains(userID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[userID]
	return ok
}

func (s *memberSet) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *memberSet) ids() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]uuid.UUID, 0, len(s.users))
	for id := range s.users {
		out = append(out, id)
	}
	return out
}

func (s *memberSet) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
}

// Registry tracks which players are currently connected to which room and
// which transport session belongs to which player. It holds no game state;
// nothing here is ever persisted.
//
// Four independently synchronized collections: the per-room connected sets,
// the global session binding table, a direct userID -> roomCode index
// (kept so RoomForUser is O(1) instead of a scan over every room) and a
// userID -> current sessionID index that lets a superseded socket's late
// disconnect be told apart from a live one.
type Registry struct {
	rooms       sync.Map // model.RoomCode -> *memberSet
	bindings    sync.Map // sessionID string -> binding
	userRoom    sync.Map // uuid.UUID -> model.RoomCode
	userSession sync.Map // uuid.UUID -> sessionID string

	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Connect registers the session binding and adds the user to the room's
// connected set. Idempotent for a user already connected to the same room:
// the binding is re-registered, membership is not duplicated. A user
// connected elsewhere is dropped from the previous room first so a userID
// never appears connected to two rooms, and a user's previous session
// binding is purged so the superseded socket's eventual close cannot evict
// the live session.
func (r *Registry) Connect(roomCode model.RoomCode, userID uuid.UUID, sessionID string) {
	if prev, ok := r.userRoom.Load(userID); ok && prev.(model.RoomCode) != roomCode {
		r.detach(prev.(model.RoomCode), userID)
	}
	if prev, ok := r.userSession.Swap(userID, sessionID); ok && prev.(string) != sessionID {
		r.bindings.Delete(prev.(string))
	}

	r.bindings.Store(sessionID, binding{userID: userID, roomCode: roomCode})
	r.members(roomCode).add(userID)
	r.userRoom.Store(userID, roomCode)

	r.logger.Info("player connected",
		slog.String("room", string(roomCode)),
		slog.String("user_id", userID.String()),
		slog.Int("connected", r.ConnectedCount(roomCode)))
}

// DisconnectResult reports what a Disconnect call actually undid.
type DisconnectResult struct {
	UserID    uuid.UUID
	RoomCode  model.RoomCode
	RoomEmpty bool

	// Known is false for a sessionID the registry never saw. That case is
	// logged, not an error for the caller's business logic.
	Known bool
}

// Disconnect removes the binding and the user's connected-set entry. A
// session the user has already replaced with a newer one is reported as
// unknown and leaves the connected state alone.
func (r *Registry) Disconnect(sessionID string) DisconnectResult {
	v, ok := r.bindings.LoadAndDelete(sessionID)
	if !ok {
		r.logger.Warn("unknown session disconnected", slog.String("session_id", sessionID))
		return DisconnectResult{}
	}
	b := v.(binding)

	if !r.userSession.CompareAndDelete(b.userID, sessionID) {
		r.logger.Info("superseded session disconnected",
			slog.String("session_id", sessionID),
			slog.String("user_id", b.userID.String()))
		return DisconnectResult{}
	}

	remaining := r.detach(b.roomCode, b.userID)

	r.logger.Info("player disconnected",
		slog.String("room", string(b.roomCode)),
		slog.String("user_id", b.userID.String()),
		slog.Int("remaining", remaining))

	return DisconnectResult{
		UserID:    b.userID,
		RoomCode:  b.roomCode,
		RoomEmpty: remaining == 0,
		Known:     true,
	}
}

func (r *Registry) detach(roomCode model.RoomCode, userID uuid.UUID) (remaining int) {
	remaining = -1
	if v, ok := r.rooms.Load(roomCode); ok {
		remaining = v.(*memberSet).remove(userID)
	}
	r.userRoom.CompareAndDelete(userID, roomCode)
	return remaining
}

func (r *Registry) IsConnected(roomCode model.RoomCode, userID uuid.UUID) bool {
	v, ok := r.rooms.Load(roomCode)
	return ok && v.(*memberSet).contains(userID)
}

func (r *Registry) ConnectedCount(roomCode model.RoomCode) int {
	v, ok := r.rooms.Load(roomCode)
	if !ok {
		return 0
	}
	return v.(*memberSet).size()
}

func (r *Registry) ConnectedIDs(roomCode model.RoomCode) []uuid.UUID {
	v, ok := r.rooms.Load(roomCode)
	if !ok {
		return nil
	}
	return v.(*memberSet).ids()
}

func (r *Registry) HasConnectedPlayers(roomCode model.RoomCode) bool {
	return r.ConnectedCount(roomCode) > 0
}

// RoomForUser resolves the room a user is currently connected to.
func (r *Registry) RoomForUser(userID uuid.UUID) (model.RoomCode, bool) {
	v, ok := r.userRoom.Load(userID)
	if !ok {
		return model.EmptyRoomCode, false
	}
	return v.(model.RoomCode), true
}

// ValidateCanJoin rejects a join that would exceed the hard player cap or
// duplicate an existing connection.
func (r *Registry) ValidateCanJoin(roomCode model.RoomCode, userID uuid.UUID) error {
	if r.ConnectedCount(roomCode) >= model.MaxPlayersPerRoom {
		return ErrRoomFull
	}
	if r.IsConnected(roomCode, userID) {
		return ErrAlreadyInRoom
	}
	return nil
}

// Touch updates the room's last-activity timestamp (heartbeats).
func (r *Registry) Touch(roomCode model.RoomCode) {
	if v, ok := r.rooms.Load(roomCode); ok {
		v.(*memberSet).touch()
	}
}

// DropRoom discards all session state for a room that is being torn down.
func (r *Registry) DropRoom(roomCode model.RoomCode) {
	v, ok := r.rooms.LoadAndDelete(roomCode)
	if !ok {
		return
	}
	for _, id := range v.(*memberSet).ids() {
		r.userRoom.CompareAndDelete(id, roomCode)
		r.userSession.Delete(id)
	}
	r.bindings.Range(func(key, value any) bool {
		if value.(binding).roomCode == roomCode {
			r.bindings.Delete(key)
		}
		return true
	})
}

func (r *Registry) members(roomCode model.RoomCode) *memberSet {
	v, _ := r.rooms.LoadOrStore(roomCode, &memberSet{
		users:        make(map[uuid.UUID]struct{}),
		lastActivity: time.Now(),
	})
	return v.(*memberSet)
}
