package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swemmanuelgz/impostor-backend/internal/model"
)

// DefaultGraceWindow is how long after a disconnect a player may still
// reconnect and resume their seat. It exists mostly so a host backgrounding
// a mobile app does not end the game for everyone.
const DefaultGraceWindow = 60 * time.Second

type disconnection struct {
	roomCode       model.RoomCode
	disconnectedAt time.Time
}

// Tracker records recent disconnections and adjudicates reconnect attempts
// against the grace window.
type Tracker struct {
	registry *Registry
	grace    time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	records map[uuid.UUID]disconnection
}

func NewTracker(registry *Registry, grace time.Duration, logger *slog.Logger) *Tracker {
	if grace <= 0 {
		grace = DefaultGraceWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		registry: registry,
		grace:    grace,
		logger:   logger,
		records:  make(map[uuid.UUID]disconnection),
	}
}

func (t *Tracker) GraceWindow() time.Duration {
	return t.grace
}

// Record stores a disconnection, overwriting any prior one for the user.
func (t *Tracker) Record(userID uuid.UUID, roomCode model.RoomCode, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records[userID] = disconnection{roomCode: roomCode, disconnectedAt: now}
}

// Attempt succeeds only if a record exists for the user, its room matches
// and the grace window has not elapsed. Success consumes the record and
// re-registers the session. Any failure purges a stale record, so a second
// attempt against the same record also fails.
func (t *Tracker) Attempt(userID uuid.UUID, roomCode model.RoomCode, newSessionID string, now time.Time) bool {
	t.mu.Lock()
	rec, ok := t.records[userID]
	if ok {
		delete(t.records, userID)
	}
	t.mu.Unlock()

	if !ok {
		t.logger.Warn("no disconnection record", slog.String("user_id", userID.String()))
		return false
	}
	if rec.roomCode != roomCode {
		t.logger.Warn("reconnect to different room",
			slog.String("user_id", userID.String()),
			slog.String("original", string(rec.roomCode)),
			slog.String("attempted", string(roomCode)))
		return false
	}
	if now.Sub(rec.disconnectedAt) > t.grace {
		t.logger.Warn("reconnect window elapsed",
			slog.String("user_id", userID.String()),
			slog.Duration("since_disconnect", now.Sub(rec.disconnectedAt)))
		return false
	}

	t.registry.Connect(roomCode, userID, newSessionID)
	t.logger.Info("reconnected",
		slog.String("user_id", userID.String()),
		slog.String("room", string(roomCode)))
	return true
}

// CanReconnect is the read-only form of the window check, for status
// purposes. It does not consume the record.
func (t *Tracker) CanReconnect(userID uuid.UUID, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[userID]
	return ok && now.Sub(rec.disconnectedAt) <= t.grace
}

// Forget drops the record for a user who reconnected through the regular
// join path rather than the reconnect path.
func (t *Tracker) Forget(userID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, userID)
}

// SweepExpired removes records older than twice the grace window so players
// who never return do not grow the map forever. Returns how many were
// removed.
func (t *Tracker) SweepExpired(now time.Time) int {
	cutoff := now.Add(-2 * t.grace)

	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for userID, rec := range t.records {
		if rec.disconnectedAt.Before(cutoff) {
			delete(t.records, userID)
			removed++
		}
	}
	if removed > 0 {
		t.logger.Info("swept expired disconnection records", slog.Int("removed", removed))
	}
	return removed
}
