package round

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/swemmanuelgz/impostor-backend/internal/model"
)

// PlayerView is the outward shape of a membership. Roles are redacted until
// the game is over.
type PlayerView struct {
	UserID      string            `json:"userId"`
	Username    string            `json:"username"`
	RoundStatus model.RoundStatus `json:"roundStatus"`
	Connected   bool              `json:"connected"`
	HasVoted    bool              `json:"hasVoted"`
	IsImpostor  *bool             `json:"isImpostor,omitempty"`
	IsWinner    *bool             `json:"isWinner,omitempty"`
}

// RoomView is the outward shape of a live room.
type RoomView struct {
	GameID         string       `json:"gameId"`
	RoomCode       string       `json:"roomCode"`
	Phase          model.Phase  `json:"phase"`
	CreatorID      string       `json:"creatorId"`
	Category       string       `json:"category,omitempty"`
	CurrentPlayers int          `json:"currentPlayers"`
	MaxPlayers     int          `json:"maxPlayers"`
	CreatedAt      time.Time    `json:"createdAt"`
	StartedAt      *time.Time   `json:"startedAt,omitempty"`
	Players        []PlayerView `json:"players"`
}

// Snapshot renders the current state of a room for the REST surface.
func (c *Controller) Snapshot(roomCode model.RoomCode) (RoomView, error) {
	rs, err := c.state(roomCode)
	if err != nil {
		return RoomView{}, err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return c.viewLocked(rs), nil
}

// ActiveRoomForUser finds the most recently created non-FINISHED room the
// user holds a membership in: the reconnect-discovery call.
func (c *Controller) ActiveRoomForUser(userID uuid.UUID) (RoomView, bool) {
	var (
		best      *roomState
		bestStamp time.Time
	)
	for _, code := range c.Codes() {
		rs, err := c.state(code)
		if err != nil {
			continue
		}
		rs.mu.Lock()
		_, member := rs.players[userID]
		createdAt := rs.room.CreatedAt
		finished := rs.room.Phase == model.PhaseFinished
		rs.mu.Unlock()

		if member && !finished && createdAt.After(bestStamp) {
			best, bestStamp = rs, createdAt
		}
	}
	if best == nil {
		return RoomView{}, false
	}
	best.mu.Lock()
	defer best.mu.Unlock()
	return c.viewLocked(best), true
}

func (c *Controller) viewLocked(rs *roomState) RoomView {
	revealed := rs.room.Phase == model.PhaseFinished

	players := make([]PlayerView, 0, len(rs.players))
	for _, p := range rs.players {
		view := PlayerView{
			UserID:      p.UserID.String(),
			Username:    p.Username,
			RoundStatus: p.RoundStatus,
			Connected:   c.sessions.IsConnected(rs.room.Code, p.UserID),
			HasVoted:    p.HasVoted,
		}
		if revealed {
			isImpostor, isWinner := p.IsImpostor, p.IsWinner
			view.IsImpostor = &isImpostor
			view.IsWinner = &isWinner
		}
		players = append(players, view)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].UserID < players[j].UserID })

	view := RoomView{
		GameID:         rs.room.ID.String(),
		RoomCode:       string(rs.room.Code),
		Phase:          rs.room.Phase,
		CreatorID:      rs.room.CreatorID.String(),
		Category:       rs.room.Category,
		CurrentPlayers: c.sessions.ConnectedCount(rs.room.Code),
		MaxPlayers:     rs.room.MaxPlayers,
		CreatedAt:      rs.room.CreatedAt,
		Players:        players,
	}
	if rs.room.Started() {
		startedAt := rs.room.StartedAt
		view.StartedAt = &startedAt
	}
	return view
}
