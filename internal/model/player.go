package model

import "github.com/google/uuid"

// RoundStatus of a member within the current round.
type RoundStatus string

const (
	StatusActive     RoundStatus = "ACTIVE"
	StatusEliminated RoundStatus = "ELIMINATED"
)

// PlayerMembership is a player's durable seat in a room. It survives
// disconnects once a round has started so the player can resume their role.
type PlayerMembership struct {
	UserID      uuid.UUID
	Username    string
	RoomCode    RoomCode
	RoundStatus RoundStatus
	IsImpostor  bool
	IsWinner    bool
	HasVoted    bool

	// VotedFor is uuid.Nil unless HasVoted is true.
	VotedFor uuid.UUID
}

func (p PlayerMembership) Active() bool {
	return p.RoundStatus == StatusActive
}
