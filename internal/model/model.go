package model

import (
	"time"

	"github.com/google/uuid"
)

type RoomCode string

const EmptyRoomCode RoomCode = ""

// Phase is the lifecycle stage of a room. FINISHED is terminal.
type Phase string

const (
	PhaseWaiting    Phase = "WAITING"
	PhaseInProgress Phase = "IN_PROGRESS"
	PhaseVoting     Phase = "VOTING"
	PhaseFinished   Phase = "FINISHED"
)

const (
	DefaultMaxPlayers = 8
	MaxPlayersPerRoom = 12
	MinPlayersToStart = 3

	RoomCodeLength = 6
)

type Room struct {
	ID         uuid.UUID
	Code       RoomCode
	Phase      Phase
	CreatorID  uuid.UUID
	Word       string
	Category   string
	MaxPlayers int
	CreatedAt  time.Time
	StartedAt  time.Time
}

func (r Room) Started() bool {
	return !r.StartedAt.IsZero()
}
