package infra_postgres_game

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/swemmanuelgz/impostor-backend/internal/model"
)

type RoomDB struct {
	ID         uuid.UUID    `db:"id"`
	Code       string       `db:"code"`
	Phase      string       `db:"phase"`
	CreatorID  uuid.UUID    `db:"creator_id"`
	Word       string       `db:"word"`
	Category   string       `db:"category"`
	MaxPlayers int          `db:"max_players"`
	CreatedAt  time.Time    `db:"created_at"`
	StartedAt  sql.NullTime `db:"started_at"`
}

func (r *RoomDB) ToDomain() model.Room {
	room := model.Room{
		ID:         r.ID,
		Code:       model.RoomCode(r.Code),
		Phase:      model.Phase(r.Phase),
		CreatorID:  r.CreatorID,
		Word:       r.Word,
		Category:   r.Category,
		MaxPlayers: r.MaxPlayers,
		CreatedAt:  r.CreatedAt,
	}
	if r.StartedAt.Valid {
		room.StartedAt = r.StartedAt.Time
	}
	return room
}

func RoomFromDomain(room model.Room) RoomDB {
	dbRoom := RoomDB{
		ID:         room.ID,
		Code:       string(room.Code),
		Phase:      string(room.Phase),
		CreatorID:  room.CreatorID,
		Word:       room.Word,
		Category:   room.Category,
		MaxPlayers: room.MaxPlayers,
		CreatedAt:  room.CreatedAt,
	}
	if room.Started() {
		dbRoom.StartedAt = sql.NullTime{Time: room.StartedAt, Valid: true}
	}
	return dbRoom
}

type PlayerDB struct {
	UserID      uuid.UUID `db:"user_id"`
	Username    string    `db:"username"`
	RoomCode    string    `db:"room_code"`
	RoundStatus string    `db:"round_status"`
	IsImpostor  bool      `db:"is_impostor"`
	IsWinner    bool      `db:"is_winner"`
	HasVoted    bool      `db:"has_voted"`
	VotedFor    uuid.UUID `db:"voted_for"`
}

func (p *PlayerDB) ToDomain() model.PlayerMembership {
	return model.PlayerMembership{
		UserID:      p.UserID,
		Username:    p.Username,
		RoomCode:    model.RoomCode(p.RoomCode),
		RoundStatus: model.RoundStatus(p.RoundStatus),
		IsImpostor:  p.IsImpostor,
		IsWinner:    p.IsWinner,
		HasVoted:    p.HasVoted,
		VotedFor:    p.VotedFor,
	}
}

func PlayerFromDomain(p model.PlayerMembership) PlayerDB {
	return PlayerDB{
		UserID:      p.UserID,
		Username:    p.Username,
		RoomCode:    string(p.RoomCode),
		RoundStatus: string(p.RoundStatus),
		IsImpostor:  p.IsImpostor,
		IsWinner:    p.IsWinner,
		HasVoted:    p.HasVoted,
		VotedFor:    p.VotedFor,
	}
}
