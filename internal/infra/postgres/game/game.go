package infra_postgres_game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/swemmanuelgz/impostor-backend/internal/model"
)

var ErrRoomNotFound = errors.New("room not found")

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

func (d *Driver) SaveRoom(ctx context.Context, room model.Room) error {
	roomDB := RoomFromDomain(room)

	query := `
		INSERT INTO rooms (id, code, phase, creator_id, word, category, max_players, created_at, started_at)
		VALUES (:id, :code, :phase, :creator_id, :word, :category, :max_players, :created_at, :started_at)
		ON CONFLICT (code) DO UPDATE SET
			phase = EXCLUDED.phase,
			word = EXCLUDED.word,
			category = EXCLUDED.category,
			max_players = EXCLUDED.max_players,
			started_at = EXCLUDED.started_at
	`

	_, err := d.db.NamedExecContext(ctx, query, roomDB)
	if err != nil {
		return fmt.Errorf("failed to save room %s: %w", room.Code, err)
	}

	return nil
}

// SavePlayers replaces the stored roster for a room with the given one.
// The durable roster and the live one must agree after every phase change,
// so partial updates are not offered.
func (d *Driver) SavePlayers(ctx context.Context, roomCode model.RoomCode, players []model.PlayerMembership) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin roster tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM room_players WHERE room_code = $1`, string(roomCode)); err != nil {
		return fmt.Errorf("failed to clear roster for %s: %w", roomCode, err)
	}

	query := `
		INSERT INTO room_players (user_id, username, room_code, round_status, is_impostor, is_winner, has_voted, voted_for)
		VALUES (:user_id, :username, :room_code, :round_status, :is_impostor, :is_winner, :has_voted, :voted_for)
	`
	for _, p := range players {
		if _, err := tx.NamedExecContext(ctx, query, PlayerFromDomain(p)); err != nil {
			return fmt.Errorf("failed to save player %s in %s: %w", p.UserID, roomCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit roster for %s: %w", roomCode, err)
	}

	return nil
}

func (d *Driver) DeleteRoom(ctx context.Context, roomCode model.RoomCode) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM room_players WHERE room_code = $1`, string(roomCode)); err != nil {
		return fmt.Errorf("failed to delete roster for %s: %w", roomCode, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE code = $1`, string(roomCode)); err != nil {
		return fmt.Errorf("failed to delete room %s: %w", roomCode, err)
	}

	return tx.Commit()
}

func (d *Driver) LoadRoom(ctx context.Context, roomCode model.RoomCode) (model.Room, error) {
	query := `
		SELECT id, code, phase, creator_id, word, category, max_players, created_at, started_at
		FROM rooms
		WHERE code = $1
	`

	var roomDB RoomDB
	if err := d.db.GetContext(ctx, &roomDB, query, string(roomCode)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Room{}, ErrRoomNotFound
		}
		return model.Room{}, fmt.Errorf("failed to load room %s: %w", roomCode, err)
	}

	return roomDB.ToDomain(), nil
}

func (d *Driver) LoadPlayers(ctx context.Context, roomCode model.RoomCode) ([]model.PlayerMembership, error) {
	query := `
		SELECT user_id, username, room_code, round_status, is_impostor, is_winner, has_voted, voted_for
		FROM room_players
		WHERE room_code = $1
		ORDER BY username
	`

	var playersDB []PlayerDB
	if err := d.db.SelectContext(ctx, &playersDB, query, string(roomCode)); err != nil {
		return nil, fmt.Errorf("failed to load roster for %s: %w", roomCode, err)
	}

	players := make([]model.PlayerMembership, len(playersDB))
	for i, p := range playersDB {
		players[i] = p.ToDomain()
	}

	return players, nil
}
