package http_game

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	infra_postgres_game "github.com/swemmanuelgz/impostor-backend/internal/infra/postgres/game"
	"github.com/swemmanuelgz/impostor-backend/internal/model"
)

type HistoryUnitSuite struct {
	suite.Suite
}

type fakeArchive struct {
	rooms   map[model.RoomCode]model.Room
	players map[model.RoomCode][]model.PlayerMembership
}

func (a *fakeArchive) LoadRoom(_ context.Context, code model.RoomCode) (model.Room, error) {
	room, ok := a.rooms[code]
	if !ok {
		return model.Room{}, infra_postgres_game.ErrRoomNotFound
	}
	return room, nil
}

func (a *fakeArchive) LoadPlayers(_ context.Context, code model.RoomCode) ([]model.PlayerMembership, error) {
	return a.players[code], nil
}

func newHistoryRouter(archive GameArchive) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	New(nil, nil, nil, archive).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func storedGame(code model.RoomCode, phase model.Phase) (model.Room, []model.PlayerMembership) {
	impostorID := uuid.New()
	citizenID := uuid.New()
	room := model.Room{
		ID:         uuid.New(),
		Code:       code,
		Phase:      phase,
		CreatorID:  citizenID,
		Word:       "APPLE",
		Category:   "Animals",
		MaxPlayers: model.DefaultMaxPlayers,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		StartedAt:  time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC),
	}
	players := []model.PlayerMembership{
		{UserID: citizenID, Username: "citizen", RoomCode: code, RoundStatus: model.StatusActive},
		{UserID: impostorID, Username: "impostor", RoomCode: code, RoundStatus: model.StatusEliminated, IsImpostor: true},
	}
	return room, players
}

func (s *HistoryUnitSuite) TestHistory(t provider.T) {
	t.Parallel()

	t.Run("Should serve a finished game with roles revealed", func(t provider.T) {
		code := model.RoomCode("ABC123")
		room, players := storedGame(code, model.PhaseFinished)
		router := newHistoryRouter(&fakeArchive{
			rooms:   map[model.RoomCode]model.Room{code: room},
			players: map[model.RoomCode][]model.PlayerMembership{code: players},
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/games/abc123/history", nil)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp HistoryResponseDTO
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ABC123", resp.RoomCode)
		assert.Equal(t, "FINISHED", resp.Phase)
		assert.Equal(t, "APPLE", resp.Word)
		assert.NotNil(t, resp.StartedAt)
		assert.Len(t, resp.Players, 2)
		for _, p := range resp.Players {
			assert.NotNil(t, p.IsImpostor)
			assert.Equal(t, p.Username == "impostor", *p.IsImpostor)
		}
	})

	t.Run("Should redact the word and roles while the game runs", func(t provider.T) {
		code := model.RoomCode("ABC123")
		room, players := storedGame(code, model.PhaseInProgress)
		router := newHistoryRouter(&fakeArchive{
			rooms:   map[model.RoomCode]model.Room{code: room},
			players: map[model.RoomCode][]model.PlayerMembership{code: players},
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/games/ABC123/history", nil)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp HistoryResponseDTO
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.Word)
		for _, p := range resp.Players {
			assert.Nil(t, p.IsImpostor)
			assert.Nil(t, p.IsWinner)
		}
	})

	t.Run("Should answer not found for an unknown code", func(t provider.T) {
		router := newHistoryRouter(&fakeArchive{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/games/ZZZZZZ/history", nil)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHistoryUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(HistoryUnitSuite))
}
