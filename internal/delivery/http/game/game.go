package http_game

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	http_common "github.com/swemmanuelgz/impostor-backend/internal/delivery/http/common"
	ws_game "github.com/swemmanuelgz/impostor-backend/internal/delivery/ws/game"
	infra_postgres_game "github.com/swemmanuelgz/impostor-backend/internal/infra/postgres/game"
	"github.com/swemmanuelgz/impostor-backend/internal/model"
	"github.com/swemmanuelgz/impostor-backend/internal/round"
	service_identity "github.com/swemmanuelgz/impostor-backend/internal/service/identity"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GameArchive reads games back from durable storage, including ones that
// have finished and left the live set.
type GameArchive interface {
	LoadRoom(ctx context.Context, roomCode model.RoomCode) (model.Room, error)
	LoadPlayers(ctx context.Context, roomCode model.RoomCode) ([]model.PlayerMembership, error)
}

type Controller struct {
	rounds   *round.Controller
	identity *service_identity.Service
	gateway  *ws_game.Gateway
	archive  GameArchive

	logger *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(rounds *round.Controller,
	identity *service_identity.Service,
	gateway *ws_game.Gateway,
	archive GameArchive,
	opts ...ControllerOption) *Controller {
	c := &Controller{
		rounds:   rounds,
		identity: identity,
		gateway:  gateway,
		archive:  archive,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	games := router.Group("/games")
	{
		games.POST("", c.create)
		games.GET("/ws", c.gameWS)
		games.GET("/active", c.active)
		games.GET("/:room_code", c.snapshot)
		games.GET("/:room_code/players", c.players)
		games.GET("/:room_code/history", c.history)
	}

	router.POST("/players", c.register)
}

type RegisterRequestDTO struct {
	Username string `json:"username"`
}

type RegisterResponseDTO struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// register issues a player identity token. Everything else, joining
// included, happens over the socket with this token.
func (c *Controller) register(ctx *gin.Context) {
	var req RegisterRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "incorrect request"})
		return
	}

	token, user, err := c.identity.Issue(req.Username)
	if err != nil {
		if errors.Is(err, service_identity.ErrBadUsername) {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "bad username"})
			return
		}
		c.logger.Error("failed to issue token", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	ctx.Header("X-user-token", token)
	ctx.JSON(http.StatusCreated, RegisterResponseDTO{
		UserID:   user.ID.String(),
		Username: user.Username,
	})
}

type CreateRequestDTO struct {
	Username   string `json:"username"`
	Category   string `json:"category"`
	MaxPlayers int    `json:"maxPlayers"`
}

type CreateResponseDTO struct {
	RoomCode string `json:"roomCode"`
	GameID   string `json:"gameId"`
	UserID   string `json:"userId"`
}

func (c *Controller) create(ctx *gin.Context) {
	var req CreateRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "incorrect request"})
		return
	}

	token, user, err := c.identity.Issue(req.Username)
	if err != nil {
		if errors.Is(err, service_identity.ErrBadUsername) {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{Message: "bad username"})
			return
		}
		c.logger.Error("failed to issue creator token", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	room, err := c.rounds.CreateRoom(ctx.Request.Context(), user, req.Category, req.MaxPlayers)
	if err != nil {
		c.logger.Error("failed to create room", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	ctx.Header("X-user-token", token)
	ctx.JSON(http.StatusCreated, CreateResponseDTO{
		RoomCode: string(room.Code),
		GameID:   room.ID.String(),
		UserID:   user.ID.String(),
	})
}

func (c *Controller) snapshot(ctx *gin.Context) {
	code := model.RoomCode(strings.ToUpper(ctx.Param("room_code")))

	view, err := c.rounds.Snapshot(code)
	if err != nil {
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "not found"})
		return
	}

	ctx.JSON(http.StatusOK, view)
}

func (c *Controller) players(ctx *gin.Context) {
	code := model.RoomCode(strings.ToUpper(ctx.Param("room_code")))

	view, err := c.rounds.Snapshot(code)
	if err != nil {
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "not found"})
		return
	}

	ctx.JSON(http.StatusOK, view.Players)
}

type HistoryPlayerDTO struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	RoundStatus string `json:"roundStatus"`
	IsImpostor  *bool  `json:"isImpostor,omitempty"`
	IsWinner    *bool  `json:"isWinner,omitempty"`
}

type HistoryResponseDTO struct {
	GameID    string             `json:"gameId"`
	RoomCode  string             `json:"roomCode"`
	Phase     string             `json:"phase"`
	Category  string             `json:"category,omitempty"`
	Word      string             `json:"word,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	StartedAt *time.Time         `json:"startedAt,omitempty"`
	Players   []HistoryPlayerDTO `json:"players"`
}

// history serves a game from durable storage, so a finished game stays
// readable after its room leaves the live set. Roles and the word are only
// revealed once the game is over.
func (c *Controller) history(ctx *gin.Context) {
	code := model.RoomCode(strings.ToUpper(ctx.Param("room_code")))

	room, err := c.archive.LoadRoom(ctx.Request.Context(), code)
	if err != nil {
		if errors.Is(err, infra_postgres_game.ErrRoomNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "not found"})
			return
		}
		c.logger.Error("failed to load stored room", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}
	players, err := c.archive.LoadPlayers(ctx.Request.Context(), code)
	if err != nil {
		c.logger.Error("failed to load stored roster", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}

	revealed := room.Phase == model.PhaseFinished
	resp := HistoryResponseDTO{
		GameID:    room.ID.String(),
		RoomCode:  string(room.Code),
		Phase:     string(room.Phase),
		Category:  room.Category,
		CreatedAt: room.CreatedAt,
		Players:   make([]HistoryPlayerDTO, 0, len(players)),
	}
	if revealed {
		resp.Word = room.Word
	}
	if room.Started() {
		startedAt := room.StartedAt
		resp.StartedAt = &startedAt
	}
	for _, p := range players {
		dto := HistoryPlayerDTO{
			UserID:      p.UserID.String(),
			Username:    p.Username,
			RoundStatus: string(p.RoundStatus),
		}
		if revealed {
			isImpostor, isWinner := p.IsImpostor, p.IsWinner
			dto.IsImpostor = &isImpostor
			dto.IsWinner = &isWinner
		}
		resp.Players = append(resp.Players, dto)
	}

	ctx.JSON(http.StatusOK, resp)
}

// active answers "which game am I in" for a client coming back after an
// app restart, before it attempts a socket reconnect.
func (c *Controller) active(ctx *gin.Context) {
	user, ok := c.resolveToken(ctx)
	if !ok {
		return
	}

	view, found := c.rounds.ActiveRoomForUser(user.ID)
	if !found {
		ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "no active game"})
		return
	}

	ctx.JSON(http.StatusOK, view)
}

func (c *Controller) gameWS(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		token = ctx.GetHeader("X-user-token")
	}
	user, err := c.identity.Resolve(token)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unknown token"})
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade to websocket",
			slog.String("error", err.Error()),
		)
		return
	}

	go c.gateway.HandleConn(conn, user)
}

func (c *Controller) resolveToken(ctx *gin.Context) (model.User, bool) {
	userToken := ctx.GetHeader("X-user-token")
	if userToken == "" {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "X-user-token not found"})
		return model.User{}, false
	}

	user, err := c.identity.Resolve(userToken)
	if err != nil {
		if errors.Is(err, service_identity.ErrUnknownToken) {
			ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{Message: "unknown token"})
			return model.User{}, false
		}
		c.logger.Error("failed to resolve token", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return model.User{}, false
	}

	return user, true
}
