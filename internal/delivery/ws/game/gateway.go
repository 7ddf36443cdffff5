package ws_game

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/swemmanuelgz/impostor-backend/internal/model"
	"github.com/swemmanuelgz/impostor-backend/internal/round"
)

// Gateway turns inbound socket messages into game operations and keeps the
// hub membership in step with the player's room.
type Gateway struct {
	hub    *Hub
	rounds *round.Controller
	logger *slog.Logger
}

func NewGateway(hub *Hub, rounds *round.Controller, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		hub:    hub,
		rounds: rounds,
		logger: logger,
	}
}

// HandleConn owns the socket from upgrade to close.
func (g *Gateway) HandleConn(conn *websocket.Conn, user model.User) {
	client := NewClient(conn, user)
	g.hub.RegisterClient(client)

	go g.startClientWriting(client)
	g.startClientReading(client)
}

func (g *Gateway) startClientReading(client *Client) {
	defer func() {
		// The grace window starts the moment the socket drops.
		g.rounds.HandleDisconnect(context.Background(), client.SessionID)
		g.hub.RemoveClient(client)
		client.Conn.Close()
	}()

	for {
		var msg InboundMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.logger.Warn("socket read failed",
					"user_id", client.UserID.String(),
					"error", err.Error())
			}
			return
		}
		g.dispatch(client, msg)
	}
}

func (g *Gateway) startClientWriting(client *Client) {
	defer client.Conn.Close()

	for message := range client.send {
		_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (g *Gateway) dispatch(client *Client, msg InboundMessage) {
	ctx := context.Background()
	roomCode := model.RoomCode(strings.ToUpper(strings.TrimSpace(msg.RoomCode)))
	user := model.User{ID: client.UserID, Username: client.Username}

	switch msg.Type {
	case ActionJoinRoom:
		// Attach before joining so the joiner sees their own join event.
		attached := g.hub.AttachToRoom(client, roomCode)
		if err := g.rounds.Join(ctx, roomCode, user, client.SessionID); err != nil {
			// A rejected duplicate join must not unsubscribe the live
			// attachment; only roll back what this join created.
			if attached {
				g.hub.DetachFromRoom(client)
			}
			g.sendError(client, roomCode, err)
		}

	case ActionLeaveRoom:
		if err := g.rounds.Leave(ctx, roomCode, client.UserID, client.SessionID); err != nil {
			g.sendError(client, roomCode, err)
			return
		}
		g.hub.DetachFromRoom(client)

	case ActionReconnect:
		attached := g.hub.AttachToRoom(client, roomCode)
		if err := g.rounds.Reconnect(ctx, roomCode, client.UserID, client.SessionID); err != nil && attached {
			g.hub.DetachFromRoom(client)
		}

	case ActionStartRound:
		in := parseStartContent(msg.Content)
		if err := g.rounds.Start(ctx, roomCode, client.UserID, in); err != nil {
			g.sendError(client, roomCode, err)
		}

	case ActionEndRound:
		impostorsWon, _ := strconv.ParseBool(strings.TrimSpace(msg.Content))
		if err := g.rounds.End(ctx, roomCode, impostorsWon); err != nil {
			g.sendError(client, roomCode, err)
		}

	case ActionCastVote:
		targetID, err := uuid.Parse(strings.TrimSpace(msg.Content))
		if err != nil {
			g.sendError(client, roomCode, round.ErrInvalidVote)
			return
		}
		if err := g.rounds.CastVote(ctx, roomCode, client.UserID, targetID); err != nil {
			g.sendError(client, roomCode, err)
		}

	case ActionChatMessage:
		if err := g.rounds.Chat(ctx, roomCode, client.UserID, client.Username, msg.Content); err != nil {
			g.sendError(client, roomCode, err)
		}

	case ActionHeartbeat:
		g.rounds.Heartbeat(roomCode, client.UserID)

	default:
		g.logger.Warn("unknown message type",
			"type", msg.Type,
			"user_id", client.UserID.String())
	}
}

// parseStartContent accepts the legacy "WORD|n" content format, a bare word,
// or nothing at all. The zero StartInput asks for a generated word and one
// impostor.
func parseStartContent(content string) round.StartInput {
	content = strings.TrimSpace(content)
	if content == "" {
		return round.StartInput{}
	}

	word, countRaw, ok := strings.Cut(content, "|")
	in := round.StartInput{Word: strings.TrimSpace(word)}
	if !ok {
		return in
	}
	if n, err := strconv.Atoi(strings.TrimSpace(countRaw)); err == nil {
		in.ImpostorCount = n
	}
	return in
}

func (g *Gateway) sendError(client *Client, roomCode model.RoomCode, err error) {
	var coded *round.Error
	if !errors.As(err, &coded) {
		coded = round.ErrInternal
	}

	g.hub.ToUser(client.UserID, round.Event{
		Type:      round.EventError,
		RoomCode:  roomCode,
		ErrorCode: coded.Code,
		Content:   coded.Message,
		Timestamp: time.Now(),
	})
}
