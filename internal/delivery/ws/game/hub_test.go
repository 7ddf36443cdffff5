package ws_game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/swemmanuelgz/impostor-backend/internal/model"
	"github.com/swemmanuelgz/impostor-backend/internal/round"
)

type HubUnitSuite struct {
	suite.Suite
}

func newTestClient() *Client {
	return &Client{
		UserID:    uuid.New(),
		Username:  "player",
		SessionID: uuid.New().String(),
		send:      make(chan []byte, sendBufferSize),
	}
}

func drain(client *Client) int {
	delivered := 0
	for {
		select {
		case <-client.send:
			delivered++
		default:
			return delivered
		}
	}
}

func (s *HubUnitSuite) TestAttachToRoom(t provider.T) {
	t.Parallel()

	t.Run("Should report first attach as new", func(t provider.T) {
		h := NewHub(nil)
		client := newTestClient()
		h.RegisterClient(client)

		assert.True(t, h.AttachToRoom(client, model.RoomCode("ABC123")))
		assert.False(t, h.AttachToRoom(client, model.RoomCode("ABC123")))
	})

	t.Run("Should move the client between rooms", func(t provider.T) {
		h := NewHub(nil)
		client := newTestClient()
		h.RegisterClient(client)

		h.AttachToRoom(client, model.RoomCode("AAAAAA"))
		assert.True(t, h.AttachToRoom(client, model.RoomCode("BBBBBB")))

		h.ToRoom(model.RoomCode("AAAAAA"), round.Event{Type: round.EventChatMessage})
		h.ToRoom(model.RoomCode("BBBBBB"), round.Event{Type: round.EventChatMessage})

		assert.Equal(t, 1, drain(client))
	})

	t.Run("Should keep delivering after a rejected duplicate join", func(t provider.T) {
		h := NewHub(nil)
		code := model.RoomCode("ABC123")
		client := newTestClient()
		h.RegisterClient(client)

		// First join attaches; the duplicate is rejected by the game and
		// rolled back only if it attached anything, which it did not.
		assert.True(t, h.AttachToRoom(client, code))
		if attached := h.AttachToRoom(client, code); attached {
			h.DetachFromRoom(client)
		}

		h.ToRoom(code, round.Event{Type: round.EventChatMessage})

		assert.Equal(t, 1, drain(client))
	})

	t.Run("Should stop delivering after detach", func(t provider.T) {
		h := NewHub(nil)
		code := model.RoomCode("ABC123")
		client := newTestClient()
		h.RegisterClient(client)

		h.AttachToRoom(client, code)
		h.DetachFromRoom(client)

		h.ToRoom(code, round.Event{Type: round.EventChatMessage})

		assert.Equal(t, 0, drain(client))
	})
}

func (s *HubUnitSuite) TestToUser(t provider.T) {
	t.Parallel()

	t.Run("Should reach only the addressed client", func(t provider.T) {
		h := NewHub(nil)
		code := model.RoomCode("ABC123")
		first := newTestClient()
		second := newTestClient()
		h.RegisterClient(first)
		h.RegisterClient(second)
		h.AttachToRoom(first, code)
		h.AttachToRoom(second, code)

		h.ToUser(first.UserID, round.Event{Type: round.EventYourRole})

		assert.Equal(t, 1, drain(first))
		assert.Equal(t, 0, drain(second))
	})

	t.Run("Should tolerate an unknown user", func(t provider.T) {
		h := NewHub(nil)

		h.ToUser(uuid.New(), round.Event{Type: round.EventYourRole})
	})
}

func TestHubUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(HubUnitSuite))
}
