package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/swemmanuelgz/impostor-backend/internal/model"
)

type RegistryUnitSuite struct {
	suite.Suite
}

func validRoomCode() model.RoomCode {
	return model.RoomCode("ABC123")
}

func validSessionID() string {
	return uuid.New().String()
}

func (s *RegistryUnitSuite) TestConnectDisconnect(t provider.T) {
	t.Parallel()

	t.Run("Should track connected player", func(t provider.T) {
		r := NewRegistry(nil)
		code := validRoomCode()
		userID := uuid.New()
		sessionID := validSessionID()

		r.Connect(code, userID, sessionID)

		assert.True(t, r.IsConnected(code, userID))
		assert.Equal(t, 1, r.ConnectedCount(code))

		got, ok := r.RoomForUser(userID)
		assert.True(t, ok)
		assert.Equal(t, code, got)
	})

	t.Run("Should be idempotent for same room", func(t provider.T) {
		r := NewRegistry(nil)
		code := validRoomCode()
		userID := uuid.New()

		r.Connect(code, userID, validSessionID())
		r.Connect(code, userID, validSessionID())

		assert.Equal(t, 1, r.ConnectedCount(code))
	})

	t.Run("Should report disconnect result", func(t provider.T) {
		r := NewRegistry(nil)
		code := validRoomCode()
		userID := uuid.New()
		sessionID := validSessionID()
		r.Connect(code, userID, sessionID)

		res := r.Disconnect(sessionID)

		assert.True(t, res.Known)
		assert.Equal(t, userID, res.UserID)
		assert.Equal(t, code, res.RoomCode)
		assert.True(t, res.RoomEmpty)
		assert.False(t, r.IsConnected(code, userID))
	})

	t.Run("Should tolerate unknown session", func(t provider.T) {
		r := NewRegistry(nil)

		res := r.Disconnect(validSessionID())

		assert.False(t, res.Known)
	})

	t.Run("Should not report empty room while others remain", func(t provider.T) {
		r := NewRegistry(nil)
		code := validRoomCode()
		first := validSessionID()
		r.Connect(code, uuid.New(), first)
		r.Connect(code, uuid.New(), validSessionID())

		res := r.Disconnect(first)

		assert.True(t, res.Known)
		assert.False(t, res.RoomEmpty)
		assert.Equal(t, 1, r.ConnectedCount(code))
	})
}

func (s *RegistryUnitSuite) TestSingleRoomInvariant(t provider.T) {
	t.Parallel()

	t.Run("Should detach from previous room on connect elsewhere", func(t provider.T) {
		r := NewRegistry(nil)
		userID := uuid.New()
		first := model.RoomCode("AAAAAA")
		second := model.RoomCode("BBBBBB")

		r.Connect(first, userID, validSessionID())
		r.Connect(second, userID, validSessionID())

		assert.False(t, r.IsConnected(first, userID))
		assert.True(t, r.IsConnected(second, userID))

		got, ok := r.RoomForUser(userID)
		assert.True(t, ok)
		assert.Equal(t, second, got)
	})
}

func (s *RegistryUnitSuite) TestSupersededSession(t provider.T) {
	t.Parallel()

	t.Run("Should ignore disconnect of a replaced session", func(t provider.T) {
		r := NewRegistry(nil)
		code := validRoomCode()
		userID := uuid.New()
		oldSession := validSessionID()

		r.Connect(code, userID, oldSession)
		r.Connect(code, userID, validSessionID())

		// The old socket finally times out after the user already came
		// back on a new one. That must not evict the live session.
		res := r.Disconnect(oldSession)

		assert.False(t, res.Known)
		assert.True(t, r.IsConnected(code, userID))
		assert.Equal(t, 1, r.ConnectedCount(code))
	})

	t.Run("Should still disconnect the current session normally", func(t provider.T) {
		r := NewRegistry(nil)
		code := validRoomCode()
		userID := uuid.New()
		newSession := validSessionID()

		r.Connect(code, userID, validSessionID())
		r.Connect(code, userID, newSession)

		res := r.Disconnect(newSession)

		assert.True(t, res.Known)
		assert.True(t, res.RoomEmpty)
		assert.False(t, r.IsConnected(code, userID))
	})

	t.Run("Should purge the old binding on room switch", func(t provider.T) {
		r := NewRegistry(nil)
		userID := uuid.New()
		first := model.RoomCode("AAAAAA")
		second := model.RoomCode("BBBBBB")
		oldSession := validSessionID()

		r.Connect(first, userID, oldSession)
		r.Connect(second, userID, validSessionID())

		res := r.Disconnect(oldSession)

		assert.False(t, res.Known)
		assert.True(t, r.IsConnected(second, userID))
	})
}

func (s *RegistryUnitSuite) TestValidateCanJoin(t provider.T) {
	t.Parallel()

	t.Run("Should allow fresh join", func(t provider.T) {
		r := NewRegistry(nil)

		assert.NoError(t, r.ValidateCanJoin(validRoomCode(), uuid.New()))
	})

	t.Run("Should reject duplicate connection", func(t provider.T) {
		r := NewRegistry(nil)
		code := validRoomCode()
		userID := uuid.New()
		r.Connect(code, userID, validSessionID())

		assert.ErrorIs(t, r.ValidateCanJoin(code, userID), ErrAlreadyInRoom)
	})

	t.Run("Should reject join over hard cap", func(t provider.T) {
		r := NewRegistry(nil)
		code := validRoomCode()
		for i := 0; i < model.MaxPlayersPerRoom; i++ {
			r.Connect(code, uuid.New(), validSessionID())
		}

		assert.ErrorIs(t, r.ValidateCanJoin(code, uuid.New()), ErrRoomFull)
	})
}

func (s *RegistryUnitSuite) TestDropRoom(t provider.T) {
	t.Parallel()

	r := NewRegistry(nil)
	code := validRoomCode()
	userID := uuid.New()
	sessionID := validSessionID()
	r.Connect(code, userID, sessionID)

	r.DropRoom(code)

	assert.Equal(t, 0, r.ConnectedCount(code))
	_, ok := r.RoomForUser(userID)
	assert.False(t, ok)

	res := r.Disconnect(sessionID)
	assert.False(t, res.Known)
}

func (s *RegistryUnitSuite) TestConcurrentConnects(t provider.T) {
	const perRoom = 50

	r := NewRegistry(nil)
	rooms := []model.RoomCode{"AAAAAA", "BBBBBB", "CCCCCC"}

	var wg sync.WaitGroup
	for _, code := range rooms {
		for i := 0; i < perRoom; i++ {
			wg.Add(1)
			go func(code model.RoomCode, i int) {
				defer wg.Done()
				r.Connect(code, uuid.New(), fmt.Sprintf("%s-%d", code, i))
			}(code, i)
		}
	}
	wg.Wait()

	for _, code := range rooms {
		assert.Equal(t, perRoom, r.ConnectedCount(code))
		assert.Len(t, r.ConnectedIDs(code), perRoom)
	}
}

func TestRegistryUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(RegistryUnitSuite))
}
