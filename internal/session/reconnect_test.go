package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type TrackerUnitSuite struct {
	suite.Suite
}

func newTrackerForTest() (*Tracker, *Registry) {
	registry := NewRegistry(nil)
	return NewTracker(registry, DefaultGraceWindow, nil), registry
}

func (s *TrackerUnitSuite) TestAttemptWindow(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		elapsed  time.Duration
		expected bool
	}{
		{
			name:     "Should reconnect well inside window",
			elapsed:  45 * time.Second,
			expected: true,
		},
		{
			name:     "Should reconnect exactly at window edge",
			elapsed:  60 * time.Second,
			expected: true,
		},
		{
			name:     "Should fail after window elapsed",
			elapsed:  65 * time.Second,
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			tracker, registry := newTrackerForTest()
			code := validRoomCode()
			userID := uuid.New()
			droppedAt := time.Now()

			tracker.Record(userID, code, droppedAt)

			ok := tracker.Attempt(userID, code, validSessionID(), droppedAt.Add(tc.elapsed))

			assert.Equal(t, tc.expected, ok)
			assert.Equal(t, tc.expected, registry.IsConnected(code, userID))
		})
	}
}

func (s *TrackerUnitSuite) TestAttemptSupersedesOldSession(t provider.T) {
	t.Parallel()

	t.Run("Should survive the old socket closing after reconnect", func(t provider.T) {
		tracker, registry := newTrackerForTest()
		code := validRoomCode()
		userID := uuid.New()
		oldSession := validSessionID()
		droppedAt := time.Now()

		registry.Connect(code, userID, oldSession)
		tracker.Record(userID, code, droppedAt)

		assert.True(t, tracker.Attempt(userID, code, validSessionID(), droppedAt.Add(10*time.Second)))

		// The replaced socket's read loop exits last. Its disconnect is
		// stale and must not touch the reconnected session.
		res := registry.Disconnect(oldSession)

		assert.False(t, res.Known)
		assert.True(t, registry.IsConnected(code, userID))
	})
}

func (s *TrackerUnitSuite) TestAttemptConsumesRecord(t provider.T) {
	t.Parallel()

	t.Run("Should fail second attempt after success", func(t provider.T) {
		tracker, _ := newTrackerForTest()
		code := validRoomCode()
		userID := uuid.New()
		droppedAt := time.Now()
		tracker.Record(userID, code, droppedAt)

		assert.True(t, tracker.Attempt(userID, code, validSessionID(), droppedAt))
		assert.False(t, tracker.Attempt(userID, code, validSessionID(), droppedAt))
	})

	t.Run("Should purge record on failed attempt", func(t provider.T) {
		tracker, _ := newTrackerForTest()
		code := validRoomCode()
		userID := uuid.New()
		droppedAt := time.Now()
		tracker.Record(userID, code, droppedAt)

		assert.False(t, tracker.Attempt(userID, "ZZZZZZ", validSessionID(), droppedAt))
		assert.False(t, tracker.Attempt(userID, code, validSessionID(), droppedAt))
	})

	t.Run("Should fail without any record", func(t provider.T) {
		tracker, _ := newTrackerForTest()

		assert.False(t, tracker.Attempt(uuid.New(), validRoomCode(), validSessionID(), time.Now()))
	})
}

func (s *TrackerUnitSuite) TestCanReconnect(t provider.T) {
	t.Parallel()

	tracker, _ := newTrackerForTest()
	code := validRoomCode()
	userID := uuid.New()
	droppedAt := time.Now()
	tracker.Record(userID, code, droppedAt)

	assert.True(t, tracker.CanReconnect(userID, droppedAt.Add(30*time.Second)))
	assert.False(t, tracker.CanReconnect(userID, droppedAt.Add(2*time.Minute)))

	// Read-only: the record must survive both checks.
	assert.True(t, tracker.Attempt(userID, code, validSessionID(), droppedAt))
}

func (s *TrackerUnitSuite) TestForget(t provider.T) {
	t.Parallel()

	tracker, _ := newTrackerForTest()
	code := validRoomCode()
	userID := uuid.New()
	tracker.Record(userID, code, time.Now())

	tracker.Forget(userID)

	assert.False(t, tracker.Attempt(userID, code, validSessionID(), time.Now()))
}

func (s *TrackerUnitSuite) TestSweepExpired(t provider.T) {
	t.Parallel()

	tracker, _ := newTrackerForTest()
	now := time.Now()

	fresh := uuid.New()
	expired := uuid.New()
	tracker.Record(fresh, validRoomCode(), now.Add(-30*time.Second))
	tracker.Record(expired, validRoomCode(), now.Add(-3*time.Minute))

	removed := tracker.SweepExpired(now)

	assert.Equal(t, 1, removed)
	assert.True(t, tracker.CanReconnect(fresh, now))
	assert.False(t, tracker.CanReconnect(expired, now))
}

func TestTrackerUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(TrackerUnitSuite))
}
