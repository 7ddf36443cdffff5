package roles

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type AssignerUnitSuite struct {
	suite.Suite
}

func validPlayerIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := 0; i < n; i++ {
		ids[i] = uuid.New()
	}
	return ids
}

func (s *AssignerUnitSuite) TestAssign(t provider.T) {
	t.Parallel()

	t.Run("Should pick exactly the requested count", func(t provider.T) {
		a := NewWithSource(rand.NewSource(1))
		ids := validPlayerIDs(8)

		impostors, err := a.Assign(ids, 2)

		assert.NoError(t, err)
		assert.Len(t, impostors, 2)
	})

	t.Run("Should only pick from the given players", func(t provider.T) {
		a := NewWithSource(rand.NewSource(2))
		ids := validPlayerIDs(5)
		members := make(map[uuid.UUID]struct{}, len(ids))
		for _, id := range ids {
			members[id] = struct{}{}
		}

		impostors, err := a.Assign(ids, 1)

		assert.NoError(t, err)
		for id := range impostors {
			_, ok := members[id]
			assert.True(t, ok)
		}
	})

	t.Run("Should not mutate the input slice", func(t provider.T) {
		a := NewWithSource(rand.NewSource(3))
		ids := validPlayerIDs(6)
		original := make([]uuid.UUID, len(ids))
		copy(original, ids)

		_, err := a.Assign(ids, 2)

		assert.NoError(t, err)
		assert.Equal(t, original, ids)
	})
}

func (s *AssignerUnitSuite) TestAssignBadCount(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		players       int
		impostorCount int
	}{
		{name: "Should reject zero impostors", players: 5, impostorCount: 0},
		{name: "Should reject negative count", players: 5, impostorCount: -1},
		{name: "Should reject count equal to player count", players: 5, impostorCount: 5},
		{name: "Should reject count above player count", players: 5, impostorCount: 6},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			a := NewWithSource(rand.NewSource(4))

			impostors, err := a.Assign(validPlayerIDs(tc.players), tc.impostorCount)

			assert.ErrorIs(t, err, ErrBadImpostorCount)
			assert.Nil(t, impostors)
		})
	}
}

func (s *AssignerUnitSuite) TestAssignEventuallyCoversEveryone(t provider.T) {
	t.Parallel()

	a := NewWithSource(rand.NewSource(5))
	ids := validPlayerIDs(4)

	picked := make(map[uuid.UUID]struct{})
	for i := 0; i < 200; i++ {
		impostors, err := a.Assign(ids, 1)
		assert.NoError(t, err)
		for id := range impostors {
			picked[id] = struct{}{}
		}
	}

	// With 200 single-impostor draws over 4 players, every player should
	// have been chosen at least once.
	assert.Len(t, picked, len(ids))
}

func TestAssignerUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(AssignerUnitSuite))
}
