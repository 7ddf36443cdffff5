package roles

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

var ErrBadImpostorCount = errors.New("impostor count must be at least 1 and below the player count")

// Assigner selects the impostor set for a round.
type Assigner struct {
	rng *rand.Rand
}

func New() *Assigner {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

func NewWithSource(src rand.Source) *Assigner {
	return &Assigner{rng: rand.New(src)}
}

// Assign picks impostorCount distinct ids uniformly at random from
// playerIDs via a partial Fisher-Yates shuffle: each of the first
// impostorCount positions is swapped with a uniformly chosen later one, so
// every subset of that size is equally likely.
func (a *Assigner) Assign(playerIDs []uuid.UUID, impostorCount int) (map[uuid.UUID]struct{}, error) {
	if impostorCount < 1 || impostorCount >= len(playerIDs) {
		return nil, ErrBadImpostorCount
	}

	pool := make([]uuid.UUID, len(playerIDs))
	copy(pool, playerIDs)

	impostors := make(map[uuid.UUID]struct{}, impostorCount)
	for i := 0; i < impostorCount; i++ {
		j := i + a.rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		impostors[pool[i]] = struct{}{}
	}
	return impostors, nil
}
