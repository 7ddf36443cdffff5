package round

import (
	"bytes"

	"github.com/google/uuid"

	"github.com/swemmanuelgz/impostor-backend/internal/model"
)

// allVoted reports whether every ACTIVE member has voted.
func allVoted(players map[uuid.UUID]*model.PlayerMembership) bool {
	for _, p := range players {
		if p.Active() && !p.HasVoted {
			return false
		}
	}
	return true
}

// voteCounts tallies votedFor across ACTIVE members.
func voteCounts(players map[uuid.UUID]*model.PlayerMembership) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int)
	for _, p := range players {
		if p.Active() && p.HasVoted {
			counts[p.VotedFor]++
		}
	}
	return counts
}

// mostVoted returns the id with the highest count. Ties break to the lowest
// userID in byte order; the result never depends on map iteration order.
func mostVoted(players map[uuid.UUID]*model.PlayerMembership) (uuid.UUID, error) {
	counts := voteCounts(players)
	if len(counts) == 0 {
		return uuid.Nil, ErrNoVotes
	}

	var winner uuid.UUID
	maxVotes := -1
	for id, n := range counts {
		if n > maxVotes || (n == maxVotes && bytes.Compare(id[:], winner[:]) < 0) {
			winner = id
			maxVotes = n
		}
	}
	return winner, nil
}

// resetVotes clears hasVoted and votedFor together on all ACTIVE members.
func resetVotes(players map[uuid.UUID]*model.PlayerMembership) {
	for _, p := range players {
		if p.Active() {
			p.HasVoted = false
			p.VotedFor = uuid.Nil
		}
	}
}

func countActive(players map[uuid.UUID]*model.PlayerMembership) (impostors, citizens int) {
	for _, p := range players {
		if !p.Active() {
			continue
		}
		if p.IsImpostor {
			impostors++
		} else {
			citizens++
		}
	}
	return impostors, citizens
}
