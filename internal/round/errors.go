package round

import "fmt"

// Error carries a stable machine-readable code alongside human text. The
// transport layer maps it onto an ERROR outbound event without leaking
// internals.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is lets errors.Is match on the code, so wrapped instances with enriched
// messages still compare against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func coded(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrRoomNotFound     = &Error{Code: "ROOM_NOT_FOUND", Message: "room not found"}
	ErrPlayerNotInRoom  = &Error{Code: "PLAYER_NOT_IN_ROOM", Message: "player is not in the room"}
	ErrRoomFull         = &Error{Code: "ROOM_FULL", Message: "room is full"}
	ErrAlreadyInRoom    = &Error{Code: "ALREADY_IN_ROOM", Message: "player already in room"}
	ErrAlreadyStarted   = &Error{Code: "ALREADY_STARTED", Message: "round already started"}
	ErrGameFinished     = &Error{Code: "GAME_FINISHED", Message: "game already finished"}
	ErrNotCreator       = &Error{Code: "NOT_CREATOR", Message: "only the room creator can start"}
	ErrNotEnoughPlayers = &Error{Code: "NOT_ENOUGH_PLAYERS", Message: "not enough connected players"}
	ErrBadImpostorCount = &Error{Code: "BAD_IMPOSTOR_COUNT", Message: "impostor count out of range"}
	ErrNotInVoting      = &Error{Code: "NOT_IN_VOTING", Message: "no vote may be cast in this phase"}
	ErrAlreadyVoted     = &Error{Code: "ALREADY_VOTED", Message: "player already voted this round"}
	ErrPlayerEliminated = &Error{Code: "PLAYER_ELIMINATED", Message: "eliminated players cannot vote"}
	ErrInvalidVote      = &Error{Code: "INVALID_VOTE", Message: "vote target is not an active player"}
	ErrEmptyPayload     = &Error{Code: "EMPTY_PAYLOAD", Message: "message content is empty"}
	ErrReconnectFailed  = &Error{Code: "RECONNECT_FAILED", Message: "reconnect window elapsed or room mismatch"}
	ErrNoVotes          = &Error{Code: "NO_VOTES", Message: "no votes recorded"}
	ErrInternal         = &Error{Code: "INTERNAL", Message: "internal error"}
)
