package round

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/swemmanuelgz/impostor-backend/internal/model"
	"github.com/swemmanuelgz/impostor-backend/internal/session"
)

const (
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	createRetries = 5

	// Bound on the persistence calls made while a voting round resolves, so
	// a stuck write cannot wedge the room forever.
	defaultResolveTimeout = 5 * time.Second
)

// Repository is the persistence collaborator. Only durable game facts go
// through it: phase, roles, votes, eliminations, winners. Session
// bookkeeping never does.
//
//go:generate mockery --name=Repository --output=./mocks --filename=repository.go
type Repository interface {
	SaveRoom(ctx context.Context, room model.Room) error
	SavePlayers(ctx context.Context, roomCode model.RoomCode, players []model.PlayerMembership) error
	DeleteRoom(ctx context.Context, roomCode model.RoomCode) error
}

// CodeReserver guards room-code uniqueness across instances.
//
//go:generate mockery --name=CodeReserver --output=./mocks --filename=code_reserver.go
type CodeReserver interface {
	Reserve(ctx context.Context, code model.RoomCode) (bool, error)
	Release(ctx context.Context, code model.RoomCode) error
}

// WordSupplier provides the fallback secret word for rounds started without
// one.
type WordSupplier interface {
	RandomWordWithCategory() model.WordWithCategory
}

// RoleAssigner picks the impostor set at round start.
type RoleAssigner interface {
	Assign(playerIDs []uuid.UUID, impostorCount int) (map[uuid.UUID]struct{}, error)
}

// roomState is the single live instance of a room. Compound operations that
// read-then-decide-then-write are serialized on mu, per room; rooms never
// contend with each other.
type roomState struct {
	mu      sync.Mutex
	room    model.Room
	players map[uuid.UUID]*model.PlayerMembership

	// resolving is claimed before a voting round resolves so two deliveries
	// of the deciding vote cannot double-resolve.
	resolving atomic.Bool
}

// Controller owns every live room and its phase transitions. All state is
// in-process; construct one per process and tear it down with Close.
type Controller struct {
	repo       Repository
	codes      CodeReserver
	sessions   *session.Registry
	reconnects *session.Tracker
	words      WordSupplier
	assigner   RoleAssigner
	broadcast  Broadcaster
	logger     *slog.Logger

	resolveTimeout time.Duration
	now            func() time.Time
	randUint       func(n int) int

	mu    sync.RWMutex
	rooms map[model.RoomCode]*roomState
}

func New(
	repo Repository,
	codes CodeReserver,
	sessions *session.Registry,
	reconnects *session.Tracker,
	words WordSupplier,
	assigner RoleAssigner,
	broadcast Broadcaster,
	logger *slog.Logger,
	opts ...Option,
) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		repo:           repo,
		codes:          codes,
		sessions:       sessions,
		reconnects:     reconnects,
		words:          words,
		assigner:       assigner,
		broadcast:      broadcast,
		logger:         logger,
		resolveTimeout: defaultResolveTimeout,
		now:            time.Now,
		randUint:       defaultRandUint,
		rooms:          make(map[model.RoomCode]*roomState),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Option func(*Controller)

func WithResolveTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.resolveTimeout = d
		}
	}
}

// Close drops all live rooms. Session state follows; persisted rows stay.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for code := range c.rooms {
		c.sessions.DropRoom(code)
		delete(c.rooms, code)
	}
}

// ===== room lifecycle =====

// CreateRoom books a fresh room with a unique code and seats the creator as
// its first member.
func (c *Controller) CreateRoom(ctx context.Context, creator model.User, category string, maxPlayers int) (model.Room, error) {
	if maxPlayers <= 0 {
		maxPlayers = model.DefaultMaxPlayers
	}
	if maxPlayers > model.MaxPlayersPerRoom {
		maxPlayers = model.MaxPlayersPerRoom
	}

	code, err := c.reserveCode(ctx)
	if err != nil {
		return model.Room{}, err
	}

	room := model.Room{
		ID:         uuid.New(),
		Code:       code,
		Phase:      model.PhaseWaiting,
		CreatorID:  creator.ID,
		Category:   category,
		MaxPlayers: maxPlayers,
		CreatedAt:  c.now(),
	}
	rs := &roomState{
		room:    room,
		players: map[uuid.UUID]*model.PlayerMembership{},
	}
	rs.players[creator.ID] = &model.PlayerMembership{
		UserID:      creator.ID,
		Username:    creator.Username,
		RoomCode:    code,
		RoundStatus: model.StatusActive,
	}

	if err := c.persist(ctx, rs); err != nil {
		_ = c.codes.Release(ctx, code)
		return model.Room{}, err
	}

	c.mu.Lock()
	c.rooms[code] = rs
	c.mu.Unlock()

	c.logger.Info("room created",
		slog.String("room", string(code)),
		slog.String("creator_id", creator.ID.String()))
	return room, nil
}

// Assuming codes can conflict across instances; retrying.
func (c *Controller) reserveCode(ctx context.Context) (model.RoomCode, error) {
	for retries := createRetries; retries > 0; retries-- {
		code := c.buildCode()

		c.mu.RLock()
		_, live := c.rooms[code]
		c.mu.RUnlock()
		if live {
			continue
		}

		reserved, err := c.codes.Reserve(ctx, code)
		if err != nil {
			return model.EmptyRoomCode, errors.Join(ErrInternal, err)
		}
		if reserved {
			return code, nil
		}
	}
	return model.EmptyRoomCode, coded("INTERNAL", "could not find a free room code")
}

func (c *Controller) buildCode() model.RoomCode {
	var b strings.Builder
	b.Grow(model.RoomCodeLength)
	for i := 0; i < model.RoomCodeLength; i++ {
		b.WriteByte(codeCharset[c.randUint(len(codeCharset))])
	}
	return model.RoomCode(b.String())
}

// Join admits a user into a room. New players are accepted only while the
// room is WAITING; a player who already holds a membership is treated as
// reconnecting and admitted in any non-FINISHED phase.
func (c *Controller) Join(ctx context.Context, roomCode model.RoomCode, user model.User, sessionID string) error {
	rs, err := c.state(roomCode)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.room.Phase == model.PhaseFinished {
		return ErrGameFinished
	}

	if _, rejoin := rs.players[user.ID]; !rejoin && len(rs.players) >= rs.room.MaxPlayers {
		return coded(ErrRoomFull.Code, "room %s is full (max %d)", roomCode, rs.room.MaxPlayers)
	}
	if err := c.sessions.ValidateCanJoin(roomCode, user.ID); err != nil {
		switch {
		case errors.Is(err, session.ErrRoomFull):
			return coded(ErrRoomFull.Code, "room %s is full (max %d)", roomCode, model.MaxPlayersPerRoom)
		case errors.Is(err, session.ErrAlreadyInRoom):
			return ErrAlreadyInRoom
		default:
			return errors.Join(ErrInternal, err)
		}
	}

	member, rejoining := rs.players[user.ID]
	if !rejoining {
		if rs.room.Phase != model.PhaseWaiting {
			return ErrAlreadyStarted
		}
		member = &model.PlayerMembership{
			UserID:      user.ID,
			Username:    user.Username,
			RoomCode:    roomCode,
			RoundStatus: model.StatusActive,
		}
		rs.players[user.ID] = member
		if err := c.persistPlayers(ctx, rs); err != nil {
			delete(rs.players, user.ID)
			return err
		}
	}

	c.sessions.Connect(roomCode, user.ID, sessionID)
	c.reconnects.Forget(user.ID)

	event := newEvent(EventPlayerJoined, rs.room)
	event.SenderID = user.ID.String()
	event.SenderUsername = member.Username
	event.Content = member.Username + " joined the room"
	event.CurrentPlayers = c.sessions.ConnectedCount(roomCode)
	event.MaxPlayers = rs.room.MaxPlayers
	c.broadcast.ToRoom(roomCode, event)

	// A member resuming a live round through the join path recovers their
	// role and word the same way the reconnect path does.
	if rejoining && (rs.room.Phase == model.PhaseInProgress || rs.room.Phase == model.PhaseVoting) {
		c.sendRoleLocked(rs, member)
	}

	c.logger.Info("player joined",
		slog.String("room", string(roomCode)),
		slog.String("user_id", user.ID.String()),
		slog.Bool("rejoin", rejoining))
	return nil
}

// Leave removes a player. In WAITING the membership is deleted for good and
// an emptied room is torn down; once a round has started the membership is
// retained so the seat can be resumed, and the room stays up even if it is
// transiently empty (the reaper closes it explicitly).
func (c *Controller) Leave(ctx context.Context, roomCode model.RoomCode, userID uuid.UUID, sessionID string) error {
	rs, err := c.state(roomCode)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()

	member, ok := rs.players[userID]
	if !ok {
		return ErrPlayerNotInRoom
	}

	if sessionID != "" {
		c.sessions.Disconnect(sessionID)
	}

	if rs.room.Phase == model.PhaseWaiting {
		delete(rs.players, userID)
		if len(rs.players) == 0 {
			c.teardownLocked(ctx, rs)
			return nil
		}
		if err := c.persistPlayers(ctx, rs); err != nil {
			return err
		}
	}

	event := newEvent(EventPlayerLeft, rs.room)
	event.SenderID = userID.String()
	event.SenderUsername = member.Username
	event.CurrentPlayers = c.sessions.ConnectedCount(roomCode)
	event.MaxPlayers = rs.room.MaxPlayers
	c.broadcast.ToRoom(roomCode, event)

	c.logger.Info("player left",
		slog.String("room", string(roomCode)),
		slog.String("user_id", userID.String()),
		slog.String("phase", string(rs.room.Phase)))
	return nil
}

// HandleDisconnect processes a transport-level drop. The player gets a
// grace-window record; during WAITING their seat is also released, mirroring
// an explicit leave.
func (c *Controller) HandleDisconnect(ctx context.Context, sessionID string) {
	res := c.sessions.Disconnect(sessionID)
	if !res.Known {
		return
	}

	c.reconnects.Record(res.UserID, res.RoomCode, c.now())

	rs, err := c.state(res.RoomCode)
	if err != nil {
		return
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()

	member, ok := rs.players[res.UserID]
	if !ok {
		return
	}
	username := member.Username
	isHost := rs.room.CreatorID == res.UserID

	if rs.room.Phase == model.PhaseWaiting {
		delete(rs.players, res.UserID)
		c.reconnects.Forget(res.UserID)
		if len(rs.players) == 0 {
			c.teardownLocked(ctx, rs)
			return
		}
		if err := c.persistPlayers(ctx, rs); err != nil {
			c.logger.Error("failed to persist player removal", slog.String("error", err.Error()))
		}
	}

	eventType := EventPlayerDisconnected
	countdown := 0
	if isHost {
		eventType = EventHostDisconnected
		countdown = int(c.reconnects.GraceWindow().Seconds())
	}

	event := newEvent(eventType, rs.room)
	event.SenderID = res.UserID.String()
	event.SenderUsername = username
	event.CurrentPlayers = c.sessions.ConnectedCount(res.RoomCode)
	event.MaxPlayers = rs.room.MaxPlayers
	if countdown > 0 {
		event.Data = map[string]any{"reconnectTimeoutSeconds": countdown}
	}
	c.broadcast.ToRoom(res.RoomCode, event)

	c.logger.Info("disconnect handled",
		slog.String("room", string(res.RoomCode)),
		slog.String("user_id", res.UserID.String()),
		slog.Bool("host", isHost),
		slog.Bool("room_empty", res.RoomEmpty))
}

// Reconnect readmits a player within the grace window and resends their
// role privately. A failed attempt is reported once to the player's private
// channel and alters no room state.
func (c *Controller) Reconnect(ctx context.Context, roomCode model.RoomCode, userID uuid.UUID, newSessionID string) error {
	rs, err := c.state(roomCode)
	if err != nil {
		c.broadcast.ToUser(userID, errorEvent(roomCode, ErrRoomNotFound))
		return ErrRoomNotFound
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()

	member, ok := rs.players[userID]
	if !ok {
		c.broadcast.ToUser(userID, errorEvent(roomCode, ErrPlayerNotInRoom))
		return ErrPlayerNotInRoom
	}

	if !c.reconnects.Attempt(userID, roomCode, newSessionID, c.now()) {
		c.broadcast.ToUser(userID, errorEvent(roomCode, ErrReconnectFailed))
		return ErrReconnectFailed
	}

	eventType := EventPlayerReconnected
	if rs.room.CreatorID == userID {
		eventType = EventHostReconnected
	}
	event := newEvent(eventType, rs.room)
	event.SenderID = userID.String()
	event.SenderUsername = member.Username
	event.CurrentPlayers = c.sessions.ConnectedCount(roomCode)
	event.MaxPlayers = rs.room.MaxPlayers
	c.broadcast.ToRoom(roomCode, event)

	// Role and word are resent unchanged when a round is live.
	if rs.room.Phase == model.PhaseInProgress || rs.room.Phase == model.PhaseVoting {
		c.sendRoleLocked(rs, member)
	}
	return nil
}

// ===== round flow =====

// StartInput is the structured start-round request. Parsing any legacy
// delimited wire format happens at the transport boundary, never here.
type StartInput struct {
	Word          string
	ImpostorCount int
}

// Start moves a WAITING room into IN_PROGRESS: assigns impostors, records
// the secret word (generated when none was supplied) and deals each player
// their role on the private channel.
func (c *Controller) Start(ctx context.Context, roomCode model.RoomCode, requesterID uuid.UUID, in StartInput) error {
	rs, err := c.state(roomCode)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.room.Phase != model.PhaseWaiting {
		return ErrAlreadyStarted
	}
	if rs.room.CreatorID != requesterID {
		return ErrNotCreator
	}
	connected := c.sessions.ConnectedCount(roomCode)
	if connected < model.MinPlayersToStart {
		return coded(ErrNotEnoughPlayers.Code, "need %d connected players, have %d", model.MinPlayersToStart, connected)
	}

	word := strings.TrimSpace(in.Word)
	category := rs.room.Category
	if word == "" {
		generated := c.words.RandomWordWithCategory()
		word, category = generated.Word, generated.Category
		c.logger.Info("generated fallback word",
			slog.String("room", string(roomCode)),
			slog.String("category", category))
	}

	impostorCount := in.ImpostorCount
	if impostorCount == 0 {
		impostorCount = 1
	}
	ids := memberIDs(rs.players)
	impostors, err := c.assigner.Assign(ids, impostorCount)
	if err != nil {
		return coded(ErrBadImpostorCount.Code, "impostor count %d invalid for %d players", impostorCount, len(ids))
	}

	for id, p := range rs.players {
		_, isImpostor := impostors[id]
		p.IsImpostor = isImpostor
		p.IsWinner = false
		p.RoundStatus = model.StatusActive
		p.HasVoted = false
		p.VotedFor = uuid.Nil
	}
	rs.room.Phase = model.PhaseInProgress
	rs.room.Word = word
	rs.room.Category = category
	rs.room.StartedAt = c.now()

	if err := c.persist(ctx, rs); err != nil {
		return err
	}

	event := newEvent(EventGameStarted, rs.room)
	event.SenderID = requesterID.String()
	event.CurrentPlayers = connected
	event.MaxPlayers = rs.room.MaxPlayers
	event.Data = map[string]any{
		"category":      category,
		"impostorCount": impostorCount,
	}
	c.broadcast.ToRoom(roomCode, event)

	for _, p := range rs.players {
		c.sendRoleLocked(rs, p)
	}

	c.logger.Info("round started",
		slog.String("room", string(roomCode)),
		slog.Int("players", len(ids)),
		slog.Int("impostors", impostorCount))
	return nil
}

// CastVote records one vote for an ACTIVE player. The deciding vote resolves
// the round in the same critical section; the resolving flag stops a
// duplicate delivery from resolving twice.
func (c *Controller) CastVote(ctx context.Context, roomCode model.RoomCode, voterID, targetID uuid.UUID) error {
	rs, err := c.state(roomCode)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.room.Phase != model.PhaseInProgress && rs.room.Phase != model.PhaseVoting {
		return ErrNotInVoting
	}

	voter, ok := rs.players[voterID]
	if !ok {
		return ErrPlayerNotInRoom
	}
	if !voter.Active() {
		return ErrPlayerEliminated
	}
	if voter.HasVoted {
		return ErrAlreadyVoted
	}
	target, ok := rs.players[targetID]
	if !ok || !target.Active() {
		return ErrInvalidVote
	}

	voter.HasVoted = true
	voter.VotedFor = targetID
	rs.room.Phase = model.PhaseVoting

	if err := c.persist(ctx, rs); err != nil {
		voter.HasVoted = false
		voter.VotedFor = uuid.Nil
		return err
	}

	event := newEvent(EventVoteCast, rs.room)
	event.SenderID = voterID.String()
	event.SenderUsername = voter.Username
	event.Data = map[string]any{"votedForUserId": targetID.String()}
	c.broadcast.ToRoom(roomCode, event)

	if allVoted(rs.players) && rs.resolving.CompareAndSwap(false, true) {
		defer rs.resolving.Store(false)
		c.resolveLocked(ctx, rs)
	}
	return nil
}

// resolveLocked runs with rs.mu held: eliminates the most-voted player,
// checks the citizen win first, then the impostor win, and otherwise starts
// a new discussion round.
func (c *Controller) resolveLocked(ctx context.Context, rs *roomState) {
	ctx, cancel := context.WithTimeout(ctx, c.resolveTimeout)
	defer cancel()

	victimID, err := mostVoted(rs.players)
	if err != nil {
		c.logger.Error("resolution without votes", slog.String("room", string(rs.room.Code)))
		return
	}
	victim := rs.players[victimID]
	wasImpostor := victim.IsImpostor

	// Tally before the elimination lands, so the victim's own ballot still
	// counts in what gets broadcast.
	counts := map[string]int{}
	for id, n := range voteCounts(rs.players) {
		counts[id.String()] = n
	}
	victim.RoundStatus = model.StatusEliminated

	event := newEvent(EventVoteResult, rs.room)
	event.SenderID = victimID.String()
	event.SenderUsername = victim.Username
	event.Data = map[string]any{
		"eliminatedUserId":   victimID.String(),
		"eliminatedUsername": victim.Username,
		"wasImpostor":        wasImpostor,
		"voteCounts":         counts,
	}
	c.broadcast.ToRoom(rs.room.Code, event)

	impostors, citizens := countActive(rs.players)
	switch {
	case wasImpostor && impostors == 0:
		c.finishLocked(ctx, rs, false, "IMPOSTOR_ELIMINATED")
	case impostors >= citizens:
		c.finishLocked(ctx, rs, true, "IMPOSTOR_MAJORITY")
	default:
		resetVotes(rs.players)
		rs.room.Phase = model.PhaseInProgress
		if err := c.persist(ctx, rs); err != nil {
			c.logger.Error("failed to persist new round", slog.String("error", err.Error()))
		}
		next := newEvent(EventNewRound, rs.room)
		next.Content = "New discussion round"
		c.broadcast.ToRoom(rs.room.Code, next)
		c.logger.Info("round continues",
			slog.String("room", string(rs.room.Code)),
			slog.Int("impostors_active", impostors),
			slog.Int("citizens_active", citizens))
	}
}

// End finishes the game explicitly with the given winner side.
func (c *Controller) End(ctx context.Context, roomCode model.RoomCode, impostorsWon bool) error {
	rs, err := c.state(roomCode)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.room.Phase == model.PhaseFinished {
		return ErrGameFinished
	}
	c.finishLocked(ctx, rs, impostorsWon, "ENDED_BY_REQUEST")
	return nil
}

func (c *Controller) finishLocked(ctx context.Context, rs *roomState, impostorsWon bool, reason string) {
	rs.room.Phase = model.PhaseFinished
	impostorNames := make([]string, 0, 1)
	for _, p := range rs.players {
		p.IsWinner = p.IsImpostor == impostorsWon
		if p.IsImpostor {
			impostorNames = append(impostorNames, p.Username)
		}
	}
	sort.Strings(impostorNames)

	if err := c.persist(ctx, rs); err != nil {
		c.logger.Error("failed to persist finished game", slog.String("error", err.Error()))
	}

	event := newEvent(EventGameEnded, rs.room)
	event.Data = map[string]any{
		"impostorWins":  impostorsWon,
		"impostorNames": impostorNames,
		"reason":        reason,
	}
	c.broadcast.ToRoom(rs.room.Code, event)

	c.logger.Info("game ended",
		slog.String("room", string(rs.room.Code)),
		slog.Bool("impostors_won", impostorsWon),
		slog.String("reason", reason))

	c.dropLocked(context.WithoutCancel(ctx), rs)
}

// ===== chat and liveness =====

func (c *Controller) Chat(ctx context.Context, roomCode model.RoomCode, senderID uuid.UUID, username, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyPayload
	}
	rs, err := c.state(roomCode)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !c.sessions.IsConnected(roomCode, senderID) {
		// Tolerated: the sender may be racing a reconnect.
		c.logger.Warn("chat from unconnected player",
			slog.String("room", string(roomCode)),
			slog.String("user_id", senderID.String()))
	}

	event := newEvent(EventChatMessage, rs.room)
	event.SenderID = senderID.String()
	event.SenderUsername = username
	event.Content = text
	c.broadcast.ToRoom(roomCode, event)
	return nil
}

// Heartbeat refreshes the room's last-activity mark and echoes liveness to
// the sender.
func (c *Controller) Heartbeat(roomCode model.RoomCode, userID uuid.UUID) {
	c.sessions.Touch(roomCode)

	rs, err := c.state(roomCode)
	if err != nil {
		return
	}
	c.broadcast.ToUser(userID, newEvent(EventHeartbeat, rs.snapshotRoom()))
}

// ===== queries and cleanup hooks =====

func (c *Controller) HasConnectedPlayers(roomCode model.RoomCode) bool {
	return c.sessions.HasConnectedPlayers(roomCode)
}

// CloseIfEmpty finishes a room with zero currently connected players. It is
// the explicit cleanup entry point the reaper uses; nothing closes an empty
// in-progress room automatically.
func (c *Controller) CloseIfEmpty(ctx context.Context, roomCode model.RoomCode) bool {
	if c.sessions.HasConnectedPlayers(roomCode) {
		return false
	}
	rs, err := c.state(roomCode)
	if err != nil {
		return false
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if c.sessions.HasConnectedPlayers(roomCode) || rs.room.Phase == model.PhaseFinished {
		return false
	}

	c.logger.Info("closing empty room", slog.String("room", string(roomCode)))
	rs.room.Phase = model.PhaseFinished
	if err := c.persist(ctx, rs); err != nil {
		c.logger.Error("failed to persist empty-room close", slog.String("error", err.Error()))
	}
	c.dropLocked(ctx, rs)
	return true
}

// CloseStaleRooms finishes rooms older than maxAge regardless of occupancy
// and reports how many were closed.
func (c *Controller) CloseStaleRooms(ctx context.Context, maxAge time.Duration) int {
	cutoff := c.now().Add(-maxAge)

	closed := 0
	for _, code := range c.Codes() {
		rs, err := c.state(code)
		if err != nil {
			continue
		}
		rs.mu.Lock()
		if rs.room.Phase != model.PhaseFinished && rs.room.CreatedAt.Before(cutoff) {
			c.logger.Info("closing stale room", slog.String("room", string(code)))
			c.finishLocked(ctx, rs, false, "ROOM_EXPIRED")
			closed++
		}
		rs.mu.Unlock()
	}
	return closed
}

func (c *Controller) Codes() []model.RoomCode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.RoomCode, 0, len(c.rooms))
	for code := range c.rooms {
		out = append(out, code)
	}
	return out
}

// ===== internals =====

func (c *Controller) state(roomCode model.RoomCode) (*roomState, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rs, ok := c.rooms[roomCode]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return rs, nil
}

func (c *Controller) sendRoleLocked(rs *roomState, p *model.PlayerMembership) {
	event := newEvent(EventYourRole, rs.room)
	word := rs.room.Word
	if p.IsImpostor {
		word = ""
	}
	event.Data = map[string]any{
		"isImpostor": p.IsImpostor,
		"word":       nullableWord(word),
	}
	c.broadcast.ToUser(p.UserID, event)
}

func nullableWord(word string) any {
	if word == "" {
		return nil
	}
	return word
}

func (c *Controller) persist(ctx context.Context, rs *roomState) error {
	if err := c.repo.SaveRoom(ctx, rs.room); err != nil {
		return errors.Join(ErrInternal, err)
	}
	return c.persistPlayers(ctx, rs)
}

func (c *Controller) persistPlayers(ctx context.Context, rs *roomState) error {
	players := make([]model.PlayerMembership, 0, len(rs.players))
	for _, p := range rs.players {
		players = append(players, *p)
	}
	if err := c.repo.SavePlayers(ctx, rs.room.Code, players); err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

// teardownLocked erases a room that emptied out while WAITING: durable rows
// included, since the game never happened.
func (c *Controller) teardownLocked(ctx context.Context, rs *roomState) {
	if err := c.repo.DeleteRoom(ctx, rs.room.Code); err != nil {
		c.logger.Error("failed to delete room", slog.String("error", err.Error()))
	}
	c.dropLocked(ctx, rs)
	c.logger.Info("empty waiting room deleted", slog.String("room", string(rs.room.Code)))
}

// dropLocked releases all live resources of a room. Persisted rows are left
// as they are.
func (c *Controller) dropLocked(ctx context.Context, rs *roomState) {
	code := rs.room.Code
	c.sessions.DropRoom(code)
	if err := c.codes.Release(ctx, code); err != nil {
		c.logger.Error("failed to release room code", slog.String("error", err.Error()))
	}
	c.mu.Lock()
	delete(c.rooms, code)
	c.mu.Unlock()
}

func (rs *roomState) snapshotRoom() model.Room {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.room
}

func defaultRandUint(n int) int {
	return rand.Intn(n)
}

func memberIDs(players map[uuid.UUID]*model.PlayerMembership) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	return ids
}
