// internal/handlers/command_server.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/engfrosh/euchre/internal/cache"
	"github.com/engfrosh/euchre/internal/database"
	"github.com/engfrosh/euchre/internal/euchre"
	"github.com/engfrosh/euchre/internal/models"
)

// Command is one incoming player command. Type selects the operation; the
// remaining fields are operation-specific.
type Command struct {
	Type string `json:"type"`

	// Card names a hand card for euchre_accept and euchre_play.
	Card string `json:"card,omitempty"`

	// Players lists the four Discord IDs to seat, for euchre_start.
	Players []string `json:"players,omitempty"`

	// MatchID optionally targets a specific match for euchre_end; only
	// superadmins may end a match they are not seated in.
	MatchID string `json:"match_id,omitempty"`
}

// Reply is the outcome of a dispatched command. Ephemeral replies go only to
// the acting connection; public replies go to every listed recipient.
type Reply struct {
	Text       string   `json:"text"`
	Ephemeral  bool     `json:"ephemeral,omitempty"`
	Recipients []string `json:"-"`
}

// MatchStore is the persistence surface the dispatcher runs against. The
// production implementation is backed by Postgres; tests use an in-memory
// store.
type MatchStore interface {
	CreateMatch(ctx context.Context, m *euchre.Match) error
	LoadMatch(ctx context.Context, id uuid.UUID) (*euchre.Match, error)
	SaveMatch(ctx context.Context, m *euchre.Match) error
	DeleteMatch(ctx context.Context, id uuid.UUID) error
	FindMatchByPlayer(ctx context.Context, discordID string) (uuid.UUID, error)
	RecordMatchResult(ctx context.Context, m *euchre.Match) error
	MaxActionIndex(ctx context.Context, matchID uuid.UUID) (int, error)
}

// pgMatchStore adapts the database package to the MatchStore interface.
type pgMatchStore struct{}

func (pgMatchStore) CreateMatch(ctx context.Context, m *euchre.Match) error {
	return database.CreateMatch(ctx, m)
}
func (pgMatchStore) LoadMatch(ctx context.Context, id uuid.UUID) (*euchre.Match, error) {
	return database.LoadMatch(ctx, id)
}
func (pgMatchStore) SaveMatch(ctx context.Context, m *euchre.Match) error {
	return database.SaveMatch(ctx, m)
}
func (pgMatchStore) DeleteMatch(ctx context.Context, id uuid.UUID) error {
	return database.DeleteMatch(ctx, id)
}
func (pgMatchStore) FindMatchByPlayer(ctx context.Context, discordID string) (uuid.UUID, error) {
	return database.FindMatchByPlayer(ctx, discordID)
}
func (pgMatchStore) RecordMatchResult(ctx context.Context, m *euchre.Match) error {
	return database.RecordMatchResult(ctx, m)
}
func (pgMatchStore) MaxActionIndex(ctx context.Context, matchID uuid.UUID) (int, error) {
	return database.MaxActionIndex(ctx, matchID)
}

// NewPGMatchStore returns the Postgres-backed store. database.ConnectDB must
// have been called first.
func NewPGMatchStore() MatchStore { return pgMatchStore{} }

// CommandServer routes player commands into engine transitions. All I/O and
// synchronization lives here: commands against the same match are serialized
// through a per-match mutex, the aggregate is loaded eagerly, exactly one
// engine transition runs, and the aggregate is saved before the outcome is
// formatted. The engine itself never blocks or touches storage.
type CommandServer struct {
	Logger *logrus.Logger
	Store  MatchStore
	Config Config

	// NewRand supplies the rand source attached to each loaded match, so
	// tests can inject a seeded source.
	NewRand func() *rand.Rand

	mu          sync.Mutex
	matchLocks  map[uuid.UUID]*sync.Mutex
	actionIndex map[uuid.UUID]int
	conns       map[string]*connEntry
}

// NewCommandServer builds a dispatcher around the given store and permission
// config.
func NewCommandServer(logger *logrus.Logger, store MatchStore, cfg Config) *CommandServer {
	return &CommandServer{
		Logger: logger,
		Store:  store,
		Config: cfg,
		NewRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		matchLocks:  make(map[uuid.UUID]*sync.Mutex),
		actionIndex: make(map[uuid.UUID]int),
		conns:       make(map[string]*connEntry),
	}
}

// lockFor returns the mutex serializing commands against one match.
func (s *CommandServer) lockFor(matchID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.matchLocks[matchID]
	if !ok {
		l = &sync.Mutex{}
		s.matchLocks[matchID] = l
	}
	return l
}

// nextActionIndex hands out the per-match ordinal for the action log. The
// counter is seeded from the store on first use so indexes keep ascending
// across process restarts for a match that is still live.
func (s *CommandServer) nextActionIndex(ctx context.Context, matchID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.actionIndex[matchID]; !ok {
		last, err := s.Store.MaxActionIndex(ctx, matchID)
		if err != nil {
			s.Logger.Warnf("failed to read last action index for match %s: %v", matchID, err)
			last = 0
		}
		s.actionIndex[matchID] = last
	}
	s.actionIndex[matchID]++
	return s.actionIndex[matchID]
}

// forgetMatch drops the lock and counter state of an ended match.
func (s *CommandServer) forgetMatch(matchID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matchLocks, matchID)
	delete(s.actionIndex, matchID)
}

// Dispatch applies one command on behalf of the authenticated user and
// returns the reply to deliver. Rule and turn-order rejections come back as
// ephemeral replies, never as errors: the match state is untouched and the
// next command proceeds normally.
func (s *CommandServer) Dispatch(ctx context.Context, actor *models.User, cmd Command) (*Reply, error) {
	switch cmd.Type {
	case "euchre_start":
		return s.handleStart(ctx, actor, cmd)
	case "euchre_hand":
		return s.handleHand(ctx, actor)
	case "euchre_accept", "euchre_reject", "euchre_play":
		return s.handleTransition(ctx, actor, cmd)
	case "euchre_status":
		return s.handleStatus(ctx, actor)
	case "euchre_end":
		return s.handleEnd(ctx, actor, cmd)
	default:
		return nil, fmt.Errorf("unknown command type: %s", cmd.Type)
	}
}

func (s *CommandServer) handleStart(ctx context.Context, actor *models.User, cmd Command) (*Reply, error) {
	if !s.canAdminister(actor) {
		return &Reply{Text: "You do not have permission to start a game.", Ephemeral: true}, nil
	}
	if len(cmd.Players) != 4 {
		return &Reply{Text: "Starting a game requires exactly four players.", Ephemeral: true}, nil
	}

	// Seats are identified by Discord ID, so distinctness must be checked
	// here: every seat gets a fresh player ID below.
	seen := make(map[string]bool, len(cmd.Players))
	players := make([]*models.Player, len(cmd.Players))
	for i, discordID := range cmd.Players {
		if seen[discordID] {
			return &Reply{Text: euchre.ErrDuplicatePlayers.Error(), Ephemeral: true}, nil
		}
		seen[discordID] = true
		players[i] = &models.Player{ID: uuid.New(), DiscordID: discordID}
	}

	m, err := euchre.NewMatch(players, euchre.DefaultRules(), s.NewRand())
	if err != nil {
		var engineErr *euchre.Error
		if errors.As(err, &engineErr) {
			return &Reply{Text: engineErr.Error(), Ephemeral: true}, nil
		}
		return nil, err
	}

	if err := s.Store.CreateMatch(ctx, m); err != nil {
		return nil, err
	}
	s.publishAction(ctx, m.ID, actor.ID, cmd)

	s.Logger.WithFields(logrus.Fields{
		"match_id": m.ID,
		"players":  cmd.Players,
	}).Info("match started")

	return &Reply{Text: FormatMatchStarted(m), Recipients: matchDiscordIDs(m)}, nil
}

func (s *CommandServer) handleHand(ctx context.Context, actor *models.User) (*Reply, error) {
	m, seat, reply, err := s.loadActorMatch(ctx, actor)
	if reply != nil || err != nil {
		return reply, err
	}
	return &Reply{Text: FormatHand(m.Hand(seat.ID)), Ephemeral: true}, nil
}

func (s *CommandServer) handleStatus(ctx context.Context, actor *models.User) (*Reply, error) {
	m, _, reply, err := s.loadActorMatch(ctx, actor)
	if reply != nil || err != nil {
		return reply, err
	}
	return &Reply{Text: FormatStatus(m), Recipients: matchDiscordIDs(m)}, nil
}

// handleTransition runs a single state-machine transition (accept, reject,
// or play) under the match lock and persists the result.
func (s *CommandServer) handleTransition(ctx context.Context, actor *models.User, cmd Command) (*Reply, error) {
	matchID, err := s.Store.FindMatchByPlayer(ctx, actor.DiscordID)
	if err != nil {
		return &Reply{Text: "You are not in an active game.", Ephemeral: true}, nil
	}

	lock := s.lockFor(matchID)
	lock.Lock()
	defer lock.Unlock()

	m, err := s.Store.LoadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	m.SetRand(s.NewRand())

	seat := seatedPlayer(m, actor.DiscordID)
	if seat == nil {
		return &Reply{Text: "You are not seated in this game.", Ephemeral: true}, nil
	}

	var ev *euchre.Event
	switch cmd.Type {
	case "euchre_accept":
		ev, err = m.Accept(seat.ID, cmd.Card)
	case "euchre_reject":
		ev, err = m.Reject(seat.ID)
	case "euchre_play":
		ev, err = m.Play(seat.ID, cmd.Card)
	}
	if err != nil {
		var engineErr *euchre.Error
		if errors.As(err, &engineErr) {
			// Recoverable rejection: nothing was mutated, nothing is saved.
			return &Reply{Text: engineErr.Error(), Ephemeral: true}, nil
		}
		return nil, err
	}

	if err := s.Store.SaveMatch(ctx, m); err != nil {
		return nil, err
	}
	s.publishAction(ctx, m.ID, actor.ID, cmd)

	s.Logger.WithFields(logrus.Fields{
		"match_id": m.ID,
		"actor":    actor.DiscordID,
		"command":  cmd.Type,
		"event":    ev.Type,
	}).Info("command applied")

	return &Reply{Text: FormatEvent(m, ev), Recipients: matchDiscordIDs(m)}, nil
}

func (s *CommandServer) handleEnd(ctx context.Context, actor *models.User, cmd Command) (*Reply, error) {
	if !s.canAdminister(actor) {
		return &Reply{Text: "You do not have permission to end a game.", Ephemeral: true}, nil
	}

	var matchID uuid.UUID
	var err error
	if cmd.MatchID != "" {
		if !s.Config.IsSuperadmin(actor.DiscordID) {
			return &Reply{Text: "Only a superadmin may end a game by ID.", Ephemeral: true}, nil
		}
		matchID, err = uuid.Parse(cmd.MatchID)
		if err != nil {
			return &Reply{Text: "Invalid match ID.", Ephemeral: true}, nil
		}
	} else {
		matchID, err = s.Store.FindMatchByPlayer(ctx, actor.DiscordID)
		if err != nil {
			return &Reply{Text: "You are not in an active game.", Ephemeral: true}, nil
		}
	}

	lock := s.lockFor(matchID)
	lock.Lock()
	defer lock.Unlock()

	m, err := s.Store.LoadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if err := s.Store.RecordMatchResult(ctx, m); err != nil {
		return nil, err
	}
	if err := s.Store.DeleteMatch(ctx, matchID); err != nil {
		return nil, err
	}
	s.publishAction(ctx, matchID, actor.ID, cmd)
	s.forgetMatch(matchID)

	s.Logger.WithField("match_id", matchID).Info("match ended")
	return &Reply{Text: FormatMatchEnded(m), Recipients: matchDiscordIDs(m)}, nil
}

// loadActorMatch resolves the actor's active match and their seat for
// read-only commands.
func (s *CommandServer) loadActorMatch(ctx context.Context, actor *models.User) (*euchre.Match, *models.Player, *Reply, error) {
	matchID, err := s.Store.FindMatchByPlayer(ctx, actor.DiscordID)
	if err != nil {
		return nil, nil, &Reply{Text: "You are not in an active game.", Ephemeral: true}, nil
	}
	m, err := s.Store.LoadMatch(ctx, matchID)
	if err != nil {
		return nil, nil, nil, err
	}
	seat := seatedPlayer(m, actor.DiscordID)
	if seat == nil {
		return nil, nil, &Reply{Text: "You are not seated in this game.", Ephemeral: true}, nil
	}
	return m, seat, nil, nil
}

// canAdminister gates the privileged commands on staff users and configured
// admin IDs.
func (s *CommandServer) canAdminister(actor *models.User) bool {
	return actor.IsStaff || actor.IsAdmin || s.Config.IsAdmin(actor.DiscordID)
}

// publishAction appends the applied command to the Redis action log. A
// publish failure is logged and never fails the command.
func (s *CommandServer) publishAction(ctx context.Context, matchID, actorID uuid.UUID, cmd Command) {
	if cache.Rdb == nil {
		return
	}
	payload := map[string]interface{}{}
	if cmd.Card != "" {
		payload["card"] = cmd.Card
	}
	if len(cmd.Players) > 0 {
		payload["players"] = cmd.Players
	}
	rec := cache.MatchActionRecord{
		MatchID:     matchID,
		ActionIndex: s.nextActionIndex(ctx, matchID),
		ActorUserID: actorID,
		Command:     cmd.Type,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}
	if err := cache.PublishMatchAction(ctx, rec); err != nil {
		s.Logger.Warnf("failed to publish action for match %s: %v", matchID, err)
	}
}

// seatedPlayer finds the seat belonging to the given Discord user, or nil.
func seatedPlayer(m *euchre.Match, discordID string) *models.Player {
	for _, p := range m.Players {
		if p.DiscordID == discordID {
			return p
		}
	}
	return nil
}

// matchDiscordIDs lists every seated player's Discord ID in seat order.
func matchDiscordIDs(m *euchre.Match) []string {
	out := make([]string, 0, len(m.Players))
	for _, p := range m.Players {
		out = append(out, p.DiscordID)
	}
	return out
}
