// Package session is the entry point for everything that touches a room:
// HTTP commands, transport messages, disconnects and the round clock.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/EmanueleCodes/boxes-game/code"
	"github.com/EmanueleCodes/boxes-game/pattern"
	"github.com/EmanueleCodes/boxes-game/protocol"
	"github.com/EmanueleCodes/boxes-game/room"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Timing          room.Timing
	TickInterval    time.Duration
	CleanupInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Timing:          room.DefaultTiming(),
		TickInterval:    100 * time.Millisecond,
		CleanupInterval: time.Minute,
	}
}

// Coordinator serializes every operation on the room table, so each command
// observes and leaves behind a consistent room state.
type Coordinator struct {
	mu       sync.Mutex
	store    *room.Store
	patterns pattern.Generator
	config   Config
}

func New(store *room.Store, patterns pattern.Generator, config Config) *Coordinator {
	return &Coordinator{store: store, patterns: patterns, config: config}
}

type CreateResult struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type JoinResult struct {
	PlayerID  string        `json:"playerId"`
	RoomState room.Snapshot `json:"roomState"`
}

func (c *Coordinator) Create(playerName string) (CreateResult, error) {
	if _, err := room.ValidatePlayerName(playerName); err != nil {
		return CreateResult{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	roomID := c.store.CreateRoom()
	r, ok := c.store.GetRoom(roomID)
	if !ok {
		return CreateResult{}, room.ErrRoomNotFound
	}
	player, err := r.AddPlayer(playerName)
	if err != nil {
		c.store.DeleteRoom(roomID)
		return CreateResult{}, err
	}
	c.store.UpdateLastActivity(roomID)
	log.Info().Str("room-code", roomID).Str("player-id", player.ID).Msg("Created room")
	return CreateResult{RoomID: roomID, PlayerID: player.ID}, nil
}

func (c *Coordinator) Join(roomID, playerName string) (JoinResult, error) {
	if _, err := room.ValidatePlayerName(playerName); err != nil {
		return JoinResult{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.store.GetRoom(code.Normalize(roomID))
	if !ok {
		return JoinResult{}, room.ErrRoomNotFound
	}
	player, err := r.AddPlayer(playerName)
	if err != nil {
		return JoinResult{}, err
	}
	c.store.UpdateLastActivity(r.ID)
	log.Info().Str("room-code", r.ID).Str("player-id", player.ID).Int("players", r.PlayerCount()).Msg("Player joined")
	return JoinResult{PlayerID: player.ID, RoomState: r.Snapshot()}, nil
}

func (c *Coordinator) Status(roomID string) (room.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.store.GetRoom(code.Normalize(roomID))
	if !ok {
		return room.Snapshot{}, room.ErrRoomNotFound
	}
	c.store.UpdateLastActivity(r.ID)
	return r.Snapshot(), nil
}

// Resume returns the room state for a player that is still part of the room.
func (c *Coordinator) Resume(roomID, playerID string) (room.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.store.GetRoom(code.Normalize(roomID))
	if !ok {
		return room.Snapshot{}, room.ErrRoomNotFound
	}
	if _, ok := r.Player(playerID); !ok {
		return room.Snapshot{}, room.ErrPlayerNotFound
	}
	c.store.UpdateLastActivity(r.ID)
	return r.Snapshot(), nil
}

func (c *Coordinator) Start(roomID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.store.GetRoom(code.Normalize(roomID))
	if !ok {
		return room.ErrRoomNotFound
	}
	if r.GameState != room.GameNotStarted {
		return room.ErrGameStarted
	}
	if !room.CanStartGame(r) {
		return room.ErrTooFewPlayers
	}

	room.StartGame(r)
	r.Broadcast(protocol.GameStartingMessage{RoundCount: c.config.Timing.RoundCount})
	r.Broadcast(room.StartRound(r, c.patterns, c.store.Now()))
	c.store.UpdateLastActivity(r.ID)
	log.Info().Str("room-code", r.ID).Int("players", r.PlayerCount()).Msg("Game started")
	return nil
}

// Tick drives the timed round transitions of every running game.
func (c *Coordinator) Tick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.store.Rooms() {
		if r.GameState != room.GameStarted {
			continue
		}
		msgs := room.Advance(r, now, c.config.Timing, c.patterns)
		if len(msgs) == 0 {
			continue
		}
		r.BroadcastAll(msgs)
		c.store.UpdateLastActivity(r.ID)
		if r.GameState == room.GameFinished {
			log.Info().Str("room-code", r.ID).Msg("Game finished")
		}
	}
}

// Cleanup evicts idle rooms and closes whatever connections they still hold.
func (c *Coordinator) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.store.CleanupRooms() {
		r.CloseConnections("room closed due to inactivity")
		log.Info().Str("room-code", r.ID).Msg("Removed inactive room")
	}
}

// Shutdown closes every connection of every room.
func (c *Coordinator) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.store.Rooms() {
		r.CloseConnections("server is shutting down")
	}
}

// Run drives Tick and Cleanup until ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	roundTicker := time.NewTicker(c.config.TickInterval)
	defer roundTicker.Stop()
	cleanupTicker := time.NewTicker(c.config.CleanupInterval)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-roundTicker.C:
			c.Tick(now)
		case <-cleanupTicker.C:
			c.Cleanup()
		}
	}
}
