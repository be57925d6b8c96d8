package room

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/EmanueleCodes/boxes-game/pattern"
	"github.com/google/uuid"
)

const (
	MinPlayers          = 2
	MaxPlayerNameLength = 32
)

type GameState string

const (
	GameNotStarted GameState = "notStarted"
	GameStarted    GameState = "started"
	GameFinished   GameState = "finished"
)

type RoundState string

const (
	RoundNotStarted   RoundState = "notStarted"
	RoundShowingBoxes RoundState = "showingBoxes"
	RoundAnswering    RoundState = "answering"
	RoundShowResults  RoundState = "showResults"
)

// Connection is a live transport handle registered for a player.
type Connection interface {
	Send(data []byte) error
	IsOpen() bool
	Close()
}

type Player struct {
	ID     string
	Name   string
	Score  int
	Active bool
}

// RoundData is the payload of the current round. StartedAt is in milliseconds.
type RoundData struct {
	pattern.BoxGroup
	StartedAt int64 `json:"startedAt"`
}

type Answer struct {
	Count       int
	SubmittedAt int64
}

// Room is one game session. It is not safe for concurrent use; callers
// serialize access to it.
type Room struct {
	ID           string
	CurrentRound int
	GameState    GameState
	RoundState   RoundState
	RoundData    RoundData
	Scores       map[string]int
	CreatedAt    int64
	LastActivity int64

	players     map[string]*Player
	order       []string
	answers     map[string]Answer
	phaseEndsAt int64
	connections map[string]Connection
}

func newRoom(id string, now time.Time) *Room {
	ms := now.UnixMilli()
	return &Room{
		ID:           id,
		GameState:    GameNotStarted,
		RoundState:   RoundNotStarted,
		RoundData:    RoundData{BoxGroup: pattern.Empty()},
		Scores:       make(map[string]int),
		CreatedAt:    ms,
		LastActivity: ms,
		players:      make(map[string]*Player),
		answers:      make(map[string]Answer),
		connections:  make(map[string]Connection),
	}
}

func ValidatePlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyPlayerName
	}
	if utf8.RuneCountInString(name) > MaxPlayerNameLength {
		return "", ErrPlayerNameTooLong
	}
	return name, nil
}

// AddPlayer registers a new player with a server generated id. Players can
// only be added before the game starts.
func (r *Room) AddPlayer(name string) (*Player, error) {
	name, err := ValidatePlayerName(name)
	if err != nil {
		return nil, err
	}
	if r.GameState != GameNotStarted {
		return nil, ErrGameStarted
	}
	player := &Player{ID: uuid.NewString(), Name: name, Active: true}
	r.players[player.ID] = player
	r.order = append(r.order, player.ID)
	r.Scores[player.ID] = 0
	return player, nil
}

func (r *Room) RemovePlayer(playerID string) bool {
	if _, ok := r.players[playerID]; !ok {
		return false
	}
	delete(r.players, playerID)
	delete(r.Scores, playerID)
	delete(r.answers, playerID)
	r.order = slices.DeleteFunc(r.order, func(id string) bool { return id == playerID })
	return true
}

func (r *Room) Player(playerID string) (*Player, bool) {
	player, ok := r.players[playerID]
	return player, ok
}

// Players returns the players in join order.
func (r *Room) Players() []*Player {
	players := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		players = append(players, r.players[id])
	}
	return players
}

func (r *Room) PlayerCount() int {
	return len(r.players)
}

func (r *Room) ActivePlayerCount() int {
	count := 0
	for _, player := range r.players {
		if player.Active {
			count++
		}
	}
	return count
}

// AddConnection registers conn for the player and returns the handle it
// replaced, if any.
func (r *Room) AddConnection(playerID string, conn Connection) Connection {
	previous := r.connections[playerID]
	r.connections[playerID] = conn
	if previous == conn {
		return nil
	}
	return previous
}

// RemoveConnection unregisters conn only if it is still the player's current handle.
func (r *Room) RemoveConnection(playerID string, conn Connection) bool {
	current, ok := r.connections[playerID]
	if !ok || current != conn {
		return false
	}
	delete(r.connections, playerID)
	return true
}

func (r *Room) Connection(playerID string) (Connection, bool) {
	conn, ok := r.connections[playerID]
	return conn, ok
}

func (r *Room) ConnectionCount() int {
	return len(r.connections)
}

func (r *Room) Answer(playerID string) (Answer, bool) {
	answer, ok := r.answers[playerID]
	return answer, ok
}

// PhaseEndsAt is the millisecond timestamp at which the current round state
// is due to change, zero when no timed transition is pending.
func (r *Room) PhaseEndsAt() int64 {
	return r.phaseEndsAt
}
