package room

import (
	"maps"
	"slices"

	"github.com/EmanueleCodes/boxes-game/pattern"
)

type PlayerView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Active bool   `json:"active"`
}

// Snapshot is the transport form of a room: players as an ordered list,
// scores as a plain object and no connections.
type Snapshot struct {
	RoomID       string         `json:"roomId"`
	Players      []PlayerView   `json:"players"`
	CurrentRound int            `json:"currentRound"`
	GameState    GameState      `json:"gameState"`
	RoundState   RoundState     `json:"roundState"`
	RoundData    RoundData      `json:"roundData"`
	Scores       map[string]int `json:"scores"`
	CreatedAt    int64          `json:"createdAt"`
	LastActivity int64          `json:"lastActivity"`
}

func (r *Room) Snapshot() Snapshot {
	players := make([]PlayerView, 0, len(r.order))
	for _, player := range r.Players() {
		players = append(players, PlayerView{
			ID:     player.ID,
			Name:   player.Name,
			Score:  player.Score,
			Active: player.Active,
		})
	}
	roundData := r.RoundData
	roundData.Boxes = slices.Clone(r.RoundData.Boxes)
	if roundData.Boxes == nil {
		roundData.Boxes = []pattern.Box{}
	}
	return Snapshot{
		RoomID:       r.ID,
		Players:      players,
		CurrentRound: r.CurrentRound,
		GameState:    r.GameState,
		RoundState:   r.RoundState,
		RoundData:    roundData,
		Scores:       maps.Clone(r.Scores),
		CreatedAt:    r.CreatedAt,
		LastActivity: r.LastActivity,
	}
}
