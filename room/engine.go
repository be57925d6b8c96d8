package room

import (
	"time"

	"github.com/EmanueleCodes/boxes-game/pattern"
	"github.com/EmanueleCodes/boxes-game/protocol"
)

type Timing struct {
	RoundCount        int
	AnsweringDuration time.Duration
	ResultsDuration   time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		RoundCount:        10,
		AnsweringDuration: 10 * time.Second,
		ResultsDuration:   5 * time.Second,
	}
}

func CanStartGame(r *Room) bool {
	return r.GameState == GameNotStarted && r.PlayerCount() >= MinPlayers
}

// StartGame marks the game as started. Callers check CanStartGame first.
func StartGame(r *Room) {
	r.GameState = GameStarted
	r.CurrentRound = 0
}

func StartRound(r *Room, gen pattern.Generator, now time.Time) protocol.RoundStartMessage {
	r.CurrentRound++
	r.RoundData = RoundData{
		BoxGroup:  gen.Generate(r.CurrentRound),
		StartedAt: now.UnixMilli(),
	}
	r.RoundState = RoundShowingBoxes
	r.answers = make(map[string]Answer)
	r.phaseEndsAt = r.RoundData.StartedAt + r.RoundData.Animation.VisibleDuration
	return protocol.RoundStartMessage{Round: r.CurrentRound, Boxes: r.RoundData.Boxes}
}

// HideBoxes ends the showing phase. The answer window is measured from the
// moment the boxes were due to disappear.
func HideBoxes(r *Room, timing Timing) protocol.BoxesHiddenMessage {
	r.RoundState = RoundAnswering
	r.phaseEndsAt += timing.AnsweringDuration.Milliseconds()
	return protocol.BoxesHiddenMessage{Round: r.CurrentRound}
}

func SubmitAnswer(r *Room, playerID string, round, count int, now time.Time) error {
	if _, ok := r.players[playerID]; !ok {
		return ErrPlayerNotFound
	}
	if count < 0 {
		return ErrNegativeCount
	}
	if r.GameState != GameStarted || (r.RoundState != RoundShowingBoxes && r.RoundState != RoundAnswering) {
		return ErrNotAnswering
	}
	if round != r.CurrentRound {
		return ErrWrongRound
	}
	if _, answered := r.answers[playerID]; answered {
		return ErrAlreadyAnswered
	}
	r.answers[playerID] = Answer{Count: count, SubmittedAt: now.UnixMilli()}
	return nil
}

// AllAnswered reports whether every active player has answered the current
// round. It is false when nobody is active.
func AllAnswered(r *Room) bool {
	active := 0
	for id, player := range r.players {
		if !player.Active {
			continue
		}
		active++
		if _, ok := r.answers[id]; !ok {
			return false
		}
	}
	return active > 0
}

// Points awards a score by how close the answer is to the correct count.
func Points(answer, correct int) int {
	diff := answer - correct
	if diff < 0 {
		diff = -diff
	}
	switch diff {
	case 0:
		return 100
	case 1:
		return 50
	case 2:
		return 25
	}
	return 0
}

func ScoreRound(r *Room, timing Timing, now time.Time) protocol.RoundResultsMessage {
	correct := r.RoundData.CorrectCount
	results := make([]protocol.PlayerResult, 0, len(r.order))
	for _, player := range r.Players() {
		result := protocol.PlayerResult{PlayerID: player.ID, PlayerName: player.Name}
		if answer, ok := r.answers[player.ID]; ok {
			count := answer.Count
			result.Answer = &count
			result.Points = Points(count, correct)
		}
		r.Scores[player.ID] += result.Points
		player.Score = r.Scores[player.ID]
		result.TotalScore = player.Score
		results = append(results, result)
	}

	start := now.UnixMilli()
	if r.phaseEndsAt < start {
		start = r.phaseEndsAt
	}
	r.RoundState = RoundShowResults
	r.phaseEndsAt = start + timing.ResultsDuration.Milliseconds()
	return protocol.RoundResultsMessage{Round: r.CurrentRound, CorrectCount: correct, Scores: results}
}

// FinishGame ends the game. The winner is the highest score, earliest joiner on ties.
func FinishGame(r *Room) protocol.GameFinishedMessage {
	r.GameState = GameFinished
	r.RoundState = RoundNotStarted
	r.phaseEndsAt = 0

	msg := protocol.GameFinishedMessage{FinalScores: make([]protocol.FinalScore, 0, len(r.order))}
	var winner *Player
	for _, player := range r.Players() {
		if winner == nil || player.Score > winner.Score {
			winner = player
		}
		msg.FinalScores = append(msg.FinalScores, protocol.FinalScore{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			Score:      player.Score,
		})
	}
	if winner != nil {
		msg.Winner = protocol.PlayerInfo{ID: winner.ID, Name: winner.Name, Score: winner.Score}
	}
	return msg
}

// Advance applies every timed transition that is due at now and returns the
// messages to broadcast, in order.
func Advance(r *Room, now time.Time, timing Timing, gen pattern.Generator) []protocol.ServerMessage {
	var msgs []protocol.ServerMessage
	ms := now.UnixMilli()
	for r.GameState == GameStarted {
		switch {
		case r.RoundState == RoundShowingBoxes && ms >= r.phaseEndsAt:
			msgs = append(msgs, HideBoxes(r, timing))
		case r.RoundState == RoundAnswering && (ms >= r.phaseEndsAt || AllAnswered(r)):
			msgs = append(msgs, ScoreRound(r, timing, now))
		case r.RoundState == RoundShowResults && ms >= r.phaseEndsAt:
			if r.CurrentRound >= timing.RoundCount {
				msgs = append(msgs, FinishGame(r))
			} else {
				msgs = append(msgs, StartRound(r, gen, now))
			}
		default:
			return msgs
		}
	}
	return msgs
}
