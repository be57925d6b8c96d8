// Package protocol defines the JSON messages exchanged over a player's
// persistent connection. Every message travels as {"type": ..., "payload": ...}.
package protocol

import "github.com/EmanueleCodes/boxes-game/pattern"

const (
	TypeJoin   = "join"
	TypeAnswer = "answer"
	TypeReady  = "ready"
	TypePing   = "ping"

	TypePlayerJoined = "playerJoined"
	TypePlayerLeft   = "playerLeft"
	TypeGameStarting = "gameStarting"
	TypeRoundStart   = "roundStart"
	TypeBoxesHidden  = "boxesHidden"
	TypeRoundResults = "roundResults"
	TypeGameFinished = "gameFinished"
	TypeError        = "error"
	TypePong         = "pong"
)

type Message interface {
	MessageType() string
}

// ClientMessage is implemented only by the client to server messages below.
type ClientMessage interface {
	Message
	clientMessage()
}

// ServerMessage is implemented only by the server to client messages below.
type ServerMessage interface {
	Message
	serverMessage()
}

type JoinMessage struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type AnswerMessage struct {
	Round     int   `json:"round"`
	Count     int   `json:"count"`
	Timestamp int64 `json:"timestamp"`
}

type ReadyMessage struct{}

type PingMessage struct{}

func (JoinMessage) MessageType() string   { return TypeJoin }
func (AnswerMessage) MessageType() string { return TypeAnswer }
func (ReadyMessage) MessageType() string  { return TypeReady }
func (PingMessage) MessageType() string   { return TypePing }

func (JoinMessage) clientMessage()   {}
func (AnswerMessage) clientMessage() {}
func (ReadyMessage) clientMessage()  {}
func (PingMessage) clientMessage()   {}

type PlayerJoinedMessage struct {
	PlayerID     string `json:"playerId"`
	PlayerName   string `json:"playerName"`
	TotalPlayers int    `json:"totalPlayers"`
}

type PlayerLeftMessage struct {
	PlayerID     string `json:"playerId"`
	TotalPlayers int    `json:"totalPlayers"`
}

type GameStartingMessage struct {
	RoundCount int `json:"roundCount"`
}

type RoundStartMessage struct {
	Round int           `json:"round"`
	Boxes []pattern.Box `json:"boxes"`
}

type BoxesHiddenMessage struct {
	Round int `json:"round"`
}

// PlayerResult is one row of a round's scoreboard. Answer is nil when the
// player did not answer in time.
type PlayerResult struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Answer     *int   `json:"answer"`
	Points     int    `json:"points"`
	TotalScore int    `json:"totalScore"`
}

type RoundResultsMessage struct {
	Round        int            `json:"round"`
	CorrectCount int            `json:"correctCount"`
	Scores       []PlayerResult `json:"scores"`
}

type PlayerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type FinalScore struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
}

type GameFinishedMessage struct {
	Winner      PlayerInfo   `json:"winner"`
	FinalScores []FinalScore `json:"finalScores"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

type PongMessage struct{}

func (PlayerJoinedMessage) MessageType() string { return TypePlayerJoined }
func (PlayerLeftMessage) MessageType() string   { return TypePlayerLeft }
func (GameStartingMessage) MessageType() string { return TypeGameStarting }
func (RoundStartMessage) MessageType() string   { return TypeRoundStart }
func (BoxesHiddenMessage) MessageType() string  { return TypeBoxesHidden }
func (RoundResultsMessage) MessageType() string { return TypeRoundResults }
func (GameFinishedMessage) MessageType() string { return TypeGameFinished }
func (ErrorMessage) MessageType() string        { return TypeError }
func (PongMessage) MessageType() string         { return TypePong }

func (PlayerJoinedMessage) serverMessage() {}
func (PlayerLeftMessage) serverMessage()   {}
func (GameStartingMessage) serverMessage() {}
func (RoundStartMessage) serverMessage()   {}
func (BoxesHiddenMessage) serverMessage()  {}
func (RoundResultsMessage) serverMessage() {}
func (GameFinishedMessage) serverMessage() {}
func (ErrorMessage) serverMessage()        {}
func (PongMessage) serverMessage()         {}

func NewError(message string) ErrorMessage {
	return ErrorMessage{Message: message}
}
