package session

import (
	"fmt"

	"github.com/EmanueleCodes/boxes-game/code"
	"github.com/EmanueleCodes/boxes-game/protocol"
	"github.com/EmanueleCodes/boxes-game/room"
	"github.com/rs/zerolog/log"
)

const (
	msgInvalidFormat   = "invalid message format"
	msgMustJoinFirst   = "must join room first"
	msgAlreadyJoined   = "already joined"
	msgRoomMismatch    = "join message is for another room"
	msgRoomNotFound    = "room not found"
	msgPlayerNotInRoom = "player not found in room"
)

var (
	ErrAlreadyJoined = fmt.Errorf("%w: %s", room.ErrInvalidState, msgAlreadyJoined)
	ErrRoomMismatch  = fmt.Errorf("%w: %s", room.ErrValidation, msgRoomMismatch)
)

// Client is the state of one transport connection: unjoined until a join
// succeeds, then bound to a single player until Disconnect.
type Client struct {
	coordinator  *Coordinator
	conn         room.Connection
	roomID       string
	playerID     string
	disconnected bool
}

// NewClient binds conn to roomID, which may be empty when the room is only
// known from the join message.
func (c *Coordinator) NewClient(roomID string, conn room.Connection) *Client {
	return &Client{coordinator: c, conn: conn, roomID: code.Normalize(roomID)}
}

func (cl *Client) PlayerID() string {
	c := cl.coordinator
	c.mu.Lock()
	defer c.mu.Unlock()
	return cl.playerID
}

// HandleMessage parses and dispatches one inbound message.
func (cl *Client) HandleMessage(data []byte) {
	msg, err := protocol.ParseClientMessage(data)
	if err != nil {
		log.Debug().Err(err).Str("room-code", cl.roomID).Msg("Rejected client message")
		cl.sendError(msgInvalidFormat)
		return
	}

	c := cl.coordinator
	c.mu.Lock()
	defer c.mu.Unlock()

	if join, ok := msg.(protocol.JoinMessage); ok {
		cl.joinLocked(join.RoomID, join.PlayerID)
		return
	}
	if cl.playerID == "" {
		cl.sendError(msgMustJoinFirst)
		return
	}
	r, ok := c.store.GetRoom(cl.roomID)
	if !ok {
		cl.sendError(msgRoomNotFound)
		cl.conn.Close()
		return
	}

	switch m := msg.(type) {
	case protocol.PingMessage:
		cl.send(protocol.PongMessage{})
	case protocol.ReadyMessage:
		c.store.UpdateLastActivity(r.ID)
	case protocol.AnswerMessage:
		now := c.store.Now()
		if err := room.SubmitAnswer(r, cl.playerID, m.Round, m.Count, now); err != nil {
			cl.sendError(err.Error())
			return
		}
		c.store.UpdateLastActivity(r.ID)
		r.BroadcastAll(room.Advance(r, now, c.config.Timing, c.patterns))
	}
}

// Join binds the connection to an existing player of the room. On failure
// the client is told why and the connection is closed.
func (cl *Client) Join(roomID, playerID string) error {
	c := cl.coordinator
	c.mu.Lock()
	defer c.mu.Unlock()
	return cl.joinLocked(roomID, playerID)
}

func (cl *Client) joinLocked(roomID, playerID string) error {
	c := cl.coordinator
	if cl.playerID != "" {
		cl.sendError(msgAlreadyJoined)
		return ErrAlreadyJoined
	}
	roomID = code.Normalize(roomID)
	switch {
	case roomID == "":
		roomID = cl.roomID
	case cl.roomID != "" && roomID != cl.roomID:
		cl.sendError(msgRoomMismatch)
		cl.conn.Close()
		return ErrRoomMismatch
	}

	r, ok := c.store.GetRoom(roomID)
	if !ok {
		cl.sendError(msgRoomNotFound)
		cl.conn.Close()
		return room.ErrRoomNotFound
	}
	player, ok := r.Player(playerID)
	if !ok {
		cl.sendError(msgPlayerNotInRoom)
		cl.conn.Close()
		return room.ErrPlayerNotFound
	}

	if previous := r.AddConnection(player.ID, cl.conn); previous != nil {
		previous.Close()
	}
	cl.roomID = r.ID
	cl.playerID = player.ID
	player.Active = true
	c.store.UpdateLastActivity(r.ID)
	r.Broadcast(protocol.PlayerJoinedMessage{
		PlayerID:     player.ID,
		PlayerName:   player.Name,
		TotalPlayers: r.PlayerCount(),
	})
	log.Info().Str("room-code", r.ID).Str("player-id", player.ID).Msg("Player connected")
	return nil
}

// Disconnect runs the leave logic for the bound player. It is idempotent and
// a no-op for connections that never joined or were superseded.
func (cl *Client) Disconnect() {
	c := cl.coordinator
	c.mu.Lock()
	defer c.mu.Unlock()

	if cl.disconnected || cl.playerID == "" {
		cl.disconnected = true
		return
	}
	cl.disconnected = true

	r, ok := c.store.GetRoom(cl.roomID)
	if !ok {
		return
	}
	if !r.RemoveConnection(cl.playerID, cl.conn) {
		return
	}
	player, ok := r.Player(cl.playerID)
	if !ok {
		return
	}

	logger := log.With().Str("room-code", r.ID).Str("player-id", player.ID).Logger()
	if r.GameState == room.GameNotStarted {
		r.RemovePlayer(player.ID)
		r.Broadcast(protocol.PlayerLeftMessage{PlayerID: player.ID, TotalPlayers: r.PlayerCount()})
		if r.PlayerCount() == 0 {
			c.store.DeleteRoom(r.ID)
			logger.Info().Msg("Removed empty room")
			return
		}
		c.store.UpdateLastActivity(r.ID)
		logger.Info().Msg("Player left")
		return
	}

	player.Active = false
	c.store.UpdateLastActivity(r.ID)
	r.Broadcast(protocol.PlayerLeftMessage{PlayerID: player.ID, TotalPlayers: r.PlayerCount()})
	logger.Info().Msg("Player disconnected during game")
}

func (cl *Client) send(msg protocol.ServerMessage) {
	if err := room.Send(cl.conn, msg); err != nil {
		log.Debug().Err(err).Str("room-code", cl.roomID).Msg("Error while replying to client")
	}
}

func (cl *Client) sendError(message string) {
	cl.send(protocol.NewError(message))
}
