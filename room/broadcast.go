package room

import (
	"errors"

	"github.com/EmanueleCodes/boxes-game/protocol"
	"github.com/rs/zerolog/log"
)

var ErrConnectionClosed = errors.New("connection closed")

// Broadcast writes msg to every open connection of the room. Delivery is
// best effort: a failing connection is logged and skipped.
func (r *Room) Broadcast(msg protocol.ServerMessage) {
	data, err := protocol.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("room-code", r.ID).Str("type", msg.MessageType()).Msg("Error while encoding message")
		return
	}
	for playerID, conn := range r.connections {
		if !conn.IsOpen() {
			log.Debug().Str("room-code", r.ID).Str("player-id", playerID).Msg("Skipping closed connection")
			continue
		}
		if err := conn.Send(data); err != nil {
			log.Warn().Err(err).Str("room-code", r.ID).Str("player-id", playerID).Str("type", msg.MessageType()).Msg("Error while sending message")
		}
	}
}

func (r *Room) BroadcastAll(msgs []protocol.ServerMessage) {
	for _, msg := range msgs {
		r.Broadcast(msg)
	}
}

// CloseConnections tells every connected player why the room went away and
// drops all connections.
func (r *Room) CloseConnections(reason string) {
	r.Broadcast(protocol.NewError(reason))
	for playerID, conn := range r.connections {
		conn.Close()
		delete(r.connections, playerID)
	}
}

// Send writes a single message to one connection.
func Send(conn Connection, msg protocol.ServerMessage) error {
	if !conn.IsOpen() {
		return ErrConnectionClosed
	}
	data, err := protocol.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.Send(data)
}
