package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// SetupLogger configures the global logger used by every package.
func SetupLogger(level zerolog.Level, format string) {
	var out io.Writer = os.Stderr
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

type RoomIPLogger struct {
	zerolog zerolog.Logger
}

func GetRoomIPLogger(ip string, roomCode string) RoomIPLogger {
	return RoomIPLogger{log.With().Str("ip", ip).Str("room-code", roomCode).Logger()}
}

func (l RoomIPLogger) SocketOpened() {
	l.zerolog.Info().Msg("Websocket opened")
}

func (l RoomIPLogger) SocketClosed(err error) {
	l.zerolog.Info().Err(err).Msg("Websocket closed")
}

func (l RoomIPLogger) EventStreamOpened(playerID string) {
	l.zerolog.Info().Str("player-id", playerID).Msg("Event stream opened")
}

func (l RoomIPLogger) EventStreamClosed(playerID string) {
	l.zerolog.Info().Str("player-id", playerID).Msg("Event stream closed")
}

func (l RoomIPLogger) RateLimited() {
	l.zerolog.Warn().Msg("Player is sending too many messages")
}

func LogReconnectedToRoom(roomCode string) {
	log.Info().Str("room-code", roomCode).Msg("Reconnected")
}

func LogStartedServer(port string) {
	log.Info().Msgf("Starting server on port %v", port)
}

func LogStoppingServer() {
	log.Info().Msg("Stopping server")
}

func LogErrorWhileUpgradingHTTP(err error) {
	log.Error().Err(err).Msg("Error while upgrading HTTP")
}

func LogInternalError(err error) {
	log.Error().Err(err).Msg("Internal server error")
}
