package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EmanueleCodes/boxes-game/pattern"
	"github.com/EmanueleCodes/boxes-game/room"
	"github.com/EmanueleCodes/boxes-game/session"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	config := MustLoadConfig()
	SetupLogger(config.LogLevel, config.LogFormat)

	store := room.NewStore(config.StoreOptions()...)
	coordinator := session.New(store, pattern.Default, config.SessionConfig())
	reconnect := NewReconnectJWT(config.JwtSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go coordinator.Run(ctx)

	server := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           NewHTTPServer(coordinator, reconnect, config),
		ReadHeaderTimeout: 10 * time.Second,
	}
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		LogStoppingServer()
		coordinator.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error while stopping server")
		}
	}()

	LogStartedServer(config.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
	<-stopped
}
