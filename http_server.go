package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/EmanueleCodes/boxes-game/code"
	"github.com/EmanueleCodes/boxes-game/protocol"
	"github.com/EmanueleCodes/boxes-game/room"
	"github.com/EmanueleCodes/boxes-game/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/gobwas/ws"
)

type HTTPHandler struct {
	coordinator *session.Coordinator
	reconnect   *ReconnectJWT
}

func NewHTTPServer(coordinator *session.Coordinator, reconnect *ReconnectJWT, config *Config) http.Handler {
	httpHandler := HTTPHandler{coordinator: coordinator, reconnect: reconnect}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
	}))
	r.Use(middleware.RealIP)
	r.Use(middleware.Heartbeat("/"))

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(httprate.Limit(config.RateLimitPerMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint)))
			r.Post("/rooms", httpHandler.createRoom())
			r.Post("/rooms/{roomId}/players", httpHandler.joinRoom())
			r.Post("/rooms/{roomId}/start", httpHandler.startGame())
			r.Get("/reconnect", httpHandler.reconnectToRoom())
		})
		r.Get("/rooms/{roomId}", httpHandler.getRoomState())
		r.Get("/rooms/{roomId}/ws", httpHandler.websocket())
		r.Get("/rooms/{roomId}/events", httpHandler.getRoomEventStream())
	})
	return r
}

type playerNameRequest struct {
	PlayerName string `json:"playerName"`
}

type createRoomResponse struct {
	session.CreateResult
	ReconnectKey string `json:"reconnectKey"`
}

type joinRoomResponse struct {
	session.JoinResult
	ReconnectKey string `json:"reconnectKey"`
}

type roomStateResponse struct {
	RoomState room.Snapshot `json:"roomState"`
}

type reconnectResponse struct {
	RoomID    string        `json:"roomId"`
	PlayerID  string        `json:"playerId"`
	RoomState room.Snapshot `json:"roomState"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h HTTPHandler) createRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := UnmarshalJSON[playerNameRequest](r.Body)
		if err != nil {
			writeError(w, err)
			return
		}
		created, err := h.coordinator.Create(body.PlayerName)
		if err != nil {
			writeError(w, err)
			return
		}
		key, err := h.reconnect.GenerateReconnectionJWT(created.RoomID, created.PlayerID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, createRoomResponse{CreateResult: created, ReconnectKey: key})
	}
}

func (h HTTPHandler) joinRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := UnmarshalJSON[playerNameRequest](r.Body)
		if err != nil {
			writeError(w, err)
			return
		}
		joined, err := h.coordinator.Join(chi.URLParam(r, "roomId"), body.PlayerName)
		if err != nil {
			writeError(w, err)
			return
		}
		key, err := h.reconnect.GenerateReconnectionJWT(joined.RoomState.RoomID, joined.PlayerID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, joinRoomResponse{JoinResult: joined, ReconnectKey: key})
	}
}

func (h HTTPHandler) getRoomState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := h.coordinator.Status(chi.URLParam(r, "roomId"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, roomStateResponse{RoomState: state})
	}
}

func (h HTTPHandler) startGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.coordinator.Start(chi.URLParam(r, "roomId")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Success bool `json:"success"`
		}{Success: true})
	}
}

func (h HTTPHandler) reconnectToRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomCode, playerID, err := h.reconnect.ParseReconnectionJWT(r.URL.Query().Get("key"))
		if err != nil {
			writeError(w, err)
			return
		}
		state, err := h.coordinator.Resume(roomCode, playerID)
		if err != nil {
			writeError(w, err)
			return
		}
		LogReconnectedToRoom(roomCode)
		writeJSON(w, http.StatusOK, reconnectResponse{RoomID: state.RoomID, PlayerID: playerID, RoomState: state})
	}
}

func (h HTTPHandler) websocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomCode := code.Normalize(chi.URLParam(r, "roomId"))
		if _, err := h.coordinator.Status(roomCode); err != nil {
			writeError(w, err)
			return
		}
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			LogErrorWhileUpgradingHTTP(err)
			return
		}
		logger := GetRoomIPLogger(r.RemoteAddr, roomCode)
		logger.SocketOpened()

		playerWs := NewPlayerWebsocket(conn)
		go playerWs.WritePump()
		client := h.coordinator.NewClient(roomCode, playerWs)
		for {
			msg, err := playerWs.ReadMessage()
			if errors.Is(err, ErrRateLimited) {
				logger.RateLimited()
				room.Send(playerWs, protocol.NewError(err.Error()))
				continue
			}
			if err != nil {
				logger.SocketClosed(err)
				break
			}
			client.HandleMessage(msg)
		}
		client.Disconnect()
		playerWs.Close()
	}
}

func (h HTTPHandler) getRoomEventStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "HTTP Streaming not supported!", http.StatusBadRequest)
			return
		}
		roomCode := code.Normalize(chi.URLParam(r, "roomId"))
		playerID := r.URL.Query().Get("playerId")
		if _, err := h.coordinator.Resume(roomCode, playerID); err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		logger := GetRoomIPLogger(r.RemoteAddr, roomCode)
		receiver := NewReceiverSSE(w, flusher)
		client := h.coordinator.NewClient(roomCode, receiver)
		// A failed join leaves the error queued on a closed receiver.
		client.Join(roomCode, playerID)
		logger.EventStreamOpened(playerID)
		receiver.Serve(r.Context())
		client.Disconnect()
		logger.EventStreamClosed(playerID)
	}
}

// writeError maps the room error kinds to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, room.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, room.ErrInvalidState), errors.Is(err, room.ErrValidation), errors.Is(err, ErrInvalidReconnectKey):
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: err.Error()})
	default:
		LogInternalError(err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "INTERNAL_SERVER_ERROR", Message: "internal server error"})
	}
}
