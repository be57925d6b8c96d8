package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const reconnectionTime = time.Hour

var ErrInvalidReconnectKey = errors.New("invalid reconnect key")

type ReconnectJWT struct {
	jwtSecret string
	now       func() time.Time
}

func NewReconnectJWT(jwtSecret string) *ReconnectJWT {
	return &ReconnectJWT{jwtSecret: jwtSecret, now: time.Now}
}

type reconnectClaims struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	jwt.RegisteredClaims
}

// GenerateReconnectionJWT signs a key that lets playerID find its way back
// into roomCode after losing local state.
func (r ReconnectJWT) GenerateReconnectionJWT(roomCode, playerID string) (string, error) {
	now := r.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, reconnectClaims{
		RoomCode: roomCode,
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(reconnectionTime)),
		},
	})
	return token.SignedString([]byte(r.jwtSecret))
}

func (r ReconnectJWT) ParseReconnectionJWT(tokenString string) (roomCode, playerID string, err error) {
	var claims reconnectClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(r.jwtSecret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidReconnectKey, err)
	}
	if !token.Valid || claims.RoomCode == "" || claims.PlayerID == "" {
		return "", "", ErrInvalidReconnectKey
	}
	return claims.RoomCode, claims.PlayerID, nil
}
