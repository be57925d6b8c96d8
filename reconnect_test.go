package main

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconnectJWT(t *testing.T) {
	reconnect := NewReconnectJWT("secret")

	key, err := reconnect.GenerateReconnectionJWT("ABC123", "player-1")
	require.NoError(t, err)

	roomCode, playerID, err := reconnect.ParseReconnectionJWT(key)
	require.NoError(t, err)
	assert.Equal(t, "ABC123", roomCode)
	assert.Equal(t, "player-1", playerID)
}

func TestReconnectJWTRejectsForeignKeys(t *testing.T) {
	reconnect := NewReconnectJWT("secret")
	foreign, err := NewReconnectJWT("other secret").GenerateReconnectionJWT("ABC123", "player-1")
	require.NoError(t, err)

	for name, key := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"other secret": foreign,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := reconnect.ParseReconnectionJWT(key)
			assert.ErrorIs(t, err, ErrInvalidReconnectKey)
		})
	}
}

func TestReconnectJWTExpires(t *testing.T) {
	reconnect := NewReconnectJWT("secret")
	reconnect.now = func() time.Time { return time.Now().Add(-2 * reconnectionTime) }

	key, err := reconnect.GenerateReconnectionJWT("ABC123", "player-1")
	require.NoError(t, err)

	_, _, err = NewReconnectJWT("secret").ParseReconnectionJWT(key)
	assert.ErrorIs(t, err, ErrInvalidReconnectKey)
}

func TestReconnectJWTRequiresClaims(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"roomCode": "ABC123"})
	key, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, _, err = NewReconnectJWT("secret").ParseReconnectionJWT(key)
	assert.ErrorIs(t, err, ErrInvalidReconnectKey)
}
