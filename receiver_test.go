package main

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiver(t *testing.T) {
	t.Run("streams queued messages before closing", func(t *testing.T) {
		res := httptest.NewRecorder()
		receiver := NewReceiverSSE(res, res)

		require.NoError(t, receiver.Send([]byte(`{"type":"pong","payload":{}}`)))
		require.NoError(t, receiver.Send([]byte(`{"type":"error","payload":{"message":"bye"}}`)))
		receiver.Close()

		require.NoError(t, receiver.Serve(context.Background()))
		assert.Equal(t,
			"data: {\"type\":\"pong\",\"payload\":{}}\n\n"+
				"data: {\"type\":\"error\",\"payload\":{\"message\":\"bye\"}}\n\n",
			res.Body.String())
		assert.True(t, res.Flushed)
	})

	t.Run("rejects messages once closed", func(t *testing.T) {
		res := httptest.NewRecorder()
		receiver := NewReceiverSSE(res, res)
		receiver.Close()

		assert.False(t, receiver.IsOpen())
		assert.Error(t, receiver.Send([]byte("{}")))
	})

	t.Run("stops when the request ends", func(t *testing.T) {
		res := httptest.NewRecorder()
		receiver := NewReceiverSSE(res, res)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		assert.ErrorIs(t, receiver.Serve(ctx), context.DeadlineExceeded)
		assert.False(t, receiver.IsOpen())
	})

	t.Run("fails fast when the queue is full", func(t *testing.T) {
		res := httptest.NewRecorder()
		receiver := NewReceiverSSE(res, res)
		for i := 0; i < outboxSize; i++ {
			require.NoError(t, receiver.Send([]byte("{}")))
		}
		assert.ErrorIs(t, receiver.Send([]byte("{}")), ErrOutboxFull)
	})
}
