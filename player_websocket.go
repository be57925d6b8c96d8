package main

import (
	"context"
	"errors"
	"net"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"golang.org/x/time/rate"
)

const (
	messagesPerSecond = 10
	messageBurst      = 20
)

var ErrRateLimited = errors.New("too many messages")

// PlayerWebsocket is a player's persistent connection. Outbound messages go
// through the outbox and are written by WritePump only.
type PlayerWebsocket struct {
	*outbox
	conn    net.Conn
	limiter *rate.Limiter
}

func NewPlayerWebsocket(conn net.Conn) *PlayerWebsocket {
	return &PlayerWebsocket{
		outbox:  newOutbox(),
		conn:    conn,
		limiter: rate.NewLimiter(messagesPerSecond, messageBurst),
	}
}

// WritePump writes queued messages until the connection is closed, then
// sends a close frame and releases the socket.
func (p *PlayerWebsocket) WritePump() error {
	err := p.drain(context.Background(), func(data []byte) error {
		return wsutil.WriteServerText(p.conn, data)
	})
	if err == nil {
		body := ws.NewCloseFrameBody(ws.StatusNormalClosure, "")
		err = ws.WriteFrame(p.conn, ws.NewCloseFrame(body))
	}
	p.Close()
	p.conn.Close()
	return err
}

// ReadMessage returns the next text message from the player. Messages over
// the rate limit are consumed and reported as ErrRateLimited.
func (p *PlayerWebsocket) ReadMessage() ([]byte, error) {
	msg, err := wsutil.ReadClientText(p.conn)
	if err != nil {
		return nil, err
	}
	if !p.limiter.Allow() {
		return nil, ErrRateLimited
	}
	return msg, nil
}
