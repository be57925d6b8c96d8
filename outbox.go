package main

import (
	"context"
	"errors"
	"sync"

	"github.com/EmanueleCodes/boxes-game/room"
)

const outboxSize = 64

var ErrOutboxFull = errors.New("outbound queue is full")

// outbox is the bounded send queue shared by the push transports. Send never
// blocks; a single writer drains queue until done is closed.
type outbox struct {
	queue chan []byte
	done  chan struct{}
	once  sync.Once
}

func newOutbox() *outbox {
	return &outbox{
		queue: make(chan []byte, outboxSize),
		done:  make(chan struct{}),
	}
}

func (o *outbox) Send(data []byte) error {
	if !o.IsOpen() {
		return room.ErrConnectionClosed
	}
	select {
	case o.queue <- data:
		return nil
	default:
		return ErrOutboxFull
	}
}

func (o *outbox) IsOpen() bool {
	select {
	case <-o.done:
		return false
	default:
		return true
	}
}

// Close stops accepting messages. Whatever is already queued is still
// written by the drain loop.
func (o *outbox) Close() {
	o.once.Do(func() { close(o.done) })
}

// drain hands every queued message to write until the outbox is closed,
// write fails or ctx ends. Messages queued before Close are still written.
func (o *outbox) drain(ctx context.Context, write func([]byte) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data := <-o.queue:
			if err := write(data); err != nil {
				return err
			}
		case <-o.done:
			return o.flush(write)
		}
	}
}

func (o *outbox) flush(write func([]byte) error) error {
	for {
		select {
		case data := <-o.queue:
			if err := write(data); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}
