package main

import (
	"context"
	"fmt"
	"net/http"
)

// ReceiverSSE pushes server messages to a player over a server-sent events
// stream. It is the alternative to the websocket for clients that only listen.
type ReceiverSSE struct {
	*outbox
	w http.ResponseWriter
	f http.Flusher
}

func NewReceiverSSE(w http.ResponseWriter, f http.Flusher) *ReceiverSSE {
	return &ReceiverSSE{outbox: newOutbox(), w: w, f: f}
}

func (r *ReceiverSSE) SendByteSlice(msg []byte) error {
	if _, err := fmt.Fprintf(r.w, "data: %v\n\n", string(msg)); err != nil {
		return err
	}
	r.f.Flush()
	return nil
}

// Serve streams queued messages until the receiver is closed or ctx ends.
func (r *ReceiverSSE) Serve(ctx context.Context) error {
	defer r.Close()
	return r.drain(ctx, r.SendByteSlice)
}
