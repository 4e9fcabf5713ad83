package equitywire

import (
	"context"
)

type (
	// Connection is a single underlying channel to the backend. A client owns
	// at most one at any time; a lost connection is discarded and a fresh one
	// is created by the factory on reconnect.
	Connection interface {
		// Open dials the backend. It returns once the channel is established
		// or the dial failed; inbound messages are then delivered on the recv
		// channel the connection was created with.
		Open(ctx context.Context) error

		// Write sends a message over the channel. It is safe for concurrent
		// use and returns an error when the channel is down or the transport
		// rejects the write.
		Write(m Message) error

		// Close tears the channel down. Idempotent; failures during shutdown
		// are swallowed.
		Close()

		// CloseChan returns a channel that is closed when the connection is
		// no longer usable, whatever the cause.
		CloseChan() CloseChan

		// CloseErr reports why the connection closed. Nil when it was closed
		// from our side.
		CloseErr() error
	}

	ConnectionFactory func(ctx context.Context, recvChan chan<- Message) Connection
)
