package transports

import (
	"context"
	"errors"

	"github.com/sagered/alva/pkg/events"
)

// ErrNotConnected is returned by Send when no connection is established.
var ErrNotConnected = errors.New("transport not connected")

// Transport owns one persistent bidirectional connection to the voice
// service. Implementations are responsible for their own network
// lifecycle; connection faults are surfaced as events on Recv, never
// panicked past the caller.
type Transport interface {
	Name() string

	// Connect performs a single connection attempt. Retry and backoff
	// policy belongs to the caller.
	Connect(ctx context.Context) error

	// Close tears the connection down. No event is delivered on Recv
	// after Close returns, apart from the channel closing itself.
	Close() error

	Recv() <-chan events.Event
	Send(cmd events.Command) error
}
