package mock

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sagered/alva/pkg/errorsx"
	"github.com/sagered/alva/pkg/events"
	"github.com/sagered/alva/pkg/transports"
)

// Transport is an in-memory transport for tests and local integration.
// It implements the transports.Transport interface without any network
// dependency.
type Transport struct {
	recvCh chan events.Event
	sentCh chan events.Command

	mu        sync.Mutex
	connected bool
	closed    atomic.Bool

	// FailConnect makes the next Connect behave like a dial failure.
	FailConnect bool
}

func New() *Transport {
	return &Transport{
		recvCh: make(chan events.Event, 256),
		sentCh: make(chan events.Command, 256),
	}
}

func (t *Transport) Name() string { return "mock" }

func (t *Transport) Connect(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if t.closed.Load() {
		return errorsx.Wrap(transports.ErrNotConnected, errorsx.ReasonTransportClosed)
	}
	t.mu.Lock()
	if t.FailConnect {
		t.mu.Unlock()
		t.Push(events.Disconnected{})
		return errorsx.Wrap(transports.ErrNotConnected, errorsx.ReasonTransportDial)
	}
	t.connected = true
	t.mu.Unlock()
	t.Push(events.Connected{})
	return nil
}

func (t *Transport) Close() error {
	if t.closed.CompareAndSwap(false, true) {
		t.mu.Lock()
		t.connected = false
		close(t.recvCh)
		close(t.sentCh)
		t.mu.Unlock()
	}
	return nil
}

func (t *Transport) Recv() <-chan events.Event { return t.recvCh }

func (t *Transport) Send(cmd events.Command) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed.Load() || !t.connected {
		return errorsx.Wrap(transports.ErrNotConnected, errorsx.ReasonNotConnected)
	}
	select {
	case t.sentCh <- cmd:
	default:
	}
	return nil
}

// Push injects an inbound event, as if the service had sent it.
func (t *Transport) Push(ev events.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed.Load() {
		return
	}
	if _, ok := ev.(events.Disconnected); ok {
		t.connected = false
	}
	select {
	case t.recvCh <- ev:
	default:
	}
}

// Sent exposes outbound commands for inspection.
func (t *Transport) Sent() <-chan events.Command { return t.sentCh }

var _ transports.Transport = (*Transport)(nil)
