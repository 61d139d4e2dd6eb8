package socket

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sagered/alva/pkg/errorsx"
	"github.com/sagered/alva/pkg/events"
	"github.com/sagered/alva/pkg/logging"
	"github.com/sagered/alva/pkg/transports"
)

type Config struct {
	Endpoint           string `mapstructure:"endpoint"`
	Origin             string `mapstructure:"origin"`
	HandshakeTimeoutMS int    `mapstructure:"handshake_timeout_ms"`
	RecvBuffer         int    `mapstructure:"recv_buffer"`
}

func (c Config) withDefaults() Config {
	if c.HandshakeTimeoutMS <= 0 {
		c.HandshakeTimeoutMS = 10000
	}
	if c.RecvBuffer <= 0 {
		c.RecvBuffer = 256
	}
	return c
}

// Transport is a websocket client for the voice service. One Connect
// call performs exactly one dial attempt; a failed dial or a dropped
// connection surfaces as a Disconnected event on Recv.
type Transport struct {
	cfg    Config
	logger *slog.Logger

	recvCh chan events.Event

	mu     sync.Mutex
	conn   *websocket.Conn
	closed atomic.Bool

	// gen fences off late deliveries: the read loop of a previous
	// connection may still be unwinding when Close or a reconnect
	// happens, and its events must not leak through.
	gen atomic.Uint64
}

func New(cfg Config) *Transport {
	cfg = cfg.withDefaults()
	return &Transport{
		cfg:    cfg,
		logger: logging.NewComponentLogger(slog.Default(), "socket_transport"),
		recvCh: make(chan events.Event, cfg.RecvBuffer),
	}
}

func (t *Transport) Name() string { return "socket" }

func (t *Transport) Recv() <-chan events.Event { return t.recvCh }

func (t *Transport) Connect(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if t.closed.Load() {
		return errorsx.Wrap(transports.ErrNotConnected, errorsx.ReasonTransportClosed)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: time.Duration(t.cfg.HandshakeTimeoutMS) * time.Millisecond,
	}
	var header http.Header
	if t.cfg.Origin != "" {
		header = http.Header{"Origin": []string{t.cfg.Origin}}
	}

	conn, _, err := dialer.DialContext(ctx, t.cfg.Endpoint, header)
	if err != nil {
		t.logger.Warn("socket_dial_failed",
			slog.String("endpoint", t.cfg.Endpoint),
			slog.String("error", err.Error()))
		t.deliver(t.gen.Load(), events.Disconnected{})
		return errorsx.Wrap(err, errorsx.ReasonTransportDial)
	}

	t.mu.Lock()
	if old := t.conn; old != nil {
		_ = old.Close()
	}
	t.conn = conn
	gen := t.gen.Add(1)
	t.mu.Unlock()

	t.logger.Info("socket_connected", slog.String("endpoint", t.cfg.Endpoint))
	t.deliver(gen, events.Connected{})
	go t.readLoop(conn, gen)
	return nil
}

func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	t.mu.Lock()
	conn := t.conn
	t.conn = nil
	t.gen.Add(1)
	close(t.recvCh)
	t.mu.Unlock()
	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(2*time.Second))
		_ = conn.Close()
	}
	return nil
}

func (t *Transport) Send(cmd events.Command) error {
	payload, err := events.Encode(cmd)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil || t.closed.Load() {
		return errorsx.Wrap(transports.ErrNotConnected, errorsx.ReasonNotConnected)
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return errorsx.Wrap(err, errorsx.ReasonTransportSend)
	}
	return nil
}

func (t *Transport) readLoop(conn *websocket.Conn, gen uint64) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				t.logger.Warn("socket_read_error", slog.String("error", err.Error()))
			}
			break
		}
		ev, err := events.Decode(msg)
		if err != nil {
			t.logger.Warn("socket_decode_error", slog.String("error", err.Error()))
			continue
		}
		t.deliver(gen, ev)
	}

	t.mu.Lock()
	if t.conn == conn {
		t.conn = nil
	}
	t.mu.Unlock()
	_ = conn.Close()
	t.deliver(gen, events.Disconnected{})
}

// deliver forwards one event to the receive channel. The mutex fences
// it against Close: once closed (or once a newer connection exists for
// this gen) nothing is delivered, so no late event can race the
// channel close.
func (t *Transport) deliver(gen uint64, ev events.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed.Load() || gen != t.gen.Load() {
		return
	}
	select {
	case t.recvCh <- ev:
	default:
		t.logger.Warn("socket_recv_channel_full", slog.String("event", string(ev.Type())))
	}
}

var _ transports.Transport = (*Transport)(nil)
