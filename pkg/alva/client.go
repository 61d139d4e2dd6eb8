package alva

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sagered/alva/pkg/configutil"
	"github.com/sagered/alva/pkg/logging"
	"github.com/sagered/alva/pkg/redact"
	"github.com/sagered/alva/pkg/resilience"
	"github.com/sagered/alva/pkg/session"
	"github.com/sagered/alva/pkg/transports"
	mocktransport "github.com/sagered/alva/pkg/transports/mock"
	sockettransport "github.com/sagered/alva/pkg/transports/socket"
)

// Client wires a configured transport and session together. One Client
// owns one session lifecycle; create a new Client for a new lifecycle.
type Client struct {
	cfg       Config
	transport transports.Transport
	session   *session.Session
	logger    *slog.Logger
}

var socketSettingsSchema = configutil.Schema{
	Optional: []string{"origin", "handshake_timeout_ms", "recv_buffer"},
}

func New(cfg Config) (*Client, error) {
	logger := logging.InitLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	slog.SetDefault(logger)
	redact.SetEnabled(cfg.Privacy.RedactPII)

	transport, err := buildTransport(cfg)
	if err != nil {
		return nil, err
	}

	sess := session.New(transport, session.Options{
		AutoConnect: cfg.AutoConnect,
		Greeting:    cfg.Greeting,
		DeviceIndex: cfg.Audio.DeviceIndex,
		StartMuted:  cfg.Audio.StartMuted,
		Logger:      logger,
	})

	return &Client{
		cfg:       cfg,
		transport: transport,
		session:   sess,
		logger:    logging.NewComponentLogger(logger, "client"),
	}, nil
}

func buildTransport(cfg Config) (transports.Transport, error) {
	switch cfg.Transports.Provider {
	case "socket":
		if err := configutil.ValidateSettings(cfg.Transports.Settings, socketSettingsSchema); err != nil {
			return nil, fmt.Errorf("transports.settings: %w", err)
		}
		sc := sockettransport.Config{Endpoint: cfg.Endpoint}
		if err := configutil.DecodeSettings(cfg.Transports.Settings, &sc); err != nil {
			return nil, fmt.Errorf("transports.settings: %w", err)
		}
		return sockettransport.New(sc), nil
	case "mock":
		return mocktransport.New(), nil
	default:
		return nil, fmt.Errorf("unknown transport provider %q", cfg.Transports.Provider)
	}
}

// Start launches the session loop and the initial connection attempt
// when auto_connect is set.
func (c *Client) Start(ctx context.Context) error {
	return c.session.Start(ctx)
}

// ConnectWithRetry layers the configured retry policy over the
// transport's single-attempt Connect.
func (c *Client) ConnectWithRetry(ctx context.Context) error {
	policy := resilience.NewRetryPolicy(c.cfg.Reconnect.MaxRetries,
		time.Duration(c.cfg.Reconnect.BackoffMS)*time.Millisecond)
	return policy.Do(func() error {
		return c.session.Connect(ctx)
	})
}

// Session exposes the command surface and derived state.
func (c *Client) Session() *session.Session { return c.session }

// Drain asks the remote service to shut down gracefully before the
// local teardown in Close.
func (c *Client) Drain() error {
	c.session.Shutdown()
	return nil
}

func (c *Client) Close() error {
	return c.session.Close()
}
