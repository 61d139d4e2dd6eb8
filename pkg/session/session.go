package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sagered/alva/pkg/conversation"
	"github.com/sagered/alva/pkg/events"
	"github.com/sagered/alva/pkg/logging"
	"github.com/sagered/alva/pkg/redact"
	"github.com/sagered/alva/pkg/transports"
)

// Playback consumes assistant audio chunks. The session neither decodes
// nor buffers audio; it only hands chunks over.
type Playback interface {
	Play(chunk []byte)
}

// ToolObserver is notified of assistant tool invocations.
type ToolObserver interface {
	OnToolCall(name string, args map[string]any)
}

// Options configures a Session.
type Options struct {
	// AutoConnect makes Start dial immediately instead of waiting for an
	// explicit Connect call.
	AutoConnect bool

	// Greeting seeds the conversation log with a fixed assistant
	// message that streamed fragments never merge into.
	Greeting string

	// DeviceIndex and StartMuted are forwarded with start_audio.
	DeviceIndex *int
	StartMuted  bool

	Playback Playback
	Tools    ToolObserver
	Logger   *slog.Logger
}

// Session owns the client half of one voice service connection: the
// connection lifecycle, the derived state and the conversation log.
// Inbound events are processed one at a time in arrival order by a
// single goroutine; there are no concurrent state or log mutations.
type Session struct {
	transport transports.Transport
	log       *conversation.Log
	logger    *slog.Logger
	opts      Options

	mu        sync.Mutex
	state     State
	listeners []StateListener

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
}

func New(transport transports.Transport, opts Options) *Session {
	base := opts.Logger
	if base == nil {
		base = slog.Default()
	}
	var logOpts []conversation.Option
	if opts.Greeting != "" {
		logOpts = append(logOpts, conversation.WithGreeting(opts.Greeting))
	}
	return &Session{
		transport: transport,
		log:       conversation.NewLog(logOpts...),
		logger:    logging.NewComponentLogger(base, "session"),
		opts:      opts,
		done:      make(chan struct{}),
	}
}

// Start launches the event-processing loop and, with AutoConnect,
// performs the initial connection attempt. It returns immediately; use
// Done to wait for termination.
func (s *Session) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var connectErr error
	s.startOnce.Do(func() {
		go s.run()
		go func() {
			select {
			case <-ctx.Done():
				_ = s.Close()
			case <-s.done:
			}
		}()
		if s.opts.AutoConnect {
			connectErr = s.Connect(ctx)
		}
	})
	return connectErr
}

// Done is closed once the event loop has terminated.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close tears down the transport and stops event processing. Safe to
// call at any time, including mid-stream of a partial transcript.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.transport.Close()
		s.transition(func(st State) State {
			st.Phase = PhaseDisconnected
			st.Listening = false
			st.Speaking = false
			return st
		}, "close")
	})
	return err
}

// Connect performs one connection attempt. A transport failure surfaces
// as a Disconnected event, completing the Disconnected -> Connecting ->
// Disconnected cycle; the error is also returned for callers layering
// their own retry policy.
func (s *Session) Connect(ctx context.Context) error {
	s.transition(func(st State) State {
		st.Phase = PhaseConnecting
		return st
	}, "connect")
	return s.transport.Connect(ctx)
}

// StartListening asks the service to begin audio capture. It also
// closes the current conversation turn so the next fragment starts a
// clean message, and resets the speaking flag for the new turn. No-op
// unless connected.
func (s *Session) StartListening() {
	s.mu.Lock()
	if s.state.Phase != PhaseConnected {
		s.mu.Unlock()
		s.logger.Debug("start_listening_ignored", slog.String("phase", s.state.Phase.String()))
		return
	}
	s.mu.Unlock()

	s.log.CloseTurn()
	s.transition(func(st State) State {
		st.Speaking = false
		return st
	}, "start_listening")
	s.send(events.StartAudio{DeviceIndex: s.opts.DeviceIndex, Muted: s.opts.StartMuted})
}

// StopListening asks the service to stop audio capture. Idempotent:
// valid regardless of the current listening flag.
func (s *Session) StopListening() {
	if !s.connected() {
		return
	}
	s.send(events.StopAudio{})
}

// ToggleMute pauses capture while listening and resumes it otherwise.
// No-op if disconnected.
func (s *Session) ToggleMute() {
	s.mu.Lock()
	if s.state.Phase != PhaseConnected {
		s.mu.Unlock()
		return
	}
	listening := s.state.Listening
	s.mu.Unlock()

	if listening {
		s.send(events.PauseAudio{})
	} else {
		s.send(events.ResumeAudio{})
	}
}

// SendText sends typed input and appends it to the log as a completed
// user message immediately, without waiting for acknowledgement.
// Empty or whitespace-only input is rejected locally with no network
// round-trip and no log mutation.
func (s *Session) SendText(text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	if !s.connected() {
		s.logger.Debug("send_text_ignored_not_connected")
		return
	}
	s.log.Append(conversation.RoleUser, trimmed)
	s.send(events.UserInput{Text: trimmed})
}

// Shutdown requests a graceful remote service shutdown. No-op if
// disconnected.
func (s *Session) Shutdown() {
	if !s.connected() {
		return
	}
	s.send(events.Shutdown{})
}

// State returns a snapshot of the derived session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Conversation returns the log. Callers hold a read reference only;
// all mutation flows through the session.
func (s *Session) Conversation() *conversation.Log { return s.log }

// AddListener registers a listener for state change events.
func (s *Session) AddListener(listener StateListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *Session) connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Phase == PhaseConnected
}

func (s *Session) send(cmd events.Command) {
	if err := s.transport.Send(cmd); err != nil {
		s.logger.Warn("command_send_failed",
			slog.String("command", cmd.Name()),
			slog.String("error", err.Error()))
	}
}

func (s *Session) run() {
	defer close(s.done)
	for ev := range s.transport.Recv() {
		s.handle(ev)
	}
}

// handle processes one inbound event to completion: state update, log
// update, sink dispatch, listener notification. Single caller, so
// event order is arrival order.
func (s *Session) handle(ev events.Event) {
	switch ev := ev.(type) {
	case events.Audio:
		if s.opts.Playback != nil && len(ev.Data) > 0 {
			s.opts.Playback.Play(ev.Data)
		}
	case events.ToolCall:
		s.logger.Info("tool_call", slog.String("tool_name", ev.Name))
		if s.opts.Tools != nil {
			s.opts.Tools.OnToolCall(ev.Name, ev.Args)
		}
	case events.Fault:
		s.logger.Warn("service_fault", slog.String("msg", ev.Msg))
	case events.Unknown:
		s.logger.Debug("unknown_event_ignored", slog.String("event", ev.Name))
	}

	s.mu.Lock()
	from := s.state
	next, fragments := apply(s.state, ev)
	s.state = next
	listeners := make([]StateListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, frag := range fragments {
		msg := s.log.Fragment(frag.role, frag.text)
		s.logger.Debug("fragment_merged",
			slog.String("role", string(frag.role)),
			slog.String("content", redact.Text(msg.Content)))
	}

	if from != next {
		change := StateChange{
			From:      from,
			To:        next,
			Timestamp: time.Now(),
			Reason:    string(ev.Type()),
		}
		for _, listener := range listeners {
			listener.OnStateChange(change)
		}
	}
}

// transition applies a command-surface state mutation and notifies
// listeners, mirroring how inbound events are folded in.
func (s *Session) transition(mutate func(State) State, reason string) {
	s.mu.Lock()
	from := s.state
	next := mutate(from)
	s.state = next
	listeners := make([]StateListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	if from == next {
		return
	}
	change := StateChange{From: from, To: next, Timestamp: time.Now(), Reason: reason}
	for _, listener := range listeners {
		listener.OnStateChange(change)
	}
}
