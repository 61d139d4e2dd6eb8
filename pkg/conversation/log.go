package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in the conversation. ID is stable across in-place
// content growth so a future protocol with correlation IDs can
// deduplicate optimistic local echoes.
type Message struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time

	// sealed marks a message that must never absorb further fragments:
	// the greeting seed, locally typed input and anything before a turn
	// boundary.
	sealed bool
}

// Sealed reports whether the message is closed to further merging.
func (m Message) Sealed() bool { return m.sealed }

// Log assembles streamed text fragments into turn-structured messages.
// It is safe for concurrent readers; writes are serialized by the
// session's single-writer loop.
type Log struct {
	mu       sync.Mutex
	messages []Message
	now      func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithGreeting seeds the log with a fixed assistant greeting. The seed
// is sealed so assistant fragments never merge into it.
func WithGreeting(text string) Option {
	return func(l *Log) {
		if text == "" {
			return
		}
		l.messages = append(l.messages, Message{
			ID:        uuid.NewString(),
			Role:      RoleAssistant,
			Content:   text,
			CreatedAt: l.now(),
			sealed:    true,
		})
	}
}

func withClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

func NewLog(opts ...Option) *Log {
	l := &Log{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fragment folds one streamed fragment into the log. Consecutive
// fragments from the same role grow the tail message in place
// (timestamp unchanged); a role change, a sealed tail or an empty log
// starts a new message. Returns the affected message.
func (l *Log) Fragment(role Role, text string) Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n := len(l.messages); n > 0 {
		last := &l.messages[n-1]
		if last.Role == role && !last.sealed {
			last.Content += text
			return *last
		}
	}
	msg := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   text,
		CreatedAt: l.now(),
	}
	l.messages = append(l.messages, msg)
	return msg
}

// Append adds a complete message that will never be merged into, e.g.
// the optimistic local echo of typed input.
func (l *Log) Append(role Role, text string) Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   text,
		CreatedAt: l.now(),
		sealed:    true,
	}
	l.messages = append(l.messages, msg)
	return msg
}

// CloseTurn seals the tail message so the next fragment of any role
// starts a new message. History already in the log is untouched; a
// partially merged tail stays as its best-effort final content.
func (l *Log) CloseTurn() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n := len(l.messages); n > 0 {
		l.messages[n-1].sealed = true
	}
}

// Messages returns a snapshot of the log.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages in the log.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}
