package session

import "time"

// Phase is the connection phase of the session.
type Phase int

const (
	PhaseDisconnected Phase = iota
	PhaseConnecting
	PhaseConnected
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseDisconnected:
		return "DISCONNECTED"
	case PhaseConnecting:
		return "CONNECTING"
	case PhaseConnected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// State is the canonical, user-facing session state. Only PhaseConnected
// permits outbound commands other than a connect attempt. Listening can
// only be true while connected; both Listening and Speaking are forced
// false on disconnect.
type State struct {
	Phase     Phase
	Listening bool
	Speaking  bool

	// LastError holds the most recent remote-reported fault message.
	// Cleared on a successful (re)connect.
	LastError string
}

// StateChange represents one observed state transition.
type StateChange struct {
	From      State
	To        State
	Timestamp time.Time
	Reason    string
}

// StateListener observes session state changes. Listeners are invoked
// outside the session lock, in registration order, from the single
// event-processing goroutine.
type StateListener interface {
	OnStateChange(event StateChange)
}
