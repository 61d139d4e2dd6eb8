package events

// Type identifies an inbound protocol event by its wire name.
type Type string

const (
	// TypeConnected and TypeDisconnected are synthetic: they are raised by
	// the transport around the connection lifecycle, never sent by the peer.
	TypeConnected    Type = "connection_established"
	TypeDisconnected Type = "connection_lost"

	TypeStatus        Type = "status"
	TypeTranscription Type = "transcription"
	TypeAudio         Type = "audio_data"
	TypeToolCall      Type = "tool_call"
	TypeFault         Type = "error"
	TypeUnknown       Type = "unknown"
)

// Sender is the wire-level author of a transcription fragment.
type Sender string

const (
	SenderUser      Sender = "User"
	SenderAssistant Sender = "Alice"
)

// Status messages emitted by the voice service. Anything else is
// informational and carries no state effect.
const (
	StatusStarted   = "Alice Started"
	StatusStopped   = "Alice Stopped"
	StatusMicMuted  = "Mic Muted"
	StatusMicActive = "Mic Active"
)

// Event is one inbound protocol event. Events are transient: they are
// folded into session state and never retained.
type Event interface {
	Type() Type
}

// Connected signals that the persistent connection is established.
type Connected struct{}

// Disconnected signals that the connection was lost or torn down.
type Disconnected struct{}

// Status carries a human-readable service status message.
type Status struct {
	Msg string `json:"msg"`
}

// Transcription is one incremental text fragment for a single turn.
type Transcription struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// Audio is one chunk of assistant playback audio. Its presence alone
// signals assistant speech; the payload is opaque to the session core.
type Audio struct {
	Data []byte `json:"data"`
}

// ToolCall reports a tool invocation performed by the assistant.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Fault is a remote-reported, non-fatal error.
type Fault struct {
	Msg string `json:"msg"`
}

// Unknown wraps an unrecognized event tag. Unknown events are ignored
// by the interpreter so newer service versions stay compatible.
type Unknown struct {
	Name string
	Raw  []byte
}

func (Connected) Type() Type     { return TypeConnected }
func (Disconnected) Type() Type  { return TypeDisconnected }
func (Status) Type() Type        { return TypeStatus }
func (Transcription) Type() Type { return TypeTranscription }
func (Audio) Type() Type         { return TypeAudio }
func (ToolCall) Type() Type      { return TypeToolCall }
func (Fault) Type() Type         { return TypeFault }
func (Unknown) Type() Type       { return TypeUnknown }
