package events

import (
	"encoding/base64"
	"encoding/json"

	"github.com/sagered/alva/pkg/errorsx"
)

// envelope is the wire framing shared by both directions:
// {"event": "<name>", "data": {...}}.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Decode parses one wire message into a typed event. Unrecognized event
// names decode into Unknown rather than failing.
func Decode(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonDecode)
	}
	switch Type(env.Event) {
	case TypeStatus:
		var ev Status
		if err := unmarshalData(env.Data, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case TypeTranscription:
		var ev Transcription
		if err := unmarshalData(env.Data, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case TypeAudio:
		var payload struct {
			Data audioBytes `json:"data"`
		}
		if err := unmarshalData(env.Data, &payload); err != nil {
			return nil, err
		}
		return Audio{Data: payload.Data}, nil
	case TypeToolCall:
		var ev ToolCall
		if err := unmarshalData(env.Data, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case TypeFault:
		var ev Fault
		if err := unmarshalData(env.Data, &ev); err != nil {
			return nil, err
		}
		return ev, nil
	case TypeConnected:
		return Connected{}, nil
	case TypeDisconnected:
		return Disconnected{}, nil
	default:
		return Unknown{Name: env.Event, Raw: append([]byte(nil), raw...)}, nil
	}
}

func unmarshalData(data json.RawMessage, out any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errorsx.Wrap(err, errorsx.ReasonDecode)
	}
	return nil
}

// audioBytes accepts both base64 strings and JSON integer arrays, which
// is how the service historically serialized raw PCM chunks.
type audioBytes []byte

func (b *audioBytes) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*b = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return err
		}
		*b = decoded
		return nil
	}
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	out := make([]byte, len(ints))
	for i, v := range ints {
		out[i] = byte(v)
	}
	*b = out
	return nil
}

// Command is one outbound client intent. Commands are fire-and-forget:
// no acknowledgement contract exists, results arrive as later events.
type Command interface {
	Name() string
}

// StartAudio asks the service to begin audio capture.
type StartAudio struct {
	DeviceIndex *int `json:"device_index,omitempty"`
	Muted       bool `json:"muted,omitempty"`
}

// StopAudio asks the service to stop audio capture.
type StopAudio struct{}

// PauseAudio mutes the microphone without ending the session.
type PauseAudio struct{}

// ResumeAudio unmutes a paused microphone.
type ResumeAudio struct{}

// UserInput sends locally typed text to the assistant.
type UserInput struct {
	Text string `json:"text"`
}

// Shutdown requests a graceful remote service shutdown.
type Shutdown struct{}

func (StartAudio) Name() string  { return "start_audio" }
func (StopAudio) Name() string   { return "stop_audio" }
func (PauseAudio) Name() string  { return "pause_audio" }
func (ResumeAudio) Name() string { return "resume_audio" }
func (UserInput) Name() string   { return "user_input" }
func (Shutdown) Name() string    { return "shutdown" }

// Encode frames a command in the wire envelope.
func Encode(cmd Command) ([]byte, error) {
	env := envelope{Event: cmd.Name()}
	switch cmd.(type) {
	case StopAudio, PauseAudio, ResumeAudio, Shutdown:
	default:
		data, err := json.Marshal(cmd)
		if err != nil {
			return nil, errorsx.Wrap(err, errorsx.ReasonDecode)
		}
		env.Data = data
	}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonDecode)
	}
	return b, nil
}
