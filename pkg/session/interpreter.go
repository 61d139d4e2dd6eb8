package session

import (
	"github.com/sagered/alva/pkg/conversation"
	"github.com/sagered/alva/pkg/events"
)

// fragment is a derived effect: one piece of streamed text to fold into
// the conversation log.
type fragment struct {
	role conversation.Role
	text string
}

// apply is the event interpreter: a pure mapping from (state, event) to
// (state, fragments). It performs no I/O and never fails; unrecognized
// events and status strings pass through without effect so newer
// service versions stay compatible.
func apply(s State, ev events.Event) (State, []fragment) {
	switch ev := ev.(type) {
	case events.Connected:
		s.Phase = PhaseConnected
		s.LastError = ""
	case events.Disconnected:
		s.Phase = PhaseDisconnected
		s.Listening = false
		s.Speaking = false
	case events.Status:
		switch ev.Msg {
		case events.StatusStarted, events.StatusMicActive:
			// Listening is only meaningful while connected.
			s.Listening = s.Phase == PhaseConnected
		case events.StatusStopped, events.StatusMicMuted:
			s.Listening = false
		}
	case events.Transcription:
		if ev.Sender == events.SenderAssistant {
			s.Speaking = true
			return s, []fragment{{role: conversation.RoleAssistant, text: ev.Text}}
		}
		return s, []fragment{{role: conversation.RoleUser, text: ev.Text}}
	case events.Audio:
		s.Speaking = true
	case events.Fault:
		s.LastError = ev.Msg
	}
	return s, nil
}
