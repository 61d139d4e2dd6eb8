package session

import (
	"testing"

	"github.com/sagered/alva/pkg/conversation"
	"github.com/sagered/alva/pkg/events"
)

func TestApplyConnectedClearsLastError(t *testing.T) {
	st := State{Phase: PhaseConnecting, LastError: "boom"}
	next, frags := apply(st, events.Connected{})
	if next.Phase != PhaseConnected || next.LastError != "" {
		t.Fatalf("unexpected state: %+v", next)
	}
	if len(frags) != 0 {
		t.Fatalf("expected no fragments")
	}
}

func TestApplyDisconnectedForcesFlagsDown(t *testing.T) {
	st := State{Phase: PhaseConnected, Listening: true, Speaking: true}
	next, _ := apply(st, events.Disconnected{})
	if next.Phase != PhaseDisconnected || next.Listening || next.Speaking {
		t.Fatalf("unexpected state: %+v", next)
	}
}

func TestApplyStatusStrings(t *testing.T) {
	st := State{Phase: PhaseConnected}

	next, _ := apply(st, events.Status{Msg: events.StatusStarted})
	if !next.Listening {
		t.Fatalf("expected listening after %q", events.StatusStarted)
	}
	next, _ = apply(next, events.Status{Msg: events.StatusMicMuted})
	if next.Listening {
		t.Fatalf("expected not listening after %q", events.StatusMicMuted)
	}
	unknown, _ := apply(next, events.Status{Msg: "Already running"})
	if unknown != next {
		t.Fatalf("informational status must not change state")
	}
}

func TestApplyTranscriptionForwardsFragment(t *testing.T) {
	st := State{Phase: PhaseConnected}

	next, frags := apply(st, events.Transcription{Sender: events.SenderUser, Text: "Hej"})
	if next.Speaking {
		t.Fatalf("user fragment must not set speaking")
	}
	if len(frags) != 1 || frags[0].role != conversation.RoleUser || frags[0].text != "Hej" {
		t.Fatalf("unexpected fragments: %+v", frags)
	}

	next, frags = apply(next, events.Transcription{Sender: events.SenderAssistant, Text: "Hallå"})
	if !next.Speaking {
		t.Fatalf("assistant fragment must set speaking")
	}
	if len(frags) != 1 || frags[0].role != conversation.RoleAssistant {
		t.Fatalf("unexpected fragments: %+v", frags)
	}
}

func TestApplyUnknownEventIsNoop(t *testing.T) {
	st := State{Phase: PhaseConnected, Listening: true}
	next, frags := apply(st, events.Unknown{Name: "telemetry"})
	if next != st || len(frags) != 0 {
		t.Fatalf("unknown events must be ignored")
	}
}
