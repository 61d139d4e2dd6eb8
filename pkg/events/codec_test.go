package events

import (
	"encoding/json"
	"testing"
)

func TestDecodeTranscription(t *testing.T) {
	raw := []byte(`{"event":"transcription","data":{"sender":"User","text":"Hej Alice"}}`)
	ev, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	tx, ok := ev.(Transcription)
	if !ok {
		t.Fatalf("expected Transcription, got %T", ev)
	}
	if tx.Sender != SenderUser || tx.Text != "Hej Alice" {
		t.Fatalf("unexpected payload: %+v", tx)
	}
}

func TestDecodeAudioIntArray(t *testing.T) {
	raw := []byte(`{"event":"audio_data","data":{"data":[0,127,255]}}`)
	ev, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	audio, ok := ev.(Audio)
	if !ok {
		t.Fatalf("expected Audio, got %T", ev)
	}
	if len(audio.Data) != 3 || audio.Data[2] != 255 {
		t.Fatalf("unexpected bytes: %v", audio.Data)
	}
}

func TestDecodeAudioBase64(t *testing.T) {
	raw := []byte(`{"event":"audio_data","data":{"data":"AAEC"}}`)
	ev, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	audio := ev.(Audio)
	if len(audio.Data) != 3 || audio.Data[2] != 2 {
		t.Fatalf("unexpected bytes: %v", audio.Data)
	}
}

func TestDecodeUnknownTag(t *testing.T) {
	raw := []byte(`{"event":"future_thing","data":{"x":1}}`)
	ev, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	unknown, ok := ev.(Unknown)
	if !ok {
		t.Fatalf("expected Unknown, got %T", ev)
	}
	if unknown.Name != "future_thing" {
		t.Fatalf("unexpected name: %q", unknown.Name)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode([]byte(`{"event":`)); err == nil {
		t.Fatalf("expected error for malformed frame")
	}
}

func TestEncodeUserInput(t *testing.T) {
	raw, err := Encode(UserInput{Text: "hej"})
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	var env struct {
		Event string `json:"event"`
		Data  struct {
			Text string `json:"text"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Event != "user_input" || env.Data.Text != "hej" {
		t.Fatalf("unexpected envelope: %s", raw)
	}
}

func TestEncodeBareCommandOmitsData(t *testing.T) {
	raw, err := Encode(PauseAudio{})
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(env["event"]) != `"pause_audio"` {
		t.Fatalf("unexpected event: %s", env["event"])
	}
	if _, ok := env["data"]; ok {
		t.Fatalf("expected data omitted for bare command")
	}
}
