package proto

import (
	"errors"
	"strings"
	"testing"

	"github.com/trytobebee/snake_sim/pkg/game"
)

func TestToCommand(t *testing.T) {
	tests := []struct {
		action string
		want   game.Command
		ok     bool
	}{
		{"up", game.Command{Type: game.CmdDirection, Dir: game.Up}, true},
		{"LEFT", game.Command{Type: game.CmdDirection, Dir: game.Left}, true},
		{"pause", game.Command{Type: game.CmdPause}, true},
		{"resume", game.Command{Type: game.CmdResume}, true},
		{"toggle", game.Command{Type: game.CmdTogglePause}, true},
		{"restart", game.Command{Type: game.CmdStart}, true},
		{"fire", game.Command{}, false},
		{"", game.Command{}, false},
	}
	for _, tc := range tests {
		got, ok := ToCommand(tc.action)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ToCommand(%q) = %+v, %v; want %+v, %v", tc.action, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != JSON {
		t.Errorf("empty format: %v, %v", f, err)
	}
	if f, err := ParseFormat("msgpack"); err != nil || !f.Binary() {
		t.Errorf("msgpack format: %v, %v", f, err)
	}
	if _, err := ParseFormat("protobuf"); err == nil {
		t.Error("Expected unknown format error")
	}
}

func TestStateMessageEncodings(t *testing.T) {
	snap := game.Snapshot{
		State: "playing",
		Size:  20,
		Snake: []game.Point{{X: 3, Y: 4}, {X: 2, Y: 4}},
		Food:  &game.FoodInfo{Pos: game.Point{X: 7, Y: 7}, Kind: "super", RemainingMs: 9000},
		Score: 30,
	}
	pos := game.Point{X: 3, Y: 4}
	msg := StateMessage(snap, []game.Event{{Type: game.EventFoodCaptured, Pos: &pos, Food: "super", Score: 30}})

	jsonData, err := Encode(JSON, msg)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"type":"state"`, `"remainingMs":9000`, `"type":"foodCaptured"`} {
		if !strings.Contains(string(jsonData), key) {
			t.Errorf("JSON missing %s: %s", key, jsonData)
		}
	}
	if strings.Contains(string(jsonData), `"hazard"`) {
		t.Error("nil hazard should be omitted")
	}

	packed, err := Encode(MsgPack, msg)
	if err != nil {
		t.Fatal(err)
	}
	if len(packed) >= len(jsonData) {
		t.Errorf("msgpack frame (%d bytes) not smaller than JSON (%d bytes)", len(packed), len(jsonData))
	}
	var back ServerMessage
	if err := Decode(MsgPack, packed, &back); err != nil {
		t.Fatal(err)
	}
	if back.State == nil || len(back.State.Snake) != 2 || back.State.Food.Kind != "super" || back.Events[0].Pos.X != 3 {
		t.Errorf("msgpack lost data: %+v", back)
	}
	t.Logf("json %d bytes, msgpack %d bytes", len(jsonData), len(packed))
}

func TestDecodeClientMessage(t *testing.T) {
	var m ClientMessage
	if err := Decode(JSON, []byte(`{"action":"down"}`), &m); err != nil || m.Action != "down" {
		t.Errorf("Decode = %+v, %v", m, err)
	}
	if err := Decode(JSON, []byte(`{`), &m); err == nil {
		t.Error("Expected error for truncated JSON")
	}
	if msg := ErrorMessage(errors.New("boom")); msg.Type != TypeError || msg.Error != "boom" {
		t.Errorf("Unexpected error message %+v", msg)
	}
}
