package proto

import (
	"github.com/trytobebee/snake_sim/pkg/game"
	"github.com/trytobebee/snake_sim/pkg/store"
)

// Message types sent to clients
const (
	TypeConfig = "config"
	TypeState  = "state"
	TypeEvent  = "event"
	TypeStats  = "stats"
	TypeError  = "error"
)

// ServerMessage is the envelope for everything sent to a client
type ServerMessage struct {
	Type   string         `json:"type" msgpack:"type"`
	Config *GameConfig    `json:"config,omitempty" msgpack:"config,omitempty"`
	State  *game.Snapshot `json:"state,omitempty" msgpack:"state,omitempty"`
	Events []game.Event   `json:"events,omitempty" msgpack:"events,omitempty"`
	Stats  *PlayerStats   `json:"stats,omitempty" msgpack:"stats,omitempty"`
	Error  string         `json:"error,omitempty" msgpack:"error,omitempty"`
}

// ClientMessage is an action sent by a client
type ClientMessage struct {
	Action string `json:"action" msgpack:"action"`
}

// GameConfig tells the client how to lay out the board
type GameConfig struct {
	Size       int    `json:"size" msgpack:"size"`
	IntervalMs int64  `json:"intervalMs" msgpack:"intervalMs"`
	Format     string `json:"format" msgpack:"format"`
}

// PlayerStats is the wire form of store.PlayerStats
type PlayerStats struct {
	Player      string `json:"player" msgpack:"player"`
	BestScore   int    `json:"bestScore" msgpack:"bestScore"`
	TotalGames  int    `json:"totalGames" msgpack:"totalGames"`
	Catches     int    `json:"catches" msgpack:"catches"`
	RewardUnits int64  `json:"rewardUnits" msgpack:"rewardUnits"`
}

// ToCommand maps a client action to a simulation command
func ToCommand(action string) (game.Command, bool) {
	if dir, ok := game.ParseDirection(action); ok {
		return game.Command{Type: game.CmdDirection, Dir: dir}, true
	}
	switch action {
	case "pause":
		return game.Command{Type: game.CmdPause}, true
	case "resume":
		return game.Command{Type: game.CmdResume}, true
	case "toggle":
		return game.Command{Type: game.CmdTogglePause}, true
	case "start", "restart":
		return game.Command{Type: game.CmdStart}, true
	}
	return game.Command{}, false
}

// StateMessage wraps a snapshot and the events that produced it
func StateMessage(snap game.Snapshot, events []game.Event) ServerMessage {
	return ServerMessage{Type: TypeState, State: &snap, Events: events}
}

// StatsMessage converts stored totals for the client
func StatsMessage(st store.PlayerStats) ServerMessage {
	return ServerMessage{
		Type: TypeStats,
		Stats: &PlayerStats{
			Player:      st.Player,
			BestScore:   st.BestScore,
			TotalGames:  st.TotalGames,
			Catches:     st.Catches,
			RewardUnits: st.RewardUnits,
		},
	}
}

// ErrorMessage reports a problem to the client
func ErrorMessage(err error) ServerMessage {
	return ServerMessage{Type: TypeError, Error: err.Error()}
}
