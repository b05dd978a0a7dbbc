package renderer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/trytobebee/snake_sim/pkg/config"
	"github.com/trytobebee/snake_sim/pkg/game"
)

// TerminalRenderer handles terminal-based rendering
type TerminalRenderer struct {
	out    io.Writer
	board  [][]int
	buffer strings.Builder
}

// Cell types for the board
const (
	cellEmpty = iota
	cellWall
	cellHead
	cellBody
	cellCrash
	cellFood
	cellSuper
	cellSurprise
	cellHazard
)

// NewTerminalRenderer creates a renderer for a size x size board writing to stdout
func NewTerminalRenderer(size int) *TerminalRenderer {
	// Pre-allocate board to reduce GC pressure
	board := make([][]int, size)
	for i := range board {
		board[i] = make([]int, size)
	}

	return &TerminalRenderer{
		out:   os.Stdout,
		board: board,
	}
}

// ShowCursor shows the cursor (call on exit)
func (r *TerminalRenderer) ShowCursor() {
	fmt.Fprint(r.out, "\033[?25h")
}

// HideCursor hides the cursor (call on start)
func (r *TerminalRenderer) HideCursor() {
	fmt.Fprint(r.out, "\033[?25l")
}

// Render clears the terminal and draws snap
func (r *TerminalRenderer) Render(snap game.Snapshot) {
	// Single write per frame: clear codes and board together
	fmt.Fprint(r.out, "\033[H\033[2J\033[3J"+r.Frame(snap))
}

// Frame builds the text of one frame without writing it
func (r *TerminalRenderer) Frame(snap game.Snapshot) string {
	r.buffer.Reset()
	r.fill(snap)

	r.buffer.WriteString("\n  🐍 SNAKE 🐍\n")
	r.buffer.WriteString(fmt.Sprintf("  Score: %d  |  Caught: %d  |  Level: %d (next at %d)  |  Rewards: %d  |  Speed: %dms\n",
		snap.Score, snap.Catches, snap.RewardLevel, snap.Threshold, snap.RewardUnits, snap.IntervalMs))

	status := ""
	if snap.Food != nil {
		status = fmt.Sprintf("  Food: %s (%ds)", snap.Food.Kind, (snap.Food.RemainingMs+999)/1000)
	}
	if snap.Effect != nil {
		status += fmt.Sprintf("  |  Effect: %s (%ds)", snap.Effect.Kind, (snap.Effect.RemainingMs+999)/1000)
	}
	if snap.Hazard != nil {
		status += fmt.Sprintf("  |  Hazard (%ds)", (snap.Hazard.RemainingMs+999)/1000)
	}
	r.buffer.WriteString(status + "\n\n")

	border := strings.Repeat(config.CharBorder, len(r.board)+2)
	r.buffer.WriteString("  " + border + "\n")
	for _, row := range r.board {
		r.buffer.WriteString("  " + config.CharBorder)
		for _, cell := range row {
			r.buffer.WriteString(glyph(cell))
		}
		r.buffer.WriteString(config.CharBorder + "\n")
	}
	r.buffer.WriteString("  " + border + "\n")

	r.buffer.WriteString("\n  Use WASD or Arrow keys to move\n")
	r.buffer.WriteString("  P to pause, R to restart, Q to quit\n")

	switch snap.State {
	case "idle":
		r.buffer.WriteString("\n  Press R to start\n")
	case "paused":
		r.buffer.WriteString("\n  ⏸️  PAUSED - Press P to continue\n")
	case "gameover":
		r.buffer.WriteString("\n  💀 GAME OVER! Press R to restart or Q to quit\n")
	}

	return r.buffer.String()
}

func (r *TerminalRenderer) fill(snap game.Snapshot) {
	for y := range r.board {
		for x := range r.board[y] {
			r.board[y][x] = cellEmpty
		}
	}

	for _, w := range snap.Walls {
		r.set(w, cellWall)
	}
	if snap.Food != nil {
		switch snap.Food.Kind {
		case "super":
			r.set(snap.Food.Pos, cellSuper)
		case "surprise":
			r.set(snap.Food.Pos, cellSurprise)
		default:
			r.set(snap.Food.Pos, cellFood)
		}
	}
	if snap.Hazard != nil {
		r.set(snap.Hazard.Pos, cellHazard)
	}
	// Body first so the head wins when segments overlap
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		if i == 0 {
			r.set(snap.Snake[i], cellHead)
		} else {
			r.set(snap.Snake[i], cellBody)
		}
	}
	if snap.CrashPoint != nil {
		r.set(*snap.CrashPoint, cellCrash)
	}
}

func (r *TerminalRenderer) set(p game.Point, cell int) {
	if p.Y < 0 || p.Y >= len(r.board) || p.X < 0 || p.X >= len(r.board[p.Y]) {
		return
	}
	r.board[p.Y][p.X] = cell
}

func glyph(cell int) string {
	switch cell {
	case cellWall:
		return config.CharWall
	case cellHead:
		return config.CharHead
	case cellBody:
		return config.CharBody
	case cellCrash:
		return config.CharCrash
	case cellFood:
		return config.CharFood
	case cellSuper:
		return config.CharSuper
	case cellSurprise:
		return config.CharSurprise
	case cellHazard:
		return config.CharHazard
	}
	return config.CharEmpty
}
