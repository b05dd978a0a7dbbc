package game

import (
	"fmt"
	"time"

	"github.com/trytobebee/snake_sim/pkg/config"
)

// EffectKind is a status effect granted by surprise food
type EffectKind int

const (
	EffectColorChange EffectKind = iota
	EffectDoubleSize
	EffectHalfSize
	EffectSlowSpeed
	EffectMinimalSize
	EffectRemoveWalls
	EffectWallEating
)

// AllEffects lists every kind a surprise capture can roll
var AllEffects = []EffectKind{
	EffectColorChange,
	EffectDoubleSize,
	EffectHalfSize,
	EffectSlowSpeed,
	EffectMinimalSize,
	EffectRemoveWalls,
	EffectWallEating,
}

func (k EffectKind) String() string {
	switch k {
	case EffectColorChange:
		return "colorChange"
	case EffectDoubleSize:
		return "doubleSize"
	case EffectHalfSize:
		return "halfSize"
	case EffectSlowSpeed:
		return "slowSpeed"
	case EffectMinimalSize:
		return "minimalSize"
	case EffectRemoveWalls:
		return "removeWalls"
	case EffectWallEating:
		return "wallEatingMode"
	}
	return "unknown"
}

// Timed reports whether the effect is reverted when it expires
func (k EffectKind) Timed() bool {
	return k == EffectColorChange || k == EffectSlowSpeed || k == EffectWallEating
}

// ActiveEffect is the currently applied effect and the values it replaced
type ActiveEffect struct {
	Kind      EffectKind
	ExpiresAt time.Duration
	Saved     EffectSnapshot
}

// EffectSnapshot holds live values taken when an effect was applied
type EffectSnapshot struct {
	Color string
	Walls []Point // Walls cleared by removeWalls, never restored
}

// Effects applies and expires timed status effects
type Effects struct {
	board  *Board
	rng    Rand
	events *eventLog

	active *ActiveEffect
	color  string
	slow   bool
}

// NewEffects creates an effect manager with no active effect
func NewEffects(board *Board, rng Rand, events *eventLog) *Effects {
	return &Effects{board: board, rng: rng, events: events, color: config.BaselineColor}
}

// Active returns the active effect, or nil
func (e *Effects) Active() *ActiveEffect {
	return e.active
}

// Color returns the current snake display color
func (e *Effects) Color() string {
	return e.color
}

// Slow reports whether movement is currently slowed
func (e *Effects) Slow() bool {
	return e.slow
}

// WallEating reports whether walls are currently edible
func (e *Effects) WallEating() bool {
	return e.active != nil && e.active.Kind == EffectWallEating
}

// Random picks an effect kind uniformly
func (e *Effects) Random() EffectKind {
	return AllEffects[e.rng.Intn(len(AllEffects))]
}

// Apply activates kind, replacing any active effect. A replaced timed
// effect is reverted from its own snapshot first.
func (e *Effects) Apply(kind EffectKind, now time.Duration) {
	if e.active != nil {
		e.revert(e.active)
		e.active = nil
	}

	saved := EffectSnapshot{Color: e.color}
	b := e.board

	switch kind {
	case EffectColorChange:
		hue := config.VibrantHues[e.rng.Intn(len(config.VibrantHues))]
		e.color = fmt.Sprintf("oklch(0.65 0.25 %d)", hue)
	case EffectDoubleSize:
		tail := b.Snake[len(b.Snake)-1]
		n := len(b.Snake)
		for i := 0; i < n; i++ {
			b.Snake = append(b.Snake, tail)
		}
	case EffectHalfSize:
		b.Snake = b.Snake[:max(1, len(b.Snake)/2)]
	case EffectMinimalSize:
		b.Snake = b.Snake[:1]
	case EffectSlowSpeed:
		e.slow = true
	case EffectRemoveWalls:
		saved.Walls = b.Walls
		b.Walls = make([]Point, 0)
	case EffectWallEating:
		// Wall checks consult WallEating()
	}

	e.active = &ActiveEffect{
		Kind:      kind,
		ExpiresAt: now + config.EffectDuration,
		Saved:     saved,
	}
	e.events.push(Event{Type: EventEffectApplied, Effect: kind.String()})
}

// Expire clears the active effect once its deadline has passed
func (e *Effects) Expire(now time.Duration) bool {
	if e.active == nil || now < e.active.ExpiresAt {
		return false
	}
	expired := e.active
	e.active = nil
	e.revert(expired)
	e.events.push(Event{Type: EventEffectExpired, Effect: expired.Kind.String()})
	return true
}

// revert undoes a timed effect using the snapshot taken when it was applied
func (e *Effects) revert(a *ActiveEffect) {
	switch a.Kind {
	case EffectColorChange:
		e.color = a.Saved.Color
	case EffectSlowSpeed:
		e.slow = false
	}
}
