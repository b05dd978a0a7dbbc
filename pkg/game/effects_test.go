package game

import (
	"testing"
	"time"

	"github.com/trytobebee/snake_sim/pkg/config"
)

func snakeOf(n int) []Point {
	s := make([]Point, n)
	for i := range s {
		s[i] = Point{X: 15 - i, Y: 4}
	}
	return s
}

// TestOneShotEffects checks the immediate body and wall changes
func TestOneShotEffects(t *testing.T) {
	tests := []struct {
		name    string
		kind    EffectKind
		length  int
		wantLen int
	}{
		{"double", EffectDoubleSize, 3, 6},
		{"double single", EffectDoubleSize, 1, 2},
		{"half even", EffectHalfSize, 6, 3},
		{"half odd", EffectHalfSize, 5, 2},
		{"half single", EffectHalfSize, 1, 1},
		{"minimal", EffectMinimalSize, 7, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			board := NewBoard(config.GridSize)
			board.Snake = snakeOf(tc.length)
			head := board.Head()
			e := NewEffects(board, newScriptRand(0.5), &eventLog{})

			e.Apply(tc.kind, 0)

			if len(board.Snake) != tc.wantLen {
				t.Errorf("Expected length %d, got %d", tc.wantLen, len(board.Snake))
			}
			if board.Head() != head {
				t.Errorf("Head moved from %v to %v", head, board.Head())
			}

			// Expiry only clears the display state
			e.Expire(config.EffectDuration)
			if e.Active() != nil {
				t.Error("Expected effect cleared at expiry")
			}
			if len(board.Snake) != tc.wantLen {
				t.Errorf("Expiry changed the body: %d", len(board.Snake))
			}
		})
	}
}

// TestRemoveWallsIsPermanent checks walls do not come back
func TestRemoveWallsIsPermanent(t *testing.T) {
	board := NewBoard(config.GridSize)
	walls := []Point{{X: 1, Y: 1}, {X: 2, Y: 2}}
	board.Walls = walls
	e := NewEffects(board, newScriptRand(0.5), &eventLog{})

	e.Apply(EffectRemoveWalls, 0)
	if len(board.Walls) != 0 {
		t.Fatalf("Expected no walls, got %v", board.Walls)
	}
	if len(e.Active().Saved.Walls) != 2 {
		t.Errorf("Expected removed walls saved, got %v", e.Active().Saved.Walls)
	}

	e.Expire(config.EffectDuration)
	if len(board.Walls) != 0 {
		t.Errorf("Walls restored after expiry: %v", board.Walls)
	}
}

// TestTimedEffectsRevert checks color, speed and wall-eating expire
func TestTimedEffectsRevert(t *testing.T) {
	s, rng := newQuietSim(t)
	s.nextMove = time.Hour

	rng.ints = []int{2}
	s.effects.Apply(EffectColorChange, s.clock)
	if s.effects.Color() == config.BaselineColor {
		t.Fatal("Color did not change")
	}
	s.Advance(config.EffectDuration - time.Millisecond)
	if s.effects.Active() == nil {
		t.Fatal("Effect expired early")
	}
	s.Advance(time.Millisecond)
	if s.effects.Color() != config.BaselineColor || s.effects.Active() != nil {
		t.Errorf("Color not reverted: %s", s.effects.Color())
	}

	s.effects.Apply(EffectSlowSpeed, s.clock)
	if s.Interval() != 2*config.InitialInterval {
		t.Errorf("Expected doubled interval, got %v", s.Interval())
	}
	s.Advance(config.EffectDuration)
	if s.Interval() != config.InitialInterval {
		t.Errorf("Expected interval restored, got %v", s.Interval())
	}

	s.effects.Apply(EffectWallEating, s.clock)
	if !s.effects.WallEating() {
		t.Fatal("Wall eating not active")
	}
	s.Advance(config.EffectDuration)
	if s.effects.WallEating() {
		t.Error("Wall eating still active after expiry")
	}

	events := s.DrainEvents()
	if countEvents(events, EventEffectApplied) != 3 || countEvents(events, EventEffectExpired) != 3 {
		t.Errorf("Expected 3 applied and 3 expired events, got %v", events)
	}
}

// TestReplacedEffectNeverRevertsLater checks the stale deadline guard
func TestReplacedEffectNeverRevertsLater(t *testing.T) {
	s, _ := newQuietSim(t)
	s.nextMove = time.Hour

	s.effects.Apply(EffectSlowSpeed, s.clock)
	s.Advance(30 * time.Second)
	s.effects.Apply(EffectColorChange, s.clock)

	// The replaced slow effect is reverted immediately
	if s.effects.Slow() {
		t.Error("Replaced slowSpeed still slowing movement")
	}
	color := s.effects.Color()

	// The old deadline passes without touching the new effect
	s.Advance(30 * time.Second)
	if a := s.effects.Active(); a == nil || a.Kind != EffectColorChange {
		t.Fatalf("Expected colorChange still active, got %+v", a)
	}
	if s.effects.Color() != color {
		t.Error("Color reverted by a stale deadline")
	}

	s.Advance(30 * time.Second)
	if s.effects.Active() != nil || s.effects.Color() != config.BaselineColor {
		t.Error("colorChange did not expire on its own deadline")
	}
}

// TestOverlappingColorChangesRestoreBaseline checks no compounding of snapshots
func TestOverlappingColorChangesRestoreBaseline(t *testing.T) {
	s, rng := newQuietSim(t)
	s.nextMove = time.Hour

	rng.ints = []int{1, 4}
	s.effects.Apply(EffectColorChange, s.clock)
	s.Advance(10 * time.Second)
	s.effects.Apply(EffectColorChange, s.clock)

	if got := s.effects.Active().Saved.Color; got != config.BaselineColor {
		t.Errorf("Second effect snapshot %s, expected baseline", got)
	}
	s.Advance(config.EffectDuration)
	if s.effects.Color() != config.BaselineColor {
		t.Errorf("Expected baseline after expiry, got %s", s.effects.Color())
	}
}

// TestSlowSpeedKeepsRewardSpeedUp checks an unlock during slow motion survives expiry
func TestSlowSpeedKeepsRewardSpeedUp(t *testing.T) {
	s, _ := newQuietSim(t)
	s.nextMove = time.Hour

	s.effects.Apply(EffectSlowSpeed, s.clock)
	s.ledger.unlock()
	if s.Interval() != 2*(config.InitialInterval-config.IntervalStep) {
		t.Errorf("Unexpected slowed interval %v", s.Interval())
	}
	s.Advance(config.EffectDuration)
	if s.Interval() != config.InitialInterval-config.IntervalStep {
		t.Errorf("Expected %v after expiry, got %v", config.InitialInterval-config.IntervalStep, s.Interval())
	}
}

// TestRandomEffectCoversAllKinds checks the surprise roll
func TestRandomEffectCoversAllKinds(t *testing.T) {
	e := NewEffects(NewBoard(config.GridSize), newScriptRand(-1), &eventLog{})
	seen := map[EffectKind]bool{}
	for i := 0; i < 500; i++ {
		seen[e.Random()] = true
	}
	if len(seen) != len(AllEffects) {
		t.Errorf("Expected all %d kinds, saw %v", len(AllEffects), seen)
	}
}
