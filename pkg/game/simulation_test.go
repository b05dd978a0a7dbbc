package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/trytobebee/snake_sim/pkg/config"
)

// TestPauseFreezesTimers checks paused time counts for nothing
func TestPauseFreezesTimers(t *testing.T) {
	t0 := time.Unix(1700000000, 0)
	s := NewSimulation(newScriptRand(0.99), nil)
	s.Start(t0)
	s.board.Hazard = nil
	s.board.Food = &Food{Pos: Point{X: 0, Y: 0}, Kind: FoodSuper}
	s.nextMove = time.Hour
	s.effects.Apply(EffectSlowSpeed, 0)
	s.DrainEvents()

	s.Step(t0.Add(5 * time.Second))
	if !s.Pause() {
		t.Fatal("Pause failed")
	}
	paused := t0.Add(5 * time.Minute)
	s.Step(paused)
	if !s.Resume(paused) {
		t.Fatal("Resume failed")
	}
	s.Step(paused.Add(4 * time.Second))

	snap := s.Snapshot()
	if snap.PlayTimeMs != 9000 {
		t.Errorf("Expected 9s of play time, got %dms", snap.PlayTimeMs)
	}
	if snap.Food == nil || snap.Food.Kind != "super" || snap.Food.RemainingMs != 1000 {
		t.Errorf("Food should survive the pause with 1s left, got %+v", snap.Food)
	}
	if snap.Effect == nil || snap.Effect.RemainingMs != 51000 {
		t.Errorf("Effect should have 51s left, got %+v", snap.Effect)
	}

	s.Step(paused.Add(5 * time.Second))
	events := s.DrainEvents()
	if countEvents(events, EventFoodExpired) != 1 {
		t.Errorf("Expected food to expire after 10s of play, got %v", events)
	}
	if s.board.Food == nil || s.board.Food.SpawnedAt != 10*time.Second {
		t.Errorf("Expected replacement food spawned at 10s, got %+v", s.board.Food)
	}
}

// TestTogglePause flips between the two states
func TestTogglePause(t *testing.T) {
	s, _ := newQuietSim(t)
	now := time.Now()
	if !s.TogglePause(now) || s.State() != StatePaused {
		t.Fatalf("Expected paused, got %v", s.State())
	}
	if !s.TogglePause(now) || s.State() != StatePlaying {
		t.Fatalf("Expected playing, got %v", s.State())
	}
	if s.Resume(now) {
		t.Error("Resume accepted while playing")
	}
}

// TestHazardDespawns checks the hazard lifetime
func TestHazardDespawns(t *testing.T) {
	s, _ := newQuietSim(t)
	s.nextMove = time.Hour
	s.board.Hazard = &Hazard{Pos: Point{X: 5, Y: 5}}

	s.Advance(config.HazardLifetime - config.TimeoutCheck)
	if s.board.Hazard == nil {
		t.Fatal("Hazard despawned early")
	}
	snap := s.Snapshot()
	if snap.Hazard == nil || snap.Hazard.RemainingMs != config.TimeoutCheck.Milliseconds() {
		t.Errorf("Unexpected hazard view %+v", snap.Hazard)
	}

	s.Advance(config.TimeoutCheck)
	if s.board.Hazard != nil {
		t.Error("Hazard still present after its lifetime")
	}
	if countEvents(s.DrainEvents(), EventHazardDespawned) != 1 {
		t.Error("Expected a hazardDespawned event")
	}
}

// TestOneMovePerPass checks a long pass never performs several moves
func TestOneMovePerPass(t *testing.T) {
	s, _ := newQuietSim(t)
	s.board.Snake = []Point{{X: 2, Y: 2}}
	s.board.Food = &Food{Pos: Point{X: 19, Y: 19}}

	s.Advance(time.Second)
	if s.Moves() != 1 {
		t.Fatalf("Expected 1 move, got %d", s.Moves())
	}
	if s.board.Head() != (Point{X: 3, Y: 2}) {
		t.Errorf("Unexpected head %v", s.board.Head())
	}

	// The schedule restarts from now rather than replaying the backlog
	s.Advance(s.Interval() - time.Millisecond)
	if s.Moves() != 1 {
		t.Errorf("Moved before the interval elapsed")
	}
	s.Advance(time.Millisecond)
	if s.Moves() != 2 {
		t.Errorf("Expected second move, got %d", s.Moves())
	}
}

// TestStepIgnoredWhenIdle checks nothing runs before Start
func TestStepIgnoredWhenIdle(t *testing.T) {
	s := NewSimulation(newScriptRand(0.99), nil)
	s.Step(time.Now())
	s.Advance(time.Minute)
	if s.Moves() != 0 || s.State() != StateIdle {
		t.Errorf("Idle simulation advanced: moves=%d state=%v", s.Moves(), s.State())
	}
	if snap := s.Snapshot(); snap.State != "idle" || snap.Food != nil {
		t.Errorf("Unexpected idle snapshot %+v", snap)
	}
}

// TestSnapshotIsDeepCopy checks renderers cannot mutate the board
func TestSnapshotIsDeepCopy(t *testing.T) {
	s, _ := newQuietSim(t)
	s.board.Walls = []Point{{X: 1, Y: 1}}
	snap := s.Snapshot()

	snap.Snake[0] = Point{X: 99, Y: 99}
	snap.Walls[0] = Point{X: 98, Y: 98}
	snap.Food.Pos = Point{X: 97, Y: 97}

	if s.board.Head() != (Point{X: config.StartX, Y: config.StartY}) {
		t.Error("Snapshot shares the snake slice")
	}
	if s.board.Walls[0] != (Point{X: 1, Y: 1}) {
		t.Error("Snapshot shares the wall slice")
	}
	if s.board.Food.Pos != (Point{X: 0, Y: 0}) {
		t.Error("Snapshot shares the food")
	}
	if snap.Color != config.BaselineColor || snap.Threshold != config.BaseThreshold {
		t.Errorf("Unexpected snapshot header %+v", snap)
	}
}

// TestGameOverSnapshotHasCrashPoint checks the terminal view
func TestGameOverSnapshotHasCrashPoint(t *testing.T) {
	s, _ := newQuietSim(t)
	s.board.Walls = []Point{{X: config.StartX + 1, Y: config.StartY}}
	tick(s)

	snap := s.Snapshot()
	if snap.State != "gameover" || snap.CrashPoint == nil {
		t.Fatalf("Expected crash point in game-over snapshot, got %+v", snap)
	}
	snap.CrashPoint.X = -5
	if s.board.CrashPoint.X == -5 {
		t.Error("Snapshot shares the crash point")
	}

	var over *Summary
	for _, e := range s.DrainEvents() {
		if e.Type == EventGameOver {
			over = e.Summary
		}
	}
	if over == nil || over.Session != s.Session {
		t.Errorf("Expected summary for session %s, got %+v", s.Session, over)
	}
}

// TestAutopilotSoak runs many seeded games and checks invariants every move
func TestAutopilotSoak(t *testing.T) {
	pilot := Autopilot{}
	for seed := int64(1); seed <= 5; seed++ {
		s := NewSimulation(rand.New(rand.NewSource(seed)), nil)
		s.Start(time.Now())
		runs, best := 1, 0

		for i := 0; i < 3000; i++ {
			if s.State() == StateGameOver {
				if s.score > best {
					best = s.score
				}
				s.Start(time.Now())
				runs++
			}
			snap := s.Snapshot()
			if dir, ok := pilot.GetAction(&snap); ok {
				s.SetDirection(dir)
			}
			tick(s)
			s.DrainEvents()

			if s.State() != StatePlaying {
				continue
			}
			b := s.board
			if len(b.Snake) < 1 {
				t.Fatalf("seed %d: empty snake", seed)
			}
			if !b.InBounds(b.Head()) {
				t.Fatalf("seed %d: head %v out of bounds", seed, b.Head())
			}
			if b.IsWall(b.Head()) {
				t.Fatalf("seed %d: head on wall %v", seed, b.Head())
			}
			if b.Food != nil && b.IsWall(b.Food.Pos) {
				t.Fatalf("seed %d: food on wall %v", seed, b.Food.Pos)
			}
			if s.ledger.Interval < config.MinInterval {
				t.Fatalf("seed %d: interval %v below floor", seed, s.ledger.Interval)
			}
		}
		t.Logf("seed %d: %d runs, best score %d", seed, runs, best)
	}
}
