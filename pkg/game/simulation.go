package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/trytobebee/snake_sim/pkg/config"
)

// Simulation is the top-level state machine. It owns every piece of run
// state and is driven one scheduler pass at a time; it is not safe for
// concurrent use.
type Simulation struct {
	Session string

	rng    Rand
	source RewardSource
	state  State
	events eventLog

	clock      time.Duration // Play clock: active playing time since Start
	lastReal   time.Time
	nextMove   time.Duration
	lastExpiry time.Duration // Last food/hazard timeout check

	board   *Board
	oracle  *Oracle
	spawner *Spawner
	effects *Effects
	ledger  *Ledger

	moves      int
	score      int
	superballs int
	surprises  int
}

// NewSimulation creates an idle simulation. source may be nil.
func NewSimulation(rng Rand, source RewardSource) *Simulation {
	s := &Simulation{rng: rng, source: source}
	s.reset()
	return s
}

func (s *Simulation) reset() {
	s.board = NewBoard(config.GridSize)
	s.oracle = NewOracle(s.board, s.rng)
	s.spawner = NewSpawner(s.board, s.oracle, s.rng, &s.events)
	s.effects = NewEffects(s.board, s.rng, &s.events)
	s.ledger = NewLedger(s.source)
	s.events.drain()
	s.clock = 0
	s.lastExpiry = 0
	s.moves = 0
	s.score = 0
	s.superballs = 0
	s.surprises = 0
}

// Start discards the previous run and begins a new one
func (s *Simulation) Start(now time.Time) {
	s.reset()
	s.Session = uuid.New().String()
	s.lastReal = now
	s.nextMove = s.Interval()
	s.spawner.PlaceFood(s.clock)
	s.state = StatePlaying
}

// State returns the lifecycle state
func (s *Simulation) State() State {
	return s.state
}

// Pause suspends a playing run
func (s *Simulation) Pause() bool {
	if s.state != StatePlaying {
		return false
	}
	s.state = StatePaused
	return true
}

// Resume continues a paused run. Time spent paused does not count.
func (s *Simulation) Resume(now time.Time) bool {
	if s.state != StatePaused {
		return false
	}
	s.state = StatePlaying
	s.lastReal = now
	return true
}

// TogglePause flips between playing and paused
func (s *Simulation) TogglePause(now time.Time) bool {
	if s.state == StatePaused {
		return s.Resume(now)
	}
	return s.Pause()
}

// SetDirection queues a direction change while playing
func (s *Simulation) SetDirection(dir Direction) bool {
	if s.state != StatePlaying {
		return false
	}
	return s.board.SetDirection(dir)
}

// Moves returns how many moves the current run has performed
func (s *Simulation) Moves() int {
	return s.moves
}

// Interval returns the effective move interval
func (s *Simulation) Interval() time.Duration {
	if s.effects.Slow() {
		return s.ledger.Interval * 2
	}
	return s.ledger.Interval
}

// Step runs one scheduler pass at wall-clock time now
func (s *Simulation) Step(now time.Time) {
	if s.state != StatePlaying {
		return
	}
	dt := now.Sub(s.lastReal)
	s.lastReal = now
	if dt < 0 {
		dt = 0
	}
	s.Advance(dt)
}

// Advance moves the play clock forward by dt and runs whatever is due
func (s *Simulation) Advance(dt time.Duration) {
	if s.state != StatePlaying {
		return
	}
	s.clock += dt

	s.effects.Expire(s.clock)

	if s.clock-s.lastExpiry >= config.TimeoutCheck {
		s.lastExpiry = s.clock
		s.expireFood()
		s.expireHazard()
	}

	if s.clock >= s.nextMove {
		s.move()
		s.nextMove += s.Interval()
		if s.nextMove <= s.clock {
			s.nextMove = s.clock + s.Interval()
		}
	}
}

func (s *Simulation) expireFood() {
	f := s.board.Food
	if f == nil {
		s.spawner.PlaceFood(s.clock)
		return
	}
	if s.clock-f.SpawnedAt < config.FoodLifetime {
		return
	}
	pos := f.Pos
	s.events.push(Event{Type: EventFoodExpired, Pos: &pos, Food: f.Kind.String()})
	s.spawner.PlaceFood(s.clock)
}

func (s *Simulation) expireHazard() {
	h := s.board.Hazard
	if h == nil || s.clock-h.SpawnedAt < config.HazardLifetime {
		return
	}
	pos := h.Pos
	s.board.Hazard = nil
	s.events.push(Event{Type: EventHazardDespawned, Pos: &pos})
}

func (s *Simulation) move() {
	s.moves++
	hits := s.board.HazardHits
	outcome, kind := s.board.Advance(s.effects.WallEating())

	switch outcome {
	case OutcomeGameOver:
		if s.board.HazardHits > hits && s.board.CrashPoint != nil {
			pos := *s.board.CrashPoint
			s.events.push(Event{Type: EventHazardHit, Pos: &pos})
		}
		s.end()
	case OutcomeWallEaten:
		head := s.board.Head()
		s.events.push(Event{Type: EventWallEaten, Pos: &head})
	case OutcomeGrew:
		s.capture(kind)
	}
}

func (s *Simulation) capture(kind FoodKind) {
	points := config.ScoreRegular
	switch kind {
	case FoodSurprise:
		points = config.ScoreSurprise
		s.surprises++
		s.effects.Apply(s.effects.Random(), s.clock)
	case FoodSuper:
		points = config.ScoreSuper
		s.superballs++
	}
	s.score += points
	head := s.board.Head()
	s.events.push(Event{Type: EventFoodCaptured, Pos: &head, Food: kind.String(), Score: points})

	if unlock, ok := s.ledger.RecordCatch(); ok {
		walls := s.spawner.GrowWalls(s.spawner.RewardWallCount())
		s.events.push(Event{
			Type:   EventRewardUnlocked,
			Level:  unlock.Level,
			Amount: unlock.Amount,
			Walls:  walls,
		})
	}

	s.spawner.PlaceFood(s.clock)
}

func (s *Simulation) end() {
	s.state = StateGameOver
	sum := s.Summary()
	s.events.push(Event{Type: EventGameOver, Score: s.score, Summary: &sum})
}

// DrainEvents returns and clears events raised since the last call
func (s *Simulation) DrainEvents() []Event {
	return s.events.drain()
}

// Summary reports the run's totals
func (s *Simulation) Summary() Summary {
	return Summary{
		Session:     s.Session,
		Score:       s.score,
		Catches:     s.ledger.Catches,
		Superballs:  s.superballs,
		Surprises:   s.surprises,
		HazardHits:  s.board.HazardHits,
		RewardUnits: s.ledger.Units,
		RewardLevel: s.ledger.Level,
		Duration:    s.clock,
	}
}

// Snapshot returns a deep copy of the state for rendering
func (s *Simulation) Snapshot() Snapshot {
	b := s.board
	snap := Snapshot{
		State:       s.state.String(),
		Size:        b.Size,
		Snake:       copyPoints(b.Snake),
		Direction:   b.Direction.String(),
		Walls:       copyPoints(b.Walls),
		Color:       s.effects.Color(),
		Score:       s.score,
		Catches:     s.ledger.Catches,
		RewardLevel: s.ledger.Level,
		Threshold:   s.ledger.Threshold(),
		RewardUnits: s.ledger.Units,
		IntervalMs:  s.Interval().Milliseconds(),
		PlayTimeMs:  s.clock.Milliseconds(),
	}
	if b.Food != nil {
		snap.Food = &FoodInfo{
			Pos:         b.Food.Pos,
			Kind:        b.Food.Kind.String(),
			RemainingMs: remainingMs(config.FoodLifetime, s.clock-b.Food.SpawnedAt),
		}
	}
	if b.Hazard != nil {
		snap.Hazard = &HazardInfo{
			Pos:         b.Hazard.Pos,
			RemainingMs: remainingMs(config.HazardLifetime, s.clock-b.Hazard.SpawnedAt),
		}
	}
	if a := s.effects.Active(); a != nil {
		snap.Effect = &EffectInfo{
			Kind:        a.Kind.String(),
			Timed:       a.Kind.Timed(),
			RemainingMs: remainingMs(a.ExpiresAt, s.clock),
		}
	}
	if s.state == StateGameOver && b.CrashPoint != nil {
		cp := *b.CrashPoint
		snap.CrashPoint = &cp
	}
	return snap
}
