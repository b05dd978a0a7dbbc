package game

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/trytobebee/snake_sim/pkg/config"
)

// CommandType names an input command
type CommandType string

const (
	CmdDirection   CommandType = "direction"
	CmdPause       CommandType = "pause"
	CmdResume      CommandType = "resume"
	CmdTogglePause CommandType = "togglePause"
	CmdStart       CommandType = "start"
)

// Command is an input from the input-handling collaborator
type Command struct {
	Type CommandType
	Dir  Direction
}

// StatsSink persists the totals of a finished run
type StatsSink interface {
	RecordSession(ctx context.Context, sum Summary) error
}

// Runner owns a Simulation and drives it from a single goroutine. Commands,
// scheduler passes and publishing are serialized in Run.
type Runner struct {
	sim        *Simulation
	cmds       chan Command
	snapshots  chan Snapshot
	events     chan Event
	sink       StatsSink
	recorder   func(session string) (*GameRecorder, error)
	controller Controller
	log        *log.Entry
	now        func() time.Time
	tick       time.Duration

	rec       *GameRecorder
	step      int
	lastMoves int
	sinkWG    sync.WaitGroup
}

// Option configures a Runner
type Option func(*Runner)

// WithStatsSink reports every finished run to sink
func WithStatsSink(sink StatsSink) Option {
	return func(r *Runner) { r.sink = sink }
}

// WithRecordDir records every run as jsonl into dir
func WithRecordDir(dir string) Option {
	return func(r *Runner) {
		r.recorder = func(session string) (*GameRecorder, error) {
			return NewRecorder(dir, session)
		}
	}
}

// WithController lets a Controller steer the snake
func WithController(c Controller) Option {
	return func(r *Runner) { r.controller = c }
}

// WithLogger sets the log entry
func WithLogger(entry *log.Entry) Option {
	return func(r *Runner) { r.log = entry }
}

// WithClock overrides the wall clock and scheduler cadence
func WithClock(now func() time.Time, tick time.Duration) Option {
	return func(r *Runner) {
		r.now = now
		r.tick = tick
	}
}

// NewRunner wraps sim
func NewRunner(sim *Simulation, opts ...Option) *Runner {
	r := &Runner{
		sim:       sim,
		cmds:      make(chan Command, 32),
		snapshots: make(chan Snapshot, 1),
		events:    make(chan Event, 64),
		log:       log.NewEntry(log.StandardLogger()),
		now:       time.Now,
		tick:      config.SchedulerTick,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Send queues a command without blocking. It reports false when the queue is full.
func (r *Runner) Send(cmd Command) bool {
	select {
	case r.cmds <- cmd:
		return true
	default:
		return false
	}
}

// Snapshots delivers the latest snapshot; stale ones are replaced
func (r *Runner) Snapshots() <-chan Snapshot {
	return r.snapshots
}

// Events delivers advisory notifications; they are dropped when nobody reads
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Run drives the simulation until ctx is cancelled
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()
	defer r.sinkWG.Wait()
	defer r.closeRecorder()

	r.publish(nil)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd := <-r.cmds:
			r.apply(cmd)
			r.publish(r.sim.DrainEvents())

		case <-ticker.C:
			if r.controller != nil && r.sim.State() == StatePlaying {
				snap := r.sim.Snapshot()
				if dir, ok := r.controller.GetAction(&snap); ok {
					r.sim.SetDirection(dir)
				}
			}
			r.sim.Step(r.now())
			events := r.sim.DrainEvents()
			if len(events) > 0 || r.sim.Moves() != r.lastMoves {
				r.publish(events)
			}
		}
	}
}

func (r *Runner) apply(cmd Command) {
	now := r.now()
	switch cmd.Type {
	case CmdDirection:
		r.sim.SetDirection(cmd.Dir)
	case CmdPause:
		if r.sim.Pause() {
			r.log.Info("run paused")
		}
	case CmdResume:
		if r.sim.Resume(now) {
			r.log.Info("run resumed")
		}
	case CmdTogglePause:
		if r.sim.TogglePause(now) {
			r.log.WithField("state", r.sim.State().String()).Info("pause toggled")
		}
	case CmdStart:
		r.closeRecorder()
		r.sim.Start(now)
		r.step = 0
		r.log = r.log.WithField("session", r.sim.Session)
		r.log.Info("run started")
		r.openRecorder()
	}
}

func (r *Runner) publish(events []Event) {
	r.lastMoves = r.sim.Moves()
	snap := r.sim.Snapshot()

	for _, e := range events {
		select {
		case r.events <- e:
		default:
			r.log.WithField("event", e.Type).Debug("event dropped")
		}
		if e.Type == EventGameOver && e.Summary != nil {
			r.log.WithField("score", e.Summary.Score).Info("run over")
			r.report(*e.Summary)
		}
	}

	// Keep only the newest snapshot in the buffer
	select {
	case r.snapshots <- snap:
	default:
		select {
		case <-r.snapshots:
		default:
		}
		select {
		case r.snapshots <- snap:
		default:
		}
	}

	if r.rec != nil {
		r.step++
		r.rec.RecordStep(StepRecord{Session: r.sim.Session, Step: r.step, Snapshot: snap, Events: events})
	}
}

// report hands the summary to the sink without waiting for it
func (r *Runner) report(sum Summary) {
	if r.sink == nil {
		return
	}
	entry := r.log
	r.sinkWG.Add(1)
	go func() {
		defer r.sinkWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.sink.RecordSession(ctx, sum); err != nil {
			entry.WithError(err).Warn("failed to record session")
		}
	}()
}

func (r *Runner) openRecorder() {
	if r.recorder == nil {
		return
	}
	rec, err := r.recorder(r.sim.Session)
	if err != nil {
		r.log.WithError(err).Warn("recording disabled")
		return
	}
	r.rec = rec
}

func (r *Runner) closeRecorder() {
	if r.rec == nil {
		return
	}
	entry := r.log.WithFields(log.Fields{"path": r.rec.Path(), "dropped": r.rec.Dropped()})
	if err := r.rec.Close(); err != nil {
		entry.WithError(err).Warn("failed to close recording")
	} else {
		entry.Info("recording closed")
	}
	r.rec = nil
}
