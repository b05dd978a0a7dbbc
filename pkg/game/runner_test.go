package game

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

// fakeClock advances by step on every reading
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

type chanSink chan Summary

func (c chanSink) RecordSession(ctx context.Context, sum Summary) error {
	select {
	case c <- sum:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func quietLogger() *log.Entry {
	l := log.New()
	l.SetOutput(io.Discard)
	return log.NewEntry(l)
}

// TestRunnerPlaysToGameOver drives a run into the right edge
func TestRunnerPlaysToGameOver(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0), step: 20 * time.Millisecond}
	sink := make(chanSink, 1)
	dir := t.TempDir()

	r := NewRunner(NewSimulation(newScriptRand(0.99), nil),
		WithStatsSink(sink),
		WithRecordDir(dir),
		WithLogger(quietLogger()),
		WithClock(clock.Now, time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	if !r.Send(Command{Type: CmdStart}) {
		t.Fatal("Start command rejected")
	}

	timeout := time.After(10 * time.Second)
	var over Event
wait:
	for {
		select {
		case e := <-r.Events():
			if e.Type == EventGameOver {
				over = e
				break wait
			}
		case <-timeout:
			cancel()
			t.Fatal("Timed out waiting for game over")
		}
	}

	if over.Summary == nil {
		t.Fatal("gameOver event without summary")
	}

	select {
	case sum := <-sink:
		if sum.Session != over.Summary.Session {
			t.Errorf("Sink got session %s, expected %s", sum.Session, over.Summary.Session)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Summary never reached the sink")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "game_*.jsonl"))
	if err != nil || len(files) != 1 {
		t.Fatalf("Expected one recording, got %v (%v)", files, err)
	}
	records, err := ReadRecording(files[0])
	if err != nil {
		t.Fatalf("ReadRecording failed: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("Recording is empty")
	}
	last := records[len(records)-1]
	if last.Snapshot.State != StateGameOver.String() {
		t.Errorf("Expected last recorded state gameover, got %s", last.Snapshot.State)
	}
	for i, rec := range records {
		if rec.Step != i+1 || rec.Session != over.Summary.Session {
			t.Fatalf("record %d: step=%d session=%s", i, rec.Step, rec.Session)
		}
	}
	t.Logf("recorded %d steps, score %d", len(records), over.Summary.Score)
}

// TestRunnerPauseCommand checks commands are applied between passes
func TestRunnerPauseCommand(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0), step: time.Millisecond}
	r := NewRunner(NewSimulation(newScriptRand(0.99), nil),
		WithLogger(quietLogger()),
		WithClock(clock.Now, time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	r.Send(Command{Type: CmdStart})
	r.Send(Command{Type: CmdPause})

	deadline := time.After(5 * time.Second)
	for {
		select {
		case snap := <-r.Snapshots():
			if snap.State == StatePaused.String() {
				return
			}
		case <-deadline:
			t.Fatal("Never observed a paused snapshot")
		}
	}
}
