package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/trytobebee/snake_sim/pkg/config"
	"github.com/trytobebee/snake_sim/pkg/game"
	"github.com/trytobebee/snake_sim/pkg/input"
	"github.com/trytobebee/snake_sim/pkg/renderer"
	"github.com/trytobebee/snake_sim/pkg/store"
)

func main() {
	settings := config.FromEnv()
	flag.StringVar(&settings.DBPath, "db", settings.DBPath, "sqlite database for statistics")
	flag.StringVar(&settings.Player, "player", settings.Player, "player name for statistics")
	flag.StringVar(&settings.RecordDir, "record", settings.RecordDir, "directory for jsonl recordings")
	flag.StringVar(&settings.LogLevel, "log-level", settings.LogLevel, "log level")
	logFile := flag.String("log", "", "log file (the terminal is used for the board)")
	noDB := flag.Bool("no-db", false, "do not record statistics")
	auto := flag.Bool("auto", false, "let the autopilot steer")
	flag.Parse()

	if err := setupLogging(settings.LogLevel, *logFile); err != nil {
		fmt.Println("Error setting up logging:", err)
		return
	}

	var st *store.Store
	var source game.RewardSource
	opts := []game.Option{game.WithLogger(log.WithField("player", settings.Player))}
	if !*noDB {
		var err error
		st, err = store.Open(settings.DBPath)
		if err != nil {
			fmt.Println("Error opening database:", err)
			return
		}
		defer st.Close()
		source = st
		opts = append(opts, game.WithStatsSink(st.Sink(settings.Player)))
	}
	if settings.RecordDir != "" {
		opts = append(opts, game.WithRecordDir(settings.RecordDir))
	}
	if *auto {
		opts = append(opts, game.WithController(game.Autopilot{}))
	}

	// Initialize input handler
	inputHandler := input.NewKeyboardHandler()
	if err := inputHandler.Start(); err != nil {
		fmt.Println("Error opening keyboard:", err)
		return
	}
	defer inputHandler.Stop()

	render := renderer.NewTerminalRenderer(config.GridSize)
	render.HideCursor()
	defer render.ShowCursor()

	sim := game.NewSimulation(rand.New(rand.NewSource(time.Now().UnixNano())), source)
	runner := game.NewRunner(sim, opts...)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		runner.Run(ctx)
	}()
	runner.Send(game.Command{Type: game.CmdStart})

	inputChan := inputHandler.GetInputChan()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop

		case key := <-inputChan:
			if input.IsQuit(key) {
				break loop
			}
			if cmd, ok := input.ParseCommand(key); ok {
				runner.Send(cmd)
			}

		case snap := <-runner.Snapshots():
			render.Render(snap)

		case <-runner.Events():
			// Drained so the runner does not log drops
		}
	}

	cancel()
	<-done

	fmt.Println("\n  Thanks for playing! 👋")
	if st != nil {
		stats, err := st.PlayerStats(context.Background(), settings.Player)
		if err == nil && stats.TotalGames > 0 {
			fmt.Printf("  %s: best %d over %d games, %d reward units\n",
				stats.Player, stats.BestScore, stats.TotalGames, stats.RewardUnits)
		}
	}
}

func setupLogging(level, path string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	if path == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	log.SetOutput(f)
	return nil
}
