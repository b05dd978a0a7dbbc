package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/trytobebee/snake_sim/pkg/config"
	"github.com/trytobebee/snake_sim/pkg/store"
	"github.com/trytobebee/snake_sim/pkg/transport"
)

func main() {
	settings := config.FromEnv()
	flag.StringVar(&settings.Addr, "addr", settings.Addr, "listen address")
	flag.StringVar(&settings.DBPath, "db", settings.DBPath, "sqlite database for statistics")
	flag.StringVar(&settings.RecordDir, "record", settings.RecordDir, "directory for jsonl recordings")
	flag.StringVar(&settings.Player, "player", settings.Player, "default player name")
	flag.StringVar(&settings.LogLevel, "log-level", settings.LogLevel, "log level")
	onePerIP := flag.Bool("one-per-ip", true, "allow a single connection per address")
	rewardUnits := flag.Int("reward-units", config.EnvInt("SNAKE_REWARD_UNITS", 0), "reward units per unlock, 0 keeps the stored value")
	flag.Parse()

	lvl, err := log.ParseLevel(settings.LogLevel)
	if err != nil {
		log.Fatalln("invalid log level:", err)
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	st, err := store.Open(settings.DBPath)
	if err != nil {
		log.Fatalln("failed to open store:", err)
	}
	defer st.Close()

	if *rewardUnits > 0 {
		if err := st.SetRewardAmount(context.Background(), int64(*rewardUnits)); err != nil {
			log.Fatalln("failed to set reward units:", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", transport.NewServer(transport.Options{
		Store:     st,
		RecordDir: settings.RecordDir,
		Player:    settings.Player,
		OnePerIP:  *onePerIP,
		Logger:    log.WithField("component", "ws"),
	}))
	mux.HandleFunc("/top", func(w http.ResponseWriter, r *http.Request) {
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil || limit <= 0 {
			limit = 10
		}
		rows, err := st.TopSessions(r.Context(), limit)
		if err != nil {
			log.WithError(err).Warn("top sessions failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rows)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: settings.Addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.WithFields(log.Fields{"addr": settings.Addr, "db": settings.DBPath}).Info("snake server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalln("server failed:", err)
	}
	log.Info("server stopped")
}
