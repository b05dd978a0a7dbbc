package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/trytobebee/snake_sim/pkg/config"
	"github.com/trytobebee/snake_sim/pkg/game"

	_ "modernc.org/sqlite"
)

// Memory opens a private in-memory database
const Memory = ":memory:"

const rewardKey = "reward_units"

// Store persists finished runs and the reward configuration in sqlite
type Store struct {
	db  *sql.DB
	log *log.Entry

	mu     sync.RWMutex
	reward int64 // Cached reward_config value
}

// PlayerStats are the lifetime totals of one player
type PlayerStats struct {
	Player      string
	BestScore   int
	TotalGames  int
	Catches     int
	Superballs  int
	Surprises   int
	HazardHits  int
	RewardUnits int64
	UpdatedAt   time.Time
}

// SessionRow is one recorded run
type SessionRow struct {
	Session     string
	Player      string
	Score       int
	Catches     int
	RewardLevel int
	Duration    time.Duration
	EndedAt     time.Time
}

// Open opens or creates the database at path and applies the schema
func Open(path string) (*Store, error) {
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == Memory {
		// Every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &Store{
		db:     db,
		log:    log.WithField("db", path),
		reward: config.DefaultRewardUnit,
	}
	if err := s.createTables(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.loadReward(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			catches INTEGER NOT NULL,
			superballs INTEGER NOT NULL,
			surprises INTEGER NOT NULL,
			hazard_hits INTEGER NOT NULL,
			reward_units INTEGER NOT NULL,
			reward_level INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			ended_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS player_stats (
			player TEXT PRIMARY KEY,
			best_score INTEGER DEFAULT 0,
			total_games INTEGER DEFAULT 0,
			catches INTEGER DEFAULT 0,
			superballs INTEGER DEFAULT 0,
			surprises INTEGER DEFAULT 0,
			hazard_hits INTEGER DEFAULT 0,
			reward_units INTEGER DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS reward_config (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (s *Store) loadReward(ctx context.Context) error {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM reward_config WHERE key = ?`, rewardKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load reward config: %w", err)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		s.log.WithField("value", raw).Warn("invalid reward config, using default")
		return nil
	}
	s.mu.Lock()
	s.reward = n
	s.mu.Unlock()
	return nil
}

// RewardAmount returns the cached reward units granted per unlock. It never
// touches the database so the simulation loop is not blocked.
func (s *Store) RewardAmount() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reward
}

// SetRewardAmount stores a new reward amount and refreshes the cache
func (s *Store) SetRewardAmount(ctx context.Context, units int64) error {
	if units <= 0 {
		return fmt.Errorf("reward amount must be positive, got %d", units)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reward_config (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		rewardKey, strconv.FormatInt(units, 10))
	if err != nil {
		return fmt.Errorf("failed to save reward config: %w", err)
	}
	s.mu.Lock()
	s.reward = units
	s.mu.Unlock()
	return nil
}

// RecordSession stores a finished run and folds it into the player's totals
func (s *Store) RecordSession(ctx context.Context, player string, sum game.Summary) error {
	if sum.Session == "" {
		sum.Session = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (session, player, score, catches, superballs, surprises,
			hazard_hits, reward_units, reward_level, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.Session, player, sum.Score, sum.Catches, sum.Superballs, sum.Surprises,
		sum.HazardHits, sum.RewardUnits, sum.RewardLevel, sum.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to insert session %s: %w", sum.Session, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO player_stats (player, best_score, total_games, catches, superballs,
			surprises, hazard_hits, reward_units, updated_at)
		 VALUES (?, ?, 1, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(player) DO UPDATE SET
			best_score = MAX(best_score, excluded.best_score),
			total_games = total_games + 1,
			catches = catches + excluded.catches,
			superballs = superballs + excluded.superballs,
			surprises = surprises + excluded.surprises,
			hazard_hits = hazard_hits + excluded.hazard_hits,
			reward_units = reward_units + excluded.reward_units,
			updated_at = CURRENT_TIMESTAMP`,
		player, sum.Score, sum.Catches, sum.Superballs, sum.Surprises, sum.HazardHits, sum.RewardUnits)
	if err != nil {
		return fmt.Errorf("failed to update stats for %s: %w", player, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	s.log.WithFields(log.Fields{"player": player, "session": sum.Session, "score": sum.Score}).Debug("session recorded")
	return nil
}

// PlayerStats returns the lifetime totals of player
func (s *Store) PlayerStats(ctx context.Context, player string) (PlayerStats, error) {
	st := PlayerStats{Player: player}
	err := s.db.QueryRowContext(ctx,
		`SELECT best_score, total_games, catches, superballs, surprises, hazard_hits, reward_units, updated_at
		 FROM player_stats WHERE player = ?`, player).
		Scan(&st.BestScore, &st.TotalGames, &st.Catches, &st.Superballs, &st.Surprises,
			&st.HazardHits, &st.RewardUnits, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("failed to read stats for %s: %w", player, err)
	}
	return st, nil
}

// TopSessions returns the best runs by score
func (s *Store) TopSessions(ctx context.Context, limit int) ([]SessionRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session, player, score, catches, reward_level, duration_ms, ended_at
		 FROM sessions ORDER BY score DESC, ended_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var r SessionRow
		var ms int64
		if err := rows.Scan(&r.Session, &r.Player, &r.Score, &r.Catches, &r.RewardLevel, &ms, &r.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, r)
	}
	return out, rows.Err()
}

// Sink binds the store to player so a Runner can report finished runs
func (s *Store) Sink(player string) game.StatsSink {
	return playerSink{store: s, player: player}
}

type playerSink struct {
	store  *Store
	player string
}

func (p playerSink) RecordSession(ctx context.Context, sum game.Summary) error {
	return p.store.RecordSession(ctx, p.player, sum)
}
