package config

import (
	"os"
	"strconv"
	"time"
)

// Board dimensions
const (
	GridSize = 20 // Square board, coordinates in [0, GridSize)
	StartX   = 10
	StartY   = 10
)

// Timing settings
const (
	InitialInterval = 150 * time.Millisecond // Move interval at run start
	MinInterval     = 50 * time.Millisecond  // Floor reached through reward unlocks
	IntervalStep    = 10 * time.Millisecond  // Speed-up per reward unlock
	SchedulerTick   = 10 * time.Millisecond  // Single scheduler loop cadence
	TimeoutCheck    = 100 * time.Millisecond // Food and hazard expiry cadence
	FoodLifetime    = 10 * time.Second       // Uncaptured food is replaced after this
	HazardLifetime  = 15 * time.Second       // Uncaptured hazard despawns after this
	EffectDuration  = 60 * time.Second       // Timed surprise effects
)

// Spawn settings
const (
	PlacementAttempts = 100  // Random retries before a placement is abandoned
	SurpriseBatch     = 5    // At least one surprise food per batch
	SurpriseChance    = 0.20 // Unforced surprise odds
	SuperChance       = 0.10 // Superball odds (added on top of SurpriseChance)
	HazardChance      = 0.15 // Rolled on every food placement
	SuperExtraGrowth  = 2    // Tail copies appended on a superball capture
)

// Reward settings
const (
	BaseThreshold     = 10 // Catches per unlock at level 0
	MinWallsPerReward = 1
	MaxWallsPerReward = 2
	DefaultRewardUnit = 1
)

// Score per food kind
const (
	ScoreRegular  = 10
	ScoreSuper    = 30
	ScoreSurprise = 20
)

// Snake colors
const (
	BaselineColor = "oklch(0.488 0.243 264.376)"
)

// VibrantHues are the hues a color-change effect picks from
var VibrantHues = []int{0, 30, 60, 120, 180, 240, 300, 330}

// Characters for terminal rendering
const (
	CharEmpty    = "  " // Two spaces to match emoji width
	CharWall     = "🧱"
	CharBorder   = "⬜"
	CharHead     = "🟢"
	CharBody     = "🟩"
	CharCrash    = "💥"
	CharFood     = "🟡"
	CharSuper    = "🌟"
	CharSurprise = "🎁"
	CharHazard   = "💀"
)

// Settings holds runtime options for the binaries
type Settings struct {
	Addr      string // Websocket server listen address
	DBPath    string // Sqlite database file
	RecordDir string // Directory for jsonl recordings, empty disables recording
	Player    string // Name statistics are stored under
	LogLevel  string
}

// DefaultSettings returns the settings used when nothing is overridden
func DefaultSettings() Settings {
	return Settings{
		Addr:      ":8080",
		DBPath:    "data/game.db",
		RecordDir: "",
		Player:    "guest",
		LogLevel:  "info",
	}
}

// FromEnv overlays SNAKE_* environment variables on the defaults
func FromEnv() Settings {
	s := DefaultSettings()
	if v := os.Getenv("SNAKE_ADDR"); v != "" {
		s.Addr = v
	}
	if v := os.Getenv("SNAKE_DB"); v != "" {
		s.DBPath = v
	}
	if v := os.Getenv("SNAKE_RECORD_DIR"); v != "" {
		s.RecordDir = v
	}
	if v := os.Getenv("SNAKE_PLAYER"); v != "" {
		s.Player = v
	}
	if v := os.Getenv("SNAKE_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	return s
}

// EnvInt reads an integer environment variable, returning def when unset or invalid
func EnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
