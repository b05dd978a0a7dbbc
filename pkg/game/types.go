package game

import "time"

// Point represents a coordinate on the game board
type Point struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// Add returns p shifted by the unit vector of d
func (p Point) Add(d Direction) Point {
	v := d.Vector()
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Direction is one of the four travel directions
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Vector returns the unit step for the direction
func (d Direction) Vector() Point {
	switch d {
	case Up:
		return Point{X: 0, Y: -1}
	case Down:
		return Point{X: 0, Y: 1}
	case Left:
		return Point{X: -1, Y: 0}
	default:
		return Point{X: 1, Y: 0}
	}
}

// Opposite returns the reverse direction
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	}
	return "UNKNOWN"
}

// ParseDirection maps a wire name ("up", "UP", ...) to a Direction
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up", "UP":
		return Up, true
	case "down", "DOWN":
		return Down, true
	case "left", "LEFT":
		return Left, true
	case "right", "RIGHT":
		return Right, true
	}
	return 0, false
}

// FoodKind represents the different types of food
type FoodKind int

const (
	FoodRegular  FoodKind = iota // 10 points, +1 length
	FoodSuper                    // 30 points, +3 length
	FoodSurprise                 // 20 points, +1 length and a random effect
)

func (k FoodKind) String() string {
	switch k {
	case FoodSuper:
		return "super"
	case FoodSurprise:
		return "surprise"
	default:
		return "regular"
	}
}

// Food represents the single collectible on the board
type Food struct {
	Pos       Point
	Kind      FoodKind
	SpawnedAt time.Duration // Play-clock time of placement
}

// Hazard is a fatal-on-contact entity that despawns on its own
type Hazard struct {
	Pos       Point
	SpawnedAt time.Duration
}

// Outcome is the result of a single move
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeGrew
	OutcomeGameOver
	OutcomeWallEaten
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGrew:
		return "grew"
	case OutcomeGameOver:
		return "gameover"
	case OutcomeWallEaten:
		return "wallEaten"
	default:
		return "continue"
	}
}

// State is the simulation lifecycle state
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "gameover"
	default:
		return "idle"
	}
}

// Rand is the random source used for spawning and effect choice.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// RewardSource supplies the reward unit amount granted per unlock
type RewardSource interface {
	RewardAmount() int64
}

// StaticReward is a fixed RewardSource
type StaticReward int64

func (r StaticReward) RewardAmount() int64 { return int64(r) }
