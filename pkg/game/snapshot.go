package game

import "time"

// FoodInfo is the rendered view of the food entity
type FoodInfo struct {
	Pos         Point  `json:"pos" msgpack:"pos"`
	Kind        string `json:"kind" msgpack:"kind"`
	RemainingMs int64  `json:"remainingMs" msgpack:"remainingMs"`
}

// HazardInfo is the rendered view of the hazard entity
type HazardInfo struct {
	Pos         Point `json:"pos" msgpack:"pos"`
	RemainingMs int64 `json:"remainingMs" msgpack:"remainingMs"`
}

// EffectInfo is the rendered view of the active effect
type EffectInfo struct {
	Kind        string `json:"kind" msgpack:"kind"`
	Timed       bool   `json:"timed" msgpack:"timed"` // False for one-shot effects shown for display only
	RemainingMs int64  `json:"remainingMs" msgpack:"remainingMs"`
}

// Snapshot is an immutable copy of the simulation for rendering
type Snapshot struct {
	State       string      `json:"state" msgpack:"state"`
	Size        int         `json:"size" msgpack:"size"`
	Snake       []Point     `json:"snake" msgpack:"snake"`
	Direction   string      `json:"direction" msgpack:"direction"`
	Walls       []Point     `json:"walls" msgpack:"walls"`
	Food        *FoodInfo   `json:"food,omitempty" msgpack:"food,omitempty"`
	Hazard      *HazardInfo `json:"hazard,omitempty" msgpack:"hazard,omitempty"`
	Effect      *EffectInfo `json:"effect,omitempty" msgpack:"effect,omitempty"`
	Color       string      `json:"color" msgpack:"color"`
	Score       int         `json:"score" msgpack:"score"`
	Catches     int         `json:"catches" msgpack:"catches"`
	RewardLevel int         `json:"rewardLevel" msgpack:"rewardLevel"`
	Threshold   int         `json:"threshold" msgpack:"threshold"`
	RewardUnits int64       `json:"rewardUnits" msgpack:"rewardUnits"`
	IntervalMs  int64       `json:"intervalMs" msgpack:"intervalMs"`
	PlayTimeMs  int64       `json:"playTimeMs" msgpack:"playTimeMs"`
	CrashPoint  *Point      `json:"crashPoint,omitempty" msgpack:"crashPoint,omitempty"`
}

// Summary is reported once when a run ends
type Summary struct {
	Session     string        `json:"session" msgpack:"session"`
	Score       int           `json:"score" msgpack:"score"`
	Catches     int           `json:"catches" msgpack:"catches"`
	Superballs  int           `json:"superballs" msgpack:"superballs"`
	Surprises   int           `json:"surprises" msgpack:"surprises"`
	HazardHits  int           `json:"hazardHits" msgpack:"hazardHits"`
	RewardUnits int64         `json:"rewardUnits" msgpack:"rewardUnits"`
	RewardLevel int           `json:"rewardLevel" msgpack:"rewardLevel"`
	Duration    time.Duration `json:"duration" msgpack:"duration"`
}

func remainingMs(lifetime, elapsed time.Duration) int64 {
	r := lifetime - elapsed
	if r < 0 {
		return 0
	}
	return r.Milliseconds()
}

func copyPoints(ps []Point) []Point {
	out := make([]Point, len(ps))
	copy(out, ps)
	return out
}
