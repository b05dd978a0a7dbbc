package game

import (
	"time"

	"github.com/trytobebee/snake_sim/pkg/config"
)

// Spawner decides what gets placed on the board and where
type Spawner struct {
	board  *Board
	oracle *Oracle
	rng    Rand
	events *eventLog

	spawnCount      int  // Running food placement counter
	surpriseInBatch bool // A surprise has been placed in the current batch
}

// NewSpawner creates a spawner for board
func NewSpawner(board *Board, oracle *Oracle, rng Rand, events *eventLog) *Spawner {
	return &Spawner{board: board, oracle: oracle, rng: rng, events: events}
}

// SpawnCount returns how many food placements have been attempted this run
func (s *Spawner) SpawnCount() int {
	return s.spawnCount
}

// nextKind applies the rarity policy for one placement
func (s *Spawner) nextKind() FoodKind {
	s.spawnCount++
	batchPos := s.spawnCount % config.SurpriseBatch
	lastInBatch := batchPos == 0

	var kind FoodKind
	if lastInBatch && !s.surpriseInBatch {
		kind = FoodSurprise
	} else {
		r := s.rng.Float64()
		switch {
		case r < config.SurpriseChance && !lastInBatch:
			kind = FoodSurprise
		case r < config.SurpriseChance+config.SuperChance:
			kind = FoodSuper
		default:
			kind = FoodRegular
		}
	}
	if kind == FoodSurprise {
		s.surpriseInBatch = true
	}

	if lastInBatch {
		s.surpriseInBatch = false
	}
	return kind
}

// PlaceFood replaces the current food with a new one. When no free cell is
// found the placement is abandoned and the prior food is kept.
func (s *Spawner) PlaceFood(now time.Duration) bool {
	kind := s.nextKind()
	pos, ok := s.oracle.FindFree(s.oracle.IsFree)
	if ok {
		s.board.Food = &Food{Pos: pos, Kind: kind, SpawnedAt: now}
	}
	s.MaybePlaceHazard(now)
	return ok
}

// MaybePlaceHazard rolls the hazard chance and places one if none exists
func (s *Spawner) MaybePlaceHazard(now time.Duration) bool {
	if s.rng.Float64() >= config.HazardChance || s.board.Hazard != nil {
		return false
	}
	pos, ok := s.oracle.FindFree(s.oracle.IsFree)
	if !ok {
		return false
	}
	s.board.Hazard = &Hazard{Pos: pos, SpawnedAt: now}
	s.events.push(Event{Type: EventHazardSpawned, Pos: &pos})
	return true
}

// GrowWalls adds up to count new walls, skipping any that cannot be placed
func (s *Spawner) GrowWalls(count int) []Point {
	added := make([]Point, 0, count)
	for i := 0; i < count; i++ {
		pos, ok := s.oracle.FindFree(func(p Point) bool {
			if !s.oracle.IsFree(p) {
				return false
			}
			for _, w := range added {
				if w == p {
					return false
				}
			}
			return true
		})
		if ok {
			added = append(added, pos)
		}
	}
	s.board.Walls = append(s.board.Walls, added...)
	return added
}

// RewardWallCount draws the number of walls a reward unlock adds
func (s *Spawner) RewardWallCount() int {
	return config.MinWallsPerReward + s.rng.Intn(config.MaxWallsPerReward-config.MinWallsPerReward+1)
}
