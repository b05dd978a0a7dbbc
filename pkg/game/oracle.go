package game

import "github.com/trytobebee/snake_sim/pkg/config"

// Oracle generates random board coordinates and checks them against every
// entity on the board
type Oracle struct {
	board *Board
	rng   Rand
}

// NewOracle creates an oracle over board using rng
func NewOracle(board *Board, rng Rand) *Oracle {
	return &Oracle{board: board, rng: rng}
}

// RandomPosition picks a cell uniformly over the whole grid
func (o *Oracle) RandomPosition() Point {
	return Point{
		X: o.rng.Intn(o.board.Size),
		Y: o.rng.Intn(o.board.Size),
	}
}

// IsFree reports whether no body segment, wall, hazard or food occupies p
func (o *Oracle) IsFree(p Point) bool {
	b := o.board
	if b.OnBody(p) || b.IsWall(p) {
		return false
	}
	if b.Hazard != nil && b.Hazard.Pos == p {
		return false
	}
	if b.Food != nil && b.Food.Pos == p {
		return false
	}
	return true
}

// FindFree retries RandomPosition until accept passes. The second return is
// false when every attempt failed.
func (o *Oracle) FindFree(accept func(Point) bool) (Point, bool) {
	for attempts := 0; attempts < config.PlacementAttempts; attempts++ {
		p := o.RandomPosition()
		if accept(p) {
			return p, true
		}
	}
	return Point{}, false
}
