package game

import "github.com/trytobebee/snake_sim/pkg/config"

// Board owns the actor body, walls, the active food and the active hazard
type Board struct {
	Size       int
	Snake      []Point
	Walls      []Point
	Food       *Food
	Hazard     *Hazard
	Direction  Direction // Direction of the last performed move
	Next       Direction // Direction the next move will take
	HazardHits int
	CrashPoint *Point
}

// NewBoard creates a board with a single-segment snake heading right
func NewBoard(size int) *Board {
	return &Board{
		Size:      size,
		Snake:     []Point{{X: config.StartX, Y: config.StartY}},
		Walls:     make([]Point, 0),
		Direction: Right,
		Next:      Right,
	}
}

// Head returns the snake head
func (b *Board) Head() Point {
	return b.Snake[0]
}

// InBounds reports whether p lies on the board
func (b *Board) InBounds(p Point) bool {
	return p.X >= 0 && p.X < b.Size && p.Y >= 0 && p.Y < b.Size
}

// SetDirection queues a direction change. Reversing into the direction of
// the last move is silently rejected.
func (b *Board) SetDirection(dir Direction) bool {
	if dir == b.Direction.Opposite() {
		return false
	}
	b.Next = dir
	return true
}

func (b *Board) wallIndex(p Point) int {
	for i, w := range b.Walls {
		if w == p {
			return i
		}
	}
	return -1
}

// IsWall reports whether p is a wall cell
func (b *Board) IsWall(p Point) bool {
	return b.wallIndex(p) >= 0
}

// OnBody reports whether p is on any snake segment
func (b *Board) OnBody(p Point) bool {
	for _, s := range b.Snake {
		if s == p {
			return true
		}
	}
	return false
}

func (b *Board) onTail(p Point) bool {
	for _, s := range b.Snake[1:] {
		if s == p {
			return true
		}
	}
	return false
}

// Advance moves the snake one cell along Next. wallEating makes walls edible.
// The returned kind is only meaningful for OutcomeGrew.
func (b *Board) Advance(wallEating bool) (Outcome, FoodKind) {
	b.Direction = b.Next
	head := b.Head().Add(b.Direction)

	if !b.InBounds(head) || b.onTail(head) {
		b.crash(head)
		return OutcomeGameOver, FoodRegular
	}

	if i := b.wallIndex(head); i >= 0 {
		if !wallEating {
			b.crash(head)
			return OutcomeGameOver, FoodRegular
		}
		b.Walls = append(b.Walls[:i], b.Walls[i+1:]...)
		b.Snake = append([]Point{head}, b.Snake...)
		return OutcomeWallEaten, FoodRegular
	}

	if b.Hazard != nil && b.Hazard.Pos == head {
		b.HazardHits++
		b.crash(head)
		return OutcomeGameOver, FoodRegular
	}

	tail := b.Snake[len(b.Snake)-1]
	b.Snake = append([]Point{head}, b.Snake...)

	if b.Food != nil && b.Food.Pos == head {
		kind := b.Food.Kind
		b.Food = nil
		if kind == FoodSuper {
			for i := 0; i < config.SuperExtraGrowth; i++ {
				b.Snake = append(b.Snake, tail)
			}
		}
		return OutcomeGrew, kind
	}

	b.Snake = b.Snake[:len(b.Snake)-1]
	return OutcomeContinue, FoodRegular
}

func (b *Board) crash(p Point) {
	cp := p
	b.CrashPoint = &cp
}
