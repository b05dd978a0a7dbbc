package game

// Controller defines a brain steering the snake in place of a human
type Controller interface {
	GetAction(snap *Snapshot) (Direction, bool)
}

// --- Implementation: Greedy Autopilot ---

// Autopilot heads for the food along the safe direction that shortens the
// Manhattan distance the most, falling back to any safe direction
type Autopilot struct{}

func (Autopilot) GetAction(snap *Snapshot) (Direction, bool) {
	if len(snap.Snake) == 0 {
		return 0, false
	}
	current, ok := ParseDirection(snap.Direction)
	if !ok {
		current = Right
	}
	head := snap.Snake[0]

	blocked := make(map[Point]bool, len(snap.Snake)+len(snap.Walls)+1)
	for _, p := range snap.Snake {
		blocked[p] = true
	}
	eating := snap.Effect != nil && snap.Effect.Kind == EffectWallEating.String()
	if !eating {
		for _, w := range snap.Walls {
			blocked[w] = true
		}
	}
	if snap.Hazard != nil {
		blocked[snap.Hazard.Pos] = true
	}

	best := current
	bestScore := -1 << 30
	found := false
	for _, d := range []Direction{Up, Down, Left, Right} {
		if d == current.Opposite() {
			continue
		}
		next := head.Add(d)
		if next.X < 0 || next.X >= snap.Size || next.Y < 0 || next.Y >= snap.Size || blocked[next] {
			continue
		}
		score := 0
		if snap.Food != nil {
			score = -manhattan(next, snap.Food.Pos)
		}
		// Never walk into a pocket smaller than the body
		if space := reachableSpace(next, snap.Size, blocked, len(snap.Snake)); space < len(snap.Snake) {
			score -= 1000 - space
		}
		score += freeNeighbours(next, snap.Size, blocked)
		if !found || score > bestScore {
			best, bestScore, found = d, score, true
		}
	}
	return best, found
}

func manhattan(a, b Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// freeNeighbours counts open cells around p to steer away from dead ends
func freeNeighbours(p Point, size int, blocked map[Point]bool) int {
	n := 0
	for _, d := range []Direction{Up, Down, Left, Right} {
		q := p.Add(d)
		if q.X >= 0 && q.X < size && q.Y >= 0 && q.Y < size && !blocked[q] {
			n++
		}
	}
	return n
}

// reachableSpace flood fills from start, stopping once limit cells are found
func reachableSpace(start Point, size int, blocked map[Point]bool, limit int) int {
	visited := map[Point]bool{start: true}
	queue := []Point{start}
	count := 0

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		count++
		if count >= limit {
			return count
		}

		for _, d := range []Direction{Up, Down, Left, Right} {
			next := curr.Add(d)
			if next.X < 0 || next.X >= size || next.Y < 0 || next.Y >= size {
				continue
			}
			if blocked[next] || visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return count
}
