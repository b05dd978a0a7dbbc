package game

// EventType names a discrete notification emitted by the simulation
type EventType string

const (
	EventFoodCaptured    EventType = "foodCaptured"
	EventFoodExpired     EventType = "foodExpired"
	EventRewardUnlocked  EventType = "rewardUnlocked"
	EventHazardSpawned   EventType = "hazardSpawned"
	EventHazardDespawned EventType = "hazardDespawned"
	EventHazardHit       EventType = "hazardHit"
	EventEffectApplied   EventType = "effectApplied"
	EventEffectExpired   EventType = "effectExpired"
	EventWallEaten       EventType = "wallEaten"
	EventGameOver        EventType = "gameOver"
)

// Event is an advisory notification for display collaborators
type Event struct {
	Type    EventType `json:"type" msgpack:"type"`
	Pos     *Point    `json:"pos,omitempty" msgpack:"pos,omitempty"`
	Food    string    `json:"food,omitempty" msgpack:"food,omitempty"`
	Effect  string    `json:"effect,omitempty" msgpack:"effect,omitempty"`
	Level   int       `json:"level,omitempty" msgpack:"level,omitempty"`
	Amount  int64     `json:"amount,omitempty" msgpack:"amount,omitempty"`
	Score   int       `json:"score,omitempty" msgpack:"score,omitempty"`
	Walls   []Point   `json:"walls,omitempty" msgpack:"walls,omitempty"`
	Summary *Summary  `json:"summary,omitempty" msgpack:"summary,omitempty"`
}

// eventLog collects events raised during a scheduler pass until drained
type eventLog struct {
	pending []Event
}

func (l *eventLog) push(e Event) {
	l.pending = append(l.pending, e)
}

func (l *eventLog) drain() []Event {
	if len(l.pending) == 0 {
		return nil
	}
	out := l.pending
	l.pending = nil
	return out
}
