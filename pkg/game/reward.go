package game

import (
	"time"

	"github.com/trytobebee/snake_sim/pkg/config"
)

// Unlock describes one reward unlock
type Unlock struct {
	Level    int
	Amount   int64
	Interval time.Duration
}

// Ledger tracks catches, reward level and the reward-driven move interval
type Ledger struct {
	source RewardSource

	Catches  int
	Level    int
	Units    int64
	Interval time.Duration
}

// NewLedger creates a zeroed ledger. A nil source grants the default unit.
func NewLedger(source RewardSource) *Ledger {
	if source == nil {
		source = StaticReward(config.DefaultRewardUnit)
	}
	return &Ledger{source: source, Interval: config.InitialInterval}
}

// Threshold is the catch count divisor for the next unlock
func (l *Ledger) Threshold() int {
	return config.BaseThreshold + l.Level
}

// RecordCatch counts a capture and unlocks a reward when the count is a
// multiple of the current threshold
func (l *Ledger) RecordCatch() (Unlock, bool) {
	l.Catches++
	if l.Catches%l.Threshold() != 0 {
		return Unlock{}, false
	}
	return l.unlock(), true
}

func (l *Ledger) unlock() Unlock {
	l.Level++
	l.Interval -= config.IntervalStep
	if l.Interval < config.MinInterval {
		l.Interval = config.MinInterval
	}
	amount := l.source.RewardAmount()
	if amount <= 0 {
		amount = config.DefaultRewardUnit
	}
	l.Units += amount
	return Unlock{Level: l.Level, Amount: amount, Interval: l.Interval}
}
