package engine

import (
	"context"
	"time"
)

// TimeManager tracks the wall-clock budget of one decision.
type TimeManager struct {
	startTime time.Time
	deadline  time.Time
	ctx       context.Context
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{ctx: context.Background()}
}

// Init starts the clock for a new decision. The deadline is the earlier of
// now+budget and the context's own deadline.
func (tm *TimeManager) Init(ctx context.Context, budget time.Duration) {
	tm.startTime = time.Now()
	tm.deadline = tm.startTime.Add(budget)
	if d, ok := ctx.Deadline(); ok && d.Before(tm.deadline) {
		tm.deadline = d
	}
	tm.ctx = ctx
}

// Elapsed returns the time elapsed since the decision started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// Deadline returns the absolute deadline.
func (tm *TimeManager) Deadline() time.Time {
	return tm.deadline
}

// Remaining returns the time left before the deadline, never negative.
func (tm *TimeManager) Remaining() time.Duration {
	r := time.Until(tm.deadline)
	if r < 0 {
		return 0
	}
	return r
}

// ShouldStop reports whether the deadline passed or the context was cancelled.
func (tm *TimeManager) ShouldStop() bool {
	if tm.ctx.Err() != nil {
		return true
	}
	return !time.Now().Before(tm.deadline)
}
