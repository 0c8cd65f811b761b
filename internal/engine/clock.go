package engine

import "sync/atomic"

// StepClock is the engine's monotonic step counter.
//
// Every run of the loop stamps its work with a strictly increasing step from
// this clock. Wall-clock time never orders simulation events; it only paces
// them.
//
// Thread-safety: safe for concurrent reads (atomic operations). Only the
// engine loop advances it.
type StepClock struct {
	step atomic.Int64
}

// NewStepClock creates a clock starting at step 0.
func NewStepClock() *StepClock {
	return &StepClock{}
}

// NewStepClockAt creates a clock starting at a specific step.
// Used by replay to resume from a stored position.
func NewStepClockAt(start int64) *StepClock {
	c := &StepClock{}
	c.step.Store(start)
	return c
}

// Next returns the current step and advances the clock.
func (c *StepClock) Next() int64 {
	return c.step.Add(1) - 1
}

// Current returns the next step to be executed without advancing.
func (c *StepClock) Current() int64 {
	return c.step.Load()
}
