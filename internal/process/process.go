// Package process defines the contract between the engine and simulation
// processes.
//
// A process owns a slice of simulation behavior (births, disease spread, an
// intervention) and mutates entities exclusively through staged writes. The
// engine schedules processes by rank: lower ranks run earlier within a step,
// and entities sync at every rank boundary, so all processes of one rank
// observe the same world.
//
// The original DOMAIN restriction (which entity kinds a process may target)
// is enforced at compile time here: each process takes typed entity maps in
// its constructor.
package process

import (
	"fmt"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
)

// Info carries a process's per-step diagnostic values, keyed by metric name.
type Info map[string]float64

// Process is implemented by all simulation processes. Concrete processes
// embed Base for the ID/status plumbing and implement WhileAlive (and
// optionally override WhileDormant, which Base defaults to a no-op).
type Process interface {
	ID() string
	Rank() int
	Status() entity.Status
	SetStatus(entity.Status) error

	// WhileAlive runs one step of the process's active behavior.
	WhileAlive(step int) (Info, error)
	// WhileDormant runs one step of idle behavior (usually nothing).
	WhileDormant(step int) (Info, error)
}

// Conditioner is optionally implemented by processes that override their
// chart-driven status based on world conditions. The returned status wins
// over whatever the engine's status chart assigned for the step.
type Conditioner interface {
	ConditionStatus() (entity.Status, bool)
}

// Run executes one step of a process: apply any condition override, dispatch
// on status, and namespace the returned info keys by status. Dead processes
// produce no info; the engine prunes them after the step.
func Run(p Process, step int) (Info, error) {
	if c, ok := p.(Conditioner); ok {
		if st, override := c.ConditionStatus(); override {
			if err := p.SetStatus(st); err != nil {
				return nil, fmt.Errorf("process %s: condition override: %w", p.ID(), err)
			}
		}
	}

	// Capture the dispatch status up front: a one-shot process may mark
	// itself DEAD during its step, and its info still belongs to the status
	// it ran under.
	st := p.Status()

	var (
		info Info
		err  error
	)
	switch st {
	case entity.StatusAlive:
		info, err = p.WhileAlive(step)
	case entity.StatusDormant:
		info, err = p.WhileDormant(step)
	case entity.StatusDead:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("process %s: step %d: %w", p.ID(), step, err)
	}
	if info == nil {
		return nil, nil
	}

	out := make(Info, len(info))
	for k, v := range info {
		out[string(st)+"/"+k] = v
	}
	return out, nil
}

// Base provides ID and validated status handling for processes.
type Base struct {
	id     string
	status entity.Status
}

// NewBase constructs the embedded base, rejecting empty IDs and invalid
// statuses.
func NewBase(id string, status entity.Status) (Base, error) {
	if id == "" {
		return Base{}, fmt.Errorf("process id must not be empty")
	}
	if !status.Valid() {
		return Base{}, fmt.Errorf("process %s: invalid status %q", id, status)
	}
	return Base{id: id, status: status}, nil
}

// ID returns the process identifier.
func (b *Base) ID() string { return b.id }

// Status returns the current status.
func (b *Base) Status() entity.Status { return b.status }

// SetStatus assigns a new status, rejecting values outside the status set.
func (b *Base) SetStatus(st entity.Status) error {
	if !st.Valid() {
		return fmt.Errorf("process %s: invalid status %q", b.id, st)
	}
	b.status = st
	return nil
}

// WhileDormant is the default idle behavior: do nothing.
func (b *Base) WhileDormant(step int) (Info, error) { return nil, nil }
