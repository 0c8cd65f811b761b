package entity

import "fmt"

// Status is the lifecycle status shared by entities, processes, and the
// engine. The status set is closed: ALIVE, DORMANT, DEAD.
type Status string

const (
	// StatusAlive means the component is active and participates in steps.
	StatusAlive Status = "ALIVE"
	// StatusDormant means the component is idle but may be reactivated.
	StatusDormant Status = "DORMANT"
	// StatusDead means the component is terminated and will be pruned.
	StatusDead Status = "DEAD"
)

// Valid reports whether s is one of the three recognized statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAlive, StatusDormant, StatusDead:
		return true
	}
	return false
}

// ParseStatus converts a string into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q (must be ALIVE, DORMANT, or DEAD)", s)
	}
	return st, nil
}

// Syncer is implemented by anything that applies staged writes.
type Syncer interface {
	Sync()
}

// Base provides the staged-write mechanism shared by all entities.
//
// Processes never mutate entity fields directly. They submit mutations via
// Stage, and the mutations only become visible when the engine calls Sync
// at a rank boundary. This gives every process within a rank group a
// consistent read view of the world, regardless of execution order.
//
// Sync cascades: child entities registered with Register are synced after
// the parent's own staged writes are applied. Registration order is
// preserved so cascades are deterministic.
//
// Base is NOT safe for concurrent use. The engine's single-writer loop is
// the only goroutine that stages and syncs.
type Base struct {
	pending  []func()
	children []Syncer
}

// Stage queues a mutation to be applied on the next Sync.
// Mutations are applied in the order they were staged.
func (b *Base) Stage(mut func()) {
	b.pending = append(b.pending, mut)
}

// Register adds child entities to the sync cascade.
func (b *Base) Register(children ...Syncer) {
	b.children = append(b.children, children...)
}

// Sync applies all staged mutations in order, clears the stage, and then
// syncs registered children.
func (b *Base) Sync() {
	for _, mut := range b.pending {
		mut()
	}
	b.pending = b.pending[:0]
	for _, child := range b.children {
		child.Sync()
	}
}

// Pending returns the number of staged mutations not yet applied.
// Cascaded children are not counted.
func (b *Base) Pending() int {
	return len(b.pending)
}
