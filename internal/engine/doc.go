// Package engine implements the Firefly step engine.
//
// ARCHITECTURE:
//
// Single-Writer Step Loop:
// The engine advances the simulation one step at a time in a single
// goroutine. All entity mutation happens there, via staged writes that are
// applied at rank boundaries. This ensures:
//   - Predictable process execution order (rank asc, id asc)
//   - A consistent read view for every process within a rank group
//   - Reproducible step traces on replay
//
// Step Processing Flow:
//  1. Build the schedule: processes sorted by (rank, id)
//  2. For each rank group: set each process's status from its status chart,
//     run it, collect info
//  3. Sync all entities at every rank boundary (the end of the step is a
//     boundary); engine state syncs per the configured sync mode
//  4. Prune dead processes; kill the engine when MaxSteps is reached
//
// Control commands (play, pause, stop, speed, spawn) are enqueued from any
// goroutine and drained by the loop between steps, so external callers never
// touch simulation state directly.
//
// The engine is designed for determinism, not throughput. With turbo mode
// enabled the loop free-runs without tick waits, which is how tests and
// headless scoring runs execute; otherwise steps are paced at speed steps
// per minute.
package engine
