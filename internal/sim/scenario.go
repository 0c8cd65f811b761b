// Package sim assembles whole simulation runs: world loading, the engine
// process schedule, intervention scheduling, persistence, and scoring.
package sim

import (
	"fmt"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/engine"
)

// DefaultMaxSteps is two years of daily steps, the standard scenario length.
const DefaultMaxSteps = 730

// DefaultSnapshotInterval is how often the observer persists world snapshots
// and flushes the monitor.
const DefaultSnapshotInterval = 30

// Scenario describes one run: whose it is, which world, how long, and which
// interventions fire when.
type Scenario struct {
	Player    string
	ConfigDir string

	MaxSteps           int
	Speed              int
	HistoryPersistence int
	SnapshotInterval   int
	Turbo              bool

	Interventions []InterventionSpec
}

// withDefaults fills zero-valued knobs.
func (s Scenario) withDefaults() Scenario {
	if s.MaxSteps == 0 {
		s.MaxSteps = DefaultMaxSteps
	}
	if s.Speed == 0 {
		s.Speed = engine.DefaultSpeed
	}
	if s.HistoryPersistence == 0 {
		s.HistoryPersistence = engine.DefaultHistoryPersistence
	}
	if s.SnapshotInterval == 0 {
		s.SnapshotInterval = DefaultSnapshotInterval
	}
	return s
}

// Validate rejects scenarios that cannot run.
func (s Scenario) Validate() error {
	if s.Player == "" {
		return fmt.Errorf("scenario: player must not be empty")
	}
	if s.ConfigDir == "" {
		return fmt.Errorf("scenario: config dir must not be empty")
	}
	if s.MaxSteps < 1 {
		return fmt.Errorf("scenario: max steps %d must be >= 1", s.MaxSteps)
	}
	if s.SnapshotInterval < 1 {
		return fmt.Errorf("scenario: snapshot interval %d must be >= 1", s.SnapshotInterval)
	}
	ids := make(map[string]bool, len(s.Interventions))
	for _, spec := range s.Interventions {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("scenario: %w", err)
		}
		if spec.AtStep >= s.MaxSteps {
			return fmt.Errorf("scenario: intervention %s: at_step %d beyond max steps %d", spec.ID, spec.AtStep, s.MaxSteps)
		}
		if ids[spec.ID] {
			return fmt.Errorf("scenario: duplicate intervention id %s", spec.ID)
		}
		ids[spec.ID] = true
	}
	return nil
}
