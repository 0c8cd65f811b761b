package sim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/config"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/epidemics"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/store"
)

// replayTolerance absorbs float round-trip noise; the simulation itself is
// deterministic.
const replayTolerance = 1e-9

// ReplayReport is the outcome of verifying a stored run.
type ReplayReport struct {
	RunID        string
	StepsChecked int
	RowsChecked  int
	Mismatches   []string
}

// OK reports whether the replay reproduced every stored snapshot row.
func (r *ReplayReport) OK() bool { return len(r.Mismatches) == 0 }

type compartments struct {
	susceptible float64
	infected    float64
	recovered   float64
	dead        float64
}

func captureWorld(world epidemics.World) map[string]compartments {
	out := make(map[string]compartments)
	for _, name := range world.Names() {
		for _, l := range world[name].Loci {
			out[name+"/"+l.Name] = compartments{
				susceptible: l.Susceptible,
				infected:    l.Infected,
				recovered:   l.Recovered,
				dead:        l.Dead,
			}
		}
	}
	return out
}

// Replay re-executes a stored run in memory, with the same world config and
// intervention schedule, and compares the world against every stored
// snapshot. A clean report means the stored snapshots are an honest record of
// a real run over this config.
func Replay(ctx context.Context, s *store.Store, runID, configDir string) (*ReplayReport, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	ivs, err := s.Interventions(ctx, runID)
	if err != nil {
		return nil, err
	}
	specs := make([]InterventionSpec, 0, len(ivs))
	for _, iv := range ivs {
		spec, err := ParseInterventionPayload(iv.Payload)
		if err != nil {
			return nil, fmt.Errorf("run %s: intervention %s: %w", runID, iv.Process, err)
		}
		specs = append(specs, spec)
	}

	steps, err := s.SnapshotSteps(ctx, runID)
	if err != nil {
		return nil, err
	}
	stored := make(map[int]bool, len(steps))
	for _, step := range steps {
		stored[step] = true
	}

	docs, err := config.LoadDir(configDir)
	if err != nil {
		return nil, err
	}
	world, err := config.World(docs)
	if err != nil {
		return nil, err
	}

	captured := make(map[int]map[string]compartments, len(steps))
	runner := &Runner{
		IDs: NewFixedIDGenerator("replay_" + runID),
		Snapshot: func(step int) error {
			if stored[step] {
				captured[step] = captureWorld(world)
			}
			return nil
		},
	}

	sc := Scenario{
		Player:           run.Player,
		ConfigDir:        configDir,
		MaxSteps:         run.MaxSteps,
		Speed:            run.Speed,
		SnapshotInterval: 1,
		Turbo:            true,
		Interventions:    specs,
	}
	sc = sc.withDefaults()
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if _, err := runner.run(ctx, sc, world); err != nil {
		return nil, err
	}

	report := &ReplayReport{RunID: runID}
	for _, step := range steps {
		rows, err := s.Snapshots(ctx, runID, step)
		if err != nil {
			return nil, err
		}
		report.StepsChecked++

		replayed, ok := captured[step]
		if !ok {
			report.Mismatches = append(report.Mismatches, fmt.Sprintf("step %d: not reached in replay", step))
			continue
		}
		for _, row := range rows {
			key := row.Country + "/" + row.Locus
			got, ok := replayed[key]
			if !ok {
				report.Mismatches = append(report.Mismatches, fmt.Sprintf("step %d: %s missing in replay", step, key))
				continue
			}
			report.RowsChecked++
			for _, cmp := range []struct {
				name           string
				stored, replay float64
			}{
				{"susceptible", row.Susceptible, got.susceptible},
				{"infected", row.Infected, got.infected},
				{"recovered", row.Recovered, got.recovered},
				{"dead", row.Dead, got.dead},
			} {
				if math.Abs(cmp.stored-cmp.replay) > replayTolerance {
					report.Mismatches = append(report.Mismatches,
						fmt.Sprintf("step %d: %s %s: stored %v, replayed %v", step, key, cmp.name, cmp.stored, cmp.replay))
				}
			}
		}
	}
	sort.Strings(report.Mismatches)
	return report, nil
}
