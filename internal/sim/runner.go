package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/config"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/engine"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/epidemics"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/monitor"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/store"
)

// enginePrefix names engines after the scenario they run.
const enginePrefix = "EPIDEMIC2.0_"

// observerID is the process ID of the per-run observer.
const observerID = "obsrv"

// Runner executes scenarios. With a store attached it persists the run row,
// step history, snapshots, interventions, and the final score; without one it
// runs fully in memory.
type Runner struct {
	Store  *store.Store
	Logger *slog.Logger
	IDs    RunIDGenerator

	// Sink and Snapshot override the store-backed defaults. Replay uses
	// these to capture a run without persisting it.
	Sink     monitor.Sink
	Snapshot SnapshotFunc
}

// Result summarizes a finished run.
type Result struct {
	RunID   string
	Player  string
	Steps   int
	Metrics Metrics
	Score   store.Score
}

func worldGDP(world epidemics.World) float64 {
	var total float64
	for _, c := range world {
		total += c.GDP
	}
	return total
}

// worldResources sums the stockpiles interventions spend from.
func worldResources(world epidemics.World) float64 {
	var total float64
	for _, c := range world {
		total += c.HealthResourceStockpile + c.SanitationEquipmentStockpile
	}
	return total
}

// Run loads the scenario's world and executes it to completion.
func (r *Runner) Run(ctx context.Context, sc Scenario) (*Result, error) {
	sc = sc.withDefaults()
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	docs, err := config.LoadDir(sc.ConfigDir)
	if err != nil {
		return nil, err
	}
	world, err := config.World(docs)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, sc, world)
}

func (r *Runner) run(ctx context.Context, sc Scenario, world epidemics.World) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ids := r.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	runID := ids.Generate()

	metrics := &Metrics{
		InitialPopulation: world.TotalLiving(),
		InitialGDP:        worldGDP(world),
		InitialResources:  worldResources(world),
	}

	sink := r.Sink
	if sink == nil && r.Store != nil {
		sink = monitor.NewStoreSink(ctx, r.Store, runID)
	}
	var mon *monitor.Monitor
	if sink != nil {
		mon = monitor.New(sink, logger)
		if err := mon.RegisterWorld(world); err != nil {
			return nil, err
		}
	}

	snapshot := r.Snapshot
	if snapshot == nil && r.Store != nil {
		s := r.Store
		snapshot = func(step int) error {
			return s.WriteSnapshot(ctx, runID, step, world)
		}
	}

	procs, err := epidemics.CoreProcesses(world)
	if err != nil {
		return nil, err
	}
	obs, err := newObserverProcess(observerID, world, metrics, mon, snapshot, sc.SnapshotInterval, sc.MaxSteps-1)
	if err != nil {
		return nil, err
	}
	procs = append(procs, obs)

	for _, spec := range sc.Interventions {
		p, err := BuildIntervention(spec, world)
		if err != nil {
			return nil, err
		}
		procs = append(procs, p)
	}

	opts := []engine.Option{
		engine.WithMaxSteps(sc.MaxSteps),
		engine.WithSpeed(sc.Speed),
		engine.WithHistoryPersistence(sc.HistoryPersistence),
	}
	if sc.Turbo {
		opts = append(opts, engine.WithTurbo())
	}
	if r.Store != nil {
		opts = append(opts, engine.WithRecorder(store.NewHistoryRecorder(ctx, r.Store, runID)))
	}

	eng, err := engine.New(enginePrefix+sc.Player, entity.NewFireflyState(sc.Player), procs, world.Syncers(), opts...)
	if err != nil {
		return nil, err
	}

	for _, spec := range sc.Interventions {
		end := sc.MaxSteps - 1
		if spec.Duration > 0 && spec.AtStep+spec.Duration-1 < end {
			end = spec.AtStep + spec.Duration - 1
		}
		if err := eng.UpdateStatusChart(spec.ID, []engine.Interval{{Start: spec.AtStep, End: end}}, engine.ChartAlive); err != nil {
			return nil, err
		}
	}

	if r.Store != nil {
		err := r.Store.CreateRun(ctx, store.Run{
			ID:       runID,
			Name:     eng.Name(),
			Player:   sc.Player,
			Status:   string(entity.StatusAlive),
			Speed:    sc.Speed,
			MaxSteps: sc.MaxSteps,
		})
		if err != nil {
			return nil, err
		}
		for _, spec := range sc.Interventions {
			if err := r.Store.RecordIntervention(ctx, runID, spec.AtStep, spec.ID, spec.Kind, spec.Payload()); err != nil {
				return nil, err
			}
		}
	}

	logger.Info("run starting",
		"run", runID,
		"player", sc.Player,
		"countries", len(world),
		"max_steps", sc.MaxSteps,
		"interventions", len(sc.Interventions),
	)

	eng.Play()
	if err := eng.Run(ctx); err != nil {
		if r.Store != nil {
			if stErr := r.Store.SetRunStatus(ctx, runID, string(entity.StatusDead)); stErr != nil {
				logger.Error("run status update failed", "run", runID, "error", stErr)
			}
		}
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	metrics.FinalPopulation = world.TotalLiving()
	metrics.FinalGDP = worldGDP(world)
	metrics.FinalResources = worldResources(world)
	metrics.finalize()

	score := Evaluate(runID, sc.Player, *metrics)
	if r.Store != nil {
		if err := r.Store.SetRunStatus(ctx, runID, string(entity.StatusDead)); err != nil {
			return nil, err
		}
		if err := r.Store.WriteScore(ctx, score); err != nil {
			return nil, err
		}
	}

	logger.Info("run finished",
		"run", runID,
		"steps", metrics.TotalSteps,
		"dead", metrics.DeadPopulation,
		"score", score.Total,
	)

	return &Result{
		RunID:   runID,
		Player:  sc.Player,
		Steps:   metrics.TotalSteps,
		Metrics: *metrics,
		Score:   score,
	}, nil
}
