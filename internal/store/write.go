package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/epidemics"
)

// Run is one engine run's identity row.
type Run struct {
	ID        string
	Name      string
	Player    string
	Status    string
	Speed     int
	MaxSteps  int
	CreatedAt string
}

// Score is the final competition score of a run. Components are in [0,1];
// Total is their weighted sum.
type Score struct {
	RunID              string
	Player             string
	PopulationSurvived float64
	GDPPreserved       float64
	InfectionControl   float64
	ResourceEfficiency float64
	Containment        float64
	Total              float64
	CreatedAt          string
}

// CreateRun inserts the run row. The run starts in the engine's initial
// status.
func (s *Store) CreateRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, name, player, status, speed, max_steps)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Player, r.Status, r.Speed, r.MaxSteps)
	if err != nil {
		return fmt.Errorf("create run %s: %w", r.ID, err)
	}
	return nil
}

// SetRunStatus updates the run's engine status.
func (s *Store) SetRunStatus(ctx context.Context, runID, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE runs SET status = ? WHERE id = ?`, status, runID)
	if err != nil {
		return fmt.Errorf("set run status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set run status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("set run status: run %s not found", runID)
	}
	return nil
}

// AppendHistory writes flushed step info rows in one transaction. Steps and
// keys are written in sorted order.
func (s *Store) AppendHistory(ctx context.Context, runID string, history map[int]map[string]float64) error {
	if len(history) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO history (run_id, step, key, value)
			VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		steps := make([]int, 0, len(history))
		for step := range history {
			steps = append(steps, step)
		}
		sort.Ints(steps)

		for _, step := range steps {
			keys := make([]string, 0, len(history[step]))
			for k := range history[step] {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if _, err := stmt.ExecContext(ctx, runID, step, k, history[step][k]); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WriteSnapshot captures the world at one step: per-locus compartments and
// per-country resources, in sorted order.
func (s *Store) WriteSnapshot(ctx context.Context, runID string, step int, world epidemics.World) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		locusStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO snapshots
			(run_id, step, country, locus, susceptible, infected, recovered, dead)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer locusStmt.Close()

		resourceStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO resources
			(run_id, step, country, gdp, health, sanitation, welfare, happiness)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer resourceStmt.Close()

		for _, name := range world.Names() {
			country := world[name]
			for _, locus := range country.Loci {
				if _, err := locusStmt.ExecContext(ctx, runID, step, name, locus.Name,
					locus.Susceptible, locus.Infected, locus.Recovered, locus.Dead); err != nil {
					return err
				}
			}
			if _, err := resourceStmt.ExecContext(ctx, runID, step, name,
				country.GDP, country.HealthResourceStockpile,
				country.SanitationEquipmentStockpile, country.HumanWelfareResource,
				country.HappinessIndex); err != nil {
				return err
			}
		}
		return nil
	})
}

// RecordIntervention logs a spawned player process with its payload.
func (s *Store) RecordIntervention(ctx context.Context, runID string, step int, processID, kind string, payload any) error {
	data, err := canonicalJSON(payload)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO interventions (run_id, step, process, kind, payload)
		VALUES (?, ?, ?, ?, ?)`,
		runID, step, processID, kind, data)
	if err != nil {
		return fmt.Errorf("record intervention %s: %w", processID, err)
	}
	return nil
}

// WriteScore stores the final score of a run. A run scores once.
func (s *Store) WriteScore(ctx context.Context, sc Score) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores
		(run_id, player, population_survived, gdp_preserved, infection_control,
		 resource_efficiency, containment, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.RunID, sc.Player, sc.PopulationSurvived, sc.GDPPreserved,
		sc.InfectionControl, sc.ResourceEfficiency, sc.Containment, sc.Total)
	if err != nil {
		return fmt.Errorf("write score for run %s: %w", sc.RunID, err)
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
