package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound reports a missing run or score.
var ErrNotFound = errors.New("not found")

// SnapshotRow is one locus's compartments at one step.
type SnapshotRow struct {
	Step        int
	Country     string
	Locus       string
	Susceptible float64
	Infected    float64
	Recovered   float64
	Dead        float64
}

// ResourceRow is one country's resources at one step.
type ResourceRow struct {
	Step       int
	Country    string
	GDP        float64
	Health     float64
	Sanitation float64
	Welfare    float64
	Happiness  float64
}

// Intervention is a logged spawned process.
type Intervention struct {
	ID      int64
	Step    int
	Process string
	Kind    string
	Payload string
}

// GetRun fetches one run row.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, player, status, speed, max_steps, created_at
		FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.Name, &r.Player, &r.Status, &r.Speed, &r.MaxSteps, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return r, nil
}

// ListRuns returns runs newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, player, status, speed, max_steps, created_at
		FROM runs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Name, &r.Player, &r.Status, &r.Speed, &r.MaxSteps, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// History returns the flushed step info of a run, keyed by step.
func (s *Store) History(ctx context.Context, runID string) (map[int]map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT step, key, value FROM history
		WHERE run_id = ? ORDER BY step, key`, runID)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	defer rows.Close()

	out := make(map[int]map[string]float64)
	for rows.Next() {
		var (
			step  int
			key   string
			value float64
		)
		if err := rows.Scan(&step, &key, &value); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if out[step] == nil {
			out[step] = make(map[string]float64)
		}
		out[step][key] = value
	}
	return out, rows.Err()
}

// SnapshotSteps returns the steps at which a run has snapshots, ascending.
func (s *Store) SnapshotSteps(ctx context.Context, runID string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT step FROM snapshots
		WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, fmt.Errorf("read snapshot steps: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var step int
		if err := rows.Scan(&step); err != nil {
			return nil, fmt.Errorf("scan snapshot step: %w", err)
		}
		out = append(out, step)
	}
	return out, rows.Err()
}

// Snapshots returns a run's locus rows at one step, ordered by country and
// locus.
func (s *Store) Snapshots(ctx context.Context, runID string, step int) ([]SnapshotRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT step, country, locus, susceptible, infected, recovered, dead
		FROM snapshots WHERE run_id = ? AND step = ?
		ORDER BY country, locus`, runID, step)
	if err != nil {
		return nil, fmt.Errorf("read snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotRow
	for rows.Next() {
		var r SnapshotRow
		if err := rows.Scan(&r.Step, &r.Country, &r.Locus,
			&r.Susceptible, &r.Infected, &r.Recovered, &r.Dead); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Resources returns a run's country resource rows at one step, ordered by
// country.
func (s *Store) Resources(ctx context.Context, runID string, step int) ([]ResourceRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT step, country, gdp, health, sanitation, welfare, happiness
		FROM resources WHERE run_id = ? AND step = ?
		ORDER BY country`, runID, step)
	if err != nil {
		return nil, fmt.Errorf("read resources: %w", err)
	}
	defer rows.Close()

	var out []ResourceRow
	for rows.Next() {
		var r ResourceRow
		if err := rows.Scan(&r.Step, &r.Country, &r.GDP, &r.Health,
			&r.Sanitation, &r.Welfare, &r.Happiness); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Interventions returns a run's logged interventions in spawn order.
func (s *Store) Interventions(ctx context.Context, runID string) ([]Intervention, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, step, process, kind, payload
		FROM interventions WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("read interventions: %w", err)
	}
	defer rows.Close()

	var out []Intervention
	for rows.Next() {
		var iv Intervention
		if err := rows.Scan(&iv.ID, &iv.Step, &iv.Process, &iv.Kind, &iv.Payload); err != nil {
			return nil, fmt.Errorf("scan intervention: %w", err)
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

// GetScore fetches the score of a run.
func (s *Store) GetScore(ctx context.Context, runID string) (Score, error) {
	var sc Score
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, player, population_survived, gdp_preserved,
		       infection_control, resource_efficiency, containment, total, created_at
		FROM scores WHERE run_id = ?`, runID).
		Scan(&sc.RunID, &sc.Player, &sc.PopulationSurvived, &sc.GDPPreserved,
			&sc.InfectionControl, &sc.ResourceEfficiency, &sc.Containment,
			&sc.Total, &sc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Score{}, fmt.Errorf("score for run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return Score{}, fmt.Errorf("get score for run %s: %w", runID, err)
	}
	return sc, nil
}

// Leaderboard returns the top scores, highest total first. Ties break by
// earliest score.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]Score, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, player, population_survived, gdp_preserved,
		       infection_control, resource_efficiency, containment, total, created_at
		FROM scores ORDER BY total DESC, created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	defer rows.Close()

	var out []Score
	for rows.Next() {
		var sc Score
		if err := rows.Scan(&sc.RunID, &sc.Player, &sc.PopulationSurvived,
			&sc.GDPPreserved, &sc.InfectionControl, &sc.ResourceEfficiency,
			&sc.Containment, &sc.Total, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
