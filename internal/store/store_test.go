package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/engine"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/epidemics"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/process"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestRun(t *testing.T, s *Store, id string) {
	t.Helper()
	require.NoError(t, s.CreateRun(context.Background(), Run{
		ID: id, Name: "EPIDEMIC2.0_tester", Player: "tester",
		Status: "DORMANT", Speed: 6, MaxSteps: 7300,
	}))
}

func testWorld(t *testing.T) epidemics.World {
	t.Helper()
	c, err := entity.NewCountry(&entity.Country{
		Name:                 "Testland",
		GDP:                  2000,
		HumanWelfareResource: 10,
		Loci: []*entity.Locus{{
			Name: "Alpha", Area: 10,
			Susceptible: 900, Infected: 100,
		}},
	})
	require.NoError(t, err)
	return epidemics.World{"Testland": c}
}

func TestOpen_AppliesPragmasAndSchema(t *testing.T) {
	s := openTestStore(t)

	var journalMode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var fk int
	require.NoError(t, s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestRun_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	r, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "EPIDEMIC2.0_tester", r.Name)
	assert.Equal(t, "DORMANT", r.Status)
	assert.Equal(t, 7300, r.MaxSteps)
	assert.NotEmpty(t, r.CreatedAt)

	require.NoError(t, s.SetRunStatus(ctx, "run-1", "DEAD"))
	r, err = s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "DEAD", r.Status)
}

func TestGetRun_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.SetRunStatus(context.Background(), "missing", "DEAD")
	assert.Error(t, err)
}

func TestHistory_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	require.NoError(t, s.AppendHistory(ctx, "run-1", map[int]map[string]float64{
		0: {"dissp/ALIVE/total_infected": 100},
		1: {"dissp/ALIVE/total_infected": 110, "birth/ALIVE/loci_updated": 2},
	}))

	got, err := s.History(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 110.0, got[1]["dissp/ALIVE/total_infected"])
	assert.Equal(t, 2.0, got[1]["birth/ALIVE/loci_updated"])

	// Re-flushing the same step replaces, not duplicates.
	require.NoError(t, s.AppendHistory(ctx, "run-1", map[int]map[string]float64{
		1: {"dissp/ALIVE/total_infected": 120},
	}))
	got, err = s.History(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 120.0, got[1]["dissp/ALIVE/total_infected"])
}

func TestSnapshot_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")
	world := testWorld(t)

	require.NoError(t, s.WriteSnapshot(ctx, "run-1", 0, world))
	require.NoError(t, s.WriteSnapshot(ctx, "run-1", 12, world))

	steps, err := s.SnapshotSteps(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 12}, steps)

	snaps, err := s.Snapshots(ctx, "run-1", 12)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "Testland", snaps[0].Country)
	assert.Equal(t, "Alpha", snaps[0].Locus)
	assert.Equal(t, 900.0, snaps[0].Susceptible)

	res, err := s.Resources(ctx, "run-1", 12)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 2000.0, res[0].GDP)
}

func TestIntervention_PayloadIsCanonical(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	payload := map[string]any{"country": "Testland", "locus": "Alpha", "effect": 1.0}
	require.NoError(t, s.RecordIntervention(ctx, "run-1", 5, "mask-1", "mask", payload))

	ivs, err := s.Interventions(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, ivs, 1)
	assert.Equal(t, 5, ivs[0].Step)
	assert.Equal(t, "mask", ivs[0].Kind)
	assert.JSONEq(t, `{"country":"Testland","locus":"Alpha","effect":1}`, ivs[0].Payload)
}

func TestScore_Leaderboard(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")
	createTestRun(t, s, "run-2")

	require.NoError(t, s.WriteScore(ctx, Score{RunID: "run-1", Player: "alice", Total: 0.7}))
	require.NoError(t, s.WriteScore(ctx, Score{RunID: "run-2", Player: "bob", Total: 0.9}))

	sc, err := s.GetScore(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", sc.Player)

	_, err = s.GetScore(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	board, err := s.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "bob", board[0].Player)
	assert.Equal(t, "alice", board[1].Player)
}

func TestHistoryRecorder_FlattensKeys(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	rec := NewHistoryRecorder(ctx, s, "run-1")
	err := rec.RecordHistory(map[int]engine.StepInfo{
		3: {"dissp": process.Info{"ALIVE/total_infected": 42}},
	})
	require.NoError(t, err)

	got, err := s.History(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 42.0, got[3]["dissp/ALIVE/total_infected"])
}
