package sim

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/epidemics"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/store"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/testutil"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "sim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testScenario(t *testing.T) Scenario {
	t.Helper()
	return Scenario{
		Player:           "tester",
		ConfigDir:        testutil.WriteWorldConfig(t),
		MaxSteps:         40,
		SnapshotInterval: 10,
		Turbo:            true,
		Interventions: []InterventionSpec{{
			ID: "mask1", Kind: KindMaskMandate, AtStep: 5, Duration: 20,
			Targets: []epidemics.Target{{Country: "Testland", Locus: "Alpha", Effect: 0.5}},
		}},
	}
}

func TestRunner_ValidatesScenario(t *testing.T) {
	r := &Runner{}
	_, err := r.Run(context.Background(), Scenario{ConfigDir: "somewhere"})
	assert.ErrorContains(t, err, "player")

	_, err = r.Run(context.Background(), Scenario{Player: "p"})
	assert.ErrorContains(t, err, "config dir")
}

func TestRunner_InMemoryRun(t *testing.T) {
	r := &Runner{IDs: NewFixedIDGenerator("run-mem")}
	res, err := r.Run(context.Background(), testScenario(t))
	require.NoError(t, err)

	assert.Equal(t, "run-mem", res.RunID)
	assert.Equal(t, 40, res.Steps)
	assert.Equal(t, 91000.0, res.Metrics.InitialPopulation)
	assert.Greater(t, res.Metrics.MaxInfectedShare, 0.0)
	assert.Greater(t, res.Score.Total, 0.0)
	assert.LessOrEqual(t, res.Score.Total, 1.0)
}

func TestRunner_PersistsRun(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	r := &Runner{Store: s, IDs: NewFixedIDGenerator("run-1")}

	res, err := r.Run(ctx, testScenario(t))
	require.NoError(t, err)
	require.Equal(t, "run-1", res.RunID)

	run, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "EPIDEMIC2.0_tester", run.Name)
	assert.Equal(t, "DEAD", run.Status)
	assert.Equal(t, 40, run.MaxSteps)

	steps, err := s.SnapshotSteps(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 20, 30, 39}, steps)

	history, err := s.History(ctx, "run-1")
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Contains(t, history[0], "obsrv/ALIVE/total_living")

	ivs, err := s.Interventions(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, ivs, 1)
	assert.Equal(t, "mask1", ivs[0].Process)
	assert.Equal(t, 5, ivs[0].Step)

	score, err := s.GetScore(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, res.Score.Total, score.Total)
}

func TestRunner_InterventionChangesOutcome(t *testing.T) {
	sc := testScenario(t)

	base := sc
	base.Interventions = nil
	r := &Runner{IDs: NewFixedIDGenerator("run-base", "run-mask")}

	noMask, err := r.Run(context.Background(), base)
	require.NoError(t, err)
	withMask, err := r.Run(context.Background(), sc)
	require.NoError(t, err)

	// The mandate holds infections below the untreated run.
	assert.Less(t, withMask.Metrics.MaxInfectedShare, noMask.Metrics.MaxInfectedShare)
}

func TestReplay_ReproducesStoredRun(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	sc := testScenario(t)

	r := &Runner{Store: s, IDs: NewFixedIDGenerator("run-1")}
	_, err := r.Run(ctx, sc)
	require.NoError(t, err)

	report, err := Replay(ctx, s, "run-1", sc.ConfigDir)
	require.NoError(t, err)

	assert.True(t, report.OK(), "mismatches: %v", report.Mismatches)
	assert.Equal(t, 5, report.StepsChecked)
	assert.Equal(t, 5, report.RowsChecked)
}

func TestReplay_UnknownRun(t *testing.T) {
	s := openTestStore(t)
	_, err := Replay(context.Background(), s, "missing", t.TempDir())
	assert.ErrorIs(t, err, store.ErrNotFound)
}
