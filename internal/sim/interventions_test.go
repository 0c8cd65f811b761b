package sim

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/config"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/epidemics"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/testutil"
)

func loadTestWorld(t *testing.T) epidemics.World {
	t.Helper()
	docs, err := config.LoadDir(testutil.WriteWorldConfig(t))
	require.NoError(t, err)
	world, err := config.World(docs)
	require.NoError(t, err)
	return world
}

func TestBuildIntervention_AllKinds(t *testing.T) {
	world := loadTestWorld(t)
	targets := []epidemics.Target{{Country: "Testland", Locus: "Alpha", Effect: 1}}

	for _, kind := range []string{
		KindMaskMandate,
		KindAidKits,
		KindSanitationDrive,
		KindQuarantine,
		KindVaccination,
		KindHospitalBuild,
	} {
		p, err := BuildIntervention(InterventionSpec{
			ID: "iv_" + kind, Kind: kind, AtStep: 3, Targets: targets,
		}, world)
		require.NoError(t, err, kind)
		assert.Equal(t, "iv_"+kind, p.ID())
		assert.Equal(t, entity.StatusDormant, p.Status())
		assert.Equal(t, epidemics.RankIntervention, p.Rank())
	}
}

func TestBuildIntervention_ZoneEffect(t *testing.T) {
	world := loadTestWorld(t)

	p, err := BuildIntervention(InterventionSpec{
		ID:       "zone1",
		Kind:     KindZoneEffectChange,
		AtStep:   0,
		ZoneKind: epidemics.ZoneEconomic,
		ZoneTargets: []epidemics.ZoneTarget{
			{Country: "Testland", Zone: "Alpha Trade Zone", Effect: 0.1},
		},
	}, world)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDormant, p.Status())
}

func TestBuildIntervention_UnknownKind(t *testing.T) {
	world := loadTestWorld(t)
	_, err := BuildIntervention(InterventionSpec{ID: "x", Kind: "lockdown"}, world)
	assert.ErrorContains(t, err, "unknown kind")
}

func TestInterventionSpec_Validate(t *testing.T) {
	assert.ErrorContains(t, InterventionSpec{Kind: KindAidKits}.Validate(), "id")
	assert.ErrorContains(t, InterventionSpec{ID: "a", Kind: KindAidKits, AtStep: -1}.Validate(), "at_step")
	assert.ErrorContains(t, InterventionSpec{ID: "a", Kind: KindAidKits, Duration: -2}.Validate(), "duration")
	assert.NoError(t, InterventionSpec{ID: "a", Kind: KindAidKits}.Validate())
}

func TestInterventionPayload_RoundTrip(t *testing.T) {
	spec := InterventionSpec{
		ID: "mask1", Kind: KindMaskMandate, AtStep: 5, Duration: 20,
		Targets: []epidemics.Target{{Country: "Testland", Locus: "Alpha", Effect: 0.8}},
	}

	data, err := json.Marshal(spec.Payload())
	require.NoError(t, err)

	got, err := ParseInterventionPayload(string(data))
	require.NoError(t, err)
	assert.Equal(t, spec, got)
}
