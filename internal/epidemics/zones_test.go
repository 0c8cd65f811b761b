package epidemics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
)

func TestEconomicZoneBoost_PaysAndSpreads(t *testing.T) {
	locus := newTestLocus("Alpha")
	// Tier 4 with maxTier 4 puts the sigmoid input at zero, so the boost is
	// exactly the window midpoint.
	locus.EconomicZones = []*entity.Zone{{Name: "Alpha SEZ", Tier: 4, Effect: 1}}
	country := newTestCountry(t, "Testland", locus)
	world := World{"Testland": country}

	p, err := NewEconomicZoneBoostProcess("ecosp", entity.StatusAlive, world)
	require.NoError(t, err)

	info, err := p.WhileAlive(0)
	require.NoError(t, err)
	syncWorld(world)

	boost := (1e-6 + 5e-5) / 2
	assert.InDelta(t, 0.01+boost, locus.InfectionRate, 1e-12)
	assert.InDelta(t, 2000+boost*1e5, country.GDP, 1e-9)
	assert.InDelta(t, 125, country.HealthResourceStockpile, 1e-9)
	assert.InDelta(t, 125, country.SanitationEquipmentStockpile, 1e-9)
	assert.InDelta(t, boost*1e5, info["gdp_gain"], 1e-9)
}

func TestZoneBoost_SkipsLociWithoutZones(t *testing.T) {
	locus := newTestLocus("Alpha")
	country := newTestCountry(t, "Testland", locus)
	world := World{"Testland": country}

	p, err := NewTouristZoneBoostProcess("touri", entity.StatusAlive, world)
	require.NoError(t, err)

	_, err = p.WhileAlive(0)
	require.NoError(t, err)
	syncWorld(world)

	assert.Equal(t, 0.01, locus.InfectionRate)
	assert.Equal(t, 2000.0, country.GDP)
}

func TestZoneEffectChange_AppliesOnceAndDies(t *testing.T) {
	locus := newTestLocus("Alpha")
	locus.Airports = []*entity.Zone{{Name: "Alpha International", Tier: 1, Effect: 1}}
	country := newTestCountry(t, "Testland", locus)
	world := World{"Testland": country}

	p, err := NewZoneEffectChangeProcess("aechg", entity.StatusAlive, world, ZoneAirport,
		[]ZoneTarget{{Country: "Testland", Zone: "Alpha International", Effect: 0}})
	require.NoError(t, err)

	info, err := p.WhileAlive(0)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusDead, p.Status())
	assert.Equal(t, 1.0, locus.Airports[0].Effect, "change staged, not applied")

	syncWorld(world)
	assert.Equal(t, 0.0, locus.Airports[0].Effect)
	assert.Equal(t, 1.0, info["zones_changed"])
}

func TestZoneEffectChange_RejectsUnknownKind(t *testing.T) {
	world := World{"Testland": newTestCountry(t, "Testland", newTestLocus("Alpha"))}
	_, err := NewZoneEffectChangeProcess("bad", entity.StatusAlive, world, ZoneKind("harbor"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown zone kind")
}
