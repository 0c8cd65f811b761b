package epidemics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
)

// Charles de Gaulle (hub 8) has a direct route to Beijing Capital (hub 0), so
// an outbreak around Beijing pressures the Paris locus.
func newTravelWorld(t *testing.T) (World, *entity.Locus, *entity.Locus) {
	t.Helper()

	beijing := newTestLocus("Beijing")
	beijing.Susceptible = 600
	beijing.Infected = 400
	beijing.Airports = []*entity.Zone{{Name: "Beijing Capital International Airport", Tier: 1, Effect: 1}}

	paris := newTestLocus("Paris")
	paris.InfectionRate = 0.002
	paris.Airports = []*entity.Zone{{Name: "Charles de Gaulle Airport", Tier: 1, Effect: 1}}

	world := World{
		"China":  newTestCountry(t, "China", beijing),
		"France": newTestCountry(t, "France", paris),
	}
	return world, beijing, paris
}

func TestAirTravel_OutbreakLiftsConnectedLocus(t *testing.T) {
	world, _, paris := newTravelWorld(t)

	p, err := NewAirTravelProcess("airtr", entity.StatusAlive, world)
	require.NoError(t, err)

	info, err := p.WhileAlive(0)
	require.NoError(t, err)

	assert.Equal(t, 0.002, paris.InfectionRate, "bump staged, not applied")
	syncWorld(world)

	// 40% infected share is above the outbreak threshold; the bump lifts the
	// destination at least to the epidemic floor.
	assert.GreaterOrEqual(t, paris.InfectionRate, EpidemicInfectionRate)
	assert.Greater(t, info["active_routes"], 0.0)
}

func TestAirTravel_BelowThresholdNoSpread(t *testing.T) {
	world, beijing, paris := newTravelWorld(t)
	beijing.Susceptible = 900
	beijing.Infected = 100

	p, err := NewAirTravelProcess("airtr", entity.StatusAlive, world)
	require.NoError(t, err)

	info, err := p.WhileAlive(0)
	require.NoError(t, err)
	syncWorld(world)

	assert.Equal(t, 0.002, paris.InfectionRate)
	assert.Equal(t, 0.0, info["active_routes"])
}

func TestAirTravel_ThrottledZoneSeversRoute(t *testing.T) {
	world, _, paris := newTravelWorld(t)
	paris.Airports[0].Effect = 0

	p, err := NewAirTravelProcess("airtr", entity.StatusAlive, world)
	require.NoError(t, err)

	_, err = p.WhileAlive(0)
	require.NoError(t, err)
	syncWorld(world)

	assert.Equal(t, 0.002, paris.InfectionRate)
}

func TestSeaTravel_UsesPortTables(t *testing.T) {
	tianjin := newTestLocus("Tianjin")
	tianjin.Susceptible = 500
	tianjin.Infected = 500
	tianjin.Ports = []*entity.Zone{{Name: "Port of Tianjin", Tier: 1, Effect: 1}}

	tokyo := newTestLocus("Tokyo")
	tokyo.InfectionRate = 0.001
	// Port of Tokyo (hub 16) lists Port of Tianjin (hub 0) as adjacent.
	tokyo.Ports = []*entity.Zone{{Name: "Port of Tokyo", Tier: 1, Effect: 1}}

	world := World{
		"China": newTestCountry(t, "China", tianjin),
		"Japan": newTestCountry(t, "Japan", tokyo),
	}

	p, err := NewSeaTravelProcess("seatr", entity.StatusAlive, world)
	require.NoError(t, err)

	_, err = p.WhileAlive(0)
	require.NoError(t, err)
	syncWorld(world)

	assert.GreaterOrEqual(t, tokyo.InfectionRate, EpidemicInfectionRate)
}
