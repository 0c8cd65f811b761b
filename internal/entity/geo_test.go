package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLocus() *Locus {
	return &Locus{
		Name:          "mumbai",
		Lat:           19.07,
		Lon:           72.87,
		Area:          603.4,
		Susceptible:   2.0e7,
		Infected:      100,
		InfectionRate: 0.003,
		RecoveryRate:  0.001,
		Airports:      []*Zone{{Name: "BOM", Tier: 1, Effect: 0.5}},
	}
}

func validCountry() *Country {
	return &Country{
		Name:                         "india",
		GDP:                          50000,
		HealthResourceStockpile:      1000,
		SanitationEquipmentStockpile: 1000,
		HumanWelfareResource:         500,
		HappinessIndex:               0.6,
		CleanlinessIndex:             0.5,
		Loci:                         []*Locus{validLocus()},
	}
}

func TestLocus_Validate(t *testing.T) {
	require.NoError(t, validLocus().Validate())

	l := validLocus()
	l.Name = ""
	assert.Error(t, l.Validate())

	l = validLocus()
	l.InfectionRate = 1.5
	err := l.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "infection_rate")
	assert.Contains(t, err.Error(), "outside [0,1]")

	l = validLocus()
	l.Susceptible = -1
	assert.Error(t, l.Validate())

	l = validLocus()
	l.GeneralHospitals = -2
	assert.Error(t, l.Validate())
}

func TestCountry_Validate(t *testing.T) {
	require.NoError(t, validCountry().Validate())

	c := validCountry()
	c.Loci = nil
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one locus")

	c = validCountry()
	c.GDP = -5
	assert.Error(t, c.Validate())

	c = validCountry()
	c.HappinessIndex = 2
	assert.Error(t, c.Validate())

	// Locus errors surface with country context.
	c = validCountry()
	c.Loci[0].RecoveryRate = -0.1
	err = c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "country india")
	assert.Contains(t, err.Error(), "locus mumbai")
}

func TestNewCountry_WiresSyncCascade(t *testing.T) {
	c, err := NewCountry(validCountry())
	require.NoError(t, err)

	locus := c.Loci[0]
	locus.Stage(func() { locus.Infected = 42 })
	c.Sync()
	assert.Equal(t, float64(42), locus.Infected)
}

func TestCountry_LocusLookup(t *testing.T) {
	c := validCountry()
	assert.NotNil(t, c.Locus("mumbai"))
	assert.Nil(t, c.Locus("atlantis"))
}

func TestCountry_Totals(t *testing.T) {
	c := &Country{
		Name: "x",
		Loci: []*Locus{
			{Name: "a", Susceptible: 10, Infected: 2, Recovered: 1, Dead: 5},
			{Name: "b", Susceptible: 20, Infected: 3, Recovered: 4, Dead: 1},
		},
	}
	assert.Equal(t, float64(40), c.TotalLiving())
	assert.Equal(t, float64(6), c.TotalDead())
	assert.Equal(t, float64(5), c.TotalInfected())
}
