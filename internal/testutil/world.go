// Package testutil holds cross-package test fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// smallWorldYAML is a single small country, sized so short runs finish fast
// and the arithmetic stays hand-checkable.
const smallWorldYAML = `name: Testland
gdp: 50000

health_resource_stockpile: 5000
sanitation_equipment_stockpile: 4000
human_welfare_resource: 800

happiness_index: 0.6
procedure_resistance: 0.3
cleanliness_index: 0.7

disease_research_centers: 2
vaccine_research_centers: 1

loci:
  - name: Alpha
    lat: 10.0
    lon: 20.0
    area: 50.0

    susceptible: 90000
    infected: 1000
    recovered: 0
    dead: 0

    birth_rate: 0.003
    infection_rate: 0.006
    recovery_rate: 0.002
    reentry_rate: 0.001
    susceptible_death_rate: 0.001
    infected_death_rate: 0.004
    recovered_death_rate: 0.001

    quarantine_facilities: 2
    general_hospitals: 3
    vaccine_distribution_centers: 1

    economic_zones:
      - name: Alpha Trade Zone
        tier: 2
        effect: 0.6
    tourist_zones:
      - name: Alpha Coast
        tier: 3
        effect: 0.5
`

// WriteWorldConfig writes the standard one-country test world into a fresh
// directory and returns its path.
func WriteWorldConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "testland.yaml"), []byte(smallWorldYAML), 0o644)
	require.NoError(t, err)
	return dir
}
