package epidemics

import (
	"fmt"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/process"
)

// CoreProcesses builds the always-on process set of the epidemic scenario.
// These run from step 0 for the life of the engine; player interventions are
// spawned on top of them mid-run.
//
// The short IDs are stable and appear in step info keys and history rows.
func CoreProcesses(world World) ([]process.Process, error) {
	type builder func(id string, status entity.Status, world World) (process.Process, error)

	builders := []struct {
		id    string
		build builder
	}{
		{"birth", func(id string, st entity.Status, w World) (process.Process, error) {
			return NewBirthProcess(id, st, w)
		}},
		{"ecosp", func(id string, st entity.Status, w World) (process.Process, error) {
			return NewEconomicZoneBoostProcess(id, st, w)
		}},
		{"touri", func(id string, st entity.Status, w World) (process.Process, error) {
			return NewTouristZoneBoostProcess(id, st, w)
		}},
		{"airpo", func(id string, st entity.Status, w World) (process.Process, error) {
			return NewAirportBoostProcess(id, st, w)
		}},
		{"portp", func(id string, st entity.Status, w World) (process.Process, error) {
			return NewPortBoostProcess(id, st, w)
		}},
		{"incds", NewIncreaseSusceptibleDeathProcess},
		{"incdi", NewIncreaseInfectedDeathProcess},
		{"incdr", NewIncreaseRecoveredDeathProcess},
		{"inc_e", NewIncreaseReentryProcess},
		{"ghocp", func(id string, st entity.Status, w World) (process.Process, error) {
			return NewGeneralHospitalUpkeepProcess(id, st, w)
		}},
		{"trick", func(id string, st entity.Status, w World) (process.Process, error) {
			return NewResourceTrickleProcess(id, st, w)
		}},
		{"airtr", func(id string, st entity.Status, w World) (process.Process, error) {
			return NewAirTravelProcess(id, st, w)
		}},
		{"seatr", func(id string, st entity.Status, w World) (process.Process, error) {
			return NewSeaTravelProcess(id, st, w)
		}},
		{"dissp", func(id string, st entity.Status, w World) (process.Process, error) {
			return NewDiseaseSpreadProcess(id, st, w)
		}},
	}

	procs := make([]process.Process, 0, len(builders))
	for _, b := range builders {
		p, err := b.build(b.id, entity.StatusAlive, world)
		if err != nil {
			return nil, fmt.Errorf("core process %s: %w", b.id, err)
		}
		procs = append(procs, p)
	}
	return procs, nil
}
