package epidemics

import (
	"fmt"
	"math"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/process"
)

// Target aims an intervention at one locus of one country. Effect is the
// intervention strength (masks, kits, sanitation) or the unit count
// (facilities, hospitals) depending on the process.
type Target struct {
	Country string
	Locus   string
	Effect  float64
}

func validateTargets(id string, world World, targets []Target) error {
	if len(targets) == 0 {
		return fmt.Errorf("process %s: at least one target required", id)
	}
	for _, t := range targets {
		country, ok := world[t.Country]
		if !ok {
			return fmt.Errorf("process %s: unknown country %q", id, t.Country)
		}
		if country.Locus(t.Locus) == nil {
			return fmt.Errorf("process %s: country %s has no locus %q", id, t.Country, t.Locus)
		}
	}
	return nil
}

// spend stages a stockpile deduction, flooring at zero.
func spend(c *entity.Country, field *float64, cost float64) {
	c.Stage(func() {
		*field = math.Max(0, *field-cost)
	})
}

// MaskMandateProcess lowers the infection rate of targeted loci while the
// mandate holds. Each step it burns health and sanitation supplies in
// proportion to the mandate strength; without supplies the mandate decays
// into a token reduction.
type MaskMandateProcess struct {
	process.Base
	world   World
	targets []Target

	healthCost     float64
	sanitationCost float64
	sigLo, sigHi   float64
}

// NewMaskMandateProcess builds a mask mandate over the given targets.
func NewMaskMandateProcess(id string, status entity.Status, world World, targets []Target) (*MaskMandateProcess, error) {
	base, err := process.NewBase(id, status)
	if err != nil {
		return nil, err
	}
	if err := validateTargets(id, world, targets); err != nil {
		return nil, err
	}
	return &MaskMandateProcess{
		Base:           base,
		world:          world,
		targets:        targets,
		healthCost:     5,
		sanitationCost: 5,
		sigLo:          1e-5,
		sigHi:          5e-4,
	}, nil
}

func (p *MaskMandateProcess) Rank() int { return RankIntervention }

func (p *MaskMandateProcess) WhileAlive(step int) (process.Info, error) {
	var applied float64
	for _, t := range p.targets {
		country := p.world[t.Country]
		locus := country.Locus(t.Locus)

		healthCost := p.healthCost * t.Effect
		sanitationCost := p.sanitationCost * t.Effect
		funded := country.HealthResourceStockpile >= healthCost &&
			country.SanitationEquipmentStockpile >= sanitationCost

		l := locus
		effect := t.Effect
		if funded {
			spend(country, &country.HealthResourceStockpile, healthCost)
			spend(country, &country.SanitationEquipmentStockpile, sanitationCost)

			cut := TruncatedSigmoid(locus.InfectionRate*effect*(locus.Infected+locus.Susceptible)/MaxLivingPopulation, p.sigLo, p.sigHi)
			l.Stage(func() {
				if l.InfectionRate-cut >= 1e-7 {
					l.InfectionRate -= cut
				} else {
					l.InfectionRate -= 0.02 * l.InfectionRate * effect
				}
			})
			applied++
		} else {
			l.Stage(func() {
				l.InfectionRate -= 2e-6 * l.InfectionRate
			})
		}
	}
	return process.Info{"targets_funded": applied}, nil
}

// AidKitDistributionProcess distributes aid kits in targeted loci, cutting
// the infection rate at a steady health resource cost. Unlike masks it has
// no decay path when underfunded; it simply stalls.
type AidKitDistributionProcess struct {
	process.Base
	world   World
	targets []Target

	healthCost   float64
	sigLo, sigHi float64
}

// NewAidKitDistributionProcess builds an aid kit distribution over the given
// targets.
func NewAidKitDistributionProcess(id string, status entity.Status, world World, targets []Target) (*AidKitDistributionProcess, error) {
	base, err := process.NewBase(id, status)
	if err != nil {
		return nil, err
	}
	if err := validateTargets(id, world, targets); err != nil {
		return nil, err
	}
	return &AidKitDistributionProcess{
		Base:       base,
		world:      world,
		targets:    targets,
		healthCost: 100,
		sigLo:      1e-5,
		sigHi:      5e-4,
	}, nil
}

func (p *AidKitDistributionProcess) Rank() int { return RankIntervention }

func (p *AidKitDistributionProcess) WhileAlive(step int) (process.Info, error) {
	var applied float64
	for _, t := range p.targets {
		country := p.world[t.Country]
		locus := country.Locus(t.Locus)

		cost := p.healthCost * t.Effect
		if country.HealthResourceStockpile < cost {
			continue
		}
		spend(country, &country.HealthResourceStockpile, cost)

		cut := TruncatedSigmoid(locus.InfectionRate*t.Effect*(locus.Infected+locus.Susceptible)/MaxLivingPopulation, p.sigLo, p.sigHi)
		l := locus
		l.Stage(func() {
			if l.InfectionRate-cut >= 1e-7 {
				l.InfectionRate -= cut
			}
		})
		applied++
	}
	return process.Info{"targets_funded": applied}, nil
}

// SanitationDriveProcess runs a general sanitation campaign in targeted
// loci. Cost scales with population density, so dense loci are expensive to
// keep clean.
type SanitationDriveProcess struct {
	process.Base
	world   World
	targets []Target

	sanitationCost float64
	sigLo, sigHi   float64
}

// NewSanitationDriveProcess builds a sanitation campaign over the given
// targets.
func NewSanitationDriveProcess(id string, status entity.Status, world World, targets []Target) (*SanitationDriveProcess, error) {
	base, err := process.NewBase(id, status)
	if err != nil {
		return nil, err
	}
	if err := validateTargets(id, world, targets); err != nil {
		return nil, err
	}
	return &SanitationDriveProcess{
		Base:           base,
		world:          world,
		targets:        targets,
		sanitationCost: 200,
		sigLo:          1e-5,
		sigHi:          5e-4,
	}, nil
}

func (p *SanitationDriveProcess) Rank() int { return RankIntervention }

func (p *SanitationDriveProcess) WhileAlive(step int) (process.Info, error) {
	var applied float64
	for _, t := range p.targets {
		country := p.world[t.Country]
		locus := country.Locus(t.Locus)
		if locus.Area <= 0 {
			continue
		}

		density := locus.LivingPopulation() / (locus.Area * MaxLivingPopulation)
		cost := p.sanitationCost * t.Effect * density
		if country.SanitationEquipmentStockpile < cost {
			continue
		}
		spend(country, &country.SanitationEquipmentStockpile, cost)

		cut := TruncatedSigmoid(locus.InfectionRate*t.Effect*locus.LivingPopulation()/MaxLivingPopulation, p.sigLo, p.sigHi)
		l := locus
		l.Stage(func() {
			if l.InfectionRate-cut >= 1e-7 {
				l.InfectionRate -= cut
			}
		})
		applied++
	}
	return process.Info{"targets_funded": applied}, nil
}

// QuarantineRolloutProcess stands up quarantine facilities in targeted loci.
// Each funded step adds facilities (Effect is the facility count) and cuts
// the infection rate with the total facility footprint.
type QuarantineRolloutProcess struct {
	process.Base
	world   World
	targets []Target

	gdpCostPerCenter float64
	healthCost       float64
	sanitationCost   float64
	sigLo, sigHi     float64
}

// NewQuarantineRolloutProcess builds a quarantine rollout over the given
// targets.
func NewQuarantineRolloutProcess(id string, status entity.Status, world World, targets []Target) (*QuarantineRolloutProcess, error) {
	base, err := process.NewBase(id, status)
	if err != nil {
		return nil, err
	}
	if err := validateTargets(id, world, targets); err != nil {
		return nil, err
	}
	for _, t := range targets {
		if t.Effect < 1 || t.Effect != math.Trunc(t.Effect) {
			return nil, fmt.Errorf("process %s: facility count must be a positive integer, got %v", id, t.Effect)
		}
	}
	return &QuarantineRolloutProcess{
		Base:             base,
		world:            world,
		targets:          targets,
		gdpCostPerCenter: 500,
		healthCost:       50,
		sanitationCost:   100,
		sigLo:            1e-6,
		sigHi:            5e-5,
	}, nil
}

func (p *QuarantineRolloutProcess) Rank() int { return RankIntervention }

func (p *QuarantineRolloutProcess) WhileAlive(step int) (process.Info, error) {
	var built float64
	for _, t := range p.targets {
		country := p.world[t.Country]
		locus := country.Locus(t.Locus)
		n := t.Effect

		if country.HealthResourceStockpile < p.healthCost*n ||
			country.SanitationEquipmentStockpile < p.sanitationCost*n ||
			country.GDP < p.gdpCostPerCenter*n {
			continue
		}
		spend(country, &country.HealthResourceStockpile, p.healthCost*n)
		spend(country, &country.SanitationEquipmentStockpile, p.sanitationCost*n)
		spend(country, &country.GDP, p.gdpCostPerCenter*n)

		facilities := float64(locus.QuarantineFacilities) + n
		cut := TruncatedSigmoid(locus.InfectionRate*facilities*(locus.Infected+locus.Susceptible)/MaxLivingPopulation, p.sigLo, p.sigHi)
		l := locus
		count := int(n)
		l.Stage(func() {
			l.QuarantineFacilities += count
			if l.InfectionRate-cut >= 1e-7 {
				l.InfectionRate -= cut
			}
		})
		built += n
	}
	return process.Info{"facilities_built": built}, nil
}

// VaccinationCampaignProcess vaccinates a share of the infected population in
// targeted loci (Effect is the share in [0,1]), pushing the recovery rate up.
// An underfunded campaign erodes public trust and the rate slips back.
type VaccinationCampaignProcess struct {
	process.Base
	world   World
	targets []Target

	healthCostPerInfected float64
	recoveryRateCeil      float64
	sigLo, sigHi          float64
}

// NewVaccinationCampaignProcess builds a vaccination campaign over the given
// targets.
func NewVaccinationCampaignProcess(id string, status entity.Status, world World, targets []Target) (*VaccinationCampaignProcess, error) {
	base, err := process.NewBase(id, status)
	if err != nil {
		return nil, err
	}
	if err := validateTargets(id, world, targets); err != nil {
		return nil, err
	}
	for _, t := range targets {
		if t.Effect < 0 || t.Effect > 1 {
			return nil, fmt.Errorf("process %s: vaccinated share %v outside [0,1]", id, t.Effect)
		}
	}
	return &VaccinationCampaignProcess{
		Base:                  base,
		world:                 world,
		targets:               targets,
		healthCostPerInfected: 0.005,
		recoveryRateCeil:      0.8,
		sigLo:                 1e-5,
		sigHi:                 5e-4,
	}, nil
}

func (p *VaccinationCampaignProcess) Rank() int { return RankIntervention }

func (p *VaccinationCampaignProcess) WhileAlive(step int) (process.Info, error) {
	var applied float64
	for _, t := range p.targets {
		country := p.world[t.Country]
		locus := country.Locus(t.Locus)

		cost := p.healthCostPerInfected * locus.Infected * t.Effect
		l := locus
		if country.HealthResourceStockpile >= cost {
			spend(country, &country.HealthResourceStockpile, cost)

			boost := TruncatedSigmoid(locus.RecoveryRate*t.Effect, p.sigLo, p.sigHi)
			ceil := p.recoveryRateCeil
			l.Stage(func() {
				if l.RecoveryRate+boost < 1 {
					l.RecoveryRate += boost
				} else {
					l.RecoveryRate = ceil
				}
			})
			applied++
		} else {
			l.Stage(func() {
				l.RecoveryRate -= 0.02 * l.RecoveryRate
			})
		}
	}
	return process.Info{"targets_funded": applied}, nil
}

// HospitalBuildProcess is a one-shot construction order: it builds general
// hospitals in targeted loci (Effect is the hospital count) on its first
// live step and then kills itself. Loci without an established recovered
// population cannot staff a hospital and lose a sliver of recovery rate to
// the wasted effort.
type HospitalBuildProcess struct {
	process.Base
	world   World
	targets []Target

	costPerHospital float64
	minRecovered    float64
}

// NewHospitalBuildProcess builds a hospital construction order over the
// given targets.
func NewHospitalBuildProcess(id string, status entity.Status, world World, targets []Target) (*HospitalBuildProcess, error) {
	base, err := process.NewBase(id, status)
	if err != nil {
		return nil, err
	}
	if err := validateTargets(id, world, targets); err != nil {
		return nil, err
	}
	for _, t := range targets {
		if t.Effect < 1 || t.Effect != math.Trunc(t.Effect) {
			return nil, fmt.Errorf("process %s: hospital count must be a positive integer, got %v", id, t.Effect)
		}
	}
	return &HospitalBuildProcess{
		Base:            base,
		world:           world,
		targets:         targets,
		costPerHospital: 10000,
		minRecovered:    50,
	}, nil
}

func (p *HospitalBuildProcess) Rank() int { return RankIntervention }

func (p *HospitalBuildProcess) WhileAlive(step int) (process.Info, error) {
	var built float64
	for _, t := range p.targets {
		country := p.world[t.Country]
		locus := country.Locus(t.Locus)
		n := t.Effect

		l := locus
		if country.HealthResourceStockpile >= p.costPerHospital*n && locus.Recovered >= p.minRecovered {
			spend(country, &country.HealthResourceStockpile, p.costPerHospital*n)
			count := int(n)
			l.Stage(func() {
				l.GeneralHospitals += count
			})
			built += n
		} else {
			l.Stage(func() {
				l.RecoveryRate -= 0.0002 * l.RecoveryRate
			})
		}
	}
	if err := p.SetStatus(entity.StatusDead); err != nil {
		return nil, err
	}
	return process.Info{"hospitals_built": built}, nil
}
