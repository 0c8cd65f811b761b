package epidemics

import (
	"math"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/process"
)

// BirthProcess drives each locus's birth rate from the country's economic
// prosperity and the weighted living population. Prosperous countries push
// the rate towards maxBirthRate through a squashed curve; poor countries fall
// back to the base rate.
type BirthProcess struct {
	process.Base
	world World

	alpha               float64
	beta                float64
	gamma               float64
	maxBirthRate        float64
	prosperityThreshold float64
}

// NewBirthProcess builds the birth process with the standard weights.
func NewBirthProcess(id string, status entity.Status, world World) (*BirthProcess, error) {
	base, err := process.NewBase(id, status)
	if err != nil {
		return nil, err
	}
	return &BirthProcess{
		Base:                base,
		world:               world,
		alpha:               0.5,
		beta:                0.3,
		gamma:               0.2,
		maxBirthRate:        0.15,
		prosperityThreshold: 0.5,
	}, nil
}

func (p *BirthProcess) Rank() int { return RankCore }

func (p *BirthProcess) WhileAlive(step int) (process.Info, error) {
	var updated float64
	for _, name := range p.world.Names() {
		country := p.world[name]
		prosperity := country.HumanWelfareResource

		for _, locus := range country.Loci {
			weighted := p.alpha*locus.Susceptible + p.beta*locus.Recovered + p.gamma*locus.Infected

			var birth float64
			switch {
			case prosperity >= p.prosperityThreshold:
				use := weighted / MaxLivingPopulation * (1 - MinHumanWelfareResource/prosperity)
				birth = (2/(1+math.Exp(-use)) - 1) * p.maxBirthRate
			case prosperity > BaseBirthRate:
				birth = weighted * prosperity / MaxLivingPopulation
			default:
				birth = BaseBirthRate
			}

			l := locus
			l.Stage(func() {
				l.BirthRate = math.Min(l.BirthRate+birth, p.maxBirthRate)
			})
			updated++
		}
	}
	return process.Info{"loci_updated": updated}, nil
}

// driftSpec parameterizes one compartment-driven death/reentry rate drift.
type driftSpec struct {
	share func(l *entity.Locus) float64
	input func(c *entity.Country) float64
	lo    float64
	hi    float64
	cap   float64
	get   func(l *entity.Locus) float64
	add   func(l *entity.Locus, scale, cap float64)
}

// driftProcess nudges one rate per locus towards its cap, scaled by the
// occupancy of the driving compartment and the country's economic state.
// IncreaseDs/Di/Dr/E are all instances of this shape.
type driftProcess struct {
	process.Base
	world World
	spec  driftSpec
}

func newDriftProcess(id string, status entity.Status, world World, spec driftSpec) (*driftProcess, error) {
	base, err := process.NewBase(id, status)
	if err != nil {
		return nil, err
	}
	return &driftProcess{Base: base, world: world, spec: spec}, nil
}

func (p *driftProcess) Rank() int { return RankCore }

func (p *driftProcess) WhileAlive(step int) (process.Info, error) {
	var updated float64
	for _, name := range p.world.Names() {
		country := p.world[name]
		input := p.spec.input(country)

		for _, locus := range country.Loci {
			living := locus.LivingPopulation()
			if living <= 0 {
				continue
			}
			share := p.spec.share(locus)
			if share <= 0 || p.spec.get(locus) >= p.spec.cap {
				continue
			}
			scale := rescale(input*share, p.spec.lo, p.spec.hi)
			p.spec.add(locus, scale, p.spec.cap)
			updated++
		}
	}
	return process.Info{"loci_updated": updated}, nil
}

// gdpHeadroom weighs drift by how far a country's GDP sits above the
// subsistence floor. At or below the floor the weight is zero; without the
// clamp a broke country would feed Inf or negative inputs into the drift
// and stage rates outside [0,1].
func gdpHeadroom(c *entity.Country) float64 {
	if c.GDP <= MinGDP {
		return 0
	}
	return 1 - MinGDP/c.GDP
}

// NewIncreaseSusceptibleDeathProcess drifts Ds up with the susceptible share,
// weighted by GDP headroom, happiness, and welfare. Capped at 0.2.
func NewIncreaseSusceptibleDeathProcess(id string, status entity.Status, world World) (process.Process, error) {
	return newDriftProcess(id, status, world, driftSpec{
		share: func(l *entity.Locus) float64 { return l.Susceptible / l.LivingPopulation() },
		input: func(c *entity.Country) float64 {
			return BaseDeathRate * gdpHeadroom(c) * c.HappinessIndex * c.HumanWelfareResource
		},
		lo:  5e-5,
		hi:  5e-3,
		cap: 0.2,
		get: func(l *entity.Locus) float64 { return l.SusceptibleDeathRate },
		add: func(l *entity.Locus, scale, cap float64) {
			l.Stage(func() {
				l.SusceptibleDeathRate = math.Min(l.SusceptibleDeathRate+scale, cap)
			})
		},
	})
}

// NewIncreaseInfectedDeathProcess drifts Di up with the infected share,
// weighted by lethality and GDP headroom. Capped at 0.3.
func NewIncreaseInfectedDeathProcess(id string, status entity.Status, world World) (process.Process, error) {
	return newDriftProcess(id, status, world, driftSpec{
		share: func(l *entity.Locus) float64 { return l.Infected / l.LivingPopulation() },
		input: func(c *entity.Country) float64 {
			return BaseInfectionLethality * BaseDeathRate * gdpHeadroom(c)
		},
		lo:  5e-4,
		hi:  5e-3,
		cap: 0.3,
		get: func(l *entity.Locus) float64 { return l.InfectedDeathRate },
		add: func(l *entity.Locus, scale, cap float64) {
			l.Stage(func() {
				l.InfectedDeathRate = math.Min(l.InfectedDeathRate+scale, cap)
			})
		},
	})
}

// NewIncreaseRecoveredDeathProcess drifts Dr up with the recovered share.
// Capped at 0.15.
func NewIncreaseRecoveredDeathProcess(id string, status entity.Status, world World) (process.Process, error) {
	return newDriftProcess(id, status, world, driftSpec{
		share: func(l *entity.Locus) float64 { return l.Recovered / l.LivingPopulation() },
		input: func(c *entity.Country) float64 {
			return BaseDeathRate * gdpHeadroom(c)
		},
		lo:  5e-6,
		hi:  5e-4,
		cap: 0.15,
		get: func(l *entity.Locus) float64 { return l.RecoveredDeathRate },
		add: func(l *entity.Locus, scale, cap float64) {
			l.Stage(func() {
				l.RecoveredDeathRate = math.Min(l.RecoveredDeathRate+scale, cap)
			})
		},
	})
}

// NewIncreaseReentryProcess drifts E up with the recovered share, weighted by
// GDP headroom, happiness, and welfare. Capped at 0.1.
func NewIncreaseReentryProcess(id string, status entity.Status, world World) (process.Process, error) {
	return newDriftProcess(id, status, world, driftSpec{
		share: func(l *entity.Locus) float64 { return l.Recovered / l.LivingPopulation() },
		input: func(c *entity.Country) float64 {
			return BaseReentryRate * gdpHeadroom(c) * c.HappinessIndex * c.HumanWelfareResource
		},
		lo:  5e-5,
		hi:  5e-3,
		cap: 0.1,
		get: func(l *entity.Locus) float64 { return l.ReentryRate },
		add: func(l *entity.Locus, scale, cap float64) {
			l.Stage(func() {
				l.ReentryRate = math.Min(l.ReentryRate+scale, cap)
			})
		},
	})
}

// DiseaseSpreadProcess applies the compartment flows for one step. It runs at
// the highest rank, after every rate-adjusting process has synced, and stages
// the final compartment values computed from the sequential flow order:
// infection, births, susceptible deaths, recoveries, infected deaths,
// recovered deaths, reentry.
type DiseaseSpreadProcess struct {
	process.Base
	world World
}

// NewDiseaseSpreadProcess builds the compartment flow process.
func NewDiseaseSpreadProcess(id string, status entity.Status, world World) (*DiseaseSpreadProcess, error) {
	base, err := process.NewBase(id, status)
	if err != nil {
		return nil, err
	}
	return &DiseaseSpreadProcess{Base: base, world: world}, nil
}

func (p *DiseaseSpreadProcess) Rank() int { return RankSpread }

func (p *DiseaseSpreadProcess) WhileAlive(step int) (process.Info, error) {
	var infected, dead float64
	for _, name := range p.world.Names() {
		for _, locus := range p.world[name].Loci {
			s, i, r, d := locus.Susceptible, locus.Infected, locus.Recovered, locus.Dead

			s, i = flow(s, i, locus.InfectionRate)
			s += s * locus.BirthRate
			s, d = flow(s, d, locus.SusceptibleDeathRate)
			i, r = flow(i, r, locus.RecoveryRate)
			i, d = flow(i, d, locus.InfectedDeathRate)
			r, d = flow(r, d, locus.RecoveredDeathRate)
			r, s = flow(r, s, locus.ReentryRate)

			l := locus
			l.Stage(func() {
				l.Susceptible = s
				l.Infected = i
				l.Recovered = r
				l.Dead = d
			})
			infected += i
			dead += d
		}
	}
	return process.Info{"total_infected": infected, "total_dead": dead}, nil
}

// flow moves rate*from people from one compartment to another, never driving
// the source negative.
func flow(from, to, rate float64) (newFrom, newTo float64) {
	moved := from * rate
	if moved >= from {
		return 0, to + from
	}
	return from - moved, to + moved
}

// GeneralHospitalUpkeepProcess models running hospitals: loci with an
// established recovered population draw on the national health stockpile and
// push the recovery rate up with the number of general hospitals.
type GeneralHospitalUpkeepProcess struct {
	process.Base
	world World

	upkeepCost       float64
	minRecovered     float64
	sigLo, sigHi     float64
	recoveryRateCeil float64
}

// NewGeneralHospitalUpkeepProcess builds the hospital upkeep process.
func NewGeneralHospitalUpkeepProcess(id string, status entity.Status, world World) (*GeneralHospitalUpkeepProcess, error) {
	base, err := process.NewBase(id, status)
	if err != nil {
		return nil, err
	}
	return &GeneralHospitalUpkeepProcess{
		Base:             base,
		world:            world,
		upkeepCost:       10000,
		minRecovered:     50,
		sigLo:            1e-4,
		sigHi:            5e-4,
		recoveryRateCeil: 0.8,
	}, nil
}

func (p *GeneralHospitalUpkeepProcess) Rank() int { return RankCore }

func (p *GeneralHospitalUpkeepProcess) WhileAlive(step int) (process.Info, error) {
	var upkeep float64
	for _, name := range p.world.Names() {
		country := p.world[name]
		for _, locus := range country.Loci {
			if locus.Recovered < p.minRecovered {
				continue
			}
			c := country
			c.Stage(func() {
				c.HealthResourceStockpile = math.Max(0, c.HealthResourceStockpile-p.upkeepCost)
			})
			upkeep += p.upkeepCost

			boost := TruncatedSigmoid(locus.RecoveryRate*float64(locus.GeneralHospitals)*0.03, p.sigLo, p.sigHi)
			l := locus
			ceil := p.recoveryRateCeil
			l.Stage(func() {
				if l.RecoveryRate+boost < 1 {
					l.RecoveryRate += boost
				} else {
					l.RecoveryRate = ceil
				}
			})
		}
	}
	return process.Info{"upkeep_spent": upkeep}, nil
}

// ResourceTrickleProcess credits each country's renewable resources every
// step. The credit is a deterministic function of the happiness index, so
// identical runs replay identically.
type ResourceTrickleProcess struct {
	process.Base
	world World
}

// NewResourceTrickleProcess builds the trickle process.
func NewResourceTrickleProcess(id string, status entity.Status, world World) (*ResourceTrickleProcess, error) {
	base, err := process.NewBase(id, status)
	if err != nil {
		return nil, err
	}
	return &ResourceTrickleProcess{Base: base, world: world}, nil
}

func (p *ResourceTrickleProcess) Rank() int { return RankCore }

func (p *ResourceTrickleProcess) WhileAlive(step int) (process.Info, error) {
	var gdpCredited float64
	for _, name := range p.world.Names() {
		country := p.world[name]
		gdp := GDPTrickleMin + (GDPTrickleMax-GDPTrickleMin)*country.HappinessIndex
		welfare := HumanWelfareTrickleMin + (HumanWelfareTrickleMax-HumanWelfareTrickleMin)*country.HappinessIndex

		c := country
		c.Stage(func() {
			c.GDP += gdp
			c.HumanWelfareResource += welfare
			c.HealthResourceStockpile += HealthResourceTrickle
			c.SanitationEquipmentStockpile += SanitationTrickle
			for _, v := range c.Vaccines {
				v.Doses += VaccineTrickle
			}
		})
		gdpCredited += gdp
	}
	return process.Info{"gdp_credited": gdpCredited}, nil
}
