package epidemics

import (
	"fmt"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/process"
)

// ZoneKind selects which zone slice of a locus a process operates on.
type ZoneKind string

const (
	ZoneEconomic ZoneKind = "economic"
	ZoneTourist  ZoneKind = "tourist"
	ZonePort     ZoneKind = "port"
	ZoneAirport  ZoneKind = "airport"
)

func zonesOf(l *entity.Locus, kind ZoneKind) []*entity.Zone {
	switch kind {
	case ZoneEconomic:
		return l.EconomicZones
	case ZoneTourist:
		return l.TouristZones
	case ZonePort:
		return l.Ports
	case ZoneAirport:
		return l.Airports
	}
	return nil
}

// zoneBoostParams tunes a continuous zone process: the sigmoid window for the
// per-zone infection bump and the GDP payoff per unit of activity.
type zoneBoostParams struct {
	sigLo, sigHi  float64
	maxTier       int
	gdpMultiplier float64
}

// ZoneBoostProcess is the continuous effect of busy infrastructure: every
// step each zone bumps its locus's infection rate (people mixing) and pays
// the country in GDP and supplies. Economic zones, tourist zones, ports, and
// airports are instances with different windows and payoffs.
type ZoneBoostProcess struct {
	process.Base
	world  World
	kind   ZoneKind
	params zoneBoostParams

	stockpileBonus float64
}

func newZoneBoostProcess(id string, status entity.Status, world World, kind ZoneKind, params zoneBoostParams) (*ZoneBoostProcess, error) {
	base, err := process.NewBase(id, status)
	if err != nil {
		return nil, err
	}
	return &ZoneBoostProcess{
		Base:           base,
		world:          world,
		kind:           kind,
		params:         params,
		stockpileBonus: 25,
	}, nil
}

// NewEconomicZoneBoostProcess builds the continuous economic zone process.
func NewEconomicZoneBoostProcess(id string, status entity.Status, world World) (*ZoneBoostProcess, error) {
	return newZoneBoostProcess(id, status, world, ZoneEconomic, zoneBoostParams{
		sigLo: 1e-6, sigHi: 5e-5, maxTier: 4, gdpMultiplier: 1e5,
	})
}

// NewTouristZoneBoostProcess builds the continuous tourist zone process.
func NewTouristZoneBoostProcess(id string, status entity.Status, world World) (*ZoneBoostProcess, error) {
	return newZoneBoostProcess(id, status, world, ZoneTourist, zoneBoostParams{
		sigLo: 1e-5, sigHi: 5e-4, maxTier: 4, gdpMultiplier: 1e5,
	})
}

// NewPortBoostProcess builds the continuous port process.
func NewPortBoostProcess(id string, status entity.Status, world World) (*ZoneBoostProcess, error) {
	return newZoneBoostProcess(id, status, world, ZonePort, zoneBoostParams{
		sigLo: 5e-5, sigHi: 9e-4, maxTier: 4, gdpMultiplier: 1e6,
	})
}

// NewAirportBoostProcess builds the continuous airport process.
func NewAirportBoostProcess(id string, status entity.Status, world World) (*ZoneBoostProcess, error) {
	return newZoneBoostProcess(id, status, world, ZoneAirport, zoneBoostParams{
		sigLo: 5e-4, sigHi: 9e-4, maxTier: 4, gdpMultiplier: 1e6,
	})
}

func (p *ZoneBoostProcess) Rank() int { return RankCore }

func (p *ZoneBoostProcess) WhileAlive(step int) (process.Info, error) {
	var gdpGain float64
	for _, name := range p.world.Names() {
		country := p.world[name]
		var countryGain float64

		for _, locus := range country.Loci {
			zones := zonesOf(locus, p.kind)
			if len(zones) == 0 {
				continue
			}
			var boost float64
			for _, z := range zones {
				zb := TruncatedSigmoid(float64(p.params.maxTier-z.Tier)*z.Effect, p.params.sigLo, p.params.sigHi)
				boost += zb
				countryGain += zb * p.params.gdpMultiplier
			}

			l := locus
			l.Stage(func() {
				if l.InfectionRate+boost < 1 {
					l.InfectionRate += boost
				} else {
					l.InfectionRate -= 0.1 * l.InfectionRate
				}
			})
		}
		if countryGain > 0 {
			c := country
			gain := countryGain
			bonus := p.stockpileBonus
			c.Stage(func() {
				c.GDP += gain
				c.HealthResourceStockpile += bonus
				c.SanitationEquipmentStockpile += bonus
			})
		}
		gdpGain += countryGain
	}
	return process.Info{"gdp_gain": gdpGain}, nil
}

// ZoneTarget names one zone whose effect a player wants to change.
type ZoneTarget struct {
	Country string
	Zone    string
	Effect  float64
}

// ZoneEffectChangeProcess is a one-shot intervention that re-tunes zone
// effects (throttling an airport, closing a tourist zone). It applies its
// targets on the first live step and then kills itself.
type ZoneEffectChangeProcess struct {
	process.Base
	world   World
	kind    ZoneKind
	targets []ZoneTarget
}

// NewZoneEffectChangeProcess builds a one-shot zone effect change for the
// given zone kind.
func NewZoneEffectChangeProcess(id string, status entity.Status, world World, kind ZoneKind, targets []ZoneTarget) (*ZoneEffectChangeProcess, error) {
	base, err := process.NewBase(id, status)
	if err != nil {
		return nil, err
	}
	switch kind {
	case ZoneEconomic, ZoneTourist, ZonePort, ZoneAirport:
	default:
		return nil, fmt.Errorf("zone effect change %s: unknown zone kind %q", id, kind)
	}
	return &ZoneEffectChangeProcess{Base: base, world: world, kind: kind, targets: targets}, nil
}

func (p *ZoneEffectChangeProcess) Rank() int { return RankIntervention }

func (p *ZoneEffectChangeProcess) WhileAlive(step int) (process.Info, error) {
	var applied float64
	for _, t := range p.targets {
		country, ok := p.world[t.Country]
		if !ok {
			continue
		}
		for _, locus := range country.Loci {
			for _, zone := range zonesOf(locus, p.kind) {
				if zone.Name != t.Zone {
					continue
				}
				z := zone
				effect := t.Effect
				locus.Stage(func() {
					z.Effect = effect
				})
				applied++
			}
		}
	}
	if err := p.SetStatus(entity.StatusDead); err != nil {
		return nil, err
	}
	return process.Info{"zones_changed": applied}, nil
}
