package epidemics

import (
	"math"
	"sort"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/process"
)

// hubSite locates a travel hub in the world.
type hubSite struct {
	country *entity.Country
	locus   *entity.Locus
	effect  float64
}

// TravelSpreadProcess carries infection between loci over the global travel
// graph. A hub whose locus is an active outbreak site (infected share above
// EpidemicInfectedShare) pushes the infection rate of every connected hub's
// locus up, scaled by both hubs' zone effects. Throttling a zone's effect to
// zero severs the route.
//
// Air and sea instances share the mechanics but use separate adjacency
// tables and sigmoid windows.
type TravelSpreadProcess struct {
	process.Base
	world World
	kind  ZoneKind

	index     map[string]Hub
	adjacency map[int][]int
	sigLo     float64
	sigHi     float64

	sites map[int]hubSite
}

// NewAirTravelProcess builds the airborne travel spread process.
func NewAirTravelProcess(id string, status entity.Status, world World) (*TravelSpreadProcess, error) {
	return newTravelSpreadProcess(id, status, world, ZoneAirport, AirportIndex, AirportAdjacency, 1e-5, 5e-4)
}

// NewSeaTravelProcess builds the maritime travel spread process.
func NewSeaTravelProcess(id string, status entity.Status, world World) (*TravelSpreadProcess, error) {
	return newTravelSpreadProcess(id, status, world, ZonePort, PortIndex, PortAdjacency, 1e-6, 5e-5)
}

func newTravelSpreadProcess(id string, status entity.Status, world World, kind ZoneKind, index map[string]Hub, adjacency map[int][]int, sigLo, sigHi float64) (*TravelSpreadProcess, error) {
	base, err := process.NewBase(id, status)
	if err != nil {
		return nil, err
	}
	p := &TravelSpreadProcess{
		Base:      base,
		world:     world,
		kind:      kind,
		index:     index,
		adjacency: adjacency,
		sigLo:     sigLo,
		sigHi:     sigHi,
	}
	p.reindex()
	return p, nil
}

// reindex maps hub IDs to their hosting loci. Hub placement is fixed for a
// run; zone effects are read live at each step.
func (p *TravelSpreadProcess) reindex() {
	p.sites = make(map[int]hubSite)
	for _, name := range p.world.Names() {
		country := p.world[name]
		for _, locus := range country.Loci {
			for _, zone := range zonesOf(locus, p.kind) {
				hub, ok := p.index[zone.Name]
				if !ok {
					continue
				}
				p.sites[hub.ID] = hubSite{country: country, locus: locus, effect: zone.Effect}
			}
		}
	}
}

func (p *TravelSpreadProcess) Rank() int { return RankTravel }

func (p *TravelSpreadProcess) WhileAlive(step int) (process.Info, error) {
	ids := make([]int, 0, len(p.sites))
	for id := range p.sites {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	// Accumulate per-locus bumps first so multiple inbound routes compose.
	bumps := make(map[*entity.Locus]float64)
	var routes float64
	for _, id := range ids {
		dst := p.sites[id]
		dstEffect := p.liveEffect(dst.locus, id)
		if dstEffect <= 0 {
			continue
		}
		for _, srcID := range p.adjacency[id] {
			if srcID == id {
				continue
			}
			src, ok := p.sites[srcID]
			if !ok {
				continue
			}
			living := src.locus.LivingPopulation()
			if living <= 0 {
				continue
			}
			share := src.locus.Infected / living
			if share <= EpidemicInfectedShare {
				continue
			}
			srcEffect := p.liveEffect(src.locus, srcID)
			if srcEffect <= 0 {
				continue
			}
			bumps[dst.locus] += TruncatedSigmoid(share*srcEffect*dstEffect, p.sigLo, p.sigHi)
			routes++
		}
	}

	for locus, bump := range bumps {
		l := locus
		delta := bump
		l.Stage(func() {
			// Inbound outbreak pressure lifts the rate at least to the
			// epidemic floor, never past 1.
			l.InfectionRate = math.Min(math.Max(l.InfectionRate+delta, EpidemicInfectionRate), 1)
		})
	}
	return process.Info{"active_routes": routes}, nil
}

// liveEffect reads the current effect of the zone hosting hub id on the
// locus, so effect changes applied mid-run take hold.
func (p *TravelSpreadProcess) liveEffect(l *entity.Locus, id int) float64 {
	for _, zone := range zonesOf(l, p.kind) {
		hub, ok := p.index[zone.Name]
		if ok && hub.ID == id {
			return zone.Effect
		}
	}
	return 0
}
