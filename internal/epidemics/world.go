package epidemics

import (
	"sort"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
)

// World is the set of countries a process operates on, keyed by country name.
// Processes iterate it in sorted name order only.
type World map[string]*entity.Country

// Names returns the country names in sorted order.
func (w World) Names() []string {
	names := make([]string, 0, len(w))
	for name := range w {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Countries returns the countries in sorted name order.
func (w World) Countries() []*entity.Country {
	out := make([]*entity.Country, 0, len(w))
	for _, name := range w.Names() {
		out = append(out, w[name])
	}
	return out
}

// Syncers adapts the world for engine registration, sorted by name.
func (w World) Syncers() []entity.Syncer {
	out := make([]entity.Syncer, 0, len(w))
	for _, name := range w.Names() {
		out = append(out, w[name])
	}
	return out
}

// TotalLiving sums the living population over all countries.
func (w World) TotalLiving() float64 {
	var total float64
	for _, c := range w {
		total += c.TotalLiving()
	}
	return total
}

// TotalInfected sums the infected population over all countries.
func (w World) TotalInfected() float64 {
	var total float64
	for _, c := range w {
		total += c.TotalInfected()
	}
	return total
}

// TotalDead sums the dead population over all countries.
func (w World) TotalDead() float64 {
	var total float64
	for _, c := range w {
		total += c.TotalDead()
	}
	return total
}
