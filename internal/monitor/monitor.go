// Package monitor samples named world series during a run. Probes register
// once, and every flush reads them all and hands the values to a sink. The
// sink decides durability: memory for tests, the store for real runs.
package monitor

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/epidemics"
)

// Sink receives one flush of sampled values.
type Sink interface {
	Write(step int, values map[string]float64) error
}

type series struct {
	name  string
	probe func() float64
}

// Monitor holds the registered series. Register and Flush are called from
// the engine goroutine only.
type Monitor struct {
	sink   Sink
	logger *slog.Logger

	series []series
	names  map[string]bool
}

// New builds a monitor writing to sink. A nil logger defaults to slog's.
func New(sink Sink, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{sink: sink, logger: logger, names: make(map[string]bool)}
}

// Register adds a named probe. Names must be unique.
func (m *Monitor) Register(name string, probe func() float64) error {
	if name == "" {
		return fmt.Errorf("monitor: series name must not be empty")
	}
	if probe == nil {
		return fmt.Errorf("monitor: series %s: probe must not be nil", name)
	}
	if m.names[name] {
		return fmt.Errorf("monitor: duplicate series %s", name)
	}
	m.names[name] = true
	m.series = append(m.series, series{name: name, probe: probe})
	return nil
}

// RegisterWorld wires the standard epidemic series: per-country resources
// and per-locus compartments.
func (m *Monitor) RegisterWorld(world epidemics.World) error {
	for _, name := range world.Names() {
		country := world[name]

		c := country
		countrySeries := map[string]func() float64{
			name + "/gdp":        func() float64 { return c.GDP },
			name + "/health":     func() float64 { return c.HealthResourceStockpile },
			name + "/sanitation": func() float64 { return c.SanitationEquipmentStockpile },
			name + "/welfare":    func() float64 { return c.HumanWelfareResource },
		}
		keys := make([]string, 0, len(countrySeries))
		for k := range countrySeries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := m.Register(k, countrySeries[k]); err != nil {
				return err
			}
		}

		for _, locus := range country.Loci {
			l := locus
			prefix := name + "/" + l.Name
			for _, reg := range []struct {
				suffix string
				probe  func() float64
			}{
				{"/susceptible", func() float64 { return l.Susceptible }},
				{"/infected", func() float64 { return l.Infected }},
				{"/recovered", func() float64 { return l.Recovered }},
				{"/dead", func() float64 { return l.Dead }},
			} {
				if err := m.Register(prefix+reg.suffix, reg.probe); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Flush samples every series and writes the batch to the sink.
func (m *Monitor) Flush(step int) error {
	values := make(map[string]float64, len(m.series))
	for _, s := range m.series {
		values[s.name] = s.probe()
	}
	if err := m.sink.Write(step, values); err != nil {
		return fmt.Errorf("monitor: flush step %d: %w", step, err)
	}
	m.logger.Debug("monitor flushed", "step", step, "series", len(values))
	return nil
}

// Len returns the number of registered series.
func (m *Monitor) Len() int { return len(m.series) }

// MemorySink keeps flushes in memory. Test and replay helper.
type MemorySink struct {
	Flushes map[int]map[string]float64
}

// NewMemorySink builds an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{Flushes: make(map[int]map[string]float64)}
}

// Write implements Sink.
func (s *MemorySink) Write(step int, values map[string]float64) error {
	copied := make(map[string]float64, len(values))
	for k, v := range values {
		copied[k] = v
	}
	s.Flushes[step] = copied
	return nil
}
