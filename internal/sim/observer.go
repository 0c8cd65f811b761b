package sim

import (
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/epidemics"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/monitor"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/process"
)

// RankObserve places the observer after every simulation rank, so it reads
// the fully synced end-of-step world.
const RankObserve = 8

// SnapshotFunc persists the world at one step.
type SnapshotFunc func(step int) error

// observerProcess samples the world every step for scoring and flushes the
// monitor and snapshots on the configured interval. It never stages writes.
type observerProcess struct {
	process.Base
	world    epidemics.World
	metrics  *Metrics
	mon      *monitor.Monitor
	snapshot SnapshotFunc

	interval    int
	lastStep    int
	initialDead float64
}

func newObserverProcess(id string, world epidemics.World, metrics *Metrics, mon *monitor.Monitor, snapshot SnapshotFunc, interval, lastStep int) (*observerProcess, error) {
	base, err := process.NewBase(id, entity.StatusAlive)
	if err != nil {
		return nil, err
	}
	return &observerProcess{
		Base:        base,
		world:       world,
		metrics:     metrics,
		mon:         mon,
		snapshot:    snapshot,
		interval:    interval,
		lastStep:    lastStep,
		initialDead: world.TotalDead(),
	}, nil
}

func (p *observerProcess) Rank() int { return RankObserve }

func (p *observerProcess) WhileAlive(step int) (process.Info, error) {
	living := p.world.TotalLiving()
	infected := p.world.TotalInfected()
	dead := p.world.TotalDead()

	var share float64
	if living > 0 {
		share = infected / living
	}
	p.metrics.observe(share)
	p.metrics.DeadPopulation = dead - p.initialDead

	if step%p.interval == 0 || step == p.lastStep {
		if p.snapshot != nil {
			if err := p.snapshot(step); err != nil {
				return nil, err
			}
		}
		if p.mon != nil {
			if err := p.mon.Flush(step); err != nil {
				return nil, err
			}
		}
	}

	return process.Info{
		"total_living":   living,
		"total_infected": infected,
		"total_dead":     dead,
		"infected_share": share,
	}, nil
}
