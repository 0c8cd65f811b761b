package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/process"
)

// FireflyMaxSteps is the default step cap for Firefly runs: twenty years of
// daily steps.
const FireflyMaxSteps = 365 * 20

// DefaultSpeed is the default pacing in steps per minute.
const DefaultSpeed = 6

// DefaultHistoryPersistence is how many steps of info history accumulate
// before being flushed to the recorder.
const DefaultHistoryPersistence = 12

// SyncMode selects when the engine state entity syncs.
type SyncMode string

const (
	// SyncPerRank syncs the state entity at every rank boundary.
	SyncPerRank SyncMode = "RANK"
	// SyncPerStep syncs the state entity once, at the end of each step.
	SyncPerStep SyncMode = "STEP"
)

// StepInfo is the info produced by all processes during one step,
// keyed by process ID.
type StepInfo map[string]process.Info

// Recorder receives flushed step history. Implemented by the store-backed
// recorder in production and by memory sinks in tests.
type Recorder interface {
	RecordHistory(history map[int]StepInfo) error
}

// Engine is the Firefly simulation engine: a single-writer step loop over a
// ranked process schedule.
//
// Thread-safety model:
//   - Run(): must be called from exactly one goroutine
//   - Play/Pause/Stop/SetSpeed/Spawn: safe from any goroutine (command queue)
//   - Status/Speed/Step: safe from any goroutine
type Engine struct {
	name    string
	state   *entity.FireflyState
	procs   []process.Process
	ents    []entity.Syncer
	chart   *StatusChart
	clock   *StepClock
	queue   *commandQueue
	rec     Recorder
	history map[int]StepInfo

	maxSteps    int
	persistence int
	syncMode    SyncMode
	turbo       bool

	mu     sync.RWMutex
	status entity.Status
	speed  int
}

// Option configures engine parameters.
type Option func(*Engine)

// WithMaxSteps overrides the step cap.
func WithMaxSteps(n int) Option {
	return func(e *Engine) { e.maxSteps = n }
}

// WithSpeed sets the initial pacing in steps per minute.
func WithSpeed(n int) Option {
	return func(e *Engine) { e.speed = n }
}

// WithHistoryPersistence sets how many steps accumulate before a history
// flush.
func WithHistoryPersistence(n int) Option {
	return func(e *Engine) { e.persistence = n }
}

// WithSyncMode selects the state entity's sync cadence.
func WithSyncMode(m SyncMode) Option {
	return func(e *Engine) { e.syncMode = m }
}

// WithTurbo disables tick pacing; the loop free-runs. Used by headless
// scoring runs and tests.
func WithTurbo() Option {
	return func(e *Engine) { e.turbo = true }
}

// WithRecorder attaches a history recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.rec = r }
}

// WithClock replaces the step clock. Used by replay to resume mid-run.
func WithClock(c *StepClock) Option {
	return func(e *Engine) { e.clock = c }
}

// New creates an engine over the given state, processes, and entities.
//
// Processes that start ALIVE get a full [0, maxSteps-1] timeline in the
// status chart; DORMANT processes get an empty timeline and only wake when
// the chart is updated or a condition override fires.
func New(
	name string,
	state *entity.FireflyState,
	procs []process.Process,
	ents []entity.Syncer,
	opts ...Option,
) (*Engine, error) {
	if name == "" {
		return nil, fmt.Errorf("engine name must not be empty")
	}
	if state == nil {
		return nil, fmt.Errorf("engine %s: state must not be nil", name)
	}

	e := &Engine{
		name:        name,
		state:       state,
		ents:        ents,
		chart:       NewStatusChart(),
		clock:       NewStepClock(),
		queue:       newCommandQueue(),
		history:     make(map[int]StepInfo),
		maxSteps:    FireflyMaxSteps,
		persistence: DefaultHistoryPersistence,
		syncMode:    SyncPerRank,
		status:      entity.StatusDormant,
		speed:       DefaultSpeed,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.speed < 1 {
		return nil, &RuntimeError{Code: ErrCodeInvalidSpeed, Message: fmt.Sprintf("speed %d must be >= 1", e.speed)}
	}
	if e.maxSteps < 1 {
		return nil, fmt.Errorf("engine %s: max steps %d must be >= 1", name, e.maxSteps)
	}
	if e.persistence < 1 {
		return nil, fmt.Errorf("engine %s: history persistence %d must be >= 1", name, e.persistence)
	}

	for _, p := range procs {
		if err := e.addProcess(p); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// addProcess registers a process and initializes its status chart timeline.
// Not thread-safe; called from New and from the loop goroutine (spawn).
func (e *Engine) addProcess(p process.Process) error {
	for _, existing := range e.procs {
		if existing.ID() == p.ID() {
			return &RuntimeError{
				Code:      ErrCodeDuplicateProcess,
				Message:   "process ID already registered",
				ProcessID: p.ID(),
			}
		}
	}
	e.procs = append(e.procs, p)

	if p.Status() == entity.StatusAlive {
		start := int(e.clock.Current())
		return e.chart.Set(p.ID(), []Interval{{Start: start, End: e.maxSteps - 1}})
	}
	return e.chart.Set(p.ID(), nil)
}

// Name returns the engine name.
func (e *Engine) Name() string { return e.name }

// State returns the engine state entity.
func (e *Engine) State() *entity.FireflyState { return e.state }

// Status returns the engine status. Thread-safe.
func (e *Engine) Status() entity.Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// Speed returns the pacing in steps per minute. Thread-safe.
func (e *Engine) Speed() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.speed
}

// Step returns the next step to execute. Thread-safe.
func (e *Engine) Step() int64 {
	return e.clock.Current()
}

// MaxSteps returns the configured step cap.
func (e *Engine) MaxSteps() int { return e.maxSteps }

func (e *Engine) setStatus(st entity.Status) {
	e.mu.Lock()
	e.status = st
	e.mu.Unlock()
}

// Play resumes stepping. Thread-safe; a no-op after the engine dies.
func (e *Engine) Play() { e.queue.Enqueue(command{typ: cmdPlay}) }

// Pause suspends stepping without losing state. Thread-safe.
func (e *Engine) Pause() { e.queue.Enqueue(command{typ: cmdPause}) }

// Stop terminates the run. The loop flushes history and exits. Thread-safe.
func (e *Engine) Stop() { e.queue.Enqueue(command{typ: cmdStop}) }

// SetSpeed changes pacing. Thread-safe.
func (e *Engine) SetSpeed(speed int) error {
	if speed < 1 {
		return &RuntimeError{Code: ErrCodeInvalidSpeed, Message: fmt.Sprintf("speed %d must be >= 1", speed)}
	}
	e.queue.Enqueue(command{typ: cmdSetSpeed, speed: speed})
	return nil
}

// Spawn injects a process into a running engine (a player intervention).
// Blocks until the loop registers the process; returns the registration
// error, or ErrCodeEngineDead if the loop already exited.
func (e *Engine) Spawn(p process.Process) error {
	done := make(chan error, 1)
	if !e.queue.Enqueue(command{typ: cmdSpawn, proc: p, spawned: done}) {
		return &RuntimeError{Code: ErrCodeEngineDead, Message: "engine stopped", ProcessID: p.ID()}
	}
	return <-done
}

// UpdateStatusChart reschedules a process's ALIVE steps. Not thread-safe
// with respect to a running loop; call before Run or from a spawned
// process's own step.
func (e *Engine) UpdateStatusChart(id string, intervals []Interval, mode ChartMode) error {
	return e.chart.Update(id, intervals, mode)
}

// Chart exposes the status chart for inspection.
func (e *Engine) Chart() *StatusChart { return e.chart }

// Schedule returns the processes sorted by (rank asc, id asc).
func (e *Engine) Schedule() []process.Process {
	sched := make([]process.Process, len(e.procs))
	copy(sched, e.procs)
	sort.Slice(sched, func(i, j int) bool {
		if sched[i].Rank() != sched[j].Rank() {
			return sched[i].Rank() < sched[j].Rank()
		}
		return sched[i].ID() < sched[j].ID()
	})
	return sched
}

// Processes returns the live process list in registration order.
func (e *Engine) Processes() []process.Process {
	out := make([]process.Process, len(e.procs))
	copy(out, e.procs)
	return out
}

// RunStep executes one simulation step.
//
// ERROR HANDLING: a failing process is logged with full context and the step
// continues. Log-and-continue preserves determinism; retries would not.
func (e *Engine) RunStep(step int) error {
	stepInfo := make(StepInfo)
	sched := e.Schedule()

	e.state.Stage(func() { e.state.Epoch = int64(step) })

	i := 0
	for i < len(sched) {
		if i > 0 {
			e.syncBoundary(false)
		}
		rank := sched[i].Rank()
		for ; i < len(sched) && sched[i].Rank() == rank; i++ {
			p := sched[i]
			if p.Status() != entity.StatusDead {
				st := entity.StatusDormant
				if e.chart.Alive(p.ID(), step) {
					st = entity.StatusAlive
				}
				if err := p.SetStatus(st); err != nil {
					return err
				}
			}
			info, err := process.Run(p, step)
			if err != nil {
				slog.Error("process step failed",
					"engine", e.name,
					"process", p.ID(),
					"step", step,
					"error", err,
				)
				continue
			}
			if info != nil {
				stepInfo[p.ID()] = info
			}
		}
	}
	e.syncBoundary(true)

	e.history[step] = stepInfo
	e.prune()

	if (step+1)%e.persistence == 0 {
		e.flushHistory()
	}
	if step+1 >= e.maxSteps {
		slog.Info("engine reached max steps", "engine", e.name, "max_steps", e.maxSteps)
		e.setStatus(entity.StatusDead)
	}
	return nil
}

// syncBoundary applies staged writes on all entities. The state entity
// syncs at every boundary in RANK mode, and only at the end-of-step
// boundary in STEP mode.
func (e *Engine) syncBoundary(endOfStep bool) {
	for _, ent := range e.ents {
		ent.Sync()
	}
	if e.syncMode == SyncPerRank || endOfStep {
		e.state.Sync()
	}
}

// prune removes dead processes and their chart timelines.
func (e *Engine) prune() {
	live := e.procs[:0]
	for _, p := range e.procs {
		if p.Status() == entity.StatusDead {
			e.chart.Remove(p.ID())
			slog.Debug("process pruned", "engine", e.name, "process", p.ID())
			continue
		}
		live = append(live, p)
	}
	e.procs = live
}

// flushHistory hands accumulated info history to the recorder and clears it.
func (e *Engine) flushHistory() {
	if e.rec != nil && len(e.history) > 0 {
		if err := e.rec.RecordHistory(e.history); err != nil {
			slog.Error("history flush failed", "engine", e.name, "error", err)
		}
	}
	e.history = make(map[int]StepInfo)
}

// History returns the unflushed info history. For tests and inspection.
func (e *Engine) History() map[int]StepInfo {
	out := make(map[int]StepInfo, len(e.history))
	for k, v := range e.history {
		out[k] = v
	}
	return out
}

// Run starts the single-writer step loop.
// Blocks until the engine dies (Stop, max steps) or the context is
// cancelled.
//
// CRITICAL: must be called from exactly ONE goroutine. All stepping, entity
// sync, and history flushing happen here.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting", "engine", e.name, "speed", e.Speed(), "turbo", e.turbo)

	interval := func() time.Duration {
		return time.Minute / time.Duration(e.Speed())
	}

	for {
		// Drain control commands first so pause/stop take effect promptly.
		for {
			cmd, ok := e.queue.TryDequeue()
			if !ok {
				break
			}
			e.handleCommand(cmd)
		}

		if e.Status() == entity.StatusDead {
			break
		}

		if e.Status() == entity.StatusDormant {
			select {
			case <-ctx.Done():
				slog.Info("engine stopping: context cancelled", "engine", e.name)
				e.shutdown()
				return ctx.Err()
			case <-e.queue.Wait():
			}
			continue
		}

		// ALIVE: pace unless turbo.
		if !e.turbo {
			select {
			case <-ctx.Done():
				slog.Info("engine stopping: context cancelled", "engine", e.name)
				e.shutdown()
				return ctx.Err()
			case <-e.queue.Wait():
				continue
			case <-time.After(interval()):
			}
		} else {
			select {
			case <-ctx.Done():
				slog.Info("engine stopping: context cancelled", "engine", e.name)
				e.shutdown()
				return ctx.Err()
			default:
			}
		}

		step := int(e.clock.Next())
		if err := e.RunStep(step); err != nil {
			e.shutdown()
			return fmt.Errorf("engine %s: step %d: %w", e.name, step, err)
		}
	}

	slog.Info("engine stopped", "engine", e.name, "steps", e.clock.Current())
	e.shutdown()
	return nil
}

// handleCommand applies one control command. Loop goroutine only.
func (e *Engine) handleCommand(cmd command) {
	switch cmd.typ {
	case cmdPlay:
		if e.Status() != entity.StatusDead {
			e.setStatus(entity.StatusAlive)
			slog.Info("engine playing", "engine", e.name)
		}
	case cmdPause:
		if e.Status() != entity.StatusDead {
			e.setStatus(entity.StatusDormant)
			slog.Info("engine paused", "engine", e.name, "step", e.clock.Current())
		}
	case cmdStop:
		e.setStatus(entity.StatusDead)
		slog.Info("engine stop requested", "engine", e.name, "step", e.clock.Current())
	case cmdSetSpeed:
		e.mu.Lock()
		e.speed = cmd.speed
		e.mu.Unlock()
		slog.Info("engine speed changed", "engine", e.name, "speed", cmd.speed)
	case cmdSpawn:
		err := e.addProcess(cmd.proc)
		if err == nil {
			slog.Info("process spawned",
				"engine", e.name,
				"process", cmd.proc.ID(),
				"rank", cmd.proc.Rank(),
				"status", cmd.proc.Status(),
			)
		}
		if cmd.spawned != nil {
			cmd.spawned <- err
		}
	}
}

// shutdown flushes remaining history and closes the command queue. Commands
// that were enqueued after the loop's final drain are answered here so a
// Spawn racing the loop's exit never blocks on a reply that would never come.
func (e *Engine) shutdown() {
	e.setStatus(entity.StatusDead)
	e.flushHistory()
	e.queue.Close()
	for {
		cmd, ok := e.queue.TryDequeue()
		if !ok {
			break
		}
		if cmd.typ == cmdSpawn && cmd.spawned != nil {
			cmd.spawned <- &RuntimeError{
				Code:      ErrCodeEngineDead,
				Message:   "engine stopped",
				ProcessID: cmd.proc.ID(),
			}
		}
	}
}
