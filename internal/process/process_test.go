package process

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/entity"
)

// fakeProcess counts steps and can fail on demand.
type fakeProcess struct {
	Base
	rank       int
	aliveSteps int
	idleSteps  int
	failWith   error
}

func (f *fakeProcess) Rank() int { return f.rank }

func (f *fakeProcess) WhileAlive(step int) (Info, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.aliveSteps++
	return Info{"alive_steps": float64(f.aliveSteps)}, nil
}

func (f *fakeProcess) WhileDormant(step int) (Info, error) {
	f.idleSteps++
	return Info{"idle_steps": float64(f.idleSteps)}, nil
}

// conditionedProcess kills itself once its work is done.
type conditionedProcess struct {
	fakeProcess
	done bool
}

func (c *conditionedProcess) ConditionStatus() (entity.Status, bool) {
	if c.done {
		return entity.StatusDead, true
	}
	return "", false
}

func newFake(t *testing.T, id string, status entity.Status) *fakeProcess {
	t.Helper()
	base, err := NewBase(id, status)
	require.NoError(t, err)
	return &fakeProcess{Base: base}
}

func TestNewBase_Validation(t *testing.T) {
	_, err := NewBase("", entity.StatusAlive)
	assert.Error(t, err)

	_, err = NewBase("p1", entity.Status("ZOMBIE"))
	assert.Error(t, err)

	b, err := NewBase("p1", entity.StatusDormant)
	require.NoError(t, err)
	assert.Equal(t, "p1", b.ID())
	assert.Equal(t, entity.StatusDormant, b.Status())
}

func TestBase_SetStatusRejectsInvalid(t *testing.T) {
	p := newFake(t, "p1", entity.StatusAlive)
	assert.Error(t, p.SetStatus("SLEEPING"))
	assert.Equal(t, entity.StatusAlive, p.Status(), "failed set must not change status")

	require.NoError(t, p.SetStatus(entity.StatusDead))
	assert.Equal(t, entity.StatusDead, p.Status())
}

func TestRun_DispatchesOnStatus(t *testing.T) {
	p := newFake(t, "p1", entity.StatusAlive)

	info, err := Run(p, 0)
	require.NoError(t, err)
	assert.Equal(t, Info{"ALIVE/alive_steps": 1}, info)

	require.NoError(t, p.SetStatus(entity.StatusDormant))
	info, err = Run(p, 1)
	require.NoError(t, err)
	assert.Equal(t, Info{"DORMANT/idle_steps": 1}, info)

	require.NoError(t, p.SetStatus(entity.StatusDead))
	info, err = Run(p, 2)
	require.NoError(t, err)
	assert.Nil(t, info, "dead processes produce no info")
	assert.Equal(t, 1, p.aliveSteps)
}

func TestRun_WrapsProcessErrors(t *testing.T) {
	p := newFake(t, "boom", entity.StatusAlive)
	p.failWith = errors.New("numeric blowup")

	_, err := Run(p, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "process boom")
	assert.Contains(t, err.Error(), "step 7")
}

func TestRun_ConditionOverridesChartStatus(t *testing.T) {
	base, err := NewBase("once", entity.StatusAlive)
	require.NoError(t, err)
	p := &conditionedProcess{fakeProcess: fakeProcess{Base: base}}
	p.done = true

	info, err := Run(p, 0)
	require.NoError(t, err)
	assert.Nil(t, info)
	assert.Equal(t, entity.StatusDead, p.Status(), "condition must override to DEAD")
}

// oneShotProcess does its work in a single step and marks itself dead.
type oneShotProcess struct {
	Base
}

func (o *oneShotProcess) Rank() int { return 0 }

func (o *oneShotProcess) WhileAlive(step int) (Info, error) {
	if err := o.SetStatus(entity.StatusDead); err != nil {
		return nil, err
	}
	return Info{"work_done": 1}, nil
}

func TestRun_OneShotInfoKeepsDispatchStatus(t *testing.T) {
	base, err := NewBase("oneshot", entity.StatusAlive)
	require.NoError(t, err)
	p := &oneShotProcess{Base: base}

	info, err := Run(p, 0)
	require.NoError(t, err)
	assert.Equal(t, Info{"ALIVE/work_done": 1}, info,
		"info from the step a process dies in is still an ALIVE row")
	assert.Equal(t, entity.StatusDead, p.Status())

	info, err = Run(p, 1)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestBaseDefault_WhileDormantIsNoOp(t *testing.T) {
	base, err := NewBase("quiet", entity.StatusDormant)
	require.NoError(t, err)

	info, err := base.WhileDormant(3)
	require.NoError(t, err)
	assert.Nil(t, info)
}
