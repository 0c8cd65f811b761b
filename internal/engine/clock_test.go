package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepClock_StartsAtZero(t *testing.T) {
	c := NewStepClock()
	assert.Equal(t, int64(0), c.Current())
}

func TestStepClock_NextReturnsThenAdvances(t *testing.T) {
	c := NewStepClock()
	assert.Equal(t, int64(0), c.Next())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Current())
}

func TestStepClock_ResumeAt(t *testing.T) {
	c := NewStepClockAt(100)
	assert.Equal(t, int64(100), c.Current())
	assert.Equal(t, int64(100), c.Next())
	assert.Equal(t, int64(101), c.Current())
}
