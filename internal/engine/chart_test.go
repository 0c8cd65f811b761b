package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_SortsAndCoalesces(t *testing.T) {
	out, err := normalize([]Interval{{10, 12}, {0, 3}, {4, 6}, {11, 20}})
	require.NoError(t, err)
	// [0,3] and [4,6] are adjacent, [10,12] and [11,20] overlap.
	assert.Equal(t, []Interval{{0, 6}, {10, 20}}, out)
}

func TestNormalize_RejectsBadIntervals(t *testing.T) {
	_, err := normalize([]Interval{{-1, 5}})
	assert.Error(t, err)

	_, err = normalize([]Interval{{7, 3}})
	assert.Error(t, err)
}

func TestStatusChart_Alive(t *testing.T) {
	c := NewStatusChart()
	require.NoError(t, c.Set("p1", []Interval{{0, 5}, {10, 15}}))

	assert.True(t, c.Alive("p1", 0))
	assert.True(t, c.Alive("p1", 5))
	assert.False(t, c.Alive("p1", 6))
	assert.True(t, c.Alive("p1", 12))
	assert.False(t, c.Alive("p1", 16))
	assert.False(t, c.Alive("unknown", 0), "unknown process has empty timeline")
}

func TestStatusChart_UpdateAliveMerges(t *testing.T) {
	c := NewStatusChart()
	require.NoError(t, c.Set("p1", []Interval{{0, 5}}))
	require.NoError(t, c.Update("p1", []Interval{{6, 10}}, ChartAlive))

	assert.Equal(t, []Interval{{0, 10}}, c.Timeline("p1"))
}

func TestStatusChart_UpdateDormantSubtracts(t *testing.T) {
	c := NewStatusChart()
	require.NoError(t, c.Set("p1", []Interval{{0, 20}}))
	require.NoError(t, c.Update("p1", []Interval{{5, 10}}, ChartDormant))

	assert.Equal(t, []Interval{{0, 4}, {11, 20}}, c.Timeline("p1"))
	assert.False(t, c.Alive("p1", 7))
	assert.True(t, c.Alive("p1", 11))
}

func TestStatusChart_SubtractEdges(t *testing.T) {
	c := NewStatusChart()
	require.NoError(t, c.Set("p1", []Interval{{5, 10}}))

	// Cut covering the whole timeline empties it.
	require.NoError(t, c.Update("p1", []Interval{{0, 50}}, ChartDormant))
	assert.Empty(t, c.Timeline("p1"))

	// Subtracting from an empty timeline stays empty.
	require.NoError(t, c.Update("p1", []Interval{{1, 2}}, ChartDormant))
	assert.Empty(t, c.Timeline("p1"))
}

func TestStatusChart_UpdateRejectsInvalidMode(t *testing.T) {
	c := NewStatusChart()
	err := c.Update("p1", []Interval{{0, 1}}, ChartMode("SNOOZE"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}

func TestStatusChart_Remove(t *testing.T) {
	c := NewStatusChart()
	require.NoError(t, c.Set("p1", []Interval{{0, 5}}))
	c.Remove("p1")
	assert.False(t, c.Alive("p1", 0))
}
