package engine

import (
	"fmt"
	"sort"
)

// Interval is an inclusive step range [Start, End].
type Interval struct {
	Start int
	End   int
}

// ChartMode selects how UpdateStatusChart combines intervals with a
// process's existing timeline.
type ChartMode string

const (
	// ChartAlive marks the steps in the intervals as ALIVE.
	ChartAlive ChartMode = "ALIVE"
	// ChartDormant removes the steps in the intervals from the timeline.
	ChartDormant ChartMode = "DORMANT"
)

// StatusChart maps process IDs to the steps at which they are ALIVE.
//
// The timeline is stored as a sorted list of disjoint inclusive intervals.
// Before each process runs, the engine sets its status to ALIVE when the
// current step falls inside the timeline and DORMANT otherwise; a process's
// condition override still wins after that.
type StatusChart struct {
	timelines map[string][]Interval
}

// NewStatusChart creates an empty chart.
func NewStatusChart() *StatusChart {
	return &StatusChart{timelines: make(map[string][]Interval)}
}

// Set replaces a process's timeline wholesale.
func (c *StatusChart) Set(id string, intervals []Interval) error {
	norm, err := normalize(intervals)
	if err != nil {
		return fmt.Errorf("status chart %s: %w", id, err)
	}
	c.timelines[id] = norm
	return nil
}

// Remove drops a process's timeline (used when a process is pruned).
func (c *StatusChart) Remove(id string) {
	delete(c.timelines, id)
}

// Alive reports whether the process is scheduled ALIVE at the given step.
func (c *StatusChart) Alive(id string, step int) bool {
	for _, iv := range c.timelines[id] {
		if step < iv.Start {
			return false
		}
		if step <= iv.End {
			return true
		}
	}
	return false
}

// Timeline returns a copy of the process's interval list.
func (c *StatusChart) Timeline(id string) []Interval {
	src := c.timelines[id]
	out := make([]Interval, len(src))
	copy(out, src)
	return out
}

// Update merges (ALIVE) or subtracts (DORMANT) the given intervals into the
// process's timeline. The result is re-normalized to sorted disjoint
// intervals.
func (c *StatusChart) Update(id string, intervals []Interval, mode ChartMode) error {
	patch, err := normalize(intervals)
	if err != nil {
		return fmt.Errorf("status chart %s: %w", id, err)
	}

	switch mode {
	case ChartAlive:
		c.timelines[id] = merge(c.timelines[id], patch)
	case ChartDormant:
		c.timelines[id] = subtract(c.timelines[id], patch)
	default:
		return fmt.Errorf("status chart %s: invalid mode %q", id, mode)
	}
	return nil
}

// normalize validates intervals, sorts them, and coalesces overlaps and
// adjacency into disjoint intervals.
func normalize(intervals []Interval) ([]Interval, error) {
	if len(intervals) == 0 {
		return nil, nil
	}
	for _, iv := range intervals {
		if iv.Start < 0 {
			return nil, fmt.Errorf("interval start %d must be non-negative", iv.Start)
		}
		if iv.End < iv.Start {
			return nil, fmt.Errorf("interval [%d,%d] has end before start", iv.Start, iv.End)
		}
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &out[len(out)-1]
		if iv.Start <= last.End+1 {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out, nil
}

// merge unions two normalized interval lists.
func merge(a, b []Interval) []Interval {
	combined := append(append([]Interval{}, a...), b...)
	out, _ := normalize(combined)
	return out
}

// subtract removes the steps of b from a. Both inputs must be normalized.
func subtract(a, b []Interval) []Interval {
	var out []Interval
	for _, iv := range a {
		segments := []Interval{iv}
		for _, cut := range b {
			var next []Interval
			for _, seg := range segments {
				if cut.End < seg.Start || cut.Start > seg.End {
					next = append(next, seg)
					continue
				}
				if cut.Start > seg.Start {
					next = append(next, Interval{Start: seg.Start, End: cut.Start - 1})
				}
				if cut.End < seg.End {
					next = append(next, Interval{Start: cut.End + 1, End: seg.End})
				}
			}
			segments = next
		}
		out = append(out, segments...)
	}
	norm, _ := normalize(out)
	return norm
}
