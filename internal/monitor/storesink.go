package monitor

import (
	"context"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/store"
)

// StoreSink lands monitor flushes in the run's history table, under a
// "series/" key prefix so they stay apart from process info.
type StoreSink struct {
	ctx   context.Context
	store *store.Store
	runID string
}

// NewStoreSink builds a sink writing to the given run.
func NewStoreSink(ctx context.Context, s *store.Store, runID string) *StoreSink {
	return &StoreSink{ctx: ctx, store: s, runID: runID}
}

// Write implements Sink.
func (s *StoreSink) Write(step int, values map[string]float64) error {
	prefixed := make(map[string]float64, len(values))
	for k, v := range values {
		prefixed["series/"+k] = v
	}
	return s.store.AppendHistory(s.ctx, s.runID, map[int]map[string]float64{step: prefixed})
}
