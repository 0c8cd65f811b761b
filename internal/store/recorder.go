package store

import (
	"context"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/engine"
)

// HistoryRecorder adapts the store to the engine's history sink. Flushed
// step info lands in the history table with keys flattened to
// "processID/STATUS/metric".
type HistoryRecorder struct {
	store *Store
	runID string
	ctx   context.Context
}

// NewHistoryRecorder builds a recorder for one run. ctx bounds the flush
// writes issued from the engine loop.
func NewHistoryRecorder(ctx context.Context, s *Store, runID string) *HistoryRecorder {
	return &HistoryRecorder{store: s, runID: runID, ctx: ctx}
}

// RecordHistory implements engine.Recorder.
func (r *HistoryRecorder) RecordHistory(history map[int]engine.StepInfo) error {
	flat := make(map[int]map[string]float64, len(history))
	for step, stepInfo := range history {
		row := make(map[string]float64)
		for procID, info := range stepInfo {
			for key, value := range info {
				row[procID+"/"+key] = value
			}
		}
		flat[step] = row
	}
	return r.store.AppendHistory(r.ctx, r.runID, flat)
}
