package watcher

import (
	"context"
	"log/slog"
)

// RunFunc performs one complete run in response to a batch.
type RunFunc func(ctx context.Context, batch Batch) error

// Loop consumes batches and calls run for each, one at a time. Batches that
// arrive while a run is in progress are merged into a single follow-up run.
// A failing run is logged and the loop keeps going. Loop returns when ctx is
// cancelled or events is closed.
func Loop(ctx context.Context, events <-chan Batch, run RunFunc, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	for {
		var batch Batch
		select {
		case <-ctx.Done():
			return
		case b, ok := <-events:
			if !ok {
				return
			}
			batch = b
		}

		batch, open := drain(events, batch)

		logger.Info("Change detected, starting run",
			"changed", len(batch.Changed),
			"removed", len(batch.Removed))
		if err := run(ctx, batch); err != nil {
			logger.Error("Run failed, waiting for next change", "error", err)
		}

		if !open {
			return
		}
	}
}

// drain merges every batch already queued on events into batch.
func drain(events <-chan Batch, batch Batch) (Batch, bool) {
	for {
		select {
		case b, ok := <-events:
			if !ok {
				return batch, false
			}
			batch = batch.Merge(b)
		default:
			return batch, true
		}
	}
}
