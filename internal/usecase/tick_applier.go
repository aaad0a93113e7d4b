package usecase

import (
	"context"
	"fmt"

	"TradeScout/internal/domain/models"
	drepo "TradeScout/internal/domain/repository"
	"TradeScout/internal/service/marketdata"
)

// TickApplier folds validated tick updates into the live snapshot state.
type TickApplier struct {
	store   *marketdata.SnapshotStore
	metrics drepo.Metrics
}

// NewTickApplier creates a new TickApplier instance.
func NewTickApplier(store *marketdata.SnapshotStore, metrics drepo.Metrics) *TickApplier {
	return &TickApplier{store: store, metrics: metrics}
}

// Process merges a single tick into the snapshot.
func (a *TickApplier) Process(ctx context.Context, t *models.TickUpdate) error {
	if t == nil {
		return fmt.Errorf("tick is nil")
	}
	a.store.ApplyTick(t)
	a.metrics.RecordObservation(t.Ticker, t.Price)
	return nil
}
