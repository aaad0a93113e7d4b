package repository

import (
	"context"
	"time"

	"TradeScout/internal/domain/models"
)

// SnapshotSource hands out a consistent, caller-owned copy of the current
// market state for one screener run.
type SnapshotSource interface {
	Snapshot() *models.MarketSnapshot
}

// MarketStream is a live provider feed of per-symbol tick updates.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.TickUpdate, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// SignalStore persists ranked runs for later inspection.
type SignalStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreRun(ctx context.Context, res *models.ScanResult) error
	QueryHistory(ctx context.Context, ticker string, from, to time.Time, limit int) ([]models.Signal, error)
	Health(ctx context.Context) error
	Close() error
}

// SignalPublisher hands a ranked run to downstream consumers.
type SignalPublisher interface {
	PublishRun(ctx context.Context, res *models.ScanResult) error
	Close() error
}

// Metrics abstracts operational counters so use cases stay backend-agnostic.
type Metrics interface {
	RecordScan(produced int, seconds float64)
	RecordSignal(ticker string, composite float64)
	RecordObservation(ticker string, price float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
