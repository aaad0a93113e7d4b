package usecase

import (
	"context"
	"fmt"
	"time"

	"TradeScout/internal/domain/models"
	drepo "TradeScout/internal/domain/repository"
	"TradeScout/pkg/cache"
	"TradeScout/pkg/logger"
)

// LatestSignalsKey is the cache key for the most recent ranked run.
const LatestSignalsKey = "signals:latest"

// ScanRunner orchestrates one screener run: take a snapshot, score it, then
// fan the ranked result out to storage, the signals topic, and the cache.
// Store, publisher, and cache are optional; a nil dependency is skipped.
type ScanRunner struct {
	source   drepo.SnapshotSource
	screener *Screener
	store    drepo.SignalStore
	pub      drepo.SignalPublisher
	cache    cache.Service
	cacheTTL time.Duration
	metrics  drepo.Metrics
	log      *logger.Logger
}

// NewScanRunner creates a new ScanRunner instance.
func NewScanRunner(
	source drepo.SnapshotSource,
	screener *Screener,
	store drepo.SignalStore,
	pub drepo.SignalPublisher,
	c cache.Service,
	cacheTTL time.Duration,
	metrics drepo.Metrics,
	log *logger.Logger,
) *ScanRunner {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ScanRunner{
		source:   source,
		screener: screener,
		store:    store,
		pub:      pub,
		cache:    c,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		log:      log,
	}
}

// Run executes one scan. Export failures are logged and counted but do not
// fail the run; the caller still gets the ranked result.
func (r *ScanRunner) Run(ctx context.Context) (*models.ScanResult, error) {
	start := time.Now()

	res, err := r.screener.Run(ctx, r.source.Snapshot())
	if err != nil {
		r.metrics.RecordError("scan")
		return nil, fmt.Errorf("scan: %w", err)
	}
	r.metrics.RecordScan(len(res.Signals), time.Since(start).Seconds())
	for _, sig := range res.Signals {
		r.metrics.RecordSignal(sig.Ticker, sig.CompositeScore)
	}
	r.log.Info("scan complete",
		logger.Int("scanned", res.Scanned),
		logger.Int("eligible", res.Eligible),
		logger.Int("signals", len(res.Signals)),
		logger.Duration("took", time.Since(start)))

	r.export(ctx, res)
	return res, nil
}

func (r *ScanRunner) export(ctx context.Context, res *models.ScanResult) {
	if r.store != nil {
		start := time.Now()
		if err := r.store.StoreRun(ctx, res); err != nil {
			r.metrics.RecordError("signal_store")
			r.log.Error("store scan result", logger.Error(err))
		} else {
			r.metrics.RecordLatency("signal_store", time.Since(start).Seconds())
		}
	}
	if r.pub != nil {
		if err := r.pub.PublishRun(ctx, res); err != nil {
			r.metrics.RecordError("signal_publish")
			r.log.Error("publish scan result", logger.Error(err))
		}
	}
	if r.cache != nil {
		if err := r.cache.Set(ctx, LatestSignalsKey, res, r.cacheTTL); err != nil {
			r.metrics.RecordError("signal_cache")
			r.log.Warn("cache scan result", logger.Error(err))
		}
	}
}

// Latest returns the most recent cached run, or ErrCacheMiss.
func (r *ScanRunner) Latest(ctx context.Context) (*models.ScanResult, error) {
	if r.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	var res models.ScanResult
	if err := r.cache.Get(ctx, LatestSignalsKey, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
