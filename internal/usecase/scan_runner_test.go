package usecase

import (
	"context"
	"testing"
	"time"

	"TradeScout/internal/domain/models"
	"TradeScout/internal/service/marketdata"
	"TradeScout/pkg/cache"
	"TradeScout/pkg/logger"
)

type stubMetrics struct {
	scans   int
	signals int
	errors  int
}

func (m *stubMetrics) RecordScan(produced int, _ float64) { m.scans++; m.signals += produced }
func (m *stubMetrics) RecordSignal(string, float64)       {}
func (m *stubMetrics) RecordObservation(string, float64)  {}
func (m *stubMetrics) RecordError(string)                 { m.errors++ }
func (m *stubMetrics) RecordLatency(string, float64)      {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestScanRunnerCachesLatest(t *testing.T) {
	snap := marketdata.NewSnapshotStore(0)
	snap.ApplyObservation(models.MarketObservation{
		Ticker: "XYZ", Price: 20, Volume: 2_000_000, AvgVolume20Day: 1_000_000,
		RSI: 25, ATR: 0.4, PctChangeToday: 6.0,
	})
	snap.ApplyFundamental(models.FundamentalRecord{Ticker: "XYZ", MarketCapMillions: 500, FloatMillions: 20})
	snap.ApplyNews(models.NewsItem{Ticker: "XYZ", Headline: "beat expectations", Sentiment: models.SentimentPositive})
	snap.ApplySector(models.SectorQuote{Symbol: "XLK", PctChangeToday: -1.0})

	m := &stubMetrics{}
	runner := NewScanRunner(
		snap,
		newTestScreener(t, defaultRank()),
		nil, nil,
		cache.NewMemoryCache(),
		time.Minute,
		m,
		testLogger(t),
	)

	res, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Signals) != 1 || res.Signals[0].Ticker != "XYZ" {
		t.Fatalf("unexpected signals: %+v", res.Signals)
	}
	if m.scans != 1 || m.signals != 1 {
		t.Fatalf("metrics not recorded: scans=%d signals=%d", m.scans, m.signals)
	}

	latest, err := runner.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(latest.Signals) != 1 || latest.Signals[0].CompositeScore != res.Signals[0].CompositeScore {
		t.Fatalf("cached run differs from returned run")
	}
}

func TestScanRunnerLatestMissWithoutRuns(t *testing.T) {
	runner := NewScanRunner(
		marketdata.NewSnapshotStore(0),
		newTestScreener(t, defaultRank()),
		nil, nil,
		cache.NewMemoryCache(),
		time.Minute,
		&stubMetrics{},
		testLogger(t),
	)
	if _, err := runner.Latest(context.Background()); err == nil {
		t.Fatalf("expected cache miss before any run")
	}
}
