package marketdata

import (
	"math"
	"testing"
	"time"

	"TradeScout/internal/domain/models"
)

func TestSnapshotDeepCopy(t *testing.T) {
	s := NewSnapshotStore(0)
	s.ApplyObservation(models.MarketObservation{Ticker: "ABC", Price: 10, RSI: 40})
	s.ApplyNews(models.NewsItem{Ticker: "ABC", Headline: "launch", Sentiment: models.SentimentPositive})

	snap := s.Snapshot()

	// later writes must not show through the copy
	s.ApplyObservation(models.MarketObservation{Ticker: "ABC", Price: 99, RSI: 40})
	s.ApplyNews(models.NewsItem{Ticker: "ABC", Headline: "second"})

	if got := snap.Observations["ABC"].Price; got != 10 {
		t.Fatalf("snapshot observation mutated: price %v", got)
	}
	if got := len(snap.News["ABC"]); got != 1 {
		t.Fatalf("snapshot news mutated: %d items", got)
	}
}

func TestSnapshotMapsAlwaysPresent(t *testing.T) {
	snap := NewSnapshotStore(0).Snapshot()
	if snap.Observations == nil || snap.News == nil || snap.Fundamentals == nil || snap.Sectors == nil {
		t.Fatalf("empty snapshot must still carry all maps")
	}
	if snap.Timestamp.IsZero() {
		t.Fatalf("snapshot timestamp must be set")
	}
}

func TestApplyTickMergesIntoObservation(t *testing.T) {
	s := NewSnapshotStore(0)
	s.ApplyObservation(models.MarketObservation{
		Ticker: "ABC", Price: 10, Volume: 100, AvgVolume20Day: 1000, RSI: 40, ATR: 0.5,
	})
	s.ApplyTick(&models.TickUpdate{Ticker: "ABC", Price: 11, Volume: 50, Timestamp: time.Now().Unix()})

	obs := s.Snapshot().Observations["ABC"]
	if obs.Price != 11 {
		t.Fatalf("tick price not applied: %v", obs.Price)
	}
	if obs.Volume != 150 {
		t.Fatalf("tick volume must accumulate: %v", obs.Volume)
	}
	if obs.RSI != 40 || obs.ATR != 0.5 {
		t.Fatalf("indicator fields must survive ticks: rsi=%v atr=%v", obs.RSI, obs.ATR)
	}
}

func TestApplyTickUnknownTickerHasNoRSI(t *testing.T) {
	s := NewSnapshotStore(0)
	s.ApplyTick(&models.TickUpdate{Ticker: "NEW", Price: 5, Volume: 10, Timestamp: time.Now().Unix()})

	obs := s.Snapshot().Observations["NEW"]
	if !math.IsNaN(obs.RSI) {
		t.Fatalf("fresh ticker should have no RSI, got %v", obs.RSI)
	}
}

func TestApplyNewsBounded(t *testing.T) {
	s := NewSnapshotStore(3)
	for i := 0; i < 5; i++ {
		s.ApplyNews(models.NewsItem{Ticker: "ABC", Headline: "h"})
	}
	if got := len(s.Snapshot().News["ABC"]); got != 3 {
		t.Fatalf("news ring got %d items, want 3", got)
	}
}
