package marketdata

import (
	"math"
	"sync"
	"time"

	"TradeScout/internal/domain/models"
)

// SnapshotStore accumulates live market state and hands out consistent
// copies for screener runs. Writers (tick stream, ingest consumers) and
// readers (scan runs, HTTP handlers) share one instance.
type SnapshotStore struct {
	mu           sync.RWMutex
	observations map[string]models.MarketObservation
	news         map[string][]models.NewsItem
	fundamentals map[string]models.FundamentalRecord
	sectors      map[string]models.SectorQuote
	maxNews      int
}

// NewSnapshotStore creates an empty store. maxNewsPerTicker bounds the
// per-ticker headline ring; <=0 uses 50.
func NewSnapshotStore(maxNewsPerTicker int) *SnapshotStore {
	if maxNewsPerTicker <= 0 {
		maxNewsPerTicker = 50
	}
	return &SnapshotStore{
		observations: make(map[string]models.MarketObservation),
		news:         make(map[string][]models.NewsItem),
		fundamentals: make(map[string]models.FundamentalRecord),
		sectors:      make(map[string]models.SectorQuote),
		maxNews:      maxNewsPerTicker,
	}
}

// ApplyTick merges a live trade frame into the ticker's observation: the
// price replaces, the volume accumulates, indicator fields survive.
func (s *SnapshotStore) ApplyTick(t *models.TickUpdate) {
	if t == nil || t.Ticker == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	obs, ok := s.observations[t.Ticker]
	if !ok {
		obs = models.MarketObservation{Ticker: t.Ticker, RSI: math.NaN()}
	}
	obs.Price = t.Price
	obs.Volume += t.Volume
	s.observations[t.Ticker] = obs
}

// ApplyObservation upserts a full per-ticker observation, as delivered by
// the ingest topic.
func (s *SnapshotStore) ApplyObservation(obs models.MarketObservation) {
	if obs.Ticker == "" {
		return
	}
	s.mu.Lock()
	s.observations[obs.Ticker] = obs
	s.mu.Unlock()
}

// ApplyNews appends a headline for its ticker, keeping the newest maxNews.
func (s *SnapshotStore) ApplyNews(item models.NewsItem) {
	if item.Ticker == "" {
		return
	}
	s.mu.Lock()
	items := append(s.news[item.Ticker], item)
	if len(items) > s.maxNews {
		items = items[len(items)-s.maxNews:]
	}
	s.news[item.Ticker] = items
	s.mu.Unlock()
}

// ApplyFundamental upserts a ticker's fundamentals.
func (s *SnapshotStore) ApplyFundamental(rec models.FundamentalRecord) {
	if rec.Ticker == "" {
		return
	}
	s.mu.Lock()
	s.fundamentals[rec.Ticker] = rec
	s.mu.Unlock()
}

// ApplySector upserts a benchmark ETF quote.
func (s *SnapshotStore) ApplySector(q models.SectorQuote) {
	if q.Symbol == "" {
		return
	}
	s.mu.Lock()
	s.sectors[q.Symbol] = q
	s.mu.Unlock()
}

// Snapshot returns a deep copy of the current state. The caller owns the
// result; later writes to the store never show through.
func (s *SnapshotStore) Snapshot() *models.MarketSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &models.MarketSnapshot{
		Timestamp:    time.Now().UTC(),
		Observations: make(map[string]models.MarketObservation, len(s.observations)),
		News:         make(map[string][]models.NewsItem, len(s.news)),
		Fundamentals: make(map[string]models.FundamentalRecord, len(s.fundamentals)),
		Sectors:      make(map[string]models.SectorQuote, len(s.sectors)),
	}
	for k, v := range s.observations {
		snap.Observations[k] = v
	}
	for k, v := range s.news {
		items := make([]models.NewsItem, len(v))
		copy(items, v)
		snap.News[k] = items
	}
	for k, v := range s.fundamentals {
		snap.Fundamentals[k] = v
	}
	for k, v := range s.sectors {
		snap.Sectors[k] = v
	}
	return snap
}

// Size returns the number of tracked tickers.
func (s *SnapshotStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observations)
}
