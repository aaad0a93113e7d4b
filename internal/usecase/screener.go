package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"TradeScout/internal/domain/models"
	"TradeScout/internal/services/scoring"
	"TradeScout/internal/services/sector"
)

// FilterConfig holds the structural eligibility thresholds.
type FilterConfig struct {
	MinPrice             float64
	MaxPrice             float64
	MinAvgVolume         int64
	MinMarketCapMillions float64
	MaxFloatMillions     float64
}

// RankConfig holds the post-sort thresholds and the per-run cap.
type RankConfig struct {
	MinCompositeScore      float64
	MaxAcceptableRiskScore float64
	MaxSignalsPerRun       int
}

// Screener runs the Filter -> Score -> Rank pipeline over one snapshot.
// It holds only read-only configuration, so a single instance is safe for
// concurrent runs.
type Screener struct {
	engine   *scoring.Engine
	risk     *scoring.RiskEstimator
	sectors  *sector.Map
	filters  FilterConfig
	rank     RankConfig
	keywords []string // lowercased catalyst keywords
	workers  int
}

// NewScreener builds a screener pipeline. The keyword set is lowercased once
// here; scoring fans out over at most workers goroutines.
func NewScreener(
	engine *scoring.Engine,
	risk *scoring.RiskEstimator,
	sectors *sector.Map,
	filters FilterConfig,
	rank RankConfig,
	catalystKeywords []string,
	workers int,
) *Screener {
	kws := make([]string, 0, len(catalystKeywords))
	for _, kw := range catalystKeywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			kws = append(kws, kw)
		}
	}
	if workers <= 0 {
		workers = 1
	}
	return &Screener{
		engine:   engine,
		risk:     risk,
		sectors:  sectors,
		filters:  filters,
		rank:     rank,
		keywords: kws,
		workers:  workers,
	}
}

// Run executes the three stages and returns the ranked, bounded signal list.
// Identical snapshots and configuration always produce identical output.
func (s *Screener) Run(ctx context.Context, snap *models.MarketSnapshot) (*models.ScanResult, error) {
	if err := validateSnapshot(snap); err != nil {
		return nil, err
	}

	eligible := s.filter(snap)
	signals, err := s.score(ctx, eligible, snap)
	if err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}
	ranked := s.rankSignals(signals)

	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return &models.ScanResult{
		Timestamp: ts,
		Scanned:   len(snap.Observations),
		Eligible:  len(eligible),
		Signals:   ranked,
	}, nil
}

func validateSnapshot(snap *models.MarketSnapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is nil")
	}
	if snap.Observations == nil {
		return fmt.Errorf("snapshot: observations map is absent")
	}
	if snap.News == nil {
		return fmt.Errorf("snapshot: news map is absent")
	}
	if snap.Fundamentals == nil {
		return fmt.Errorf("snapshot: fundamentals map is absent")
	}
	if snap.Sectors == nil {
		return fmt.Errorf("snapshot: sectors map is absent")
	}
	return nil
}

// filter returns the tickers passing every structural predicate, in sorted
// order so downstream stages are deterministic regardless of map iteration.
// Tickers without fundamentals zero-default and fail the market-cap floor.
func (s *Screener) filter(snap *models.MarketSnapshot) []string {
	eligible := make([]string, 0, len(snap.Observations))
	for ticker, obs := range snap.Observations {
		if obs.Price < s.filters.MinPrice || obs.Price > s.filters.MaxPrice {
			continue
		}
		if obs.Volume < s.filters.MinAvgVolume {
			continue
		}
		fund := snap.Fundamentals[ticker] // zero value when missing
		if fund.MarketCapMillions < s.filters.MinMarketCapMillions {
			continue
		}
		if fund.FloatMillions > s.filters.MaxFloatMillions {
			continue
		}
		eligible = append(eligible, ticker)
	}
	sort.Strings(eligible)
	return eligible
}

// score computes a Signal per eligible ticker. Per-ticker work is independent
// so it fans out across a bounded worker pool; results land index-aligned to
// preserve the filtered order. A cancelled context fails the whole run: a
// partial signal set would silently break the identical-input guarantee.
func (s *Screener) score(ctx context.Context, tickers []string, snap *models.MarketSnapshot) ([]models.Signal, error) {
	signals := make([]models.Signal, len(tickers))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i, ticker := range tickers {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
			// the select races when both cases are ready; re-check so a
			// cancelled context never yields a truncated result
			if err := ctx.Err(); err != nil {
				<-sem
				wg.Wait()
				return nil, err
			}
		}
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			defer func() { <-sem }()
			signals[i] = s.scoreTicker(ticker, snap)
		}(i, ticker)
	}
	wg.Wait()
	return signals, nil
}

func (s *Screener) scoreTicker(ticker string, snap *models.MarketSnapshot) models.Signal {
	obs := snap.Observations[ticker]
	news := snap.News[ticker]

	momentum := s.engine.MomentumScore(obs.RSI)
	volumeSurge := s.engine.VolumeSurgeScore(obs.Volume, obs.AvgVolume20Day)

	sectorSym := s.sectors.Lookup(ticker)
	sectorPct := snap.Sectors[sectorSym].PctChangeToday // 0 when benchmark missing
	relStrength := s.engine.RelativeStrengthScore(obs.PctChangeToday, sectorPct)

	positive := 0
	for _, item := range news {
		if item.Sentiment == models.SentimentPositive {
			positive++
		}
	}
	newsScore := s.engine.NewsSentimentScore(positive, len(news))

	catalyst := s.engine.CatalystScore(s.catalystEvents(news))
	composite := s.engine.CompositeScore(momentum, volumeSurge, relStrength, newsScore, catalyst)
	risk := s.risk.Score(obs.ATR, obs.Price)

	rsi := obs.RSI
	if math.IsNaN(rsi) {
		rsi = 0
	}
	return models.Signal{
		Ticker:                ticker,
		MomentumScore:         round2(momentum),
		VolumeSurgeScore:      round2(volumeSurge),
		RelativeStrengthScore: round2(relStrength),
		NewsSentimentScore:    round2(newsScore),
		CatalystScore:         round2(catalyst),
		CompositeScore:        round2(composite),
		RiskScore:             round2(risk),
		Price:                 round2(obs.Price),
		ATR:                   round2(obs.ATR),
		RSI:                   round2(rsi),
		PctChangeToday:        round2(obs.PctChangeToday),
	}
}

// catalystEvents yields one synthetic recent event when any headline matches
// a configured keyword, case-insensitively.
func (s *Screener) catalystEvents(news []models.NewsItem) []models.CatalystEvent {
	for _, item := range news {
		headline := strings.ToLower(item.Headline)
		for _, kw := range s.keywords {
			if strings.Contains(headline, kw) {
				return []models.CatalystEvent{{Name: kw, DaysAgo: 0}}
			}
		}
	}
	return nil
}

// rankSignals sorts by composite descending (stable, so equal composites keep
// their pre-sort order), applies the composite floor and risk ceiling, and
// truncates to the per-run cap.
func (s *Screener) rankSignals(signals []models.Signal) []models.Signal {
	ranked := make([]models.Signal, len(signals))
	copy(ranked, signals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})

	out := make([]models.Signal, 0, len(ranked))
	for _, sig := range ranked {
		if sig.CompositeScore >= s.rank.MinCompositeScore && sig.RiskScore <= s.rank.MaxAcceptableRiskScore {
			out = append(out, sig)
		}
	}
	if len(out) > s.rank.MaxSignalsPerRun {
		out = out[:s.rank.MaxSignalsPerRun]
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
