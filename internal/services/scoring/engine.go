package scoring

import (
	"fmt"
	"math"

	"TradeScout/internal/domain/models"
)

// Default thresholds for the normalization functions.
const (
	DefaultVolumeSurgeThresholdPct = 150.0
	DefaultRelStrengthMinDiff      = 5.0
)

const weightSumTolerance = 1e-9

// Weights holds the composite weighting of the five component scores.
// They are configuration: fixed at engine construction, never mutated after.
type Weights struct {
	Momentum         float64 `yaml:"momentum"`
	VolumeSurge      float64 `yaml:"volume_surge"`
	RelativeStrength float64 `yaml:"relative_strength"`
	NewsSentiment    float64 `yaml:"news_sentiment"`
	Catalyst         float64 `yaml:"catalyst"`
}

// DefaultWeights returns the reference weighting.
func DefaultWeights() Weights {
	return Weights{
		Momentum:         0.25,
		VolumeSurge:      0.20,
		RelativeStrength: 0.20,
		NewsSentiment:    0.20,
		Catalyst:         0.15,
	}
}

// Sum returns the total of all five weights.
func (w Weights) Sum() float64 {
	return w.Momentum + w.VolumeSurge + w.RelativeStrength + w.NewsSentiment + w.Catalyst
}

// Validate checks that every weight is usable and the set sums to 1.0.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"momentum":          w.Momentum,
		"volume_surge":      w.VolumeSurge,
		"relative_strength": w.RelativeStrength,
		"news_sentiment":    w.NewsSentiment,
		"catalyst":          w.Catalyst,
	} {
		if math.IsNaN(v) || v < 0 {
			return fmt.Errorf("weight %s must be a non-negative number, got %v", name, v)
		}
	}
	if s := w.Sum(); math.Abs(s-1.0) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %v", s)
	}
	return nil
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithVolumeSurgeThreshold sets the minimum volume ratio percent that scores.
func WithVolumeSurgeThreshold(pct float64) EngineOption {
	return func(e *Engine) {
		if pct > 0 {
			e.volumeThresholdPct = pct
		}
	}
}

// WithRelStrengthMinDiff sets the stock-vs-sector diff band half-width.
func WithRelStrengthMinDiff(diff float64) EngineOption {
	return func(e *Engine) {
		if diff > 0 {
			e.relStrengthMinDiff = diff
		}
	}
}

// Engine computes the five component scores and their weighted composite.
// All methods are pure; the only state is read-only configuration.
type Engine struct {
	weights            Weights
	volumeThresholdPct float64
	relStrengthMinDiff float64
}

// NewEngine creates a scoring engine with a fixed weight configuration.
func NewEngine(w Weights, opts ...EngineOption) (*Engine, error) {
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("scoring weights: %w", err)
	}
	e := &Engine{
		weights:            w,
		volumeThresholdPct: DefaultVolumeSurgeThresholdPct,
		relStrengthMinDiff: DefaultRelStrengthMinDiff,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Weights returns the fixed weight configuration.
func (e *Engine) Weights() Weights { return e.weights }

// MomentumScore maps RSI onto [0,100]. Both extremes are interesting: an
// oversold reading (RSI<30) and an overbought reading (RSI>70) earn a bonus
// above 50, the 30-70 band maps linearly onto [25,50]. Missing RSI scores 0.
func (e *Engine) MomentumScore(rsi float64) float64 {
	if math.IsNaN(rsi) {
		return 0
	}
	var score float64
	switch {
	case rsi < 30:
		score = 50 + (30-rsi)/30*50
	case rsi > 70:
		score = 50 + (rsi-70)/30*50
	default:
		score = 25 + (rsi-30)/40*25
	}
	return clamp(score)
}

// VolumeSurgeScore scores today's volume against the 20-day average. Ratios
// below the threshold percent score 0 so normal activity earns nothing; an
// unknown average (0) also scores 0 since the ratio is undefined.
func (e *Engine) VolumeSurgeScore(currentVolume, avgVolume int64) float64 {
	if avgVolume == 0 {
		return 0
	}
	ratio := float64(currentVolume) / float64(avgVolume) * 100
	if ratio < e.volumeThresholdPct {
		return 0
	}
	return clamp((ratio - e.volumeThresholdPct) / (e.volumeThresholdPct * 2) * 100)
}

// RelativeStrengthScore compares the stock's daily move to its sector
// benchmark. Inside the +-minDiff band the score is a flat 25 so in-line
// performers are not over-penalized; outperformance beyond the band scales up.
func (e *Engine) RelativeStrengthScore(stockPctChange, sectorPctChange float64) float64 {
	diff := stockPctChange - sectorPctChange
	switch {
	case diff < -e.relStrengthMinDiff:
		return 0
	case diff < e.relStrengthMinDiff:
		return 25
	default:
		return clamp(25 + (diff-e.relStrengthMinDiff)/e.relStrengthMinDiff*75)
	}
}

// NewsSentimentScore is the share of positive articles. No news at all is a
// neutral prior of 50, not a bearish 0.
func (e *Engine) NewsSentimentScore(positiveCount, totalCount int) float64 {
	if totalCount == 0 {
		return 50
	}
	return clamp(float64(positiveCount) / float64(totalCount) * 100)
}

// CatalystScore averages recency contributions over all events: within 7
// days counts full, within 30 days half, older events nothing.
func (e *Engine) CatalystScore(events []models.CatalystEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	total := 0.0
	for _, ev := range events {
		switch {
		case ev.DaysAgo <= 7:
			total += 100
		case ev.DaysAgo <= 30:
			total += 50
		}
	}
	return clamp(total / float64(len(events)))
}

// CompositeScore combines the five component scores with the fixed weights.
// This is the single published aggregation; callers cannot substitute an
// alternate weighting at call time.
func (e *Engine) CompositeScore(momentum, volumeSurge, relStrength, newsSentiment, catalyst float64) float64 {
	composite := momentum*e.weights.Momentum +
		volumeSurge*e.weights.VolumeSurge +
		relStrength*e.weights.RelativeStrength +
		newsSentiment*e.weights.NewsSentiment +
		catalyst*e.weights.Catalyst
	return clamp(composite)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
