package models

import "time"

// Signal is one ranked trading candidate. Immutable once produced by the
// Score stage; raw fields are echoed for downstream presentation.
type Signal struct {
	Ticker string `json:"ticker"`

	MomentumScore         float64 `json:"momentum_score"`
	VolumeSurgeScore      float64 `json:"volume_surge_score"`
	RelativeStrengthScore float64 `json:"relative_strength_score"`
	NewsSentimentScore    float64 `json:"news_sentiment_score"`
	CatalystScore         float64 `json:"catalyst_score"`

	CompositeScore float64 `json:"composite_score"`
	RiskScore      float64 `json:"risk_score"`

	Price          float64 `json:"price"`
	ATR            float64 `json:"atr"`
	RSI            float64 `json:"rsi"`
	PctChangeToday float64 `json:"pct_change_today"`
}

// CatalystEvent is a qualitative event inferred from headlines, weighted by
// recency when scored.
type CatalystEvent struct {
	Name    string
	DaysAgo int
}

// ScanResult is the outcome of one Filter->Score->Rank run.
type ScanResult struct {
	Timestamp time.Time `json:"timestamp"`
	Scanned   int       `json:"scanned"`  // observations considered
	Eligible  int       `json:"eligible"` // survived the filter stage
	Signals   []Signal  `json:"signals"`  // ranked, bounded
}
