package models

import (
	"math"
	"time"
)

// Sentiment labels a news item as bullish, bearish or neither.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// MarketObservation is one symbol's price/volume state for the current run.
type MarketObservation struct {
	Ticker         string
	Price          float64 // last trade price, > 0
	Volume         int64   // today's cumulative volume
	AvgVolume20Day int64   // 0 = unknown
	RSI            float64 // [0,100]; NaN when the indicator is unavailable
	ATR            float64 // absolute price units
	PctChangeToday float64 // signed percent
}

// HasRSI reports whether the RSI field carries a usable value.
func (o MarketObservation) HasRSI() bool {
	return !math.IsNaN(o.RSI)
}

// TickUpdate is a single live trade frame from the provider stream. It is
// merged into the running MarketObservation for its ticker.
type TickUpdate struct {
	Ticker    string
	Price     float64
	Volume    int64
	Timestamp int64 // unix seconds
}

// NewsItem is a single headline attributed to a ticker.
type NewsItem struct {
	Ticker    string
	Headline  string
	Sentiment Sentiment
	Source    string
	Timestamp time.Time
}

// FundamentalRecord holds the per-ticker fundamentals the filter stage needs.
type FundamentalRecord struct {
	Ticker            string
	MarketCapMillions float64
	FloatMillions     float64
	PERatio           float64
}

// SectorQuote is a benchmark ETF quote used for relative strength.
type SectorQuote struct {
	Symbol         string
	PctChangeToday float64
}

// MarketSnapshot bundles all inputs for one screener run. All four maps must
// be non-nil; a ticker missing from News or Fundamentals degrades per-ticker,
// a nil map fails the whole run.
type MarketSnapshot struct {
	Timestamp    time.Time
	Observations map[string]MarketObservation
	News         map[string][]NewsItem
	Fundamentals map[string]FundamentalRecord
	Sectors      map[string]SectorQuote
}
