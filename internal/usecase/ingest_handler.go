package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"TradeScout/internal/domain/models"
	drepo "TradeScout/internal/domain/repository"
	"TradeScout/internal/service/marketdata"
	pkgkafka "TradeScout/pkg/kafka"
)

// MarketIngestHandler consumes market-data envelopes from Kafka and applies
// them to the snapshot state.
type MarketIngestHandler struct {
	topic   string
	store   *marketdata.SnapshotStore
	metrics drepo.Metrics
}

func NewMarketIngestHandler(topic string, store *marketdata.SnapshotStore, metrics drepo.Metrics) *MarketIngestHandler {
	return &MarketIngestHandler{topic: topic, store: store, metrics: metrics}
}

func (h *MarketIngestHandler) Topic() string { return h.topic }

// envelope schema: {kind, observation|news|fundamental|sector}
type ingestEnvelope struct {
	Kind        string              `json:"kind"`
	Observation *observationFrame   `json:"observation,omitempty"`
	News        *newsFrame          `json:"news,omitempty"`
	Fundamental *fundamentalFrame   `json:"fundamental,omitempty"`
	Sector      *models.SectorQuote `json:"sector,omitempty"`
}

type observationFrame struct {
	Ticker         string   `json:"ticker"`
	Price          float64  `json:"price"`
	Volume         int64    `json:"volume"`
	AvgVolume20Day int64    `json:"avg_volume_20d"`
	RSI            *float64 `json:"rsi"` // absent when the indicator is unavailable
	ATR            float64  `json:"atr"`
	PctChangeToday float64  `json:"pct_change_today"`
}

type newsFrame struct {
	Ticker    string `json:"ticker"`
	Headline  string `json:"headline"`
	Sentiment string `json:"sentiment"`
	Source    string `json:"source"`
	Timestamp int64  `json:"t"` // unix seconds
}

type fundamentalFrame struct {
	Ticker            string  `json:"ticker"`
	MarketCapMillions float64 `json:"market_cap_millions"`
	FloatMillions     float64 `json:"float_millions"`
	PERatio           float64 `json:"pe_ratio"`
}

func (h *MarketIngestHandler) Handle(ctx context.Context, b []byte) error {
	var env ingestEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	start := time.Now()
	switch env.Kind {
	case "observation":
		if env.Observation == nil {
			h.metrics.RecordError("consumer_empty_frame")
			return fmt.Errorf("observation envelope without payload")
		}
		rsi := math.NaN()
		if env.Observation.RSI != nil {
			rsi = *env.Observation.RSI
		}
		h.store.ApplyObservation(models.MarketObservation{
			Ticker:         env.Observation.Ticker,
			Price:          env.Observation.Price,
			Volume:         env.Observation.Volume,
			AvgVolume20Day: env.Observation.AvgVolume20Day,
			RSI:            rsi,
			ATR:            env.Observation.ATR,
			PctChangeToday: env.Observation.PctChangeToday,
		})
		h.metrics.RecordObservation(env.Observation.Ticker, env.Observation.Price)
	case "news":
		if env.News == nil {
			h.metrics.RecordError("consumer_empty_frame")
			return fmt.Errorf("news envelope without payload")
		}
		h.store.ApplyNews(models.NewsItem{
			Ticker:    env.News.Ticker,
			Headline:  env.News.Headline,
			Sentiment: models.Sentiment(env.News.Sentiment),
			Source:    env.News.Source,
			Timestamp: time.Unix(env.News.Timestamp, 0).UTC(),
		})
	case "fundamental":
		if env.Fundamental == nil {
			h.metrics.RecordError("consumer_empty_frame")
			return fmt.Errorf("fundamental envelope without payload")
		}
		h.store.ApplyFundamental(models.FundamentalRecord{
			Ticker:            env.Fundamental.Ticker,
			MarketCapMillions: env.Fundamental.MarketCapMillions,
			FloatMillions:     env.Fundamental.FloatMillions,
			PERatio:           env.Fundamental.PERatio,
		})
	case "sector":
		if env.Sector == nil {
			h.metrics.RecordError("consumer_empty_frame")
			return fmt.Errorf("sector envelope without payload")
		}
		h.store.ApplySector(*env.Sector)
	default:
		h.metrics.RecordError("consumer_unknown_kind")
		return fmt.Errorf("unknown envelope kind %q", env.Kind)
	}
	h.metrics.RecordLatency("ingest_apply_seconds", time.Since(start).Seconds())
	return nil
}

var _ pkgkafka.MessageHandler = (*MarketIngestHandler)(nil)
