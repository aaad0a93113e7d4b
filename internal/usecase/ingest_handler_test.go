package usecase

import (
	"context"
	"math"
	"testing"

	"TradeScout/internal/service/marketdata"
)

func TestIngestObservationEnvelope(t *testing.T) {
	store := marketdata.NewSnapshotStore(0)
	h := NewMarketIngestHandler("market.observations", store, &stubMetrics{})

	msg := []byte(`{"kind":"observation","observation":{"ticker":"ABC","price":12.5,"volume":1000,"avg_volume_20d":5000,"rsi":42.0,"atr":0.3,"pct_change_today":1.5}}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	obs := store.Snapshot().Observations["ABC"]
	if obs.Price != 12.5 || obs.Volume != 1000 || obs.RSI != 42.0 {
		t.Fatalf("observation not applied: %+v", obs)
	}
}

func TestIngestObservationWithoutRSI(t *testing.T) {
	store := marketdata.NewSnapshotStore(0)
	h := NewMarketIngestHandler("market.observations", store, &stubMetrics{})

	msg := []byte(`{"kind":"observation","observation":{"ticker":"ABC","price":12.5,"volume":1000}}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if rsi := store.Snapshot().Observations["ABC"].RSI; !math.IsNaN(rsi) {
		t.Fatalf("absent rsi must decode as NaN, got %v", rsi)
	}
}

func TestIngestNewsAndSectorEnvelopes(t *testing.T) {
	store := marketdata.NewSnapshotStore(0)
	h := NewMarketIngestHandler("market.observations", store, &stubMetrics{})

	news := []byte(`{"kind":"news","news":{"ticker":"ABC","headline":"partnership announced","sentiment":"Positive","source":"wire","t":1717336200}}`)
	if err := h.Handle(context.Background(), news); err != nil {
		t.Fatalf("news: %v", err)
	}
	sector := []byte(`{"kind":"sector","sector":{"Symbol":"XLK","PctChangeToday":-0.7}}`)
	if err := h.Handle(context.Background(), sector); err != nil {
		t.Fatalf("sector: %v", err)
	}

	snap := store.Snapshot()
	if len(snap.News["ABC"]) != 1 || snap.News["ABC"][0].Headline != "partnership announced" {
		t.Fatalf("news not applied: %+v", snap.News["ABC"])
	}
	if snap.Sectors["XLK"].PctChangeToday != -0.7 {
		t.Fatalf("sector not applied: %+v", snap.Sectors["XLK"])
	}
}

func TestIngestRejectsMalformedEnvelopes(t *testing.T) {
	store := marketdata.NewSnapshotStore(0)
	m := &stubMetrics{}
	h := NewMarketIngestHandler("market.observations", store, m)

	cases := [][]byte{
		[]byte(`not json`),
		[]byte(`{"kind":"weather"}`),
		[]byte(`{"kind":"observation"}`), // kind without payload
	}
	for _, msg := range cases {
		if err := h.Handle(context.Background(), msg); err == nil {
			t.Fatalf("expected error for %s", msg)
		}
	}
	if m.errors != len(cases) {
		t.Fatalf("errors recorded got %d, want %d", m.errors, len(cases))
	}
}
