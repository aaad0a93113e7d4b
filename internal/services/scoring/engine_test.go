package scoring

import (
	"math"
	"testing"

	"TradeScout/internal/domain/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultWeights())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestMomentumScoreOversoldBonus(t *testing.T) {
	e := newTestEngine(t)

	if got := e.MomentumScore(20); got <= 40 {
		t.Fatalf("oversold rsi=20 got %v, want > 40", got)
	}
	if got := e.MomentumScore(25); !almostEqual(got, 58.333333) {
		t.Fatalf("rsi=25 got %v, want 58.333333", got)
	}
	// deeper oversold scores higher
	if e.MomentumScore(10) <= e.MomentumScore(25) {
		t.Fatalf("rsi=10 should outscore rsi=25")
	}
}

func TestMomentumScoreOverboughtBonus(t *testing.T) {
	e := newTestEngine(t)

	if got := e.MomentumScore(80); got <= 50 {
		t.Fatalf("overbought rsi=80 got %v, want > 50", got)
	}
	if got := e.MomentumScore(100); !almostEqual(got, 100) {
		t.Fatalf("rsi=100 got %v, want 100", got)
	}
}

func TestMomentumScoreNeutralBand(t *testing.T) {
	e := newTestEngine(t)

	if got := e.MomentumScore(30); !almostEqual(got, 25) {
		t.Fatalf("rsi=30 got %v, want 25", got)
	}
	if got := e.MomentumScore(50); !almostEqual(got, 37.5) {
		t.Fatalf("rsi=50 got %v, want 37.5", got)
	}
	if got := e.MomentumScore(70); !almostEqual(got, 50) {
		t.Fatalf("rsi=70 got %v, want 50", got)
	}
}

func TestMomentumScoreMissingRSI(t *testing.T) {
	e := newTestEngine(t)
	if got := e.MomentumScore(math.NaN()); got != 0 {
		t.Fatalf("missing rsi got %v, want 0", got)
	}
}

func TestVolumeSurgeScore(t *testing.T) {
	e := newTestEngine(t)

	if got := e.VolumeSurgeScore(1_000_000, 1_000_000); got != 0 {
		t.Fatalf("ratio 100%% got %v, want 0", got)
	}
	if got := e.VolumeSurgeScore(2_000_000, 1_000_000); !almostEqual(got, 16.666667) {
		t.Fatalf("ratio 200%% got %v, want 16.666667", got)
	}
	if got := e.VolumeSurgeScore(10_000_000, 1_000_000); got <= 16.67 {
		t.Fatalf("bigger surge should score higher, got %v", got)
	}
}

func TestVolumeSurgeScoreUnknownAverage(t *testing.T) {
	e := newTestEngine(t)
	if got := e.VolumeSurgeScore(5_000_000, 0); got != 0 {
		t.Fatalf("avg=0 got %v, want 0", got)
	}
}

func TestRelativeStrengthScore(t *testing.T) {
	e := newTestEngine(t)

	if got := e.RelativeStrengthScore(-10, 0); got != 0 {
		t.Fatalf("big underperformance got %v, want 0", got)
	}
	if got := e.RelativeStrengthScore(1, 0); got != 25 {
		t.Fatalf("in-line got %v, want 25", got)
	}
	got := e.RelativeStrengthScore(5, -1)
	if got <= 25 {
		t.Fatalf("outperformance got %v, want > 25", got)
	}
	if !almostEqual(got, 40) {
		t.Fatalf("diff=6 got %v, want 40", got)
	}
	if got := e.RelativeStrengthScore(6, -1); !almostEqual(got, 55) {
		t.Fatalf("diff=7 got %v, want 55", got)
	}
}

func TestNewsSentimentScore(t *testing.T) {
	e := newTestEngine(t)

	if got := e.NewsSentimentScore(0, 0); got != 50 {
		t.Fatalf("no news got %v, want neutral 50", got)
	}
	if got := e.NewsSentimentScore(3, 4); !almostEqual(got, 75) {
		t.Fatalf("3/4 positive got %v, want 75", got)
	}
	if got := e.NewsSentimentScore(0, 5); got != 0 {
		t.Fatalf("0/5 positive got %v, want 0", got)
	}
}

func TestCatalystScore(t *testing.T) {
	e := newTestEngine(t)

	if got := e.CatalystScore(nil); got != 0 {
		t.Fatalf("no events got %v, want 0", got)
	}
	if got := e.CatalystScore([]models.CatalystEvent{{Name: "launch", DaysAgo: 3}}); got != 100 {
		t.Fatalf("recent event got %v, want 100", got)
	}
	if got := e.CatalystScore([]models.CatalystEvent{{Name: "beat", DaysAgo: 20}}); got != 50 {
		t.Fatalf("month-old event got %v, want 50", got)
	}
	if got := e.CatalystScore([]models.CatalystEvent{{DaysAgo: 90}}); got != 0 {
		t.Fatalf("stale event got %v, want 0", got)
	}
	mixed := []models.CatalystEvent{{DaysAgo: 3}, {DaysAgo: 90}}
	if got := e.CatalystScore(mixed); !almostEqual(got, 50) {
		t.Fatalf("mixed events got %v, want 50", got)
	}
}

func TestCompositeScore(t *testing.T) {
	e := newTestEngine(t)

	if got := e.CompositeScore(100, 100, 100, 100, 100); !almostEqual(got, 100) {
		t.Fatalf("all-100 composite got %v, want 100", got)
	}
	if got := e.CompositeScore(0, 0, 0, 0, 0); got != 0 {
		t.Fatalf("all-0 composite got %v, want 0", got)
	}

	base := e.CompositeScore(50, 50, 50, 50, 50)
	higher := e.CompositeScore(60, 50, 50, 50, 50)
	if higher <= base {
		t.Fatalf("raising a component must raise the composite: %v vs %v", higher, base)
	}
}

func TestCompositeScoreWorkedExample(t *testing.T) {
	e := newTestEngine(t)

	m := e.MomentumScore(25)
	v := e.VolumeSurgeScore(2_000_000, 1_000_000)
	r := e.RelativeStrengthScore(6.0, -1.0)
	n := e.NewsSentimentScore(1, 1)
	c := e.CatalystScore([]models.CatalystEvent{{Name: "beat", DaysAgo: 0}})

	got := e.CompositeScore(m, v, r, n, c)
	if !almostEqual(got, 63.916667) {
		t.Fatalf("worked example composite got %v, want 63.916667", got)
	}
}

func TestWeightsValidate(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights: %v", err)
	}

	bad := Weights{Momentum: 0.5, VolumeSurge: 0.5, RelativeStrength: 0.5}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for weights summing to 1.5")
	}

	neg := DefaultWeights()
	neg.Catalyst = -0.15
	neg.Momentum = 0.55
	if err := neg.Validate(); err == nil {
		t.Fatalf("expected error for negative weight")
	}
}

func TestNewEngineRejectsBadWeights(t *testing.T) {
	if _, err := NewEngine(Weights{}); err == nil {
		t.Fatalf("expected error for zero weights")
	}
}

func TestEngineOptions(t *testing.T) {
	e, err := NewEngine(DefaultWeights(), WithVolumeSurgeThreshold(200), WithRelStrengthMinDiff(2))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	// ratio 180% is below the raised threshold
	if got := e.VolumeSurgeScore(1_800_000, 1_000_000); got != 0 {
		t.Fatalf("ratio 180%% with threshold 200 got %v, want 0", got)
	}
	// diff 3 clears the narrowed band
	if got := e.RelativeStrengthScore(3, 0); got <= 25 {
		t.Fatalf("diff=3 with band 2 got %v, want > 25", got)
	}
}
