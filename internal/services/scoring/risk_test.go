package scoring

import "testing"

func TestRiskScoreFloorAndCeiling(t *testing.T) {
	r := NewRiskEstimator()

	// ATR% = 0.5
	if got := r.Score(0.1, 20); got != 20 {
		t.Fatalf("low volatility got %v, want 20", got)
	}
	// ATR% = 10
	if got := r.Score(2, 20); got != 80 {
		t.Fatalf("high volatility got %v, want 80", got)
	}
}

func TestRiskScoreInterpolation(t *testing.T) {
	r := NewRiskEstimator()

	// ATR% = 2 -> 20 + 2/5*60 = 44
	if got := r.Score(0.4, 20); !almostEqual(got, 44) {
		t.Fatalf("atr%%=2 got %v, want 44", got)
	}
	// ATR% = 5 sits on the top of the linear band
	if got := r.Score(1, 20); !almostEqual(got, 80) {
		t.Fatalf("atr%%=5 got %v, want 80", got)
	}
}

func TestRiskScoreZeroPrice(t *testing.T) {
	r := NewRiskEstimator()
	if got := r.Score(1, 0); got != 20 {
		t.Fatalf("zero price got %v, want floor 20", got)
	}
	if got := r.Score(1, -5); got != 20 {
		t.Fatalf("negative price got %v, want floor 20", got)
	}
}
