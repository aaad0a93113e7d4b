package scoring

// RiskEstimator maps volatility (ATR as a percent of price) onto a 0-100
// risk scale. Using the ratio rather than absolute ATR keeps the measure
// comparable across tickers of very different price.
type RiskEstimator struct{}

// NewRiskEstimator returns a stateless risk estimator.
func NewRiskEstimator() *RiskEstimator { return &RiskEstimator{} }

// Score returns the risk for the given ATR and price. ATR% below 1 sits on
// the low-risk floor (20), above 5 on the high-risk ceiling (80), in between
// it interpolates linearly. A non-positive price makes ATR% undefined and is
// treated as 0.
func (r *RiskEstimator) Score(atr, price float64) float64 {
	atrPct := 0.0
	if price > 0 {
		atrPct = atr / price * 100
	}
	var risk float64
	switch {
	case atrPct < 1:
		risk = 20
	case atrPct > 5:
		risk = 80
	default:
		risk = 20 + atrPct/5*60
	}
	return clamp(risk)
}
