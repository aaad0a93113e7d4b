package sector

// Map is a static ticker -> benchmark sector ETF lookup. Unmapped tickers
// resolve to the fallback symbol so a missing mapping never fails a run.
type Map struct {
	mapping  map[string]string
	fallback string
}

// DefaultFallback is the benchmark used when a ticker has no mapping.
const DefaultFallback = "XLK"

// DefaultMapping returns the built-in ticker -> sector ETF table.
func DefaultMapping() map[string]string {
	return map[string]string{
		"AAPL": "XLK", "MSFT": "XLK", "GOOGL": "XLK",
		"JPM": "XLF", "BAC": "XLF",
		"XOM": "XLE", "CVX": "XLE",
		"JNJ": "XLV", "PFE": "XLV",
	}
}

// New builds a sector map. A nil mapping uses the built-in table; an empty
// fallback uses DefaultFallback.
func New(mapping map[string]string, fallback string) *Map {
	if mapping == nil {
		mapping = DefaultMapping()
	}
	if fallback == "" {
		fallback = DefaultFallback
	}
	m := make(map[string]string, len(mapping))
	for k, v := range mapping {
		m[k] = v
	}
	return &Map{mapping: m, fallback: fallback}
}

// Lookup returns the sector ETF symbol for ticker, or the fallback.
func (m *Map) Lookup(ticker string) string {
	if etf, ok := m.mapping[ticker]; ok {
		return etf
	}
	return m.fallback
}

// Fallback returns the default sector symbol.
func (m *Map) Fallback() string { return m.fallback }
