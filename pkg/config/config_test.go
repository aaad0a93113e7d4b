package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
environment: test
server:
  port: 8080
screener:
  filters:
    min_price: 5.0
    max_price: 100.0
    min_avg_volume: 500000
    min_market_cap_millions: 300.0
    max_float_millions: 50.0
  weights:
    momentum: 0.25
    volume_surge: 0.20
    relative_strength: 0.20
    news_sentiment: 0.20
    catalyst: 0.15
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "test" {
		t.Fatalf("environment got %s", cfg.Environment)
	}
	if cfg.Screener.Filters.MinPrice != 5.0 {
		t.Fatalf("min_price got %v", cfg.Screener.Filters.MinPrice)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := *cfg.Screener.Signals.MinCompositeScore; got != DefaultMinCompositeScore {
		t.Fatalf("min composite default got %v", got)
	}
	if got := *cfg.Screener.Signals.MaxAcceptableRiskScore; got != DefaultMaxAcceptableRiskScore {
		t.Fatalf("max risk default got %v", got)
	}
	if got := *cfg.Screener.Signals.MaxSignalsPerRun; got != DefaultMaxSignalsPerRun {
		t.Fatalf("max signals default got %v", got)
	}
	if len(cfg.Screener.CatalystKeywords) == 0 {
		t.Fatalf("catalyst keywords must default")
	}
	if cfg.Screener.ScoreWorkers <= 0 {
		t.Fatalf("score workers must default")
	}
}

func TestLoadKeepsExplicitZeroScoreFloor(t *testing.T) {
	yaml := validYAML + `
  signals:
    min_composite_score: 0
    max_acceptable_risk_score: 100
`
	cfg, err := Load(writeConfig(t, yaml))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := *cfg.Screener.Signals.MinCompositeScore; got != 0 {
		t.Fatalf("explicit zero floor got %v, want 0", got)
	}
	if got := *cfg.Screener.Signals.MaxAcceptableRiskScore; got != 100 {
		t.Fatalf("risk ceiling got %v, want 100", got)
	}
}

func TestLoadRejectsZeroSignalsPerRun(t *testing.T) {
	yaml := validYAML + `
  signals:
    max_signals_per_run: 0
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatalf("expected error for max_signals_per_run 0")
	}
}

func TestLoadRejectsMissingEnvironment(t *testing.T) {
	yaml := `
screener:
  filters:
    min_price: 5.0
    max_price: 100.0
    min_avg_volume: 500000
    min_market_cap_millions: 300.0
    max_float_millions: 50.0
  weights:
    momentum: 1.0
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatalf("expected error for missing environment")
	}
}

func TestLoadRejectsMissingFilters(t *testing.T) {
	yaml := `
environment: test
screener:
  weights:
    momentum: 1.0
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatalf("expected error for missing filter thresholds")
	}
}

func TestLoadRejectsBadWeights(t *testing.T) {
	yaml := `
environment: test
screener:
  filters:
    min_price: 5.0
    max_price: 100.0
    min_avg_volume: 500000
    min_market_cap_millions: 300.0
    max_float_millions: 50.0
  weights:
    momentum: 0.5
    volume_surge: 0.5
    relative_strength: 0.5
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatalf("expected error for weights not summing to 1")
	}
}

func TestLoadRejectsInvertedPriceRange(t *testing.T) {
	yaml := `
environment: test
screener:
  filters:
    min_price: 100.0
    max_price: 5.0
    min_avg_volume: 500000
    min_market_cap_millions: 300.0
    max_float_millions: 50.0
  weights:
    momentum: 1.0
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatalf("expected error for max_price below min_price")
	}
}

func TestLoadRejectsEnabledKafkaWithoutBrokers(t *testing.T) {
	yaml := validYAML + `
kafka:
  enabled: true
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatalf("expected error for kafka without brokers")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PROVIDER_API_KEY", "secret")
	t.Setenv("SYMBOLS", "AAPL,MSFT")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Provider.APIKey != "secret" {
		t.Fatalf("api key override got %s", cfg.Provider.APIKey)
	}
	if len(cfg.Provider.Symbols) != 2 || cfg.Provider.Symbols[0] != "AAPL" {
		t.Fatalf("symbols override got %v", cfg.Provider.Symbols)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("redis addr override got %s", cfg.Redis.Addr)
	}
}
