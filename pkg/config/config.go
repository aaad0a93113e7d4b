package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Screener struct {
		Filters struct {
			MinPrice             float64 `yaml:"min_price"`
			MaxPrice             float64 `yaml:"max_price"`
			MinAvgVolume         int64   `yaml:"min_avg_volume"`
			MinMarketCapMillions float64 `yaml:"min_market_cap_millions"`
			MaxFloatMillions     float64 `yaml:"max_float_millions"`
		} `yaml:"filters"`
		Signals struct {
			// Pointers so an explicit zero in the YAML is kept rather
			// than being mistaken for "unset" and replaced by a default.
			MinCompositeScore      *float64 `yaml:"min_composite_score"`
			MaxAcceptableRiskScore *float64 `yaml:"max_acceptable_risk_score"`
			MaxSignalsPerRun       *int     `yaml:"max_signals_per_run"`
		} `yaml:"signals"`
		Weights struct {
			Momentum         float64 `yaml:"momentum"`
			VolumeSurge      float64 `yaml:"volume_surge"`
			RelativeStrength float64 `yaml:"relative_strength"`
			NewsSentiment    float64 `yaml:"news_sentiment"`
			Catalyst         float64 `yaml:"catalyst"`
		} `yaml:"weights"`
		CatalystKeywords        []string `yaml:"catalyst_keywords"`
		VolumeSurgeThresholdPct float64  `yaml:"volume_surge_threshold_pct"`
		RelStrengthMinDiff      float64  `yaml:"relative_strength_min_diff"`
		ScoreWorkers            int      `yaml:"score_workers"`
	} `yaml:"screener"`
	Sectors struct {
		Default string            `yaml:"default"`
		Mapping map[string]string `yaml:"mapping"`
	} `yaml:"sectors"`
	Provider struct {
		WebSocketURL     string        `yaml:"websocket_url"`
		APIKey           string        `yaml:"api_key"`
		Symbols          []string      `yaml:"symbols"`
		ReconnectDelay   time.Duration `yaml:"reconnect_delay"`
		PingInterval     time.Duration `yaml:"ping_interval"`
		MaxUpdatesPerSec float64       `yaml:"max_updates_per_sec"`
	} `yaml:"provider"`
	Kafka struct {
		Enabled           bool     `yaml:"enabled"`
		Brokers           []string `yaml:"brokers"`
		ObservationsTopic string   `yaml:"observations_topic"`
		SignalsTopic      string   `yaml:"signals_topic"`
		RequiredAcks      int      `yaml:"required_acks"`
		Compression       string   `yaml:"compression"`
		Producer          struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool          `yaml:"enabled"`
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"redis"`
}

// Defaults applied by Validate when the corresponding option is unset.
const (
	DefaultMinCompositeScore      = 50.0
	DefaultMaxAcceptableRiskScore = 75.0
	DefaultMaxSignalsPerRun       = 10
)

// DefaultCatalystKeywords is the built-in headline keyword set.
func DefaultCatalystKeywords() []string {
	return []string{"beat", "launch", "expansion", "partnership", "acquisition"}
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PROVIDER_API_KEY"); v != "" {
		c.Provider.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Provider.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}

	return c, nil
}

// Validate checks the configuration and fills defaults. Malformed composite
// weights or absent filter thresholds fail hard: continuing would produce
// meaningless scores for every ticker.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}

	f := &c.Screener.Filters
	if f.MinPrice <= 0 || f.MaxPrice <= 0 {
		return fmt.Errorf("screener.filters.min_price and max_price are required")
	}
	if f.MaxPrice < f.MinPrice {
		return fmt.Errorf("screener.filters.max_price %v below min_price %v", f.MaxPrice, f.MinPrice)
	}
	if f.MinAvgVolume <= 0 {
		return fmt.Errorf("screener.filters.min_avg_volume is required")
	}
	if f.MinMarketCapMillions <= 0 {
		return fmt.Errorf("screener.filters.min_market_cap_millions is required")
	}
	if f.MaxFloatMillions <= 0 {
		return fmt.Errorf("screener.filters.max_float_millions is required")
	}

	w := c.Screener.Weights
	sum := w.Momentum + w.VolumeSurge + w.RelativeStrength + w.NewsSentiment + w.Catalyst
	if sum == 0 {
		return fmt.Errorf("screener.weights are required")
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("screener.weights must sum to 1.0, got %v", sum)
	}

	s := &c.Screener.Signals
	if s.MinCompositeScore == nil {
		v := DefaultMinCompositeScore
		s.MinCompositeScore = &v
	}
	if s.MaxAcceptableRiskScore == nil {
		v := DefaultMaxAcceptableRiskScore
		s.MaxAcceptableRiskScore = &v
	}
	if s.MaxSignalsPerRun == nil {
		v := DefaultMaxSignalsPerRun
		s.MaxSignalsPerRun = &v
	}
	if *s.MaxSignalsPerRun <= 0 {
		return fmt.Errorf("screener.signals.max_signals_per_run must be positive")
	}

	if len(c.Screener.CatalystKeywords) == 0 {
		c.Screener.CatalystKeywords = DefaultCatalystKeywords()
	}
	if c.Screener.ScoreWorkers <= 0 {
		c.Screener.ScoreWorkers = 8
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers are required when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}

	return nil
}
