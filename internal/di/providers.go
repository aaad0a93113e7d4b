package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"TradeScout/internal/domain/repository"
	"TradeScout/internal/handler/api"
	mid "TradeScout/internal/middleware"
	internalrepo "TradeScout/internal/repository"
	"TradeScout/internal/service/marketdata"
	"TradeScout/internal/services/scoring"
	"TradeScout/internal/services/sector"
	"TradeScout/internal/usecase"
	"TradeScout/pkg/cache"
	pkgch "TradeScout/pkg/clickhouse"
	"TradeScout/pkg/config"
	xhttp "TradeScout/pkg/http"
	pkgkafka "TradeScout/pkg/kafka"
	applogger "TradeScout/pkg/logger"
	"TradeScout/pkg/metrics"
	"TradeScout/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSnapshotStore creates the shared live market state.
func ProvideSnapshotStore() *marketdata.SnapshotStore {
	return marketdata.NewSnapshotStore(50)
}

// ProvideScoringEngine creates the scoring engine from configured weights.
func ProvideScoringEngine(cfg *config.Config) (*scoring.Engine, error) {
	w := scoring.Weights{
		Momentum:         cfg.Screener.Weights.Momentum,
		VolumeSurge:      cfg.Screener.Weights.VolumeSurge,
		RelativeStrength: cfg.Screener.Weights.RelativeStrength,
		NewsSentiment:    cfg.Screener.Weights.NewsSentiment,
		Catalyst:         cfg.Screener.Weights.Catalyst,
	}
	opts := make([]scoring.EngineOption, 0, 2)
	if cfg.Screener.VolumeSurgeThresholdPct > 0 {
		opts = append(opts, scoring.WithVolumeSurgeThreshold(cfg.Screener.VolumeSurgeThresholdPct))
	}
	if cfg.Screener.RelStrengthMinDiff > 0 {
		opts = append(opts, scoring.WithRelStrengthMinDiff(cfg.Screener.RelStrengthMinDiff))
	}
	return scoring.NewEngine(w, opts...)
}

// ProvideRiskEstimator creates the risk estimator.
func ProvideRiskEstimator() *scoring.RiskEstimator {
	return scoring.NewRiskEstimator()
}

// ProvideSectorMap creates the ticker -> sector ETF lookup.
func ProvideSectorMap(cfg *config.Config) *sector.Map {
	return sector.New(cfg.Sectors.Mapping, cfg.Sectors.Default)
}

// ProvideScreener creates the Filter -> Score -> Rank pipeline.
func ProvideScreener(
	cfg *config.Config,
	engine *scoring.Engine,
	risk *scoring.RiskEstimator,
	sectors *sector.Map,
) *usecase.Screener {
	return usecase.NewScreener(
		engine, risk, sectors,
		usecase.FilterConfig{
			MinPrice:             cfg.Screener.Filters.MinPrice,
			MaxPrice:             cfg.Screener.Filters.MaxPrice,
			MinAvgVolume:         cfg.Screener.Filters.MinAvgVolume,
			MinMarketCapMillions: cfg.Screener.Filters.MinMarketCapMillions,
			MaxFloatMillions:     cfg.Screener.Filters.MaxFloatMillions,
		},
		usecase.RankConfig{
			MinCompositeScore:      *cfg.Screener.Signals.MinCompositeScore,
			MaxAcceptableRiskScore: *cfg.Screener.Signals.MaxAcceptableRiskScore,
			MaxSignalsPerRun:       *cfg.Screener.Signals.MaxSignalsPerRun,
		},
		cfg.Screener.CatalystKeywords,
		cfg.Screener.ScoreWorkers,
	)
}

// ProvideMarketStream creates the provider WebSocket stream, or nil when no
// stream is configured.
func ProvideMarketStream(cfg *config.Config, log *applogger.Logger) repository.MarketStream {
	if cfg.Provider.WebSocketURL == "" {
		return nil
	}
	return marketdata.NewStream(
		cfg.Provider.APIKey,
		cfg.Provider.WebSocketURL,
		cfg.Provider.Symbols,
		cfg.Provider.ReconnectDelay,
		cfg.Provider.PingInterval,
		log,
	)
}

// ProvideObservationCollector wires the stream through the ingest pipeline
// into the snapshot state. Nil when no stream is configured.
func ProvideObservationCollector(
	stream repository.MarketStream,
	snap *marketdata.SnapshotStore,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.ObservationCollector {
	if stream == nil {
		return nil
	}
	applier := usecase.NewTickApplier(snap, m)
	maxRPS := int(cfg.Provider.MaxUpdatesPerSec)
	if maxRPS <= 0 {
		maxRPS = 50
	}
	pipe := mid.NewIngestPipeline(applier, m,
		mid.WithMaxRPS(maxRPS),
		mid.WithBufferSize(2000),
	)
	return usecase.NewObservationCollector(stream, applier, m, pipe)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideSignalStore creates the ClickHouse-backed signal history, or nil
// when ClickHouse is disabled. The schema is initialized here.
func ProvideSignalStore(chClient *pkgch.Client, log *applogger.Logger) (repository.SignalStore, error) {
	if chClient == nil {
		return nil, nil
	}
	store := internalrepo.NewCHSignalStore(chClient, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("signal store schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalPublisher creates the signals-topic publisher, or nil when
// Kafka is disabled.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SignalPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.SignalsTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer, or nil when disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideIngestHandler registers the market-data envelope handler.
func ProvideIngestHandler(snap *marketdata.SnapshotStore, m repository.Metrics, cfg *config.Config) pkgkafka.MessageHandler {
	return usecase.NewMarketIngestHandler(cfg.Kafka.ObservationsTopic, snap, m)
}

// ProvideCache creates the signal cache: Redis when enabled, an in-process
// cache otherwise so /api/signals/latest always works.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	host, port := splitHostPort(cfg.Redis.Addr)
	c, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideScanRunner creates the scan orchestrator.
func ProvideScanRunner(
	snap *marketdata.SnapshotStore,
	screener *usecase.Screener,
	store repository.SignalStore,
	pub repository.SignalPublisher,
	c cache.Service,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.ScanRunner {
	return usecase.NewScanRunner(snap, screener, store, pub, c, cfg.Redis.TTL, m, log)
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(log *applogger.Logger, runner *usecase.ScanRunner, store repository.SignalStore) xhttp.Handler {
	return api.NewScreenerHandler(log, runner, store)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	collector *usecase.ObservationCollector,
	consumer *pkgkafka.Consumer,
	ingest pkgkafka.MessageHandler,
	store repository.SignalStore,
	pub repository.SignalPublisher,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, log, collector, consumer, ingest, store, pub, handler)
}

func splitHostPort(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		if addr != "" {
			return addr, 6379
		}
		return "localhost", 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		port = 6379
	}
	return host, port
}
