//go:build wireinject
// +build wireinject

package di

import (
	"TradeScout/pkg/config"
	"TradeScout/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Live market state
		ProvideSnapshotStore,
		ProvideMarketStream,
		ProvideObservationCollector,

		// Scoring pipeline
		ProvideScoringEngine,
		ProvideRiskEstimator,
		ProvideSectorMap,
		ProvideScreener,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideSignalStore,
		ProvideKafkaProducer,
		ProvideSignalPublisher,
		ProvideKafkaConsumer,
		ProvideIngestHandler,
		ProvideCache,

		// Use cases and HTTP surface
		ProvideScanRunner,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
