package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "TradeScout/internal/domain/repository"
	"TradeScout/internal/usecase"
	"TradeScout/pkg/config"
	xhttp "TradeScout/pkg/http"
	pkgkafka "TradeScout/pkg/kafka"
	applogger "TradeScout/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	collector  *usecase.ObservationCollector
	consumer   *pkgkafka.Consumer
	ingest     pkgkafka.MessageHandler
	store      domrepo.SignalStore
	pub        domrepo.SignalPublisher
	handler    xhttp.Handler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. Collector, consumer,
// store, and publisher may be nil when the corresponding backend is disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	collector *usecase.ObservationCollector,
	consumer *pkgkafka.Consumer,
	ingest pkgkafka.MessageHandler,
	store domrepo.SignalStore,
	pub domrepo.SignalPublisher,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		collector: collector,
		consumer:  consumer,
		ingest:    ingest,
		store:     store,
		pub:       pub,
		handler:   handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				a.log.Error("collector error", applogger.Error(err))
			}
		}()
		a.log.Info("collector started", applogger.Strings("symbols", a.cfg.Provider.Symbols))
	}

	if a.consumer != nil && a.ingest != nil {
		a.consumer.RegisterHandler(a.ingest)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.ingest.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server listening", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			a.log.Warn("collector stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}
	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("signal store close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
