package usecase

import (
	"context"
	"fmt"

	"TradeScout/internal/domain/models"
	drepo "TradeScout/internal/domain/repository"
	mid "TradeScout/internal/middleware"
)

// ObservationCollector consumes the provider stream and feeds the snapshot
// state through the ingest pipeline.
type ObservationCollector struct {
	stream  drepo.MarketStream
	applier *TickApplier
	metrics drepo.Metrics
	pipe    *mid.IngestPipeline
}

// NewObservationCollector creates a new ObservationCollector instance.
func NewObservationCollector(stream drepo.MarketStream, applier *TickApplier, metrics drepo.Metrics, pipe *mid.IngestPipeline) *ObservationCollector {
	return &ObservationCollector{stream: stream, applier: applier, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the market stream is connected.
func (c *ObservationCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *ObservationCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	go c.consume(ctx)
	return nil
}

// consume runs read sessions until the context ends. Each stream failure
// closes the session's channels, so after a reconnect the channels must be
// re-acquired from Read before any new tick can arrive.
func (c *ObservationCollector) consume(ctx context.Context) {
	for {
		tickCh, errCh := c.stream.Read(ctx)
		if err := c.drain(ctx, tickCh, errCh); err == nil {
			return // context done
		}
		c.metrics.RecordError("stream")

		for {
			if ctx.Err() != nil {
				return
			}
			if err := c.stream.Reconnect(ctx); err == nil {
				break
			}
			c.metrics.RecordError("stream_reconnect")
		}
	}
}

// drain consumes one read session. It returns nil when the context ends and
// an error when the session died and a reconnect is needed.
func (c *ObservationCollector) drain(ctx context.Context, tickCh <-chan *models.TickUpdate, errCh <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errCh:
			if !ok {
				return fmt.Errorf("stream closed")
			}
			if err != nil {
				return err
			}
		case t, ok := <-tickCh:
			if !ok {
				return fmt.Errorf("stream closed")
			}
			if t == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, t)
			} else {
				_ = c.applier.Process(ctx, t)
			}
		}
	}
}

// Shutdown stops the pipeline and closes the stream.
func (c *ObservationCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
