package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TradeScout/internal/domain/models"
	domrepo "TradeScout/internal/domain/repository"
	"TradeScout/internal/service/ratelimit"
)

// Proc is the minimal downstream interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, t *models.TickUpdate) error
}

// IngestPipeline sits between the provider stream and the snapshot state.
// It validates ticks, throttles per symbol with a token bucket, and parks
// ticks in a bounded buffer when downstream fails so a hiccup does not lose
// the tail of a burst.
type IngestPipeline struct {
	proc    Proc
	metrics domrepo.Metrics
	limiter *ratelimit.Limiter
	maxRPS  float64
	bufSize int

	retryCh chan *models.TickUpdate
	stopCh  chan struct{}

	mu      sync.Mutex
	started bool
}

type PipelineOption func(*IngestPipeline)

// WithMaxRPS sets the max accepted ticks per second per symbol.
func WithMaxRPS(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.maxRPS = float64(n)
		}
	}
}

// WithBufferSize sets the retry buffer size used when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewIngestPipeline creates a new pipeline.
func NewIngestPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *IngestPipeline {
	p := &IngestPipeline{
		proc:    proc,
		metrics: metrics,
		limiter: ratelimit.New(),
		maxRPS:  20,
		bufSize: 1000,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.retryCh = make(chan *models.TickUpdate, p.bufSize)
	return p
}

// Start launches background flushing of the retry buffer.
func (p *IngestPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	go p.flushLoop(ctx)
}

// Stop stops the background flushing.
func (p *IngestPipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.started = false
	close(p.stopCh)
}

// Process validates, throttles, and forwards a tick downstream, buffering on
// downstream errors. Throttled ticks are dropped: a later tick for the same
// symbol supersedes them anyway.
func (p *IngestPipeline) Process(ctx context.Context, t *models.TickUpdate) error {
	start := time.Now()
	if err := validateTick(t); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.limiter.Allow(t.Ticker, p.maxRPS, p.maxRPS) {
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.proc.Process(ctx, t); err != nil {
		p.metrics.RecordError("pipeline_process")
		p.park(t)
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func (p *IngestPipeline) park(t *models.TickUpdate) {
	select {
	case p.retryCh <- t:
		p.metrics.RecordLatency("pipeline_buffer_depth", float64(len(p.retryCh)))
	default:
		p.metrics.RecordError("pipeline_buffer_full")
	}
}

// flushLoop retries parked ticks with exponential backoff between failures.
func (p *IngestPipeline) flushLoop(ctx context.Context) {
	backoff := 50 * time.Millisecond
	for {
		select {
		case <-p.stopCh:
			return
		case t := <-p.retryCh:
			if t == nil {
				continue
			}
			if err := p.proc.Process(ctx, t); err != nil {
				p.metrics.RecordError("pipeline_flush")
				if backoff < 2*time.Second {
					backoff *= 2
				}
				time.Sleep(backoff)
				p.park(t)
				continue
			}
			backoff = 50 * time.Millisecond
		}
	}
}

func validateTick(t *models.TickUpdate) error {
	if t == nil {
		return fmt.Errorf("tick nil")
	}
	if t.Ticker == "" {
		return fmt.Errorf("ticker empty")
	}
	if t.Timestamp <= 0 {
		return fmt.Errorf("timestamp invalid")
	}
	if t.Price < 0 || t.Volume < 0 {
		return fmt.Errorf("negative price/volume")
	}
	return nil
}
