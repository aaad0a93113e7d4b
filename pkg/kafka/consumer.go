package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// MessageHandler processes raw messages from one topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

// ConsumerOption configures Consumer.
type ConsumerOption func(*ConsumerConfig)

// ConsumerConfig holds consumer configuration.
type ConsumerConfig struct {
	Brokers    []string
	GroupID    string
	RetryMax   int
	BackoffMin time.Duration
	BackoffMax time.Duration
	DLQTopic   string
	MinBytes   int
	MaxBytes   int
}

// WithConsumerBrokers sets Kafka brokers.
func WithConsumerBrokers(brokers []string) ConsumerOption {
	return func(c *ConsumerConfig) { c.Brokers = brokers }
}

// WithConsumerGroupID sets the consumer group ID.
func WithConsumerGroupID(groupID string) ConsumerOption {
	return func(c *ConsumerConfig) {
		if groupID != "" {
			c.GroupID = groupID
		}
	}
}

// WithConsumerRetry configures handler retry attempts and the backoff range.
func WithConsumerRetry(max int, backoffMin, backoffMax time.Duration) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.RetryMax = max
		c.BackoffMin = backoffMin
		c.BackoffMax = backoffMax
	}
}

// WithConsumerDLQ sets the dead-letter topic for poison messages.
func WithConsumerDLQ(topic string) ConsumerOption {
	return func(c *ConsumerConfig) { c.DLQTopic = topic }
}

// WithConsumerFetch sets fetch min/max bytes.
func WithConsumerFetch(minBytes, maxBytes int) ConsumerOption {
	return func(c *ConsumerConfig) {
		if minBytes > 0 {
			c.MinBytes = minBytes
		}
		if maxBytes > 0 {
			c.MaxBytes = maxBytes
		}
	}
}

// Consumer reads one topic with a single group reader. One reader means
// per-partition order is preserved without any in-flight bookkeeping; the
// ingest envelopes it feeds are cheap to apply, so a worker pool would add
// coordination without throughput.
type Consumer struct {
	cfg      *ConsumerConfig
	handler  MessageHandler
	reader   *kafka.Reader
	dlq      *kafka.Writer
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewConsumer creates a new Kafka consumer.
func NewConsumer(opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		GroupID:    "default",
		RetryMax:   3,
		BackoffMin: 50 * time.Millisecond,
		BackoffMax: 2 * time.Second,
		MinBytes:   1,
		MaxBytes:   10e6,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	c := &Consumer{cfg: cfg, stopCh: make(chan struct{})}
	if cfg.DLQTopic != "" {
		c.dlq = &kafka.Writer{Addr: kafka.TCP(cfg.Brokers...), Balancer: &kafka.LeastBytes{}}
	}
	initConsumerMetrics()
	return c, nil
}

// RegisterHandler sets the handler whose topic this consumer reads.
func (c *Consumer) RegisterHandler(handler MessageHandler) {
	c.handler = handler
}

// Start begins consuming in the background.
func (c *Consumer) Start() error {
	if c.handler == nil {
		return fmt.Errorf("no handler registered")
	}
	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.cfg.Brokers,
		Topic:    c.handler.Topic(),
		GroupID:  c.cfg.GroupID,
		MinBytes: c.cfg.MinBytes,
		MaxBytes: c.cfg.MaxBytes,
	})
	c.wg.Add(1)
	go c.run()
	log.Printf("kafka consumer: started topic=%s group=%s", c.handler.Topic(), c.cfg.GroupID)
	return nil
}

func (c *Consumer) run() {
	defer c.wg.Done()
	for {
		select {
		case <-c.stopCh:
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		msg, err := c.reader.FetchMessage(ctx)
		cancel()
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				log.Printf("kafka consumer: fetch %s: %v", c.handler.Topic(), err)
			}
			continue
		}
		c.process(msg)
	}
}

// process retries the handler with jittered backoff, parks poison messages
// on the DLQ, and commits the offset so a bad message cannot wedge the
// partition.
func (c *Consumer) process(msg kafka.Message) {
	topic := c.handler.Topic()
	start := time.Now()

	var err error
	for attempt := 1; ; attempt++ {
		err = c.safeHandle(msg.Value)
		if err == nil || attempt > c.cfg.RetryMax {
			break
		}
		select {
		case <-time.After(backoffWithJitter(c.cfg.BackoffMin, c.cfg.BackoffMax, attempt)):
		case <-c.stopCh:
			return
		}
	}

	if err != nil {
		consumerErrors.WithLabelValues(topic).Inc()
		log.Printf("kafka consumer: giving up on message from %s: %v", topic, err)
		if c.dlq != nil {
			dlqMsg := kafka.Message{
				Topic:   c.cfg.DLQTopic,
				Value:   msg.Value,
				Time:    time.Now(),
				Headers: []kafka.Header{{Key: "source_topic", Value: []byte(topic)}},
			}
			if dlqErr := c.dlq.WriteMessages(context.Background(), dlqMsg); dlqErr != nil {
				log.Printf("kafka consumer: dlq write: %v", dlqErr)
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
		log.Printf("kafka consumer: commit %s: %v", topic, commitErr)
	}
	cancel()

	consumerHandleLatency.WithLabelValues(topic).Observe(time.Since(start).Seconds())
}

func (c *Consumer) safeHandle(data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return c.handler.Handle(context.Background(), data)
}

// Stop shuts the consumer down, waiting for the in-flight message up to the
// context deadline.
func (c *Consumer) Stop(ctx context.Context) error {
	var stopErr error
	c.stopOnce.Do(func() {
		close(c.stopCh)

		done := make(chan struct{})
		go func() {
			c.wg.Wait()
			close(done)
		}()
		select {
		case <-ctx.Done():
			stopErr = fmt.Errorf("timeout waiting for consumer to stop: %w", ctx.Err())
		case <-done:
		}

		if c.reader != nil {
			if err := c.reader.Close(); err != nil {
				log.Printf("kafka consumer: close reader: %v", err)
			}
		}
		if c.dlq != nil {
			if err := c.dlq.Close(); err != nil {
				log.Printf("kafka consumer: close dlq writer: %v", err)
			}
		}
	})
	return stopErr
}

func backoffWithJitter(min, max time.Duration, attempt int) time.Duration {
	if min <= 0 {
		min = 50 * time.Millisecond
	}
	if max < min {
		max = min
	}
	exp := min * time.Duration(1<<uint(attempt-1))
	if exp > max {
		exp = max
	}
	jitter := time.Duration(rand.Int63n(int64(exp)/2 + 1))
	return exp - jitter
}

var (
	consumerHandleLatency *prometheus.HistogramVec
	consumerErrors        *prometheus.CounterVec
	consumerMetricsOnce   sync.Once
)

func initConsumerMetrics() {
	consumerMetricsOnce.Do(func() {
		consumerHandleLatency = promauto.NewHistogramVec(
			prometheus.HistogramOpts{Name: "tradescout_kafka_consumer_handle_seconds", Help: "Handling time per message"},
			[]string{"topic"},
		)
		consumerErrors = promauto.NewCounterVec(
			prometheus.CounterOpts{Name: "tradescout_kafka_consumer_errors_total", Help: "Messages that exhausted handler retries"},
			[]string{"topic"},
		)
	})
}
