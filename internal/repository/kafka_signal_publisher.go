package repository

import (
	"context"

	"TradeScout/internal/domain/models"
	domrepo "TradeScout/internal/domain/repository"
	pkgkafka "TradeScout/pkg/kafka"
)

// KafkaSignalPublisher implements SignalPublisher for Kafka. Each ranked
// signal goes out as its own message keyed by ticker so per-ticker ordering
// holds across runs.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSignalPublisher creates a Kafka signal publisher.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) domrepo.SignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) PublishRun(ctx context.Context, res *models.ScanResult) error {
	if res == nil || len(res.Signals) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(res.Signals))
	for i, sig := range res.Signals {
		msgs[i] = pkgkafka.Message{
			Key: []byte(sig.Ticker),
			Value: signalMessage{
				RunTS:  res.Timestamp.Unix(),
				Signal: sig,
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

type signalMessage struct {
	RunTS  int64         `json:"run_ts"`
	Signal models.Signal `json:"signal"`
}
