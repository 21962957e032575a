package kafka

import (
	"context"

	"github.com/IBM/sarama"
)

// Producer publishes gateway audit events. Delivery is synchronous so the
// best-effort publisher sees real broker errors instead of buffered ones.
type Producer struct {
	producer sarama.SyncProducer
}

// auditConfig returns the settings audit publishing relies on: idempotent
// writes with full-ISR acks. Sarama requires Net.MaxOpenRequests to be 1 and
// at least one retry when the idempotent flag is set; its config validation
// rejects the producer before dialing otherwise.
func auditConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1
	return cfg
}

// NewProducer connects a sync producer. A nil cfg selects the audit defaults.
func NewProducer(brokers []string, cfg *sarama.Config) (*Producer, error) {
	if cfg == nil {
		cfg = auditConfig()
	}
	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Producer{producer: producer}, nil
}

func (p *Producer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	var hs []sarama.RecordHeader
	for k, v := range headers {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(payload),
		Headers: hs,
	}
	_, _, err := p.producer.SendMessage(msg)
	return err
}

func (p *Producer) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
