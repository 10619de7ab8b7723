package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafka produces change descriptors to a Kafka topic. Records are JSON
// encoded and keyed by the registrant's address, so per-account ordering is
// preserved across partitions.
type Kafka struct {
	client *kgo.Client
	topic  string
}

// KafkaOption configures the Kafka notifier.
type KafkaOption func(*kafkaConfig)

type kafkaConfig struct {
	createTopic       bool
	partitions        int32
	replicationFactor int16
}

// WithTopicBootstrap creates the topic on startup if it does not exist.
func WithTopicBootstrap(partitions int32, replicationFactor int16) KafkaOption {
	return func(cfg *kafkaConfig) {
		cfg.createTopic = true
		cfg.partitions = partitions
		cfg.replicationFactor = replicationFactor
	}
}

// NewKafka connects to the given brokers. The returned notifier owns the
// client; Close releases it.
func NewKafka(ctx context.Context, brokers []string, topic string, opts ...KafkaOption) (*Kafka, error) {
	cfg := &kafkaConfig{partitions: 1, replicationFactor: 1}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if cfg.createTopic {
		if err := ensureTopic(ctx, client, topic, cfg.partitions, cfg.replicationFactor); err != nil {
			client.Close()
			return nil, err
		}
	}

	return &Kafka{client: client, topic: topic}, nil
}

func ensureTopic(ctx context.Context, client *kgo.Client, topic string, partitions int32, replicationFactor int16) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, partitions, replicationFactor, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %q: %w", topic, err)
	}
	for _, res := range resp {
		if res.Err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %q: %w", topic, res.Err)
		}
	}
	return nil
}

func (k *Kafka) Emit(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.Address.String()),
		Value: payload,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event: %w", err)
	}
	return nil
}

func (k *Kafka) Close() error {
	k.client.Close()
	return nil
}
