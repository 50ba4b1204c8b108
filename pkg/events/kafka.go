package events

import (
	"context"
	"fmt"
	"time"

	"seatlock/pkg/logger"

	"github.com/IBM/sarama"
)

// KafkaPublisherConfig contains configuration for the Kafka publisher
type KafkaPublisherConfig struct {
	Brokers          []string
	TopicPrefix      string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaPublisherConfig returns a default publisher configuration
func DefaultKafkaPublisherConfig() *KafkaPublisherConfig {
	return &KafkaPublisherConfig{
		Brokers:          []string{"localhost:9092"},
		TopicPrefix:      "seatlock",
		RetryMax:         3,
		TimeoutMs:        10000,             // 10 seconds
		RequiredAcks:     sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000, // 1MB
	}
}

// KafkaPublisher publishes domain events to Kafka, one topic per event type
type KafkaPublisher struct {
	producer    sarama.SyncProducer
	topicPrefix string
}

// NewKafkaPublisher creates a Kafka publisher backed by a sync producer
func NewKafkaPublisher(config *KafkaPublisherConfig) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps one show's events in order
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return NewKafkaPublisherWithProducer(producer, config.TopicPrefix), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topicPrefix string) *KafkaPublisher {
	return &KafkaPublisher{
		producer:    producer,
		topicPrefix: topicPrefix,
	}
}

// Topic returns the Kafka topic for an event type
func (k *KafkaPublisher) Topic(eventType string) string {
	return k.topicPrefix + "." + eventType
}

// Publish sends a single event to its topic
func (k *KafkaPublisher) Publish(ctx context.Context, event *Event) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return err
	}

	message := &sarama.ProducerMessage{
		Topic: k.Topic(event.Type),
		Key:   sarama.StringEncoder(event.Key),
		Value: sarama.ByteEncoder(messageBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_id"), Value: []byte(event.ID)},
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := k.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send event to Kafka: %w", err)
	}

	logger.GetDefault().DebugContext(ctx, "Event published to Kafka",
		"topic", message.Topic,
		"partition", partition,
		"offset", offset,
		"type", event.Type,
	)
	return nil
}

// Close closes the underlying producer
func (k *KafkaPublisher) Close() error {
	return k.producer.Close()
}
