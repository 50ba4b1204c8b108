package events

import (
	"fmt"

	"seatlock/internal/shared/config"
)

// NewPublisher builds the publisher selected by EVENTS_BROKER
func NewPublisher(cfg config.EventsConfig) (Publisher, error) {
	switch cfg.Broker {
	case "kafka":
		kafkaCfg := DefaultKafkaPublisherConfig()
		kafkaCfg.Brokers = cfg.KafkaBrokers
		kafkaCfg.TopicPrefix = cfg.TopicPrefix
		return NewKafkaPublisher(kafkaCfg)
	case "rabbitmq", "amqp":
		return NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.TopicPrefix)
	case "", "none":
		return NoopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown events broker %q", cfg.Broker)
	}
}
