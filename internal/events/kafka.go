package events

import (
	"context"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/xelth-com/drawerscan/internal/config"
)

// KafkaPublisher writes messages keyed by drawer so one drawer's
// outcomes stay ordered within a partition
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewKafkaPublisher creates a writer. Connections are opened lazily.
func NewKafkaPublisher(cfg config.MessagingConfig, log *zap.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  KafkaTopic(cfg.Topic),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	log.Info("kafka writer ready", zap.Strings("brokers", cfg.Brokers), zap.String("topic", w.Topic))
	return &KafkaPublisher{writer: w, log: log}
}

// KafkaTopic maps an MQTT style topic to a legal Kafka topic name
func KafkaTopic(topic string) string {
	return strings.NewReplacer("/", ".", "+", "_", "#", "_").Replace(topic)
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: payload})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
