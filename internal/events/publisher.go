// Package events publishes scan outcomes to an external message broker.
package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xelth-com/drawerscan/internal/config"
)

// Publisher delivers one message to the configured topic
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
	Close() error
}

// NewPublisher connects the backend selected by cfg. It returns nil when
// messaging is disabled.
func NewPublisher(cfg config.MessagingConfig, log *zap.Logger) (Publisher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch cfg.Backend {
	case "":
		return nil, nil
	case "mqtt":
		pub, err := NewMQTTPublisher(cfg, log)
		if err != nil {
			return nil, err
		}
		return pub, nil
	case "kafka":
		return NewKafkaPublisher(cfg, log), nil
	case "redis":
		return NewRedisPublisher(cfg, log), nil
	default:
		return nil, fmt.Errorf("unsupported messaging backend %q", cfg.Backend)
	}
}
