package events

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xelth-com/drawerscan/internal/config"
)

// RedisPublisher publishes to a Redis pub/sub channel named after the topic
// and keeps the latest message per key under "<topic>:last:<key>".
type RedisPublisher struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

// lastTTL bounds how long a drawer's latest outcome stays readable
const lastTTL = 12 * time.Hour

// NewRedisPublisher connects to the first broker address. An unreachable
// server is logged and retried on every publish.
func NewRedisPublisher(cfg config.MessagingConfig, log *zap.Logger) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.Brokers[0],
		ClientName: cfg.ClientID,
		MaxRetries: 1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis not available yet", zap.String("addr", cfg.Brokers[0]), zap.Error(err))
	} else {
		log.Info("redis connected", zap.String("addr", cfg.Brokers[0]))
	}
	cancel()

	return &RedisPublisher{client: client, channel: cfg.Topic, log: log}
}

func (p *RedisPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	pipe := p.client.TxPipeline()
	pipe.Publish(ctx, p.channel, payload)
	pipe.Set(ctx, p.channel+":last:"+key, payload, lastTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
