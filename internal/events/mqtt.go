package events

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/xelth-com/drawerscan/internal/config"
)

const mqttConnectTimeout = 10 * time.Second

// MQTTPublisher publishes to an MQTT broker with QoS 1
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
	log    *zap.Logger
}

// NewMQTTPublisher connects to the first reachable broker in cfg.Brokers
func NewMQTTPublisher(cfg config.MessagingConfig, log *zap.Logger) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectTimeout(mqttConnectTimeout).
		SetOnConnectHandler(func(mqtt.Client) {
			log.Info("mqtt connected", zap.Strings("brokers", cfg.Brokers))
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn("mqtt connection lost", zap.Error(err))
		})
	for _, b := range cfg.Brokers {
		opts.AddBroker(b)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		// ConnectRetry keeps trying in the background
		log.Warn("mqtt broker not reachable yet", zap.Strings("brokers", cfg.Brokers))
	} else if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}

	return &MQTTPublisher{client: client, topic: cfg.Topic, log: log}, nil
}

// Publish sends payload to the topic. The key is appended as a subtopic.
func (p *MQTTPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	topic := p.topic
	if key != "" {
		topic = topic + "/" + key
	}
	token := p.client.Publish(topic, 1, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects after letting in-flight work finish
func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}
