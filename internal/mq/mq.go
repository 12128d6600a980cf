// Package mq publishes and consumes domain events over a message broker.
package mq

import (
	"context"
	"log/slog"

	"github.com/gamestore-web/apiserver/config"
	"github.com/samber/oops"
)

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// MQ wraps a backend and logs every publish.
type MQ struct {
	backend Backend
	logger  *slog.Logger
}

// New constructs an MQ wrapper for the provided backend.
func New(backend Backend, logger *slog.Logger) *MQ {
	return &MQ{backend: backend, logger: logger}
}

// Open connects the backend named by cfg.MQBackend.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*MQ, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.MQBackend {
	case "", config.MQNone:
		backend = Nop{}
	case config.MQRabbitMQ:
		backend, err = NewRabbitMQClient(cfg.RabbitMQ)
	case config.MQPubSub:
		backend, err = NewPubSubClient(ctx, cfg.PubSub)
	default:
		return nil, oops.Code("MQ_UNKNOWN_BACKEND").With("backend", cfg.MQBackend).Errorf("unknown mq backend %q", cfg.MQBackend)
	}
	if err != nil {
		return nil, oops.Code("MQ_CONNECT_FAILED").With("backend", cfg.MQBackend).Wrap(err)
	}
	logger.Info("message queue ready", "backend", cfg.MQBackend)
	return New(backend, logger), nil
}

// Publish sends a message to the named channel.
func (m *MQ) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	id, err := m.backend.Publish(ctx, channel, data, attrs)
	if err != nil {
		return "", oops.Code("MQ_PUBLISH_FAILED").With("channel", channel).Wrap(err)
	}
	m.logger.Debug("event published", "channel", channel, "message_id", id, "bytes", len(data))
	return id, nil
}

// Subscribe consumes messages from the named channel until ctx is done.
func (m *MQ) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return m.backend.Subscribe(ctx, channel, handler)
}

// Close closes the underlying backend.
func (m *MQ) Close() error {
	return m.backend.Close()
}
