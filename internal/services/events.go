package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gamestore-web/apiserver/internal/logging"
)

// Event channels published by the services.
const (
	EventUserRegistered = "user.registered"
	EventCopyPurchased  = "copy.purchased"
	EventMediaUploaded  = "media.uploaded"
)

// EventPublisher sends domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// publishEvent emits payload as JSON on channel. Delivery is best effort: a
// failed publish is logged and never fails the calling operation.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *slog.Logger, channel string, payload any) {
	if publisher == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		logging.LogError(logger, "encode event failed", err)
		return
	}
	attrs := map[string]string{"content-type": "application/json", "event": channel}
	if _, err := publisher.Publish(ctx, channel, data, attrs); err != nil {
		logging.LogError(logger, "publish event failed", err)
	}
}
