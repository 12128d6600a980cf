package mq

import (
	"context"

	"github.com/google/uuid"
)

// Nop discards published messages. It is used when no broker is
// configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return uuid.NewString(), nil
}

// Subscribe blocks until ctx is done; nothing is ever delivered.
func (Nop) Subscribe(ctx context.Context, channel string, handler Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (Nop) Close() error { return nil }
