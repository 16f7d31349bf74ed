package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/wastemap/platform-api/internal/core/ports"
)

// reportsChannel is the pub/sub channel clients subscribe to for refresh
// hints. Events carry report ids, never authoritative state.
const reportsChannel = "wastemap:reports"

// Publisher pushes report events onto the Redis pub/sub channel.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish marshals the event and sends it to the reports channel. Delivery is
// fire-and-forget: there is no acknowledgement from subscribers.
func (p *Publisher) Publish(ctx context.Context, event ports.ReportEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, reportsChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
