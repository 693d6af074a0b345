package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Channel is the redis pub/sub channel carrying inventory events.
const Channel = "inventory:events"

const (
	EventDressSaved      = "dress.saved"
	EventDressDeleted    = "dress.deleted"
	EventDesignerSaved   = "designer.saved"
	EventDesignerDeleted = "designer.deleted"
)

type InventoryEvent struct {
	Type string    `json:"type"`
	ID   uuid.UUID `json:"id"`
	At   time.Time `json:"at"`
}

// Publisher broadcasts inventory changes to connected staff clients.
type Publisher interface {
	Publish(ctx context.Context, eventType string, id uuid.UUID)
}

type publisher struct {
	redisClient *redis.Client
	now         func() time.Time
}

// NewPublisher returns a redis-backed Publisher. A nil client makes Publish a no-op.
func NewPublisher(redisClient *redis.Client) Publisher {
	return &publisher{redisClient: redisClient, now: time.Now}
}

func (p *publisher) Publish(ctx context.Context, eventType string, id uuid.UUID) {
	if p.redisClient == nil {
		return
	}

	payload, err := json.Marshal(InventoryEvent{Type: eventType, ID: id, At: p.now().UTC()})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode inventory event", "type", eventType, "error", err)
		return
	}

	if err := p.redisClient.Publish(ctx, Channel, payload).Err(); err != nil {
		slog.WarnContext(ctx, "failed to publish inventory event", "type", eventType, "id", id, "error", err)
	}
}
