package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"anoa.com/weddingsalon/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_NilRedisIsNoop(t *testing.T) {
	p := NewPublisher(nil)
	assert.NotPanics(t, func() {
		p.Publish(context.Background(), EventDressSaved, uuid.New())
	})
}

func TestPublisher_DeliversToSubscribers(t *testing.T) {
	_, rdb := testutil.NewRedis(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, Channel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	at := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	p := &publisher{redisClient: rdb, now: func() time.Time { return at }}
	id := uuid.New()
	p.Publish(ctx, EventDressDeleted, id)

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, Channel, msg.Channel)
		var event InventoryEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, EventDressDeleted, event.Type)
		assert.Equal(t, id, event.ID)
		assert.True(t, at.Equal(event.At))
	case <-time.After(2 * time.Second):
		t.Fatal("no inventory event received")
	}
}
