package mq

import (
	"context"
	"encoding/json"
	"log"

	"smartkop/models"

	"github.com/redis/go-redis/v9"
)

const channel = "catalog-events"

// Emitter publishes catalog mutation events to Redis pub/sub. Publishing is
// best-effort: a nil or unreachable Redis never fails the request.
type Emitter struct {
	Conn *redis.Client
}

func (e *Emitter) Emit(ctx context.Context, eventName string, content models.Index) {
	if e == nil || e.Conn == nil {
		return
	}

	data, err := json.Marshal(map[string]any{"event": eventName, "index": content})
	if err != nil {
		log.Printf("mq: failed to marshal event %s: %v", eventName, err)
		return
	}

	if err := e.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("mq: failed to publish %s: %v", eventName, err)
	}
}
