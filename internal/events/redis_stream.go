package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// RedisStreamPublisher appends events to a Redis stream with XADD
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64 // approximate cap on stream length, 0 = unbounded
}

func NewRedisStreamPublisher(client *redis.Client, stream string, maxLen int64) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, stream: stream, maxLen: maxLen}
}

func (p *RedisStreamPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"type":      ev.Type,
			"entity_id": strconv.FormatInt(ev.EntityID, 10),
			"data":      string(data),
			"timestamp": strconv.FormatInt(ev.OccurredAt.Unix(), 10),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

// Close leaves the client open; it is shared with the store
func (p *RedisStreamPublisher) Close() error { return nil }
