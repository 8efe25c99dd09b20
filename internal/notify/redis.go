package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/donaldgifford/slash/internal/metrics"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// redisStreamField is the stream entry field holding the JSON batch.
const redisStreamField = "alert"

// RedisNotifier implements Notifier by appending each batch to a Redis stream
// for downstream consumers.
type RedisNotifier struct {
	client redis.Cmdable
	stream string
	maxLen int64
	now    func() time.Time
}

// NewRedisNotifier creates a notifier writing to stream, trimmed to roughly
// maxLen entries.
func NewRedisNotifier(client redis.Cmdable, stream string, maxLen int64) *RedisNotifier {
	return &RedisNotifier{
		client: client,
		stream: stream,
		maxLen: maxLen,
		now:    time.Now,
	}
}

// StreamMessage is the JSON document stored in each stream entry.
type StreamMessage struct {
	Recipient string             `json:"recipient"`
	Subject   string             `json:"subject"`
	Items     []domain.AlertItem `json:"items"`
	SentAt    time.Time          `json:"sent_at"`
}

// Notify implements Notifier.
func (r *RedisNotifier) Notify(ctx context.Context, recipient string, items []domain.AlertItem) error {
	start := time.Now()
	defer func() {
		metrics.NotificationDuration.WithLabelValues("redis").Observe(time.Since(start).Seconds())
	}()

	if items == nil {
		items = []domain.AlertItem{}
	}

	payload, err := json.Marshal(StreamMessage{
		Recipient: recipient,
		Subject:   subject(items),
		Items:     items,
		SentAt:    r.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshaling alert batch: %w", err)
	}

	err = r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLen,
		Approx: true,
		Values: map[string]any{redisStreamField: payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("appending to stream %s: %w", r.stream, err)
	}
	return nil
}
