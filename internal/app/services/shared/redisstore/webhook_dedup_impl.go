package redisstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"paybridge-service/internal/app/contracts"
	"paybridge-service/internal/pkg/constvars"
	"paybridge-service/internal/pkg/exceptions"

	"github.com/redis/go-redis/v9"
)

type webhookDedupStore struct {
	Client *redis.Client
}

var (
	webhookDedupStoreInstance contracts.WebhookDedupStore
	onceWebhookDedupStore     sync.Once
)

func NewWebhookDedupStore(client *redis.Client) contracts.WebhookDedupStore {
	onceWebhookDedupStore.Do(func() {
		webhookDedupStoreInstance = &webhookDedupStore{Client: client}
	})
	return webhookDedupStoreInstance
}

// MarkDelivered records a webhook delivery keyed by gateway transaction id
// and status. It returns false when the same delivery was already seen
// within the retention window, so redelivered notifications can be dropped
// without re-applying their transition.
func (s *webhookDedupStore) MarkDelivered(ctx context.Context, mihpayID, status string, retention time.Duration) (bool, error) {
	key := fmt.Sprintf(constvars.RedisWebhookDedupKeyFormat, mihpayID, status)
	firstSeen, err := s.Client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), retention).Result()
	if err != nil {
		return false, exceptions.ErrRedisOperation(err)
	}
	return firstSeen, nil
}
