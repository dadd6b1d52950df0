package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pokerloft/chipledger/internal/repos/idempotency"
)

var _ idempotency.Cache = (*snapshotCache)(nil)

// snapshotCache keeps idempotency snapshots in Redis so replayed calls skip
// the durable store. The TTL matches the retention window of the Postgres
// records; a miss here is never an error, just a slower path.
type snapshotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *snapshotCache {
	return &snapshotCache{rdb: rdb, ttl: ttl}
}

func cacheKey(operation, accountID, key string) string {
	return fmt.Sprintf("idem:%s:%s:%s", operation, accountID, key)
}

func (c *snapshotCache) Get(ctx context.Context, operation, accountID, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, cacheKey(operation, accountID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, idempotency.ErrNotFound
		}

		return nil, fmt.Errorf("cache get: %w", err)
	}

	return b, nil
}

func (c *snapshotCache) Set(ctx context.Context, operation, accountID, key string, snapshot []byte) error {
	err := c.rdb.Set(ctx, cacheKey(operation, accountID, key), snapshot, c.ttl).Err()
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	return nil
}
