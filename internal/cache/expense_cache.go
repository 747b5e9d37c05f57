package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "github.com/akshay911-01/dbms-proj/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyListPrefix = "expense:list:"

// ExpenseCache caches per-user expense lists in Redis. Keys are scoped by
// owner ID so one user's writes never evict another user's entries.
type ExpenseCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewExpenseCache returns a new ExpenseCache.
func NewExpenseCache(rdb *redis.Client, ttl time.Duration) *ExpenseCache {
	return &ExpenseCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list for ownerID, or nil on miss.
func (c *ExpenseCache) GetList(ctx context.Context, ownerID int64) ([]dom.Expense, error) {
	b, err := c.rdb.Get(ctx, listKey(ownerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Expense
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list for ownerID. A nil list is stored as an empty
// one: GetList reports misses as nil, so an owner with zero expenses must
// round-trip to a non-nil empty slice to count as a hit.
func (c *ExpenseCache) SetList(ctx context.Context, ownerID int64, list []dom.Expense) error {
	if list == nil {
		list = []dom.Expense{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(ownerID), b, c.ttl).Err()
}

// Invalidate drops the cached list for ownerID (cache invalidation on write).
func (c *ExpenseCache) Invalidate(ctx context.Context, ownerID int64) error {
	return c.rdb.Del(ctx, listKey(ownerID)).Err()
}

func listKey(ownerID int64) string {
	return keyListPrefix + strconv.FormatInt(ownerID, 10)
}
