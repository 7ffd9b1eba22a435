// Package hold keeps short-lived seat reservations in Redis so that two
// operators do not pick the same seat while both checkouts are open.
package hold

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes each key only while it still belongs to the
// caller, so an expired and re-acquired hold is never removed by its
// previous owner.
var releaseScript = redis.NewScript(`
local n = 0
for i, k in ipairs(KEYS) do
  if redis.call("GET", k) == ARGV[1] then
    n = n + redis.call("DEL", k)
  end
end
return n
`)

// Redis implements checkout.Holder.  Keys are <prefix>:<session>:<seat>
// and hold the owning checkout id.
type Redis struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(rdb *redis.Client, prefix string, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, prefix: strings.TrimSuffix(prefix, ":"), ttl: ttl}
}

func (h *Redis) key(sessionID uint64, seat string) string {
	return fmt.Sprintf("%s:%d:%s", h.prefix, sessionID, seat)
}

// Acquire claims a seat for owner.  Re-acquiring an own hold extends it.
func (h *Redis) Acquire(ctx context.Context, sessionID uint64, seat, owner string) (bool, error) {
	k := h.key(sessionID, seat)
	ok, err := h.rdb.SetNX(ctx, k, owner, h.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("hold %s: %w", k, err)
	}
	if ok {
		return true, nil
	}
	cur, err := h.rdb.Get(ctx, k).Result()
	switch {
	case err == redis.Nil:
		// expired between SETNX and GET
		return h.rdb.SetNX(ctx, k, owner, h.ttl).Result()
	case err != nil:
		return false, fmt.Errorf("hold %s: %w", k, err)
	case cur != owner:
		return false, nil
	}
	if err := h.rdb.Expire(ctx, k, h.ttl).Err(); err != nil {
		return false, fmt.Errorf("hold %s: %w", k, err)
	}
	return true, nil
}

// Release drops the holds owner has on seats.  Holds of other owners are
// left untouched.
func (h *Redis) Release(ctx context.Context, sessionID uint64, owner string, seats ...string) error {
	if len(seats) == 0 {
		return nil
	}
	keys := make([]string, len(seats))
	for i, s := range seats {
		keys[i] = h.key(sessionID, s)
	}
	if err := releaseScript.Run(ctx, h.rdb, keys, owner).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release holds: %w", err)
	}
	return nil
}

// HeldByOthers lists the seats of a session held by anyone but owner.
func (h *Redis) HeldByOthers(ctx context.Context, sessionID uint64, owner string) ([]string, error) {
	prefix := fmt.Sprintf("%s:%d:", h.prefix, sessionID)
	var keys []string
	iter := h.rdb.Scan(ctx, 0, prefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan holds: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	vals, err := h.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read holds: %w", err)
	}
	var seats []string
	for i, v := range vals {
		s, ok := v.(string)
		if !ok || s == owner {
			continue
		}
		seats = append(seats, strings.TrimPrefix(keys[i], prefix))
	}
	return seats, nil
}
