package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const runLockKey = "mls-monitor:check-lock"

type Client struct{ Rdb *redis.Client }

func New(addr string, password string, db int) *Client {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	return &Client{Rdb: rdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.Rdb.Ping(ctx).Err()
}

// AcquireRunLock claims the cross-process check lock for the given run. It
// returns false when another process holds it.
func (c *Client) AcquireRunLock(ctx context.Context, runID string, ttl time.Duration) (bool, error) {
	return c.Rdb.SetNX(ctx, runLockKey, runID, ttl).Result()
}

// ReleaseRunLock drops the lock only if this run still owns it.
func (c *Client) ReleaseRunLock(ctx context.Context, runID string) error {
	const script = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
	return c.Rdb.Eval(ctx, script, []string{runLockKey}, runID).Err()
}
