package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 同じ冪等キーの注文確定が同時に走らないようにするガード
type IdempotencyGuard interface {
	// 取れたらtrue。既に誰かが持っていればfalse。
	Acquire(ctx context.Context, userID int64, key string) (bool, error)
	// 失敗した注文確定のあとで再送できるように外す
	Release(ctx context.Context, userID int64, key string) error
}

const idempotencyTTL = 24 * time.Hour

type RedisIdempotencyGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisIdempotencyGuard(rdb *redis.Client) *RedisIdempotencyGuard {
	return &RedisIdempotencyGuard{rdb: rdb, ttl: idempotencyTTL}
}

func idempotencyKey(userID int64, key string) string {
	return fmt.Sprintf("idempotent-key:%d:%s", userID, key)
}

func (g *RedisIdempotencyGuard) Acquire(ctx context.Context, userID int64, key string) (bool, error) {
	ok, err := g.rdb.SetNX(ctx, idempotencyKey(userID, key), "exists", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (g *RedisIdempotencyGuard) Release(ctx context.Context, userID int64, key string) error {
	if err := g.rdb.Del(ctx, idempotencyKey(userID, key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// REDIS_ADDR未設定のとき用。DBのユニーク制約だけで重複を防ぐ。
type NoopIdempotencyGuard struct{}

func (NoopIdempotencyGuard) Acquire(context.Context, int64, string) (bool, error) { return true, nil }
func (NoopIdempotencyGuard) Release(context.Context, int64, string) error         { return nil }
