package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock はジョブ名をキーにしたRedis上の排他ロックです。
// リフレッシュやアップサートのジョブが自分自身と並行実行されるのを防ぎます。
// TTLはプロセスがクラッシュしたままロックが残り続けるのを防ぐ保険です。
type Lock struct {
	rdb    *redis.Client
	prefix string
}

// NewLock creates a Lock with the given key prefix.
// If prefix is empty, "joblock" is used.
func NewLock(rdb *redis.Client, prefix string) *Lock {
	if prefix == "" {
		prefix = "joblock"
	}
	return &Lock{rdb: rdb, prefix: prefix}
}

func (l *Lock) key(name string) string {
	return l.prefix + ":" + name
}

// Acquire tries to take the lock for the named job.
// It returns false if another invocation already holds it.
func (l *Lock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return l.rdb.SetNX(ctx, l.key(name), "1", ttl).Result()
}

// Release drops the lock for the named job.
func (l *Lock) Release(ctx context.Context, name string) error {
	return l.rdb.Del(ctx, l.key(name)).Err()
}
