package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Lease guards a sweep tick so only one replica runs it.
type Lease interface {
	// Acquire returns a release func when the lease was obtained, or ok=false
	// when someone else holds it.
	Acquire(ctx context.Context) (release func(), ok bool, err error)
}

// releaseScript deletes the key only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLease is a SET NX PX lock on a single key.
type RedisLease struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedisLease(rdb *redis.Client, key string, ttl time.Duration) *RedisLease {
	return &RedisLease{rdb: rdb, key: key, ttl: ttl}
}

func (l *RedisLease) Acquire(ctx context.Context) (func(), bool, error) {
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}

	release := func() {
		_ = releaseScript.Run(context.Background(), l.rdb, []string{l.key}, token).Err()
	}
	return release, true, nil
}
