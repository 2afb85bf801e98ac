package worker

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupKeyPrefix = "home_maintenance:reminder:"

// RedisDeduper хранит отметки об отправке в Redis с TTL.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

// MarkOnce возвращает true только для первого вызова с данным ключом.
func (d *RedisDeduper) MarkOnce(ctx context.Context, key string) (bool, error) {
	return d.client.SetNX(ctx, dedupKeyPrefix+key, time.Now().Unix(), d.ttl).Result()
}

func (d *RedisDeduper) Forget(ctx context.Context, key string) error {
	return d.client.Del(ctx, dedupKeyPrefix+key).Err()
}
