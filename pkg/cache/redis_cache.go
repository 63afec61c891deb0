// -----------------------------------------------------------------------------
// Redis Cache Driver
// -----------------------------------------------------------------------------
// Redis-based cache implementation. Birden fazla uygulama instance'ı aynı
// plan cache'ini paylaşacaksa önerilen driver.
//
// Her operasyon context.WithTimeout ile sınırlandırılır. Key'ler prefix ile
// namespace'lenir; Flush sadece o namespace'i temizler.
// -----------------------------------------------------------------------------

package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/ceopag/eloquence-base/pkg/logger"
)

const redisTimeout = 3 * time.Second

// RedisCache, Redis-based cache implementation.
type RedisCache struct {
	client redis.UniversalClient
	logger *logger.Logger
	prefix string
}

// NewRedisCache, yeni bir Redis cache oluşturur.
//
// Parametreler:
//   - client: go-redis client (redis.NewClient veya NewRedisClient ile)
//   - log: Log instance (nil ise logger.Default())
//   - prefix: Cache key prefix, örn: "eloquence:"
//
// Örnek:
//
//	store := cache.NewRedisCache(client, log, "eloquence:")
//	store.Set("joins:Event:INNER:venue", payload, 10*time.Minute)
//	// Gerçek key: "eloquence:joins:Event:INNER:venue"
func NewRedisCache(client redis.UniversalClient, log *logger.Logger, prefix string) *RedisCache {
	if log == nil {
		log = logger.Default()
	}
	return &RedisCache{client: client, logger: log, prefix: prefix}
}

func (r *RedisCache) prefixKey(key string) string {
	return r.prefix + key
}

// Get, cache'den veri okur.
func (r *RedisCache) Get(key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, r.prefixKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "redis get %s", key)
	}
	return val, true, nil
}

// Set, cache'e veri yazar.
func (r *RedisCache) Set(key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.prefixKey(key), value, ttl).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", key)
	}
	return nil
}

// Delete, cache'den veri siler.
func (r *RedisCache) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := r.client.Del(ctx, r.prefixKey(key)).Err(); err != nil {
		return errors.Wrapf(err, "redis delete %s", key)
	}
	return nil
}

// Has, key'in varlığını kontrol eder.
func (r *RedisCache) Has(key string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	n, err := r.client.Exists(ctx, r.prefixKey(key)).Result()
	if err != nil {
		return false, errors.Wrapf(err, "redis exists %s", key)
	}
	return n > 0, nil
}

// Remember, cache'den okur veya callback'i çalıştırıp cache'ler. Okuma
// hatası callback'i engellemez; sadece loglanır.
func (r *RedisCache) Remember(key string, ttl time.Duration, callback func() ([]byte, error)) ([]byte, error) {
	val, ok, err := r.Get(key)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("remember: cache read failed")
	}
	if ok {
		return val, nil
	}

	result, err := callback()
	if err != nil {
		return nil, err
	}

	if err := r.Set(key, result, ttl); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("remember: cache write failed")
	}
	return result, nil
}

// Flush, prefix altındaki tüm key'leri temizler. Prefix yoksa tüm database
// temizlenir (FlushDB).
func (r *RedisCache) Flush() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if r.prefix == "" {
		if err := r.client.FlushDB(ctx).Err(); err != nil {
			return errors.Wrap(err, "redis flushdb")
		}
		r.logger.Warn().Msg("redis database flushed")
		return nil
	}

	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "redis scan")
	}

	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return errors.Wrap(err, "redis flush")
		}
	}

	r.logger.Debug().Str("prefix", r.prefix).Int("keys", len(keys)).Msg("redis cache flushed")
	return nil
}
