package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"credverify/internal/institution/models"
	id "credverify/pkg/domain"
	"credverify/pkg/platform/sentinel"
)

var cacheLookupDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "credverify_institution_cache_lookup_duration_ms",
	Help:    "Latency of institution cache lookups in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
}, []string{"result"})

const (
	institutionKeyPrefix = "inst:id:"
	DefaultCacheTTL      = 5 * time.Minute
)

// RedisCache is a read-through cache for institution records shared across
// instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisCacheOption func(*RedisCache)

func WithCacheTTL(ttl time.Duration) RedisCacheOption {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func NewRedisCache(client *redis.Client, opts ...RedisCacheOption) *RedisCache {
	c := &RedisCache{client: client, ttl: DefaultCacheTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get returns sentinel.ErrNotFound on a cache miss.
func (c *RedisCache) Get(ctx context.Context, instID id.InstitutionID) (*models.Institution, error) {
	start := time.Now()
	result := "hit"
	defer func() {
		cacheLookupDurationMs.WithLabelValues(result).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	raw, err := c.client.Get(ctx, institutionKeyPrefix+instID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		result = "miss"
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		result = "error"
		return nil, fmt.Errorf("institution cache get: %w", err)
	}
	var inst models.Institution
	if err := json.Unmarshal(raw, &inst); err != nil {
		result = "error"
		return nil, fmt.Errorf("institution cache decode: %w", err)
	}
	return &inst, nil
}

func (c *RedisCache) Set(ctx context.Context, inst *models.Institution) error {
	raw, err := json.Marshal(inst)
	if err != nil {
		return fmt.Errorf("institution cache encode: %w", err)
	}
	return c.client.Set(ctx, institutionKeyPrefix+inst.ID.String(), raw, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, instID id.InstitutionID) error {
	return c.client.Del(ctx, institutionKeyPrefix+instID.String()).Err()
}
