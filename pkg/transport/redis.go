package transport

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of redis.UniversalClient used by RedisStore.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL expires entries after d. Default: no expiration.
func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = d
	}
}

// WithKeyPrefix namespaces keys. Default: "sfap:".
func WithKeyPrefix(p string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = p
	}
}

// RedisStore is a Store backed by Redis strings.
type RedisStore struct {
	client RedisClient
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client RedisClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: "sfap:"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.prefix+key, value, s.ttl).Err()
}

// RedisConfig holds connection parameters.
type RedisConfig struct {
	URL           string        `yaml:"url" env:"REDIS_URL"`
	PoolSize      int           `yaml:"pool_size" env:"REDIS_POOL_SIZE" envDefault:"10"`
	RetryAttempts int           `yaml:"retry_attempts" env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `yaml:"retry_interval" env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	TTL           time.Duration `yaml:"ttl" env:"REDIS_TTL"`
}

// OpenRedis connects to the server at cfg.URL (redis:// or rediss://),
// retrying with a linearly growing delay.
func OpenRedis(ctx context.Context, cfg RedisConfig) (redis.UniversalClient, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(cfg.URL, "redis://") && !strings.HasPrefix(cfg.URL, "rediss://") {
		return nil, ErrFailedToParseURL
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	for i := range max(cfg.RetryAttempts, 1) {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		if waitErr := wait(ctx, time.Duration(i+1)*cfg.RetryInterval); waitErr != nil {
			return nil, errors.Join(ErrConnectionFailed, waitErr)
		}
	}
	return nil, ErrConnectionFailed
}

// RedisHealthcheck validates connectivity for health endpoints.
func RedisHealthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
