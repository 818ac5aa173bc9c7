package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/dmitrymomot/sfap/middlewares"
	"github.com/dmitrymomot/sfap/pkg/devserver"
	"github.com/dmitrymomot/sfap/pkg/logger"
	"github.com/dmitrymomot/sfap/pkg/resource"
	"github.com/dmitrymomot/sfap/pkg/transport"
)

// newLogger builds the process logger. Records go to Sentry as well when a
// DSN is configured. Debug forces the debug level.
func newLogger(cfg Config) (*slog.Logger, error) {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}
	opts := logger.Options{
		Output: os.Stderr,
		Level:  level,
		Format: logger.Format(cfg.Log.Format),
	}
	return logger.NewWithSentry(cfg.Sentry, opts, middlewares.NavigationIDExtractor()), nil
}

// source is an opened resource transport with the resources it holds.
type source struct {
	transport resource.Transport
	checks    map[string]devserver.CheckFunc
	closers   []func(context.Context) error
}

func (s *source) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openSource connects the configured transport and, when enabled, the Redis
// cache in front of it.
func openSource(ctx context.Context, cfg Config, log *slog.Logger) (*source, error) {
	src := &source{checks: make(map[string]devserver.CheckFunc)}

	switch cfg.Source.Kind {
	case SourceHTTP:
		t, err := transport.NewHTTP(cfg.Source.URL)
		if err != nil {
			return nil, err
		}
		src.transport = t
	case SourceS3:
		t, err := transport.NewS3(cfg.S3)
		if err != nil {
			return nil, err
		}
		src.transport = t
	case SourcePostgres:
		pool, err := transport.ConnectPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		src.transport = transport.NewPostgres(pool)
		src.checks["postgres"] = transport.PostgresHealthcheck(pool)
		src.closers = append(src.closers, func(context.Context) error {
			pool.Close()
			return nil
		})
	default:
		src.transport = transport.Dir(cfg.Source.Dir)
	}

	if cfg.Source.Cache {
		client, err := transport.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, errors.Join(err, src.Close(ctx))
		}
		store := transport.NewRedisStore(client, transport.WithTTL(cfg.Redis.TTL))
		src.transport = transport.Cached(src.transport, store, transport.WithCacheLogger(log))
		src.checks["redis"] = transport.RedisHealthcheck(client)
		src.closers = append(src.closers, func(context.Context) error {
			return client.Close()
		})
	}

	log.Debug("source opened",
		slog.String("kind", cfg.Source.Kind),
		slog.Bool("cache", cfg.Source.Cache),
	)
	return src, nil
}
