package transport

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrymomot/sfap/pkg/resource"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	selectResource = `SELECT source FROM sfap_resources WHERE kind = $1 AND path = $2`
	upsertResource = `INSERT INTO sfap_resources (kind, path, source, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (kind, path) DO UPDATE SET source = EXCLUDED.source, updated_at = now()`
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres reads resources from the sfap_resources table.
type Postgres struct {
	db Querier
}

// NewPostgres creates a transport over db. Run Migrate first.
func NewPostgres(db Querier) *Postgres {
	return &Postgres{db: db}
}

func (t *Postgres) Fetch(ctx context.Context, kind resource.Kind, path string) ([]byte, error) {
	var src []byte
	err := t.db.QueryRow(ctx, selectResource, kind.String(), path).Scan(&src)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", resource.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Put stores source under kind and path, replacing any previous version.
func (t *Postgres) Put(ctx context.Context, kind resource.Kind, path string, source []byte) error {
	_, err := t.db.Exec(ctx, upsertResource, kind.String(), path, source)
	return err
}

// PostgresConfig holds connection parameters.
type PostgresConfig struct {
	ConnectionString string        `yaml:"url" env:"DATABASE_CONN_URL"`
	MigrationsTable  string        `yaml:"migrations_table" env:"DATABASE_MIGRATIONS_TABLE" envDefault:"sfap_schema_migrations"`
	MaxConns         int32         `yaml:"max_conns" env:"DATABASE_MAX_CONNS" envDefault:"5"`
	RetryAttempts    int           `yaml:"retry_attempts" env:"DATABASE_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval    time.Duration `yaml:"retry_interval" env:"DATABASE_RETRY_INTERVAL" envDefault:"2s"`
}

// ConnectPostgres opens a pool and verifies it with a ping, retrying with
// a linearly growing delay.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	if cfg.ConnectionString == "" {
		return nil, ErrEmptyConnectionURL
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	for i := range max(cfg.RetryAttempts, 1) {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		if waitErr := wait(ctx, time.Duration(i+1)*cfg.RetryInterval); waitErr != nil {
			return nil, errors.Join(ErrConnectionFailed, waitErr)
		}
	}
	return nil, ErrConnectionFailed
}

// Migrate creates or upgrades the resource table. goose keeps its
// configuration in package state, so concurrent calls are not supported.
func Migrate(ctx context.Context, pool *pgxpool.Pool, table string, log *slog.Logger) error {
	// Shares the pool's connections, so it must not be closed here.
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLogger{log})
	if table != "" {
		goose.SetTableName(table)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}
	return nil
}

// PostgresHealthcheck validates connectivity for health endpoints.
func PostgresHealthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		if pool == nil {
			return ErrHealthcheckFailed
		}
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

type gooseLogger struct {
	log *slog.Logger
}

func (g *gooseLogger) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

// Fatalf only logs; goose returns the error to the caller as well.
func (g *gooseLogger) Fatalf(format string, args ...any) {
	g.log.Error(fmt.Sprintf(format, args...))
}

func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
