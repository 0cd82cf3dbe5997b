package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sifan077/LinkShelf/config"
)

const defaultDialTimeout = 5 * time.Second

// NewPool creates a pgx connection pool using the provided config and verifies
// connectivity. The pool backs the health endpoint's database probe.
func NewPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(dialCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return pool, nil
}

// PoolConfig parses the connection string and applies the optional pool tuning.
func PoolConfig(cfg config.PostgresConfig) (*pgxpool.Config, error) {
	if cfg.URL == "" {
		return nil, config.ErrMissingDatabaseURL
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"max_conn_lifetime", cfg.MaxConnLifetime, &poolCfg.MaxConnLifetime},
		{"max_conn_idle_time", cfg.MaxConnIdleTime, &poolCfg.MaxConnIdleTime},
		{"health_check_period", cfg.HealthCheckPeriod, &poolCfg.HealthCheckPeriod},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return nil, fmt.Errorf("postgres: invalid %s %q: %w", d.name, d.value, err)
		}
		*d.dst = parsed
	}

	return poolCfg, nil
}
