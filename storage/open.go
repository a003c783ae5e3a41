package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Options configures Open. Only the fields of the chosen driver are read.
type Options struct {
	Key        string
	Pool       *pgxpool.Pool // postgres
	SQLitePath string        // sqlite
	S3         S3Config      // s3
}

// Open returns the persister for driver.
func Open(ctx context.Context, driver Driver, opts Options) (Persister, error) {
	switch driver {
	case DriverPostgres:
		if opts.Pool == nil {
			return nil, fmt.Errorf("postgres driver needs a connection pool")
		}
		p := NewPostgres(opts.Pool, opts.Key)
		if err := p.EnsureTable(ctx); err != nil {
			return nil, fmt.Errorf("ensure menu_state: %w", err)
		}
		return p, nil
	case DriverSQLite:
		return OpenSQLite(opts.SQLitePath, opts.Key)
	case DriverS3:
		cfg := opts.S3
		if cfg.Key == "" && opts.Key != "" {
			cfg.Key = opts.Key + ".json"
		}
		return NewS3(ctx, cfg)
	case DriverMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}
