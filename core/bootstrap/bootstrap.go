package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/magnitronlab/preorder-bot/core/config"
	coredatabase "github.com/magnitronlab/preorder-bot/core/database"
	"github.com/magnitronlab/preorder-bot/core/logger"
)

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config   *coreconfig.Config
	Database coredatabase.Config

	LoggerInit func(*coreconfig.Config) error
	// Wait blocks until the database accepts connections; default polls for DatabaseWait.
	Wait       func(context.Context, coredatabase.Config) error
	Connect    func(context.Context, coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(context.Context, coredatabase.Config) error
}

// DatabaseWait bounds how long startup waits for Postgres to come up.
const DatabaseWait = 30 * time.Second

// Result exposes infrastructure initialized by the bootstrap pipeline.
// DB is nil when the database is disabled.
type Result struct {
	DB *sqlx.DB
}

// Close releases the resources held by the result.
func (r *Result) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

// Run initializes the logger and, when enabled, waits for the database, applies migrations and connects.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	if !opts.Database.Enabled {
		return &Result{}, nil
	}

	wait := opts.Wait
	if wait == nil {
		wait = func(ctx context.Context, cfg coredatabase.Config) error {
			return coredatabase.WaitForPostgres(ctx, cfg.DSN(), DatabaseWait)
		}
	}
	if err := wait(ctx, opts.Database); err != nil {
		return nil, fmt.Errorf("bootstrap: database unavailable: %w", err)
	}

	migrate := opts.Migrate
	if migrate == nil {
		migrate = coredatabase.RunMigrations
	}
	if err := migrate(ctx, opts.Database); err != nil {
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}

	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
	}
	db, err := connect(ctx, opts.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}
	return &Result{DB: db}, nil
}
