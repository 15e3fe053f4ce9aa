package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/magnitronlab/preorder-bot/core/logger"
)

// RunMigrations applies all up migrations from cfg.MigrationsDir.
func RunMigrations(ctx context.Context, cfg Config) error {
	if err := WaitForPostgres(ctx, cfg.DSN(), 30*time.Second); err != nil {
		logger.MIG.Error("db not ready",
			slog.String("event", "db.migrate"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("database not ready: %w", err)
	}

	dir, err := filepath.Abs(cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("resolve migrations dir: %w", err)
	}

	files := listMigrationFiles(dir)
	preview, truncated := logger.SummarizeStrings(files, 6)
	logger.MIG.Debug("migrations resolved",
		slog.String("event", "resolve"),
		slog.String("path", dir),
		slog.Int("files_total", len(files)),
		slog.String("files_preview", preview),
		slog.Bool("files_truncated", truncated),
	)

	m, err := migrate.New("file://"+filepath.ToSlash(dir), cfg.URL())
	if err != nil {
		logger.MIG.Error("init failed",
			slog.String("event", "db.migrate"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer m.Close()

	fromVer, _, _ := m.Version()

	start := time.Now()
	upErr := m.Up()
	took := time.Since(start)

	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		logger.MIG.Error("migration failed",
			slog.String("event", "apply"),
			slog.String("err", upErr.Error()),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return fmt.Errorf("migration execution failed: %w", upErr)
	}

	toVer, _, _ := m.Version()
	logger.MIG.Info("migrations summary",
		slog.String("event", "summary"),
		slog.Uint64("from_ver", uint64(fromVer)),
		slog.Uint64("to_ver", uint64(toVer)),
		slog.Int("files", countApplied(files, uint64(fromVer), uint64(toVer))),
		slog.Duration("duration", logger.RoundMS(took)),
	)
	return nil
}

func listMigrationFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func countApplied(files []string, from, to uint64) int {
	c := 0
	for _, f := range files {
		var v uint64
		if _, err := fmt.Sscanf(f, "%d_", &v); err != nil {
			continue
		}
		if v > from && v <= to {
			c++
		}
	}
	return c
}
