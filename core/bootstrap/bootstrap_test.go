package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/magnitronlab/preorder-bot/core/config"
	coredatabase "github.com/magnitronlab/preorder-bot/core/database"
)

func TestRunSkipsDatabaseWhenDisabled(t *testing.T) {
	var steps []string
	res, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: func(*coreconfig.Config) error { steps = append(steps, "logger"); return nil },
		Connect: func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
			steps = append(steps, "connect")
			return nil, nil
		},
		Migrate: func(context.Context, coredatabase.Config) error { steps = append(steps, "migrate"); return nil },
		Wait:    func(context.Context, coredatabase.Config) error { steps = append(steps, "wait"); return nil },
	})
	require.NoError(t, err)
	assert.Nil(t, res.DB)
	assert.NoError(t, res.Close())
	assert.Equal(t, []string{"logger"}, steps)
}

func TestRunMigratesBeforeConnecting(t *testing.T) {
	var steps []string
	_, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		Database:   coredatabase.Config{Enabled: true},
		LoggerInit: func(*coreconfig.Config) error { return nil },
		Wait:       func(context.Context, coredatabase.Config) error { steps = append(steps, "wait"); return nil },
		Connect: func(context.Context, coredatabase.Config) (*sqlx.DB, error) {
			steps = append(steps, "connect")
			return nil, errors.New("refused")
		},
		Migrate: func(context.Context, coredatabase.Config) error { steps = append(steps, "migrate"); return nil },
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "database initialization failed")
	assert.Equal(t, []string{"wait", "migrate", "connect"}, steps)
}

func TestRunStopsWhenDatabaseNeverComesUp(t *testing.T) {
	migrated := false
	_, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		Database:   coredatabase.Config{Enabled: true},
		LoggerInit: func(*coreconfig.Config) error { return nil },
		Wait:       func(context.Context, coredatabase.Config) error { return errors.New("timeout") },
		Migrate:    func(context.Context, coredatabase.Config) error { migrated = true; return nil },
	})
	assert.ErrorContains(t, err, "database unavailable")
	assert.False(t, migrated)
}

func TestRunRequiresConfig(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	assert.Error(t, err)
}
