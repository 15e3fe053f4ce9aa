package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDisabledSkipsValidation(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Normalize())
	assert.Empty(t, cfg.Port)
}

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := Config{Enabled: true, Host: "db", User: "bot", Password: "p@ss", Name: "orders"}
	require.NoError(t, cfg.Normalize())
	assert.Equal(t, "5432", cfg.Port)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Equal(t, "postgres://bot:p%40ss@db:5432/orders?sslmode=disable", cfg.URL())
	assert.Equal(t, "user=bot password=p@ss host=db port=5432 dbname=orders sslmode=disable", cfg.DSN())
}

func TestNormalizeRequiresHost(t *testing.T) {
	cfg := Config{Enabled: true, Name: "orders", User: "bot"}
	assert.Error(t, cfg.Normalize())
}

func TestCountApplied(t *testing.T) {
	files := []string{"0001_create_orders.up.sql", "0002_orders_index.up.sql", "notes.up.sql"}
	assert.Equal(t, 2, countApplied(files, 0, 2))
	assert.Equal(t, 1, countApplied(files, 1, 2))
	assert.Equal(t, 0, countApplied(files, 2, 2))
}
