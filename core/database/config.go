package database

import (
	"fmt"
	"net/url"
	"strings"
)

// Config holds the optional Postgres connection used to mirror completed orders.
type Config struct {
	Enabled        bool   `yaml:"enabled" envconfig:"DB_ENABLED"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
	// MigrationsDir is resolved relative to the working directory; default "migrations".
	MigrationsDir string `yaml:"migrations_dir" envconfig:"DB_MIGRATIONS_DIR"`
}

// Normalize fills defaults and validates required fields when the database is enabled.
func (c *Config) Normalize() error {
	if !c.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Host) == "" || strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.User) == "" {
		return fmt.Errorf("database.host, database.name and database.user are required when database.enabled is true")
	}
	if c.Port == "" {
		c.Port = "5432"
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.MaxConnections <= 0 {
		c.MaxConnections = 4
	}
	if c.MigrationsDir == "" {
		c.MigrationsDir = "migrations"
	}
	return nil
}

// DSN returns the key/value connection string understood by lib/pq.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// URL returns the postgres:// form required by golang-migrate.
func (c Config) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}
