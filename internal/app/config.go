package app

import (
	"fmt"
	"strings"

	coreconfig "github.com/magnitronlab/preorder-bot/core/config"
	coredatabase "github.com/magnitronlab/preorder-bot/core/database"
)

// DefaultCSVPath is the order log used when none is configured.
const DefaultCSVPath = "orders.csv"

// OrdersConfig locates the order log.
type OrdersConfig struct {
	CSVPath string `yaml:"csv_path" envconfig:"ORDERS_CSV_PATH"`
}

// Session backends.
const (
	SessionsMemory = "memory"
	SessionsRedis  = "redis"
)

// SessionsConfig selects where unfinished dialogues live. The memory backend loses
// them on restart; the redis backend keeps them for TTLMinutes (0 means forever).
type SessionsConfig struct {
	Backend       string `yaml:"backend" envconfig:"SESSIONS_BACKEND"`
	RedisAddr     string `yaml:"redis_addr" envconfig:"REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" envconfig:"REDIS_DB"`
	TTLMinutes    int    `yaml:"ttl_minutes" envconfig:"SESSIONS_TTL_MINUTES"`
}

// Config is the full bot configuration: the shared core sections plus orders and database.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Orders   OrdersConfig        `yaml:"orders"`
	Sessions SessionsConfig      `yaml:"sessions"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig returns the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Normalize validates every section and fills defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	c.Orders.CSVPath = strings.TrimSpace(c.Orders.CSVPath)
	if c.Orders.CSVPath == "" {
		c.Orders.CSVPath = DefaultCSVPath
	}
	switch c.Sessions.Backend = strings.ToLower(strings.TrimSpace(c.Sessions.Backend)); c.Sessions.Backend {
	case "":
		c.Sessions.Backend = SessionsMemory
	case SessionsMemory:
	case SessionsRedis:
		if strings.TrimSpace(c.Sessions.RedisAddr) == "" {
			return fmt.Errorf("sessions.redis_addr is required when sessions.backend is 'redis'")
		}
	default:
		return fmt.Errorf("invalid sessions.backend %q; allowed: memory, redis", c.Sessions.Backend)
	}
	if c.Sessions.TTLMinutes < 0 {
		return fmt.Errorf("sessions.ttl_minutes must be >= 0")
	}
	return c.Database.Normalize()
}

// LoadConfig reads path (may be empty) and the environment into a validated Config.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
