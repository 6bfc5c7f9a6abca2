package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment variables that override the file.
const (
	EnvPort           = "PORT"
	EnvHostname       = "HOSTNAME"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvDBDriver       = "DB_DRIVER"
	EnvAllowedOrigins = "ALLOWED_ORIGINS"
	EnvRedisAddr      = "REDIS_ADDR"
	EnvRedisPassword  = "REDIS_PASSWORD"
	EnvRedisDB        = "REDIS_DB"
	EnvLogLevel       = "LOG_LEVEL"
)

func applyEnv(c *Config, getenv func(string) string) error {
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvPort, err)
		}
		c.Server.Port = port
	}
	if v := getenv(EnvHostname); v != "" {
		c.Server.Host = v
	}
	if v := getenv(EnvAllowedOrigins); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	if v := getenv(EnvDatabaseURL); v != "" {
		driver, dsn := fromDatabaseURL(v)
		if driver != "" {
			c.Storage.Driver = driver
		}
		c.Storage.DSN = dsn
	}
	if v := getenv(EnvDBDriver); v != "" {
		c.Storage.Driver = v
	}

	if v := getenv(EnvRedisAddr); v != "" {
		c.Storage.Redis.Addr = v
	}
	if v := getenv(EnvRedisPassword); v != "" {
		c.Storage.Redis.Password = v
	}
	if v := getenv(EnvRedisDB); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvRedisDB, err)
		}
		c.Storage.Redis.DB = db
	}

	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	return nil
}

// fromDatabaseURL infers the driver from a URL scheme. Postgres takes the
// URL as is; the mysql driver wants its own DSN form after the scheme.
func fromDatabaseURL(url string) (driver, dsn string) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres", url
	case strings.HasPrefix(url, "mysql://"):
		return "mysql", strings.TrimPrefix(url, "mysql://")
	case strings.HasPrefix(url, "sqlite://"):
		return "sqlite", strings.TrimPrefix(url, "sqlite://")
	}
	return "", url
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
