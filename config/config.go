// Package config loads the wall's YAML configuration and applies
// environment overrides on top of it.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/simshi01/thansgiving-day/app/duration"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration. Every field has a default, so an
// empty file (or none) is valid.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Moderation ModerationConfig `yaml:"moderation"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Sweep      SweepConfig      `yaml:"sweep"`
	Sync       SyncConfig       `yaml:"sync"`
	Viewer     ViewerConfig     `yaml:"viewer"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig selects the message store. Driver is one of sqlite, mysql,
// postgres or redis.
type StorageConfig struct {
	Driver string      `yaml:"driver"`
	DSN    string      `yaml:"dsn"`
	Redis  RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ModerationConfig struct {
	MaxLength int `yaml:"max_length"`
}

// ScheduleConfig shapes GET /schedule: one slot per message every Interval,
// each shown for Duration.
type ScheduleConfig struct {
	Interval time.Duration `yaml:"interval"`
	Duration time.Duration `yaml:"duration"`
}

// SweepConfig controls the job that retires old messages.
type SweepConfig struct {
	Cron   string        `yaml:"cron"`
	MaxAge time.Duration `yaml:"max_age"`
}

// SyncConfig sets how far back a websocket sync:request reaches.
type SyncConfig struct {
	ActiveWindow time.Duration `yaml:"active_window"`
}

type ViewerConfig struct {
	Server   string        `yaml:"server"`
	Mode     string        `yaml:"mode"`
	Reload   time.Duration `yaml:"reload"`
	Resync   time.Duration `yaml:"resync"`
	MinDelay time.Duration `yaml:"min_delay"`
	MaxDelay time.Duration `yaml:"max_delay"`
	Fallback []string      `yaml:"fallback"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Viewer modes.
const (
	ModeRotation = "rotation"
	ModeCycle    = "cycle"
)

// Load reads the YAML file at path, applies environment overrides and
// returns a validated Config. An empty path means defaults plus environment.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return parse(data, os.Getenv)
}

// Parse unmarshals YAML bytes into a validated Config, applying overrides
// from the process environment.
func Parse(data []byte) (*Config, error) {
	return parse(data, os.Getenv)
}

func parse(data []byte, getenv func(string) string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := applyEnv(&cfg, getenv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// applyDefaults fills in unset values.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.DSN == "" && c.Storage.Driver == "sqlite" {
		c.Storage.DSN = "thanksgiving.db"
	}
	if c.Storage.Driver == "redis" && c.Storage.Redis.Addr == "" {
		c.Storage.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Moderation.MaxLength == 0 {
		c.Moderation.MaxLength = 300
	}
	if c.Schedule.Interval == 0 {
		c.Schedule.Interval = 5 * time.Second
	}
	if c.Schedule.Duration == 0 {
		c.Schedule.Duration = 4 * time.Second
	}
	if c.Sweep.Cron == "" {
		c.Sweep.Cron = "@every 1m"
	}
	if c.Sweep.MaxAge == 0 {
		c.Sweep.MaxAge = time.Hour
	}
	if c.Sync.ActiveWindow == 0 {
		c.Sync.ActiveWindow = 30 * time.Second
	}
	if c.Viewer.Server == "" {
		c.Viewer.Server = "http://localhost:3000"
	}
	if c.Viewer.Mode == "" {
		c.Viewer.Mode = ModeRotation
	}
	if c.Viewer.Reload == 0 {
		c.Viewer.Reload = 30 * time.Second
	}
	if c.Viewer.Resync == 0 {
		c.Viewer.Resync = time.Minute
	}
	if c.Viewer.MinDelay == 0 && c.Viewer.MaxDelay == 0 {
		c.Viewer.MinDelay = time.Second
		c.Viewer.MaxDelay = 3 * time.Second
	}
	if len(c.Viewer.Fallback) == 0 {
		c.Viewer.Fallback = DefaultFallback
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// validate checks that values are usable.
func (c *Config) validate() error {
	var errs []string
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	switch c.Storage.Driver {
	case "sqlite", "mysql", "postgres":
		if c.Storage.DSN == "" {
			errs = append(errs, fmt.Sprintf("storage.dsn is required for %s", c.Storage.Driver))
		}
	case "redis":
	default:
		errs = append(errs, fmt.Sprintf("storage.driver %q is not one of sqlite, mysql, postgres, redis", c.Storage.Driver))
	}
	if c.Moderation.MaxLength < 1 {
		errs = append(errs, "moderation.max_length must be positive")
	}
	if c.Schedule.Interval < 0 {
		errs = append(errs, "schedule.interval must be positive")
	}
	if lo, hi := duration.ToDuration(duration.Min), duration.ToDuration(duration.Max); c.Schedule.Duration < lo || c.Schedule.Duration > hi {
		errs = append(errs, fmt.Sprintf("schedule.duration %s is outside [%s, %s]", c.Schedule.Duration, lo, hi))
	}
	if c.Sweep.MaxAge < 0 {
		errs = append(errs, "sweep.max_age must be positive")
	}
	if c.Sync.ActiveWindow < 0 {
		errs = append(errs, "sync.active_window must be positive")
	}
	if c.Viewer.Mode != ModeRotation && c.Viewer.Mode != ModeCycle {
		errs = append(errs, fmt.Sprintf("viewer.mode %q is not one of rotation, cycle", c.Viewer.Mode))
	}
	if c.Viewer.Reload <= 0 || c.Viewer.Resync <= 0 {
		errs = append(errs, "viewer.reload and viewer.resync must be positive")
	}
	if c.Viewer.MaxDelay < c.Viewer.MinDelay {
		errs = append(errs, "viewer.max_delay is below viewer.min_delay")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level %q is invalid", c.Log.Level))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// DefaultFallback is shown by viewers when the server has nothing to show.
var DefaultFallback = []string{
	"Спасибо маме за тепло и заботу",
	"Спасибо за мирное небо над головой",
	"Благодарю друзей за поддержку",
	"Спасибо учителям за терпение",
	"Спасибо за каждый новый день",
}
