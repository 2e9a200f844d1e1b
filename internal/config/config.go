package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"evacuation-planner-service/internal/platform/log"
)

const (
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds process settings. Values come from the environment (optionally
// loaded from .env by the caller) and can be overridden by command-line flags.
type Config struct {
	Port  string
	Store string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DatabaseURL string
	SeedPath    string

	// LockTTL bounds how long a crashed holder can keep a vehicle or zone locked.
	LockTTL time.Duration
	// StatusLockAttempts is how many times a status update tries to take its zone lock.
	StatusLockAttempts int

	CORSOrigins []string

	Log *log.Options
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if v, err := strconv.Atoi(Get(key, "")); err == nil {
		return v
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(Get(key, "")); err == nil {
		return v
	}
	return fallback
}

// FromEnv builds a Config from environment variables and defaults.
func FromEnv() *Config {
	logOpts := log.NewOptions()
	logOpts.Level = Get("LOG_LEVEL", logOpts.Level)
	logOpts.Format = Get("LOG_FORMAT", logOpts.Format)

	return &Config{
		Port:               Get("PORT", "8080"),
		Store:              Get("STORE_BACKEND", StoreRedis),
		RedisAddr:          Get("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      Get("REDIS_PASSWORD", ""),
		RedisDB:            GetInt("REDIS_DB", 0),
		DatabaseURL:        Get("DATABASE_URL", ""),
		SeedPath:           Get("SEED_PATH", ""),
		LockTTL:            GetDuration("LOCK_TTL", 30*time.Second),
		StatusLockAttempts: GetInt("STATUS_LOCK_ATTEMPTS", 5),
		CORSOrigins:        splitList(Get("CORS_ORIGINS", "*")),
		Log:                logOpts,
	}
}

// AddFlags binds every setting to fs using the current values as defaults.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Port, "port", c.Port, "HTTP listen port.")
	fs.StringVar(&c.Store, "store", c.Store, "Storage backend: redis, postgres or memory.")
	fs.StringVar(&c.RedisAddr, "redis.addr", c.RedisAddr, "Redis host:port.")
	fs.StringVar(&c.RedisPassword, "redis.password", c.RedisPassword, "Redis password.")
	fs.IntVar(&c.RedisDB, "redis.db", c.RedisDB, "Redis logical database.")
	fs.StringVar(&c.DatabaseURL, "database-url", c.DatabaseURL, "Postgres connection URL (store=postgres).")
	fs.StringVar(&c.SeedPath, "seed", c.SeedPath, "Optional JSON file with zones and vehicles to load on startup.")
	fs.DurationVar(&c.LockTTL, "lock-ttl", c.LockTTL, "Expiry of vehicle and zone locks.")
	fs.IntVar(&c.StatusLockAttempts, "status-lock-attempts", c.StatusLockAttempts, "Zone lock attempts per status update.")
	fs.StringSliceVar(&c.CORSOrigins, "cors.origins", c.CORSOrigins, "Allowed CORS origins ('*' allows any).")
	c.Log.AddFlags(fs)
}

func (c *Config) Validate() error {
	var errs []error

	if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
		errs = append(errs, fmt.Errorf("port must be a number between 1 and 65535, got %q", c.Port))
	}

	switch c.Store {
	case StoreRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			errs = append(errs, errors.New("redis.addr is required for store=redis"))
		}
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for store=postgres"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("store must be one of redis, postgres, memory, got %q", c.Store))
	}

	if c.LockTTL <= 0 {
		errs = append(errs, fmt.Errorf("lock-ttl must be positive, got %s", c.LockTTL))
	}
	if c.StatusLockAttempts < 1 {
		errs = append(errs, fmt.Errorf("status-lock-attempts must be at least 1, got %d", c.StatusLockAttempts))
	}

	errs = append(errs, c.Log.Validate()...)
	return errors.Join(errs...)
}

// Load reads the environment, applies args as flag overrides and validates the result.
func Load(name string, args []string) (*Config, error) {
	cfg := FromEnv()

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	cfg.AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("load config: parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
