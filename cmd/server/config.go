package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mcoot/partygames/internal/factory"
)

// Config holds the server's command-line and environment settings
type Config struct {
	host     string
	port     int
	logLevel string

	dataStore    string
	sessionStore string
	redisURL     string
	postgresURL  string

	sessionTTL      time.Duration
	authSessionTTL  time.Duration
	questionsFile   string
	adminUsers      []string
	secureCookies   bool
	cleanupInterval time.Duration
}

func (c *Config) validate() error {
	if c.port < 0 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 0-65535 inclusive): %d", c.port)
	}
	switch c.dataStore {
	case factory.StorageTypeMemory, factory.StorageTypePostgres:
	default:
		return fmt.Errorf("invalid --data-store %q: must be 'memory' or 'postgres'", c.dataStore)
	}
	switch c.sessionStore {
	case factory.StorageTypeMemory, factory.StorageTypeRedis:
	default:
		return fmt.Errorf("invalid --session-store %q: must be 'memory' or 'redis'", c.sessionStore)
	}
	if c.dataStore == factory.StorageTypePostgres && c.postgresURL == "" {
		return errors.New("--postgres-url is required with --data-store=postgres")
	}
	if c.sessionStore == factory.StorageTypeRedis && c.redisURL == "" {
		return errors.New("--redis-url is required with --session-store=redis")
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return level, fmt.Errorf("invalid --log-level %q", c.logLevel)
	}
	return level, nil
}

func (c *Config) addServeFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.host, "host", "", "address to bind to (env: PARTY_HOST)")
	fs.IntVarP(&c.port, "port", "p", 8080, "port to listen on (env: PARTY_PORT)")
	fs.StringVar(&c.dataStore, "data-store", factory.StorageTypeMemory, "where questions, scores and users live: memory or postgres (env: PARTY_DATA_STORE)")
	fs.StringVar(&c.sessionStore, "session-store", factory.StorageTypeMemory, "where game sessions live: memory or redis (env: PARTY_SESSION_STORE)")
	fs.StringVar(&c.redisURL, "redis-url", "", "redis connection url (env: PARTY_REDIS_URL)")
	fs.DurationVar(&c.sessionTTL, "session-ttl", 12*time.Hour, "idle lifetime of a redis-backed game session (env: PARTY_SESSION_TTL)")
	fs.DurationVar(&c.authSessionTTL, "auth-session-ttl", 24*time.Hour, "lifetime of a login session (env: PARTY_AUTH_SESSION_TTL)")
	fs.DurationVar(&c.cleanupInterval, "cleanup-interval", 10*time.Minute, "how often expired logins and idle event hubs are purged (env: PARTY_CLEANUP_INTERVAL)")
	fs.StringVar(&c.questionsFile, "questions-file", "", "yaml file used to seed an empty question bank (env: PARTY_QUESTIONS_FILE)")
	fs.StringSliceVar(&c.adminUsers, "admin-users", nil, "usernames allowed to manage questions (env: PARTY_ADMIN_USERS)")
	fs.BoolVar(&c.secureCookies, "secure-cookies", false, "mark the session cookie Secure (env: PARTY_SECURE_COOKIES)")
}

func (c *Config) addCommonFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.logLevel, "log-level", "info", "debug, info, warn or error (env: PARTY_LOG_LEVEL)")
	fs.StringVar(&c.postgresURL, "postgres-url", "", "postgres connection url (env: PARTY_POSTGRES_URL)")
}

// bindEnv lets PARTY_* environment variables fill flags that were not set
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PARTY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}
