package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides where the optional YAML file is read from.
const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// app config
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Mongo     MongoConfig     `koanf:"mongo"`
	SMTP      SMTPConfig      `koanf:"smtp"`
	Reminder  ReminderConfig  `koanf:"reminder"`
	Redis     RedisConfig     `koanf:"redis"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	API       APIConfig       `koanf:"api"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	Port        int      `koanf:"port"`
	CORSOrigins []string `koanf:"cors_origins"`
}

type MongoConfig struct {
	URI    string `koanf:"uri"`
	DBName string `koanf:"db_name"`
}

type SMTPConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"pass"`
	From string `koanf:"from"`
}

type ReminderConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Schedule     string        `koanf:"schedule"`      // cron spec, minute granularity
	DefaultEmail string        `koanf:"default_email"` // used when a task is created without one
	LeaseTTL     time.Duration `koanf:"lease_ttl"`
}

// empty URL disables the sweep lease
type RedisConfig struct {
	URL string `koanf:"url"`
}

type RateLimitConfig struct {
	Disabled bool          `koanf:"disabled"`
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

type LogConfig struct {
	Development bool `koanf:"development"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        5001,
			CORSOrigins: []string{"*"},
		},
		Mongo: MongoConfig{
			URI:    "mongodb://localhost:27017",
			DBName: "codetrack",
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Reminder: ReminderConfig{
			Enabled:  true,
			Schedule: "* * * * *",
			LeaseTTL: 50 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   time.Minute,
		},
		API: APIConfig{
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
	}
}

// flat environment names the deployment already uses
var envMappings = map[string]string{
	"port":                   "server.port",
	"cors_origins":           "server.cors_origins",
	"mongo_uri":              "mongo.uri",
	"mongo_db_name":          "mongo.db_name",
	"smtp_host":              "smtp.host",
	"smtp_port":              "smtp.port",
	"smtp_user":              "smtp.user",
	"smtp_pass":              "smtp.pass",
	"smtp_from":              "smtp.from",
	"reminder_enabled":       "reminder.enabled",
	"reminder_schedule":      "reminder.schedule",
	"default_reminder_email": "reminder.default_email",
	"reminder_lease_ttl":     "reminder.lease_ttl",
	"redis_url":              "redis.url",
	"rate_limit_disabled":    "rate_limit.disabled",
	"rate_limit_requests":    "rate_limit.requests",
	"rate_limit_window":      "rate_limit.window",
	"max_page_size":          "api.max_page_size",
	"log_development":        "log.development",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// LoadConfig layers defaults, an optional YAML file and environment
// variables, in that order of precedence.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var sliceConfigPaths = []string{"server.cors_origins"}

// processSliceFields splits comma separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return errors.New("mongo uri must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.API.DefaultPageSize <= 0 || c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("invalid page sizes: default %d, max %d", c.API.DefaultPageSize, c.API.MaxPageSize)
	}
	if c.Reminder.Enabled && c.Reminder.Schedule == "" {
		return errors.New("reminder schedule must not be empty")
	}
	if !c.RateLimit.Disabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return errors.New("rate limit requests and window must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// MailConfigured reports whether SMTP credentials are present.
func (c *Config) MailConfigured() bool {
	return c.SMTP.User != "" && c.SMTP.Pass != ""
}
