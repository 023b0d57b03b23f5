package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
	Habits   HabitsConfig   `yaml:"habits"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
	// Timezone decides which calendar day "today" is when a request omits it.
	Timezone string `yaml:"timezone"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	Schema          string        `yaml:"schema"`
	SSLMode         string        `yaml:"sslmode"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	SlowThreshold   time.Duration `yaml:"slow_threshold"`
}

// DSN renders the keyword/value connection string for the postgres driver.
func (c DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
	if c.Schema != "" {
		dsn += " search_path=" + c.Schema
	}
	return dsn
}

// RedisConfig enables the list cache when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type HabitsConfig struct {
	// StreakRule is "relaxed" or "strict".
	StreakRule           string `yaml:"streak_rule"`
	StreakLookbackDays   int    `yaml:"streak_lookback_days"`
	CompletionWindowDays int    `yaml:"completion_window_days"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, Timezone: "Local"},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Password:        "postgres",
			Name:            "tracker",
			SSLMode:         "disable",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
			SlowThreshold:   200 * time.Millisecond,
		},
		Redis: RedisConfig{TTL: 5 * time.Minute},
		Log:   LogConfig{Level: "info"},
		Habits: HabitsConfig{
			StreakRule:           "relaxed",
			StreakLookbackDays:   30,
			CompletionWindowDays: 10,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file in the working directory and finally the process
// environment, each overriding the previous one.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := overrideFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves the server timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Server.Timezone)
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Server.Timezone, err)
	}
	switch c.Habits.StreakRule {
	case "relaxed", "strict":
	default:
		return fmt.Errorf("invalid habits.streak_rule %q", c.Habits.StreakRule)
	}
	if c.Habits.StreakLookbackDays <= 0 {
		return fmt.Errorf("habits.streak_lookback_days must be positive, got %d", c.Habits.StreakLookbackDays)
	}
	if c.Habits.CompletionWindowDays <= 0 {
		return fmt.Errorf("habits.completion_window_days must be positive, got %d", c.Habits.CompletionWindowDays)
	}
	return nil
}

func overrideFromEnv(cfg *Config) error {
	var errs []error
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	setInt("PORT", &cfg.Server.Port)
	setString("APP_TIMEZONE", &cfg.Server.Timezone)

	setString("BLUEPRINT_DB_HOST", &cfg.Database.Host)
	setString("BLUEPRINT_DB_PORT", &cfg.Database.Port)
	setString("BLUEPRINT_DB_USERNAME", &cfg.Database.User)
	setString("BLUEPRINT_DB_PASSWORD", &cfg.Database.Password)
	setString("BLUEPRINT_DB_DATABASE", &cfg.Database.Name)
	setString("BLUEPRINT_DB_SCHEMA", &cfg.Database.Schema)
	setString("BLUEPRINT_DB_SSLMODE", &cfg.Database.SSLMode)
	setInt("DB_MAX_IDLE_CONNS", &cfg.Database.MaxIdleConns)
	setInt("DB_MAX_OPEN_CONNS", &cfg.Database.MaxOpenConns)
	setDuration("DB_CONN_MAX_LIFETIME", &cfg.Database.ConnMaxLifetime)
	setDuration("DB_SLOW_THRESHOLD", &cfg.Database.SlowThreshold)

	setString("REDIS_ADDR", &cfg.Redis.Addr)
	setString("REDIS_PASSWORD", &cfg.Redis.Password)
	setInt("REDIS_DB", &cfg.Redis.DB)
	setDuration("REDIS_TTL", &cfg.Redis.TTL)

	setString("LOG_LEVEL", &cfg.Log.Level)
	setBool("LOG_DEVELOPMENT", &cfg.Log.Development)

	setString("HABITS_STREAK_RULE", &cfg.Habits.StreakRule)
	setInt("HABITS_STREAK_LOOKBACK_DAYS", &cfg.Habits.StreakLookbackDays)
	setInt("HABITS_COMPLETION_WINDOW_DAYS", &cfg.Habits.CompletionWindowDays)

	return errors.Join(errs...)
}
