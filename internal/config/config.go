// Package config loads application configuration from environment variables
// and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/ericfisherdev/accountpulse/internal/domain/model"
)

// Config holds the application configuration.
type Config struct {
	ListenAddr      string        `yaml:"listen_addr" env:"ACCOUNTPULSE_LISTEN_ADDR" env-default:"127.0.0.1:8080"`
	DBPath          string        `yaml:"db_path" env:"ACCOUNTPULSE_DB_PATH" env-default:"accountpulse.db"`
	LogLevel        string        `yaml:"log_level" env:"ACCOUNTPULSE_LOG_LEVEL" env-default:"info"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"ACCOUNTPULSE_SHUTDOWN_TIMEOUT" env-default:"10s"`

	StaleBlockerDays   int `yaml:"stale_blocker_days" env:"ACCOUNTPULSE_STALE_BLOCKER_DAYS" env-default:"5"`
	InactivityDays     int `yaml:"inactivity_days" env:"ACCOUNTPULSE_INACTIVITY_DAYS" env-default:"30"`
	ContractWindowDays int `yaml:"contract_window_days" env:"ACCOUNTPULSE_CONTRACT_WINDOW_DAYS" env-default:"60"`
	UrgentContractDays int `yaml:"urgent_contract_days" env:"ACCOUNTPULSE_URGENT_CONTRACT_DAYS" env-default:"14"`
}

// Load reads configuration with priority ENV > YAML > defaults. The YAML file
// is read only when ACCOUNTPULSE_CONFIG_PATH is set, and must exist then.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("ACCOUNTPULSE_CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that every window is positive and the log level is known.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.ListenAddr) == "" {
		errs = append(errs, errors.New("ACCOUNTPULSE_LISTEN_ADDR must not be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("ACCOUNTPULSE_DB_PATH must not be empty"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("ACCOUNTPULSE_SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout))
	}

	windows := []struct {
		name  string
		value int
	}{
		{"ACCOUNTPULSE_STALE_BLOCKER_DAYS", c.StaleBlockerDays},
		{"ACCOUNTPULSE_INACTIVITY_DAYS", c.InactivityDays},
		{"ACCOUNTPULSE_CONTRACT_WINDOW_DAYS", c.ContractWindowDays},
		{"ACCOUNTPULSE_URGENT_CONTRACT_DAYS", c.UrgentContractDays},
	}
	for _, w := range windows {
		if w.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", w.name, w.value))
		}
	}
	if c.UrgentContractDays > c.ContractWindowDays {
		errs = append(errs, fmt.Errorf("ACCOUNTPULSE_URGENT_CONTRACT_DAYS (%d) exceeds ACCOUNTPULSE_CONTRACT_WINDOW_DAYS (%d)",
			c.UrgentContractDays, c.ContractWindowDays))
	}

	return errors.Join(errs...)
}

// AttentionPolicy returns the configured attention windows. Score thresholds
// are not configurable and keep their defaults.
func (c *Config) AttentionPolicy() model.AttentionPolicy {
	p := model.DefaultAttentionPolicy()
	p.StaleBlockerDays = c.StaleBlockerDays
	p.InactivityDays = c.InactivityDays
	p.ContractWindowDays = c.ContractWindowDays
	p.UrgentContractDays = c.UrgentContractDays
	return p
}

// SlogLevel returns the configured log level. Load has already validated it.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("ACCOUNTPULSE_LOG_LEVEL has unknown level %q", s)
	}
}
