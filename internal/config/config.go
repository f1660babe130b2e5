package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Scheduling SchedulingConfig `mapstructure:"scheduling"`
	Outbox     OutboxConfig     `mapstructure:"outbox"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type JWTConfig struct {
	// Secret verifies tokens issued by the identity collaborator.
	Secret string `mapstructure:"secret"`
}

type SchedulingConfig struct {
	// SlotDuration is the length of a bookable slot. When zero, conflict
	// detection degrades to the exact-start-time rule.
	SlotDuration time.Duration `mapstructure:"slot_duration"`
	// EnforceWorkingHours rejects bookings outside the doctor's published
	// hours; when false such bookings are logged and allowed.
	EnforceWorkingHours bool `mapstructure:"enforce_working_hours"`
	// AvailabilityCacheTTL bounds how stale cached working-hours reads
	// may be.
	AvailabilityCacheTTL time.Duration `mapstructure:"availability_cache_ttl"`
}

type OutboxConfig struct {
	BatchSize     int           `mapstructure:"batch_size"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.request_timeout", 30*time.Second)
	viper.SetDefault("server.rate_limit_rps", 100.0)
	viper.SetDefault("server.rate_limit_burst", 200)
	viper.SetDefault("scheduling.slot_duration", 30*time.Minute)
	viper.SetDefault("scheduling.enforce_working_hours", true)
	viper.SetDefault("scheduling.availability_cache_ttl", 5*time.Minute)
	viper.SetDefault("outbox.batch_size", 100)
	viper.SetDefault("outbox.poll_interval", 5*time.Second)
	viper.SetDefault("outbox.retry_attempts", 3)
	viper.SetDefault("outbox.retry_delay", time.Second)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
