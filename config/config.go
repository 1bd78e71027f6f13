package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config stores all settings of the application. Values are read by viper
// from a config file or environment variables, mirroring the sections of the
// classic shopdesk config file: database location and credentials, connection
// retry policy, and the default transaction isolation level.
type Config struct {
	AppName string `mapstructure:"APP_NAME"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     int    `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSL_MODE"`

	ConnectionRetries int           `mapstructure:"CONNECTION_RETRIES"`
	ConnectionTimeout time.Duration `mapstructure:"CONNECTION_TIMEOUT"`
	IsolationLevel    string        `mapstructure:"ISOLATION_LEVEL"`

	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from an optional app.env file in path, with
// environment variables taking precedence over file values and defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "shopdesk")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "shopdesk")
	v.SetDefault("DB_SSL_MODE", "disable")

	v.SetDefault("CONNECTION_RETRIES", 3)
	v.SetDefault("CONNECTION_TIMEOUT", 5*time.Second)
	v.SetDefault("ISOLATION_LEVEL", "READ COMMITTED")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// DSN builds the postgres connection string from the database settings.
func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPassword),
		c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}
