package config

import (
	"fmt"
	"os"
)

// Config holds everything the API and the seed tool read from the environment.
type Config struct {
	AppName   string
	Port      string
	JWTSecret string

	Database DatabaseConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	TimeZone string
}

type LogConfig struct {
	Mode string // development | production
	File string // empty means stdout only
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the parts.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.TimeZone,
	)
}

func Load() *Config {
	return &Config{
		AppName:   getEnv("APP_NAME", "Inventory Catalog v1.0"),
		Port:      getEnv("PORT", "3000"),
		JWTSecret: getEnv("JWT_SECRET", ""),
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "inventory"),
			TimeZone: getEnv("DB_TIMEZONE", "UTC"),
		},
		Log: LogConfig{
			Mode: getEnv("LOG_MODE", "development"),
			File: os.Getenv("LOG_FILE"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
