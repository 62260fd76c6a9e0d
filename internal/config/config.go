// Package config reads the service configuration from the environment via
// viper. Every variable carries the RIDE_ prefix, e.g. RIDE_SERVICE_PORT.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Vikrant465/booking-service/internal/application"
	"github.com/Vikrant465/booking-service/internal/search"
	"github.com/spf13/viper"
)

// DatabaseConfig holds the ride-history database connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the config as a GORM postgres DSN.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GeoConfig holds the geocoding and directions provider settings.
type GeoConfig struct {
	BaseURL     string
	AccessToken string
	HTTPTimeout time.Duration
}

// KafkaConfig holds the event broker settings.
type KafkaConfig struct {
	Brokers []string
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port   string
	AppEnv string

	// SearchQuietWindow is how long typing must pause before a place
	// search is issued.
	SearchQuietWindow time.Duration

	DispatchDuration time.Duration
	DispatchTick     time.Duration

	DBConfig    DatabaseConfig
	GeoConfig   GeoConfig
	KafkaConfig KafkaConfig
}

// Load reads configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("RIDE")
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SEARCH_QUIET_MS", int(search.DefaultQuietWindow/time.Millisecond))
	v.SetDefault("DISPATCH_SECONDS", int(application.DefaultDispatchDuration/time.Second))
	v.SetDefault("DISPATCH_TICK_MS", int(application.DefaultDispatchTick/time.Millisecond))
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ride_booking")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("GEO_BASE_URL", "https://api.mapbox.com")
	v.SetDefault("GEO_HTTP_TIMEOUT_MS", 5000)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")

	port := v.GetString("SERVICE_PORT")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	cfg := &ServiceConfig{
		Port:              port,
		AppEnv:            v.GetString("APP_ENV"),
		SearchQuietWindow: time.Duration(v.GetInt("SEARCH_QUIET_MS")) * time.Millisecond,
		DispatchDuration:  time.Duration(v.GetInt("DISPATCH_SECONDS")) * time.Second,
		DispatchTick:      time.Duration(v.GetInt("DISPATCH_TICK_MS")) * time.Millisecond,
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		GeoConfig: GeoConfig{
			BaseURL:     v.GetString("GEO_BASE_URL"),
			AccessToken: v.GetString("GEO_ACCESS_TOKEN"),
			HTTPTimeout: time.Duration(v.GetInt("GEO_HTTP_TIMEOUT_MS")) * time.Millisecond,
		},
		KafkaConfig: KafkaConfig{
			Brokers: strings.Split(v.GetString("KAFKA_BROKERS"), ","),
		},
	}

	if cfg.GeoConfig.AccessToken == "" && cfg.AppEnv != "development" {
		return nil, fmt.Errorf("RIDE_GEO_ACCESS_TOKEN is required outside development")
	}
	return cfg, nil
}
