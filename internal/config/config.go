// Package config loads the service configuration from the environment.
package config

import (
	"time"

	"github.com/cicconee/marine-forecast/internal/zone"
)

// Config is the process configuration. Every field is read from the
// environment variable named by its envconfig tag.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080" validate:"required"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`

	// Empty means forecasts are kept in memory.
	DatabaseURL string `envconfig:"DATABASE_URL" validate:"omitempty,url"`

	// Empty disables the ephemeral Redis layer.
	RedisURL string `envconfig:"REDIS_URL" validate:"omitempty,url"`

	// Empty disables update notifications.
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" validate:"omitempty,dive,hostname_port"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"marine-forecast-updates" validate:"required_with=KafkaBrokers"`

	CoastalZonesPath  string `envconfig:"COASTAL_ZONES_PATH" validate:"required"`
	OffshoreZonesPath string `envconfig:"OFFSHORE_ZONES_PATH" validate:"required"`
	HighSeasZonesPath string `envconfig:"HIGH_SEAS_ZONES_PATH" validate:"required"`

	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"5m" validate:"gt=0"`
	FetchTimeout    time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s" validate:"gt=0"`
	FetchRetries    int           `envconfig:"FETCH_RETRIES" default:"3" validate:"gte=0,lte=10"`
	InitWorkers     int           `envconfig:"INIT_WORKERS" default:"8" validate:"gte=1,lte=64"`
	UserAgent       string        `envconfig:"USER_AGENT" default:"marine-forecast" validate:"required"`
}

// ZoneFiles returns the geometry file of each layer.
func (c *Config) ZoneFiles() zone.Files {
	return zone.Files{
		Coastal:  c.CoastalZonesPath,
		Offshore: c.OffshoreZonesPath,
		HighSeas: c.HighSeasZonesPath,
	}
}
