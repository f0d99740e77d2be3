// Package config centralises configuration parsing for the roster service.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures runtime configuration values for the roster service.
type Config struct {
	HTTPAddress       string        `env:"HTTP_ADDRESS" envDefault:":8080"`
	HTTPReadTimeout   time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	HTTPWriteTimeout  time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	HTTPIdleTimeout   time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	CORSAllowedOrigin string        `env:"CORS_ALLOWED_ORIGIN" envDefault:"http://localhost:5173"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// SeedFile overrides the bundled activity catalog when set.
	SeedFile        string `env:"ROSTER_SEED_FILE"`
	EnforceCapacity bool   `env:"ROSTER_ENFORCE_CAPACITY" envDefault:"false"`

	KafkaBrokers       []string      `env:"KAFKA_BROKERS" envSeparator:","`
	EventsTopic        string        `env:"ROSTER_EVENTS_TOPIC" envDefault:"roster_events"`
	EventBufferSize    int           `env:"EVENT_BUFFER_SIZE" envDefault:"256"`
	EventBatchSize     int           `env:"EVENT_BATCH_SIZE" envDefault:"50"`
	EventFlushInterval time.Duration `env:"EVENT_FLUSH_INTERVAL" envDefault:"1s"`
}

// Load reads environment variables into Config, applying defaults for local dev.
func Load() (Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the event pipeline cannot run with.
func (c Config) Validate() error {
	if c.EventBufferSize <= 0 {
		return errors.New("EVENT_BUFFER_SIZE must be > 0")
	}
	if c.EventBatchSize <= 0 {
		return errors.New("EVENT_BATCH_SIZE must be > 0")
	}
	if c.EventFlushInterval <= 0 {
		return errors.New("EVENT_FLUSH_INTERVAL must be > 0")
	}
	if c.EventsEnabled() && c.EventsTopic == "" {
		return errors.New("ROSTER_EVENTS_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// EventsEnabled reports whether roster events should be published to Kafka.
func (c Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
