package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTPAddress)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, "roster_events", cfg.EventsTopic)
	require.Equal(t, time.Second, cfg.EventFlushInterval)
	require.False(t, cfg.EnforceCapacity)
	require.False(t, cfg.EventsEnabled())
	require.Empty(t, cfg.SeedFile)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(env.Options{Environment: map[string]string{
		"HTTP_ADDRESS":            ":9090",
		"KAFKA_BROKERS":           "kafka-1:9092, kafka-2:9092,,",
		"ROSTER_ENFORCE_CAPACITY": "true",
		"ROSTER_SEED_FILE":        "/etc/roster/seed.yaml",
		"EVENT_FLUSH_INTERVAL":    "250ms",
	}})
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTPAddress)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	require.True(t, cfg.EventsEnabled())
	require.True(t, cfg.EnforceCapacity)
	require.Equal(t, "/etc/roster/seed.yaml", cfg.SeedFile)
	require.Equal(t, 250*time.Millisecond, cfg.EventFlushInterval)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"bad duration":   {"EVENT_FLUSH_INTERVAL": "soon"},
		"zero buffer":    {"EVENT_BUFFER_SIZE": "0"},
		"negative batch": {"EVENT_BATCH_SIZE": "-1"},
		"bad bool":       {"ROSTER_ENFORCE_CAPACITY": "maybe"},
	}
	for name, environment := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(env.Options{Environment: environment})
			require.Error(t, err)
		})
	}
}
