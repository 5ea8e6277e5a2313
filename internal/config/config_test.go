package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-lookup/internal/weather"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 0, cfg.FetchMaxRetries)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Empty(t, cfg.ZipkinEndpoint)
	assert.Equal(t, "http://mobile.wunderground.com", cfg.WunderMobileURL)

	cs, err := cfg.ChannelDefaults()
	require.NoError(t, err)
	assert.Equal(t, weather.DefaultChannelSettings(), cs)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("FETCH_MAX_RETRIES", "2")
	t.Setenv("FETCH_BACKOFF_INITIAL", "100ms")
	t.Setenv("WEATHER_COMMAND", "wunder rss")
	t.Setenv("WEATHER_TEMPERATURE_UNIT", "cels")
	t.Setenv("WEATHER_CONVERT", "false")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/weather.db")
	t.Setenv("ZIPKIN_ENDPOINT", "http://localhost:9411/api/v2/spans")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "/tmp/weather.db", cfg.SQLitePath)

	b := cfg.Backoff()
	assert.Equal(t, 2, b.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, b.InitialInterval)
	assert.Equal(t, 5*time.Second, b.MaxInterval)

	cs, err := cfg.ChannelDefaults()
	require.NoError(t, err)
	assert.Equal(t, weather.ChannelSettings{
		Preference: weather.Preference{Unit: weather.Celsius, Convert: false},
		Source:     weather.SourceWunderFeed,
	}, cs)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown store", "STORE_DRIVER", "redis"},
		{"negative retries", "FETCH_MAX_RETRIES", "-1"},
		{"unknown unit", "WEATHER_TEMPERATURE_UNIT", "rankine"},
		{"unknown command", "WEATHER_COMMAND", "bbc"},
		{"bad duration", "HTTP_TIMEOUT", "soon"},
		{"bad url", "ZIPKIN_ENDPOINT", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load(context.Background())
			assert.Error(t, err)
		})
	}
}
