package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

type AppConfig struct {
	Port string `env:"PORT,default=8080" validate:"required"`

	// Outbound fetches.
	HTTPTimeout         time.Duration `env:"HTTP_TIMEOUT,default=10s" validate:"gt=0"`
	FetchMaxRetries     int           `env:"FETCH_MAX_RETRIES,default=0" validate:"gte=0,lte=5"`
	FetchBackoffInitial time.Duration `env:"FETCH_BACKOFF_INITIAL,default=500ms" validate:"gt=0"`
	FetchBackoffMax     time.Duration `env:"FETCH_BACKOFF_MAX,default=5s" validate:"gte=0"`

	// Defaults for channels that have no settings of their own.
	WeatherCommand  string `env:"WEATHER_COMMAND,default=wunder" validate:"required"`
	TemperatureUnit string `env:"WEATHER_TEMPERATURE_UNIT,default=Fahrenheit" validate:"required"`
	Convert         bool   `env:"WEATHER_CONVERT,default=true"`

	// Host state.
	StoreDriver    string        `env:"STORE_DRIVER,default=memory" validate:"oneof=memory sqlite"`
	SQLitePath     string        `env:"SQLITE_PATH,default=weather.db" validate:"required_if=StoreDriver sqlite"`
	LocationMaxAge time.Duration `env:"LOCATION_MAX_AGE,default=720h" validate:"gte=0"` // 0 = keep forever
	PruneInterval  time.Duration `env:"PRUNE_INTERVAL,default=1h" validate:"gte=0"`

	// Tracing is off unless an endpoint is given.
	ZipkinEndpoint string `env:"ZIPKIN_ENDPOINT" validate:"omitempty,url"`

	// Source base URLs, overridable for mirrors and tests.
	HamWeatherURL   string `env:"HAMWEATHER_URL,default=http://www.hamweather.net" validate:"url"`
	CNNWeatherURL   string `env:"CNN_WEATHER_URL,default=http://weather.cnn.com" validate:"url"`
	WunderMobileURL string `env:"WUNDER_MOBILE_URL,default=http://mobile.wunderground.com" validate:"url"`
	WunderURL       string `env:"WUNDER_URL,default=http://www.wunderground.com" validate:"url"`
}

// Load reads configuration from the environment (and a .env file, when present).
func Load(ctx context.Context) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Surface bad unit and source names at startup, not on the first lookup.
	if _, err := cfg.ChannelDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ChannelDefaults returns the settings used by channels that never set their own.
func (c *AppConfig) ChannelDefaults() (weather.ChannelSettings, error) {
	unit, err := weather.ParseUnit(c.TemperatureUnit)
	if err != nil {
		return weather.ChannelSettings{}, fmt.Errorf("invalid WEATHER_TEMPERATURE_UNIT: %w", err)
	}
	source, err := weather.ParseSourceID(c.WeatherCommand)
	if err != nil {
		return weather.ChannelSettings{}, fmt.Errorf("invalid WEATHER_COMMAND: %w", err)
	}
	return weather.ChannelSettings{
		Preference: weather.Preference{Unit: unit, Convert: c.Convert},
		Source:     source,
	}, nil
}

// Backoff returns the retry policy for source fetches.
func (c *AppConfig) Backoff() providers.BackoffConfig {
	return providers.BackoffConfig{
		MaxRetries:      c.FetchMaxRetries,
		InitialInterval: c.FetchBackoffInitial,
		MaxInterval:     c.FetchBackoffMax,
	}
}
