package app

import (
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"

	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/scheduler"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

const userAgent = "weather-lookup/1.0"

// App holds everything a host needs to answer weather commands.
type App struct {
	Service   *weather.Service
	Store     store.Store
	Scheduler *scheduler.Scheduler
}

// Build wires providers, host state and the service from cfg.
func Build(cfg *config.AppConfig) (*App, error) {
	defaults, err := cfg.ChannelDefaults()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.StoreDriver, cfg.SQLitePath, defaults, cfg.LocationMaxAge)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}

	// Shared HTTP client for outbound source calls.
	client := resty.New().
		SetTimeout(cfg.HTTPTimeout).
		SetHeader("User-Agent", userAgent)
	httpCfg := providers.NewHTTPClientConfig(client, cfg.Backoff())

	provs := []weather.Provider{
		providers.NewHamWeatherProvider(httpCfg, cfg.HamWeatherURL),
		providers.NewCNNProvider(httpCfg, cfg.CNNWeatherURL, providers.DefaultCountryAliases()),
		providers.NewWundergroundProvider(httpCfg, cfg.WunderMobileURL),
		providers.NewWunderFeedProvider(httpCfg, cfg.WunderURL),
	}

	service := weather.NewService(provs, st, st)
	log.Printf("INFO: weather sources: %v (store: %s)", service.Sources(), cfg.StoreDriver)

	return &App{
		Service:   service,
		Store:     st,
		Scheduler: scheduler.New(st, cfg.PruneInterval),
	}, nil
}

// Close stops background work and releases the store.
func (a *App) Close() error {
	a.Scheduler.Stop()
	return a.Store.Close()
}
