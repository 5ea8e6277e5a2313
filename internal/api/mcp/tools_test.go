package mcpapi

import (
	"context"
	"errors"
	"testing"

	"github.com/miyamo2/qilin"
	"github.com/stretchr/testify/assert"

	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
)

type fixedProvider struct {
	id  weather.SourceID
	err error
}

func (p fixedProvider) ID() weather.SourceID { return p.id }

func (p fixedProvider) Fetch(context.Context, string) (weather.Reading, error) {
	if p.err != nil {
		return weather.Reading{}, p.err
	}
	return weather.Reading{
		Source:      p.id,
		Location:    "Columbus, OH",
		Temperature: weather.Temperature{Value: 72, Unit: weather.Fahrenheit, Glyph: "°"},
		Conditions:  "Clear",
	}, nil
}

func newTestTools(provs ...weather.Provider) *Tools {
	st := store.NewMemoryStore(weather.DefaultChannelSettings(), 0)
	return NewTools(weather.NewService(provs, st, st))
}

func TestWeatherReply(t *testing.T) {
	tools := newTestTools(
		fixedProvider{id: weather.SourceWunder, err: weather.NotFoundError(weather.SourceWunder)},
		fixedProvider{id: weather.SourceCNN},
	)
	ctx := context.Background()

	got := tools.weatherReply(ctx, WeatherRequest{Location: "Columbus, OH", User: "nick"})
	assert.Equal(t, "The current temperature in Columbus, OH is 72.0°F. Conditions: Clear.", got)

	// remembered location
	assert.Equal(t, got, tools.weatherReply(ctx, WeatherRequest{User: "nick"}))

	assert.Equal(t, "Please give a location.", tools.weatherReply(ctx, WeatherRequest{User: "stranger"}))
}

func TestWeatherReply_Exhausted(t *testing.T) {
	tools := newTestTools(fixedProvider{id: weather.SourceHam, err: weather.NotFoundError(weather.SourceHam)})

	got := tools.weatherReply(context.Background(), WeatherRequest{Location: "Atlantis"})
	assert.Equal(t, `Could not retrieve weather for "Atlantis".`, got)
}

func TestSourceReply(t *testing.T) {
	tools := newTestTools(
		fixedProvider{id: weather.SourceHam, err: weather.MalformedError(weather.SourceHam, "The format of the page was odd.")},
		fixedProvider{id: weather.SourceCNN, err: weather.TransportError(weather.SourceCNN, errors.New("timeout"))},
		fixedProvider{id: weather.SourceWunder},
	)
	ctx := context.Background()

	assert.Contains(t, tools.sourceReply(ctx, SourceRequest{Source: "wunder", Location: "Columbus"}), "72.0°F")
	assert.Equal(t, "The format of the page was odd. (possible bug)",
		tools.sourceReply(ctx, SourceRequest{Source: "ham", Location: "Columbus"}))
	assert.Equal(t, "cnn: timeout", tools.sourceReply(ctx, SourceRequest{Source: "cnn", Location: "Columbus"}))
	assert.Equal(t, `Weather source "wunder rss" is not configured.`,
		tools.sourceReply(ctx, SourceRequest{Source: "rss", Location: "Columbus"}))
	assert.Contains(t, tools.sourceReply(ctx, SourceRequest{Source: "bbc", Location: "Columbus"}), "unknown weather source")
}

func TestRegister(t *testing.T) {
	tools := newTestTools(fixedProvider{id: weather.SourceWunder})
	assert.NotPanics(t, func() { tools.Register(qilin.New("weather-lookup")) })
}
