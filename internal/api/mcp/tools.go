// Package mcpapi exposes the weather commands as MCP tools.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/miyamo2/qilin"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// WeatherRequest contains input parameters for the weather tool.
type WeatherRequest struct {
	Location string `json:"location,omitempty" jsonschema:"description=Free-text location; empty reuses the user's last one"`
	User     string `json:"user,omitempty" jsonschema:"description=User identity used to remember the last location"`
	Channel  string `json:"channel,omitempty" jsonschema:"description=Channel whose unit and source settings apply"`
}

// SourceRequest contains input parameters for the weather_source tool.
type SourceRequest struct {
	Source   string `json:"source" jsonschema:"enum=ham,enum=cnn,enum=wunder,enum=wunder rss"`
	Location string `json:"location"`
	Channel  string `json:"channel,omitempty"`
}

// Tools answers MCP tool calls with the reply text a chat user would see.
type Tools struct {
	service *weather.Service
}

func NewTools(service *weather.Service) *Tools {
	return &Tools{service: service}
}

// Register adds the weather tools to q.
func (t *Tools) Register(q *qilin.Qilin) {
	q.Tool("weather",
		(*WeatherRequest)(nil),
		t.Weather,
		qilin.ToolWithDescription("Current weather for a location, trying every source until one knows it"))

	q.Tool("weather_source",
		(*SourceRequest)(nil),
		t.WeatherSource,
		qilin.ToolWithDescription("Current weather for a location from a single named source"))
}

func (t *Tools) Weather(c qilin.ToolContext) error {
	var req WeatherRequest
	if err := c.Bind(&req); err != nil {
		return c.String("Invalid arguments: " + err.Error())
	}
	return c.String(t.weatherReply(toolContext(c), req))
}

func (t *Tools) WeatherSource(c qilin.ToolContext) error {
	var req SourceRequest
	if err := c.Bind(&req); err != nil {
		return c.String("Invalid arguments: " + err.Error())
	}
	return c.String(t.sourceReply(toolContext(c), req))
}

func (t *Tools) weatherReply(ctx context.Context, req WeatherRequest) string {
	reply, err := t.service.Weather(ctx, weather.Request{
		User:     req.User,
		Channel:  req.Channel,
		Location: req.Location,
	})
	if err != nil {
		return errorText(err)
	}
	return reply
}

func (t *Tools) sourceReply(ctx context.Context, req SourceRequest) string {
	id, err := weather.ParseSourceID(req.Source)
	if err != nil {
		return err.Error()
	}
	if !slices.Contains(t.service.Sources(), id) {
		return fmt.Sprintf("Weather source %q is not configured.", id)
	}

	reply, err := t.service.Lookup(ctx, id, req.Channel, req.Location)
	if err != nil {
		return errorText(err)
	}
	return reply
}

// errorText turns a lookup failure into the message shown to the caller.
func errorText(err error) string {
	if errors.Is(err, weather.ErrMissingLocation) {
		return "Please give a location."
	}
	var werr *weather.Error
	if errors.As(err, &werr) && werr.PossibleBug() {
		log.Printf("ERROR: %s returned an unexpected page: %v", werr.Source, err)
		return werr.Error() + " (possible bug)"
	}
	return err.Error()
}

func toolContext(c qilin.ToolContext) context.Context {
	if ctx := c.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
