package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Service answers weather commands by asking providers in order.
type Service struct {
	providers map[SourceID]Provider
	order     []SourceID
	settings  SettingsStore
	locations LocationStore
	tracer    trace.Tracer
}

// NewService creates a new Service. Providers are tried in CanonicalOrder
// regardless of the order they are passed in.
func NewService(providers []Provider, settings SettingsStore, locations LocationStore) *Service {
	byID := make(map[SourceID]Provider, len(providers))
	for _, p := range providers {
		byID[p.ID()] = p
	}

	var order []SourceID
	for _, id := range CanonicalOrder {
		if _, ok := byID[id]; ok {
			order = append(order, id)
		}
	}

	return &Service{
		providers: byID,
		order:     order,
		settings:  settings,
		locations: locations,
		tracer:    otel.Tracer("github.com/i474232898/weather-lookup/internal/weather"),
	}
}

// Sources lists the registered sources in fallback order.
func (s *Service) Sources() []SourceID {
	return append([]SourceID(nil), s.order...)
}

// Weather handles the umbrella command: it resolves the location (falling back to
// the user's last one), remembers it, and looks it up starting at the channel's
// configured source.
func (s *Service) Weather(ctx context.Context, req Request) (string, error) {
	location := strings.TrimSpace(req.Location)
	if location == "" && req.User != "" {
		last, err := s.locations.LastLocation(req.User)
		if err != nil && !errors.Is(err, ErrNotStored) {
			log.Printf("ERROR: loading last location for %s: %v", req.User, err)
		}
		location = last
	}
	if location == "" {
		return "", ErrMissingLocation
	}

	if req.User != "" {
		if err := s.locations.SetLastLocation(req.User, location); err != nil {
			log.Printf("ERROR: storing last location for %s: %v", req.User, err)
		}
	}

	settings := s.channelSettings(req.Channel)
	reading, err := s.Fallback(ctx, settings.Source, location)
	if err != nil {
		return "", err
	}
	return FormatReading(reading, settings.Preference), nil
}

// Lookup handles a single-source command; no fallback is attempted.
func (s *Service) Lookup(ctx context.Context, id SourceID, channel, location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", ErrMissingLocation
	}
	p, ok := s.providers[id]
	if !ok {
		return "", fmt.Errorf("weather source %q is not configured", id)
	}

	reading, err := s.fetch(ctx, p, location)
	if err != nil {
		return "", err
	}
	return FormatReading(reading, s.channelSettings(channel).Preference), nil
}

// Fallback tries primary and then every other source in canonical order until
// one of them knows the location. Only LocationNotFound moves on to the next
// source; any other failure is returned as is.
func (s *Service) Fallback(ctx context.Context, primary SourceID, query string) (Reading, error) {
	lookupID := uuid.NewString()

	candidates := make([]SourceID, 0, len(s.order))
	if _, ok := s.providers[primary]; ok {
		candidates = append(candidates, primary)
	} else if primary != "" {
		log.Printf("INFO: [%s] primary source %q not configured; using canonical order", lookupID, primary)
	}
	for _, id := range s.order {
		if id != primary {
			candidates = append(candidates, id)
		}
	}

	for i, id := range candidates {
		if i > 0 {
			log.Printf("INFO: [%s] trying %s", lookupID, id)
		}

		reading, err := s.fetch(ctx, s.providers[id], query)
		if err == nil {
			if i > 0 {
				log.Printf("INFO: [%s] %s lookup succeeded", lookupID, id)
			}
			return reading, nil
		}

		if KindOf(err) != KindLocationNotFound {
			log.Printf("ERROR: [%s] %s lookup failed for %q: %v", lookupID, id, query, err)
			return Reading{}, err
		}
		log.Printf("INFO: [%s] %s lookup found no location for %q", lookupID, id, query)
	}

	return Reading{}, exhaustedError(query)
}

func (s *Service) fetch(ctx context.Context, p Provider, query string) (Reading, error) {
	ctx, span := s.tracer.Start(ctx, "weather.fetch", trace.WithAttributes(
		attribute.String("weather.source", string(p.ID())),
		attribute.String("weather.query", query),
	))
	defer span.End()

	reading, err := p.Fetch(ctx, query)
	if err != nil {
		span.SetAttributes(attribute.String("weather.error_kind", KindOf(err).String()))
		span.SetStatus(codes.Error, err.Error())
		return Reading{}, err
	}
	if !reading.Complete() {
		err := MalformedError(p.ID(), "The format of the page was odd.")
		span.SetStatus(codes.Error, err.Error())
		return Reading{}, err
	}
	return reading, nil
}

func (s *Service) channelSettings(channel string) ChannelSettings {
	cs, err := s.settings.ChannelSettings(channel)
	if err != nil {
		log.Printf("ERROR: loading settings for channel %q: %v", channel, err)
		return DefaultChannelSettings()
	}
	return cs
}

// DefaultChannelSettings mirrors the stock plugin configuration.
func DefaultChannelSettings() ChannelSettings {
	return ChannelSettings{
		Preference: Preference{Unit: Fahrenheit, Convert: true},
		Source:     SourceWunder,
	}
}
