package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"golang.org/x/text/encoding/charmap"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// BackoffConfig controls exponential backoff behaviour.
// MaxRetries of zero means a failed fetch is reported straight away.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *resty.Client
	Backoff BackoffConfig
}

// DefaultBackoff never retries.
func DefaultBackoff() BackoffConfig {
	return BackoffConfig{
		MaxRetries:      0,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// NewHTTPClientConfig wraps client with the given backoff.
func NewHTTPClientConfig(client *resty.Client, backoff BackoffConfig) HTTPClientConfig {
	return HTTPClientConfig{Client: client, Backoff: backoff}
}

var (
	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errUnexpected    = errors.New("unexpected status code")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

func newCircuit(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// fetchBody performs a GET with the circuit breaker and optional backoff and
// returns the raw body.
func fetchBody(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	rawURL string,
) ([]byte, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Backoff.MaxRetries < 0 || cfg.Backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	var attempt int

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := cfg.Client.R().
				SetContext(ctx).
				Get(rawURL)
			if execErr != nil {
				return nil, execErr
			}

			code := resp.StatusCode()
			if code == http.StatusTooManyRequests {
				return nil, errRateLimited
			}
			if code >= 500 {
				return nil, fmt.Errorf("%w: %d", errServerError, code)
			}
			if code < 200 || code >= 300 {
				return nil, fmt.Errorf("%w: %d", errUnexpected, code)
			}

			return resp.Body(), nil
		})

		if err == nil {
			body, ok := result.([]byte)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return body, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		if attempt >= cfg.Backoff.MaxRetries {
			return nil, err
		}

		delay := cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > cfg.Backoff.MaxInterval && cfg.Backoff.MaxInterval > 0 {
			delay = cfg.Backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}

// source holds what every scraping provider needs to talk to its site.
type source struct {
	id      weather.SourceID
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func newSource(id weather.SourceID, baseURL string, cfg HTTPClientConfig) source {
	return source{
		id:      id,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: cfg,
		circuit: newCircuit(string(id)),
	}
}

func (s source) ID() weather.SourceID {
	return s.id
}

// get fetches rawURL and returns it as UTF-8 text. Network failures come back
// as transport errors.
func (s source) get(ctx context.Context, rawURL string) (string, error) {
	body, err := fetchBody(ctx, s.httpCfg, s.circuit, rawURL)
	if err != nil {
		return "", weather.TransportError(s.id, err)
	}
	return decodeBody(body), nil
}

// resolve joins a link found on a page with the site's base URL.
func (s source) resolve(ref string) string {
	base, err := url.Parse(s.baseURL + "/")
	if err != nil {
		return s.baseURL + ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return s.baseURL + ref
	}
	return u.String()
}

// decodeBody returns UTF-8 bodies unchanged and treats anything else as Latin-1.
func decodeBody(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// tempRe splits "72°F" style readings into number, glyph and unit letter.
var tempRe = regexp.MustCompile(`(-?\d+)(.*?)(F|C)`)

func parseTemperature(value, glyph, unit string) (weather.Temperature, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return weather.Temperature{}, fmt.Errorf("parse temperature %q: %w", value, err)
	}
	u, err := weather.ParseUnit(unit)
	if err != nil {
		return weather.Temperature{}, err
	}
	return weather.Temperature{Value: v, Unit: u, Glyph: glyph}, nil
}

// formatSymbols normalizes the degree entities the Weather Underground pages use.
func formatSymbols(text string) string {
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&#176;", "&deg;")
	text = strings.ReplaceAll(text, " &deg; ", "&deg;")
	text = strings.ReplaceAll(text, "&deg;", "°")
	return text
}
