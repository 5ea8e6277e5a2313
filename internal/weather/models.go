package weather

import (
	"fmt"
	"strings"
)

// SourceID identifies one upstream weather site.
type SourceID string

const (
	SourceHam        SourceID = "ham"
	SourceCNN        SourceID = "cnn"
	SourceWunder     SourceID = "wunder"
	SourceWunderFeed SourceID = "wunder rss"
)

// CanonicalOrder is the order sources are tried in when falling back.
var CanonicalOrder = []SourceID{SourceHam, SourceCNN, SourceWunder, SourceWunderFeed}

// ParseSourceID accepts command names as typed by users ("wunder rss", "wunder-rss", "rss").
func ParseSourceID(s string) (SourceID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ham", "hamweather":
		return SourceHam, nil
	case "cnn":
		return SourceCNN, nil
	case "wunder", "wunderground":
		return SourceWunder, nil
	case "wunder rss", "wunder-rss", "wunder_rss", "rss":
		return SourceWunderFeed, nil
	default:
		return "", fmt.Errorf("unknown weather source %q", s)
	}
}

// Temperature is a reading as it was found on the page.
// Glyph holds whatever sat between the number and the unit letter.
type Temperature struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
	Glyph string  `json:"glyph"`
}

// Valid reports whether the temperature was actually extracted.
func (t Temperature) Valid() bool {
	return t.Unit != ""
}

// String renders the temperature the way replies show it, e.g. "72.0°F" or "295.4 K".
func (t Temperature) String() string {
	return fmt.Sprintf("%0.1f%s%s", t.Value, t.Glyph, t.Unit)
}

// ForecastEntry is one labelled line of a syndicated forecast.
type ForecastEntry struct {
	Label   string `json:"label,omitempty"`
	Summary string `json:"summary"`
}

// Reading is everything one source told us about a location.
// Optional string fields are empty when the source did not report them.
type Reading struct {
	Source     SourceID `json:"source"`
	Location   string   `json:"location"`
	ObservedAt string   `json:"observedAt,omitempty"`

	Temperature Temperature `json:"temperature"`
	Conditions  string      `json:"conditions"`

	WindChill *Temperature `json:"windChill,omitempty"`
	HeatIndex *Temperature `json:"heatIndex,omitempty"`
	DewPoint  *Temperature `json:"dewPoint,omitempty"`
	Humidity  string       `json:"humidity,omitempty"`
	Wind      string       `json:"wind,omitempty"`
	Pressure  string       `json:"pressure,omitempty"`

	Severe   string          `json:"severe,omitempty"`
	Forecast []ForecastEntry `json:"forecast,omitempty"`
}

// IsForecast reports whether the reading came from a syndicated forecast feed.
func (r Reading) IsForecast() bool {
	return r.Source == SourceWunderFeed
}

// Complete reports whether the reading carries the fields a reply needs.
func (r Reading) Complete() bool {
	if r.IsForecast() {
		return r.Location != "" || len(r.Forecast) > 0
	}
	return r.Location != "" && r.Temperature.Valid() && r.Conditions != ""
}

// Preference controls how temperatures are displayed in a channel.
type Preference struct {
	Unit    Unit `json:"unit"`
	Convert bool `json:"convert"`
}

// ChannelSettings is the per-channel configuration owned by the host.
type ChannelSettings struct {
	Preference
	Source SourceID `json:"source"`
}

// Request is one invocation of the umbrella weather command.
type Request struct {
	User     string
	Channel  string
	Location string
}
