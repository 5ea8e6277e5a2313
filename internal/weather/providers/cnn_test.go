package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-lookup/internal/weather"
)

const cnnForecastPage = `<html><body>
<div class="cnnWeatherTempCurrent">72&deg;</div>
<span class="cnnWeatherConditionCurrent">Clear</span>
</body></html>`

func newCNNServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/weather/citySearch", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("mode"))
		switch r.URL.Query().Get("search_term") {
		case "columbus oh":
			_, _ = w.Write([]byte(`[{"locCode":"USOH0212","zip":"43215","city":"Columbus","stateOrCountry":"OH"}]`))
		case "garbage":
			_, _ = w.Write([]byte(`<html>not json</html>`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	})
	mux.HandleFunc("/weather/forecast.jsp", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "USOH0212", r.URL.Query().Get("locCode"))
		assert.Equal(t, "43215", r.URL.Query().Get("zipCode"))
		_, _ = w.Write([]byte(cnnForecastPage))
	})
	return httptest.NewServer(mux)
}

func TestCNN_Fetch(t *testing.T) {
	srv := newCNNServer(t)
	defer srv.Close()

	p := NewCNNProvider(testHTTPConfig(0), srv.URL, DefaultCountryAliases())
	r, err := p.Fetch(context.Background(), "Columbus, OH")
	require.NoError(t, err)

	assert.Equal(t, weather.SourceCNN, r.Source)
	assert.Equal(t, "Columbus, OH", r.Location)
	assert.Equal(t, weather.Temperature{Value: 72, Unit: weather.Fahrenheit, Glyph: "°"}, r.Temperature)
	assert.Equal(t, "Clear", r.Conditions)
	assert.Empty(t, r.Humidity)
	assert.Empty(t, r.Wind)
}

func TestCNN_Errors(t *testing.T) {
	srv := newCNNServer(t)
	defer srv.Close()

	p := NewCNNProvider(testHTTPConfig(0), srv.URL, nil)

	_, err := p.Fetch(context.Background(), "Atlantis")
	assert.Equal(t, weather.KindLocationNotFound, weather.KindOf(err))

	_, err = p.Fetch(context.Background(), "garbage")
	assert.Equal(t, weather.KindMalformed, weather.KindOf(err))
}

func TestCNN_ParseMissingTemperature(t *testing.T) {
	p := NewCNNProvider(testHTTPConfig(0), "", nil)
	_, err := p.parse(cnnLocation{City: "Columbus", StateOrCountry: "OH"}, "<html></html>")
	assert.Equal(t, weather.KindMalformed, weather.KindOf(err))
	assert.EqualError(t, err, "Could not find weather information.")
}

func TestCNN_ParseOptionalFields(t *testing.T) {
	p := NewCNNProvider(testHTTPConfig(0), "", nil)
	page := cnnForecastPage + "<b>Humidity: </b>45%<br><b>Wind: </b>NW 10 mph\n"
	r, err := p.parse(cnnLocation{City: "Columbus", StateOrCountry: "OH"}, page)
	require.NoError(t, err)
	assert.Equal(t, "45%", r.Humidity)
	assert.Equal(t, "NW 10 mph", r.Wind)
}

func TestCNN_SearchTerm(t *testing.T) {
	p := NewCNNProvider(testHTTPConfig(0), "", map[string]string{"UK": "EN", "de": "ge"})

	tests := map[string]string{
		"Columbus, OH": "columbus oh",
		"London UK":    "london en",
		"Berlin, DE":   "berlin ge",
		"New York, NY": "new york ny",
		"43215":        "43215",
		"  Paris,  ":   "Paris",
	}
	for in, want := range tests {
		assert.Equal(t, want, p.searchTerm(in), in)
	}
}
