package providers

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/i474232898/weather-lookup/internal/weather"
)

const defaultCNNURL = "http://weather.cnn.com"

var (
	cnnTemp  = regexp.MustCompile(`(?is)<div class="cnnWeatherTempCurrent">(-?\d+)(&deg;)</div>`)
	cnnCond  = regexp.MustCompile(`(?is)<span class="cnnWeatherConditionCurrent">([^<]+)</span>`)
	cnnHumid = regexp.MustCompile(`(?is)Humidity: </b>(\d+%)`)
	cnnWind  = regexp.MustCompile(`(?is)Wind: </b>([^<\n\r]+)`)
)

// DefaultCountryAliases maps common country codes to the ones CNN's search uses.
func DefaultCountryAliases() map[string]string {
	return map[string]string{
		"uk": "en",
		"de": "ge",
	}
}

// cnnLocation is one entry of the citySearch JSON response.
type cnnLocation struct {
	LocCode        string `json:"locCode"`
	Zip            string `json:"zip"`
	City           string `json:"city"`
	StateOrCountry string `json:"stateOrCountry"`
}

// CNNProvider resolves the location through CNN's JSON city search and then
// scrapes the forecast page. CNN always reports Fahrenheit.
type CNNProvider struct {
	source
	aliases map[string]string
}

func NewCNNProvider(cfg HTTPClientConfig, baseURL string, aliases map[string]string) *CNNProvider {
	if baseURL == "" {
		baseURL = defaultCNNURL
	}
	copied := make(map[string]string, len(aliases))
	for k, v := range aliases {
		copied[strings.ToLower(k)] = strings.ToLower(v)
	}
	return &CNNProvider{
		source:  newSource(weather.SourceCNN, baseURL, cfg),
		aliases: copied,
	}
}

// searchTerm treats the last word of a multi-word query as the state or
// country code; single words (zip codes, station ids) only lose their commas.
func (p *CNNProvider) searchTerm(query string) string {
	fields := strings.Fields(query)
	if len(fields) < 2 {
		return strings.ReplaceAll(strings.TrimSpace(query), ",", "")
	}

	state := strings.ToLower(fields[len(fields)-1])
	city := strings.ToLower(strings.TrimRight(strings.Join(fields[:len(fields)-1], " "), ","))
	if alias, ok := p.aliases[state]; ok {
		state = alias
	}
	return city + " " + state
}

func (p *CNNProvider) Fetch(ctx context.Context, query string) (weather.Reading, error) {
	searchURL := fmt.Sprintf("%s/weather/citySearch?search_term=%s&mode=json&filter=true",
		p.baseURL, url.QueryEscape(p.searchTerm(query)))

	body, err := p.get(ctx, searchURL)
	if err != nil {
		return weather.Reading{}, err
	}

	var results []cnnLocation
	if strings.TrimSpace(body) != "" {
		if err := json.Unmarshal([]byte(body), &results); err != nil {
			return weather.Reading{}, weather.MalformedError(p.id, "Could not parse the location search results.")
		}
	}
	if len(results) == 0 {
		return weather.Reading{}, weather.NotFoundError(p.id)
	}
	loc := results[0]

	detailURL := fmt.Sprintf("%s/weather/forecast.jsp?locCode=%s&zipCode=%s",
		p.baseURL, url.QueryEscape(loc.LocCode), url.QueryEscape(loc.Zip))
	page, err := p.get(ctx, detailURL)
	if err != nil {
		return weather.Reading{}, err
	}

	return p.parse(loc, page)
}

func (p *CNNProvider) parse(loc cnnLocation, page string) (weather.Reading, error) {
	r := weather.Reading{
		Source:   p.id,
		Location: strings.Join([]string{loc.City, loc.StateOrCountry}, ", "),
	}

	m := cnnTemp.FindStringSubmatch(page)
	if m == nil {
		return weather.Reading{}, weather.MalformedError(p.id, "Could not find weather information.")
	}
	t, err := parseTemperature(m[1], weather.HTMLToText(m[2]), string(weather.Fahrenheit))
	if err != nil {
		return weather.Reading{}, weather.MalformedError(p.id, "Could not find weather information.")
	}
	r.Temperature = t

	if m := cnnCond.FindStringSubmatch(page); m != nil {
		r.Conditions = strings.TrimSpace(m[1])
	}
	if m := cnnHumid.FindStringSubmatch(page); m != nil {
		r.Humidity = m[1]
	}
	if m := cnnWind.FindStringSubmatch(page); m != nil {
		r.Wind = strings.TrimSpace(m[1])
	}
	return r, nil
}
