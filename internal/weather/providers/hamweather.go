package providers

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/i474232898/weather-lookup/internal/weather"
)

const defaultHamWeatherURL = "http://www.hamweather.net"

var (
	hamLoc      = regexp.MustCompile(`(?i)<span class="Place">([^,]+), ([^,\n]+),(.*?)</span>`)
	hamLocShort = regexp.MustCompile(`(?i)<span class="Place">([^,]+), ([^,\n]+?)</span>`)
	hamCond     = regexp.MustCompile(`(?i)<td width="100%" colspan="2" align="center" class="Wx">([^<]+)</td>`)
	hamTemp     = regexp.MustCompile(`(?i)<td valign="top" align="right" class="Temp">(-?\d+)(.*?)(F|C)</td>`)
	hamChill    = regexp.MustCompile(`(?is)Wind Chill:</td>\s+<td align="right" class="Value">([^N][^<]+)</td>`)
	hamHeat     = regexp.MustCompile(`(?is)Heat Index:</td>\s+<td align="right" class="Value">([^N][^<]+)</td>`)
	hamMultiLoc = regexp.MustCompile(`(?is)Select from one of[^<]+</b></font></td></tr>\s*<tr><td><font[^>]+>\s*<a href="(/cgi-bin/hw3[^"]+)">`)

	hamConditionNames = strings.NewReplacer("Tsra", "Thunderstorms", "Ts", "Thunderstorms")
)

// HamWeatherProvider scrapes the HamWeather HW3 report page.
type HamWeatherProvider struct {
	source
}

func NewHamWeatherProvider(cfg HTTPClientConfig, baseURL string) *HamWeatherProvider {
	if baseURL == "" {
		baseURL = defaultHamWeatherURL
	}
	return &HamWeatherProvider{source: newSource(weather.SourceHam, baseURL, cfg)}
}

func (p *HamWeatherProvider) Fetch(ctx context.Context, query string) (weather.Reading, error) {
	u := fmt.Sprintf("%s/cgi-bin/hw3/hw3.cgi?config=&forecast=zandh&pands=%s&Submit=GO",
		p.baseURL, url.QueryEscape(strings.ToLower(query)))

	page, err := p.get(ctx, u)
	if err != nil {
		return weather.Reading{}, err
	}
	if strings.Contains(page, "was not found") {
		return weather.Reading{}, weather.NotFoundError(p.id)
	}

	if strings.Contains(page, "Multiple Locations for") {
		m := hamMultiLoc.FindStringSubmatch(page)
		if m == nil {
			return weather.Reading{}, weather.NotFoundError(p.id)
		}
		page, err = p.get(ctx, p.resolve(m[1]))
		if err != nil {
			return weather.Reading{}, err
		}
	}

	return p.parse(page)
}

func (p *HamWeatherProvider) parse(page string) (weather.Reading, error) {
	var city, state string
	if m := hamLoc.FindStringSubmatch(page); m != nil {
		city, state = m[1], m[2]
	} else if m := hamLocShort.FindStringSubmatch(page); m != nil {
		city, state = m[1], m[2]
	} else {
		return weather.Reading{}, weather.NotFoundError(p.id)
	}
	city = weather.HTMLToText(city)
	state = weather.HTMLToText(state)

	r := weather.Reading{
		Source:   p.id,
		Location: city + ", " + state,
	}

	if m := hamTemp.FindStringSubmatch(page); m != nil {
		if t, err := parseTemperature(m[1], weather.HTMLToText(m[2]), m[3]); err == nil {
			r.Temperature = t
		}
	}
	if m := hamCond.FindStringSubmatch(page); m != nil {
		r.Conditions = hamConditionNames.Replace(strings.TrimSpace(m[1]))
	}

	r.WindChill = hamIndex(hamChill, page)
	r.HeatIndex = hamIndex(hamHeat, page)

	if city == "" || state == "" || !r.Temperature.Valid() || r.Conditions == "" {
		return weather.Reading{}, weather.MalformedError(p.id, "The format of the page was odd.")
	}
	return r, nil
}

// hamIndex extracts an optional comfort index; anything unparseable is dropped.
func hamIndex(re *regexp.Regexp, page string) *weather.Temperature {
	m := re.FindStringSubmatch(page)
	if m == nil {
		return nil
	}
	parts := tempRe.FindStringSubmatch(weather.HTMLToText(m[1]))
	if parts == nil {
		return nil
	}
	t, err := parseTemperature(parts[1], parts[2], parts[3])
	if err != nil {
		return nil
	}
	return &t
}
