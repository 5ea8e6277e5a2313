package providers

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/i474232898/weather-lookup/internal/weather"
)

const defaultWunderURL = "http://www.wunderground.com"

var (
	feedLink         = regexp.MustCompile(`(?i)<link rel="alternate".*href="([^"]+)" */?>`)
	feedSevere       = regexp.MustCompile(`(?i)font color="?#ff0000"?><b>([^<]+)<`)
	feedTitle        = regexp.MustCompile(`(?i)^(?:(.*) Weather from Weather Underground|Weather Underground - (.*))$`)
	feedForecastDate = regexp.MustCompile(`(?i)Forecast for (.*) as of`)
	feedColons       = strings.NewReplacer(":  ", ": ", ": ", ": ", ":", ": ")
)

// WunderFeedProvider follows the syndication feed linked from the desktop
// Weather Underground page and reads forecast entries from it.
type WunderFeedProvider struct {
	source
}

func NewWunderFeedProvider(cfg HTTPClientConfig, baseURL string) *WunderFeedProvider {
	if baseURL == "" {
		baseURL = defaultWunderURL
	}
	return &WunderFeedProvider{source: newSource(weather.SourceWunderFeed, baseURL, cfg)}
}

func (p *WunderFeedProvider) Fetch(ctx context.Context, query string) (weather.Reading, error) {
	u := fmt.Sprintf("%s/cgi-bin/findweather/getForecast?query=%s", p.baseURL, url.QueryEscape(query))

	page, err := p.get(ctx, u)
	if err != nil {
		return weather.Reading{}, err
	}
	if wunderNotFound(page) {
		return weather.Reading{}, weather.NotFoundError(p.id)
	}

	if strings.Contains(page, "Search Results") {
		m := wunderStationLink.FindStringSubmatch(page)
		if m == nil {
			return weather.Reading{}, weather.NotFoundError(p.id)
		}
		page, err = p.get(ctx, p.resolve(m[1]))
		if err != nil {
			return weather.Reading{}, err
		}
	}

	var severe string
	if m := feedSevere.FindStringSubmatch(page); m != nil {
		severe = strings.TrimSpace(m[1])
	}

	link := feedLink.FindStringSubmatch(page)
	if link == nil {
		return weather.Reading{}, weather.NotFoundError(p.id)
	}
	raw, err := p.get(ctx, p.resolve(link[1]))
	if err != nil {
		return weather.Reading{}, err
	}

	// gofeed parsers keep per-parse state, so each lookup gets its own.
	feed, err := gofeed.NewParser().ParseString(formatSymbols(raw))
	if err != nil {
		return weather.Reading{}, weather.MalformedError(p.id, "Could not parse the forecast feed.")
	}

	r := weather.Reading{
		Source:   p.id,
		Location: feedLocation(feed.Title),
		Severe:   severe,
	}
	for _, item := range feed.Items {
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		entry := weather.ForecastEntry{Summary: feedColons.Replace(strings.TrimSpace(summary))}
		if d := feedForecastDate.FindStringSubmatch(item.Title); d != nil {
			entry.Label = strings.TrimSpace(d[1])
		}
		r.Forecast = append(r.Forecast, entry)
	}

	if !r.Complete() {
		return weather.Reading{}, weather.MalformedError(p.id, "The forecast feed was empty.")
	}
	return r, nil
}

func feedLocation(title string) string {
	m := feedTitle.FindStringSubmatch(strings.TrimSpace(title))
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(m[2])
}
