package providers

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/i474232898/weather-lookup/internal/common"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const defaultWunderMobileURL = "http://mobile.wunderground.com"

var (
	wunderStationLink = regexp.MustCompile(`<a href="(/global/stations[^"]+)">`)
	wunderEmptyPlace  = regexp.MustCompile(`(?i)size="2"> Place </font>`)
	wunderSevere      = regexp.MustCompile(`(?i)font color="?#ff0000"?>([^<]+)<`)
)

// wunderNotFound reports whether a Weather Underground search page has no match.
func wunderNotFound(page string) bool {
	return common.HasAny(page, "Search not found") || wunderEmptyPlace.MatchString(page)
}

// WundergroundProvider reads the current-conditions table of the mobile site.
type WundergroundProvider struct {
	source
}

func NewWundergroundProvider(cfg HTTPClientConfig, baseURL string) *WundergroundProvider {
	if baseURL == "" {
		baseURL = defaultWunderMobileURL
	}
	return &WundergroundProvider{source: newSource(weather.SourceWunder, baseURL, cfg)}
}

func (p *WundergroundProvider) Fetch(ctx context.Context, query string) (weather.Reading, error) {
	u := fmt.Sprintf("%s/cgi-bin/findweather/getForecast?query=%s", p.baseURL, url.QueryEscape(query))

	page, err := p.get(ctx, u)
	if err != nil {
		return weather.Reading{}, err
	}
	if wunderNotFound(page) {
		return weather.Reading{}, weather.NotFoundError(p.id)
	}

	// An ambiguous query lists candidate stations instead of conditions.
	if strings.Contains(page, "Place: Temperature") {
		m := wunderStationLink.FindStringSubmatch(page)
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

func (p *WundergroundProvider) parse(page string) (weather.Reading, error) {
	var severe string
	if m := wunderSevere.FindStringSubmatch(page); m != nil {
		severe = strings.TrimSpace(m[1])
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(formatSymbols(page)))
	if err != nil {
		return weather.Reading{}, weather.MalformedError(p.id, "Could not parse the conditions page.")
	}

	table := doc.Find(`table[border="1"]`).First()
	if table.Length() == 0 {
		return weather.Reading{}, weather.NotFoundError(p.id)
	}

	rows := table.Find("tr")
	header := rows.First().Find("b")
	if header.Length() < 2 {
		return weather.Reading{}, weather.MalformedError(p.id, "The format of the page was odd.")
	}
	observed := strings.TrimSpace(header.Eq(0).Text())
	location := strings.TrimSpace(header.Eq(1).Text())

	info := make(map[string]string)
	rows.Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		label, ok := nodeString(cells.Get(0))
		if !ok {
			return
		}
		info[strings.TrimSpace(label)] = cellValue(cells.Get(1))
	})

	if location == "" {
		return weather.Reading{}, weather.NotFoundError(p.id)
	}

	temp, err := lastTemperature(info["Temperature"])
	if err != nil {
		return weather.Reading{}, weather.MalformedError(p.id, "The format of the page was odd.")
	}

	r := weather.Reading{
		Source:      p.id,
		Location:    location,
		ObservedAt:  observed,
		Temperature: temp,
		Conditions:  info["Conditions"],
		Humidity:    info["Humidity"],
		Pressure:    info["Pressure"],
		Severe:      severe,
	}

	// Dew point, wind and wind chill are sometimes "-" instead of a reading.
	if t, err := lastTemperature(info["Dew Point"]); err == nil {
		r.DewPoint = &t
	}
	if t, err := lastTemperature(info["Windchill"]); err == nil {
		r.WindChill = &t
	}
	if f := strings.Fields(info["Wind"]); len(f) == 3 {
		r.Wind = fmt.Sprintf("%s at %s %s", f[0], f[1], f[2])
	}

	if r.Conditions == "" {
		return weather.Reading{}, weather.MalformedError(p.id, "The format of the page was odd.")
	}
	return r, nil
}

// lastTemperature reads "52 ° F 11 ° C" style values; only the last three
// tokens (number, glyph, unit letter) count.
func lastTemperature(s string) (weather.Temperature, error) {
	f := common.LastFields(s, 3)
	if f == nil {
		return weather.Temperature{}, fmt.Errorf("temperature %q: want at least 3 fields", s)
	}
	return parseTemperature(f[0], f[1], f[2])
}

// cellValue renders the element children of a value cell; bare text between
// them ("/", "at") is skipped.
func cellValue(td *html.Node) string {
	var values []string
	for c := td.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.FirstChild == nil {
			continue
		}
		if s, ok := nodeString(c); ok {
			values = append(values, strings.TrimSpace(s))
			continue
		}
		if v := splitValue(c); v != "" {
			values = append(values, v)
		}
	}
	return strings.Join(values, " ")
}

// splitValue rejoins a (number, unit) pair such as <b>52</b>°F or <b>10</b>&nbsp;mph.
func splitValue(n *html.Node) string {
	first := n.FirstChild
	if first == nil || first.NextSibling == nil {
		return ""
	}
	num, ok := nodeString(first)
	if !ok {
		return ""
	}
	units := first.NextSibling
	unitText := units.Data
	if units.Type != html.TextNode {
		if unitText, ok = nodeString(units); !ok {
			return ""
		}
	}
	num = strings.TrimSpace(num)

	if strings.HasPrefix(unitText, "\u00a0") {
		return num + " " + strings.TrimSpace(unitText)
	}
	unitText = strings.TrimSpace(unitText)
	if unitText == "" {
		return num
	}
	_, size := utf8.DecodeRuneInString(unitText)
	return strings.TrimSpace(num + " " + unitText[:size] + " " + unitText[size:])
}

// nodeString returns the text of n when n holds exactly one string, looking
// through single-child wrappers.
func nodeString(n *html.Node) (string, bool) {
	for n != nil {
		if n.Type == html.TextNode {
			return n.Data, true
		}
		if n.FirstChild == nil || n.FirstChild != n.LastChild {
			return "", false
		}
		n = n.FirstChild
	}
	return "", false
}
