package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fahrenheit(v float64) *Temperature {
	return &Temperature{Value: v, Unit: Fahrenheit, Glyph: "°"}
}

func TestFormatReading_Basic(t *testing.T) {
	r := Reading{
		Source:      SourceCNN,
		Location:    "Columbus, OH",
		Temperature: *fahrenheit(72),
		Conditions:  "Clear",
	}

	got := FormatReading(r, Preference{Unit: Fahrenheit, Convert: true})
	assert.Equal(t, "The current temperature in Columbus, OH is 72.0°F. Conditions: Clear.", got)
}

func TestFormatReading_ConvertsToCelsius(t *testing.T) {
	r := Reading{
		Source:      SourceCNN,
		Location:    "Columbus, OH",
		Temperature: *fahrenheit(72),
		Conditions:  "Clear",
	}

	got := FormatReading(r, Preference{Unit: Celsius, Convert: true})
	assert.Equal(t, "The current temperature in Columbus, OH is 22.2°C. Conditions: Clear.", got)
}

func TestFormatReading_AllFields(t *testing.T) {
	r := Reading{
		Source:      SourceWunder,
		Location:    "Columbus, Ohio",
		ObservedAt:  "3:51 PM EST on January 12, 2010",
		Temperature: *fahrenheit(23),
		WindChill:   fahrenheit(14),
		HeatIndex:   fahrenheit(30),
		DewPoint:    fahrenheit(12),
		Conditions:  "Light Snow",
		Humidity:    "63%",
		Wind:        "NW at 10 mph",
		Pressure:    "30.12 in.",
		Severe:      "Winter Storm Warning",
	}

	got := FormatReading(r, Preference{Unit: Fahrenheit, Convert: true})
	assert.Equal(t,
		"The current temperature in Columbus, Ohio is 23.0°F (Wind Chill: 14.0°F) (Heat Index: 30.0°F)"+
			" (3:51 PM EST on January 12, 2010). Conditions: Light Snow. Humidity: 63%."+
			" Dew Point: 12.0°F. Wind: NW at 10 mph. Pressure: 30.12 in. \x02Winter Storm Warning\x02",
		got)
}

func TestFormatReading_ComfortIndexOnlyWhenItMatters(t *testing.T) {
	r := Reading{
		Source:      SourceHam,
		Location:    "Columbus, OH",
		Temperature: *fahrenheit(50),
		WindChill:   fahrenheit(55),
		HeatIndex:   fahrenheit(45),
		Conditions:  "Cloudy",
	}

	got := FormatReading(r, Preference{Unit: Fahrenheit, Convert: true})
	assert.NotContains(t, got, "Wind Chill")
	assert.NotContains(t, got, "Heat Index")
}

func TestFormatReading_ComfortIndexComparedInShownUnit(t *testing.T) {
	// 0°C is 32°F: numerically larger, but colder than 40°F
	r := Reading{
		Source:      SourceWunder,
		Location:    "Columbus, OH",
		Temperature: *fahrenheit(40),
		WindChill:   &Temperature{Value: 0, Unit: Celsius, Glyph: "°"},
		Conditions:  "Windy",
	}

	got := FormatReading(r, Preference{Unit: Fahrenheit, Convert: false})
	assert.Contains(t, got, "(Wind Chill: 32.0°F)")
}

func TestFormatReading_StripsMarkup(t *testing.T) {
	r := Reading{
		Source:      SourceHam,
		Location:    "Columbus, OH",
		Temperature: *fahrenheit(72),
		Conditions:  "<b>Partly</b>   Cloudy &amp; warm",
	}

	got := FormatReading(r, Preference{Unit: Fahrenheit})
	assert.Equal(t, "The current temperature in Columbus, OH is 72.0°F. Conditions: Partly Cloudy & warm.", got)
}

func TestFormatReading_Forecast(t *testing.T) {
	r := Reading{
		Source:   SourceWunderFeed,
		Location: "Columbus, OH",
		Forecast: []ForecastEntry{
			{Summary: "Temperature: 23°F | Humidity: 63%"},
			{Label: "Tonight", Summary: "Snow.  Lows around 15."},
		},
		Severe: "Winter Storm Warning",
	}

	got := FormatReading(r, Preference{Unit: Celsius, Convert: true})
	assert.Equal(t,
		"Weather for Columbus, OH; Temperature: 23°F | Humidity: 63%; Tonight - Conditions: Snow. Lows around 15; \x02Winter Storm Warning\x02",
		got)
}

func TestFormatReading_ForecastWithoutLocation(t *testing.T) {
	r := Reading{
		Source:   SourceWunderFeed,
		Forecast: []ForecastEntry{{Label: "Today", Summary: "Sunny."}},
	}
	assert.Equal(t, "Today - Conditions: Sunny", FormatReading(r, Preference{}))
}

func TestHTMLToText(t *testing.T) {
	assert.Equal(t, "°", HTMLToText("&deg;"))
	assert.Equal(t, "a b", HTMLToText("a<br>b"))
	assert.Equal(t, "ab", HTMLToText("a<b>b</b>"))
	assert.Equal(t, "plain text", HTMLToText("  plain \n text "))
	assert.Equal(t, "", HTMLToText(""))
}
