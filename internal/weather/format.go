package weather

import (
	"fmt"
	"strings"
)

// Bold wraps s in IRC bold control codes.
func Bold(s string) string {
	return "\x02" + s + "\x02"
}

// FormatReading builds the reply for r, converting temperatures per pref.
func FormatReading(r Reading, pref Preference) string {
	if r.IsForecast() {
		return formatForecast(r)
	}

	temp := Normalize(r.Temperature, pref)

	var head strings.Builder
	fmt.Fprintf(&head, "The current temperature in %s is %s", r.Location, temp)
	if chill, ok := comfortIndex(r.WindChill, temp, pref); ok && chill.Value < temp.Value {
		fmt.Fprintf(&head, " (Wind Chill: %s)", chill)
	}
	if heat, ok := comfortIndex(r.HeatIndex, temp, pref); ok && heat.Value > temp.Value {
		fmt.Fprintf(&head, " (Heat Index: %s)", heat)
	}
	if r.ObservedAt != "" {
		fmt.Fprintf(&head, " (%s)", r.ObservedAt)
	}
	head.WriteString(".")

	parts := []string{head.String()}
	parts = appendField(parts, "Conditions", r.Conditions)
	parts = appendField(parts, "Humidity", r.Humidity)
	if r.DewPoint != nil {
		parts = appendField(parts, "Dew Point", Normalize(*r.DewPoint, pref).String())
	}
	parts = appendField(parts, "Wind", r.Wind)
	parts = appendField(parts, "Pressure", r.Pressure)

	for i, p := range parts {
		parts[i] = HTMLToText(p)
	}
	if sev := HTMLToText(r.Severe); sev != "" {
		parts = append(parts, Bold(sev))
	}
	return strings.Join(parts, " ")
}

// comfortIndex normalizes an index the same way as the reading and then into the
// displayed temperature's unit, so the two compare numerically.
func comfortIndex(idx *Temperature, shown Temperature, pref Preference) (Temperature, bool) {
	if idx == nil || !idx.Valid() {
		return Temperature{}, false
	}
	t := Normalize(*idx, pref)
	if t.Unit != shown.Unit {
		t = Temperature{
			Value: Convert(t.Value, t.Unit, shown.Unit),
			Unit:  shown.Unit,
			Glyph: shown.Glyph,
		}
	}
	return t, true
}

func appendField(parts []string, label, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return parts
	}
	return append(parts, fmt.Sprintf("%s: %s.", label, strings.TrimSuffix(value, ".")))
}

func formatForecast(r Reading) string {
	var parts []string
	if r.Location != "" {
		parts = append(parts, "Weather for "+r.Location)
	}
	for _, e := range r.Forecast {
		line := e.Summary
		if e.Label != "" {
			line = e.Label + " - Conditions: " + e.Summary
		}
		parts = append(parts, strings.TrimRight(strings.TrimSpace(line), "."))
	}

	reply := HTMLToText(strings.Join(parts, "; "))
	if sev := HTMLToText(r.Severe); sev != "" {
		if reply != "" {
			reply += "; "
		}
		reply += Bold(sev)
	}
	return reply
}
