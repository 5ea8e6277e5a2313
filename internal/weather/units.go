package weather

import (
	"fmt"
	"strings"
)

// Unit is a temperature scale, stored as its one-letter symbol.
type Unit string

const (
	Fahrenheit Unit = "F"
	Celsius    Unit = "C"
	Kelvin     Unit = "K"
)

const degree = "°"

// Name returns the long name of the unit.
func (u Unit) Name() string {
	switch u {
	case Fahrenheit:
		return "Fahrenheit"
	case Celsius:
		return "Celsius"
	case Kelvin:
		return "Kelvin"
	default:
		return string(u)
	}
}

// unitAliases maps every lower-cased unambiguous prefix of a unit name to its unit.
var unitAliases = buildUnitAliases()

func buildUnitAliases() map[string]Unit {
	names := map[string]Unit{
		"fahrenheit": Fahrenheit,
		"celsius":    Celsius,
		"centigrade": Celsius,
		"kelvin":     Kelvin,
	}

	seen := make(map[string]int)
	owner := make(map[string]Unit)
	for name, unit := range names {
		for i := 1; i <= len(name); i++ {
			p := name[:i]
			seen[p]++
			owner[p] = unit
		}
	}

	aliases := make(map[string]Unit, len(owner))
	for p, n := range seen {
		if n == 1 {
			aliases[p] = owner[p]
		}
	}
	// full names always win over a shared prefix
	for name, unit := range names {
		aliases[name] = unit
	}
	aliases["c"] = Celsius
	aliases["ce"] = Celsius
	return aliases
}

// ParseUnit resolves a unit letter, name or unambiguous abbreviation.
func ParseUnit(s string) (Unit, error) {
	if u, ok := unitAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return u, nil
	}
	return "", fmt.Errorf("unknown temperature unit %q", s)
}

// Convert converts value between scales, going through Celsius.
func Convert(value float64, from, to Unit) float64 {
	if from == to {
		return value
	}
	return fromCelsius(toCelsius(value, from), to)
}

func toCelsius(v float64, u Unit) float64 {
	switch u {
	case Fahrenheit:
		return (v - 32) * 5 / 9
	case Kelvin:
		return v - 273.15
	default:
		return v
	}
}

func fromCelsius(c float64, u Unit) float64 {
	switch u {
	case Fahrenheit:
		return c*9/5 + 32
	case Kelvin:
		return c + 273.15
	default:
		return c
	}
}

// Normalize converts t into the preferred unit when the preference asks for it.
func Normalize(t Temperature, pref Preference) Temperature {
	if !pref.Convert || pref.Unit == "" || t.Unit == pref.Unit {
		return t
	}
	return Temperature{
		Value: Convert(t.Value, t.Unit, pref.Unit),
		Unit:  pref.Unit,
		Glyph: glyphFor(pref.Unit, t.Glyph),
	}
}

// glyphFor keeps the page's degree glyph for F and C, and uses a plain space for Kelvin.
func glyphFor(u Unit, current string) string {
	if u == Kelvin {
		return " "
	}
	if strings.TrimSpace(current) == "" {
		return degree
	}
	return current
}
