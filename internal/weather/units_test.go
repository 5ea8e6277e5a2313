package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnit(t *testing.T) {
	tests := map[string]Unit{
		"F":          Fahrenheit,
		"f":          Fahrenheit,
		"fahr":       Fahrenheit,
		"Fahrenheit": Fahrenheit,
		"C":          Celsius,
		"ce":         Celsius,
		"cels":       Celsius,
		"cent":       Celsius,
		"centigrade": Celsius,
		"k":          Kelvin,
		" Kelvin ":   Kelvin,
	}
	for in, want := range tests {
		got, err := ParseUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseUnit("rankine")
	assert.Error(t, err)
	_, err = ParseUnit("")
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	assert.InDelta(t, 22.2222, Convert(72, Fahrenheit, Celsius), 0.001)
	assert.InDelta(t, 32.0, Convert(0, Celsius, Fahrenheit), 0.001)
	assert.InDelta(t, 273.15, Convert(0, Celsius, Kelvin), 0.001)
	assert.InDelta(t, -40.0, Convert(-40, Celsius, Fahrenheit), 0.001)
	assert.Equal(t, 72.0, Convert(72, Fahrenheit, Fahrenheit))
}

func TestConvert_RoundTrip(t *testing.T) {
	units := []Unit{Fahrenheit, Celsius, Kelvin}
	for _, from := range units {
		for _, to := range units {
			for _, v := range []float64{-40, 0, 37.5, 100} {
				back := Convert(Convert(v, from, to), to, from)
				assert.InDelta(t, v, back, 1e-9, "%v %s->%s", v, from, to)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	f := Temperature{Value: 72, Unit: Fahrenheit, Glyph: "°"}

	c := Normalize(f, Preference{Unit: Celsius, Convert: true})
	assert.Equal(t, Celsius, c.Unit)
	assert.Equal(t, "22.2°C", c.String())

	k := Normalize(f, Preference{Unit: Kelvin, Convert: true})
	assert.Equal(t, "295.4 K", k.String())

	assert.Equal(t, f, Normalize(f, Preference{Unit: Celsius, Convert: false}))
	assert.Equal(t, f, Normalize(f, Preference{Unit: Fahrenheit, Convert: true}))
	assert.Equal(t, f, Normalize(f, Preference{Convert: true}))

	// a Kelvin reading gains a degree sign when shown in Celsius
	fromK := Normalize(Temperature{Value: 273.15, Unit: Kelvin, Glyph: " "}, Preference{Unit: Celsius, Convert: true})
	assert.Equal(t, "0.0°C", fromK.String())
}

func TestUnitName(t *testing.T) {
	assert.Equal(t, "Celsius", Celsius.Name())
	assert.Equal(t, "Kelvin", Kelvin.Name())
	assert.Equal(t, "X", Unit("X").Name())
}
