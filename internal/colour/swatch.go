package colour

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SwatchName identifies one of the fixed tonal categories.
type SwatchName string

const (
	Vibrant      SwatchName = "Vibrant"
	DarkVibrant  SwatchName = "DarkVibrant"
	LightVibrant SwatchName = "LightVibrant"
	Muted        SwatchName = "Muted"
	DarkMuted    SwatchName = "DarkMuted"
	LightMuted   SwatchName = "LightMuted"
)

// SwatchNames returns every swatch name in enumeration order. Stable sorts
// over swatches break ties in this order.
func SwatchNames() []SwatchName {
	return []SwatchName{Vibrant, DarkVibrant, LightVibrant, Muted, DarkMuted, LightMuted}
}

// String returns the swatch name.
func (n SwatchName) String() string {
	return string(n)
}

// Swatch is a named representative colour and the number of sampled pixels
// it stands for.
type Swatch struct {
	Name       SwatchName `json:"name"`
	Hex        string     `json:"hex"`
	Population int        `json:"population"`
}

// NewSwatch creates a swatch from an RGB value.
func NewSwatch(name SwatchName, rgb RGB, population int) *Swatch {
	return &Swatch{
		Name:       name,
		Hex:        rgb.Hex(),
		Population: max(population, 0),
	}
}

// Valid reports whether the swatch is present and has a usable hex value.
func (s *Swatch) Valid() bool {
	return s != nil && IsValidHex(s.Hex)
}

// RGB parses the swatch hex value.
func (s *Swatch) RGB() (RGB, error) {
	return ParseHex(s.Hex)
}

// SwatchSet maps swatch names to swatches. Any name may be absent or nil.
type SwatchSet map[SwatchName]*Swatch

// Present returns the valid swatches in enumeration order.
func (s SwatchSet) Present() []*Swatch {
	present := make([]*Swatch, 0, len(s))
	for _, name := range SwatchNames() {
		if sw := s[name]; sw.Valid() {
			present = append(present, sw)
		}
	}
	return present
}

// Len returns the number of valid swatches.
func (s SwatchSet) Len() int {
	return len(s.Present())
}

// MarshalJSON encodes the set in enumeration order, with absent swatches as null.
func (s SwatchSet) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range SwatchNames() {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(string(name))
		b.Write(key)
		b.WriteByte(':')
		sw := s[name]
		if !sw.Valid() {
			b.WriteString("null")
			continue
		}
		value, err := json.Marshal(sw)
		if err != nil {
			return nil, err
		}
		b.Write(value)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// String returns a human-readable listing of the set.
func (s SwatchSet) String() string {
	present := s.Present()
	if len(present) == 0 {
		return "Empty swatch set"
	}

	result := fmt.Sprintf("Swatch set with %d swatches:\n", len(present))
	for _, sw := range present {
		result += fmt.Sprintf("  %-12s %s (population %d)\n", sw.Name, sw.Hex, sw.Population)
	}
	return result
}
