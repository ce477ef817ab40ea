package models

import (
	"fmt"
	"strings"
)

// RGB is an opaque sRGB color. Alpha is flattened away before an
// observation is recorded, so every stored color is fully opaque.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Hex returns the canonical "#RRGGBB" form, uppercase.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c RGB) String() string {
	return c.Hex()
}

// ParseHex parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (alpha ignored).
// The leading "#" is optional and matching is case-insensitive.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3:
		var r, g, b uint8
		if _, err := fmt.Sscanf(strings.ToUpper(h), "%1X%1X%1X", &r, &g, &b); err != nil {
			return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		return RGB{R: r * 17, G: g * 17, B: b * 17}, nil
	case 6, 8:
		var r, g, b uint8
		if _, err := fmt.Sscanf(strings.ToUpper(h[:6]), "%02X%02X%02X", &r, &g, &b); err != nil {
			return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		return RGB{R: r, G: g, B: b}, nil
	default:
		return RGB{}, fmt.Errorf("invalid hex color %q: want 3, 6 or 8 digits", s)
	}
}

// MustHex is ParseHex for trusted literals. It panics on malformed input.
func MustHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// MarshalJSON emits the color as a hex string so serialized
// observations and tokens stay human-readable.
func (c RGB) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.Hex() + `"`), nil
}

func (c *RGB) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseHex(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c RGB) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

func (c *RGB) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseHex(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
