// Package colour provides colour sampling, quantization and palette derivation.
package colour

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSV is a single colour sample in the cylindrical hue/saturation/value model.
// Hue is in degrees [0, 360), saturation and value are in [0, 1].
type HSV struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

// String returns the sample as "hsv(h, s, v)".
func (c HSV) String() string {
	return fmt.Sprintf("hsv(%.1f, %.3f, %.3f)", c.H, c.S, c.V)
}

// Valid reports whether every component is inside its range.
func (c HSV) Valid() bool {
	return c.H >= 0 && c.H < 360 &&
		c.S >= 0 && c.S <= 1 &&
		c.V >= 0 && c.V <= 1
}

// RGB converts the sample to an 8-bit display colour.
func (c HSV) RGB() RGB {
	r, g, b := colorful.Hsv(c.H, c.S, c.V).Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// FromRGB converts an 8-bit display colour to HSV.
// Grey, white and black all map to hue 0.
func FromRGB(rgb RGB) HSV {
	h, s, v := colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}.Hsv()
	if s == 0 {
		h = 0
	}
	return HSV{H: normaliseHue(h), S: clamp01(s), V: clamp01(v)}
}

// FromColor converts any color.Color to HSV at 8-bit precision.
func FromColor(c color.Color) HSV {
	return FromRGB(ToRGB(c))
}

// normaliseHue wraps a hue in degrees into [0, 360).
func normaliseHue(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	// -tiny + 360 rounds to 360.
	if h >= 360 {
		h = 0
	}
	return h
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
