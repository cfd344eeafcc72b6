package colour

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// PaletteSize is the fixed number of colours in a DominantColorSet and a Palette.
const PaletteSize = 5

// DominantColorSet holds the representative colours of an image, in bucket order.
type DominantColorSet [PaletteSize]RGB

// Palette holds the colours derived from a DominantColorSet, slot for slot.
type Palette [PaletteSize]RGB

// NewDominantColorSet checks the arity of colours and copies them into a set.
func NewDominantColorSet(colours []RGB) (DominantColorSet, error) {
	var set DominantColorSet
	if len(colours) != PaletteSize {
		return set, &ArityError{Got: len(colours), Want: PaletteSize}
	}
	copy(set[:], colours)
	return set, nil
}

// DominantFromSamples converts extracted centroids into a DominantColorSet.
func DominantFromSamples(centroids []HSV) (DominantColorSet, error) {
	colours := make([]RGB, len(centroids))
	for i, c := range centroids {
		colours[i] = c.RGB()
	}
	return NewDominantColorSet(colours)
}

// ToHex returns the hex codes of the set in order.
func (d DominantColorSet) ToHex() []string {
	return hexCodes(d[:])
}

// ToHex returns the hex codes of the palette in order.
func (p Palette) ToHex() []string {
	return hexCodes(p[:])
}

// String returns a human-readable string representation of the palette.
func (p Palette) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Palette with %d colours:\n", len(p))
	for i, c := range p {
		fmt.Fprintf(&b, "  %d: %s (%s)\n", i+1, c.Hex(), c.String())
	}
	return b.String()
}

func hexCodes(colours []RGB) []string {
	out := make([]string, len(colours))
	for i, c := range colours {
		out[i] = c.Hex()
	}
	return out
}

// Scheme names a per-slot palette transform.
type Scheme string

const (
	// SchemeAccent rotates to the complement and pulls the result into a
	// saturation and brightness band that reads well as a UI accent.
	SchemeAccent Scheme = "accent"

	// SchemeComplementary rotates hue by 180 degrees.
	SchemeComplementary Scheme = "complementary"

	// SchemeAnalogous rotates hue by 30 degrees.
	SchemeAnalogous Scheme = "analogous"

	// SchemeShade darkens slot i by 12% per slot.
	SchemeShade Scheme = "shade"

	// SchemeTint blends slot i toward white by 15% per slot.
	SchemeTint Scheme = "tint"

	// SchemeMuted halves saturation and eases value toward the midtones.
	SchemeMuted Scheme = "muted"
)

// ValidSchemes returns every supported scheme, default first.
func ValidSchemes() []Scheme {
	return []Scheme{
		SchemeAccent,
		SchemeComplementary,
		SchemeAnalogous,
		SchemeShade,
		SchemeTint,
		SchemeMuted,
	}
}

// IsValidScheme checks if the given scheme name is valid.
func IsValidScheme(s Scheme) bool {
	for _, valid := range ValidSchemes() {
		if s == valid {
			return true
		}
	}
	return false
}

// Description returns a one-line summary of the scheme.
func (s Scheme) Description() string {
	switch s {
	case SchemeAccent:
		return "complementary hue, chromatic saturation >= 0.45, value within [0.55, 0.90]"
	case SchemeComplementary:
		return "hue rotated by 180 degrees"
	case SchemeAnalogous:
		return "hue rotated by 30 degrees"
	case SchemeShade:
		return "value reduced by 12% per slot"
	case SchemeTint:
		return "blended toward white by 15% per slot"
	case SchemeMuted:
		return "saturation halved, value eased toward 0.6"
	default:
		return "unknown scheme"
	}
}

// Generator derives a Palette from a DominantColorSet. It holds no mutable
// state and is safe for concurrent use.
type Generator struct {
	scheme Scheme
}

// NewGenerator creates a Generator for the given scheme.
func NewGenerator(scheme Scheme) (*Generator, error) {
	if !IsValidScheme(scheme) {
		return nil, fmt.Errorf("unknown palette scheme: %s (valid schemes: %v)", scheme, ValidSchemes())
	}
	return &Generator{scheme: scheme}, nil
}

// Scheme returns the generator's scheme.
func (g *Generator) Scheme() Scheme {
	return g.scheme
}

// Generate derives one palette colour per input slot. It fails with
// *ArityError unless exactly PaletteSize colours are given.
func (g *Generator) Generate(colours []RGB) (Palette, error) {
	set, err := NewDominantColorSet(colours)
	if err != nil {
		return Palette{}, err
	}
	return g.FromDominant(set), nil
}

// FromDominant derives a palette from a set whose arity is already checked.
func (g *Generator) FromDominant(set DominantColorSet) Palette {
	var p Palette
	for i, c := range set {
		p[i] = g.transform(i, c)
	}
	return p
}

func (g *Generator) transform(slot int, c RGB) RGB {
	hsv := c.HSV()
	switch g.scheme {
	case SchemeComplementary:
		hsv.H = rotateHue(hsv, 180)
	case SchemeAnalogous:
		hsv.H = rotateHue(hsv, 30)
	case SchemeShade:
		hsv.V = clamp01(hsv.V * (1 - 0.12*float64(slot+1)))
	case SchemeTint:
		base := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
		r, gr, b := base.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 0.15*float64(slot+1)).Clamped().RGB255()
		return RGB{R: r, G: gr, B: b}
	case SchemeMuted:
		hsv.S = clamp01(hsv.S * 0.5)
		hsv.V = clamp01(hsv.V + (0.6-hsv.V)*0.5)
	default:
		hsv.H = rotateHue(hsv, 180)
		if hsv.S > 0 {
			hsv.S = math.Max(hsv.S, 0.45)
		}
		hsv.V = math.Max(0.55, math.Min(0.90, hsv.V))
	}
	return hsv.RGB()
}

// rotateHue turns the hue of a chromatic colour. Greys keep hue 0.
func rotateHue(c HSV, degrees float64) float64 {
	if c.S == 0 {
		return 0
	}
	return normaliseHue(c.H + degrees)
}
