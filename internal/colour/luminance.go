package colour

import "math"

var (
	black = RGB{}
	white = RGB{R: 255, G: 255, B: 255}
)

// Luminance is the WCAG 2.0 relative luminance of c, from 0 (black) to 1 (white).
func Luminance(c RGB) float64 {
	return 0.2126*linear(c.R) + 0.7152*linear(c.G) + 0.0722*linear(c.B)
}

// linear undoes the sRGB transfer curve for one channel.
func linear(channel uint8) float64 {
	v := float64(channel) / 255
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio is the WCAG 2.0 contrast ratio of two colours, from 1 to 21.
func ContrastRatio(a, b RGB) float64 {
	la, lb := Luminance(a), Luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// ReadableText returns black or white, whichever contrasts more with bg.
func ReadableText(bg RGB) RGB {
	if ContrastRatio(bg, black) >= ContrastRatio(bg, white) {
		return black
	}
	return white
}
