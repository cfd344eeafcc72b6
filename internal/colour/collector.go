package colour

import (
	"image"
)

// CollectSamples converts every pixel of img into an HSV sample.
// Pixels are visited in row-major order starting at Bounds().Min, so the
// result always has exactly width*height entries and is reproducible.
// A nil or empty image yields an empty slice.
func CollectSamples(img image.Image) []HSV {
	if img == nil {
		return []HSV{}
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return []HSV{}
	}

	samples := make([]HSV, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			samples = append(samples, FromColor(img.At(x, y)))
		}
	}
	return samples
}
