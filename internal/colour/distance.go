package colour

import (
	"fmt"
	"math"
)

// HueDistance calculates the angular distance between two hues on the color wheel.
// Returns a value between 0 and 180 degrees (shortest path around the wheel).
func HueDistance(h1, h2 float64) float64 {
	diff := math.Abs(h1 - h2)
	if diff > 180 {
		diff = 360 - diff // Handle wraparound
	}
	return diff
}

// Weights scales each HSV axis in the distance metric.
// Hue distance is normalised to [0, 1] by dividing by 180 before weighting.
type Weights struct {
	Hue        float64 `mapstructure:"hue"`
	Saturation float64 `mapstructure:"saturation"`
	Value      float64 `mapstructure:"value"`
}

// DefaultWeights gives the three axes equal influence.
func DefaultWeights() Weights {
	return Weights{Hue: 1, Saturation: 1, Value: 1}
}

// Validate rejects negative weights and the all-zero metric.
func (w Weights) Validate() error {
	if w.Hue < 0 || w.Saturation < 0 || w.Value < 0 {
		return fmt.Errorf("distance weights must not be negative, got %+v", w)
	}
	if w.Hue == 0 && w.Saturation == 0 && w.Value == 0 {
		return fmt.Errorf("at least one distance weight must be positive")
	}
	return nil
}

// Distance returns the weighted Euclidean distance between two samples.
func (w Weights) Distance(a, b HSV) float64 {
	return math.Sqrt(w.distanceSq(a, b))
}

// distanceSq skips the square root; nearest-centroid search only needs ordering.
func (w Weights) distanceSq(a, b HSV) float64 {
	dh := HueDistance(a.H, b.H) / 180
	ds := a.S - b.S
	dv := a.V - b.V
	return w.Hue*dh*dh + w.Saturation*ds*ds + w.Value*dv*dv
}

// Distance is the default metric with equal weights.
func Distance(a, b HSV) float64 {
	return DefaultWeights().Distance(a, b)
}

// nearest returns the index of the closest centroid. Ties resolve to the lowest index.
func (w Weights) nearest(sample HSV, centroids []HSV) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		if d := w.distanceSq(sample, c); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
