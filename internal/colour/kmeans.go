package colour

import (
	"fmt"
	"math"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// KMeansExtractor implements color extraction using k-means++ clustering.
// Samples are embedded in the HSV cone as (cos h, sin h, s, v) so that the
// arithmetic cluster centres correspond to circular hue means.
type KMeansExtractor struct {
	cfg ExtractorConfig
}

// NewKMeansExtractor creates a KMeansExtractor. Zero-valued fields fall back to defaults.
func NewKMeansExtractor(cfg ExtractorConfig) *KMeansExtractor {
	def := DefaultExtractorConfig()
	if cfg.BucketCount == 0 {
		cfg.BucketCount = def.BucketCount
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = def.Weights
	}
	cfg.Algorithm = AlgorithmKMeans
	return &KMeansExtractor{cfg: cfg}
}

// hsvObservation adapts a sample to the clusters.Observation interface.
type hsvObservation struct {
	sample  HSV
	weights Weights
}

func (o hsvObservation) Coordinates() clusters.Coordinates {
	rad := o.sample.H * math.Pi / 180
	return clusters.Coordinates{math.Cos(rad), math.Sin(rad), o.sample.S, o.sample.V}
}

func (o hsvObservation) Distance(point clusters.Coordinates) float64 {
	return o.weights.Distance(o.sample, sampleFromCoordinates(point))
}

// sampleFromCoordinates maps a cone point back to HSV.
func sampleFromCoordinates(c clusters.Coordinates) HSV {
	if len(c) < 4 {
		return HSV{}
	}
	h := 0.0
	if c[0] != 0 || c[1] != 0 {
		h = math.Atan2(c[1], c[0]) * 180 / math.Pi
	}
	return HSV{H: normaliseHue(h), S: clamp01(c[2]), V: clamp01(c[3])}
}

// Extract returns exactly BucketCount centroids.
func (e *KMeansExtractor) Extract(samples []HSV) ([]HSV, error) {
	found, err := e.Clusters(samples)
	if err != nil {
		return nil, err
	}
	return centroidsOf(found), nil
}

// Clusters partitions samples with k-means++ and reports cluster weights.
// Seeding is random, so repeated calls may return different centroids.
// When there are fewer samples than buckets the partition runs with one
// cluster per sample and the result is padded by repeating centroids.
func (e *KMeansExtractor) Clusters(samples []HSV) ([]Cluster, error) {
	if len(samples) == 0 {
		return nil, ErrInsufficientInput
	}

	k := e.cfg.BucketCount
	partitions := min(k, len(samples))

	dataset := make(clusters.Observations, len(samples))
	for i, s := range samples {
		dataset[i] = hsvObservation{sample: s, weights: e.cfg.Weights}
	}

	e.cfg.logger().Debug("partitioning samples with k-means", "samples", len(samples), "clusters", partitions)

	km := kmeans.New()
	parts, err := km.Partition(dataset, partitions)
	if err != nil {
		return nil, fmt.Errorf("k-means partition failed: %w", err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("k-means partition returned no clusters")
	}

	centroids := make([]HSV, k)
	for i := range centroids {
		if i < len(parts) {
			centroids[i] = partitionCentroid(parts[i])
			continue
		}
		// Padding repeats an existing centroid; ties resolve to the lower
		// index, so a repeat never claims samples.
		centroids[i] = centroids[i%len(parts)]
	}

	// muesli/kmeans may copy a sample into an emptied cluster without removing
	// it from its old one, so weights come from a fresh nearest-centre pass.
	counts := make([]int, k)
	for _, s := range samples {
		counts[e.cfg.Weights.nearest(s, centroids)]++
	}

	result := make([]Cluster, k)
	for i := range result {
		result[i] = Cluster{
			Centroid: centroids[i],
			Weight:   float64(counts[i]) / float64(len(samples)),
		}
	}
	return result, nil
}

// partitionCentroid maps a cluster centre back to HSV. A cluster whose members
// are all the same sample returns that sample unchanged.
func partitionCentroid(c clusters.Cluster) HSV {
	if len(c.Observations) > 0 {
		first, ok := c.Observations[0].(hsvObservation)
		uniform := ok
		for _, o := range c.Observations[1:] {
			if !uniform {
				break
			}
			obs, ok := o.(hsvObservation)
			uniform = ok && obs.sample == first.sample
		}
		if uniform {
			return first.sample
		}
	}
	return sampleFromCoordinates(c.Center)
}
