package colour

import (
	"fmt"
	"runtime"

	"github.com/hashicorp/go-hclog"
)

// Extractor reduces a sequence of samples to a fixed number of dominant colours.
type Extractor interface {
	// Extract returns exactly BucketCount centroids.
	Extract(samples []HSV) ([]HSV, error)

	// Clusters is Extract with the share of samples held by each centroid.
	Clusters(samples []HSV) ([]Cluster, error)
}

// Cluster is a final centroid together with its weight (fraction of samples).
type Cluster struct {
	Centroid HSV     `json:"centroid"`
	Weight   float64 `json:"weight"`
}

// Algorithm represents the color extraction algorithm type.
type Algorithm string

const (
	// AlgorithmBucket is deterministic bucket refinement in HSV space.
	AlgorithmBucket Algorithm = "bucket"

	// AlgorithmKMeans uses k-means++ seeded clustering. Results vary between runs.
	AlgorithmKMeans Algorithm = "kmeans"
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmBucket,
		AlgorithmKMeans,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

const (
	// DefaultBucketCount is the number of dominant colours consumed downstream.
	DefaultBucketCount = PaletteSize

	// DefaultIterations bounds the refinement passes.
	DefaultIterations = 10

	maxBucketCount = 256
)

// ExtractorConfig holds configuration for color extraction.
type ExtractorConfig struct {
	Algorithm   Algorithm
	BucketCount int
	Iterations  int

	// Workers caps the goroutines used for the assignment step.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int

	Weights Weights
	Logger  hclog.Logger
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Algorithm:   AlgorithmBucket,
		BucketCount: DefaultBucketCount,
		Iterations:  DefaultIterations,
		Weights:     DefaultWeights(),
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", c.Algorithm, ValidAlgorithms())
	}
	if c.BucketCount < 1 {
		return fmt.Errorf("bucket count must be at least 1, got %d", c.BucketCount)
	}
	if c.BucketCount > maxBucketCount {
		return fmt.Errorf("bucket count too large: %d (maximum: %d)", c.BucketCount, maxBucketCount)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return c.Weights.Validate()
}

func (c ExtractorConfig) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c ExtractorConfig) logger() hclog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return hclog.NewNullLogger()
}

// NewExtractor creates a new Extractor based on the configured algorithm.
func NewExtractor(cfg ExtractorConfig) (Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Algorithm {
	case AlgorithmBucket:
		return NewBucketExtractor(cfg), nil
	case AlgorithmKMeans:
		return NewKMeansExtractor(cfg), nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", cfg.Algorithm, ValidAlgorithms())
	}
}

// centroidsOf drops the weights.
func centroidsOf(clusters []Cluster) []HSV {
	out := make([]HSV, len(clusters))
	for i, c := range clusters {
		out[i] = c.Centroid
	}
	return out
}
