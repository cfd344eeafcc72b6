package colour

import (
	"fmt"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

const (
	// parallelThreshold is the sample count below which assignment stays on one goroutine.
	parallelThreshold = 4096

	// assignChunk is the number of samples one assignment task handles.
	assignChunk = 1024
)

// BucketExtractor clusters samples by iterative bucket refinement in HSV space.
// Seeding is deterministic, so identical input always yields identical output.
type BucketExtractor struct {
	cfg ExtractorConfig
}

// bucket is the per-run accumulator for one cluster.
type bucket struct {
	centroid HSV
	members  []int
}

// NewBucketExtractor creates a BucketExtractor. Zero-valued fields fall back to defaults.
func NewBucketExtractor(cfg ExtractorConfig) *BucketExtractor {
	def := DefaultExtractorConfig()
	if cfg.BucketCount == 0 {
		cfg.BucketCount = def.BucketCount
	}
	if cfg.Iterations == 0 {
		cfg.Iterations = def.Iterations
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = def.Weights
	}
	cfg.Algorithm = AlgorithmBucket
	return &BucketExtractor{cfg: cfg}
}

// Extract returns exactly BucketCount centroids ordered by bucket index.
func (e *BucketExtractor) Extract(samples []HSV) ([]HSV, error) {
	clusters, err := e.Clusters(samples)
	if err != nil {
		return nil, err
	}
	return centroidsOf(clusters), nil
}

// Clusters runs the refinement and reports each bucket's share of the samples.
func (e *BucketExtractor) Clusters(samples []HSV) ([]Cluster, error) {
	if len(samples) == 0 {
		return nil, ErrInsufficientInput
	}

	logger := e.cfg.logger()
	k := e.cfg.BucketCount
	buckets := seedBuckets(samples, k)

	logger.Debug("clustering samples",
		"samples", len(samples),
		"buckets", k,
		"iterations", e.cfg.Iterations,
		"workers", e.cfg.workers())

	centroids := make([]HSV, k)
	assignments := make([]int, len(samples))
	previous := make([]int, len(samples))

	pass := 0
	converged := false
	for pass < e.cfg.Iterations {
		for i := range buckets {
			centroids[i] = buckets[i].centroid
		}
		if err := e.assign(samples, centroids, assignments); err != nil {
			return nil, err
		}
		pass++

		// An unchanged assignment reproduces the current centroids, so the
		// remaining passes cannot alter the result.
		if pass > 1 && slices.Equal(assignments, previous) {
			logger.Debug("assignment reached a fixed point", "pass", pass)
			converged = true
			break
		}

		updateBuckets(samples, buckets, assignments)
		copy(previous, assignments)
		logger.Trace("refinement pass complete", "pass", pass)
	}

	// The last update moved the centroids, so weights need an assignment
	// against the centroids actually returned.
	if !converged {
		for i := range buckets {
			centroids[i] = buckets[i].centroid
		}
		if err := e.assign(samples, centroids, assignments); err != nil {
			return nil, err
		}
	}

	counts := make([]int, k)
	for _, a := range assignments {
		counts[a]++
	}

	clusters := make([]Cluster, k)
	for i := range buckets {
		clusters[i] = Cluster{
			Centroid: buckets[i].centroid,
			Weight:   float64(counts[i]) / float64(len(samples)),
		}
	}
	logger.Debug("clustering complete", "passes", pass, "bucket_sizes", counts)

	return clusters, nil
}

// seedBuckets splits samples into k contiguous slices of equal size (±1) and
// seeds each bucket with the first sample of its slice. With fewer samples than
// buckets several buckets share a seed.
func seedBuckets(samples []HSV, k int) []bucket {
	n := len(samples)
	buckets := make([]bucket, k)
	for i := range buckets {
		buckets[i].centroid = samples[i*n/k]
	}
	return buckets
}

// assign stores the nearest centroid index of every sample in out.
// Each goroutine owns a disjoint range of out.
func (e *BucketExtractor) assign(samples, centroids []HSV, out []int) error {
	w := e.cfg.Weights
	workers := e.cfg.workers()
	if len(samples) < parallelThreshold || workers < 2 {
		for i, s := range samples {
			out[i] = w.nearest(s, centroids)
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < len(samples); start += assignChunk {
		end := min(start+assignChunk, len(samples))
		g.Go(func() error {
			for i := start; i < end; i++ {
				out[i] = w.nearest(samples[i], centroids)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("assignment failed: %w", err)
	}
	return nil
}

// updateBuckets recomputes every centroid from its members.
// A bucket without members keeps its previous centroid.
func updateBuckets(samples []HSV, buckets []bucket, assignments []int) {
	for i := range buckets {
		buckets[i].members = buckets[i].members[:0]
	}
	for idx, b := range assignments {
		buckets[b].members = append(buckets[b].members, idx)
	}

	hues := make([]float64, 0, len(samples))
	sats := make([]float64, 0, len(samples))
	vals := make([]float64, 0, len(samples))
	for i := range buckets {
		if len(buckets[i].members) == 0 {
			continue
		}
		buckets[i].centroid = meanSample(samples, buckets[i].members, hues[:0], sats[:0], vals[:0])
	}
}

// meanSample is the circular mean hue and arithmetic mean saturation and value
// of the given members. Identical members return that sample unchanged.
func meanSample(samples []HSV, members []int, hues, sats, vals []float64) HSV {
	first := samples[members[0]]
	uniform := true
	for _, idx := range members {
		s := samples[idx]
		if s != first {
			uniform = false
		}
		hues = append(hues, s.H*math.Pi/180)
		sats = append(sats, s.S)
		vals = append(vals, s.V)
	}
	if uniform {
		return first
	}

	return HSV{
		H: normaliseHue(stat.CircularMean(hues, nil) * 180 / math.Pi),
		S: clamp01(stat.Mean(sats, nil)),
		V: clamp01(stat.Mean(vals, nil)),
	}
}
