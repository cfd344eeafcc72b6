// Package pipeline runs sample collection, colour extraction and palette
// generation as one step.
package pipeline

import (
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/picturepalette/internal/colour"
)

// Config holds configuration for an Engine.
type Config struct {
	Extractor colour.ExtractorConfig
	Scheme    colour.Scheme
}

// DefaultConfig returns five buckets, ten passes and the accent scheme.
func DefaultConfig() Config {
	return Config{
		Extractor: colour.DefaultExtractorConfig(),
		Scheme:    colour.SchemeAccent,
	}
}

// Validate validates the pipeline configuration.
func (c Config) Validate() error {
	if err := c.Extractor.Validate(); err != nil {
		return err
	}
	// Every extracted colour is consumed by the palette, so K is fixed to its size.
	if c.Extractor.BucketCount != colour.PaletteSize {
		return fmt.Errorf("bucket count must be %d to fill the palette, got %d",
			colour.PaletteSize, c.Extractor.BucketCount)
	}
	if !colour.IsValidScheme(c.Scheme) {
		return fmt.Errorf("unknown palette scheme: %s (valid schemes: %v)", c.Scheme, colour.ValidSchemes())
	}
	return nil
}

// Result is the outcome of processing one image.
type Result struct {
	Width    int
	Height   int
	Samples  int
	Clusters []colour.Cluster
	Dominant colour.DominantColorSet
	Palette  colour.Palette
}

// Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	cfg       Config
	extractor colour.Extractor
	generator *colour.Generator
	logger    hclog.Logger
}

// New creates an Engine. A nil logger discards output.
func New(cfg Config, logger hclog.Logger) (*Engine, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.Extractor.Logger = logger.Named("extract")
	extractor, err := colour.NewExtractor(cfg.Extractor)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	generator, err := colour.NewGenerator(cfg.Scheme)
	if err != nil {
		return nil, fmt.Errorf("failed to create palette generator: %w", err)
	}

	return &Engine{
		cfg:       cfg,
		extractor: extractor,
		generator: generator,
		logger:    logger,
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Process samples every pixel of img and derives its colours.
func (e *Engine) Process(img image.Image) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}

	bounds := img.Bounds()
	e.logger.Debug("collecting samples", "width", bounds.Dx(), "height", bounds.Dy())

	result, err := e.ProcessSamples(colour.CollectSamples(img))
	if err != nil {
		return nil, err
	}
	result.Width = bounds.Dx()
	result.Height = bounds.Dy()
	return result, nil
}

// ProcessSamples runs extraction and palette generation over prepared samples.
func (e *Engine) ProcessSamples(samples []colour.HSV) (*Result, error) {
	clusters, err := e.extractor.Clusters(samples)
	if err != nil {
		return nil, fmt.Errorf("failed to extract colours: %w", err)
	}

	centroids := make([]colour.HSV, len(clusters))
	for i, c := range clusters {
		centroids[i] = c.Centroid
	}

	dominant, err := colour.DominantFromSamples(centroids)
	if err != nil {
		return nil, fmt.Errorf("failed to build dominant colours: %w", err)
	}

	palette := e.generator.FromDominant(dominant)
	e.logger.Debug("palette generated",
		"dominant", dominant.ToHex(),
		"palette", palette.ToHex(),
		"scheme", e.cfg.Scheme)

	return &Result{
		Samples:  len(samples),
		Clusters: clusters,
		Dominant: dominant,
		Palette:  palette,
	}, nil
}

// Regenerate derives a palette from dominant colours without re-extracting them.
func (e *Engine) Regenerate(dominant []colour.RGB) (colour.Palette, error) {
	palette, err := e.generator.Generate(dominant)
	if err != nil {
		return colour.Palette{}, fmt.Errorf("failed to generate palette: %w", err)
	}
	return palette, nil
}
