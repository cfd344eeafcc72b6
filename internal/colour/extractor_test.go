package colour

import (
	"testing"
)

func TestExtractorConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*ExtractorConfig)
		wantErr bool
	}{
		{name: "defaults", modify: func(*ExtractorConfig) {}},
		{name: "kmeans", modify: func(c *ExtractorConfig) { c.Algorithm = AlgorithmKMeans }},
		{name: "unknown algorithm", modify: func(c *ExtractorConfig) { c.Algorithm = "mediancut" }, wantErr: true},
		{name: "zero buckets", modify: func(c *ExtractorConfig) { c.BucketCount = 0 }, wantErr: true},
		{name: "too many buckets", modify: func(c *ExtractorConfig) { c.BucketCount = 257 }, wantErr: true},
		{name: "zero iterations", modify: func(c *ExtractorConfig) { c.Iterations = 0 }, wantErr: true},
		{name: "negative workers", modify: func(c *ExtractorConfig) { c.Workers = -1 }, wantErr: true},
		{name: "zero weights", modify: func(c *ExtractorConfig) { c.Weights = Weights{} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultExtractorConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewExtractor(t *testing.T) {
	cfg := DefaultExtractorConfig()

	e, err := NewExtractor(cfg)
	if err != nil {
		t.Fatalf("NewExtractor() error: %v", err)
	}
	if _, ok := e.(*BucketExtractor); !ok {
		t.Errorf("NewExtractor(bucket) returned %T", e)
	}

	cfg.Algorithm = AlgorithmKMeans
	e, err = NewExtractor(cfg)
	if err != nil {
		t.Fatalf("NewExtractor() error: %v", err)
	}
	if _, ok := e.(*KMeansExtractor); !ok {
		t.Errorf("NewExtractor(kmeans) returned %T", e)
	}

	cfg.Algorithm = "dominant"
	if _, err := NewExtractor(cfg); err == nil {
		t.Error("NewExtractor(dominant) expected error")
	}
}

func TestDefaultsMatchPaletteSize(t *testing.T) {
	cfg := DefaultExtractorConfig()
	if cfg.BucketCount != PaletteSize {
		t.Errorf("default bucket count = %d, want %d", cfg.BucketCount, PaletteSize)
	}
	if cfg.Iterations != DefaultIterations {
		t.Errorf("default iterations = %d, want %d", cfg.Iterations, DefaultIterations)
	}
}
