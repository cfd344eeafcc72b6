// Package render formats extraction results for terminals, files and images.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jmylchreest/picturepalette/internal/colour"
	"github.com/jmylchreest/picturepalette/internal/compression"
	"github.com/jmylchreest/picturepalette/internal/pipeline"
)

// Format is a text output format.
type Format string

const (
	FormatHex  Format = "hex"
	FormatRGB  Format = "rgb"
	FormatJSON Format = "json"
)

// previewWidth is the width of an ANSI colour block.
const previewWidth = 8

// ValidFormats returns the supported output formats.
func ValidFormats() []Format {
	return []Format{FormatHex, FormatRGB, FormatJSON}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	for _, valid := range ValidFormats() {
		if f == valid {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s (supported: hex, rgb, json)", s)
}

// DominantEntry is one extracted colour.
type DominantEntry struct {
	Hex    string     `json:"hex"`
	RGB    colour.RGB `json:"rgb"`
	HSV    colour.HSV `json:"hsv"`
	Weight float64    `json:"weight"`
}

// PaletteEntry is one derived colour.
type PaletteEntry struct {
	Hex string     `json:"hex"`
	RGB colour.RGB `json:"rgb"`
}

// Report is the serialisable outcome of a run.
type Report struct {
	Image       string          `json:"image,omitempty"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Samples     int             `json:"samples"`
	BucketCount int             `json:"bucket_count"`
	Iterations  int             `json:"iterations"`
	Algorithm   string          `json:"algorithm,omitempty"`
	Scheme      string          `json:"scheme"`
	Dominant    []DominantEntry `json:"dominant"`
	Palette     []PaletteEntry  `json:"palette"`
}

// NewReport builds a report for an image processed by the pipeline.
func NewReport(source string, cfg pipeline.Config, res *pipeline.Result) Report {
	r := Report{
		Image:       source,
		Width:       res.Width,
		Height:      res.Height,
		Samples:     res.Samples,
		BucketCount: cfg.Extractor.BucketCount,
		Iterations:  cfg.Extractor.Iterations,
		Algorithm:   string(cfg.Extractor.Algorithm),
		Scheme:      string(cfg.Scheme),
	}
	r.Dominant = dominantEntries(res.Dominant, res.Clusters)
	r.Palette = paletteEntries(res.Palette)
	return r
}

// NewPaletteReport builds a report for a palette regenerated from given colours.
func NewPaletteReport(scheme colour.Scheme, dominant colour.DominantColorSet, palette colour.Palette) Report {
	return Report{
		BucketCount: len(dominant),
		Scheme:      string(scheme),
		Dominant:    dominantEntries(dominant, nil),
		Palette:     paletteEntries(palette),
	}
}

func dominantEntries(set colour.DominantColorSet, clusters []colour.Cluster) []DominantEntry {
	entries := make([]DominantEntry, len(set))
	for i, c := range set {
		entries[i] = DominantEntry{Hex: c.Hex(), RGB: c, HSV: c.HSV()}
		if i < len(clusters) {
			entries[i].HSV = clusters[i].Centroid
			entries[i].Weight = clusters[i].Weight
		}
	}
	return entries
}

func paletteEntries(p colour.Palette) []PaletteEntry {
	entries := make([]PaletteEntry, len(p))
	for i, c := range p {
		entries[i] = PaletteEntry{Hex: c.Hex(), RGB: c}
	}
	return entries
}

// ReadReport loads a JSON report saved by extract, decompressing it according
// to its extension.
func ReadReport(path string) (Report, error) {
	data, err := compression.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("%s is not a JSON result: %w", path, err)
	}
	return r, nil
}

// DominantColours parses the dominant hex codes in slot order.
func (r Report) DominantColours() ([]colour.RGB, error) {
	colours := make([]colour.RGB, len(r.Dominant))
	for i, d := range r.Dominant {
		c, err := colour.ParseHex(d.Hex)
		if err != nil {
			return nil, fmt.Errorf("dominant colour %d: %w", i+1, err)
		}
		colours[i] = c
	}
	return colours, nil
}

// Write renders the report to w. Preview adds ANSI colour blocks to text formats.
func Write(w io.Writer, r Report, format Format, preview bool) error {
	var out string
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		out = string(data) + "\n"
	case FormatHex, FormatRGB:
		out = formatText(r, format, preview)
	default:
		return fmt.Errorf("unsupported format: %s (supported: hex, rgb, json)", format)
	}

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Bytes renders the report to memory.
func Bytes(r Report, format Format) ([]byte, error) {
	var b strings.Builder
	if err := Write(&b, r, format, false); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func formatText(r Report, format Format, preview bool) string {
	var b strings.Builder
	if r.Image != "" {
		fmt.Fprintf(&b, "image: %s (%dx%d, %d samples)\n", r.Image, r.Width, r.Height, r.Samples)
	}

	b.WriteString("dominant:\n")
	for _, d := range r.Dominant {
		line := colourLine(d.RGB, format, preview)
		if r.Samples > 0 {
			line += fmt.Sprintf("  %5.1f%%", d.Weight*100)
		}
		b.WriteString("  " + line + "\n")
	}

	fmt.Fprintf(&b, "palette (%s):\n", r.Scheme)
	for _, p := range r.Palette {
		b.WriteString("  " + colourLine(p.RGB, format, preview) + "\n")
	}
	return b.String()
}

func colourLine(c colour.RGB, format Format, preview bool) string {
	var text string
	switch format {
	case FormatRGB:
		text = c.String()
	default:
		text = c.Hex()
	}
	if !preview {
		return text
	}
	return colour.ColourPreview(c, previewWidth) + " " + text
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) // #nosec G115 - file descriptors fit in int
}
