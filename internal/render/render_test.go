package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmylchreest/picturepalette/internal/colour"
	"github.com/jmylchreest/picturepalette/internal/compression"
	"github.com/jmylchreest/picturepalette/internal/pipeline"
)

var (
	testDominant = colour.DominantColorSet{
		{R: 200, G: 40, B: 40},
		{R: 30, G: 160, B: 90},
		{R: 20, G: 40, B: 180},
		{R: 128, G: 128, B: 128},
		{R: 250, G: 230, B: 200},
	}
	testPalette = colour.Palette{
		{R: 40, G: 200, B: 200},
		{R: 160, G: 30, B: 100},
		{R: 180, G: 160, B: 20},
		{R: 140, G: 140, B: 140},
		{R: 200, G: 220, B: 250},
	}
)

func testReport() Report {
	clusters := make([]colour.Cluster, len(testDominant))
	for i, c := range testDominant {
		clusters[i] = colour.Cluster{Centroid: c.HSV(), Weight: 0.2}
	}
	res := &pipeline.Result{
		Width:    10,
		Height:   20,
		Samples:  200,
		Clusters: clusters,
		Dominant: testDominant,
		Palette:  testPalette,
	}
	return NewReport("wall.png", pipeline.DefaultConfig(), res)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "hex", want: FormatHex},
		{in: "RGB", want: FormatRGB},
		{in: "json", want: FormatJSON},
		{in: "categorised", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testReport(), FormatJSON, true); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"image", "width", "height", "samples", "bucket_count", "iterations", "scheme", "dominant", "palette"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if strings.Contains(buf.String(), "\033[") {
		t.Error("JSON output must not contain ANSI escapes")
	}

	var report Report
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if len(report.Dominant) != 5 || len(report.Palette) != 5 {
		t.Fatalf("got %d dominant, %d palette entries", len(report.Dominant), len(report.Palette))
	}
	if report.Dominant[0].Hex != "#c82828" || report.Dominant[0].Weight != 0.2 {
		t.Errorf("unexpected first dominant entry: %+v", report.Dominant[0])
	}
	if report.Palette[4].Hex != "#c8dcfa" {
		t.Errorf("palette[4] = %s, want #c8dcfa", report.Palette[4].Hex)
	}
	if report.Scheme != "accent" || report.BucketCount != 5 || report.Iterations != 10 {
		t.Errorf("unexpected settings: %+v", report)
	}
}

func TestWriteText(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		preview  bool
		contains []string
	}{
		{
			name:     "hex",
			format:   FormatHex,
			contains: []string{"dominant:", "#c82828", "palette (accent):", "#28c8c8", "20.0%"},
		},
		{
			name:     "rgb",
			format:   FormatRGB,
			contains: []string{"rgb(200, 40, 40)", "rgb(40, 200, 200)"},
		},
		{
			name:     "preview",
			format:   FormatHex,
			preview:  true,
			contains: []string{"\033[48;2;200;40;40m", "#c82828"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, testReport(), tt.format, tt.preview); err != nil {
				t.Fatalf("Write() error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
			if !tt.preview && strings.Contains(buf.String(), "\033[") {
				t.Error("unexpected ANSI escape without preview")
			}
		})
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, testReport(), Format("yaml"), false); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestPaletteReportOmitsWeights(t *testing.T) {
	r := NewPaletteReport(colour.SchemeShade, testDominant, testPalette)
	var buf bytes.Buffer
	if err := Write(&buf, r, FormatHex, false); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "%") {
		t.Errorf("palette report should not print weights:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "palette (shade):") {
		t.Errorf("missing scheme header:\n%s", buf.String())
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("buffer reported as terminal")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("regular file reported as terminal")
	}
}

func TestSwatch(t *testing.T) {
	img := Swatch(testDominant, testPalette, 4)
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 8 {
		t.Fatalf("swatch size = %dx%d, want 20x8", b.Dx(), b.Dy())
	}

	for i := range colour.PaletteSize {
		if got := colour.ToRGB(img.At(i*4+1, 1)); got != testDominant[i] {
			t.Errorf("top row slot %d = %v, want %v", i, got, testDominant[i])
		}
		if got := colour.ToRGB(img.At(i*4+3, 7)); got != testPalette[i] {
			t.Errorf("bottom row slot %d = %v, want %v", i, got, testPalette[i])
		}
	}
}

func TestWriteSwatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swatch.png")
	if err := WriteSwatch(path, testDominant, testPalette, 0); err != nil {
		t.Fatalf("WriteSwatch() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("swatch is not a PNG")
	}

	if err := WriteSwatch(filepath.Join(t.TempDir(), "missing", "swatch.png"), testDominant, testPalette, 0); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestReadReport(t *testing.T) {
	dir := t.TempDir()
	want := testReport()

	data, err := Bytes(want, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "result.json.xz")
	if err := compression.WriteFile(path, data); err != nil {
		t.Fatal(err)
	}

	got, err := ReadReport(path)
	if err != nil {
		t.Fatalf("ReadReport() error: %v", err)
	}
	colours, err := got.DominantColours()
	if err != nil {
		t.Fatalf("DominantColours() error: %v", err)
	}
	if len(colours) != len(testDominant) {
		t.Fatalf("got %d colours, want %d", len(colours), len(testDominant))
	}
	for i, c := range colours {
		if c != testDominant[i] {
			t.Errorf("colour %d = %v, want %v", i, c, testDominant[i])
		}
	}

	bad := filepath.Join(dir, "result.txt")
	if err := os.WriteFile(bad, []byte("dominant:\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadReport(bad); err == nil {
		t.Error("expected error for a text result")
	}
	if _, err := ReadReport(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestDominantColoursRejectsBadHex(t *testing.T) {
	r := Report{Dominant: []DominantEntry{{Hex: "#zzzzzz"}}}
	if _, err := r.DominantColours(); err == nil {
		t.Error("expected error for invalid hex")
	}
}
