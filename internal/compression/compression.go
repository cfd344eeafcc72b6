// Package compression writes and reads result files, compressing them
// according to their extension.
package compression

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/picturepalette/internal/security"
)

// Format identifies a compression container.
type Format string

const (
	FormatNone Format = ""
	FormatGzip Format = "gz"
	FormatXZ   Format = "xz"
)

// maxDecompressedSize bounds ReadFile output.
const maxDecompressedSize = 64 << 20

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return FormatGzip
	case ".xz":
		return FormatXZ
	default:
		return FormatNone
	}
}

// Compress returns data wrapped in the given format.
func Compress(data []byte, format Format) ([]byte, error) {
	var buf bytes.Buffer

	var w io.WriteCloser
	switch format {
	case FormatNone:
		return data, nil
	case FormatGzip:
		w = gzip.NewWriter(&buf)
	case FormatXZ:
		xw, err := xz.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		w = xw
	default:
		return nil, fmt.Errorf("unsupported compression format: %s", format)
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to compress (%s): %w", format, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish %s stream: %w", format, err)
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress. Output is capped to guard against bombs.
func Decompress(data []byte, format Format) ([]byte, error) {
	var r io.Reader
	switch format {
	case FormatNone:
		return data, nil
	case FormatGzip:
		gzr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzr.Close()
		r = gzr
	case FormatXZ:
		xzr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		r = xzr
	default:
		return nil, fmt.Errorf("unsupported compression format: %s", format)
	}

	out, err := io.ReadAll(security.NewLimitedReader(r, maxDecompressedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress (%s): %w", format, err)
	}
	return out, nil
}

// WriteFile compresses data according to the extension of path and writes it.
func WriteFile(path string, data []byte) error {
	out, err := Compress(data, DetectFormat(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Output directory needs standard permissions
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, out, 0o644); err != nil { // #nosec G306 - Result files are meant to be readable
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads path and decompresses it according to its extension.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 - User-specified result path
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Decompress(data, DetectFormat(path))
}
