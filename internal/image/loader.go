// Package image acquires the picture to analyse: a local file, a random
// image from a directory, or an HTTP(S) URL.
package image

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/picturepalette/internal/security"
	httputil "github.com/jmylchreest/picturepalette/internal/util/http"
	"github.com/jmylchreest/picturepalette/internal/util/imagecache"
)

// Options configures a Loader.
type Options struct {
	// MaxDimension downscales images whose longer side exceeds it. Zero disables.
	MaxDimension int

	// Cache stores remote images under CacheDir and reuses them.
	Cache    bool
	CacheDir string

	// AllowPrivate permits URLs that resolve to local or private hosts.
	AllowPrivate bool

	Fetch httputil.FetchOptions
}

// Loaded is a decoded image and where it came from.
type Loaded struct {
	Image  image.Image
	Source string
	Format string

	// Width and Height are the original dimensions before any downscale.
	Width  int
	Height int
}

// Loader loads images from files, directories and URLs.
type Loader struct {
	opts   Options
	logger hclog.Logger
}

// NewLoader creates a Loader. A nil logger discards output.
func NewLoader(opts Options, logger hclog.Logger) *Loader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Loader{opts: opts, logger: logger}
}

// Load resolves path, decodes the image and applies the configured downscale.
func (l *Loader) Load(ctx context.Context, path string) (*Loaded, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		img    image.Image
		format string
		source string
		err    error
	)
	if IsURL(path) {
		source = path
		img, format, err = l.loadURL(ctx, path)
	} else {
		source, err = ResolveImagePath(path)
		if err != nil {
			return nil, err
		}
		if source != path {
			l.logger.Info("selected image from directory", "dir", path, "image", source)
		}
		img, format, err = decodeFile(source)
	}
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	loaded := &Loaded{Image: img, Source: source, Format: format, Width: b.Dx(), Height: b.Dy()}
	if scaled := Downscale(img, l.opts.MaxDimension); scaled != img {
		l.logger.Debug("downscaled image",
			"from", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
			"to", fmt.Sprintf("%dx%d", scaled.Bounds().Dx(), scaled.Bounds().Dy()))
		loaded.Image = scaled
	}

	l.logger.Debug("loaded image", "source", source, "format", format, "width", loaded.Width, "height", loaded.Height)
	return loaded, nil
}

func (l *Loader) loadURL(ctx context.Context, url string) (image.Image, string, error) {
	if err := security.ValidateImageURL(url, l.opts.AllowPrivate); err != nil {
		return nil, "", err
	}

	if l.opts.Cache {
		cached, err := imagecache.DownloadAndCache(ctx, url, imagecache.CacheOptions{
			CacheDir: l.opts.CacheDir,
			Fetch:    l.opts.Fetch,
		})
		if err != nil {
			return nil, "", err
		}
		l.logger.Debug("using cached image", "url", url, "path", cached)
		return decodeFile(cached)
	}

	data, err := httputil.Fetch(ctx, url, l.opts.Fetch)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image from URL: %w", err)
	}
	return decode(bytes.NewReader(data))
}

func decodeFile(path string) (image.Image, string, error) {
	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("image file not found: %s", path)
		}
		return nil, "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return decode(file)
}

func decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, format, nil
}

// Downscale shrinks img so that its longer side is at most maxDim, keeping the
// aspect ratio. It returns img unchanged when maxDim <= 0 or img already fits.
func Downscale(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	nw, nh := maxDim, maxDim
	if w >= h {
		nh = max(1, h*maxDim/w)
	} else {
		nw = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// IsURL reports whether path is an HTTP(S) URL.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
}

func isImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// ScanDirectoryForImages returns the supported image files directly inside
// dirPath. It does not recurse, but follows symlinks.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		info, err := os.Stat(fullPath)
		if err != nil || info.IsDir() {
			continue
		}
		if isImageFile(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no supported image files found in directory: %s", dirPath)
	}
	return imageFiles, nil
}

// SelectRandomImage picks one path using crypto/rand.
func SelectRandomImage(imagePaths []string) (string, error) {
	if len(imagePaths) == 0 {
		return "", fmt.Errorf("image path list is empty")
	}

	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(imagePaths))))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return imagePaths[idx.Int64()], nil
}

// ResolveImagePath returns path unchanged for files and URLs, and a random
// image from the directory when path is a directory.
func ResolveImagePath(path string) (string, error) {
	if IsURL(path) {
		return path, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("image file or directory not found: %s", path)
		}
		return "", fmt.Errorf("failed to access image path: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	imageFiles, err := ScanDirectoryForImages(path)
	if err != nil {
		return "", err
	}
	return SelectRandomImage(imageFiles)
}
