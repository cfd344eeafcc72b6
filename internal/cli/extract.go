package cli

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/picturepalette/internal/compression"
	"github.com/jmylchreest/picturepalette/internal/image"
	"github.com/jmylchreest/picturepalette/internal/pipeline"
	"github.com/jmylchreest/picturepalette/internal/render"
	httputil "github.com/jmylchreest/picturepalette/internal/util/http"
)

// extractFlags are the extract command flags that do not live in config.
type extractFlags struct {
	format       string
	output       string
	swatch       string
	preview      bool
	allowPrivate bool
}

func newExtractCmd(opts *globalOptions) *cobra.Command {
	flags := &extractFlags{}
	def := pipeline.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "extract <image|dir|url>",
		Short: "Extract dominant colours and a palette from a picture",
		Long: `Extract five dominant colours from a picture and derive a palette from them.

The argument may be an image file, a directory (one supported image is picked
at random) or an HTTP(S) URL. Supported image formats: JPEG, PNG, GIF, WebP.

Examples:
  # Extract with defaults (bucket refinement, accent palette)
  picturepalette extract wallpaper.jpg

  # Pick a random wallpaper and show colour blocks
  picturepalette extract --preview ~/Pictures/wallpapers

  # Fetch a remote picture, cache it, and print JSON
  picturepalette extract --cache -f json https://example.com/photo.jpg

  # Use k-means, a muted palette, and save compressed JSON plus a swatch
  picturepalette extract -a kmeans -s muted -f json -o result.json.xz --swatch swatch.png photo.png

  # Downscale large pictures before sampling
  picturepalette extract --max-dimension 512 photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts, flags, args[0])
		},
	}

	f := cmd.Flags()
	f.IntP("buckets", "k", def.Extractor.BucketCount, "number of dominant colours; the palette has five slots, so only 5 is accepted")
	f.IntP("iterations", "n", def.Extractor.Iterations, "maximum refinement passes")
	f.StringP("algorithm", "a", string(def.Extractor.Algorithm), "extraction algorithm: bucket (deterministic) or kmeans (random seeding, results vary between runs)")
	f.StringP("scheme", "s", string(def.Scheme), "palette scheme (see 'picturepalette schemes')")
	f.Int("workers", 0, "goroutines for the assignment step (0 = GOMAXPROCS)")
	f.Int("max-dimension", 0, "downscale so the longer side is at most this many pixels (0 = off)")
	f.Bool("cache", false, "cache remote images on disk")
	f.String("cache-dir", "", "directory for cached remote images")
	f.Duration("timeout", httputil.DefaultTimeout, "timeout for fetching remote images")

	f.StringVarP(&flags.format, "format", "f", string(render.FormatHex), "output format (hex, rgb, json)")
	f.StringVarP(&flags.output, "output", "o", "", "output file, compressed when it ends in .gz or .xz (default: stdout)")
	f.StringVar(&flags.swatch, "swatch", "", "write a PNG swatch of the dominant colours and palette")
	f.BoolVar(&flags.preview, "preview", false, "show colour previews (default: on when stdout is a terminal)")
	f.BoolVar(&flags.allowPrivate, "allow-private", false, "allow URLs on local or private networks")

	return cmd
}

func runExtract(cmd *cobra.Command, opts *globalOptions, flags *extractFlags, path string) error {
	logger := opts.logger(cmd)

	format, err := render.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	engine, err := pipeline.New(cfg.Pipeline(), logger)
	if err != nil {
		return err
	}

	loader := image.NewLoader(image.Options{
		MaxDimension: cfg.Extract.MaxDimension,
		Cache:        cfg.Image.Cache,
		CacheDir:     cfg.Image.CacheDir,
		AllowPrivate: flags.allowPrivate,
		Fetch:        httputil.FetchOptions{Timeout: cfg.Fetch.Timeout},
	}, logger.Named("image"))

	loaded, err := loader.Load(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	start := time.Now()
	result, err := engine.Process(loaded.Image)
	if err != nil {
		return err
	}
	logger.Debug("extraction finished",
		"algorithm", cfg.Extract.Algorithm,
		"samples", result.Samples,
		"elapsed", time.Since(start))

	report := render.NewReport(loaded.Source, engine.Config(), result)
	report.Width, report.Height = loaded.Width, loaded.Height

	if err := writeReport(cmd, logger, report, format, flags.output, flags.preview); err != nil {
		return err
	}
	if flags.swatch != "" {
		if err := render.WriteSwatch(flags.swatch, result.Dominant, result.Palette, render.DefaultSwatchCell); err != nil {
			return err
		}
		logger.Info("wrote swatch", "path", flags.swatch)
	}
	return nil
}

// writeReport prints to stdout, or writes a possibly compressed file when
// output is set. Preview applies to stdout only.
func writeReport(cmd *cobra.Command, logger hclog.Logger, report render.Report, format render.Format, output string, preview bool) error {
	if output == "" {
		out := cmd.OutOrStdout()
		if !cmd.Flags().Changed("preview") {
			preview = format != render.FormatJSON && render.IsTerminal(out)
		}
		return render.Write(out, report, format, preview)
	}

	data, err := render.Bytes(report, format)
	if err != nil {
		return err
	}
	if err := compression.WriteFile(output, data); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	logger.Info("wrote result", "path", output, "compression", compression.DetectFormat(output))
	return nil
}
