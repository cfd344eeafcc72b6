package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/picturepalette/internal/colour"
	"github.com/jmylchreest/picturepalette/internal/pipeline"
	"github.com/jmylchreest/picturepalette/internal/render"
)

// paletteFlags are the palette command flags that do not live in config.
type paletteFlags struct {
	format  string
	swatch  string
	preview bool
	from    string
}

func newPaletteCmd(opts *globalOptions) *cobra.Command {
	flags := &paletteFlags{}

	cmd := &cobra.Command{
		Use:   "palette <hex> <hex> <hex> <hex> <hex> | --from <result.json>",
		Short: "Derive a palette from five given colours",
		Long: `Derive a palette from exactly five colours without extracting them from a
picture. Use it to try another scheme on colours printed by 'extract', or
restore a JSON result saved with 'extract -f json -o' (.gz and .xz files are
decompressed).

Examples:
  picturepalette palette '#c82828' '#1ea05a' '#1428b4' '#808080' '#fae6c8'
  picturepalette palette -s tint -f json c82828 1ea05a 1428b4 808080 fae6c8
  picturepalette palette -s muted --from result.json.xz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPalette(cmd, opts, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringP("scheme", "s", string(colour.SchemeAccent), "palette scheme (see 'picturepalette schemes')")
	f.StringVarP(&flags.format, "format", "f", string(render.FormatHex), "output format (hex, rgb, json)")
	f.StringVar(&flags.swatch, "swatch", "", "write a PNG swatch of the colours and palette")
	f.BoolVar(&flags.preview, "preview", false, "show colour previews (default: on when stdout is a terminal)")
	f.StringVar(&flags.from, "from", "", "read the dominant colours from a saved JSON result")

	return cmd
}

func runPalette(cmd *cobra.Command, opts *globalOptions, flags *paletteFlags, args []string) error {
	logger := opts.logger(cmd)

	format, err := render.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	colours, err := paletteInput(flags.from, args)
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

	palette, err := engine.Regenerate(colours)
	if err != nil {
		return err
	}
	// Regenerate has checked the arity.
	dominant, _ := colour.NewDominantColorSet(colours)

	report := render.NewPaletteReport(engine.Config().Scheme, dominant, palette)
	if err := writeReport(cmd, logger, report, format, "", flags.preview); err != nil {
		return err
	}
	if flags.swatch != "" {
		if err := render.WriteSwatch(flags.swatch, dominant, palette, render.DefaultSwatchCell); err != nil {
			return err
		}
		logger.Info("wrote swatch", "path", flags.swatch)
	}
	return nil
}

// paletteInput takes the colours from a saved result or from the arguments.
func paletteInput(from string, args []string) ([]colour.RGB, error) {
	if from == "" {
		return parseColours(args)
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("give either colours or --from, not both")
	}
	report, err := render.ReadReport(from)
	if err != nil {
		return nil, fmt.Errorf("failed to read result: %w", err)
	}
	return report.DominantColours()
}

// parseColours parses hex arguments into colours.
func parseColours(args []string) ([]colour.RGB, error) {
	colours := make([]colour.RGB, 0, len(args))
	for _, arg := range args {
		c, err := colour.ParseHex(arg)
		if err != nil {
			return nil, err
		}
		colours = append(colours, c)
	}
	return colours, nil
}
