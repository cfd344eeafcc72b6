package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/jmylchreest/picturepalette/internal/colour"
)

// DefaultSwatchCell is the side of one swatch square in pixels.
const DefaultSwatchCell = 64

// Swatch draws the dominant colours on the top row and the palette below,
// one square of side cell per colour.
func Swatch(dominant colour.DominantColorSet, palette colour.Palette, cell int) *image.RGBA {
	if cell <= 0 {
		cell = DefaultSwatchCell
	}

	img := image.NewRGBA(image.Rect(0, 0, cell*colour.PaletteSize, cell*2))
	rows := [2][colour.PaletteSize]colour.RGB{dominant, palette}
	for row, colours := range rows {
		for i, c := range colours {
			r := image.Rect(i*cell, row*cell, (i+1)*cell, (row+1)*cell)
			draw.Draw(img, r, image.NewUniform(c.Color()), image.Point{}, draw.Src)
		}
	}
	return img
}

// WriteSwatch encodes the swatch as PNG at path.
func WriteSwatch(path string, dominant colour.DominantColorSet, palette colour.Palette, cell int) error {
	f, err := os.Create(path) // #nosec G304 - User-specified output path
	if err != nil {
		return fmt.Errorf("failed to create swatch file: %w", err)
	}

	encErr := png.Encode(f, Swatch(dominant, palette, cell))
	closeErr := f.Close()
	if encErr != nil {
		return fmt.Errorf("failed to encode swatch: %w", encErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close swatch file: %w", closeErr)
	}
	return nil
}
