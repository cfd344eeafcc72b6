//go:build ignore

// Writes sample pictures for trying picturepalette by hand:
//
//	go run testdata/generate_test_image.go
//	picturepalette extract testdata/bands.png
package main

import (
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/lucasb-eyer/go-colorful"
)

// Each band starts at a bucket seed (row-major index i*n/5), so bands.png
// extracts to exactly these colours.
var bands = []color.RGBA{
	{R: 200, G: 40, B: 40, A: 255},
	{R: 30, G: 160, B: 90, A: 255},
	{R: 20, G: 40, B: 180, A: 255},
	{R: 128, G: 128, B: 128, A: 255},
	{R: 250, G: 230, B: 200, A: 255},
}

func main() {
	const width, bandHeight = 400, 80

	img := image.NewRGBA(image.Rect(0, 0, width, bandHeight*len(bands)))
	for y := range img.Bounds().Dy() {
		for x := range width {
			img.Set(x, y, bands[y/bandHeight])
		}
	}
	write("testdata/bands.png", img)

	// A hue wheel across the width and falling brightness down the height,
	// useful for checking circular hue averaging.
	wheel := image.NewRGBA(image.Rect(0, 0, 360, 100))
	for y := range 100 {
		for x := range 360 {
			wheel.Set(x, y, colorful.Hsv(float64(x), 0.8, 1-float64(y)/200).Clamped())
		}
	}
	write("testdata/wheel.png", wheel)
}

func write(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", path)
}
