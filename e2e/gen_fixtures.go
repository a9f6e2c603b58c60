//go:build ignore

// gen_fixtures creates sample images for an end-to-end smoke run of
// imgfit optimize. The set covers the interesting inputs: an oversized
// landscape photo that triggers the dimension cap, a portrait, a square,
// and a transparent logo that forces the PNG fallback.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(dir, 0o755)

	// Oversized landscape (JPEG, 2400x1600): exceeds the default 1920
	// cap, so the pipeline downscales before the first probe.
	writeJPEG(filepath.Join(dir, "landscape-large.jpg"), noisyGradient(2400, 1600))

	// Portrait (JPEG, 1200x1800): cap applies to height.
	writeJPEG(filepath.Join(dir, "portrait.jpg"), noisyGradient(1200, 1800))

	// Square already under the cap: no resize on entry.
	writeJPEG(filepath.Join(dir, "square.jpg"), noisyGradient(800, 800))

	// Transparent logo: jpeg requests must fall back to png.
	writePNG(filepath.Join(dir, "logo-alpha.png"), alphaGradient(400, 400))

	// Near-flat image: compresses almost regardless of quality, useful
	// for observing early target-met exits.
	writePNG(filepath.Join(dir, "flat.png"), flat(640, 480))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 fixtures in %s\n", dir)
}

// noisyGradient resists compression enough that quality sweeps do
// visible work.
func noisyGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x*7 + y*13) % 256),
				A: 255,
			})
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func flat(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 40, G: 90, B: 160, A: 255})
		}
	}
	return img
}

func writePNG(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}

func writeJPEG(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
}
