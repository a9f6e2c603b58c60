package codec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/AnyUserName/imgfit/internal/optimize"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	for _, f := range []string{"webp", "jpeg", "png"} {
		if r.Get(f) == nil {
			t.Errorf("built-in encoder %q missing", f)
		}
	}
	if r.Get("JPEG") == nil {
		t.Error("lookup must be case-insensitive")
	}
	if r.Get("bmp") != nil {
		t.Error("unknown format must return nil")
	}

	avail := r.Available()
	if len(avail) < 3 {
		t.Errorf("expected at least webp, jpeg, png; got %v", avail)
	}
}

func TestEncoderExtensions(t *testing.T) {
	// Output file names come straight from Extension(); these values are
	// part of the naming contract with the pipeline and the summary.
	r := NewRegistry()
	for _, tt := range []struct{ format, ext string }{
		{"webp", "webp"},
		{"jpeg", "jpeg"},
		{"png", "png"},
	} {
		enc := r.Get(tt.format)
		if enc == nil {
			t.Fatalf("encoder %q missing", tt.format)
		}
		if got := enc.Extension(); got != tt.ext {
			t.Errorf("%s: extension = %q, want %q", tt.format, got, tt.ext)
		}
	}
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()

	got, err := r.Resolve(optimize.FormatWebP, false)
	if err != nil || got != optimize.FormatWebP {
		t.Errorf("webp: got %v, %v", got, err)
	}

	// JPEG flattens alpha; transparent sources go to PNG.
	got, err = r.Resolve(optimize.FormatJPEG, true)
	if err != nil || got != optimize.FormatPNG {
		t.Errorf("jpeg+alpha: got %v, %v", got, err)
	}

	got, err = r.Resolve(optimize.FormatJPEG, false)
	if err != nil || got != optimize.FormatJPEG {
		t.Errorf("jpeg: got %v, %v", got, err)
	}
}

func TestJPEGEncode(t *testing.T) {
	enc := &JPEGEncoder{}
	img := solidImage(64, 48, color.NRGBA{200, 100, 50, 255})

	data, err := enc.Encode(img, 80)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("output is not a JPEG stream")
	}

	// Out-of-range quality falls back to a sane default.
	if _, err := enc.Encode(img, 0); err != nil {
		t.Errorf("encode at quality 0: %v", err)
	}
}

func TestJPEGQualityOrdering(t *testing.T) {
	enc := &JPEGEncoder{}
	// A noisy gradient compresses worse at high quality.
	img := image.NewNRGBA(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 2), uint8(y * 2), uint8(x ^ y), 255})
		}
	}

	hi, err := enc.Encode(img, 95)
	if err != nil {
		t.Fatal(err)
	}
	lo, err := enc.Encode(img, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(lo) >= len(hi) {
		t.Errorf("quality 20 (%d bytes) should be smaller than quality 95 (%d bytes)", len(lo), len(hi))
	}
}

func TestPNGEncodeIgnoresQuality(t *testing.T) {
	enc := &PNGEncoder{}
	img := solidImage(32, 32, color.NRGBA{10, 20, 30, 255})

	a, err := enc.Encode(img, 90)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, err := enc.Encode(img, 10)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("png output must not depend on quality")
	}
	if len(a) < 8 || a[1] != 'P' || a[2] != 'N' || a[3] != 'G' {
		t.Error("output is not a PNG stream")
	}
}

func TestDecodeRoundtrip(t *testing.T) {
	img := solidImage(20, 30, color.NRGBA{1, 2, 3, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	decoded, format, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if format != "png" {
		t.Errorf("format: got %q, want png", format)
	}
	if decoded.Bounds().Dx() != 20 || decoded.Bounds().Dy() != 30 {
		t.Errorf("dims: got %v", decoded.Bounds())
	}
}

func TestDecodeCorrupt(t *testing.T) {
	_, _, err := Decode([]byte("not an image at all"))
	if !errors.Is(err, optimize.ErrDecode) {
		t.Fatalf("got %v, want ErrDecode", err)
	}
}

func TestLanczosResizer(t *testing.T) {
	rz := LanczosResizer{}
	out := rz.Resize(solidImage(100, 50, color.NRGBA{9, 9, 9, 255}), 50, 25)
	if out.Bounds().Dx() != 50 || out.Bounds().Dy() != 25 {
		t.Errorf("dims: got %v, want 50x25", out.Bounds())
	}
}

func TestCorrectOrientation(t *testing.T) {
	img := solidImage(40, 20, color.NRGBA{5, 5, 5, 255})

	tests := []struct {
		tag          int
		wantW, wantH int
	}{
		{1, 40, 20},
		{2, 40, 20},
		{3, 40, 20},
		{4, 40, 20},
		{5, 20, 40},
		{6, 20, 40},
		{7, 20, 40},
		{8, 20, 40},
		{0, 40, 20},  // absent tag
		{99, 40, 20}, // garbage tag
	}
	for _, tt := range tests {
		out := CorrectOrientation(img, tt.tag)
		if out.Bounds().Dx() != tt.wantW || out.Bounds().Dy() != tt.wantH {
			t.Errorf("tag %d: got %v, want %dx%d", tt.tag, out.Bounds(), tt.wantW, tt.wantH)
		}
	}

	if CorrectOrientation(img, 1) != image.Image(img) {
		t.Error("tag 1 must return the image unchanged")
	}
}

func TestCorrectOrientationPixels(t *testing.T) {
	// 2x1: red left, blue right. A 180 rotation must swap them.
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 255, 255})

	out := CorrectOrientation(img, 3)
	r, _, b, _ := out.At(0, 0).RGBA()
	if r>>8 == 255 || b>>8 != 255 {
		t.Errorf("rotate180: pixel (0,0) = %v, want blue", out.At(0, 0))
	}
}
