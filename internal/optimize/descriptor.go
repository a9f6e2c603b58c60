package optimize

import "image"

// Orientation classifies an image by its display aspect.
type Orientation int

const (
	Landscape Orientation = iota
	Portrait
	Square
)

func (o Orientation) String() string {
	switch o {
	case Landscape:
		return "landscape"
	case Portrait:
		return "portrait"
	case Square:
		return "square"
	default:
		return "unknown"
	}
}

// Descriptor holds the source image facts the search needs. Built once
// before the search begins; never mutated.
type Descriptor struct {
	Width        int
	Height       int
	Orientation  Orientation
	HasAlpha     bool
	SourceFormat string
}

// Describe builds a Descriptor from a decoded image and its EXIF
// orientation tag. Tags 5-8 rotate the image by 90 degrees on display,
// so width and height are swapped before classifying orientation; the
// class always reflects final display orientation.
func Describe(img image.Image, exifTag int, sourceFormat string) Descriptor {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if exifTag >= 5 && exifTag <= 8 {
		w, h = h, w
	}
	return Descriptor{
		Width:        w,
		Height:       h,
		Orientation:  classify(w, h),
		HasAlpha:     hasAlpha(img),
		SourceFormat: sourceFormat,
	}
}

func classify(w, h int) Orientation {
	switch {
	case w > h:
		return Landscape
	case h > w:
		return Portrait
	default:
		return Square
	}
}

// hasAlpha reports whether any pixel is not fully opaque.
func hasAlpha(img image.Image) bool {
	switch im := img.(type) {
	case *image.NRGBA:
		for i := 3; i < len(im.Pix); i += 4 {
			if im.Pix[i] != 0xFF {
				return true
			}
		}
		return false
	case *image.RGBA:
		for i := 3; i < len(im.Pix); i += 4 {
			if im.Pix[i] != 0xFF {
				return true
			}
		}
		return false
	case *image.YCbCr, *image.Gray, *image.Gray16, *image.CMYK:
		return false
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xFFFF {
				return true
			}
		}
	}
	return false
}
