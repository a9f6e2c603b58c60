package codec

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// WatermarkPosition anchors the watermark text within the image.
type WatermarkPosition int

const (
	BottomRight WatermarkPosition = iota
	BottomLeft
	TopRight
	TopLeft
	Center
)

func (p WatermarkPosition) String() string {
	switch p {
	case BottomRight:
		return "bottom-right"
	case BottomLeft:
		return "bottom-left"
	case TopRight:
		return "top-right"
	case TopLeft:
		return "top-left"
	case Center:
		return "center"
	default:
		return "unknown"
	}
}

// ParseWatermarkPosition maps a CLI position name to a WatermarkPosition.
func ParseWatermarkPosition(s string) (WatermarkPosition, error) {
	switch strings.ToLower(s) {
	case "bottom-right":
		return BottomRight, nil
	case "bottom-left":
		return BottomLeft, nil
	case "top-right":
		return TopRight, nil
	case "top-left":
		return TopLeft, nil
	case "center":
		return Center, nil
	default:
		return 0, fmt.Errorf("unknown watermark position %q", s)
	}
}

// WatermarkSpec describes a text watermark. The search never sees it;
// the pipeline applies it before probing starts.
type WatermarkSpec struct {
	Text     string
	Position WatermarkPosition
}

const watermarkMargin = 12

// Watermark draws the watermark text onto a copy of the image. The
// source pixels are never modified.
func Watermark(img image.Image, spec WatermarkSpec) image.Image {
	if spec.Text == "" {
		return img
	}

	dst := imaging.Clone(img)
	face := basicfont.Face7x13

	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	textW := font.MeasureString(face, spec.Text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()

	var x, y int
	switch spec.Position {
	case TopLeft:
		x, y = watermarkMargin, watermarkMargin+ascent
	case TopRight:
		x, y = w-textW-watermarkMargin, watermarkMargin+ascent
	case BottomLeft:
		x, y = watermarkMargin, h-watermarkMargin
	case BottomRight:
		x, y = w-textW-watermarkMargin, h-watermarkMargin
	case Center:
		x, y = (w-textW)/2, (h+ascent)/2
	}
	if x < 0 {
		x = 0
	}
	if y < ascent {
		y = ascent
	}

	// Dark offset shadow first, then the text, so the mark stays legible
	// on both light and dark backgrounds.
	shadow := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.NRGBA{0, 0, 0, 180}),
		Face: face,
		Dot:  fixed.P(x+1, y+1),
	}
	shadow.DrawString(spec.Text)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.NRGBA{255, 255, 255, 220}),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(spec.Text)

	return dst
}
