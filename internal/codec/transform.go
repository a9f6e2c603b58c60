package codec

import (
	"image"

	"github.com/disintegration/imaging"
)

// LanczosResizer resamples with Lanczos interpolation. It satisfies the
// search's Resizer dependency.
type LanczosResizer struct{}

func (LanczosResizer) Resize(img image.Image, width, height int) image.Image {
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// CorrectOrientation rotates/flips the image so an EXIF orientation tag
// of 1-8 displays upright. Unknown tags return the image unchanged.
// imaging's Rotate functions rotate counter-clockwise, hence the swapped
// 90/270 mapping for tags 6 and 8.
func CorrectOrientation(img image.Image, exifTag int) image.Image {
	switch exifTag {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
