// Package codec is the encode/decode and pixel-transform layer. The
// size-targeting search treats it as an external service: every call is
// stateless and safe for concurrent use.
package codec

import (
	"fmt"
	"image"
	"strings"

	"github.com/AnyUserName/imgfit/internal/optimize"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "webp", "jpeg", "png").
	Format() string

	// Encode converts the image to bytes at the given quality (1-100).
	Encode(img image.Image, quality int) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// External encoders (avifenc) may not be installed.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string
}

// Registry holds all available encoders.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry, probing all encoders for availability.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}

	all := []Encoder{
		&WebPEncoder{},
		&JPEGEncoder{},
		&PNGEncoder{},
		&AVIFEncoder{},
	}

	for _, enc := range all {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}

	return r
}

// Get returns an encoder for the given format, or nil if unavailable.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[strings.ToLower(format)]
}

// Available returns all available format names in priority order.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range []string{"webp", "jpeg", "png", "avif"} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// Resolve maps a requested output format to a usable one. Unavailable
// formats fall back to PNG for alpha images and JPEG otherwise, so a
// request never ends up without an encoder.
func (r *Registry) Resolve(format optimize.Format, hasAlpha bool) (optimize.Format, error) {
	if _, ok := r.encoders[format.String()]; ok {
		// JPEG flattens alpha; steer transparent sources to PNG.
		if format == optimize.FormatJPEG && hasAlpha {
			return optimize.FormatPNG, nil
		}
		return format, nil
	}
	if hasAlpha {
		if _, ok := r.encoders["png"]; ok {
			return optimize.FormatPNG, nil
		}
	} else {
		if _, ok := r.encoders["jpeg"]; ok {
			return optimize.FormatJPEG, nil
		}
	}
	return 0, fmt.Errorf("no encoder available for %s", format)
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}
