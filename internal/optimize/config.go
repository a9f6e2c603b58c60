package optimize

import (
	"fmt"
	"strings"
)

// Format is an output encoding target.
type Format int

const (
	// FormatWebP is the default lossy format for web delivery.
	FormatWebP Format = iota
	// FormatJPEG is the lossy fallback for maximum compatibility.
	FormatJPEG
	// FormatPNG is lossless; quality settings do not apply.
	FormatPNG
	// FormatAVIF requires the avifenc tool to be installed.
	FormatAVIF
)

func (f Format) String() string {
	switch f {
	case FormatWebP:
		return "webp"
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatAVIF:
		return "avif"
	default:
		return "unknown"
	}
}

// Lossless reports whether quality has no effect for this format.
func (f Format) Lossless() bool { return f == FormatPNG }

// ParseFormat maps a format name to a Format. "jpg" is accepted for "jpeg".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "webp":
		return FormatWebP, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "avif":
		return FormatAVIF, nil
	default:
		return 0, fmt.Errorf("unknown format %q (want webp, jpeg, png, or avif)", s)
	}
}

// Config holds all parameters for one size-targeting search.
// Construct it once per image and treat it as read-only; Search never
// mutates it.
type Config struct {
	// TargetBytes is the byte budget for the encoded output.
	TargetBytes int64

	// Format selects the output encoding.
	Format Format

	// MaxDimension caps the longest side in pixels before any probing:
	// width for landscape, height for portrait, both for square.
	// Images already within the cap are never upscaled.
	MaxDimension int

	// MinQuality is the floor below which quality is never reduced.
	MinQuality int
	// MaxQuality is the starting quality for every probe round.
	// Must be >= MinQuality.
	MaxQuality int
	// QualityStep is subtracted from the quality between probes.
	QualityStep int

	// ScaleStep multiplies the working scale when a quality sweep at the
	// current resolution fails to meet the target.
	ScaleStep float64
	// MinScale is the floor for the cumulative scale factor, relative to
	// the resolution after the MaxDimension cap.
	MinScale float64

	// MinImprovement is the fractional size reduction a dimension round
	// must deliver to count as progress. Rounds improving less than this,
	// StallRounds in a row, stop the search.
	MinImprovement float64
	// StallRounds is the number of consecutive non-improving dimension
	// rounds tolerated before giving up.
	StallRounds int

	// MaxProbes bounds the total number of encode attempts.
	MaxProbes int

	// Watermark is an optional watermark specification. It is opaque to
	// the search; the surrounding pipeline interprets and applies it
	// before the search receives its pixel buffer.
	Watermark any
}

// Default search tuning. Targets a 100 KB web asset.
const (
	DefaultTargetBytes    = 100 * 1024
	DefaultMaxDimension   = 1920
	DefaultMinQuality     = 60
	DefaultMaxQuality     = 85
	DefaultQualityStep    = 5
	DefaultScaleStep      = 0.9
	DefaultMinScale       = 0.5
	DefaultMinImprovement = 0.02
	DefaultStallRounds    = 2
	DefaultMaxProbes      = 64
)

// DefaultConfig returns the standard web-delivery configuration.
func DefaultConfig() Config {
	return Config{
		TargetBytes:    DefaultTargetBytes,
		Format:         FormatWebP,
		MaxDimension:   DefaultMaxDimension,
		MinQuality:     DefaultMinQuality,
		MaxQuality:     DefaultMaxQuality,
		QualityStep:    DefaultQualityStep,
		ScaleStep:      DefaultScaleStep,
		MinScale:       DefaultMinScale,
		MinImprovement: DefaultMinImprovement,
		StallRounds:    DefaultStallRounds,
		MaxProbes:      DefaultMaxProbes,
	}
}

// Built-in presets.
var presets = map[string]func() Config{
	"web": DefaultConfig,
	"thumbnail": func() Config {
		c := DefaultConfig()
		c.TargetBytes = 30 * 1024
		c.MaxDimension = 300
		c.MinQuality = 50
		c.MaxQuality = 80
		return c
	},
	"hq": func() Config {
		c := DefaultConfig()
		c.TargetBytes = 300 * 1024
		c.MaxDimension = 2560
		c.MinQuality = 70
		c.MaxQuality = 90
		return c
	},
}

// Preset returns a named preset config. Falls back to "web" if unknown.
func Preset(name string) Config {
	if f, ok := presets[name]; ok {
		return f()
	}
	return DefaultConfig()
}

// PresetNames lists the built-in preset names.
func PresetNames() []string {
	return []string{"web", "thumbnail", "hq"}
}

// Validate checks the config bounds the search relies on for termination.
func (c Config) Validate() error {
	if c.TargetBytes <= 0 {
		return fmt.Errorf("%w: target size must be positive, got %d", ErrInvalidConfig, c.TargetBytes)
	}
	if c.MaxDimension <= 0 {
		return fmt.Errorf("%w: max dimension must be positive, got %d", ErrInvalidConfig, c.MaxDimension)
	}
	if c.MinQuality < 1 || c.MinQuality > 100 {
		return fmt.Errorf("%w: min quality %d out of range [1,100]", ErrInvalidConfig, c.MinQuality)
	}
	if c.MaxQuality < 1 || c.MaxQuality > 100 {
		return fmt.Errorf("%w: max quality %d out of range [1,100]", ErrInvalidConfig, c.MaxQuality)
	}
	if c.MinQuality > c.MaxQuality {
		return fmt.Errorf("%w: min quality %d exceeds max quality %d", ErrInvalidConfig, c.MinQuality, c.MaxQuality)
	}
	if c.QualityStep <= 0 {
		return fmt.Errorf("%w: quality step must be positive, got %d", ErrInvalidConfig, c.QualityStep)
	}
	if c.ScaleStep <= 0 || c.ScaleStep >= 1 {
		return fmt.Errorf("%w: scale step %.2f out of range (0,1)", ErrInvalidConfig, c.ScaleStep)
	}
	if c.MinScale <= 0 || c.MinScale >= 1 {
		return fmt.Errorf("%w: min scale %.2f out of range (0,1)", ErrInvalidConfig, c.MinScale)
	}
	if c.StallRounds <= 0 {
		return fmt.Errorf("%w: stall rounds must be positive, got %d", ErrInvalidConfig, c.StallRounds)
	}
	if c.MaxProbes <= 0 {
		return fmt.Errorf("%w: max probes must be positive, got %d", ErrInvalidConfig, c.MaxProbes)
	}
	return nil
}
