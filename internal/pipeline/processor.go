package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/imgfit/internal/codec"
	"github.com/AnyUserName/imgfit/internal/hasher"
	"github.com/AnyUserName/imgfit/internal/optimize"
)

// Result holds the outcome of optimizing a single source image.
type Result struct {
	Source     Source
	Descriptor optimize.Descriptor
	Report     optimize.Report
	Format     optimize.Format
	OutputPath string
	OutputSize int64
	Hash       string
	Err        error
}

// processImage handles one source: read, decode, orient, watermark,
// search, write. Every failure is captured in the Result so one bad
// image cannot sink the whole batch.
func processImage(ctx context.Context, src Source, cfg Config, registry *codec.Registry) Result {
	result := Result{Source: src}

	raw, err := os.ReadFile(src.AbsPath)
	if err != nil {
		result.Err = fmt.Errorf("read %s: %w", src.AbsPath, err)
		return result
	}

	exifTag := codec.ReadOrientation(bytes.NewReader(raw))

	img, srcFormat, err := codec.Decode(raw)
	if err != nil {
		result.Err = fmt.Errorf("decode %s: %w", src.AbsPath, err)
		return result
	}

	// Descriptor reflects final display orientation; the pixel buffer is
	// corrected to match before the search sees it.
	desc := optimize.Describe(img, exifTag, srcFormat)
	result.Descriptor = desc
	img = codec.CorrectOrientation(img, exifTag)

	// Watermark is applied strictly before probing starts, never
	// interleaved with probes.
	search := cfg.Search
	if spec, ok := search.Watermark.(*codec.WatermarkSpec); ok && spec != nil {
		img = codec.Watermark(img, *spec)
	}

	format, err := registry.Resolve(search.Format, desc.HasAlpha)
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", src.Key, err)
		return result
	}
	search.Format = format
	result.Format = format

	enc := registry.Get(format.String())
	data, report, err := optimize.Search(ctx, img, desc, search, enc, codec.LanczosResizer{})
	if err != nil {
		result.Err = fmt.Errorf("optimize %s: %w", src.Key, err)
		return result
	}
	result.Report = report
	result.OutputSize = int64(len(data))
	result.Hash = hasher.ContentHash(data, 16)
	result.OutputPath = filepath.Join(cfg.OutputDir, src.Key+"."+enc.Extension())

	if cfg.DryRun {
		return result
	}
	if err := os.WriteFile(result.OutputPath, data, 0o644); err != nil {
		result.Err = fmt.Errorf("write %s: %w", result.OutputPath, err)
	}
	return result
}
