package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/imgfit/internal/codec"
	"github.com/AnyUserName/imgfit/internal/optimize"
)

// writePNG writes a gradient test image so JPEG probes do real work.
func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testSearchConfig() optimize.Config {
	cfg := optimize.DefaultConfig()
	cfg.Format = optimize.FormatJPEG
	cfg.TargetBytes = 1 << 20 // generous: first probe should land under it
	return cfg
}

func TestPipelineRun(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writePNG(t, filepath.Join(inDir, "grad.png"), 320, 200)

	var progress []int
	p := New(Config{
		InputPaths: []string{inDir},
		OutputDir:  outDir,
		Search:     testSearchConfig(),
		PresetName: "web",
		Workers:    2,
		Sink: SinkFunc(func(done, total int) {
			progress = append(progress, done)
			if total != 1 {
				t.Errorf("total = %d, want 1", total)
			}
		}),
	})

	results, s, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}

	r := results[0]
	if r.Err != nil {
		t.Fatalf("image error: %v", r.Err)
	}
	if r.Report.Reason != optimize.ReasonTargetMet {
		t.Errorf("reason = %s, want target-met", r.Report.Reason)
	}
	if r.Report.Width != 320 || r.Report.Height != 200 {
		t.Errorf("output dims = %dx%d, want 320x200", r.Report.Width, r.Report.Height)
	}

	// Output file must exist and match the reported size.
	fi, err := os.Stat(r.OutputPath)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if fi.Size() != r.OutputSize {
		t.Errorf("file size %d, reported %d", fi.Size(), r.OutputSize)
	}
	if filepath.Ext(r.OutputPath) != ".jpeg" {
		t.Errorf("extension = %s, want .jpeg", filepath.Ext(r.OutputPath))
	}

	entry, ok := s.Entries["grad"]
	if !ok {
		t.Fatalf("summary missing entry, have %v", s.Entries)
	}
	if !entry.Met() {
		t.Errorf("entry reason = %q", entry.Reason)
	}
	if entry.Hash == "" || len(entry.Hash) != 16 {
		t.Errorf("hash = %q, want 16 hex chars", entry.Hash)
	}
	if s.Stats.TotalImages != 1 || s.Stats.TargetMet != 1 || s.Stats.Failed != 0 {
		t.Errorf("stats = %+v", s.Stats)
	}

	if len(progress) != 1 || progress[0] != 1 {
		t.Errorf("progress calls = %v, want [1]", progress)
	}
}

func TestPipelineDryRun(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "never-created")
	writePNG(t, filepath.Join(inDir, "img.png"), 64, 64)

	p := New(Config{
		InputPaths: []string{inDir},
		OutputDir:  outDir,
		Search:     testSearchConfig(),
		DryRun:     true,
	})
	results, s, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Err != nil {
		t.Fatalf("image error: %v", results[0].Err)
	}
	if s.Stats.TargetMet != 1 {
		t.Errorf("stats = %+v", s.Stats)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Error("dry run must not create the output directory")
	}
	if _, err := os.Stat(results[0].OutputPath); !os.IsNotExist(err) {
		t.Error("dry run must not write output files")
	}
}

func TestPipelinePartialFailure(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writePNG(t, filepath.Join(inDir, "good.png"), 48, 48)
	if err := os.WriteFile(filepath.Join(inDir, "bad.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(Config{
		InputPaths: []string{inDir},
		OutputDir:  outDir,
		Search:     testSearchConfig(),
	})
	results, s, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("one bad image must not fail the batch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if s.Stats.Failed != 1 {
		t.Errorf("failed = %d, want 1", s.Stats.Failed)
	}
	if s.Entries["bad"].Error == "" {
		t.Error("bad entry must carry an error message")
	}
	if s.Entries["good"].Error != "" {
		t.Errorf("good entry errored: %s", s.Entries["good"].Error)
	}
}

func TestPipelineAllFailed(t *testing.T) {
	inDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(inDir, "bad.png"), []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(Config{
		InputPaths: []string{inDir},
		OutputDir:  t.TempDir(),
		Search:     testSearchConfig(),
	})
	if _, _, err := p.Run(context.Background()); err == nil {
		t.Error("expected error when every image fails")
	}
}

func TestPipelineNoImages(t *testing.T) {
	p := New(Config{
		InputPaths: []string{t.TempDir()},
		OutputDir:  t.TempDir(),
		Search:     testSearchConfig(),
	})
	if _, _, err := p.Run(context.Background()); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestPipelineJPEGAlphaFallback(t *testing.T) {
	// A translucent source asked to encode as JPEG must fall back to PNG.
	inDir := t.TempDir()
	outDir := t.TempDir()

	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, color.NRGBA{100, 150, 200, 128})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(inDir, "translucent.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(Config{
		InputPaths: []string{path},
		OutputDir:  outDir,
		Search:     testSearchConfig(),
	})
	results, _, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Err != nil {
		t.Fatalf("image error: %v", results[0].Err)
	}
	if results[0].Format != optimize.FormatPNG {
		t.Errorf("format = %s, want png fallback", results[0].Format)
	}
}

func TestPipelineWatermark(t *testing.T) {
	inDir := t.TempDir()
	writePNG(t, filepath.Join(inDir, "wm.png"), 120, 80)

	run := func(wm *codec.WatermarkSpec) string {
		cfg := testSearchConfig()
		cfg.Watermark = wm
		p := New(Config{
			InputPaths: []string{inDir},
			OutputDir:  t.TempDir(),
			Search:     cfg,
		})
		results, _, err := p.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if results[0].Err != nil {
			t.Fatalf("image error: %v", results[0].Err)
		}
		return results[0].Hash
	}

	plain := run(nil)
	marked := run(&codec.WatermarkSpec{Text: "imgfit", Position: codec.BottomRight})
	if plain == marked {
		t.Error("watermarked output should differ from plain output")
	}
}
