package pipeline

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/AnyUserName/imgfit/internal/codec"
	"github.com/AnyUserName/imgfit/internal/optimize"
	"github.com/AnyUserName/imgfit/internal/summary"
)

// Config holds all parameters for a batch run.
type Config struct {
	InputPaths []string
	OutputDir  string
	Search     optimize.Config
	PresetName string
	Workers    int
	Verbose    bool
	DryRun     bool
	Sink       Sink
}

// Pipeline orchestrates the per-image searches of a batch. Each search
// owns its state exclusively; the only shared resource is the codec
// registry, whose calls are stateless.
type Pipeline struct {
	cfg      Config
	registry *codec.Registry
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Pipeline{
		cfg:      cfg,
		registry: codec.NewRegistry(),
	}
}

// Registry exposes the probed encoder set, for CLI diagnostics.
func (p *Pipeline) Registry() *codec.Registry { return p.registry }

// Run executes the batch and returns per-image results plus the summary.
// Individual image failures are recorded, not fatal; Run errors only
// when nothing could be processed at all.
func (p *Pipeline) Run(ctx context.Context) ([]Result, *summary.Summary, error) {
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[imgfit] %s\n", p.registry.String())
	}

	sources, err := ScanSources(p.cfg.InputPaths)
	if err != nil {
		return nil, nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, nil, fmt.Errorf("no images found")
	}
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[imgfit] found %d images\n", len(sources))
	}

	if !p.cfg.DryRun {
		if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	results := make([]Result, len(sources))
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if p.cfg.Verbose {
				fmt.Fprintf(os.Stderr, "[imgfit] processing: %s\n", src.Key)
			}

			results[i] = processImage(gctx, src, p.cfg, p.registry)

			mu.Lock()
			done++
			if p.cfg.Sink != nil {
				p.cfg.Sink.ImageDone(done, len(sources))
			}
			mu.Unlock()

			if p.cfg.Verbose && results[i].Err == nil {
				r := results[i].Report
				fmt.Fprintf(os.Stderr, "[imgfit] done: %s (%d probes, %s)\n",
					src.Key, r.Probes, r.Reason)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	s := summary.New(p.cfg.PresetName, p.cfg.Search.TargetBytes)
	var failed int
	for _, r := range results {
		s.Entries[r.Source.Key] = toEntry(r)
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "[imgfit] error: %v\n", r.Err)
		}
	}
	if failed == len(results) {
		return results, nil, fmt.Errorf("all %d images failed to process", failed)
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "[imgfit] warning: %d of %d images had errors\n",
			failed, len(results))
	}

	s.ComputeStats()
	return results, s, nil
}

func toEntry(r Result) summary.Entry {
	e := summary.Entry{
		Input:          r.Source.AbsPath,
		OriginalBytes:  r.Source.Size,
		OriginalWidth:  r.Descriptor.Width,
		OriginalHeight: r.Descriptor.Height,
	}
	if r.Err != nil {
		e.Error = r.Err.Error()
		return e
	}
	e.Output = r.OutputPath
	e.Format = r.Format.String()
	e.OptimizedBytes = r.OutputSize
	e.Width = r.Report.Width
	e.Height = r.Report.Height
	e.Quality = r.Report.Quality
	e.Scale = r.Report.Scale
	e.Probes = r.Report.Probes
	e.Reason = r.Report.Reason.String()
	e.Hash = r.Hash
	return e
}
