package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgfit/internal/codec"
	"github.com/AnyUserName/imgfit/internal/optimize"
	"github.com/AnyUserName/imgfit/internal/pipeline"
	"github.com/AnyUserName/imgfit/internal/summary"
)

var (
	optOutDir       string
	optTargetKB     int64
	optFormat       string
	optPreset       string
	optMaxDimension int
	optMinQuality   int
	optMaxQuality   int
	optWorkers      int
	optDryRun       bool
	optWatermark    bool
	optWMText       string
	optWMPosition   string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <images_or_dirs...>",
	Short: "Shrink images to the target file size",
	Long: `Optimizes each input image toward the target size: quality drops from
max-quality to min-quality in steps, then dimensions shrink 10% per round
(never below 50% of the capped resolution), restarting the quality sweep
at each resolution. Outputs land in the output directory together with an
imgfit.summary.json describing every result.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&optOutDir, "out", "o", "./optimized", "output directory")
	optimizeCmd.Flags().Int64Var(&optTargetKB, "target-size", 100, "target file size in KB")
	optimizeCmd.Flags().StringVarP(&optFormat, "format", "f", "webp", "output format (webp, jpeg, png, avif)")
	optimizeCmd.Flags().StringVarP(&optPreset, "preset", "p", "web", fmt.Sprintf("tuning preset %v", optimize.PresetNames()))
	optimizeCmd.Flags().IntVar(&optMaxDimension, "max-dimension", 0, "max width (landscape) or height (portrait) in pixels (0 = preset default)")
	optimizeCmd.Flags().IntVar(&optMinQuality, "min-quality", 0, "quality floor 1-100 (0 = preset default)")
	optimizeCmd.Flags().IntVar(&optMaxQuality, "max-quality", 0, "starting quality 1-100 (0 = preset default)")
	optimizeCmd.Flags().IntVarP(&optWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	optimizeCmd.Flags().BoolVar(&optDryRun, "dry-run", false, "search without writing output files")
	optimizeCmd.Flags().BoolVar(&optWatermark, "watermark", false, "draw a text watermark before optimizing")
	optimizeCmd.Flags().StringVar(&optWMText, "watermark-text", "imgfit", "watermark text")
	optimizeCmd.Flags().StringVar(&optWMPosition, "watermark-position", "bottom-right", "watermark position (top-left, top-right, bottom-left, bottom-right, center)")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg := optimize.Preset(optPreset)
	if optTargetKB > 0 {
		cfg.TargetBytes = optTargetKB * 1024
	}
	format, err := optimize.ParseFormat(optFormat)
	if err != nil {
		return err
	}
	cfg.Format = format
	if optMaxDimension > 0 {
		cfg.MaxDimension = optMaxDimension
	}
	if optMinQuality > 0 {
		cfg.MinQuality = optMinQuality
	}
	if optMaxQuality > 0 {
		cfg.MaxQuality = optMaxQuality
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if optWatermark {
		pos, err := codec.ParseWatermarkPosition(optWMPosition)
		if err != nil {
			return err
		}
		cfg.Watermark = &codec.WatermarkSpec{Text: optWMText, Position: pos}
	}

	absOut, err := filepath.Abs(optOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	logVerbose("output:  %s", absOut)
	logVerbose("target:  %s, format %s, max dimension %d, quality %d..%d",
		formatBytes(cfg.TargetBytes), cfg.Format, cfg.MaxDimension, cfg.MinQuality, cfg.MaxQuality)

	p := pipeline.New(pipeline.Config{
		InputPaths: args,
		OutputDir:  absOut,
		Search:     cfg,
		PresetName: optPreset,
		Workers:    optWorkers,
		Verbose:    verbose,
		DryRun:     optDryRun,
		Sink: pipeline.SinkFunc(func(done, total int) {
			logVerbose("progress: %d/%d", done, total)
		}),
	})

	results, s, err := p.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if !optDryRun {
		summaryPath := filepath.Join(absOut, "imgfit.summary.json")
		if err := summary.WriteJSON(s, summaryPath); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	printOptimizeReport(results, s, time.Since(start))
	return nil
}

func printOptimizeReport(results []pipeline.Result, s *summary.Summary, elapsed time.Duration) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	var rows [][]string
	for _, r := range results {
		if r.Err != nil {
			rows = append(rows, []string{r.Source.Key, formatBytes(r.Source.Size), "-", "-", "-", red("error")})
			continue
		}
		status := yellow(r.Report.Reason.String())
		if r.Report.Reason.Met() {
			status = green(r.Report.Reason.String())
		}
		rows = append(rows, []string{
			r.Source.Key,
			fmt.Sprintf("%s → %s", formatBytes(r.Source.Size), formatBytes(r.OutputSize)),
			fmt.Sprintf("%dx%d", r.Report.Width, r.Report.Height),
			fmt.Sprintf("q%d", r.Report.Quality),
			fmt.Sprintf("%d", r.Report.Probes),
			status,
		})
	}

	fmt.Println()
	table := newResultTable(os.Stdout)
	table.Header([]string{"file", "size", "dimensions", "quality", "probes", "result"})
	table.Bulk(rows)
	table.Render()

	fmt.Println()
	fmt.Printf("  Images:      %d (%d met target, %d failed)\n",
		s.Stats.TotalImages, s.Stats.TargetMet, s.Stats.Failed)
	fmt.Printf("  Input size:  %s\n", formatBytes(s.Stats.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(s.Stats.TotalOutputBytes))
	if s.Stats.TotalInputBytes > 0 {
		ratio := float64(s.Stats.TotalOutputBytes) / float64(s.Stats.TotalInputBytes) * 100
		fmt.Printf("  Ratio:       %.1f%% of original\n", ratio)
	}
	fmt.Printf("  Probes:      %d\n", s.Stats.TotalProbes)
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()
}

func newResultTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	return table
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
