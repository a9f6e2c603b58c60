package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgfit/internal/hasher"
	"github.com/AnyUserName/imgfit/internal/summary"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <out_dir_or_summary>",
	Short: "Verify a summary and check output files on disk",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(_ *cobra.Command, args []string) error {
	s, path, err := loadSummary(args[0])
	if err != nil {
		return err
	}

	errs := verifySummary(s, filepath.Dir(path))
	if len(errs) == 0 {
		fmt.Println("  ✓ Summary is valid")
		fmt.Printf("  ✓ %d images, all output files present and intact\n", s.Stats.TotalImages)
		return nil
	}

	fmt.Printf("  ✗ Summary has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("verification failed with %d errors", len(errs))
}

func verifySummary(s *summary.Summary, baseDir string) []string {
	var errs []string

	if s.Version != summary.SupportedSummaryVersion {
		errs = append(errs, fmt.Sprintf("unsupported summary version: %d", s.Version))
	}

	for key, e := range s.Entries {
		if e.Error != "" {
			continue // recorded failure, nothing on disk to check
		}
		if e.Width <= 0 || e.Height <= 0 {
			errs = append(errs, fmt.Sprintf("entry %q: invalid dimensions %dx%d", key, e.Width, e.Height))
		}
		if e.Scale < 0.5 || e.Scale > 1.0 {
			errs = append(errs, fmt.Sprintf("entry %q: scale %.3f outside [0.5,1.0]", key, e.Scale))
		}
		if e.Output == "" {
			errs = append(errs, fmt.Sprintf("entry %q: missing output path", key))
			continue
		}

		outPath := e.Output
		if !filepath.IsAbs(outPath) {
			outPath = filepath.Join(baseDir, outPath)
		}
		data, err := os.ReadFile(outPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("entry %q: output not readable: %s", key, e.Output))
			continue
		}
		if e.OptimizedBytes > 0 && int64(len(data)) != e.OptimizedBytes {
			errs = append(errs, fmt.Sprintf("entry %q: size mismatch: summary=%d, disk=%d",
				key, e.OptimizedBytes, len(data)))
		}
		if e.Hash != "" && hasher.ContentHash(data, len(e.Hash)) != e.Hash {
			errs = append(errs, fmt.Sprintf("entry %q: content hash mismatch", key))
		}
	}

	// Stats consistency.
	if s.Stats.TotalImages != len(s.Entries) {
		errs = append(errs, fmt.Sprintf("stats.total_images mismatch: %d != %d",
			s.Stats.TotalImages, len(s.Entries)))
	}

	return errs
}
