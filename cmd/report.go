package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgfit/internal/summary"
)

var reportCmd = &cobra.Command{
	Use:   "report <out_dir_or_summary>",
	Short: "Display statistics for a finished batch",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func loadSummary(path string) (*summary.Summary, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, "imgfit.summary.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read summary: %w", err)
	}

	var s summary.Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, "", fmt.Errorf("parse summary: %w", err)
	}
	return &s, path, nil
}

func runReport(_ *cobra.Command, args []string) error {
	s, _, err := loadSummary(args[0])
	if err != nil {
		return err
	}
	printReport(s)
	return nil
}

func printReport(s *summary.Summary) {
	fmt.Println()
	fmt.Printf("  Summary version:  %d\n", s.Version)
	fmt.Printf("  Generated:        %s\n", s.GeneratedAt)
	fmt.Printf("  Preset:           %s\n", s.Preset)
	fmt.Printf("  Target size:      %s\n", formatBytes(s.TargetBytes))
	fmt.Println()

	st := s.Stats
	fmt.Printf("  Images:           %d\n", st.TotalImages)
	fmt.Printf("  Met target:       %d\n", st.TargetMet)
	if st.Failed > 0 {
		fmt.Printf("  Failed:           %d\n", st.Failed)
	}
	fmt.Printf("  Input size:       %s\n", formatBytes(st.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(st.TotalOutputBytes))
	if st.TotalInputBytes > 0 {
		ratio := float64(st.TotalOutputBytes) / float64(st.TotalInputBytes) * 100
		fmt.Printf("  Compression:      %.1f%% of original\n", ratio)
	}
	fmt.Printf("  Total probes:     %d\n", st.TotalProbes)
	fmt.Println()

	// Termination reason breakdown.
	reasons := map[string]int{}
	for _, e := range s.Entries {
		if e.Error == "" && e.Reason != "" {
			reasons[e.Reason]++
		}
	}
	if len(reasons) > 0 {
		fmt.Println("  Outcome breakdown:")
		var names []string
		for r := range reasons {
			names = append(names, r)
		}
		sort.Strings(names)
		for _, r := range names {
			fmt.Printf("    %-22s %4d images\n", r, reasons[r])
		}
		fmt.Println()
	}

	// Still-oversized entries, heaviest first.
	type over struct {
		key   string
		bytes int64
	}
	var oversized []over
	for key, e := range s.Entries {
		if e.Error == "" && !e.Met() {
			oversized = append(oversized, over{key, e.OptimizedBytes})
		}
	}
	if len(oversized) > 0 {
		sort.Slice(oversized, func(i, j int) bool { return oversized[i].bytes > oversized[j].bytes })
		n := len(oversized)
		if n > 10 {
			n = 10
		}
		fmt.Printf("  Still over target (top %d):\n", n)
		for _, o := range oversized[:n] {
			fmt.Printf("    %-40s %8s\n", o.key, formatBytes(o.bytes))
		}
		fmt.Println()
	}
}
