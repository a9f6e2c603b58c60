package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgfit/internal/codec"
	"github.com/AnyUserName/imgfit/internal/optimize"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <image>",
	Short: "Show what the optimizer sees in an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, args []string) error {
	path := args[0]

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	exifTag := codec.ReadOrientation(bytes.NewReader(raw))

	img, srcFormat, err := codec.Decode(raw)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	desc := optimize.Describe(img, exifTag, srcFormat)

	fmt.Println()
	fmt.Printf("  File:        %s\n", path)
	fmt.Printf("  Size:        %s\n", formatBytes(int64(len(raw))))
	fmt.Printf("  Format:      %s\n", desc.SourceFormat)
	fmt.Printf("  Dimensions:  %dx%d (%s)\n", desc.Width, desc.Height, desc.Orientation)
	fmt.Printf("  Alpha:       %v\n", desc.HasAlpha)
	if exifTag != 1 {
		fmt.Printf("  EXIF:        orientation %d (auto-corrected before optimizing)\n", exifTag)
	}
	fmt.Println()
	fmt.Printf("  %s\n", codec.NewRegistry())
	fmt.Println()
	return nil
}
