package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// Key is the file name without extension, used for summary entries
	// and output naming.
	Key string
	// Format is the source format guessed from the extension.
	Format string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions lists recognized image file extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// ScanSources expands the given paths into image sources. Directories
// are walked recursively (hidden directories skipped); plain files are
// accepted as-is when they carry an image extension.
func ScanSources(paths []string) ([]Source, error) {
	var sources []Source
	seen := map[string]bool{}

	add := func(path string, size int64) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return
		}
		seen[abs] = true

		sources = append(sources, Source{
			AbsPath: abs,
			Key:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Format:  normalizeFormat(strings.ToLower(filepath.Ext(path))),
			Size:    size,
		})
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if !info.IsDir() {
			if !imageExtensions[strings.ToLower(filepath.Ext(p))] {
				return nil, fmt.Errorf("%s: not a recognized image file", p)
			}
			add(p, info.Size())
			continue
		}

		err = filepath.Walk(p, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				if strings.HasPrefix(fi.Name(), ".") && fi.Name() != "." {
					return filepath.SkipDir
				}
				return nil
			}
			if imageExtensions[strings.ToLower(filepath.Ext(path))] {
				add(path, fi.Size())
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return sources, nil
}

func normalizeFormat(ext string) string {
	f := strings.TrimPrefix(ext, ".")
	switch f {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return f
}
