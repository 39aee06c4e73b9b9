package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// imageExtensions lists the file types discovery picks up, matching what the
// preprocessing pipeline can decode.
var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".bmp":  {},
	".webp": {},
	".tiff": {},
}

// Discover lists image files directly inside dir, sorted by name. The scan
// is deliberately non-recursive: operators drop flat batches of scans into
// the input directory.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory %q: %w", dir, err)
	}
	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; !ok {
			continue
		}
		images = append(images, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(images)
	return images, nil
}
