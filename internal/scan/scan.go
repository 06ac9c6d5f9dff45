package scan

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".webp": true,
}

// IsImage reports whether path has a supported image extension. The check is
// case-insensitive.
func IsImage(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Images walks each folder recursively and returns the paths of every
// supported image file. Folder order is preserved; within a folder the walk
// is lexical. Unreadable folders are logged and skipped.
func Images(folders []string) []string {
	paths := make([]string, 0)

	for _, folder := range folders {
		err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warnf("skipping %s: %v", path, err)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if IsImage(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			log.Warnf("error scanning folder %s: %v", folder, err)
		}
	}

	return paths
}

// Count returns the number of supported images under a single folder.
func Count(folder string) int {
	return len(Images([]string{folder}))
}
