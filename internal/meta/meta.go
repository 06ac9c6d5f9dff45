// Package meta resolves the overlay labels for an image: the folder it lives
// in, its file name, and a capture date taken from EXIF when present, falling
// back to the file's modification time.
package meta

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

const dateFormat = "2 Jan 2006"

// Info holds the display labels for a single image.
type Info struct {
	Folder string
	File   string
	Date   string
}

// Resolve builds the labels for path. It never fails: a missing or
// unparseable EXIF block falls back to the file mtime, and a missing file
// just leaves the date empty.
func Resolve(path string) Info {
	info := Info{
		Folder: filepath.Base(filepath.Dir(path)),
		File:   filepath.Base(path),
	}

	if t, ok := exifDate(path); ok {
		info.Date = t.Format(dateFormat)
		return info
	}

	if st, err := os.Stat(path); err == nil {
		info.Date = st.ModTime().Format(dateFormat)
	}
	return info
}

func exifDate(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil || x == nil {
		return time.Time{}, false
	}
	dt, err := x.DateTime()
	if err != nil {
		return time.Time{}, false
	}
	return dt, true
}
