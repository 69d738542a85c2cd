// Package storage decides where captures land on disk and brackets every
// write with scoped access to the chosen directory.
package storage

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// DefaultFolder is the application-private capture directory name.
const DefaultFolder = "ScreenCaptures"

// DefaultDir returns the app-private ScreenCaptures directory: under the
// user's Pictures directory when the platform exposes one, otherwise under
// the XDG data home.
func DefaultDir() string {
	base := xdg.UserDirs.Pictures
	if base == "" {
		base = xdg.DataHome
	}
	return filepath.Join(base, DefaultFolder)
}

// StillName builds a timestamped still filename for the given extension.
func StillName(now time.Time, ext string) string {
	return "capture-" + now.Format("20060102-150405") + "." + ext
}

// RecordingName builds a timestamped recording filename.
func RecordingName(now time.Time) string {
	return "recording-" + now.Format("20060102-150405") + ".mp4"
}

// Recording describes one finished recording on disk.
type Recording struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// ListRecordings enumerates finished recordings in dir, newest last. A
// missing directory is an empty list, not an error.
func ListRecordings(dir string) ([]Recording, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []Recording
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".mp4" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Recording{
			Name:    entry.Name(),
			Path:    filepath.Join(dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return out, nil
}
