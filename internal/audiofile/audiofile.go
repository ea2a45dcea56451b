// Package audiofile holds the file-level audio helpers shared by the CLI
// and the engine backends: format policy, directory scanning and WAV
// inspection.
package audiofile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// SupportedFormats are the audio file extensions the harness accepts,
// lowercased and without the leading dot.
var SupportedFormats = []string{"wav", "mp3", "flac", "m4a", "ogg", "mp4", "webm"}

// Format returns the lowercased extension of path without the leading dot,
// or an empty string when the path has none.
func Format(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsSupported reports whether ext names an accepted audio format.
func IsSupported(ext string) bool {
	return lo.Contains(SupportedFormats, strings.ToLower(ext))
}

// ListDir returns the supported audio files directly inside dir, sorted by
// name. Subdirectories are not descended into.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsSupported(Format(entry.Name())) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}
