package files

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/anitej-c-501/hdf-position-tracker/internal/errors"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery lists container files by extension
type Discovery struct {
	extensions []string
	logger     *slog.Logger
}

// NewDiscovery creates a discovery for the given extensions (".hdf5", ".h5").
// Matching is case-insensitive.
func NewDiscovery(extensions ...string) *Discovery {
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		exts = append(exts, strings.ToLower(ext))
	}
	return &Discovery{extensions: exts, logger: slog.Default()}
}

// WithLogger sets the logger used for per-file warnings
func (d *Discovery) WithLogger(logger *slog.Logger) *Discovery {
	if logger != nil {
		d.logger = logger
	}
	return d
}

// ListContainerFiles returns the regular files in dir whose name ends with
// one of the configured extensions, in directory order (sorted by name).
// An empty result is an ErrTypeEmptySet error.
func (d *Discovery) ListContainerFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		name := entry.Name()
		if !d.matches(name) {
			continue
		}

		files = append(files, d.describe(dir, entry))
	}

	if len(files) == 0 {
		return nil, apperrors.NewEmptySetError(dir, d.extensions)
	}

	return files, nil
}

// describe builds the FileInfo for a listed entry. An entry whose metadata
// cannot be read stays listed; opening it reports the real failure.
func (d *Discovery) describe(dir string, entry fs.DirEntry) FileInfo {
	fi := FileInfo{Path: filepath.Join(dir, entry.Name()), Name: entry.Name()}

	info, err := entry.Info()
	if err != nil {
		d.logger.Warn("Could not read file metadata",
			slog.String("file", fi.Name),
			slog.String("error", err.Error()))
		return fi
	}

	fi.Size = info.Size()
	fi.ModTime = info.ModTime()
	return fi
}

func (d *Discovery) matches(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range d.extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Names returns the base names of files, in order
func Names(files []FileInfo) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}
