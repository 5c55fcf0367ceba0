package files

import (
	"fmt"
	"log/slog"
	"os"

	apperrors "github.com/anitej-c-501/hdf-position-tracker/internal/errors"
)

// ValidateFolder checks that path is an existing directory.
// With createIfMissing a missing folder (and its parents) is created instead
// of failing; otherwise a missing folder is an ErrTypeNotFound error.
func ValidateFolder(path string, createIfMissing bool) error {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return apperrors.NewNotFoundError(path).
				WithContext("reason", "not a directory")
		}
		return nil
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to stat folder %s: %w", path, err)
	case !createIfMissing:
		return apperrors.NewNotFoundError(path)
	}

	slog.Debug("Creating directory", slog.String("path", path))

	if err := os.MkdirAll(path, 0755); err != nil {
		return apperrors.NewStorageError("failed to create folder", err).
			WithContext("path", path)
	}
	return nil
}
