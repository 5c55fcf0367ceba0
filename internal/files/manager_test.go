package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/anitej-c-501/hdf-position-tracker/internal/errors"
)

func TestValidateFolder(t *testing.T) {
	base := t.TempDir()

	t.Run("existing folder", func(t *testing.T) {
		assert.NoError(t, ValidateFolder(base, false))
		assert.NoError(t, ValidateFolder(base, true))
	})

	t.Run("missing folder without creation", func(t *testing.T) {
		missing := filepath.Join(base, "missing")
		err := ValidateFolder(missing, false)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
		assert.Contains(t, err.Error(), "folder '"+missing+"' does not exist")

		_, statErr := os.Stat(missing)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("missing folder is created with parents", func(t *testing.T) {
		target := filepath.Join(base, "a", "b", "out")
		require.NoError(t, ValidateFolder(target, true))

		info, err := os.Stat(target)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("regular file is not a folder", func(t *testing.T) {
		file := filepath.Join(base, "plain.txt")
		require.NoError(t, os.WriteFile(file, nil, 0644))

		err := ValidateFolder(file, true)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	})

	t.Run("creation under a file fails", func(t *testing.T) {
		file := filepath.Join(base, "blocker")
		require.NoError(t, os.WriteFile(file, nil, 0644))

		err := ValidateFolder(filepath.Join(file, "out"), true)
		require.Error(t, err)
	})
}
