package accessor

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/configwatch/pkg/models"
)

func fileSpec(name string) *models.ItemSpec {
	return &models.ItemSpec{
		Name:      name,
		Hive:      "HKEY_CURRENT_USER",
		KeyPath:   `Control Panel\Mouse`,
		ValueName: name,
	}
}

func TestFile_ReadMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "state.json"))

	_, err := f.Read(fileSpec("speed"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValueNotFound))
}

func TestFile_WriteThenRead(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "state.json"))

	require.NoError(t, f.Write(fileSpec("speed"), "500"))
	require.NoError(t, f.Write(fileSpec("blink"), "1200"))

	value, err := f.Read(fileSpec("speed"))
	require.NoError(t, err)
	assert.Equal(t, "500", value)

	// Overwrite keeps the other key intact.
	require.NoError(t, f.Write(fileSpec("speed"), "750"))

	value, err = f.Read(fileSpec("speed"))
	require.NoError(t, err)
	assert.Equal(t, "750", value)

	value, err = f.Read(fileSpec("blink"))
	require.NoError(t, err)
	assert.Equal(t, "1200", value)
}

func TestFile_MissingValueInExistingFile(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "state.json"))

	require.NoError(t, f.Write(fileSpec("speed"), "500"))

	_, err := f.Read(fileSpec("other"))
	assert.True(t, errors.Is(err, ErrValueNotFound))
}
