package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cvdnn "github.com/swdee/go-cvdnn"
)

func TestMapReadsFile(t *testing.T) {

	path := filepath.Join(t.TempDir(), "model.onnx")
	want := []byte("onnx model bytes")
	require.NoError(t, os.WriteFile(path, want, 0o644))

	m, err := Map(path)
	require.NoError(t, err)

	got, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, len(want), m.Len())
	assert.Equal(t, path, m.Path())

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	_, err = m.Bytes()
	assert.ErrorIs(t, err, ErrMappingClosed)
}

func TestMapEmptyFile(t *testing.T) {

	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := Map(path)
	require.NoError(t, err)
	defer m.Close()

	got, err := m.Bytes()
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMapErrors(t *testing.T) {

	_, err := Map("")
	assert.ErrorIs(t, err, cvdnn.ErrInvalidArgument)

	_, err = Map(filepath.Join(t.TempDir(), "missing.bin"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
