package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/pngme/pkg/codec"
	"github.com/ssargent/pngme/pkg/png"
)

func TestReadWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "image.png")

	original := testPNG()
	require.NoError(t, WriteFile(original, ChunkWriterConfig{FilePath: filePath}))

	p, err := ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, original.Bytes(), p.Bytes())

	// Edit and rewrite in place
	p.InsertBeforeTerminator(testChunk("ruSt", "secret"))
	require.NoError(t, WriteFile(p, ChunkWriterConfig{FilePath: filePath}))

	again, err := ReadFile(filePath)
	require.NoError(t, err)
	c, ok := again.ChunkByType(codec.MustParseChunkType("ruSt"))
	require.True(t, ok)
	assert.Equal(t, []byte("secret"), c.Data)
	assert.NoError(t, again.Validate())
}

func TestReadFile_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(tmpDir, "missing.png"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("not a png", func(t *testing.T) {
		path := filepath.Join(tmpDir, "text.png")
		require.NoError(t, os.WriteFile(path, []byte("hello"), 0600))

		_, err := ReadFile(path)
		assert.ErrorIs(t, err, png.ErrBadSignature)
		assert.Contains(t, err.Error(), path)
	})
}
