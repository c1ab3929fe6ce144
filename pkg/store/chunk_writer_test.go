package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/pngme/pkg/png"
)

func TestNewChunkWriter(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "chunk_writer_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	filePath := filepath.Join(tmpDir, "out.png")

	writer, err := NewChunkWriter(ChunkWriterConfig{FilePath: filePath})
	require.NoError(t, err)
	assert.NotNil(t, writer)

	// Signature is buffered, target not created until Close
	assert.Equal(t, int64(8), writer.Size())
	assert.NoFileExists(t, filePath)
	assert.Equal(t, filePath, writer.Path())

	require.NoError(t, writer.Abort())
}

func TestNewChunkWriter_DirectoryCreation(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "chunk_writer_dir_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	nestedDir := filepath.Join(tmpDir, "nested", "deep", "path")

	writer, err := NewChunkWriter(ChunkWriterConfig{FilePath: filepath.Join(nestedDir, "out.png")})
	require.NoError(t, err)
	assert.DirExists(t, nestedDir)
	require.NoError(t, writer.Abort())
}

func TestNewChunkWriter_InvalidPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	// a regular file cannot act as the parent directory
	writer, err := NewChunkWriter(ChunkWriterConfig{FilePath: filepath.Join(blocker, "sub", "out.png")})
	assert.Error(t, err)
	assert.Nil(t, writer)
}

func TestChunkWriter_Write(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "chunk_writer_write_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	filePath := filepath.Join(tmpDir, "out.png")
	writer, err := NewChunkWriter(ChunkWriterConfig{FilePath: filePath, BufferSize: 16})
	require.NoError(t, err)

	var offsets []int64
	for _, c := range testPNG().Chunks() {
		offset, err := writer.Write(c)
		require.NoError(t, err)
		offsets = append(offsets, offset)
	}

	// IHDR(12+13) then tEXt(12+13)
	assert.Equal(t, []int64{8, 33, 58}, offsets)
	require.NoError(t, writer.Close())

	data, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, testPNG().Bytes(), data)

	info, err := os.Stat(filePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	// No temp files left behind
	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestChunkWriter_Closed(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "chunk_writer_closed_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	writer, err := NewChunkWriter(ChunkWriterConfig{FilePath: filepath.Join(tmpDir, "out.png")})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	_, err = writer.Write(testChunk("IEND", ""))
	assert.ErrorIs(t, err, ErrWriterClosed)
	assert.ErrorIs(t, writer.Close(), ErrWriterClosed)
	assert.NoError(t, writer.Abort())
}

func TestChunkWriter_Abort(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "chunk_writer_abort_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	filePath := filepath.Join(tmpDir, "out.png")
	original := []byte("original contents")
	require.NoError(t, os.WriteFile(filePath, original, 0600))

	writer, err := NewChunkWriter(ChunkWriterConfig{FilePath: filePath})
	require.NoError(t, err)
	_, err = writer.Write(testChunk("IHDR", "header"))
	require.NoError(t, err)
	require.NoError(t, writer.Abort())

	data, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, original, data)

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestChunkWriter_Backup(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "chunk_writer_backup_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	filePath := filepath.Join(tmpDir, "out.png")
	original := png.New(testChunk("IEND", "")).Bytes()
	require.NoError(t, os.WriteFile(filePath, original, 0600))

	require.NoError(t, WriteFile(testPNG(), ChunkWriterConfig{FilePath: filePath, Backup: true}))

	backup, err := os.ReadFile(filePath + ".bak")
	require.NoError(t, err)
	assert.Equal(t, original, backup)

	data, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, testPNG().Bytes(), data)

	// Existing permissions are preserved
	info, err := os.Stat(filePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
