package store

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ssargent/pngme/pkg/codec"
	"github.com/ssargent/pngme/pkg/png"
)

const defaultBufferSize = 64 * 1024

// ChunkWriter writes a PNG file chunk by chunk. Output goes to a temporary
// file in the target directory and replaces the target only on Close, so a
// failed write never leaves a half-written PNG behind.
type ChunkWriter struct {
	file   *os.File
	writer *bufio.Writer
	config ChunkWriterConfig
	mutex  sync.Mutex
	offset int64 // Current write offset
	closed bool
}

// NewChunkWriter creates a chunk writer with the given configuration and
// writes the PNG signature.
func NewChunkWriter(config ChunkWriterConfig) (*ChunkWriter, error) {
	if config.BufferSize <= 0 {
		config.BufferSize = defaultBufferSize
	}

	// Ensure directory exists
	dir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(config.FilePath)+".tmp-*")
	if err != nil {
		return nil, err
	}

	w := &ChunkWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, config.BufferSize),
		config: config,
	}

	n, err := w.writer.Write(png.Signature[:])
	if err != nil {
		w.discard()
		return nil, err
	}
	w.offset = int64(n)

	return w, nil
}

// Write appends a chunk and returns the offset at which it starts
func (w *ChunkWriter) Write(c *codec.Chunk) (int64, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return 0, ErrWriterClosed
	}

	n, err := w.writer.Write(c.Encode())
	if err != nil {
		return 0, err
	}

	chunkOffset := w.offset
	w.offset += int64(n)
	return chunkOffset, nil
}

// Close flushes and syncs the temporary file and renames it over the target.
// The previous file is kept as FilePath + ".bak" if Backup is set.
func (w *ChunkWriter) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true

	if err := w.commit(); err != nil {
		w.discard()
		return err
	}
	return nil
}

// Abort discards everything written so far and leaves the target untouched
func (w *ChunkWriter) Abort() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.discard()
}

// Size returns the number of bytes written so far
func (w *ChunkWriter) Size() int64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.offset
}

// Path returns the target file path
func (w *ChunkWriter) Path() string {
	return w.config.FilePath
}

func (w *ChunkWriter) commit() error {
	if err := w.writer.Flush(); err != nil {
		return err
	}
	if err := w.file.Sync(); err != nil {
		return err
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(w.config.FilePath); err == nil {
		mode = info.Mode().Perm()
		if w.config.Backup {
			if err := backupFile(w.config.FilePath, mode); err != nil {
				return err
			}
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := w.file.Chmod(mode); err != nil {
		return err
	}
	if err := w.file.Close(); err != nil {
		return err
	}
	return os.Rename(w.file.Name(), w.config.FilePath)
}

// discard closes and removes the temporary file
func (w *ChunkWriter) discard() error {
	closeErr := w.file.Close()
	if err := os.Remove(w.file.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
		return closeErr
	}
	return nil
}

func backupFile(path string, mode fs.FileMode) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file for backup: %w", err)
	}
	if err := os.WriteFile(path+".bak", data, mode); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}
