package store

import (
	"github.com/ssargent/pngme/pkg/codec"
)

// ChunkWriterConfig holds configuration for the chunk writer
type ChunkWriterConfig struct {
	FilePath   string // Path of the PNG file to (re)write
	BufferSize int    // Write buffer size
	Backup     bool   // Keep the previous file as FilePath + ".bak"
}

// ChunkReaderConfig holds configuration for the chunk reader
type ChunkReaderConfig struct {
	FilePath     string // Path to the PNG file
	MaxChunkSize uint32 // Largest accepted data length (0 = codec.MaxLength)
}

// ChunkIterator provides streaming access to chunks
type ChunkIterator interface {
	Next() bool
	Chunk() *codec.Chunk
	Err() error
	Close() error
}

// Errors
var (
	ErrChunkTooLarge = &StoreError{"chunk exceeds maximum size"}
	ErrWriterClosed  = &StoreError{"chunk writer is closed"}
)

// StoreError represents a PNG file store error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
