package store

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ssargent/pngme/pkg/codec"
	"github.com/ssargent/pngme/pkg/png"
)

// ChunkReader provides sequential access to the chunks of a PNG stream.
// It reads one chunk at a time, so chunks before a damaged one can still be
// inspected.
type ChunkReader struct {
	file    *os.File // nil when reading from a caller-owned stream
	reader  *bufio.Reader
	offset  int64
	maxSize uint32
	done    bool
}

// OpenChunkReader opens the PNG file named in config and verifies its
// signature.
func OpenChunkReader(config ChunkReaderConfig) (*ChunkReader, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, err
	}

	r, err := NewChunkReader(file, config.MaxChunkSize)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.file = file
	return r, nil
}

// NewChunkReader reads and verifies the PNG signature from rd and returns a
// reader positioned at the first chunk. maxSize limits the data length of a
// single chunk; 0 means codec.MaxLength.
func NewChunkReader(rd io.Reader, maxSize uint32) (*ChunkReader, error) {
	if maxSize == 0 || maxSize > codec.MaxLength {
		maxSize = codec.MaxLength
	}

	r := &ChunkReader{
		reader:  bufio.NewReader(rd),
		maxSize: maxSize,
	}

	sig := make([]byte, len(png.Signature))
	n, err := io.ReadFull(r.reader, sig)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	if n < len(sig) || [8]byte(sig) != png.Signature {
		return nil, fmt.Errorf("%w: % x", png.ErrBadSignature, sig[:n])
	}
	r.offset = int64(n)

	return r, nil
}

// ReadNext reads the next chunk. It returns io.EOF once the IEND chunk has
// been returned, and png.ErrMissingTerminator if the stream ends cleanly
// before IEND.
func (r *ChunkReader) ReadNext() (*codec.Chunk, error) {
	if r.done {
		return nil, io.EOF
	}

	// Read length and type first so the data buffer can be sized
	header := make([]byte, 8)
	n, err := io.ReadFull(r.reader, header)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: stream ended at offset %d", png.ErrMissingTerminator, r.offset)
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %d of 8 header bytes at offset %d", codec.ErrTruncatedInput, n, r.offset)
		}
		return nil, err
	}

	length := binary.BigEndian.Uint32(header[0:4])
	if length > r.maxSize {
		return nil, fmt.Errorf("%w: %d bytes at offset %d, limit %d", ErrChunkTooLarge, length, r.offset, r.maxSize)
	}

	frame := make([]byte, codec.FrameSize+int(length))
	copy(frame, header)
	if _, err := io.ReadFull(r.reader, frame[len(header):]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: chunk at offset %d declares %d data bytes", codec.ErrTruncatedInput, r.offset, length)
		}
		return nil, err
	}

	c, consumed, err := codec.DecodeChunk(frame)
	if err != nil {
		return nil, fmt.Errorf("chunk at offset %d: %w", r.offset, err)
	}
	r.offset += int64(consumed)

	if c.Type == png.TerminatorType {
		r.done = true
	}
	return c, nil
}

// ReadAll reads the remaining chunks into a PNG.
func (r *ChunkReader) ReadAll() (*png.PNG, error) {
	p := png.New()
	for {
		c, err := r.ReadNext()
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		if err != nil {
			return nil, err
		}
		p.Append(c)
	}
}

// Offset returns the number of bytes consumed so far
func (r *ChunkReader) Offset() int64 {
	return r.offset
}

// Iterator returns a streaming iterator for chunks
func (r *ChunkReader) Iterator() ChunkIterator {
	return &chunkIterator{reader: r}
}

// Close closes the underlying file if the reader opened it
func (r *ChunkReader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// chunkIterator implements ChunkIterator for streaming access
type chunkIterator struct {
	reader *ChunkReader
	chunk  *codec.Chunk
	err    error
}

func (it *chunkIterator) Next() bool {
	if it.err != nil {
		return false
	}
	it.chunk, it.err = it.reader.ReadNext()
	return it.err == nil
}

func (it *chunkIterator) Chunk() *codec.Chunk {
	return it.chunk
}

// Err returns the error that stopped iteration, or nil after IEND.
func (it *chunkIterator) Err() error {
	if errors.Is(it.err, io.EOF) {
		return nil
	}
	return it.err
}

func (it *chunkIterator) Close() error {
	// Don't close the underlying reader as it's owned by the caller
	return nil
}
