package codec

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"unicode/utf8"
)

const (
	// FrameSize is the number of bytes a chunk occupies beyond its data:
	// Length(4) + Type(4) + CRC32(4).
	FrameSize = 12

	// MaxLength is the largest data length the format allows.
	MaxLength = 1<<31 - 1
)

// Chunk represents a single chunk of a PNG datastream.
// The CRC is not stored; it is computed from Type and Data when needed.
type Chunk struct {
	Type ChunkType // Chunk type code
	Data []byte    // Payload, opaque to this package
}

// NewChunk creates a chunk of the given type. The chunk takes ownership of
// data; callers must not modify it afterwards.
func NewChunk(t ChunkType, data []byte) *Chunk {
	if data == nil {
		data = []byte{}
	}
	return &Chunk{
		Type: t,
		Data: data,
	}
}

// Length returns the number of data bytes.
func (c *Chunk) Length() uint32 {
	return uint32(len(c.Data))
}

// Size returns the total size of the chunk when encoded
func (c *Chunk) Size() int {
	return FrameSize + len(c.Data)
}

// CRC computes the CRC32 over the type code and data.
func (c *Chunk) CRC() uint32 {
	return Checksum(c.Type[:], c.Data)
}

// Encode serializes the chunk into its binary form
// Format: [Length(4)][Type(4)][Data][CRC32(4)]
func (c *Chunk) Encode() []byte {
	return c.AppendEncoded(make([]byte, 0, c.Size()))
}

// AppendEncoded appends the encoded chunk to dst and returns the extended
// buffer.
func (c *Chunk) AppendEncoded(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, c.Length())
	dst = append(dst, c.Type[:]...)
	dst = append(dst, c.Data...)
	return binary.BigEndian.AppendUint32(dst, c.CRC())
}

// DecodeChunk deserializes the chunk at the start of buf and returns it with
// the number of bytes consumed. Bytes after the chunk are ignored.
//
// The returned chunk owns a copy of its data, so buf may be reused.
func DecodeChunk(buf []byte) (*Chunk, int, error) {
	if len(buf) < FrameSize {
		return nil, 0, fmt.Errorf("%w: %d bytes, need %d for chunk framing", ErrTruncatedInput, len(buf), FrameSize)
	}

	length := binary.BigEndian.Uint32(buf[0:4])
	total := uint64(length) + FrameSize
	if uint64(len(buf)) < total {
		return nil, 0, fmt.Errorf("%w: chunk declares %d data bytes, %d available",
			ErrTruncatedInput, length, len(buf)-FrameSize)
	}
	end := 8 + int(length)

	c := &Chunk{Data: make([]byte, length)}
	copy(c.Type[:], buf[4:8])
	copy(c.Data, buf[8:end])

	stored := binary.BigEndian.Uint32(buf[end : end+4])
	if computed := c.CRC(); computed != stored {
		return nil, 0, &ChecksumError{Type: c.Type, Nominal: stored, Computed: computed}
	}

	return c, int(total), nil
}

// DataAsString returns the data interpreted as UTF-8 text.
func (c *Chunk) DataAsString() (string, error) {
	if !utf8.Valid(c.Data) {
		return "", fmt.Errorf("%w: %s chunk", ErrInvalidEncoding, c.Type)
	}
	return string(c.Data), nil
}

func (c *Chunk) String() string {
	return fmt.Sprintf("%s (%d bytes, crc %08x)", c.Type, len(c.Data), c.CRC())
}

// Checksum computes the CRC-32/ISO-HDLC of the concatenation of parts.
func Checksum(parts ...[]byte) uint32 {
	var crc uint32
	for _, p := range parts {
		crc = crc32.Update(crc, crc32.IEEETable, p)
	}
	return crc
}
