// Package png assembles and disassembles PNG datastreams as ordered chunk
// sequences.
//
// A datastream is the 8-byte Signature followed by chunks. By convention the
// first chunk is IHDR and the last is IEND; IEND marks the end of the
// datastream and nothing may follow it. Chunk payloads are never
// interpreted.
package png

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ssargent/pngme/pkg/codec"
)

// Signature is the fixed prefix of every PNG datastream.
var Signature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

var (
	// HeaderType is the chunk type conventionally placed first.
	HeaderType = codec.MustParseChunkType("IHDR")
	// TerminatorType marks the end of the datastream.
	TerminatorType = codec.MustParseChunkType("IEND")
)

// PNG is an ordered sequence of chunks.
//
// Header and terminator placement is checked when parsing and by Validate,
// not on every mutation, so a PNG may pass through intermediate states that
// would not be written by a conforming encoder.
type PNG struct {
	chunks []*codec.Chunk
}

// New creates a PNG from the given chunks, in order.
func New(chunks ...*codec.Chunk) *PNG {
	return &PNG{chunks: append([]*codec.Chunk(nil), chunks...)}
}

// Parse decodes a complete PNG datastream.
//
// Parsing stops after the first IEND chunk; any bytes after it are ignored.
// If a chunk fails to decode, or the input ends before IEND, the chunks read
// so far are discarded and the error is returned.
func Parse(data []byte) (*PNG, error) {
	if len(data) < len(Signature) || !bytes.Equal(data[:len(Signature)], Signature[:]) {
		n := min(len(data), len(Signature))
		return nil, fmt.Errorf("%w: % x", ErrBadSignature, data[:n])
	}

	p := &PNG{}
	offset := len(Signature)
	for offset < len(data) {
		c, n, err := codec.DecodeChunk(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("chunk %d at offset %d: %w", len(p.chunks), offset, err)
		}
		p.chunks = append(p.chunks, c)
		offset += n

		if c.Type == TerminatorType {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %d chunks in %d bytes", ErrMissingTerminator, len(p.chunks), len(data))
}

// Bytes serializes the PNG: the signature followed by every chunk in order.
// Chunks are written as they are, including any that follow IEND.
func (p *PNG) Bytes() []byte {
	size := len(Signature)
	for _, c := range p.chunks {
		size += c.Size()
	}

	buf := make([]byte, 0, size)
	buf = append(buf, Signature[:]...)
	for _, c := range p.chunks {
		buf = c.AppendEncoded(buf)
	}
	return buf
}

// Signature returns the signature bytes written before the chunks.
func (p *PNG) Signature() [8]byte {
	return Signature
}

// Chunks returns the chunks in order. The returned slice is a copy; changing
// it does not change the PNG.
func (p *PNG) Chunks() []*codec.Chunk {
	return append([]*codec.Chunk(nil), p.chunks...)
}

// Len returns the number of chunks.
func (p *PNG) Len() int {
	return len(p.chunks)
}

// Append adds a chunk to the end of the PNG, after IEND if there is one.
func (p *PNG) Append(c *codec.Chunk) {
	p.chunks = append(p.chunks, c)
}

// InsertBeforeTerminator adds a chunk immediately before the first IEND
// chunk, or at the end if there is none.
func (p *PNG) InsertBeforeTerminator(c *codec.Chunk) {
	i := p.index(TerminatorType)
	if i < 0 {
		p.Append(c)
		return
	}
	p.chunks = append(p.chunks, nil)
	copy(p.chunks[i+1:], p.chunks[i:])
	p.chunks[i] = c
}

// RemoveChunk removes and returns the first chunk of type t.
func (p *PNG) RemoveChunk(t codec.ChunkType) (*codec.Chunk, error) {
	i := p.index(t)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, t)
	}
	c := p.chunks[i]
	p.chunks = append(p.chunks[:i], p.chunks[i+1:]...)
	return c, nil
}

// ChunkByType returns the first chunk of type t.
func (p *PNG) ChunkByType(t codec.ChunkType) (*codec.Chunk, bool) {
	i := p.index(t)
	if i < 0 {
		return nil, false
	}
	return p.chunks[i], true
}

// Validate checks the structural conventions: IHDR first, IEND last and
// nothing after it.
func (p *PNG) Validate() error {
	if len(p.chunks) == 0 || p.chunks[0].Type != HeaderType {
		return ErrMissingHeader
	}
	end := p.index(TerminatorType)
	if end < 0 {
		return ErrMissingTerminator
	}
	if end != len(p.chunks)-1 {
		return fmt.Errorf("%w: %d chunks follow it", ErrChunkAfterTerminator, len(p.chunks)-1-end)
	}
	return nil
}

func (p *PNG) String() string {
	var sb strings.Builder
	for _, c := range p.chunks {
		sb.WriteString(c.Type.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

func (p *PNG) index(t codec.ChunkType) int {
	for i, c := range p.chunks {
		if c.Type == t {
			return i
		}
	}
	return -1
}
