// Package codec provides chunk encoding and decoding for PNG datastreams.
//
// A PNG datastream is a fixed signature followed by a sequence of chunks.
// This package handles a single chunk; package png assembles them into a
// container.
//
// # Chunk Format
//
// Chunks are serialized in a binary format with the following structure:
//
//	[Length(4)][Type(4)][Data(Length)][CRC32(4)]
//
// Fields:
//   - Length: 32-bit unsigned integer giving the number of data bytes (big-endian).
//     The top bit is reserved by the format, so the maximum is 2^31-1.
//   - Type: 4-byte chunk type code (see ChunkType)
//   - Data: Length bytes of payload, opaque to this package
//   - CRC32: 32-bit CRC over Type and Data (big-endian)
//
// The total chunk size is: 12 bytes (framing) + len(Data)
//
// # CRC32 Calculation
//
// The CRC is CRC-32/ISO-HDLC (the IEEE polynomial used by zlib and
// Ethernet), computed over:
//   - Type (4 bytes)
//   - Data (Length bytes)
//
// The Length field and the CRC field itself are not covered.
//
// # Chunk Type Codes
//
// Each type code byte is an ASCII letter, and bit 5 of each byte (the
// lowercase bit) carries a property:
//
//	byte 0: ancillary bit    (uppercase = critical)
//	byte 1: private bit      (uppercase = public)
//	byte 2: reserved bit     (must be uppercase)
//	byte 3: safe-to-copy bit (lowercase = safe to copy)
//
// The properties are tested on the raw bits, never through case folding.
//
// # Usage
//
//	t, err := codec.ParseChunkType("ruSt")
//	if err != nil {
//	    return err
//	}
//	encoded := codec.NewChunk(t, []byte("hello")).Encode()
//
//	c, n, err := codec.DecodeChunk(encoded)
//	if err != nil {
//	    return err // ErrTruncatedInput or ErrChecksumMismatch
//	}
//
// # Thread Safety
//
// ChunkType is an immutable value. A Chunk is not synchronized; share it
// between goroutines only for reading.
package codec
