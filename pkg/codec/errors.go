package codec

import "fmt"

// Errors
var (
	ErrInvalidFormat    = &CodecError{"invalid chunk type"}
	ErrInvalidEncoding  = &CodecError{"chunk data is not valid UTF-8"}
	ErrTruncatedInput   = &CodecError{"truncated input"}
	ErrChecksumMismatch = &CodecError{"CRC32 mismatch"}
)

// CodecError represents a chunk encoding or decoding error
type CodecError struct {
	Message string
}

func (e *CodecError) Error() string {
	return e.Message
}

// ChecksumError carries the stored and computed CRC of a rejected chunk.
// It matches ErrChecksumMismatch under errors.Is.
type ChecksumError struct {
	Type     ChunkType
	Nominal  uint32
	Computed uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%s (%s): %08x != %08x", ErrChecksumMismatch, e.Type, e.Nominal, e.Computed)
}

func (e *ChecksumError) Unwrap() error {
	return ErrChecksumMismatch
}
