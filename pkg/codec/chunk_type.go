package codec

import (
	"fmt"
	"unicode/utf8"
)

// propertyBit is bit 5 of a type code byte, set for lowercase ASCII letters.
const propertyBit = 0x20

// ChunkType is a 4-byte chunk type code.
//
// Type codes are compared as fixed binary values: case is significant and no
// normalization is applied.
type ChunkType [4]byte

// ChunkTypeFromBytes returns the chunk type for b without validating it.
// Decoders must tolerate odd-looking codes, so validity is left to IsValid.
func ChunkTypeFromBytes(b [4]byte) ChunkType {
	return ChunkType(b)
}

// ParseChunkType parses a 4-letter chunk type code such as "IHDR" or "tEXt".
func ParseChunkType(s string) (ChunkType, error) {
	var t ChunkType
	if len(s) != len(t) {
		return t, fmt.Errorf("%w: %q is %d bytes, want 4", ErrInvalidFormat, s, len(s))
	}
	for i := 0; i < len(t); i++ {
		if !isLetter(s[i]) {
			return ChunkType{}, fmt.Errorf("%w: %q has non-letter byte 0x%02x", ErrInvalidFormat, s, s[i])
		}
		t[i] = s[i]
	}
	return t, nil
}

// MustParseChunkType is like ParseChunkType but panics on error.
func MustParseChunkType(s string) ChunkType {
	t, err := ParseChunkType(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Bytes returns the raw type code.
func (t ChunkType) Bytes() [4]byte {
	return t
}

// IsValid reports whether every byte is an ASCII letter and the reserved bit
// is clear.
func (t ChunkType) IsValid() bool {
	for _, b := range t {
		if !isLetter(b) {
			return false
		}
	}
	return t.IsReservedBitValid()
}

// IsCritical reports whether the ancillary bit (byte 0) is clear.
// Decoders that meet an unknown critical chunk cannot safely display the image.
func (t ChunkType) IsCritical() bool {
	return t[0]&propertyBit == 0
}

// IsPublic reports whether the private bit (byte 1) is clear.
func (t ChunkType) IsPublic() bool {
	return t[1]&propertyBit == 0
}

// IsReservedBitValid reports whether the reserved bit (byte 2) is clear, as
// required by the current version of the format.
func (t ChunkType) IsReservedBitValid() bool {
	return t[2]&propertyBit == 0
}

// IsSafeToCopy reports whether the safe-to-copy bit (byte 3) is set. Editors
// may copy unknown safe-to-copy chunks into a modified file.
func (t ChunkType) IsSafeToCopy() bool {
	return t[3]&propertyBit != 0
}

// String renders the type code as text, or "invalid" if the bytes are not
// valid UTF-8.
func (t ChunkType) String() string {
	if !utf8.Valid(t[:]) {
		return "invalid"
	}
	return string(t[:])
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
