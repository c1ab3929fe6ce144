package codec

import (
	"errors"
	"testing"
)

func TestChunkTypeFromBytes(t *testing.T) {
	expected := [4]byte{82, 117, 83, 116}
	ct := ChunkTypeFromBytes(expected)

	if ct.Bytes() != expected {
		t.Errorf("Bytes mismatch: got %v, want %v", ct.Bytes(), expected)
	}

	parsed, err := ParseChunkType("RuSt")
	if err != nil {
		t.Fatalf("ParseChunkType failed: %v", err)
	}
	if ct != parsed {
		t.Errorf("Chunk types differ: %v vs %v", ct, parsed)
	}
}

func TestParseChunkType(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "mixed case", input: "RuSt"},
		{name: "critical public", input: "IHDR"},
		{name: "ancillary", input: "tEXt"},
		{name: "reserved bit set is still parseable", input: "Rust"},
		{name: "digit", input: "Ru1t", wantErr: true},
		{name: "too short", input: "Rus", wantErr: true},
		{name: "too long", input: "RuStY", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "space", input: "Ru t", wantErr: true},
		{name: "non-ascii", input: "Rüt", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ct, err := ParseChunkType(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got %v", tc.input, ct)
				}
				if !errors.Is(err, ErrInvalidFormat) {
					t.Errorf("Expected ErrInvalidFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseChunkType(%q) failed: %v", tc.input, err)
			}
			if ct.String() != tc.input {
				t.Errorf("String mismatch: got %q, want %q", ct.String(), tc.input)
			}
		})
	}
}

func TestChunkType_Properties(t *testing.T) {
	testCases := []struct {
		code          string
		critical      bool
		public        bool
		reservedValid bool
		safeToCopy    bool
		valid         bool
	}{
		{"RuSt", true, false, true, true, true},
		{"Rust", true, false, false, true, false},
		{"IHDR", true, true, true, false, true},
		{"IEND", true, true, true, false, true},
		{"tEXt", false, true, true, true, true},
		{"prVt", false, false, true, true, true},
		{"aaaa", false, false, false, true, false},
		{"AAAA", true, true, true, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			ct := MustParseChunkType(tc.code)
			if got := ct.IsCritical(); got != tc.critical {
				t.Errorf("IsCritical: got %t, want %t", got, tc.critical)
			}
			if got := ct.IsPublic(); got != tc.public {
				t.Errorf("IsPublic: got %t, want %t", got, tc.public)
			}
			if got := ct.IsReservedBitValid(); got != tc.reservedValid {
				t.Errorf("IsReservedBitValid: got %t, want %t", got, tc.reservedValid)
			}
			if got := ct.IsSafeToCopy(); got != tc.safeToCopy {
				t.Errorf("IsSafeToCopy: got %t, want %t", got, tc.safeToCopy)
			}
			if got := ct.IsValid(); got != tc.valid {
				t.Errorf("IsValid: got %t, want %t", got, tc.valid)
			}
		})
	}
}

func TestChunkType_RawBytes(t *testing.T) {
	t.Run("non-letter bytes are stored but invalid", func(t *testing.T) {
		ct := ChunkTypeFromBytes([4]byte{'R', '1', 'S', 't'})
		if ct.IsValid() {
			t.Error("Expected chunk type with a digit to be invalid")
		}
		if ct.String() != "R1St" {
			t.Errorf("String mismatch: got %q", ct.String())
		}
	})

	t.Run("property bits ignore letter validity", func(t *testing.T) {
		// '@' (0x40) and '`' (0x60) differ only in bit 5.
		ct := ChunkTypeFromBytes([4]byte{'@', '`', '@', '`'})
		if !ct.IsCritical() || ct.IsPublic() || !ct.IsReservedBitValid() || !ct.IsSafeToCopy() {
			t.Errorf("Unexpected properties for %v", ct.Bytes())
		}
		if ct.IsValid() {
			t.Error("Expected non-letter chunk type to be invalid")
		}
	})

	t.Run("invalid utf-8 renders placeholder", func(t *testing.T) {
		ct := ChunkTypeFromBytes([4]byte{0xff, 0xfe, 'A', 'B'})
		if ct.String() != "invalid" {
			t.Errorf("Expected placeholder, got %q", ct.String())
		}
	})
}

func TestChunkType_Equality(t *testing.T) {
	if MustParseChunkType("IEND") == MustParseChunkType("iEND") {
		t.Error("Chunk type comparison must be case sensitive")
	}
	if MustParseChunkType("IEND") != ChunkTypeFromBytes([4]byte{'I', 'E', 'N', 'D'}) {
		t.Error("Identical codes compared unequal")
	}
}

func TestMustParseChunkType_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for invalid chunk type")
		}
	}()
	MustParseChunkType("12")
}
