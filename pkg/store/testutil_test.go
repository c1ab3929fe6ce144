package store

import (
	"github.com/ssargent/pngme/pkg/codec"
	"github.com/ssargent/pngme/pkg/png"
)

func testChunk(code, data string) *codec.Chunk {
	return codec.NewChunk(codec.MustParseChunkType(code), []byte(data))
}

func testPNG() *png.PNG {
	return png.New(
		testChunk("IHDR", "\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"),
		testChunk("tEXt", "Comment\x00hello"),
		testChunk("IEND", ""),
	)
}
