package png_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/ssargent/pngme/pkg/codec"
	"github.com/ssargent/pngme/pkg/png"
)

// ExampleParse demonstrates a parse, edit, serialize cycle
func ExampleParse() {
	original := png.New(
		codec.NewChunk(png.HeaderType, make([]byte, 13)),
		codec.NewChunk(png.TerminatorType, nil),
	)

	p, err := png.Parse(original.Bytes())
	if err != nil {
		log.Fatal(err)
	}

	p.InsertBeforeTerminator(codec.NewChunk(codec.MustParseChunkType("ruSt"), []byte("secret")))

	if _, err := p.RemoveChunk(codec.MustParseChunkType("tIME")); errors.Is(err, png.ErrNotFound) {
		fmt.Println("no tIME chunk")
	}

	fmt.Print(p)
	fmt.Printf("%d bytes\n", len(p.Bytes()))

	// Output:
	// no tIME chunk
	// IHDR
	// ruSt
	// IEND
	// 63 bytes
}
