package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pngme/pkg/codec"
	"github.com/ssargent/pngme/pkg/png"
	"github.com/ssargent/pngme/pkg/store"
)

var (
	criticalColor   = color.New(color.FgRed, color.Bold)
	ancillaryColor  = color.New(color.FgGreen)
	privateColor    = color.New(color.FgYellow)
	unsafeCopyColor = color.New(color.FgHiBlack)
)

// loadImage reads the PNG at path, validating its structure in strict mode
func loadImage(path string) (*png.PNG, error) {
	p, err := store.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if container.Config().Strict {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	container.Logger().Debug().Str("file", path).Int("chunks", p.Len()).Msg("loaded image")
	return p, nil
}

// saveImage atomically writes p to path. A backup is kept only when an
// existing file is rewritten in place and files.backup is enabled.
func saveImage(p *png.PNG, path string, inPlace bool) error {
	err := store.WriteFile(p, store.ChunkWriterConfig{
		FilePath: path,
		Backup:   inPlace && container.Config().Files.Backup,
	})
	if err != nil {
		return err
	}
	container.Logger().Debug().Str("file", path).Int("chunks", p.Len()).Msg("wrote image")
	return nil
}

func parseChunkType(s string) (codec.ChunkType, error) {
	t, err := codec.ParseChunkType(s)
	if err != nil {
		return codec.ChunkType{}, fmt.Errorf("invalid chunk type %q: %w", s, err)
	}
	return t, nil
}

func parseStashID(s string) (ksuid.KSUID, error) {
	id, err := ksuid.Parse(s)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("invalid stash id %q: %w", s, err)
	}
	return id, nil
}

// describeType renders the chunk type colored by its property bits
func describeType(t codec.ChunkType) string {
	switch {
	case t.IsCritical():
		return criticalColor.Sprint(t.String())
	case !t.IsPublic():
		return privateColor.Sprint(t.String())
	default:
		return ancillaryColor.Sprint(t.String())
	}
}

// describeProperties lists the property bits of t
func describeProperties(t codec.ChunkType) string {
	props := make([]string, 0, 4)
	if t.IsCritical() {
		props = append(props, "critical")
	} else {
		props = append(props, "ancillary")
	}
	if t.IsPublic() {
		props = append(props, "public")
	} else {
		props = append(props, "private")
	}
	if !t.IsReservedBitValid() {
		props = append(props, "reserved-bit-set")
	}
	if t.IsSafeToCopy() {
		props = append(props, "safe-to-copy")
	} else {
		props = append(props, unsafeCopyColor.Sprint("unsafe-to-copy"))
	}
	return strings.Join(props, ",")
}
