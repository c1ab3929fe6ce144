package store

import (
	"fmt"
	"os"

	"github.com/ssargent/pngme/pkg/png"
)

// ReadFile reads and parses the PNG file at path.
func ReadFile(path string) (*png.PNG, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	p, err := png.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return p, nil
}

// WriteFile atomically replaces config.FilePath with the serialized PNG.
func WriteFile(p *png.PNG, config ChunkWriterConfig) error {
	w, err := NewChunkWriter(config)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", config.FilePath, err)
	}

	for _, c := range p.Chunks() {
		if _, err := w.Write(c); err != nil {
			_ = w.Abort()
			return fmt.Errorf("failed to write %s chunk: %w", c.Type, err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", config.FilePath, err)
	}
	return nil
}
