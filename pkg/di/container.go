// Package di provides dependency injection container
package di

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/ssargent/pngme/pkg/config"
	"github.com/ssargent/pngme/pkg/storage"
)

// Container holds all the dependencies for the application
type Container struct {
	config *config.Config
	logger zerolog.Logger
	stash  *storage.ChunkStash
}

// NewContainer creates a container with the default configuration and a
// no-op logger
func NewContainer() *Container {
	return &Container{
		config: config.DefaultConfig(),
		logger: zerolog.Nop(),
	}
}

// Configure replaces the configuration and logger. It must be called before
// the stash is first opened.
func (c *Container) Configure(cfg *config.Config, logger zerolog.Logger) {
	c.config = cfg
	c.logger = logger
}

// Config returns the active configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the application logger
func (c *Container) Logger() *zerolog.Logger {
	return &c.logger
}

// Stash opens the chunk stash on first use
func (c *Container) Stash() (*storage.ChunkStash, error) {
	if c.stash != nil {
		return c.stash, nil
	}

	dir := c.config.StashDir
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create stash dir: %w", err)
	}
	stash, err := storage.Open(dir, storage.Options{Sync: true})
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("dir", dir).Msg("opened chunk stash")
	c.stash = stash
	return stash, nil
}

// SetStash allows injecting an already open stash (for testing)
func (c *Container) SetStash(stash *storage.ChunkStash) {
	c.stash = stash
}

// Close releases the stash if it was opened
func (c *Container) Close() error {
	if c.stash == nil {
		return nil
	}
	err := c.stash.Close()
	c.stash = nil
	return err
}
