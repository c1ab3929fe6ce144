// Package storage keeps chunks lifted out of PNG files in a pebble database
// so they can be restored into the same or another image later.
//
// Each entry is keyed by a KSUID, which sorts by creation time, and the value
// is the chunk in its on-disk encoding (length, type, data and CRC). Values
// are re-decoded on read, so a corrupted entry surfaces as a checksum error.
package storage

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pngme/pkg/codec"
)

// StorageError is returned for stash lookups that cannot be satisfied.
type StorageError struct {
	Message string
}

func (e *StorageError) Error() string {
	return e.Message
}

var (
	ErrNotFound = &StorageError{"stash entry not found"}
	ErrClosed   = &StorageError{"stash is closed"}
)

// Entry describes one stashed chunk without its payload.
type Entry struct {
	ID     ksuid.KSUID
	Type   codec.ChunkType
	Length uint32
}

// ChunkStash is a pebble-backed store of encoded chunks.
type ChunkStash struct {
	db   *pebble.DB
	sync bool
}

// Options tunes how the stash writes to pebble.
type Options struct {
	// Sync forces an fsync on every write.
	Sync bool
}

// Open opens or creates a stash rooted at dir.
func Open(dir string, opts Options) (*ChunkStash, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open stash at %s: %w", dir, err)
	}
	return &ChunkStash{db: db, sync: opts.Sync}, nil
}

func (s *ChunkStash) writeOptions() *pebble.WriteOptions {
	if s.sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

// Put stores the chunk and returns its new id.
func (s *ChunkStash) Put(c *codec.Chunk) (ksuid.KSUID, error) {
	if s.db == nil {
		return ksuid.Nil, ErrClosed
	}
	id := ksuid.New()
	if err := s.db.Set(id.Bytes(), c.Encode(), s.writeOptions()); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to stash %s chunk: %w", c.Type, err)
	}
	return id, nil
}

// Get returns the chunk stored under id.
func (s *ChunkStash) Get(id ksuid.KSUID) (*codec.Chunk, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	value, closer, err := s.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stash entry %s: %w", id, err)
	}
	defer closer.Close()

	// DecodeChunk copies the payload, so value may be released afterwards.
	c, _, err := codec.DecodeChunk(value)
	if err != nil {
		return nil, fmt.Errorf("stash entry %s: %w", id, err)
	}
	return c, nil
}

// Delete removes the entry stored under id.
func (s *ChunkStash) Delete(id ksuid.KSUID) error {
	if s.db == nil {
		return ErrClosed
	}
	_, closer, err := s.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to read stash entry %s: %w", id, err)
	}
	closer.Close()

	return s.db.Delete(id.Bytes(), s.writeOptions())
}

// List returns every entry in id order, oldest first.
func (s *ChunkStash) List() ([]Entry, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate stash: %w", err)
	}
	defer iter.Close()

	var entries []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			return nil, fmt.Errorf("invalid stash key %x: %w", iter.Key(), err)
		}
		value := iter.Value()
		if len(value) < codec.FrameSize {
			return nil, fmt.Errorf("stash entry %s: %w", id, codec.ErrTruncatedInput)
		}
		entries = append(entries, Entry{
			ID:     id,
			Type:   codec.ChunkTypeFromBytes([4]byte(value[4:8])),
			Length: uint32(len(value) - codec.FrameSize),
		})
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate stash: %w", err)
	}
	return entries, nil
}

// Close flushes and closes the underlying database.
func (s *ChunkStash) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
