package api

import (
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pngme/pkg/codec"
	"github.com/ssargent/pngme/pkg/storage"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Addr           string
	APIKey         string // empty disables the X-API-Key check
	Strict         bool   // reject images that fail png.Validate
	MaxUploadBytes int64
}

// ChunkStash is the subset of storage.ChunkStash the handlers use.
type ChunkStash interface {
	Put(c *codec.Chunk) (ksuid.KSUID, error)
	Get(id ksuid.KSUID) (*codec.Chunk, error)
	Delete(id ksuid.KSUID) error
	List() ([]storage.Entry, error)
}

// ChunkInfo describes one chunk of an inspected image.
type ChunkInfo struct {
	Type             string `json:"type"`
	Length           uint32 `json:"length"`
	CRC              uint32 `json:"crc"`
	Critical         bool   `json:"critical"`
	Public           bool   `json:"public"`
	ReservedBitValid bool   `json:"reserved_bit_valid"`
	SafeToCopy       bool   `json:"safe_to_copy"`
}

// InspectResult is returned by the inspect endpoint.
type InspectResult struct {
	Size   int         `json:"size"`
	Valid  bool        `json:"valid"`
	Issue  string      `json:"issue,omitempty"`
	Chunks []ChunkInfo `json:"chunks"`
}

// MessageResult carries the text payload of a chunk.
type MessageResult struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// StashEntry describes a stashed chunk.
type StashEntry struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Length  uint32 `json:"length"`
	Message string `json:"message,omitempty"`
}

func newChunkInfo(c *codec.Chunk) ChunkInfo {
	return ChunkInfo{
		Type:             c.Type.String(),
		Length:           c.Length(),
		CRC:              c.CRC(),
		Critical:         c.Type.IsCritical(),
		Public:           c.Type.IsPublic(),
		ReservedBitValid: c.Type.IsReservedBitValid(),
		SafeToCopy:       c.Type.IsSafeToCopy(),
	}
}
