package png

// Errors
var (
	ErrBadSignature         = &FormatError{"bad PNG signature"}
	ErrMissingTerminator    = &FormatError{"missing IEND chunk"}
	ErrNotFound             = &FormatError{"chunk not found"}
	ErrMissingHeader        = &FormatError{"first chunk is not IHDR"}
	ErrChunkAfterTerminator = &FormatError{"chunk after IEND"}
)

// FormatError represents a container-level PNG error
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return e.Message
}
