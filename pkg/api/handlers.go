package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pngme/pkg/codec"
	"github.com/ssargent/pngme/pkg/png"
	"github.com/ssargent/pngme/pkg/storage"
	"github.com/ssargent/pngme/pkg/store"
)

// Server holds the API server state
type Server struct {
	stash   ChunkStash
	config  ServerConfig
	metrics *Metrics
	logger  zerolog.Logger
}

// NewServer creates a new API server. stash may be nil, in which case the
// stash routes are not mounted.
func NewServer(stash ChunkStash, config ServerConfig, metrics *Metrics, logger zerolog.Logger) *Server {
	return &Server{
		stash:   stash,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// readPNG parses the request body as a PNG stream.
func (s *Server) readPNG(w http.ResponseWriter, r *http.Request) (*png.PNG, bool) {
	body := r.Body
	if s.config.MaxUploadBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	}

	p, err := func() (*png.PNG, error) {
		reader, err := store.NewChunkReader(body, 0)
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return reader.ReadAll()
	}()
	if err == nil && s.config.Strict {
		err = p.Validate()
	}
	if err != nil {
		s.metrics.RecordParseError(err)
		s.logger.Debug().Err(err).Str("kind", errorKind(err)).Msg("rejected image")
		sendError(w, err.Error(), parseErrorStatus(err))
		return nil, false
	}

	s.metrics.RecordChunks(p)
	return p, true
}

func parseErrorStatus(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes), errors.Is(err, store.ErrChunkTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, png.ErrMissingHeader), errors.Is(err, png.ErrChunkAfterTerminator):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// chunkTypeParam parses the {type} URL parameter.
func chunkTypeParam(w http.ResponseWriter, r *http.Request) (codec.ChunkType, bool) {
	t, err := codec.ParseChunkType(chi.URLParam(r, "type"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return codec.ChunkType{}, false
	}
	return t, true
}

func stashIDParam(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, fmt.Sprintf("invalid stash id: %v", err), http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	p, ok := s.readPNG(w, r)
	if !ok {
		return
	}

	result := InspectResult{
		Size:   len(p.Bytes()),
		Valid:  true,
		Chunks: make([]ChunkInfo, 0, p.Len()),
	}
	if err := p.Validate(); err != nil {
		result.Valid = false
		result.Issue = err.Error()
	}
	for _, c := range p.Chunks() {
		result.Chunks = append(result.Chunks, newChunkInfo(c))
	}
	sendSuccess(w, result)
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	t, ok := chunkTypeParam(w, r)
	if !ok {
		return
	}
	if !r.URL.Query().Has("message") {
		sendError(w, "message query parameter is required", http.StatusBadRequest)
		return
	}
	p, ok := s.readPNG(w, r)
	if !ok {
		return
	}

	p.InsertBeforeTerminator(codec.NewChunk(t, []byte(r.URL.Query().Get("message"))))
	sendPNG(w, p.Bytes())
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	t, ok := chunkTypeParam(w, r)
	if !ok {
		return
	}
	p, ok := s.readPNG(w, r)
	if !ok {
		return
	}

	c, found := p.ChunkByType(t)
	if !found {
		sendError(w, fmt.Sprintf("%v: %s", png.ErrNotFound, t), http.StatusNotFound)
		return
	}
	message, err := c.DataAsString()
	if err != nil {
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	sendSuccess(w, MessageResult{Type: t.String(), Message: message})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	t, ok := chunkTypeParam(w, r)
	if !ok {
		return
	}
	p, ok := s.readPNG(w, r)
	if !ok {
		return
	}

	if _, err := p.RemoveChunk(t); err != nil {
		sendError(w, err.Error(), http.StatusNotFound)
		return
	}
	sendPNG(w, p.Bytes())
}

// handleStashChunk removes the chunk from the uploaded image, stores it and
// returns the stripped image with the new id in X-Stash-Id.
func (s *Server) handleStashChunk(w http.ResponseWriter, r *http.Request) {
	t, ok := chunkTypeParam(w, r)
	if !ok {
		return
	}
	p, ok := s.readPNG(w, r)
	if !ok {
		return
	}

	c, err := p.RemoveChunk(t)
	if err != nil {
		sendError(w, err.Error(), http.StatusNotFound)
		return
	}
	id, err := s.stash.Put(c)
	s.metrics.RecordStashOperation("put", err == nil)
	if err != nil {
		s.logger.Error().Err(err).Str("type", t.String()).Msg("failed to stash chunk")
		sendError(w, "failed to stash chunk", http.StatusInternalServerError)
		return
	}

	s.logger.Info().Str("id", id.String()).Str("type", t.String()).Msg("stashed chunk")
	w.Header().Set("X-Stash-Id", id.String())
	sendPNG(w, p.Bytes())
}

func (s *Server) handleListStash(w http.ResponseWriter, r *http.Request) {
	entries, err := s.stash.List()
	s.metrics.RecordStashOperation("list", err == nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list stash")
		sendError(w, "failed to list stash", http.StatusInternalServerError)
		return
	}

	result := make([]StashEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, StashEntry{ID: e.ID.String(), Type: e.Type.String(), Length: e.Length})
	}
	sendSuccess(w, result)
}

func (s *Server) handleGetStash(w http.ResponseWriter, r *http.Request) {
	id, ok := stashIDParam(w, r)
	if !ok {
		return
	}
	c, ok := s.getStashed(w, id)
	if !ok {
		return
	}

	entry := StashEntry{ID: id.String(), Type: c.Type.String(), Length: c.Length()}
	if message, err := c.DataAsString(); err == nil {
		entry.Message = message
	}
	sendSuccess(w, entry)
}

func (s *Server) handleDeleteStash(w http.ResponseWriter, r *http.Request) {
	id, ok := stashIDParam(w, r)
	if !ok {
		return
	}
	err := s.stash.Delete(id)
	s.metrics.RecordStashOperation("delete", err == nil)
	if errors.Is(err, storage.ErrNotFound) {
		sendError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("id", id.String()).Msg("failed to delete stash entry")
		sendError(w, "failed to delete stash entry", http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]string{"id": id.String(), "status": "deleted"})
}

// handleRestore inserts a stashed chunk into the uploaded image before IEND.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	id, ok := stashIDParam(w, r)
	if !ok {
		return
	}
	c, ok := s.getStashed(w, id)
	if !ok {
		return
	}
	p, ok := s.readPNG(w, r)
	if !ok {
		return
	}

	p.InsertBeforeTerminator(c)
	sendPNG(w, p.Bytes())
}

func (s *Server) getStashed(w http.ResponseWriter, id ksuid.KSUID) (*codec.Chunk, bool) {
	c, err := s.stash.Get(id)
	s.metrics.RecordStashOperation("get", err == nil)
	if errors.Is(err, storage.ErrNotFound) {
		sendError(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		s.logger.Error().Err(err).Str("id", id.String()).Msg("failed to read stash entry")
		sendError(w, "failed to read stash entry", http.StatusInternalServerError)
		return nil, false
	}
	return c, true
}
