// Package api serves the chunk operations over HTTP.
//
// Every route under /api/v1 takes a PNG as the raw request body. Routes that
// change the image answer with the new image as image/png; the others answer
// with an APIResponse JSON envelope. /metrics exposes Prometheus metrics and
// is not behind the API key.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

// Routes builds the router. gatherer backs the /metrics endpoint.
func (s *Server) Routes(gatherer prometheus.Gatherer) http.Handler {
	m := s.metrics
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(newRequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Stash-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey, m))

		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))
		r.Post("/inspect", m.InstrumentHandler("POST", "/api/v1/inspect", s.handleInspect))

		r.Route("/chunks/{type}", func(r chi.Router) {
			r.Post("/", m.InstrumentHandler("POST", "/api/v1/chunks/{type}", s.handleEncode))
			r.Post("/decode", m.InstrumentHandler("POST", "/api/v1/chunks/{type}/decode", s.handleDecode))
			r.Post("/remove", m.InstrumentHandler("POST", "/api/v1/chunks/{type}/remove", s.handleRemove))
			if s.stash != nil {
				r.Post("/stash", m.InstrumentHandler("POST", "/api/v1/chunks/{type}/stash", s.handleStashChunk))
			}
		})

		if s.stash != nil {
			r.Get("/stash", m.InstrumentHandler("GET", "/api/v1/stash", s.handleListStash))
			r.Get("/stash/{id}", m.InstrumentHandler("GET", "/api/v1/stash/{id}", s.handleGetStash))
			r.Delete("/stash/{id}", m.InstrumentHandler("DELETE", "/api/v1/stash/{id}", s.handleDeleteStash))
			r.Post("/stash/{id}/restore", m.InstrumentHandler("POST", "/api/v1/stash/{id}/restore", s.handleRestore))
		}
	})

	return r
}

// StartServer serves the API on config.Addr until ctx is cancelled, then
// shuts down gracefully.
func StartServer(ctx context.Context, stash ChunkStash, config ServerConfig, logger zerolog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server := NewServer(stash, config, NewMetrics(registry), logger)
	httpServer := &http.Server{
		Addr:              config.Addr,
		Handler:           server.Routes(registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", config.Addr).Msg("starting pngme API server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down pngme API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
