// Package httpapi exposes one corpus over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"iter"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vakya-corpus/vakya"
	logpkg "github.com/vakya-corpus/vakya/internal/logger"
	"github.com/vakya-corpus/vakya/internal/metrics"
)

// CorpusService is the consumer interface over the corpus facade.
type CorpusService interface {
	Add(ctx context.Context, path string) ([]string, error)
	Remove(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]string, error)
	ReadSents(ctx context.Context, name string, opts ...vakya.ReadOption) (iter.Seq[vakya.Record], error)
	ReadBlob(ctx context.Context, name string) (string, error)
}

// Server routes HTTP requests to a bound corpus.
type Server struct {
	corpus CorpusService
	logger *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(corpus CorpusService, logger *zap.Logger) *Server {
	return &Server{corpus: corpus, logger: logger}
}

// Router builds the chi router with recovery and metrics middleware.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(s.requestLogger())
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/files", func(r chi.Router) {
		r.Get("/", s.listFiles)
		r.Post("/", s.addFile)
		r.Route("/{name}", func(r chi.Router) {
			r.Delete("/", s.removeFile)
			r.Get("/sentences", s.readSentences)
			r.Get("/blob", s.readBlob)
		})
	})

	return r
}

// requestLogger emits one canonical log line per request, propagates
// X-Request-ID, and stores a request-scoped logger in the context.
func (s *Server) requestLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := s.logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithContext(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if _, err := s.corpus.List(r.Context()); err != nil {
		s.writeDomainError(w, err, "health check")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) addFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	ids, err := s.corpus.Add(r.Context(), req.Path)
	if err != nil {
		s.writeDomainError(w, err, "add file")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"ids": ids})
}

func (s *Server) removeFile(w http.ResponseWriter, r *http.Request) {
	removed, err := s.corpus.Remove(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeDomainError(w, err, "remove file")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	names, err := s.corpus.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err, "list files")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"files": names})
}

// readSentences composes the filters from query parameters: from/to for
// the positional range, kw for keyword containment, semantic plus n for
// similarity search.
func (s *Server) readSentences(w http.ResponseWriter, r *http.Request) {
	opts, err := readOptionsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	seq, err := s.corpus.ReadSents(r.Context(), chi.URLParam(r, "name"), opts...)
	if err != nil {
		s.writeDomainError(w, err, "read sentences")
		return
	}

	type sentence struct {
		N    int    `json:"n"`
		Sent string `json:"sent"`
	}
	sentences := []sentence{}
	for rec := range seq {
		sentences = append(sentences, sentence{N: rec.N, Sent: rec.Sent})
	}
	writeJSON(w, http.StatusOK, map[string]any{"sentences": sentences})
}

func (s *Server) readBlob(w http.ResponseWriter, r *http.Request) {
	blob, err := s.corpus.ReadBlob(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeDomainError(w, err, "read blob")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(blob))
}

func readOptionsFromQuery(r *http.Request) ([]vakya.ReadOption, error) {
	var opts []vakya.ReadOption
	q := r.URL.Query()

	from, to := q.Get("from"), q.Get("to")
	switch {
	case from != "" && to != "":
		lo, err := strconv.Atoi(from)
		if err != nil {
			return nil, errors.New("from must be an integer")
		}
		hi, err := strconv.Atoi(to)
		if err != nil {
			return nil, errors.New("to must be an integer")
		}
		opts = append(opts, vakya.WithRange(lo, hi))
	case from != "" || to != "":
		return nil, errors.New("from and to must be given together")
	}

	if kw := q.Get("kw"); kw != "" {
		opts = append(opts, vakya.WithKeyword(kw))
	}
	if sem := q.Get("semantic"); sem != "" {
		opts = append(opts, vakya.WithSemantic(sem))
	}
	if n := q.Get("n"); n != "" {
		count, err := strconv.Atoi(n)
		if err != nil || count <= 0 {
			return nil, errors.New("n must be a positive integer")
		}
		opts = append(opts, vakya.WithLimit(count))
	}
	return opts, nil
}

// writeDomainError maps corpus sentinel errors to HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, vakya.ErrCollectionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, fs.ErrNotExist):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, vakya.ErrNotImplemented):
		writeError(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, vakya.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error(msg, zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
