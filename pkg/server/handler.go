package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/hashroute/internal/errors"
	"github.com/vango-dev/hashroute/pkg/hashpath"
)

// DecodeResponse is the body returned by GET /api/decode.
type DecodeResponse struct {
	Path    hashpath.Path    `json:"path"`
	Options hashpath.Options `json:"options"`
}

// EncodeRequest is the body accepted by POST /api/encode. Exactly one of
// Path and Joined must be set.
type EncodeRequest struct {
	Path     *[]string        `json:"path,omitempty"`
	Joined   *string          `json:"joined,omitempty"`
	Options  hashpath.Options `json:"options"`
	WithRoot bool             `json:"withRoot,omitempty"`
}

// EncodeResponse is the body returned by POST /api/encode.
type EncodeResponse struct {
	Href string `json:"href"`
}

// routes builds the chi router.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/decode", s.handleDecode)
		r.Post("/encode", s.handleEncode)
	})

	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Get("/ws", s.handleWebSocket)
	return r
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// handleDecode decodes the href query parameter. The optional base
// parameter is a location string that relative hrefs resolve against.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var base hashpath.Path
	if raw := query.Get("base"); raw != "" {
		base = s.codec.Decode(raw, nil, nil)
	}

	var options hashpath.Options
	path := s.codec.Decode(query.Get("href"), base, &options)

	writeJSON(w, http.StatusOK, DecodeResponse{Path: path, Options: options})
}

// handleEncode encodes a path or joined string with options.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	var req EncodeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("E202").Wrap(err))
		return
	}

	var target hashpath.Target
	switch {
	case req.Path != nil && req.Joined != nil:
		s.writeError(w, http.StatusBadRequest,
			errors.New("E201").WithDetail(`Both "path" and "joined" are set.`))
		return
	case req.Path != nil:
		target = hashpath.Path(*req.Path)
	case req.Joined != nil:
		target = hashpath.Joined(*req.Joined)
	default:
		s.writeError(w, http.StatusBadRequest,
			errors.New("E201").WithDetail(`Neither "path" nor "joined" is set.`))
		return
	}

	href := s.codec.Encode(target, req.Options, req.WithRoot)
	writeJSON(w, http.StatusOK, EncodeResponse{Href: href})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes err as a coded JSON error body.
func (s *Server) writeError(w http.ResponseWriter, status int, err *errors.Error) {
	s.logger.Warn("request rejected", "code", err.Code, "error", err)
	writeJSON(w, status, err)
}

