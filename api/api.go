// Package api exposes the constraint engine over HTTP. Parse and lex errors
// map to bad requests; probe failures map to internal errors.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/graphquality/rpcheck/constraints"
	"github.com/graphquality/rpcheck/evaluator"
	"github.com/graphquality/rpcheck/lexer"
	"github.com/graphquality/rpcheck/parser"
	"github.com/graphquality/rpcheck/probe"
)

// Server handles the engine's HTTP surface over one probe and one bundle
// store.
type Server struct {
	probe probe.Probe
	store *constraints.Store
	log   *slog.Logger
}

// NewServer returns a server over p and store. If log is nil, requests are
// logged to stderr.
func NewServer(p probe.Probe, store *constraints.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	return &Server{
		probe: p,
		store: store,
		log:   log,
	}
}

// Handler returns the route table of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/rpq/check", s.handleCheck)
	mux.HandleFunc("POST /api/measures/compute", s.handleMeasures)
	mux.HandleFunc("POST /api/constraints/validate", s.handleValidate)
	mux.HandleFunc("POST /api/constraints/save", s.handleSave)
	mux.HandleFunc("GET /api/constraints/files", s.handleFiles)
	mux.HandleFunc("GET /api/constraints/file/{name}", s.handleFile)
	mux.HandleFunc("GET /api/graph/stats", s.handleStats)

	return s.logRequests(mux)
}

type checkRequest struct {
	Constraint string `json:"constraint"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	result, err := evaluator.CheckInclusion(r.Context(), s.probe, req.Constraint)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

type measuresRequest struct {
	Constraints []string `json:"constraints"`
	Measures    []string `json:"measures"`
}

func (s *Server) handleMeasures(w http.ResponseWriter, r *http.Request) {
	var req measuresRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	requested := make([]evaluator.Measure, 0, len(req.Measures))
	for _, name := range req.Measures {
		m, err := evaluator.ParseMeasure(name)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorBody(err))
			return
		}
		requested = append(requested, m)
	}

	result, err := evaluator.ComputeMeasures(r.Context(), s.probe, req.Constraints, requested)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var b constraints.Bundle
	if !s.readJSON(w, r, &b) {
		return
	}

	s.writeJSON(w, http.StatusOK, validationBody(b))
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var b constraints.Bundle
	if !s.readJSON(w, r, &b) {
		return
	}

	if errs := constraints.Validate(b); len(errs) > 0 {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":     false,
			"errors": errs,
		})
		return
	}

	name, err := s.store.Save(b)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorBody(err))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"file": name,
	})
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List()
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorBody(err))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"files": names,
	})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.Load(r.PathValue("name"))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, os.ErrNotExist) {
			status = http.StatusNotFound
		}
		s.writeJSON(w, status, errorBody(err))
		return
	}

	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sp, ok := s.probe.(probe.StatsProvider)
	if !ok {
		s.writeJSON(w, http.StatusNotImplemented, map[string]string{
			"error": "probe does not report stats",
		})
		return
	}

	s.writeJSON(w, http.StatusOK, sp.Stats())
}

func validationBody(b constraints.Bundle) map[string]interface{} {
	errs := constraints.Validate(b)
	body := map[string]interface{}{
		"ok": len(errs) == 0,
	}
	if len(errs) > 0 {
		body["errors"] = errs
	}
	return body
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody(err))
		return false
	}
	return true
}

// writeError maps engine errors onto status codes: anything wrong with the
// constraint text is the caller's fault, probe failures are ours.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case lexer.IsLexError(err) || parser.IsParseError(err) || parser.IsRPCError(err):
		s.writeJSON(w, http.StatusBadRequest, errorBody(err))
	default:
		s.writeJSON(w, http.StatusInternalServerError, errorBody(err))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response", "err", err)
	}
}

func errorBody(err error) map[string]string {
	return map[string]string{
		"detail": err.Error(),
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
		)
	})
}
