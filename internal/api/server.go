// Package api serves a finished run over HTTP, read only.
package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dgallion1/linecolors/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Server is the read-only HTTP view of a finished run.
type Server struct {
	router chi.Router
	result *pipeline.Result
	html   []byte
	log    *slog.Logger
}

// NewServer creates and configures the HTTP server. The Markdown summary is
// rendered once up front.
func NewServer(result *pipeline.Result, log *slog.Logger) (*Server, error) {
	var html bytes.Buffer
	if err := goldmark.New(goldmark.WithExtensions(extension.Table)).Convert(result.Summary, &html); err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}
	s := &Server{
		result: result,
		html:   html.Bytes(),
		log:    log,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/report", s.handleReport)
	r.Get("/report.docx", s.handleReportDOCX)

	r.Route("/api", func(r chi.Router) {
		r.Get("/lines", s.handleLines)
		r.Get("/lines.csv", s.handleLinesCSV)
		r.Get("/lines/{lineID}", s.handleLine)
		r.Get("/diagnostics", s.handleDiagnostics)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
