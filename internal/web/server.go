// Package web serves the localhost JSON API, the live websocket feed and the browser preview.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"vitae-cli/internal/builder"
	"vitae-cli/internal/render"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var assetsFS embed.FS

type Config struct {
	Addr    string
	Builder *builder.Builder
}

type Server struct {
	b    *builder.Builder
	tmpl *template.Template

	mu       sync.Mutex
	previews map[string]*render.Previewer
}

func NewServer(b *builder.Builder) (*Server, error) {
	if b == nil {
		return nil, errors.New("web: builder is nil")
	}
	tmpl, err := template.ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{b: b, tmpl: tmpl, previews: map[string]*render.Previewer{}}, nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(Recovery, Logging)

	r.Get("/healthz", s.handleHealth)

	r.Get("/documents", s.handleDocuments)
	r.Post("/documents", s.handleDocumentCreate)
	r.Route("/documents/{id}", func(r chi.Router) {
		r.Get("/", s.handleDocument)
		r.Patch("/", s.handleDocumentUpdate)
		r.Delete("/", s.handleDocumentDelete)
		r.Post("/use", s.handleDocumentUse)
		r.Get("/template-data", s.handleTemplateData)
		r.Get("/preview.pdf", s.handlePreviewPDF)
		r.Get("/preview", s.handlePreviewPage)
		r.Get("/preview/stream", s.handlePreviewStream)
		r.Get("/live", s.handleLive)
	})

	r.Patch("/fields/{id}", s.handleFieldUpdate)

	r.Post("/sections/{id}/items", s.handleItemAdd)
	r.Post("/sections/{id}/move", s.handleSectionMove)
	r.Patch("/sections/{id}", s.handleSectionUpdate)
	r.Put("/sections/{id}/metadata/{key}", s.handleSectionMetadata)

	r.Delete("/items/{id}", s.handleItemRemove)
	r.Post("/items/{id}/move", s.handleItemMove)
	r.Post("/items/{id}/toggle", s.handleItemToggle)
	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, cfg Config) error {
	srv, err := NewServer(cfg.Builder)
	if err != nil {
		return err
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		addr = "127.0.0.1:8742"
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("serving on http://%s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) previewFor(documentID string) *render.Previewer {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.previews[documentID]
	if p == nil {
		p = &render.Previewer{}
		s.previews[documentID] = p
	}
	return p
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
