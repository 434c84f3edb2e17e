package web

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"vitae-cli/internal/render"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"
)

type previewPage struct {
	DocumentID string
	Title      string
	Template   string
	Templates  []string
	Body       template.HTML
}

func (s *Server) handlePreviewPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tree, err := s.b.Tree(id)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	data, err := s.b.TemplateData(id)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	s.writeHTMLTemplate(w, "preview.html", previewPage{
		DocumentID: tree.Document.ID,
		Title:      tree.Document.Title,
		Template:   render.ResolveTemplate("", data),
		Templates:  render.Names(),
		Body:       resumeHTML(data),
	})
}

func (s *Server) renderPreviewBody(id string) (string, error) {
	data, err := s.b.TemplateData(id)
	if err != nil {
		return "", err
	}
	return s.renderTemplate("preview_body", previewPage{DocumentID: id, Body: resumeHTML(data)})
}

func (s *Server) previewSignals(id string) map[string]any {
	sig := map[string]any{}
	data, err := s.b.TemplateData(id)
	if err != nil {
		return sig
	}
	pv, err := s.previewFor(id).Render(data, "")
	if err != nil {
		return sig
	}
	sig["template"] = pv.Template
	sig["pages"] = pv.NumberOfPages
	return sig
}

// handlePreviewStream keeps #resume-preview in sync with the document over SSE.
func (s *Server) handlePreviewStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.b.Tree(id); err != nil {
		writeMutationError(w, err)
		return
	}
	sse := datastar.NewSSE(w, r)
	_ = sse.MarshalAndPatchSignals(s.previewSignals(id))

	ch, cancel := s.b.Subscribe()
	defer cancel()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case c, ok := <-ch:
			if !ok {
				return
			}
			if c.Err != nil {
				_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, c.Err.Error()))
				continue
			}
			if c.DocumentID != id {
				continue
			}
			html, err := s.renderPreviewBody(id)
			if err != nil {
				_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
				continue
			}
			if strings.TrimSpace(html) == "" {
				continue
			}
			_ = sse.PatchElements(html, datastar.WithSelector("#resume-preview"), datastar.WithMode(datastar.ElementPatchModeOuter))
			_ = sse.MarshalAndPatchSignals(s.previewSignals(id))
		}
	}
}
