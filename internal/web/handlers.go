package web

import (
	"net/http"
	"strconv"
	"strings"

	"vitae-cli/internal/store"

	"github.com/go-chi/chi/v5"
)

type documentRequest struct {
	Title    *string `json:"title"`
	Template *string `json:"template"`
}

type valueRequest struct {
	Value string `json:"value"`
}

type positionRequest struct {
	Position int `json:"position"`
}

type enabledRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": s.b.Documents(),
		"current":   s.b.CurrentDocumentID(),
	})
}

func (s *Server) handleDocumentCreate(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	var title, tmpl string
	if req.Title != nil {
		title = *req.Title
	}
	if req.Template != nil {
		tmpl = *req.Template
	}
	doc, err := s.b.CreateDocument(title, tmpl)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	tree, err := s.b.Tree(chi.URLParam(r, "id"))
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleDocumentUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req documentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if req.Title == nil && req.Template == nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "nothing to update")
		return
	}
	if req.Title != nil {
		if err := s.b.RenameDocument(id, *req.Title); err != nil {
			writeMutationError(w, err)
			return
		}
	}
	if req.Template != nil {
		if err := s.b.SetDocumentTemplate(id, *req.Template); err != nil {
			writeMutationError(w, err)
			return
		}
	}
	s.handleDocument(w, r)
}

func (s *Server) handleDocumentDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.b.DeleteDocument(id); err != nil {
		writeMutationError(w, err)
		return
	}
	s.mu.Lock()
	delete(s.previews, id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDocumentUse(w http.ResponseWriter, r *http.Request) {
	if err := s.b.UseDocument(chi.URLParam(r, "id")); err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"current": s.b.CurrentDocumentID()})
}

func (s *Server) handleTemplateData(w http.ResponseWriter, r *http.Request) {
	data, err := s.b.TemplateData(chi.URLParam(r, "id"))
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handlePreviewPDF renders through the document's Previewer so unchanged content is served from cache.
func (s *Server) handlePreviewPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, err := s.b.TemplateData(id)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	p := s.previewFor(id)
	pv, err := p.Render(data, strings.TrimSpace(r.URL.Query().Get("template")))
	if err != nil {
		writeMutationError(w, err)
		return
	}
	if page := queryInt(r, "page", 0); page > 0 {
		pv.CurrentPage = p.SetPage(page)
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("X-Template", pv.Template)
	w.Header().Set("X-Page-Count", strconv.Itoa(pv.NumberOfPages))
	w.Header().Set("X-Current-Page", strconv.Itoa(pv.CurrentPage))
	if pv.Cached {
		w.Header().Set("X-Preview-Cache", "hit")
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(pv.PDF)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pv.PDF)
}

func (s *Server) handleFieldUpdate(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if err := s.b.UpdateField(chi.URLParam(r, "id"), req.Value); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleItemAdd(w http.ResponseWriter, r *http.Request) {
	it, err := s.b.AddItem(chi.URLParam(r, "id"))
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) handleItemRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.b.RemoveItem(chi.URLParam(r, "id")); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleItemMove(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if err := s.b.MoveItem(chi.URLParam(r, "id"), req.Position); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleItemToggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var found bool
	s.b.View(func(db *store.DB) {
		_, found = db.FindItem(id)
	})
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "item not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"open": s.b.ToggleItem(id)})
}

func (s *Server) handleSectionMove(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if err := s.b.MoveSection(chi.URLParam(r, "id"), req.Position); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSectionUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title *string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if req.Title == nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "title is required")
		return
	}
	if err := s.b.RenameSection(chi.URLParam(r, "id"), *req.Title); err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSectionMetadata(w http.ResponseWriter, r *http.Request) {
	var req enabledRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	err := s.b.SetSectionMetadata(chi.URLParam(r, "id"), chi.URLParam(r, "key"), req.Enabled)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
