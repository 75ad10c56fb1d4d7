package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pagebuilder/internal/schema"
)

// GET /api/pages
func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := s.pages.ListPages()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

// GET /api/pages/{id}
func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	p, err := s.pages.Snapshot(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GET /api/pages/{id}/export
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.pages.Snapshot(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.pages.Export(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename(p)))
	writeHTML(w, []byte(doc))
}

// GET /api/pages/{id}/preview
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	doc, err := s.pages.Preview(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeHTML(w, []byte(doc))
}

// GET /api/pages/{id}/revisions
func (s *Server) handleRevisions(w http.ResponseWriter, r *http.Request) {
	revs, err := s.pages.Revisions(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, revs)
}

// POST /api/pages/{id}/publish
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	res, err := s.pages.Publish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type importResponse struct {
	SchemaType schema.Type `json:"schemaType"`
	Confidence float64     `json:"confidence"`
	PageID     string      `json:"pageId"`
	Slug       string      `json:"slug"`
}

// POST /api/import[?target={pageId}]
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	target := r.URL.Query().Get("target")
	res, err := s.pages.Import(r.Context(), data, target)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	code := http.StatusCreated
	if target != "" {
		code = http.StatusOK
	}
	writeJSON(w, code, importResponse{
		SchemaType: res.SchemaType,
		Confidence: res.Confidence,
		PageID:     res.Page.ID,
		Slug:       res.Page.Slug,
	})
}

// POST /api/detect
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schema.Detect(data))
}

// GET /p/{slug}
func (s *Server) handlePublished(w http.ResponseWriter, r *http.Request) {
	body, err := s.pages.PublishedHTML(chi.URLParam(r, "slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeHTML(w, body)
}
