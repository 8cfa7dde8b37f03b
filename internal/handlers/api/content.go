package api

import (
	"net/http"

	"hirehub/internal/models"

	"github.com/go-chi/chi/v5"
)

// ListContent handles GET /api/content
func (h *Handler) ListContent(w http.ResponseWriter, r *http.Request) {
	q := newQueryParser(r)
	filter := models.ContentFilter{
		Type:   q.String("type"),
		Search: q.String("search"),
	}
	page, ok := h.pagination(w, r)
	if !ok {
		return
	}

	sections, err := h.repos.Content.FindAll(r.Context(), filter, page)
	writePage(h, w, r, sections, err)
}

// GetContent handles GET /api/content/{id}
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	section, err := h.repos.Content.FindByID(r.Context(), chi.URLParam(r, "id"))
	writeFound(h, w, r, "content section", section, err)
}

// PutContent handles PUT /api/content/{id}, creating or replacing the section
func (h *Handler) PutContent(w http.ResponseWriter, r *http.Request) {
	var input models.UpsertContentInput
	if err := decodeJSON(r, &input); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")

	section, err := h.repos.Content.Upsert(r.Context(), &input)
	writeFound(h, w, r, "content section", section, err)
}

// DeleteContent handles DELETE /api/content/{id}
func (h *Handler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.repos.Content.Delete(r.Context(), chi.URLParam(r, "id"))
	h.writeDeleted(w, r, "content section", deleted, err)
}
