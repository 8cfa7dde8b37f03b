package api

import (
	"net/http"

	"hirehub/internal/events"
	"hirehub/internal/models"

	"github.com/go-chi/chi/v5"
)

// CreateContactMessage handles POST /api/contact
func (h *Handler) CreateContactMessage(w http.ResponseWriter, r *http.Request) {
	var input models.CreateContactMessageInput
	if err := decodeJSON(r, &input); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	msg, err := h.repos.ContactMessage.Create(r.Context(), &input)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	h.publish(r, events.NewContactReceivedEvent(msg.ID, msg.Email, msg.Subject))
	h.builder.WriteCreated(w, r, msg)
}

// ListContactMessages handles GET /api/contact
func (h *Handler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	q := newQueryParser(r)
	filter := models.ContactFilter{
		Status:          q.String("status"),
		Search:          q.String("search"),
		SubmittedAfter:  q.Time("submitted_after"),
		SubmittedBefore: q.Time("submitted_before"),
	}
	if err := q.Err(); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	page, ok := h.pagination(w, r)
	if !ok {
		return
	}

	msgs, err := h.repos.ContactMessage.FindAll(r.Context(), filter, page)
	writePage(h, w, r, msgs, err)
}

// RecentContactMessages handles GET /api/contact/recent
func (h *Handler) RecentContactMessages(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.shortListLimit(w, r)
	if !ok {
		return
	}
	msgs, err := h.repos.ContactMessage.FindRecent(r.Context(), limit)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	h.builder.WriteSuccess(w, r, msgs)
}

// GetContactMessage handles GET /api/contact/{id}
func (h *Handler) GetContactMessage(w http.ResponseWriter, r *http.Request) {
	msg, err := h.repos.ContactMessage.FindByID(r.Context(), chi.URLParam(r, "id"))
	writeFound(h, w, r, "contact message", msg, err)
}

// UpdateContactMessage handles PATCH /api/contact/{id}
func (h *Handler) UpdateContactMessage(w http.ResponseWriter, r *http.Request) {
	var input models.UpdateContactMessageInput
	if err := decodeJSON(r, &input); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")

	msg, err := h.repos.ContactMessage.Update(r.Context(), &input)
	writeFound(h, w, r, "contact message", msg, err)
}

// MarkContactMessageRead handles POST /api/contact/{id}/read
func (h *Handler) MarkContactMessageRead(w http.ResponseWriter, r *http.Request) {
	msg, err := h.repos.ContactMessage.MarkAsRead(r.Context(), chi.URLParam(r, "id"))
	writeFound(h, w, r, "contact message", msg, err)
}

// DeleteContactMessage handles DELETE /api/contact/{id}
func (h *Handler) DeleteContactMessage(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.repos.ContactMessage.Delete(r.Context(), chi.URLParam(r, "id"))
	h.writeDeleted(w, r, "contact message", deleted, err)
}
