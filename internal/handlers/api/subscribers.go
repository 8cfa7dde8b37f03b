package api

import (
	"net/http"
	"strconv"
	"strings"

	"hirehub/internal/events"
	"hirehub/internal/models"
	"hirehub/internal/response"

	"github.com/go-chi/chi/v5"
)

type unsubscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe handles POST /api/subscribers. An address that is already
// subscribed answers 409; one that unsubscribed is reactivated.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var input models.CreateSubscriberInput
	if err := decodeJSON(r, &input); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	sub, err := h.repos.Subscriber.Create(r.Context(), &input)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	h.publish(r, events.NewSubscriberJoinedEvent(sub.Email, sub.Source))
	h.builder.WriteCreated(w, r, sub)
}

// ListSubscribers handles GET /api/subscribers
func (h *Handler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	q := newQueryParser(r)
	filter := models.SubscriberFilter{
		Status:          q.String("status"),
		Search:          q.String("search"),
		Source:          q.String("source"),
		SubscribedAfter: q.Time("subscribed_after"),
	}
	if err := q.Err(); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	page, ok := h.pagination(w, r)
	if !ok {
		return
	}

	subs, err := h.repos.Subscriber.FindAll(r.Context(), filter, page)
	writePage(h, w, r, subs, err)
}

// ActiveSubscriberEmails handles GET /api/subscribers/emails
func (h *Handler) ActiveSubscriberEmails(w http.ResponseWriter, r *http.Request) {
	emails, err := h.repos.Subscriber.ActiveEmails(r.Context())
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	h.builder.WriteSuccess(w, r, emails)
}

// Unsubscribe handles POST /api/subscribers/unsubscribe
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req unsubscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		h.builder.WriteError(w, r, response.NewValidationError("email is required", nil))
		return
	}

	ok, err := h.repos.Subscriber.Unsubscribe(r.Context(), req.Email)
	switch {
	case err != nil:
		h.builder.WriteError(w, r, err)
	case !ok:
		h.builder.WriteError(w, r, notFound("subscriber"))
	default:
		h.publish(r, events.NewSubscriberLeftEvent(req.Email))
		h.builder.WriteSuccess(w, r, map[string]string{"email": req.Email, "status": models.SubscriberStatusInactive})
	}
}

// DeleteSubscriber handles DELETE /api/subscribers/{id}
func (h *Handler) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.builder.WriteError(w, r, response.NewValidationError("invalid subscriber id", err))
		return
	}
	deleted, err := h.repos.Subscriber.Delete(r.Context(), id)
	h.writeDeleted(w, r, "subscriber", deleted, err)
}
