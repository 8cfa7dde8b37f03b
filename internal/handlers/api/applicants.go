package api

import (
	"net/http"

	"hirehub/internal/models"

	"github.com/go-chi/chi/v5"
)

// ListApplicants handles GET /api/applicants
func (h *Handler) ListApplicants(w http.ResponseWriter, r *http.Request) {
	q := newQueryParser(r)
	filter := models.ApplicantFilter{
		Search:          q.String("search"),
		Email:           q.String("email"),
		Skill:           q.String("skill"),
		YearsExperience: q.String("years_experience"),
		Country:         q.String("country"),
		Availability:    q.String("availability"),
		CreatedAfter:    q.Time("created_after"),
		CreatedBefore:   q.Time("created_before"),
	}
	if err := q.Err(); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	page, ok := h.pagination(w, r)
	if !ok {
		return
	}

	applicants, err := h.repos.Applicant.FindAll(r.Context(), filter, page)
	writePage(h, w, r, applicants, err)
}

// GetApplicant handles GET /api/applicants/{id}
func (h *Handler) GetApplicant(w http.ResponseWriter, r *http.Request) {
	applicant, err := h.repos.Applicant.FindByID(r.Context(), chi.URLParam(r, "id"))
	writeFound(h, w, r, "applicant", applicant, err)
}

// UpdateApplicant handles PATCH /api/applicants/{id}
func (h *Handler) UpdateApplicant(w http.ResponseWriter, r *http.Request) {
	var input models.UpdateApplicantInput
	if err := decodeJSON(r, &input); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")

	applicant, err := h.repos.Applicant.Update(r.Context(), &input)
	writeFound(h, w, r, "applicant", applicant, err)
}

// DeleteApplicant handles DELETE /api/applicants/{id}; the applicant's
// applications go with it.
func (h *Handler) DeleteApplicant(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.repos.Applicant.Delete(r.Context(), chi.URLParam(r, "id"))
	h.writeDeleted(w, r, "applicant", deleted, err)
}

// ListApplicantApplications handles GET /api/applicants/{id}/applications
func (h *Handler) ListApplicantApplications(w http.ResponseWriter, r *http.Request) {
	page, ok := h.pagination(w, r)
	if !ok {
		return
	}
	apps, err := h.repos.Application.FindByApplicant(r.Context(), chi.URLParam(r, "id"), page)
	writePage(h, w, r, apps, err)
}
