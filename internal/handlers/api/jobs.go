package api

import (
	"net/http"

	"hirehub/internal/models"

	"github.com/go-chi/chi/v5"
)

const defaultShortListSize = 6

// jobStatusAll lifts the status filter on the job listing
const jobStatusAll = "all"

// ListJobs handles GET /api/jobs. Without a status parameter it lists the
// active jobs the facets count.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := newQueryParser(r)
	filter := models.JobFilter{
		Search:       q.String("search"),
		Location:     q.String("location"),
		Country:      q.String("country"),
		Category:     q.String("category"),
		Type:         q.String("type"),
		Experience:   q.String("experience"),
		Status:       q.String("status"),
		Featured:     q.Bool("featured"),
		SalaryMin:    q.Float("salary_min"),
		SalaryMax:    q.Float("salary_max"),
		PostedAfter:  q.Time("posted_after"),
		PostedBefore: q.Time("posted_before"),
	}
	if err := q.Err(); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	switch {
	case filter.Status == nil:
		filter.Status = models.Ptr(models.JobStatusActive)
	case *filter.Status == jobStatusAll:
		filter.Status = nil
	}

	page, ok := h.pagination(w, r)
	if !ok {
		return
	}

	jobs, err := h.repos.Job.FindAll(r.Context(), filter, page)
	writePage(h, w, r, jobs, err)
}

// CreateJob handles POST /api/jobs
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var input models.CreateJobInput
	if err := decodeJSON(r, &input); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	job, err := h.repos.Job.Create(r.Context(), &input)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	h.builder.WriteCreated(w, r, job)
}

// GetJob handles GET /api/jobs/{id}
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.repos.Job.FindByID(r.Context(), chi.URLParam(r, "id"))
	h.writeJob(w, r, job, err)
}

// UpdateJob handles PATCH /api/jobs/{id}
func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var input models.UpdateJobInput
	if err := decodeJSON(r, &input); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")

	job, err := h.repos.Job.Update(r.Context(), &input)
	h.writeJob(w, r, job, err)
}

// DeleteJob handles DELETE /api/jobs/{id}
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.repos.Job.Delete(r.Context(), chi.URLParam(r, "id"))
	h.writeDeleted(w, r, "job", deleted, err)
}

// DeactivateJob handles POST /api/jobs/{id}/deactivate
func (h *Handler) DeactivateJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.repos.Job.Deactivate(r.Context(), chi.URLParam(r, "id"))
	h.writeJob(w, r, job, err)
}

// ReactivateJob handles POST /api/jobs/{id}/reactivate
func (h *Handler) ReactivateJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.repos.Job.Reactivate(r.Context(), chi.URLParam(r, "id"))
	h.writeJob(w, r, job, err)
}

// FeaturedJobs handles GET /api/jobs/featured
func (h *Handler) FeaturedJobs(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.shortListLimit(w, r)
	if !ok {
		return
	}
	jobs, err := h.repos.Job.FindFeatured(r.Context(), limit)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	h.builder.WriteSuccess(w, r, jobs)
}

// RecentJobs handles GET /api/jobs/recent
func (h *Handler) RecentJobs(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.shortListLimit(w, r)
	if !ok {
		return
	}
	jobs, err := h.repos.Job.FindRecent(r.Context(), limit)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	h.builder.WriteSuccess(w, r, jobs)
}

// JobFacets handles GET /api/jobs/facets
func (h *Handler) JobFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.repos.Stats.JobFacets(r.Context())
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	h.builder.WriteSuccess(w, r, facets)
}

// ListJobApplications handles GET /api/jobs/{id}/applications
func (h *Handler) ListJobApplications(w http.ResponseWriter, r *http.Request) {
	page, ok := h.pagination(w, r)
	if !ok {
		return
	}
	apps, err := h.repos.Application.FindByJob(r.Context(), chi.URLParam(r, "id"), page)
	writePage(h, w, r, apps, err)
}

func (h *Handler) writeJob(w http.ResponseWriter, r *http.Request, job *models.Job, err error) {
	writeFound(h, w, r, "job", job, err)
}

// shortListLimit reads ?limit= for the fixed-size lists, capped like a page
func (h *Handler) shortListLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	q := newQueryParser(r)
	limit := q.Int("limit", defaultShortListSize)
	if err := q.Err(); err != nil {
		h.builder.WriteError(w, r, err)
		return 0, false
	}
	if limit < 1 {
		limit = defaultShortListSize
	}
	if limit > models.MaxPageSize {
		limit = models.MaxPageSize
	}
	return limit, true
}
