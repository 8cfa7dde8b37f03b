package api

import (
	"net/http"
	"strings"

	"hirehub/internal/events"
	"hirehub/internal/models"
	"hirehub/internal/repositories"
	"hirehub/internal/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// submitApplicationRequest is the public application form: the candidate
// profile and the application itself in one document.
type submitApplicationRequest struct {
	JobID         string                      `json:"job_id"`
	Applicant     models.CreateApplicantInput `json:"applicant"`
	MatchScore    *float64                    `json:"match_score,omitempty"`
	CoverLetter   string                      `json:"cover_letter"`
	SubmittedData models.JSONDocument         `json:"submitted_data"`
}

// SubmitApplication handles POST /api/applications. The applicant is looked
// up by email and created when new; the application and the job's counter
// are written in the same transaction.
func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	var req submitApplicationRequest
	if err := unmarshalBody(body, &req); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	if strings.TrimSpace(req.JobID) == "" {
		h.builder.WriteError(w, r, response.NewValidationError("job_id is required", nil))
		return
	}
	// Without an explicit snapshot the whole form is kept as submitted
	if len(req.SubmittedData) == 0 {
		req.SubmittedData = models.JSONDocument(body)
	}

	ctx := r.Context()
	var (
		created      *models.Application
		jobTitle     string
		newApplicant bool
	)
	err = h.repos.WithTransaction(ctx, func(tx *repositories.Collection) error {
		job, err := tx.Job.FindByID(ctx, req.JobID)
		if err != nil {
			return err
		}
		if job == nil {
			return notFound("job")
		}
		if job.Status != models.JobStatusActive {
			return response.NewConflictError("job is not accepting applications", nil)
		}
		jobTitle = job.Title

		applicant, err := tx.Applicant.FindByEmail(ctx, req.Applicant.Email)
		if err != nil {
			return err
		}
		if applicant == nil {
			if applicant, err = tx.Applicant.Create(ctx, &req.Applicant); err != nil {
				return err
			}
			newApplicant = true
		} else {
			applied, err := tx.Application.HasApplied(ctx, job.ID, applicant.ID)
			if err != nil {
				return err
			}
			if applied {
				return response.NewConflictError("applicant has already applied to this job", nil)
			}
		}

		created, err = tx.Application.Create(ctx, &models.CreateApplicationInput{
			JobID:         job.ID,
			ApplicantID:   applicant.ID,
			MatchScore:    req.MatchScore,
			CoverLetter:   req.CoverLetter,
			SubmittedData: req.SubmittedData,
		})
		return err
	})
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.logger.Info("Application submitted",
		zap.String("application_id", created.ID),
		zap.String("job_id", created.JobID),
		zap.String("applicant_id", created.ApplicantID),
	)
	h.publish(r, events.NewApplicationSubmittedEvent(
		created.ID, created.JobID, jobTitle, created.ApplicantID, created.ApplicantEmail, newApplicant,
	))
	h.builder.WriteCreated(w, r, created)
}

// ListApplications handles GET /api/applications
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	q := newQueryParser(r)
	filter := models.ApplicationFilter{
		JobID:         q.String("job_id"),
		ApplicantID:   q.String("applicant_id"),
		Status:        q.String("status"),
		Search:        q.String("search"),
		MinScore:      q.Float("min_score"),
		MaxScore:      q.Float("max_score"),
		AppliedAfter:  q.Time("applied_after"),
		AppliedBefore: q.Time("applied_before"),
	}
	if err := q.Err(); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	page, ok := h.pagination(w, r)
	if !ok {
		return
	}

	apps, err := h.repos.Application.FindAll(r.Context(), filter, page)
	writePage(h, w, r, apps, err)
}

// GetApplication handles GET /api/applications/{id}
func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := h.repos.Application.FindByID(r.Context(), chi.URLParam(r, "id"))
	writeFound(h, w, r, "application", app, err)
}

// UpdateApplication handles PATCH /api/applications/{id}
func (h *Handler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	var input models.UpdateApplicationInput
	if err := decodeJSON(r, &input); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	input.ID = chi.URLParam(r, "id")

	app, err := h.repos.Application.Update(r.Context(), &input)
	writeFound(h, w, r, "application", app, err)
}

// DeleteApplication handles DELETE /api/applications/{id}
func (h *Handler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.repos.Application.Delete(r.Context(), chi.URLParam(r, "id"))
	h.writeDeleted(w, r, "application", deleted, err)
}
