package repositories

import (
	"context"
	"errors"
	"fmt"

	"hirehub/internal/models"
	"hirehub/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

const applicationColumns = `
	a.id, a.job_id, a.applicant_id, a.status, a.match_score, a.cover_letter, a.notes,
	a.submitted_data, a.applied_at, a.reviewed_at, a.updated_at,
	COALESCE(j.title, ''), COALESCE(j.company, ''),
	COALESCE(TRIM(p.first_name || ' ' || p.last_name), ''), COALESCE(p.email, '')`

const applicationFrom = `applications a
	LEFT JOIN jobs j ON j.id = a.job_id
	LEFT JOIN applicants p ON p.id = a.applicant_id`

var applicationSort = sortSpec{
	columns: map[string]string{
		"applied_at":  "a.applied_at",
		"created_at":  "a.applied_at",
		"updated_at":  "a.updated_at",
		"reviewed_at": "a.reviewed_at",
		"status":      "a.status",
		"match_score": "a.match_score",
		"job_title":   "j.title",
	},
	fallback: "a.applied_at",
	tiebreak: "a.id",
}

type applicationRepository struct {
	*BaseRepository
}

// NewApplicationRepository creates a new instance of ApplicationRepository
func NewApplicationRepository(base *BaseRepository) ApplicationRepository {
	return &applicationRepository{BaseRepository: base}
}

// ===============================
// BASIC CRUD OPERATIONS
// ===============================

// Create inserts the application and bumps the job's applicants_count in the
// same transaction, so the counter never drifts from the applications table.
func (r *applicationRepository) Create(ctx context.Context, input *models.CreateApplicationInput) (*models.Application, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, invalidInput(err)
	}

	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	status := input.Status
	if status == "" {
		status = models.ApplicationStatusPending
	}

	id := generateID(prefixApplication)
	ts := utcNow()
	var reviewedAt interface{}
	if slices.Contains(models.ReviewedStatuses, status) {
		reviewedAt = ts
	}

	var created *models.Application
	err := r.WithTransaction(ctx, func(tx *BaseRepository) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO applications (
				id, job_id, applicant_id, status, match_score, cover_letter, notes,
				submitted_data, applied_at, reviewed_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, input.JobID, input.ApplicantID, status, input.MatchScore,
			input.CoverLetter, input.Notes, input.SubmittedData, ts, reviewedAt, ts,
		)
		if err != nil {
			return classifyError("create application", err)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE jobs SET applicants_count = applicants_count + 1 WHERE id = ?", input.JobID,
		); err != nil {
			return fmt.Errorf("failed to increment applicants count: %w", err)
		}

		created, err = findApplication(ctx, tx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrForeignKey) {
			r.logger.Warn("Application references a missing job or applicant",
				zap.String("job_id", input.JobID),
				zap.String("applicant_id", input.ApplicantID),
			)
		}
		return nil, err
	}

	r.logger.Info("Application created",
		zap.String("application_id", id),
		zap.String("job_id", input.JobID),
		zap.String("applicant_id", input.ApplicantID),
	)
	r.invalidate(ctx)

	return created, nil
}

func (r *applicationRepository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()
	return findApplication(ctx, r.BaseRepository, id)
}

func findApplication(ctx context.Context, r *BaseRepository, id string) (*models.Application, error) {
	app, err := queryOne(ctx, r,
		"SELECT "+applicationColumns+" FROM "+applicationFrom+" WHERE a.id = ?", []interface{}{id}, scanApplication)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// UpdateStatus moves an application to status
func (r *applicationRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Application, error) {
	return r.Update(ctx, &models.UpdateApplicationInput{ID: id, Status: &status})
}

// Update applies the present fields. Entering reviewed, accepted or rejected
// from a different status stamps reviewed_at.
func (r *applicationRepository) Update(ctx context.Context, input *models.UpdateApplicationInput) (*models.Application, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, invalidInput(err)
	}

	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	ts := utcNow()
	set := newSet()
	if input.Status != nil {
		set.set("status", *input.Status)
		if slices.Contains(models.ReviewedStatuses, *input.Status) {
			set.expr("reviewed_at", "CASE WHEN status <> ? THEN ? ELSE reviewed_at END", *input.Status, ts)
		}
	}
	setField(set, "match_score", input.MatchScore)
	setField(set, "cover_letter", input.CoverLetter)
	setField(set, "notes", input.Notes)

	if set.empty() {
		return findApplication(ctx, r.BaseRepository, input.ID)
	}
	set.set("updated_at", ts)

	result, err := r.ExecContext(ctx, "UPDATE applications SET "+set.String()+" WHERE id = ?", append(set.args, input.ID)...)
	if err != nil {
		return nil, classifyError("update application", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}
	r.invalidate(ctx)

	return findApplication(ctx, r.BaseRepository, input.ID)
}

// Delete removes an application. applicants_count is a submission counter
// and is left as is.
func (r *applicationRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	deleted, err := r.deleteByID(ctx, "applications", id)
	if err != nil {
		return false, err
	}
	if deleted {
		r.invalidate(ctx)
	}
	return deleted, nil
}

// ===============================
// LISTING AND FILTERING
// ===============================

func (r *applicationRepository) FindAll(ctx context.Context, filter models.ApplicationFilter, page models.Pagination) (*models.Page[*models.Application], error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	where := newWhere().
		eq("a.job_id", filter.JobID).
		eq("a.applicant_id", filter.ApplicantID).
		eq("a.status", filter.Status).
		search(filter.Search, "p.first_name", "p.last_name", "p.email", "j.title", "a.cover_letter").
		gte("a.match_score", filter.MinScore).
		lte("a.match_score", filter.MaxScore).
		after("a.applied_at", filter.AppliedAfter).
		before("a.applied_at", filter.AppliedBefore)

	result, err := fetchPage(ctx, r.BaseRepository, listQuery{
		columns: applicationColumns,
		from:    applicationFrom,
		where:   where,
		sort:    applicationSort,
	}, page, scanApplication)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return result, nil
}

func (r *applicationRepository) FindByJob(ctx context.Context, jobID string, page models.Pagination) (*models.Page[*models.Application], error) {
	return r.FindAll(ctx, models.ApplicationFilter{JobID: &jobID}, page)
}

func (r *applicationRepository) FindByApplicant(ctx context.Context, applicantID string, page models.Pagination) (*models.Page[*models.Application], error) {
	return r.FindAll(ctx, models.ApplicationFilter{ApplicantID: &applicantID}, page)
}

// HasApplied reports whether the applicant already applied to the job
func (r *applicationRepository) HasApplied(ctx context.Context, jobID, applicantID string) (bool, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	var exists bool
	err := r.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM applications WHERE job_id = ? AND applicant_id = ?)",
		jobID, applicantID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existing application: %w", err)
	}
	return exists, nil
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var a models.Application
	err := row.Scan(
		&a.ID, &a.JobID, &a.ApplicantID, &a.Status, &a.MatchScore, &a.CoverLetter, &a.Notes,
		&a.SubmittedData, &a.AppliedAt, &a.ReviewedAt, &a.UpdatedAt,
		&a.JobTitle, &a.JobCompany, &a.ApplicantName, &a.ApplicantEmail,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
