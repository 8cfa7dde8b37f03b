package repositories

import (
	"context"
	"fmt"
	"strings"

	"hirehub/internal/models"
	"hirehub/internal/validation"

	"go.uber.org/zap"
)

const applicantColumns = `
	id, first_name, last_name, email, phone, address, city, country,
	current_position, current_company, years_experience, education,
	skills, certifications, availability, salary_expectation,
	linkedin_url, resume_url, created_at, updated_at`

var applicantSort = sortSpec{
	columns: map[string]string{
		"created_at":       "created_at",
		"updated_at":       "updated_at",
		"first_name":       "first_name",
		"last_name":        "last_name",
		"email":            "email",
		"country":          "country",
		"years_experience": "years_experience",
	},
	fallback: "created_at",
	tiebreak: "id",
}

type applicantRepository struct {
	*BaseRepository
}

// NewApplicantRepository creates a new instance of ApplicantRepository
func NewApplicantRepository(base *BaseRepository) ApplicantRepository {
	return &applicantRepository{BaseRepository: base}
}

func (r *applicantRepository) Create(ctx context.Context, input *models.CreateApplicantInput) (*models.Applicant, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, invalidInput(err)
	}

	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	id := generateID(prefixApplicant)
	ts := utcNow()

	_, err := r.ExecContext(ctx, `
		INSERT INTO applicants (
			id, first_name, last_name, email, phone, address, city, country,
			current_position, current_company, years_experience, education,
			skills, certifications, availability, salary_expectation,
			linkedin_url, resume_url, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, input.FirstName, input.LastName, strings.TrimSpace(input.Email), input.Phone,
		input.Address, input.City, input.Country, input.CurrentPosition, input.CurrentCompany,
		input.YearsExperience, input.Education,
		models.EncodeStringList(input.Skills), models.EncodeStringList(input.Certifications),
		input.Availability, input.SalaryExpectation, input.LinkedInURL, input.ResumeURL, ts, ts,
	)
	if err != nil {
		return nil, classifyError("create applicant", err)
	}

	r.logger.Info("Applicant created", zap.String("applicant_id", id))
	r.invalidate(ctx)

	return r.findOne(ctx, "id = ?", id)
}

func (r *applicantRepository) FindByID(ctx context.Context, id string) (*models.Applicant, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail matches case-insensitively and returns the oldest profile
// when legacy data holds duplicates.
func (r *applicantRepository) FindByEmail(ctx context.Context, email string) (*models.Applicant, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	ctx, cancel := r.operationContext(ctx)
	defer cancel()
	return r.findOne(ctx, "email = ? COLLATE NOCASE ORDER BY created_at ASC, id ASC LIMIT 1", email)
}

func (r *applicantRepository) findOne(ctx context.Context, predicate string, args ...interface{}) (*models.Applicant, error) {
	applicant, err := queryOne(ctx, r.BaseRepository,
		"SELECT "+applicantColumns+" FROM applicants WHERE "+predicate, args, scanApplicant)
	if err != nil {
		return nil, fmt.Errorf("failed to get applicant: %w", err)
	}
	return applicant, nil
}

func (r *applicantRepository) FindAll(ctx context.Context, filter models.ApplicantFilter, page models.Pagination) (*models.Page[*models.Applicant], error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	where := newWhere().
		search(filter.Search, "first_name", "last_name", "email", "current_position", "current_company").
		eq("email", filter.Email).
		jsonContains("skills", filter.Skill).
		eq("years_experience", filter.YearsExperience).
		eq("country", filter.Country).
		eq("availability", filter.Availability).
		after("created_at", filter.CreatedAfter).
		before("created_at", filter.CreatedBefore)

	result, err := fetchPage(ctx, r.BaseRepository, listQuery{
		columns: applicantColumns,
		from:    "applicants",
		where:   where,
		sort:    applicantSort,
	}, page, scanApplicant)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}
	return result, nil
}

// FindBySkill lists applicants whose skills array holds skill
func (r *applicantRepository) FindBySkill(ctx context.Context, skill string, page models.Pagination) (*models.Page[*models.Applicant], error) {
	return r.FindAll(ctx, models.ApplicantFilter{Skill: &skill}, page)
}

func (r *applicantRepository) Update(ctx context.Context, input *models.UpdateApplicantInput) (*models.Applicant, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, invalidInput(err)
	}

	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	set := newSet()
	setField(set, "first_name", input.FirstName)
	setField(set, "last_name", input.LastName)
	setField(set, "email", input.Email)
	setField(set, "phone", input.Phone)
	setField(set, "address", input.Address)
	setField(set, "city", input.City)
	setField(set, "country", input.Country)
	setField(set, "current_position", input.CurrentPosition)
	setField(set, "current_company", input.CurrentCompany)
	setField(set, "years_experience", input.YearsExperience)
	setField(set, "education", input.Education)
	set.list("skills", input.Skills)
	set.list("certifications", input.Certifications)
	setField(set, "availability", input.Availability)
	setField(set, "salary_expectation", input.SalaryExpectation)
	setField(set, "linkedin_url", input.LinkedInURL)
	setField(set, "resume_url", input.ResumeURL)

	if set.empty() {
		return r.findOne(ctx, "id = ?", input.ID)
	}
	set.set("updated_at", utcNow())

	result, err := r.ExecContext(ctx, "UPDATE applicants SET "+set.String()+" WHERE id = ?", append(set.args, input.ID)...)
	if err != nil {
		return nil, classifyError("update applicant", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}
	r.invalidate(ctx)

	return r.findOne(ctx, "id = ?", input.ID)
}

// Delete removes an applicant together with their applications
func (r *applicantRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	deleted, err := r.deleteByID(ctx, "applicants", id)
	if err != nil {
		return false, err
	}
	if deleted {
		r.logger.Info("Applicant deleted", zap.String("applicant_id", id))
		r.invalidate(ctx)
	}
	return deleted, nil
}

func scanApplicant(row rowScanner) (*models.Applicant, error) {
	var a models.Applicant
	err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.Address, &a.City, &a.Country,
		&a.CurrentPosition, &a.CurrentCompany, &a.YearsExperience, &a.Education,
		&a.Skills, &a.Certifications, &a.Availability, &a.SalaryExpectation,
		&a.LinkedInURL, &a.ResumeURL, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
