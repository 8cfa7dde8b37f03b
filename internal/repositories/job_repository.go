// file: internal/repositories/job_repository.go
package repositories

import (
	"context"
	"fmt"

	"hirehub/internal/models"
	"hirehub/internal/validation"

	"go.uber.org/zap"
)

const jobColumns = `
	j.id, j.title, j.company, j.location, j.country, j.salary, j.salary_min, j.salary_max,
	j.type, j.category, j.experience, j.description, j.requirements, j.benefits,
	j.status, j.featured, j.applicants_count, j.posted, j.match_percentage,
	j.created_at, j.updated_at`

var jobSort = sortSpec{
	columns: map[string]string{
		"created_at":       "j.created_at",
		"updated_at":       "j.updated_at",
		"title":            "j.title",
		"company":          "j.company",
		"location":         "j.location",
		"category":         "j.category",
		"type":             "j.type",
		"status":           "j.status",
		"salary_min":       "j.salary_min",
		"salary_max":       "j.salary_max",
		"applicants_count": "j.applicants_count",
		"featured":         "j.featured",
	},
	fallback: "j.created_at",
	tiebreak: "j.id",
}

// jobRepository implements JobRepository
type jobRepository struct {
	*BaseRepository
}

// NewJobRepository creates a new instance of JobRepository
func NewJobRepository(base *BaseRepository) JobRepository {
	return &jobRepository{BaseRepository: base}
}

// ===============================
// BASIC CRUD OPERATIONS
// ===============================

// Create inserts a job and returns the stored row
func (r *jobRepository) Create(ctx context.Context, input *models.CreateJobInput) (*models.Job, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, invalidInput(err)
	}

	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	jobType := input.Type
	if jobType == "" {
		jobType = models.JobTypeFullTime
	}
	status := input.Status
	if status == "" {
		status = models.JobStatusActive
	}

	id := generateID(prefixJob)
	ts := utcNow()

	_, err := r.ExecContext(ctx, `
		INSERT INTO jobs (
			id, title, company, location, country, salary, salary_min, salary_max,
			type, category, experience, description, requirements, benefits,
			status, featured, applicants_count, posted, match_percentage,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?)`,
		id, input.Title, input.Company, input.Location, input.Country, input.Salary,
		input.SalaryMin, input.SalaryMax, jobType, input.Category, input.Experience,
		input.Description, models.EncodeStringList(input.Requirements), models.EncodeStringList(input.Benefits),
		status, input.Featured, input.Posted, input.MatchPercentage, ts, ts,
	)
	if err != nil {
		r.logger.Error("Failed to create job",
			zap.Error(err),
			zap.String("title", input.Title),
			zap.String("company", input.Company),
		)
		return nil, classifyError("create job", err)
	}

	r.logger.Info("Job created successfully",
		zap.String("job_id", id),
		zap.String("title", input.Title),
	)
	r.invalidate(ctx)

	return r.findByID(ctx, id)
}

// FindByID retrieves a job by ID
func (r *jobRepository) FindByID(ctx context.Context, id string) (*models.Job, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()
	return r.findByID(ctx, id)
}

func (r *jobRepository) findByID(ctx context.Context, id string) (*models.Job, error) {
	job, err := queryOne(ctx, r.BaseRepository,
		"SELECT "+jobColumns+" FROM jobs j WHERE j.id = ?", []interface{}{id}, scanJob)
	if err != nil {
		return nil, fmt.Errorf("failed to get job by ID: %w", err)
	}
	return job, nil
}

// Update applies the fields present in input and refreshes updated_at.
// An input with no fields re-reads the current row.
func (r *jobRepository) Update(ctx context.Context, input *models.UpdateJobInput) (*models.Job, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, invalidInput(err)
	}

	set := newSet()
	setField(set, "title", input.Title)
	setField(set, "company", input.Company)
	setField(set, "location", input.Location)
	setField(set, "country", input.Country)
	setField(set, "salary", input.Salary)
	setField(set, "salary_min", input.SalaryMin)
	setField(set, "salary_max", input.SalaryMax)
	setField(set, "type", input.Type)
	setField(set, "category", input.Category)
	setField(set, "experience", input.Experience)
	setField(set, "description", input.Description)
	set.list("requirements", input.Requirements)
	set.list("benefits", input.Benefits)
	setField(set, "status", input.Status)
	setField(set, "featured", input.Featured)
	setField(set, "posted", input.Posted)
	setField(set, "match_percentage", input.MatchPercentage)

	return r.applyUpdate(ctx, input.ID, set)
}

func (r *jobRepository) applyUpdate(ctx context.Context, id string, set *setBuilder) (*models.Job, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	if set.empty() {
		return r.findByID(ctx, id)
	}
	set.set("updated_at", utcNow())

	result, err := r.ExecContext(ctx, "UPDATE jobs SET "+set.String()+" WHERE id = ?", append(set.args, id)...)
	if err != nil {
		return nil, classifyError("update job", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}

	r.logger.Info("Job updated successfully", zap.String("job_id", id))
	r.invalidate(ctx)

	return r.findByID(ctx, id)
}

// Delete removes a job; its applications go with it
func (r *jobRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	deleted, err := r.deleteByID(ctx, "jobs", id)
	if err != nil {
		return false, err
	}
	if deleted {
		r.logger.Info("Job deleted", zap.String("job_id", id))
		r.invalidate(ctx)
	}
	return deleted, nil
}

// Deactivate pauses a listing; the row and its applications are kept
func (r *jobRepository) Deactivate(ctx context.Context, id string) (*models.Job, error) {
	set := newSet()
	set.set("status", models.JobStatusPaused)
	return r.applyUpdate(ctx, id, set)
}

// Reactivate puts a paused or closed listing back on the board
func (r *jobRepository) Reactivate(ctx context.Context, id string) (*models.Job, error) {
	set := newSet()
	set.set("status", models.JobStatusActive)
	return r.applyUpdate(ctx, id, set)
}

// ===============================
// LISTING AND FILTERING
// ===============================

// FindAll lists jobs matching every present filter field
func (r *jobRepository) FindAll(ctx context.Context, filter models.JobFilter, page models.Pagination) (*models.Page[*models.Job], error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	where := newWhere().
		search(filter.Search, "j.title", "j.description", "j.company").
		like("j.location", filter.Location).
		eq("j.country", filter.Country).
		eq("j.category", filter.Category).
		eq("j.type", filter.Type).
		eq("j.experience", filter.Experience).
		eq("j.status", filter.Status).
		eqBool("j.featured", filter.Featured).
		gte("j.salary_min", filter.SalaryMin).
		lte("j.salary_max", filter.SalaryMax).
		after("j.created_at", filter.PostedAfter).
		before("j.created_at", filter.PostedBefore)

	result, err := fetchPage(ctx, r.BaseRepository, listQuery{
		columns: jobColumns,
		from:    "jobs j",
		where:   where,
		sort:    jobSort,
	}, page, scanJob)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return result, nil
}

// FindFeatured returns the newest active featured jobs
func (r *jobRepository) FindFeatured(ctx context.Context, limit int) ([]*models.Job, error) {
	return r.listActive(ctx, "j.featured = 1", limit)
}

// FindRecent returns the newest active jobs
func (r *jobRepository) FindRecent(ctx context.Context, limit int) ([]*models.Job, error) {
	return r.listActive(ctx, "", limit)
}

func (r *jobRepository) listActive(ctx context.Context, extra string, limit int) ([]*models.Job, error) {
	ctx, cancel := r.operationContext(ctx)
	defer cancel()

	where := newWhere().add("j.status = ?", models.JobStatusActive)
	if extra != "" {
		where.add(extra)
	}

	query := "SELECT " + jobColumns + " FROM jobs j" + where.String() +
		jobSort.orderBy(models.Pagination{}) + " LIMIT ?"
	jobs, err := queryList(ctx, r.BaseRepository, query, append(where.Args(), clampLimit(limit)), scanJob)
	if err != nil {
		return nil, fmt.Errorf("failed to list active jobs: %w", err)
	}
	return jobs, nil
}

// ===============================
// HELPER METHODS
// ===============================

func scanJob(row rowScanner) (*models.Job, error) {
	var job models.Job
	err := row.Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &job.Country, &job.Salary,
		&job.SalaryMin, &job.SalaryMax, &job.Type, &job.Category, &job.Experience,
		&job.Description, &job.Requirements, &job.Benefits, &job.Status, &job.Featured,
		&job.ApplicantsCount, &job.Posted, &job.MatchPercentage, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
