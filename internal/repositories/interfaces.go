package repositories

import (
	"context"

	"hirehub/internal/models"
)

// ===============================
// CORE REPOSITORY INTERFACES
// ===============================
// Finders return (nil, nil) when nothing matches and Delete reports false for
// a missing id. Update returns (nil, nil) when the id does not exist.

// JobRepository defines the contract for job listing data operations
type JobRepository interface {
	Create(ctx context.Context, input *models.CreateJobInput) (*models.Job, error)
	FindByID(ctx context.Context, id string) (*models.Job, error)
	FindAll(ctx context.Context, filter models.JobFilter, page models.Pagination) (*models.Page[*models.Job], error)
	Update(ctx context.Context, input *models.UpdateJobInput) (*models.Job, error)
	Delete(ctx context.Context, id string) (bool, error)

	// Deactivate pauses a listing without removing it; Reactivate undoes it
	Deactivate(ctx context.Context, id string) (*models.Job, error)
	Reactivate(ctx context.Context, id string) (*models.Job, error)
	FindFeatured(ctx context.Context, limit int) ([]*models.Job, error)
	FindRecent(ctx context.Context, limit int) ([]*models.Job, error)
}

// ApplicantRepository defines the contract for candidate profile operations
type ApplicantRepository interface {
	Create(ctx context.Context, input *models.CreateApplicantInput) (*models.Applicant, error)
	FindByID(ctx context.Context, id string) (*models.Applicant, error)
	FindByEmail(ctx context.Context, email string) (*models.Applicant, error)
	FindAll(ctx context.Context, filter models.ApplicantFilter, page models.Pagination) (*models.Page[*models.Applicant], error)
	FindBySkill(ctx context.Context, skill string, page models.Pagination) (*models.Page[*models.Applicant], error)
	Update(ctx context.Context, input *models.UpdateApplicantInput) (*models.Applicant, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ApplicationRepository defines the contract for job application operations
type ApplicationRepository interface {
	// Create inserts the application and increments the job's applicants_count atomically
	Create(ctx context.Context, input *models.CreateApplicationInput) (*models.Application, error)
	FindByID(ctx context.Context, id string) (*models.Application, error)
	FindAll(ctx context.Context, filter models.ApplicationFilter, page models.Pagination) (*models.Page[*models.Application], error)
	FindByJob(ctx context.Context, jobID string, page models.Pagination) (*models.Page[*models.Application], error)
	FindByApplicant(ctx context.Context, applicantID string, page models.Pagination) (*models.Page[*models.Application], error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Application, error)
	Update(ctx context.Context, input *models.UpdateApplicationInput) (*models.Application, error)
	Delete(ctx context.Context, id string) (bool, error)
	HasApplied(ctx context.Context, jobID, applicantID string) (bool, error)
}

// ContactMessageRepository defines the contract for contact form messages
type ContactMessageRepository interface {
	Create(ctx context.Context, input *models.CreateContactMessageInput) (*models.ContactMessage, error)
	FindByID(ctx context.Context, id string) (*models.ContactMessage, error)
	FindAll(ctx context.Context, filter models.ContactFilter, page models.Pagination) (*models.Page[*models.ContactMessage], error)
	FindRecent(ctx context.Context, limit int) ([]*models.ContactMessage, error)
	FindByStatus(ctx context.Context, status string, page models.Pagination) (*models.Page[*models.ContactMessage], error)
	Update(ctx context.Context, input *models.UpdateContactMessageInput) (*models.ContactMessage, error)
	MarkAsRead(ctx context.Context, id string) (*models.ContactMessage, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// EmailSubscriberRepository defines the contract for newsletter subscriptions
type EmailSubscriberRepository interface {
	// Create returns an error wrapping ErrDuplicate when the email is already subscribed
	Create(ctx context.Context, input *models.CreateSubscriberInput) (*models.EmailSubscriber, error)
	FindByID(ctx context.Context, id int64) (*models.EmailSubscriber, error)
	FindByEmail(ctx context.Context, email string) (*models.EmailSubscriber, error)
	FindAll(ctx context.Context, filter models.SubscriberFilter, page models.Pagination) (*models.Page[*models.EmailSubscriber], error)
	Unsubscribe(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, input *models.UpdateSubscriberInput) (*models.EmailSubscriber, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ActiveEmails(ctx context.Context) ([]string, error)
}

// ContentSectionRepository defines the contract for CMS sections
type ContentSectionRepository interface {
	Upsert(ctx context.Context, input *models.UpsertContentInput) (*models.ContentSection, error)
	FindByID(ctx context.Context, id string) (*models.ContentSection, error)
	FindAll(ctx context.Context, filter models.ContentFilter, page models.Pagination) (*models.Page[*models.ContentSection], error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AdminRepository defines the contract for administrative credentials
type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	// Create hashes password before storing it
	Create(ctx context.Context, username, password, email, phone string) (*models.Admin, error)
	RecordLogin(ctx context.Context, id int64) error
	// Authenticate returns the admin when password matches, nil otherwise
	Authenticate(ctx context.Context, username, password string) (*models.Admin, error)
}

// StatsRepository defines grouped-count queries. Job facets only count
// active listings so they agree with the public listing path.
type StatsRepository interface {
	JobsByCategory(ctx context.Context) (models.FacetCounts, error)
	JobsByType(ctx context.Context) (models.FacetCounts, error)
	JobsByCountry(ctx context.Context) (models.FacetCounts, error)
	JobsByExperience(ctx context.Context) (models.FacetCounts, error)
	JobFacets(ctx context.Context) (*models.JobFacets, error)
	ApplicationsByStatus(ctx context.Context) (models.FacetCounts, error)
	MessagesByStatus(ctx context.Context) (models.FacetCounts, error)
	SubscribersByStatus(ctx context.Context) (models.FacetCounts, error)
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}
