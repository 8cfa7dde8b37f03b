package models

import (
	"time"
)

// ===============================
// ENUMERATIONS
// ===============================

const (
	JobTypeFullTime = "full-time"
	JobTypePartTime = "part-time"
	JobTypeContract = "contract"

	JobStatusActive = "active"
	JobStatusPaused = "paused"
	JobStatusClosed = "closed"

	ApplicationStatusPending   = "pending"
	ApplicationStatusReviewed  = "reviewed"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusWithdrawn = "withdrawn"

	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"

	SubscriberStatusActive   = "active"
	SubscriberStatusInactive = "inactive"
)

// Fixed display orderings of the status enumerations
var (
	ApplicationStatuses = []string{
		ApplicationStatusPending,
		ApplicationStatusReviewed,
		ApplicationStatusAccepted,
		ApplicationStatusRejected,
		ApplicationStatusWithdrawn,
	}
	ContactStatuses = []string{
		ContactStatusNew,
		ContactStatusRead,
		ContactStatusReplied,
		ContactStatusArchived,
	}
)

// ReviewedStatuses are the application statuses that stamp reviewed_at on entry.
var ReviewedStatuses = []string{
	ApplicationStatusReviewed,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
}

// ===============================
// JOB MODELS
// ===============================

// Job represents a job listing
type Job struct {
	ID              string     `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Company         string     `json:"company" db:"company"`
	Location        string     `json:"location" db:"location"`
	Country         string     `json:"country" db:"country"`
	Salary          string     `json:"salary" db:"salary"`
	SalaryMin       *float64   `json:"salary_min,omitempty" db:"salary_min"`
	SalaryMax       *float64   `json:"salary_max,omitempty" db:"salary_max"`
	Type            string     `json:"type" db:"type"`
	Category        string     `json:"category" db:"category"`
	Experience      string     `json:"experience" db:"experience"`
	Description     string     `json:"description" db:"description"`
	Requirements    StringList `json:"requirements" db:"requirements"`
	Benefits        StringList `json:"benefits" db:"benefits"`
	Status          string     `json:"status" db:"status"`
	Featured        bool       `json:"featured" db:"featured"`
	ApplicantsCount int        `json:"applicants_count" db:"applicants_count"`
	Posted          string     `json:"posted" db:"posted"`
	MatchPercentage *int       `json:"match_percentage,omitempty" db:"match_percentage"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateJobInput holds the fields accepted when creating a job
type CreateJobInput struct {
	Title           string   `json:"title" validate:"required,max=255"`
	Company         string   `json:"company" validate:"required,max=255"`
	Location        string   `json:"location" validate:"max=255"`
	Country         string   `json:"country" validate:"max=100"`
	Salary          string   `json:"salary" validate:"max=100"`
	SalaryMin       *float64 `json:"salary_min,omitempty" validate:"omitempty,min=0"`
	SalaryMax       *float64 `json:"salary_max,omitempty" validate:"omitempty,min=0"`
	Type            string   `json:"type" validate:"omitempty,oneof=full-time part-time contract"`
	Category        string   `json:"category" validate:"max=100"`
	Experience      string   `json:"experience" validate:"max=100"`
	Description     string   `json:"description"`
	Requirements    []string `json:"requirements"`
	Benefits        []string `json:"benefits"`
	Status          string   `json:"status" validate:"omitempty,oneof=active paused closed"`
	Featured        bool     `json:"featured"`
	Posted          string   `json:"posted"`
	MatchPercentage *int     `json:"match_percentage,omitempty" validate:"omitempty,min=0,max=100"`
}

// UpdateJobInput is a partial update; nil fields are left untouched.
// applicants_count is deliberately absent: only application creation moves it.
type UpdateJobInput struct {
	ID              string    `json:"id" validate:"required"`
	Title           *string   `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Company         *string   `json:"company,omitempty" validate:"omitempty,min=1,max=255"`
	Location        *string   `json:"location,omitempty"`
	Country         *string   `json:"country,omitempty"`
	Salary          *string   `json:"salary,omitempty"`
	SalaryMin       *float64  `json:"salary_min,omitempty" validate:"omitempty,min=0"`
	SalaryMax       *float64  `json:"salary_max,omitempty" validate:"omitempty,min=0"`
	Type            *string   `json:"type,omitempty" validate:"omitempty,oneof=full-time part-time contract"`
	Category        *string   `json:"category,omitempty"`
	Experience      *string   `json:"experience,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Requirements    *[]string `json:"requirements,omitempty"`
	Benefits        *[]string `json:"benefits,omitempty"`
	Status          *string   `json:"status,omitempty" validate:"omitempty,oneof=active paused closed"`
	Featured        *bool     `json:"featured,omitempty"`
	Posted          *string   `json:"posted,omitempty"`
	MatchPercentage *int      `json:"match_percentage,omitempty" validate:"omitempty,min=0,max=100"`
}

// ===============================
// APPLICANT MODELS
// ===============================

// Applicant represents a candidate profile
type Applicant struct {
	ID                string     `json:"id" db:"id"`
	FirstName         string     `json:"first_name" db:"first_name"`
	LastName          string     `json:"last_name" db:"last_name"`
	Email             string     `json:"email" db:"email"`
	Phone             string     `json:"phone" db:"phone"`
	Address           string     `json:"address" db:"address"`
	City              string     `json:"city" db:"city"`
	Country           string     `json:"country" db:"country"`
	CurrentPosition   string     `json:"current_position" db:"current_position"`
	CurrentCompany    string     `json:"current_company" db:"current_company"`
	YearsExperience   string     `json:"years_experience" db:"years_experience"`
	Education         string     `json:"education" db:"education"`
	Skills            StringList `json:"skills" db:"skills"`
	Certifications    StringList `json:"certifications" db:"certifications"`
	Availability      string     `json:"availability" db:"availability"`
	SalaryExpectation string     `json:"salary_expectation" db:"salary_expectation"`
	LinkedInURL       string     `json:"linkedin_url" db:"linkedin_url"`
	ResumeURL         string     `json:"resume_url" db:"resume_url"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// FullName joins first and last name
func (a *Applicant) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// CreateApplicantInput holds the fields accepted when creating an applicant
type CreateApplicantInput struct {
	FirstName         string   `json:"first_name" validate:"required,max=100"`
	LastName          string   `json:"last_name" validate:"required,max=100"`
	Email             string   `json:"email" validate:"required,email"`
	Phone             string   `json:"phone" validate:"max=50"`
	Address           string   `json:"address"`
	City              string   `json:"city"`
	Country           string   `json:"country"`
	CurrentPosition   string   `json:"current_position"`
	CurrentCompany    string   `json:"current_company"`
	YearsExperience   string   `json:"years_experience"`
	Education         string   `json:"education"`
	Skills            []string `json:"skills"`
	Certifications    []string `json:"certifications"`
	Availability      string   `json:"availability"`
	SalaryExpectation string   `json:"salary_expectation"`
	LinkedInURL       string   `json:"linkedin_url" validate:"omitempty,url"`
	ResumeURL         string   `json:"resume_url" validate:"omitempty,url"`
}

// UpdateApplicantInput is a partial update; nil fields are left untouched.
type UpdateApplicantInput struct {
	ID                string    `json:"id" validate:"required"`
	FirstName         *string   `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName          *string   `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email             *string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone             *string   `json:"phone,omitempty"`
	Address           *string   `json:"address,omitempty"`
	City              *string   `json:"city,omitempty"`
	Country           *string   `json:"country,omitempty"`
	CurrentPosition   *string   `json:"current_position,omitempty"`
	CurrentCompany    *string   `json:"current_company,omitempty"`
	YearsExperience   *string   `json:"years_experience,omitempty"`
	Education         *string   `json:"education,omitempty"`
	Skills            *[]string `json:"skills,omitempty"`
	Certifications    *[]string `json:"certifications,omitempty"`
	Availability      *string   `json:"availability,omitempty"`
	SalaryExpectation *string   `json:"salary_expectation,omitempty"`
	LinkedInURL       *string   `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	ResumeURL         *string   `json:"resume_url,omitempty" validate:"omitempty,url"`
}

// ===============================
// APPLICATION MODELS
// ===============================

// Application links an applicant to a job
type Application struct {
	ID            string       `json:"id" db:"id"`
	JobID         string       `json:"job_id" db:"job_id"`
	ApplicantID   string       `json:"applicant_id" db:"applicant_id"`
	Status        string       `json:"status" db:"status"`
	MatchScore    *float64     `json:"match_score,omitempty" db:"match_score"`
	CoverLetter   string       `json:"cover_letter" db:"cover_letter"`
	Notes         string       `json:"notes" db:"notes"`
	SubmittedData JSONDocument `json:"submitted_data" db:"submitted_data"`
	AppliedAt     time.Time    `json:"applied_at" db:"applied_at"`
	ReviewedAt    *time.Time   `json:"reviewed_at,omitempty" db:"reviewed_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`

	// Related information (joined)
	JobTitle       string `json:"job_title" db:"job_title"`
	JobCompany     string `json:"job_company" db:"job_company"`
	ApplicantName  string `json:"applicant_name" db:"applicant_name"`
	ApplicantEmail string `json:"applicant_email" db:"applicant_email"`
}

// CreateApplicationInput holds the fields accepted when creating an application
type CreateApplicationInput struct {
	JobID         string       `json:"job_id" validate:"required"`
	ApplicantID   string       `json:"applicant_id" validate:"required"`
	Status        string       `json:"status" validate:"omitempty,oneof=pending reviewed accepted rejected withdrawn"`
	MatchScore    *float64     `json:"match_score,omitempty" validate:"omitempty,min=0,max=100"`
	CoverLetter   string       `json:"cover_letter"`
	Notes         string       `json:"notes"`
	SubmittedData JSONDocument `json:"submitted_data"`
}

// UpdateApplicationInput is a partial update; nil fields are left untouched.
// reviewed_at is not settable: it follows status transitions.
type UpdateApplicationInput struct {
	ID          string   `json:"id" validate:"required"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=pending reviewed accepted rejected withdrawn"`
	MatchScore  *float64 `json:"match_score,omitempty" validate:"omitempty,min=0,max=100"`
	CoverLetter *string  `json:"cover_letter,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

// ===============================
// CONTACT MODELS
// ===============================

// ContactMessage is a message sent through the contact form
type ContactMessage struct {
	ID          string     `json:"id" db:"id"`
	FirstName   string     `json:"first_name" db:"first_name"`
	LastName    string     `json:"last_name" db:"last_name"`
	Email       string     `json:"email" db:"email"`
	Phone       string     `json:"phone" db:"phone"`
	Subject     string     `json:"subject" db:"subject"`
	Message     string     `json:"message" db:"message"`
	Status      string     `json:"status" db:"status"`
	SubmittedAt time.Time  `json:"submitted_at" db:"submitted_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty" db:"responded_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateContactMessageInput holds the fields accepted from the contact form
type CreateContactMessageInput struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"max=50"`
	Subject   string `json:"subject" validate:"required,max=255"`
	Message   string `json:"message" validate:"required"`
}

// UpdateContactMessageInput is a partial update; nil fields are left untouched.
type UpdateContactMessageInput struct {
	ID      string  `json:"id" validate:"required"`
	Status  *string `json:"status,omitempty" validate:"omitempty,oneof=new read replied archived"`
	Subject *string `json:"subject,omitempty"`
	Message *string `json:"message,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

// ===============================
// SUBSCRIBER MODELS
// ===============================

// EmailSubscriber is a newsletter subscription
type EmailSubscriber struct {
	ID               int64     `json:"id" db:"id"`
	Email            string    `json:"email" db:"email"`
	Status           string    `json:"status" db:"status"`
	Source           string    `json:"source" db:"source"`
	SubscriptionDate time.Time `json:"subscription_date" db:"subscription_date"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// CreateSubscriberInput holds the fields accepted when subscribing
type CreateSubscriberInput struct {
	Email  string `json:"email" validate:"required,email"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
	Source string `json:"source" validate:"max=100"`
}

// UpdateSubscriberInput is a partial update; nil fields are left untouched.
type UpdateSubscriberInput struct {
	ID     int64   `json:"id" validate:"required"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Source *string `json:"source,omitempty"`
}

// ===============================
// CONTENT MODELS
// ===============================

// ContentSection is a keyed CMS record
type ContentSection struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Type      string    `json:"type" db:"type"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UpsertContentInput creates or replaces a section by id
type UpsertContentInput struct {
	ID      string `json:"id" validate:"required,max=100"`
	Title   string `json:"title" validate:"max=255"`
	Type    string `json:"type" validate:"required,max=50"`
	Content string `json:"content"`
}

// ===============================
// ADMIN MODELS
// ===============================

// Admin is an administrative credential
type Admin struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Email        string     `json:"email" db:"email"`
	Phone        string     `json:"phone" db:"phone"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// ===============================
// STATISTICS MODELS
// ===============================

// FacetCount is one group of a grouped count
type FacetCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// JobFacets groups the active-job facets used by the listing filters
type JobFacets struct {
	Categories  FacetCounts `json:"categories"`
	Types       FacetCounts `json:"types"`
	Countries   FacetCounts `json:"countries"`
	Experiences FacetCounts `json:"experiences"`
}

// DashboardStats summarises the store for the admin dashboard
type DashboardStats struct {
	TotalJobs           int64       `json:"total_jobs"`
	ActiveJobs          int64       `json:"active_jobs"`
	FeaturedJobs        int64       `json:"featured_jobs"`
	TotalApplicants     int64       `json:"total_applicants"`
	TotalApplications   int64       `json:"total_applications"`
	PendingApplications int64       `json:"pending_applications"`
	NewMessages         int64       `json:"new_messages"`
	ActiveSubscribers   int64       `json:"active_subscribers"`
	ApplicationsByState FacetCounts `json:"applications_by_status"`
	MessagesByState     FacetCounts `json:"messages_by_status"`
}
