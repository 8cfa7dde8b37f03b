package models

import (
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

// ===============================
// PAGINATION
// ===============================

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Pagination is a 1-indexed page request with an optional sort override
type Pagination struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"`
}

// Normalize fills defaults and clamps out-of-range values
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	p.SortOrder = strings.ToLower(strings.TrimSpace(p.SortOrder))
	if p.SortOrder != SortAsc {
		p.SortOrder = SortDesc
	}
	return p
}

// Offset returns (page-1)*limit
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the pagination envelope returned by every list operation
type Page[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewPage builds the envelope for one page of results
func NewPage[T any](data []T, total int64, p Pagination) *Page[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return &Page[T]{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}
}

// ===============================
// FILTERS
// ===============================
// Every field is optional. A nil pointer, an empty string or a zero number
// contributes no predicate.

// JobFilter narrows Job listings
type JobFilter struct {
	Search       *string    `json:"search,omitempty"`
	Location     *string    `json:"location,omitempty"`
	Country      *string    `json:"country,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Type         *string    `json:"type,omitempty"`
	Experience   *string    `json:"experience,omitempty"`
	Status       *string    `json:"status,omitempty"`
	Featured     *bool      `json:"featured,omitempty"`
	SalaryMin    *float64   `json:"salary_min,omitempty"`
	SalaryMax    *float64   `json:"salary_max,omitempty"`
	PostedAfter  *time.Time `json:"posted_after,omitempty"`
	PostedBefore *time.Time `json:"posted_before,omitempty"`
}

// ApplicantFilter narrows Applicant listings
type ApplicantFilter struct {
	Search          *string    `json:"search,omitempty"`
	Email           *string    `json:"email,omitempty"`
	Skill           *string    `json:"skill,omitempty"`
	YearsExperience *string    `json:"years_experience,omitempty"`
	Country         *string    `json:"country,omitempty"`
	Availability    *string    `json:"availability,omitempty"`
	CreatedAfter    *time.Time `json:"created_after,omitempty"`
	CreatedBefore   *time.Time `json:"created_before,omitempty"`
}

// ApplicationFilter narrows Application listings
type ApplicationFilter struct {
	JobID         *string    `json:"job_id,omitempty"`
	ApplicantID   *string    `json:"applicant_id,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Search        *string    `json:"search,omitempty"`
	MinScore      *float64   `json:"min_score,omitempty"`
	MaxScore      *float64   `json:"max_score,omitempty"`
	AppliedAfter  *time.Time `json:"applied_after,omitempty"`
	AppliedBefore *time.Time `json:"applied_before,omitempty"`
}

// ContactFilter narrows ContactMessage listings
type ContactFilter struct {
	Status          *string    `json:"status,omitempty"`
	Search          *string    `json:"search,omitempty"`
	SubmittedAfter  *time.Time `json:"submitted_after,omitempty"`
	SubmittedBefore *time.Time `json:"submitted_before,omitempty"`
}

// SubscriberFilter narrows EmailSubscriber listings
type SubscriberFilter struct {
	Status          *string    `json:"status,omitempty"`
	Search          *string    `json:"search,omitempty"`
	Source          *string    `json:"source,omitempty"`
	SubscribedAfter *time.Time `json:"subscribed_after,omitempty"`
}

// ContentFilter narrows ContentSection listings
type ContentFilter struct {
	Type   *string `json:"type,omitempty"`
	Search *string `json:"search,omitempty"`
}

// ===============================
// FACETS
// ===============================

// FacetCounts is an ordered sequence of grouped counts
type FacetCounts []FacetCount

// Get returns the count for key, or zero
func (f FacetCounts) Get(key string) int64 {
	for _, c := range f {
		if c.Key == key {
			return c.Count
		}
	}
	return 0
}

// Total sums every group
func (f FacetCounts) Total() int64 {
	var total int64
	for _, c := range f {
		total += c.Count
	}
	return total
}

// SortByKeys re-sorts a copy into the given fixed key order. Keys missing
// from order keep their count-descending position after the listed keys.
func (f FacetCounts) SortByKeys(order []string) FacetCounts {
	sorted := slices.Clone(f)
	rank := func(key string) int {
		if i := slices.Index(order, key); i >= 0 {
			return i
		}
		return len(order)
	}
	slices.SortStableFunc(sorted, func(a, b FacetCount) int {
		return rank(a.Key) - rank(b.Key)
	})
	return sorted
}
