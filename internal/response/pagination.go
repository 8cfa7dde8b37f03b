package response

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"hirehub/internal/models"
)

// ParsePagination reads page, limit (or page_size), sort_by (or sort) and
// sort_order (or order) from a query string. Malformed numbers are rejected;
// out-of-range values are clamped by models.Pagination.Normalize.
func ParsePagination(query url.Values) (models.Pagination, error) {
	var p models.Pagination

	if pageStr := firstOf(query, "page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return p, NewValidationError(fmt.Sprintf("invalid page parameter: %s", pageStr), err)
		}
		p.Page = page
	}

	if sizeStr := firstOf(query, "limit", "page_size"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return p, NewValidationError(fmt.Sprintf("invalid limit parameter: %s", sizeStr), err)
		}
		p.Limit = size
	}

	p.SortBy = firstOf(query, "sort_by", "sort")

	if order := strings.ToLower(firstOf(query, "sort_order", "order")); order != "" {
		if order != models.SortAsc && order != models.SortDesc {
			return p, NewValidationError("sort_order must be either 'asc' or 'desc'", nil)
		}
		p.SortOrder = order
	}

	return p.Normalize(), nil
}

// firstOf returns the first non-blank value among keys
func firstOf(query url.Values, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(query.Get(key)); v != "" {
			return v
		}
	}
	return ""
}
